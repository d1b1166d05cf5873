package gfx_test

import (
	"testing"

	"linux-shadertoy/internal/gfx"
)

func TestParseSampler(t *testing.T) {
	filters := map[string]gfx.Filter{
		"nearest": gfx.FilterNearest,
		"Mipmap":  gfx.FilterMipmap,
		"linear":  gfx.FilterLinear,
		"":        gfx.FilterLinear,
	}
	for name, want := range filters {
		if got := gfx.ParseFilter(name); got != want {
			t.Errorf("ParseFilter(%q) = %v, want %v", name, got, want)
		}
	}
	if gfx.ParseWrap("repeat") != gfx.WrapRepeat || gfx.ParseWrap("clamp") != gfx.WrapClamp {
		t.Error("ParseWrap mismatch")
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		format   gfx.Format
		channels int
		bytes    int
	}{
		{gfx.FormatR8, 1, 1},
		{gfx.FormatRGB8, 3, 3},
		{gfx.FormatRGBA8, 4, 4},
		{gfx.FormatR32F, 1, 4},
		{gfx.FormatRGBA32F, 4, 16},
	}
	for _, tt := range tests {
		if got := tt.format.Channels(); got != tt.channels {
			t.Errorf("%v.Channels() = %d, want %d", tt.format, got, tt.channels)
		}
		if got := tt.format.BytesPerPixel(); got != tt.bytes {
			t.Errorf("%v.BytesPerPixel() = %d, want %d", tt.format, got, tt.bytes)
		}
	}
}

func TestImageValidate(t *testing.T) {
	tests := []struct {
		name    string
		img     gfx.Image
		kind    gfx.Kind
		wantErr bool
	}{
		{"rgba", gfx.Image{Format: gfx.FormatRGBA8, Width: 2, Height: 2, Pixels: make([]byte, 16)}, gfx.Kind2D, false},
		{"short", gfx.Image{Format: gfx.FormatRGBA8, Width: 2, Height: 2, Pixels: make([]byte, 15)}, gfx.Kind2D, true},
		{"empty", gfx.Image{Format: gfx.FormatR8}, gfx.Kind2D, true},
		{"volume", gfx.Image{Format: gfx.FormatR8, Width: 2, Height: 2, Depth: 3, Pixels: make([]byte, 12)}, gfx.Kind3D, false},
		{"volume short", gfx.Image{Format: gfx.FormatR8, Width: 2, Height: 2, Depth: 3, Pixels: make([]byte, 8)}, gfx.Kind3D, true},
		{"float", gfx.Image{Format: gfx.FormatRG32F, Width: 1, Height: 1, Floats: []float32{1, 2}}, gfx.Kind2D, false},
		{"float in bytes", gfx.Image{Format: gfx.FormatRG32F, Width: 1, Height: 1, Pixels: make([]byte, 8)}, gfx.Kind2D, true},
		{"wrapping size", gfx.Image{Format: gfx.FormatR8, Width: 1 << 31, Height: 1 << 31, Depth: 4}, gfx.Kind3D, true},
		{"too wide", gfx.Image{Format: gfx.FormatR8, Width: gfx.MaxImageSize + 1, Height: 1, Pixels: make([]byte, gfx.MaxImageSize+1)}, gfx.Kind2D, true},
		{"cube missing face", gfx.Image{Format: gfx.FormatR8, Width: 1, Height: 1, Faces: [6][]byte{{1}, {1}, {1}, {1}, {1}}}, gfx.KindCube, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.img.Validate(tt.kind)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTextureVersion(t *testing.T) {
	tex := gfx.NewTexture("t", gfx.Kind2D, gfx.Sampler{}, gfx.Image{Format: gfx.FormatR8, Width: 1, Height: 1, Pixels: []byte{0}})
	if v := tex.Version(); v != 1 {
		t.Fatalf("Version() = %d after construction, want 1", v)
	}

	tex.SetImage(gfx.Image{Format: gfx.FormatR8, Width: 3, Height: 2, Depth: 4, Pixels: make([]byte, 24)})
	img, v := tex.Snapshot()
	if v != 2 || img.Width != 3 {
		t.Errorf("Snapshot() = %dx%d v%d, want 3x2 v2", img.Width, img.Height, v)
	}
	if w, h, d := tex.Size(); w != 3 || h != 2 || d != 4 {
		t.Errorf("Size() = %d,%d,%d, want 3,2,4", w, h, d)
	}
	if tex.RenderTarget() != nil {
		t.Error("uploaded texture reports a render target")
	}
}

func TestRenderTarget(t *testing.T) {
	rt := gfx.NewRenderTarget("buf", 64, 32, gfx.FormatRGBA32F, gfx.Sampler{Wrap: gfx.WrapRepeat})
	if rt.Texture.RenderTarget() != rt {
		t.Fatal("target texture does not point back at its target")
	}
	if w, h, d := rt.Texture.Size(); w != 64 || h != 32 || d != 1 {
		t.Errorf("Size() = %d,%d,%d, want 64,32,1", w, h, d)
	}
	if rt.Texture.Sampler.Wrap != gfx.WrapRepeat || rt.Texture.Kind != gfx.Kind2D {
		t.Errorf("texture = %+v", rt.Texture)
	}
}
