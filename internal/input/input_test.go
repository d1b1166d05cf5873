package input

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"strings"
	"testing"

	"linux-shadertoy/internal/gfx"
	"linux-shadertoy/internal/shadertoy"
)

type mapFetcher map[string][]byte

func (m mapFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	data, ok := m[url]
	if !ok {
		return nil, fmt.Errorf("not found: %s", url)
	}
	return data, nil
}

// encodePNG builds a w x h image whose red channel holds the row index.
func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(y), G: uint8(x), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestNew(t *testing.T) {
	tests := []struct {
		ctype string
		want  string
		err   error
	}{
		{shadertoy.CTypeTexture, TypeTexture, nil},
		{shadertoy.CTypeVolume, TypeVolume, nil},
		{shadertoy.CTypeCubemap, TypeCubemap, nil},
		{shadertoy.CTypeMusic, TypeAudio, nil},
		{shadertoy.CTypeMusicStream, TypeAudio, nil},
		{shadertoy.CTypeMic, TypeAudio, nil},
		{shadertoy.CTypeBuffer, "", ErrUnsupported},
		{"keyboard", "", ErrUnsupported},
		{"video", "", ErrUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.ctype, func(t *testing.T) {
			in, err := New(shadertoy.Input{CType: tt.ctype, Src: "/media/a/x.png"}, nil)
			if !errors.Is(err, tt.err) {
				t.Fatalf("err = %v, want %v", err, tt.err)
			}
			if err != nil {
				return
			}
			if in.Type() != tt.want {
				t.Errorf("Type() = %q, want %q", in.Type(), tt.want)
			}
			if in.CType() != tt.ctype {
				t.Errorf("CType() = %q, want %q", in.CType(), tt.ctype)
			}
			if in.OutputTexture() == nil {
				t.Error("OutputTexture() is nil before load")
			}
		})
	}
}

func TestNewSampler(t *testing.T) {
	in, err := New(shadertoy.Input{
		CType:   shadertoy.CTypeTexture,
		Sampler: shadertoy.Sampler{Filter: "nearest", Wrap: "repeat", VFlip: true},
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	s := in.OutputTexture().Sampler
	if s.Filter != gfx.FilterNearest || s.Wrap != gfx.WrapRepeat || !s.FlipY {
		t.Errorf("sampler = %+v", s)
	}
}

func TestTextureUpdateData(t *testing.T) {
	fetcher := mapFetcher{"a.png": encodePNG(t, 3, 2)}

	for _, flip := range []bool{false, true} {
		t.Run(fmt.Sprint("flip=", flip), func(t *testing.T) {
			tex := NewTexture(shadertoy.CTypeTexture, "a.png", gfx.Sampler{FlipY: flip}, fetcher)
			before := tex.OutputTexture().Version()

			if err := Load(context.Background(), tex); err != nil {
				t.Fatal(err)
			}

			img, version := tex.OutputTexture().Snapshot()
			if version == before {
				t.Error("version not bumped")
			}
			if img.Width != 3 || img.Height != 2 {
				t.Fatalf("size = %dx%d", img.Width, img.Height)
			}
			if got := tex.OutputSize(); got[0] != 3 || got[1] != 2 || got[2] != 1 {
				t.Errorf("OutputSize() = %v", got)
			}

			firstRow := img.Pixels[0]
			want := byte(0)
			if flip {
				want = 1
			}
			if firstRow != want {
				t.Errorf("first row red = %d, want %d", firstRow, want)
			}
		})
	}
}

func TestTextureUpdateDataFailure(t *testing.T) {
	tex := NewTexture(shadertoy.CTypeTexture, "", gfx.Sampler{}, mapFetcher{"bad.png": []byte("nope")})
	before, version := tex.OutputTexture().Snapshot()

	if err := tex.UpdateData(context.Background(), Data{URL: "missing.png"}); err == nil {
		t.Error("missing media: expected error")
	}
	if err := tex.UpdateData(context.Background(), Data{URL: "bad.png"}); err == nil {
		t.Error("undecodable media: expected error")
	}
	if err := tex.UpdateData(context.Background(), Data{}); !errors.Is(err, ErrNoSource) {
		t.Errorf("empty url: err = %v", err)
	}

	after, v := tex.OutputTexture().Snapshot()
	if v != version || after.Width != before.Width {
		t.Error("failed load replaced the placeholder")
	}

	noFetcher := NewTexture(shadertoy.CTypeTexture, "a.png", gfx.Sampler{}, nil)
	if err := Load(context.Background(), noFetcher); !errors.Is(err, ErrNoFetcher) {
		t.Errorf("no fetcher: err = %v", err)
	}
}

func TestLoadAsync(t *testing.T) {
	tex := NewTexture(shadertoy.CTypeTexture, "", gfx.Sampler{}, mapFetcher{"a.png": encodePNG(t, 4, 4)})

	if err := <-LoadAsync(context.Background(), tex, Data{URL: "a.png"}); err != nil {
		t.Fatal(err)
	}
	if w, h, _ := tex.OutputTexture().Size(); w != 4 || h != 4 {
		t.Errorf("size = %dx%d", w, h)
	}
	if err := <-LoadAsync(context.Background(), tex, Data{URL: "gone.png"}); err == nil {
		t.Error("expected error")
	}
}

func TestRequest(t *testing.T) {
	tests := []struct {
		name string
		in   Input
		ok   bool
		url  string
		urls int
	}{
		{"texture", NewTexture(shadertoy.CTypeTexture, "a.png", gfx.Sampler{}, nil), true, "a.png", 0},
		{"no url", NewTexture(shadertoy.CTypeTexture, "", gfx.Sampler{}, nil), false, "", 0},
		{"cubemap", NewCubemap(shadertoy.CTypeCubemap, "cube.png", gfx.Sampler{}, nil), true, "", 6},
		{"volume", NewVolume(shadertoy.CTypeVolume, "v.bin", gfx.Sampler{}, nil), true, "v.bin", 0},
		{"audio", NewAudio(shadertoy.CTypeMusic, "song.mp3", gfx.Sampler{}), false, "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, ok := Request(tt.in)
			if ok != tt.ok || data.URL != tt.url || len(data.URLs) != tt.urls {
				t.Errorf("Request() = %+v, %v", data, ok)
			}
		})
	}
}

func TestCubemapFaceURLs(t *testing.T) {
	got := CubemapFaceURLs("/media/a/cube.png")
	want := []string{
		"/media/a/cube.png",
		"/media/a/cube_1.png",
		"/media/a/cube_2.png",
		"/media/a/cube_3.png",
		"/media/a/cube_4.png",
		"/media/a/cube_5.png",
	}
	if len(got) != len(want) {
		t.Fatalf("got %d urls", len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("url[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestCubemapUpdateData(t *testing.T) {
	fetcher := mapFetcher{}
	urls := CubemapFaceURLs("c.png")
	for _, u := range urls {
		fetcher[u] = encodePNG(t, 4, 4)
	}
	fetcher["small.png"] = encodePNG(t, 2, 2)

	cube := NewCubemap(shadertoy.CTypeCubemap, "c.png", gfx.Sampler{}, fetcher)
	if cube.OutputTexture().Kind != gfx.KindCube {
		t.Fatalf("kind = %v", cube.OutputTexture().Kind)
	}

	for _, n := range []int{0, 5, 7} {
		err := cube.UpdateData(context.Background(), Data{URLs: make([]string, n)})
		if !errors.Is(err, ErrInvalidCubemapURLs) {
			t.Errorf("%d urls: err = %v", n, err)
		}
	}

	mismatched := append([]string{}, urls...)
	mismatched[3] = "small.png"
	if err := cube.UpdateData(context.Background(), Data{URLs: mismatched}); err == nil {
		t.Error("mismatched face sizes: expected error")
	}

	if err := Load(context.Background(), cube); err != nil {
		t.Fatal(err)
	}
	img, _ := cube.OutputTexture().Snapshot()
	if err := img.Validate(gfx.KindCube); err != nil {
		t.Fatal(err)
	}
	if img.Width != 4 || img.Height != 4 {
		t.Errorf("size = %dx%d", img.Width, img.Height)
	}
}

func volumeFile(w, h, d, channels int, format uint16, payload []byte) []byte {
	header := make([]byte, volumeHeaderSize)
	copy(header, "BIN\x00")
	binary.LittleEndian.PutUint32(header[4:], uint32(w))
	binary.LittleEndian.PutUint32(header[8:], uint32(h))
	binary.LittleEndian.PutUint32(header[12:], uint32(d))
	header[16] = byte(channels)
	binary.LittleEndian.PutUint16(header[18:], format)
	return append(header, payload...)
}

func TestParseVolume(t *testing.T) {
	t.Run("bytes", func(t *testing.T) {
		img, err := ParseVolume(volumeFile(2, 2, 2, 2, volumeFormatUint8, make([]byte, 16)))
		if err != nil {
			t.Fatal(err)
		}
		if img.Format != gfx.FormatRG8 || img.UnpackAlignment != 2 {
			t.Errorf("format = %v, alignment = %d", img.Format, img.UnpackAlignment)
		}
		if img.Width != 2 || img.Height != 2 || img.Depth != 2 {
			t.Errorf("size = %dx%dx%d", img.Width, img.Height, img.Depth)
		}
		if err := img.Validate(gfx.Kind3D); err != nil {
			t.Error(err)
		}
	})

	t.Run("float", func(t *testing.T) {
		payload := make([]byte, 4*4)
		for i := 0; i < 4; i++ {
			binary.LittleEndian.PutUint32(payload[i*4:], math.Float32bits(float32(i)+0.5))
		}
		img, err := ParseVolume(volumeFile(2, 2, 1, 1, volumeFormatFloat32, payload))
		if err != nil {
			t.Fatal(err)
		}
		if img.Format != gfx.FormatR32F || img.UnpackAlignment != 1 {
			t.Errorf("format = %v, alignment = %d", img.Format, img.UnpackAlignment)
		}
		if img.Floats[3] != 3.5 {
			t.Errorf("Floats[3] = %v", img.Floats[3])
		}
	})

	bad := map[string][]byte{
		"short header":  make([]byte, 10),
		"zero size":     volumeFile(0, 1, 1, 1, volumeFormatUint8, nil),
		"five channels": volumeFile(1, 1, 1, 5, volumeFormatUint8, make([]byte, 5)),
		"short payload": volumeFile(4, 4, 4, 4, volumeFormatUint8, make([]byte, 10)),
		"short floats":  volumeFile(2, 1, 1, 1, volumeFormatFloat32, make([]byte, 4)),
		"format":        volumeFile(1, 1, 1, 1, 3, make([]byte, 4)),
		"wrapping size": volumeFile(1<<31, 1<<31, 3, 1, volumeFormatUint8, make([]byte, 4)),
		"zero product":  volumeFile(1<<31, 1<<31, 4, 1, volumeFormatUint8, nil),
		"huge floats":   volumeFile(1<<31, 1<<31, 4, 4, volumeFormatFloat32, nil),
		"too deep":      volumeFile(1, 1, maxVolumeSize+1, 1, volumeFormatUint8, make([]byte, maxVolumeSize+1)),
	}
	for name, data := range bad {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseVolume(data); !errors.Is(err, ErrVolumeHeader) {
				t.Errorf("err = %v", err)
			}
		})
	}
}

func TestVolume(t *testing.T) {
	fetcher := mapFetcher{"v.bin": volumeFile(4, 2, 3, 4, volumeFormatUint8, make([]byte, 4*2*3*4))}
	vol := NewVolume(shadertoy.CTypeVolume, "v.bin", gfx.Sampler{Filter: gfx.FilterMipmap}, fetcher)

	if vol.OutputTexture().Sampler.Filter != gfx.FilterLinear {
		t.Error("mipmap filter not downgraded to linear")
	}
	if err := Load(context.Background(), vol); err != nil {
		t.Fatal(err)
	}
	if got := vol.OutputSize(); got[0] != 4 || got[1] != 2 || got[2] != 3 {
		t.Errorf("OutputSize() = %v", got)
	}
}

func TestVolumeCorrupt(t *testing.T) {
	fetcher := mapFetcher{"bad.bin": volumeFile(1<<31, 1<<31, 4, 1, volumeFormatUint8, nil)}
	vol := NewVolume(shadertoy.CTypeVolume, "bad.bin", gfx.Sampler{}, fetcher)
	_, v0 := vol.OutputTexture().Snapshot()

	err := <-LoadAsync(context.Background(), vol, Data{URL: "bad.bin"})
	if !errors.Is(err, ErrVolumeHeader) {
		t.Fatalf("err = %v, want ErrVolumeHeader", err)
	}
	if _, v1 := vol.OutputTexture().Snapshot(); v1 != v0 {
		t.Error("placeholder replaced after a failed load")
	}
	if got := vol.OutputSize(); got[0] != 1 || got[1] != 1 || got[2] != 1 {
		t.Errorf("OutputSize() = %v", got)
	}
}

func TestAudio(t *testing.T) {
	a := NewAudio(shadertoy.CTypeMusic, "song.mp3", gfx.Sampler{})
	if got := a.OutputSize(); got[0] != 512 || got[1] != 2 || got[2] != 1 {
		t.Errorf("OutputSize() = %v", got)
	}
	img, v0 := a.OutputTexture().Snapshot()
	if img.Format != gfx.FormatR8 || len(img.Pixels) != 1024 {
		t.Fatalf("initial image = %v, %d bytes", img.Format, len(img.Pixels))
	}

	freq := bytes.Repeat([]byte{7}, 512)
	wave := bytes.Repeat([]byte{9}, 512)
	if err := a.UpdateData(context.Background(), Data{Frequency: freq, Waveform: wave}); err != nil {
		t.Fatal(err)
	}
	a.Update(1.5)

	img, v1 := a.OutputTexture().Snapshot()
	if v1 == v0 {
		t.Error("version not bumped after Update")
	}
	if img.Pixels[0] != 7 || img.Pixels[512] != 9 {
		t.Errorf("rows = %d, %d", img.Pixels[0], img.Pixels[512])
	}
	if a.OutputTime() != 1.5 {
		t.Errorf("OutputTime() = %v", a.OutputTime())
	}

	// Only the frequency row changes; the waveform row is kept.
	_ = a.UpdateData(context.Background(), Data{Frequency: bytes.Repeat([]byte{3}, 512)})
	a.Update(2)
	img, _ = a.OutputTexture().Snapshot()
	if img.Pixels[0] != 3 || img.Pixels[512] != 9 {
		t.Errorf("rows = %d, %d", img.Pixels[0], img.Pixels[512])
	}

	// No new data, no new upload.
	_, v2 := a.OutputTexture().Snapshot()
	a.Update(3)
	if _, v3 := a.OutputTexture().Snapshot(); v3 != v2 {
		t.Error("version bumped without new data")
	}

	// A player's position wins over the shader time while it reports one.
	_ = a.UpdateData(context.Background(), Data{Playing: true, PlaybackTime: 42.25})
	a.Update(4)
	if a.OutputTime() != 42.25 {
		t.Errorf("OutputTime() while playing = %v, want 42.25", a.OutputTime())
	}
	_ = a.UpdateData(context.Background(), Data{})
	if a.OutputTime() != 4 {
		t.Errorf("OutputTime() after playback = %v, want 4", a.OutputTime())
	}
}

func TestAnalyzer(t *testing.T) {
	t.Run("silence", func(t *testing.T) {
		a := NewAnalyzer()
		a.Write(make([]float32, analyzerSize))
		freq, wave := a.Analyze()
		if len(freq) != AudioBins || len(wave) != AudioBins {
			t.Fatalf("len = %d, %d", len(freq), len(wave))
		}
		for i := range freq {
			if freq[i] != 0 || wave[i] != 128 {
				t.Fatalf("bin %d = %d, %d", i, freq[i], wave[i])
			}
		}
	})

	t.Run("sine", func(t *testing.T) {
		const bin = 32
		samples := make([]float32, analyzerSize)
		for i := range samples {
			samples[i] = float32(math.Sin(2 * math.Pi * bin * float64(i) / analyzerSize))
		}
		a := NewAnalyzer()
		a.Write(samples)
		freq, wave := a.Analyze()
		if freq[bin] != 255 {
			t.Errorf("peak bin = %d, want 255", freq[bin])
		}
		if freq[300] != 0 {
			t.Errorf("far bin = %d, want 0", freq[300])
		}
		var lo, hi byte = 255, 0
		for _, w := range wave {
			lo, hi = min(lo, w), max(hi, w)
		}
		if lo > 2 || hi < 253 {
			t.Errorf("waveform range = %d..%d", lo, hi)
		}
	})

	t.Run("interleaved", func(t *testing.T) {
		a := NewAnalyzer()
		a.WriteInterleaved([]float32{1, -1, 0.5, 0.5}, 2)
		_, wave := a.Analyze()
		if wave[AudioBins-2] != 128 || wave[AudioBins-1] != 192 {
			t.Errorf("tail = %d, %d", wave[AudioBins-2], wave[AudioBins-1])
		}
	})

	t.Run("frames from a short slice", func(t *testing.T) {
		mix := []float32{0.5, 0.5, -0.5, -0.5, 0.25, 0.25, 0, 0}
		a := NewAnalyzer()
		a.WriteFrames(mix[:4], 4, 2)
		_, wave := a.Analyze()
		want := []byte{192, 64, 160, 128}
		if got := wave[AudioBins-4:]; !bytes.Equal(got, want) {
			t.Errorf("tail = %v, want %v", got, want)
		}
	})

	t.Run("frames from a full slice", func(t *testing.T) {
		a := NewAnalyzer()
		a.WriteFrames([]float32{1, 1, 0, 0, -1, -1}, 2, 2)
		_, wave := a.Analyze()
		if wave[AudioBins-3] != 128 || wave[AudioBins-2] != 255 || wave[AudioBins-1] != 128 {
			t.Errorf("tail = %v", wave[AudioBins-3:])
		}
	})
}

func TestUnimplemented(t *testing.T) {
	u := Unimplemented{Name: "video"}

	if u.Type() != "video" || u.CType() != "video" || u.WantURL() != "" {
		t.Errorf("Type/CType/WantURL = %q %q %q", u.Type(), u.CType(), u.WantURL())
	}

	calls := map[string]func(){
		"OutputTexture": func() { u.OutputTexture() },
		"OutputSize":    func() { u.OutputSize() },
		"OutputTime":    func() { u.OutputTime() },
		"Update":        func() { u.Update(1) },
		"UpdateData":    func() { _ = u.UpdateData(context.Background(), Data{}) },
	}
	for method, call := range calls {
		t.Run(method, func(t *testing.T) {
			defer func() {
				r := recover()
				if r == nil {
					t.Fatal("did not panic")
				}
				msg, _ := r.(string)
				if !strings.Contains(msg, "video."+method) {
					t.Errorf("panic = %v, want it to name video.%s", r, method)
				}
			}()
			call()
		})
	}
}
