package engine

import (
	"unsafe"

	"linux-shadertoy/internal/gfx"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/gl/v3.3-core/gl"
)

type glTexture struct {
	id      uint32
	target  uint32
	version uint64
	width   int
	height  int
	format  gfx.Format
}

func (t *glTexture) rlTexture() rl.Texture2D {
	return rl.Texture2D{
		ID:      t.id,
		Width:   int32(t.width),
		Height:  int32(t.height),
		Mipmaps: 1,
		Format:  pixelFormat(t.format),
	}
}

func (t *glTexture) unload() {
	if t.id != 0 {
		gl.DeleteTextures(1, &t.id)
		t.id = 0
	}
}

type glTarget struct {
	rt    rl.RenderTexture2D
	float bool
}

func (t *glTarget) unload() {
	if t.float {
		rl.UnloadFramebuffer(t.rt.ID)
		gl.DeleteTextures(1, &t.rt.Texture.ID)
		return
	}
	rl.UnloadRenderTexture(t.rt)
}

// texture returns the uploaded copy of t, re-uploading when its version moved.
func (r *Renderer) texture(t *gfx.Texture) *glTexture {
	tex, ok := r.textures[t]
	if ok && tex.version == t.Version() {
		return tex
	}
	if !ok {
		tex = &glTexture{target: bindTarget(t.Kind)}
		gl.GenTextures(1, &tex.id)
		r.textures[t] = tex
	}

	img, version := t.Snapshot()
	if err := img.Validate(t.Kind); err != nil {
		engineLog.Warn("texture %s not uploaded: %v", t.Name, err)
		tex.version = version
		return tex
	}

	internal, format, xtype := glFormat(img.Format)
	gl.BindTexture(tex.target, tex.id)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, unpackAlignment(img.UnpackAlignment))

	w, h := int32(img.Width), int32(img.Height)
	switch t.Kind {
	case gfx.Kind3D:
		gl.TexImage3D(gl.TEXTURE_3D, 0, internal, w, h, int32(max(img.Depth, 1)), 0, format, xtype, pixelPtr(img))
	case gfx.KindCube:
		for i, face := range img.Faces {
			gl.TexImage2D(gl.TEXTURE_CUBE_MAP_POSITIVE_X+uint32(i), 0, internal, w, h, 0, format, xtype, gl.Ptr(face))
		}
	default:
		gl.TexImage2D(gl.TEXTURE_2D, 0, internal, w, h, 0, format, xtype, pixelPtr(img))
	}

	applySampler(tex.target, t.Sampler)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)
	gl.BindTexture(tex.target, 0)

	tex.version = version
	tex.width, tex.height, tex.format = img.Width, img.Height, img.Format
	engineLog.Debug("uploaded %s texture %s (%dx%d, v%d)", t.Kind, t.Name, img.Width, img.Height, version)
	return tex
}

// target returns the framebuffer for rt, creating it on first use. Float targets
// get a float colour texture attached to a bare framebuffer.
func (r *Renderer) target(rt *gfx.RenderTarget) *glTarget {
	if t, ok := r.targets[rt]; ok {
		return t
	}

	w, h := int32(rt.Width), int32(rt.Height)
	t := &glTarget{float: rt.Format.IsFloat()}
	if t.float {
		var id uint32
		internal, format, xtype := glFormat(rt.Format)
		gl.GenTextures(1, &id)
		gl.BindTexture(gl.TEXTURE_2D, id)
		gl.TexImage2D(gl.TEXTURE_2D, 0, internal, w, h, 0, format, xtype, nil)
		gl.BindTexture(gl.TEXTURE_2D, 0)

		fbo := rl.LoadFramebuffer()
		rl.FramebufferAttach(fbo, id, rl.AttachmentColorChannel0, rl.AttachmentTexture2d, 0)
		if !rl.FramebufferComplete(fbo) {
			engineLog.Error("framebuffer for %s is incomplete", rt.Name)
		}
		t.rt = rl.RenderTexture2D{
			ID:      fbo,
			Texture: rl.NewTexture2D(id, w, h, 1, rl.UncompressedR32g32b32a32),
		}
	} else {
		t.rt = rl.LoadRenderTexture(w, h)
	}

	rl.SetTextureFilter(t.rt.Texture, textureFilter(rt.Texture.Sampler.Filter))
	rl.SetTextureWrap(t.rt.Texture, textureWrap(rt.Texture.Sampler.Wrap))

	// Targets start cleared; a fresh framebuffer may hold garbage.
	rl.BeginTextureMode(t.rt)
	rl.ClearBackground(rl.Blank)
	rl.EndTextureMode()

	r.targets[rt] = t
	engineLog.Debug("created target %s (%dx%d, float %v)", rt.Name, rt.Width, rt.Height, t.float)
	return t
}

func bindTarget(kind gfx.Kind) uint32 {
	switch kind {
	case gfx.Kind3D:
		return gl.TEXTURE_3D
	case gfx.KindCube:
		return gl.TEXTURE_CUBE_MAP
	}
	return gl.TEXTURE_2D
}

func glFormat(f gfx.Format) (internal int32, format, xtype uint32) {
	switch f {
	case gfx.FormatR8:
		return gl.R8, gl.RED, gl.UNSIGNED_BYTE
	case gfx.FormatRG8:
		return gl.RG8, gl.RG, gl.UNSIGNED_BYTE
	case gfx.FormatRGB8:
		return gl.RGB8, gl.RGB, gl.UNSIGNED_BYTE
	case gfx.FormatR32F:
		return gl.R32F, gl.RED, gl.FLOAT
	case gfx.FormatRG32F:
		return gl.RG32F, gl.RG, gl.FLOAT
	case gfx.FormatRGB32F:
		return gl.RGB32F, gl.RGB, gl.FLOAT
	case gfx.FormatRGBA32F:
		return gl.RGBA32F, gl.RGBA, gl.FLOAT
	}
	return gl.RGBA8, gl.RGBA, gl.UNSIGNED_BYTE
}

func pixelFormat(f gfx.Format) rl.PixelFormat {
	switch f {
	case gfx.FormatR8:
		return rl.UncompressedGrayscale
	case gfx.FormatRG8:
		return rl.UncompressedGrayAlpha
	case gfx.FormatRGB8:
		return rl.UncompressedR8g8b8
	case gfx.FormatR32F:
		return rl.UncompressedR32
	case gfx.FormatRGB32F:
		return rl.UncompressedR32g32b32
	case gfx.FormatRG32F, gfx.FormatRGBA32F:
		return rl.UncompressedR32g32b32a32
	}
	return rl.UncompressedR8g8b8a8
}

func pixelPtr(img gfx.Image) unsafe.Pointer {
	if img.Format.IsFloat() {
		if len(img.Floats) == 0 {
			return nil
		}
		return gl.Ptr(img.Floats)
	}
	if len(img.Pixels) == 0 {
		return nil
	}
	return gl.Ptr(img.Pixels)
}

// GL accepts 1, 2, 4 and 8; tightly packed three-channel rows need 1.
func unpackAlignment(n int) int32 {
	switch n {
	case 1, 2, 4, 8:
		return int32(n)
	}
	return 1
}

func applySampler(target uint32, s gfx.Sampler) {
	minFilter, magFilter := int32(gl.LINEAR), int32(gl.LINEAR)
	switch s.Filter {
	case gfx.FilterNearest:
		minFilter, magFilter = gl.NEAREST, gl.NEAREST
	case gfx.FilterMipmap:
		if target != gl.TEXTURE_3D {
			gl.GenerateMipmap(target)
			minFilter = gl.LINEAR_MIPMAP_LINEAR
		}
	}
	gl.TexParameteri(target, gl.TEXTURE_MIN_FILTER, minFilter)
	gl.TexParameteri(target, gl.TEXTURE_MAG_FILTER, magFilter)

	wrap := int32(gl.CLAMP_TO_EDGE)
	if s.Wrap == gfx.WrapRepeat && target != gl.TEXTURE_CUBE_MAP {
		wrap = gl.REPEAT
	}
	gl.TexParameteri(target, gl.TEXTURE_WRAP_S, wrap)
	gl.TexParameteri(target, gl.TEXTURE_WRAP_T, wrap)
	if target != gl.TEXTURE_2D {
		gl.TexParameteri(target, gl.TEXTURE_WRAP_R, wrap)
	}
}

func textureFilter(f gfx.Filter) rl.TextureFilterMode {
	switch f {
	case gfx.FilterNearest:
		return rl.FilterPoint
	case gfx.FilterMipmap:
		return rl.FilterTrilinear
	}
	return rl.FilterBilinear
}

func textureWrap(w gfx.Wrap) rl.TextureWrapMode {
	if w == gfx.WrapRepeat {
		return rl.WrapRepeat
	}
	return rl.WrapClamp
}
