package input

import (
	"context"
	"fmt"

	"linux-shadertoy/internal/gfx"

	"github.com/go-gl/mathgl/mgl32"
)

// Texture is a static 2-D image input.
type Texture struct {
	ctype   string
	wantURL string
	fetcher Fetcher
	texture *gfx.Texture
}

func NewTexture(ctype, url string, sampler gfx.Sampler, fetcher Fetcher) *Texture {
	return &Texture{
		ctype:   ctype,
		wantURL: url,
		fetcher: fetcher,
		texture: gfx.NewTexture("texture:"+url, gfx.Kind2D, sampler, placeholder()),
	}
}

func (t *Texture) Type() string                { return TypeTexture }
func (t *Texture) CType() string               { return t.ctype }
func (t *Texture) WantURL() string             { return t.wantURL }
func (t *Texture) OutputTexture() *gfx.Texture { return t.texture }
func (t *Texture) OutputTime() float32         { return 0 }
func (t *Texture) Update(float32)              {}

func (t *Texture) OutputSize() mgl32.Vec3 {
	w, h, _ := t.texture.Size()
	return mgl32.Vec3{float32(w), float32(h), 1}
}

// UpdateData fetches and decodes data.URL. On failure the previous image stays in place.
func (t *Texture) UpdateData(ctx context.Context, data Data) error {
	if data.URL == "" {
		return ErrNoSource
	}
	if t.fetcher == nil {
		return ErrNoFetcher
	}

	raw, err := t.fetcher.Fetch(ctx, data.URL)
	if err != nil {
		return err
	}
	img, err := DecodeImage(raw)
	if err != nil {
		return fmt.Errorf("texture %s: %w", data.URL, err)
	}

	t.texture.SetImage(toImage(img, t.texture.Sampler.FlipY))
	inputLog.Debug("Texture %s loaded (%dx%d)", data.URL, img.Rect.Dx(), img.Rect.Dy())
	return nil
}
