package input

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"linux-shadertoy/internal/gfx"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/sync/errgroup"
)

var ErrInvalidCubemapURLs = errors.New("input: cubemap needs exactly 6 urls")

// CubemapFaceURLs expands a cubemap source into its six face URLs using the site's
// naming: name.ext, name_1.ext ... name_5.ext.
func CubemapFaceURLs(src string) []string {
	ext := path.Ext(src)
	base := strings.TrimSuffix(src, ext)
	urls := make([]string, 6)
	urls[0] = src
	for i := 1; i < 6; i++ {
		urls[i] = fmt.Sprintf("%s_%d%s", base, i, ext)
	}
	return urls
}

// Cubemap is a six-face environment texture input.
type Cubemap struct {
	ctype   string
	wantURL string
	fetcher Fetcher
	texture *gfx.Texture
}

func NewCubemap(ctype, url string, sampler gfx.Sampler, fetcher Fetcher) *Cubemap {
	face := placeholder()
	img := gfx.Image{Format: face.Format, Width: face.Width, Height: face.Height, Depth: 1, UnpackAlignment: 4}
	for i := range img.Faces {
		img.Faces[i] = face.Pixels
	}
	return &Cubemap{
		ctype:   ctype,
		wantURL: url,
		fetcher: fetcher,
		texture: gfx.NewTexture("cubemap:"+url, gfx.KindCube, sampler, img),
	}
}

func (c *Cubemap) Type() string                { return TypeCubemap }
func (c *Cubemap) CType() string               { return c.ctype }
func (c *Cubemap) WantURL() string             { return c.wantURL }
func (c *Cubemap) OutputTexture() *gfx.Texture { return c.texture }
func (c *Cubemap) OutputTime() float32         { return 0 }
func (c *Cubemap) Update(float32)              {}

func (c *Cubemap) OutputSize() mgl32.Vec3 {
	w, h, _ := c.texture.Size()
	return mgl32.Vec3{float32(w), float32(h), 1}
}

// UpdateData loads all six faces from data.URLs. Either every face is replaced or
// none is.
func (c *Cubemap) UpdateData(ctx context.Context, data Data) error {
	if len(data.URLs) != 6 {
		return fmt.Errorf("%w, got %d", ErrInvalidCubemapURLs, len(data.URLs))
	}
	if c.fetcher == nil {
		return ErrNoFetcher
	}

	var faces [6]gfx.Image
	g, ctx := errgroup.WithContext(ctx)
	for i, url := range data.URLs {
		g.Go(func() error {
			raw, err := c.fetcher.Fetch(ctx, url)
			if err != nil {
				return err
			}
			img, err := DecodeImage(raw)
			if err != nil {
				return fmt.Errorf("cubemap face %d: %w", i, err)
			}
			faces[i] = toImage(img, c.texture.Sampler.FlipY)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	img := gfx.Image{
		Format:          gfx.FormatRGBA8,
		Width:           faces[0].Width,
		Height:          faces[0].Height,
		Depth:           1,
		UnpackAlignment: 4,
	}
	for i, face := range faces {
		if face.Width != img.Width || face.Height != img.Height {
			return fmt.Errorf("cubemap face %d is %dx%d, want %dx%d", i, face.Width, face.Height, img.Width, img.Height)
		}
		img.Faces[i] = face.Pixels
	}

	c.texture.SetImage(img)
	inputLog.Debug("Cubemap %s loaded (%dx%d)", data.URLs[0], img.Width, img.Height)
	return nil
}
