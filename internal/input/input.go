// Package input implements the non-pass producers a pass channel can sample:
// static textures, audio spectra, cubemaps and volumes.
package input

import (
	"context"
	"errors"
	"fmt"

	"linux-shadertoy/internal/gfx"
	"linux-shadertoy/internal/shadertoy"
	"linux-shadertoy/internal/utils"

	"github.com/go-gl/mathgl/mgl32"
)

var inputLog = utils.NewLogger("Input")

var (
	ErrUnsupported = errors.New("input: unsupported input type")
	ErrNoFetcher   = errors.New("input: no media fetcher configured")
	ErrNoSource    = errors.New("input: no media source")
)

// Adapter types.
const (
	TypeTexture = "texture"
	TypeAudio   = "audio"
	TypeCubemap = "cubemap"
	TypeVolume  = "volume"
)

// Source is anything a pass channel can be connected to.
type Source interface {
	OutputTexture() *gfx.Texture
	OutputSize() mgl32.Vec3
	OutputTime() float32
}

// Input is an adapter that turns a media resource into a sampled texture.
type Input interface {
	Source

	// Type is the adapter kind (TypeTexture, ...), CType the definition's content type.
	Type() string
	CType() string

	// WantURL is the media location declared by the definition, if any.
	WantURL() string

	// Update is called once per frame with the elapsed playback time.
	Update(time float32)

	// UpdateData replaces the adapter's content. It may block on I/O and is safe
	// to call from another goroutine; the new pixels are picked up on the next frame.
	UpdateData(ctx context.Context, data Data) error
}

// Data is new content for an adapter. Which fields are read depends on the adapter.
type Data struct {
	URL  string
	URLs []string

	Frequency []byte
	Waveform  []byte

	// Playing marks PlaybackTime as the position of the media behind an audio input.
	Playing      bool
	PlaybackTime float32
}

// Fetcher loads media bytes for a URL or path.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// New creates the adapter for a definition input.
// Buffer inputs are produced by passes and keyboard, video and webcam inputs are not
// supported; both return ErrUnsupported.
func New(in shadertoy.Input, fetcher Fetcher) (Input, error) {
	sampler := gfx.Sampler{
		Filter: gfx.ParseFilter(in.Sampler.Filter),
		Wrap:   gfx.ParseWrap(in.Sampler.Wrap),
		FlipY:  bool(in.Sampler.VFlip),
	}

	switch in.CType {
	case shadertoy.CTypeTexture:
		return NewTexture(in.CType, in.URL(), sampler, fetcher), nil
	case shadertoy.CTypeVolume:
		return NewVolume(in.CType, in.URL(), sampler, fetcher), nil
	case shadertoy.CTypeCubemap:
		return NewCubemap(in.CType, in.URL(), sampler, fetcher), nil
	case shadertoy.CTypeMusic, shadertoy.CTypeMusicStream, shadertoy.CTypeMic:
		return NewAudio(in.CType, in.URL(), sampler), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupported, in.CType)
}

// Request returns the data that loads the media the adapter was declared with.
// It reports false when there is nothing to fetch.
func Request(in Input) (Data, bool) {
	if in.WantURL() == "" {
		return Data{}, false
	}
	switch in.(type) {
	case *Cubemap:
		return Data{URLs: CubemapFaceURLs(in.WantURL())}, true
	case *Audio:
		// Audio content is pushed by the host's player, not fetched.
		return Data{}, false
	}
	return Data{URL: in.WantURL()}, true
}

// Load fetches the media the adapter was declared with.
func Load(ctx context.Context, in Input) error {
	data, ok := Request(in)
	if !ok {
		return nil
	}
	return in.UpdateData(ctx, data)
}

// LoadAsync runs UpdateData on its own goroutine. The channel yields exactly one
// value: nil on success or the load error.
func LoadAsync(ctx context.Context, in Input, data Data) <-chan error {
	done := make(chan error, 1)
	go func() {
		done <- in.UpdateData(ctx, data)
		close(done)
	}()
	return done
}

// Unimplemented is the stand-in for capabilities no adapter provides.
// Every method panics.
type Unimplemented struct {
	Name string
}

func (u Unimplemented) fail(method string) string {
	return fmt.Sprintf("input: %s.%s not implemented", u.Name, method)
}

func (u Unimplemented) OutputTexture() *gfx.Texture { panic(u.fail("OutputTexture")) }
func (u Unimplemented) OutputSize() mgl32.Vec3      { panic(u.fail("OutputSize")) }
func (u Unimplemented) OutputTime() float32         { panic(u.fail("OutputTime")) }
func (u Unimplemented) Type() string                { return u.Name }
func (u Unimplemented) CType() string               { return u.Name }
func (u Unimplemented) WantURL() string             { return "" }
func (u Unimplemented) Update(float32)              { panic(u.fail("Update")) }

func (u Unimplemented) UpdateData(context.Context, Data) error {
	panic(u.fail("UpdateData"))
}

// placeholder is shown until media arrives: a magenta and black checker.
func placeholder() gfx.Image {
	const size = 8
	pix := make([]byte, size*size*4)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			i := (y*size + x) * 4
			if (x/2+y/2)%2 == 0 {
				pix[i], pix[i+2] = 255, 255
			}
			pix[i+3] = 255
		}
	}
	return gfx.Image{Format: gfx.FormatRGBA8, Width: size, Height: size, Depth: 1, Pixels: pix, UnpackAlignment: 4}
}
