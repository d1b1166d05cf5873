// Package gfx holds the host-independent graphics resources the pass graph works with.
//
// Textures keep their pixels on the CPU side together with a version counter. Writers
// (input adapters, possibly on a loader goroutine) replace the image and bump the version;
// the host renderer compares versions at bind time and re-uploads, so GPU work stays on
// the render thread.
package gfx

import (
	"fmt"
	"strings"
	"sync"
)

type Kind int

const (
	Kind2D Kind = iota
	Kind3D
	KindCube
)

func (k Kind) String() string {
	switch k {
	case Kind2D:
		return "2d"
	case Kind3D:
		return "3d"
	case KindCube:
		return "cube"
	}
	return "unknown"
}

// SamplerType returns the GLSL sampler type used to declare a channel of this kind.
func (k Kind) SamplerType() string {
	switch k {
	case Kind3D:
		return "sampler3D"
	case KindCube:
		return "samplerCube"
	}
	return "sampler2D"
}

type Format int

const (
	FormatRGBA8 Format = iota
	FormatR8
	FormatRG8
	FormatRGB8
	FormatR32F
	FormatRG32F
	FormatRGB32F
	FormatRGBA32F
)

func (f Format) Channels() int {
	switch f {
	case FormatR8, FormatR32F:
		return 1
	case FormatRG8, FormatRG32F:
		return 2
	case FormatRGB8, FormatRGB32F:
		return 3
	}
	return 4
}

func (f Format) IsFloat() bool {
	return f >= FormatR32F
}

// BytesPerPixel is the packed size of one texel.
func (f Format) BytesPerPixel() int {
	if f.IsFloat() {
		return f.Channels() * 4
	}
	return f.Channels()
}

type Filter int

const (
	FilterLinear Filter = iota
	FilterNearest
	FilterMipmap
)

// ParseFilter accepts the sampler filter names used in shader definitions.
func ParseFilter(name string) Filter {
	switch strings.ToLower(name) {
	case "nearest":
		return FilterNearest
	case "mipmap":
		return FilterMipmap
	}
	return FilterLinear
}

type Wrap int

const (
	WrapClamp Wrap = iota
	WrapRepeat
)

func ParseWrap(name string) Wrap {
	if strings.ToLower(name) == "repeat" {
		return WrapRepeat
	}
	return WrapClamp
}

type Sampler struct {
	Filter Filter
	Wrap   Wrap
	FlipY  bool
}

// MaxImageSize bounds every image dimension so texel counts cannot overflow.
const MaxImageSize = 1 << 15

// Image is a CPU-side texture payload. Pixels holds byte formats, Floats holds the
// float formats. A cubemap stores its six faces in Faces (+X, -X, +Y, -Y, +Z, -Z).
type Image struct {
	Format Format
	Width  int
	Height int
	Depth  int
	Pixels []byte
	Floats []float32
	Faces  [6][]byte

	// UnpackAlignment is the row alignment the payload was packed with (1, 2, 3 or 4).
	UnpackAlignment int
}

// Validate checks the payload length against the declared dimensions.
func (img Image) Validate(kind Kind) error {
	if img.Width <= 0 || img.Height <= 0 || img.Width > MaxImageSize || img.Height > MaxImageSize || img.Depth > MaxImageSize {
		return fmt.Errorf("gfx: invalid image size %dx%dx%d", img.Width, img.Height, img.Depth)
	}
	depth := max(img.Depth, 1)
	texels := img.Width * img.Height * depth * img.Format.Channels()

	switch {
	case kind == KindCube:
		for i, face := range img.Faces {
			if len(face) < img.Width*img.Height*img.Format.Channels() {
				return fmt.Errorf("gfx: cubemap face %d has %d bytes, want %d", i, len(face), img.Width*img.Height*img.Format.Channels())
			}
		}
	case img.Format.IsFloat():
		if len(img.Floats) < texels {
			return fmt.Errorf("gfx: float image has %d samples, want %d", len(img.Floats), texels)
		}
	default:
		if len(img.Pixels) < texels {
			return fmt.Errorf("gfx: image has %d bytes, want %d", len(img.Pixels), texels)
		}
	}
	return nil
}

// Texture is a sampled resource: either uploaded from an Image or backed by a RenderTarget.
type Texture struct {
	Name    string
	Kind    Kind
	Sampler Sampler

	mu      sync.Mutex
	image   Image
	version uint64
	target  *RenderTarget
}

func NewTexture(name string, kind Kind, sampler Sampler, img Image) *Texture {
	t := &Texture{Name: name, Kind: kind, Sampler: sampler}
	t.SetImage(img)
	return t
}

// SetImage replaces the payload and marks the texture for re-upload.
func (t *Texture) SetImage(img Image) {
	t.mu.Lock()
	t.image = img
	t.version++
	t.mu.Unlock()
}

// Snapshot returns the current payload and its version.
func (t *Texture) Snapshot() (Image, uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.image, t.version
}

func (t *Texture) Version() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.version
}

// Size reports width, height and depth (1 for non-volume textures).
func (t *Texture) Size() (int, int, int) {
	if t.target != nil {
		return t.target.Width, t.target.Height, 1
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.image.Width, t.image.Height, max(t.image.Depth, 1)
}

// RenderTarget returns the target this texture is the colour attachment of, or nil.
func (t *Texture) RenderTarget() *RenderTarget {
	return t.target
}
