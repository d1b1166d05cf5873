package input

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"linux-shadertoy/internal/gfx"

	"github.com/go-gl/mathgl/mgl32"
)

var ErrVolumeHeader = errors.New("input: malformed volume header")

const (
	volumeHeaderSize = 20

	// Largest edge accepted from a volume header. GL drivers rarely allow more than
	// 2048 texels per 3-D dimension.
	maxVolumeSize = 2048

	volumeFormatUint8   = 0
	volumeFormatFloat32 = 10
)

var volumeFormats = [2][5]gfx.Format{
	{0, gfx.FormatR8, gfx.FormatRG8, gfx.FormatRGB8, gfx.FormatRGBA8},
	{0, gfx.FormatR32F, gfx.FormatRG32F, gfx.FormatRGB32F, gfx.FormatRGBA32F},
}

// ParseVolume decodes the binary volume layout:
//
//	0  magic (ignored)
//	4  width  uint32 LE
//	8  height uint32 LE
//	12 depth  uint32 LE
//	16 channels uint8
//	17 layout   uint8 (ignored)
//	18 format   uint16 LE, 0 = bytes, 10 = float32
//	20 texel data
func ParseVolume(data []byte) (gfx.Image, error) {
	if len(data) < volumeHeaderSize {
		return gfx.Image{}, fmt.Errorf("%w: %d bytes", ErrVolumeHeader, len(data))
	}

	w := int(binary.LittleEndian.Uint32(data[4:]))
	h := int(binary.LittleEndian.Uint32(data[8:]))
	d := int(binary.LittleEndian.Uint32(data[12:]))
	channels := int(data[16])
	format := binary.LittleEndian.Uint16(data[18:])

	if w <= 0 || h <= 0 || d <= 0 || w > maxVolumeSize || h > maxVolumeSize || d > maxVolumeSize {
		return gfx.Image{}, fmt.Errorf("%w: size %dx%dx%d", ErrVolumeHeader, w, h, d)
	}
	if channels < 1 || channels > 4 {
		return gfx.Image{}, fmt.Errorf("%w: %d channels", ErrVolumeHeader, channels)
	}

	img := gfx.Image{
		Width:           w,
		Height:          h,
		Depth:           d,
		UnpackAlignment: channels,
	}
	payload := data[volumeHeaderSize:]
	samples := w * h * d * channels

	switch format {
	case volumeFormatUint8:
		if len(payload) < samples {
			return gfx.Image{}, fmt.Errorf("%w: %d data bytes, want %d", ErrVolumeHeader, len(payload), samples)
		}
		img.Format = volumeFormats[0][channels]
		img.Pixels = payload[:samples]
	case volumeFormatFloat32:
		if len(payload) < samples*4 {
			return gfx.Image{}, fmt.Errorf("%w: %d data bytes, want %d", ErrVolumeHeader, len(payload), samples*4)
		}
		img.Format = volumeFormats[1][channels]
		img.Floats = make([]float32, samples)
		for i := range img.Floats {
			img.Floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(payload[i*4:]))
		}
	default:
		return gfx.Image{}, fmt.Errorf("%w: format %d", ErrVolumeHeader, format)
	}
	return img, nil
}

// Volume is a 3-D texture input.
type Volume struct {
	ctype   string
	wantURL string
	fetcher Fetcher
	texture *gfx.Texture
}

func NewVolume(ctype, url string, sampler gfx.Sampler, fetcher Fetcher) *Volume {
	// 3-D textures are sampled without mipmaps.
	if sampler.Filter == gfx.FilterMipmap {
		sampler.Filter = gfx.FilterLinear
	}
	img := gfx.Image{Format: gfx.FormatRGBA8, Width: 1, Height: 1, Depth: 1, Pixels: make([]byte, 4), UnpackAlignment: 4}
	return &Volume{
		ctype:   ctype,
		wantURL: url,
		fetcher: fetcher,
		texture: gfx.NewTexture("volume:"+url, gfx.Kind3D, sampler, img),
	}
}

func (v *Volume) Type() string                { return TypeVolume }
func (v *Volume) CType() string               { return v.ctype }
func (v *Volume) WantURL() string             { return v.wantURL }
func (v *Volume) OutputTexture() *gfx.Texture { return v.texture }
func (v *Volume) OutputTime() float32         { return 0 }
func (v *Volume) Update(float32)              {}

func (v *Volume) OutputSize() mgl32.Vec3 {
	w, h, d := v.texture.Size()
	return mgl32.Vec3{float32(w), float32(h), float32(d)}
}

func (v *Volume) UpdateData(ctx context.Context, data Data) error {
	if data.URL == "" {
		return ErrNoSource
	}
	if v.fetcher == nil {
		return ErrNoFetcher
	}

	raw, err := v.fetcher.Fetch(ctx, data.URL)
	if err != nil {
		return err
	}
	img, err := ParseVolume(raw)
	if err == nil {
		err = img.Validate(gfx.Kind3D)
	}
	if err != nil {
		return fmt.Errorf("volume %s: %w", data.URL, err)
	}

	v.texture.SetImage(img)
	inputLog.Debug("Volume %s loaded (%dx%dx%d, %d channels)", data.URL, img.Width, img.Height, img.Depth, img.Format.Channels())
	return nil
}
