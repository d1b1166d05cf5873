// Package convert decodes Wallpaper Engine .tex texture containers so they can be
// used as texture inputs next to the usual png/jpeg media.
package convert

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"io"

	"linux-shadertoy/internal/utils"

	"github.com/mauserzjeh/dxt"
	"github.com/pierrec/lz4/v4"
)

var convertLog = utils.NewLogger("Convert")

const texMagic = "TEXV0005"

// Texture formats stored in the TEXI header.
const (
	texFormatRGBA8888 = 0
	texFormatDXT1A    = 4
	texFormatDXT5     = 6
	texFormatDXT1     = 7
	texFormatRG88     = 8
	texFormatR8       = 9
)

var ErrNotTex = errors.New("convert: not a TEXV0005 container")

// IsTex reports whether data starts with the .tex magic.
func IsTex(data []byte) bool {
	return bytes.HasPrefix(data, []byte(texMagic))
}

type texReader struct {
	r   *bytes.Reader
	err error
}

func (t *texReader) u32() uint32 {
	var v uint32
	if t.err == nil {
		t.err = binary.Read(t.r, binary.LittleEndian, &v)
	}
	return v
}

// tag reads a NUL terminated 8 byte tag.
func (t *texReader) tag() string {
	b := make([]byte, 9)
	if t.err == nil {
		_, t.err = io.ReadFull(t.r, b)
	}
	return string(bytes.Trim(b, "\x00"))
}

func (t *texReader) bytes(n uint32) []byte {
	if t.err != nil {
		return nil
	}
	if int64(n) > int64(t.r.Len()) {
		t.err = io.ErrUnexpectedEOF
		return nil
	}
	b := make([]byte, n)
	_, t.err = io.ReadFull(t.r, b)
	return b
}

// DecodeTex decodes the first mip level of the first image in a .tex container
// into an RGBA image cropped to the declared image size.
func DecodeTex(data []byte) (*image.RGBA, error) {
	if !IsTex(data) {
		return nil, ErrNotTex
	}
	tr := &texReader{r: bytes.NewReader(data)}

	tr.tag() // TEXV0005
	tr.tag() // TEXI0001

	format := tr.u32()
	tr.u32() // flags
	tr.u32() // texture width
	tr.u32() // texture height
	imgW := tr.u32()
	imgH := tr.u32()
	tr.u32()

	container := tr.tag()
	imageCount := tr.u32()
	if container == "TEXB0003" {
		tr.u32() // free image format
	}
	if tr.err != nil {
		return nil, fmt.Errorf("convert: tex header: %w", tr.err)
	}
	if imageCount == 0 {
		return nil, fmt.Errorf("convert: no image found in texture")
	}

	convertLog.Debug("tex format %d, %dx%d, container %s", format, imgW, imgH, container)

	mipCount := tr.u32()
	if mipCount == 0 {
		return nil, fmt.Errorf("convert: texture has no mip levels")
	}

	mipW := tr.u32()
	mipH := tr.u32()
	var compressed bool
	var decompressedSize uint32
	if container != "TEXB0001" {
		compressed = tr.u32() == 1
		decompressedSize = tr.u32()
	}
	size := tr.u32()
	payload := tr.bytes(size)
	if tr.err != nil {
		return nil, fmt.Errorf("convert: tex mip: %w", tr.err)
	}

	if compressed {
		raw := make([]byte, decompressedSize)
		n, err := lz4.UncompressBlock(payload, raw)
		if err != nil {
			return nil, fmt.Errorf("convert: lz4: %w", err)
		}
		payload = raw[:n]
	}

	pix, err := decodeTexPixels(format, payload, mipW, mipH)
	if err != nil {
		return nil, err
	}

	full := &image.RGBA{
		Pix:    pix,
		Stride: int(mipW) * 4,
		Rect:   image.Rect(0, 0, int(mipW), int(mipH)),
	}
	crop := image.Rect(0, 0, int(min(imgW, mipW)), int(min(imgH, mipH)))
	if crop.Eq(full.Rect) || crop.Empty() {
		return full, nil
	}
	return full.SubImage(crop).(*image.RGBA), nil
}

func decodeTexPixels(format uint32, data []byte, w, h uint32) ([]byte, error) {
	texels := int(w) * int(h)
	blocks := int((w+3)/4) * int((h+3)/4)

	switch {
	case format == texFormatRGBA8888 && len(data) >= texels*4:
		return data[:texels*4], nil
	case format == texFormatDXT5 || len(data) == blocks*16:
		return dxt.DecodeDXT5(data, uint(w), uint(h))
	case format == texFormatDXT1 || format == texFormatDXT1A || len(data) == blocks*8:
		return dxt.DecodeDXT1(data, uint(w), uint(h))
	case format == texFormatR8 && len(data) >= texels:
		pix := make([]byte, texels*4)
		for i := 0; i < texels; i++ {
			v := data[i]
			pix[i*4], pix[i*4+1], pix[i*4+2], pix[i*4+3] = v, v, v, 255
		}
		return pix, nil
	case format == texFormatRG88 && len(data) >= texels*2:
		pix := make([]byte, texels*4)
		for i := 0; i < texels; i++ {
			l, a := data[i*2], data[i*2+1]
			pix[i*4], pix[i*4+1], pix[i*4+2], pix[i*4+3] = l, l, l, a
		}
		return pix, nil
	}
	return nil, fmt.Errorf("convert: unsupported tex format %d with %d bytes", format, len(data))
}
