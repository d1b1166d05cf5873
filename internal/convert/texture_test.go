package convert

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

func writeTag(buf *bytes.Buffer, tag string) {
	b := make([]byte, 9)
	copy(b, tag)
	buf.Write(b)
}

func buildTex(format, imgW, imgH, mipW, mipH uint32, payload []byte) []byte {
	var buf bytes.Buffer
	le := func(v uint32) { binary.Write(&buf, binary.LittleEndian, v) }

	writeTag(&buf, "TEXV0005")
	writeTag(&buf, "TEXI0001")
	le(format)
	le(0)
	le(mipW)
	le(mipH)
	le(imgW)
	le(imgH)
	le(0)
	writeTag(&buf, "TEXB0002")
	le(1) // image count
	le(1) // mip count
	le(mipW)
	le(mipH)
	le(0) // not lz4
	le(uint32(len(payload)))
	le(uint32(len(payload)))
	buf.Write(payload)
	return buf.Bytes()
}

func TestDecodeTexR8(t *testing.T) {
	payload := []byte{10, 20, 30, 40}
	img, err := DecodeTex(buildTex(texFormatR8, 2, 2, 2, 2, payload))
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 2 || img.Bounds().Dy() != 2 {
		t.Fatalf("bounds = %v", img.Bounds())
	}
	c := img.RGBAAt(1, 1)
	if c.R != 40 || c.G != 40 || c.B != 40 || c.A != 255 {
		t.Errorf("pixel (1,1) = %v", c)
	}
}

func TestDecodeTexCrop(t *testing.T) {
	payload := make([]byte, 4*4*4)
	img, err := DecodeTex(buildTex(texFormatRGBA8888, 3, 2, 4, 4, payload))
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 3 || img.Bounds().Dy() != 2 {
		t.Errorf("bounds = %v, want 3x2", img.Bounds())
	}
}

func TestDecodeTexRejects(t *testing.T) {
	if _, err := DecodeTex([]byte("\x89PNG....")); !errors.Is(err, ErrNotTex) {
		t.Errorf("err = %v, want ErrNotTex", err)
	}

	data := buildTex(texFormatR8, 2, 2, 2, 2, []byte{1, 2, 3, 4})
	if _, err := DecodeTex(data[:len(data)-2]); err == nil {
		t.Error("truncated payload accepted")
	}
}
