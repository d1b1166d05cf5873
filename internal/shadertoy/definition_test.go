package shadertoy

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const bufferDefinition = `{
  "ver": "0.1",
  "info": {"id": "abcd12", "name": "Feedback", "username": "someone", "tags": ["feedback", "buffer"]},
  "renderpass": [
    {
      "name": "Buffer A",
      "type": "buffer",
      "inputs": [
        {"id": 257, "ctype": "buffer", "channel": 0, "sampler": {"filter": "linear", "wrap": "clamp", "vflip": "true", "srgb": "false", "internal": "byte"}, "published": 1},
        {"id": "XsXGR8", "ctype": "texture", "channel": 1, "filepath": "/media/a/abc.png", "sampler": {"filter": "mipmap", "wrap": "repeat", "vflip": false}}
      ],
      "outputs": [{"id": 257, "channel": 0}],
      "code": "void mainImage(out vec4 c, in vec2 p) { c = texture(iChannel0, p / iResolution.xy); }"
    },
    {
      "name": "Common",
      "type": "common",
      "inputs": [],
      "outputs": [],
      "code": "float helper() { return 1.0; }"
    },
    {
      "name": "Image",
      "type": "image",
      "inputs": [{"id": "257", "ctype": "buffer", "channel": 0, "sampler": {"filter": "linear", "wrap": "clamp", "vflip": "true"}}],
      "outputs": [{"id": 37, "channel": 0}],
      "code": "void mainImage(out vec4 c, in vec2 p) { c = texture(iChannel0, p / iResolution.xy); }"
    }
  ]
}`

func TestParseForms(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bare", bufferDefinition},
		{"envelope", `{"Shader": ` + bufferDefinition + `}`},
		{"export array", `[` + bufferDefinition + `]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, err := Parse([]byte(tt.data))
			if err != nil {
				t.Fatal(err)
			}
			if def.Info.Name != "Feedback" {
				t.Errorf("name = %q, want Feedback", def.Info.Name)
			}
			if len(def.RenderPass) != 3 {
				t.Fatalf("got %d passes, want 3", len(def.RenderPass))
			}
		})
	}
}

func TestParseWireQuirks(t *testing.T) {
	def, err := Parse([]byte(bufferDefinition))
	if err != nil {
		t.Fatal(err)
	}

	buffer := def.RenderPass[0]
	if buffer.Inputs[0].ID != "257" {
		t.Errorf("numeric id decoded as %q", buffer.Inputs[0].ID)
	}
	if buffer.Outputs[0].ID != def.RenderPass[2].Inputs[0].ID {
		t.Errorf("numeric and string ids should compare equal: %q vs %q", buffer.Outputs[0].ID, def.RenderPass[2].Inputs[0].ID)
	}
	if !bool(buffer.Inputs[0].Sampler.VFlip) {
		t.Error(`vflip "true" should decode as true`)
	}
	if bool(buffer.Inputs[1].Sampler.VFlip) {
		t.Error("vflip false should decode as false")
	}
	if got := buffer.Inputs[1].URL(); got != "/media/a/abc.png" {
		t.Errorf("URL() = %q, want the filepath", got)
	}
}

func TestParseAPIError(t *testing.T) {
	_, err := Parse([]byte(`{"Error": "Shader not found"}`))
	if !errors.Is(err, ErrAPI) {
		t.Fatalf("err = %v, want ErrAPI", err)
	}
}

func TestValidate(t *testing.T) {
	if err := (&Definition{}).Validate(); !errors.Is(err, ErrNoPasses) {
		t.Errorf("empty definition: err = %v, want ErrNoPasses", err)
	}

	def, err := Parse([]byte(bufferDefinition))
	if err != nil {
		t.Fatal(err)
	}
	if err := def.Validate(); err != nil {
		t.Errorf("valid definition rejected: %v", err)
	}

	def.RenderPass[2].Inputs[0].Channel = 4
	if err := def.Validate(); !errors.Is(err, ErrChannelRange) {
		t.Errorf("channel 4: err = %v, want ErrChannelRange", err)
	}
}

func TestCommonCode(t *testing.T) {
	def, err := Parse([]byte(bufferDefinition))
	if err != nil {
		t.Fatal(err)
	}
	if got := def.CommonCode(); got != "float helper() { return 1.0; }\n" {
		t.Errorf("CommonCode() = %q", got)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shader.json")
	if err := os.WriteFile(path, []byte(bufferDefinition), 0644); err != nil {
		t.Fatal(err)
	}
	def, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if def.Info.ID != "abcd12" {
		t.Errorf("id = %q", def.Info.ID)
	}
}
