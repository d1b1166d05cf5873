// Package shadertoy models shader definitions as served by the Shadertoy API
// and provides the client and media fetcher used to obtain them.
package shadertoy

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Pass types.
const (
	PassImage   = "image"
	PassBuffer  = "buffer"
	PassCommon  = "common"
	PassCubemap = "cubemap"
	PassSound   = "sound"
)

// Input content types.
const (
	CTypeTexture     = "texture"
	CTypeVolume      = "volume"
	CTypeCubemap     = "cubemap"
	CTypeMusic       = "music"
	CTypeMusicStream = "musicstream"
	CTypeMic         = "mic"
	CTypeBuffer      = "buffer"
	CTypeKeyboard    = "keyboard"
	CTypeVideo       = "video"
	CTypeWebcam      = "webcam"
)

// Channels is the number of texture input slots a pass has.
const Channels = 4

var (
	ErrNoPasses     = errors.New("shadertoy: definition has no render passes")
	ErrChannelRange = errors.New("channel index out of range 0-3")
	ErrAPI          = errors.New("shadertoy: api error")
)

type Definition struct {
	Info       Info   `json:"info"`
	RenderPass []Pass `json:"renderpass"`
}

type Info struct {
	ID          string   `json:"id"`
	Date        string   `json:"date"`
	Viewed      int      `json:"viewed"`
	Name        string   `json:"name"`
	Username    string   `json:"username"`
	Description string   `json:"description"`
	Likes       int      `json:"likes"`
	Published   int      `json:"published"`
	Flags       int      `json:"flags"`
	Tags        []string `json:"tags"`
}

type Pass struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Type        string   `json:"type"`
	Inputs      []Input  `json:"inputs"`
	Outputs     []Output `json:"outputs"`
	Code        string   `json:"code"`
}

type Input struct {
	ID        ID      `json:"id"`
	CType     string  `json:"ctype"`
	Channel   int     `json:"channel"`
	Sampler   Sampler `json:"sampler"`
	Src       string  `json:"src"`
	Filepath  string  `json:"filepath"`
	Published int     `json:"published"`
}

// URL returns the media location of the input; the API uses "filepath", exports use "src".
func (in Input) URL() string {
	if in.Src != "" {
		return in.Src
	}
	return in.Filepath
}

type Sampler struct {
	Filter   string `json:"filter"`
	Wrap     string `json:"wrap"`
	VFlip    Flag   `json:"vflip"`
	SRGB     Flag   `json:"srgb"`
	Internal string `json:"internal"`
}

type Output struct {
	ID      ID  `json:"id"`
	Channel int `json:"channel"`
}

// ID is an input/output identifier. The API emits both numbers and strings.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	if string(data) == "null" {
		*id = ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("shadertoy: invalid id %s", data)
	}
	*id = ID(n.String())
	return nil
}

// Flag is a boolean that also accepts the "true"/"false" strings used by the API.
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		*f = false
		return nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return fmt.Errorf("shadertoy: invalid flag %s", data)
	}
	*f = Flag(b)
	return nil
}

// Validate checks the structural rules the pass graph relies on.
func (d *Definition) Validate() error {
	if len(d.RenderPass) == 0 {
		return ErrNoPasses
	}
	for i, pass := range d.RenderPass {
		for _, in := range pass.Inputs {
			if in.Channel < 0 || in.Channel >= Channels {
				return fmt.Errorf("pass %d (%s) input %s: %w: %d", i, pass.Type, in.ID, ErrChannelRange, in.Channel)
			}
		}
	}
	return nil
}

// CommonCode concatenates the code of every "common" pass.
func (d *Definition) CommonCode() string {
	var sb strings.Builder
	for _, pass := range d.RenderPass {
		if pass.Type == PassCommon {
			sb.WriteString(pass.Code)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

type envelope struct {
	Error  *string     `json:"Error"`
	Shader *Definition `json:"Shader"`
}

// Parse decodes a definition. It accepts the bare definition, the API envelope
// {"Shader": ...} / {"Error": ...}, and the one-element array the site exports.
func Parse(data []byte) (*Definition, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.New("shadertoy: empty definition")
	}

	if data[0] == '[' {
		var list []json.RawMessage
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, fmt.Errorf("shadertoy: decode definition list: %w", err)
		}
		if len(list) == 0 {
			return nil, ErrNoPasses
		}
		return Parse(list[0])
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("shadertoy: decode definition: %w", err)
	}
	if env.Error != nil {
		return nil, fmt.Errorf("%w: %s", ErrAPI, *env.Error)
	}
	if env.Shader != nil {
		return env.Shader, nil
	}

	var def Definition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("shadertoy: decode definition: %w", err)
	}
	return &def, nil
}

// LoadFile reads a definition exported to disk.
func LoadFile(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}
