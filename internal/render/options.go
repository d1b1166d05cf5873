package render

import (
	"time"

	"linux-shadertoy/internal/input"
)

const (
	DefaultSize        = 512
	DefaultSampleRate  = 44100
	DefaultGLSLVersion = "330"
)

// Options configures a Material. The zero value renders at 512x512.
type Options struct {
	Width  int
	Height int

	// SampleRate feeds iSampleRate.
	SampleRate float32

	// GLSLVersion is written into the #version line of every fragment program.
	GLSLVersion string

	// Strict turns input ids that no pass or adapter can satisfy into construction errors.
	Strict bool

	// Now is the wall clock used for iDate and the frame clock. Defaults to time.Now.
	Now func() time.Time

	// Fetcher loads media for texture, cubemap and volume inputs.
	Fetcher input.Fetcher
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = DefaultSize
	}
	if o.Height <= 0 {
		o.Height = DefaultSize
	}
	if o.SampleRate <= 0 {
		o.SampleRate = DefaultSampleRate
	}
	if o.GLSLVersion == "" {
		o.GLSLVersion = DefaultGLSLVersion
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}
