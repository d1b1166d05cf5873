package input

import (
	"context"
	"sync"

	"linux-shadertoy/internal/gfx"

	"github.com/go-gl/mathgl/mgl32"
)

// AudioBins is the width of the audio texture: row 0 holds the spectrum, row 1 the waveform.
const AudioBins = 512

// Audio exposes the latest audio analysis as a 512x2 single-channel texture.
type Audio struct {
	ctype   string
	wantURL string
	texture *gfx.Texture

	mu        sync.Mutex
	time      float32
	playback  float32
	playing   bool
	frequency []byte
	waveform  []byte
	dirty     bool
}

func NewAudio(ctype, url string, sampler gfx.Sampler) *Audio {
	a := &Audio{ctype: ctype, wantURL: url}
	a.texture = gfx.NewTexture("audio:"+url, gfx.Kind2D, sampler, a.image())
	return a
}

func (a *Audio) Type() string                { return TypeAudio }
func (a *Audio) CType() string               { return a.ctype }
func (a *Audio) WantURL() string             { return a.wantURL }
func (a *Audio) OutputTexture() *gfx.Texture { return a.texture }
func (a *Audio) OutputSize() mgl32.Vec3      { return mgl32.Vec3{AudioBins, 2, 1} }

// OutputTime is the media position while a player reports one, else the shader time.
func (a *Audio) OutputTime() float32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.playing {
		return a.playback
	}
	return a.time
}

// Update records the shader time and uploads any data received since the last frame.
func (a *Audio) Update(time float32) {
	a.mu.Lock()
	a.time = time
	dirty := a.dirty
	a.dirty = false
	a.mu.Unlock()

	if dirty {
		a.texture.SetImage(a.image())
	}
}

// UpdateData stores new spectrum and waveform rows. A nil row keeps the previous one.
func (a *Audio) UpdateData(_ context.Context, data Data) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if data.Frequency != nil {
		a.frequency = data.Frequency
	}
	if data.Waveform != nil {
		a.waveform = data.Waveform
	}
	a.playing = data.Playing
	a.playback = data.PlaybackTime
	a.dirty = true
	return nil
}

func (a *Audio) image() gfx.Image {
	a.mu.Lock()
	defer a.mu.Unlock()

	pix := make([]byte, AudioBins*2)
	copy(pix[:AudioBins], a.frequency)
	copy(pix[AudioBins:], a.waveform)
	return gfx.Image{Format: gfx.FormatR8, Width: AudioBins, Height: 2, Depth: 1, Pixels: pix, UnpackAlignment: 1}
}
