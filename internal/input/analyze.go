package input

import (
	"math"
	"math/cmplx"
	"sync"
	"unsafe"

	"gonum.org/v1/gonum/dsp/fourier"
)

const (
	analyzerSize      = 2048
	analyzerSmoothing = 0.8
	analyzerMinDB     = -100
	analyzerMaxDB     = -30
)

// Analyzer turns a stream of mono PCM samples into the spectrum and waveform rows of
// the audio texture, scaled the way a browser AnalyserNode does with its defaults.
type Analyzer struct {
	mu       sync.Mutex
	ring     []float32
	pos      int
	fft      *fourier.FFT
	window   []float64
	seq      []float64
	coeff    []complex128
	smoothed []float64
}

func NewAnalyzer() *Analyzer {
	a := &Analyzer{
		ring:     make([]float32, analyzerSize),
		fft:      fourier.NewFFT(analyzerSize),
		window:   make([]float64, analyzerSize),
		seq:      make([]float64, analyzerSize),
		smoothed: make([]float64, analyzerSize/2),
	}
	// Blackman, alpha 0.16.
	for i := range a.window {
		x := 2 * math.Pi * float64(i) / analyzerSize
		a.window[i] = 0.42 - 0.5*math.Cos(x) + 0.08*math.Cos(2*x)
	}
	return a
}

// Write appends samples to the analysis window. Safe to call from the audio thread.
func (a *Analyzer) Write(samples []float32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, s := range samples {
		a.ring[a.pos] = s
		a.pos = (a.pos + 1) % analyzerSize
	}
}

// WriteInterleaved mixes interleaved frames down to mono before writing them.
func (a *Analyzer) WriteInterleaved(data []float32, channels int) {
	if channels <= 1 {
		a.Write(data)
		return
	}
	mono := make([]float32, len(data)/channels)
	for i := range mono {
		var sum float32
		for c := 0; c < channels; c++ {
			sum += data[i*channels+c]
		}
		mono[i] = sum / float32(channels)
	}
	a.Write(mono)
}

// WriteFrames writes frames interleaved frames that start at data[0]. data may be
// shorter than frames*channels when it comes from a binding that sized the slice by
// frame count; the backing buffer must still hold every frame.
func (a *Analyzer) WriteFrames(data []float32, frames, channels int) {
	if len(data) == 0 || frames <= 0 {
		return
	}
	channels = max(channels, 1)
	if n := frames * channels; len(data) < n {
		data = unsafe.Slice(&data[0], n)
	} else {
		data = data[:n]
	}
	a.WriteInterleaved(data, channels)
}

// Analyze returns AudioBins bytes of spectrum and AudioBins bytes of waveform.
func (a *Analyzer) Analyze() (frequency, waveform []byte) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for i := range a.seq {
		a.seq[i] = float64(a.ring[(a.pos+i)%analyzerSize]) * a.window[i]
	}
	a.coeff = a.fft.Coefficients(a.coeff, a.seq)

	frequency = make([]byte, AudioBins)
	for i := range a.smoothed {
		mag := cmplx.Abs(a.coeff[i]) / analyzerSize
		a.smoothed[i] = analyzerSmoothing*a.smoothed[i] + (1-analyzerSmoothing)*mag
		if i < AudioBins {
			frequency[i] = dbToByte(a.smoothed[i])
		}
	}

	// Most recent samples, oldest first.
	waveform = make([]byte, AudioBins)
	start := a.pos - AudioBins
	for i := range waveform {
		s := float64(a.ring[(start+i+analyzerSize)%analyzerSize])
		waveform[i] = clampByte(128 * (1 + s))
	}
	return frequency, waveform
}

func dbToByte(mag float64) byte {
	if mag <= 0 {
		return 0
	}
	db := 20 * math.Log10(mag)
	return clampByte(255 * (db - analyzerMinDB) / (analyzerMaxDB - analyzerMinDB))
}

func clampByte(v float64) byte {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return byte(v)
}
