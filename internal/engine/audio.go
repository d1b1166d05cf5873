package engine

import (
	"context"
	"path"
	"strings"
	"sync"

	"linux-shadertoy/internal/input"
	"linux-shadertoy/internal/utils"

	rl "github.com/gen2brain/raylib-go/raylib"
)

var musicLog = utils.NewLogger("Music")

type musicStream struct {
	music  rl.Music
	source string
	target *input.Audio
	active bool
}

// MusicPlayer plays the media behind music inputs and feeds the mixed output into
// every audio input's texture.
type MusicPlayer struct {
	mu       sync.Mutex
	streams  []*musicStream
	targets  []*input.Audio
	analyzer *input.Analyzer
	attached bool
}

func NewMusicPlayer() *MusicPlayer {
	if !utils.SilentMode && !rl.IsAudioDeviceReady() {
		rl.InitAudioDevice()
	}
	return &MusicPlayer{analyzer: input.NewAnalyzer()}
}

// Play fetches the input's media and starts looping it. Inputs without media (mic,
// or a stream with no url) still receive the analysis of whatever else plays.
func (mp *MusicPlayer) Play(ctx context.Context, a *input.Audio, fetcher input.Fetcher, volume float32) error {
	mp.mu.Lock()
	mp.targets = append(mp.targets, a)
	mp.mu.Unlock()

	if utils.SilentMode || a.WantURL() == "" || fetcher == nil {
		return nil
	}

	data, err := fetcher.Fetch(ctx, a.WantURL())
	if err != nil {
		return err
	}

	ext := strings.ToLower(path.Ext(a.WantURL()))
	music := rl.LoadMusicStreamFromMemory(ext, data, int32(len(data)))
	if !rl.IsMusicValid(music) {
		musicLog.Error("could not decode %s", a.WantURL())
		return nil
	}

	music.Looping = true
	rl.SetMusicVolume(music, volume)
	rl.PlayMusicStream(music)

	mp.mu.Lock()
	mp.streams = append(mp.streams, &musicStream{music: music, source: a.WantURL(), target: a, active: true})
	if !mp.attached {
		rl.AttachAudioMixedProcessor(mp.process)
		mp.attached = true
	}
	mp.mu.Unlock()

	musicLog.Info("Playing %s (Vol: %.2f)", a.WantURL(), volume)
	return nil
}

// Output channels of raylib's mixer (AUDIO_DEVICE_CHANNELS).
const mixChannels = 2

// process runs on the audio thread with the interleaved stereo mix. raylib-go's cgo
// wrapper slices the buffer to frames floats although raylib fills frames*channels,
// so the frame count is passed on and the analyzer reads the whole mix.
func (mp *MusicPlayer) process(data []float32, frames int) {
	mp.analyzer.WriteFrames(data, frames, mixChannels)
}

// Update keeps the streams fed and pushes the latest analysis to the audio inputs.
// Inputs with a stream of their own also get its playback position.
func (mp *MusicPlayer) Update() {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	playback := make(map[*input.Audio]float32, len(mp.streams))
	for _, stream := range mp.streams {
		if stream.active {
			rl.UpdateMusicStream(stream.music)
			playback[stream.target] = rl.GetMusicTimePlayed(stream.music)
		}
	}
	if len(mp.targets) == 0 {
		return
	}

	frequency, waveform := mp.analyzer.Analyze()
	for _, a := range mp.targets {
		data := input.Data{Frequency: frequency, Waveform: waveform}
		if t, ok := playback[a]; ok {
			data.Playing = true
			data.PlaybackTime = t
		}
		_ = a.UpdateData(context.Background(), data)
	}
}

// Restart seeks every stream back to the beginning.
func (mp *MusicPlayer) Restart() {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	for _, stream := range mp.streams {
		if stream.active {
			rl.SeekMusicStream(stream.music, 0)
		}
	}
}

func (mp *MusicPlayer) Close() {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.attached {
		rl.DetachAudioMixedProcessor(mp.process)
		mp.attached = false
	}
	for _, stream := range mp.streams {
		if stream.active {
			rl.StopMusicStream(stream.music)
			rl.UnloadMusicStream(stream.music)
			stream.active = false
		}
	}
	if rl.IsAudioDeviceReady() {
		rl.CloseAudioDevice()
	}
}
