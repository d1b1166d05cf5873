package render

import "time"

// FrameInput is the per-frame state supplied by the host.
type FrameInput struct {
	MouseX     float32
	MouseY     float32
	MouseLeft  bool
	MouseRight bool
}

// FrameValues is everything a pass needs for one update.
type FrameValues struct {
	FrameInput

	Delta float32
	Time  float32
	Date  time.Time
}
