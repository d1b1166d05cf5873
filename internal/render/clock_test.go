package render

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

func TestClock(t *testing.T) {
	fake := newFakeClock()
	c := NewClock(fake.now)

	if d, e := c.Tick(); d != 0 || e != 0 {
		t.Errorf("first tick = %v, %v", d, e)
	}
	fake.advance(250 * time.Millisecond)
	if d, e := c.Tick(); d != 0.25 || e != 0.25 {
		t.Errorf("second tick = %v, %v", d, e)
	}
	fake.advance(time.Second)
	if d, e := c.Tick(); d != 1 || e != 1.25 {
		t.Errorf("third tick = %v, %v", d, e)
	}

	c.Reset()
	fake.advance(time.Hour)
	if d, e := c.Tick(); d != 0 || e != 0 {
		t.Errorf("tick after reset = %v, %v", d, e)
	}

	fake.advance(-time.Second)
	if d, _ := c.Tick(); d != 0 {
		t.Errorf("backwards tick delta = %v", d)
	}
}

func TestDateVec(t *testing.T) {
	tests := []struct {
		in   time.Time
		want mgl32.Vec4
	}{
		{time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), mgl32.Vec4{2023, 1, 1, 0}},
		{time.Date(2023, 12, 31, 23, 59, 59, 500e6, time.UTC), mgl32.Vec4{2023, 12, 31, 86399.5}},
		{time.Date(2020, 2, 29, 1, 2, 3, 0, time.UTC), mgl32.Vec4{2020, 2, 29, 3723}},
	}
	for _, tt := range tests {
		if got := DateVec(tt.in); got != tt.want {
			t.Errorf("DateVec(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
