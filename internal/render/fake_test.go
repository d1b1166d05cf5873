package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"maps"
	"sync"

	"linux-shadertoy/internal/gfx"
)

type drawCall struct {
	target   *gfx.RenderTarget
	program  string
	fragment string
	uniforms gfx.Uniforms
}

// recorder is a gfx.Renderer that remembers every call.
type recorder struct {
	current  *gfx.RenderTarget
	draws    []drawCall
	targets  []*gfx.RenderTarget
	released []*gfx.RenderTarget
	fail     map[string]bool
}

func (r *recorder) SetRenderTarget(target *gfx.RenderTarget) {
	r.current = target
	r.targets = append(r.targets, target)
}

func (r *recorder) Draw(p *gfx.Program) error {
	if r.fail[p.Name] {
		return errors.New("compile failed")
	}
	r.draws = append(r.draws, drawCall{
		target:   r.current,
		program:  p.Name,
		fragment: p.Fragment,
		uniforms: maps.Clone(p.Uniforms),
	})
	return nil
}

func (r *recorder) Release(target *gfx.RenderTarget) {
	r.released = append(r.released, target)
}

func (r *recorder) reset() {
	r.draws = nil
	r.targets = nil
	r.released = nil
}

type countingFetcher struct {
	mu    sync.Mutex
	data  map[string][]byte
	calls map[string]int
}

func (f *countingFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[url]++
	data, ok := f.data[url]
	if !ok {
		return nil, fmt.Errorf("%s: not found", url)
	}
	return data, nil
}

var tinyPNG = func() []byte {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}()
