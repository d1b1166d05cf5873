package gfx

// RenderTarget is an off-screen colour buffer. Its Texture can be bound as a channel.
type RenderTarget struct {
	Name    string
	Width   int
	Height  int
	Format  Format
	Texture *Texture
}

func NewRenderTarget(name string, width, height int, format Format, sampler Sampler) *RenderTarget {
	rt := &RenderTarget{
		Name:   name,
		Width:  width,
		Height: height,
		Format: format,
	}
	rt.Texture = &Texture{
		Name:    name,
		Kind:    Kind2D,
		Sampler: sampler,
		image:   Image{Format: format, Width: width, Height: height, Depth: 1},
		target:  rt,
	}
	return rt
}
