package gfx

import "github.com/go-gl/mathgl/mgl32"

// Uniforms maps uniform names to values. Supported value types are float32, int32,
// mgl32.Vec2, mgl32.Vec3, mgl32.Vec4, []float32, []mgl32.Vec3 and *Texture
// (a nil *Texture leaves the sampler unbound).
type Uniforms map[string]any

// Program is a full-screen fragment program. An empty Vertex selects the host default.
type Program struct {
	Name     string
	Vertex   string
	Fragment string
	Uniforms Uniforms
}

func (p *Program) SetFloat(name string, v float32)    { p.Uniforms[name] = v }
func (p *Program) SetInt(name string, v int32)        { p.Uniforms[name] = v }
func (p *Program) SetVec3(name string, v mgl32.Vec3)  { p.Uniforms[name] = v }
func (p *Program) SetVec4(name string, v mgl32.Vec4)  { p.Uniforms[name] = v }
func (p *Program) SetTexture(name string, t *Texture) { p.Uniforms[name] = t }

// Renderer is the host rendering library as seen by the pass graph.
type Renderer interface {
	// SetRenderTarget selects where Draw writes; nil selects the display surface.
	SetRenderTarget(target *RenderTarget)
	// Draw runs program over the whole current target.
	Draw(program *Program) error
	// Release frees any host resources held for target.
	Release(target *RenderTarget)
}
