// Package engine draws the pass graph with raylib. Everything here must run on the
// thread that owns the window's GL context.
package engine

import (
	"fmt"
	"image/color"

	"linux-shadertoy/internal/gfx"
	"linux-shadertoy/internal/utils"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/gl/v3.3-core/gl"
)

var engineLog = utils.NewLogger("Engine")

// Renderer implements gfx.Renderer on top of raylib. Textures and targets are created
// lazily the first time a pass touches them.
type Renderer struct {
	programs map[*gfx.Program]*shaderProgram
	textures map[*gfx.Texture]*glTexture
	targets  map[*gfx.RenderTarget]*glTarget
	current  *gfx.RenderTarget

	white rl.Texture2D
	black rl.Texture2D
}

// NewRenderer must be called after rl.InitWindow.
func NewRenderer() (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("engine: init gl: %w", err)
	}
	utils.GPURenderer = gl.GoStr(gl.GetString(gl.RENDERER))
	utils.GPUVendor = gl.GoStr(gl.GetString(gl.VENDOR))
	utils.GLVersion = gl.GoStr(gl.GetString(gl.VERSION))
	engineLog.Info("%s (%s), OpenGL %s", utils.GPURenderer, utils.GPUVendor, utils.GLVersion)

	white := rl.GenImageColor(1, 1, rl.White)
	black := rl.GenImageColor(1, 1, rl.Black)
	defer rl.UnloadImage(white)
	defer rl.UnloadImage(black)

	return &Renderer{
		programs: make(map[*gfx.Program]*shaderProgram),
		textures: make(map[*gfx.Texture]*glTexture),
		targets:  make(map[*gfx.RenderTarget]*glTarget),
		white:    rl.LoadTextureFromImage(white),
		black:    rl.LoadTextureFromImage(black),
	}, nil
}

func (r *Renderer) SetRenderTarget(target *gfx.RenderTarget) {
	r.current = target
}

// Draw runs the program over the current target. A program that fails to compile is
// reported once and then skipped until its source changes.
func (r *Renderer) Draw(p *gfx.Program) error {
	sp, err := r.program(p)
	if err != nil {
		return err
	}
	if sp.failed {
		return nil
	}

	width, height := int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())
	if r.current != nil {
		rt := r.target(r.current)
		width, height = int32(r.current.Width), int32(r.current.Height)
		rl.BeginTextureMode(rt.rt)
		defer rl.EndTextureMode()
		rl.ClearBackground(rl.Blank)
	}

	rl.BeginShaderMode(sp.shader)
	units := r.applyUniforms(sp, p.Uniforms)

	src := rl.NewRectangle(0, 0, float32(r.white.Width), float32(r.white.Height))
	dst := rl.NewRectangle(0, 0, float32(width), float32(height))
	rl.DrawTexturePro(r.white, src, dst, rl.NewVector2(0, 0), 0, rl.White)

	rl.EndShaderMode()
	unbindUnits(units)
	return nil
}

// Release frees the framebuffer and colour texture of a target.
func (r *Renderer) Release(target *gfx.RenderTarget) {
	if target == nil {
		return
	}
	if rt, ok := r.targets[target]; ok {
		rt.unload()
		delete(r.targets, target)
	}
	if target == r.current {
		r.current = nil
	}
}

// Texture returns the GPU texture for t, uploading it if its content changed.
func (r *Renderer) Texture(t *gfx.Texture) rl.Texture2D {
	if rt := t.RenderTarget(); rt != nil {
		return r.target(rt).rt.Texture
	}
	return r.texture(t).rlTexture()
}

// DrawTexture draws t into dst on the current raylib surface. Render targets are
// flipped so that their bottom row ends up at the bottom of dst.
func (r *Renderer) DrawTexture(t *gfx.Texture, dst rl.Rectangle, tint color.RGBA) {
	tex := r.Texture(t)
	src := rl.NewRectangle(0, 0, float32(tex.Width), float32(tex.Height))
	if t.RenderTarget() != nil || t.Sampler.FlipY {
		src.Height = -src.Height
	}
	rl.DrawTexturePro(tex, src, dst, rl.NewVector2(0, 0), 0, tint)
}

// Close releases every GPU resource the renderer created.
func (r *Renderer) Close() {
	for p, sp := range r.programs {
		sp.unload()
		delete(r.programs, p)
	}
	for t, tex := range r.textures {
		tex.unload()
		delete(r.textures, t)
	}
	for target, rt := range r.targets {
		rt.unload()
		delete(r.targets, target)
	}
	rl.UnloadTexture(r.white)
	rl.UnloadTexture(r.black)
}
