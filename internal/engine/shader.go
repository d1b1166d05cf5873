package engine

import (
	"fmt"
	"math"

	"linux-shadertoy/internal/gfx"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// firstExtraUnit is where 3-D and cube samplers are bound; raylib's batch owns the
// units below it for sampler2D.
const firstExtraUnit = 12

type shaderProgram struct {
	shader    rl.Shader
	source    string
	failed    bool
	locations map[string]int32
}

func (sp *shaderProgram) unload() {
	if !sp.failed && sp.shader.ID != 0 {
		rl.UnloadShader(sp.shader)
	}
}

func (sp *shaderProgram) location(name string) int32 {
	if loc, ok := sp.locations[name]; ok {
		return loc
	}
	loc := rl.GetShaderLocation(sp.shader, name)
	sp.locations[name] = loc
	return loc
}

// program returns the compiled shader for p, recompiling when its source changed.
func (r *Renderer) program(p *gfx.Program) (*shaderProgram, error) {
	sp, ok := r.programs[p]
	if ok && sp.source == p.Fragment {
		return sp, nil
	}
	if ok {
		sp.unload()
	}

	sp = &shaderProgram{source: p.Fragment, locations: make(map[string]int32)}
	r.programs[p] = sp

	sp.shader = rl.LoadShaderFromMemory(p.Vertex, p.Fragment)
	if !rl.IsShaderValid(sp.shader) || sp.shader.ID == rl.GetShaderIdDefault() {
		sp.failed = true
		engineLog.Error("shader %q failed to compile, pass skipped", p.Name)
		return sp, fmt.Errorf("engine: compile %s", p.Name)
	}
	engineLog.Debug("compiled shader %q (id %d)", p.Name, sp.shader.ID)
	return sp, nil
}

// applyUniforms uploads every uniform of the program. It returns the extra texture
// units that were bound and must be cleared after the draw.
func (r *Renderer) applyUniforms(sp *shaderProgram, uniforms gfx.Uniforms) []uint32 {
	var units []uint32
	for name, value := range uniforms {
		loc := sp.location(name)
		if loc < 0 {
			continue
		}

		switch v := value.(type) {
		case float32:
			rl.SetShaderValue(sp.shader, loc, []float32{v}, rl.ShaderUniformFloat)
		case int32:
			rl.SetShaderValue(sp.shader, loc, []float32{intBits(v)}, rl.ShaderUniformInt)
		case mgl32.Vec2:
			rl.SetShaderValue(sp.shader, loc, v[:], rl.ShaderUniformVec2)
		case mgl32.Vec3:
			rl.SetShaderValue(sp.shader, loc, v[:], rl.ShaderUniformVec3)
		case mgl32.Vec4:
			rl.SetShaderValue(sp.shader, loc, v[:], rl.ShaderUniformVec4)
		case []float32:
			if len(v) > 0 {
				rl.SetShaderValueV(sp.shader, loc, v, rl.ShaderUniformFloat, int32(len(v)))
			}
		case []mgl32.Vec3:
			if len(v) > 0 {
				flat := make([]float32, 0, len(v)*3)
				for _, vec := range v {
					flat = append(flat, vec[:]...)
				}
				rl.SetShaderValueV(sp.shader, loc, flat, rl.ShaderUniformVec3, int32(len(v)))
			}
		case *gfx.Texture:
			if unit, ok := r.bindSampler(sp, loc, v, firstExtraUnit+uint32(len(units))); ok {
				units = append(units, unit)
			}
		default:
			engineLog.Warn("uniform %s has unsupported type %T", name, value)
		}
	}
	return units
}

// bindSampler binds t to the sampler at loc. 2-D textures go through raylib's batch
// slots; 3-D and cube textures are bound to unit directly.
func (r *Renderer) bindSampler(sp *shaderProgram, loc int32, t *gfx.Texture, unit uint32) (uint32, bool) {
	if t == nil {
		rl.SetShaderValueTexture(sp.shader, loc, r.black)
		return 0, false
	}
	if t.RenderTarget() != nil || t.Kind == gfx.Kind2D {
		rl.SetShaderValueTexture(sp.shader, loc, r.Texture(t))
		return 0, false
	}

	tex := r.texture(t)
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(tex.target, tex.id)
	gl.ActiveTexture(gl.TEXTURE0)
	rl.SetShaderValue(sp.shader, loc, []float32{intBits(int32(unit))}, rl.ShaderUniformInt)
	return unit, true
}

func unbindUnits(units []uint32) {
	for _, unit := range units {
		gl.ActiveTexture(gl.TEXTURE0 + unit)
		gl.BindTexture(gl.TEXTURE_3D, 0)
		gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)
	}
	gl.ActiveTexture(gl.TEXTURE0)
}

// intBits smuggles an int through raylib's float-typed uniform setter.
func intBits(v int32) float32 {
	return math.Float32frombits(uint32(v))
}
