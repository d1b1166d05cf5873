package render

import (
	"errors"
	"fmt"

	"linux-shadertoy/internal/gfx"
	"linux-shadertoy/internal/input"
	"linux-shadertoy/internal/shadertoy"
	"linux-shadertoy/internal/utils"

	"github.com/go-gl/mathgl/mgl32"
)

var passLog = utils.NewLogger("RenderPass")

var (
	ErrChannelRange = shadertoy.ErrChannelRange
	ErrPassType     = errors.New("render: unsupported pass type")
)

var targetSampler = gfx.Sampler{Filter: gfx.FilterLinear, Wrap: gfx.WrapClamp}

// RenderPass is one shader program and its render target. Buffer passes own a second
// feedback target holding a copy of the last drawn frame; that copy is what other
// channels sample.
type RenderPass struct {
	def     shadertoy.Pass
	opts    Options
	program *gfx.Program
	copy    *gfx.Program

	target   *gfx.RenderTarget
	feedback *gfx.RenderTarget
	retired  []*gfx.RenderTarget

	channels [shadertoy.Channels]input.Source
	finished bool
	frame    int
	time     float32
}

// NewRenderPass creates an image or buffer pass. The program is completed on the
// first Render, after any common code has been added.
func NewRenderPass(def shadertoy.Pass, opts Options) (*RenderPass, error) {
	if def.Type != shadertoy.PassImage && def.Type != shadertoy.PassBuffer {
		return nil, fmt.Errorf("%w: %q", ErrPassType, def.Type)
	}
	opts = opts.withDefaults()

	var kinds [shadertoy.Channels]gfx.Kind
	for _, in := range def.Inputs {
		if in.Channel < 0 || in.Channel >= shadertoy.Channels {
			return nil, fmt.Errorf("pass %s input %s: %w", def.Name, in.ID, ErrChannelRange)
		}
		kinds[in.Channel] = channelKind(in.CType)
	}

	p := &RenderPass{
		def:  def,
		opts: opts,
		program: &gfx.Program{
			Name:     def.Name,
			Fragment: fragmentHeader(opts.GLSLVersion, kinds),
			Uniforms: gfx.Uniforms{},
		},
	}
	if def.Type == shadertoy.PassBuffer {
		p.copy = &gfx.Program{
			Name:     def.Name + " copy",
			Fragment: copyFragment(opts.GLSLVersion),
			Uniforms: gfx.Uniforms{},
		}
	}

	p.program.SetFloat("iSampleRate", opts.SampleRate)
	p.program.SetInt("iFrame", 0)
	p.Update(FrameValues{Date: opts.Now()})
	p.Resize(opts.Width, opts.Height)
	return p, nil
}

func (p *RenderPass) Name() string                { return p.def.Name }
func (p *RenderPass) Type() string                { return p.def.Type }
func (p *RenderPass) Inputs() []shadertoy.Input   { return p.def.Inputs }
func (p *RenderPass) Outputs() []shadertoy.Output { return p.def.Outputs }
func (p *RenderPass) Program() *gfx.Program       { return p.program }
func (p *RenderPass) Frame() int                  { return p.frame }
func (p *RenderPass) Channel(ch int) input.Source { return p.channels[ch] }
func (p *RenderPass) Target() *gfx.RenderTarget   { return p.target }
func (p *RenderPass) Feedback() *gfx.RenderTarget { return p.feedback }
func (p *RenderPass) IsBuffer() bool              { return p.feedback != nil }
func (p *RenderPass) OutputTime() float32         { return p.time }

// OutputTexture is what other passes sample: the feedback copy for buffer passes,
// the render target itself for the image pass.
func (p *RenderPass) OutputTexture() *gfx.Texture {
	if p.feedback != nil {
		return p.feedback.Texture
	}
	return p.target.Texture
}

func (p *RenderPass) OutputSize() mgl32.Vec3 {
	return mgl32.Vec3{float32(p.target.Width), float32(p.target.Height), 1}
}

// FragmentSource is the program text as it currently stands.
func (p *RenderPass) FragmentSource() string {
	return p.program.Fragment
}

// AddCommonShader appends shared code. It only has an effect before the first Render.
func (p *RenderPass) AddCommonShader(code string) {
	if p.finished {
		passLog.Warn("%s already compiled, common code ignored", p.def.Name)
		return
	}
	p.program.Fragment += code + "\n"
}

// ConnectInputChannel binds src to iChannel<ch>. The texture is looked up again on
// every Render so a resized producer is always sampled through its current target.
func (p *RenderPass) ConnectInputChannel(ch int, src input.Source) error {
	if ch < 0 || ch >= shadertoy.Channels {
		return fmt.Errorf("channel %d: %w", ch, ErrChannelRange)
	}
	p.channels[ch] = src
	return nil
}

// Resize allocates fresh targets of the given size. Content is not preserved.
func (p *RenderPass) Resize(width, height int) {
	if p.target != nil {
		p.retired = append(p.retired, p.target)
	}
	if p.feedback != nil {
		p.retired = append(p.retired, p.feedback)
	}

	format := gfx.FormatRGBA8
	if p.copy != nil {
		format = gfx.FormatRGBA32F
	}
	p.target = gfx.NewRenderTarget(p.def.Name, width, height, format, targetSampler)
	if p.copy != nil {
		p.feedback = gfx.NewRenderTarget(p.def.Name+" feedback", width, height, format, targetSampler)
	}

	resolution := mgl32.Vec3{float32(width), float32(height), 1}
	p.program.SetVec3("iResolution", resolution)
	if p.copy != nil {
		p.copy.SetVec3("iResolution", resolution)
	}
}

// Update pushes the frame's time, mouse, date and channel uniforms.
func (p *RenderPass) Update(v FrameValues) {
	p.time = v.Time
	p.program.SetFloat("iTime", v.Time)
	p.program.SetFloat("iTimeDelta", v.Delta)
	if v.Delta > 0 {
		p.program.SetFloat("iFrameRate", 1/v.Delta)
	} else {
		p.program.SetFloat("iFrameRate", 0)
	}

	times := make([]float32, shadertoy.Channels)
	resolutions := make([]mgl32.Vec3, shadertoy.Channels)
	for i, src := range p.channels {
		if src == nil {
			continue
		}
		times[i] = src.OutputTime()
		resolutions[i] = src.OutputSize()
	}
	p.program.Uniforms["iChannelTime"] = times
	p.program.Uniforms["iChannelResolution"] = resolutions

	mouse := mgl32.Vec4{v.MouseX, v.MouseY, 0, 0}
	if v.MouseLeft {
		mouse[2] = 1
	}
	if v.MouseRight {
		mouse[3] = 1
	}
	p.program.SetVec4("iMouse", mouse)
	p.program.SetVec4("iDate", DateVec(v.Date))
}

// Render draws the pass. Buffer passes then copy the result into their feedback target.
func (p *RenderPass) Render(r gfx.Renderer) error {
	for _, rt := range p.retired {
		r.Release(rt)
	}
	p.retired = p.retired[:0]

	if !p.finished {
		p.program.Fragment += p.def.Code
		p.finished = true
	}

	p.program.SetInt("iFrame", int32(p.frame))
	p.frame++

	for i, src := range p.channels {
		name := fmt.Sprintf("iChannel%d", i)
		if src == nil {
			p.program.SetTexture(name, nil)
			continue
		}
		p.program.SetTexture(name, src.OutputTexture())
	}

	r.SetRenderTarget(p.target)
	if err := r.Draw(p.program); err != nil {
		return fmt.Errorf("pass %s: %w", p.def.Name, err)
	}

	if p.feedback != nil {
		p.copy.SetTexture("iSource", p.target.Texture)
		r.SetRenderTarget(p.feedback)
		if err := r.Draw(p.copy); err != nil {
			return fmt.Errorf("pass %s feedback: %w", p.def.Name, err)
		}
	}
	return nil
}

// Dispose releases every target the pass owns.
func (p *RenderPass) Dispose(r gfx.Renderer) {
	for _, rt := range p.retired {
		r.Release(rt)
	}
	p.retired = nil
	r.Release(p.target)
	if p.feedback != nil {
		r.Release(p.feedback)
	}
}
