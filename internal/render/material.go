// Package render builds the pass graph of a shader definition and drives it frame by frame.
package render

import (
	"context"
	"errors"
	"fmt"

	"linux-shadertoy/internal/gfx"
	"linux-shadertoy/internal/input"
	"linux-shadertoy/internal/shadertoy"
	"linux-shadertoy/internal/utils"

	"golang.org/x/sync/errgroup"
)

var materialLog = utils.NewLogger("Material")

var (
	ErrNoImagePass     = errors.New("render: shader definition has no image pass")
	ErrUnresolvedInput = errors.New("render: no pass or input provides this id")
)

// Material owns every pass and input adapter of one shader.
type Material struct {
	info   shadertoy.Info
	opts   Options
	clock  *Clock
	width  int
	height int

	passes  []*RenderPass // declaration order
	buffers []*RenderPass
	image   *RenderPass

	inputs   map[shadertoy.ID]input.Input
	inputIDs []shadertoy.ID
}

// NewMaterial builds the pass graph for def. Buffer passes render in declaration
// order before the image pass; a buffer reading a later buffer sees that buffer's
// previous frame.
func NewMaterial(def *shadertoy.Definition, opts Options) (*Material, error) {
	if err := def.Validate(); err != nil {
		if errors.Is(err, shadertoy.ErrNoPasses) {
			return nil, fmt.Errorf("%w: %w", ErrNoImagePass, err)
		}
		return nil, err
	}
	opts = opts.withDefaults()

	m := &Material{
		info:   def.Info,
		opts:   opts,
		clock:  NewClock(opts.Now),
		width:  opts.Width,
		height: opts.Height,
		inputs: make(map[shadertoy.ID]input.Input),
	}

	outputs := make(map[shadertoy.ID]*RenderPass)
	for _, pd := range def.RenderPass {
		switch pd.Type {
		case shadertoy.PassCommon:
			continue
		case shadertoy.PassImage:
			if m.image != nil {
				materialLog.Warn("extra image pass %q ignored", pd.Name)
				continue
			}
		case shadertoy.PassBuffer:
		default:
			materialLog.Warn("pass %q of type %q is not supported, skipping", pd.Name, pd.Type)
			continue
		}

		pass, err := NewRenderPass(pd, opts)
		if err != nil {
			return nil, err
		}
		m.passes = append(m.passes, pass)
		if pd.Type == shadertoy.PassImage {
			m.image = pass
		} else {
			m.buffers = append(m.buffers, pass)
		}
		for _, out := range pd.Outputs {
			outputs[out.ID] = pass
		}
	}

	if m.image == nil {
		return nil, ErrNoImagePass
	}

	if common := def.CommonCode(); common != "" {
		for _, pass := range m.passes {
			pass.AddCommonShader(common)
		}
	}

	for _, pass := range m.passes {
		for _, in := range pass.Inputs() {
			src, err := m.resolve(in, outputs)
			if err != nil {
				return nil, fmt.Errorf("pass %s: %w", pass.Name(), err)
			}
			if src == nil {
				continue
			}
			if err := pass.ConnectInputChannel(in.Channel, src); err != nil {
				return nil, fmt.Errorf("pass %s: %w", pass.Name(), err)
			}
		}
	}

	materialLog.Info("%q with %d buffer passes and %d inputs", m.info.Name, len(m.buffers), len(m.inputs))
	return m, nil
}

// resolve finds the producer for an input id: a pass output, an adapter already
// created for the same id, or a new adapter. A nil source means the channel stays unbound.
func (m *Material) resolve(in shadertoy.Input, outputs map[shadertoy.ID]*RenderPass) (input.Source, error) {
	if pass, ok := outputs[in.ID]; ok {
		return pass, nil
	}
	if adapter, ok := m.inputs[in.ID]; ok {
		return adapter, nil
	}

	if in.CType == shadertoy.CTypeBuffer {
		if m.opts.Strict {
			return nil, fmt.Errorf("input %s: %w", in.ID, ErrUnresolvedInput)
		}
		materialLog.Error("no pass provides a stream with the id %s", in.ID)
		return nil, nil
	}

	adapter, err := input.New(in, m.opts.Fetcher)
	if errors.Is(err, input.ErrUnsupported) {
		materialLog.Warn("input %s (%s) is not supported, channel %d left unbound", in.ID, in.CType, in.Channel)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	m.inputs[in.ID] = adapter
	m.inputIDs = append(m.inputIDs, in.ID)
	return adapter, nil
}

func (m *Material) Info() shadertoy.Info   { return m.info }
func (m *Material) Width() int             { return m.width }
func (m *Material) Height() int            { return m.height }
func (m *Material) ImagePass() *RenderPass { return m.image }
func (m *Material) Clock() *Clock          { return m.clock }

// Passes returns buffer passes in render order followed by the image pass.
func (m *Material) Passes() []*RenderPass {
	passes := make([]*RenderPass, 0, len(m.buffers)+1)
	passes = append(passes, m.buffers...)
	return append(passes, m.image)
}

// Inputs returns the input adapters in the order they were first referenced.
func (m *Material) Inputs() []input.Input {
	inputs := make([]input.Input, len(m.inputIDs))
	for i, id := range m.inputIDs {
		inputs[i] = m.inputs[id]
	}
	return inputs
}

func (m *Material) Input(id shadertoy.ID) (input.Input, bool) {
	in, ok := m.inputs[id]
	return in, ok
}

// OutputTexture is the image pass's render target, ready to be drawn to the screen.
func (m *Material) OutputTexture() *gfx.Texture {
	return m.image.OutputTexture()
}

// LoadMedia starts an asynchronous load for every input adapter's declared media and
// waits for all of them. The first error cancels the rest and is returned; adapters
// that failed keep their placeholder.
func (m *Material) LoadMedia(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, id := range m.inputIDs {
		in := m.inputs[id]
		data, ok := input.Request(in)
		if !ok {
			continue
		}
		done := input.LoadAsync(ctx, in, data)
		g.Go(func() error {
			if err := <-done; err != nil {
				return fmt.Errorf("input %s: %w", id, err)
			}
			return nil
		})
	}
	return g.Wait()
}

func (m *Material) Resize(width, height int) {
	m.width, m.height = width, height
	for _, pass := range m.passes {
		pass.Resize(width, height)
	}
}

// Update advances the clock and pushes the frame values to every input and pass.
func (m *Material) Update(in FrameInput) {
	delta, elapsed := m.clock.Tick()
	values := FrameValues{
		FrameInput: in,
		Delta:      delta,
		Time:       elapsed,
		Date:       m.opts.Now(),
	}

	for _, id := range m.inputIDs {
		m.inputs[id].Update(elapsed)
	}
	for _, pass := range m.Passes() {
		pass.Update(values)
	}
}

// Render draws all buffer passes in declaration order, then the image pass, and
// leaves the display surface selected.
func (m *Material) Render(r gfx.Renderer) error {
	defer r.SetRenderTarget(nil)

	var errs []error
	for _, pass := range m.buffers {
		if err := pass.Render(r); err != nil {
			errs = append(errs, err)
		}
	}
	if err := m.image.Render(r); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (m *Material) Dispose(r gfx.Renderer) {
	for _, pass := range m.passes {
		pass.Dispose(r)
	}
}
