package debug

import (
	"linux-shadertoy/internal/render"
)

func (d *DebugOverlay) drawInputs(material *render.Material, y int) {
	ui := d.panel(y)

	inputs := material.Inputs()
	ui.Header("Inputs: %d", len(inputs))
	ui.Gap()

	for _, in := range inputs {
		ui.Line("%s", in.CType())
		if url := in.WantURL(); url != "" {
			ui.Note("%s", url)
		}
		size := in.OutputSize()
		ui.Value("Size", "%.0fx%.0fx%.0f", size.X(), size.Y(), size.Z())
		if t := in.OutputTime(); t > 0 {
			ui.Value("Time", "%.2fs", t)
		}
		ui.Gap()
	}
}
