package debug

import (
	"linux-shadertoy/internal/engine"
	"linux-shadertoy/internal/render"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func (d *DebugOverlay) drawPasses(material *render.Material, y int) {
	ui := d.panel(y)

	info := material.Info()
	ui.Header("%s by %s", info.Name, info.Username)
	ui.Value("Resolution", "%dx%d", material.Width(), material.Height())
	ui.Value("Time", "%.2fs", material.ImagePass().OutputTime())
	if ui.Checkbox("Thumbnails", d.ShowThumbnails) {
		d.ShowThumbnails = !d.ShowThumbnails
	}
	ui.Gap()

	for _, p := range material.Passes() {
		kind := "image"
		if p.IsBuffer() {
			kind = "buffer"
		}
		ui.Line("%s (%s)", p.Name(), kind)
		ui.Value("Frame", "%d", p.Frame())
		for ch := range 4 {
			src := p.Channel(ch)
			if src == nil {
				continue
			}
			size := src.OutputSize()
			ui.Note("iChannel%d: %s %.0fx%.0f", ch, src.(interface{ Type() string }).Type(), size.X(), size.Y())
		}
		ui.Gap()
	}
}

// drawThumbnails shows every pass output in a column to the right of the sidebar.
func (d *DebugOverlay) drawThumbnails(material *render.Material, renderer *engine.Renderer) {
	size := float32(160 * d.uiScale)
	margin := float32(8 * d.uiScale)
	x := float32(d.sidebarWidth) + margin
	y := margin

	for _, p := range material.Passes() {
		tex := p.OutputTexture()
		if tex == nil {
			continue
		}
		w, h, _ := tex.Size()
		if w == 0 || h == 0 {
			continue
		}
		thumbH := size * float32(h) / float32(w)
		dst := rl.NewRectangle(x, y, size, thumbH)

		rl.DrawRectangle(int32(x-1), int32(y-1), int32(size+2), int32(thumbH+2), rl.NewColor(0, 0, 0, 200))
		renderer.DrawTexture(tex, dst, rl.White)
		d.DrawText(p.Name(), int32(x+4), int32(y+4), int32(d.fontHeight), rl.Yellow)

		y += thumbH + margin
	}
}
