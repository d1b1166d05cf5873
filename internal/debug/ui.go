package debug

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

var (
	headerColor = rl.NewColor(255, 200, 90, 255)
	keyColor    = rl.NewColor(170, 170, 170, 255)
	boxColor    = rl.NewColor(150, 150, 150, 255)
	checkColor  = rl.NewColor(100, 255, 100, 255)
)

const rowIndent = 10

// panel lays out one column of overlay rows top to bottom.
type panel struct {
	x, y    int
	overlay *DebugOverlay
}

func (d *DebugOverlay) panel(y int) *panel {
	return &panel{x: 10, y: y, overlay: d}
}

func (p *panel) text(text string, x int, color rl.Color) {
	d := p.overlay
	pos := rl.NewVector2(float32(x), float32(p.y))
	if d.font.BaseSize > 0 {
		rl.DrawTextEx(d.font, text, pos, float32(d.fontHeight), 1, color)
	} else {
		rl.DrawText(text, int32(x), int32(p.y), int32(d.fontHeight), color)
	}
}

func (p *panel) width(text string) int {
	d := p.overlay
	if d.font.BaseSize > 0 {
		return int(rl.MeasureTextEx(d.font, text, float32(d.fontHeight), 1).X)
	}
	return int(rl.MeasureText(text, int32(d.fontHeight)))
}

func (p *panel) next() { p.y += p.overlay.lineHeight }

func (p *panel) Header(format string, v ...any) {
	p.text(fmt.Sprintf(format, v...), p.x, headerColor)
	p.next()
}

func (p *panel) Line(format string, v ...any) {
	p.text(fmt.Sprintf(format, v...), p.x, rl.White)
	p.next()
}

// Note is an indented, dimmed line.
func (p *panel) Note(format string, v ...any) {
	p.text(fmt.Sprintf(format, v...), p.x+rowIndent, rl.LightGray)
	p.next()
}

// Value draws an indented "key: value" row.
func (p *panel) Value(key, format string, v ...any) {
	k := key + ": "
	p.text(k, p.x+rowIndent, keyColor)
	p.text(fmt.Sprintf(format, v...), p.x+rowIndent+p.width(k), rl.White)
	p.next()
}

func (p *panel) Gap() { p.y += p.overlay.lineHeight / 2 }

// Checkbox reports whether the box or its label was clicked this frame.
func (p *panel) Checkbox(label string, checked bool) bool {
	d := p.overlay
	size := d.fontHeight * 4 / 5
	bx, by := p.x+5, p.y+2
	lx := bx + size + 5
	hit := rl.Rectangle{
		X:      float32(bx),
		Y:      float32(by),
		Width:  float32(lx - bx + p.width(label)),
		Height: float32(size),
	}

	rl.DrawRectangleLines(int32(bx), int32(by), int32(size), int32(size), boxColor)
	if checked {
		rl.DrawRectangle(int32(bx+2), int32(by+2), int32(size-4), int32(size-4), checkColor)
	}
	p.text(label, lx, rl.White)
	p.next()

	mouse := rl.NewVector2(float32(d.mouseX), float32(d.mouseY))
	return d.clicked && rl.CheckCollisionPointRec(mouse, hit)
}
