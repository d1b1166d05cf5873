package debug

import (
	"runtime"

	"linux-shadertoy/internal/utils"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// View describes how the material is placed in the window.
type View struct {
	Scaling      string
	Scale        float32
	OffsetX      float32
	OffsetY      float32
	RenderWidth  int
	RenderHeight int
}

func (d *DebugOverlay) drawPerformance(y int, view View) {
	ui := d.panel(y)

	ui.Header("Timing")
	ui.Value("FPS", "%.1f", d.fps)
	ui.Value("Frame Time", "%.2fms", rl.GetFrameTime()*1000)
	ui.Gap()

	ui.Header("Memory")
	ui.Value("Alloc", "%v MB", d.memStats.Alloc/1024/1024)
	ui.Value("Sys", "%v MB", d.memStats.Sys/1024/1024)
	ui.Value("NumGC", "%v", d.memStats.NumGC)
	ui.Gap()

	ui.Header("System")
	ui.Value("OS", "%s/%s", runtime.GOOS, runtime.GOARCH)
	ui.Value("CPUs", "%d", runtime.NumCPU())
	ui.Value("Goroutines", "%d", runtime.NumGoroutine())
	ui.Gap()

	ui.Header("Graphics")
	ui.Value("Renderer", "%s", utils.GPURenderer)
	ui.Value("Vendor", "%s", utils.GPUVendor)
	ui.Value("GL", "%s", utils.GLVersion)
	ui.Value("Window", "%dx%d", rl.GetScreenWidth(), rl.GetScreenHeight())
	ui.Value("Render", "%dx%d", view.RenderWidth, view.RenderHeight)
	ui.Value("Scaling", "%s (%.2f)", view.Scaling, view.Scale)
	ui.Value("Offset", "%.0f, %.0f", view.OffsetX, view.OffsetY)
}
