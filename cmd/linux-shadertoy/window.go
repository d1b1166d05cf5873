package main

import (
	"context"
	"image/color"
	"math"

	"linux-shadertoy/internal/debug"
	"linux-shadertoy/internal/engine"
	"linux-shadertoy/internal/input"
	"linux-shadertoy/internal/render"
	"linux-shadertoy/internal/shadertoy"
	"linux-shadertoy/internal/utils"

	rl "github.com/gen2brain/raylib-go/raylib"
	"golang.design/x/clipboard"
)

var windowLog = utils.NewLogger("Window")

type Window struct {
	cfg          Config
	bgColor      color.RGBA
	material     *render.Material
	renderer     *engine.Renderer
	musicPlayer  *engine.MusicPlayer
	debugOverlay *debug.DebugOverlay
	cancelLoad   context.CancelFunc

	renderScale  float64
	sceneOffsetX float64
	sceneOffsetY float64
	followWindow bool

	clipboardReady bool
}

func NewWindow(def *shadertoy.Definition, fetcher *shadertoy.MediaFetcher, cfg Config) (*Window, error) {
	followWindow := cfg.Width <= 0 || cfg.Height <= 0
	width, height := cfg.Width, cfg.Height
	if followWindow {
		width, height = rl.GetScreenWidth(), rl.GetScreenHeight()
	}

	material, err := render.NewMaterial(def, render.Options{
		Width:   width,
		Height:  height,
		Strict:  cfg.Strict,
		Fetcher: fetcher,
	})
	if err != nil {
		return nil, err
	}

	renderer, err := engine.NewRenderer()
	if err != nil {
		return nil, err
	}
	window := &Window{
		cfg:          cfg,
		bgColor:      ParseColor(cfg.Background),
		material:     material,
		renderer:     renderer,
		musicPlayer:  engine.NewMusicPlayer(),
		debugOverlay: debug.NewDebugOverlay(),
		renderScale:  1.0,
		followWindow: followWindow,
	}

	window.clipboardReady = clipboard.Init() == nil
	if !window.clipboardReady {
		windowLog.Debug("clipboard unavailable, F9 disabled")
	}

	ctx, cancel := context.WithCancel(context.Background())
	window.cancelLoad = cancel

	for _, in := range material.Inputs() {
		if a, ok := in.(*input.Audio); ok {
			if err := window.musicPlayer.Play(ctx, a, fetcher, float32(cfg.Volume)); err != nil {
				windowLog.Error("music %s: %v", a.WantURL(), err)
			}
		}
	}

	go func() {
		if err := material.LoadMedia(ctx); err != nil {
			loaderLog.Error("%v", err)
		}
	}()

	return window, nil
}

func (window *Window) Run() {
	rl.SetTargetFPS(int32(window.cfg.FPS))

	for !rl.WindowShouldClose() {
		window.Update()

		if err := window.material.Render(window.renderer); err != nil {
			windowLog.Error("render: %v", err)
		}

		rl.BeginDrawing()
		window.Draw()
		rl.EndDrawing()
	}
}

func (window *Window) Update() {
	screenWidth := rl.GetScreenWidth()
	screenHeight := rl.GetScreenHeight()

	if window.followWindow && screenWidth > 0 && screenHeight > 0 &&
		(screenWidth != window.material.Width() || screenHeight != window.material.Height()) {
		windowLog.Debug("resized to %dx%d", screenWidth, screenHeight)
		window.material.Resize(screenWidth, screenHeight)
	}

	sceneWidth := float64(window.material.Width())
	sceneHeight := float64(window.material.Height())

	scaleW := float64(screenWidth) / sceneWidth
	scaleH := float64(screenHeight) / sceneHeight

	if window.cfg.Scaling == "fit" {
		window.renderScale = math.Min(scaleW, scaleH)
	} else {
		window.renderScale = math.Max(scaleW, scaleH)
	}

	window.sceneOffsetX = (float64(screenWidth) - sceneWidth*window.renderScale) / 2
	window.sceneOffsetY = (float64(screenHeight) - sceneHeight*window.renderScale) / 2

	if rl.IsKeyPressed(rl.KeyF5) {
		window.material.Clock().Reset()
		window.musicPlayer.Restart()
		windowLog.Info("restarted")
	}
	if rl.IsKeyPressed(rl.KeyF8) {
		utils.ShowDebugUI = !utils.ShowDebugUI
	}
	if rl.IsKeyPressed(rl.KeyF9) && window.clipboardReady {
		clipboard.Write(clipboard.FmtText, []byte(window.material.ImagePass().FragmentSource()))
		windowLog.Info("copied image pass source")
	}

	window.musicPlayer.Update()
	window.material.Update(window.mouse())

	if utils.ShowDebugUI {
		window.debugOverlay.Update()
	}
}

// mouse samples the pointer in pass pixels with the origin at the bottom left.
// Clicks over the debug overlay are not passed on.
func (window *Window) mouse() render.FrameInput {
	var mouseX, mouseY float64
	var left, right bool

	if window.cfg.GlobalMouse {
		pointer, err := utils.GlobalPointer()
		if err != nil {
			windowLog.Warn("X11 pointer unavailable, using window pointer: %v", err)
			window.cfg.GlobalMouse = false
			return window.mouse()
		}
		pos := rl.GetWindowPosition()
		mouseX = float64(pointer.X) - float64(pos.X)
		mouseY = float64(pointer.Y) - float64(pos.Y)
		left, right = pointer.Left, pointer.Right
	} else {
		mPos := rl.GetMousePosition()
		mouseX, mouseY = float64(mPos.X), float64(mPos.Y)
		left = rl.IsMouseButtonDown(rl.MouseLeftButton)
		right = rl.IsMouseButtonDown(rl.MouseRightButton)
	}

	if utils.ShowDebugUI && window.debugOverlay.Captures(float32(mouseX), float32(mouseY)) {
		left, right = false, false
	}

	relMouseX := (mouseX - window.sceneOffsetX) / window.renderScale
	relMouseY := (mouseY - window.sceneOffsetY) / window.renderScale

	return render.FrameInput{
		MouseX:     float32(relMouseX),
		MouseY:     float32(float64(window.material.Height()) - relMouseY),
		MouseLeft:  left,
		MouseRight: right,
	}
}

func (window *Window) Draw() {
	rl.ClearBackground(rl.NewColor(window.bgColor.R, window.bgColor.G, window.bgColor.B, 255))

	destRec := rl.NewRectangle(
		float32(window.sceneOffsetX),
		float32(window.sceneOffsetY),
		float32(float64(window.material.Width())*window.renderScale),
		float32(float64(window.material.Height())*window.renderScale),
	)
	window.renderer.DrawTexture(window.material.OutputTexture(), destRec, color.RGBA{255, 255, 255, 255})

	if utils.ShowDebugUI {
		window.debugOverlay.Draw(window.material, window.renderer, debug.View{
			Scaling:      window.cfg.Scaling,
			Scale:        float32(window.renderScale),
			OffsetX:      float32(window.sceneOffsetX),
			OffsetY:      float32(window.sceneOffsetY),
			RenderWidth:  window.material.Width(),
			RenderHeight: window.material.Height(),
		})
	}
}

func (window *Window) Close() {
	window.cancelLoad()
	window.musicPlayer.Close()
	window.debugOverlay.Close()
	window.material.Dispose(window.renderer)
	window.renderer.Close()
	utils.CloseX11()
}
