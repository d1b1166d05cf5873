package main

import (
	"flag"
	"os"

	"linux-shadertoy/internal/render"
	"linux-shadertoy/internal/shadertoy"
	"linux-shadertoy/internal/utils"

	rl "github.com/gen2brain/raylib-go/raylib"
	_ "github.com/silbinarywolf/preferdiscretegpu"
)

type Config struct {
	ID   string
	File string
	Key  string
	Host string

	Width        int
	Height       int
	WindowWidth  int
	WindowHeight int
	FPS          int
	Scaling      string
	Background   string

	Cache       string
	GlobalMouse bool
	Strict      bool
	Volume      float64
}

func main() {
	var cfg Config
	flag.StringVar(&cfg.ID, "id", "", "Shadertoy id to fetch from the API")
	flag.StringVar(&cfg.File, "file", "", "Path to an exported shader JSON")
	flag.StringVar(&cfg.Key, "key", os.Getenv("SHADERTOY_APP_KEY"), "Shadertoy API app key")
	flag.StringVar(&cfg.Host, "host", shadertoy.DefaultHost, "Shadertoy host for API and media requests")
	flag.IntVar(&cfg.Width, "width", render.DefaultSize, "Render width (0 follows the window)")
	flag.IntVar(&cfg.Height, "height", render.DefaultSize, "Render height (0 follows the window)")
	flag.IntVar(&cfg.WindowWidth, "window-width", 1280, "Initial window width")
	flag.IntVar(&cfg.WindowHeight, "window-height", 720, "Initial window height")
	flag.IntVar(&cfg.FPS, "fps", 60, "Target frame rate")
	flag.StringVar(&cfg.Scaling, "scaling", "fit", "How the image is placed in the window: fit or fill")
	flag.StringVar(&cfg.Background, "background", "black", "CSS colour drawn around the image")
	flag.StringVar(&cfg.Cache, "cache", utils.DefaultCacheDir(), "Cache directory for definitions and media (empty disables)")
	flag.BoolVar(&cfg.GlobalMouse, "global-mouse", false, "Sample the X11 pointer instead of the window pointer")
	flag.BoolVar(&utils.SilentMode, "mute", false, "Do not open an audio device")
	flag.BoolVar(&cfg.Strict, "strict", false, "Fail on inputs that no pass or adapter can satisfy")
	flag.Float64Var(&cfg.Volume, "volume", 0.5, "Music volume (0-1)")
	flag.BoolVar(&utils.ShowRaylibInfo, "raylib-info", false, "Print raylib info messages regardless of the log level")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn or error")
	debugFlag := flag.Bool("debug", false, "Enable debug logging and the overlay")
	verboseFlag := flag.Bool("verbose", false, "Enable info logging")
	flag.Parse()

	switch {
	case *debugFlag:
		utils.CurrentLevel = utils.LevelDebug
		utils.ShowDebugUI = true
	case *verboseFlag:
		utils.CurrentLevel = utils.LevelInfo
	}
	if *logLevel != "" {
		level, err := utils.ParseLevel(*logLevel)
		if err != nil {
			utils.Error("%v", err)
			os.Exit(2)
		}
		utils.CurrentLevel = level
	}

	if cfg.ID == "" && cfg.File == "" {
		if flag.NArg() > 0 {
			cfg.File = flag.Arg(0)
		} else {
			utils.Error("Usage: linux-shadertoy -file shader.json | -id XsXXDn [flags]")
			os.Exit(2)
		}
	}
	if cfg.Scaling != "fit" && cfg.Scaling != "fill" {
		utils.Warn("Unknown scaling mode %q, using fit", cfg.Scaling)
		cfg.Scaling = "fit"
	}
	utils.CacheDir = cfg.Cache

	def, fetcher, err := LoadDefinition(cfg)
	if err != nil {
		utils.Error("Failed to load shader: %v", err)
		os.Exit(1)
	}

	rl.SetTraceLogCallback(utils.RaylibLogCallback)
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagVsyncHint)
	rl.InitWindow(int32(cfg.WindowWidth), int32(cfg.WindowHeight), windowTitle(def))
	defer rl.CloseWindow()

	window, err := NewWindow(def, fetcher, cfg)
	if err != nil {
		utils.Error("Failed to build shader: %v", err)
		os.Exit(1)
	}
	defer window.Close()

	utils.Info("--- Shadertoy Start: %s ---", def.Info.Name)
	window.Run()
}

func windowTitle(def *shadertoy.Definition) string {
	if def.Info.Name == "" {
		return "Linux Shadertoy"
	}
	if def.Info.Username == "" {
		return def.Info.Name + " - Linux Shadertoy"
	}
	return def.Info.Name + " by " + def.Info.Username + " - Linux Shadertoy"
}
