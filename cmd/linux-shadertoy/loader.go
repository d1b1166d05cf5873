package main

import (
	"context"
	"fmt"
	"image/color"
	"path/filepath"
	"time"

	"linux-shadertoy/internal/shadertoy"
	"linux-shadertoy/internal/utils"

	css "github.com/mazznoer/csscolorparser"
)

var loaderLog = utils.NewLogger("Loader")

// LoadDefinition reads the shader from -file or fetches it by -id, and returns a
// media fetcher set up to resolve the shader's inputs.
func LoadDefinition(cfg Config) (*shadertoy.Definition, *shadertoy.MediaFetcher, error) {
	fetcher := shadertoy.NewMediaFetcher(cfg.Host)
	fetcher.UseCache = cfg.Cache != ""

	if cfg.File != "" {
		def, err := shadertoy.LoadFile(cfg.File)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", cfg.File, err)
		}
		fetcher.Dir = filepath.Dir(cfg.File)
		loaderLog.Info("Loaded %s (%d passes)", cfg.File, len(def.RenderPass))
		return def, fetcher, nil
	}

	if cfg.Key == "" {
		return nil, nil, fmt.Errorf("fetching %s needs an app key (-key or SHADERTOY_APP_KEY)", cfg.ID)
	}

	client := shadertoy.NewClient(cfg.Key)
	client.Host = cfg.Host
	client.UseCache = cfg.Cache != ""

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	def, err := client.Shader(ctx, cfg.ID)
	if err != nil {
		return nil, nil, err
	}
	loaderLog.Info("Fetched %s (%d passes)", cfg.ID, len(def.RenderPass))
	return def, fetcher, nil
}

func ParseColor(str string) color.RGBA {
	c, err := css.Parse(str)
	if err != nil {
		loaderLog.Warn("Invalid background colour %q: %v", str, err)
		return color.RGBA{0, 0, 0, 255}
	}
	return color.RGBA{
		R: uint8(255 * c.R),
		G: uint8(255 * c.G),
		B: uint8(255 * c.B),
		A: 255,
	}
}
