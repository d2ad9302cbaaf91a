package cmd

import (
	"path/filepath"
	"strings"

	"github.com/achilleasa/polaris-bench/asset"
	"github.com/achilleasa/polaris-bench/asset/texture"
	"github.com/achilleasa/polaris-bench/benchmark"
	"github.com/achilleasa/polaris-bench/export"
	"github.com/achilleasa/polaris-bench/renderer"
	"github.com/achilleasa/polaris-bench/scene"
	"github.com/urfave/cli"
)

// Build the benchmark settings from the optional config file and the command
// line. Flags that were explicitly set override the file. The returned
// resource is the config file (or nil) that relative texture paths in the
// file are resolved against.
func loadConfig(ctx *cli.Context) (benchmark.Config, *asset.Resource, error) {
	cfg := benchmark.DefaultConfig()

	var relTo *asset.Resource
	if cfgFile := ctx.String("config"); cfgFile != "" {
		res, err := asset.NewResource(cfgFile, nil)
		if err != nil {
			return cfg, nil, err
		}
		defer res.Close()

		if cfg, err = benchmark.LoadConfig(res); err != nil {
			return cfg, nil, err
		}
		relTo = res
		logger.Infof("loaded settings from %s", cfgFile)
	}

	if ctx.IsSet("width") {
		cfg.Width = uint32(ctx.Int("width"))
	}
	if ctx.IsSet("height") {
		cfg.Height = uint32(ctx.Int("height"))
	}
	if ctx.IsSet("interval") {
		cfg.SampleInterval = ctx.Duration("interval")
	}
	if ctx.IsSet("duration") {
		cfg.Duration = ctx.Duration("duration")
	}
	if ctx.IsSet("frame-interval") {
		cfg.FrameInterval = ctx.Duration("frame-interval")
	}
	if ctx.IsSet("mirror") {
		cfg.MirrorRatio = float32(ctx.Float64("mirror"))
	}
	if ctx.IsSet("workers") {
		cfg.Workers = ctx.Int("workers")
	}
	if ctx.IsSet("sky") {
		cfg.Textures.Skybox = cliPath(ctx.String("sky"))
	}
	if ctx.IsSet("ground") {
		cfg.Textures.Ground = cliPath(ctx.String("ground"))
	}
	if ctx.IsSet("environment") {
		cfg.Textures.Environment = cliPath(ctx.String("environment"))
	}

	return cfg, relTo, cfg.Validate()
}

// Paths given on the command line are relative to the working directory and
// not to the config file.
func cliPath(path string) string {
	if path == "" || strings.Contains(path, "://") || filepath.IsAbs(path) {
		return path
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

// Load the environment textures and assemble the controller options.
func controllerOptions(ctx *cli.Context, cfg benchmark.Config, relTo *asset.Resource) ([]benchmark.Option, error) {
	set, err := texture.LoadSet(cfg.Textures, relTo)
	if err != nil {
		return nil, err
	}

	opts := []benchmark.Option{
		benchmark.WithSampleInterval(cfg.SampleInterval),
		benchmark.WithEnvironment(scene.EnvironmentOptions{
			SkyboxTexture:      set.Skybox,
			GroundTexture:      set.Ground,
			EnvironmentTexture: set.Environment,
			MirrorRatio:        cfg.MirrorRatio,
		}),
		benchmark.WithRendererOptions(renderer.Options{
			FrameW:        cfg.Width,
			FrameH:        cfg.Height,
			FrameInterval: cfg.FrameInterval,
			Workers:       cfg.Workers,
		}),
	}
	if ctx.IsSet("seed") {
		opts = append(opts, benchmark.WithSeed(ctx.Int64("seed")))
	}
	return opts, nil
}

// Forward snapshots to an MQTT broker when one is configured. The returned
// func detaches the publisher and disconnects from the broker.
func setupExport(ctx *cli.Context, ctrl *benchmark.Controller) (func(), error) {
	broker := ctx.String("mqtt-broker")
	if broker == "" {
		return func() {}, nil
	}

	pub, err := export.Dial(broker, ctx.String("mqtt-topic"))
	if err != nil {
		return nil, err
	}
	logger.Noticef("publishing snapshots to %s", broker)

	remove := ctrl.Subscribe(pub.Publish)
	return func() {
		remove()
		pub.Close()
	}, nil
}
