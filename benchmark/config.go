package benchmark

import (
	"fmt"
	"time"

	"github.com/achilleasa/polaris-bench/asset"
	"github.com/achilleasa/polaris-bench/asset/texture"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Benchmark settings. Zero values in a config file keep the defaults.
type Config struct {
	// Surface size.
	Width  uint32 `yaml:"width"`
	Height uint32 `yaml:"height"`

	// Snapshot publishing period.
	SampleInterval time.Duration `yaml:"interval"`

	// Stop the run after this long; zero runs until interrupted.
	Duration time.Duration `yaml:"duration"`

	// Minimum time between frames; zero renders as fast as possible.
	FrameInterval time.Duration `yaml:"frameInterval"`

	// Ground mirror size relative to the frame; zero disables the mirror.
	MirrorRatio float32 `yaml:"mirrorRatio"`

	// Go-routines sharing the background pass; zero uses one per CPU.
	Workers int `yaml:"workers"`

	Textures texture.Paths `yaml:"textures"`
}

func DefaultConfig() Config {
	return Config{
		Width:          1024,
		Height:         768,
		SampleInterval: time.Second,
		MirrorRatio:    0.5,
	}
}

// Check the settings for values the controller cannot work with.
func (c Config) Validate() error {
	if c.Width == 0 || c.Height == 0 {
		return fmt.Errorf("benchmark: invalid surface size %dx%d", c.Width, c.Height)
	}
	if c.SampleInterval <= 0 {
		return fmt.Errorf("benchmark: sample interval must be positive; got %s", c.SampleInterval)
	}
	if c.Workers < 0 {
		return fmt.Errorf("benchmark: invalid worker count %d", c.Workers)
	}
	if c.Duration < 0 || c.FrameInterval < 0 {
		return errors.New("benchmark: durations cannot be negative")
	}
	if c.MirrorRatio < 0 || c.MirrorRatio > 1 {
		return fmt.Errorf("benchmark: mirror ratio must be in [0, 1]; got %g", c.MirrorRatio)
	}
	return nil
}

// Parse a yaml config on top of the default settings. Texture paths in the
// config are relative to res.
func LoadConfig(res *asset.Resource) (Config, error) {
	cfg := DefaultConfig()

	data, err := res.Bytes()
	if err != nil {
		return cfg, errors.Wrapf(err, "benchmark: could not read config %s", res.Path())
	}
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "benchmark: could not parse config %s", res.Path())
	}

	return cfg, cfg.Validate()
}
