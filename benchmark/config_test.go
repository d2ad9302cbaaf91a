package benchmark

import (
	"testing"
	"time"

	"github.com/achilleasa/polaris-bench/asset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigOverlaysDefaults(t *testing.T) {
	res := asset.NewResourceFromBytes("bench.yaml", []byte(`
width: 640
interval: 250ms
duration: 1m
textures:
  skybox: textures/sky.png
`))

	cfg, err := LoadConfig(res)
	require.NoError(t, err)

	def := DefaultConfig()
	assert.Equal(t, uint32(640), cfg.Width)
	assert.Equal(t, def.Height, cfg.Height)
	assert.Equal(t, 250*time.Millisecond, cfg.SampleInterval)
	assert.Equal(t, time.Minute, cfg.Duration)
	assert.Equal(t, def.MirrorRatio, cfg.MirrorRatio)
	assert.Equal(t, "textures/sky.png", cfg.Textures.Skybox)
	assert.Empty(t, cfg.Textures.Ground)
}

func TestLoadConfigErrors(t *testing.T) {
	specs := []struct {
		descr string
		data  string
	}{
		{"malformed yaml", "width: [1"},
		{"negative interval", "interval: -1s"},
		{"zero height", "height: 0"},
		{"mirror ratio out of range", "mirrorRatio: 2"},
		{"negative workers", "workers: -2"},
	}

	for _, spec := range specs {
		_, err := LoadConfig(asset.NewResourceFromBytes("bench.yaml", []byte(spec.data)))
		assert.Error(t, err, spec.descr)
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
}
