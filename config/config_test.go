package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v3"

	"github.com/harmonix-bot/harmonix-web/player"
	"github.com/harmonix-bot/harmonix-web/title"
)

func TestDefault(t *testing.T) {
	config := Default()
	assert.Equal(t, 0.6, config.Heuristics.OverlapThreshold)
	assert.Equal(t, 3, config.Autoplay.LowWater)
	assert.Equal(t, 5, config.Autoplay.RefillCap)
	assert.Equal(t, 300, config.Lyrics.SyncOffset)
	assert.Equal(t, ":8080", config.Server.Address)
}

func TestYamlOverridesDefaults(t *testing.T) {
	config := Default()
	assert.Nil(t, yaml.Unmarshal([]byte("autoplay:\n  low_water: 5\n"), config))
	assert.Equal(t, 5, config.Autoplay.LowWater)
	assert.Equal(t, 0.6, config.Heuristics.OverlapThreshold)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("HARMONIX_NODE_HOST", "http://node:2333")
	t.Setenv("HARMONIX_STORE_KEY", "key")

	config := Default()
	config.loadEnv()
	assert.Equal(t, "http://node:2333", config.Node.Host)
	assert.Equal(t, "key", config.Store.Key)
	assert.Equal(t, ":8080", config.Server.Address)
}

func TestApply(t *testing.T) {
	defer Default().Apply()

	config := Default()
	config.Heuristics.OverlapThreshold = 0.7
	config.Autoplay.LowWater = 5
	config.Poll.Position = 250
	config.Apply()

	assert.Equal(t, 0.7, title.OverlapThreshold)
	assert.Equal(t, 5, player.LowWaterMark)
	assert.Equal(t, 250*time.Millisecond, player.PollInterval)
}
