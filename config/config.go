package config

import (
	"time"

	"github.com/harmonix-bot/harmonix-web/player"
	"github.com/harmonix-bot/harmonix-web/recommend"
	"github.com/harmonix-bot/harmonix-web/status"
	"github.com/harmonix-bot/harmonix-web/title"
)

// Config represents the abstraction of the parsed
// configuration file
type Config struct {
	Heuristics struct {
		OverlapThreshold float64 `yaml:"overlap_threshold"`
		MinTrackLength   int     `yaml:"min_track_length"`
		MaxTrackLength   int     `yaml:"max_track_length"`
	} `yaml:"heuristics"`
	Autoplay struct {
		LowWater  int `yaml:"low_water"`
		RefillCap int `yaml:"refill_cap"`
	} `yaml:"autoplay"`
	Lyrics struct {
		SyncOffset int `yaml:"sync_offset"`
	} `yaml:"lyrics"`
	Poll struct {
		Position int `yaml:"position_ms"`
		Status   int `yaml:"status_seconds"`
	} `yaml:"poll"`
	Node struct {
		Host     string `yaml:"host"`
		Password string `yaml:"password"`
	} `yaml:"node"`
	Store struct {
		URL string `yaml:"url"`
		Key string `yaml:"key"`
	} `yaml:"store"`
	Server struct {
		Address string `yaml:"address"`
	} `yaml:"server"`
}

// Default returns a Config carrying the documented default for every
// tunable
func Default() *Config {
	config := new(Config)
	config.Heuristics.OverlapThreshold = 0.6
	config.Heuristics.MinTrackLength = 60 * 1000
	config.Heuristics.MaxTrackLength = 720 * 1000
	config.Autoplay.LowWater = 3
	config.Autoplay.RefillCap = 5
	config.Lyrics.SyncOffset = 300
	config.Poll.Position = 100
	config.Poll.Status = 30
	config.Node.Host = "http://localhost:2333"
	config.Server.Address = ":8080"
	return config
}

// Apply pushes the parsed tunables into the packages holding them
func (config *Config) Apply() {
	title.OverlapThreshold = config.Heuristics.OverlapThreshold
	recommend.MinTrackLength = config.Heuristics.MinTrackLength
	recommend.MaxTrackLength = config.Heuristics.MaxTrackLength
	player.LowWaterMark = config.Autoplay.LowWater
	player.RefillCap = config.Autoplay.RefillCap
	player.SyncOffset = config.Lyrics.SyncOffset
	player.PollInterval = time.Duration(config.Poll.Position) * time.Millisecond
	status.PollInterval = time.Duration(config.Poll.Status) * time.Second
}
