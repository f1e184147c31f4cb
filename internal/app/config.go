package app

import (
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config represents the runtime parameters shared by every front-end.
// Environment variables provide the defaults; flags bound with Bind
// override them.
type Config struct {
	Level      string `env:"BEAMGRID_LEVEL" envDefault:"tutorial"`
	Scale      int    `env:"BEAMGRID_SCALE" envDefault:"56"`
	TPS        int    `env:"BEAMGRID_TPS" envDefault:"30"`
	Seed       int64  `env:"BEAMGRID_SEED" envDefault:"42"`
	LogLevel   string `env:"BEAMGRID_LOG_LEVEL" envDefault:"info"`
	LogFormat  string `env:"BEAMGRID_LOG_FORMAT" envDefault:"text"`
	ProgressDB string `env:"BEAMGRID_PROGRESS_DB"`
	LevelDir   string `env:"BEAMGRID_LEVEL_DIR"`
}

// NewConfig returns a Config populated from the environment.
func NewConfig() (*Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &c, nil
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Level, "level", c.Level, "level id to start on")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixels per grid tile")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for scattered walls")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level (debug, info, warn, error)")
	fs.StringVar(&c.LogFormat, "log-format", c.LogFormat, "log format (text, json)")
	fs.StringVar(&c.ProgressDB, "progress-db", c.ProgressDB, "sqlite file for solved levels; empty disables")
	fs.StringVar(&c.LevelDir, "level-dir", c.LevelDir, "directory of extra .hcl levels")
}
