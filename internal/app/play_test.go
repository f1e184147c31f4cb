package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beamgrid/internal/catalog"
	"beamgrid/internal/engine"
	"beamgrid/internal/level"
	"beamgrid/internal/progress"
)

func TestConfigFromEnvThenFlags(t *testing.T) {
	t.Setenv("BEAMGRID_LEVEL", "sandbox")
	t.Setenv("BEAMGRID_SEED", "9")
	t.Setenv("BEAMGRID_LOG_FORMAT", "json")

	cfg, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, "sandbox", cfg.Level)
	assert.Equal(t, int64(9), cfg.Seed)
	assert.Equal(t, 30, cfg.TPS)
	assert.Empty(t, cfg.ProgressDB)

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg.Bind(fs)
	require.NoError(t, fs.Parse([]string{"-level", "color-mix", "-tps", "12"}))
	assert.Equal(t, "color-mix", cfg.Level)
	assert.Equal(t, 12, cfg.TPS)
	assert.Equal(t, int64(9), cfg.Seed)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestConfigRejectsBadEnv(t *testing.T) {
	t.Setenv("BEAMGRID_TPS", "fast")
	_, err := NewConfig()
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("warn", "json", &buf)
	logger.Info("hidden")
	logger.Warn("shown", "level_id", "tutorial")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "shown", rec["msg"])
	assert.Equal(t, "tutorial", rec["level_id"])

	buf.Reset()
	NewLogger("bogus", "text", &buf).Info("plain")
	assert.Contains(t, buf.String(), "msg=plain")
}

func TestPlayCyclesLevels(t *testing.T) {
	p := NewPlay(level.MustBuiltin(), 42, nil, nil)
	defer p.Close()

	require.NoError(t, p.LoadID("sandbox"))
	assert.Equal(t, 1, p.Index())
	first := p.Session()

	require.NoError(t, p.Next())
	assert.Equal(t, "prism-split", p.Session().Level().ID)
	assert.ErrorIs(t, first.Place(1, 1, catalog.Wall, 0), engine.ErrClosed, "previous session is closed")

	require.NoError(t, p.Prev())
	require.NoError(t, p.Prev())
	assert.Equal(t, "tutorial", p.Session().Level().ID)
	require.NoError(t, p.Prev())
	assert.Equal(t, "color-mix", p.Session().Level().ID)

	err := p.LoadID("nowhere")
	assert.True(t, errors.Is(err, level.ErrUnknownLevel))
	assert.Equal(t, "color-mix", p.Session().Level().ID)
}

func TestPlayRecordsFirstSolve(t *testing.T) {
	ctx := context.Background()
	store, err := progress.Open(ctx, filepath.Join(t.TempDir(), "progress.db"))
	require.NoError(t, err)
	p := NewPlay(level.MustBuiltin(), 42, nil, store)
	defer p.Close()
	require.NoError(t, p.LoadID("sandbox"))

	require.NoError(t, p.Tick(ctx))
	solved, err := p.Solved(ctx)
	require.NoError(t, err)
	assert.Empty(t, solved)

	s := p.Session()
	require.NoError(t, s.SelectKey("8"))
	require.NoError(t, s.Apply(5, 5))
	require.NoError(t, p.Tick(ctx))
	require.NoError(t, p.Tick(ctx))

	solved, err = p.Solved(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"sandbox": true}, solved)

	sums, err := store.Solved(ctx)
	require.NoError(t, err)
	require.Len(t, sums, 1)
	assert.Equal(t, 1, sums[0].Solves)
	assert.Equal(t, 1, sums[0].BestPieces)

	p.Restart()
	assert.False(t, p.Session().Solved())
}

func TestPlayPauseHoldsTicks(t *testing.T) {
	ctx := context.Background()
	p := NewPlay(level.MustBuiltin(), 42, nil, nil)
	defer p.Close()
	require.NoError(t, p.LoadID("sandbox"))

	assert.True(t, p.TogglePause())
	require.NoError(t, p.Session().Place(5, 5, catalog.Prism, 1))
	require.NoError(t, p.Tick(ctx))
	assert.True(t, p.Session().Dirty())
	assert.Zero(t, p.Session().Steps())
	assert.False(t, p.Session().Solved())

	assert.False(t, p.TogglePause())
	require.NoError(t, p.Tick(ctx))
	assert.False(t, p.Paused())
	assert.True(t, p.Session().Solved())
}

func TestStartLoadsExtraLevels(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "extra.hcl"), []byte(`level "extra" {
  title = "Extra"
  order = 9

  emitter {
    at  = [0, 0]
    dir = dir.down
  }

  sensor {
    at = [9, 0]
  }
}
`), 0o644))

	cfg := &Config{Level: "extra", Seed: 1, LevelDir: dir, ProgressDB: filepath.Join(dir, "p.db")}
	p, err := Start(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer p.Close()

	assert.Len(t, p.Levels(), 5)
	assert.Equal(t, "extra", p.Session().Level().ID)
	// The straight drop already lights the sensor.
	require.NoError(t, p.Tick(context.Background()))
	assert.True(t, p.Session().Solved())

	_, err = Start(context.Background(), &Config{Level: "missing"}, nil)
	assert.True(t, errors.Is(err, level.ErrUnknownLevel))
}
