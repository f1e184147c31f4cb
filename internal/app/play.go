package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"beamgrid/internal/ctxlog"
	"beamgrid/internal/engine"
	"beamgrid/internal/level"
	"beamgrid/internal/progress"
)

// Play owns the level list and the active session for a front-end. It is
// driven from a single update loop.
type Play struct {
	levels  *level.Registry
	order   []*level.Level
	index   int
	session *engine.Session

	seed     int64
	logger   *slog.Logger
	store    *progress.Store
	recorded bool
	paused   bool
}

// Start builds a Play from cfg: the built-in levels plus cfg.LevelDir, and
// the progress store when cfg.ProgressDB is set.
func Start(ctx context.Context, cfg *Config, logger *slog.Logger) (*Play, error) {
	if logger == nil {
		logger = ctxlog.Discard()
	}
	ctx = ctxlog.WithLogger(ctx, logger)

	reg, err := LoadLevels(ctx, cfg.LevelDir)
	if err != nil {
		return nil, err
	}

	var store *progress.Store
	if cfg.ProgressDB != "" {
		store, err = progress.Open(ctx, cfg.ProgressDB)
		if err != nil {
			return nil, err
		}
	}

	p := NewPlay(reg, cfg.Seed, logger, store)
	if err := p.LoadID(cfg.Level); err != nil {
		p.Close()
		return nil, err
	}
	return p, nil
}

// LoadLevels returns the built-in levels merged with any found in dir.
// Levels from dir replace built-ins with the same id.
func LoadLevels(ctx context.Context, dir string) (*level.Registry, error) {
	reg, err := level.Builtin()
	if err != nil {
		return nil, err
	}
	if dir == "" {
		return reg, nil
	}
	extra, err := level.LoadDir(ctx, dir)
	if err != nil {
		return nil, err
	}
	for _, l := range extra {
		if err := reg.Register(l); err != nil {
			return nil, err
		}
	}
	ctxlog.FromContext(ctx).Info("levels loaded", "builtin", reg.Len()-len(extra), "extra", len(extra))
	return reg, nil
}

// NewPlay returns a Play over levels. store may be nil.
func NewPlay(levels *level.Registry, seed int64, logger *slog.Logger, store *progress.Store) *Play {
	if logger == nil {
		logger = ctxlog.Discard()
	}
	return &Play{levels: levels, order: levels.All(), seed: seed, logger: logger, store: store, index: -1}
}

// Levels returns the playable levels in order.
func (p *Play) Levels() []*level.Level { return p.order }

// Index returns the position of the active level.
func (p *Play) Index() int { return p.index }

// Session returns the active session.
func (p *Play) Session() *engine.Session { return p.session }

// Load starts a fresh session on the level at index i.
func (p *Play) Load(i int) error {
	l, err := p.levels.Index(i)
	if err != nil {
		return err
	}
	s, err := engine.New(l, engine.WithSeed(p.seed), engine.WithLogger(p.logger))
	if err != nil {
		return err
	}
	if p.session != nil {
		p.session.Close()
	}
	p.session = s
	p.index = i
	p.recorded = false
	return nil
}

// LoadID starts a fresh session on the level with the given id.
func (p *Play) LoadID(id string) error {
	i := p.levels.Position(id)
	if i < 0 {
		return fmt.Errorf("level %q: %w", id, level.ErrUnknownLevel)
	}
	return p.Load(i)
}

// Next moves to the following level, wrapping around.
func (p *Play) Next() error { return p.Load((p.index + 1) % len(p.order)) }

// Prev moves to the preceding level, wrapping around.
func (p *Play) Prev() error { return p.Load((p.index - 1 + len(p.order)) % len(p.order)) }

// Restart rebuilds the active level with the configured seed.
func (p *Play) Restart() {
	if p.session == nil {
		return
	}
	p.session.Reset(p.seed)
	p.recorded = false
}

// TogglePause stops or resumes ticking and reports whether play is now
// paused. Edits made while paused are traced on the first tick after resume.
func (p *Play) TogglePause() bool {
	p.paused = !p.paused
	p.logger.Debug("pause toggled", "paused", p.paused)
	return p.paused
}

// Paused reports whether ticking is suspended.
func (p *Play) Paused() bool { return p.paused }

// Tick advances the session and records the first solve of each session.
// It does nothing while paused.
func (p *Play) Tick(ctx context.Context) error {
	if p.session == nil || p.paused {
		return nil
	}
	p.session.Step()
	if !p.session.Solved() {
		return nil
	}
	if p.recorded || p.store == nil {
		p.recorded = true
		return nil
	}
	p.recorded = true
	rec := progress.Record{
		LevelID:   p.session.Level().ID,
		SessionID: p.session.ID(),
		Steps:     p.session.Steps(),
		Pieces:    p.session.Pieces(),
	}
	return p.store.MarkSolved(ctxlog.WithLogger(ctx, p.logger), rec)
}

// Solved reports which level ids have been solved before. It is empty when
// no progress store is configured.
func (p *Play) Solved(ctx context.Context) (map[string]bool, error) {
	out := make(map[string]bool)
	if p.store == nil {
		return out, nil
	}
	sums, err := p.store.Solved(ctx)
	if err != nil {
		return nil, err
	}
	for _, s := range sums {
		out[s.LevelID] = true
	}
	return out, nil
}

// Close ends the session and releases the progress store.
func (p *Play) Close() error {
	var errs []error
	if p.session != nil {
		if err := p.session.Close(); err != nil && !errors.Is(err, engine.ErrClosed) {
			errs = append(errs, err)
		}
	}
	if p.store != nil {
		if err := p.store.Close(); err != nil && !errors.Is(err, progress.ErrClosed) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
