package level

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
)

//go:embed levels/*.hcl
var builtinFS embed.FS

// Registry holds levels keyed by id and lists them in play order.
type Registry struct {
	levels map[string]*Level
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{levels: make(map[string]*Level)}
}

// Register validates l and adds it, replacing any level with the same id.
func (r *Registry) Register(l *Level) error {
	if l == nil {
		return fmt.Errorf("%w: nil level", ErrInvalidLevel)
	}
	if err := l.Validate(); err != nil {
		return err
	}
	r.levels[l.ID] = l
	return nil
}

// Len returns the number of registered levels.
func (r *Registry) Len() int { return len(r.levels) }

// All returns the registered levels sorted by Order, then id.
func (r *Registry) All() []*Level {
	out := make([]*Level, 0, len(r.levels))
	for _, l := range r.levels {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// ByID returns the level registered under id.
func (r *Registry) ByID(id string) (*Level, error) {
	l, ok := r.levels[id]
	if !ok {
		return nil, fmt.Errorf("level %q: %w", id, ErrUnknownLevel)
	}
	return l, nil
}

// Index returns the level at position i of All.
func (r *Registry) Index(i int) (*Level, error) {
	all := r.All()
	if i < 0 || i >= len(all) {
		return nil, fmt.Errorf("level index %d: %w", i, ErrUnknownLevel)
	}
	return all[i], nil
}

// Position returns the index of id within All, or -1.
func (r *Registry) Position(id string) int {
	for i, l := range r.All() {
		if l.ID == id {
			return i
		}
	}
	return -1
}

// Builtin returns a registry holding the levels shipped with the binary.
func Builtin() (*Registry, error) {
	files, err := fs.Glob(builtinFS, "levels/*.hcl")
	if err != nil {
		return nil, err
	}
	sort.Strings(files)

	reg := NewRegistry()
	for _, name := range files {
		src, err := builtinFS.ReadFile(name)
		if err != nil {
			return nil, err
		}
		levels, err := Parse(src, path.Base(name))
		if err != nil {
			return nil, err
		}
		for _, l := range levels {
			if err := reg.Register(l); err != nil {
				return nil, err
			}
		}
	}
	return reg, nil
}

// MustBuiltin is Builtin for callers that treat a broken embedded level as
// a programming error.
func MustBuiltin() *Registry {
	reg, err := Builtin()
	if err != nil {
		panic(err)
	}
	return reg
}
