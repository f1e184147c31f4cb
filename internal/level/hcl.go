package level

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"beamgrid/internal/core"
	"beamgrid/internal/ctxlog"
)

// levelFile is the top-level shape of a level file. A file may define any
// number of levels.
type levelFile struct {
	Levels []*levelBlock `hcl:"level,block"`
}

type levelBlock struct {
	ID           string           `hcl:"id,label"`
	Title        string           `hcl:"title"`
	Description  string           `hcl:"description,optional"`
	Order        int              `hcl:"order,optional"`
	Rows         int              `hcl:"rows,optional"`
	Cols         int              `hcl:"cols,optional"`
	ScatterWalls int              `hcl:"scatter_walls,optional"`
	Emitters     []*emitterBlock  `hcl:"emitter,block"`
	Sensors      []*sensorBlock   `hcl:"sensor,block"`
	Obstacles    []*obstacleBlock `hcl:"obstacle,block"`
	Palette      []*paletteBlock  `hcl:"palette,block"`
}

type emitterBlock struct {
	At        []int `hcl:"at"`
	Dir       int   `hcl:"dir"`
	Color     int   `hcl:"color,optional"`
	Intensity int   `hcl:"intensity,optional"`
}

type sensorBlock struct {
	At           []int `hcl:"at"`
	Color        int   `hcl:"color,optional"`
	MinIntensity int   `hcl:"min_intensity,optional"`
}

type obstacleBlock struct {
	At          []int  `hcl:"at"`
	Kind        string `hcl:"kind"`
	Orientation int    `hcl:"orientation,optional"`
}

type paletteBlock struct {
	Kind  string `hcl:"kind,label"`
	Limit int    `hcl:"limit,optional"`
}

// evalContext exposes symbolic names to level files: dir.up .. dir.left,
// color.any .. color.white and grid.size.
func evalContext() *hcl.EvalContext {
	dirs := make(map[string]cty.Value, len(core.Dirs))
	for _, d := range core.Dirs {
		dirs[d.String()] = cty.NumberIntVal(int64(d))
	}
	colors := make(map[string]cty.Value)
	for c := core.ColorNone; c <= core.ColorWhite; c++ {
		colors[c.String()] = cty.NumberIntVal(int64(c))
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"dir":   cty.ObjectVal(dirs),
			"color": cty.ObjectVal(colors),
			"grid": cty.ObjectVal(map[string]cty.Value{
				"size": cty.NumberIntVal(DefaultSize),
			}),
		},
	}
}

// Parse decodes every level defined in src. filename is used in
// diagnostics only.
func Parse(src []byte, filename string) ([]*Level, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse level file %s: %w", filename, diags)
	}
	return decode(file, filename)
}

// LoadFile reads and decodes the levels in path.
func LoadFile(path string) ([]*Level, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse level file %s: %w", path, diags)
	}
	return decode(file, path)
}

// LoadDir loads every .hcl file under dir. A missing directory yields no
// levels and no error.
func LoadDir(ctx context.Context, dir string) ([]*Level, error) {
	logger := ctxlog.FromContext(ctx)

	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn("level directory not found", "path", dir)
			return nil, nil
		}
		return nil, fmt.Errorf("error accessing level directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return LoadFile(dir)
	}

	var paths []string
	err = filepath.Walk(dir, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(p) == ".hcl" {
			paths = append(paths, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	var out []*Level
	for _, p := range paths {
		levels, err := LoadFile(p)
		if err != nil {
			return nil, err
		}
		logger.Debug("loaded level file", "path", p, "levels", len(levels))
		out = append(out, levels...)
	}
	return out, nil
}

func decode(file *hcl.File, filename string) ([]*Level, error) {
	var root levelFile
	if diags := gohcl.DecodeBody(file.Body, evalContext(), &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode level file %s: %w", filename, diags)
	}

	out := make([]*Level, 0, len(root.Levels))
	for _, b := range root.Levels {
		l, err := b.toLevel(filename)
		if err != nil {
			return nil, err
		}
		if err := l.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
		out = append(out, l)
	}
	return out, nil
}

func (b *levelBlock) toLevel(source string) (*Level, error) {
	l := &Level{
		ID:           b.ID,
		Title:        b.Title,
		Description:  b.Description,
		Order:        b.Order,
		Rows:         b.Rows,
		Cols:         b.Cols,
		ScatterWalls: b.ScatterWalls,
		Source:       source,
	}
	if l.Rows == 0 {
		l.Rows = DefaultSize
	}
	if l.Cols == 0 {
		l.Cols = DefaultSize
	}

	for _, e := range b.Emitters {
		at, err := point(b.ID, "emitter", e.At)
		if err != nil {
			return nil, err
		}
		if e.Dir < 0 || e.Dir > int(core.DirLeft) {
			return nil, fmt.Errorf("%w: %s: emitter at %v has direction %d", ErrInvalidLevel, b.ID, at, e.Dir)
		}
		if e.Color < 0 || e.Color > int(core.ColorWhite) {
			return nil, fmt.Errorf("%w: %s: emitter at %v has color %d", ErrInvalidLevel, b.ID, at, e.Color)
		}
		em := core.Emitter{At: at, Dir: core.Dir(e.Dir), Color: core.Color(e.Color), Intensity: e.Intensity}
		if em.Color == core.ColorNone {
			em.Color = core.ColorWhite
		}
		if em.Intensity == 0 {
			em.Intensity = core.DefaultIntensity
		}
		l.Emitters = append(l.Emitters, em)
	}
	for _, s := range b.Sensors {
		at, err := point(b.ID, "sensor", s.At)
		if err != nil {
			return nil, err
		}
		if s.Color < 0 || s.Color > int(core.ColorWhite) {
			return nil, fmt.Errorf("%w: %s: sensor at %v has color %d", ErrInvalidLevel, b.ID, at, s.Color)
		}
		l.Sensors = append(l.Sensors, core.Sensor{At: at, Color: core.Color(s.Color), MinIntensity: s.MinIntensity})
	}
	for _, o := range b.Obstacles {
		at, err := point(b.ID, "obstacle", o.At)
		if err != nil {
			return nil, err
		}
		l.Obstacles = append(l.Obstacles, Obstacle{At: at, Kind: core.Kind(o.Kind), Orientation: o.Orientation})
	}
	for _, p := range b.Palette {
		l.Palette = append(l.Palette, PaletteEntry{Kind: core.Kind(p.Kind), Limit: p.Limit})
	}
	return l, nil
}

func point(id, what string, at []int) (core.Point, error) {
	if len(at) != 2 {
		return core.Point{}, fmt.Errorf("%w: %s: %s position needs [row, col], got %v", ErrInvalidLevel, id, what, at)
	}
	return core.Pt(at[0], at[1]), nil
}
