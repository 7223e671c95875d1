// Package level loads the static arena geometry the simulation runs on.
package level

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// EdgeMargin keeps entities this many pixels inside every edge of the level.
const EdgeMargin = 32

var (
	ErrNoLevels     = errors.New("no level files found")
	ErrInvalidLevel = errors.New("invalid level")
	ErrUnknownLevel = errors.New("unknown level")
)

// Layer is one tile layer of a Tiled map export.
type Layer struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Data   []int  `json:"data"`
}

// tiledMap is the subset of the Tiled JSON format read from disk.
type tiledMap struct {
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	TileWidth  int     `json:"tilewidth"`
	TileHeight int     `json:"tileheight"`
	Layers     []Layer `json:"layers"`
}

// Level is immutable once loaded.
type Level struct {
	Name       string
	WidthPx    int
	HeightPx   int
	TileWidth  int
	TileHeight int
	Columns    int
	Rows       int
	Layers     []Layer
}

// Parse builds a Level from Tiled JSON content.
func Parse(name string, content []byte) (*Level, error) {
	var m tiledMap
	if err := json.Unmarshal(content, &m); err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrInvalidLevel, name, err)
	}
	if m.Width <= 0 || m.Height <= 0 || m.TileWidth <= 0 || m.TileHeight <= 0 {
		return nil, fmt.Errorf("%w %s: non-positive dimensions %dx%d tiles of %dx%d px",
			ErrInvalidLevel, name, m.Width, m.Height, m.TileWidth, m.TileHeight)
	}
	lvl := &Level{
		Name:       name,
		WidthPx:    m.Width * m.TileWidth,
		HeightPx:   m.Height * m.TileHeight,
		TileWidth:  m.TileWidth,
		TileHeight: m.TileHeight,
		Columns:    m.Width,
		Rows:       m.Height,
		Layers:     m.Layers,
	}
	if lvl.WidthPx < 2*EdgeMargin || lvl.HeightPx < 2*EdgeMargin {
		return nil, fmt.Errorf("%w %s: %dx%d px is smaller than the edge margins", ErrInvalidLevel, name, lvl.WidthPx, lvl.HeightPx)
	}
	return lvl, nil
}

// Clamp keeps a position within EdgeMargin of the level edges.
func (l *Level) Clamp(x, y float64) (float64, float64) {
	return clamp(x, EdgeMargin, float64(l.WidthPx-EdgeMargin)), clamp(y, EdgeMargin, float64(l.HeightPx-EdgeMargin))
}

// IsOutside reports whether a position has left the level entirely.
func (l *Level) IsOutside(x, y float64) bool {
	return x < 0 || y < 0 || x > float64(l.WidthPx) || y > float64(l.HeightPx)
}

// SpawnPoint is where newly connected players appear.
func (l *Level) SpawnPoint() (float64, float64) {
	return l.Clamp(float64(l.WidthPx)/2, float64(l.HeightPx)/2)
}

// TileAt returns the tile id of the first layer at a pixel position, or 0 when
// the position is outside the grid or the level has no tile layer.
func (l *Level) TileAt(x, y float64) int {
	if len(l.Layers) == 0 || l.IsOutside(x, y) {
		return 0
	}
	col := int(x) / l.TileWidth
	row := int(y) / l.TileHeight
	if col >= l.Columns {
		col = l.Columns - 1
	}
	if row >= l.Rows {
		row = l.Rows - 1
	}
	data := l.Layers[0].Data
	idx := row*l.Columns + col
	if idx < 0 || idx >= len(data) {
		return 0
	}
	return data[idx]
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Registry holds every level found on disk, sorted by name.
type Registry struct {
	levels []*Level
}

// LoadDir reads every *.json file in dir. Any unreadable or malformed file fails
// the whole load.
func LoadDir(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read levels dir %s: %w", dir, err)
	}
	var levels []*Level
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		path := filepath.Join(dir, e.Name())
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read level %s: %w", path, err)
		}
		lvl, err := Parse(strings.TrimSuffix(e.Name(), ".json"), content)
		if err != nil {
			return nil, err
		}
		levels = append(levels, lvl)
	}
	if len(levels) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoLevels, dir)
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i].Name < levels[j].Name })
	return &Registry{levels: levels}, nil
}

// Levels returns the loaded levels.
func (r *Registry) Levels() []*Level {
	return r.levels
}

// Choose picks the named level, or a random one when name is empty.
func (r *Registry) Choose(name string, rng *rand.Rand) (*Level, error) {
	if name == "" {
		return r.levels[rng.Intn(len(r.levels))], nil
	}
	for _, l := range r.levels {
		if l.Name == name {
			return l, nil
		}
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownLevel, name)
}
