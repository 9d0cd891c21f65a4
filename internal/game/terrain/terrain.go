// Package terrain answers walkability queries: whether a mobile may step
// from a tile in a direction, and at what elevation it lands.
package terrain

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/shardmud/shard/internal/game/geometry"
)

// maxClimb is the largest elevation difference a single step may cover.
const maxClimb = 5

// Map is the world-geometry oracle consulted on every movement request.
type Map interface {
	// Bounds returns the exclusive upper corner of the map; tiles range
	// over [0,w) x [0,h).
	Bounds() (w, h int)
	// ElevationAt returns the floor height at p, ok=false for tiles that
	// are out of bounds or impassable.
	ElevationAt(p geometry.Point2D) (int, bool)
	// Step resolves a one-tile move from from in dir: the destination
	// with its corrected elevation, or ok=false when the move is blocked.
	Step(from geometry.Point3D, dir geometry.Direction) (geometry.Point3D, bool)
}

// step is the shared Step logic over an ElevationAt implementation.
func step(m Map, from geometry.Point3D, dir geometry.Direction) (geometry.Point3D, bool) {
	dest := from.Step(dir)
	z, ok := m.ElevationAt(dest.XY())
	if !ok {
		return geometry.Point3D{}, false
	}
	diff := z - from.Z
	if diff < 0 {
		diff = -diff
	}
	if diff > maxClimb {
		return geometry.Point3D{}, false
	}
	dest.Z = z
	return dest, true
}

// FlatMap is a uniform walkable plane at elevation zero. It backs tests
// and serves as the fallback when no map file is configured.
type FlatMap struct {
	Width  int
	Height int
}

// NewFlatMap creates a w x h plane.
func NewFlatMap(w, h int) *FlatMap { return &FlatMap{Width: w, Height: h} }

func (m *FlatMap) Bounds() (int, int) { return m.Width, m.Height }

func (m *FlatMap) ElevationAt(p geometry.Point2D) (int, bool) {
	if p.X < 0 || p.Y < 0 || p.X >= m.Width || p.Y >= m.Height {
		return 0, false
	}
	return 0, true
}

func (m *FlatMap) Step(from geometry.Point3D, dir geometry.Direction) (geometry.Point3D, bool) {
	return step(m, from, dir)
}

// GridMap is a tile grid loaded from a map file: per-tile elevation with
// explicit blocked cells.
type GridMap struct {
	width   int
	height  int
	defElev int
	cells   map[geometry.Point2D]cell
}

type cell struct {
	elevation int
	blocked   bool
}

type mapFile struct {
	Width            int `yaml:"width"`
	Height           int `yaml:"height"`
	DefaultElevation int `yaml:"default_elevation"`
	Cells            []struct {
		X         int  `yaml:"x"`
		Y         int  `yaml:"y"`
		Elevation int  `yaml:"elevation"`
		Blocked   bool `yaml:"blocked"`
	} `yaml:"cells"`
}

// LoadGridMap reads a YAML map file.
func LoadGridMap(path string) (*GridMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("terrain: reading map %q: %w", path, err)
	}
	var mf mapFile
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("terrain: parsing map %q: %w", path, err)
	}
	if mf.Width <= 0 || mf.Height <= 0 {
		return nil, fmt.Errorf("terrain: map %q has invalid bounds %dx%d", path, mf.Width, mf.Height)
	}
	m := &GridMap{
		width:   mf.Width,
		height:  mf.Height,
		defElev: mf.DefaultElevation,
		cells:   make(map[geometry.Point2D]cell, len(mf.Cells)),
	}
	for _, c := range mf.Cells {
		m.cells[geometry.Point2D{X: c.X, Y: c.Y}] = cell{elevation: c.Elevation, blocked: c.Blocked}
	}
	return m, nil
}

func (m *GridMap) Bounds() (int, int) { return m.width, m.height }

func (m *GridMap) ElevationAt(p geometry.Point2D) (int, bool) {
	if p.X < 0 || p.Y < 0 || p.X >= m.width || p.Y >= m.height {
		return 0, false
	}
	if c, ok := m.cells[p]; ok {
		if c.blocked {
			return 0, false
		}
		return c.elevation, true
	}
	return m.defElev, true
}

func (m *GridMap) Step(from geometry.Point3D, dir geometry.Direction) (geometry.Point3D, bool) {
	return step(m, from, dir)
}
