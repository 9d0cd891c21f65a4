// Package geometry provides the grid coordinate types and direction math
// used by the simulation core.
package geometry

import "fmt"

// Direction is one of the eight grid directions a mobile can face or walk.
type Direction uint8

const (
	North Direction = iota
	NorthEast
	East
	SouthEast
	South
	SouthWest
	West
	NorthWest
)

var directionNames = [...]string{
	"north", "northeast", "east", "southeast",
	"south", "southwest", "west", "northwest",
}

// String returns the lowercase direction name.
func (d Direction) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}
	return fmt.Sprintf("Direction(%d)", uint8(d))
}

// Valid reports whether d is one of the eight grid directions.
func (d Direction) Valid() bool {
	return d <= NorthWest
}

// Offset returns the x/y delta of a single step in direction d.
func (d Direction) Offset() (dx, dy int) {
	switch d {
	case North:
		return 0, -1
	case NorthEast:
		return 1, -1
	case East:
		return 1, 0
	case SouthEast:
		return 1, 1
	case South:
		return 0, 1
	case SouthWest:
		return -1, 1
	case West:
		return -1, 0
	case NorthWest:
		return -1, -1
	default:
		return 0, 0
	}
}

// Point2D is a location on the world grid, ignoring elevation.
type Point2D struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Point3D is a location on the world grid including elevation.
type Point3D struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
	Z int `json:"z" yaml:"z"`
}

// XY returns the 2D projection of p.
func (p Point3D) XY() Point2D {
	return Point2D{X: p.X, Y: p.Y}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Distance returns the Chebyshev distance between p and other: the number
// of steps needed when diagonal moves cost the same as straight ones.
//
// Postcondition: Distance(p, q) == Distance(q, p) >= 0.
func (p Point2D) Distance(other Point2D) int {
	return max(abs(p.X-other.X), abs(p.Y-other.Y))
}

// Distance returns the Chebyshev grid distance to other, ignoring elevation.
func (p Point3D) Distance(other Point2D) int {
	return p.XY().Distance(other)
}

// InRange reports whether other is within the given Chebyshev range of p.
func (p Point3D) InRange(other Point2D, rng int) bool {
	return p.Distance(other) <= rng
}

// Step returns the point one step away from p in direction d, keeping Z.
func (p Point3D) Step(d Direction) Point3D {
	dx, dy := d.Offset()
	return Point3D{X: p.X + dx, Y: p.Y + dy, Z: p.Z}
}

// DirectionTo returns the direction from p towards target. Pure axis
// alignment picks the cardinal direction, anything else the diagonal.
func (p Point3D) DirectionTo(target Point2D) Direction {
	dx := target.X - p.X
	dy := target.Y - p.Y
	switch {
	case dx == 0 && dy < 0:
		return North
	case dx > 0 && dy < 0:
		return NorthEast
	case dx > 0 && dy == 0:
		return East
	case dx > 0 && dy > 0:
		return SouthEast
	case dx == 0 && dy > 0:
		return South
	case dx < 0 && dy > 0:
		return SouthWest
	case dx < 0 && dy == 0:
		return West
	case dx < 0 && dy < 0:
		return NorthWest
	default:
		return South
	}
}

func (p Point3D) String() string {
	return fmt.Sprintf("(%d,%d,%d)", p.X, p.Y, p.Z)
}

func (p Point2D) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}
