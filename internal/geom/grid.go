package geom

import "math"

// Grid quantizes world positions to cells of a fixed size laid out around an
// origin. Elevation is not modeled: every snapped position sits on Y = 0.
type Grid struct {
	Origin     Vec3
	CellWidth  float64 // along X
	CellHeight float64 // along Z
}

// NewGrid returns a grid anchored at origin.
func NewGrid(origin Vec3, cellWidth, cellHeight float64) Grid {
	return Grid{Origin: origin, CellWidth: cellWidth, CellHeight: cellHeight}
}

// Index returns the integer cell coordinates containing pos.
func (g Grid) Index(pos Vec3) (x, z int) {
	x = int(math.RoundToEven((pos.X - g.Origin.X) / g.CellWidth))
	z = int(math.RoundToEven((pos.Z - g.Origin.Z) / g.CellHeight))
	return x, z
}

// Center returns the snapped world position of cell (x, z).
func (g Grid) Center(x, z int) Vec3 {
	return Vec3{
		X: float64(x)*g.CellWidth + g.Origin.X,
		Z: float64(z)*g.CellHeight + g.Origin.Z,
	}
}

// Round snaps pos to the nearest cell center. Rounding an already snapped
// position returns it unchanged.
func (g Grid) Round(pos Vec3) Vec3 {
	return g.Center(g.Index(pos))
}

// Step returns the world-space offset covered by moving one cell along dir,
// where dir is a horizontal direction in grid units.
func (g Grid) Step(dir Vec3) Vec3 {
	return Vec3{X: dir.X * g.CellWidth, Z: dir.Z * g.CellHeight}
}
