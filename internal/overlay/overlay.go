// Package overlay renders debug views of the room placement grid.
package overlay

import (
	"bufio"
	"io"
	"math"

	"github.com/ugaemi/facilitygen/internal/blueprint"
	"github.com/ugaemi/facilitygen/internal/geom"
	"github.com/ugaemi/facilitygen/internal/mapgen"
)

// Box is one cell outline of the debug grid, on the horizontal plane.
type Box struct {
	Center geom.Vec3
	Width  float64
	Height float64
}

// Corners returns the outline corners in drawing order: top left, top right,
// bottom right, bottom left. "Top" is the +Z side.
func (b Box) Corners() [4]geom.Vec3 {
	hx, hz := b.Width/2, b.Height/2
	return [4]geom.Vec3{
		b.Center.Add(geom.Vec3{X: -hx, Z: hz}),
		b.Center.Add(geom.Vec3{X: hx, Z: hz}),
		b.Center.Add(geom.Vec3{X: hx, Z: -hz}),
		b.Center.Add(geom.Vec3{X: -hx, Z: -hz}),
	}
}

// Edges returns the four outline segments.
func (b Box) Edges() [4][2]geom.Vec3 {
	c := b.Corners()
	return [4][2]geom.Vec3{
		{c[0], c[1]},
		{c[1], c[2]},
		{c[2], c[3]},
		{c[3], c[0]},
	}
}

// Boxes lays out columns x rows boxes around origin. Column indices run over
// [-columns/2, columns/2), rows likewise, so odd counts lose their last
// column or row.
func Boxes(origin geom.Vec3, columns, rows int, width, height float64) []Box {
	var boxes []Box
	for x := -columns / 2; x < columns/2; x++ {
		for z := -rows / 2; z < rows/2; z++ {
			boxes = append(boxes, Box{
				Center: origin.Add(geom.Vec3{X: float64(x) * width, Z: float64(z) * height}),
				Width:  width,
				Height: height,
			})
		}
	}
	return boxes
}

// Window is an inclusive range of cells to render.
type Window struct {
	Lo, Hi mapgen.Cell
}

// GridWindow returns the window covered by the debug grid.
func GridWindow(columns, rows int) Window {
	return Window{
		Lo: mapgen.Cell{X: -columns / 2, Z: -rows / 2},
		Hi: mapgen.Cell{X: columns/2 - 1, Z: rows/2 - 1},
	}
}

// Bounds returns the smallest window holding every room of bp.
func Bounds(bp *blueprint.Blueprint) Window {
	var w Window
	for i, r := range bp.Rooms {
		if i == 0 {
			w.Lo, w.Hi = r.Cell, r.Cell
			continue
		}
		w.Lo.X = min(w.Lo.X, r.Cell.X)
		w.Lo.Z = min(w.Lo.Z, r.Cell.Z)
		w.Hi.X = max(w.Hi.X, r.Cell.X)
		w.Hi.Z = max(w.Hi.Z, r.Cell.Z)
	}
	return w
}

// Render writes an ASCII map of bp restricted to win, +Z at the top.
// Each room shows the way it faces; the start room is S and empty cells are dots.
func Render(w io.Writer, bp *blueprint.Blueprint, win Window) error {
	start := bp.Start()
	bw := bufio.NewWriter(w)

	for z := win.Hi.Z; z >= win.Lo.Z; z-- {
		for x := win.Lo.X; x <= win.Hi.X; x++ {
			c := mapgen.Cell{X: x, Z: z}
			room, ok := bp.RoomAt(c)
			switch {
			case !ok:
				bw.WriteByte('.')
			case c == start:
				bw.WriteByte('S')
			default:
				bw.WriteByte(Glyph(room.Yaw))
			}
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// Glyph returns the arrow for a yaw in degrees, or '*' when the yaw is not a
// multiple of 90.
func Glyph(yaw float64) byte {
	yaw = geom.NormalizeYaw(yaw)
	quarter := math.Round(yaw / 90)
	if math.Abs(yaw-quarter*90) > 1e-6 {
		return '*'
	}
	return "^>v<"[int(quarter)%4]
}
