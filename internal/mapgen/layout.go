package mapgen

import (
	"github.com/zyedidia/generic/mapset"

	"github.com/ugaemi/facilitygen/internal/geom"
)

// Layout is the result of one GenerateMap call.
type Layout struct {
	Origin     geom.Vec3     `json:"origin"`
	CellWidth  float64       `json:"cell_width"`
	CellHeight float64       `json:"cell_height"`
	MaxRooms   int           `json:"max_rooms"`
	Start      Cell          `json:"start"`
	Rooms      []*PlacedRoom `json:"rooms"` // placement order
	Links      []Link        `json:"links"`
	StopReason StopReason    `json:"stop_reason"`
	Discarded  int           `json:"discarded"` // frontier cells left unprocessed
}

// Room returns the room placed at c, or nil.
func (l *Layout) Room(c Cell) *PlacedRoom {
	for _, r := range l.Rooms {
		if r.Cell == c {
			return r
		}
	}
	return nil
}

// Reachable returns the set of cells reachable from the start cell by
// following recorded socket links in either direction.
func (l *Layout) Reachable() mapset.Set[Cell] {
	adj := make(map[Cell][]Cell, len(l.Rooms))
	for _, link := range l.Links {
		adj[link.From] = append(adj[link.From], link.To)
		adj[link.To] = append(adj[link.To], link.From)
	}

	visited := mapset.New[Cell]()
	if l.Room(l.Start) == nil {
		return visited
	}

	queue := []Cell{l.Start}
	visited.Put(l.Start)
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, next := range adj[current] {
			if !visited.Has(next) {
				visited.Put(next)
				queue = append(queue, next)
			}
		}
	}
	return visited
}

// Connected reports whether every placed room is reachable from the start.
func (l *Layout) Connected() bool {
	return l.Reachable().Size() == len(l.Rooms)
}

// Bounds returns the min and max cell coordinates of the placed rooms.
func (l *Layout) Bounds() (lo, hi Cell) {
	return CellBounds(l.Rooms)
}

// CellBounds returns the min and max cell coordinates covered by rooms.
func CellBounds(rooms []*PlacedRoom) (lo, hi Cell) {
	for i, r := range rooms {
		if i == 0 {
			lo, hi = r.Cell, r.Cell
			continue
		}
		lo.X = min(lo.X, r.Cell.X)
		lo.Z = min(lo.Z, r.Cell.Z)
		hi.X = max(hi.X, r.Cell.X)
		hi.Z = max(hi.Z, r.Cell.Z)
	}
	return lo, hi
}
