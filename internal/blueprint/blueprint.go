// Package blueprint holds the persistent record of a generated map.
package blueprint

import (
	"time"

	"github.com/google/uuid"

	"github.com/ugaemi/facilitygen/internal/geom"
	"github.com/ugaemi/facilitygen/internal/mapgen"
)

// Room is a placed room as stored.
type Room struct {
	Cell     mapgen.Cell `json:"cell"`
	Position geom.Vec3   `json:"position"`
	Yaw      float64     `json:"yaw"`
	Template string      `json:"template"`
	Depth    int         `json:"depth"`
}

// Blueprint is the stored result of one generation run.
type Blueprint struct {
	ID         string            `json:"id"`
	Code       string            `json:"code"`
	Seed       int64             `json:"seed"`
	MaxRooms   int               `json:"max_rooms"`
	CellWidth  float64           `json:"cell_width"`
	CellHeight float64           `json:"cell_height"`
	Origin     geom.Vec3         `json:"origin"`
	Rooms      []Room            `json:"rooms"`
	Links      []mapgen.Link     `json:"links"`
	StopReason mapgen.StopReason `json:"stop_reason"`
	Discarded  int               `json:"discarded"`
	CreatedAt  time.Time         `json:"created_at"`
}

// New builds a blueprint from a finished layout. code must be unique among
// stored blueprints; see GenerateCode.
func New(layout *mapgen.Layout, seed int64, code string) *Blueprint {
	rooms := make([]Room, 0, len(layout.Rooms))
	for _, r := range layout.Rooms {
		rooms = append(rooms, Room{
			Cell:     r.Cell,
			Position: r.Position,
			Yaw:      r.Yaw,
			Template: r.Template,
			Depth:    r.Depth,
		})
	}

	links := make([]mapgen.Link, len(layout.Links))
	copy(links, layout.Links)

	return &Blueprint{
		ID:         uuid.New().String(),
		Code:       code,
		Seed:       seed,
		MaxRooms:   layout.MaxRooms,
		CellWidth:  layout.CellWidth,
		CellHeight: layout.CellHeight,
		Origin:     layout.Origin,
		Rooms:      rooms,
		Links:      links,
		StopReason: layout.StopReason,
		Discarded:  layout.Discarded,
		CreatedAt:  time.Now(),
	}
}

// RoomAt returns the room stored at c.
func (b *Blueprint) RoomAt(c mapgen.Cell) (Room, bool) {
	for _, r := range b.Rooms {
		if r.Cell == c {
			return r, true
		}
	}
	return Room{}, false
}

// Start returns the cell the fill started from.
func (b *Blueprint) Start() mapgen.Cell {
	for _, r := range b.Rooms {
		if r.Depth == 0 {
			return r.Cell
		}
	}
	return mapgen.Cell{}
}
