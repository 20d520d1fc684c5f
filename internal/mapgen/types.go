// Package mapgen places room templates on a regular grid by flood-filling
// outward from a start room through each room's exit sockets.
package mapgen

import (
	"errors"
	"fmt"

	"github.com/ugaemi/facilitygen/internal/geom"
)

var (
	// ErrConfiguration is returned before any placement when the generator
	// cannot run with the given collaborators or parameters.
	ErrConfiguration = errors.New("mapgen: configuration error")
	// ErrNoTemplates is returned when the catalog has nothing to place.
	ErrNoTemplates = fmt.Errorf("%w: no room templates registered", ErrConfiguration)
	// ErrStartRoom is returned when the first room could not be placed.
	ErrStartRoom = errors.New("mapgen: start room could not be placed")
	// ErrBusy is returned when GenerateMap is called while a fill is running.
	ErrBusy = errors.New("mapgen: generation already running")
)

// SocketName identifies one of the three exits a room may have.
type SocketName string

const (
	SocketForward SocketName = "forward"
	SocketRight   SocketName = "right"
	SocketLeft    SocketName = "left"
)

// SocketOrder is the order in which a room's sockets are explored.
var SocketOrder = [...]SocketName{SocketForward, SocketRight, SocketLeft}

// Valid reports whether n is one of the known socket names.
func (n SocketName) Valid() bool {
	switch n {
	case SocketForward, SocketRight, SocketLeft:
		return true
	}
	return false
}

// CanonicalDirection returns the local outward direction conventionally used
// for the socket name.
func (n SocketName) CanonicalDirection() geom.Vec3 {
	switch n {
	case SocketForward:
		return geom.Forward
	case SocketRight:
		return geom.Right
	case SocketLeft:
		return geom.Left
	}
	return geom.Zero
}

// RoomTemplate describes a placeable room. Sockets maps each exit the room
// has to its local outward direction; missing names mean no exit.
type RoomTemplate struct {
	Name    string
	Sockets map[SocketName]geom.Vec3
}

// NewRoomTemplate builds a template whose sockets point in their canonical
// directions.
func NewRoomTemplate(name string, sockets ...SocketName) *RoomTemplate {
	t := &RoomTemplate{Name: name, Sockets: make(map[SocketName]geom.Vec3, len(sockets))}
	for _, s := range sockets {
		t.Sockets[s] = s.CanonicalDirection()
	}
	return t
}

// Catalog supplies the templates the generator picks from.
type Catalog interface {
	Templates() []*RoomTemplate
}

// RoomInstance is a room that has been spawned into the world.
type RoomInstance interface {
	// Socket returns the local outward direction of the named exit.
	Socket(name SocketName) (geom.Vec3, bool)
}

// Spawner instantiates templates at a world position with a yaw in degrees.
type Spawner interface {
	Spawn(tpl *RoomTemplate, pos geom.Vec3, yaw float64) (RoomInstance, error)
}

// Despawner is implemented by spawners that can release placed rooms.
type Despawner interface {
	Despawn(room RoomInstance)
}

// Cell is a grid address relative to the grid origin.
type Cell struct {
	X int `json:"x"`
	Z int `json:"z"`
}

// PlacedRoom is a room occupying a cell.
type PlacedRoom struct {
	Cell     Cell         `json:"cell"`
	Position geom.Vec3    `json:"position"`
	Yaw      float64      `json:"yaw"`
	Template string       `json:"template"`
	Depth    int          `json:"depth"`
	Instance RoomInstance `json:"-"`
}

// Forward returns the room's forward direction in world space.
func (r *PlacedRoom) Forward() geom.Vec3 {
	return geom.Forward.RotateY(r.Yaw)
}

// Link records that To was placed through From's socket.
type Link struct {
	From   Cell       `json:"from"`
	To     Cell       `json:"to"`
	Socket SocketName `json:"socket"`
}

// State is the generator lifecycle.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// StopReason says why a fill ended.
type StopReason string

const (
	StopFrontierExhausted StopReason = "frontier_exhausted"
	StopCapReached        StopReason = "cap_reached"
)
