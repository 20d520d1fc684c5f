package catalog

import (
	"github.com/ugaemi/facilitygen/internal/geom"
	"github.com/ugaemi/facilitygen/internal/mapgen"
)

// Room is a template instantiated at a position. Its sockets are copied from
// the template when it is spawned.
type Room struct {
	Template string
	Position geom.Vec3
	Yaw      float64
	sockets  map[mapgen.SocketName]geom.Vec3
}

// Socket implements mapgen.RoomInstance.
func (r *Room) Socket(name mapgen.SocketName) (geom.Vec3, bool) {
	dir, ok := r.sockets[name]
	return dir, ok
}

// TemplateSpawner builds rooms directly from templates. It keeps track of the
// rooms it has spawned and not yet released.
type TemplateSpawner struct {
	live map[*Room]struct{}
}

// NewTemplateSpawner creates a spawner with no live rooms.
func NewTemplateSpawner() *TemplateSpawner {
	return &TemplateSpawner{live: make(map[*Room]struct{})}
}

// Spawn implements mapgen.Spawner.
func (s *TemplateSpawner) Spawn(tpl *mapgen.RoomTemplate, pos geom.Vec3, yaw float64) (mapgen.RoomInstance, error) {
	sockets := make(map[mapgen.SocketName]geom.Vec3, len(tpl.Sockets))
	for name, dir := range tpl.Sockets {
		sockets[name] = dir
	}

	r := &Room{Template: tpl.Name, Position: pos, Yaw: yaw, sockets: sockets}
	s.live[r] = struct{}{}
	return r, nil
}

// Despawn implements mapgen.Despawner.
func (s *TemplateSpawner) Despawn(inst mapgen.RoomInstance) {
	if r, ok := inst.(*Room); ok {
		delete(s.live, r)
	}
}

// Live returns the number of rooms spawned and not yet released.
func (s *TemplateSpawner) Live() int {
	return len(s.live)
}
