package mapgen

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/ugaemi/facilitygen/internal/geom"
)

// Config holds the grid parameters for a generator.
type Config struct {
	CellWidth  float64 // distance between room centers along X
	CellHeight float64 // distance between room centers along Z
	Seed       int64   // random seed (0 = use current time)
}

// Rand is the random source used to pick templates.
type Rand interface {
	Intn(n int) int
}

// Generator owns the occupancy map and frontier of a single fill.
type Generator struct {
	catalog Catalog
	spawner Spawner
	config  Config
	rng     Rand

	grid      geom.Grid
	start     Cell
	occupancy map[Cell]*PlacedRoom
	order     []*PlacedRoom
	links     []Link
	frontier  []Cell
	state     State
}

// NewGenerator creates a generator drawing templates from catalog and placing
// them through spawner.
func NewGenerator(catalog Catalog, spawner Spawner, config Config) *Generator {
	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Generator{
		catalog:   catalog,
		spawner:   spawner,
		config:    config,
		rng:       rand.New(rand.NewSource(seed)),
		occupancy: make(map[Cell]*PlacedRoom),
	}
}

// SetRand replaces the random source.
func (g *Generator) SetRand(r Rand) {
	g.rng = r
}

// State returns the current lifecycle state.
func (g *Generator) State() State {
	return g.state
}

// Room returns the room at cell, or nil.
func (g *Generator) Room(c Cell) *PlacedRoom {
	return g.occupancy[c]
}

// Occupancy returns a copy of the occupancy map.
func (g *Generator) Occupancy() map[Cell]*PlacedRoom {
	out := make(map[Cell]*PlacedRoom, len(g.occupancy))
	for c, r := range g.occupancy {
		out[c] = r
	}
	return out
}

// Pending returns the number of cells still waiting in the frontier.
func (g *Generator) Pending() int {
	return len(g.frontier)
}

// GenerateMap fills the grid outward from start until either the frontier is
// exhausted or maxRooms rooms have been placed. start becomes the grid origin.
// Calling it again after a completed run tears the previous map down first.
func (g *Generator) GenerateMap(start geom.Vec3, maxRooms int) (*Layout, error) {
	if g.state == StateRunning {
		return nil, ErrBusy
	}

	templates, err := g.validate(maxRooms)
	if err != nil {
		return nil, err
	}

	if g.state == StateDone {
		g.Teardown()
	}

	g.grid = geom.NewGrid(start, g.config.CellWidth, g.config.CellHeight)
	g.start = g.cellAt(start)
	g.state = StateRunning

	first, err := g.spawn(templates, g.start, geom.Zero, 0)
	if err != nil {
		g.state = StateIdle
		return nil, fmt.Errorf("%w: %w", ErrStartRoom, err)
	}
	g.place(first)
	g.frontier = append(g.frontier, g.start)

	for len(g.frontier) > 0 && len(g.occupancy) < maxRooms {
		current := g.frontier[0]
		g.frontier = g.frontier[1:]
		room := g.occupancy[current]

		for _, name := range SocketOrder {
			if len(g.occupancy) >= maxRooms {
				break
			}
			g.processSocket(templates, room, name)
		}
	}

	reason := StopFrontierExhausted
	if len(g.frontier) > 0 {
		reason = StopCapReached
	}
	g.state = StateDone

	slog.Debug("map generated",
		"rooms", len(g.occupancy), "max_rooms", maxRooms,
		"discarded", len(g.frontier), "reason", string(reason))

	return g.layout(maxRooms, reason), nil
}

func (g *Generator) validate(maxRooms int) ([]*RoomTemplate, error) {
	if g.catalog == nil || g.spawner == nil {
		return nil, fmt.Errorf("%w: catalog and spawner are required", ErrConfiguration)
	}
	if g.config.CellWidth <= 0 || g.config.CellHeight <= 0 {
		return nil, fmt.Errorf("%w: cell size must be positive, got %vx%v",
			ErrConfiguration, g.config.CellWidth, g.config.CellHeight)
	}
	if maxRooms < 1 {
		return nil, fmt.Errorf("%w: max rooms must be at least 1, got %d", ErrConfiguration, maxRooms)
	}

	templates := g.catalog.Templates()
	if len(templates) == 0 {
		return nil, ErrNoTemplates
	}
	return templates, nil
}

// processSocket places a room in the cell the named socket of room points at,
// if the room has that socket and the cell is still free.
func (g *Generator) processSocket(templates []*RoomTemplate, room *PlacedRoom, name SocketName) {
	local, ok := room.Instance.Socket(name)
	if !ok {
		return
	}

	// Only the heading of a socket matters; the neighbour is always one cell away.
	outward := local.Unit().RotateY(room.Yaw)
	target := g.cellAt(room.Position.Add(g.grid.Step(outward)))
	if _, occupied := g.occupancy[target]; occupied {
		return
	}

	placed, err := g.spawn(templates, target, outward.Neg(), room.Depth+1)
	if err != nil {
		// The cell stays free; another socket may still reach it.
		slog.Warn("room spawn failed", "cell", target, "socket", string(name), "error", err)
		return
	}

	g.place(placed)
	g.links = append(g.links, Link{From: room.Cell, To: target, Socket: name})
	g.frontier = append(g.frontier, target)
}

// spawn instantiates a random template at cell, turned so that its forward
// direction matches facing. A zero facing leaves the template unrotated.
func (g *Generator) spawn(templates []*RoomTemplate, c Cell, facing geom.Vec3, depth int) (*PlacedRoom, error) {
	tpl := templates[g.rng.Intn(len(templates))]
	pos := g.grid.Center(c.X, c.Z)
	yaw := geom.NormalizeYaw(geom.SignedAngle(geom.Forward, facing))

	inst, err := g.spawner.Spawn(tpl, pos, yaw)
	if err != nil {
		return nil, err
	}
	if inst == nil {
		return nil, fmt.Errorf("spawner returned no instance for %q", tpl.Name)
	}

	return &PlacedRoom{
		Cell:     c,
		Position: pos,
		Yaw:      yaw,
		Template: tpl.Name,
		Depth:    depth,
		Instance: inst,
	}, nil
}

func (g *Generator) place(r *PlacedRoom) {
	g.occupancy[r.Cell] = r
	g.order = append(g.order, r)
	slog.Debug("room placed", "cell", r.Cell, "template", r.Template, "yaw", r.Yaw, "depth", r.Depth)
}

func (g *Generator) cellAt(pos geom.Vec3) Cell {
	x, z := g.grid.Index(pos)
	return Cell{X: x, Z: z}
}

// Teardown releases every placed room and returns the generator to idle.
func (g *Generator) Teardown() {
	if d, ok := g.spawner.(Despawner); ok {
		for _, r := range g.order {
			d.Despawn(r.Instance)
		}
	}
	g.occupancy = make(map[Cell]*PlacedRoom)
	g.order = nil
	g.links = nil
	g.frontier = nil
	g.state = StateIdle
}

func (g *Generator) layout(maxRooms int, reason StopReason) *Layout {
	rooms := make([]*PlacedRoom, len(g.order))
	copy(rooms, g.order)
	links := make([]Link, len(g.links))
	copy(links, g.links)

	return &Layout{
		Origin:     g.grid.Origin,
		CellWidth:  g.grid.CellWidth,
		CellHeight: g.grid.CellHeight,
		MaxRooms:   maxRooms,
		Start:      g.start,
		Rooms:      rooms,
		Links:      links,
		StopReason: reason,
		Discarded:  len(g.frontier),
	}
}
