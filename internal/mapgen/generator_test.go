package mapgen

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ugaemi/facilitygen/internal/geom"
)

type staticCatalog []*RoomTemplate

func (c staticCatalog) Templates() []*RoomTemplate { return c }

type fakeRoom struct {
	tpl *RoomTemplate
	pos geom.Vec3
	yaw float64
}

func (r *fakeRoom) Socket(name SocketName) (geom.Vec3, bool) {
	dir, ok := r.tpl.Sockets[name]
	return dir, ok
}

type fakeSpawner struct {
	spawned   []*fakeRoom
	despawned int
	// fail decides whether a spawn at pos should fail.
	fail func(pos geom.Vec3) bool
	// onSpawn runs before each spawn.
	onSpawn func()
}

func (s *fakeSpawner) Spawn(tpl *RoomTemplate, pos geom.Vec3, yaw float64) (RoomInstance, error) {
	if s.onSpawn != nil {
		s.onSpawn()
	}
	if s.fail != nil && s.fail(pos) {
		return nil, errors.New("spawn refused")
	}
	r := &fakeRoom{tpl: tpl, pos: pos, yaw: yaw}
	s.spawned = append(s.spawned, r)
	return r, nil
}

func (s *fakeSpawner) Despawn(RoomInstance) {
	s.despawned++
}

type sequenceRand struct {
	next int
}

func (r *sequenceRand) Intn(n int) int {
	v := r.next % n
	r.next++
	return v
}

func threeWay(name string) *RoomTemplate {
	return NewRoomTemplate(name, SocketForward, SocketRight, SocketLeft)
}

func newTestGenerator(catalog Catalog, spawner Spawner) *Generator {
	return NewGenerator(catalog, spawner, Config{CellWidth: 20, CellHeight: 20, Seed: 42})
}

func TestGenerateMap_SevenRooms(t *testing.T) {
	spawner := &fakeSpawner{}
	g := newTestGenerator(staticCatalog{threeWay("hall"), threeWay("office")}, spawner)

	layout, err := g.GenerateMap(geom.Zero, 7)
	require.NoError(t, err)

	require.Len(t, layout.Rooms, 7)
	assert.Len(t, g.Occupancy(), 7)
	assert.Len(t, spawner.spawned, 7)
	assert.Equal(t, StopCapReached, layout.StopReason)
	assert.Equal(t, StateDone, g.State())

	seen := make(map[Cell]bool)
	for _, r := range layout.Rooms {
		assert.False(t, seen[r.Cell], "cell %v placed twice", r.Cell)
		seen[r.Cell] = true
	}

	assert.True(t, layout.Connected(), "all rooms reachable from the start through links")
	assert.Len(t, layout.Links, 6)

	want := []Cell{
		{0, 0}, {0, 1}, {1, 0}, {-1, 0}, // start and its three exits
		{-1, 1}, {1, 1}, // exits of the forward room, which faces back
		{1, -1}, // left exit of the right room
	}
	for i, c := range want {
		assert.Equal(t, c, layout.Rooms[i].Cell, "room %d", i)
	}
}

func TestGenerateMap_EmptyCatalog(t *testing.T) {
	spawner := &fakeSpawner{}
	g := newTestGenerator(staticCatalog{}, spawner)

	layout, err := g.GenerateMap(geom.Zero, 5)
	assert.Nil(t, layout)
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.ErrorIs(t, err, ErrNoTemplates)
	assert.Empty(t, g.Occupancy())
	assert.Empty(t, spawner.spawned)
	assert.Equal(t, StateIdle, g.State())
}

func TestGenerateMap_InvalidParameters(t *testing.T) {
	catalog := staticCatalog{threeWay("hall")}

	tests := []struct {
		name     string
		gen      *Generator
		maxRooms int
	}{
		{"zero max rooms", newTestGenerator(catalog, &fakeSpawner{}), 0},
		{"negative max rooms", newTestGenerator(catalog, &fakeSpawner{}), -3},
		{"zero cell size", NewGenerator(catalog, &fakeSpawner{}, Config{CellWidth: 0, CellHeight: 20}), 5},
		{"nil catalog", NewGenerator(nil, &fakeSpawner{}, Config{CellWidth: 20, CellHeight: 20}), 5},
		{"nil spawner", NewGenerator(catalog, nil, Config{CellWidth: 20, CellHeight: 20}), 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.gen.GenerateMap(geom.Zero, tt.maxRooms)
			assert.ErrorIs(t, err, ErrConfiguration)
			assert.Empty(t, tt.gen.Occupancy())
		})
	}
}

func TestGenerateMap_SingleRoom(t *testing.T) {
	g := newTestGenerator(staticCatalog{threeWay("hall")}, &fakeSpawner{})

	layout, err := g.GenerateMap(geom.Vec3{X: 5, Y: 3, Z: -8}, 1)
	require.NoError(t, err)

	require.Len(t, layout.Rooms, 1)
	assert.Equal(t, Cell{}, layout.Rooms[0].Cell)
	assert.Equal(t, geom.Vec3{X: 5, Z: -8}, layout.Rooms[0].Position)
	assert.Empty(t, layout.Links)
	assert.Equal(t, StopCapReached, layout.StopReason)
	assert.Equal(t, 1, layout.Discarded, "start cell is left in the frontier")
}

func TestGenerateMap_NeverExceedsCap(t *testing.T) {
	catalog := staticCatalog{threeWay("hall"), NewRoomTemplate("bend", SocketRight), NewRoomTemplate("straight", SocketForward)}

	for maxRooms := 1; maxRooms <= 40; maxRooms++ {
		for seed := int64(1); seed <= 5; seed++ {
			g := NewGenerator(catalog, &fakeSpawner{}, Config{CellWidth: 20, CellHeight: 20, Seed: seed})
			layout, err := g.GenerateMap(geom.Zero, maxRooms)
			require.NoError(t, err)
			assert.LessOrEqual(t, len(layout.Rooms), maxRooms, "max=%d seed=%d", maxRooms, seed)
			assert.Len(t, g.Occupancy(), len(layout.Rooms))
		}
	}
}

func TestGenerateMap_FrontierExhausted(t *testing.T) {
	tests := []struct {
		name      string
		template  *RoomTemplate
		wantRooms int
	}{
		// A dead end has no exits at all.
		{"dead end", NewRoomTemplate("closet"), 1},
		// The second room faces back, so its only exit points at the start.
		{"forward only", NewRoomTemplate("corridor", SocketForward), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGenerator(staticCatalog{tt.template}, &fakeSpawner{})
			layout, err := g.GenerateMap(geom.Zero, 20)
			require.NoError(t, err)
			assert.Len(t, layout.Rooms, tt.wantRooms)
			assert.Equal(t, StopFrontierExhausted, layout.StopReason)
			assert.Zero(t, layout.Discarded)
		})
	}
}

func TestGenerateMap_RoomsFaceEachOther(t *testing.T) {
	catalog := staticCatalog{
		threeWay("hall"),
		NewRoomTemplate("left-turn", SocketLeft),
		NewRoomTemplate("tee", SocketRight, SocketLeft),
	}
	g := newTestGenerator(catalog, &fakeSpawner{})

	layout, err := g.GenerateMap(geom.Vec3{X: 7, Z: 7}, 60)
	require.NoError(t, err)
	require.NotEmpty(t, layout.Links)

	for _, link := range layout.Links {
		from := layout.Room(link.From)
		to := layout.Room(link.To)
		require.NotNil(t, from)
		require.NotNil(t, to)

		local, ok := from.Instance.Socket(link.Socket)
		require.True(t, ok)
		outward := local.RotateY(from.Yaw)

		assert.True(t, to.Forward().ApproxEqual(outward.Neg(), 1e-9),
			"room %v forward %+v should oppose socket %s of %v (%+v)", link.To, to.Forward(), link.Socket, link.From, outward)

		// The neighbour sits exactly one cell along the socket direction.
		assert.True(t, to.Position.ApproxEqual(from.Position.Add(outward.Scale(20)), 1e-9))
	}
}

func TestGenerateMap_BreadthFirstOrder(t *testing.T) {
	g := newTestGenerator(staticCatalog{threeWay("hall"), NewRoomTemplate("tee", SocketRight, SocketLeft)}, &fakeSpawner{})

	layout, err := g.GenerateMap(geom.Zero, 80)
	require.NoError(t, err)

	for i := 1; i < len(layout.Rooms); i++ {
		assert.LessOrEqual(t, layout.Rooms[i-1].Depth, layout.Rooms[i].Depth,
			"room %d placed after a deeper room", i)
	}

	depth := make(map[Cell]int)
	for _, r := range layout.Rooms {
		depth[r.Cell] = r.Depth
	}
	for _, link := range layout.Links {
		assert.Equal(t, depth[link.From]+1, depth[link.To])
	}
}

func TestGenerateMap_FailedSpawnLeavesGap(t *testing.T) {
	failed := false
	spawner := &fakeSpawner{
		fail: func(pos geom.Vec3) bool {
			// Refuse the first attempt on cell (1, 0) only.
			if pos == (geom.Vec3{X: 20}) && !failed {
				failed = true
				return true
			}
			return false
		},
	}
	g := newTestGenerator(staticCatalog{threeWay("hall")}, spawner)

	layout, err := g.GenerateMap(geom.Zero, 50)
	require.NoError(t, err)
	assert.True(t, failed)

	room := layout.Room(Cell{X: 1, Z: 0})
	require.NotNil(t, room, "a later socket fills the gap")

	for _, link := range layout.Links {
		if link.To == (Cell{X: 1, Z: 0}) {
			assert.NotEqual(t, Cell{}, link.From, "the start room's attempt failed")
		}
	}
	assert.True(t, layout.Connected())
}

func TestGenerateMap_StartRoomFailure(t *testing.T) {
	spawner := &fakeSpawner{fail: func(geom.Vec3) bool { return true }}
	g := newTestGenerator(staticCatalog{threeWay("hall")}, spawner)

	_, err := g.GenerateMap(geom.Zero, 5)
	assert.ErrorIs(t, err, ErrStartRoom)
	assert.Empty(t, g.Occupancy())
	assert.Equal(t, StateIdle, g.State())
}

func TestGenerateMap_Reentrant(t *testing.T) {
	spawner := &fakeSpawner{}
	g := newTestGenerator(staticCatalog{threeWay("hall")}, spawner)

	var reentrantErr error
	spawner.onSpawn = func() {
		if g.State() == StateRunning && reentrantErr == nil {
			_, reentrantErr = g.GenerateMap(geom.Zero, 3)
		}
	}

	layout, err := g.GenerateMap(geom.Zero, 4)
	require.NoError(t, err)
	assert.Len(t, layout.Rooms, 4)
	assert.ErrorIs(t, reentrantErr, ErrBusy)
}

func TestGenerateMap_ReentrantFromStartRoom(t *testing.T) {
	spawner := &fakeSpawner{}
	g := newTestGenerator(staticCatalog{threeWay("hall")}, spawner)

	calls := 0
	var nestedErr error
	spawner.onSpawn = func() {
		calls++
		if calls == 1 {
			_, nestedErr = g.GenerateMap(geom.Vec3{X: 100}, 3)
		}
	}

	layout, err := g.GenerateMap(geom.Zero, 4)
	require.NoError(t, err)
	assert.ErrorIs(t, nestedErr, ErrBusy)

	assert.Len(t, layout.Rooms, 4)
	assert.Len(t, g.Occupancy(), 4)
	assert.Len(t, spawner.spawned, 4)
	assert.Equal(t, geom.Zero, layout.Origin)
}

func TestGenerateMap_RetryAfterStartRoomFailure(t *testing.T) {
	failed := false
	spawner := &fakeSpawner{fail: func(geom.Vec3) bool {
		if failed {
			return false
		}
		failed = true
		return true
	}}
	g := newTestGenerator(staticCatalog{threeWay("hall")}, spawner)

	_, err := g.GenerateMap(geom.Zero, 3)
	require.ErrorIs(t, err, ErrStartRoom)
	assert.Equal(t, StateIdle, g.State())

	layout, err := g.GenerateMap(geom.Zero, 3)
	require.NoError(t, err)
	assert.Len(t, layout.Rooms, 3)
	assert.Equal(t, StateDone, g.State())
}

func TestGenerateMap_ScaledSocketsStayAdjacent(t *testing.T) {
	wide := NewRoomTemplate("wide")
	wide.Sockets[SocketForward] = geom.Vec3{Z: 3}
	wide.Sockets[SocketRight] = geom.Vec3{X: 3, Y: 5}
	wide.Sockets[SocketLeft] = geom.Vec3{X: -0.25}

	g := newTestGenerator(staticCatalog{wide}, &fakeSpawner{})
	layout, err := g.GenerateMap(geom.Zero, 4)
	require.NoError(t, err)

	cells := make([]Cell, 0, len(layout.Rooms))
	for _, r := range layout.Rooms {
		cells = append(cells, r.Cell)
	}
	assert.Equal(t, []Cell{{0, 0}, {0, 1}, {1, 0}, {-1, 0}}, cells)

	for _, l := range layout.Links {
		dx, dz := l.To.X-l.From.X, l.To.Z-l.From.Z
		assert.Equal(t, 1, dx*dx+dz*dz, "link %v -> %v via %s", l.From, l.To, l.Socket)
	}
}

func TestGenerateMap_RegenerateTearsDown(t *testing.T) {
	spawner := &fakeSpawner{}
	g := newTestGenerator(staticCatalog{threeWay("hall")}, spawner)

	first, err := g.GenerateMap(geom.Zero, 5)
	require.NoError(t, err)
	require.Len(t, first.Rooms, 5)

	second, err := g.GenerateMap(geom.Vec3{X: 100}, 3)
	require.NoError(t, err)
	assert.Equal(t, 5, spawner.despawned)
	assert.Len(t, second.Rooms, 3)
	assert.Len(t, g.Occupancy(), 3)
	assert.Equal(t, geom.Vec3{X: 100}, second.Rooms[0].Position)

	g.Teardown()
	assert.Equal(t, 8, spawner.despawned)
	assert.Empty(t, g.Occupancy())
	assert.Zero(t, g.Pending())
	assert.Equal(t, StateIdle, g.State())
}

func TestGenerateMap_UniformSelectionUsesInjectedRand(t *testing.T) {
	catalog := staticCatalog{threeWay("a"), threeWay("b"), threeWay("c")}
	g := newTestGenerator(catalog, &fakeSpawner{})
	g.SetRand(&sequenceRand{})

	layout, err := g.GenerateMap(geom.Zero, 6)
	require.NoError(t, err)

	for i, r := range layout.Rooms {
		assert.Equal(t, catalog[i%3].Name, r.Template, "room %d", i)
	}
}

func TestGenerateMap_SameSeedSameLayout(t *testing.T) {
	catalog := staticCatalog{threeWay("hall"), NewRoomTemplate("bend", SocketLeft), NewRoomTemplate("tee", SocketRight, SocketLeft)}
	cfg := Config{CellWidth: 20, CellHeight: 20, Seed: 1234}

	a, err := NewGenerator(catalog, &fakeSpawner{}, cfg).GenerateMap(geom.Zero, 30)
	require.NoError(t, err)
	b, err := NewGenerator(catalog, &fakeSpawner{}, cfg).GenerateMap(geom.Zero, 30)
	require.NoError(t, err)

	require.Equal(t, len(a.Rooms), len(b.Rooms))
	for i := range a.Rooms {
		assert.Equal(t, a.Rooms[i].Cell, b.Rooms[i].Cell)
		assert.Equal(t, a.Rooms[i].Template, b.Rooms[i].Template)
		assert.Equal(t, a.Rooms[i].Yaw, b.Rooms[i].Yaw)
	}
}

func TestGenerateMap_NonSquareCells(t *testing.T) {
	g := NewGenerator(staticCatalog{threeWay("hall")}, &fakeSpawner{}, Config{CellWidth: 30, CellHeight: 10, Seed: 1})

	layout, err := g.GenerateMap(geom.Vec3{X: 1, Z: 2}, 4)
	require.NoError(t, err)

	got := make([]string, 0, len(layout.Rooms))
	for _, r := range layout.Rooms {
		got = append(got, fmt.Sprintf("%v@%v,%v", r.Cell, r.Position.X, r.Position.Z))
	}
	assert.Equal(t, []string{
		"{0 0}@1,2",
		"{0 1}@1,12",
		"{1 0}@31,2",
		"{-1 0}@-29,2",
	}, got)
}
