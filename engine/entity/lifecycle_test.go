package entity

import (
	"testing"

	"github.com/Dynat/alpha-core/engine/common"
	"github.com/Dynat/alpha-core/engine/netutil"
	"github.com/Dynat/alpha-core/engine/proto"
	uf "github.com/Dynat/alpha-core/engine/updatefields"
	"github.com/bmizerany/assert"
)

// newWatchedPlayer logs in a player held by two other players
func newWatchedPlayer(t *testing.T) (*EntityManager, *fakeGrid, *recordingTransport, *Entity, *Entity, *Entity) {
	m, grid, transport := newTestManager()
	a := newTestPlayer(m, 1, "Alice")
	b := newTestPlayer(m, 2, "Bob")
	p := newTestPlayer(m, 3, "Carol")
	loginPlayer(t, m, a)
	loginPlayer(t, m, b)
	grid.setNearby(a, p)
	grid.setNearby(b, p)
	grid.setNearby(p, a, b)
	loginPlayer(t, m, p)
	return m, grid, transport, a, b, p
}

func TestLoginCreatesEverywhere(t *testing.T) {
	_, _, transport, a, b, p := newWatchedPlayer(t)

	assert.Equal(t, []common.GUID{p.GUID}, transport.updates(1, proto.UpdateTypeCreateObject)[1:])
	assert.Equal(t, []common.GUID{p.GUID}, transport.updates(2, proto.UpdateTypeCreateObject)[1:])
	assert.Equal(t, []common.GUID{p.GUID, a.GUID, b.GUID}, transport.updates(3, proto.UpdateTypeCreateObject))
	assert.T(t, a.Visible().Contains(p.GUID) && b.Visible().Contains(p.GUID))
	assert.Equal(t, 2, p.ObserverCount())
	assert.T(t, p.IsOnline())

	self := transport.packets(3, proto.SMSG_UPDATE_OBJECT)[0]
	r := netutil.NewPacketFrom(self.payload)
	r.ReadBytes(4 + 1 + 8 + 1 + 68)
	assert.Equal(t, uint32(1), r.ReadUint32())
}

func TestRemoveDestroysOncePerObserver(t *testing.T) {
	m, grid, transport, a, b, p := newWatchedPlayer(t)
	transport.reset()

	destroysBeforeDeregister := -1
	grid.onDeregister = func(e *Entity) {
		if e == p {
			destroysBeforeDeregister = transport.count(1, proto.SMSG_DESTROY_OBJECT) + transport.count(2, proto.SMSG_DESTROY_OBJECT)
		}
	}
	assert.Equal(t, nil, m.Remove(p))

	assert.Equal(t, 2, destroysBeforeDeregister)
	assert.Equal(t, []common.GUID{p.GUID}, transport.destroys(1))
	assert.Equal(t, []common.GUID{p.GUID}, transport.destroys(2))
	assert.Equal(t, 0, len(transport.destroys(3)))
	assert.T(t, !a.Visible().Contains(p.GUID) && !b.Visible().Contains(p.GUID))
	assert.Equal(t, 0, p.Visible().Len())
	assert.Equal(t, 0, a.ObserverCount())
	assert.T(t, p.IsRemoved())
	assert.T(t, !p.IsOnline())
	assert.Equal(t, (*Entity)(nil), m.Get(p.GUID))
	assert.Equal(t, (*Entity)(nil), grid.registered.Get(p.GUID))

	// removed entities ignore further operations
	transport.reset()
	assert.Equal(t, nil, m.Remove(p))
	p.SetHealth(1)
	flushed, err := m.FlushIfDirty(p)
	assert.T(t, !flushed)
	assert.Equal(t, nil, err)
	assert.Equal(t, 0, len(transport.sent))
}

func TestRemoveWithBrokenObserver(t *testing.T) {
	m, _, transport, a, b, p := newWatchedPlayer(t)
	transport.reset()
	transport.failing[1] = true

	assert.T(t, m.Remove(p) != nil)
	assert.T(t, p.IsRemoved())
	assert.Equal(t, (*Entity)(nil), m.Get(p.GUID))
	assert.Equal(t, []common.GUID{p.GUID}, transport.destroys(2))
	assert.T(t, !b.Visible().Contains(p.GUID))
	assert.T(t, a.Visible().Contains(p.GUID))

	// the stale entry is destroyed by the next sync once the connection recovers
	delete(transport.failing, 1)
	assert.Equal(t, nil, m.SyncVisibility(a))
	assert.Equal(t, []common.GUID{p.GUID}, transport.destroys(1))
	assert.T(t, !a.Visible().Contains(p.GUID))
	assert.Equal(t, 0, p.ObserverCount())
}

func TestRemoveInactive(t *testing.T) {
	m, grid, transport := newTestManager()
	c := newTestCreature(1)
	assert.Equal(t, nil, m.Remove(c))
	assert.T(t, c.IsRemoved())
	assert.Equal(t, nil, m.Spawn(c))
	assert.T(t, !c.IsActive())
	assert.Equal(t, 0, len(grid.registered))
	assert.Equal(t, 0, len(transport.sent))
}

func TestSpawnRejectsLiveGUID(t *testing.T) {
	m, grid, transport := newTestManager()
	a := newTestPlayer(m, 1, "Alice")
	loginPlayer(t, m, a)
	c := newTestCreature(7)
	grid.setNearby(c, a)
	assert.Equal(t, nil, m.Spawn(c))
	transport.reset()

	twin := newTestCreature(7)
	grid.setNearby(twin, a)
	assert.T(t, m.Spawn(twin) != nil)
	assert.T(t, !twin.IsActive())
	assert.Equal(t, c, m.Get(c.GUID))
	assert.Equal(t, c, grid.registered.Get(c.GUID))
	assert.Equal(t, 0, len(transport.sent))

	clone := newTestPlayer(m, 1, "Alice")
	assert.T(t, m.CompleteLogin(clone) != nil)
	assert.T(t, !clone.IsOnline())
	assert.Equal(t, a, m.Get(a.GUID))
}

func TestFlushIfDirty(t *testing.T) {
	m, grid, transport := newTestManager()
	observer := newTestPlayer(m, 1, "Observer")
	c := newTestCreature(1)
	spawnAll(t, m, c)
	grid.setNearby(observer, c)
	loginPlayer(t, m, observer)
	transport.reset()

	flushed, err := m.FlushIfDirty(c)
	assert.T(t, !flushed)
	assert.Equal(t, nil, err)

	c.SetHealth(25)
	updates := grid.updates
	flushed, err = m.FlushIfDirty(c)
	assert.T(t, flushed)
	assert.Equal(t, nil, err)
	assert.Equal(t, []common.GUID{c.GUID}, transport.updates(1, proto.UpdateTypePartial))
	assert.T(t, !c.IsDirty())
	assert.Equal(t, updates+1, grid.updates)

	partial := transport.packets(1, proto.SMSG_UPDATE_OBJECT)[0]
	r := netutil.NewPacketFrom(partial.payload)
	r.ReadBytes(4 + 1 + 8)
	decoded, err := uf.DecodeUpdateBlock(r, uf.UnitSchema)
	assert.Equal(t, nil, err)
	assert.Equal(t, []int{uf.UNIT_FIELD_HEALTH}, decoded.DirtyMask().Indices())
	assert.Equal(t, uint32(25), decoded.Uint32(uf.UNIT_FIELD_HEALTH))

	flushed, _ = m.FlushIfDirty(c)
	assert.T(t, !flushed)

	m.MarkDirty(c)
	flushed, err = m.FlushIfDirty(c)
	assert.T(t, flushed)
	assert.Equal(t, nil, err)
	assert.T(t, !c.IsDirty())
}

func TestFlushToOwnClient(t *testing.T) {
	m, _, transport := newTestManager()
	player := newTestPlayer(m, 1, "Solo")
	loginPlayer(t, m, player)
	transport.reset()

	player.SetGuild(5, 4)
	flushed, err := m.FlushIfDirty(player)
	assert.T(t, flushed)
	assert.Equal(t, nil, err)
	assert.Equal(t, []common.GUID{player.GUID}, transport.updates(1, proto.UpdateTypePartial))
}

func TestFlushKeepsMaskOnFailure(t *testing.T) {
	m, grid, transport := newTestManager()
	observer := newTestPlayer(m, 1, "Observer")
	c := newTestCreature(1)
	spawnAll(t, m, c)
	grid.setNearby(observer, c)
	loginPlayer(t, m, observer)

	c.SetHealth(30)
	transport.failing[1] = true
	flushed, err := m.FlushIfDirty(c)
	assert.T(t, flushed)
	assert.T(t, err != nil)
	assert.T(t, c.Fields.IsFieldDirty(uf.UNIT_FIELD_HEALTH))

	c.SetLevel(4)
	transport.failing[1] = false
	transport.reset()
	_, err = m.FlushIfDirty(c)
	assert.Equal(t, nil, err)
	assert.T(t, !c.IsDirty())

	// the retry carries everything since the last successful flush
	r := netutil.NewPacketFrom(transport.packets(1, proto.SMSG_UPDATE_OBJECT)[0].payload)
	r.ReadBytes(4 + 1 + 8)
	decoded, _ := uf.DecodeUpdateBlock(r, uf.UnitSchema)
	assert.Equal(t, []int{uf.UNIT_FIELD_HEALTH, uf.UNIT_FIELD_LEVEL}, decoded.DirtyMask().Indices())
}

func TestTeleportToUnknownMap(t *testing.T) {
	m, _, transport, a, _, p := newWatchedPlayer(t)
	p.MapID = 1
	p.Location = Vector{X: 10, Y: 20, Z: 30, O: 1}
	transport.reset()

	ok, err := m.Teleport(p, 999, Vector{X: 1, Y: 2, Z: 3})
	assert.T(t, !ok)
	assert.Equal(t, nil, err)
	assert.Equal(t, uint32(1), p.MapID)
	assert.Equal(t, Vector{X: 10, Y: 20, Z: 30, O: 1}, p.Location)
	assert.T(t, !p.IsTeleporting())
	assert.T(t, a.Visible().Contains(p.GUID))
	assert.Equal(t, 0, len(transport.sent))
}

func TestTeleportSameMap(t *testing.T) {
	m, grid, transport, a, b, p := newWatchedPlayer(t)
	c := newTestCreature(9)
	spawnAll(t, m, c)
	transport.reset()

	dest := Vector{X: 100, Y: 200, Z: 10, O: 3}
	ok, err := m.Teleport(p, 0, dest)
	assert.T(t, ok)
	assert.Equal(t, nil, err)
	assert.T(t, p.IsTeleporting())
	assert.Equal(t, dest, p.Location)
	assert.Equal(t, []common.GUID{p.GUID}, transport.destroys(1))
	assert.Equal(t, []common.GUID{p.GUID}, transport.destroys(2))
	assert.Equal(t, 0, p.ObserverCount())

	acks := transport.packets(3, proto.MSG_MOVE_TELEPORT_ACK)
	assert.Equal(t, 1, len(acks))
	r := netutil.NewPacketFrom(acks[0].payload)
	r.ReadBytes(8 + 16)
	assert.Equal(t, dest, readVector(r))
	assert.Equal(t, 0, transport.count(3, proto.SMSG_NEW_WORLD))

	// no updates and no reappearance while teleporting
	p.SetHealth(50)
	flushed, _ := m.FlushIfDirty(p)
	assert.T(t, !flushed)
	assert.Equal(t, nil, m.SyncVisibility(a))
	assert.T(t, !a.Visible().Contains(p.GUID))

	// only b and c are around the destination
	grid.setNearby(p, b, c)
	grid.setNearby(a)
	transport.reset()
	assert.Equal(t, nil, m.CompleteTeleport(p))
	assert.T(t, !p.IsTeleporting())
	assert.Equal(t, []common.GUID{p.GUID}, transport.updates(2, proto.UpdateTypeCreateObject))
	assert.Equal(t, 0, len(transport.updates(1, proto.UpdateTypeCreateObject)))
	assert.Equal(t, []common.GUID{a.GUID}, transport.destroys(3))
	assert.Equal(t, []common.GUID{c.GUID}, transport.updates(3, proto.UpdateTypeCreateObject))
	assert.Equal(t, []common.GUID{b.GUID, c.GUID}, p.Visible().GUIDs())
}

func TestTeleportToAnotherMap(t *testing.T) {
	m, grid, transport, _, b, p := newWatchedPlayer(t)
	transport.reset()

	dest := Vector{X: -1, Y: -2, Z: -3, O: 0}
	ok, err := m.Teleport(p, 30, dest)
	assert.T(t, ok)
	assert.Equal(t, nil, err)
	assert.Equal(t, uint32(30), p.MapID)
	assert.Equal(t, 1, transport.count(3, proto.SMSG_TRANSFER_PENDING))
	worlds := transport.packets(3, proto.SMSG_NEW_WORLD)
	assert.Equal(t, 1, len(worlds))
	r := netutil.NewPacketFrom(worlds[0].payload)
	assert.Equal(t, uint8(30), r.ReadOneByte())
	assert.Equal(t, dest, readVector(r))
	assert.Equal(t, 0, transport.count(3, proto.MSG_MOVE_TELEPORT_ACK))

	// b followed to the new map, the client dropped everything it held
	grid.setNearby(p, b)
	grid.setNearby(b, p)
	transport.reset()
	assert.Equal(t, nil, m.CompleteTeleport(p))
	assert.Equal(t, []common.GUID{p.GUID, b.GUID}, transport.updates(3, proto.UpdateTypeCreateObject))
	assert.Equal(t, 0, len(transport.destroys(3)))
	assert.Equal(t, []common.GUID{p.GUID}, transport.updates(2, proto.UpdateTypeCreateObject))
	assert.Equal(t, []common.GUID{b.GUID}, p.Visible().GUIDs())
}

func TestTeleportDestroysOnUntrackedClients(t *testing.T) {
	m, grid, transport := newTestManager()
	p := newTestPlayer(m, 1, "Traveller")
	stranger := newTestPlayer(m, 2, "Stranger")
	loginPlayer(t, m, p)
	loginPlayer(t, m, stranger)
	grid.setNearby(p, stranger)
	transport.reset()

	ok, _ := m.Teleport(p, 0, Vector{})
	assert.T(t, ok)
	assert.Equal(t, []common.GUID{p.GUID}, transport.destroys(2))
}
