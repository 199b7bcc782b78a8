package entity

import (
	"encoding/binary"

	"github.com/Dynat/alpha-core/engine/common"
	"github.com/Dynat/alpha-core/engine/proto"
	"github.com/pkg/errors"
)

// fakeGrid returns exactly the surroundings configured by the test
type fakeGrid struct {
	registered   EntityMap
	nearby       map[common.GUID][]*Entity
	updates      int
	onDeregister func(e *Entity)
}

func newFakeGrid() *fakeGrid {
	return &fakeGrid{
		registered: EntityMap{},
		nearby:     map[common.GUID][]*Entity{},
	}
}

func (g *fakeGrid) Register(e *Entity) {
	g.registered.Add(e)
}

func (g *fakeGrid) Deregister(e *Entity) {
	if g.onDeregister != nil {
		g.onDeregister(e)
	}
	g.registered.Del(e.GUID)
}

func (g *fakeGrid) Update(e *Entity) {
	g.updates++
}

func (g *fakeGrid) Surrounding(e *Entity) Surrounding {
	var s Surrounding
	for _, other := range g.nearby[e.GUID] {
		switch {
		case other.IsUnit() && other.IsPlayer():
			s.Players = append(s.Players, other)
		case other.IsUnit():
			s.Units = append(s.Units, other)
		case other.IsGameObject():
			s.GameObjects = append(s.GameObjects, other)
		}
	}
	return s
}

func (g *fakeGrid) setNearby(e *Entity, others ...*Entity) {
	g.nearby[e.GUID] = others
}

type sentPacket struct {
	conn    common.ConnID
	opcode  proto.Opcode
	payload []byte
}

// updateType returns the update type of an uncompressed SMSG_UPDATE_OBJECT
func (sp sentPacket) updateType() proto.UpdateType {
	return proto.UpdateType(sp.payload[4])
}

// guid returns the object of an update or destroy packet
func (sp sentPacket) guid() common.GUID {
	if sp.opcode == proto.SMSG_DESTROY_OBJECT {
		return common.GUID(binary.LittleEndian.Uint64(sp.payload))
	}
	return common.GUID(binary.LittleEndian.Uint64(sp.payload[5:13]))
}

type recordingTransport struct {
	sent    []sentPacket
	failing map[common.ConnID]bool
}

func newRecordingTransport() *recordingTransport {
	return &recordingTransport{
		failing: map[common.ConnID]bool{},
	}
}

func (t *recordingTransport) Send(conn common.ConnID, data []byte) error {
	if t.failing[conn] {
		return errors.Errorf("connection %d is broken", conn)
	}
	opcode, payload, err := proto.ParsePacket(data)
	if err != nil {
		panic(err)
	}
	t.sent = append(t.sent, sentPacket{conn: conn, opcode: opcode, payload: payload})
	return nil
}

func (t *recordingTransport) reset() {
	t.sent = nil
}

func (t *recordingTransport) packets(conn common.ConnID, opcode proto.Opcode) []sentPacket {
	var list []sentPacket
	for _, sp := range t.sent {
		if sp.conn == conn && sp.opcode == opcode {
			list = append(list, sp)
		}
	}
	return list
}

func (t *recordingTransport) count(conn common.ConnID, opcode proto.Opcode) int {
	return len(t.packets(conn, opcode))
}

// updates returns the guids of the uncompressed updates of the type sent to conn
func (t *recordingTransport) updates(conn common.ConnID, updateType proto.UpdateType) []common.GUID {
	var guids []common.GUID
	for _, sp := range t.packets(conn, proto.SMSG_UPDATE_OBJECT) {
		if sp.updateType() == updateType {
			guids = append(guids, sp.guid())
		}
	}
	return guids
}

func (t *recordingTransport) destroys(conn common.ConnID) []common.GUID {
	var guids []common.GUID
	for _, sp := range t.packets(conn, proto.SMSG_DESTROY_OBJECT) {
		guids = append(guids, sp.guid())
	}
	return guids
}

type mapSet map[uint32]bool

func (ms mapSet) IsValidMap(mapID uint32) bool {
	return ms[mapID]
}

func newTestManager() (*EntityManager, *fakeGrid, *recordingTransport) {
	grid := newFakeGrid()
	transport := newRecordingTransport()
	m := NewEntityManager(Deps{
		Grid:      grid,
		Transport: transport,
		Maps:      mapSet{0: true, 1: true, 30: true},
	}, Options{CompressThreshold: -1})
	return m, grid, transport
}

func newTestPlayer(m *EntityManager, low uint32, name string) *Entity {
	p := NewPlayer(PlayerInfo{
		GUID:  common.MakeGUID(common.HighGuidPlayer, low),
		Name:  name,
		Race:  1,
		Class: 1,
		UnitInfo: UnitInfo{
			Level:     1,
			Health:    100,
			MaxHealth: 100,
			MaxPower:  [4]uint32{50, 0, 0, 0},
			DisplayID: 49,
		},
	})
	p.SetClient(m.MakeClient(common.ConnID(low)))
	return p
}

func newTestCreature(low uint32) *Entity {
	return NewCreature(CreatureInfo{
		GUID:  common.MakeGUID(common.HighGuidUnit, low),
		Entry: 100 + low,
		Name:  "Timber Wolf",
		UnitInfo: UnitInfo{
			Level:     2,
			Health:    50,
			MaxHealth: 50,
			DisplayID: 903,
		},
	})
}

func newTestGameObject(low uint32) *Entity {
	return NewGameObject(GameObjectInfo{
		GUID:      common.MakeGUID(common.HighGuidGameObject, low),
		Entry:     200 + low,
		Name:      "Mailbox",
		Type:      19,
		DisplayID: 3051,
	})
}
