package world

import (
	"encoding/binary"
	"encoding/json"
	"testing"
	"time"

	"github.com/Dynat/alpha-core/engine/common"
	"github.com/Dynat/alpha-core/engine/config"
	"github.com/Dynat/alpha-core/engine/entity"
	"github.com/Dynat/alpha-core/engine/guild"
	"github.com/Dynat/alpha-core/engine/gwvar"
	"github.com/Dynat/alpha-core/engine/proto"
	"github.com/Dynat/alpha-core/engine/storage"
	uf "github.com/Dynat/alpha-core/engine/updatefields"
	"github.com/bmizerany/assert"
)

type recordingTransport map[common.ConnID][]proto.Opcode

func (rt recordingTransport) Send(conn common.ConnID, data []byte) error {
	opcode, _, err := proto.ParsePacket(data)
	if err != nil {
		return err
	}
	rt[conn] = append(rt[conn], opcode)
	return nil
}

func (rt recordingTransport) count(conn common.ConnID, opcode proto.Opcode) int {
	n := 0
	for _, op := range rt[conn] {
		if op == opcode {
			n++
		}
	}
	return n
}

// memStorage keeps JSON encoded snapshots and calls back synchronously
type memStorage struct {
	data  map[common.GUID][]byte
	saves int
}

func (ms *memStorage) Save(guid common.GUID, data map[string]interface{}, callback storage.SaveCallbackFunc) {
	b, err := json.Marshal(data)
	if err != nil {
		panic(err)
	}
	ms.data[guid] = b
	ms.saves++
	if callback != nil {
		callback()
	}
}

func (ms *memStorage) Load(guid common.GUID, callback storage.LoadCallbackFunc) {
	b, ok := ms.data[guid]
	if !ok {
		callback(nil, nil)
		return
	}
	var data map[string]interface{}
	err := json.Unmarshal(b, &data)
	callback(data, err)
}

func (ms *memStorage) load(t *testing.T, guid common.GUID) entity.PlayerInfo {
	var data map[string]interface{}
	if err := json.Unmarshal(ms.data[guid], &data); err != nil {
		t.Fatal(err)
	}
	info, err := entity.LoadPlayerInfo(data)
	if err != nil {
		t.Fatal(err)
	}
	return info
}

func testConfig() *config.AlphaCoreConfig {
	return &config.AlphaCoreConfig{
		World: config.WorldConfig{
			TickInterval:      10 * time.Millisecond,
			AOIDistance:       100,
			XPRate:            1,
			MaxLevel:          25,
			CompressThreshold: -1,
		},
		UnitDefaults: config.UnitDefaultsConfig{
			WalkSpeed:      2.5,
			RunSpeed:       7,
			SwimSpeed:      4.72,
			TurnRate:       3.141594,
			BoundingRadius: 0.389,
			CombatReach:    1.5,
		},
		Maps: config.MapsConfig{
			Maps: map[uint32]config.MapInfo{0: {ID: 0}, 1: {ID: 1}},
		},
	}
}

func newTestWorld() (*World, recordingTransport, *memStorage) {
	rt := recordingTransport{}
	ms := &memStorage{data: map[common.GUID][]byte{}}
	return New(testConfig(), Deps{Transport: rt, Storage: ms}), rt, ms
}

func playerInfo(low uint32, name string, x float32) entity.PlayerInfo {
	return entity.PlayerInfo{
		GUID:     common.MakeGUID(common.HighGuidPlayer, low),
		Name:     name,
		Location: entity.Vector{X: x},
		UnitInfo: entity.UnitInfo{Level: 1, Health: 100, MaxHealth: 100},
	}
}

func login(t *testing.T, w *World, low uint32, name string, x float32) *entity.Entity {
	player, err := w.LoginPlayer(playerInfo(low, name, x), common.ConnID(low))
	if err != nil {
		t.Fatal(err)
	}
	return player
}

func TestLoginLogout(t *testing.T) {
	w, rt, ms := newTestWorld()
	alice := login(t, w, 1, "Alice", 0)
	bob := login(t, w, 2, "Bob", 10)
	w.Tick()
	assert.Equal(t, int64(2), gwvar.OnlinePlayers.Value())

	assert.T(t, alice.Visible().Contains(bob.GUID))
	assert.T(t, bob.Visible().Contains(alice.GUID))
	assert.Equal(t, alice, w.PlayerOf(1))
	assert.Equal(t, float32(0.389), alice.Fields.Float32(uf.UNIT_FIELD_BOUNDINGRADIUS))

	_, err := w.LoginPlayer(playerInfo(2, "Bob", 10), 3)
	assert.T(t, err != nil)

	assert.Equal(t, nil, w.LogoutPlayer(bob.GUID))
	assert.Equal(t, 1, rt.count(1, proto.SMSG_DESTROY_OBJECT))
	assert.T(t, !alice.Visible().Contains(bob.GUID))
	assert.T(t, w.PlayerOf(2) == nil)
	assert.Equal(t, "Bob", ms.load(t, bob.GUID).Name)
	assert.T(t, w.LogoutPlayer(bob.GUID) != nil)
}

func TestCreatureCorpseDecay(t *testing.T) {
	w, rt, _ := newTestWorld()
	w.corpseDecay = time.Millisecond
	alice := login(t, w, 1, "Alice", 0)

	creature, err := w.SpawnCreature(entity.CreatureInfo{
		Entry:    6,
		Name:     "Kobold Vermin",
		Location: entity.Vector{X: 5},
		UnitInfo: entity.UnitInfo{Level: 1, Health: 50, MaxHealth: 50},
	})
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, common.MakeGUID(common.HighGuidUnit, 1), creature.GUID)
	assert.T(t, alice.Visible().Contains(creature.GUID))

	assert.T(t, w.KillUnit(creature))
	assert.T(t, !w.KillUnit(creature))
	w.Tick()
	assert.T(t, !creature.IsDirty())

	time.Sleep(10 * time.Millisecond)
	w.Tick()
	assert.T(t, w.Entities.Get(creature.GUID) == nil)
	assert.T(t, !alice.Visible().Contains(creature.GUID))
	assert.Equal(t, 1, rt.count(1, proto.SMSG_DESTROY_OBJECT))
}

func TestSpawnErrors(t *testing.T) {
	w, _, _ := newTestWorld()
	alice := login(t, w, 1, "Alice", 0)

	_, err := w.SpawnCreature(entity.CreatureInfo{MapID: 30, UnitInfo: entity.UnitInfo{Health: 1}})
	assert.T(t, err != nil)
	_, err = w.SpawnGameObject(entity.GameObjectInfo{MapID: 30})
	assert.T(t, err != nil)

	chest, err := w.SpawnGameObject(entity.GameObjectInfo{Entry: 2843, Name: "Chest", Location: entity.Vector{Y: 3}})
	if err != nil {
		t.Fatal(err)
	}
	_, err = w.SpawnGameObject(entity.GameObjectInfo{GUID: chest.GUID})
	assert.T(t, err != nil)
	assert.T(t, alice.Visible().Contains(chest.GUID))

	assert.T(t, w.Despawn(alice.GUID) != nil)
	assert.Equal(t, nil, w.Despawn(chest.GUID))
	assert.T(t, w.Despawn(chest.GUID) != nil)

	ok, err := w.TeleportPlayer(alice.GUID, 30, entity.Vector{})
	assert.Equal(t, nil, err)
	assert.T(t, !ok)
}

func TestSpawnSkipsExplicitGUIDs(t *testing.T) {
	w, _, _ := newTestWorld()
	alice := login(t, w, 1, "Alice", 0)

	unit := entity.UnitInfo{Level: 1, Health: 10, MaxHealth: 10}
	first, err := w.SpawnCreature(entity.CreatureInfo{GUID: common.MakeGUID(common.HighGuidUnit, 1), Name: "Kobold", UnitInfo: unit})
	if err != nil {
		t.Fatal(err)
	}
	second, err := w.SpawnCreature(entity.CreatureInfo{Name: "Wolf", Location: entity.Vector{X: 2}, UnitInfo: unit})
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, common.MakeGUID(common.HighGuidUnit, 2), second.GUID)
	assert.Equal(t, first, w.Entities.Get(first.GUID))
	assert.Equal(t, second, w.Entities.Get(second.GUID))
	assert.T(t, alice.Visible().Contains(first.GUID) && alice.Visible().Contains(second.GUID))

	// an explicit GUID above the counter moves it forward
	far, err := w.SpawnCreature(entity.CreatureInfo{GUID: common.MakeGUID(common.HighGuidUnit, 9), Name: "Bear", UnitInfo: unit})
	if err != nil {
		t.Fatal(err)
	}
	next, err := w.SpawnCreature(entity.CreatureInfo{Name: "Boar", UnitInfo: unit})
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, common.MakeGUID(common.HighGuidUnit, 10), next.GUID)
	assert.Equal(t, far, w.Entities.Get(far.GUID))
}

func TestSpiritRelease(t *testing.T) {
	w, rt, _ := newTestWorld()
	w.spiritRelease = time.Millisecond
	info := playerInfo(1, "Alice", 0)
	info.Power = [4]uint32{80, 100, 60, 40}
	info.MaxPower = [4]uint32{80, 100, 60, 40}
	alice, err := w.LoginPlayer(info, 1)
	if err != nil {
		t.Fatal(err)
	}

	var ok bool
	ok, err = w.TeleportPlayer(alice.GUID, 0, entity.Vector{X: 40})
	assert.Equal(t, nil, err)
	assert.T(t, ok)
	w.handlePacket(1, proto.MSG_MOVE_TELEPORT_ACK, nil)
	assert.T(t, !alice.IsTeleporting())

	assert.T(t, w.KillUnit(alice))
	w.Tick()
	assert.T(t, !alice.IsAlive())

	time.Sleep(10 * time.Millisecond)
	w.Tick()
	assert.T(t, alice.IsAlive())
	assert.Equal(t, uint32(50), alice.Health())
	assert.Equal(t, uint32(40), alice.Power(0))
	assert.Equal(t, uint32(0), alice.Power(1))
	assert.Equal(t, uint32(30), alice.Power(2))
	assert.Equal(t, uint32(20), alice.Power(3))
	assert.T(t, alice.IsTeleporting())
	assert.Equal(t, entity.Vector{}, alice.Location)
	assert.Equal(t, 2, rt.count(1, proto.MSG_MOVE_TELEPORT_ACK))

	w.handlePacket(1, proto.MSG_MOVE_TELEPORT_ACK, nil)
	assert.T(t, !alice.IsTeleporting())
}

func TestRepopRequest(t *testing.T) {
	w, _, _ := newTestWorld()
	alice := login(t, w, 1, "Alice", 0)
	w.KillUnit(alice)
	w.handlePacket(1, proto.CMSG_REPOP_REQUEST, nil)
	assert.T(t, alice.IsAlive())
	assert.Equal(t, 0, len(w.timers))
}

func loginPacket(guid common.GUID) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, uint64(guid))
	return b
}

func cstring(s string) []byte {
	return append([]byte(s), 0)
}

func TestPacketLoginAndGuild(t *testing.T) {
	w, rt, ms := newTestWorld()
	for i, name := range []string{"Alice", "Bob"} {
		info := playerInfo(uint32(i+1), name, float32(i))
		ms.Save(info.GUID, entity.NewPlayer(info).PersistentData(), nil)
	}

	w.handlePacket(1, proto.CMSG_GUILD_ACCEPT, nil)
	w.handlePacket(1, proto.CMSG_PLAYER_LOGIN, loginPacket(1))
	w.handlePacket(2, proto.CMSG_PLAYER_LOGIN, loginPacket(2))
	w.handlePacket(3, proto.CMSG_PLAYER_LOGIN, loginPacket(9))
	w.handlePacket(3, proto.CMSG_PLAYER_LOGIN, []byte{1, 2})
	alice, bob := w.PlayerOf(1), w.PlayerOf(2)
	assert.T(t, alice != nil && bob != nil)
	assert.T(t, w.PlayerOf(3) == nil)
	assert.Equal(t, "Bob", bob.Name)

	g, err := w.Guilds.Create(alice, "Alpha")
	if err != nil {
		t.Fatal(err)
	}
	w.handlePacket(1, proto.CMSG_GUILD_INVITE, cstring("Bob"))
	assert.Equal(t, 1, rt.count(2, proto.SMSG_GUILD_INVITE))
	w.handlePacket(2, proto.CMSG_GUILD_ACCEPT, nil)
	w.handlePacket(1, proto.CMSG_GUILD_PROMOTE, cstring("Bob"))
	assert.Equal(t, guild.RankMember, bob.GuildRank())
	w.handlePacket(1, proto.CMSG_GUILD_PROMOTE, cstring("  Bob "))
	assert.Equal(t, guild.RankVeteran, bob.GuildRank())
	w.Tick()
	assert.T(t, !bob.IsDirty())

	w.handlePacket(2, proto.CMSG_LOGOUT_REQUEST, nil)
	assert.Equal(t, 1, rt.count(2, proto.SMSG_LOGOUT_COMPLETE))
	assert.T(t, w.PlayerOf(2) == nil)
	saved := ms.load(t, bob.GUID)
	assert.Equal(t, g.ID, saved.GuildID)

	w.handlePacket(2, proto.CMSG_PLAYER_LOGIN, loginPacket(2))
	bob = w.PlayerOf(2)
	assert.Equal(t, g.ID, bob.GuildID())
	assert.Equal(t, guild.RankVeteran, bob.GuildRank())
}

func TestGuildDroppedWhenUnknown(t *testing.T) {
	w, _, _ := newTestWorld()
	info := playerInfo(1, "Alice", 0)
	info.GuildID, info.GuildRank = 7, 2
	alice, err := w.LoginPlayer(info, 1)
	assert.Equal(t, nil, err)
	assert.Equal(t, uint32(0), alice.GuildID())
	assert.Equal(t, uint32(0), alice.GuildRank())
}

func TestStopSavesPlayers(t *testing.T) {
	w, _, ms := newTestWorld()
	login(t, w, 1, "Alice", 0)
	login(t, w, 2, "Bob", 1)
	w.SpawnCreature(entity.CreatureInfo{UnitInfo: entity.UnitInfo{Health: 1, MaxHealth: 1}})
	w.SaveAll()
	assert.Equal(t, 2, ms.saves)

	w.Stop()
	assert.Equal(t, 4, ms.saves)
	assert.Equal(t, 0, w.Entities.Count())
	assert.Equal(t, 0, w.Grid.Count())
}

func TestRunUntilTerminate(t *testing.T) {
	w, _, _ := newTestWorld()
	alice := login(t, w, 1, "Alice", 0)
	alice.SetLevel(2)

	done := make(chan struct{})
	go func() {
		w.Run()
		close(done)
	}()
	time.Sleep(50 * time.Millisecond)
	w.Terminate()
	w.Terminate()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("Run did not return")
	}
	assert.T(t, !alice.IsOnline())
}
