package entity

import (
	"github.com/Dynat/alpha-core/engine/common"
	"github.com/Dynat/alpha-core/engine/gwlog"
	"github.com/Dynat/alpha-core/engine/proto"
	uf "github.com/Dynat/alpha-core/engine/updatefields"
	"github.com/pkg/errors"
	"github.com/xiaonanln/typeconv"
)

// PlayerState is the player capability of an entity
type PlayerState struct {
	AccountID uint32
	Race      uint8
	Class     uint8
	Gender    uint8
	Online    bool
}

// PlayerInfo is what a player is constructed from, usually a character loaded from storage
type PlayerInfo struct {
	GUID       common.GUID
	AccountID  uint32
	Name       string
	Race       uint8
	Class      uint8
	Gender     uint8
	Skin       uint8
	Face       uint8
	HairStyle  uint8
	HairColor  uint8
	FacialHair uint8
	XP         uint32
	Location   Vector
	MapID      uint32
	ZoneID     uint32
	GuildID    uint32
	GuildRank  uint32
	UnitInfo
}

// NewPlayer creates an inactive player, it becomes visible with EntityManager.CompleteLogin
func NewPlayer(info PlayerInfo) *Entity {
	e := newEntity(info.GUID, 0, NewTags(proto.ObjectTypePlayer))
	e.Name = info.Name
	e.Location = info.Location
	e.MapID = info.MapID
	e.ZoneID = info.ZoneID
	if info.Level == 0 {
		info.Level = 1
	}
	e.initUnit(&info.UnitInfo)
	e.Player = &PlayerState{
		AccountID: info.AccountID,
		Race:      info.Race,
		Class:     info.Class,
		Gender:    info.Gender,
	}
	e.visible = newVisibilitySet(e)

	ft := e.Fields
	ft.SetByte(uf.UNIT_FIELD_BYTES_0, 0, info.Race)
	ft.SetByte(uf.UNIT_FIELD_BYTES_0, 1, info.Class)
	ft.SetByte(uf.UNIT_FIELD_BYTES_0, 2, info.Gender)
	ft.SetByte(uf.PLAYER_BYTES, 0, info.Skin)
	ft.SetByte(uf.PLAYER_BYTES, 1, info.Face)
	ft.SetByte(uf.PLAYER_BYTES, 2, info.HairStyle)
	ft.SetByte(uf.PLAYER_BYTES, 3, info.HairColor)
	ft.SetByte(uf.PLAYER_BYTES_2, 0, info.FacialHair)
	ft.SetUint32(uf.PLAYER_XP, info.XP)
	ft.SetUint32(uf.PLAYER_NEXT_LEVEL_XP, XPToNextLevel(info.Level))
	ft.SetUint32(uf.PLAYER_GUILDID, info.GuildID)
	ft.SetUint32(uf.PLAYER_GUILDRANK, info.GuildRank)
	ft.SetUint32(uf.PLAYER_FIELD_NUM_INV_SLOTS, uf.PLAYER_INV_SLOT_COUNT)
	ft.ClearDirty()
	return e
}

// IsOnline returns if the player finished login and has not logged out
func (e *Entity) IsOnline() bool {
	return e.Player != nil && e.Player.Online
}

// XP returns the experience of the current level
func (e *Entity) XP() uint32 {
	return e.Fields.Uint32(uf.PLAYER_XP)
}

// GuildID returns the guild of the player, 0 if none
func (e *Entity) GuildID() uint32 {
	return e.Fields.Uint32(uf.PLAYER_GUILDID)
}

// GuildRank returns the guild rank of the player
func (e *Entity) GuildRank() uint32 {
	return e.Fields.Uint32(uf.PLAYER_GUILDRANK)
}

// SetGuild sets guild and rank of the player
func (e *Entity) SetGuild(guildID uint32, rank uint32) {
	e.mustPlayer("SetGuild")
	e.Fields.SetUint32(uf.PLAYER_GUILDID, guildID)
	e.Fields.SetUint32(uf.PLAYER_GUILDRANK, rank)
}

// SetGuildRank changes the guild rank of the player
func (e *Entity) SetGuildRank(rank uint32) {
	e.mustPlayer("SetGuildRank")
	e.Fields.SetUint32(uf.PLAYER_GUILDRANK, rank)
}

// SetSelection sets the selected object of the player
func (e *Entity) SetSelection(target common.GUID) {
	e.mustPlayer("SetSelection")
	e.Fields.SetUint64(uf.PLAYER_SELECTION, uint64(target))
}

// Coinage returns the money of the unit
func (e *Entity) Coinage() uint32 {
	return e.Fields.Uint32(uf.UNIT_FIELD_COINAGE)
}

// ModifyCoinage adds delta to the money of the player, it fails if the result is negative
func (e *Entity) ModifyCoinage(delta int32) bool {
	e.mustPlayer("ModifyCoinage")
	v := int64(e.Coinage()) + int64(delta)
	if v < 0 {
		return false
	}
	e.Fields.SetUint32(uf.UNIT_FIELD_COINAGE, uint32(v))
	return true
}

func (e *Entity) mustPlayer(op string) {
	if e.Player == nil {
		gwlog.Panicf("%s: %s requires a player", e, op)
	}
}

// XPToNextLevel returns the experience needed to advance from level to level+1
func XPToNextLevel(level uint32) uint32 {
	l := level
	var diff uint32
	switch {
	case l < 29:
		diff = 0
	case l == 29:
		diff = 1
	case l == 30:
		diff = 3
	case l == 31:
		diff = 6
	default:
		diff = 5 * (l - 30)
	}
	return (8*l + diff) * (45 + 5*l)
}

// PersistentData returns the attributes of the player that are saved to storage
func (e *Entity) PersistentData() map[string]interface{} {
	e.mustPlayer("PersistentData")
	ft := e.Fields
	return map[string]interface{}{
		"guid":        uint64(e.GUID),
		"account":     e.Player.AccountID,
		"name":        e.Name,
		"race":        e.Player.Race,
		"class":       e.Player.Class,
		"gender":      e.Player.Gender,
		"skin":        ft.Byte(uf.PLAYER_BYTES, 0),
		"face":        ft.Byte(uf.PLAYER_BYTES, 1),
		"hair_style":  ft.Byte(uf.PLAYER_BYTES, 2),
		"hair_color":  ft.Byte(uf.PLAYER_BYTES, 3),
		"facial_hair": ft.Byte(uf.PLAYER_BYTES_2, 0),
		"level":       e.Level(),
		"xp":          e.XP(),
		"health":      e.Health(),
		"max_health":  e.MaxHealth(),
		"power_type":  ft.Byte(uf.UNIT_FIELD_BYTES_0, 3),
		"power":       ft.Uint32(uf.UNIT_FIELD_POWER1 + int(ft.Byte(uf.UNIT_FIELD_BYTES_0, 3))),
		"max_power":   ft.Uint32(uf.UNIT_FIELD_MAXPOWER1 + int(ft.Byte(uf.UNIT_FIELD_BYTES_0, 3))),
		"faction":     ft.Uint32(uf.UNIT_FIELD_FACTIONTEMPLATE),
		"display_id":  e.DisplayID(),
		"coinage":     e.Coinage(),
		"guild_id":    e.GuildID(),
		"guild_rank":  e.GuildRank(),
		"map":         e.MapID,
		"zone":        e.ZoneID,
		"x":           e.Location.X,
		"y":           e.Location.Y,
		"z":           e.Location.Z,
		"o":           e.Location.O,
	}
}

// LoadPlayerInfo restores a PlayerInfo from data saved by PersistentData.
//
// Numbers may come back as any numeric type depending on the storage encoding.
func LoadPlayerInfo(data map[string]interface{}) (info PlayerInfo, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("load player info failed: %v", r)
		}
	}()

	name, ok := data["name"].(string)
	if !ok || name == "" {
		return info, errors.Errorf("load player info failed: bad name %v", data["name"])
	}
	guid := common.GUID(typeconv.Int(data["guid"]))
	if guid.IsNil() {
		return info, errors.Errorf("load player info failed: player %s has no guid", name)
	}

	u32 := func(key string) uint32 {
		return uint32(typeconv.Int(data[key]))
	}
	u8 := func(key string) uint8 {
		return uint8(typeconv.Int(data[key]))
	}
	f32 := func(key string) float32 {
		switch v := data[key].(type) {
		case float32:
			return v
		case float64:
			return float32(v)
		default:
			return float32(typeconv.Int(v))
		}
	}

	info = PlayerInfo{
		GUID:       guid,
		AccountID:  u32("account"),
		Name:       name,
		Race:       u8("race"),
		Class:      u8("class"),
		Gender:     u8("gender"),
		Skin:       u8("skin"),
		Face:       u8("face"),
		HairStyle:  u8("hair_style"),
		HairColor:  u8("hair_color"),
		FacialHair: u8("facial_hair"),
		XP:         u32("xp"),
		Location:   Vector{X: f32("x"), Y: f32("y"), Z: f32("z"), O: f32("o")},
		MapID:      u32("map"),
		ZoneID:     u32("zone"),
		GuildID:    u32("guild_id"),
		GuildRank:  u32("guild_rank"),
	}
	info.Level = u32("level")
	info.Health = u32("health")
	info.MaxHealth = u32("max_health")
	info.PowerType = u8("power_type")
	if info.PowerType < 4 {
		info.Power[info.PowerType] = u32("power")
		info.MaxPower[info.PowerType] = u32("max_power")
	}
	info.Faction = u32("faction")
	info.DisplayID = u32("display_id")
	info.Coinage = u32("coinage")
	info.Scale = 1
	return info, nil
}
