package entity

import (
	"github.com/Dynat/alpha-core/engine/common"
	"github.com/Dynat/alpha-core/engine/gwlog"
	"github.com/Dynat/alpha-core/engine/proto"
	uf "github.com/Dynat/alpha-core/engine/updatefields"
)

// Unit flags
const (
	UNIT_FLAG_NOT_SELECTABLE = 0x00000002
	UNIT_FLAG_IN_COMBAT      = 0x00000800
	UNIT_FLAG_MOUNT          = 0x00002000
	UNIT_FLAG_DEAD           = 0x00004000
)

// Unit dynamic flags
const (
	UNIT_DYNAMIC_LOOTABLE = 0x0001
	UNIT_DYNAMIC_DEAD     = 0x0020
)

// Power types, stored in byte 3 of UNIT_FIELD_BYTES_0
const (
	PowerMana   uint8 = 0
	PowerRage   uint8 = 1
	PowerFocus  uint8 = 2
	PowerEnergy uint8 = 3
)

// UnitState is the unit capability of an entity
type UnitState struct {
	IsAlive      bool
	CombatTarget common.GUID
	StandState   uint8
	RespawnAt    Vector
}

// UnitInfo is what a unit is constructed from
type UnitInfo struct {
	Level          uint32
	Health         uint32
	MaxHealth      uint32
	Power          [4]uint32
	MaxPower       [4]uint32
	PowerType      uint8
	Faction        uint32
	DisplayID      uint32
	Scale          float32
	BoundingRadius float32
	CombatReach    float32
	BaseAttackTime uint32
	UnitFlags      uint32
	Coinage        uint32
	Resistances    [6]int32
	Stats          [5]uint32
}

// CreatureInfo is what a creature is constructed from, usually a spawn row joined with its template
type CreatureInfo struct {
	GUID     common.GUID
	Entry    uint32
	Name     string
	Location Vector
	MapID    uint32
	ZoneID   uint32
	UnitInfo
}

// NewCreature creates an inactive creature
func NewCreature(info CreatureInfo) *Entity {
	e := newEntity(info.GUID, info.Entry, NewTags(proto.ObjectTypeUnit))
	e.Name = info.Name
	e.Location = info.Location
	e.MapID = info.MapID
	e.ZoneID = info.ZoneID
	e.initUnit(&info.UnitInfo)
	e.Unit.RespawnAt = info.Location
	e.Fields.ClearDirty()
	return e
}

func (e *Entity) initUnit(info *UnitInfo) {
	e.Unit = &UnitState{IsAlive: info.Health > 0}
	ft := e.Fields
	if info.Scale > 0 {
		ft.SetFloat32(uf.OBJECT_FIELD_SCALE_X, info.Scale)
	}
	ft.SetUint32(uf.UNIT_FIELD_HEALTH, info.Health)
	ft.SetUint32(uf.UNIT_FIELD_MAXHEALTH, info.MaxHealth)
	for i := 0; i < 4; i++ {
		ft.SetUint32(uf.UNIT_FIELD_POWER1+i, info.Power[i])
		ft.SetUint32(uf.UNIT_FIELD_MAXPOWER1+i, info.MaxPower[i])
	}
	ft.SetUint32(uf.UNIT_FIELD_LEVEL, info.Level)
	ft.SetUint32(uf.UNIT_FIELD_FACTIONTEMPLATE, info.Faction)
	ft.SetByte(uf.UNIT_FIELD_BYTES_0, 3, info.PowerType)
	for i, stat := range info.Stats {
		ft.SetUint32(uf.UNIT_FIELD_STAT0+i, stat)
		ft.SetUint32(uf.UNIT_FIELD_BASESTAT0+i, stat)
	}
	ft.SetUint32(uf.UNIT_FIELD_FLAGS, info.UnitFlags)
	ft.SetUint32(uf.UNIT_FIELD_COINAGE, info.Coinage)
	ft.SetUint32(uf.UNIT_FIELD_BASEATTACKTIME, info.BaseAttackTime)
	ft.SetUint32(uf.UNIT_FIELD_BASEATTACKTIME+1, info.BaseAttackTime)
	ft.SetFloat32(uf.UNIT_FIELD_BOUNDINGRADIUS, info.BoundingRadius)
	ft.SetFloat32(uf.UNIT_FIELD_COMBATREACH, info.CombatReach)
	ft.SetFloat32(uf.UNIT_FIELD_WEAPONREACH, 0)
	ft.SetUint32(uf.UNIT_FIELD_DISPLAYID, info.DisplayID)
	for i, r := range info.Resistances {
		ft.SetInt32(uf.UNIT_FIELD_RESISTANCES+i, r)
	}
	ft.SetFloat32(uf.UNIT_MOD_CAST_SPEED, 1)
	if !e.Unit.IsAlive {
		ft.SetFlag(uf.UNIT_DYNAMIC_FLAGS, UNIT_DYNAMIC_DEAD)
	}
}

func (e *Entity) mustUnit(op string) {
	if e.Unit == nil {
		gwlog.Panicf("%s: %s requires a unit", e, op)
	}
}

// Health returns the current health
func (e *Entity) Health() uint32 {
	return e.Fields.Uint32(uf.UNIT_FIELD_HEALTH)
}

// MaxHealth returns the maximum health
func (e *Entity) MaxHealth() uint32 {
	return e.Fields.Uint32(uf.UNIT_FIELD_MAXHEALTH)
}

// SetHealth sets the current health, capped by the maximum health
func (e *Entity) SetHealth(health uint32) {
	e.mustUnit("SetHealth")
	if max := e.MaxHealth(); health > max {
		health = max
	}
	e.Fields.SetUint32(uf.UNIT_FIELD_HEALTH, health)
}

// SetMaxHealth sets the maximum health
func (e *Entity) SetMaxHealth(health uint32) {
	e.mustUnit("SetMaxHealth")
	e.Fields.SetUint32(uf.UNIT_FIELD_MAXHEALTH, health)
}

// Power returns the current value of power slot 0..3
func (e *Entity) Power(slot int) uint32 {
	return e.Fields.Uint32(uf.UNIT_FIELD_POWER1 + slot)
}

// MaxPower returns the maximum of power slot 0..3
func (e *Entity) MaxPower(slot int) uint32 {
	return e.Fields.Uint32(uf.UNIT_FIELD_MAXPOWER1 + slot)
}

// SetPower sets the current value of power slot 0..3, capped by its maximum
func (e *Entity) SetPower(slot int, v uint32) {
	e.mustUnit("SetPower")
	if max := e.Fields.Uint32(uf.UNIT_FIELD_MAXPOWER1 + slot); v > max {
		v = max
	}
	e.Fields.SetUint32(uf.UNIT_FIELD_POWER1+slot, v)
}

// Level returns the unit level
func (e *Entity) Level() uint32 {
	return e.Fields.Uint32(uf.UNIT_FIELD_LEVEL)
}

// SetLevel sets the unit level
func (e *Entity) SetLevel(level uint32) {
	e.mustUnit("SetLevel")
	e.Fields.SetUint32(uf.UNIT_FIELD_LEVEL, level)
}

// DisplayID returns the model id
func (e *Entity) DisplayID() uint32 {
	return e.Fields.Uint32(uf.UNIT_FIELD_DISPLAYID)
}

// SetDisplayID changes the model
func (e *Entity) SetDisplayID(displayID uint32) {
	e.mustUnit("SetDisplayID")
	e.Fields.SetUint32(uf.UNIT_FIELD_DISPLAYID, displayID)
}

// SetFaction sets the faction template
func (e *Entity) SetFaction(faction uint32) {
	e.mustUnit("SetFaction")
	e.Fields.SetUint32(uf.UNIT_FIELD_FACTIONTEMPLATE, faction)
}

// SetTarget sets the current combat target
func (e *Entity) SetTarget(target common.GUID) {
	e.mustUnit("SetTarget")
	e.Unit.CombatTarget = target
	e.Fields.SetUint64(uf.UNIT_FIELD_TARGET, uint64(target))
}

// SetStandState sets the stand state, stored in byte 0 of UNIT_FIELD_BYTES_1
func (e *Entity) SetStandState(state uint8) {
	e.mustUnit("SetStandState")
	e.Unit.StandState = state
	e.Fields.SetByte(uf.UNIT_FIELD_BYTES_1, 0, state)
}

// IsMounted returns if the unit is mounted
func (e *Entity) IsMounted() bool {
	return e.Unit != nil && e.Fields.HasFlag(uf.UNIT_FIELD_FLAGS, UNIT_FLAG_MOUNT)
}

// Mount mounts the unit on the model
func (e *Entity) Mount(mountDisplayID uint32) {
	e.mustUnit("Mount")
	e.Fields.SetUint32(uf.UNIT_FIELD_MOUNTDISPLAYID, mountDisplayID)
	e.Fields.SetFlag(uf.UNIT_FIELD_FLAGS, UNIT_FLAG_MOUNT)
}

// Unmount dismounts the unit
func (e *Entity) Unmount() {
	e.mustUnit("Unmount")
	e.Fields.SetUint32(uf.UNIT_FIELD_MOUNTDISPLAYID, 0)
	e.Fields.RemoveFlag(uf.UNIT_FIELD_FLAGS, UNIT_FLAG_MOUNT)
}

// IsAlive returns if the unit is alive, entities without the unit capability are never alive
func (e *Entity) IsAlive() bool {
	return e.Unit != nil && e.Unit.IsAlive
}

// Die kills the unit, it returns false if the unit was already dead
func (e *Entity) Die() bool {
	e.mustUnit("Die")
	if !e.Unit.IsAlive {
		return false
	}
	e.Unit.IsAlive = false
	if e.IsMounted() {
		e.Unmount()
	}
	e.SetTarget(0)
	e.Fields.SetUint32(uf.UNIT_FIELD_HEALTH, 0)
	e.Fields.RemoveFlag(uf.UNIT_FIELD_FLAGS, UNIT_FLAG_IN_COMBAT)
	e.Fields.SetFlag(uf.UNIT_DYNAMIC_FLAGS, UNIT_DYNAMIC_DEAD)
	return true
}

// Respawn revives the unit with full health and power, it returns false if the unit was alive
func (e *Entity) Respawn() bool {
	e.mustUnit("Respawn")
	if e.Unit.IsAlive {
		return false
	}
	e.Unit.IsAlive = true
	e.Fields.SetUint32(uf.UNIT_FIELD_HEALTH, e.MaxHealth())
	for i := 0; i < 4; i++ {
		e.Fields.SetUint32(uf.UNIT_FIELD_POWER1+i, e.Fields.Uint32(uf.UNIT_FIELD_MAXPOWER1+i))
	}
	e.Fields.RemoveFlag(uf.UNIT_DYNAMIC_FLAGS, UNIT_DYNAMIC_DEAD|UNIT_DYNAMIC_LOOTABLE)
	return true
}

// ReviveAtHalf revives a dead unit with half of its health, mana, focus and energy and no rage
func (e *Entity) ReviveAtHalf() bool {
	if !e.Respawn() {
		return false
	}
	e.SetHealth(e.MaxHealth() / 2)
	for slot := 0; slot < 4; slot++ {
		if slot == int(PowerRage) {
			e.SetPower(slot, 0)
		} else {
			e.SetPower(slot, e.MaxPower(slot)/2)
		}
	}
	return true
}
