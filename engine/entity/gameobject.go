package entity

import (
	"github.com/Dynat/alpha-core/engine/common"
	"github.com/Dynat/alpha-core/engine/proto"
	uf "github.com/Dynat/alpha-core/engine/updatefields"
)

// Game object states
const (
	GameObjectStateActive uint32 = 0
	GameObjectStateReady  uint32 = 1
)

// GameObjectState is the game object capability of an entity
type GameObjectState struct {
	Type uint32
}

// GameObjectInfo is what a game object is constructed from
type GameObjectInfo struct {
	GUID      common.GUID
	Entry     uint32
	Name      string
	Type      uint32
	DisplayID uint32
	Flags     uint32
	Faction   uint32
	Level     uint32
	State     uint32
	Scale     float32
	Rotation  [4]float32
	Location  Vector
	MapID     uint32
	ZoneID    uint32
}

// NewGameObject creates an inactive game object
func NewGameObject(info GameObjectInfo) *Entity {
	e := newEntity(info.GUID, info.Entry, NewTags(proto.ObjectTypeGameObject))
	e.Name = info.Name
	e.Location = info.Location
	e.MapID = info.MapID
	e.ZoneID = info.ZoneID
	e.GameObject = &GameObjectState{Type: info.Type}

	ft := e.Fields
	if info.Scale > 0 {
		ft.SetFloat32(uf.OBJECT_FIELD_SCALE_X, info.Scale)
	}
	ft.SetUint32(uf.GAMEOBJECT_DISPLAYID, info.DisplayID)
	ft.SetUint32(uf.GAMEOBJECT_FLAGS, info.Flags)
	for i, r := range info.Rotation {
		ft.SetFloat32(uf.GAMEOBJECT_ROTATION+i, r)
	}
	ft.SetUint32(uf.GAMEOBJECT_STATE, info.State)
	ft.SetFloat32(uf.GAMEOBJECT_POS_X, info.Location.X)
	ft.SetFloat32(uf.GAMEOBJECT_POS_Y, info.Location.Y)
	ft.SetFloat32(uf.GAMEOBJECT_POS_Z, info.Location.Z)
	ft.SetFloat32(uf.GAMEOBJECT_FACING, info.Location.O)
	ft.SetUint32(uf.GAMEOBJECT_FACTION, info.Faction)
	ft.SetUint32(uf.GAMEOBJECT_TYPE_ID, info.Type)
	ft.SetUint32(uf.GAMEOBJECT_LEVEL, info.Level)
	ft.ClearDirty()
	return e
}

// SetGameObjectState changes the state of a game object, e.g. opens a door
func (e *Entity) SetGameObjectState(state uint32) {
	if e.GameObject == nil {
		return
	}
	e.Fields.SetUint32(uf.GAMEOBJECT_STATE, state)
}

// GameObjectStateValue returns the state field of a game object
func (e *Entity) GameObjectStateValue() uint32 {
	return e.Fields.Uint32(uf.GAMEOBJECT_STATE)
}
