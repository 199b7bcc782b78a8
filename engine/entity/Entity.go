package entity

import (
	"fmt"

	"github.com/Dynat/alpha-core/engine/common"
	"github.com/Dynat/alpha-core/engine/gwlog"
	"github.com/Dynat/alpha-core/engine/proto"
	"github.com/Dynat/alpha-core/engine/updatefields"
)

type lifeState uint8

const (
	stateInactive lifeState = iota
	stateActive
	stateRemoved
)

func (s lifeState) String() string {
	switch s {
	case stateInactive:
		return "Inactive"
	case stateActive:
		return "Active"
	case stateRemoved:
		return "Removed"
	}
	return fmt.Sprintf("lifeState<%d>", uint8(s))
}

// MovementSpeeds are the speeds sent in movement blocks
type MovementSpeeds struct {
	Walk     float32
	Run      float32
	Swim     float32
	TurnRate float32
}

var defaultSpeeds = MovementSpeeds{
	Walk:     2.5,
	Run:      7.0,
	Swim:     4.72,
	TurnRate: 3.141594,
}

// SetDefaultSpeeds sets the speeds of newly constructed entities and the fallback of speed changes
func SetDefaultSpeeds(speeds MovementSpeeds) {
	defaultSpeeds = speeds
	gwlog.Infof("Default movement speeds set to %+v", speeds)
}

// DefaultSpeeds returns the default movement speeds
func DefaultSpeeds() MovementSpeeds {
	return defaultSpeeds
}

// Entity is any object in the world: players, creatures and game objects.
//
// Capabilities are given by the immutable Tags. Unit, Player and GameObject hold the
// state of the matching capability and are nil when the entity lacks it.
type Entity struct {
	GUID   common.GUID
	Entry  uint32
	Name   string
	Fields *updatefields.FieldTable

	Location        Vector
	MapID           uint32
	ZoneID          uint32
	Pitch           float32
	MovementFlags   uint32
	TransportGUID   common.GUID
	TransportOffset Vector
	Speeds          MovementSpeeds

	Unit       *UnitState
	Player     *PlayerState
	GameObject *GameObjectState

	tags        Tags
	state       lifeState
	forceDirty  bool
	teleporting bool
	newWorld    bool
	client      *GameClient
	visible     *VisibilitySet
	observedBy  map[common.GUID]*Entity
}

func newEntity(guid common.GUID, entry uint32, tags Tags) *Entity {
	e := &Entity{
		GUID:       guid,
		Entry:      entry,
		Fields:     updatefields.NewFieldTable(updatefields.SchemaForType(tags.Mask())),
		Speeds:     defaultSpeeds,
		tags:       tags,
		observedBy: map[common.GUID]*Entity{},
	}
	e.Fields.SetUint64(updatefields.OBJECT_FIELD_GUID, uint64(guid))
	e.Fields.SetUint32(updatefields.OBJECT_FIELD_TYPE, uint32(tags.Mask()))
	e.Fields.SetUint32(updatefields.OBJECT_FIELD_ENTRY, entry)
	e.Fields.SetFloat32(updatefields.OBJECT_FIELD_SCALE_X, 1)
	return e
}

func (e *Entity) String() string {
	if e == nil {
		return "Entity<nil>"
	}
	if e.Name != "" {
		return fmt.Sprintf("%s<%s|%s>", e.tags.TypeID().Name(), e.GUID, e.Name)
	}
	return fmt.Sprintf("%s<%s>", e.tags.TypeID().Name(), e.GUID)
}

// Tags returns the capability set
func (e *Entity) Tags() Tags {
	return e.tags
}

// IsPlayer returns if the entity is a player
func (e *Entity) IsPlayer() bool {
	return e.tags.Has(proto.ObjectTypePlayer)
}

// IsUnit returns if the entity is a unit, players included
func (e *Entity) IsUnit() bool {
	return e.tags.Has(proto.ObjectTypeUnit)
}

// IsCreature returns if the entity is a unit but not a player
func (e *Entity) IsCreature() bool {
	return e.IsUnit() && !e.IsPlayer()
}

// IsGameObject returns if the entity is a game object
func (e *Entity) IsGameObject() bool {
	return e.tags.Has(proto.ObjectTypeGameObject)
}

// IsActive returns if the entity is spawned (or logged in) and not removed yet
func (e *Entity) IsActive() bool {
	return e.state == stateActive
}

// IsRemoved returns if the entity was despawned or logged out
func (e *Entity) IsRemoved() bool {
	return e.state == stateRemoved
}

// IsTeleporting returns if the entity is between Teleport and CompleteTeleport
func (e *Entity) IsTeleporting() bool {
	return e.teleporting
}

// IsDirty returns if the entity has pending field changes or was explicitly marked dirty
func (e *Entity) IsDirty() bool {
	return e.forceDirty || e.Fields.IsDirty()
}

// Client returns the game client of a player, nil for other entities
func (e *Entity) Client() *GameClient {
	return e.client
}

// SetClient binds a game client to the player
func (e *Entity) SetClient(client *GameClient) {
	if !e.IsPlayer() {
		gwlog.Panicf("%s: only players can have a client", e)
	}
	e.client = client
}

// Visible returns the visibility set of a player, nil for other entities
func (e *Entity) Visible() *VisibilitySet {
	return e.visible
}

// ObserverCount returns the number of players currently holding the entity on their clients
func (e *Entity) ObserverCount() int {
	return len(e.observedBy)
}

// SetScale sets the object scale
func (e *Entity) SetScale(scale float32) {
	e.Fields.SetFloat32(updatefields.OBJECT_FIELD_SCALE_X, scale)
}

// Scale returns the object scale
func (e *Entity) Scale() float32 {
	return e.Fields.Float32(updatefields.OBJECT_FIELD_SCALE_X)
}
