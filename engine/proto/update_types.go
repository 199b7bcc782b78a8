package proto

// UpdateType is the kind of one update block in SMSG_UPDATE_OBJECT
type UpdateType uint8

// Update types
const (
	UpdateTypePartial      UpdateType = 0
	UpdateTypeMovement     UpdateType = 1
	UpdateTypeCreateObject UpdateType = 2
)

// ObjectTypeID is the single most specific type of an object, sent in create blocks
type ObjectTypeID uint8

// Object type ids
const (
	ObjectTypeIDObject     ObjectTypeID = 0
	ObjectTypeIDItem       ObjectTypeID = 1
	ObjectTypeIDContainer  ObjectTypeID = 2
	ObjectTypeIDUnit       ObjectTypeID = 3
	ObjectTypeIDPlayer     ObjectTypeID = 4
	ObjectTypeIDGameObject ObjectTypeID = 5
)

// ObjectTypeFlag is one bit of the OBJECT_FIELD_TYPE value
type ObjectTypeFlag uint32

// Object type flags
const (
	ObjectTypeObject     ObjectTypeFlag = 1 << 0
	ObjectTypeItem       ObjectTypeFlag = 1 << 1
	ObjectTypeContainer  ObjectTypeFlag = 1 << 2
	ObjectTypeUnit       ObjectTypeFlag = 1 << 3
	ObjectTypePlayer     ObjectTypeFlag = 1 << 4
	ObjectTypeGameObject ObjectTypeFlag = 1 << 5
)

// Name returns the readable name of the object type id
func (id ObjectTypeID) Name() string {
	switch id {
	case ObjectTypeIDObject:
		return "Object"
	case ObjectTypeIDItem:
		return "Item"
	case ObjectTypeIDContainer:
		return "Container"
	case ObjectTypeIDUnit:
		return "Unit"
	case ObjectTypeIDPlayer:
		return "Player"
	case ObjectTypeIDGameObject:
		return "GameObject"
	}
	return "Unknown"
}
