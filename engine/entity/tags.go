package entity

import (
	"strings"

	"github.com/Dynat/alpha-core/engine/proto"
)

// Tags is the immutable capability set of an entity, resolved when the entity is constructed
type Tags struct {
	mask proto.ObjectTypeFlag
}

// NewTags builds the capability set, adding implied capabilities:
// every entity is an Object, a Player is a Unit and a Container is an Item
func NewTags(flags ...proto.ObjectTypeFlag) Tags {
	mask := proto.ObjectTypeObject
	for _, f := range flags {
		mask |= f
	}
	if mask&proto.ObjectTypePlayer != 0 {
		mask |= proto.ObjectTypeUnit
	}
	if mask&proto.ObjectTypeContainer != 0 {
		mask |= proto.ObjectTypeItem
	}
	return Tags{mask: mask}
}

// Has returns if the capability is in the set
func (t Tags) Has(flag proto.ObjectTypeFlag) bool {
	return t.mask&flag == flag
}

// Mask returns the value of OBJECT_FIELD_TYPE
func (t Tags) Mask() proto.ObjectTypeFlag {
	return t.mask
}

// TypeID returns the most specific object type id
func (t Tags) TypeID() proto.ObjectTypeID {
	switch {
	case t.Has(proto.ObjectTypePlayer):
		return proto.ObjectTypeIDPlayer
	case t.Has(proto.ObjectTypeUnit):
		return proto.ObjectTypeIDUnit
	case t.Has(proto.ObjectTypeGameObject):
		return proto.ObjectTypeIDGameObject
	case t.Has(proto.ObjectTypeContainer):
		return proto.ObjectTypeIDContainer
	case t.Has(proto.ObjectTypeItem):
		return proto.ObjectTypeIDItem
	}
	return proto.ObjectTypeIDObject
}

func (t Tags) String() string {
	var names []string
	for _, tn := range []struct {
		flag proto.ObjectTypeFlag
		name string
	}{
		{proto.ObjectTypeObject, "Object"},
		{proto.ObjectTypeItem, "Item"},
		{proto.ObjectTypeContainer, "Container"},
		{proto.ObjectTypeUnit, "Unit"},
		{proto.ObjectTypePlayer, "Player"},
		{proto.ObjectTypeGameObject, "GameObject"},
	} {
		if t.Has(tn.flag) {
			names = append(names, tn.name)
		}
	}
	return strings.Join(names, "|")
}
