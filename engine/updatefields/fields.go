package updatefields

import "github.com/Dynat/alpha-core/engine/proto"

// Object fields
const (
	OBJECT_FIELD_GUID    = 0 // uint64
	OBJECT_FIELD_TYPE    = 2
	OBJECT_FIELD_ENTRY   = 3
	OBJECT_FIELD_SCALE_X = 4 // float
	OBJECT_FIELD_PADDING = 5
	OBJECT_END           = 6
)

// Item fields
const (
	ITEM_FIELD_OWNER             = OBJECT_END + 0 // uint64
	ITEM_FIELD_CONTAINED         = OBJECT_END + 2 // uint64
	ITEM_FIELD_CREATOR           = OBJECT_END + 4 // uint64
	ITEM_FIELD_STACK_COUNT       = OBJECT_END + 6
	ITEM_FIELD_DURATION          = OBJECT_END + 7
	ITEM_FIELD_SPELL_CHARGES     = OBJECT_END + 8 // 5 x int32
	ITEM_FIELD_FLAGS             = OBJECT_END + 13
	ITEM_FIELD_ENCHANTMENT       = OBJECT_END + 14 // 15 slots
	ITEM_FIELD_PROPERTY_SEED     = OBJECT_END + 29
	ITEM_FIELD_RANDOM_PROPERTIES = OBJECT_END + 30
	ITEM_FIELD_ITEM_TEXT_ID      = OBJECT_END + 31
	ITEM_FIELD_DURABILITY        = OBJECT_END + 32
	ITEM_FIELD_MAXDURABILITY     = OBJECT_END + 33
	ITEM_END                     = OBJECT_END + 34
	CONTAINER_FIELD_NUM_SLOTS    = ITEM_END + 0
	CONTAINER_ALIGN_PAD          = ITEM_END + 1
	CONTAINER_FIELD_SLOT_1       = ITEM_END + 2 // 20 x uint64
	CONTAINER_END                = ITEM_END + 42
	CONTAINER_SLOT_COUNT         = 20
	ITEM_SPELL_CHARGES_COUNT     = 5
	ITEM_ENCHANTMENT_SLOT_COUNT  = 15
)

// Unit fields
const (
	UNIT_FIELD_CHARM                          = OBJECT_END + 0  // uint64
	UNIT_FIELD_SUMMON                         = OBJECT_END + 2  // uint64
	UNIT_FIELD_CHARMEDBY                      = OBJECT_END + 4  // uint64
	UNIT_FIELD_SUMMONEDBY                     = OBJECT_END + 6  // uint64
	UNIT_FIELD_CREATEDBY                      = OBJECT_END + 8  // uint64
	UNIT_FIELD_TARGET                         = OBJECT_END + 10 // uint64
	UNIT_FIELD_CHANNEL_OBJECT                 = OBJECT_END + 12 // uint64
	UNIT_FIELD_HEALTH                         = OBJECT_END + 14
	UNIT_FIELD_POWER1                         = OBJECT_END + 15
	UNIT_FIELD_POWER2                         = OBJECT_END + 16
	UNIT_FIELD_POWER3                         = OBJECT_END + 17
	UNIT_FIELD_POWER4                         = OBJECT_END + 18
	UNIT_FIELD_MAXHEALTH                      = OBJECT_END + 19
	UNIT_FIELD_MAXPOWER1                      = OBJECT_END + 20
	UNIT_FIELD_MAXPOWER2                      = OBJECT_END + 21
	UNIT_FIELD_MAXPOWER3                      = OBJECT_END + 22
	UNIT_FIELD_MAXPOWER4                      = OBJECT_END + 23
	UNIT_FIELD_LEVEL                          = OBJECT_END + 24
	UNIT_FIELD_FACTIONTEMPLATE                = OBJECT_END + 25
	UNIT_FIELD_BYTES_0                        = OBJECT_END + 26
	UNIT_FIELD_STAT0                          = OBJECT_END + 27 // 5 slots
	UNIT_FIELD_BASESTAT0                      = OBJECT_END + 32 // 5 slots
	UNIT_VIRTUAL_ITEM_SLOT_DISPLAY            = OBJECT_END + 37 // 3 slots
	UNIT_VIRTUAL_ITEM_INFO                    = OBJECT_END + 40 // 6 slots
	UNIT_FIELD_FLAGS                          = OBJECT_END + 46
	UNIT_FIELD_COINAGE                        = OBJECT_END + 47
	UNIT_FIELD_AURA                           = OBJECT_END + 48  // 56 slots
	UNIT_FIELD_AURALEVELS                     = OBJECT_END + 104 // 10 slots
	UNIT_FIELD_AURAAPPLICATIONS               = OBJECT_END + 114 // 10 slots
	UNIT_FIELD_AURAFLAGS                      = OBJECT_END + 124 // 7 slots
	UNIT_FIELD_AURASTATE                      = OBJECT_END + 131
	UNIT_FIELD_BASEATTACKTIME                 = OBJECT_END + 132 // 2 slots
	UNIT_FIELD_BOUNDINGRADIUS                 = OBJECT_END + 134 // float
	UNIT_FIELD_COMBATREACH                    = OBJECT_END + 135 // float
	UNIT_FIELD_WEAPONREACH                    = OBJECT_END + 136 // float
	UNIT_FIELD_DISPLAYID                      = OBJECT_END + 137
	UNIT_FIELD_MOUNTDISPLAYID                 = OBJECT_END + 138
	UNIT_FIELD_DAMAGE                         = OBJECT_END + 139
	UNIT_FIELD_RESISTANCES                    = OBJECT_END + 140 // 6 x int32
	UNIT_FIELD_RESISTANCEBUFFMODSPOSITIVE     = OBJECT_END + 146 // 6 x int32
	UNIT_FIELD_RESISTANCEBUFFMODSNEGATIVE     = OBJECT_END + 152 // 6 x int32
	UNIT_FIELD_BYTES_1                        = OBJECT_END + 158
	UNIT_FIELD_PETNUMBER                      = OBJECT_END + 159
	UNIT_FIELD_PET_NAME_TIMESTAMP             = OBJECT_END + 160
	UNIT_FIELD_PETEXPERIENCE                  = OBJECT_END + 161
	UNIT_FIELD_PETNEXTLEVELEXP                = OBJECT_END + 162
	UNIT_DYNAMIC_FLAGS                        = OBJECT_END + 163
	UNIT_EMOTE_STATE                          = OBJECT_END + 164
	UNIT_CHANNEL_SPELL                        = OBJECT_END + 165
	UNIT_MOD_CAST_SPEED                       = OBJECT_END + 166 // float
	UNIT_CREATED_BY_SPELL                     = OBJECT_END + 167
	UNIT_FIELD_BYTES_2                        = OBJECT_END + 168
	UNIT_END                                  = OBJECT_END + 169
	UNIT_STAT_COUNT                           = 5
	UNIT_RESISTANCE_COUNT                     = 6
	UNIT_AURA_COUNT                           = 56
	UNIT_FIELD_RESISTANCEBUFFMODSNEGATIVE_END = UNIT_FIELD_RESISTANCEBUFFMODSNEGATIVE + UNIT_RESISTANCE_COUNT
)

// Player fields
const (
	PLAYER_SELECTION                    = UNIT_END + 0 // uint64
	PLAYER_DUEL_ARBITER                 = UNIT_END + 2 // uint64
	PLAYER_GUILDID                      = UNIT_END + 4
	PLAYER_GUILDRANK                    = UNIT_END + 5
	PLAYER_BYTES                        = UNIT_END + 6
	PLAYER_BYTES_2                      = UNIT_END + 7
	PLAYER_BYTES_3                      = UNIT_END + 8
	PLAYER_XP                           = UNIT_END + 9
	PLAYER_NEXT_LEVEL_XP                = UNIT_END + 10
	PLAYER_CHARACTER_POINTS1            = UNIT_END + 11
	PLAYER_CHARACTER_POINTS2            = UNIT_END + 12
	PLAYER_BLOCK_PERCENTAGE             = UNIT_END + 13 // float
	PLAYER_DODGE_PERCENTAGE             = UNIT_END + 14 // float
	PLAYER_PARRY_PERCENTAGE             = UNIT_END + 15 // float
	PLAYER_BASE_MANA                    = UNIT_END + 16
	PLAYER_FIELD_NUM_INV_SLOTS          = UNIT_END + 17
	PLAYER_FIELD_INV_SLOT_HEAD          = UNIT_END + 18 // 19 x uint64
	PLAYER_FARSIGHT                     = UNIT_END + 56 // uint64
	PLAYER_FIELD_COMBO_TARGET           = UNIT_END + 58 // uint64
	PLAYER_REST_STATE_EXPERIENCE        = UNIT_END + 60
	PLAYER_FIELD_POSSTAT0               = UNIT_END + 61 // 5 x int32
	PLAYER_FIELD_NEGSTAT0               = UNIT_END + 66 // 5 x int32
	PLAYER_FIELD_MOD_DAMAGE_DONE_POS    = UNIT_END + 71 // 7 slots
	PLAYER_END                          = UNIT_END + 78
	PLAYER_INV_SLOT_COUNT               = 19
	PLAYER_FIELD_MOD_DAMAGE_SCHOOLS_CNT = 7
)

// GameObject fields
const (
	GAMEOBJECT_DISPLAYID  = OBJECT_END + 0
	GAMEOBJECT_FLAGS      = OBJECT_END + 1
	GAMEOBJECT_ROTATION   = OBJECT_END + 2 // 4 x float
	GAMEOBJECT_STATE      = OBJECT_END + 6
	GAMEOBJECT_TIMESTAMP  = OBJECT_END + 7
	GAMEOBJECT_POS_X      = OBJECT_END + 8  // float
	GAMEOBJECT_POS_Y      = OBJECT_END + 9  // float
	GAMEOBJECT_POS_Z      = OBJECT_END + 10 // float
	GAMEOBJECT_FACING     = OBJECT_END + 11 // float
	GAMEOBJECT_DYN_FLAGS  = OBJECT_END + 12
	GAMEOBJECT_FACTION    = OBJECT_END + 13
	GAMEOBJECT_TYPE_ID    = OBJECT_END + 14
	GAMEOBJECT_LEVEL      = OBJECT_END + 15
	GAMEOBJECT_END        = OBJECT_END + 16
	GAMEOBJECT_ROT_FLOATS = 4
)

// Built-in schemas
var (
	ObjectSchema     *Schema
	ItemSchema       *Schema
	ContainerSchema  *Schema
	UnitSchema       *Schema
	PlayerSchema     *Schema
	GameObjectSchema *Schema
)

func init() {
	ObjectSchema = NewSchema("Object", OBJECT_END)
	ObjectSchema.Declare(KindUint64, OBJECT_FIELD_GUID)
	ObjectSchema.Declare(KindFloat32, OBJECT_FIELD_SCALE_X)

	ItemSchema = ObjectSchema.Extend("Item", ITEM_END)
	ItemSchema.Declare(KindUint64, ITEM_FIELD_OWNER, ITEM_FIELD_CONTAINED, ITEM_FIELD_CREATOR)
	ItemSchema.DeclareRange(KindInt32, ITEM_FIELD_SPELL_CHARGES, ITEM_SPELL_CHARGES_COUNT)

	ContainerSchema = ItemSchema.Extend("Container", CONTAINER_END)
	ContainerSchema.DeclareRange(KindUint64, CONTAINER_FIELD_SLOT_1, CONTAINER_SLOT_COUNT)

	UnitSchema = ObjectSchema.Extend("Unit", UNIT_END)
	UnitSchema.DeclareRange(KindUint64, UNIT_FIELD_CHARM, 7)
	UnitSchema.Declare(KindFloat32, UNIT_FIELD_BOUNDINGRADIUS, UNIT_FIELD_COMBATREACH, UNIT_FIELD_WEAPONREACH, UNIT_MOD_CAST_SPEED)
	// resistances and both buff mod arrays are signed
	UnitSchema.DeclareRange(KindInt32, UNIT_FIELD_RESISTANCES, UNIT_RESISTANCE_COUNT*3)

	PlayerSchema = UnitSchema.Extend("Player", PLAYER_END)
	PlayerSchema.Declare(KindUint64, PLAYER_SELECTION, PLAYER_DUEL_ARBITER, PLAYER_FARSIGHT, PLAYER_FIELD_COMBO_TARGET)
	PlayerSchema.Declare(KindFloat32, PLAYER_BLOCK_PERCENTAGE, PLAYER_DODGE_PERCENTAGE, PLAYER_PARRY_PERCENTAGE)
	PlayerSchema.DeclareRange(KindUint64, PLAYER_FIELD_INV_SLOT_HEAD, PLAYER_INV_SLOT_COUNT)
	PlayerSchema.DeclareRange(KindInt32, PLAYER_FIELD_POSSTAT0, UNIT_STAT_COUNT*2)

	GameObjectSchema = ObjectSchema.Extend("GameObject", GAMEOBJECT_END)
	GameObjectSchema.DeclareRange(KindFloat32, GAMEOBJECT_ROTATION, GAMEOBJECT_ROT_FLOATS)
	GameObjectSchema.DeclareRange(KindFloat32, GAMEOBJECT_POS_X, 4)
}

// SchemaForType returns the most specific built-in schema for the object type flags
func SchemaForType(typeMask proto.ObjectTypeFlag) *Schema {
	switch {
	case typeMask&proto.ObjectTypePlayer != 0:
		return PlayerSchema
	case typeMask&proto.ObjectTypeUnit != 0:
		return UnitSchema
	case typeMask&proto.ObjectTypeGameObject != 0:
		return GameObjectSchema
	case typeMask&proto.ObjectTypeContainer != 0:
		return ContainerSchema
	case typeMask&proto.ObjectTypeItem != 0:
		return ItemSchema
	default:
		return ObjectSchema
	}
}
