package updatefields

import (
	"math"

	"github.com/Dynat/alpha-core/engine/gwlog"
)

// FieldTable holds the update field values of one entity and the mask of slots written since the last flush
//
// FieldTable is not safe for concurrent use, it belongs to the entity that owns it.
type FieldTable struct {
	schema *Schema
	values []uint32
	dirty  UpdateMask
}

// NewFieldTable creates a zeroed, clean field table of the schema
func NewFieldTable(schema *Schema) *FieldTable {
	ft := &FieldTable{}
	ft.Init(schema)
	return ft
}

// Init allocates zeroed slots for the schema, discarding any previous content and dirty bits
func (ft *FieldTable) Init(schema *Schema) {
	ft.schema = schema
	ft.values = make([]uint32, schema.Size())
	ft.dirty.Reset(schema.Size())
}

// Schema returns the schema of the table
func (ft *FieldTable) Schema() *Schema {
	return ft.schema
}

// Size returns the number of slots
func (ft *FieldTable) Size() int {
	return len(ft.values)
}

func (ft *FieldTable) checkIndex(index int, kind FieldKind) {
	last := index
	if kind.Is64() {
		last = index + 1
	}
	if index < 0 || last >= len(ft.values) {
		gwlog.Panicf("%s: field index %d (%s) out of range [0, %d)", ft.schema, index, kind, len(ft.values))
	}
	if declared := ft.schema.kinds[index]; !kind.compatible(declared) {
		gwlog.Panicf("%s: field index %d is declared as %s, can not access as %s", ft.schema, index, declared, kind)
	}
}

// Set stores the raw bits of a value of the given kind at index and marks it dirty.
//
// A 64-bit kind writes the low word at index and the high word at index+1, marking both.
// Writing the current value again still marks the slot dirty.
func (ft *FieldTable) Set(index int, kind FieldKind, raw uint64) {
	ft.checkIndex(index, kind)
	ft.values[index] = uint32(raw)
	ft.dirty.SetBit(index)
	if kind.Is64() {
		ft.values[index+1] = uint32(raw >> 32)
		ft.dirty.SetBit(index + 1)
	}
}

// SetUint32 sets an uint32 field
func (ft *FieldTable) SetUint32(index int, v uint32) {
	ft.Set(index, KindUint32, uint64(v))
}

// SetInt32 sets an int32 field
func (ft *FieldTable) SetInt32(index int, v int32) {
	ft.Set(index, KindInt32, uint64(uint32(v)))
}

// SetFloat32 sets a float field
func (ft *FieldTable) SetFloat32(index int, v float32) {
	ft.Set(index, KindFloat32, uint64(math.Float32bits(v)))
}

// SetUint64 sets an uint64 field
func (ft *FieldTable) SetUint64(index int, v uint64) {
	ft.Set(index, KindUint64, v)
}

// SetInt64 sets an int64 field
func (ft *FieldTable) SetInt64(index int, v int64) {
	ft.Set(index, KindInt64, uint64(v))
}

// SetByte replaces one byte of an uint32 field, offset 0 is the lowest byte
func (ft *FieldTable) SetByte(index int, offset uint, v byte) {
	ft.checkIndex(index, KindUint32)
	shift := offset * 8
	ft.SetUint32(index, ft.values[index]&^(0xFF<<shift)|uint32(v)<<shift)
}

// SetFlag sets flag bits of an uint32 field
func (ft *FieldTable) SetFlag(index int, flag uint32) {
	ft.checkIndex(index, KindUint32)
	ft.SetUint32(index, ft.values[index]|flag)
}

// RemoveFlag clears flag bits of an uint32 field
func (ft *FieldTable) RemoveFlag(index int, flag uint32) {
	ft.checkIndex(index, KindUint32)
	ft.SetUint32(index, ft.values[index]&^flag)
}

// Word returns the raw 32 bits of a slot
func (ft *FieldTable) Word(index int) uint32 {
	return ft.values[index]
}

// Uint32 returns an uint32 field
func (ft *FieldTable) Uint32(index int) uint32 {
	ft.checkIndex(index, KindUint32)
	return ft.values[index]
}

// Int32 returns an int32 field
func (ft *FieldTable) Int32(index int) int32 {
	ft.checkIndex(index, KindInt32)
	return int32(ft.values[index])
}

// Float32 returns a float field
func (ft *FieldTable) Float32(index int) float32 {
	ft.checkIndex(index, KindFloat32)
	return math.Float32frombits(ft.values[index])
}

// Uint64 returns an uint64 field
func (ft *FieldTable) Uint64(index int) uint64 {
	ft.checkIndex(index, KindUint64)
	return uint64(ft.values[index]) | uint64(ft.values[index+1])<<32
}

// Int64 returns an int64 field
func (ft *FieldTable) Int64(index int) int64 {
	return int64(ft.Uint64(index))
}

// Byte returns one byte of an uint32 field
func (ft *FieldTable) Byte(index int, offset uint) byte {
	return byte(ft.Uint32(index) >> (offset * 8))
}

// HasFlag returns if all flag bits are set in an uint32 field
func (ft *FieldTable) HasFlag(index int, flag uint32) bool {
	return ft.Uint32(index)&flag == flag
}

// DirtyMask returns the mask of slots written since the last ClearDirty
func (ft *FieldTable) DirtyMask() *UpdateMask {
	return &ft.dirty
}

// IsDirty returns if any slot was written since the last ClearDirty
func (ft *FieldTable) IsDirty() bool {
	return !ft.dirty.IsEmpty()
}

// IsFieldDirty returns if the slot was written since the last ClearDirty
func (ft *FieldTable) IsFieldDirty(index int) bool {
	return ft.dirty.IsSet(index)
}

// ClearDirty resets all dirty bits, values are kept
func (ft *FieldTable) ClearDirty() {
	ft.dirty.Clear()
}
