package updatefields

import (
	"fmt"

	"github.com/Dynat/alpha-core/engine/gwlog"
)

// FieldKind is the value type stored in an update field slot
type FieldKind uint8

// Field kinds
const (
	KindUint32 FieldKind = iota
	KindInt32
	KindFloat32
	KindUint64
	KindInt64
	// kindHighWord marks the second slot of a 64-bit field
	kindHighWord
)

// Is64 returns if the kind occupies two slots
func (k FieldKind) Is64() bool {
	return k == KindUint64 || k == KindInt64
}

func (k FieldKind) String() string {
	switch k {
	case KindUint32:
		return "uint32"
	case KindInt32:
		return "int32"
	case KindFloat32:
		return "float32"
	case KindUint64:
		return "uint64"
	case KindInt64:
		return "int64"
	case kindHighWord:
		return "high-word"
	}
	return fmt.Sprintf("FieldKind<%d>", uint8(k))
}

// compatible reports if a value of kind k can be stored into a slot declared as declared
func (k FieldKind) compatible(declared FieldKind) bool {
	switch declared {
	case KindUint32, KindInt32:
		return k == KindUint32 || k == KindInt32
	case KindUint64, KindInt64:
		return k == KindUint64 || k == KindInt64
	case KindFloat32:
		return k == KindFloat32
	}
	return false
}

// Schema describes the slot layout of a field table: its size and the kind of every slot
type Schema struct {
	Name  string
	kinds []FieldKind
}

// NewSchema creates a schema of size slots, all declared as uint32
func NewSchema(name string, size int) *Schema {
	return &Schema{
		Name:  name,
		kinds: make([]FieldKind, size),
	}
}

// Extend creates a new schema of size slots which starts with the layout of s
func (s *Schema) Extend(name string, size int) *Schema {
	if size < len(s.kinds) {
		gwlog.Panicf("schema %s: extended size %d is smaller than %s size %d", name, size, s.Name, len(s.kinds))
	}
	ns := NewSchema(name, size)
	copy(ns.kinds, s.kinds)
	return ns
}

// Declare sets the kind of the fields starting at the given indices and returns s
func (s *Schema) Declare(kind FieldKind, indices ...int) *Schema {
	for _, index := range indices {
		s.declareOne(kind, index)
	}
	return s
}

// DeclareRange sets the kind of count consecutive fields starting at start and returns s
func (s *Schema) DeclareRange(kind FieldKind, start int, count int) *Schema {
	step := 1
	if kind.Is64() {
		step = 2
	}
	for i := 0; i < count; i++ {
		s.declareOne(kind, start+i*step)
	}
	return s
}

func (s *Schema) declareOne(kind FieldKind, index int) {
	last := index
	if kind.Is64() {
		last = index + 1
	}
	if index < 0 || last >= len(s.kinds) {
		gwlog.Panicf("schema %s: field %d of kind %s out of range [0, %d)", s.Name, index, kind, len(s.kinds))
	}
	s.kinds[index] = kind
	if kind.Is64() {
		s.kinds[index+1] = kindHighWord
	}
}

// Size returns the number of slots
func (s *Schema) Size() int {
	return len(s.kinds)
}

// BlockCount returns the number of 32-bit mask blocks needed for the schema
func (s *Schema) BlockCount() int {
	return blockCountOf(len(s.kinds))
}

// Kind returns the declared kind of the slot
func (s *Schema) Kind(index int) FieldKind {
	return s.kinds[index]
}

func (s *Schema) String() string {
	return fmt.Sprintf("Schema<%s|%d>", s.Name, len(s.kinds))
}
