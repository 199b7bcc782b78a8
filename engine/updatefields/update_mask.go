package updatefields

import "math/bits"

// UpdateMask is a bit set with one bit per field slot, stored as 32-bit blocks
type UpdateMask struct {
	blocks     []uint32
	fieldCount int
}

func blockCountOf(fieldCount int) int {
	return (fieldCount + 31) / 32
}

// NewUpdateMask creates an empty mask for fieldCount slots
func NewUpdateMask(fieldCount int) *UpdateMask {
	m := &UpdateMask{}
	m.Reset(fieldCount)
	return m
}

// NewFullUpdateMask creates a mask with the bits of all fieldCount slots set
func NewFullUpdateMask(fieldCount int) *UpdateMask {
	m := NewUpdateMask(fieldCount)
	m.SetAll()
	return m
}

// Reset resizes the mask to fieldCount slots and clears all bits
func (m *UpdateMask) Reset(fieldCount int) {
	m.fieldCount = fieldCount
	m.blocks = make([]uint32, blockCountOf(fieldCount))
}

// FieldCount returns the number of slots covered by the mask
func (m *UpdateMask) FieldCount() int {
	return m.fieldCount
}

// BlockCount returns the number of 32-bit blocks
func (m *UpdateMask) BlockCount() int {
	return len(m.blocks)
}

// Blocks returns the underlying blocks, bit i of block b is slot b*32+i
func (m *UpdateMask) Blocks() []uint32 {
	return m.blocks
}

// SetBit marks the slot
func (m *UpdateMask) SetBit(index int) {
	m.blocks[index>>5] |= 1 << uint(index&31)
}

// UnsetBit unmarks the slot
func (m *UpdateMask) UnsetBit(index int) {
	m.blocks[index>>5] &^= 1 << uint(index&31)
}

// IsSet returns if the slot is marked
func (m *UpdateMask) IsSet(index int) bool {
	return m.blocks[index>>5]&(1<<uint(index&31)) != 0
}

// SetAll marks every slot
func (m *UpdateMask) SetAll() {
	for i := range m.blocks {
		m.blocks[i] = 0xFFFFFFFF
	}
	if rem := m.fieldCount & 31; rem != 0 {
		m.blocks[len(m.blocks)-1] = 1<<uint(rem) - 1
	}
}

// Clear unmarks every slot
func (m *UpdateMask) Clear() {
	for i := range m.blocks {
		m.blocks[i] = 0
	}
}

// IsEmpty returns if no slot is marked
func (m *UpdateMask) IsEmpty() bool {
	for _, b := range m.blocks {
		if b != 0 {
			return false
		}
	}
	return true
}

// Count returns the number of marked slots
func (m *UpdateMask) Count() int {
	n := 0
	for _, b := range m.blocks {
		n += bits.OnesCount32(b)
	}
	return n
}

// ForEach calls f for every marked slot in ascending order
func (m *UpdateMask) ForEach(f func(index int)) {
	for bi, b := range m.blocks {
		for b != 0 {
			i := bits.TrailingZeros32(b)
			f(bi<<5 + i)
			b &= b - 1
		}
	}
}

// Indices returns the marked slots in ascending order
func (m *UpdateMask) Indices() []int {
	indices := make([]int, 0, m.Count())
	m.ForEach(func(index int) {
		indices = append(indices, index)
	})
	return indices
}
