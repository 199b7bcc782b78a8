package updatefields

import (
	"github.com/Dynat/alpha-core/engine/gwlog"
	"github.com/Dynat/alpha-core/engine/netutil"
	"github.com/pkg/errors"
)

const maxBlockCount = 0xFF

// WriteMask writes the block count as one byte followed by every mask block as little-endian uint32
func WriteMask(p *netutil.Packet, mask *UpdateMask) {
	blockCount := mask.BlockCount()
	if blockCount > maxBlockCount {
		gwlog.Panicf("update mask has %d blocks, at most %d can be encoded", blockCount, maxBlockCount)
	}
	p.AppendByte(uint8(blockCount))
	for _, block := range mask.Blocks() {
		p.AppendUint32(block)
	}
}

// WriteValues writes the raw 32-bit words of every masked slot in ascending index order.
//
// 64-bit fields have both of their slots masked, so they come out as 8 contiguous little-endian bytes.
func WriteValues(p *netutil.Packet, ft *FieldTable, mask *UpdateMask) {
	if mask.FieldCount() != ft.Size() {
		gwlog.Panicf("%s: mask covers %d fields, table has %d", ft.schema, mask.FieldCount(), ft.Size())
	}
	mask.ForEach(func(index int) {
		p.AppendUint32(ft.values[index])
	})
}

// WriteUpdateBlock writes the field update block: block count, mask, then the masked values
func WriteUpdateBlock(p *netutil.Packet, ft *FieldTable, mask *UpdateMask) {
	WriteMask(p, mask)
	WriteValues(p, ft, mask)
}

// WriteDirtyBlock writes the field update block of the slots written since the last flush
func WriteDirtyBlock(p *netutil.Packet, ft *FieldTable) {
	WriteUpdateBlock(p, ft, &ft.dirty)
}

// WriteFullBlock writes the field update block of every slot. The dirty mask of ft is not touched.
func WriteFullBlock(p *netutil.Packet, ft *FieldTable) {
	WriteUpdateBlock(p, ft, NewFullUpdateMask(ft.Size()))
}

// DecodeUpdateBlock reads a field update block written for the schema.
//
// The returned table holds the decoded values and its dirty mask is the decoded mask.
func DecodeUpdateBlock(p *netutil.Packet, schema *Schema) (*FieldTable, error) {
	if p.UnreadLen() < 1 {
		return nil, errors.Errorf("%s: missing block count", schema)
	}
	blockCount := int(p.ReadOneByte())
	if blockCount != schema.BlockCount() {
		return nil, errors.Errorf("%s: block count is %d, expect %d", schema, blockCount, schema.BlockCount())
	}
	if p.UnreadLen() < blockCount*4 {
		return nil, errors.Errorf("%s: mask truncated", schema)
	}

	ft := NewFieldTable(schema)
	blocks := ft.dirty.Blocks()
	for i := 0; i < blockCount; i++ {
		blocks[i] = p.ReadUint32()
	}

	var err error
	ft.dirty.ForEach(func(index int) {
		if err != nil {
			return
		}
		if index >= schema.Size() {
			err = errors.Errorf("%s: mask bit %d out of range", schema, index)
			return
		}
		if p.UnreadLen() < 4 {
			err = errors.Errorf("%s: value of field %d truncated", schema, index)
			return
		}
		ft.values[index] = p.ReadUint32()
	})
	if err != nil {
		return nil, err
	}
	return ft, nil
}
