package entity

import (
	"encoding/binary"

	"github.com/Dynat/alpha-core/engine/common"
	"github.com/Dynat/alpha-core/engine/netutil"
	"github.com/Dynat/alpha-core/engine/netutil/compress"
	"github.com/Dynat/alpha-core/engine/proto"
	uf "github.com/Dynat/alpha-core/engine/updatefields"
	"github.com/pkg/errors"
)

const updateBlockCount = 1

func writeUpdateHeader(p *netutil.Packet, e *Entity, updateType proto.UpdateType) {
	p.AppendUint32(updateBlockCount)
	p.AppendByte(uint8(updateType))
	p.AppendUint64(uint64(e.GUID))
}

func writeVector(p *netutil.Packet, v Vector) {
	p.AppendFloat32(v.X)
	p.AppendFloat32(v.Y)
	p.AppendFloat32(v.Z)
	p.AppendFloat32(v.O)
}

func writeMovementBlock(p *netutil.Packet, e *Entity) {
	p.AppendUint64(uint64(e.TransportGUID))
	writeVector(p, e.TransportOffset)
	writeVector(p, e.Location)
	p.AppendFloat32(e.Pitch)
	p.AppendUint32(e.MovementFlags)
	p.AppendUint32(0) // fall time
	p.AppendFloat32(e.Speeds.Walk)
	p.AppendFloat32(e.Speeds.Run)
	p.AppendFloat32(e.Speeds.Swim)
	p.AppendFloat32(e.Speeds.TurnRate)
}

func finishPayload(p *netutil.Packet) []byte {
	payload := p.CopyPayload()
	p.Release()
	return payload
}

// BuildCreatePayload builds the update payload that creates e on a client with all its fields.
//
// The dirty mask of e is neither used nor changed.
func BuildCreatePayload(e *Entity, isSelf bool) []byte {
	p := netutil.NewPacket()
	writeUpdateHeader(p, e, proto.UpdateTypeCreateObject)
	p.AppendByte(uint8(e.tags.TypeID()))
	writeMovementBlock(p, e)

	var attackCycle uint32
	var victim uint64
	if e.IsPlayer() {
		attackCycle = 1
	}
	if e.Unit != nil {
		victim = uint64(e.Unit.CombatTarget)
	}
	if isSelf {
		p.AppendUint32(1)
	} else {
		p.AppendUint32(0)
	}
	p.AppendUint32(attackCycle)
	p.AppendUint32(0) // timer id
	p.AppendUint64(victim)

	uf.WriteFullBlock(p, e.Fields)
	return finishPayload(p)
}

// BuildPartialPayload builds the update payload of the fields written since the last flush
func BuildPartialPayload(e *Entity) []byte {
	p := netutil.NewPacket()
	writeUpdateHeader(p, e, proto.UpdateTypePartial)
	uf.WriteDirtyBlock(p, e.Fields)
	return finishPayload(p)
}

// BuildMovementPayload builds the update payload carrying only the movement block
func BuildMovementPayload(e *Entity) []byte {
	p := netutil.NewPacket()
	writeUpdateHeader(p, e, proto.UpdateTypeMovement)
	writeMovementBlock(p, e)
	return finishPayload(p)
}

// BuildCreatePacket builds the framed SMSG_UPDATE_OBJECT creating e
func BuildCreatePacket(e *Entity, isSelf bool) []byte {
	return proto.MakePacket(proto.SMSG_UPDATE_OBJECT, BuildCreatePayload(e, isSelf))
}

// BuildPartialPacket builds the framed SMSG_UPDATE_OBJECT of the dirty fields of e
func BuildPartialPacket(e *Entity) []byte {
	return proto.MakePacket(proto.SMSG_UPDATE_OBJECT, BuildPartialPayload(e))
}

// BuildMovementPacket builds the framed SMSG_UPDATE_OBJECT of the movement of e
func BuildMovementPacket(e *Entity) []byte {
	return proto.MakePacket(proto.SMSG_UPDATE_OBJECT, BuildMovementPayload(e))
}

// BuildDestroyPacket builds the framed SMSG_DESTROY_OBJECT of e
func BuildDestroyPacket(e *Entity) []byte {
	return buildDestroyPacket(e.GUID)
}

func buildDestroyPacket(guid common.GUID) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, uint64(guid))
	return proto.MakePacket(proto.SMSG_DESTROY_OBJECT, b)
}

// updatePacker frames update payloads, compressing the ones above the threshold
type updatePacker struct {
	threshold  int
	compressor compress.Compressor
}

func newUpdatePacker(threshold int) *updatePacker {
	compressor, err := compress.NewCompressor("zlib")
	if err != nil {
		panic(err)
	}
	return &updatePacker{
		threshold:  threshold,
		compressor: compressor,
	}
}

// pack returns SMSG_UPDATE_OBJECT, or SMSG_COMPRESSED_UPDATE_OBJECT
// (uint32 uncompressed size + zlib stream) when the payload is larger than the threshold
func (up *updatePacker) pack(payload []byte) ([]byte, error) {
	if up.threshold <= 0 || len(payload) <= up.threshold {
		return proto.MakePacket(proto.SMSG_UPDATE_OBJECT, payload), nil
	}
	prefix := make([]byte, 4, 4+len(payload)/2)
	binary.LittleEndian.PutUint32(prefix, uint32(len(payload)))
	compressed, err := up.compressor.Compress(payload, prefix)
	if err != nil {
		return nil, errors.Wrap(err, "compress update")
	}
	return proto.MakePacket(proto.SMSG_COMPRESSED_UPDATE_OBJECT, compressed), nil
}

// UnpackUpdate returns the update payload of a SMSG_UPDATE_OBJECT or SMSG_COMPRESSED_UPDATE_OBJECT packet
func UnpackUpdate(packet []byte) ([]byte, error) {
	opcode, payload, err := proto.ParsePacket(packet)
	if err != nil {
		return nil, err
	}
	switch opcode {
	case proto.SMSG_UPDATE_OBJECT:
		return payload, nil
	case proto.SMSG_COMPRESSED_UPDATE_OBJECT:
		if len(payload) < 4 {
			return nil, errors.Errorf("compressed update too short: %d bytes", len(payload))
		}
		b := make([]byte, binary.LittleEndian.Uint32(payload))
		if err := compress.NewZlibCompressor().Decompress(payload[4:], b); err != nil {
			return nil, err
		}
		return b, nil
	}
	return nil, errors.Errorf("%s is not an update packet", opcode)
}
