package proto

import (
	"encoding/binary"
	"io"

	"github.com/Dynat/alpha-core/engine/gwlog"
	"github.com/pkg/errors"
)

const (
	// PacketHeaderSize is the size of the world packet header: uint16 size + uint32 opcode
	PacketHeaderSize = 6
	// MaxPacketPayloadSize is the largest payload that fits in the header size field
	MaxPacketPayloadSize = 0xFFFF - 4
)

// MakePacket frames the payload as a world packet.
//
// The size field is big-endian and counts the opcode and the payload, the opcode is little-endian.
// It panics if the payload does not fit in the size field.
func MakePacket(opcode Opcode, payload []byte) []byte {
	if len(payload) > MaxPacketPayloadSize {
		gwlog.Panicf("%s: payload of %d bytes exceeds %d", opcode, len(payload), MaxPacketPayloadSize)
	}
	b := make([]byte, PacketHeaderSize+len(payload))
	binary.BigEndian.PutUint16(b[0:2], uint16(len(payload)+4))
	binary.LittleEndian.PutUint32(b[2:6], uint32(opcode))
	copy(b[PacketHeaderSize:], payload)
	return b
}

// ParsePacket splits a framed world packet into opcode and payload
func ParsePacket(b []byte) (Opcode, []byte, error) {
	if len(b) < PacketHeaderSize {
		return 0, nil, errors.Errorf("packet too short: %d bytes", len(b))
	}
	size := int(binary.BigEndian.Uint16(b[0:2]))
	if size < 4 || len(b) != size+2 {
		return 0, nil, errors.Errorf("packet size mismatch: header says %d, got %d bytes", size, len(b))
	}
	opcode := Opcode(binary.LittleEndian.Uint32(b[2:6]))
	return opcode, b[PacketHeaderSize:], nil
}

// ReadPacket reads one framed world packet from r
func ReadPacket(r io.Reader) (Opcode, []byte, error) {
	var header [PacketHeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return 0, nil, err
	}
	size := int(binary.BigEndian.Uint16(header[0:2]))
	if size < 4 {
		return 0, nil, errors.Errorf("bad packet size %d", size)
	}
	payload := make([]byte, size-4)
	if _, err := io.ReadFull(r, payload); err != nil {
		return 0, nil, err
	}
	return Opcode(binary.LittleEndian.Uint32(header[2:6])), payload, nil
}
