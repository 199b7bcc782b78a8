package netutil

import (
	"encoding/binary"
	"math"
	"sync"
	"sync/atomic"

	"github.com/Dynat/alpha-core/engine/consts"
	"github.com/Dynat/alpha-core/engine/gwlog"
)

const (
	_MIN_PAYLOAD_CAP = 128
)

var (
	packetEndian = binary.LittleEndian

	debugInfo struct {
		AllocCount   int64
		ReleaseCount int64
	}

	packetPool = sync.Pool{
		New: func() interface{} {
			return &Packet{
				bytes: make([]byte, 0, _MIN_PAYLOAD_CAP),
			}
		},
	}
)

// Packet is a little-endian byte buffer used to build and parse game packets
//
// Packets built with NewPacket should be released after use
type Packet struct {
	bytes      []byte
	readCursor int
}

// NewPacket allocates a new empty packet from the pool
func NewPacket() *Packet {
	p := packetPool.Get().(*Packet)
	if consts.DEBUG_PACKETS {
		atomic.AddInt64(&debugInfo.AllocCount, 1)
	}
	return p
}

// NewPacketFrom creates a packet for reading the given bytes
func NewPacketFrom(b []byte) *Packet {
	return &Packet{bytes: b}
}

// Release puts the packet back into the pool
func (p *Packet) Release() {
	if consts.DEBUG_PACKETS {
		atomic.AddInt64(&debugInfo.ReleaseCount, 1)
		gwlog.Debugf("DEBUG PACKETS: ALLOC=%d, RELEASE=%d",
			atomic.LoadInt64(&debugInfo.AllocCount),
			atomic.LoadInt64(&debugInfo.ReleaseCount))
	}
	p.bytes = p.bytes[:0]
	p.readCursor = 0
	packetPool.Put(p)
}

// Payload returns the written bytes
func (p *Packet) Payload() []byte {
	return p.bytes
}

// CopyPayload returns a copy of the written bytes which stays valid after Release
func (p *Packet) CopyPayload() []byte {
	b := make([]byte, len(p.bytes))
	copy(b, p.bytes)
	return b
}

// Len returns the number of written bytes
func (p *Packet) Len() int {
	return len(p.bytes)
}

// UnreadPayload returns the bytes not read yet
func (p *Packet) UnreadPayload() []byte {
	return p.bytes[p.readCursor:]
}

// UnreadLen returns the number of bytes not read yet
func (p *Packet) UnreadLen() int {
	return len(p.bytes) - p.readCursor
}

// HasUnreadPayload returns if there are unread bytes
func (p *Packet) HasUnreadPayload() bool {
	return p.readCursor < len(p.bytes)
}

func (p *Packet) extend(n int) []byte {
	oldLen := len(p.bytes)
	if oldLen+n > cap(p.bytes) {
		newCap := cap(p.bytes) * 2
		if newCap < oldLen+n {
			newCap = oldLen + n
		}
		nb := make([]byte, oldLen, newCap)
		copy(nb, p.bytes)
		p.bytes = nb
	}
	p.bytes = p.bytes[:oldLen+n]
	return p.bytes[oldLen:]
}

func (p *Packet) next(n int) []byte {
	b := p.bytes[p.readCursor : p.readCursor+n]
	p.readCursor += n
	return b
}

// AppendByte appends one byte to the end of payload
func (p *Packet) AppendByte(b byte) {
	p.bytes = append(p.bytes, b)
}

// ReadOneByte reads one byte from the beginning
func (p *Packet) ReadOneByte() byte {
	return p.next(1)[0]
}

// AppendBool appends one byte 1/0 to the end of payload
func (p *Packet) AppendBool(b bool) {
	if b {
		p.AppendByte(1)
	} else {
		p.AppendByte(0)
	}
}

// ReadBool reads one byte as bool
func (p *Packet) ReadBool() bool {
	return p.ReadOneByte() != 0
}

// AppendUint16 appends one uint16 to the end of payload
func (p *Packet) AppendUint16(v uint16) {
	packetEndian.PutUint16(p.extend(2), v)
}

// ReadUint16 reads one uint16
func (p *Packet) ReadUint16() uint16 {
	return packetEndian.Uint16(p.next(2))
}

// AppendUint32 appends one uint32 to the end of payload
func (p *Packet) AppendUint32(v uint32) {
	packetEndian.PutUint32(p.extend(4), v)
}

// ReadUint32 reads one uint32
func (p *Packet) ReadUint32() uint32 {
	return packetEndian.Uint32(p.next(4))
}

// AppendInt32 appends one int32 to the end of payload
func (p *Packet) AppendInt32(v int32) {
	p.AppendUint32(uint32(v))
}

// ReadInt32 reads one int32
func (p *Packet) ReadInt32() int32 {
	return int32(p.ReadUint32())
}

// AppendUint64 appends one uint64 to the end of payload
func (p *Packet) AppendUint64(v uint64) {
	packetEndian.PutUint64(p.extend(8), v)
}

// ReadUint64 reads one uint64
func (p *Packet) ReadUint64() uint64 {
	return packetEndian.Uint64(p.next(8))
}

// AppendFloat32 appends one float32 to the end of payload
func (p *Packet) AppendFloat32(f float32) {
	p.AppendUint32(math.Float32bits(f))
}

// ReadFloat32 reads one float32
func (p *Packet) ReadFloat32() float32 {
	return math.Float32frombits(p.ReadUint32())
}

// AppendBytes appends slice of bytes to the end of payload
func (p *Packet) AppendBytes(v []byte) {
	copy(p.extend(len(v)), v)
}

// ReadBytes reads bytes of the given size
func (p *Packet) ReadBytes(size int) []byte {
	return p.next(size)
}

// AppendCString appends a zero terminated string
func (p *Packet) AppendCString(s string) {
	p.AppendBytes([]byte(s))
	p.AppendByte(0)
}

// ReadCString reads a zero terminated string
func (p *Packet) ReadCString() string {
	unread := p.UnreadPayload()
	for i, b := range unread {
		if b == 0 {
			s := string(unread[:i])
			p.readCursor += i + 1
			return s
		}
	}
	p.readCursor = len(p.bytes)
	return string(unread)
}
