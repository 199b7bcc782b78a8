package common

import "fmt"

// GUID is the 64-bit identifier of every world object
type GUID uint64

// HighGuid is the type prefix stored in the high bits of a GUID
type HighGuid uint64

// High guid prefixes
const (
	HighGuidPlayer     HighGuid = 0x00000000
	HighGuidGameObject HighGuid = 0xF1100000
	HighGuidTransport  HighGuid = 0xF1200000
	HighGuidUnit       HighGuid = 0xF1300000
	HighGuidPet        HighGuid = 0xF1400000
	HighGuidItem       HighGuid = 0x40000000
	HighGuidContainer  HighGuid = 0x40000000
)

// MakeGUID combines a high guid prefix and a low counter
func MakeGUID(high HighGuid, low uint32) GUID {
	return GUID(uint64(high)<<32 | uint64(low))
}

// IsNil returns if GUID is zero
func (g GUID) IsNil() bool {
	return g == 0
}

// High returns the high guid prefix
func (g GUID) High() HighGuid {
	return HighGuid(uint64(g) >> 32)
}

// Low returns the low 32 bits of the GUID
func (g GUID) Low() uint32 {
	return uint32(g)
}

func (g GUID) String() string {
	return fmt.Sprintf("0x%016X", uint64(g))
}

// ConnID identifies a client connection in the transport
type ConnID uint64
