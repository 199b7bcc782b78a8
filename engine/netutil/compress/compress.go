package compress

import (
	"strings"

	"github.com/pkg/errors"
)

// Compressor compresses and decompresses byte slices
type Compressor interface {
	// Compress appends the compressed form of b to c
	Compress(b []byte, c []byte) ([]byte, error)
	// Decompress fills b with the decompressed content of c, b must have the exact decompressed size
	Decompress(c []byte, b []byte) error
}

var (
	errNotFullyCompressed = errors.Errorf("not fully compressed")
)

// NewCompressor creates the compressor of the given format
func NewCompressor(compressFormat string) (Compressor, error) {
	switch strings.ToLower(compressFormat) {
	case "zlib":
		return NewZlibCompressor(), nil
	default:
		return nil, errors.Errorf("unknown compress format: %s", compressFormat)
	}
}
