package compress

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/bmizerany/assert"
)

// fieldBlock looks like the value part of a create update: mostly zero words with a few set
func fieldBlock(words int) []byte {
	b := make([]byte, words*4)
	for i := 0; i < words; i += 7 {
		binary.LittleEndian.PutUint32(b[i*4:], uint32(i*31))
	}
	return b
}

func TestZlibRoundTrip(t *testing.T) {
	cr := NewZlibCompressor()
	for _, words := range []int{1, 48, 1234} {
		b := fieldBlock(words)
		prefix := []byte{1, 2, 3, 4}
		c, err := cr.Compress(b, append([]byte(nil), prefix...))
		if err != nil {
			t.Fatal(err)
		}
		assert.Equal(t, prefix, c[:4])

		rb := make([]byte, len(b))
		if err := cr.Decompress(c[4:], rb); err != nil {
			t.Fatal(err)
		}
		assert.T(t, bytes.Equal(b, rb))
	}
}

func TestZlibDecompressErrors(t *testing.T) {
	cr := NewZlibCompressor()
	b := fieldBlock(300)
	c, err := cr.Compress(b, nil)
	if err != nil {
		t.Fatal(err)
	}
	assert.T(t, len(c) < len(b))

	// larger than the content
	assert.T(t, cr.Decompress(c, make([]byte, len(b)+1)) != nil)
	assert.T(t, cr.Decompress([]byte{0x78}, make([]byte, 4)) != nil)
	// the reader is reusable after a failure
	rb := make([]byte, len(b))
	assert.Equal(t, nil, cr.Decompress(c, rb))
}

func TestNewCompressor(t *testing.T) {
	if _, err := NewCompressor("ZLIB"); err != nil {
		t.Errorf("zlib should be supported: %v", err)
	}
	if _, err := NewCompressor("snappy"); err == nil {
		t.Errorf("snappy should not be supported")
	}
}
