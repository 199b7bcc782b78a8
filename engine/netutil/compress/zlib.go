package compress

import (
	"bytes"
	"compress/zlib"
	"io"

	"github.com/pkg/errors"
)

// NewZlibCompressor creates a zlib Compressor, it is not safe for concurrent use
func NewZlibCompressor() Compressor {
	writer, err := zlib.NewWriterLevel(io.Discard, zlib.DefaultCompression)
	if err != nil {
		panic(err)
	}
	return &zlibCompressor{
		writer: writer,
	}
}

type zlibCompressor struct {
	writer *zlib.Writer
	reader io.ReadCloser
}

func (zc *zlibCompressor) Compress(b []byte, c []byte) ([]byte, error) {
	wb := bytes.NewBuffer(c)
	zc.writer.Reset(wb)
	n, err := zc.writer.Write(b)
	if err != nil {
		return nil, err
	}
	if n != len(b) {
		return nil, errNotFullyCompressed
	}

	if err = zc.writer.Close(); err != nil {
		return nil, err
	}
	return wb.Bytes(), nil
}

func (zc *zlibCompressor) Decompress(c []byte, b []byte) (err error) {
	if zc.reader == nil {
		zc.reader, err = zlib.NewReader(bytes.NewReader(c))
	} else {
		err = zc.reader.(zlib.Resetter).Reset(bytes.NewReader(c), nil)
	}
	if err != nil {
		return errors.Wrap(err, "zlib reader")
	}
	if _, err = io.ReadFull(zc.reader, b); err != nil {
		return errors.Wrap(err, "zlib decompress")
	}
	return nil
}
