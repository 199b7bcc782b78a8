package netutil

import (
	"io"
	"net"

	"github.com/pkg/errors"
)

// IsConnectionError check if the error is a connection error (close)
func IsConnectionError(_err interface{}) bool {
	err, ok := _err.(error)
	if !ok {
		return false
	}

	err = errors.Cause(err)
	if err == io.EOF || err == io.ErrUnexpectedEOF || errors.Is(err, net.ErrClosed) {
		return true
	}

	neterr, ok := err.(net.Error)
	if !ok {
		return false
	}
	return !neterr.Timeout()
}
