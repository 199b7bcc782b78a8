package session

import (
	"io"
	"net"

	"github.com/Dynat/alpha-core/engine/consts"
	"github.com/Dynat/alpha-core/engine/proto"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/xiaonanln/netconnutil"
)

// packetConn is a client connection carrying framed world packets
type packetConn interface {
	ReadPacket() (proto.Opcode, []byte, error)
	WritePacket(data []byte) error
	Flush() error
	Close() error
	RemoteAddr() net.Addr
}

type rawConn struct {
	net.Conn
}

func (rc rawConn) Flush() error {
	return nil
}

// tcpConn is a buffered TCP stream of packets, writes are sent on Flush
type tcpConn struct {
	conn netconnutil.FlushableConn
}

func newTCPConn(_conn net.Conn) *tcpConn {
	_conn = netconnutil.NewNoTempErrorConn(_conn)
	var conn netconnutil.FlushableConn = rawConn{_conn}
	conn = netconnutil.NewBufferedConn(conn, consts.BUFFERED_READ_BUFFSIZE, consts.BUFFERED_WRITE_BUFFSIZE)
	return &tcpConn{conn: conn}
}

func (tc *tcpConn) ReadPacket() (proto.Opcode, []byte, error) {
	return proto.ReadPacket(tc.conn)
}

func (tc *tcpConn) WritePacket(data []byte) error {
	_, err := tc.conn.Write(data)
	return err
}

func (tc *tcpConn) Flush() error {
	return tc.conn.Flush()
}

func (tc *tcpConn) Close() error {
	return tc.conn.Close()
}

func (tc *tcpConn) RemoteAddr() net.Addr {
	return tc.conn.RemoteAddr()
}

// wsConn carries one packet per binary websocket message
type wsConn struct {
	conn *websocket.Conn
}

func newWSConn(conn *websocket.Conn) *wsConn {
	conn.SetReadLimit(consts.WEBSOCKET_MAX_READ_SIZE)
	return &wsConn{conn: conn}
}

func (wc *wsConn) ReadPacket() (proto.Opcode, []byte, error) {
	msgType, data, err := wc.conn.ReadMessage()
	if _, ok := err.(*websocket.CloseError); ok {
		return 0, nil, io.EOF
	} else if err != nil {
		return 0, nil, err
	}
	if msgType != websocket.BinaryMessage {
		return 0, nil, errors.Errorf("unexpected websocket message type %d", msgType)
	}
	return proto.ParsePacket(data)
}

func (wc *wsConn) WritePacket(data []byte) error {
	return wc.conn.WriteMessage(websocket.BinaryMessage, data)
}

func (wc *wsConn) Flush() error {
	return nil
}

func (wc *wsConn) Close() error {
	return wc.conn.Close()
}

func (wc *wsConn) RemoteAddr() net.Addr {
	return wc.conn.RemoteAddr()
}
