package session

import (
	"net"
	"testing"
	"time"

	"github.com/Dynat/alpha-core/engine/common"
	"github.com/Dynat/alpha-core/engine/consts"
	"github.com/Dynat/alpha-core/engine/post"
	"github.com/Dynat/alpha-core/engine/proto"
	"github.com/bmizerany/assert"
	"github.com/gorilla/websocket"
)

type received struct {
	conn    common.ConnID
	opcode  proto.Opcode
	payload []byte
}

type recordingHandler struct {
	opened  []*Session
	packets []received
	closed  []*Session
}

func (rh *recordingHandler) OnSessionOpen(s *Session) {
	rh.opened = append(rh.opened, s)
}

func (rh *recordingHandler) OnSessionPacket(s *Session, opcode proto.Opcode, payload []byte) {
	rh.packets = append(rh.packets, received{s.ID, opcode, payload})
}

func (rh *recordingHandler) OnSessionClose(s *Session) {
	rh.closed = append(rh.closed, s)
}

// waitPosted ticks the post queue until done returns true
func waitPosted(t *testing.T, done func() bool) {
	deadline := time.Now().Add(5 * time.Second)
	for !done() {
		if time.Now().After(deadline) {
			t.Fatalf("timeout waiting for session events")
		}
		post.Tick()
		time.Sleep(time.Millisecond)
	}
}

func TestTCPSession(t *testing.T) {
	rh := &recordingHandler{}
	hub := NewHub(rh)
	ln, err := hub.ListenTCP("127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer hub.Shutdown()

	client, err := net.Dial("tcp", ln.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	defer client.Close()
	waitPosted(t, func() bool { return len(rh.opened) == 1 })
	conn := rh.opened[0].ID
	assert.Equal(t, 1, hub.Count())

	assert.Equal(t, nil, hub.Send(conn, proto.MakePacket(proto.SMSG_DESTROY_OBJECT, []byte{1, 2, 3, 4, 5, 6, 7, 8})))
	client.SetReadDeadline(time.Now().Add(5 * time.Second))
	opcode, payload, err := proto.ReadPacket(client)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, proto.SMSG_DESTROY_OBJECT, opcode)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}, payload)

	if _, err := client.Write(proto.MakePacket(proto.Opcode(0x37), []byte{9})); err != nil {
		t.Fatal(err)
	}
	waitPosted(t, func() bool { return len(rh.packets) == 1 })
	assert.Equal(t, received{conn, proto.Opcode(0x37), []byte{9}}, rh.packets[0])

	assert.T(t, hub.Send(conn+100, []byte{0}) != nil)

	client.Close()
	waitPosted(t, func() bool { return len(rh.closed) == 1 })
	assert.Equal(t, 0, hub.Count())
	assert.T(t, hub.Send(conn, proto.MakePacket(proto.SMSG_DESTROY_OBJECT, nil)) != nil)
}

func TestWebSocketSession(t *testing.T) {
	rh := &recordingHandler{}
	hub := NewHub(rh)
	ln, err := hub.ListenWebSocket("127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer hub.Shutdown()

	client, _, err := websocket.DefaultDialer.Dial("ws://"+ln.Addr().String()+"/", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer client.Close()
	waitPosted(t, func() bool { return len(rh.opened) == 1 })

	assert.Equal(t, nil, hub.Send(rh.opened[0].ID, proto.MakePacket(proto.SMSG_UPDATE_OBJECT, []byte{1})))
	client.SetReadDeadline(time.Now().Add(5 * time.Second))
	msgType, data, err := client.ReadMessage()
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, websocket.BinaryMessage, msgType)
	assert.Equal(t, proto.MakePacket(proto.SMSG_UPDATE_OBJECT, []byte{1}), data)

	if err := client.WriteMessage(websocket.BinaryMessage, proto.MakePacket(proto.Opcode(0x1DA), nil)); err != nil {
		t.Fatal(err)
	}
	waitPosted(t, func() bool { return len(rh.packets) == 1 })
	assert.Equal(t, proto.Opcode(0x1DA), rh.packets[0].opcode)
}

func TestShutdownFlushesQueuedPackets(t *testing.T) {
	rh := &recordingHandler{}
	hub := NewHub(rh)
	ln, err := hub.ListenTCP("127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	client, err := net.Dial("tcp", ln.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	defer client.Close()
	waitPosted(t, func() bool { return len(rh.opened) == 1 })

	for i := 0; i < 10; i++ {
		assert.Equal(t, nil, hub.Send(rh.opened[0].ID, proto.MakePacket(proto.SMSG_UPDATE_OBJECT, []byte{byte(i)})))
	}
	hub.Shutdown()

	client.SetReadDeadline(time.Now().Add(5 * time.Second))
	for i := 0; i < 10; i++ {
		_, payload, err := proto.ReadPacket(client)
		if err != nil {
			t.Fatalf("packet %d: %s", i, err)
		}
		assert.Equal(t, []byte{byte(i)}, payload)
	}
	if _, _, err := proto.ReadPacket(client); err == nil {
		t.Errorf("connection should be closed after shutdown")
	}
}

type idleConn struct{}

func (idleConn) ReadPacket() (proto.Opcode, []byte, error) { select {} }
func (idleConn) WritePacket(data []byte) error             { return nil }
func (idleConn) Flush() error                              { return nil }
func (idleConn) Close() error                              { return nil }
func (idleConn) RemoteAddr() net.Addr                      { return &net.TCPAddr{} }

func TestSendQueueFull(t *testing.T) {
	s := newSession(1, idleConn{})
	for i := 0; i < consts.SESSION_SEND_QUEUE_SIZE; i++ {
		if err := s.Send([]byte{0}); err != nil {
			t.Fatalf("send %d failed: %s", i, err)
		}
	}
	assert.T(t, s.Send([]byte{0}) != nil)
	assert.T(t, s.IsClosed())
	assert.T(t, s.Send([]byte{0}) != nil)
}
