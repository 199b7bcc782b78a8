package session

import (
	"fmt"
	"sync"

	"github.com/Dynat/alpha-core/engine/common"
	"github.com/Dynat/alpha-core/engine/consts"
	"github.com/Dynat/alpha-core/engine/gwlog"
	"github.com/Dynat/alpha-core/engine/netutil"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Session is one connected game client
type Session struct {
	ID        common.ConnID
	uuid      string
	conn      packetConn
	sendQueue chan []byte
	closeOnce sync.Once
	closing   chan struct{}
	done      chan struct{}
}

func newSession(id common.ConnID, conn packetConn) *Session {
	return &Session{
		ID:        id,
		uuid:      uuid.NewString(),
		conn:      conn,
		sendQueue: make(chan []byte, consts.SESSION_SEND_QUEUE_SIZE),
		closing:   make(chan struct{}),
		done:      make(chan struct{}),
	}
}

func (s *Session) String() string {
	return fmt.Sprintf("Session<%d|%s@%s>", s.ID, s.uuid, s.conn.RemoteAddr())
}

// UUID returns the unique identifier of the session for logs
func (s *Session) UUID() string {
	return s.uuid
}

// Send queues the framed packet, it never blocks
func (s *Session) Send(data []byte) error {
	select {
	case <-s.closing:
		return errors.Errorf("%s is closed", s)
	default:
	}

	select {
	case s.sendQueue <- data:
		return nil
	default:
		s.Close()
		return errors.Errorf("%s: send queue is full", s)
	}
}

// Close stops the session after the queued packets are written
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.closing)
	})
}

// IsClosed returns if the session is closing or closed
func (s *Session) IsClosed() bool {
	select {
	case <-s.closing:
		return true
	default:
		return false
	}
}

// Done is closed when the writer has flushed and closed the connection
func (s *Session) Done() <-chan struct{} {
	return s.done
}

func (s *Session) writeLoop() {
	defer func() {
		s.conn.Close()
		close(s.done)
	}()

	for {
		select {
		case data := <-s.sendQueue:
			if err := s.write(data); err != nil {
				s.logWriteError(err)
				s.Close()
				return
			}
		case <-s.closing:
			if err := s.drain(); err != nil {
				s.logWriteError(err)
			}
			return
		}
	}
}

// write writes the packet and every packet queued after it, then flushes
func (s *Session) write(data []byte) error {
	if consts.DEBUG_SESSIONS {
		gwlog.Debugf("%s: write %d bytes", s, len(data))
	}
	if err := s.conn.WritePacket(data); err != nil {
		return err
	}
	for {
		select {
		case data := <-s.sendQueue:
			if err := s.conn.WritePacket(data); err != nil {
				return err
			}
		default:
			return s.conn.Flush()
		}
	}
}

func (s *Session) drain() error {
	select {
	case data := <-s.sendQueue:
		return s.write(data)
	default:
		return s.conn.Flush()
	}
}

func (s *Session) logWriteError(err error) {
	if netutil.IsConnectionError(err) {
		gwlog.Debugf("%s: write failed: %s", s, err)
	} else {
		gwlog.Errorf("%s: write failed: %s", s, err)
	}
}
