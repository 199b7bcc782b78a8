// Package session accepts game client connections over TCP and WebSocket and delivers packets to them.
//
// Hub is the transport of the entity manager: Send only queues the packet, every session writes on
// its own goroutine. Session events are posted to the logic goroutine through package post.
package session

import (
	"net"
	"net/http"
	"time"

	"github.com/Dynat/alpha-core/engine/common"
	"github.com/Dynat/alpha-core/engine/consts"
	"github.com/Dynat/alpha-core/engine/gwlog"
	"github.com/Dynat/alpha-core/engine/netutil"
	"github.com/Dynat/alpha-core/engine/post"
	"github.com/Dynat/alpha-core/engine/proto"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/remeh/sizedwaitgroup"
	"github.com/sasha-s/go-deadlock"
)

// Handler receives session events on the logic goroutine
type Handler interface {
	OnSessionOpen(s *Session)
	OnSessionPacket(s *Session, opcode proto.Opcode, payload []byte)
	OnSessionClose(s *Session)
}

// Hub owns the sessions of all connected clients
type Hub struct {
	handler   Handler
	upgrader  websocket.Upgrader
	lock      deadlock.RWMutex
	sessions  map[common.ConnID]*Session
	nextID    common.ConnID
	listeners []net.Listener
	servers   []*http.Server
}

// NewHub creates a hub posting session events to handler
func NewHub(handler Handler) *Hub {
	return &Hub{
		handler: handler,
		upgrader: websocket.Upgrader{
			EnableCompression: false,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		sessions: map[common.ConnID]*Session{},
	}
}

// Send queues the framed packet to the session of conn
func (h *Hub) Send(conn common.ConnID, data []byte) error {
	s := h.Session(conn)
	if s == nil {
		return errors.Errorf("session %d not found", conn)
	}
	return s.Send(data)
}

// Session returns the session of conn, nil if not connected
func (h *Hub) Session(conn common.ConnID) *Session {
	h.lock.RLock()
	s := h.sessions[conn]
	h.lock.RUnlock()
	return s
}

// Count returns the number of connected sessions
func (h *Hub) Count() int {
	h.lock.RLock()
	defer h.lock.RUnlock()
	return len(h.sessions)
}

// Kick closes the session of conn
func (h *Hub) Kick(conn common.ConnID) {
	if s := h.Session(conn); s != nil {
		s.Close()
	}
}

// ListenTCP listens on addr and serves TCP clients in background
func (h *Hub) ListenTCP(addr string) (net.Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "listen tcp %s", addr)
	}
	gwlog.Infof("Listening on TCP: %s ...", ln.Addr())
	h.lock.Lock()
	h.listeners = append(h.listeners, ln)
	h.lock.Unlock()
	go h.ServeTCP(ln)
	return ln, nil
}

// ServeTCP accepts clients until the listener is closed
func (h *Hub) ServeTCP(ln net.Listener) error {
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				time.Sleep(time.Millisecond * 10)
				continue
			}
			if netutil.IsConnectionError(err) {
				return nil
			}
			gwlog.Errorf("accept on %s failed: %s", ln.Addr(), err)
			return err
		}

		gwlog.Infof("Connection from: %s", conn.RemoteAddr())
		go h.serve(newTCPConn(conn))
	}
}

// ListenWebSocket serves websocket clients on addr in background
func (h *Hub) ListenWebSocket(addr string) (net.Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "listen websocket %s", addr)
	}
	gwlog.Infof("Listening on WebSocket: %s ...", ln.Addr())
	server := &http.Server{Handler: h}
	h.lock.Lock()
	h.servers = append(h.servers, server)
	h.lock.Unlock()
	go func() {
		if err := server.Serve(ln); err != nil && err != http.ErrServerClosed {
			gwlog.Errorf("websocket server on %s failed: %s", ln.Addr(), err)
		}
	}()
	return ln, nil
}

// ServeHTTP upgrades the request to a websocket session
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		gwlog.Warnf("websocket upgrade from %s failed: %s", r.RemoteAddr, err)
		return
	}
	go h.serve(newWSConn(c))
}

func (h *Hub) add(conn packetConn) *Session {
	h.lock.Lock()
	h.nextID++
	s := newSession(h.nextID, conn)
	h.sessions[s.ID] = s
	h.lock.Unlock()
	return s
}

func (h *Hub) remove(s *Session) {
	h.lock.Lock()
	if h.sessions[s.ID] == s {
		delete(h.sessions, s.ID)
	}
	h.lock.Unlock()
}

func (h *Hub) serve(conn packetConn) {
	s := h.add(conn)
	go s.writeLoop()
	if h.handler != nil {
		post.Post(func() {
			h.handler.OnSessionOpen(s)
		})
	}

	defer func() {
		s.Close()
		h.remove(s)
		if h.handler != nil {
			post.Post(func() {
				h.handler.OnSessionClose(s)
			})
		}
		if err := recover(); err != nil {
			gwlog.TraceError("%s paniced: %v", s, err)
		}
	}()

	for {
		opcode, payload, err := conn.ReadPacket()
		if err != nil {
			if netutil.IsConnectionError(err) || s.IsClosed() {
				gwlog.Debugf("%s disconnected", s)
			} else {
				gwlog.Warnf("%s: read failed: %s", s, err)
			}
			return
		}
		if consts.DEBUG_SESSIONS {
			gwlog.Debugf("%s: recv %s, %d bytes", s, opcode, len(payload))
		}
		if h.handler != nil {
			post.Post(func() {
				h.handler.OnSessionPacket(s, opcode, payload)
			})
		}
	}
}

// Shutdown stops the listeners and closes every session after its queued packets are flushed
func (h *Hub) Shutdown() {
	h.lock.Lock()
	listeners, servers := h.listeners, h.servers
	h.listeners, h.servers = nil, nil
	sessions := make([]*Session, 0, len(h.sessions))
	for _, s := range h.sessions {
		sessions = append(sessions, s)
	}
	h.lock.Unlock()

	for _, ln := range listeners {
		ln.Close()
	}
	for _, server := range servers {
		server.Close()
	}

	swg := sizedwaitgroup.New(consts.SESSION_SHUTDOWN_FLUSH_PARALLEL)
	for _, s := range sessions {
		swg.Add()
		go func(s *Session) {
			defer swg.Done()
			s.Close()
			<-s.Done()
		}(s)
	}
	swg.Wait()
	gwlog.Infof("Hub shutdown: %d sessions closed", len(sessions))
}
