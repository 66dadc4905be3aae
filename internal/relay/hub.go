// Package relay is a stateless WebSocket fan-out: every message a peer sends
// is forwarded verbatim to every other connected peer.
package relay

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultBufferSize is the per-peer outbound queue length
	DefaultBufferSize = 16

	// DefaultWriteTimeout bounds a single outbound write
	DefaultWriteTimeout = 5 * time.Second
)

// HubConfig tunes a Hub. Zero values use the defaults.
type HubConfig struct {
	BufferSize   int
	WriteTimeout time.Duration
}

type message struct {
	typ  websocket.MessageType
	data []byte
}

type peer struct {
	send chan message
}

// Hub accepts WebSocket peers and fans their messages out
type Hub struct {
	bufferSize   int
	writeTimeout time.Duration

	mu    sync.RWMutex
	peers map[*peer]struct{}
}

// NewHub creates an empty hub
func NewHub(cfg *HubConfig) *Hub {
	h := &Hub{
		bufferSize:   DefaultBufferSize,
		writeTimeout: DefaultWriteTimeout,
		peers:        make(map[*peer]struct{}),
	}
	if cfg != nil {
		if cfg.BufferSize > 0 {
			h.bufferSize = cfg.BufferSize
		}
		if cfg.WriteTimeout > 0 {
			h.writeTimeout = cfg.WriteTimeout
		}
	}
	return h
}

// PeerCount returns the number of connected peers
func (h *Hub) PeerCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.peers)
}

// ServeHTTP upgrades the request and relays until the peer disconnects
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		slog.Error("Failed to accept relay connection", "error", err)
		return
	}
	defer conn.CloseNow()

	p := h.add()
	defer h.remove(p)
	slog.Debug("Relay peer connected", "remote", r.RemoteAddr, "peers", h.PeerCount())

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		return h.readLoop(ctx, conn, p)
	})
	g.Go(func() error {
		return h.writeLoop(ctx, conn, p)
	})

	err = g.Wait()
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		slog.Debug("Relay peer disconnected", "remote", r.RemoteAddr)
	default:
		slog.Debug("Relay peer dropped", "remote", r.RemoteAddr, "error", err)
	}
}

func (h *Hub) readLoop(ctx context.Context, conn *websocket.Conn, p *peer) error {
	for {
		typ, data, err := conn.Read(ctx)
		if err != nil {
			return err
		}
		h.broadcast(p, message{typ: typ, data: data})
	}
}

func (h *Hub) writeLoop(ctx context.Context, conn *websocket.Conn, p *peer) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m := <-p.send:
			wctx, cancel := context.WithTimeout(ctx, h.writeTimeout)
			err := conn.Write(wctx, m.typ, m.data)
			cancel()
			if err != nil {
				return err
			}
		}
	}
}

func (h *Hub) add() *peer {
	p := &peer{send: make(chan message, h.bufferSize)}
	h.mu.Lock()
	h.peers[p] = struct{}{}
	h.mu.Unlock()
	return p
}

func (h *Hub) remove(p *peer) {
	h.mu.Lock()
	delete(h.peers, p)
	h.mu.Unlock()
}

// broadcast queues m for every peer except from. A full queue drops m for
// that peer only.
func (h *Hub) broadcast(from *peer, m message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for p := range h.peers {
		if p == from {
			continue
		}
		select {
		case p.send <- m:
		default:
			slog.Debug("Relay peer queue full, dropping message", "bytes", len(m.data))
		}
	}
}
