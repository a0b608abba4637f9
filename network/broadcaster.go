// Package network streams world snapshots to websocket viewers.
package network

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/lixenwraith/planar/core"
	"github.com/lixenwraith/planar/engine"
	"github.com/lixenwraith/planar/event"
	"github.com/lixenwraith/planar/log"
)

var ErrMaxClients = errors.New("network: max clients reached")

// CommandHandler receives commands sent by viewers, e.g. "pause" or "resume"
type CommandHandler func(client uuid.UUID, command string)

// Broadcaster fans out encoded frames to every connected viewer
// Publish never blocks the simulation: a full client queue drops that frame for that client
type Broadcaster struct {
	config   *Config
	session  string
	upgrader websocket.Upgrader
	logger   log.Log

	mu        sync.RWMutex
	clients   map[uuid.UUID]*client
	pending   int // slots reserved by upgrades in flight
	onCommand CommandHandler
	queueSize int

	published atomic.Uint64
	dropped   atomic.Uint64
}

// client is one connected viewer
type client struct {
	id     uuid.UUID
	conn   *websocket.Conn
	sendCh chan []byte

	closeCh   chan struct{}
	closeOnce sync.Once
}

func (c *client) close() {
	c.closeOnce.Do(func() {
		close(c.closeCh)
		c.conn.Close()
	})
}

// NewBroadcaster creates a broadcaster for session
func NewBroadcaster(cfg *Config, session uuid.UUID, logger log.Log) *Broadcaster {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = log.Nop()
	}
	return &Broadcaster{
		config:  cfg,
		session: session.String(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
		},
		logger:    logger.With(log.String("component", "broadcaster")),
		clients:   make(map[uuid.UUID]*client),
		queueSize: max(cfg.SendQueueSize, 1),
	}
}

// OnCommand sets the handler for viewer commands
func (b *Broadcaster) OnCommand(fn CommandHandler) {
	b.mu.Lock()
	b.onCommand = fn
	b.mu.Unlock()
}

// ServeHTTP upgrades the request and registers the viewer
func (b *Broadcaster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !b.reserve() {
		http.Error(w, ErrMaxClients.Error(), http.StatusServiceUnavailable)
		return
	}

	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		b.mu.Lock()
		b.pending--
		b.mu.Unlock()
		b.logger.Warn("websocket upgrade failed", log.Err(err))
		return
	}

	c := &client{
		id:      uuid.New(),
		conn:    conn,
		sendCh:  make(chan []byte, b.queueSize),
		closeCh: make(chan struct{}),
	}

	hello, err := json.Marshal(Message{Type: MsgHello, Session: b.session, Client: c.id.String()})
	if err == nil {
		c.sendCh <- hello
	}

	b.mu.Lock()
	b.pending--
	b.clients[c.id] = c
	b.mu.Unlock()

	b.logger.Info("viewer connected",
		log.String("client", c.id.String()),
		log.String("remote", conn.RemoteAddr().String()),
	)

	core.Go(func() { b.writeLoop(c) })
	b.readLoop(c)
}

// reserve claims a client slot before the upgrade, checked and taken under one lock
func (b *Broadcaster) reserve() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.clients)+b.pending >= b.config.MaxClients {
		return false
	}
	b.pending++
	return true
}

// readLoop handles inbound commands and pongs until the connection drops
func (b *Broadcaster) readLoop(c *client) {
	defer b.remove(c)

	c.conn.SetReadLimit(b.config.ReadLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(b.config.PongTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(b.config.PongTimeout))
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				b.logger.Debug("viewer read failed", log.String("client", c.id.String()), log.Err(err))
			}
			return
		}
		if msg.Type != MsgCommand || msg.Command == "" {
			continue
		}

		b.mu.RLock()
		fn := b.onCommand
		b.mu.RUnlock()
		if fn != nil {
			fn(c.id, msg.Command)
		}
	}
}

// writeLoop drains the client queue and keeps the connection alive with pings
func (b *Broadcaster) writeLoop(c *client) {
	ticker := time.NewTicker(b.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case <-c.closeCh:
			return
		case frame := <-c.sendCh:
			_ = c.conn.SetWriteDeadline(time.Now().Add(b.config.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(b.config.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (b *Broadcaster) remove(c *client) {
	c.close()
	b.mu.Lock()
	delete(b.clients, c.id)
	b.mu.Unlock()
	b.logger.Info("viewer disconnected", log.String("client", c.id.String()))
}

// broadcast queues frame on every client and returns how many accepted it
func (b *Broadcaster) broadcast(frame []byte) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	sent := 0
	for _, c := range b.clients {
		select {
		case c.sendCh <- frame:
			sent++
		default:
			b.dropped.Add(1)
		}
	}
	b.published.Add(1)
	return sent
}

// Publish encodes snap once and queues it for every viewer
func (b *Broadcaster) Publish(snap engine.Snapshot) (int, error) {
	if b.Clients() == 0 {
		return 0, nil
	}
	frame, err := EncodeSnapshot(b.session, snap)
	if err != nil {
		return 0, fmt.Errorf("network: encode snapshot: %w", err)
	}
	return b.broadcast(frame), nil
}

// PublishEvents queues a batch of events, empty batches are skipped
func (b *Broadcaster) PublishEvents(step uint64, events []event.Event) (int, error) {
	if len(events) == 0 || b.Clients() == 0 {
		return 0, nil
	}
	frame, err := EncodeEvents(b.session, step, events)
	if err != nil {
		return 0, fmt.Errorf("network: encode events: %w", err)
	}
	return b.broadcast(frame), nil
}

// Clients returns the number of connected viewers
func (b *Broadcaster) Clients() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

// Stats returns frames published and per-client drops
func (b *Broadcaster) Stats() (published, dropped uint64) {
	return b.published.Load(), b.dropped.Load()
}

// Close disconnects every viewer
func (b *Broadcaster) Close() {
	b.mu.RLock()
	clients := make([]*client, 0, len(b.clients))
	for _, c := range b.clients {
		clients = append(clients, c)
	}
	b.mu.RUnlock()

	for _, c := range clients {
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutdown"),
			time.Now().Add(b.config.WriteTimeout))
		c.close()
	}
}

// ListenAndServe serves the websocket endpoint until ctx is cancelled
func (b *Broadcaster) ListenAndServe(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle(b.config.Path, b)

	srv := &http.Server{
		Addr:              b.config.Address,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	core.Go(func() {
		b.logger.Info("broadcaster listening", log.String("address", b.config.Address), log.String("path", b.config.Path))
		errCh <- srv.ListenAndServe()
	})

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("network: listen: %w", err)
	case <-ctx.Done():
		b.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), b.config.WriteTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("network: shutdown: %w", err)
		}
		return nil
	}
}
