// Package server runs the simulation loop and connects it to websocket
// clients.
package server

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"alienarena-server/game"
)

var (
	// ErrMaintenanceRestart stops the hub so a supervisor can restart the
	// process.
	ErrMaintenanceRestart = errors.New("maintenance restart")
	ErrHubClosed          = errors.New("hub closed")
)

// RestartPolicy asks for a restart once the process has been up for
// MinUptime and the UTC clock is in hour UTCHour. A negative hour disables it.
type RestartPolicy struct {
	MinUptime time.Duration
	UTCHour   int
}

// Due reports whether a restart should happen now.
func (p RestartPolicy) Due(started, now time.Time) bool {
	if p.UTCHour < 0 {
		return false
	}
	return now.Sub(started) >= p.MinUptime && now.UTC().Hour() == p.UTCHour
}

// Stats is published after every tick.
type Stats struct {
	Level        string        `json:"level"`
	Ticks        uint64        `json:"ticks"`
	LastTick     time.Duration `json:"lastTickNs"`
	MaxTick      time.Duration `json:"maxTickNs"`
	SlowTicks    uint64        `json:"slowTicks"`
	LastSlowTick time.Time     `json:"lastSlowTick"`
	Players      int           `json:"players"`
	Aliens       int           `json:"aliens"`
	Pickups      int           `json:"pickups"`
	Bullets      int           `json:"bullets"`
	Sent         uint64        `json:"broadcastsSent"`
	Skipped      uint64        `json:"broadcastsSkipped"`
	Dropped      uint64        `json:"framesDropped"`
	Connections  int           `json:"connections"`
	Started      time.Time     `json:"started"`
	Updated      time.Time     `json:"updated"`
}

type eventKind int

const (
	eventConnect eventKind = iota
	eventDisconnect
	eventIntent
)

type event struct {
	kind   eventKind
	id     string
	conn   Conn
	intent game.Intent
}

// HubConfig holds the loop timing.
type HubConfig struct {
	TickInterval      time.Duration
	TickWarnThreshold time.Duration
	Restart           RestartPolicy
}

// Hub owns the world. Connection events and ticks are handled one at a time
// on the goroutine running Run, so the world is never touched concurrently.
type Hub struct {
	cfg   HubConfig
	world *game.World
	bc    *Broadcaster
	log   *zap.Logger
	now   func() time.Time

	events chan event
	done   chan struct{}

	started time.Time
	stats   Stats
	latest  atomic.Pointer[Stats]
}

// NewHub wraps world. The current world state becomes the first baseline.
func NewHub(cfg HubConfig, world *game.World, codec Codec, log *zap.Logger) (*Hub, error) {
	bc, err := NewBroadcaster(codec, world.Snapshot(), log)
	if err != nil {
		return nil, err
	}
	h := &Hub{
		cfg:    cfg,
		world:  world,
		bc:     bc,
		log:    log,
		now:    time.Now,
		events: make(chan event, 256),
		done:   make(chan struct{}),
	}
	h.started = h.now()
	h.stats.Started = h.started
	h.publish()
	return h, nil
}

// Run drives the tick loop until ctx is cancelled or a maintenance restart is
// due. Every connection is closed on return.
func (h *Hub) Run(ctx context.Context) error {
	ticker := time.NewTicker(h.cfg.TickInterval)
	defer func() {
		ticker.Stop()
		close(h.done)
		h.closeAll()
	}()

	h.log.Info("simulation started",
		zap.String("level", h.world.Level().Name),
		zap.Duration("tick", h.cfg.TickInterval))

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-h.events:
			h.handle(ev)
		case <-ticker.C:
			now := h.now()
			h.tick(now)
			if h.cfg.Restart.Due(h.started, now) {
				h.log.Warn("maintenance restart due", zap.Duration("uptime", now.Sub(h.started)))
				return ErrMaintenanceRestart
			}
		}
	}
}

// Connect registers a new connection. The connection receives the current
// baseline before its player exists.
func (h *Hub) Connect(id string, c Conn) error {
	return h.submit(event{kind: eventConnect, id: id, conn: c})
}

// Disconnect removes the player and closes the connection.
func (h *Hub) Disconnect(id string) error {
	return h.submit(event{kind: eventDisconnect, id: id})
}

// SubmitIntent replaces the stored intent of a connection from the next tick
// on.
func (h *Hub) SubmitIntent(id string, in game.Intent) error {
	return h.submit(event{kind: eventIntent, id: id, intent: in})
}

func (h *Hub) submit(ev event) error {
	select {
	case <-h.done:
		return ErrHubClosed
	default:
	}
	select {
	case h.events <- ev:
		return nil
	case <-h.done:
		return ErrHubClosed
	}
}

// Stats returns the figures published after the most recent tick.
func (h *Hub) Stats() Stats {
	return *h.latest.Load()
}

func (h *Hub) handle(ev event) {
	switch ev.kind {
	case eventConnect:
		h.bc.Add(ev.id, ev.conn)
		if h.world.AddPlayer(ev.id) == nil {
			h.log.Warn("duplicate connection id", zap.String("client", ev.id))
		}
	case eventDisconnect:
		h.world.RemovePlayer(ev.id)
		if c, ok := h.bc.Remove(ev.id); ok {
			c.Close()
		}
	case eventIntent:
		h.world.SetIntent(ev.id, ev.intent)
		return
	}
	h.publish()
}

func (h *Hub) tick(now time.Time) {
	start := time.Now()
	snap := h.world.Tick(now)
	if _, err := h.bc.Offer(snap); err != nil {
		h.log.Error("broadcast failed", zap.Error(err))
	}
	elapsed := time.Since(start)

	s := &h.stats
	s.Ticks++
	s.LastTick = elapsed
	s.MaxTick = max(s.MaxTick, elapsed)
	if elapsed > h.cfg.TickWarnThreshold {
		s.SlowTicks++
		s.LastSlowTick = now
		h.log.Warn("tick over budget",
			zap.Duration("elapsed", elapsed),
			zap.Duration("threshold", h.cfg.TickWarnThreshold))
	}
	s.Updated = now
	h.publish()
}

func (h *Hub) publish() {
	c := h.world.Counts()
	s := h.stats
	s.Level = h.world.Level().Name
	s.Players, s.Aliens, s.Pickups, s.Bullets = c.Players, c.Aliens, c.Pickups, c.Bullets
	s.Sent, s.Skipped, s.Dropped = h.bc.sent, h.bc.skipped, h.bc.dropped
	s.Connections = h.bc.Len()
	h.latest.Store(&s)
}

func (h *Hub) closeAll() {
	h.bc.Each(func(id string, c Conn) {
		c.Close()
	})
}
