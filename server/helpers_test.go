package server

import (
	"math/rand"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"alienarena-server/game"
	"alienarena-server/level"
)

// recordingConn keeps every frame it is sent.
type recordingConn struct {
	mu     sync.Mutex
	frames [][]byte
	full   bool
	closed bool
}

func (c *recordingConn) Send(frame []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.full {
		return false
	}
	c.frames = append(c.frames, frame)
	return true
}

func (c *recordingConn) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

func (c *recordingConn) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.frames)
}

func newTestWorld(t *testing.T) *game.World {
	t.Helper()
	lvl, err := level.Parse("test", []byte(`{"width":20,"height":20,"tilewidth":32,"tileheight":32,"layers":[]}`))
	if err != nil {
		t.Fatalf("parse level: %v", err)
	}
	tn := game.DefaultTuning()
	tn.AlienSpawnOdds = 1e18
	tn.PickupSpawnOdds = 1e18
	return game.NewWorld(lvl, tn, rand.New(rand.NewSource(1)), zaptest.NewLogger(t))
}

func newTestHub(t *testing.T, cfg HubConfig) *Hub {
	t.Helper()
	if cfg.TickInterval == 0 {
		cfg.TickInterval = 10 * time.Millisecond
	}
	if cfg.TickWarnThreshold == 0 {
		cfg.TickWarnThreshold = time.Second
	}
	h, err := NewHub(cfg, newTestWorld(t), JSON, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("new hub: %v", err)
	}
	return h
}
