package server

import (
	"go.uber.org/zap"

	"alienarena-server/game"
)

// Conn is the outbound side of one client connection.
type Conn interface {
	// Send queues a frame without blocking. It reports false when the frame
	// was dropped.
	Send(frame []byte) bool
	Close()
}

// Broadcaster sends a snapshot to every connection only when it differs from
// the last one sent. The baseline is a private copy, so later mutation of a
// snapshot handed to Offer cannot change what the next tick is compared to.
type Broadcaster struct {
	codec Codec
	log   *zap.Logger

	baseline      game.Snapshot
	baselineFrame []byte

	conns map[string]Conn
	order []string

	sent    uint64
	skipped uint64
	dropped uint64
}

// NewBroadcaster starts with initial as the baseline.
func NewBroadcaster(codec Codec, initial game.Snapshot, log *zap.Logger) (*Broadcaster, error) {
	frame, err := codec.EncodeSnapshot(initial)
	if err != nil {
		return nil, err
	}
	return &Broadcaster{
		codec:         codec,
		log:           log,
		baseline:      initial.Clone(),
		baselineFrame: frame,
		conns:         make(map[string]Conn),
	}, nil
}

// Add registers a connection and immediately sends it the baseline.
func (b *Broadcaster) Add(id string, c Conn) {
	if _, ok := b.conns[id]; !ok {
		b.order = append(b.order, id)
	}
	b.conns[id] = c
	b.send(id, c, b.baselineFrame)
}

// Remove unregisters a connection and returns it.
func (b *Broadcaster) Remove(id string) (Conn, bool) {
	c, ok := b.conns[id]
	if !ok {
		return nil, false
	}
	delete(b.conns, id)
	for i, other := range b.order {
		if other == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
	return c, true
}

// Offer compares s with the baseline and transmits it if anything changed. It
// reports whether a frame went out.
func (b *Broadcaster) Offer(s game.Snapshot) (bool, error) {
	if s.Equal(b.baseline) {
		b.skipped++
		return false, nil
	}
	frame, err := b.codec.EncodeSnapshot(s)
	if err != nil {
		return false, err
	}
	for _, id := range b.order {
		b.send(id, b.conns[id], frame)
	}
	b.baseline = s.Clone()
	b.baselineFrame = frame
	b.sent++
	return true, nil
}

func (b *Broadcaster) send(id string, c Conn, frame []byte) {
	if !c.Send(frame) {
		b.dropped++
		b.log.Debug("client send buffer full, frame dropped", zap.String("client", id))
	}
}

// Baseline is a copy of the last snapshot sent.
func (b *Broadcaster) Baseline() game.Snapshot {
	return b.baseline.Clone()
}

// Len is the number of registered connections.
func (b *Broadcaster) Len() int {
	return len(b.order)
}

// Each calls fn for every connection in registration order.
func (b *Broadcaster) Each(fn func(id string, c Conn)) {
	for _, id := range b.order {
		fn(id, b.conns[id])
	}
}
