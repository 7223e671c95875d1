package server

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"alienarena-server/game"
)

func TestConnectSendsBaselineBeforePlayerExists(t *testing.T) {
	h := newTestHub(t, HubConfig{Restart: RestartPolicy{UTCHour: -1}})
	conn := &recordingConn{}
	h.handle(event{kind: eventConnect, id: "c1", conn: conn})

	if conn.count() != 1 {
		t.Fatalf("expected the baseline immediately, got %d frames", conn.count())
	}
	var first game.Snapshot
	if err := json.Unmarshal(conn.frames[0], &first); err != nil {
		t.Fatal(err)
	}
	if len(first.Players) != 0 || first.Level != "test" {
		t.Fatalf("expected an empty baseline for level test, got %+v", first)
	}

	h.tick(time.Now())
	if conn.count() != 2 {
		t.Fatalf("expected one update after the first tick, got %d frames", conn.count())
	}
	var second game.Snapshot
	if err := json.Unmarshal(conn.frames[1], &second); err != nil {
		t.Fatal(err)
	}
	if len(second.Players) != 1 || second.Players[0].ID != "c1" {
		t.Fatalf("expected player c1 in the update, got %+v", second.Players)
	}

	// Nothing changes without input, so the next tick stays silent.
	h.tick(time.Now())
	if conn.count() != 2 {
		t.Fatalf("expected an unchanged tick to send nothing, got %d frames", conn.count())
	}
}

func TestIntentAppliesOnNextTick(t *testing.T) {
	h := newTestHub(t, HubConfig{Restart: RestartPolicy{UTCHour: -1}})
	conn := &recordingConn{}
	h.handle(event{kind: eventConnect, id: "c1", conn: conn})
	h.handle(event{kind: eventIntent, id: "c1", intent: game.Intent{Forward: true}})

	h.tick(time.Now())
	var snap game.Snapshot
	if err := json.Unmarshal(conn.frames[len(conn.frames)-1], &snap); err != nil {
		t.Fatal(err)
	}
	if snap.Players[0].Y != 326 {
		t.Fatalf("expected the player to step forward to y=326, got %v", snap.Players[0].Y)
	}
}

func TestDisconnectRemovesPlayerAndClosesConn(t *testing.T) {
	h := newTestHub(t, HubConfig{Restart: RestartPolicy{UTCHour: -1}})
	conn := &recordingConn{}
	h.handle(event{kind: eventConnect, id: "c1", conn: conn})
	h.handle(event{kind: eventDisconnect, id: "c1"})

	if !conn.closed {
		t.Fatal("expected the connection to be closed")
	}
	if st := h.Stats(); st.Players != 0 || st.Connections != 0 {
		t.Fatalf("expected no players or connections, got %+v", st)
	}
	// A second disconnect for the same id is harmless.
	h.handle(event{kind: eventDisconnect, id: "c1"})
}

func TestStatsCountSlowTicks(t *testing.T) {
	h := newTestHub(t, HubConfig{TickWarnThreshold: -1, Restart: RestartPolicy{UTCHour: -1}})
	h.handle(event{kind: eventConnect, id: "c1", conn: &recordingConn{}})
	h.tick(time.Now())
	h.tick(time.Now())

	st := h.Stats()
	if st.Ticks != 2 || st.SlowTicks != 2 {
		t.Fatalf("expected 2 ticks both over budget, got %+v", st)
	}
	if st.Sent != 1 || st.Skipped != 1 {
		t.Fatalf("expected 1 sent and 1 skipped broadcast, got sent=%d skipped=%d", st.Sent, st.Skipped)
	}
	if st.Players != 1 || st.Connections != 1 {
		t.Fatalf("expected 1 player and 1 connection, got %+v", st)
	}
}

func TestRestartPolicy(t *testing.T) {
	started := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	p := RestartPolicy{MinUptime: time.Hour, UTCHour: 10}

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"too early in uptime", started.Add(45 * time.Minute), false},
		{"uptime reached inside window", started.Add(time.Hour), true},
		{"uptime reached outside window", started.Add(2 * time.Hour), false},
		{"next day inside window", started.Add(24*time.Hour + 40*time.Minute), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Due(started, tt.now); got != tt.want {
				t.Fatalf("Due(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
	if (RestartPolicy{UTCHour: -1}).Due(started, started.Add(48*time.Hour)) {
		t.Fatal("expected a negative hour to disable restarts")
	}
}

func TestRunStopsForMaintenance(t *testing.T) {
	clock := time.Date(2024, 5, 1, 10, 5, 0, 0, time.UTC)
	h := newTestHub(t, HubConfig{TickInterval: 20 * time.Millisecond, Restart: RestartPolicy{MinUptime: time.Hour, UTCHour: 10}})
	h.started = clock.Add(-2 * time.Hour)
	h.now = func() time.Time { return clock }
	conn := &recordingConn{}
	if err := h.Connect("c1", conn); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := h.Run(ctx); !errors.Is(err, ErrMaintenanceRestart) {
		t.Fatalf("expected ErrMaintenanceRestart, got %v", err)
	}
	if !conn.closed {
		t.Fatal("expected connections to be closed on exit")
	}
	if err := h.Connect("c2", &recordingConn{}); !errors.Is(err, ErrHubClosed) {
		t.Fatalf("expected ErrHubClosed after Run returned, got %v", err)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	h := newTestHub(t, HubConfig{Restart: RestartPolicy{UTCHour: -1}})
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- h.Run(ctx) }()

	cancel()
	select {
	case err := <-errc:
		if err != nil {
			t.Fatalf("expected a clean stop, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("hub did not stop")
	}
}
