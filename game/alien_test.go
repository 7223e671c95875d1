package game

import (
	"testing"
	"time"
)

func TestDamageAlien(t *testing.T) {
	tests := []struct {
		name     string
		health   int
		damage   int
		wantDead bool
	}{
		{"wounded", 5, 3, false},
		{"exactly zero", 5, 5, true},
		{"overkill", 5, 9, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWorld(t, quietTuning())
			a := w.placeAlien(statue, 100, 100, base)
			a.Health = tt.health

			w.damageAlien(a, tt.damage, base)
			if a.Health != tt.health-tt.damage {
				t.Fatalf("expected health %d, got %d", tt.health-tt.damage, a.Health)
			}
			if a.Dead != tt.wantDead {
				t.Fatalf("expected dead=%v, got %v", tt.wantDead, a.Dead)
			}
			if tt.wantDead {
				if !a.DeadAt.Equal(base) {
					t.Fatalf("expected death time %v, got %v", base, a.DeadAt)
				}
				return
			}
			if !a.LastHurt.Equal(base) {
				t.Fatalf("expected hurt time %v, got %v", base, a.LastHurt)
			}
			if a.Sound != alienGrowlSounds || a.SoundCount != 1 {
				t.Fatalf("expected hurt sound %d once, got sound %d count %d", alienGrowlSounds, a.Sound, a.SoundCount)
			}
		})
	}
}

func TestHurtAlienPausesMovement(t *testing.T) {
	w := newTestWorld(t, quietTuning())
	walker := &AlienType{Name: "Walker", Weight: 1, HitPoints: 10, Speed: 5, Costumes: []int{2}}
	a := w.placeAlien(walker, 300, 300, base)
	w.damageAlien(a, 1, base)

	pause := w.tuning.AlienHurtPause
	w.updateAlien(a, base.Add(pause-time.Millisecond))
	if a.X != 300 || a.Y != 300 {
		t.Fatalf("hurt alien moved to (%v, %v)", a.X, a.Y)
	}
	w.updateAlien(a, base.Add(pause))
	if a.X == 300 && a.Y == 300 {
		t.Fatal("expected the alien to move once the pause is over")
	}
	if d := SqrDistance(Circle{X: 300, Y: 300}, a.Circle()); d < 24.99 || d > 25.01 {
		t.Fatalf("expected a step of 5px, squared distance %v", d)
	}
}

func TestGrowlsShareRateLimit(t *testing.T) {
	w := newTestWorld(t, quietTuning())
	long := base.Add(-time.Hour)
	var aliens []*Alien
	for i := 0; i < 5; i++ {
		a := w.placeAlien(statue, 100+float64(i)*50, 100, long)
		aliens = append(aliens, a)
	}

	total := func() int {
		n := 0
		for _, a := range aliens {
			n += a.SoundCount
		}
		return n
	}

	w.Tick(base)
	if total() != 1 {
		t.Fatalf("expected exactly one growl across all aliens, got %d", total())
	}
	w.Tick(base.Add(w.tuning.GrowlWindow - time.Millisecond))
	if total() != 1 {
		t.Fatalf("expected no growl inside the window, got %d", total())
	}
	w.Tick(base.Add(w.tuning.GrowlWindow))
	if total() != 2 {
		t.Fatalf("expected a second growl once the window passed, got %d", total())
	}
	for _, a := range aliens {
		if a.SoundCount > 0 && a.Sound >= alienGrowlSounds {
			t.Fatalf("growl used hurt sound index %d", a.Sound)
		}
	}
}

func TestGrowlNeedsMinimumSilence(t *testing.T) {
	w := newTestWorld(t, quietTuning())
	a := w.placeAlien(statue, 100, 100, base)
	for i := 0; i <= 100; i++ {
		w.updateAlien(a, base.Add(time.Duration(i)*w.tuning.GrowlMinInterval/100))
	}
	if a.SoundCount != 0 {
		t.Fatalf("expected silence before the minimum interval, got %d growls", a.SoundCount)
	}
}

func TestBitesRespectInterval(t *testing.T) {
	w := newTestWorld(t, quietTuning())
	p := w.AddPlayer("p1")
	w.placeAlien(statue, p.X+10, p.Y, base.Add(-w.tuning.AlienBiteInterval))
	health := p.Health

	w.Tick(base)
	if p.Health != health-1 || p.SoundCount != 1 {
		t.Fatalf("expected one bite, health %d sound count %d", p.Health, p.SoundCount)
	}
	w.Tick(base.Add(w.tuning.AlienBiteInterval / 2))
	if p.Health != health-1 {
		t.Fatalf("expected no bite inside the interval, health %d", p.Health)
	}
	w.Tick(base.Add(w.tuning.AlienBiteInterval))
	if p.Health != health-2 {
		t.Fatalf("expected a second bite, health %d", p.Health)
	}
}

func TestBiteKillsPlayer(t *testing.T) {
	w := newTestWorld(t, quietTuning())
	p := w.AddPlayer("p1")
	p.Health = 1
	w.placeAlien(statue, p.X, p.Y, base.Add(-time.Hour))
	w.placeAlien(statue, p.X, p.Y, base.Add(-time.Hour))

	w.Tick(base)
	if !p.Dead || p.Health != 0 || !p.DeadAt.Equal(base) {
		t.Fatalf("expected player dead at health 0, got dead=%v health=%d", p.Dead, p.Health)
	}
}
