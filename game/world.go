// Package game holds the arena simulation. A World is owned by exactly one
// goroutine; none of its methods are safe for concurrent use.
package game

import (
	"math/rand"
	"time"

	"go.uber.org/zap"

	"alienarena-server/level"
)

// World is the whole simulation state for one level.
type World struct {
	level  *level.Level
	tuning Tuning
	rng    *rand.Rand
	log    *zap.Logger

	sessions *Sessions
	aliens   []*Alien
	pickups  []*Pickup
	bullets  []*Bullet

	alienTypes  *Distribution[*AlienType]
	weaponTypes *Distribution[*WeaponType]
	growls      *SlidingWindow

	nextAlienID  int64
	nextPickupID int64
	nextBulletID int64
}

// NewWorld creates an empty world on lvl. A nil logger discards output.
func NewWorld(lvl *level.Level, tuning Tuning, rng *rand.Rand, log *zap.Logger) *World {
	if log == nil {
		log = zap.NewNop()
	}
	return &World{
		level:        lvl,
		tuning:       tuning,
		rng:          rng,
		log:          log,
		sessions:     newSessions(),
		alienTypes:   NewDistribution(AlienTypes, func(t *AlienType) int { return t.Weight }),
		weaponTypes:  NewDistribution(Weapons, func(t *WeaponType) int { return t.SpawnWeight }),
		growls:       NewSlidingWindow(tuning.GrowlCapacity, tuning.GrowlWindow),
		nextAlienID:  1,
		nextPickupID: 1,
		nextBulletID: 1,
	}
}

// Level is the level the world runs on.
func (w *World) Level() *level.Level { return w.level }

// Sessions is the registry of connected players.
func (w *World) Sessions() *Sessions { return w.sessions }

// AddPlayer creates a player for a new connection. It returns nil if id is
// already connected.
func (w *World) AddPlayer(id string) *Player {
	p := w.newPlayer(id)
	if !w.sessions.Add(p) {
		return nil
	}
	w.log.Info("player joined", zap.String("player", id), zap.Int("players", w.sessions.Len()))
	return p
}

// RemovePlayer drops the player bound to a closed connection.
func (w *World) RemovePlayer(id string) bool {
	if !w.sessions.Remove(id) {
		return false
	}
	w.log.Info("player left", zap.String("player", id), zap.Int("players", w.sessions.Len()))
	return true
}

// SetIntent stores a player's latest control intent.
func (w *World) SetIntent(id string, in Intent) bool {
	return w.sessions.SetIntent(id, in)
}

// Counts is the number of live entities of each kind.
type Counts struct {
	Players int
	Aliens  int
	Pickups int
	Bullets int
}

func (w *World) Counts() Counts {
	return Counts{
		Players: w.sessions.Len(),
		Aliens:  len(w.aliens),
		Pickups: len(w.pickups),
		Bullets: len(w.bullets),
	}
}

// Snapshot builds the client view without advancing the simulation.
func (w *World) Snapshot() Snapshot {
	return w.snapshot()
}

// Tick advances the world by one step and returns the resulting snapshot.
// Entities retired during the step are only dropped after every update pass
// has finished.
func (w *World) Tick(now time.Time) Snapshot {
	if len(w.pickups) < w.tuning.MaxPickups && w.roll(w.tuning.PickupSpawnOdds) {
		w.spawnPickup(now)
	}
	if len(w.aliens) < w.tuning.MaxAliens && w.roll(w.tuning.AlienSpawnOdds) {
		w.spawnAlien(now)
	}

	for _, a := range w.aliens {
		if w.updateAlien(a, now) {
			a.removed = true
		}
	}

	for _, b := range w.bullets {
		if !w.updateBullet(b, now) || w.bulletHit(b, now) {
			b.removed = true
		}
	}

	for _, p := range w.pickups {
		if w.pickupExpired(p, now) {
			p.removed = true
		}
	}
	for _, p := range w.sessions.Players() {
		if p.Dead {
			continue
		}
		w.applyControls(p)
		w.resolveAttack(p, now)
		w.collectPickups(p)
		for _, a := range w.aliens {
			if p.Dead {
				break
			}
			if w.bites(a, p, now) {
				w.bitten(p, now)
			}
		}
	}

	w.aliens = compact(w.aliens, func(a *Alien) bool { return a.removed })
	w.pickups = compact(w.pickups, func(p *Pickup) bool { return p.removed })
	w.bullets = compact(w.bullets, func(b *Bullet) bool { return b.removed })

	return w.snapshot()
}

// roll succeeds with probability players/odds, so more players mean more
// spawns.
func (w *World) roll(odds float64) bool {
	n := max(1, w.sessions.Len())
	return w.rng.Float64()*(odds/float64(n)) < 1
}

// randomPosition is a whole-pixel point inside the level margins.
func (w *World) randomPosition() (float64, float64) {
	return randomCoord(w.rng, w.level.WidthPx), randomCoord(w.rng, w.level.HeightPx)
}

func randomCoord(rng *rand.Rand, dim int) float64 {
	span := dim - 2*level.EdgeMargin
	if span <= 0 {
		return level.EdgeMargin
	}
	return float64(level.EdgeMargin + rng.Intn(span))
}

// compact drops flagged entries in place and clears the vacated tail.
func compact[T any](s []T, drop func(T) bool) []T {
	kept := s[:0]
	for _, v := range s {
		if !drop(v) {
			kept = append(kept, v)
		}
	}
	clear(s[len(kept):])
	return kept
}
