package game

import (
	"math"
	"time"

	"go.uber.org/zap"
)

// spawnAlien places a new alien of a randomly drawn type anywhere inside the
// level margins.
func (w *World) spawnAlien(now time.Time) *Alien {
	typ, ok := w.alienTypes.Pick(w.rng)
	if !ok {
		return nil
	}
	x, y := w.randomPosition()
	a := &Alien{
		ID:        w.nextAlienID,
		Type:      typ,
		X:         x,
		Y:         y,
		Heading:   w.rng.Float64() * 2 * math.Pi,
		Health:    typ.HitPoints,
		Costume:   typ.Costumes[w.rng.Intn(len(typ.Costumes))],
		LastGrowl: now,
		LastBite:  now,
	}
	w.nextAlienID++
	w.aliens = append(w.aliens, a)
	return a
}

// updateAlien advances one alien by a tick. It returns true once the alien has
// been dead for the linger interval and should be removed.
func (w *World) updateAlien(a *Alien, now time.Time) bool {
	if a.Dead {
		return now.Sub(a.DeadAt) >= w.tuning.AlienLinger
	}
	if !a.LastHurt.IsZero() && now.Sub(a.LastHurt) < w.tuning.AlienHurtPause {
		return false
	}

	// Random walk: turn a little each tick and go as far as the type allows.
	a.Heading += (w.rng.Float64()*2 - 1) * alienMaxTurnRad
	dx, dy := headingVector(a.Heading)
	a.X, a.Y = w.level.Clamp(a.X+dx*a.Type.Speed, a.Y+dy*a.Type.Speed)

	w.maybeGrowl(a, now)
	return false
}

// maybeGrowl rolls for a growl. Longer silence means a higher chance, and the
// shared window caps how many aliens start growling close together.
func (w *World) maybeGrowl(a *Alien, now time.Time) {
	silence := now.Sub(a.LastGrowl)
	if silence <= w.tuning.GrowlMinInterval {
		return
	}
	chance := math.Min(1, w.tuning.GrowlChancePerSec*silence.Seconds()*w.tuning.TickInterval.Seconds())
	if w.rng.Float64() >= chance {
		return
	}
	if !w.growls.Allow(now) {
		return
	}
	a.Sound = w.rng.Intn(alienGrowlSounds)
	a.SoundCount++
	a.LastGrowl = now
}

// damageAlien applies damage. A killed alien stops acting and lingers; a
// wounded one pauses and plays a hurt sound.
func (w *World) damageAlien(a *Alien, damage int, now time.Time) {
	a.Health -= damage
	if a.Health <= 0 {
		a.Dead = true
		a.DeadAt = now
		w.log.Debug("alien killed", zap.Int64("alien", a.ID), zap.String("type", a.Type.Name))
		return
	}
	a.LastHurt = now
	a.Sound = alienGrowlSounds + w.rng.Intn(alienHurtSounds)
	a.SoundCount++
	w.log.Debug("alien hit", zap.Int64("alien", a.ID), zap.Int("damage", damage), zap.Int("health", a.Health))
}

// bites reports whether a live alien bites p this tick and, if so, restarts
// its bite cooldown.
func (w *World) bites(a *Alien, p *Player, now time.Time) bool {
	if a.Dead || a.removed {
		return false
	}
	if now.Sub(a.LastBite) < w.tuning.AlienBiteInterval {
		return false
	}
	if !a.Circle().Overlaps(p.Circle()) {
		return false
	}
	a.LastBite = now
	return true
}
