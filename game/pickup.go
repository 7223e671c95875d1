package game

import (
	"time"

	"go.uber.org/zap"
)

// spawnPickup drops a randomly drawn weapon somewhere in the level.
func (w *World) spawnPickup(now time.Time) *Pickup {
	typ, ok := w.weaponTypes.Pick(w.rng)
	if !ok {
		return nil
	}
	x, y := w.randomPosition()
	p := &Pickup{ID: w.nextPickupID, Type: typ, X: x, Y: y, SpawnedAt: now}
	w.nextPickupID++
	w.pickups = append(w.pickups, p)
	return p
}

func (w *World) pickupExpired(p *Pickup, now time.Time) bool {
	return now.Sub(p.SpawnedAt) >= w.tuning.PickupTimeout
}

// collectPickups lets a player take every pickup they are touching.
func (w *World) collectPickups(pl *Player) {
	for _, p := range w.pickups {
		if p.removed || !pl.Circle().Overlaps(p.Circle()) {
			continue
		}
		if pl.take(p.Type) {
			p.removed = true
			w.log.Debug("weapon picked up", zap.String("player", pl.ID), zap.String("weapon", p.Type.Name), zap.Int64("pickup", p.ID))
		}
	}
}
