package game

import "time"

// spawnBullet fires a projectile from the player's position along their heading.
func (w *World) spawnBullet(p *Player, wt *WeaponType, now time.Time) *Bullet {
	dx, dy := headingVector(p.Heading)
	b := &Bullet{
		ID:        w.nextBulletID,
		X:         p.X,
		Y:         p.Y,
		VX:        dx * wt.BulletSpeed,
		VY:        dy * wt.BulletSpeed,
		Weapon:    wt,
		SpawnedAt: now,
	}
	w.nextBulletID++
	w.bullets = append(w.bullets, b)
	return b
}

// updateBullet moves a bullet one tick. It returns false when the bullet has
// expired or left the level.
func (w *World) updateBullet(b *Bullet, now time.Time) bool {
	if now.Sub(b.SpawnedAt) >= b.Weapon.BulletLifetime {
		return false
	}
	b.X += b.VX
	b.Y += b.VY
	return !w.level.IsOutside(b.X, b.Y)
}

// bulletHit tests the bullet against live aliens in order and damages the
// first one it touches.
func (w *World) bulletHit(b *Bullet, now time.Time) bool {
	for _, a := range w.aliens {
		if a.Dead || a.removed {
			continue
		}
		if b.Circle().Overlaps(a.Circle()) {
			w.damageAlien(a, b.Weapon.Damage, now)
			return true
		}
	}
	return false
}
