package game

import (
	"math"
	"time"
)

// resolveAttack handles an attack request once the held weapon has recharged.
// Melee strikes the nearest alien in range; ranged fires one bullet and drops
// the weapon when its last round is spent.
func (w *World) resolveAttack(p *Player, now time.Time) {
	if !p.Intent.Attack {
		return
	}
	wt := p.Weapon
	if now.Sub(p.LastAttack) < wt.Recharge {
		return
	}

	ammo := p.Ammo()
	switch {
	case ammo < 0:
		p.LastAttack = now
		p.WeaponUses++
		w.meleeStrike(p, wt, now)
	case ammo > 0:
		p.LastAttack = now
		p.WeaponUses++
		w.spawnBullet(p, wt, now)
		ammo--
		if ammo > 0 {
			p.Slots[wt.N] = ammo
		} else {
			p.dropWeapon()
		}
	}
}

// meleeStrike damages the closest live alien if it is within the weapon's
// reach. The range boundary counts as a hit.
func (w *World) meleeStrike(p *Player, wt *WeaponType, now time.Time) *Alien {
	var target *Alien
	best := math.Inf(1)
	pc := p.Circle()
	for _, a := range w.aliens {
		if a.Dead || a.removed {
			continue
		}
		if d := SqrDistance(pc, a.Circle()); d < best {
			best = d
			target = a
		}
	}
	if target == nil || best > wt.RangePx*wt.RangePx {
		return nil
	}
	w.damageAlien(target, wt.Damage, now)
	return target
}
