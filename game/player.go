package game

import (
	"time"

	"go.uber.org/zap"
)

// newPlayer creates a player at the level spawn point holding only fists.
func (w *World) newPlayer(id string) *Player {
	x, y := w.level.SpawnPoint()
	return &Player{
		ID:        id,
		Character: w.rng.Intn(playerCharacters),
		X:         x,
		Y:         y,
		Health:    w.tuning.PlayerHealth,
		Weapon:    Fists,
		Slots:     map[int]int{Fists.N: MeleeAmmo},
	}
}

// applyControls turns and moves the player from its stored intent and handles
// a new weapon selection.
func (w *World) applyControls(p *Player) {
	in := p.Intent
	if in.WeaponChange != p.lastWeaponChange {
		p.lastWeaponChange = in.WeaponChange
		p.selectWeapon(in.Weapon)
	}

	if in.Left {
		p.Heading -= w.tuning.PlayerTurnRate
	}
	if in.Right {
		p.Heading += w.tuning.PlayerTurnRate
	}
	step := 0.0
	if in.Forward {
		step += w.tuning.PlayerSpeed
	}
	if in.Back {
		step -= w.tuning.PlayerSpeed
	}
	if step != 0 {
		dx, dy := headingVector(p.Heading)
		p.X, p.Y = w.level.Clamp(p.X+dx*step, p.Y+dy*step)
	}
}

// selectWeapon switches to an owned weapon. Unowned indexes are ignored.
func (p *Player) selectWeapon(n int) {
	wt, ok := WeaponByN(n)
	if !ok {
		return
	}
	if _, owned := p.Slots[n]; !owned {
		return
	}
	p.Weapon = wt
}

// take adds a ground weapon to the player's slots. A melee weapon already
// owned, or a ranged slot already holding a full load, refuses the pickup.
func (p *Player) take(wt *WeaponType) bool {
	have, owned := p.Slots[wt.N]
	switch {
	case wt.Melee() && owned:
		return false
	case wt.Melee():
		p.Slots[wt.N] = MeleeAmmo
	case owned && have >= wt.Ammo:
		return false
	default:
		p.Slots[wt.N] = have + wt.Ammo
	}
	if p.Weapon == Fists {
		p.Weapon = wt
	}
	return true
}

// dropWeapon discards the held weapon and falls back to fists.
func (p *Player) dropWeapon() {
	if p.Weapon == Fists {
		return
	}
	delete(p.Slots, p.Weapon.N)
	p.Weapon = Fists
}

// bitten applies an alien bite to the player.
func (w *World) bitten(p *Player, now time.Time) {
	p.Health -= w.tuning.AlienBiteDamage
	p.Sound = w.rng.Intn(playerHurtSounds)
	p.SoundCount++
	if p.Health <= 0 {
		p.Dead = true
		p.DeadAt = now
		w.log.Info("player died", zap.String("player", p.ID))
	}
}
