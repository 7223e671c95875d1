package game

import (
	"math"
	"time"
)

// Tuning holds every number the simulation consults at run time.
type Tuning struct {
	TickInterval time.Duration

	MaxAliens       int
	AlienSpawnOdds  float64 // one in odds/players per tick
	PickupSpawnOdds float64
	MaxPickups      int
	PickupTimeout   time.Duration

	GrowlWindow       time.Duration
	GrowlCapacity     int
	GrowlMinInterval  time.Duration
	GrowlChancePerSec float64

	AlienHurtPause    time.Duration
	AlienLinger       time.Duration
	AlienBiteInterval time.Duration
	AlienBiteDamage   int

	PlayerHealth   int
	PlayerSpeed    float64 // pixels per tick
	PlayerTurnRate float64 // radians per tick
}

// DefaultTuning matches the reference deployment.
func DefaultTuning() Tuning {
	return Tuning{
		TickInterval:      50 * time.Millisecond,
		MaxAliens:         20,
		AlienSpawnOdds:    250,
		PickupSpawnOdds:   200,
		MaxPickups:        10,
		PickupTimeout:     30 * time.Second,
		GrowlWindow:       6 * time.Second,
		GrowlCapacity:     1,
		GrowlMinInterval:  12 * time.Second,
		GrowlChancePerSec: 0.05,
		AlienHurtPause:    500 * time.Millisecond,
		AlienLinger:       300 * time.Millisecond,
		AlienBiteInterval: time.Second,
		AlienBiteDamage:   1,
		PlayerHealth:      20,
		PlayerSpeed:       6,
		PlayerTurnRate:    0.15,
	}
}

// Intent is a client's latest declared input. It is overwritten, never queued.
type Intent struct {
	Forward      bool
	Back         bool
	Left         bool
	Right        bool
	Attack       bool
	Weapon       int
	WeaponChange int
}

// Player is bound to one connection for its whole life.
type Player struct {
	ID        string
	Character int
	X, Y      float64
	Heading   float64
	Health    int

	Weapon *WeaponType
	// Slots maps owned weapon indexes to their ammo; melee slots hold MeleeAmmo.
	Slots map[int]int

	Dead   bool
	DeadAt time.Time

	LastAttack time.Time
	WeaponUses int
	Sound      int
	SoundCount int

	Intent           Intent
	lastWeaponChange int
}

// Circle is the player's hit shape.
func (p *Player) Circle() Circle {
	return Circle{X: p.X, Y: p.Y, R: entityRadius}
}

// Ammo is the ammo of the held weapon; negative for melee.
func (p *Player) Ammo() int {
	return p.Slots[p.Weapon.N]
}

// Alien is a hostile AI entity.
type Alien struct {
	ID      int64
	Type    *AlienType
	X, Y    float64
	Heading float64
	Health  int
	Costume int

	Dead      bool
	DeadAt    time.Time
	LastHurt  time.Time
	LastGrowl time.Time
	LastBite  time.Time

	Sound      int
	SoundCount int

	removed bool
}

// Circle is the alien's hit shape.
func (a *Alien) Circle() Circle {
	return Circle{X: a.X, Y: a.Y, R: entityRadius}
}

// Pickup is a weapon lying on the ground.
type Pickup struct {
	ID        int64
	Type      *WeaponType
	X, Y      float64
	SpawnedAt time.Time

	removed bool
}

// Circle is the pickup's hit shape.
func (p *Pickup) Circle() Circle {
	return Circle{X: p.X, Y: p.Y, R: entityRadius}
}

// Bullet is a projectile fired by a ranged weapon.
type Bullet struct {
	ID        int64
	X, Y      float64
	VX, VY    float64
	Weapon    *WeaponType
	SpawnedAt time.Time

	removed bool
}

// Circle is the bullet's hit shape.
func (b *Bullet) Circle() Circle {
	return Circle{X: b.X, Y: b.Y, R: bulletRadius}
}

// headingVector is the unit step for a heading. Heading 0 points down the
// screen and grows clockwise.
func headingVector(d float64) (float64, float64) {
	return -math.Sin(d), math.Cos(d)
}
