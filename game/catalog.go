package game

import "time"

// Client sound tables put the growls first and the hurt sounds after them.
const (
	alienGrowlSounds = 2
	alienHurtSounds  = 1
	playerHurtSounds = 1
	playerCharacters = 4
	alienMaxTurnRad  = 0.4
	entityRadius     = 16
	bulletRadius     = 4
)

// AlienType is one entry of the hostile catalogue.
type AlienType struct {
	Name      string
	Weight    int
	HitPoints int
	Speed     float64 // pixels per tick
	Costumes  []int
}

// AlienTypes is the hostile catalogue. Costume numbers are mapped back to
// sprite names by the client.
var AlienTypes = []*AlienType{
	{Name: "Crawler", Weight: 10, HitPoints: 5, Speed: 1, Costumes: []int{0, 1}},
	{Name: "Shambler", Weight: 10, HitPoints: 7, Speed: 3, Costumes: []int{2, 3}},
	{Name: "Walker", Weight: 10, HitPoints: 10, Speed: 5, Costumes: []int{2, 3}},
	{Name: "Runner", Weight: 10, HitPoints: 15, Speed: 10, Costumes: []int{2, 3}},
}

// MeleeAmmo marks a weapon with unlimited, range-limited use.
const MeleeAmmo = -1

// WeaponType describes a weapon. N is the index the client maps to sprites
// and sounds.
type WeaponType struct {
	N              int
	Name           string
	Damage         int
	RangePx        float64
	Recharge       time.Duration
	Ammo           int
	BulletSpeed    float64 // pixels per tick
	BulletLifetime time.Duration
	SpawnWeight    int
}

// Melee reports whether the weapon strikes instead of firing.
func (w *WeaponType) Melee() bool {
	return w.Ammo < 0
}

var (
	Fists   = &WeaponType{N: 0, Name: "Fists", Damage: 1, RangePx: 40, Recharge: 400 * time.Millisecond, Ammo: MeleeAmmo}
	Sword   = &WeaponType{N: 1, Name: "Sword", Damage: 3, RangePx: 56, Recharge: 500 * time.Millisecond, Ammo: MeleeAmmo, SpawnWeight: 8}
	Axe     = &WeaponType{N: 2, Name: "Axe", Damage: 5, RangePx: 48, Recharge: 800 * time.Millisecond, Ammo: MeleeAmmo, SpawnWeight: 5}
	Pistol  = &WeaponType{N: 3, Name: "Pistol", Damage: 2, Recharge: 300 * time.Millisecond, Ammo: 12, BulletSpeed: 12, BulletLifetime: 1500 * time.Millisecond, SpawnWeight: 10}
	Rifle   = &WeaponType{N: 4, Name: "Rifle", Damage: 4, Recharge: 600 * time.Millisecond, Ammo: 8, BulletSpeed: 18, BulletLifetime: 2 * time.Second, SpawnWeight: 6}
	Blaster = &WeaponType{N: 5, Name: "Blaster", Damage: 3, Recharge: 150 * time.Millisecond, Ammo: 30, BulletSpeed: 15, BulletLifetime: 1200 * time.Millisecond, SpawnWeight: 3}
)

// Weapons is indexed by WeaponType.N. Fists are the default and never spawn.
var Weapons = []*WeaponType{Fists, Sword, Axe, Pistol, Rifle, Blaster}

// WeaponByN looks up a weapon by its client index.
func WeaponByN(n int) (*WeaponType, bool) {
	if n < 0 || n >= len(Weapons) {
		return nil, false
	}
	return Weapons[n], true
}
