package config

import "alienarena-server/game"

// Tuning converts the simulation settings into the values the world runs with.
func (c Config) Tuning() game.Tuning {
	return game.Tuning{
		TickInterval:      c.TickInterval(),
		MaxAliens:         c.MaxAliens,
		AlienSpawnOdds:    c.AlienSpawnOdds,
		PickupSpawnOdds:   c.PickupSpawnOdds,
		MaxPickups:        c.MaxPickups,
		PickupTimeout:     c.PickupTimeout,
		GrowlWindow:       c.GrowlWindow,
		GrowlCapacity:     c.GrowlCapacity,
		GrowlMinInterval:  c.GrowlMinInterval,
		GrowlChancePerSec: c.GrowlChancePerSec,
		AlienHurtPause:    c.AlienHurtPause,
		AlienLinger:       c.AlienLinger,
		AlienBiteInterval: c.AlienBiteInterval,
		AlienBiteDamage:   c.AlienBiteDamage,
		PlayerHealth:      c.PlayerHealth,
		PlayerSpeed:       c.PlayerSpeed,
		PlayerTurnRate:    c.PlayerTurnRate,
	}
}
