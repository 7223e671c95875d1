// Command soak runs the simulation headless with simulated players and
// reports tick timing and broadcast volume. It writes the final snapshot as
// JSON when an output path is given.
package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alienarena-server/config"
	"alienarena-server/game"
	"alienarena-server/level"
	"alienarena-server/server"
)

var (
	levelsDir string
	levelName string
	players   int
	ticks     int
	seed      int64
	out       string
)

// discard accepts every frame and keeps only the byte count.
type discard struct{ bytes int }

func (d *discard) Send(frame []byte) bool { d.bytes += len(frame); return true }
func (d *discard) Close()                 {}

var rootCmd = &cobra.Command{
	Use:   "soak",
	Short: "Run the arena headless and report tick timing",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load("")
		if err != nil {
			return err
		}
		registry, err := level.LoadDir(levelsDir)
		if err != nil {
			return err
		}
		rng := rand.New(rand.NewSource(seed))
		lvl, err := registry.Choose(levelName, rng)
		if err != nil {
			return err
		}

		world := game.NewWorld(lvl, cfg.Tuning(), rng, zap.NewNop())
		bc, err := server.NewBroadcaster(server.JSON, world.Snapshot(), zap.NewNop())
		if err != nil {
			return err
		}
		sink := &discard{}
		for i := 0; i < players; i++ {
			id := fmt.Sprintf("bot-%d", i)
			bc.Add(id, sink)
			world.AddPlayer(id)
		}

		now := time.Now()
		var total, worst time.Duration
		var slow, sent int
		var snap game.Snapshot
		intents := make(map[string]game.Intent)
		for i := 0; i < ticks; i++ {
			for _, p := range world.Sessions().Players() {
				if i%20 == 0 {
					intents[p.ID] = randomIntent(rng, intents[p.ID])
				}
				world.SetIntent(p.ID, intents[p.ID])
			}
			start := time.Now()
			snap = world.Tick(now)
			ok, err := bc.Offer(snap)
			if err != nil {
				return err
			}
			elapsed := time.Since(start)
			total += elapsed
			worst = max(worst, elapsed)
			if elapsed > cfg.TickWarnThreshold {
				slow++
			}
			if ok {
				sent++
			}
			now = now.Add(cfg.TickInterval())
		}

		c := world.Counts()
		fmt.Printf("level %s (%dx%d), %d players, %d ticks\n", lvl.Name, lvl.WidthPx, lvl.HeightPx, players, ticks)
		fmt.Printf("tick avg %v, max %v, over budget %d\n", total/time.Duration(max(1, ticks)), worst, slow)
		fmt.Printf("broadcasts %d, skipped %d, %d bytes per client\n", sent, ticks-sent, sink.bytes/max(1, players))
		fmt.Printf("final: %d aliens, %d pickups, %d bullets\n", c.Aliens, c.Pickups, c.Bullets)

		if out == "" {
			return nil
		}
		data, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return err
		}
		fmt.Printf("wrote final snapshot to %s\n", out)
		return nil
	},
}

// randomIntent rolls a new input. Bots hold each one for a second of
// simulated time so they wander instead of jittering in place.
func randomIntent(rng *rand.Rand, prev game.Intent) game.Intent {
	return game.Intent{
		Forward:      rng.Intn(3) > 0,
		Left:         rng.Intn(4) == 0,
		Right:        rng.Intn(4) == 0,
		Attack:       true,
		Weapon:       rng.Intn(len(game.Weapons)),
		WeaponChange: prev.WeaponChange + 1,
	}
}

func init() {
	rootCmd.Flags().StringVar(&levelsDir, "levels-dir", "levels", "directory of Tiled level files")
	rootCmd.Flags().StringVar(&levelName, "level", "", "level to run; random when empty")
	rootCmd.Flags().IntVar(&players, "players", 8, "simulated players")
	rootCmd.Flags().IntVar(&ticks, "ticks", 20*60, "ticks to run")
	rootCmd.Flags().Int64Var(&seed, "seed", 1, "random seed")
	rootCmd.Flags().StringVarP(&out, "out", "o", "", "write the final snapshot to this file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
