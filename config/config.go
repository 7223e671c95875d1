package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// WireFormat selects how snapshots and intents are framed on the websocket.
type WireFormat string

const (
	WireJSON    WireFormat = "json"
	WireMsgpack WireFormat = "msgpack"
)

// Config holds the server configuration loaded from the environment.
type Config struct {
	Host      string `env:"HOST"`
	Port      int    `env:"PORT" envDefault:"8080"`
	GRPCPort  int    `env:"GRPC_PORT" envDefault:"0"`
	LevelsDir string `env:"LEVELS_DIR" envDefault:"levels"`
	Level     string `env:"LEVEL"`
	StaticDir string `env:"STATIC_DIR"`

	WireFormat         WireFormat    `env:"WIRE_FORMAT" envDefault:"json"`
	ReadTimeout        time.Duration `env:"READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout       time.Duration `env:"WRITE_TIMEOUT" envDefault:"15s"`
	CORSAllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"console"`

	TickRate          int           `env:"TICK_RATE" envDefault:"20"`
	TickWarnThreshold time.Duration `env:"TICK_WARN_THRESHOLD" envDefault:"50ms"`
	RestartMinUptime  time.Duration `env:"RESTART_MIN_UPTIME" envDefault:"1h"`
	RestartUTCHour    int           `env:"RESTART_UTC_HOUR" envDefault:"10"` // negative disables restarts

	MaxAliens         int           `env:"MAX_ALIENS" envDefault:"20"`
	AlienSpawnOdds    float64       `env:"ALIEN_SPAWN_ODDS" envDefault:"250"`
	PickupSpawnOdds   float64       `env:"PICKUP_SPAWN_ODDS" envDefault:"200"`
	MaxPickups        int           `env:"MAX_PICKUPS" envDefault:"10"`
	PickupTimeout     time.Duration `env:"PICKUP_TIMEOUT" envDefault:"30s"`
	GrowlWindow       time.Duration `env:"GROWL_WINDOW" envDefault:"6s"`
	GrowlCapacity     int           `env:"GROWL_CAPACITY" envDefault:"1"`
	GrowlMinInterval  time.Duration `env:"GROWL_MIN_INTERVAL" envDefault:"12s"`
	GrowlChancePerSec float64       `env:"GROWL_CHANCE_PER_SEC" envDefault:"0.05"`
	AlienHurtPause    time.Duration `env:"ALIEN_HURT_PAUSE" envDefault:"500ms"`
	AlienLinger       time.Duration `env:"ALIEN_LINGER" envDefault:"300ms"`
	AlienBiteInterval time.Duration `env:"ALIEN_BITE_INTERVAL" envDefault:"1s"`
	AlienBiteDamage   int           `env:"ALIEN_BITE_DAMAGE" envDefault:"1"`
	PlayerHealth      int           `env:"PLAYER_HEALTH" envDefault:"20"`
	PlayerSpeed       float64       `env:"PLAYER_SPEED" envDefault:"6"`
	PlayerTurnRate    float64       `env:"PLAYER_TURN_RATE" envDefault:"0.15"`
}

// Load reads an optional dotenv file and parses the environment into a Config.
// A missing env file is ignored; a malformed one is an error.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values the scheduler cannot run with.
func (c Config) Validate() error {
	switch {
	case c.TickRate <= 0:
		return fmt.Errorf("invalid TICK_RATE %d", c.TickRate)
	case c.GrowlCapacity <= 0:
		return fmt.Errorf("invalid GROWL_CAPACITY %d", c.GrowlCapacity)
	case c.MaxAliens < 0:
		return fmt.Errorf("invalid MAX_ALIENS %d", c.MaxAliens)
	case c.RestartUTCHour > 23:
		return fmt.Errorf("invalid RESTART_UTC_HOUR %d", c.RestartUTCHour)
	case c.WireFormat != WireJSON && c.WireFormat != WireMsgpack:
		return fmt.Errorf("invalid WIRE_FORMAT %q", c.WireFormat)
	}
	return nil
}

// TickInterval is the wall-clock period of one simulation step.
func (c Config) TickInterval() time.Duration {
	return time.Second / time.Duration(c.TickRate)
}

// Addr is the HTTP listen address.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
