// Package config loads satchel's settings from defaults, an optional YAML
// file, SATCHEL_* environment variables and command-line flags, in that
// order of precedence (flags win).
package config

import (
	"errors"
	"math"
	"time"

	"satchel/internal/component"
	"satchel/internal/factory"
	"satchel/internal/game"
	"satchel/internal/inventory"
	"satchel/internal/logging"
	"satchel/internal/pickup"
)

// Error codes.
const (
	CodeInvalidConfig = "INVALID_CONFIG"
)

var (
	// ErrInvalidConfig is wrapped when a value fails validation.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrReadConfig is wrapped when the config file cannot be read or decoded.
	ErrReadConfig = errors.New("read config")
)

// Config is the complete configuration of the game and the SSH server.
type Config struct {
	// Debug builds development loggers: contract violations panic.
	Debug bool `mapstructure:"debug"`
	// Items overrides the built-in item catalog and behavior table.
	Items      string `mapstructure:"items"`
	SessionLog bool   `mapstructure:"session_log"`

	Inventory InventoryConfig `mapstructure:"inventory"`
	Arena     ArenaConfig     `mapstructure:"arena"`
	Player    PlayerConfig    `mapstructure:"player"`
	Pickup    PickupConfig    `mapstructure:"pickup"`
	Log       logging.Config  `mapstructure:"log"`
	Server    ServerConfig    `mapstructure:"server"`
}

type InventoryConfig struct {
	Capacity int `mapstructure:"capacity" validate:"min=1,max=90"`
	HandSize int `mapstructure:"hand_size" validate:"min=1,max=9,ltefield=Capacity"`
	Columns  int `mapstructure:"columns" validate:"min=1,max=12"`
}

type ArenaConfig struct {
	Width     int     `mapstructure:"width" validate:"min=8,max=256"`
	Depth     int     `mapstructure:"depth" validate:"min=8,max=256"`
	Items     int     `mapstructure:"items" validate:"min=0,max=256"`
	Respawn   bool    `mapstructure:"respawn"`
	FrameRate int     `mapstructure:"frame_rate" validate:"min=5,max=120"`
	Gravity   float64 `mapstructure:"gravity" validate:"gte=0"`
	Seed      int64   `mapstructure:"seed"`
}

type PlayerConfig struct {
	MaxSpeed        float64       `mapstructure:"max_speed" validate:"gt=0"`
	MaxAcceleration float64       `mapstructure:"max_acceleration" validate:"gt=0"`
	MaxDeceleration float64       `mapstructure:"max_deceleration" validate:"gt=0"`
	ReverseBoost    float64       `mapstructure:"reverse_boost" validate:"gte=1,lte=10"`
	CollectRadius   float64       `mapstructure:"collect_radius" validate:"gt=0"`
	MoveHold        time.Duration `mapstructure:"move_hold" validate:"min=10ms,max=5s"`
	LookStepDegrees float64       `mapstructure:"look_step_degrees" validate:"gt=0,lte=90"`
}

type PickupConfig struct {
	Speed           float64 `mapstructure:"speed" validate:"gt=0"`
	CollectDistance float64 `mapstructure:"collect_distance" validate:"gte=0.1,lte=10"`
}

type ServerConfig struct {
	Addr        string        `mapstructure:"addr" validate:"required"`
	HostKey     string        `mapstructure:"host_key" validate:"required"`
	MaxSessions int           `mapstructure:"max_sessions" validate:"min=1"`
	IdleTimeout time.Duration `mapstructure:"idle_timeout" validate:"min=0"`
	// MetricsAddr serves /metrics when set.
	MetricsAddr string `mapstructure:"metrics_addr"`
	Namespace   string `mapstructure:"namespace" validate:"required"`
}

// Default returns the built-in configuration.
func Default() Config {
	g := game.DefaultConfig()
	m := g.Player.Mover
	return Config{
		SessionLog: g.SessionLog,
		Inventory: InventoryConfig{
			Capacity: g.Inventory.Capacity,
			HandSize: g.Inventory.HandSize,
			Columns:  g.GridColumns,
		},
		Arena: ArenaConfig{
			Width:     g.ArenaWidth,
			Depth:     g.ArenaDepth,
			Items:     g.ItemCount,
			Respawn:   g.Respawn,
			FrameRate: g.FrameRate,
			Gravity:   g.Gravity,
		},
		Player: PlayerConfig{
			MaxSpeed:        m.MaxSpeed,
			MaxAcceleration: m.MaxAcceleration,
			MaxDeceleration: m.MaxDeceleration,
			ReverseBoost:    m.ReverseBoost,
			CollectRadius:   g.Player.CollectRadius,
			MoveHold:        g.MoveHold,
			LookStepDegrees: g.LookStep * 180 / math.Pi,
		},
		Pickup: PickupConfig{
			Speed:           g.Pickup.Speed,
			CollectDistance: g.Pickup.CollectDistance,
		},
		Log: logging.DefaultConfig(),
		Server: ServerConfig{
			Addr:        ":2222",
			HostKey:     "satchel_host_key",
			MaxSessions: 32,
			IdleTimeout: 30 * time.Minute,
			Namespace:   "satchel",
		},
	}
}

// Game converts the settings into a game configuration.
func (c *Config) Game() game.Config {
	return game.Config{
		Inventory: inventory.Config{
			Capacity: c.Inventory.Capacity,
			HandSize: c.Inventory.HandSize,
		},
		GridColumns: c.Inventory.Columns,
		Pickup: pickup.Config{
			Speed:           c.Pickup.Speed,
			CollectDistance: c.Pickup.CollectDistance,
		},
		Player: factory.PlayerParams{
			Mover: component.Mover{
				MaxSpeed:        c.Player.MaxSpeed,
				MaxAcceleration: c.Player.MaxAcceleration,
				MaxDeceleration: c.Player.MaxDeceleration,
				ReverseBoost:    c.Player.ReverseBoost,
			},
			CollectRadius: c.Player.CollectRadius,
		},
		ArenaWidth: c.Arena.Width,
		ArenaDepth: c.Arena.Depth,
		ItemCount:  c.Arena.Items,
		Respawn:    c.Arena.Respawn,
		FrameRate:  c.Arena.FrameRate,
		Gravity:    c.Arena.Gravity,
		MoveHold:   c.Player.MoveHold,
		LookStep:   c.Player.LookStepDegrees * math.Pi / 180,
		Seed:       c.Arena.Seed,
		SessionLog: c.SessionLog,
	}
}
