package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. SATCHEL_INVENTORY_CAPACITY.
const EnvPrefix = "SATCHEL"

// flagKeys maps command-line flag names to config keys. Flags absent from
// the flag set are skipped.
var flagKeys = map[string]string{
	"debug":        "debug",
	"items":        "items",
	"seed":         "arena.seed",
	"log-level":    "log.level",
	"log-file":     "log.file",
	"addr":         "server.addr",
	"host-key":     "server.host_key",
	"max-sessions": "server.max_sessions",
	"metrics-addr": "server.metrics_addr",
}

// Load reads the configuration. path may be empty to use defaults and the
// environment only; flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, oops.In("config").With("path", path).Wrapf(ErrReadConfig, "read %s: %v", path, err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, oops.In("config").With("flag", name).Wrapf(err, "bind flag")
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, oops.In("config").With("path", path).Wrapf(ErrReadConfig, "decode: %v", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override keys that
// the file never mentions.
func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("debug", d.Debug)
	v.SetDefault("items", d.Items)
	v.SetDefault("session_log", d.SessionLog)

	v.SetDefault("inventory.capacity", d.Inventory.Capacity)
	v.SetDefault("inventory.hand_size", d.Inventory.HandSize)
	v.SetDefault("inventory.columns", d.Inventory.Columns)

	v.SetDefault("arena.width", d.Arena.Width)
	v.SetDefault("arena.depth", d.Arena.Depth)
	v.SetDefault("arena.items", d.Arena.Items)
	v.SetDefault("arena.respawn", d.Arena.Respawn)
	v.SetDefault("arena.frame_rate", d.Arena.FrameRate)
	v.SetDefault("arena.gravity", d.Arena.Gravity)
	v.SetDefault("arena.seed", d.Arena.Seed)

	v.SetDefault("player.max_speed", d.Player.MaxSpeed)
	v.SetDefault("player.max_acceleration", d.Player.MaxAcceleration)
	v.SetDefault("player.max_deceleration", d.Player.MaxDeceleration)
	v.SetDefault("player.reverse_boost", d.Player.ReverseBoost)
	v.SetDefault("player.collect_radius", d.Player.CollectRadius)
	v.SetDefault("player.move_hold", d.Player.MoveHold)
	v.SetDefault("player.look_step_degrees", d.Player.LookStepDegrees)

	v.SetDefault("pickup.speed", d.Pickup.Speed)
	v.SetDefault("pickup.collect_distance", d.Pickup.CollectDistance)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.max_size_mb", d.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", d.Log.MaxBackups)
	v.SetDefault("log.max_age_days", d.Log.MaxAgeDays)
	v.SetDefault("log.compress", d.Log.Compress)
	v.SetDefault("log.stderr", d.Log.Stderr)

	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.host_key", d.Server.HostKey)
	v.SetDefault("server.max_sessions", d.Server.MaxSessions)
	v.SetDefault("server.idle_timeout", d.Server.IdleTimeout)
	v.SetDefault("server.metrics_addr", d.Server.MetricsAddr)
	v.SetDefault("server.namespace", d.Server.Namespace)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their config key rather than the Go field name.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// Validate checks every field against its validate tag.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return oops.
			In("config").
			Code(CodeInvalidConfig).
			Wrapf(ErrInvalidConfig, "%s", formatValidationErrors(err))
	}
	return nil
}

func formatValidationErrors(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	var sb strings.Builder
	for i, fe := range verrs {
		if i > 0 {
			sb.WriteString("; ")
		}
		field := strings.TrimPrefix(fe.Namespace(), "Config.")
		param := fe.Param()
		switch fe.Tag() {
		case "required":
			fmt.Fprintf(&sb, "%s is required", field)
		case "min", "gte":
			fmt.Fprintf(&sb, "%s must be at least %s", field, param)
		case "max", "lte":
			fmt.Fprintf(&sb, "%s must be at most %s", field, param)
		case "gt":
			fmt.Fprintf(&sb, "%s must be greater than %s", field, param)
		case "oneof":
			fmt.Fprintf(&sb, "%s must be one of [%s]", field, param)
		case "ltefield":
			fmt.Fprintf(&sb, "%s must not exceed %s", field, strings.ToLower(param))
		default:
			fmt.Fprintf(&sb, "%s failed %q", field, fe.Tag())
		}
	}
	return sb.String()
}
