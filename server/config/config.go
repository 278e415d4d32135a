package config

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/ponyo877/tankarena/server/domain"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

const (
	PortKey            = "port"
	ProtocolVersionKey = "protocol_version"
	SpawnWidthKey      = "spawn_width"
	SpawnHeightKey     = "spawn_height"
	MaxHealthKey       = "max_health"
	SendQueueSizeKey   = "send_queue_size"
	JournalKey         = "journal"
	LogLevelKey        = "log_level"
	InteractiveKey     = "interactive"

	EnvPrefix = "ARENA"

	DefaultProtocolVersion = "3ae33249-ecc6-4980-bc5d-7b0a999c0739"
)

// Interactive modes.
const (
	InteractiveAuto = "auto"
	InteractiveOn   = "on"
	InteractiveOff  = "off"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Port            int
	ProtocolVersion uuid.UUID
	Session         domain.Config
	SendQueueSize   int
	Journal         string
	LogLevel        zapcore.Level
	Interactive     string
}

// SetDefaults registers every key on v so env lookups and Unmarshal see them.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(PortKey, 33334)
	v.SetDefault(ProtocolVersionKey, DefaultProtocolVersion)
	v.SetDefault(SpawnWidthKey, 100)
	v.SetDefault(SpawnHeightKey, 100)
	v.SetDefault(MaxHealthKey, domain.DefaultMaxHealth)
	v.SetDefault(SendQueueSizeKey, 64)
	v.SetDefault(JournalKey, "")
	v.SetDefault(LogLevelKey, "info")
	v.SetDefault(InteractiveKey, InteractiveAuto)
}

// Load reads the config file named by cfgFile (if any) into v and resolves the
// final settings from defaults, file, environment and bound flags.
func Load(v *viper.Viper, cfgFile string) (Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file %s: %w", cfgFile, err)
		}
	}
	return FromViper(v)
}

func FromViper(v *viper.Viper) (Config, error) {
	version, err := uuid.Parse(v.GetString(ProtocolVersionKey))
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, ProtocolVersionKey, err)
	}
	level, err := zapcore.ParseLevel(v.GetString(LogLevelKey))
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, LogLevelKey, err)
	}
	cfg := Config{
		Port:            v.GetInt(PortKey),
		ProtocolVersion: version,
		Session: domain.NewConfig(
			float32(v.GetFloat64(SpawnWidthKey)),
			float32(v.GetFloat64(SpawnHeightKey)),
			float32(v.GetFloat64(MaxHealthKey)),
		),
		SendQueueSize: v.GetInt(SendQueueSizeKey),
		Journal:       v.GetString(JournalKey),
		LogLevel:      level,
		Interactive:   v.GetString(InteractiveKey),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("%w: %s %d out of range", ErrInvalidConfig, PortKey, c.Port)
	}
	if c.SendQueueSize <= 0 {
		return fmt.Errorf("%w: %s must be positive", ErrInvalidConfig, SendQueueSizeKey)
	}
	switch c.Interactive {
	case InteractiveAuto, InteractiveOn, InteractiveOff:
	default:
		return fmt.Errorf("%w: %s must be auto, on or off", ErrInvalidConfig, InteractiveKey)
	}
	if err := c.Session.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}
