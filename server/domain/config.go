package domain

import "fmt"

// Config holds the session tuning that does not belong to the transport.
type Config struct {
	SpawnWidth  float32
	SpawnHeight float32
	MaxHealth   float32
}

func NewConfig(spawnWidth, spawnHeight, maxHealth float32) Config {
	return Config{
		SpawnWidth:  spawnWidth,
		SpawnHeight: spawnHeight,
		MaxHealth:   maxHealth,
	}
}

func DefaultConfig() Config {
	return NewConfig(100, 100, DefaultMaxHealth)
}

func (c Config) Validate() error {
	if c.SpawnWidth <= 0 || c.SpawnHeight <= 0 {
		return fmt.Errorf("spawn box must be positive, got %gx%g", c.SpawnWidth, c.SpawnHeight)
	}
	if c.MaxHealth <= 0 {
		return fmt.Errorf("max health must be positive, got %g", c.MaxHealth)
	}
	return nil
}
