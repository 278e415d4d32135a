package domain

import (
	"fmt"
	"math"
)

const (
	TankTypeUnselected int32   = -1
	DefaultMaxHealth   float32 = 100
)

type ParticipantID int32

type Position struct {
	X float32
	Y float32
}

type Participant struct {
	ID            ParticipantID
	Position      Position
	Direction     float32
	TankType      int32
	CurrentHealth float32
	MaxHealth     float32
	IsDestroyed   bool
}

func NewParticipant(id ParticipantID, pos Position, maxHealth float32) Participant {
	p := Participant{
		ID:       id,
		Position: pos,
		TankType: TankTypeUnselected,
	}
	p.SetHealth(maxHealth, maxHealth)
	return p
}

// SetHealth stores a reported health pair, clamping it into 0 <= current <= max.
// A NaN current and a NaN or infinite max count as 0.
func (p *Participant) SetHealth(current, max float32) {
	if !(max > 0) || math.IsInf(float64(max), 1) {
		max = 0
	}
	if math.IsNaN(float64(current)) {
		current = 0
	}
	p.MaxHealth = max
	p.CurrentHealth = clamp(current, 0, max)
	p.IsDestroyed = p.CurrentHealth <= 0
}

// ApplyDamage reports whether the participant went from alive to destroyed.
func (p *Participant) ApplyDamage(amount float32) bool {
	if p.IsDestroyed {
		return false
	}
	p.SetHealth(p.CurrentHealth-amount, p.MaxHealth)
	return p.IsDestroyed
}

func (p *Participant) Heal(amount float32) {
	p.SetHealth(p.CurrentHealth+amount, p.MaxHealth)
}

func (p *Participant) Destroy() {
	p.CurrentHealth = 0
	p.IsDestroyed = true
}

func (p *Participant) Spawn(pos Position, direction float32, tankType int32, health float32) {
	p.Position = pos
	p.Direction = direction
	p.TankType = tankType
	p.SetHealth(health, health)
}

// Respawn restores full health at pos, keeping direction, type and max health.
func (p *Participant) Respawn(pos Position) {
	p.Position = pos
	p.SetHealth(p.MaxHealth, p.MaxHealth)
}

func (p Participant) IsFullHealth() bool {
	return p.CurrentHealth >= p.MaxHealth
}

func (p Participant) HealthStatus() string {
	if p.IsDestroyed {
		return "DESTROYED"
	}
	return fmt.Sprintf("%g/%g", p.CurrentHealth, p.MaxHealth)
}

func (p Participant) String() string {
	return fmt.Sprintf("Client ID: %d, Position: (%g,%g), TankType: %d, Health: %s",
		p.ID, p.Position.X, p.Position.Y, p.TankType, p.HealthStatus())
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ValidAmount reports whether v is a usable damage, heal or health amount:
// positive and finite.
func ValidAmount(v float32) bool {
	return v > 0 && !math.IsInf(float64(v), 1)
}
