package usecase

import (
	"fmt"

	"github.com/ponyo877/tankarena/server/domain"
	"go.uber.org/zap"
)

// Admin operations come from the operator, who is not a participant, so their
// notifications go to everyone including the target.

func (s *Session) Status() []domain.Participant {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.Snapshot()
}

func (s *Session) Lookup(id domain.ParticipantID) (domain.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.registry.Snapshot() {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Participant{}, fmt.Errorf("tank %d: %w", id, domain.ErrNotFound)
}

func (s *Session) Damage(id domain.ParticipantID, amount float32) (domain.Participant, error) {
	if !domain.ValidAmount(amount) {
		return domain.Participant{}, fmt.Errorf("damage %g: %w", amount, domain.ErrInvalidAmount)
	}
	var (
		result domain.Participant
		err    error
	)
	s.run("damage", func(out *Outbox) {
		target, ok := s.registry.Get(id)
		if !ok {
			err = fmt.Errorf("tank %d: %w", id, domain.ErrNotFound)
			return
		}
		if target.IsDestroyed {
			s.log.Info("damage ignored, target destroyed", zap.Int32("id", int32(id)))
			result, err = target, fmt.Errorf("tank %d: %w", id, domain.ErrAlreadyDestroyed)
			return
		}
		var destroyed bool
		result, _ = s.registry.Mutate(id, func(p *domain.Participant) {
			destroyed = p.ApplyDamage(amount)
		})
		out.NotifyAll(s.registry, domain.HealthUpdated{ID: id, Current: result.CurrentHealth, Max: result.MaxHealth})
		if destroyed {
			out.NotifyAll(s.registry, domain.Destroyed{ID: id, DestroyedBy: 0})
		}
		s.log.Info("damage applied",
			zap.Int32("id", int32(id)),
			zap.Float32("amount", amount),
			zap.String("health", result.HealthStatus()))
		out.Record(domain.NewEvent(domain.EventDamage, id,
			fmt.Sprintf("applied %g damage to tank %d, health %s", amount, id, result.HealthStatus())))
	})
	return result, err
}

func (s *Session) Heal(id domain.ParticipantID, amount float32) (domain.Participant, error) {
	if !domain.ValidAmount(amount) {
		return domain.Participant{}, fmt.Errorf("heal %g: %w", amount, domain.ErrInvalidAmount)
	}
	var (
		result domain.Participant
		err    error
	)
	s.run("heal", func(out *Outbox) {
		target, ok := s.registry.Get(id)
		if !ok {
			err = fmt.Errorf("tank %d: %w", id, domain.ErrNotFound)
			return
		}
		if target.IsDestroyed {
			result, err = target, fmt.Errorf("cannot heal tank %d: %w", id, domain.ErrAlreadyDestroyed)
			return
		}
		if target.IsFullHealth() {
			s.log.Info("heal ignored, target at full health", zap.Int32("id", int32(id)))
			result, err = target, fmt.Errorf("tank %d: %w", id, domain.ErrFullHealth)
			return
		}
		result, _ = s.registry.Mutate(id, func(p *domain.Participant) {
			p.Heal(amount)
		})
		out.NotifyAll(s.registry, domain.HealthUpdated{ID: id, Current: result.CurrentHealth, Max: result.MaxHealth})
		s.log.Info("heal applied",
			zap.Int32("id", int32(id)),
			zap.Float32("amount", amount),
			zap.String("health", result.HealthStatus()))
		out.Record(domain.NewEvent(domain.EventHeal, id,
			fmt.Sprintf("healed tank %d for %g, health %s", id, amount, result.HealthStatus())))
	})
	return result, err
}

func (s *Session) Respawn(id domain.ParticipantID, x, y float32) (domain.Participant, error) {
	var (
		result domain.Participant
		err    error
	)
	s.run("respawn", func(out *Outbox) {
		var ok bool
		result, ok = s.registry.Mutate(id, func(p *domain.Participant) {
			p.Respawn(domain.Position{X: x, Y: y})
		})
		if !ok {
			err = fmt.Errorf("tank %d: %w", id, domain.ErrNotFound)
			return
		}
		out.NotifyAll(s.registry, domain.Spawned{
			ID:        id,
			Position:  result.Position,
			Direction: result.Direction,
			TankType:  result.TankType,
			Health:    result.MaxHealth,
		})
		s.log.Info("participant respawned", zap.Int32("id", int32(id)), zap.Float32("x", x), zap.Float32("y", y))
		out.Record(domain.NewEvent(domain.EventRespawn, id, fmt.Sprintf("respawned tank %d at (%g,%g)", id, x, y)))
	})
	return result, err
}
