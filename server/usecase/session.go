package usecase

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/ponyo877/tankarena/server/domain"
	"go.uber.org/zap"
)

// Deps holds what a Session needs from the outside world.
type Deps struct {
	Config   domain.Config
	Notifier Notifier
	Groups   GroupService
	Journal  Journal
	Rand     *rand.Rand
	Log      *zap.Logger
}

// Session is the authoritative state of one arena. Every protocol runs under
// a single mutex; the outbound sends it produces are flushed after the mutex is
// released, so delivery order across protocols is not guaranteed to match the
// order in which they were applied.
type Session struct {
	mu          sync.Mutex
	cfg         domain.Config
	registry    *domain.Registry
	membership  *Membership
	broadcaster *Broadcaster
	rng         *rand.Rand
	log         *zap.Logger
}

func NewSession(deps Deps) *Session {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	rng := deps.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Session{
		cfg:         deps.Config,
		registry:    domain.NewRegistry(),
		membership:  NewMembership(deps.Groups, log.Named("group")),
		broadcaster: NewBroadcaster(deps.Notifier, deps.Journal, log.Named("broadcast")),
		rng:         rng,
		log:         log,
	}
}

// run executes fn under the session lock and flushes whatever it queued.
// A panic inside fn is logged; the lock is released and the partial outbox is
// still delivered.
func (s *Session) run(op string, fn func(out *Outbox)) {
	var out Outbox
	s.locked(op, &out, fn)
	s.broadcaster.Flush(&out)
}

func (s *Session) locked(op string, out *Outbox, fn func(out *Outbox)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("protocol panicked", zap.String("op", op), zap.Any("panic", r))
		}
	}()
	fn(out)
}

func (s *Session) unknown(op string, id domain.ParticipantID) {
	s.log.Warn("unknown participant", zap.String("op", op), zap.Int32("id", int32(id)))
}

func (s *Session) spawnPosition() domain.Position {
	return domain.Position{
		X: s.rng.Float32() * s.cfg.SpawnWidth,
		Y: s.rng.Float32() * s.cfg.SpawnHeight,
	}
}

func (s *Session) Join(id domain.ParticipantID) {
	s.run("join", func(out *Outbox) {
		joiner := domain.NewParticipant(id, s.spawnPosition(), s.cfg.MaxHealth)
		if replaced := s.registry.Insert(joiner); replaced {
			s.log.Warn("duplicate join, record overwritten", zap.Int32("id", int32(id)))
		}

		for _, other := range s.registry.Snapshot() {
			if other.ID == id {
				continue
			}
			out.NotifyTo(id, domain.PlayerJoined{ID: other.ID, Position: other.Position, TankType: other.TankType})
			out.NotifyTo(id, domain.HealthUpdated{ID: other.ID, Current: other.CurrentHealth, Max: other.MaxHealth})
			if other.IsDestroyed {
				out.NotifyTo(id, domain.Destroyed{ID: other.ID, DestroyedBy: 0})
			}
		}

		out.NotifyAllExcept(s.registry, id, domain.PlayerJoined{ID: id, Position: joiner.Position, TankType: joiner.TankType})
		out.NotifyAllExcept(s.registry, id, domain.HealthUpdated{ID: id, Current: joiner.CurrentHealth, Max: joiner.MaxHealth})

		s.log.Info("participant joined",
			zap.Int32("id", int32(id)),
			zap.Float32("x", joiner.Position.X),
			zap.Float32("y", joiner.Position.Y),
			zap.Int("population", s.registry.Size()))
		out.Record(domain.NewEvent(domain.EventJoin, id,
			fmt.Sprintf("tank %d spawned at (%g,%g)", id, joiner.Position.X, joiner.Position.Y)))

		s.membership.Recompute(s.registry.IDs(), out)
	})
}

func (s *Session) Leave(id domain.ParticipantID) {
	s.run("leave", func(out *Outbox) {
		if !s.registry.Remove(id) {
			s.unknown("leave", id)
			return
		}
		out.NotifyAll(s.registry, domain.PlayerLeft{ID: id})
		s.log.Info("participant left", zap.Int32("id", int32(id)), zap.Int("population", s.registry.Size()))
		out.Record(domain.NewEvent(domain.EventLeave, id, fmt.Sprintf("tank %d left", id)))

		s.membership.Recompute(s.registry.IDs(), out)
	})
}

func (s *Session) Move(id domain.ParticipantID, x, y, direction float32) {
	s.run("move", func(out *Outbox) {
		p, ok := s.registry.Mutate(id, func(p *domain.Participant) {
			p.Position = domain.Position{X: x, Y: y}
			p.Direction = direction
		})
		if !ok {
			s.unknown("move", id)
			return
		}
		out.NotifyAllExcept(s.registry, id, domain.PositionUpdated{ID: id, Position: p.Position, Direction: p.Direction})
	})
}

// Fire relays a shot. Shots are not kept in participant state.
func (s *Session) Fire(id domain.ParticipantID, shooterID int32, direction, launchForce, fireX, fireY, fireZ float32) {
	s.run("fire", func(out *Outbox) {
		p, ok := s.registry.Get(id)
		if !ok {
			s.unknown("fire", id)
			return
		}
		n := out.NotifyAllExcept(s.registry, id, domain.SpawnBullet{
			ID:          id,
			ShooterID:   shooterID,
			Position:    p.Position,
			Direction:   direction,
			LaunchForce: launchForce,
			FireX:       fireX,
			FireY:       fireY,
			FireZ:       fireZ,
		})
		s.log.Debug("bullet relayed", zap.Int32("id", int32(id)), zap.Int("recipients", n))
	})
}

// SelectType announces the new type with the player-joined shape, which is
// what existing clients expect.
func (s *Session) SelectType(id domain.ParticipantID, tankType int32) {
	s.run("select_type", func(out *Outbox) {
		p, ok := s.registry.Mutate(id, func(p *domain.Participant) {
			p.TankType = tankType
		})
		if !ok {
			s.unknown("select_type", id)
			return
		}
		out.NotifyAllExcept(s.registry, id, domain.PlayerJoined{ID: id, Position: p.Position, TankType: p.TankType})
	})
}

func (s *Session) ReportHealth(id domain.ParticipantID, current, max float32) {
	s.run("report_health", func(out *Outbox) {
		var wasDestroyed bool
		p, ok := s.registry.Mutate(id, func(p *domain.Participant) {
			wasDestroyed = p.IsDestroyed
			p.SetHealth(current, max)
		})
		if !ok {
			s.unknown("report_health", id)
			return
		}
		if p.CurrentHealth != current || p.MaxHealth != max {
			s.log.Warn("reported health clamped",
				zap.Int32("id", int32(id)),
				zap.Float32("current", current),
				zap.Float32("max", max))
		}
		out.NotifyAllExcept(s.registry, id, domain.HealthUpdated{ID: id, Current: p.CurrentHealth, Max: p.MaxHealth})
		if p.IsDestroyed && !wasDestroyed {
			out.Record(domain.NewEvent(domain.EventDestroyed, id, fmt.Sprintf("tank %d health reached 0", id)))
		}
	})
}

func (s *Session) ReportDestroyed(id domain.ParticipantID, destroyedBy int32) {
	s.run("report_destroyed", func(out *Outbox) {
		if _, ok := s.registry.Mutate(id, func(p *domain.Participant) { p.Destroy() }); !ok {
			s.unknown("report_destroyed", id)
			return
		}
		cause := "by environment"
		if destroyedBy > 0 {
			cause = fmt.Sprintf("by tank %d", destroyedBy)
		}
		s.log.Info("participant destroyed", zap.Int32("id", int32(id)), zap.Int32("destroyed_by", destroyedBy))
		out.NotifyAllExcept(s.registry, id, domain.Destroyed{ID: id, DestroyedBy: destroyedBy})
		out.Record(domain.NewEvent(domain.EventDestroyed, id, fmt.Sprintf("tank %d destroyed %s", id, cause)))
	})
}

func (s *Session) ReportSpawn(id domain.ParticipantID, x, y, direction float32, tankType int32, initialHealth float32) {
	s.run("report_spawn", func(out *Outbox) {
		if _, ok := s.registry.Get(id); !ok {
			s.unknown("report_spawn", id)
			return
		}
		if !domain.ValidAmount(initialHealth) {
			s.log.Warn("spawn rejected", zap.Int32("id", int32(id)), zap.Float32("health", initialHealth), zap.Error(domain.ErrInvalidHealth))
			return
		}
		p, _ := s.registry.Mutate(id, func(p *domain.Participant) {
			p.Spawn(domain.Position{X: x, Y: y}, direction, tankType, initialHealth)
		})
		out.NotifyAllExcept(s.registry, id, domain.Spawned{
			ID:        id,
			Position:  p.Position,
			Direction: p.Direction,
			TankType:  p.TankType,
			Health:    p.MaxHealth,
		})
		out.Record(domain.NewEvent(domain.EventSpawned, id, fmt.Sprintf("tank %d spawned at (%g,%g)", id, x, y)))
	})
}

// PeerMessage relays text to every other participant while a group is active.
func (s *Session) PeerMessage(id domain.ParticipantID, text string) {
	s.run("peer_message", func(out *Outbox) {
		if _, ok := s.registry.Get(id); !ok {
			s.unknown("peer_message", id)
			return
		}
		if _, active := s.membership.Active(); !active {
			s.log.Debug("peer message dropped, no active group", zap.Int32("id", int32(id)))
			return
		}
		if domain.IsGroupInfoMessage(text) {
			s.log.Debug("group info echo ignored", zap.Int32("id", int32(id)))
			return
		}
		out.NotifyAllExcept(s.registry, id, domain.PeerMessage{Text: domain.RelayMessage(id, text)})
	})
}

func (s *Session) Group() (domain.Group, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.membership.Active()
}

func (s *Session) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.Size()
}
