package adaptor

import (
	"errors"
	"fmt"

	"github.com/ponyo877/tankarena/pb"
	"github.com/ponyo877/tankarena/server/domain"
	"go.uber.org/zap"
)

var ErrUnknownRmi = errors.New("unknown rmi id")

type Handler func(from domain.ParticipantID, f pb.Frame) error

// Dispatcher maps inbound call ids to typed handlers.
type Dispatcher struct {
	handlers map[pb.RmiID]Handler
	log      *zap.Logger
}

func NewDispatcher(log *zap.Logger) *Dispatcher {
	return &Dispatcher{
		handlers: make(map[pb.RmiID]Handler),
		log:      log,
	}
}

// Register rejects ids that are not inbound calls and ids registered twice.
func (d *Dispatcher) Register(id pb.RmiID, h Handler) error {
	if !pb.IsInbound(id) {
		return fmt.Errorf("register %s: %w", id, ErrUnknownRmi)
	}
	if _, exists := d.handlers[id]; exists {
		return fmt.Errorf("register %s: handler already registered", id)
	}
	d.handlers[id] = h
	return nil
}

func (d *Dispatcher) Validate() error {
	for _, id := range pb.InboundRmiIDs {
		if _, ok := d.handlers[id]; !ok {
			return fmt.Errorf("no handler for %s", id)
		}
	}
	return nil
}

// Dispatch runs the handler for f and returns the acknowledgement for the
// transport.
func (d *Dispatcher) Dispatch(from domain.ParticipantID, f pb.Frame) bool {
	h, ok := d.handlers[f.ID]
	if !ok {
		d.log.Warn("no handler for call", zap.Int32("from", int32(from)), zap.Stringer("rmi", f.ID))
		return false
	}
	if err := h(from, f); err != nil {
		d.log.Warn("call rejected", zap.Int32("from", int32(from)), zap.Stringer("rmi", f.ID), zap.Error(err))
		return false
	}
	return true
}

func handle[T any](fn func(from domain.ParticipantID, payload T)) Handler {
	return func(from domain.ParticipantID, f pb.Frame) error {
		var payload T
		if err := f.Decode(&payload); err != nil {
			return err
		}
		fn(from, payload)
		return nil
	}
}

// NewSessionDispatcher wires every inbound call to session.
func NewSessionDispatcher(session Session, log *zap.Logger) (*Dispatcher, error) {
	d := NewDispatcher(log)
	table := map[pb.RmiID]Handler{
		pb.RmiSendMove: handle(func(from domain.ParticipantID, p pb.Move) {
			session.Move(from, p.PosX, p.PosY, p.Direction)
		}),
		pb.RmiSendFire: handle(func(from domain.ParticipantID, p pb.Fire) {
			session.Fire(from, p.ShooterID, p.Direction, p.LaunchForce, p.FireX, p.FireY, p.FireZ)
		}),
		pb.RmiSendTankType: handle(func(from domain.ParticipantID, p pb.TankType) {
			session.SelectType(from, p.TankType)
		}),
		pb.RmiSendTankHealthUpdated: handle(func(from domain.ParticipantID, p pb.HealthReport) {
			session.ReportHealth(from, p.CurrentHealth, p.MaxHealth)
		}),
		pb.RmiSendTankDestroyed: handle(func(from domain.ParticipantID, p pb.DestroyReport) {
			session.ReportDestroyed(from, p.DestroyedBy)
		}),
		pb.RmiSendTankSpawned: handle(func(from domain.ParticipantID, p pb.SpawnReport) {
			session.ReportSpawn(from, p.PosX, p.PosY, p.Direction, p.TankType, p.InitialHealth)
		}),
		pb.RmiP2PMessage: handle(func(from domain.ParticipantID, p pb.P2PMessage) {
			session.PeerMessage(from, p.Message)
		}),
	}
	for id, h := range table {
		if err := d.Register(id, h); err != nil {
			return nil, err
		}
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}
