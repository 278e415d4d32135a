package usecase

import (
	"github.com/ponyo877/tankarena/server/domain"
	"go.uber.org/zap"
)

// Membership keeps the single peer-to-peer group in line with the connected
// population. The group is always torn down and rebuilt, never patched.
type Membership struct {
	groups GroupService
	active *domain.Group
	log    *zap.Logger
}

func NewMembership(groups GroupService, log *zap.Logger) *Membership {
	return &Membership{
		groups: groups,
		log:    log,
	}
}

func (m *Membership) Recompute(ids []domain.ParticipantID, out *Outbox) {
	if m.active != nil {
		if err := m.groups.DestroyGroup(m.active.ID); err != nil {
			m.log.Warn("destroy group failed", zap.String("group", string(m.active.ID)), zap.Error(err))
		}
		m.active = nil
	}

	if len(ids) < domain.MinGroupSize {
		m.log.Debug("not enough participants for a group", zap.Int("participants", len(ids)))
		return
	}

	id, err := m.groups.CreateGroup(ids)
	if err != nil {
		m.log.Error("create group failed", zap.Int("participants", len(ids)), zap.Error(err))
		return
	}
	group := domain.NewGroup(id, ids)
	m.active = &group
	m.log.Info("group created", zap.String("group", string(id)), zap.Int("members", len(ids)))

	info := domain.PeerMessage{Text: domain.GroupInfoMessage(id)}
	for _, member := range group.Members {
		out.NotifyTo(member, info)
	}
}

func (m *Membership) Active() (domain.Group, bool) {
	if m.active == nil {
		return domain.Group{}, false
	}
	return domain.NewGroup(m.active.ID, m.active.Members), true
}
