package usecase

import (
	"errors"
	"testing"

	"github.com/ponyo877/tankarena/server/domain"
	"go.uber.org/zap/zaptest"
)

type failingGroups struct{ *fakeGroups }

func (f *failingGroups) CreateGroup([]domain.ParticipantID) (domain.GroupID, error) {
	return "", errors.New("transport down")
}

func TestMembershipRebuildsOnEveryRecompute(t *testing.T) {
	groups := newFakeGroups()
	m := NewMembership(groups, zaptest.NewLogger(t))

	var out Outbox
	m.Recompute([]domain.ParticipantID{1, 2}, &out)
	first, ok := m.Active()
	if !ok {
		t.Fatal("expected active group")
	}
	if out.Len() != 2 {
		t.Errorf("expected group info for both members, got %d", out.Len())
	}

	out = Outbox{}
	m.Recompute([]domain.ParticipantID{1, 2, 3}, &out)
	second, _ := m.Active()
	if second.ID == first.ID {
		t.Error("group must be rebuilt, not patched")
	}
	if len(groups.destroy) != 1 || groups.destroy[0] != first.ID {
		t.Errorf("expected %s destroyed, got %v", first.ID, groups.destroy)
	}

	out = Outbox{}
	m.Recompute([]domain.ParticipantID{3}, &out)
	if _, ok := m.Active(); ok {
		t.Error("group must not exist below threshold")
	}
	if out.Len() != 0 {
		t.Errorf("no notifications expected, got %d", out.Len())
	}
}

func TestMembershipCreateFailureLeavesNoGroup(t *testing.T) {
	groups := &failingGroups{fakeGroups: newFakeGroups()}
	m := NewMembership(groups, zaptest.NewLogger(t))

	var out Outbox
	m.Recompute([]domain.ParticipantID{1, 2}, &out)
	if _, ok := m.Active(); ok {
		t.Error("failed create must leave no active group")
	}
	if out.Len() != 0 {
		t.Errorf("no group info expected, got %d", out.Len())
	}
}
