package usecase

import "github.com/ponyo877/tankarena/server/domain"

// Notifier issues one outbound call to a connected participant.
type Notifier interface {
	Notify(to domain.ParticipantID, n domain.Notification) error
}

// GroupService manages peer-to-peer groups on the transport.
type GroupService interface {
	CreateGroup(members []domain.ParticipantID) (domain.GroupID, error)
	DestroyGroup(id domain.GroupID) error
}

type Journal interface {
	Record(event domain.Event) error
}

type nopJournal struct{}

func (nopJournal) Record(domain.Event) error { return nil }
