package domain

import "time"

type EventKind string

const (
	EventJoin      EventKind = "join"
	EventLeave     EventKind = "leave"
	EventDestroyed EventKind = "destroyed"
	EventSpawned   EventKind = "spawned"
	EventDamage    EventKind = "damage"
	EventHeal      EventKind = "heal"
	EventRespawn   EventKind = "respawn"
)

// Event is one journal line. ID is assigned by the journal.
type Event struct {
	ID          string
	Kind        EventKind
	Participant ParticipantID
	Detail      string
	CreatedAt   time.Time
}

func NewEvent(kind EventKind, participant ParticipantID, detail string) Event {
	return Event{
		Kind:        kind,
		Participant: participant,
		Detail:      detail,
		CreatedAt:   time.Now(),
	}
}

func (e Event) String() string {
	return e.CreatedAt.Format("15:04:05") + " " + string(e.Kind) + " " + e.Detail
}
