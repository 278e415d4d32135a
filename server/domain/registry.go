package domain

import "sort"

// Registry maps connection identity to participant state. It holds no lock;
// callers serialize access.
type Registry struct {
	participants map[ParticipantID]*Participant
}

func NewRegistry() *Registry {
	return &Registry{participants: make(map[ParticipantID]*Participant)}
}

// Insert stores p under p.ID and reports whether an existing record was replaced.
func (r *Registry) Insert(p Participant) bool {
	_, exists := r.participants[p.ID]
	r.participants[p.ID] = &p
	return exists
}

func (r *Registry) Remove(id ParticipantID) bool {
	if _, exists := r.participants[id]; !exists {
		return false
	}
	delete(r.participants, id)
	return true
}

func (r *Registry) Get(id ParticipantID) (Participant, bool) {
	p, exists := r.participants[id]
	if !exists {
		return Participant{}, false
	}
	return *p, true
}

// Mutate applies fn to the stored record and returns the updated copy.
func (r *Registry) Mutate(id ParticipantID, fn func(p *Participant)) (Participant, bool) {
	p, exists := r.participants[id]
	if !exists {
		return Participant{}, false
	}
	fn(p)
	p.ID = id
	return *p, true
}

// Snapshot returns copies of every participant in ascending id order.
func (r *Registry) Snapshot() []Participant {
	snapshot := make([]Participant, 0, len(r.participants))
	for _, p := range r.participants {
		snapshot = append(snapshot, *p)
	}
	sort.Slice(snapshot, func(i, j int) bool { return snapshot[i].ID < snapshot[j].ID })
	return snapshot
}

func (r *Registry) IDs() []ParticipantID {
	ids := make([]ParticipantID, 0, len(r.participants))
	for id := range r.participants {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (r *Registry) Size() int {
	return len(r.participants)
}
