package domain

import "testing"

func TestRegistryInsertGetRemove(t *testing.T) {
	r := NewRegistry()
	if replaced := r.Insert(NewParticipant(1, Position{X: 1}, 100)); replaced {
		t.Fatal("first insert must not replace")
	}
	if replaced := r.Insert(NewParticipant(1, Position{X: 2}, 100)); !replaced {
		t.Fatal("duplicate insert must report replacement")
	}
	p, ok := r.Get(1)
	if !ok || p.Position.X != 2 {
		t.Fatalf("expected overwritten record, got %+v ok=%v", p, ok)
	}
	if r.Size() != 1 {
		t.Fatalf("expected size 1, got %d", r.Size())
	}
	if !r.Remove(1) {
		t.Fatal("expected remove to succeed")
	}
	if r.Remove(1) {
		t.Error("second remove must report not found")
	}
	if _, ok := r.Get(1); ok {
		t.Error("removed participant still present")
	}
}

func TestRegistryMutate(t *testing.T) {
	r := NewRegistry()
	r.Insert(NewParticipant(5, Position{}, 100))

	updated, ok := r.Mutate(5, func(p *Participant) {
		p.Position = Position{X: 9, Y: 8}
		p.ID = 99
	})
	if !ok {
		t.Fatal("expected mutate to find participant")
	}
	if updated.ID != 5 || updated.Position != (Position{X: 9, Y: 8}) {
		t.Errorf("unexpected result %+v", updated)
	}
	if _, ok := r.Mutate(6, func(p *Participant) { t.Error("fn called for unknown id") }); ok {
		t.Error("mutate on unknown id must report not found")
	}
}

func TestRegistrySnapshotOrderAndIsolation(t *testing.T) {
	r := NewRegistry()
	for _, id := range []ParticipantID{4, 1, 3, 2} {
		r.Insert(NewParticipant(id, Position{}, 100))
	}
	snapshot := r.Snapshot()
	for i, p := range snapshot {
		if p.ID != ParticipantID(i+1) {
			t.Fatalf("snapshot not ordered: %v", snapshot)
		}
	}
	snapshot[0].CurrentHealth = 0
	if p, _ := r.Get(1); p.CurrentHealth != 100 {
		t.Error("snapshot must not alias registry records")
	}
	ids := r.IDs()
	if len(ids) != 4 || ids[0] != 1 || ids[3] != 4 {
		t.Errorf("unexpected ids %v", ids)
	}
}

func TestJoinThenLeaveRestoresSize(t *testing.T) {
	r := NewRegistry()
	r.Insert(NewParticipant(1, Position{}, 100))
	before := r.Size()
	r.Insert(NewParticipant(2, Position{}, 100))
	r.Remove(2)
	if r.Size() != before {
		t.Errorf("expected size %d, got %d", before, r.Size())
	}
	for _, id := range r.IDs() {
		if id == 2 {
			t.Error("departed id still listed")
		}
	}
}
