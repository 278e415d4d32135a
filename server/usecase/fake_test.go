package usecase

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/ponyo877/tankarena/server/domain"
	"go.uber.org/zap/zaptest"
)

type fakeNotifier struct {
	mu         sync.Mutex
	deliveries []domain.Delivery
	failing    map[domain.ParticipantID]bool
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{failing: make(map[domain.ParticipantID]bool)}
}

func (f *fakeNotifier) Notify(to domain.ParticipantID, n domain.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing[to] {
		return errors.New("send failed")
	}
	f.deliveries = append(f.deliveries, domain.Delivery{To: to, Notification: n})
	return nil
}

func (f *fakeNotifier) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deliveries = nil
}

func (f *fakeNotifier) to(id domain.ParticipantID) []domain.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Notification
	for _, d := range f.deliveries {
		if d.To == id {
			out = append(out, d.Notification)
		}
	}
	return out
}

func (f *fakeNotifier) ofKind(kind domain.NotificationKind) []domain.Delivery {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Delivery
	for _, d := range f.deliveries {
		if d.Notification.Kind() == kind {
			out = append(out, d)
		}
	}
	return out
}

type fakeGroups struct {
	mu      sync.Mutex
	next    int
	live    map[domain.GroupID][]domain.ParticipantID
	destroy []domain.GroupID
}

func newFakeGroups() *fakeGroups {
	return &fakeGroups{live: make(map[domain.GroupID][]domain.ParticipantID)}
}

func (g *fakeGroups) CreateGroup(members []domain.ParticipantID) (domain.GroupID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	id := domain.GroupID(fmt.Sprintf("g%d", g.next))
	g.live[id] = append([]domain.ParticipantID(nil), members...)
	return id, nil
}

func (g *fakeGroups) DestroyGroup(id domain.GroupID) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.live[id]; !ok {
		return fmt.Errorf("group %s: %w", id, domain.ErrNotFound)
	}
	delete(g.live, id)
	g.destroy = append(g.destroy, id)
	return nil
}

func (g *fakeGroups) liveCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.live)
}

type fakeJournal struct {
	mu     sync.Mutex
	events []domain.Event
}

func (j *fakeJournal) Record(e domain.Event) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.events = append(j.events, e)
	return nil
}

type testSession struct {
	*Session
	notifier *fakeNotifier
	groups   *fakeGroups
	journal  *fakeJournal
}

func newTestSession(t *testing.T, ids ...domain.ParticipantID) *testSession {
	t.Helper()
	ts := &testSession{
		notifier: newFakeNotifier(),
		groups:   newFakeGroups(),
		journal:  &fakeJournal{},
	}
	ts.Session = NewSession(Deps{
		Config:   domain.DefaultConfig(),
		Notifier: ts.notifier,
		Groups:   ts.groups,
		Journal:  ts.journal,
		Rand:     rand.New(rand.NewSource(1)),
		Log:      zaptest.NewLogger(t),
	})
	for _, id := range ids {
		ts.Join(id)
	}
	ts.notifier.reset()
	return ts
}

func (ts *testSession) participant(t *testing.T, id domain.ParticipantID) domain.Participant {
	t.Helper()
	p, err := ts.Lookup(id)
	if err != nil {
		t.Fatalf("lookup %d: %v", id, err)
	}
	return p
}
