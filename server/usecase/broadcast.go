package usecase

import (
	"github.com/ponyo877/tankarena/server/domain"
	"go.uber.org/zap"
)

// Outbox collects the effects of one protocol while the session lock is held.
type Outbox struct {
	deliveries []domain.Delivery
	events     []domain.Event
}

func (o *Outbox) NotifyTo(to domain.ParticipantID, n domain.Notification) {
	o.deliveries = append(o.deliveries, domain.Delivery{To: to, Notification: n})
}

// NotifyAllExcept queues n for every registered participant except sender,
// in registry snapshot order.
func (o *Outbox) NotifyAllExcept(registry *domain.Registry, sender domain.ParticipantID, n domain.Notification) int {
	count := 0
	for _, id := range registry.IDs() {
		if id == sender {
			continue
		}
		o.NotifyTo(id, n)
		count++
	}
	return count
}

func (o *Outbox) NotifyAll(registry *domain.Registry, n domain.Notification) int {
	for _, id := range registry.IDs() {
		o.NotifyTo(id, n)
	}
	return registry.Size()
}

func (o *Outbox) Record(event domain.Event) {
	o.events = append(o.events, event)
}

func (o *Outbox) Deliveries() []domain.Delivery {
	return o.deliveries
}

func (o *Outbox) Len() int {
	return len(o.deliveries)
}

// Broadcaster performs the sends an Outbox collected. Each send is independent:
// a failure is logged and the remaining deliveries still go out.
type Broadcaster struct {
	notifier Notifier
	journal  Journal
	log      *zap.Logger
}

func NewBroadcaster(notifier Notifier, journal Journal, log *zap.Logger) *Broadcaster {
	if journal == nil {
		journal = nopJournal{}
	}
	return &Broadcaster{
		notifier: notifier,
		journal:  journal,
		log:      log,
	}
}

// Flush returns the number of deliveries the transport accepted.
func (b *Broadcaster) Flush(o *Outbox) int {
	sent := 0
	for _, d := range o.deliveries {
		if err := b.notifier.Notify(d.To, d.Notification); err != nil {
			b.log.Warn("notify failed",
				zap.Int32("to", int32(d.To)),
				zap.Stringer("kind", d.Notification.Kind()),
				zap.Error(err))
			continue
		}
		sent++
	}
	for _, event := range o.events {
		if err := b.journal.Record(event); err != nil {
			b.log.Warn("journal record failed", zap.String("kind", string(event.Kind)), zap.Error(err))
		}
	}
	return sent
}
