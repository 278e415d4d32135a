package adaptor

import (
	"errors"
	"fmt"
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/ponyo877/tankarena/server/domain"
	"go.uber.org/zap"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

var (
	ErrNotConnected = errors.New("participant not connected")
	ErrQueueFull    = errors.New("send queue full")
)

// Hub is the connection table of the transport. Notify only enqueues; each
// connection drains its own queue on a writer goroutine.
type Hub struct {
	mu        sync.RWMutex
	conns     map[domain.ParticipantID]*conn
	groups    map[domain.GroupID][]domain.ParticipantID
	lastID    domain.ParticipantID
	queueSize int
	log       *zap.Logger
}

type conn struct {
	id        domain.ParticipantID
	out       chan *wrapperspb.BytesValue
	done      chan struct{}
	closeOnce sync.Once
}

func (c *conn) close() {
	c.closeOnce.Do(func() { close(c.done) })
}

func NewHub(queueSize int, log *zap.Logger) *Hub {
	if queueSize <= 0 {
		queueSize = 1
	}
	return &Hub{
		conns:     make(map[domain.ParticipantID]*conn),
		groups:    make(map[domain.GroupID][]domain.ParticipantID),
		queueSize: queueSize,
		log:       log,
	}
}

// Attach registers a new connection under a fresh identity.
func (h *Hub) Attach() *conn {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastID++
	c := &conn{
		id:   h.lastID,
		out:  make(chan *wrapperspb.BytesValue, h.queueSize),
		done: make(chan struct{}),
	}
	h.conns[c.id] = c
	h.log.Debug("connection attached", zap.Int32("id", int32(c.id)))
	return c
}

func (h *Hub) Detach(id domain.ParticipantID) {
	h.mu.Lock()
	c, ok := h.conns[id]
	delete(h.conns, id)
	h.mu.Unlock()
	if ok {
		c.close()
		h.log.Debug("connection detached", zap.Int32("id", int32(id)))
	}
}

func (h *Hub) Connected() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

func (h *Hub) Notify(to domain.ParticipantID, n domain.Notification) error {
	msg, err := toPbFrame(n)
	if err != nil {
		return err
	}

	h.mu.RLock()
	c, ok := h.conns[to]
	h.mu.RUnlock()
	if !ok {
		return fmt.Errorf("notify %d: %w", to, ErrNotConnected)
	}

	select {
	case <-c.done:
		return fmt.Errorf("notify %d: %w", to, ErrNotConnected)
	default:
	}
	select {
	case c.out <- msg:
		return nil
	default:
		return fmt.Errorf("notify %d: %w", to, ErrQueueFull)
	}
}

func (h *Hub) CreateGroup(members []domain.ParticipantID) (domain.GroupID, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, member := range members {
		if _, ok := h.conns[member]; !ok {
			return "", fmt.Errorf("create group with %d: %w", member, ErrNotConnected)
		}
	}
	id := domain.GroupID(ulid.Make().String())
	h.groups[id] = append([]domain.ParticipantID(nil), members...)
	return id, nil
}

func (h *Hub) DestroyGroup(id domain.GroupID) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.groups[id]; !ok {
		return fmt.Errorf("group %s: %w", id, domain.ErrNotFound)
	}
	delete(h.groups, id)
	return nil
}

func (h *Hub) GroupMembers(id domain.GroupID) ([]domain.ParticipantID, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	members, ok := h.groups[id]
	if !ok {
		return nil, false
	}
	return append([]domain.ParticipantID(nil), members...), true
}

func (h *Hub) GroupCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.groups)
}
