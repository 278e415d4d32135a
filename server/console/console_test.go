package console

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/ponyo877/tankarena/server/domain"
	"github.com/ponyo877/tankarena/server/repository"
	"go.uber.org/zap/zaptest"
)

type fakeAdmin struct {
	tanks map[domain.ParticipantID]*domain.Participant
	calls []string
}

func newFakeAdmin(ids ...domain.ParticipantID) *fakeAdmin {
	a := &fakeAdmin{tanks: map[domain.ParticipantID]*domain.Participant{}}
	for _, id := range ids {
		p := domain.NewParticipant(id, domain.Position{X: 10, Y: 20}, domain.DefaultMaxHealth)
		a.tanks[id] = &p
	}
	return a
}

func (a *fakeAdmin) Status() []domain.Participant {
	var out []domain.Participant
	for id := domain.ParticipantID(0); id < 100; id++ {
		if p, ok := a.tanks[id]; ok {
			out = append(out, *p)
		}
	}
	return out
}

func (a *fakeAdmin) Lookup(id domain.ParticipantID) (domain.Participant, error) {
	p, ok := a.tanks[id]
	if !ok {
		return domain.Participant{}, domain.ErrNotFound
	}
	return *p, nil
}

func (a *fakeAdmin) Damage(id domain.ParticipantID, amount float32) (domain.Participant, error) {
	a.calls = append(a.calls, fmt.Sprintf("damage %d %g", id, amount))
	p, ok := a.tanks[id]
	if !ok {
		return domain.Participant{}, domain.ErrNotFound
	}
	if p.IsDestroyed {
		return *p, domain.ErrAlreadyDestroyed
	}
	p.ApplyDamage(amount)
	return *p, nil
}

func (a *fakeAdmin) Heal(id domain.ParticipantID, amount float32) (domain.Participant, error) {
	a.calls = append(a.calls, fmt.Sprintf("heal %d %g", id, amount))
	p, ok := a.tanks[id]
	if !ok {
		return domain.Participant{}, domain.ErrNotFound
	}
	if p.IsDestroyed {
		return *p, domain.ErrAlreadyDestroyed
	}
	if p.IsFullHealth() {
		return *p, domain.ErrFullHealth
	}
	p.Heal(amount)
	return *p, nil
}

func (a *fakeAdmin) Respawn(id domain.ParticipantID, x, y float32) (domain.Participant, error) {
	a.calls = append(a.calls, fmt.Sprintf("respawn %d %g %g", id, x, y))
	p, ok := a.tanks[id]
	if !ok {
		return domain.Participant{}, domain.ErrNotFound
	}
	p.Respawn(domain.Position{X: x, Y: y})
	return *p, nil
}

func newTestConsole(t *testing.T, admin Admin, history History) (*Console, *bytes.Buffer, *int) {
	t.Helper()
	var out bytes.Buffer
	stops := 0
	c := New(admin, history, &out, func() { stops++ }, zaptest.NewLogger(t))
	return c, &out, &stops
}

func TestCommandOutput(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  string
		calls int
	}{
		{"damage", []string{"damage 1 30"}, "Applied 30 damage to tank 1. New health: 70/100", 1},
		{"damage destroys", []string{"damage 1 150"}, "New health: DESTROYED", 1},
		{"damage destroyed", []string{"damage 1 150", "damage 1 5"}, "Tank 1 is already destroyed", 2},
		{"damage unknown", []string{"damage 99 50"}, "Tank with ID 99 not found", 1},
		{"damage zero", []string{"damage 1 0"}, "Invalid parameters. Format: damage id amount", 0},
		{"damage missing", []string{"damage 1"}, "Invalid parameters. Format: damage id amount", 0},
		{"damage garbage", []string{"damage one 5"}, "Invalid parameters. Format: damage id amount", 0},
		{"heal full", []string{"heal 1 10"}, "Tank 1 already has full health", 1},
		{"heal", []string{"damage 1 50", "heal 1 20"}, "Healed tank 1. New health: 70/100", 2},
		{"heal destroyed", []string{"damage 1 100", "heal 1 20"}, "Tank 1 is destroyed and cannot be healed", 2},
		{"heal negative", []string{"heal 1 -5"}, "Invalid parameters. Format: heal id amount", 0},
		{"damage nan", []string{"damage 1 NaN"}, "Invalid parameters. Format: damage id amount", 0},
		{"damage inf", []string{"damage 1 +Inf"}, "Invalid parameters. Format: damage id amount", 0},
		{"heal nan", []string{"damage 1 50", "heal 1 nan"}, "Invalid parameters. Format: heal id amount", 1},
		{"respawn nan", []string{"respawn 1 NaN 5"}, "Invalid parameters. Format: respawn id x y", 0},
		{"respawn", []string{"respawn 1 50 50"}, "Respawned tank 1 at position (50,50) with full health", 1},
		{"respawn unknown", []string{"respawn 9 1 1"}, "Tank with ID 9 not found", 1},
		{"respawn short", []string{"respawn 1 50"}, "Invalid parameters. Format: respawn id x y", 0},
		{"health all", []string{"health"}, "Tank 2: 100/100", 0},
		{"health one", []string{"health 2"}, "Tank 2 health: 100/100", 0},
		{"health unknown", []string{"health 7"}, "Tank with ID 7 not found", 0},
		{"health bad", []string{"health x"}, "Invalid tank ID format: x", 0},
		{"status", []string{"status"}, "Client ID: 1, Position: (10,20), TankType: -1, Health: 100/100", 0},
		{"unknown", []string{"explode"}, "Unknown command: explode", 0},
		{"quoting", []string{`damage "1 2`}, "Invalid input", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			admin := newFakeAdmin(1, 2)
			c, out, _ := newTestConsole(t, admin, nil)
			for _, line := range tt.lines {
				if c.Execute(line) {
					t.Fatalf("%q must not quit", line)
				}
			}
			if !strings.Contains(out.String(), tt.want) {
				t.Errorf("output %q does not contain %q", out.String(), tt.want)
			}
			if len(admin.calls) != tt.calls {
				t.Errorf("expected %d admin calls, got %v", tt.calls, admin.calls)
			}
		})
	}
}

func TestStatusCountsClients(t *testing.T) {
	c, out, _ := newTestConsole(t, newFakeAdmin(1, 2, 3), nil)
	c.Execute("status")
	if !strings.Contains(out.String(), "Total: 3 clients") {
		t.Errorf("unexpected status output %q", out.String())
	}
}

func TestRunStopsOnQuit(t *testing.T) {
	admin := newFakeAdmin(1)
	c, out, stops := newTestConsole(t, admin, nil)
	in := strings.NewReader("damage 1 10\nq\ndamage 1 10\n")

	if err := c.Run(context.Background(), in); err != nil {
		t.Fatalf("run: %v", err)
	}
	if *stops != 1 {
		t.Errorf("expected stop once, got %d", *stops)
	}
	if len(admin.calls) != 1 {
		t.Errorf("commands after q must not run, got %v", admin.calls)
	}
	if !strings.Contains(out.String(), "Server stopped") {
		t.Errorf("missing shutdown line in %q", out.String())
	}
}

func TestRunEndsAtEOFWithoutStopping(t *testing.T) {
	c, _, stops := newTestConsole(t, newFakeAdmin(), nil)
	if err := c.Run(context.Background(), strings.NewReader("status\n")); err != nil {
		t.Fatalf("run: %v", err)
	}
	if *stops != 0 {
		t.Errorf("end of input must not stop the server")
	}
}

func TestHistoryAndSearch(t *testing.T) {
	db, err := repository.Open("")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	repo := repository.NewRepository(db)
	if err := repo.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	for _, e := range []domain.Event{
		domain.NewEvent(domain.EventJoin, 1, "tank 1 spawned at (1,2)"),
		domain.NewEvent(domain.EventDamage, 1, "applied 30 damage to tank 1, health 70/100"),
		domain.NewEvent(domain.EventLeave, 1, "tank 1 left"),
	} {
		if err := repo.Record(e); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	c, out, _ := newTestConsole(t, newFakeAdmin(), repo)
	c.Execute("history 2")
	if strings.Contains(out.String(), "spawned") || !strings.Contains(out.String(), "tank 1 left") {
		t.Errorf("unexpected history %q", out.String())
	}

	out.Reset()
	c.Execute(`search "damage to tank [0-9]+"`)
	if !strings.Contains(out.String(), "applied 30 damage") || strings.Contains(out.String(), "left") {
		t.Errorf("unexpected search output %q", out.String())
	}

	out.Reset()
	c.Execute("history zero")
	if !strings.Contains(out.String(), "Format: history [n]") {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestHistoryWithoutJournal(t *testing.T) {
	c, out, _ := newTestConsole(t, newFakeAdmin(), nil)
	c.Execute("history")
	if !strings.Contains(out.String(), "Journal is disabled") {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestSuggestionsCoverCommands(t *testing.T) {
	names := map[string]bool{}
	for _, s := range suggestions() {
		names[s.Text] = true
	}
	for _, want := range []string{"status", "damage", "heal", "respawn", "q"} {
		if !names[want] {
			t.Errorf("missing suggestion %q", want)
		}
	}
}
