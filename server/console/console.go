// Package console is the operator's line interface to a running arena.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/mattn/go-shellwords"
	"github.com/ponyo877/tankarena/server/domain"
	"go.uber.org/zap"
)

const defaultHistory = 20

// Admin is the subset of the session the operator drives.
type Admin interface {
	Status() []domain.Participant
	Lookup(id domain.ParticipantID) (domain.Participant, error)
	Damage(id domain.ParticipantID, amount float32) (domain.Participant, error)
	Heal(id domain.ParticipantID, amount float32) (domain.Participant, error)
	Respawn(id domain.ParticipantID, x, y float32) (domain.Participant, error)
}

type History interface {
	ListEvents(limit int) ([]domain.Event, error)
	SearchEvents(pattern string, limit int) ([]domain.Event, error)
}

type commandHelp struct {
	name  string
	usage string
	help  string
}

var commandHelps = []commandHelp{
	{"status", "status", "Show connected clients"},
	{"health", "health [id]", "Show tank health (all or specific ID)"},
	{"damage", "damage id amount", "Apply damage to a tank"},
	{"heal", "heal id amount", "Heal a tank"},
	{"respawn", "respawn id x y", "Respawn a tank at position (x,y)"},
	{"history", "history [n]", "Show the last n journal events"},
	{"search", "search pattern [n]", "Show journal events matching a regular expression"},
	{"help", "help", "Show this list"},
}

var commands = map[string]func(c *Console, args []string){
	"status":  (*Console).status,
	"health":  (*Console).health,
	"damage":  (*Console).damage,
	"heal":    (*Console).heal,
	"respawn": (*Console).respawn,
	"history": (*Console).history,
	"search":  (*Console).search,
	"help":    (*Console).help,
}

type Console struct {
	admin Admin
	hist  History
	out   io.Writer
	stop  func()
	log   *zap.Logger
}

// New builds a console writing to out. stop is called once when the operator
// quits. history may be nil.
func New(admin Admin, history History, out io.Writer, stop func(), log *zap.Logger) *Console {
	if stop == nil {
		stop = func() {}
	}
	return &Console{admin: admin, hist: history, out: out, stop: stop, log: log}
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format+"\n", args...)
}

// Banner prints the command list the way the server greets its operator.
func (c *Console) Banner() {
	c.printf("Server is running. Commands:")
	c.help(nil)
	c.printf("q: Quit server")
}

// Execute runs one line and reports whether the operator asked to quit.
func (c *Console) Execute(line string) bool {
	args, err := shellwords.Parse(strings.TrimSpace(line))
	if err != nil {
		c.printf("Invalid input: %v", err)
		return false
	}
	if len(args) == 0 {
		return false
	}
	if args[0] == "q" {
		c.log.Info("operator requested shutdown")
		c.stop()
		c.printf("Server stopped")
		return true
	}
	run, ok := commands[args[0]]
	if !ok {
		c.printf("Unknown command: %s (type help)", args[0])
		return false
	}
	run(c, args[1:])
	return false
}

// Run reads commands from in until q, end of input or ctx is done.
func (c *Console) Run(ctx context.Context, in io.Reader) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					return err
				default:
					return nil
				}
			}
			if c.Execute(line) {
				return nil
			}
		}
	}
}

func parseID(s string) (domain.ParticipantID, error) {
	id, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return domain.ParticipantID(id), nil
}

var errNotFinite = errors.New("number must be finite")

func parseFloat(s string) (float32, error) {
	f, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errNotFinite
	}
	return float32(f), nil
}

func (c *Console) status(args []string) {
	tanks := c.admin.Status()
	c.printf("========== Connected Clients ==========")
	c.printf("Total: %d clients", len(tanks))
	for _, t := range tanks {
		c.printf("Client ID: %d, Position: (%g,%g), TankType: %d, Health: %s",
			t.ID, t.Position.X, t.Position.Y, t.TankType, t.HealthStatus())
	}
	c.printf("=======================================")
}

func (c *Console) health(args []string) {
	if len(args) == 0 {
		c.printf("========== Tank Health Status ==========")
		for _, t := range c.admin.Status() {
			c.printf("Tank %d: %s", t.ID, t.HealthStatus())
		}
		c.printf("=======================================")
		return
	}
	id, err := parseID(args[0])
	if err != nil {
		c.printf("Invalid tank ID format: %s", args[0])
		return
	}
	t, err := c.admin.Lookup(id)
	if err != nil {
		c.printf("Tank with ID %d not found", id)
		return
	}
	c.printf("Tank %d health: %s", id, t.HealthStatus())
}

// amountArgs parses "id amount" and requires both to be positive and the
// amount finite.
func amountArgs(args []string) (domain.ParticipantID, float32, bool) {
	if len(args) != 2 {
		return 0, 0, false
	}
	id, err := parseID(args[0])
	if err != nil || id <= 0 {
		return 0, 0, false
	}
	amount, err := parseFloat(args[1])
	if err != nil || !domain.ValidAmount(amount) {
		return 0, 0, false
	}
	return id, amount, true
}

func (c *Console) damage(args []string) {
	id, amount, ok := amountArgs(args)
	if !ok {
		c.printf("Invalid parameters. Format: damage id amount")
		return
	}
	t, err := c.admin.Damage(id, amount)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.printf("Tank with ID %d not found", id)
	case errors.Is(err, domain.ErrAlreadyDestroyed):
		c.printf("Tank %d is already destroyed", id)
	case err != nil:
		c.printf("Invalid parameters: %v", err)
	default:
		c.printf("Applied %g damage to tank %d. New health: %s", amount, id, t.HealthStatus())
	}
}

func (c *Console) heal(args []string) {
	id, amount, ok := amountArgs(args)
	if !ok {
		c.printf("Invalid parameters. Format: heal id amount")
		return
	}
	t, err := c.admin.Heal(id, amount)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.printf("Tank with ID %d not found", id)
	case errors.Is(err, domain.ErrAlreadyDestroyed):
		c.printf("Tank %d is destroyed and cannot be healed", id)
	case errors.Is(err, domain.ErrFullHealth):
		c.printf("Tank %d already has full health", id)
	case err != nil:
		c.printf("Invalid parameters: %v", err)
	default:
		c.printf("Healed tank %d. New health: %s", id, t.HealthStatus())
	}
}

func (c *Console) respawn(args []string) {
	const usage = "Invalid parameters. Format: respawn id x y"
	if len(args) != 3 {
		c.printf(usage)
		return
	}
	id, err := parseID(args[0])
	if err != nil || id <= 0 {
		c.printf(usage)
		return
	}
	x, errX := parseFloat(args[1])
	y, errY := parseFloat(args[2])
	if errX != nil || errY != nil {
		c.printf(usage)
		return
	}
	if _, err := c.admin.Respawn(id, x, y); err != nil {
		c.printf("Tank with ID %d not found", id)
		return
	}
	c.printf("Respawned tank %d at position (%g,%g) with full health", id, x, y)
}

func (c *Console) limitArg(args []string, i int) (int, bool) {
	if len(args) <= i {
		return defaultHistory, true
	}
	n, err := strconv.Atoi(args[i])
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func (c *Console) printEvents(events []domain.Event) {
	if len(events) == 0 {
		c.printf("No events")
		return
	}
	// oldest first reads naturally on a terminal
	for i := len(events) - 1; i >= 0; i-- {
		c.printf("%s", events[i])
	}
}

func (c *Console) history(args []string) {
	if c.hist == nil {
		c.printf("Journal is disabled")
		return
	}
	n, ok := c.limitArg(args, 0)
	if !ok {
		c.printf("Invalid parameters. Format: history [n]")
		return
	}
	events, err := c.hist.ListEvents(n)
	if err != nil {
		c.log.Error("failed to read journal", zap.Error(err))
		c.printf("Failed to read journal: %v", err)
		return
	}
	c.printEvents(events)
}

func (c *Console) search(args []string) {
	if c.hist == nil {
		c.printf("Journal is disabled")
		return
	}
	if len(args) == 0 {
		c.printf("Invalid parameters. Format: search pattern [n]")
		return
	}
	n, ok := c.limitArg(args, 1)
	if !ok {
		c.printf("Invalid parameters. Format: search pattern [n]")
		return
	}
	events, err := c.hist.SearchEvents(args[0], n)
	if err != nil {
		c.printf("Search failed: %v", err)
		return
	}
	c.printEvents(events)
}

func (c *Console) help(args []string) {
	for _, h := range commandHelps {
		c.printf("%s: %s", h.usage, h.help)
	}
}
