package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/ponyo877/tankarena/pb"
	"github.com/ponyo877/tankarena/server/domain"
	"github.com/rivo/tview"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Joins the arena and shows every tank in a live table",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runWatchUITview(cmd.Context(), arenaClient); err != nil {
			fmt.Fprintf(os.Stderr, "Watch UI error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

type tankRow struct {
	id        int32
	x, y      float32
	direction float32
	tankType  int32
	health    float32
	maxHealth float32
	destroyed bool
}

func (t tankRow) healthText() string {
	if t.destroyed {
		return "DESTROYED"
	}
	return fmt.Sprintf("%g/%g", t.health, t.maxHealth)
}

// roster mirrors the server's view of every other tank from the frames it
// sends.
type roster struct {
	tanks map[int32]*tankRow
	// group is the newest group id announced. Ids sort by creation time, so
	// an announcement flushed out of order never replaces a newer one.
	group domain.GroupID
}

func newRoster() *roster {
	return &roster{tanks: make(map[int32]*tankRow)}
}

func (r *roster) tank(id int32) *tankRow {
	t, ok := r.tanks[id]
	if !ok {
		t = &tankRow{id: id, tankType: -1}
		r.tanks[id] = t
	}
	return t
}

func (r *roster) apply(f pb.Frame) error {
	switch f.ID {
	case pb.RmiOnPlayerJoined:
		var p pb.PlayerJoined
		if err := f.Decode(&p); err != nil {
			return err
		}
		t := r.tank(p.HostID)
		t.x, t.y, t.tankType = p.PosX, p.PosY, p.TankType
	case pb.RmiOnPlayerLeft:
		var p pb.PlayerLeft
		if err := f.Decode(&p); err != nil {
			return err
		}
		delete(r.tanks, p.HostID)
	case pb.RmiOnTankPositionUpdated:
		var p pb.TankPositionUpdated
		if err := f.Decode(&p); err != nil {
			return err
		}
		t := r.tank(p.HostID)
		t.x, t.y, t.direction = p.PosX, p.PosY, p.Direction
	case pb.RmiOnTankHealthUpdated:
		var p pb.TankHealthUpdated
		if err := f.Decode(&p); err != nil {
			return err
		}
		t := r.tank(p.HostID)
		t.health, t.maxHealth = p.CurrentHealth, p.MaxHealth
		t.destroyed = p.CurrentHealth <= 0
	case pb.RmiOnTankDestroyed:
		var p pb.TankDestroyed
		if err := f.Decode(&p); err != nil {
			return err
		}
		t := r.tank(p.HostID)
		t.health, t.destroyed = 0, true
	case pb.RmiOnTankSpawned:
		var p pb.TankSpawned
		if err := f.Decode(&p); err != nil {
			return err
		}
		t := r.tank(p.HostID)
		t.x, t.y, t.direction, t.tankType = p.PosX, p.PosY, p.Direction, p.TankType
		t.health, t.maxHealth, t.destroyed = p.InitialHealth, p.InitialHealth, false
	case pb.RmiP2PMessage:
		var p pb.P2PMessage
		if err := f.Decode(&p); err != nil {
			return err
		}
		if id, ok := domain.ParseGroupInfo(p.Message); ok && id > r.group {
			r.group = id
		}
	}
	return nil
}

func (r *roster) rows() []tankRow {
	rows := make([]tankRow, 0, len(r.tanks))
	for _, t := range r.tanks {
		rows = append(rows, *t)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].id < rows[j].id })
	return rows
}

func fillTable(table *tview.Table, rows []tankRow) {
	table.Clear()
	for col, h := range []string{"ID", "Position", "Direction", "Type", "Health"} {
		table.SetCell(0, col, tview.NewTableCell(h).SetTextColor(tcell.ColorYellow).SetSelectable(false))
	}
	for i, t := range rows {
		color := tcell.ColorWhite
		if t.destroyed {
			color = tcell.ColorRed
		}
		cells := []string{
			strconv.Itoa(int(t.id)),
			fmt.Sprintf("(%g,%g)", t.x, t.y),
			fmt.Sprintf("%g", t.direction),
			strconv.Itoa(int(t.tankType)),
			t.healthText(),
		}
		for col, text := range cells {
			table.SetCell(i+1, col, tview.NewTableCell(text).SetTextColor(color))
		}
	}
}

func runWatchUITview(ctx context.Context, client pb.ArenaClient) error {
	app := tview.NewApplication()

	table := tview.NewTable().SetFixed(1, 0)
	table.SetBorder(true).SetTitle(" Tanks ")

	logView := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		ScrollToEnd()
	logView.SetBorder(true).SetTitle(" Events ")

	flex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(table, 0, 2, false).
		AddItem(logView, 0, 1, false)
	app.SetRoot(flex, true)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s, err := connect(ctx, client, protocolVersion)
	if err != nil {
		return err
	}
	defer s.close()
	fmt.Fprintf(logView, "[green]Watching as tank %d. (Ctrl+C to exit)\n", s.hostID)

	r := newRoster()
	go func() {
		for {
			f, err := s.recv()
			if err == io.EOF {
				app.QueueUpdateDraw(func() {
					fmt.Fprintln(logView, "[red]Stream closed by server.")
				})
				return
			}
			if err != nil {
				if ctx.Err() == nil {
					app.QueueUpdateDraw(func() {
						fmt.Fprintf(logView, "[red]Error receiving message: %v\n", err)
					})
				}
				return
			}
			app.QueueUpdateDraw(func() {
				if err := r.apply(f); err != nil {
					fmt.Fprintf(logView, "[red]Bad frame: %v\n", err)
					return
				}
				if line, err := describe(f); err == nil {
					fmt.Fprintf(logView, "[white][%s] %s\n", time.Now().Format("15:04:05"), tview.Escape(line))
				}
				fillTable(table, r.rows())
				if r.group != "" {
					table.SetTitle(fmt.Sprintf(" Tanks (group %s) ", r.group))
				}
			})
		}
	}()

	app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyCtrlC {
			cancel()
			app.Stop()
			return nil
		}
		return event
	})

	fillTable(table, nil)
	return app.Run()
}
