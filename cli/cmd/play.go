package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-shellwords"
	"github.com/ponyo877/tankarena/pb"
	"github.com/spf13/cobra"
)

var errQuit = errors.New("quit")

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Joins the arena and drives a tank from the command line",
	Long: `Joins the arena as a participant. Every line typed is one call to the server:

  move x y direction
  fire direction force [fx fy fz]
  type n
  health current max
  destroyed by
  spawn x y direction type health
  say text...
  quit

Events from the other tanks are printed as they arrive.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runPlay(cmd.Context(), arenaClient, os.Stdin, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(playCmd)
}

func runPlay(ctx context.Context, client pb.ArenaClient, in io.Reader, out io.Writer) error {
	s, err := connect(ctx, client, protocolVersion)
	if err != nil {
		return err
	}
	defer s.close()
	fmt.Fprintf(out, "Connected as tank %d. Type 'quit' to leave.\n", s.hostID)

	go func() {
		for {
			f, err := s.recv()
			if err != nil {
				if !errors.Is(err, io.EOF) && ctx.Err() == nil {
					fmt.Fprintf(out, "Stream closed: %v\n", err)
				}
				return
			}
			line, err := describe(f)
			if err != nil {
				fmt.Fprintf(out, "Bad frame: %v\n", err)
				continue
			}
			fmt.Fprintln(out, line)
		}
	}()

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		id, payload, err := parsePlayCommand(scanner.Text(), s.hostID)
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(out, "%v\n", err)
			continue
		}
		if id == 0 {
			continue
		}
		if err := s.send(id, payload); err != nil {
			return fmt.Errorf("failed to send %s: %w", id, err)
		}
	}
	return scanner.Err()
}

func parseFloats(args []string) ([]float32, error) {
	out := make([]float32, len(args))
	for i, a := range args {
		f, err := strconv.ParseFloat(a, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", a)
		}
		out[i] = float32(f)
	}
	return out, nil
}

func parseInt32(s string) (int32, error) {
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", s)
	}
	return int32(n), nil
}

// parsePlayCommand turns one input line into a call. A blank line yields a
// zero id.
func parsePlayCommand(line string, self int32) (pb.RmiID, any, error) {
	args, err := shellwords.Parse(strings.TrimSpace(line))
	if err != nil {
		return 0, nil, err
	}
	if len(args) == 0 {
		return 0, nil, nil
	}
	name, rest := args[0], args[1:]
	usage := func(format string) error {
		return fmt.Errorf("usage: %s %s", name, format)
	}

	switch name {
	case "quit", "exit":
		return 0, nil, errQuit
	case "move":
		if len(rest) != 3 {
			return 0, nil, usage("x y direction")
		}
		v, err := parseFloats(rest)
		if err != nil {
			return 0, nil, err
		}
		return pb.RmiSendMove, pb.Move{PosX: v[0], PosY: v[1], Direction: v[2]}, nil
	case "fire":
		if len(rest) != 2 && len(rest) != 5 {
			return 0, nil, usage("direction force [fx fy fz]")
		}
		v, err := parseFloats(rest)
		if err != nil {
			return 0, nil, err
		}
		fire := pb.Fire{ShooterID: self, Direction: v[0], LaunchForce: v[1]}
		if len(v) == 5 {
			fire.FireX, fire.FireY, fire.FireZ = v[2], v[3], v[4]
		}
		return pb.RmiSendFire, fire, nil
	case "type":
		if len(rest) != 1 {
			return 0, nil, usage("n")
		}
		n, err := parseInt32(rest[0])
		if err != nil {
			return 0, nil, err
		}
		return pb.RmiSendTankType, pb.TankType{TankType: n}, nil
	case "health":
		if len(rest) != 2 {
			return 0, nil, usage("current max")
		}
		v, err := parseFloats(rest)
		if err != nil {
			return 0, nil, err
		}
		return pb.RmiSendTankHealthUpdated, pb.HealthReport{CurrentHealth: v[0], MaxHealth: v[1]}, nil
	case "destroyed":
		if len(rest) != 1 {
			return 0, nil, usage("by")
		}
		by, err := parseInt32(rest[0])
		if err != nil {
			return 0, nil, err
		}
		return pb.RmiSendTankDestroyed, pb.DestroyReport{DestroyedBy: by}, nil
	case "spawn":
		if len(rest) != 5 {
			return 0, nil, usage("x y direction type health")
		}
		tankType, err := parseInt32(rest[3])
		if err != nil {
			return 0, nil, err
		}
		v, err := parseFloats([]string{rest[0], rest[1], rest[2], rest[4]})
		if err != nil {
			return 0, nil, err
		}
		return pb.RmiSendTankSpawned, pb.SpawnReport{PosX: v[0], PosY: v[1], Direction: v[2], TankType: tankType, InitialHealth: v[3]}, nil
	case "say":
		if len(rest) == 0 {
			return 0, nil, usage("text...")
		}
		return pb.RmiP2PMessage, pb.P2PMessage{Message: strings.Join(rest, " ")}, nil
	}
	return 0, nil, fmt.Errorf("unknown command %q", name)
}
