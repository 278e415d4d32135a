package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ponyo877/tankarena/pb"
	"github.com/spf13/cobra"
)

var tailCount int

// tailCmd represents the tail command
var tailCmd = &cobra.Command{
	Use:   "tail [-n count]",
	Short: "Joins the arena and prints every event it receives.",
	Long: `Joins the arena as a passive participant and prints one line per event
until interrupted. With -n, exits after that many events.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		if err := runTail(ctx, arenaClient, tailCount, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error receiving event stream: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(tailCmd)
	tailCmd.Flags().IntVarP(&tailCount, "count", "n", 0, "Exit after this many events (0 follows forever)")
}

func runTail(ctx context.Context, client pb.ArenaClient, count int, out io.Writer) error {
	s, err := connect(ctx, client, protocolVersion)
	if err != nil {
		return err
	}
	defer s.close()

	for seen := 0; count <= 0 || seen < count; seen++ {
		f, err := s.recv()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return err
		}
		line, err := describe(f)
		if err != nil {
			line = err.Error()
		}
		fmt.Fprintf(out, "[%s] %s\n", time.Now().Format("15:04:05"), line)
	}
	return nil
}
