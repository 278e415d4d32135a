package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/ponyo877/tankarena/pb"
	"github.com/ponyo877/tankarena/server/adaptor"
	"github.com/ponyo877/tankarena/server/config"
	"github.com/ponyo877/tankarena/server/console"
	"github.com/ponyo877/tankarena/server/repository"
	"github.com/ponyo877/tankarena/server/usecase"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"
)

var (
	cfgFile string
	v       = viper.New()
)

var rootCmd = &cobra.Command{
	Use:          "arenad",
	Short:        "Runs the tank arena session server",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(v, cfgFile)
		if err != nil {
			return err
		}
		log, err := newLogger(cfg.LogLevel)
		if err != nil {
			return fmt.Errorf("failed to build logger: %w", err)
		}
		defer log.Sync()
		return run(cmd.Context(), cfg, log)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml)")
	rootCmd.Flags().Int("port", 33334, "TCP port to listen on")
	rootCmd.Flags().String("journal", "", "sqlite journal file (empty keeps it in memory)")
	rootCmd.Flags().String("log-level", "info", "debug, info, warn or error")
	rootCmd.Flags().String("interactive", config.InteractiveAuto, "console mode: auto, on or off")

	v.BindPFlag(config.PortKey, rootCmd.Flags().Lookup("port"))
	v.BindPFlag(config.JournalKey, rootCmd.Flags().Lookup("journal"))
	v.BindPFlag(config.LogLevelKey, rootCmd.Flags().Lookup("log-level"))
	v.BindPFlag(config.InteractiveKey, rootCmd.Flags().Lookup("interactive"))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newLogger(level zapcore.Level) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.Encoding = "console"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return zc.Build()
}

func interactive(mode string) bool {
	switch mode {
	case config.InteractiveOn:
		return true
	case config.InteractiveOff:
		return false
	}
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func run(ctx context.Context, cfg config.Config, log *zap.Logger) error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Port))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	db, err := repository.Open(cfg.Journal)
	if err != nil {
		return err
	}
	defer db.Close()
	repo := repository.NewRepository(db)
	if err := repo.Migrate(); err != nil {
		return err
	}

	hub := adaptor.NewHub(cfg.SendQueueSize, log.Named("hub"))
	session := usecase.NewSession(usecase.Deps{
		Config:   cfg.Session,
		Notifier: hub,
		Groups:   hub,
		Journal:  repo,
		Rand:     rand.New(rand.NewSource(time.Now().UnixNano())),
		Log:      log.Named("session"),
	})
	ad, err := adaptor.NewAdaptor(session, hub, cfg.ProtocolVersion, log.Named("adaptor"))
	if err != nil {
		return err
	}
	s := grpc.NewServer()
	pb.RegisterArenaServer(s, ad)
	reflection.Register(s)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.Serve(lis)
	}()
	log.Info("server is running",
		zap.Int("port", cfg.Port),
		zap.Stringer("protocol_version", cfg.ProtocolVersion),
		zap.String("journal", cfg.Journal))

	var once sync.Once
	stopServer := func() { once.Do(s.Stop) }

	con := console.New(session, repo, os.Stdout, stopServer, log.Named("console"))
	con.Banner()
	go func() {
		if interactive(cfg.Interactive) {
			con.RunInteractive()
			return
		}
		if err := con.Run(ctx, os.Stdin); err != nil && !errors.Is(err, context.Canceled) {
			log.Warn("console stopped", zap.Error(err))
		}
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("failed to serve: %w", err)
		}
	case <-ctx.Done():
		log.Info("signal received, stopping")
		stopServer()
		<-serveErr
	}
	log.Info("server stopped", zap.Int("connected", hub.Connected()))
	return nil
}
