package cmd

import (
	"bytes"
	"context"
	"math/rand"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ponyo877/tankarena/pb"
	"github.com/ponyo877/tankarena/server/adaptor"
	"github.com/ponyo877/tankarena/server/domain"
	"github.com/ponyo877/tankarena/server/usecase"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"
)

func startTestServer(t *testing.T) pb.ArenaClient {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	log := zap.NewNop()
	hub := adaptor.NewHub(64, log)
	session := usecase.NewSession(usecase.Deps{
		Config:   domain.DefaultConfig(),
		Notifier: hub,
		Groups:   hub,
		Rand:     rand.New(rand.NewSource(1)),
		Log:      log,
	})
	ad, err := adaptor.NewAdaptor(session, hub, uuid.MustParse(defaultProtocolVersion), log)
	if err != nil {
		t.Fatalf("adaptor: %v", err)
	}
	s := grpc.NewServer()
	pb.RegisterArenaServer(s, ad)
	go s.Serve(lis)
	t.Cleanup(s.Stop)

	cc, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { cc.Close() })
	return pb.NewArenaClient(cc)
}

func TestConnectRefusedOnWrongVersion(t *testing.T) {
	client := startTestServer(t)
	if _, err := connect(context.Background(), client, uuid.NewString()); err == nil {
		t.Fatal("expected refusal")
	}
}

func TestTailPrintsEvents(t *testing.T) {
	client := startTestServer(t)
	protocolVersion = defaultProtocolVersion

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var out bytes.Buffer
	done := make(chan error, 1)
	go func() {
		done <- runTail(ctx, client, 2, &out)
	}()

	// either join order gives the tail the player's join then its health
	player, err := connect(ctx, client, defaultProtocolVersion)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer player.close()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("tail: %v", err)
		}
	case <-ctx.Done():
		t.Fatal("tail did not finish")
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", out.String())
	}
	if !strings.Contains(lines[0], "joined at") {
		t.Errorf("first event should be the join, got %q", lines[0])
	}
}
