package cmd

import (
	"context"
	"fmt"

	"github.com/ponyo877/tankarena/pb"
)

// session is one participant stream with its assigned host id.
type session struct {
	stream pb.Arena_ConnectClient
	hostID int32
	cancel context.CancelFunc
}

func connect(ctx context.Context, client pb.ArenaClient, version string) (*session, error) {
	ctx, cancel := context.WithCancel(pb.WithVersion(ctx, version))
	stream, err := client.Connect(ctx)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("connect failed: %w", err)
	}
	header, err := stream.Header()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	hostID, err := pb.HostIDFromHeader(header)
	if err != nil {
		cancel()
		// a refused stream ends without headers, the status carries the reason
		if _, recvErr := stream.Recv(); recvErr != nil {
			return nil, fmt.Errorf("server refused connection: %w", recvErr)
		}
		return nil, err
	}
	return &session{stream: stream, hostID: hostID, cancel: cancel}, nil
}

func (s *session) send(id pb.RmiID, payload any) error {
	msg, err := pb.Encode(id, payload)
	if err != nil {
		return err
	}
	return s.stream.Send(msg)
}

func (s *session) recv() (pb.Frame, error) {
	msg, err := s.stream.Recv()
	if err != nil {
		return pb.Frame{}, err
	}
	return pb.Unmarshal(msg)
}

func (s *session) close() {
	s.stream.CloseSend()
	s.cancel()
}

// describe renders an inbound frame as one line of text.
func describe(f pb.Frame) (string, error) {
	switch f.ID {
	case pb.RmiOnPlayerJoined:
		var p pb.PlayerJoined
		if err := f.Decode(&p); err != nil {
			return "", err
		}
		return fmt.Sprintf("tank %d joined at (%g,%g) type %d", p.HostID, p.PosX, p.PosY, p.TankType), nil
	case pb.RmiOnPlayerLeft:
		var p pb.PlayerLeft
		if err := f.Decode(&p); err != nil {
			return "", err
		}
		return fmt.Sprintf("tank %d left", p.HostID), nil
	case pb.RmiOnTankPositionUpdated:
		var p pb.TankPositionUpdated
		if err := f.Decode(&p); err != nil {
			return "", err
		}
		return fmt.Sprintf("tank %d moved to (%g,%g) facing %g", p.HostID, p.PosX, p.PosY, p.Direction), nil
	case pb.RmiOnTankHealthUpdated:
		var p pb.TankHealthUpdated
		if err := f.Decode(&p); err != nil {
			return "", err
		}
		return fmt.Sprintf("tank %d health %g/%g", p.HostID, p.CurrentHealth, p.MaxHealth), nil
	case pb.RmiOnTankDestroyed:
		var p pb.TankDestroyed
		if err := f.Decode(&p); err != nil {
			return "", err
		}
		if p.DestroyedBy == 0 {
			return fmt.Sprintf("tank %d destroyed by the server", p.HostID), nil
		}
		return fmt.Sprintf("tank %d destroyed by tank %d", p.HostID, p.DestroyedBy), nil
	case pb.RmiOnTankSpawned:
		var p pb.TankSpawned
		if err := f.Decode(&p); err != nil {
			return "", err
		}
		return fmt.Sprintf("tank %d spawned at (%g,%g) type %d health %g", p.HostID, p.PosX, p.PosY, p.TankType, p.InitialHealth), nil
	case pb.RmiOnSpawnBullet:
		var p pb.SpawnBullet
		if err := f.Decode(&p); err != nil {
			return "", err
		}
		return fmt.Sprintf("tank %d fired from (%g,%g) facing %g force %g", p.HostID, p.PosX, p.PosY, p.Direction, p.LaunchForce), nil
	case pb.RmiP2PMessage:
		var p pb.P2PMessage
		if err := f.Decode(&p); err != nil {
			return "", err
		}
		return "message " + p.Message, nil
	}
	return "", fmt.Errorf("unexpected %s", f.ID)
}
