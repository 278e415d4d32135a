package adaptor

import (
	"fmt"

	"github.com/ponyo877/tankarena/pb"
	"github.com/ponyo877/tankarena/server/domain"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

func toPbFrame(n domain.Notification) (*wrapperspb.BytesValue, error) {
	switch v := n.(type) {
	case domain.PlayerJoined:
		return pb.Encode(pb.RmiOnPlayerJoined, pb.PlayerJoined{
			HostID:   int32(v.ID),
			PosX:     v.Position.X,
			PosY:     v.Position.Y,
			TankType: v.TankType,
		})
	case domain.PlayerLeft:
		return pb.Encode(pb.RmiOnPlayerLeft, pb.PlayerLeft{HostID: int32(v.ID)})
	case domain.PositionUpdated:
		return pb.Encode(pb.RmiOnTankPositionUpdated, pb.TankPositionUpdated{
			HostID:    int32(v.ID),
			PosX:      v.Position.X,
			PosY:      v.Position.Y,
			Direction: v.Direction,
		})
	case domain.HealthUpdated:
		return pb.Encode(pb.RmiOnTankHealthUpdated, pb.TankHealthUpdated{
			HostID:        int32(v.ID),
			CurrentHealth: v.Current,
			MaxHealth:     v.Max,
		})
	case domain.Destroyed:
		return pb.Encode(pb.RmiOnTankDestroyed, pb.TankDestroyed{
			HostID:      int32(v.ID),
			DestroyedBy: v.DestroyedBy,
		})
	case domain.Spawned:
		return pb.Encode(pb.RmiOnTankSpawned, pb.TankSpawned{
			HostID:        int32(v.ID),
			PosX:          v.Position.X,
			PosY:          v.Position.Y,
			Direction:     v.Direction,
			TankType:      v.TankType,
			InitialHealth: v.Health,
		})
	case domain.SpawnBullet:
		return pb.Encode(pb.RmiOnSpawnBullet, pb.SpawnBullet{
			HostID:      int32(v.ID),
			ShooterID:   v.ShooterID,
			PosX:        v.Position.X,
			PosY:        v.Position.Y,
			Direction:   v.Direction,
			LaunchForce: v.LaunchForce,
			FireX:       v.FireX,
			FireY:       v.FireY,
			FireZ:       v.FireZ,
		})
	case domain.PeerMessage:
		return pb.Encode(pb.RmiP2PMessage, pb.P2PMessage{Message: v.Text})
	default:
		return nil, fmt.Errorf("unsupported notification %T", n)
	}
}
