package domain

type NotificationKind int

const (
	KindPlayerJoined NotificationKind = iota
	KindPlayerLeft
	KindPositionUpdated
	KindHealthUpdated
	KindDestroyed
	KindSpawned
	KindSpawnBullet
	KindPeerMessage
)

func (k NotificationKind) String() string {
	switch k {
	case KindPlayerJoined:
		return "player_joined"
	case KindPlayerLeft:
		return "player_left"
	case KindPositionUpdated:
		return "position_updated"
	case KindHealthUpdated:
		return "health_updated"
	case KindDestroyed:
		return "destroyed"
	case KindSpawned:
		return "spawned"
	case KindSpawnBullet:
		return "spawn_bullet"
	case KindPeerMessage:
		return "peer_message"
	default:
		return "unknown"
	}
}

// Notification is one of the outbound shapes below.
type Notification interface {
	Kind() NotificationKind
}

// PlayerJoined also announces a tank type change for an existing participant.
type PlayerJoined struct {
	ID       ParticipantID
	Position Position
	TankType int32
}

type PlayerLeft struct {
	ID ParticipantID
}

type PositionUpdated struct {
	ID        ParticipantID
	Position  Position
	Direction float32
}

type HealthUpdated struct {
	ID      ParticipantID
	Current float32
	Max     float32
}

// Destroyed carries DestroyedBy 0 when the environment or the operator did it.
type Destroyed struct {
	ID          ParticipantID
	DestroyedBy int32
}

type Spawned struct {
	ID        ParticipantID
	Position  Position
	Direction float32
	TankType  int32
	Health    float32
}

type SpawnBullet struct {
	ID          ParticipantID
	ShooterID   int32
	Position    Position
	Direction   float32
	LaunchForce float32
	FireX       float32
	FireY       float32
	FireZ       float32
}

type PeerMessage struct {
	Text string
}

func (PlayerJoined) Kind() NotificationKind    { return KindPlayerJoined }
func (PlayerLeft) Kind() NotificationKind      { return KindPlayerLeft }
func (PositionUpdated) Kind() NotificationKind { return KindPositionUpdated }
func (HealthUpdated) Kind() NotificationKind   { return KindHealthUpdated }
func (Destroyed) Kind() NotificationKind       { return KindDestroyed }
func (Spawned) Kind() NotificationKind         { return KindSpawned }
func (SpawnBullet) Kind() NotificationKind     { return KindSpawnBullet }
func (PeerMessage) Kind() NotificationKind     { return KindPeerMessage }

type Delivery struct {
	To           ParticipantID
	Notification Notification
}
