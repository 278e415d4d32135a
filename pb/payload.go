package pb

// Client to server payloads.

type Move struct {
	PosX      float32 `msgpack:"x"`
	PosY      float32 `msgpack:"y"`
	Direction float32 `msgpack:"d"`
}

type Fire struct {
	ShooterID   int32   `msgpack:"shooter"`
	Direction   float32 `msgpack:"d"`
	LaunchForce float32 `msgpack:"force"`
	FireX       float32 `msgpack:"fx"`
	FireY       float32 `msgpack:"fy"`
	FireZ       float32 `msgpack:"fz"`
}

type TankType struct {
	TankType int32 `msgpack:"type"`
}

type HealthReport struct {
	CurrentHealth float32 `msgpack:"hp"`
	MaxHealth     float32 `msgpack:"max"`
}

type DestroyReport struct {
	DestroyedBy int32 `msgpack:"by"`
}

type SpawnReport struct {
	PosX          float32 `msgpack:"x"`
	PosY          float32 `msgpack:"y"`
	Direction     float32 `msgpack:"d"`
	TankType      int32   `msgpack:"type"`
	InitialHealth float32 `msgpack:"hp"`
}

// P2PMessage travels in both directions.
type P2PMessage struct {
	Message string `msgpack:"msg"`
}

// Server to client payloads. HostID is the participant the event is about.

type PlayerJoined struct {
	HostID   int32   `msgpack:"host"`
	PosX     float32 `msgpack:"x"`
	PosY     float32 `msgpack:"y"`
	TankType int32   `msgpack:"type"`
}

type PlayerLeft struct {
	HostID int32 `msgpack:"host"`
}

type TankPositionUpdated struct {
	HostID    int32   `msgpack:"host"`
	PosX      float32 `msgpack:"x"`
	PosY      float32 `msgpack:"y"`
	Direction float32 `msgpack:"d"`
}

type TankHealthUpdated struct {
	HostID        int32   `msgpack:"host"`
	CurrentHealth float32 `msgpack:"hp"`
	MaxHealth     float32 `msgpack:"max"`
}

type TankDestroyed struct {
	HostID      int32 `msgpack:"host"`
	DestroyedBy int32 `msgpack:"by"`
}

type TankSpawned struct {
	HostID        int32   `msgpack:"host"`
	PosX          float32 `msgpack:"x"`
	PosY          float32 `msgpack:"y"`
	Direction     float32 `msgpack:"d"`
	TankType      int32   `msgpack:"type"`
	InitialHealth float32 `msgpack:"hp"`
}

type SpawnBullet struct {
	HostID      int32   `msgpack:"host"`
	ShooterID   int32   `msgpack:"shooter"`
	PosX        float32 `msgpack:"x"`
	PosY        float32 `msgpack:"y"`
	Direction   float32 `msgpack:"d"`
	LaunchForce float32 `msgpack:"force"`
	FireX       float32 `msgpack:"fx"`
	FireY       float32 `msgpack:"fy"`
	FireZ       float32 `msgpack:"fz"`
}
