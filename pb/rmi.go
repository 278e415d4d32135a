package pb

import "strconv"

// RmiID identifies a remote call on the wire. Values match the message ids the
// existing tank clients were built against.
type RmiID uint16

const rmiBase RmiID = 2000

const (
	RmiSendMove              = rmiBase + 1
	RmiSendFire              = rmiBase + 2
	RmiSendTankType          = rmiBase + 3
	RmiSendTankHealthUpdated = rmiBase + 4
	RmiSendTankDestroyed     = rmiBase + 5
	RmiSendTankSpawned       = rmiBase + 6
	RmiOnPlayerJoined        = rmiBase + 7
	RmiOnPlayerLeft          = rmiBase + 8
	RmiOnTankPositionUpdated = rmiBase + 9
	RmiOnTankHealthUpdated   = rmiBase + 10
	RmiOnTankDestroyed       = rmiBase + 11
	RmiOnTankSpawned         = rmiBase + 12
	RmiOnSpawnBullet         = rmiBase + 13
	RmiP2PMessage            = rmiBase + 14
)

// InboundRmiIDs are the calls a client may send to the server.
var InboundRmiIDs = []RmiID{
	RmiSendMove,
	RmiSendFire,
	RmiSendTankType,
	RmiSendTankHealthUpdated,
	RmiSendTankDestroyed,
	RmiSendTankSpawned,
	RmiP2PMessage,
}

// OutboundRmiIDs are the calls the server sends to clients.
var OutboundRmiIDs = []RmiID{
	RmiOnPlayerJoined,
	RmiOnPlayerLeft,
	RmiOnTankPositionUpdated,
	RmiOnTankHealthUpdated,
	RmiOnTankDestroyed,
	RmiOnTankSpawned,
	RmiOnSpawnBullet,
	RmiP2PMessage,
}

var rmiNames = map[RmiID]string{
	RmiSendMove:              "SendMove",
	RmiSendFire:              "SendFire",
	RmiSendTankType:          "SendTankType",
	RmiSendTankHealthUpdated: "SendTankHealthUpdated",
	RmiSendTankDestroyed:     "SendTankDestroyed",
	RmiSendTankSpawned:       "SendTankSpawned",
	RmiOnPlayerJoined:        "OnPlayerJoined",
	RmiOnPlayerLeft:          "OnPlayerLeft",
	RmiOnTankPositionUpdated: "OnTankPositionUpdated",
	RmiOnTankHealthUpdated:   "OnTankHealthUpdated",
	RmiOnTankDestroyed:       "OnTankDestroyed",
	RmiOnTankSpawned:         "OnTankSpawned",
	RmiOnSpawnBullet:         "OnSpawnBullet",
	RmiP2PMessage:            "P2PMessage",
}

func (id RmiID) String() string {
	if name, ok := rmiNames[id]; ok {
		return name
	}
	return "Rmi(" + strconv.Itoa(int(id)) + ")"
}

func IsInbound(id RmiID) bool {
	for _, in := range InboundRmiIDs {
		if in == id {
			return true
		}
	}
	return false
}
