package pb

import "testing"

func TestRmiIDValues(t *testing.T) {
	tests := []struct {
		id   RmiID
		want uint16
		name string
	}{
		{RmiSendMove, 2001, "SendMove"},
		{RmiSendFire, 2002, "SendFire"},
		{RmiSendTankType, 2003, "SendTankType"},
		{RmiSendTankHealthUpdated, 2004, "SendTankHealthUpdated"},
		{RmiSendTankDestroyed, 2005, "SendTankDestroyed"},
		{RmiSendTankSpawned, 2006, "SendTankSpawned"},
		{RmiOnPlayerJoined, 2007, "OnPlayerJoined"},
		{RmiOnPlayerLeft, 2008, "OnPlayerLeft"},
		{RmiOnTankPositionUpdated, 2009, "OnTankPositionUpdated"},
		{RmiOnTankHealthUpdated, 2010, "OnTankHealthUpdated"},
		{RmiOnTankDestroyed, 2011, "OnTankDestroyed"},
		{RmiOnTankSpawned, 2012, "OnTankSpawned"},
		{RmiOnSpawnBullet, 2013, "OnSpawnBullet"},
		{RmiP2PMessage, 2014, "P2PMessage"},
	}
	for _, tt := range tests {
		if uint16(tt.id) != tt.want {
			t.Errorf("%s = %d, want %d", tt.name, tt.id, tt.want)
		}
		if tt.id.String() != tt.name {
			t.Errorf("String() = %q, want %q", tt.id.String(), tt.name)
		}
	}
	if got := RmiID(1999).String(); got != "Rmi(1999)" {
		t.Errorf("unknown id renders as %q", got)
	}
}

func TestInboundOutboundSplit(t *testing.T) {
	for _, id := range InboundRmiIDs {
		if !IsInbound(id) {
			t.Errorf("%s not reported inbound", id)
		}
	}
	for _, id := range []RmiID{RmiOnPlayerJoined, RmiOnSpawnBullet, 1999} {
		if IsInbound(id) {
			t.Errorf("%s reported inbound", id)
		}
	}
	if !IsInbound(RmiP2PMessage) {
		t.Error("P2PMessage travels both ways")
	}
}
