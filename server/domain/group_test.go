package domain

import "testing"

func TestGroupInfoMessage(t *testing.T) {
	msg := GroupInfoMessage("01HZX")
	if msg != "P2P_GROUP_INFO:01HZX" {
		t.Fatalf("unexpected message %q", msg)
	}
	if !IsGroupInfoMessage(msg) {
		t.Error("expected marker to be recognised")
	}
	if IsGroupInfoMessage("hello P2P_GROUP_INFO:") {
		t.Error("marker must only match as prefix")
	}
}

func TestParseGroupInfo(t *testing.T) {
	tests := []struct {
		text   string
		want   GroupID
		wantOK bool
	}{
		{GroupInfoMessage("01HZX"), "01HZX", true},
		{"P2P_GROUP_INFO:", "", false},
		{"RELAY_FROM_2:P2P_GROUP_INFO:01HZX", "", false},
		{"hello", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseGroupInfo(tt.text)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseGroupInfo(%q) = %q, %v; want %q, %v", tt.text, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestRelayMessage(t *testing.T) {
	if got := RelayMessage(3, "gg"); got != "RELAY_FROM_3:gg" {
		t.Errorf("got %q", got)
	}
}

func TestNewGroupCopiesMembers(t *testing.T) {
	members := []ParticipantID{1, 2}
	g := NewGroup("g", members)
	members[0] = 9
	if !g.Contains(1) || g.Contains(9) {
		t.Errorf("group must own its member slice, got %v", g.Members)
	}
}
