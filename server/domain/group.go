package domain

import (
	"fmt"
	"strings"
)

const (
	MinGroupSize    = 2
	groupInfoPrefix = "P2P_GROUP_INFO:"
)

type GroupID string

type Group struct {
	ID      GroupID
	Members []ParticipantID
}

func NewGroup(id GroupID, members []ParticipantID) Group {
	return Group{
		ID:      id,
		Members: append([]ParticipantID(nil), members...),
	}
}

func (g Group) Contains(id ParticipantID) bool {
	for _, member := range g.Members {
		if member == id {
			return true
		}
	}
	return false
}

func GroupInfoMessage(id GroupID) string {
	return groupInfoPrefix + string(id)
}

func IsGroupInfoMessage(text string) bool {
	return strings.HasPrefix(text, groupInfoPrefix)
}

// ParseGroupInfo extracts the group id from a group-info message.
func ParseGroupInfo(text string) (GroupID, bool) {
	id, ok := strings.CutPrefix(text, groupInfoPrefix)
	if !ok || id == "" {
		return "", false
	}
	return GroupID(id), true
}

func RelayMessage(from ParticipantID, text string) string {
	return fmt.Sprintf("RELAY_FROM_%d:%s", from, text)
}
