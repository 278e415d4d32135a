package adaptor

import "github.com/ponyo877/tankarena/server/domain"

// Session is the inbound call surface the transport drives.
type Session interface {
	Join(id domain.ParticipantID)
	Leave(id domain.ParticipantID)
	Move(id domain.ParticipantID, x, y, direction float32)
	Fire(id domain.ParticipantID, shooterID int32, direction, launchForce, fireX, fireY, fireZ float32)
	SelectType(id domain.ParticipantID, tankType int32)
	ReportHealth(id domain.ParticipantID, current, max float32)
	ReportDestroyed(id domain.ParticipantID, destroyedBy int32)
	ReportSpawn(id domain.ParticipantID, x, y, direction float32, tankType int32, initialHealth float32)
	PeerMessage(id domain.ParticipantID, text string)
}
