package adaptor

import (
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/ponyo877/tankarena/pb"
	"github.com/ponyo877/tankarena/server/domain"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

type Adaptor struct {
	session    Session
	hub        *Hub
	dispatcher *Dispatcher
	version    uuid.UUID
	log        *zap.Logger
	pb.UnimplementedArenaServer
}

func NewAdaptor(session Session, hub *Hub, version uuid.UUID, log *zap.Logger) (*Adaptor, error) {
	dispatcher, err := NewSessionDispatcher(session, log.Named("dispatch"))
	if err != nil {
		return nil, fmt.Errorf("failed to build dispatch table: %w", err)
	}
	return &Adaptor{
		session:    session,
		hub:        hub,
		dispatcher: dispatcher,
		version:    version,
		log:        log,
	}, nil
}

func (a *Adaptor) checkVersion(stream pb.Arena_ConnectServer) error {
	raw, ok := pb.VersionFromContext(stream.Context())
	if !ok {
		return status.Errorf(codes.FailedPrecondition, "missing %s", pb.VersionKey)
	}
	version, err := uuid.Parse(raw)
	if err != nil || version != a.version {
		return status.Errorf(codes.FailedPrecondition, "protocol version %q does not match server", raw)
	}
	return nil
}

// Connect serves one participant for the lifetime of its stream.
func (a *Adaptor) Connect(stream pb.Arena_ConnectServer) error {
	remote := "unknown"
	if p, ok := peer.FromContext(stream.Context()); ok {
		remote = p.Addr.String()
	}
	if err := a.checkVersion(stream); err != nil {
		a.log.Warn("connection refused", zap.String("remote", remote), zap.Error(err))
		return err
	}

	c := a.hub.Attach()
	log := a.log.With(zap.Int32("id", int32(c.id)), zap.String("remote", remote))
	if err := stream.SendHeader(pb.HostIDHeader(int32(c.id))); err != nil {
		a.hub.Detach(c.id)
		return fmt.Errorf("failed to send header: %w", err)
	}
	log.Info("client connected")

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		a.writeLoop(stream, c, log)
	}()

	a.session.Join(c.id)
	err := a.readLoop(stream, c.id, log)

	a.session.Leave(c.id)
	a.hub.Detach(c.id)
	<-writerDone

	if err != nil {
		log.Info("client disconnected with error", zap.Error(err))
		return nil
	}
	log.Info("client disconnected")
	return nil
}

func (a *Adaptor) readLoop(stream pb.Arena_ConnectServer, id domain.ParticipantID, log *zap.Logger) error {
	for {
		msg, err := stream.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		frame, err := pb.Unmarshal(msg)
		if err != nil {
			log.Warn("bad frame", zap.Error(err))
			continue
		}
		if ok := a.dispatcher.Dispatch(id, frame); !ok {
			log.Debug("call not acknowledged", zap.Stringer("rmi", frame.ID))
		}
	}
}

func (a *Adaptor) writeLoop(stream pb.Arena_ConnectServer, c *conn, log *zap.Logger) {
	for {
		select {
		case <-c.done:
			return
		case msg := <-c.out:
			if err := stream.Send(msg); err != nil {
				log.Warn("send failed", zap.Error(err))
				return
			}
		}
	}
}
