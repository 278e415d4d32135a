package pb

import (
	"context"
	"fmt"
	"strconv"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// The service is written out by hand in the shape protoc-gen-go-grpc emits:
// a single bidirectional stream whose messages are wrapperspb.BytesValue frames.

const (
	Arena_ServiceName            = "tankarena.Arena"
	Arena_Connect_FullMethodName = "/tankarena.Arena/Connect"
)

const (
	// VersionKey carries the client's protocol version GUID.
	VersionKey = "x-arena-version"
	// HostIDKey carries the identity the server assigned to the connection.
	HostIDKey = "x-arena-host-id"
)

type ArenaServer interface {
	Connect(Arena_ConnectServer) error
}

type UnimplementedArenaServer struct{}

func (UnimplementedArenaServer) Connect(Arena_ConnectServer) error {
	return status.Errorf(codes.Unimplemented, "method Connect not implemented")
}

type Arena_ConnectServer interface {
	Send(*wrapperspb.BytesValue) error
	Recv() (*wrapperspb.BytesValue, error)
	grpc.ServerStream
}

type arenaConnectServer struct {
	grpc.ServerStream
}

func (x *arenaConnectServer) Send(m *wrapperspb.BytesValue) error {
	return x.ServerStream.SendMsg(m)
}

func (x *arenaConnectServer) Recv() (*wrapperspb.BytesValue, error) {
	m := new(wrapperspb.BytesValue)
	if err := x.ServerStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

func _Arena_Connect_Handler(srv interface{}, stream grpc.ServerStream) error {
	return srv.(ArenaServer).Connect(&arenaConnectServer{stream})
}

var Arena_ServiceDesc = grpc.ServiceDesc{
	ServiceName: Arena_ServiceName,
	HandlerType: (*ArenaServer)(nil),
	Methods:     []grpc.MethodDesc{},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Connect",
			Handler:       _Arena_Connect_Handler,
			ServerStreams: true,
			ClientStreams: true,
		},
	},
	Metadata: "arena.proto",
}

func RegisterArenaServer(s grpc.ServiceRegistrar, srv ArenaServer) {
	s.RegisterService(&Arena_ServiceDesc, srv)
}

type ArenaClient interface {
	Connect(ctx context.Context, opts ...grpc.CallOption) (Arena_ConnectClient, error)
}

type arenaClient struct {
	cc grpc.ClientConnInterface
}

func NewArenaClient(cc grpc.ClientConnInterface) ArenaClient {
	return &arenaClient{cc}
}

func (c *arenaClient) Connect(ctx context.Context, opts ...grpc.CallOption) (Arena_ConnectClient, error) {
	stream, err := c.cc.NewStream(ctx, &Arena_ServiceDesc.Streams[0], Arena_Connect_FullMethodName, opts...)
	if err != nil {
		return nil, err
	}
	return &arenaConnectClient{stream}, nil
}

type Arena_ConnectClient interface {
	Send(*wrapperspb.BytesValue) error
	Recv() (*wrapperspb.BytesValue, error)
	grpc.ClientStream
}

type arenaConnectClient struct {
	grpc.ClientStream
}

func (x *arenaConnectClient) Send(m *wrapperspb.BytesValue) error {
	return x.ClientStream.SendMsg(m)
}

func (x *arenaConnectClient) Recv() (*wrapperspb.BytesValue, error) {
	m := new(wrapperspb.BytesValue)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

// WithVersion attaches the protocol version to an outgoing Connect call.
func WithVersion(ctx context.Context, version string) context.Context {
	return metadata.AppendToOutgoingContext(ctx, VersionKey, version)
}

func VersionFromContext(ctx context.Context) (string, bool) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", false
	}
	values := md.Get(VersionKey)
	if len(values) == 0 {
		return "", false
	}
	return values[0], true
}

func HostIDHeader(id int32) metadata.MD {
	return metadata.Pairs(HostIDKey, strconv.Itoa(int(id)))
}

func HostIDFromHeader(md metadata.MD) (int32, error) {
	values := md.Get(HostIDKey)
	if len(values) == 0 {
		return 0, fmt.Errorf("header %s missing", HostIDKey)
	}
	id, err := strconv.ParseInt(values[0], 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", HostIDKey, values[0], err)
	}
	return int32(id), nil
}
