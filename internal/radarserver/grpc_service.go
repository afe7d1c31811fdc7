package radarserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/cory-johannsen/radar/internal/radar"
)

// Fully qualified gRPC names for the radar service.
const (
	RadarServiceName = "radar.v1.RadarService"
	ResolveMethod    = "/" + RadarServiceName + "/Resolve"
)

// RadarServer is the server API for radar.v1.RadarService.
//
// Requests and responses are google.protobuf.Struct values carrying the same
// documents as the HTTP endpoint.
type RadarServer interface {
	Resolve(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
}

// RadarServiceDesc describes radar.v1.RadarService for grpc.Server registration.
var RadarServiceDesc = grpc.ServiceDesc{
	ServiceName: RadarServiceName,
	HandlerType: (*RadarServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Resolve", Handler: resolveHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "api/radar/v1/radar.proto",
}

// RegisterRadarServer registers srv on s.
func RegisterRadarServer(s grpc.ServiceRegistrar, srv RadarServer) {
	s.RegisterService(&RadarServiceDesc, srv)
}

func resolveHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RadarServer).Resolve(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ResolveMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(RadarServer).Resolve(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// GRPCService implements RadarServer on top of a Service.
type GRPCService struct {
	svc *Service
}

// NewGRPCService creates a GRPCService.
//
// Precondition: svc must be non-nil.
func NewGRPCService(svc *Service) *GRPCService {
	return &GRPCService{svc: svc}
}

// Resolve implements RadarServer.
//
// Postcondition: Returns {"x": ..., "y": ...} or a status error with
// codes.InvalidArgument or codes.FailedPrecondition.
func (g *GRPCService) Resolve(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	raw, err := protojson.Marshal(in)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "encoding request: %v", err)
	}
	req, err := DecodeRequest(bytes.NewReader(raw))
	if err != nil {
		g.svc.Reject(TransportGRPC, err)
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	res, err := g.svc.Resolve(ctx, TransportGRPC, req)
	if err != nil {
		return nil, status.Error(grpcCode(err), err.Error())
	}
	return CoordinateStruct(res.Target)
}

// CoordinateStruct encodes c in the response document shape.
func CoordinateStruct(c radar.Coordinate) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(map[string]any{"x": c.X, "y": c.Y})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encoding response: %v", err)
	}
	return out, nil
}

// StructCoordinate decodes a response document into a Coordinate.
func StructCoordinate(s *structpb.Struct) (radar.Coordinate, error) {
	fields := s.GetFields()
	x, okX := fields["x"].GetKind().(*structpb.Value_NumberValue)
	y, okY := fields["y"].GetKind().(*structpb.Value_NumberValue)
	if !okX || !okY {
		return radar.Coordinate{}, errors.New("response must carry numeric x and y")
	}
	return radar.Coordinate{X: x.NumberValue, Y: y.NumberValue}, nil
}

// grpcCode maps a resolution error to its status code.
func grpcCode(err error) codes.Code {
	switch {
	case errors.Is(err, ErrMalformedRequest), errors.Is(err, radar.ErrInvalidProtocol):
		return codes.InvalidArgument
	case errors.Is(err, radar.ErrExhaustedCandidateSet):
		return codes.FailedPrecondition
	case errors.Is(err, context.Canceled):
		return codes.Canceled
	case errors.Is(err, context.DeadlineExceeded):
		return codes.DeadlineExceeded
	}
	return codes.Internal
}

// RadarClient is the client API for radar.v1.RadarService.
type RadarClient struct {
	cc grpc.ClientConnInterface
}

// NewRadarClient creates a RadarClient over cc.
func NewRadarClient(cc grpc.ClientConnInterface) *RadarClient {
	return &RadarClient{cc: cc}
}

// Resolve sends a request document and returns the response document.
func (c *RadarClient) Resolve(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, ResolveMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// RequestStruct encodes req as a request document.
func RequestStruct(req Request) (*structpb.Struct, error) {
	raw, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := protojson.Unmarshal(raw, out); err != nil {
		return nil, err
	}
	return out, nil
}
