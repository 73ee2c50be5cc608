package grpc

// proto.go defines the gRPC server interface for scam/v1/scam.proto. It stands
// in for generated code and is served through the JSON codec.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ScamServiceServer is the server API for ScamService.
type ScamServiceServer interface {
	AnalyzeMessage(context.Context, *AnalyzeMessageRequest) (*AnalyzeMessageResponse, error)
	GetAssessment(context.Context, *GetAssessmentRequest) (*GetAssessmentResponse, error)
	mustEmbedUnimplementedScamServiceServer()
}

// UnimplementedScamServiceServer provides forward-compatible default implementations.
type UnimplementedScamServiceServer struct{}

func (UnimplementedScamServiceServer) AnalyzeMessage(context.Context, *AnalyzeMessageRequest) (*AnalyzeMessageResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method AnalyzeMessage not implemented")
}
func (UnimplementedScamServiceServer) GetAssessment(context.Context, *GetAssessmentRequest) (*GetAssessmentResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetAssessment not implemented")
}
func (UnimplementedScamServiceServer) mustEmbedUnimplementedScamServiceServer() {}

// RegisterScamServiceServer registers the ScamServiceServer with the gRPC server.
func RegisterScamServiceServer(s *grpclib.Server, srv ScamServiceServer) {
	s.RegisterService(&_ScamService_serviceDesc, srv)
}

// ScamServiceName is the fully-qualified gRPC service name.
const ScamServiceName = "scam.v1.ScamService"

var _ScamService_serviceDesc = grpclib.ServiceDesc{
	ServiceName: ScamServiceName,
	HandlerType: (*ScamServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "AnalyzeMessage", Handler: _ScamService_AnalyzeMessage_Handler},
		{MethodName: "GetAssessment", Handler: _ScamService_GetAssessment_Handler},
	},
	Streams:  []grpclib.StreamDesc{},
	Metadata: "scam/v1/scam.proto",
}

func _ScamService_AnalyzeMessage_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(AnalyzeMessageRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ScamServiceServer).AnalyzeMessage(ctx, req)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: "/" + ScamServiceName + "/AnalyzeMessage"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ScamServiceServer).AnalyzeMessage(ctx, req.(*AnalyzeMessageRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func _ScamService_GetAssessment_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(GetAssessmentRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ScamServiceServer).GetAssessment(ctx, req)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: "/" + ScamServiceName + "/GetAssessment"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ScamServiceServer).GetAssessment(ctx, req.(*GetAssessmentRequest))
	}
	return interceptor(ctx, req, info, handler)
}
