package api

import (
	"context"

	"google.golang.org/grpc"
)

// Fully-qualified method names of DocSyncService.
const (
	ServiceName = "api.DocSyncService"

	MethodActivateClient   = "/api.DocSyncService/ActivateClient"
	MethodDeactivateClient = "/api.DocSyncService/DeactivateClient"
)

// DocSyncServiceClient is the client API for DocSyncService.
type DocSyncServiceClient interface {
	ActivateClient(ctx context.Context, in *ActivateClientRequest, opts ...grpc.CallOption) (*ActivateClientResponse, error)
	DeactivateClient(ctx context.Context, in *DeactivateClientRequest, opts ...grpc.CallOption) (*DeactivateClientResponse, error)
}

type docSyncServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewDocSyncServiceClient creates a DocSyncServiceClient over the given
// connection.
func NewDocSyncServiceClient(cc grpc.ClientConnInterface) DocSyncServiceClient {
	return &docSyncServiceClient{cc: cc}
}

func (c *docSyncServiceClient) ActivateClient(ctx context.Context, in *ActivateClientRequest, opts ...grpc.CallOption) (*ActivateClientResponse, error) {
	out := new(ActivateClientResponse)
	if err := c.cc.Invoke(ctx, MethodActivateClient, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *docSyncServiceClient) DeactivateClient(ctx context.Context, in *DeactivateClientRequest, opts ...grpc.CallOption) (*DeactivateClientResponse, error) {
	out := new(DeactivateClientResponse)
	if err := c.cc.Invoke(ctx, MethodDeactivateClient, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// DocSyncServiceServer is the server API for DocSyncService. The module
// does not ship a server; the interface and registration exist for test
// doubles and for embedding the service elsewhere.
type DocSyncServiceServer interface {
	ActivateClient(ctx context.Context, in *ActivateClientRequest) (*ActivateClientResponse, error)
	DeactivateClient(ctx context.Context, in *DeactivateClientRequest) (*DeactivateClientResponse, error)
}

// RegisterDocSyncServiceServer registers srv on the grpc server.
func RegisterDocSyncServiceServer(s grpc.ServiceRegistrar, srv DocSyncServiceServer) {
	s.RegisterService(&docSyncServiceDesc, srv)
}

func activateClientHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ActivateClientRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DocSyncServiceServer).ActivateClient(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodActivateClient}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DocSyncServiceServer).ActivateClient(ctx, req.(*ActivateClientRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func deactivateClientHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(DeactivateClientRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DocSyncServiceServer).DeactivateClient(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodDeactivateClient}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DocSyncServiceServer).DeactivateClient(ctx, req.(*DeactivateClientRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var docSyncServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DocSyncServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ActivateClient",
			Handler:    activateClientHandler,
		},
		{
			MethodName: "DeactivateClient",
			Handler:    deactivateClientHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "api/docsync.proto",
}
