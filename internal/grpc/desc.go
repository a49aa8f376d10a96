package grpcserver

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "zapp.v1.OrderService"

// OrderStream is the server side of WatchOrders.
type OrderStream interface {
	Context() context.Context
	Send(*WatchEvent) error
}

// OrderServiceServer is the server API for zapp.v1.OrderService.
type OrderServiceServer interface {
	PlaceOrder(context.Context, *PlaceOrderRequest) (*OrderResponse, error)
	GetOrder(context.Context, *OrderRequest) (*OrderResponse, error)
	ListAvailable(context.Context, *Empty) (*OrdersResponse, error)
	ListAccepted(context.Context, *Empty) (*OrdersResponse, error)
	ListHistory(context.Context, *Empty) (*OrdersResponse, error)
	ListActive(context.Context, *Empty) (*OrdersResponse, error)
	ListDelivered(context.Context, *Empty) (*OrdersResponse, error)
	PrepareClaim(context.Context, *PrepareClaimRequest) (*PrepareClaimResponse, error)
	ClaimOrders(context.Context, *ClaimOrdersRequest) (*ClaimOrdersResponse, error)
	DeliverOrder(context.Context, *OrderRequest) (*OrderResponse, error)
	ArchiveDelivered(context.Context, *Empty) (*ArchiveResponse, error)
	ListNotifications(context.Context, *Empty) (*NotificationsResponse, error)
	MarkNotificationRead(context.Context, *MarkNotificationReadRequest) (*Empty, error)
	UpsertProfile(context.Context, *ProfileRequest) (*ProfileResponse, error)
	GetProfile(context.Context, *Empty) (*ProfileResponse, error)
	WatchOrders(*WatchOrdersRequest, OrderStream) error
}

// RegisterOrderServiceServer registers srv on s.
func RegisterOrderServiceServer(s grpc.ServiceRegistrar, srv OrderServiceServer) {
	s.RegisterService(&OrderServiceDesc, srv)
}

func fullMethod(name string) string { return "/" + ServiceName + "/" + name }

func unary[Req, Resp any](name string, call func(OrderServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			handler := func(ctx context.Context, req any) (any, error) {
				r := new(Req)
				if err := decodeStruct(req.(*structpb.Struct), r); err != nil {
					return nil, status.Errorf(codes.InvalidArgument, "decode request: %v", err)
				}
				resp, err := call(srv.(OrderServiceServer), ctx, r)
				if err != nil {
					return nil, toStatus(err)
				}
				out, err := encodeStruct(resp)
				if err != nil {
					return nil, status.Errorf(codes.Internal, "encode response: %v", err)
				}
				return out, nil
			}
			if interceptor == nil {
				return handler(ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(name)}
			return interceptor(ctx, in, info, handler)
		},
	}
}

type watchStream struct {
	grpc.ServerStream
}

func (w *watchStream) Send(e *WatchEvent) error {
	out, err := encodeStruct(e)
	if err != nil {
		return status.Errorf(codes.Internal, "encode event: %v", err)
	}
	return w.ServerStream.SendMsg(out)
}

func watchOrdersHandler(srv any, stream grpc.ServerStream) error {
	in := new(structpb.Struct)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	req := new(WatchOrdersRequest)
	if err := decodeStruct(in, req); err != nil {
		return status.Errorf(codes.InvalidArgument, "decode request: %v", err)
	}
	return toStatus(srv.(OrderServiceServer).WatchOrders(req, &watchStream{stream}))
}

// OrderServiceDesc describes zapp.v1.OrderService. Every message is a
// google.protobuf.Struct.
var OrderServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*OrderServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("PlaceOrder", OrderServiceServer.PlaceOrder),
		unary("GetOrder", OrderServiceServer.GetOrder),
		unary("ListAvailable", OrderServiceServer.ListAvailable),
		unary("ListAccepted", OrderServiceServer.ListAccepted),
		unary("ListHistory", OrderServiceServer.ListHistory),
		unary("ListActive", OrderServiceServer.ListActive),
		unary("ListDelivered", OrderServiceServer.ListDelivered),
		unary("PrepareClaim", OrderServiceServer.PrepareClaim),
		unary("ClaimOrders", OrderServiceServer.ClaimOrders),
		unary("DeliverOrder", OrderServiceServer.DeliverOrder),
		unary("ArchiveDelivered", OrderServiceServer.ArchiveDelivered),
		unary("ListNotifications", OrderServiceServer.ListNotifications),
		unary("MarkNotificationRead", OrderServiceServer.MarkNotificationRead),
		unary("UpsertProfile", OrderServiceServer.UpsertProfile),
		unary("GetProfile", OrderServiceServer.GetProfile),
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "WatchOrders", Handler: watchOrdersHandler, ServerStreams: true},
	},
	Metadata: "zapp/v1/order.proto",
}
