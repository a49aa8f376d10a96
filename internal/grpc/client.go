package grpcserver

import (
	"context"
	"errors"
	"io"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client calls zapp.v1.OrderService over any client connection.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Call invokes a unary method by name, converting req and resp through Struct.
func (c *Client) Call(ctx context.Context, method string, req, resp any, opts ...grpc.CallOption) error {
	if req == nil {
		req = &Empty{}
	}
	in, err := encodeStruct(req)
	if err != nil {
		return err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, fullMethod(method), in, out, opts...); err != nil {
		return err
	}
	if resp == nil {
		return nil
	}
	return decodeStruct(out, resp)
}

// WatchOrders opens the order stream and calls fn for each event until the
// stream ends, ctx is done or fn returns an error.
func (c *Client) WatchOrders(ctx context.Context, req *WatchOrdersRequest, fn func(WatchEvent) error, opts ...grpc.CallOption) error {
	stream, err := c.cc.NewStream(ctx, &OrderServiceDesc.Streams[0], fullMethod("WatchOrders"), opts...)
	if err != nil {
		return err
	}
	if req == nil {
		req = &WatchOrdersRequest{}
	}
	in, err := encodeStruct(req)
	if err != nil {
		return err
	}
	if err := stream.SendMsg(in); err != nil {
		return err
	}
	if err := stream.CloseSend(); err != nil {
		return err
	}
	for {
		out := new(structpb.Struct)
		if err := stream.RecvMsg(out); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		var e WatchEvent
		if err := decodeStruct(out, &e); err != nil {
			return err
		}
		if err := fn(e); err != nil {
			return err
		}
	}
}
