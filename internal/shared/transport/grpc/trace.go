package grpc

import (
	"context"

	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"Imperial/modules/kit/tracex"
)

// correlation 随 gRPC metadata 在进程间传递的关联字段。
type correlation struct {
	header string
	from   func(context.Context) (string, bool)
	with   func(context.Context, string) context.Context
}

var correlations = []correlation{
	{header: "x-trace-id", from: tracex.TraceIDFrom, with: tracex.WithTraceID},
	{header: "x-span-id", from: tracex.SpanIDFrom, with: tracex.WithSpanID},
	{header: "x-game-id", from: tracex.GameIDFrom, with: tracex.WithGameID},
	{header: "x-billing-id", from: tracex.BillingIDFrom, with: tracex.WithBillingID},
}

// UnaryClientTraceInterceptor 把 ctx 上的关联字段写入 outgoing metadata。
func UnaryClientTraceInterceptor() gogrpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *gogrpc.ClientConn, invoker gogrpc.UnaryInvoker, opts ...gogrpc.CallOption) error {
		return invoker(injectTraceToOutgoing(ctx), method, req, reply, cc, opts...)
	}
}

func StreamClientTraceInterceptor() gogrpc.StreamClientInterceptor {
	return func(ctx context.Context, desc *gogrpc.StreamDesc, cc *gogrpc.ClientConn, method string, streamer gogrpc.Streamer, opts ...gogrpc.CallOption) (gogrpc.ClientStream, error) {
		return streamer(injectTraceToOutgoing(ctx), desc, cc, method, opts...)
	}
}

// UnaryServerTraceInterceptor 从 incoming metadata 恢复关联字段，后续 access 日志自动带上。
func UnaryServerTraceInterceptor() gogrpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *gogrpc.UnaryServerInfo, handler gogrpc.UnaryHandler) (any, error) {
		return handler(extractTraceFromIncoming(ctx), req)
	}
}

func StreamServerTraceInterceptor() gogrpc.StreamServerInterceptor {
	return func(srv any, ss gogrpc.ServerStream, info *gogrpc.StreamServerInfo, handler gogrpc.StreamHandler) error {
		return handler(srv, &tracedStream{ServerStream: ss, ctx: extractTraceFromIncoming(ss.Context())})
	}
}

type tracedStream struct {
	gogrpc.ServerStream
	ctx context.Context
}

func (s *tracedStream) Context() context.Context { return s.ctx }

func injectTraceToOutgoing(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	kv := make([]string, 0, 2*len(correlations))
	for _, c := range correlations {
		if v, ok := c.from(ctx); ok {
			kv = append(kv, c.header, v)
		}
	}
	if len(kv) == 0 {
		return ctx
	}
	return metadata.AppendToOutgoingContext(ctx, kv...)
}

func extractTraceFromIncoming(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ctx
	}
	for _, c := range correlations {
		if values := md.Get(c.header); len(values) > 0 && values[0] != "" {
			ctx = c.with(ctx, values[0])
		}
	}
	return ctx
}
