package grpc

import (
	"context"
	"fmt"
	"net"

	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"Imperial/internal/shared/transport"
	"Imperial/modules/kit/logx"
)

// Server 内部 gRPC 入口：健康检查 + trace/access 拦截器。
type Server struct {
	srv    *gogrpc.Server
	health *health.Server
	log    logx.Logger
}

func NewServer(log logx.Logger, opts ...gogrpc.ServerOption) *Server {
	if log == nil {
		log = logx.Nop()
	}
	opts = append(opts,
		gogrpc.ChainUnaryInterceptor(UnaryServerTraceInterceptor(), UnaryServerAccessLogInterceptor(log)),
		gogrpc.ChainStreamInterceptor(StreamServerTraceInterceptor()),
	)
	s := &Server{
		srv:    gogrpc.NewServer(opts...),
		health: health.NewServer(),
		log:    log,
	}
	healthpb.RegisterHealthServer(s.srv, s.health)
	return s
}

// SetServing 设置某个组件的健康状态，service 为空表示整体。
func (s *Server) SetServing(service string, serving bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		st = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus(service, st)
}

// Serve 阻塞直到 lis 关闭或 Stop。
func (s *Server) Serve(lis net.Listener) error {
	return s.srv.Serve(lis)
}

// Stop 先把健康状态全部置为 NOT_SERVING，再优雅停止。
func (s *Server) Stop() {
	s.health.Shutdown()
	s.srv.GracefulStop()
}

// UnaryServerAccessLogInterceptor 每个 unary 请求一条 access 日志，业务码按 status code 归类。
func UnaryServerAccessLogInterceptor(log logx.Logger) gogrpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *gogrpc.UnaryServerInfo, handler gogrpc.UnaryHandler) (any, error) {
		ctx = transport.NewContextWithParent(ctx, info.FullMethod)
		resp, err := handler(ctx, req)
		transport.SetBizCode(ctx, bizCodeOf(err))
		if err != nil {
			transport.SetErrorReason(ctx, status.Convert(err).Message())
		}
		transport.WriteAccessLog(ctx, log)
		return resp, err
	}
}

func bizCodeOf(err error) transport.BizCode {
	if err == nil {
		return transport.OK
	}
	switch status.Code(err) {
	case codes.InvalidArgument, codes.FailedPrecondition:
		return transport.InvalidParam
	case codes.Unauthenticated, codes.PermissionDenied:
		return transport.Unauthorized
	case codes.NotFound:
		return transport.NotFound
	case codes.Canceled:
		return transport.Canceled
	case codes.DeadlineExceeded:
		return transport.Timeout
	case codes.Unavailable:
		return transport.Unavailable
	default:
		return transport.SystemError
	}
}

// Dial 建立带 trace 注入的内部连接。
func Dial(target string, opts ...gogrpc.DialOption) (*gogrpc.ClientConn, error) {
	opts = append([]gogrpc.DialOption{
		gogrpc.WithTransportCredentials(insecure.NewCredentials()),
		gogrpc.WithChainUnaryInterceptor(UnaryClientTraceInterceptor()),
		gogrpc.WithChainStreamInterceptor(StreamClientTraceInterceptor()),
	}, opts...)
	conn, err := gogrpc.NewClient(target, opts...)
	if err != nil {
		return nil, fmt.Errorf("dial %s failed: %w", target, err)
	}
	return conn, nil
}
