package grpcserver

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName 健康检查中使用的服务名
const ServiceName = "storefront.v1.Storefront"

// Check 依赖检查（数据库、Redis等），返回error表示不可用
type Check func(ctx context.Context) error

// Server gRPC健康检查服务
// 供负载均衡与k8s探针使用，业务接口仍走HTTP
type Server struct {
	srv      *grpc.Server
	health   *health.Server
	checks   map[string]Check
	interval time.Duration

	stopOnce sync.Once
	stop     chan struct{}
}

// NewServer 创建gRPC服务器并注册health与reflection
func NewServer(checks map[string]Check) *Server {
	srv := grpc.NewServer(
		grpc.MaxRecvMsgSize(1024*1024),
		grpc.ConnectionTimeout(5*time.Second),
	)
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	reflection.Register(srv)

	return &Server{
		srv:      srv,
		health:   hs,
		checks:   checks,
		interval: 10 * time.Second,
		stop:     make(chan struct{}),
	}
}

// Serve 在指定端口启动（阻塞直到Stop）
func (s *Server) Serve(port int) error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return fmt.Errorf("监听gRPC端口失败: %w", err)
	}
	return s.ServeListener(lis)
}

// ServeListener 使用已有监听器启动
func (s *Server) ServeListener(lis net.Listener) error {
	s.refresh(context.Background())
	go s.loop()

	zap.L().Info("gRPC健康检查服务启动", zap.String("addr", lis.Addr().String()))
	return s.srv.Serve(lis)
}

// Stop 标记为NOT_SERVING后优雅关闭
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
		s.health.Shutdown()
		s.srv.GracefulStop()
	})
}

func (s *Server) loop() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.refresh(context.Background())
		}
	}
}

// refresh 执行全部依赖检查
// 任一依赖失败时整体状态为NOT_SERVING，单个依赖也有各自的状态
func (s *Server) refresh(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	overall := healthpb.HealthCheckResponse_SERVING
	for name, check := range s.checks {
		status := healthpb.HealthCheckResponse_SERVING
		if err := check(ctx); err != nil {
			status = healthpb.HealthCheckResponse_NOT_SERVING
			overall = status
			zap.L().Warn("依赖健康检查失败", zap.String("dependency", name), zap.Error(err))
		}
		s.health.SetServingStatus(name, status)
	}
	s.health.SetServingStatus("", overall)
	s.health.SetServingStatus(ServiceName, overall)
}
