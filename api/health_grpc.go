package api

import (
	"context"
	"errors"
	"fmt"
	"net"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

// SimulationService is the health service name supervisors can probe.
const SimulationService = "alienarena.Simulation"

// HealthServer exposes the standard gRPC health protocol so a process
// supervisor can tell a running simulation from one about to restart.
type HealthServer struct {
	listener   net.Listener
	grpcServer *grpc.Server
	health     *health.Server
	log        *zap.Logger
}

// NewHealthServer listens on addr and reports SERVING until told otherwise.
func NewHealthServer(addr string, log *zap.Logger) (*HealthServer, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}
	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)

	s := &HealthServer{listener: listener, grpcServer: grpcServer, health: healthServer, log: log}
	s.SetServing(true)
	return s, nil
}

// Addr is the address the server is listening on.
func (s *HealthServer) Addr() string {
	return s.listener.Addr().String()
}

// SetServing flips both the overall and the simulation service status.
func (s *HealthServer) SetServing(serving bool) {
	status := grpc_health_v1.HealthCheckResponse_NOT_SERVING
	if serving {
		status = grpc_health_v1.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(SimulationService, status)
}

// Serve blocks until ctx is cancelled or the server fails.
func (s *HealthServer) Serve(ctx context.Context) error {
	s.log.Info("grpc health listening", zap.String("addr", s.Addr()))
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.grpcServer.Serve(s.listener)
	}()

	select {
	case <-ctx.Done():
		s.health.Shutdown()
		s.grpcServer.GracefulStop()
		err := <-serveErr
		if err == nil || errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("serve grpc health: %w", err)
	case err := <-serveErr:
		if err == nil || errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("serve grpc health: %w", err)
	}
}
