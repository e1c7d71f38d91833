// Package grpc exposes the standard gRPC health service for MiniDrive so
// orchestrators can probe database reachability on a separate port.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/minidrive/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health/grpc_health_v1"
)

type GRPCServer struct {
	address string
	health  *HealthServer
	logger  logging.Logger
}

func NewGRPCServer(a string, l logging.Logger, db Pinger) *GRPCServer {
	logger := l.With("module", "grpc_server")
	return &GRPCServer{
		address: a,
		logger:  logger,
		health:  NewHealthServer(db, logger),
	}
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	s.logger.Info(ctx, "Starting gRPC health server", "address", s.address)

	return s.Serve(ctx, listen)
}

// Serve serves on an existing listener until ctx is done.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {

	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor))

	grpc_health_v1.RegisterHealthServer(srv, s.health)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	// starts accepting incoming connections
	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
