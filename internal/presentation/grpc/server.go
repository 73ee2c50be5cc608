package grpc

import (
	"fmt"
	"log/slog"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/bibbank/scam-service/pkg/tlsutil"
)

// ServerOptions configures transport extras for the gRPC server.
type ServerOptions struct {
	// TLSCertFile and TLSKeyFile enable TLS when both are set.
	TLSCertFile string
	TLSKeyFile  string
	Reflection  bool
}

// Server hosts ScamService next to the standard health service.
type Server struct {
	grpcServer *grpc.Server
	health     *health.Server
	logger     *slog.Logger
	address    string
}

// NewServer builds the server. A TLS pair that fails to load is logged and the
// server falls back to plaintext.
func NewServer(handler *ScamServiceHandler, address string, opts ServerOptions, logger *slog.Logger) *Server {
	serverOpts := []grpc.ServerOption{
		grpc.ChainUnaryInterceptor(
			UnaryLoggingInterceptor(logger,
				"/grpc.health.v1.Health/Check",
				"/grpc.health.v1.Health/Watch",
			),
			UnaryRecoveryInterceptor(logger),
		),
	}

	switch {
	case opts.TLSCertFile == "" || opts.TLSKeyFile == "":
		logger.Info("gRPC TLS not configured, running without TLS")
	default:
		creds, err := tlsutil.ServerTLSConfig(opts.TLSCertFile, opts.TLSKeyFile)
		if err != nil {
			logger.Error("failed to load TLS credentials, starting without TLS", "error", err)
			break
		}
		serverOpts = append(serverOpts, grpc.Creds(creds))
		logger.Info("gRPC TLS enabled", "cert", opts.TLSCertFile)
	}

	s := &Server{
		grpcServer: grpc.NewServer(serverOpts...),
		health:     health.NewServer(),
		logger:     logger,
		address:    address,
	}

	healthpb.RegisterHealthServer(s.grpcServer, s.health)
	RegisterScamServiceServer(s.grpcServer, handler)
	if opts.Reflection {
		reflection.Register(s.grpcServer)
	}

	for _, name := range []string{"", "scam-service", ScamServiceName} {
		s.health.SetServingStatus(name, healthpb.HealthCheckResponse_SERVING)
	}
	return s
}

// Start listens on the configured address and serves until Stop.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.address, err)
	}
	return s.Serve(listener)
}

// Serve serves on an existing listener.
func (s *Server) Serve(listener net.Listener) error {
	s.logger.Info("gRPC server starting", slog.String("address", listener.Addr().String()))
	return s.grpcServer.Serve(listener)
}

// Stop reports NOT_SERVING to health watchers, then drains in-flight calls.
func (s *Server) Stop() {
	s.logger.Info("gRPC server shutting down")
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
}
