package server

import (
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName is the name the gRPC health service reports for facets.
const ServiceName = "facets.v1.Facets"

// NewGRPCServer creates a gRPC server that recovers, authorizes and logs
// every call, and registers the health and reflection services. The
// returned health server lets callers flip the serving status during
// shutdown.
func (s *Server) NewGRPCServer(authToken string) (*grpc.Server, *health.Server) {
	srv := grpc.NewServer(
		grpc.UnaryInterceptor(unaryInterceptor(s.logger, authToken)),
		grpc.StreamInterceptor(streamInterceptor(s.logger, authToken)),
	)

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, hs)
	reflection.Register(srv)

	return srv, hs
}
