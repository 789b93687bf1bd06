package client

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
)

// GRPCClient checks the gRPC listener of a facets server. The gRPC
// surface only carries the standard health service.
type GRPCClient struct {
	conn   *grpc.ClientConn
	health healthpb.HealthClient
	token  string
}

// NewGRPCClient connects to the given gRPC address and returns a client.
func NewGRPCClient(addr, token string, opts ...grpc.DialOption) (*GRPCClient, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("grpc dial: %w", err)
	}
	return &GRPCClient{
		conn:   conn,
		health: healthpb.NewHealthClient(conn),
		token:  token,
	}, nil
}

func (c *GRPCClient) Close() error {
	return c.conn.Close()
}

// Health checks the named service ("" for the whole server) and returns
// its serving status, e.g. "SERVING".
func (c *GRPCClient) Health(ctx context.Context, service string) (string, error) {
	if c.token != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+c.token)
	}
	resp, err := c.health.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		return "", fmt.Errorf("health check: %w", err)
	}
	return resp.GetStatus().String(), nil
}
