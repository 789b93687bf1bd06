package client

import (
	"context"
	"net"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"
)

func TestGRPCClient_Health(t *testing.T) {
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	hs := health.NewServer()
	hs.SetServingStatus("facets.v1.Facets", healthpb.HealthCheckResponse_NOT_SERVING)
	healthpb.RegisterHealthServer(srv, hs)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	c, err := NewGRPCClient("passthrough:///bufnet", "secret",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}))
	if err != nil {
		t.Fatalf("NewGRPCClient: %v", err)
	}
	defer c.Close()

	for _, tc := range []struct {
		service string
		want    string
	}{
		{"", "SERVING"},
		{"facets.v1.Facets", "NOT_SERVING"},
	} {
		got, err := c.Health(context.Background(), tc.service)
		if err != nil {
			t.Fatalf("Health(%q): %v", tc.service, err)
		}
		if got != tc.want {
			t.Errorf("Health(%q) = %q, want %q", tc.service, got, tc.want)
		}
	}

	if _, err := c.Health(context.Background(), "unknown"); err == nil {
		t.Error("expected error for unknown service")
	}
}
