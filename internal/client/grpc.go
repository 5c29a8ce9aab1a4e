package client

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// HealthProbe checks a board server's gRPC health endpoint.
type HealthProbe struct {
	conn   *grpc.ClientConn
	client healthpb.HealthClient
}

// NewHealthProbe connects to the given gRPC address.
func NewHealthProbe(addr string) (*HealthProbe, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("grpc dial: %w", err)
	}
	return &HealthProbe{conn: conn, client: healthpb.NewHealthClient(conn)}, nil
}

// Check returns the serving status of service, lower-cased ("serving",
// "not_serving"). An empty service asks about the server as a whole.
func (p *HealthProbe) Check(ctx context.Context, service string) (string, error) {
	resp, err := p.client.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		return "", err
	}
	return strings.ToLower(resp.GetStatus().String()), nil
}

func (p *HealthProbe) Close() error {
	return p.conn.Close()
}
