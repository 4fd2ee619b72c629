package grpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// HealthClient queries the daemon's health service over its unix socket
type HealthClient struct {
	conn   *grpc.ClientConn
	client healthpb.HealthClient
}

// NewHealthClient creates a client. The connection is made lazily on the first call.
func NewHealthClient(socketPath string) (*HealthClient, error) {
	conn, err := grpc.NewClient(
		"unix:"+socketPath,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon socket: %w", err)
	}

	return &HealthClient{
		conn:   conn,
		client: healthpb.NewHealthClient(conn),
	}, nil
}

// Close closes the gRPC connection
func (c *HealthClient) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Check returns the status name of one service, e.g. "SERVING"
func (c *HealthClient) Check(ctx context.Context, service string) (string, error) {
	resp, err := c.client.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		return "", fmt.Errorf("health check failed: %w", err)
	}
	return resp.GetStatus().String(), nil
}

// CheckAll returns the status of the daemon and each of its services
func (c *HealthClient) CheckAll(ctx context.Context) (map[string]string, error) {
	statuses := make(map[string]string, 3)
	for _, service := range []string{ServiceOverall, ServicePoller, ServiceJournal} {
		status, err := c.Check(ctx, service)
		if err != nil {
			return nil, err
		}
		name := service
		if name == ServiceOverall {
			name = "daemon"
		}
		statuses[name] = status
	}
	return statuses, nil
}
