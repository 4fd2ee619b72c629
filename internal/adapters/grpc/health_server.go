package grpc

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/andrescamacho/neutron-assistant-go/internal/application/tracker"
	"github.com/andrescamacho/neutron-assistant-go/internal/domain/shared"
)

// Health service names. The empty name is the overall daemon status.
const (
	ServiceOverall = ""
	ServicePoller  = "neutron.Poller"
	ServiceJournal = "neutron.Journal"
)

// staleTicks is how many intervals may pass without a tick before the poller
// is reported as not serving
const staleTicks = 5

// HealthProbe exposes the poller's liveness
type HealthProbe interface {
	LastTick() tracker.TickStatus
	Interval() time.Duration
}

// HealthServer serves grpc.health.v1 on the daemon's unix socket
type HealthServer struct {
	listener net.Listener
	server   *grpc.Server
	health   *health.Server
	probe    HealthProbe
	clock    shared.Clock
	logger   *slog.Logger
}

// NewHealthServer binds the socket. If clock is nil, uses RealClock.
func NewHealthServer(socketPath string, probe HealthProbe, clock shared.Clock, logger *slog.Logger) (*HealthServer, error) {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if logger == nil {
		logger = slog.Default()
	}

	// Remove existing socket file if present
	if err := os.RemoveAll(socketPath); err != nil {
		return nil, fmt.Errorf("failed to remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create unix socket listener: %w", err)
	}

	// Owner only
	if err := os.Chmod(socketPath, 0o600); err != nil {
		listener.Close()
		return nil, fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s := &HealthServer{
		listener: listener,
		server:   grpc.NewServer(),
		health:   health.NewServer(),
		probe:    probe,
		clock:    clock,
		logger:   logger,
	}
	healthpb.RegisterHealthServer(s.server, s.health)
	s.Refresh()
	return s, nil
}

// Addr returns the socket address
func (s *HealthServer) Addr() string {
	return s.listener.Addr().String()
}

// Refresh recomputes every service status from the probe
func (s *HealthServer) Refresh() {
	last := s.probe.LastTick()
	poller := pollerStatus(last, s.probe.Interval(), s.clock.Now())
	journal := healthpb.HealthCheckResponse_SERVING
	if last.Result == tracker.TickNoJournal {
		journal = healthpb.HealthCheckResponse_NOT_SERVING
	}

	s.health.SetServingStatus(ServicePoller, poller)
	s.health.SetServingStatus(ServiceJournal, journal)
	s.health.SetServingStatus(ServiceOverall, poller)
}

// pollerStatus is SERVING until the first tick is late by staleTicks intervals
func pollerStatus(last tracker.TickStatus, interval time.Duration, now time.Time) healthpb.HealthCheckResponse_ServingStatus {
	if last.At.IsZero() {
		return healthpb.HealthCheckResponse_SERVING
	}
	if now.Sub(last.At) > staleTicks*interval {
		return healthpb.HealthCheckResponse_NOT_SERVING
	}
	return healthpb.HealthCheckResponse_SERVING
}

// Serve blocks until ctx is done, refreshing statuses every poll interval
func (s *HealthServer) Serve(ctx context.Context) error {
	s.logger.Info("Health server listening", "socket", s.Addr())

	errChan := make(chan error, 1)
	go func() {
		if err := s.server.Serve(s.listener); err != nil {
			errChan <- fmt.Errorf("gRPC server error: %w", err)
		}
		close(errChan)
	}()

	refresh := s.probe.Interval()
	if refresh < time.Second {
		refresh = time.Second
	}
	ticker := time.NewTicker(refresh)
	defer ticker.Stop()

	for {
		select {
		case err := <-errChan:
			return err
		case <-ticker.C:
			s.Refresh()
		case <-ctx.Done():
			s.health.Shutdown()
			s.server.GracefulStop()
			<-errChan
			return nil
		}
	}
}
