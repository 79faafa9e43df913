package cli

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"inscope/internal/core/app"
)

// HealthStatus is the /health payload.
type HealthStatus struct {
	Status     string `json:"status"`
	Files      int    `json:"files"`
	Containers int    `json:"containers"`
}

type ObservabilityServer struct {
	addr    string
	service *app.Service
	server  *http.Server
}

func NewObservabilityServer(addr string, service *app.Service) *ObservabilityServer {
	return &ObservabilityServer{
		addr:    addr,
		service: service,
	}
}

func (s *ObservabilityServer) Start(ctx context.Context) error {
	mux := http.NewServeMux()

	// Prometheus metrics
	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		status := HealthStatus{
			Status:     "up",
			Files:      s.service.Index.FileCount(),
			Containers: s.service.Index.ContainerCount(),
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(status)
	})

	s.server = &http.Server{
		Addr:    s.addr,
		Handler: mux,
	}

	slog.Info("observability server starting", "addr", s.addr)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("observability server failed", "error", err)
		}
	}()

	return nil
}

func (s *ObservabilityServer) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
