// Package health содержит health check сервер.
package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"tweettoot/internal/service"

	"go.uber.org/zap"
)

// StatusSource отдает состояние последнего прогона
type StatusSource interface {
	LastStatus() service.RunStatus
}

// Pinger проверяет доступность хранилища метки
type Pinger interface {
	Ping(ctx context.Context) error
}

// MetricsSource отдает счетчики запросов к инстансу
type MetricsSource interface {
	GetMetrics() map[string]interface{}
}

// response тело ответов health сервера
type response struct {
	Status    string                 `json:"status"`
	Timestamp string                 `json:"timestamp"`
	Runs      int                    `json:"runs,omitempty"`
	LastRun   *service.RunReport     `json:"last_run,omitempty"`
	Publisher map[string]interface{} `json:"publisher,omitempty"`
	Error     string                 `json:"error,omitempty"`
}

// Server представляет health check сервер
type Server struct {
	server  *http.Server
	source  StatusSource
	db      Pinger
	metrics MetricsSource
	logger  *zap.Logger
}

// NewServer создает новый health check сервер. db и metrics могут быть nil.
func NewServer(port string, source StatusSource, db Pinger, metrics MetricsSource, logger *zap.Logger) *Server {
	mux := http.NewServeMux()

	healthServer := &Server{
		server: &http.Server{
			Addr:              ":" + port,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		source:  source,
		db:      db,
		metrics: metrics,
		logger:  logger,
	}

	mux.HandleFunc("/health", healthServer.healthHandler)
	mux.HandleFunc("/ready", healthServer.readyHandler)
	mux.HandleFunc("/live", healthServer.liveHandler)

	return healthServer
}

// Handler возвращает обработчик маршрутов
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start запускает health check сервер и блокируется до остановки
func (s *Server) Start() error {
	s.logger.Info("Starting health check server", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop останавливает health check сервер
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.logger.Info("Stopping health check server")
	return s.server.Shutdown(ctx)
}

// healthHandler обрабатывает запросы /health
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	status := s.source.LastStatus()
	body := response{
		Status:  "healthy",
		Runs:    status.Runs,
		LastRun: status.Report,
	}
	if s.metrics != nil {
		body.Publisher = s.metrics.GetMetrics()
	}
	code := http.StatusOK

	if status.Err != nil {
		body.Status = "degraded"
		body.Error = status.Err.Error()
	}

	if err := s.checkDatabase(r.Context()); err != nil {
		body.Status = "unhealthy"
		body.Error = err.Error()
		code = http.StatusServiceUnavailable
		s.logger.Error("Health check failed", zap.Error(err))
	}

	s.write(w, code, body)
}

// readyHandler обрабатывает запросы /ready
func (s *Server) readyHandler(w http.ResponseWriter, r *http.Request) {
	status := s.source.LastStatus()

	switch {
	case status.Runs == 0:
		s.write(w, http.StatusServiceUnavailable, response{Status: "not ready", Error: "no completed run yet"})
	case status.Err != nil:
		s.write(w, http.StatusServiceUnavailable, response{Status: "not ready", Runs: status.Runs, Error: status.Err.Error()})
	default:
		s.write(w, http.StatusOK, response{Status: "ready", Runs: status.Runs})
	}
}

// liveHandler обрабатывает запросы /live
func (s *Server) liveHandler(w http.ResponseWriter, r *http.Request) {
	s.write(w, http.StatusOK, response{Status: "alive"})
}

// checkDatabase проверяет подключение к базе данных, если оно используется
func (s *Server) checkDatabase(ctx context.Context) error {
	if s.db == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return s.db.Ping(ctx)
}

func (s *Server) write(w http.ResponseWriter, code int, body response) {
	body.Timestamp = time.Now().UTC().Format(time.RFC3339)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Warn("Failed to write health response", zap.Error(err))
	}
}
