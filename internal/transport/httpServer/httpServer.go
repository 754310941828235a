package httpServer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"

	"eventsCrawler/internal/config"
	"eventsCrawler/internal/transport/httpServer/routers"
	"eventsCrawler/internal/utils/logger/sl"
)

// HttpServer — контрольный HTTP сервер: запуск обхода, статус, журнал, метрики.
type HttpServer struct {
	logger *slog.Logger
	server *http.Server
}

func NewHttpServer(logger *slog.Logger, router *routers.Router, cfg *config.Config) *HttpServer {
	op := "httpServer.NewHttpServer()"
	log := logger.With(
		slog.String("op", op),
	)

	mux := chi.NewRouter()
	router.Mount(mux)

	addr := net.JoinHostPort(cfg.HttpServer.Address, cfg.HttpServer.Port)

	log.Info("Creating http server", slog.String("address", addr))

	return &HttpServer{
		logger: logger,
		server: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  cfg.HttpServer.Timeout,
			WriteTimeout: cfg.HttpServer.Timeout,
		},
	}
}

// Listen блокируется до остановки сервера.
func (s *HttpServer) Listen() {
	op := "httpServer.Listen()"
	log := s.logger.With(
		slog.String("op", op),
	)

	log.Info("http server listening", slog.String("address", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("http server error", sl.Err(err))
	}
}

// Shutdown корректно завершает работу сервера.
func (s *HttpServer) Shutdown(ctx context.Context) error {
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("force exit http server: %w", err)
	}
	return nil
}
