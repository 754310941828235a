package graceful

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"eventsCrawler/internal/utils/logger/sl"
)

// Operation — именованная операция завершения одного сервиса.
type Operation func(ctx context.Context) error

// GracefulShutdown ждёт SIGINT/SIGTERM и параллельно выполняет операции
// завершения. Если операции не уложились в timeout — принудительный выход.
// Возвращает канал, который закрывается после завершения всех операций.
func GracefulShutdown(ctx context.Context, timeout time.Duration, operations map[string]Operation, logger *slog.Logger) <-chan struct{} {
	wait := make(chan struct{})

	go func() {
		s := make(chan os.Signal, 1)
		signal.Notify(s, syscall.SIGINT, syscall.SIGTERM)
		<-s

		log := logger.With(slog.String("op", "graceful.GracefulShutdown()"))
		log.Info("shutting down")

		timeoutFunc := time.AfterFunc(timeout, func() {
			log.Error("shutdown timeout exceeded, forcing exit", slog.Duration("timeout", timeout))
			os.Exit(1)
		})
		defer timeoutFunc.Stop()

		shutdownCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		var wg sync.WaitGroup
		for key, op := range operations {
			wg.Add(1)
			go func(key string, op Operation) {
				defer wg.Done()

				log.Info("cleaning up", slog.String("operation", key))
				if err := op(shutdownCtx); err != nil {
					log.Error("cleanup failed", slog.String("operation", key), sl.Err(err))
					return
				}

				log.Info("shutdown completed", slog.String("operation", key))
			}(key, op)
		}

		wg.Wait()
		close(wait)
	}()

	return wait
}
