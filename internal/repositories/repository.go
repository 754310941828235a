package repositories

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"eventsCrawler/internal/config"
)

const publishLogSchema = `
CREATE TABLE IF NOT EXISTS publish_log (
	id UUID PRIMARY KEY,
	site TEXT NOT NULL,
	source_url TEXT NOT NULL,
	summary TEXT NOT NULL DEFAULT '',
	status_code INT NOT NULL DEFAULT 0,
	publish_error TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// Repository — журнал публикаций в Postgres. Хранит по строке на каждую
// попытку отправки записи во внешнее хранилище.
type Repository struct {
	logger *slog.Logger
	cfg    *config.Config
	DB     *sqlx.DB
}

// New подключается к базе и создаёт таблицу журнала, если её нет.
func New(logger *slog.Logger, cfg *config.Config) (*Repository, error) {
	op := "repositories.New()"
	log := logger.With(
		slog.String("op", op),
	)

	dsn := fmt.Sprintf("host=%s port=%s dbname=%s user=%s password=%s sslmode=disable",
		cfg.DBConfig.Host,
		cfg.DBConfig.Port,
		cfg.DBConfig.Name,
		cfg.DBConfig.User,
		cfg.DBConfig.Password,
	)

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if _, err := db.Exec(publishLogSchema); err != nil {
		return nil, fmt.Errorf("%s: ensure schema: %w", op, err)
	}

	log.Info("Creating repository service", slog.String("host", cfg.DBConfig.Host))

	return &Repository{
		logger: logger,
		cfg:    cfg,
		DB:     db,
	}, nil
}

// Shutdown корректно завершает работу сервиса.
func (r *Repository) Shutdown(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("force exit repository: %w", ctx.Err())
	default:
		return r.DB.Close()
	}
}
