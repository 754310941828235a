package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"eventsCrawler/internal/models/repositories"
)

func (r *Repository) RecordPublish(ctx context.Context, rec repositories.PublishRecord) error {
	op := "repository.RecordPublish()"

	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}

	insertQuery := `INSERT INTO publish_log (
		id, site, source_url, summary, status_code, publish_error, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, CURRENT_TIMESTAMP)`

	_, err := r.DB.ExecContext(ctx, insertQuery,
		rec.ID,
		rec.Site,
		rec.SourceURL,
		rec.Summary,
		rec.StatusCode,
		rec.PublishError,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *Repository) RecentPublishes(ctx context.Context, limit int) ([]repositories.PublishRecord, error) {
	op := "repository.RecentPublishes()"

	if limit <= 0 {
		limit = 100
	}

	var records []repositories.PublishRecord
	query := `SELECT id, site, source_url, summary, status_code, publish_error, created_at
	          FROM publish_log ORDER BY created_at DESC LIMIT $1`

	if err := r.DB.SelectContext(ctx, &records, query, limit); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return records, nil
}
