package repositories

import (
	"time"

	"github.com/google/uuid"
)

// PublishRecord — строка журнала публикаций: одна попытка отправки
// нормализованной записи во внешнее хранилище.
type PublishRecord struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Site         string    `db:"site" json:"site"`
	SourceURL    string    `db:"source_url" json:"source_url"`
	Summary      string    `db:"summary" json:"summary"`
	StatusCode   int       `db:"status_code" json:"status_code"`
	PublishError string    `db:"publish_error" json:"publish_error"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
