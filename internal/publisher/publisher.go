package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"eventsCrawler/internal/config"
	"eventsCrawler/internal/models/domain"
)

// Client публикует нормализованные записи во внешнее хранилище.
// Доставка best-effort: одна попытка на запись, без повторов.
type Client struct {
	logger  *slog.Logger
	baseURL string
	client  *http.Client
}

func New(logger *slog.Logger, cfg config.StoreConfig) *Client {
	op := "Publisher.New()"
	log := logger.With(
		slog.String("op", op),
	)

	log.Info("Creating publisher client", slog.String("baseUrl", cfg.BaseURL))

	return &Client{
		logger:  logger,
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: cfg.GetTimeout()},
	}
}

// Push отправляет одну запись: POST <base>/add. Не-2xx статус логируется
// и не повторяется — потеря записи здесь допустима по контракту.
// Возвращает HTTP статус для журнала; ошибка — только транспортная.
func (c *Client) Push(ctx context.Context, record domain.EventRecord) (int, error) {
	op := "Publisher.Push()"
	log := c.logger.With(
		slog.String("op", op),
		slog.String("summary", record.Summary),
	)

	body, err := json.Marshal(record)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/add", bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body) //nolint:errcheck // тело ответа не используется

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Warn("store rejected record", slog.Int("status", resp.StatusCode))
		return resp.StatusCode, nil
	}

	log.Debug("record pushed", slog.Int("status", resp.StatusCode))

	return resp.StatusCode, nil
}

// TriggerRefresh сигналит хранилищу пересчитать листинг: GET <base>/list.
// Вызывается один раз на воркера после обработки всех его URL.
func (c *Client) TriggerRefresh(ctx context.Context) error {
	op := "Publisher.TriggerRefresh()"
	log := c.logger.With(
		slog.String("op", op),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/list", nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body) //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Warn("refresh signal rejected", slog.Int("status", resp.StatusCode))
		return nil
	}

	log.Info("store refresh triggered", slog.Int("status", resp.StatusCode))

	return nil
}
