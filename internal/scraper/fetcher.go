package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net"
	"net/http"
	"time"

	"eventsCrawler/internal/metrics"
	"eventsCrawler/internal/utils/logger/sl"
)

// ErrFetchFailed возвращается после исчерпания всех попыток запроса.
// Вызывающий обязан трактовать её как "контента нет" и пропустить URL,
// а не прерывать обход.
var ErrFetchFailed = errors.New("fetch failed")

// Fetcher выполняет GET с ограниченным числом попыток. Повтор идёт сразу,
// без паузы: вежливая задержка между разными URL — отдельный механизм
// (SleepJitter), к повторам она отношения не имеет.
type Fetcher struct {
	logger     *slog.Logger
	client     *http.Client
	site       string
	retryCount int
	userAgent  string
	referer    string
}

func NewFetcher(logger *slog.Logger, site string, timeout time.Duration, retryCount int, userAgent string, referer string) *Fetcher {
	if retryCount <= 0 {
		retryCount = 3
	}

	tr := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 60 * time.Second}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}

	return &Fetcher{
		logger:     logger,
		client:     &http.Client{Timeout: timeout, Transport: tr},
		site:       site,
		retryCount: retryCount,
		userAgent:  userAgent,
		referer:    referer,
	}
}

// Fetch выполняет GET запрос url. Повторяет до retryCount раз при
// не-200 статусе или транспортной ошибке. Возвращает тело и статус
// последнего ответа; при исчерпании попыток — ErrFetchFailed.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, int, error) {
	op := "Fetcher.Fetch()"
	log := f.logger.With(
		slog.String("op", op),
		slog.String("site", f.site),
		slog.String("url", url),
	)

	var lastStatus int

	for attempt := 1; attempt <= f.retryCount; attempt++ {
		select {
		case <-ctx.Done():
			return "", lastStatus, fmt.Errorf("%s: %w", op, ctx.Err())
		default:
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return "", 0, fmt.Errorf("%s: %w", op, err)
		}
		req.Header.Set("User-Agent", f.userAgent)
		if f.referer != "" {
			req.Header.Set("Referer", f.referer)
		}

		resp, err := f.client.Do(req)
		if err != nil {
			log.Warn("request error", sl.Err(err), slog.Int("attempt", attempt))
			metrics.FetchRetries.WithLabelValues(f.site).Inc()
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		lastStatus = resp.StatusCode

		if resp.StatusCode != http.StatusOK {
			log.Warn("unexpected status", slog.Int("status", resp.StatusCode), slog.Int("attempt", attempt))
			metrics.FetchRetries.WithLabelValues(f.site).Inc()
			continue
		}

		if readErr != nil {
			log.Warn("body read error", sl.Err(readErr), slog.Int("attempt", attempt))
			metrics.FetchRetries.WithLabelValues(f.site).Inc()
			continue
		}

		return string(body), resp.StatusCode, nil
	}

	metrics.FetchFailures.WithLabelValues(f.site).Inc()
	log.Error("all fetch attempts exhausted", slog.Int("attempts", f.retryCount), slog.Int("lastStatus", lastStatus))

	return "", lastStatus, ErrFetchFailed
}

// SleepJitter — вежливая пауза между запросами: случайная задержка из
// диапазона [min, max]. Случайность рассинхронизирует воркеров, чтобы
// запросы не шли пачками. Прерывается отменой контекста.
func SleepJitter(ctx context.Context, min, max time.Duration) {
	if max <= 0 || max < min {
		return
	}

	d := min
	if max > min {
		d = min + time.Duration(rand.Int64N(int64(max-min)+1))
	}

	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
}
