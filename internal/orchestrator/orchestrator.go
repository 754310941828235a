package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"eventsCrawler/internal/config"
	"eventsCrawler/internal/metrics"
	"eventsCrawler/internal/models/domain"
	"eventsCrawler/internal/models/dto"
	repoModels "eventsCrawler/internal/models/repositories"
	"eventsCrawler/internal/scraper"
	"eventsCrawler/internal/utils/logger/sl"
)

// ErrCrawlInProgress возвращается при попытке запустить обход, пока
// предыдущий ещё не завершён.
var ErrCrawlInProgress = errors.New("crawl already in progress")

// ErrUnknownSite возвращается при запросе обхода сайта, которого нет
// в конфигурации.
var ErrUnknownSite = errors.New("unknown site")

// SiteAdapter определяет интерфейс для взаимодействия с адаптером сайта.
type SiteAdapter interface {
	Name() string
	DiscoverListingURLs(ctx context.Context) ([]domain.EventURL, error)
	FetchDetailContent(ctx context.Context, url domain.EventURL) (domain.RawContent, error)
}

// Oracle определяет интерфейс для взаимодействия с оракулом извлечения.
type Oracle interface {
	Parse(ctx context.Context, content domain.RawContent) (dto.EventsPayload, error)
}

// Normalizer определяет интерфейс нормализации под-записей.
type Normalizer interface {
	Normalize(raw dto.RawEvent) (domain.EventRecord, error)
}

// Publisher определяет интерфейс публикации во внешнее хранилище.
type Publisher interface {
	Push(ctx context.Context, record domain.EventRecord) (int, error)
	TriggerRefresh(ctx context.Context) error
}

// Journal определяет интерфейс журнала публикаций. Может быть nil —
// тогда попытки не журналируются.
type Journal interface {
	RecordPublish(ctx context.Context, rec repoModels.PublishRecord) error
}

// Orchestrator управляет пайплайном: по одному воркеру на сайт, внутри
// воркера строго последовательно discover → fetch → extract → parse →
// normalize → publish. Воркеры не делят изменяемое состояние.
type Orchestrator struct {
	logger     *slog.Logger
	cfg        *config.Config
	adapters   []SiteAdapter
	oracle     Oracle
	normalizer Normalizer
	publisher  Publisher
	journal    Journal

	statuses map[string]*domain.SiteStatus
	mu       sync.Mutex

	running         atomic.Bool
	wg              sync.WaitGroup
	shutdownChannel chan struct{}
}

// New создаёт новый экземпляр Orchestrator.
func New(
	logger *slog.Logger,
	cfg *config.Config,
	adapters []SiteAdapter,
	oracle Oracle,
	normalizer Normalizer,
	publisher Publisher,
	journal Journal,
) *Orchestrator {
	op := "Orchestrator.New()"
	log := logger.With(slog.String("op", op))
	log.Info("Creating orchestrator", slog.Int("sites", len(adapters)))

	statuses := make(map[string]*domain.SiteStatus, len(adapters))
	for _, a := range adapters {
		statuses[a.Name()] = &domain.SiteStatus{
			Site:  a.Name(),
			State: domain.CrawlStateIdle,
		}
	}

	return &Orchestrator{
		logger:          logger,
		cfg:             cfg,
		adapters:        adapters,
		oracle:          oracle,
		normalizer:      normalizer,
		publisher:       publisher,
		journal:         journal,
		statuses:        statuses,
		shutdownChannel: make(chan struct{}),
	}
}

// Start запускает оркестратор и, если сконфигурировано, первый обход.
func (o *Orchestrator) Start() {
	op := "Orchestrator.Start()"
	log := o.logger.With(slog.String("op", op))
	log.Info("orchestrator started")

	if o.cfg.CrawlerConfig.CrawlOnStart {
		if err := o.TriggerCrawl(); err != nil {
			log.Error("failed to start initial crawl", sl.Err(err))
		}
	}
}

// TriggerCrawl запускает один обход всех сконфигурированных сайтов.
// Не блокирует: воркеры работают в фоне, прогресс виден через Status().
func (o *Orchestrator) TriggerCrawl() error {
	return o.trigger(o.adapters)
}

// TriggerCrawlSite запускает обход одного сайта по имени.
func (o *Orchestrator) TriggerCrawlSite(site string) error {
	for _, a := range o.adapters {
		if a.Name() == site {
			return o.trigger([]SiteAdapter{a})
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownSite, site)
}

func (o *Orchestrator) trigger(adapters []SiteAdapter) error {
	op := "Orchestrator.trigger()"
	log := o.logger.With(slog.String("op", op))

	select {
	case <-o.shutdownChannel:
		return fmt.Errorf("%s: service is shutting down", op)
	default:
	}

	if !o.running.CompareAndSwap(false, true) {
		return ErrCrawlInProgress
	}

	log.Info("starting crawl run", slog.Int("sites", len(adapters)))

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		defer o.running.Store(false)

		var wg sync.WaitGroup
		for _, adapter := range adapters {
			wg.Add(1)
			go func(a SiteAdapter) {
				defer wg.Done()
				o.runWorker(a)
			}(adapter)
		}
		wg.Wait()

		log.Info("crawl run completed")
	}()

	return nil
}

// Status возвращает снимок состояния воркеров, отсортированный по имени сайта.
func (o *Orchestrator) Status() []domain.SiteStatus {
	o.mu.Lock()
	defer o.mu.Unlock()

	result := make([]domain.SiteStatus, 0, len(o.statuses))
	for _, st := range o.statuses {
		result = append(result, *st)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Site < result[j].Site })

	return result
}

// runWorker — жизненный цикл воркера одного сайта: обнаружение URL,
// последовательная обработка каждого с вежливой паузой, в конце —
// единственный сигнал refresh хранилищу. Ошибка на одном URL никогда
// не завершает воркера.
func (o *Orchestrator) runWorker(adapter SiteAdapter) {
	op := "Orchestrator.runWorker()"
	site := adapter.Name()
	requestID := uuid.New()
	log := o.logger.With(
		slog.String("op", op),
		slog.String("site", site),
		slog.String("requestID", requestID.String()),
	)

	log.Info("worker started")

	ctx := context.Background()

	o.setStatus(site, func(st *domain.SiteStatus) {
		*st = domain.SiteStatus{Site: site, State: domain.CrawlStateDiscovering}
	})

	urls, err := adapter.DiscoverListingURLs(ctx)
	if err != nil {
		// Обход продолжается с тем, что успели обнаружить
		log.Error("discovery failed", sl.Err(err), slog.Int("collected", len(urls)))
	}

	log.Info("discovery completed", slog.Int("urls", len(urls)))

	o.setStatus(site, func(st *domain.SiteStatus) {
		st.State = domain.CrawlStateCrawling
		st.URLsTotal = len(urls)
	})

	for _, url := range urls {
		select {
		case <-o.shutdownChannel:
			log.Info("worker interrupted by shutdown")
			return
		default:
		}

		scraper.SleepJitter(ctx, o.cfg.CrawlerConfig.GetDelayMin(), o.cfg.CrawlerConfig.GetDelayMax())

		o.setStatus(site, func(st *domain.SiteStatus) {
			st.CurrentURL = url.String()
		})

		if err := o.processURL(ctx, log, adapter, url); err != nil {
			log.Error("url processing failed", slog.String("url", url.String()), sl.Err(err))
		}

		o.setStatus(site, func(st *domain.SiteStatus) {
			st.URLsProcessed++
		})
	}

	o.setStatus(site, func(st *domain.SiteStatus) {
		st.State = domain.CrawlStateDone
		st.CurrentURL = ""
	})

	if err := o.publisher.TriggerRefresh(ctx); err != nil {
		log.Error("store refresh failed", sl.Err(err))
	}

	log.Info("worker completed", slog.Int("urls", len(urls)))
}

// processURL обрабатывает один URL целиком. Любая ошибка возвращается
// вызывающему, логируется там и приводит к пропуску только этого URL.
func (o *Orchestrator) processURL(baseCtx context.Context, log *slog.Logger, adapter SiteAdapter, url domain.EventURL) error {
	op := "Orchestrator.processURL()"
	site := adapter.Name()

	ctx, cancel := context.WithTimeout(baseCtx, o.cfg.CrawlerConfig.GetTimeout())
	defer cancel()

	content, err := adapter.FetchDetailContent(ctx, url)
	if err != nil {
		return fmt.Errorf("%s: fetch: %w", op, err)
	}

	if content.Empty() {
		// Контейнер не найден или страница пустая: оракулу нечего отдавать
		log.Warn("empty content, skipping url", slog.String("url", url.String()))
		return nil
	}

	metrics.OracleCalls.WithLabelValues(site).Inc()

	payload, err := o.oracle.Parse(ctx, content)
	if err != nil {
		metrics.OracleFailures.WithLabelValues(site).Inc()
		return fmt.Errorf("%s: oracle: %w", op, err)
	}

	log.Info("pushing events from source", slog.String("url", url.String()), slog.Int("events", len(payload.Events)))

	for _, item := range payload.Sorted() {
		record, err := o.normalizer.Normalize(item.Event)
		if err != nil {
			// Ошибка одной под-записи не трогает соседние события страницы
			metrics.NormalizeFailures.WithLabelValues(site).Inc()
			log.Warn("skipping malformed event",
				slog.String("index", item.Index),
				slog.String("name", item.Event.Name),
				sl.Err(err),
			)
			continue
		}

		status, err := o.publisher.Push(ctx, record)

		outcome := "ok"
		errText := ""
		switch {
		case err != nil:
			outcome = "error"
			errText = err.Error()
			log.Error("publish failed", slog.String("summary", record.Summary), sl.Err(err))
		case status < 200 || status > 299:
			outcome = "rejected"
		default:
			o.setStatus(site, func(st *domain.SiteStatus) {
				st.EventsPublished++
			})
		}
		metrics.EventsPublished.WithLabelValues(site, outcome).Inc()

		o.recordPublish(ctx, log, repoModels.PublishRecord{
			ID:           uuid.New(),
			Site:         site,
			SourceURL:    url.String(),
			Summary:      record.Summary,
			StatusCode:   status,
			PublishError: errText,
		})
	}

	return nil
}

func (o *Orchestrator) recordPublish(ctx context.Context, log *slog.Logger, rec repoModels.PublishRecord) {
	if o.journal == nil {
		return
	}
	if err := o.journal.RecordPublish(ctx, rec); err != nil {
		log.Warn("failed to journal publish attempt", sl.Err(err))
	}
}

func (o *Orchestrator) setStatus(site string, update func(st *domain.SiteStatus)) {
	o.mu.Lock()
	defer o.mu.Unlock()

	st, ok := o.statuses[site]
	if !ok {
		st = &domain.SiteStatus{Site: site}
		o.statuses[site] = st
	}
	update(st)
	st.UpdatedAt = time.Now()
}

// Shutdown корректно завершает оркестратор: новые URL не берутся,
// текущие воркеры дорабатывают до границы URL.
func (o *Orchestrator) Shutdown(ctx context.Context) error {
	close(o.shutdownChannel)

	done := make(chan struct{})
	go func() {
		o.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("force exit orchestrator: %w", ctx.Err())
	}
}
