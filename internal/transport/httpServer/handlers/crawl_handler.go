package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"eventsCrawler/internal/orchestrator"
	"eventsCrawler/internal/transport/httpServer/handlers/dto"
	"eventsCrawler/internal/utils"
	"eventsCrawler/internal/utils/logger/sl"
)

type CrawlHandler struct {
	log          *slog.Logger
	orchestrator CrawlOrchestrator
	journal      PublishJournal
}

// NewCrawlHandler создаёт хэндлер контрольного API. journal может быть
// nil, если журнал публикаций отключён.
func NewCrawlHandler(log *slog.Logger, orch CrawlOrchestrator, journal PublishJournal) *CrawlHandler {
	return &CrawlHandler{
		log:          log,
		orchestrator: orch,
		journal:      journal,
	}
}

// TriggerCrawl обрабатывает POST /api/v1/crawl — запускает обход всех
// сайтов либо одного по имени из опционального тела {"site": "<name>"}.
func (h *CrawlHandler) TriggerCrawl(w http.ResponseWriter, r *http.Request) {
	op := "httpServer.handlers.CrawlHandler.TriggerCrawl()"
	log := h.log.With(slog.String("op", op))

	var req dto.TriggerCrawlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.respondError(log, fmt.Errorf("invalid request body: %w", err), w, http.StatusBadRequest)
		return
	}

	var err error
	if req.Site != "" {
		err = h.orchestrator.TriggerCrawlSite(req.Site)
	} else {
		err = h.orchestrator.TriggerCrawl()
	}
	if err != nil {
		switch {
		case errors.Is(err, orchestrator.ErrCrawlInProgress):
			h.respondError(log, err, w, http.StatusConflict)
		case errors.Is(err, orchestrator.ErrUnknownSite):
			h.respondError(log, err, w, http.StatusNotFound)
		default:
			h.respondError(log, fmt.Errorf("failed to trigger crawl: %w", err), w, http.StatusInternalServerError)
		}
		return
	}

	log.Info("crawl triggered via api", slog.String("site", req.Site))

	if err := utils.Json(w, http.StatusAccepted, dto.TriggerCrawlResponse{Status: "started", Site: req.Site}); err != nil {
		log.Error("error encoding response", sl.Err(err))
	}
}

// Status обрабатывает GET /api/v1/crawl/status — состояние воркеров.
func (h *CrawlHandler) Status(w http.ResponseWriter, r *http.Request) {
	op := "httpServer.handlers.CrawlHandler.Status()"
	log := h.log.With(slog.String("op", op))

	response := dto.MapSiteStatusList(h.orchestrator.Status())

	if err := utils.Json(w, http.StatusOK, response); err != nil {
		log.Error("error encoding response", sl.Err(err))
	}
}

// Publishes обрабатывает GET /api/v1/publishes?limit=N — последние
// попытки публикации из журнала.
func (h *CrawlHandler) Publishes(w http.ResponseWriter, r *http.Request) {
	op := "httpServer.handlers.CrawlHandler.Publishes()"
	log := h.log.With(slog.String("op", op))

	if h.journal == nil {
		h.respondError(log, fmt.Errorf("publish journal is disabled"), w, http.StatusServiceUnavailable)
		return
	}

	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			h.respondError(log, fmt.Errorf("invalid limit: %s", raw), w, http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	records, err := h.journal.RecentPublishes(r.Context(), limit)
	if err != nil {
		h.respondError(log, fmt.Errorf("failed to read journal: %w", err), w, http.StatusInternalServerError)
		return
	}

	if err := utils.Json(w, http.StatusOK, records); err != nil {
		log.Error("error encoding response", sl.Err(err))
	}
}

func (h *CrawlHandler) respondError(log *slog.Logger, err error, w http.ResponseWriter, status int) {
	log.Error("request failed", sl.Err(err), slog.Int("status", status))

	if encErr := utils.Json(w, status, dto.ErrorResponse{Error: err.Error()}); encErr != nil {
		log.Error("error encoding response", sl.Err(encErr))
	}
}
