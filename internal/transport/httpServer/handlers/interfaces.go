package handlers

import (
	"context"

	"eventsCrawler/internal/models/domain"
	repoModels "eventsCrawler/internal/models/repositories"
)

// CrawlOrchestrator — интерфейс оркестратора для хэндлеров.
type CrawlOrchestrator interface {
	TriggerCrawl() error
	TriggerCrawlSite(site string) error
	Status() []domain.SiteStatus
}

// PublishJournal — интерфейс журнала публикаций для хэндлеров.
type PublishJournal interface {
	RecentPublishes(ctx context.Context, limit int) ([]repoModels.PublishRecord, error)
}
