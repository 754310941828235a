package sites

import (
	"context"
	"time"

	"eventsCrawler/internal/config"
	"eventsCrawler/internal/scraper"
)

// Strategy — политика завершения пагинации при обнаружении ссылок.
type Strategy string

const (
	// StrategyFixedPageCount — количество страниц читается с индикатора
	// на первой странице, обходится ровно столько страниц.
	StrategyFixedPageCount Strategy = "fixedPageCount"
	// StrategyOpenEnded — страницы обходятся, пока очередная не даст
	// меньше MinLinks подходящих ссылок.
	StrategyOpenEnded Strategy = "openEnded"
)

// PageFetcher — то, что адаптеру нужно от фетчера.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (string, int, error)
}

// Config — полное описание поведения одного сайта. Сайты различаются
// только данными: селекторами, стратегией пагинации и head-skip.
type Config struct {
	Name                 string
	FrontURL             string
	ListURLTemplate      string // плейсхолдер {page}
	Strategy             Strategy
	PageCountSelector    string
	LinkSelector         string
	ExcludeLinkSubstring string
	HeadSkip             int
	MinLinks             int
	Selectors            scraper.Selectors
	DelayMin             time.Duration
	DelayMax             time.Duration
}

// FromSiteConfig собирает Config адаптера из конфигурации приложения.
func FromSiteConfig(sc config.SiteConfig, cc config.CrawlerConfig) Config {
	return Config{
		Name:                 sc.Name,
		FrontURL:             sc.FrontURL,
		ListURLTemplate:      sc.ListURLTemplate,
		Strategy:             Strategy(sc.Strategy),
		PageCountSelector:    sc.PageCountSelector,
		LinkSelector:         sc.LinkSelector,
		ExcludeLinkSubstring: sc.ExcludeLinkSubstring,
		HeadSkip:             sc.HeadSkip,
		MinLinks:             sc.MinLinks,
		Selectors: scraper.Selectors{
			Content: sc.ContentSelector,
			Noise:   sc.NoiseSelector,
		},
		DelayMin: cc.GetDelayMin(),
		DelayMax: cc.GetDelayMax(),
	}
}
