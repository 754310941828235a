package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"eventsCrawler/internal/config"
	"eventsCrawler/internal/graceful"
	"eventsCrawler/internal/normalizer"
	"eventsCrawler/internal/openrouter"
	"eventsCrawler/internal/orchestrator"
	"eventsCrawler/internal/publisher"
	"eventsCrawler/internal/repositories"
	"eventsCrawler/internal/scraper"
	"eventsCrawler/internal/scraper/sites"
	"eventsCrawler/internal/transport/httpServer"
	"eventsCrawler/internal/transport/httpServer/handlers"
	"eventsCrawler/internal/transport/httpServer/routers"
	"eventsCrawler/internal/utils/logger/handlers/slogpretty"
	"eventsCrawler/internal/utils/logger/sl"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

var Version = "0.1"

func main() {
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info(
		"starting events crawler",
		slog.String("env", cfg.Env),
		slog.String("version", Version),
		slog.Int("sites", len(cfg.CrawlerConfig.Sites)),
	)

	// Журнал публикаций опционален: без хоста БД работаем без него
	var repositoryService *repositories.Repository
	var journal orchestrator.Journal
	var journalReader handlers.PublishJournal
	if cfg.DBConfig.Host != "" {
		var err error
		repositoryService, err = repositories.New(log, cfg)
		if err != nil {
			log.Error("failed to init publish journal", sl.Err(err))
			os.Exit(1)
		}
		journal = repositoryService
		journalReader = repositoryService
	} else {
		log.Warn("publish journal disabled: no db host configured")
	}

	extractorService := scraper.NewExtractor(log)

	adapters := make([]orchestrator.SiteAdapter, 0, len(cfg.CrawlerConfig.Sites))
	for _, siteCfg := range cfg.CrawlerConfig.Sites {
		fetcherService := scraper.NewFetcher(
			log,
			siteCfg.Name,
			cfg.CrawlerConfig.GetFetchTimeout(),
			cfg.CrawlerConfig.RetryCount,
			cfg.CrawlerConfig.UserAgent,
			siteCfg.Referer,
		)
		adapters = append(adapters, sites.NewAdapter(
			log,
			sites.FromSiteConfig(siteCfg, cfg.CrawlerConfig),
			fetcherService,
			extractorService,
		))
	}

	aiService := openrouter.NewClient(log, cfg)
	normalizerService := normalizer.New(cfg.CrawlerConfig.CalendarTimezone)
	publisherService := publisher.New(log, cfg.StoreConfig)

	orchestratorService := orchestrator.New(log, cfg, adapters, aiService, normalizerService, publisherService, journal)

	// HTTP Server
	crawlHandler := handlers.NewCrawlHandler(log, orchestratorService, journalReader)
	router := routers.NewRouter(log, crawlHandler)
	httpSrv := httpServer.NewHttpServer(log, router, cfg)

	maxSecond := 15 * time.Second
	operations := map[string]graceful.Operation{
		"Orchestrator service": func(ctx context.Context) error {
			return orchestratorService.Shutdown(ctx)
		},
		"HTTP server": func(ctx context.Context) error {
			return httpSrv.Shutdown(ctx)
		},
	}
	if repositoryService != nil {
		operations["Repository service"] = func(ctx context.Context) error {
			return repositoryService.Shutdown(ctx)
		}
	}
	waitShutdown := graceful.GracefulShutdown(
		context.Background(),
		maxSecond,
		operations,
		log,
	)

	go orchestratorService.Start()
	go httpSrv.Listen()

	<-waitShutdown
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = setupPrettySlog(slog.LevelDebug)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default: // If env config is invalid, set prod settings by default due to security
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}

func setupPrettySlog(level slog.Level) *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: level,
		},
	}

	handler := opts.NewPrettyHandler(os.Stdout)

	return slog.New(handler)
}
