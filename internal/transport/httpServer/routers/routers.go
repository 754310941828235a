package routers

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"eventsCrawler/internal/transport/httpServer/handlers"
	myMiddleware "eventsCrawler/internal/transport/httpServer/middleware"
)

type Router struct {
	logger       *slog.Logger
	crawlHandler *handlers.CrawlHandler
}

func NewRouter(logger *slog.Logger, crawlHandler *handlers.CrawlHandler) *Router {
	return &Router{
		logger:       logger,
		crawlHandler: crawlHandler,
	}
}

func (r *Router) Mount(mux *chi.Mux) {

	mux.Use(cors.AllowAll().Handler)
	mux.Use(myMiddleware.LoggerMiddleware(r.logger))
	mux.Use(middleware.Heartbeat("/ping"))

	mux.Handle("/metrics", promhttp.Handler())

	mux.Route("/api", func(mux chi.Router) {
		mux.Route("/v1", func(mux chi.Router) {
			mux.Route("/crawl", func(mux chi.Router) {
				mux.Post("/", r.crawlHandler.TriggerCrawl)
				mux.Get("/status", r.crawlHandler.Status)
			})
			mux.Get("/publishes", r.crawlHandler.Publishes)
		})
	})
}
