package scraper

import (
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"eventsCrawler/internal/utils/logger/sl"
)

// Selectors — структурная конфигурация сайта: где лежит основной контент
// и какой вложенный блок (если есть) нужно вырезать как шум.
type Selectors struct {
	Content string
	Noise   string
}

// Extractor выделяет текст события из HTML detail-страницы.
type Extractor struct {
	logger *slog.Logger
}

func NewExtractor(logger *slog.Logger) *Extractor {
	return &Extractor{logger: logger}
}

// Extract возвращает текст основного контейнера с вырезанным шумом,
// с префиксом "source_url:<url>\t" — по нему оракул атрибутирует поле
// source. Отсутствие основного контейнера — не ошибка, а пустой текст:
// разметка сайтов периодически меняется, обход должен продолжаться.
func (e *Extractor) Extract(html string, sel Selectors, pageURL string) string {
	op := "Extractor.Extract()"
	log := e.logger.With(
		slog.String("op", op),
		slog.String("url", pageURL),
	)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		log.Error("html parse error", sl.Err(err))
		return ""
	}

	container := doc.Find(sel.Content).First()
	if container.Length() == 0 {
		log.Warn("content container not found", slog.String("selector", sel.Content))
		return ""
	}

	cleaned := container.Clone()
	if sel.Noise != "" {
		noise := cleaned.Find(sel.Noise)
		if noise.Length() == 0 {
			// Ожидаемая ситуация при смене разметки: продолжаем без вырезания
			log.Warn("noise container not found", slog.String("selector", sel.Noise))
		} else {
			noise.Remove()
		}
	}

	return "source_url:" + pageURL + "\t" + strings.TrimSpace(cleaned.Text())
}
