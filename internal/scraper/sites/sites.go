package sites

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"eventsCrawler/internal/metrics"
	"eventsCrawler/internal/models/domain"
	"eventsCrawler/internal/scraper"
	"eventsCrawler/internal/utils/logger/sl"
)

// pageCountRe вытаскивает общее число страниц из индикатора вида "Page 1 of 42".
var pageCountRe = regexp.MustCompile(`of\s+(\d+)`)

// Adapter обходит один сайт: находит URL detail-страниц по страницам
// списка и достаёт сырой текст с detail-страницы.
type Adapter struct {
	logger    *slog.Logger
	cfg       Config
	fetcher   PageFetcher
	extractor *scraper.Extractor
}

func NewAdapter(logger *slog.Logger, cfg Config, fetcher PageFetcher, extractor *scraper.Extractor) *Adapter {
	return &Adapter{
		logger:    logger,
		cfg:       cfg,
		fetcher:   fetcher,
		extractor: extractor,
	}
}

func (a *Adapter) Name() string {
	return a.cfg.Name
}

// DiscoverListingURLs обходит страницы списка и возвращает URL
// detail-страниц в порядке обнаружения.
func (a *Adapter) DiscoverListingURLs(ctx context.Context) ([]domain.EventURL, error) {
	op := "sites.Adapter.DiscoverListingURLs()"

	switch a.cfg.Strategy {
	case StrategyFixedPageCount:
		return a.discoverFixed(ctx)
	case StrategyOpenEnded:
		return a.discoverOpenEnded(ctx)
	default:
		return nil, fmt.Errorf("%s: unknown pagination strategy %q for site %q", op, a.cfg.Strategy, a.cfg.Name)
	}
}

// FetchDetailContent достаёт сырой текст одной detail-страницы.
// Исчерпание попыток фетчера приходит сюда как scraper.ErrFetchFailed
// и пробрасывается выше: URL пропускается, обход продолжается.
func (a *Adapter) FetchDetailContent(ctx context.Context, eventURL domain.EventURL) (domain.RawContent, error) {
	op := "sites.Adapter.FetchDetailContent()"

	body, _, err := a.fetcher.Fetch(ctx, eventURL.String())
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	metrics.DetailPagesFetched.WithLabelValues(a.cfg.Name).Inc()

	return domain.RawContent(a.extractor.Extract(body, a.cfg.Selectors, eventURL.String())), nil
}

func (a *Adapter) discoverFixed(ctx context.Context) ([]domain.EventURL, error) {
	op := "sites.Adapter.discoverFixed()"
	log := a.logger.With(
		slog.String("op", op),
		slog.String("site", a.cfg.Name),
	)

	body, _, err := a.fetcher.Fetch(ctx, a.cfg.FrontURL)
	if err != nil {
		return nil, fmt.Errorf("%s: front page: %w", op, err)
	}

	count, err := a.parsePageCount(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("page count resolved", slog.Int("pages", count))

	var urls []domain.EventURL
	for page := 1; page <= count; page++ {
		if err := ctx.Err(); err != nil {
			return urls, fmt.Errorf("%s: %w", op, err)
		}

		log.Info("requesting listing page", slog.Int("page", page))

		links, err := a.collectPageLinks(ctx, a.pageURL(page))
		if err != nil {
			// Одна сломанная страница списка не прерывает обход остальных
			log.Error("listing page failed", slog.Int("page", page), sl.Err(err))
			continue
		}

		for _, link := range headSkipped(links, a.cfg.HeadSkip) {
			urls = append(urls, domain.ToEventURL(link))
		}

		scraper.SleepJitter(ctx, a.cfg.DelayMin, a.cfg.DelayMax)
	}

	return urls, nil
}

func (a *Adapter) discoverOpenEnded(ctx context.Context) ([]domain.EventURL, error) {
	op := "sites.Adapter.discoverOpenEnded()"
	log := a.logger.With(
		slog.String("op", op),
		slog.String("site", a.cfg.Name),
	)

	var urls []domain.EventURL

	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return urls, fmt.Errorf("%s: %w", op, err)
		}

		log.Info("requesting listing page", slog.Int("page", page))

		links, err := a.collectPageLinks(ctx, a.pageURL(page))
		if err != nil {
			return urls, fmt.Errorf("%s: page %d: %w", op, page, err)
		}

		// Страница с недобором ссылок — последняя; её ссылки не берём
		if len(links) < a.cfg.MinLinks {
			log.Info("last page reached", slog.Int("page", page), slog.Int("links", len(links)))
			break
		}

		for _, link := range headSkipped(links, a.cfg.HeadSkip) {
			urls = append(urls, domain.ToEventURL(link))
		}

		scraper.SleepJitter(ctx, a.cfg.DelayMin, a.cfg.DelayMax)
	}

	return urls, nil
}

// collectPageLinks возвращает подходящие абсолютные ссылки одной страницы
// списка: по селектору, без исключённых (регистрационные формы и прочие
// не-события), относительные разрешены от URL страницы. Head-skip сюда
// не входит — порог последней страницы считается до него.
func (a *Adapter) collectPageLinks(ctx context.Context, pageURL string) ([]string, error) {
	op := "sites.Adapter.collectPageLinks()"

	body, _, err := a.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	metrics.ListingPagesFetched.WithLabelValues(a.cfg.Name).Inc()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var links []string
	doc.Find(a.cfg.LinkSelector).Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok {
			return
		}
		if a.cfg.ExcludeLinkSubstring != "" && strings.Contains(href, a.cfg.ExcludeLinkSubstring) {
			return
		}
		abs, err := base.Parse(href)
		if err != nil {
			return
		}
		links = append(links, abs.String())
	})

	return links, nil
}

func (a *Adapter) parsePageCount(frontBody string) (int, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(frontBody))
	if err != nil {
		return 0, err
	}

	indicator := doc.Find(a.cfg.PageCountSelector).First().Text()
	m := pageCountRe.FindStringSubmatch(indicator)
	if m == nil {
		return 0, fmt.Errorf("page count indicator not found by selector %q", a.cfg.PageCountSelector)
	}

	count, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (a *Adapter) pageURL(page int) string {
	return strings.Replace(a.cfg.ListURLTemplate, "{page}", strconv.Itoa(page), 1)
}

func headSkipped(links []string, skip int) []string {
	if skip <= 0 {
		return links
	}
	if skip >= len(links) {
		return nil
	}
	return links[skip:]
}
