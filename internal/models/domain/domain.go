package domain

import "time"

// CrawlState представляет состояние воркера одного сайта.
type CrawlState string

const (
	// CrawlStateIdle — воркер ещё не запускался
	CrawlStateIdle CrawlState = "IDLE"
	// CrawlStateDiscovering — идёт обход страниц списка
	CrawlStateDiscovering CrawlState = "DISCOVERING"
	// CrawlStateCrawling — идёт обработка detail-страниц
	CrawlStateCrawling CrawlState = "CRAWLING"
	// CrawlStateDone — воркер завершил все URL и дёрнул refresh
	CrawlStateDone CrawlState = "DONE"
)

// EventURL — абсолютный URL detail-страницы одного события.
type EventURL string

func (e EventURL) String() string {
	return string(e)
}

func ToEventURL(url string) EventURL {
	return EventURL(url)
}

// RawContent — текст detail-страницы с префиксом source_url.
// Живёт только внутри воркера до вызова оракула.
type RawContent string

func (c RawContent) String() string {
	return string(c)
}

func (c RawContent) Empty() bool {
	return len(c) == 0
}

// EventDateTime — момент времени в UTC (ISO-8601 с суффиксом Z) плюс
// описательная метка таймзоны. Метка не смещает момент.
type EventDateTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

// EventRecord — каноническая запись события. Форма повторяет контракт
// календарного потребителя: {summary, location, description, start, end}.
// После конструирования не изменяется.
type EventRecord struct {
	Summary     string        `json:"summary"`
	Location    string        `json:"location"`
	Description string        `json:"description"`
	Start       EventDateTime `json:"start"`
	End         EventDateTime `json:"end"`
}

// SiteStatus — снимок состояния воркера для контрольного API.
type SiteStatus struct {
	Site            string
	State           CrawlState
	CurrentURL      string
	URLsTotal       int
	URLsProcessed   int
	EventsPublished int
	UpdatedAt       time.Time
}
