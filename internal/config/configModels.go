package config

import "time"

type Config struct {
	Env           string           `yaml:"env" env-default:"local"`
	HttpServer    HttpServerConfig `yaml:"httpServer" env-required:"true"`
	DBConfig      DBConfig         `yaml:"db"`
	StoreConfig   StoreConfig      `yaml:"store" env-required:"true"`
	OracleConfig  OracleConfig     `yaml:"oracle" env-required:"true"`
	CrawlerConfig CrawlerConfig    `yaml:"crawler" env-required:"true"`
}

type HttpServerConfig struct {
	Address string        `yaml:"address" env-default:"localhost"`
	Port    string        `yaml:"port" env-default:"8080"`
	Timeout time.Duration `yaml:"timeout" env-default:"5s"`
}

// DBConfig — подключение к Postgres для журнала публикаций.
// Если Host пуст, журнал отключён.
type DBConfig struct {
	Host     string `yaml:"host" env:"DB_HOST" env-default:""`
	Port     string `yaml:"port" env:"DB_PORT" env-default:"5432"`
	Name     string `yaml:"name" env:"DB_NAME" env-default:"postgres"`
	User     string `yaml:"user" env:"DB_USER" env-default:"user"`
	Password string `yaml:"password" env:"DB_PASSWORD" env-default:"password"`
}

// StoreConfig — внешнее хранилище событий (POST /add, GET /list).
type StoreConfig struct {
	BaseURL string `yaml:"baseUrl" env:"STORE_BASE_URL" env-required:"true"`
	Timeout int    `yaml:"timeout" env-default:"30"` //in seconds
}

func (c StoreConfig) GetTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// OracleConfig — внешний сервис структурного извлечения (OpenRouter).
type OracleConfig struct {
	Timeout     int     `yaml:"timeout" env:"AI_TIMEOUT" env-default:"600"` //in seconds
	ModelName   string  `yaml:"modelName" env:"AI_MODEL_NAME" env-required:"true"`
	AIApiToken  string  `yaml:"aiapitoken" env:"AI_API_TOKEN" env-required:"true"`
	MaxTokens   int     `yaml:"maxTokens" env-default:"65000"`
	Temperature float32 `yaml:"temperature" env-default:"0.2"`
}

func (c OracleConfig) GetTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// SiteConfig описывает один сайт для обхода.
type SiteConfig struct {
	Name string `yaml:"name"` // Имя сайта (например, "funcheap")
	// FrontURL — страница с индикатором количества страниц (fixedPageCount).
	FrontURL string `yaml:"frontUrl"`
	// ListURLTemplate — шаблон URL страницы списка, плейсхолдер {page}.
	ListURLTemplate string `yaml:"listUrlTemplate"`
	// Strategy — "fixedPageCount" или "openEnded".
	Strategy          string `yaml:"strategy"`
	PageCountSelector string `yaml:"pageCountSelector"` // только для fixedPageCount
	LinkSelector      string `yaml:"linkSelector"`
	// ExcludeLinkSubstring — ссылки с этой подстрокой не считаются событиями.
	ExcludeLinkSubstring string `yaml:"excludeLinkSubstring"`
	// HeadSkip — сколько первых ссылок каждой страницы пропустить.
	HeadSkip int `yaml:"headSkip"`
	// MinLinks — порог остановки для openEnded: страница с меньшим числом
	// подходящих ссылок считается последней.
	MinLinks        int    `yaml:"minLinks" env-default:"5"`
	ContentSelector string `yaml:"contentSelector"`
	NoiseSelector   string `yaml:"noiseSelector"`
	Referer         string `yaml:"referer"`
}

type CrawlerConfig struct {
	Timeout      int    `yaml:"timeout" env:"CRAWLER_TIMEOUT" env-default:"600"` //per-URL, in seconds
	FetchTimeout int    `yaml:"fetchTimeout" env-default:"30"`                   //in seconds
	RetryCount   int    `yaml:"retryCount" env-default:"3"`
	DelayMinMs   int    `yaml:"delayMinMs" env-default:"100"`
	DelayMaxMs   int    `yaml:"delayMaxMs" env-default:"300"`
	UserAgent    string `yaml:"userAgent" env-default:"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"`
	// CalendarTimezone — метка таймзоны, передаваемая потребителю календаря.
	CalendarTimezone string       `yaml:"calendarTimezone" env-default:"America/Los_Angeles"`
	CrawlOnStart     bool         `yaml:"crawlOnStart" env-default:"true"`
	Sites            []SiteConfig `yaml:"sites"` // Список сайтов для обхода
}

func (c CrawlerConfig) GetTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

func (c CrawlerConfig) GetFetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeout) * time.Second
}

func (c CrawlerConfig) GetDelayMin() time.Duration {
	return time.Duration(c.DelayMinMs) * time.Millisecond
}

func (c CrawlerConfig) GetDelayMax() time.Duration {
	return time.Duration(c.DelayMaxMs) * time.Millisecond
}
