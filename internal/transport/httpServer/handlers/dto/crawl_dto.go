package dto

import (
	"time"

	"eventsCrawler/internal/models/domain"
)

// TriggerCrawlRequest — DTO для запуска обхода. Пустое тело или пустой
// site означает обход всех сайтов.
type TriggerCrawlRequest struct {
	Site string `json:"site"`
}

// TriggerCrawlResponse — DTO для ответа на запуск обхода.
type TriggerCrawlResponse struct {
	Status string `json:"status"`
	Site   string `json:"site,omitempty"`
}

// SiteStatusResponse — DTO для статуса воркера одного сайта.
type SiteStatusResponse struct {
	Site            string    `json:"site"`
	State           string    `json:"state"`
	CurrentURL      string    `json:"current_url,omitempty"`
	URLsTotal       int       `json:"urls_total"`
	URLsProcessed   int       `json:"urls_processed"`
	EventsPublished int       `json:"events_published"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ErrorResponse — DTO для ответа с ошибкой.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MapSiteStatusList конвертирует доменные статусы в слайс DTO.
func MapSiteStatusList(statuses []domain.SiteStatus) []SiteStatusResponse {
	result := make([]SiteStatusResponse, len(statuses))
	for i, st := range statuses {
		result[i] = SiteStatusResponse{
			Site:            st.Site,
			State:           string(st.State),
			CurrentURL:      st.CurrentURL,
			URLsTotal:       st.URLsTotal,
			URLsProcessed:   st.URLsProcessed,
			EventsPublished: st.EventsPublished,
			UpdatedAt:       st.UpdatedAt,
		}
	}
	return result
}
