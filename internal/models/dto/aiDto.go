package dto

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// FlexibleStringSlice — тип, который при десериализации принимает как строку, так и массив строк.
type FlexibleStringSlice []string

func (f *FlexibleStringSlice) UnmarshalJSON(data []byte) error {
	// Пробуем как массив строк
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*f = arr
		return nil
	}

	// Пробуем как одну строку
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != "" {
			*f = []string{s}
		} else {
			*f = nil
		}
		return nil
	}

	return fmt.Errorf("expected string or []string, got %s", string(data))
}

// RawEvent — одна под-запись сырого ответа оракула. Все поля по контракту
// строковые, включая цену и таймштампы; любое поле может отсутствовать.
// Таймштампы приходят в одной из двух кодировок: unix-секунды строкой
// либо "YYYY,MM,DD,HH,MM,SS".
type RawEvent struct {
	Name        string              `json:"name"`
	StartTime   string              `json:"start_time"`
	EndTime     string              `json:"end_time"`
	Location    string              `json:"location"`
	Description string              `json:"description"`
	CheckList   FlexibleStringSlice `json:"check_list"`
	Price       string              `json:"price"`
	Tags        FlexibleStringSlice `json:"tags"`
	Source      string              `json:"source"`
}

// EventsPayload — сырой ответ оракула: отображение числовых индексов
// в под-записи. Ключи в JSON строковые ("1", "2", ...).
type EventsPayload struct {
	Events map[string]RawEvent `json:"events"`
}

// IndexedEvent — под-запись вместе с её индексом из ответа оракула.
type IndexedEvent struct {
	Index string
	Event RawEvent
}

// Sorted возвращает под-записи в порядке числовых индексов.
// Нечисловые ключи идут после числовых в лексикографическом порядке.
func (p EventsPayload) Sorted() []IndexedEvent {
	keys := make([]string, 0, len(p.Events))
	for k := range p.Events {
		keys = append(keys, k)
	}

	sort.Slice(keys, func(i, j int) bool {
		ni, errI := strconv.Atoi(keys[i])
		nj, errJ := strconv.Atoi(keys[j])
		switch {
		case errI == nil && errJ == nil:
			return ni < nj
		case errI == nil:
			return true
		case errJ == nil:
			return false
		default:
			return keys[i] < keys[j]
		}
	})

	result := make([]IndexedEvent, 0, len(keys))
	for _, k := range keys {
		result = append(result, IndexedEvent{Index: k, Event: p.Events[k]})
	}
	return result
}
