package normalizer

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"eventsCrawler/internal/models/domain"
	"eventsCrawler/internal/models/dto"
)

// ErrMalformedTimestamp возвращается, когда start_time/end_time не
// соответствует ни одной из поддерживаемых кодировок. Ошибка действует
// на одну под-запись: соседние события той же страницы не затрагиваются.
var ErrMalformedTimestamp = errors.New("malformed timestamp")

var (
	epochRe    = regexp.MustCompile(`^\d+$`)
	calendarRe = regexp.MustCompile(`^\d{4},\d{1,2},\d{1,2},\d{1,2},\d{1,2},\d{1,2}$`)
)

// Normalizer превращает недоверенную под-запись оракула в каноническую
// запись события в форме календарного потребителя.
type Normalizer struct {
	// timeZone — описательная метка для потребителя календаря;
	// момент времени она не смещает.
	timeZone string
}

func New(timeZone string) *Normalizer {
	return &Normalizer{timeZone: timeZone}
}

// Normalize валидирует и конвертирует одну под-запись. Отсутствующие
// name/location/check_list/price/source допустимы и дают пустые сегменты;
// нераспознанный таймштамп — ErrMalformedTimestamp для этой под-записи.
func (n *Normalizer) Normalize(raw dto.RawEvent) (domain.EventRecord, error) {
	op := "Normalizer.Normalize()"

	start, err := resolveTimestamp(raw.StartTime)
	if err != nil {
		return domain.EventRecord{}, fmt.Errorf("%s: start_time %q: %w", op, raw.StartTime, err)
	}

	end, err := resolveTimestamp(raw.EndTime)
	if err != nil {
		return domain.EventRecord{}, fmt.Errorf("%s: end_time %q: %w", op, raw.EndTime, err)
	}

	return domain.EventRecord{
		Summary:     raw.Name,
		Location:    raw.Location,
		Description: composeDescription(raw),
		Start: domain.EventDateTime{
			DateTime: formatInstant(start),
			TimeZone: n.timeZone,
		},
		End: domain.EventDateTime{
			DateTime: formatInstant(end),
			TimeZone: n.timeZone,
		},
	}, nil
}

// composeDescription собирает составное описание: оригинальный текст,
// нумерованный check-list, цена и источник.
func composeDescription(raw dto.RawEvent) string {
	items := make([]string, 0, len(raw.CheckList))
	for i, item := range raw.CheckList {
		items = append(items, fmt.Sprintf("(%d)%s", i+1, item))
	}
	checkList := strings.Join(items, "\n")

	return fmt.Sprintf("[DESCRIPTION]\n%s\n[CHECK_LIST]\n%s\n[PRICE]\n%s\n[SOURCE]\n%s\n",
		raw.Description, checkList, raw.Price, raw.Source)
}

// resolveTimestamp распознаёт одну из двух кодировок, которые выдают
// разные конфигурации оракула, и приводит к unix-секундам:
//   - строка из одних цифр — unix-секунды;
//   - "YYYY,MM,DD,HH,MM,SS" — календарные поля в локальном времени.
//
// Какая кодировка придёт — заранее неизвестно, поэтому распознавание
// идёт по значению, без внешнего селектора.
func resolveTimestamp(s string) (int64, error) {
	switch {
	case epochRe.MatchString(s):
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, ErrMalformedTimestamp
		}
		return v, nil

	case calendarRe.MatchString(s):
		parts := strings.Split(s, ",")
		fields := make([]int, len(parts))
		for i, p := range parts {
			v, err := strconv.Atoi(p)
			if err != nil {
				return 0, ErrMalformedTimestamp
			}
			fields[i] = v
		}
		t := time.Date(fields[0], time.Month(fields[1]), fields[2], fields[3], fields[4], fields[5], 0, time.Local)
		return t.Unix(), nil

	default:
		return 0, ErrMalformedTimestamp
	}
}

// formatInstant отдаёт ISO-8601 момент в UTC с суффиксом Z.
func formatInstant(ts int64) string {
	return time.Unix(ts, 0).UTC().Format("2006-01-02T15:04:05") + "Z"
}
