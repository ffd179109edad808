package get

import (
	"errors"
	"factory-metrics/internal/calendar"
	"factory-metrics/internal/service/report"
	"net/http"
	"time"
)

// rangeFromQuery читает ?from=&to=. Без параметров: с первого числа текущего месяца по сегодня.
func rangeFromQuery(r *http.Request, cal calendar.Calendar, now time.Time) calendar.Range {
	q := r.URL.Query()

	rng := calendar.Range{From: q.Get("from"), To: q.Get("to")}
	if rng.From == "" {
		rng.From = cal.FirstOfMonth(now)
	}
	if rng.To == "" {
		rng.To = cal.Today(now)
	}
	return rng
}

// statusOf код и текст ответа для ошибки построения отчёта; подробности только в логе
func statusOf(err error) (int, string) {
	switch {
	case errors.Is(err, report.ErrRangeTooLarge):
		return http.StatusBadRequest, "Range too large"
	case errors.Is(err, calendar.ErrInvalidDateKey),
		errors.Is(err, calendar.ErrInvalidRange):
		return http.StatusBadRequest, "Invalid date range"
	case errors.Is(err, report.ErrUnknownKind):
		return http.StatusNotFound, "Report kind not found"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}
