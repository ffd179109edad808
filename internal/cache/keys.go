package cache

import (
	"factory-metrics/internal/calendar"
	"strings"
)

// ReportKey ключ отчёта: вид отчёта и границы диапазона
func ReportKey(reportKind string, r calendar.Range) string {
	return strings.Join([]string{
		strings.ToLower(strings.TrimSpace(reportKind)),
		r.From,
		r.To,
	}, "|")
}
