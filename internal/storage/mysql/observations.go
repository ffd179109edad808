package mysql

import (
	"context"
	"database/sql"
	"factory-metrics/internal/storage"
	"fmt"
	"github.com/shopspring/decimal"
	"regexp"
	"strings"
	"time"
)

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,63}$`)

// имена таблиц и колонок приходят из конфига и подставляются в запрос как есть
func checkIdentifiers(names ...string) error {
	for _, n := range names {
		if !identRe.MatchString(n) {
			return fmt.Errorf("%w: %q", storage.ErrUnsafeIdentifier, n)
		}
	}
	return nil
}

func quoteColumns(cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = "`" + c + "`"
	}
	return strings.Join(quoted, ", ")
}

// FetchRange загружает все записи таблицы с recorded_at в [start, end).
func (s *Storage) FetchRange(ctx context.Context, table storage.ObservationTable, start, end time.Time) ([]storage.Observation, error) {
	const op = "storage.mysql.FetchRange"

	if err := checkIdentifiers(append([]string{table.Name}, table.Columns...)...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	selectCols := "recorded_at, category, subcategory"
	if len(table.Columns) > 0 {
		selectCols += ", " + quoteColumns(table.Columns)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE recorded_at >= ? AND recorded_at < ?
		ORDER BY recorded_at, id`, selectCols, "`"+table.Name+"`")

	rows, err := s.db.QueryContext(ctx, query, start.UTC(), end.UTC())
	if err != nil {
		return nil, fmt.Errorf("%s: ошибка выполнения запроса: %w", op, err)
	}
	defer rows.Close()

	var result []storage.Observation

	for rows.Next() {
		var (
			instant     time.Time
			category    string
			subcategory sql.NullString
		)

		values := make([]decimal.NullDecimal, len(table.Columns))
		dest := make([]interface{}, 0, 3+len(values))
		dest = append(dest, &instant, &category, &subcategory)
		for i := range values {
			dest = append(dest, &values[i])
		}

		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("%s: ошибка сканирования строки: %w", op, err)
		}

		obs := storage.Observation{
			Instant:     instant.UTC(),
			Category:    category,
			Subcategory: subcategory.String,
			Fields:      make(map[string]decimal.NullDecimal, len(values)),
		}
		for i, col := range table.Columns {
			obs.Fields[col] = values[i]
		}

		result = append(result, obs)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: ошибка при чтении строк: %w", op, err)
	}

	return result, nil
}

// FetchRatioDays загружает входы формул эффективности с recorded_at в [start, end).
func (s *Storage) FetchRatioDays(ctx context.Context, table storage.RatioTable, start, end time.Time) ([]storage.RatioDayRecord, error) {
	const op = "storage.mysql.FetchRatioDays"

	if err := checkIdentifiers(append([]string{table.Name}, table.Targets...)...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	selectCols := "recorded_at, normal_workers, normal_minutes, ot_workers, ot_minutes"
	if len(table.Targets) > 0 {
		selectCols += ", " + quoteColumns(table.Targets)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE recorded_at >= ? AND recorded_at < ?
		ORDER BY recorded_at, id`, selectCols, "`"+table.Name+"`")

	rows, err := s.db.QueryContext(ctx, query, start.UTC(), end.UTC())
	if err != nil {
		return nil, fmt.Errorf("%s: ошибка выполнения запроса: %w", op, err)
	}
	defer rows.Close()

	var result []storage.RatioDayRecord

	for rows.Next() {
		var rec storage.RatioDayRecord

		targets := make([]decimal.NullDecimal, len(table.Targets))
		dest := []interface{}{&rec.Instant, &rec.NormalWorkers, &rec.NormalMinutes, &rec.OTWorkers, &rec.OTMinutes}
		for i := range targets {
			dest = append(dest, &targets[i])
		}

		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("%s: ошибка сканирования строки: %w", op, err)
		}

		rec.Instant = rec.Instant.UTC()
		rec.Targets = make(map[string]decimal.NullDecimal, len(targets))
		for i, name := range table.Targets {
			rec.Targets[name] = targets[i]
		}

		result = append(result, rec)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: ошибка при чтении строк: %w", op, err)
	}

	return result, nil
}

// Ping проверка соединения для GET /health
func (s *Storage) Ping(ctx context.Context) error {
	const op = "storage.mysql.Ping"

	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
