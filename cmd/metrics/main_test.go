package main

import (
	"factory-metrics/internal/config"
	"factory-metrics/internal/domain"
	"factory-metrics/internal/metrics"
	"factory-metrics/internal/service/report"
	"factory-metrics/internal/storage/mysql"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestRouter(t *testing.T) (http.Handler, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := config.Config{
		Calendar: config.Calendar{TimezoneName: "Asia/Jakarta", TimezoneOffset: 7 * time.Hour},
		Report:   config.Report{MaxRangeDays: 31, DecimalPlaces: 3, QueryTimeout: time.Second},
	}
	cfg.AllowedOrigins = []string{"http://localhost:5173"}

	dom, err := domain.Load(cfg.Calendar, cfg.Domain)
	require.NoError(t, err)

	m := metrics.New()
	store := mysql.NewWithDB(db)
	assembler := report.NewAssembler(dom, store, report.Options{
		MaxRangeDays:  cfg.Report.MaxRangeDays,
		DecimalPlaces: cfg.Report.DecimalPlaces,
	}).WithRecorder(m)

	return routes(cfg, slog.Default(), dom, assembler, store, m), mock
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
	return rr
}

func TestRoutes(t *testing.T) {
	router, mock := newTestRouter(t)

	rr := get(router, "/api/kinds")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"sewing"`)
	assert.Contains(t, rr.Body.String(), `"efficiency"`)

	rr = get(router, "/api/reports/welding?from=2024-03-01&to=2024-03-02")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = get(router, "/api/reports/sewing?from=2024-01-01&to=2024-03-01")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = get(router, "/api/dashboard?from=2024-03-10&to=2024-03-01")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = get(router, "/health")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"status":"ok"`)

	rr = get(router, "/metrics")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `http_requests_total{route="/api/reports/{kind}",status="404"} 1`)

	// запросов к таблицам не было
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoutes_RollupFromStore(t *testing.T) {
	router, mock := newTestRouter(t)

	rows := sqlmock.NewRows([]string{"recorded_at", "category", "subcategory", "pcs", "cartons"}).
		AddRow(time.Date(2024, 3, 10, 2, 0, 0, 0, time.UTC), "panel", "", "12", "1").
		AddRow(time.Date(2024, 3, 10, 3, 0, 0, 0, time.UTC), "duffel", "", "3", nil)
	mock.ExpectQuery("FROM `packing_output`").WillReturnRows(rows)

	rr := get(router, "/api/reports/packing?from=2024-03-10&to=2024-03-10")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"daily_grand_total":[{"day":"2024-03-10","total":"15"}]`)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetupLogger_ErrorsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "errors.log")

	log := setupLogger(envLocal, path)
	log.Info("started")
	log.Error("db down", slog.String("op", "test"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "db down")
	assert.NotContains(t, string(data), "started")
}
