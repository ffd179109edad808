package get

import (
	"context"
	"factory-metrics/internal/calendar"
	"factory-metrics/internal/service/report"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"log/slog"
	"net/http"
	"time"
)

type ReportBuilder interface {
	Rollup(ctx context.Context, kind string, r calendar.Range) (*report.RollupReport, error)
	Ratio(ctx context.Context, variant string, r calendar.Range) (*report.RatioReport, error)
	Dashboard(ctx context.Context, r calendar.Range) (*report.Dashboard, error)
	Calendar() calendar.Calendar
}

// GetRollupReport GET /api/reports/{kind}?from=YYYY-MM-DD&to=YYYY-MM-DD
func GetRollupReport(log *slog.Logger, builder ReportBuilder, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.report.GetRollupReport"

		kind := chi.URLParam(r, "kind")
		rng := rangeFromQuery(r, builder.Calendar(), time.Now())

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		rep, err := builder.Rollup(ctx, kind, rng)
		if err != nil {
			status, msg := statusOf(err)
			logFailure(log, op, status, err, slog.String("kind", kind), slog.String("from", rng.From), slog.String("to", rng.To))
			http.Error(w, msg, status)
			return
		}

		render.JSON(w, r, rep)
	}
}

// GetRatioReport GET /api/ratios/{variant}
func GetRatioReport(log *slog.Logger, builder ReportBuilder, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.report.GetRatioReport"

		variant := chi.URLParam(r, "variant")
		rng := rangeFromQuery(r, builder.Calendar(), time.Now())

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		rep, err := builder.Ratio(ctx, variant, rng)
		if err != nil {
			status, msg := statusOf(err)
			logFailure(log, op, status, err, slog.String("variant", variant), slog.String("from", rng.From), slog.String("to", rng.To))
			http.Error(w, msg, status)
			return
		}

		render.JSON(w, r, rep)
	}
}

// GetDashboard все отчёты за один диапазон
func GetDashboard(log *slog.Logger, builder ReportBuilder, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.report.GetDashboard"

		rng := rangeFromQuery(r, builder.Calendar(), time.Now())

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		dash, err := builder.Dashboard(ctx, rng)
		if err != nil {
			status, msg := statusOf(err)
			logFailure(log, op, status, err, slog.String("from", rng.From), slog.String("to", rng.To))
			http.Error(w, msg, status)
			return
		}

		render.JSON(w, r, dash)
	}
}

func logFailure(log *slog.Logger, op string, status int, err error, attrs ...any) {
	l := log.With(slog.String("op", op), slog.String("error", err.Error())).With(attrs...)
	if status == http.StatusInternalServerError {
		l.Error("Failed to build report")
		return
	}
	l.Warn("Bad report request")
}
