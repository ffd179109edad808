package main

import (
	gethealth "factory-metrics/http-server/health/get"
	getkinds "factory-metrics/http-server/kinds/get"
	getreport "factory-metrics/http-server/report/get"
	"factory-metrics/internal/config"
	"factory-metrics/internal/domain"
	"factory-metrics/internal/metrics"
	"factory-metrics/internal/service/report"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"log/slog"
	"net/http"
)

func routes(cfg config.Config, log *slog.Logger, dom *domain.Domain, assembler *report.Assembler, db gethealth.Pinger, m *metrics.Metrics) *chi.Mux {
	router := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins, // фронтенд дашборда
		AllowedMethods:   []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
	})

	router.Use(corsHandler.Handler)

	router.Use(middleware.RequestID)
	//ip пользователя
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	timeout := cfg.Report.QueryTimeout

	router.With(m.Middleware("/api/kinds")).
		Get("/api/kinds", getkinds.GetKinds(log, dom, dom.Calendar.Name()))

	// свёртки по виду записей: sewing, inspection, packing, cutting
	router.With(m.Middleware("/api/reports/{kind}")).
		Get("/api/reports/{kind}", getreport.GetRollupReport(log, assembler, timeout))

	// эффективность и загрузка
	router.With(m.Middleware("/api/ratios/{variant}")).
		Get("/api/ratios/{variant}", getreport.GetRatioReport(log, assembler, timeout))

	router.With(m.Middleware("/api/dashboard")).
		Get("/api/dashboard", getreport.GetDashboard(log, assembler, timeout))

	router.Get("/health", gethealth.GetHealth(log, db))
	router.Handle("/metrics", m.Handler())

	return router
}
