package report

import (
	"context"
	"factory-metrics/internal/cache"
	"factory-metrics/internal/calendar"
	"factory-metrics/internal/service/rollup"
	"fmt"
	"github.com/shopspring/decimal"
	"time"
)

type RollupReport struct {
	Kind   string         `json:"kind"`
	Range  calendar.Range `json:"range"`
	NoData bool           `json:"no_data"`
	rollup.Result
}

// Rollup отчёт по виду записей за диапазон.
func (a *Assembler) Rollup(ctx context.Context, kind string, r calendar.Range) (*RollupReport, error) {
	const op = "service.report.Rollup"

	if _, ok := a.rollups[kind]; !ok {
		return nil, fmt.Errorf("%s: %w: %q", op, ErrUnknownKind, kind)
	}
	if err := a.CheckRange(r); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	key := cache.ReportKey(kind, r)
	if cached, ok := a.rollupCache.Get(kind, key); ok {
		return cached, nil
	}

	start := time.Now()
	res, err := a.rollupResult(ctx, kind, r)
	if err != nil {
		a.record(kind, start, false, err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	report := &RollupReport{
		Kind:   kind,
		Range:  r,
		NoData: len(res.DailyByCategory) == 0,
		Result: a.roundResult(res),
	}
	a.record(kind, start, report.NoData, nil)
	a.rollupCache.Set(key, report)

	return report, nil
}

// rollupResult точные, неокруглённые свёртки
func (a *Assembler) rollupResult(ctx context.Context, kind string, r calendar.Range) (rollup.Result, error) {
	engine := a.rollups[kind]
	table := a.dom.Kinds[kind].Table

	start, end, err := a.dom.Calendar.BoundsUTC(r)
	if err != nil {
		return rollup.Result{}, err
	}

	obs, err := a.store.FetchRange(ctx, table, start, end)
	if err != nil {
		return rollup.Result{}, fmt.Errorf("fetch %s: %w", kind, err)
	}

	return engine.Compute(obs, r)
}

func (a *Assembler) roundResult(res rollup.Result) rollup.Result {
	out := rollup.Result{
		DailyByCategory:                 make([]rollup.CategoryTotal, len(res.DailyByCategory)),
		DailyGrandTotal:                 make([]rollup.DayTotal, len(res.DailyGrandTotal)),
		DailyBySubcategoryAndCategory:   make([]rollup.SubcategoryCategoryTotal, len(res.DailyBySubcategoryAndCategory)),
		WeightedDailyBySubcategory:      make(rollup.WeightedDays, len(res.WeightedDailyBySubcategory)),
		MonthlyBySubcategoryAndCategory: make([]rollup.MonthSubcategoryCategoryTotal, len(res.MonthlyBySubcategoryAndCategory)),
		MonthlyByCategory:               make([]rollup.MonthCategoryTotal, len(res.MonthlyByCategory)),
		MonthlyGrandTotal:               make([]rollup.MonthTotal, len(res.MonthlyGrandTotal)),
	}

	for i, row := range res.DailyByCategory {
		row.Total = a.round(row.Total)
		out.DailyByCategory[i] = row
	}
	for i, row := range res.DailyGrandTotal {
		row.Total = a.round(row.Total)
		out.DailyGrandTotal[i] = row
	}
	for i, row := range res.DailyBySubcategoryAndCategory {
		row.Total = a.round(row.Total)
		out.DailyBySubcategoryAndCategory[i] = row
	}
	for day, subs := range res.WeightedDailyBySubcategory {
		rounded := make(map[string]decimal.Decimal, len(subs))
		for sub, v := range subs {
			rounded[sub] = a.round(v)
		}
		out.WeightedDailyBySubcategory[day] = rounded
	}
	for i, row := range res.MonthlyBySubcategoryAndCategory {
		row.Total = a.round(row.Total)
		out.MonthlyBySubcategoryAndCategory[i] = row
	}
	for i, row := range res.MonthlyByCategory {
		row.Total = a.round(row.Total)
		out.MonthlyByCategory[i] = row
	}
	for i, row := range res.MonthlyGrandTotal {
		row.Total = a.round(row.Total)
		out.MonthlyGrandTotal[i] = row
	}

	return out
}
