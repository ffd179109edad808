package report

import (
	"context"
	"factory-metrics/internal/cache"
	"factory-metrics/internal/calendar"
	"factory-metrics/internal/service/ratio"
	"factory-metrics/internal/service/rollup"
	"fmt"
	"github.com/shopspring/decimal"
	"sort"
	"time"
)

type RatioDay struct {
	Day string `json:"day"`
	ratio.Values
	ActualOutput   decimal.Decimal `json:"actual_output"`
	EfficiencyPct  decimal.Decimal `json:"efficiency_pct"`
	UtilizationPct decimal.Decimal `json:"utilization_pct"`
}

type RatioMonth struct {
	Month string `json:"month"`
	ratio.Values
	ActualOutput   decimal.Decimal `json:"actual_output"`
	EfficiencyPct  decimal.Decimal `json:"efficiency_pct"`
	UtilizationPct decimal.Decimal `json:"utilization_pct"`
}

type RatioReport struct {
	Variant    string         `json:"variant"`
	ActualKind string         `json:"actual_kind,omitempty"`
	Range      calendar.Range `json:"range"`
	NoData     bool           `json:"no_data"`
	Daily      []RatioDay     `json:"daily"`
	Monthly    []RatioMonth   `json:"monthly"`
}

// Ratio отчёт эффективности/загрузки. Фактическая выработка берётся из итогов
// вида ActualKind за те же дни, если он задан.
func (a *Assembler) Ratio(ctx context.Context, variant string, r calendar.Range) (*RatioReport, error) {
	const op = "service.report.Ratio"

	engine, ok := a.ratios[variant]
	if !ok {
		return nil, fmt.Errorf("%s: %w: %q", op, ErrUnknownKind, variant)
	}
	if err := a.CheckRange(r); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	key := cache.ReportKey(variant, r)
	if cached, ok := a.ratioCache.Get(variant, key); ok {
		return cached, nil
	}

	start := time.Now()
	report, err := a.buildRatio(ctx, engine, variant, r)
	a.record(variant, start, report != nil && report.NoData, err)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	a.ratioCache.Set(key, report)
	return report, nil
}

func (a *Assembler) buildRatio(ctx context.Context, engine *ratio.Engine, variant string, r calendar.Range) (*RatioReport, error) {
	v := a.dom.Variants[variant]

	start, end, err := a.dom.Calendar.BoundsUTC(r)
	if err != nil {
		return nil, err
	}

	records, err := a.store.FetchRatioDays(ctx, v.Table, start, end)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", variant, err)
	}

	daily, err := engine.Daily(records, r)
	if err != nil {
		return nil, err
	}
	monthly := ratio.Monthly(daily)

	var actual rollup.Result
	if v.Variant.ActualKind != "" {
		actual, err = a.rollupResult(ctx, v.Variant.ActualKind, r)
		if err != nil {
			return nil, err
		}
	}

	report := &RatioReport{
		Variant:    variant,
		ActualKind: v.Variant.ActualKind,
		Range:      r,
		NoData:     len(daily) == 0 && len(actual.DailyGrandTotal) == 0,
		Daily:      a.joinDays(daily, actual.DailyGrandTotal),
		Monthly:    a.joinMonths(monthly, actual.MonthlyGrandTotal),
	}

	return report, nil
}

// joinDays объединяет расчётные и фактические значения по ключу дня
func (a *Assembler) joinDays(daily []ratio.DayResult, actual []rollup.DayTotal) []RatioDay {
	values := make(map[string]ratio.Values, len(daily))
	for _, d := range daily {
		values[d.Day] = d.Values
	}
	actuals := make(map[string]decimal.Decimal, len(actual))
	for _, d := range actual {
		actuals[d.Day] = d.Total
	}

	out := make([]RatioDay, 0, len(values))
	for _, day := range unionKeys(values, actuals) {
		v := values[day]
		out = append(out, RatioDay{
			Day:            day,
			Values:         a.roundValues(v),
			ActualOutput:   a.round(actuals[day]),
			EfficiencyPct:  a.round(percent(actuals[day], v.RatedOutput)),
			UtilizationPct: a.round(percent(v.OperatingTimeMinutes, v.RatedOperatingTimeMinutes)),
		})
	}
	return out
}

func (a *Assembler) joinMonths(monthly []ratio.MonthResult, actual []rollup.MonthTotal) []RatioMonth {
	values := make(map[string]ratio.Values, len(monthly))
	for _, m := range monthly {
		values[m.Month] = m.Values
	}
	actuals := make(map[string]decimal.Decimal, len(actual))
	for _, m := range actual {
		actuals[m.Month] = m.Total
	}

	out := make([]RatioMonth, 0, len(values))
	for _, month := range unionKeys(values, actuals) {
		v := values[month]
		out = append(out, RatioMonth{
			Month:          month,
			Values:         a.roundValues(v),
			ActualOutput:   a.round(actuals[month]),
			EfficiencyPct:  a.round(percent(actuals[month], v.RatedOutput)),
			UtilizationPct: a.round(percent(v.OperatingTimeMinutes, v.RatedOperatingTimeMinutes)),
		})
	}
	return out
}

func (a *Assembler) roundValues(v ratio.Values) ratio.Values {
	return ratio.Values{
		RatedOutput:               a.round(v.RatedOutput),
		OperatingTimeMinutes:      a.round(v.OperatingTimeMinutes),
		RatedOperatingTimeMinutes: a.round(v.RatedOperatingTimeMinutes),
	}
}

func unionKeys(values map[string]ratio.Values, actuals map[string]decimal.Decimal) []string {
	keys := make([]string, 0, len(values)+len(actuals))
	for k := range values {
		keys = append(keys, k)
	}
	for k := range actuals {
		if _, ok := values[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
