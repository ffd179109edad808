package ratio

import (
	"errors"
	"factory-metrics/internal/calendar"
	"factory-metrics/internal/service/rollup"
	"factory-metrics/internal/storage"
	"fmt"
	"github.com/shopspring/decimal"
	"sort"
)

// divisionPrecision знаков при делении на константу сверхурочки
const divisionPrecision = 16

// weightSumPlaces сумма весов сверяется с 1 после округления, чтобы 1/3 + 1/3 + 1/3 проходило
const weightSumPlaces = 10

var (
	ErrInvalidConstant = errors.New("invalid ratio constant")
	ErrInvalidTargets  = errors.New("invalid target weights")
)

// Constants общие для всех вариантов формул
type Constants struct {
	// DailyMinutes минут на рабочего в нормальную смену
	DailyMinutes decimal.Decimal
	// OTRatio минут сверхурочки на один нормальный день выработки
	OTRatio decimal.Decimal
}

func NewConstants(dailyMinutes, otRatio string) (Constants, error) {
	const op = "service.ratio.NewConstants"

	dm, err := decimal.NewFromString(dailyMinutes)
	if err != nil || dm.IsNegative() {
		return Constants{}, fmt.Errorf("%s: %w: daily_minutes=%q", op, ErrInvalidConstant, dailyMinutes)
	}
	ot, err := decimal.NewFromString(otRatio)
	if err != nil || !ot.IsPositive() {
		return Constants{}, fmt.Errorf("%s: %w: ot_ratio=%q", op, ErrInvalidConstant, otRatio)
	}

	return Constants{DailyMinutes: dm, OTRatio: ot}, nil
}

type Target struct {
	Name   string          `json:"name"`
	Weight decimal.Decimal `json:"weight"`
}

// Variant набор целей с весами; веса в [0,1] (десятичные или дроби "1/3") и в сумме дают 1.
type Variant struct {
	Name       string
	Targets    []Target
	ActualKind string
}

func NewVariant(name string, weights map[string]string, actualKind string) (Variant, error) {
	const op = "service.ratio.NewVariant"

	if len(weights) == 0 {
		return Variant{}, fmt.Errorf("%s: %s: %w: нет целей", op, name, ErrInvalidTargets)
	}

	one := decimal.NewFromInt(1)
	sum := decimal.Zero
	targets := make([]Target, 0, len(weights))

	for target, raw := range weights {
		w, err := rollup.ParseRational(raw)
		if err != nil || w.GreaterThan(one) {
			return Variant{}, fmt.Errorf("%s: %s: %w: %s=%q", op, name, ErrInvalidTargets, target, raw)
		}
		sum = sum.Add(w)
		targets = append(targets, Target{Name: target, Weight: w})
	}

	if !sum.Round(weightSumPlaces).Equal(one) {
		return Variant{}, fmt.Errorf("%s: %s: %w: сумма весов %s", op, name, ErrInvalidTargets, sum)
	}

	sort.Slice(targets, func(i, j int) bool { return targets[i].Name < targets[j].Name })

	return Variant{Name: name, Targets: targets, ActualKind: actualKind}, nil
}

func (v Variant) TargetNames() []string {
	names := make([]string, len(v.Targets))
	for i, t := range v.Targets {
		names[i] = t.Name
	}
	return names
}

type Values struct {
	RatedOutput               decimal.Decimal `json:"rated_output"`
	OperatingTimeMinutes      decimal.Decimal `json:"operating_time_minutes"`
	RatedOperatingTimeMinutes decimal.Decimal `json:"rated_operating_time_minutes"`
}

func (v Values) add(o Values) Values {
	return Values{
		RatedOutput:               v.RatedOutput.Add(o.RatedOutput),
		OperatingTimeMinutes:      v.OperatingTimeMinutes.Add(o.OperatingTimeMinutes),
		RatedOperatingTimeMinutes: v.RatedOperatingTimeMinutes.Add(o.RatedOperatingTimeMinutes),
	}
}

type DayResult struct {
	Day string `json:"day"`
	Values
}

type MonthResult struct {
	Month string `json:"month"`
	Values
}

type Engine struct {
	cal     calendar.Calendar
	consts  Constants
	variant Variant
}

func New(cal calendar.Calendar, consts Constants, variant Variant) *Engine {
	return &Engine{cal: cal, consts: consts, variant: variant}
}

// Evaluate формулы для одной записи. Пустые входы равны нулю, деления на данные записи нет.
func (e *Engine) Evaluate(rec storage.RatioDayRecord) Values {
	nw := orZero(rec.NormalWorkers)
	nm := orZero(rec.NormalMinutes)
	otw := orZero(rec.OTWorkers)
	otm := orZero(rec.OTMinutes)

	targetWeighted := decimal.Zero
	for _, t := range e.variant.Targets {
		targetWeighted = targetWeighted.Add(orZero(rec.Targets[t.Name]).Mul(t.Weight))
	}

	otOutput := otw.Mul(targetWeighted).Mul(otm).DivRound(e.consts.OTRatio, divisionPrecision)

	return Values{
		RatedOutput:               nw.Mul(targetWeighted).Add(otOutput),
		OperatingTimeMinutes:      nw.Mul(nm).Add(otw.Mul(otm)),
		RatedOperatingTimeMinutes: nw.Mul(e.consts.DailyMinutes),
	}
}

// Daily результаты по дням; несколько записей за один день складываются.
func (e *Engine) Daily(records []storage.RatioDayRecord, r calendar.Range) ([]DayResult, error) {
	const op = "service.ratio.Daily"

	if err := e.cal.Validate(r); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	days := make(map[string]Values)
	for _, rec := range records {
		day := e.cal.DayKey(rec.Instant)
		if !r.Contains(day) {
			continue
		}
		days[day] = days[day].add(e.Evaluate(rec))
	}

	out := make([]DayResult, 0, len(days))
	for day, v := range days {
		out = append(out, DayResult{Day: day, Values: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })

	return out, nil
}

// Monthly сумма дневных результатов по месяцам
func Monthly(daily []DayResult) []MonthResult {
	months := make(map[string]Values)
	for _, d := range daily {
		m := calendar.MonthOfDay(d.Day)
		months[m] = months[m].add(d.Values)
	}

	out := make([]MonthResult, 0, len(months))
	for m, v := range months {
		out = append(out, MonthResult{Month: m, Values: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })

	return out
}

func orZero(v decimal.NullDecimal) decimal.Decimal {
	if !v.Valid {
		return decimal.Zero
	}
	return v.Decimal
}
