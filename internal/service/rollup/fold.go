package rollup

import (
	"factory-metrics/internal/calendar"
	"factory-metrics/internal/storage"
	"github.com/shopspring/decimal"
	"sort"
)

// Месячные итоги получаются только сложением дневных строк, отдельного пути от сырых записей нет.

func (e *Engine) FoldByCategory(daily []CategoryTotal) []MonthCategoryTotal {
	b := make(buckets)
	for _, d := range daily {
		k := key{period: calendar.MonthOfDay(d.Day), cat: d.Category}
		b[k] = b[k].Add(d.Total)
	}

	out := make([]MonthCategoryTotal, 0, len(b))
	for _, k := range e.sortedKeys(b) {
		out = append(out, MonthCategoryTotal{Month: k.period, Category: k.cat, Total: b[k]})
	}
	return out
}

func (e *Engine) FoldBySubcategoryAndCategory(daily []SubcategoryCategoryTotal) []MonthSubcategoryCategoryTotal {
	b := make(buckets)
	for _, d := range daily {
		k := key{period: calendar.MonthOfDay(d.Day), sub: d.Subcategory, cat: d.Category}
		b[k] = b[k].Add(d.Total)
	}

	out := make([]MonthSubcategoryCategoryTotal, 0, len(b))
	for _, k := range e.sortedKeys(b) {
		out = append(out, MonthSubcategoryCategoryTotal{Month: k.period, Subcategory: k.sub, Category: k.cat, Total: b[k]})
	}
	return out
}

// GrandTotalOf итог по всем категориям за каждый день
func GrandTotalOf(daily []CategoryTotal) []DayTotal {
	sums := make(map[string]decimal.Decimal)
	for _, d := range daily {
		sums[d.Day] = sums[d.Day].Add(d.Total)
	}

	out := make([]DayTotal, 0, len(sums))
	for day, total := range sums {
		out = append(out, DayTotal{Day: day, Total: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out
}

func FoldGrandTotal(daily []DayTotal) []MonthTotal {
	sums := make(map[string]decimal.Decimal)
	for _, d := range daily {
		month := calendar.MonthOfDay(d.Day)
		sums[month] = sums[month].Add(d.Total)
	}

	out := make([]MonthTotal, 0, len(sums))
	for month, total := range sums {
		out = append(out, MonthTotal{Month: month, Total: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// Result все свёртки одного вида за диапазон, посчитанные из одного набора записей.
type Result struct {
	DailyByCategory                 []CategoryTotal                 `json:"daily_by_category"`
	DailyGrandTotal                 []DayTotal                      `json:"daily_grand_total"`
	DailyBySubcategoryAndCategory   []SubcategoryCategoryTotal      `json:"daily_by_subcategory_and_category"`
	WeightedDailyBySubcategory      WeightedDays                    `json:"weighted_daily_by_subcategory"`
	MonthlyBySubcategoryAndCategory []MonthSubcategoryCategoryTotal `json:"monthly_by_subcategory_and_category"`
	MonthlyByCategory               []MonthCategoryTotal            `json:"monthly_by_category"`
	MonthlyGrandTotal               []MonthTotal                    `json:"monthly_grand_total"`
}

func (e *Engine) Compute(obs []storage.Observation, r calendar.Range) (Result, error) {
	byCategory, err := e.DailyByCategory(obs, r)
	if err != nil {
		return Result{}, err
	}
	bySubCat, err := e.DailyBySubcategoryAndCategory(obs, r)
	if err != nil {
		return Result{}, err
	}
	weighted, err := e.WeightedDailyBySubcategory(obs, r)
	if err != nil {
		return Result{}, err
	}

	grand := GrandTotalOf(byCategory)

	return Result{
		DailyByCategory:                 byCategory,
		DailyGrandTotal:                 grand,
		DailyBySubcategoryAndCategory:   bySubCat,
		WeightedDailyBySubcategory:      weighted,
		MonthlyBySubcategoryAndCategory: e.FoldBySubcategoryAndCategory(bySubCat),
		MonthlyByCategory:               e.FoldByCategory(byCategory),
		MonthlyGrandTotal:               FoldGrandTotal(grand),
	}, nil
}
