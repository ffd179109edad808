package rollup

import (
	"factory-metrics/internal/calendar"
	"factory-metrics/internal/storage"
	"fmt"
	"github.com/shopspring/decimal"
	"sort"
)

// Kind настройки одного вида записей: какие поля суммируются и в каком порядке выводятся категории.
type Kind struct {
	Name          string
	Categories    []string
	Subcategories []string
	// Fields только эти поля входят в итог строки, остальные (брак, коробки) игнорируются
	Fields  []string
	Weights Weights
}

type Engine struct {
	cal     calendar.Calendar
	kind    Kind
	catRank map[string]int
	subRank map[string]int
}

func New(cal calendar.Calendar, kind Kind) *Engine {
	return &Engine{
		cal:     cal,
		kind:    kind,
		catRank: rank(kind.Categories),
		subRank: rank(kind.Subcategories),
	}
}

type CategoryTotal struct {
	Day      string          `json:"day"`
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

type DayTotal struct {
	Day   string          `json:"day"`
	Total decimal.Decimal `json:"total"`
}

type SubcategoryCategoryTotal struct {
	Day         string          `json:"day"`
	Subcategory string          `json:"subcategory"`
	Category    string          `json:"category"`
	Total       decimal.Decimal `json:"total"`
}

type MonthCategoryTotal struct {
	Month    string          `json:"month"`
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

type MonthSubcategoryCategoryTotal struct {
	Month       string          `json:"month"`
	Subcategory string          `json:"subcategory"`
	Category    string          `json:"category"`
	Total       decimal.Decimal `json:"total"`
}

type MonthTotal struct {
	Month string          `json:"month"`
	Total decimal.Decimal `json:"total"`
}

// WeightedDays день -> подкатегория -> взвешенный итог
type WeightedDays map[string]map[string]decimal.Decimal

// RowTotal сумма объявленных полей строки. Пустое значение считается нулём только здесь.
func (e *Engine) RowTotal(o storage.Observation) decimal.Decimal {
	total := decimal.Zero
	for _, f := range e.kind.Fields {
		if v, ok := o.Fields[f]; ok && v.Valid {
			total = total.Add(v.Decimal)
		}
	}
	return total
}

func (e *Engine) DailyByCategory(obs []storage.Observation, r calendar.Range) ([]CategoryTotal, error) {
	const op = "service.rollup.DailyByCategory"

	b, err := e.accumulate(obs, r, func(o storage.Observation, day string) (key, decimal.Decimal) {
		return key{period: day, cat: o.Category}, e.RowTotal(o)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]CategoryTotal, 0, len(b))
	for _, k := range e.sortedKeys(b) {
		out = append(out, CategoryTotal{Day: k.period, Category: k.cat, Total: b[k]})
	}
	return out, nil
}

// DailyGrandTotal складывается из DailyByCategory, поэтому совпадает с суммой категорий за день.
func (e *Engine) DailyGrandTotal(obs []storage.Observation, r calendar.Range) ([]DayTotal, error) {
	daily, err := e.DailyByCategory(obs, r)
	if err != nil {
		return nil, err
	}
	return GrandTotalOf(daily), nil
}

func (e *Engine) DailyBySubcategoryAndCategory(obs []storage.Observation, r calendar.Range) ([]SubcategoryCategoryTotal, error) {
	const op = "service.rollup.DailyBySubcategoryAndCategory"

	b, err := e.accumulate(obs, r, func(o storage.Observation, day string) (key, decimal.Decimal) {
		return key{period: day, sub: o.Subcategory, cat: o.Category}, e.RowTotal(o)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]SubcategoryCategoryTotal, 0, len(b))
	for _, k := range e.sortedKeys(b) {
		out = append(out, SubcategoryCategoryTotal{Day: k.period, Subcategory: k.sub, Category: k.cat, Total: b[k]})
	}
	return out, nil
}

// WeightedDailyBySubcategory итог строки умножается на вес её категории до сложения в подкатегорию.
func (e *Engine) WeightedDailyBySubcategory(obs []storage.Observation, r calendar.Range) (WeightedDays, error) {
	const op = "service.rollup.WeightedDailyBySubcategory"

	b, err := e.accumulate(obs, r, func(o storage.Observation, day string) (key, decimal.Decimal) {
		return key{period: day, sub: o.Subcategory}, e.RowTotal(o).Mul(e.kind.Weights.WeightOf(o.Category))
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make(WeightedDays)
	for k, v := range b {
		subs, ok := out[k.period]
		if !ok {
			subs = make(map[string]decimal.Decimal)
			out[k.period] = subs
		}
		subs[k.sub] = v
	}
	return out, nil
}

func (e *Engine) MonthlyByCategory(obs []storage.Observation, r calendar.Range) ([]MonthCategoryTotal, error) {
	daily, err := e.DailyByCategory(obs, r)
	if err != nil {
		return nil, err
	}
	return e.FoldByCategory(daily), nil
}

func (e *Engine) MonthlyBySubcategoryAndCategory(obs []storage.Observation, r calendar.Range) ([]MonthSubcategoryCategoryTotal, error) {
	daily, err := e.DailyBySubcategoryAndCategory(obs, r)
	if err != nil {
		return nil, err
	}
	return e.FoldBySubcategoryAndCategory(daily), nil
}

func (e *Engine) MonthlyGrandTotal(obs []storage.Observation, r calendar.Range) ([]MonthTotal, error) {
	daily, err := e.DailyGrandTotal(obs, r)
	if err != nil {
		return nil, err
	}
	return FoldGrandTotal(daily), nil
}

type key struct {
	period string
	sub    string
	cat    string
}

type buckets map[key]decimal.Decimal

func (e *Engine) accumulate(obs []storage.Observation, r calendar.Range, keyOf func(storage.Observation, string) (key, decimal.Decimal)) (buckets, error) {
	if err := e.cal.Validate(r); err != nil {
		return nil, err
	}

	b := make(buckets)
	for _, o := range obs {
		day := e.cal.DayKey(o.Instant)
		if !r.Contains(day) {
			continue
		}
		k, v := keyOf(o, day)
		b[k] = b[k].Add(v)
	}
	return b, nil
}

func (e *Engine) sortedKeys(b buckets) []key {
	keys := make([]key, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return e.less(keys[i], keys[j])
	})
	return keys
}

// порядок: период, затем подкатегория и категория по справочнику; неизвестные в конце по алфавиту
func (e *Engine) less(a, b key) bool {
	if a.period != b.period {
		return a.period < b.period
	}
	if a.sub != b.sub {
		return rankLess(e.subRank, a.sub, b.sub)
	}
	return rankLess(e.catRank, a.cat, b.cat)
}

func rank(values []string) map[string]int {
	m := make(map[string]int, len(values))
	for i, v := range values {
		if _, dup := m[v]; !dup {
			m[v] = i
		}
	}
	return m
}

func rankLess(ranks map[string]int, a, b string) bool {
	ra, okA := ranks[a]
	rb, okB := ranks[b]
	switch {
	case okA && okB:
		return ra < rb
	case okA:
		return true
	case okB:
		return false
	default:
		return a < b
	}
}
