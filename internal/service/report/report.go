package report

import (
	"context"
	"errors"
	"factory-metrics/internal/cache"
	"factory-metrics/internal/calendar"
	"factory-metrics/internal/domain"
	"factory-metrics/internal/service/ratio"
	"factory-metrics/internal/service/rollup"
	"factory-metrics/internal/storage"
	"fmt"
	"github.com/shopspring/decimal"
	"time"
)

var (
	ErrUnknownKind   = errors.New("unknown report kind")
	ErrRangeTooLarge = errors.New("range too large")
)

type ObservationStore interface {
	FetchRange(ctx context.Context, table storage.ObservationTable, start, end time.Time) ([]storage.Observation, error)
}

type RatioStore interface {
	FetchRatioDays(ctx context.Context, table storage.RatioTable, start, end time.Time) ([]storage.RatioDayRecord, error)
}

type Store interface {
	ObservationStore
	RatioStore
}

// Recorder метрики построения отчётов
type Recorder interface {
	ReportBuilt(kind string, duration time.Duration, empty bool, err error)
}

type Options struct {
	// MaxRangeDays 0 без ограничения
	MaxRangeDays int
	// DecimalPlaces округление при выдаче, отрицательное значение отключает
	DecimalPlaces int32
}

type Assembler struct {
	dom     *domain.Domain
	store   Store
	opts    Options
	rec     Recorder
	rollups map[string]*rollup.Engine
	ratios  map[string]*ratio.Engine

	rollupCache *cache.Cache[*RollupReport]
	ratioCache  *cache.Cache[*RatioReport]
}

func NewAssembler(dom *domain.Domain, store Store, opts Options) *Assembler {
	a := &Assembler{
		dom:     dom,
		store:   store,
		opts:    opts,
		rollups: make(map[string]*rollup.Engine, len(dom.Kinds)),
		ratios:  make(map[string]*ratio.Engine, len(dom.Variants)),
	}

	for name, k := range dom.Kinds {
		a.rollups[name] = rollup.New(dom.Calendar, k.Rollup)
	}
	for name, v := range dom.Variants {
		a.ratios[name] = ratio.New(dom.Calendar, dom.Constants, v.Variant)
	}

	return a
}

// WithRecorder подключает метрики
func (a *Assembler) WithRecorder(rec Recorder) *Assembler {
	a.rec = rec
	return a
}

// WithCache кэширует готовые отчёты по (вид, from, to)
func (a *Assembler) WithCache(ttl time.Duration, obs cache.Observer) *Assembler {
	a.rollupCache = cache.New[*RollupReport](ttl, obs)
	a.ratioCache = cache.New[*RatioReport](ttl, obs)
	return a
}

// PurgeCache чистит просроченные отчёты
func (a *Assembler) PurgeCache() int {
	return a.rollupCache.Purge() + a.ratioCache.Purge()
}

func (a *Assembler) Calendar() calendar.Calendar {
	return a.dom.Calendar
}

// CheckRange валидирует диапазон и ограничение на его длину.
func (a *Assembler) CheckRange(r calendar.Range) error {
	const op = "service.report.CheckRange"

	days, err := a.dom.Calendar.Days(r)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if a.opts.MaxRangeDays > 0 && days > a.opts.MaxRangeDays {
		return fmt.Errorf("%s: %w: %d дней, максимум %d", op, ErrRangeTooLarge, days, a.opts.MaxRangeDays)
	}
	return nil
}

func (a *Assembler) record(kind string, start time.Time, empty bool, err error) {
	if a.rec != nil {
		a.rec.ReportBuilt(kind, time.Since(start), empty, err)
	}
}

// percent 100 * actual / rated, при rated <= 0 ноль
func percent(actual, rated decimal.Decimal) decimal.Decimal {
	if !rated.IsPositive() {
		return decimal.Zero
	}
	return actual.Mul(decimal.NewFromInt(100)).DivRound(rated, 16)
}

func (a *Assembler) round(d decimal.Decimal) decimal.Decimal {
	if a.opts.DecimalPlaces < 0 {
		return d
	}
	return d.Round(a.opts.DecimalPlaces)
}
