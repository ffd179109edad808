package domain

import (
	"errors"
	"factory-metrics/internal/calendar"
	"factory-metrics/internal/config"
	"factory-metrics/internal/constants"
	"factory-metrics/internal/service/ratio"
	"factory-metrics/internal/service/rollup"
	"factory-metrics/internal/storage"
	"fmt"
	"sort"
)

var ErrInvalidDomain = errors.New("invalid domain config")

// RecordKind вид записей выработки вместе с таблицей хранилища
type RecordKind struct {
	Rollup rollup.Kind
	Table  storage.ObservationTable
}

type RatioVariant struct {
	Variant ratio.Variant
	Table   storage.RatioTable
}

// Domain неизменяемая конфигурация движка, собирается один раз при старте.
type Domain struct {
	Calendar  calendar.Calendar
	Constants ratio.Constants
	Kinds     map[string]RecordKind
	Variants  map[string]RatioVariant
}

func Load(cal config.Calendar, cfg config.Domain) (*Domain, error) {
	const op = "domain.Load"

	cfg = withDefaults(cfg)

	consts, err := ratio.NewConstants(cfg.DailyMinutes, cfg.OTRatio)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	d := &Domain{
		Calendar:  calendar.New(cal.TimezoneName, cal.TimezoneOffset),
		Constants: consts,
		Kinds:     make(map[string]RecordKind, len(cfg.Kinds)),
		Variants:  make(map[string]RatioVariant, len(cfg.Variants)),
	}

	for name, k := range cfg.Kinds {
		if k.Table == "" || len(k.Fields) == 0 {
			return nil, fmt.Errorf("%s: %w: вид %q без таблицы или полей", op, ErrInvalidDomain, name)
		}

		weights, err := rollup.NewWeights(k.Weights)
		if err != nil {
			return nil, fmt.Errorf("%s: вид %q: %w", op, name, err)
		}

		d.Kinds[name] = RecordKind{
			Rollup: rollup.Kind{
				Name:          name,
				Categories:    k.Categories,
				Subcategories: k.Subcategories,
				Fields:        k.Fields,
				Weights:       weights,
			},
			Table: storage.ObservationTable{
				Name:    k.Table,
				Columns: append(append([]string{}, k.Fields...), k.Auxiliary...),
			},
		}
	}

	for name, v := range cfg.Variants {
		if v.Table == "" {
			return nil, fmt.Errorf("%s: %w: вариант %q без таблицы", op, ErrInvalidDomain, name)
		}
		if v.ActualKind != "" {
			if _, ok := d.Kinds[v.ActualKind]; !ok {
				return nil, fmt.Errorf("%s: %w: вариант %q ссылается на неизвестный вид %q", op, ErrInvalidDomain, name, v.ActualKind)
			}
		}

		variant, err := ratio.NewVariant(name, v.Targets, v.ActualKind)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		d.Variants[name] = RatioVariant{
			Variant: variant,
			Table:   storage.RatioTable{Name: v.Table, Targets: variant.TargetNames()},
		}
	}

	return d, nil
}

func (d *Domain) KindNames() []string {
	names := make([]string, 0, len(d.Kinds))
	for name := range d.Kinds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (d *Domain) VariantNames() []string {
	names := make([]string, 0, len(d.Variants))
	for name := range d.Variants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func withDefaults(cfg config.Domain) config.Domain {
	if cfg.DailyMinutes == "" {
		cfg.DailyMinutes = constants.DailyMinutes
	}
	if cfg.OTRatio == "" {
		cfg.OTRatio = constants.OTRatio
	}

	if len(cfg.Kinds) == 0 {
		cfg.Kinds = map[string]config.Kind{
			constants.KindSewing: {
				Table:         "sewing_output",
				Categories:    constants.ProductCategories,
				Subcategories: constants.SewingLines,
				Fields:        constants.SewingFields,
				Auxiliary:     constants.SewingAuxiliary,
				Weights:       constants.ProductWeights,
			},
			constants.KindInspection: {
				Table:      "inspection_output",
				Categories: constants.InspectionCategories,
				Fields:     constants.InspectionFields,
			},
			constants.KindPacking: {
				Table:      "packing_output",
				Categories: constants.ProductCategories,
				Fields:     constants.PackingFields,
				Auxiliary:  constants.PackingAuxiliary,
				Weights:    constants.ProductWeights,
			},
			constants.KindCutting: {
				Table:         "cutting_output",
				Categories:    constants.ProductCategories,
				Subcategories: constants.CuttingMachines,
				Fields:        constants.CuttingFields,
				Weights:       constants.ProductWeights,
			},
		}
	}

	if len(cfg.Variants) == 0 {
		cfg.Variants = map[string]config.Variant{
			constants.VariantEfficiency: {
				Table:      "efficiency_inputs",
				Targets:    constants.EfficiencyTargets,
				ActualKind: constants.KindSewing,
			},
			constants.VariantUtilization: {
				Table:   "utilization_inputs",
				Targets: constants.UtilizationTargets,
			},
		}
	}

	return cfg
}
