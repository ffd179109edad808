package report

import (
	"context"
	"factory-metrics/internal/calendar"
	"fmt"
	"golang.org/x/sync/errgroup"
)

type Dashboard struct {
	Range   calendar.Range           `json:"range"`
	NoData  bool                     `json:"no_data"`
	Rollups map[string]*RollupReport `json:"rollups"`
	Ratios  map[string]*RatioReport  `json:"ratios"`
}

// Dashboard собирает все виды и варианты за один диапазон параллельно.
// Ошибка любого из отчётов отменяет остальные.
func (a *Assembler) Dashboard(ctx context.Context, r calendar.Range) (*Dashboard, error) {
	const op = "service.report.Dashboard"

	if err := a.CheckRange(r); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	kinds := a.dom.KindNames()
	variants := a.dom.VariantNames()

	rollups := make([]*RollupReport, len(kinds))
	ratios := make([]*RatioReport, len(variants))

	g, gctx := errgroup.WithContext(ctx)

	for i, kind := range kinds {
		g.Go(func() error {
			rep, err := a.Rollup(gctx, kind, r)
			if err != nil {
				return err
			}
			rollups[i] = rep
			return nil
		})
	}
	for i, variant := range variants {
		g.Go(func() error {
			rep, err := a.Ratio(gctx, variant, r)
			if err != nil {
				return err
			}
			ratios[i] = rep
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	d := &Dashboard{
		Range:   r,
		NoData:  true,
		Rollups: make(map[string]*RollupReport, len(kinds)),
		Ratios:  make(map[string]*RatioReport, len(variants)),
	}
	for i, kind := range kinds {
		d.Rollups[kind] = rollups[i]
		d.NoData = d.NoData && rollups[i].NoData
	}
	for i, variant := range variants {
		d.Ratios[variant] = ratios[i]
		d.NoData = d.NoData && ratios[i].NoData
	}

	return d, nil
}
