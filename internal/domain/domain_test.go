package domain

import (
	"factory-metrics/internal/config"
	"factory-metrics/internal/service/ratio"
	"factory-metrics/internal/service/rollup"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

var testCalCfg = config.Calendar{TimezoneName: "Asia/Jakarta", TimezoneOffset: 7 * time.Hour}

func TestLoad_Defaults(t *testing.T) {
	d, err := Load(testCalCfg, config.Domain{})
	require.NoError(t, err)

	assert.Equal(t, []string{"cutting", "inspection", "packing", "sewing"}, d.KindNames())
	assert.Equal(t, []string{"efficiency", "utilization"}, d.VariantNames())

	sewing := d.Kinds["sewing"]
	assert.Equal(t, "sewing_output", sewing.Table.Name)
	// вспомогательные колонки грузятся, но в сумму не входят
	assert.Contains(t, sewing.Table.Columns, "rework")
	assert.NotContains(t, sewing.Rollup.Fields, "rework")
	assert.Equal(t, "0.4", sewing.Rollup.Weights.WeightOf("blower").String())

	eff := d.Variants["efficiency"]
	assert.Equal(t, "sewing", eff.Variant.ActualKind)
	assert.Equal(t, []string{"blower", "duffel", "panel"}, eff.Table.Targets)
	assert.Equal(t, "720", d.Constants.DailyMinutes.String())

	assert.Equal(t, "Asia/Jakarta", d.Calendar.Name())
}

// поставляемый config/local.yaml описывает все виды отчётов дашборда
func TestLoad_ShippedConfig(t *testing.T) {
	cfg, err := config.Load("../../config/local.yaml")
	require.NoError(t, err)

	d, err := Load(cfg.Calendar, cfg.Domain)
	require.NoError(t, err)

	defaults, err := Load(testCalCfg, config.Domain{})
	require.NoError(t, err)

	assert.Equal(t, defaults.KindNames(), d.KindNames())
	assert.Equal(t, defaults.VariantNames(), d.VariantNames())
	assert.Equal(t, "cutting_output", d.Kinds["cutting"].Table.Name)
}

func TestLoad_Custom(t *testing.T) {
	d, err := Load(testCalCfg, config.Domain{
		DailyMinutes: "480",
		OTRatio:      "240",
		Kinds: map[string]config.Kind{
			"sewing": {Table: "sew", Categories: []string{"a"}, Fields: []string{"x"}, Weights: map[string]string{"a": "1/2"}},
		},
		Variants: map[string]config.Variant{
			"eff": {Table: "eff_in", Targets: map[string]string{"a": "1"}, ActualKind: "sewing"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"sewing"}, d.KindNames())
	assert.Equal(t, "480", d.Constants.DailyMinutes.String())
	assert.Equal(t, "0.5", d.Kinds["sewing"].Rollup.Weights.WeightOf("a").String())
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]struct {
		cfg  config.Domain
		want error
	}{
		"kind without fields": {
			cfg:  config.Domain{Kinds: map[string]config.Kind{"sewing": {Table: "sew"}}},
			want: ErrInvalidDomain,
		},
		"bad weight": {
			cfg:  config.Domain{Kinds: map[string]config.Kind{"sewing": {Table: "sew", Fields: []string{"x"}, Weights: map[string]string{"a": "1/0"}}}},
			want: rollup.ErrInvalidWeight,
		},
		"unknown actual kind": {
			cfg: config.Domain{Variants: map[string]config.Variant{
				"eff": {Table: "eff_in", Targets: map[string]string{"a": "1"}, ActualKind: "nope"},
			}},
			want: ErrInvalidDomain,
		},
		"targets not summing to one": {
			cfg: config.Domain{Variants: map[string]config.Variant{
				"eff": {Table: "eff_in", Targets: map[string]string{"a": "0.6"}},
			}},
			want: ratio.ErrInvalidTargets,
		},
		"zero ot ratio": {
			cfg:  config.Domain{OTRatio: "0"},
			want: ratio.ErrInvalidConstant,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(testCalCfg, tc.cfg)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}
