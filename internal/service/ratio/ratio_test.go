package ratio

import (
	"factory-metrics/internal/calendar"
	"factory-metrics/internal/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

var testCal = calendar.New("Asia/Jakarta", 7*time.Hour)

func num(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func at(day string, hour int) time.Time {
	d, err := time.ParseInLocation(calendar.DayLayout, day, testCal.Location())
	if err != nil {
		panic(err)
	}
	return d.Add(time.Duration(hour) * time.Hour).UTC()
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), append([]interface{}{"want %s, got %s", want, got.String()}, msgAndArgs...)...)
}

func newEngine(t *testing.T, targets map[string]string) *Engine {
	consts, err := NewConstants("720", "720")
	require.NoError(t, err)
	variant, err := NewVariant("efficiency", targets, "sewing")
	require.NoError(t, err)

	return New(testCal, consts, variant)
}

func TestEvaluate_SingleTarget(t *testing.T) {
	e := newEngine(t, map[string]string{"panel": "1"})

	got := e.Evaluate(storage.RatioDayRecord{
		NormalWorkers: num("2"),
		NormalMinutes: num("480"),
		OTWorkers:     num("1"),
		OTMinutes:     num("120"),
		Targets:       map[string]decimal.NullDecimal{"panel": num("100")},
	})

	assertDecimal(t, "1080", got.OperatingTimeMinutes)
	assertDecimal(t, "1440", got.RatedOperatingTimeMinutes)
	// 2*100 + 1*100*(120/720)
	assertDecimal(t, "216.667", got.RatedOutput.Round(3))
}

func TestEvaluate_ZeroSafety(t *testing.T) {
	e := newEngine(t, map[string]string{"panel": "1"})

	for name, rec := range map[string]storage.RatioDayRecord{
		"all absent": {},
		"all zero": {
			NormalWorkers: num("0"),
			NormalMinutes: num("0"),
			OTWorkers:     num("0"),
			OTMinutes:     num("0"),
			Targets:       map[string]decimal.NullDecimal{"panel": num("0")},
		},
	} {
		t.Run(name, func(t *testing.T) {
			got := e.Evaluate(rec)
			assert.True(t, got.RatedOutput.IsZero())
			assert.True(t, got.OperatingTimeMinutes.IsZero())
			assert.True(t, got.RatedOperatingTimeMinutes.IsZero())
		})
	}
}

func TestEvaluate_NoOvertime(t *testing.T) {
	e := newEngine(t, map[string]string{"panel": "1"})

	got := e.Evaluate(storage.RatioDayRecord{
		NormalWorkers: num("3"),
		NormalMinutes: num("450.5"),
		Targets:       map[string]decimal.NullDecimal{"panel": num("80")},
	})

	assertDecimal(t, "1351.5", got.OperatingTimeMinutes)
	assertDecimal(t, "2160", got.RatedOperatingTimeMinutes)
	assertDecimal(t, "240", got.RatedOutput)
}

func TestEvaluate_WeightedTargets(t *testing.T) {
	e := newEngine(t, map[string]string{"panel": "0.5", "duffel": "0.3", "blower": "0.2"})

	got := e.Evaluate(storage.RatioDayRecord{
		NormalWorkers: num("4"),
		NormalMinutes: num("480"),
		OTWorkers:     num("2"),
		OTMinutes:     num("360"),
		Targets: map[string]decimal.NullDecimal{
			"panel":  num("100"),
			"duffel": num("50"),
			// blower не записан, считается нулём
		},
	})

	// targetWeighted = 100*0.5 + 50*0.3 = 65
	// 4*65 + 2*65*(360/720) = 260 + 65
	assertDecimal(t, "325", got.RatedOutput)
	assertDecimal(t, "2640", got.OperatingTimeMinutes)
	assertDecimal(t, "2880", got.RatedOperatingTimeMinutes)
}

func TestDailyAndMonthly(t *testing.T) {
	e := newEngine(t, map[string]string{"panel": "1"})

	rec := func(instant time.Time, nw string) storage.RatioDayRecord {
		return storage.RatioDayRecord{
			Instant:       instant,
			NormalWorkers: num(nw),
			NormalMinutes: num("480"),
			Targets:       map[string]decimal.NullDecimal{"panel": num("10")},
		}
	}

	records := []storage.RatioDayRecord{
		rec(at("2024-01-31", 8), "1"),
		rec(at("2024-01-31", 20), "2"),
		rec(at("2024-02-01", 0), "3"),
		rec(at("2024-02-29", 23), "4"),
		// вне диапазона
		rec(at("2024-03-01", 0), "100"),
	}

	daily, err := e.Daily(records, calendar.Range{From: "2024-01-01", To: "2024-02-29"})
	require.NoError(t, err)
	require.Len(t, daily, 3)

	assert.Equal(t, "2024-01-31", daily[0].Day)
	assertDecimal(t, "30", daily[0].RatedOutput)
	assertDecimal(t, "1440", daily[0].OperatingTimeMinutes)
	assertDecimal(t, "2160", daily[0].RatedOperatingTimeMinutes)
	assert.Equal(t, "2024-02-01", daily[1].Day)
	assert.Equal(t, "2024-02-29", daily[2].Day)

	monthly := Monthly(daily)
	require.Len(t, monthly, 2)
	assert.Equal(t, "2024-01", monthly[0].Month)
	assertDecimal(t, "30", monthly[0].RatedOutput)
	assert.Equal(t, "2024-02", monthly[1].Month)
	assertDecimal(t, "70", monthly[1].RatedOutput)
	assertDecimal(t, "3360", monthly[1].OperatingTimeMinutes)
	assertDecimal(t, "5040", monthly[1].RatedOperatingTimeMinutes)
}

func TestDaily_Empty(t *testing.T) {
	e := newEngine(t, map[string]string{"panel": "1"})

	daily, err := e.Daily(nil, calendar.Range{From: "2024-01-01", To: "2024-01-31"})
	require.NoError(t, err)
	assert.NotNil(t, daily)
	assert.Empty(t, daily)
	assert.Empty(t, Monthly(daily))
}

func TestDaily_InvalidRange(t *testing.T) {
	e := newEngine(t, map[string]string{"panel": "1"})

	_, err := e.Daily(nil, calendar.Range{From: "2024/01/01", To: "2024-01-31"})
	assert.ErrorIs(t, err, calendar.ErrInvalidDateKey)
}

func TestNewVariant_Validation(t *testing.T) {
	cases := map[string]map[string]string{
		"empty":         {},
		"sum below one": {"panel": "0.5", "duffel": "0.4"},
		"sum above one": {"panel": "0.7", "duffel": "0.4"},
		"above one":     {"panel": "1.5"},
		"negative":      {"panel": "-0.5", "duffel": "1.5"},
		"not a number":  {"panel": "x"},
	}

	for name, targets := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewVariant("efficiency", targets, "")
			assert.ErrorIs(t, err, ErrInvalidTargets)
		})
	}

	v, err := NewVariant("efficiency", map[string]string{"panel": "0.5", "duffel": "0.3", "blower": "0.2"}, "sewing")
	require.NoError(t, err)
	assert.Equal(t, []string{"blower", "duffel", "panel"}, v.TargetNames())
	assert.Equal(t, "sewing", v.ActualKind)
}

func TestNewVariant_FractionWeights(t *testing.T) {
	v, err := NewVariant("efficiency", map[string]string{"panel": "1/3", "duffel": "1/3", "blower": "1/3"}, "")
	require.NoError(t, err)
	require.Len(t, v.Targets, 3)
	assertDecimal(t, "0.33333333333333333333", v.Targets[0].Weight)

	_, err = NewVariant("efficiency", map[string]string{"panel": "1/2", "duffel": "1/2"}, "")
	assert.NoError(t, err)

	cases := map[string]map[string]string{
		"two thirds only":  {"panel": "1/3", "duffel": "1/3"},
		"zero denominator": {"panel": "1/0"},
		"improper":         {"panel": "3/2"},
	}
	for name, targets := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewVariant("efficiency", targets, "")
			assert.ErrorIs(t, err, ErrInvalidTargets)
		})
	}
}

func TestNewConstants_Validation(t *testing.T) {
	_, err := NewConstants("720", "0")
	assert.ErrorIs(t, err, ErrInvalidConstant)

	_, err = NewConstants("-1", "720")
	assert.ErrorIs(t, err, ErrInvalidConstant)

	_, err = NewConstants("abc", "720")
	assert.ErrorIs(t, err, ErrInvalidConstant)

	c, err := NewConstants("480", "240")
	require.NoError(t, err)
	assertDecimal(t, "480", c.DailyMinutes)
	assertDecimal(t, "240", c.OTRatio)
}
