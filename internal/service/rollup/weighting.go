package rollup

import (
	"errors"
	"fmt"
	"github.com/shopspring/decimal"
	"strings"
)

var ErrInvalidWeight = errors.New("invalid weight")

// fractionPrecision знаков после запятой для весов вида "1/3"
const fractionPrecision = 20

// Weights множители категорий для взвешенной свёртки.
type Weights struct {
	m map[string]decimal.Decimal
}

// NewWeights разбирает таблицу весов: десятичные строки ("0.5") или дроби ("1/3").
func NewWeights(table map[string]string) (Weights, error) {
	const op = "service.rollup.NewWeights"

	m := make(map[string]decimal.Decimal, len(table))
	for category, raw := range table {
		w, err := ParseRational(raw)
		if err != nil {
			return Weights{}, fmt.Errorf("%s: категория %q: %w", op, category, err)
		}
		m[category] = w
	}

	return Weights{m: m}, nil
}

// WeightOf неизвестная категория получает вес 1, это не ошибка.
func (w Weights) WeightOf(category string) decimal.Decimal {
	if v, ok := w.m[category]; ok {
		return v
	}
	return decimal.NewFromInt(1)
}

func ParseRational(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)

	num, den, isFraction := strings.Cut(raw, "/")
	if !isFraction {
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrInvalidWeight, raw)
		}
		if v.IsNegative() {
			return decimal.Decimal{}, fmt.Errorf("%w: отрицательный %q", ErrInvalidWeight, raw)
		}
		return v, nil
	}

	n, err := decimal.NewFromString(strings.TrimSpace(num))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrInvalidWeight, raw)
	}
	d, err := decimal.NewFromString(strings.TrimSpace(den))
	if err != nil || d.IsZero() {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrInvalidWeight, raw)
	}
	if n.IsNegative() || d.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("%w: отрицательный %q", ErrInvalidWeight, raw)
	}

	return n.DivRound(d, fractionPrecision), nil
}
