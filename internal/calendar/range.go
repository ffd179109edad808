package calendar

import (
	"fmt"
	"time"
)

// Range диапазон локальных дней, обе границы включительно.
type Range struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func (c Calendar) Validate(r Range) error {
	const op = "calendar.Validate"

	from, err := c.parseDay(r.From)
	if err != nil {
		return fmt.Errorf("%s: from: %w", op, err)
	}
	to, err := c.parseDay(r.To)
	if err != nil {
		return fmt.Errorf("%s: to: %w", op, err)
	}
	if to.Before(from) {
		return fmt.Errorf("%s: %w: %s > %s", op, ErrInvalidRange, r.From, r.To)
	}

	return nil
}

// BoundsUTC полуинтервал для запроса к хранилищу: [начало From, конец To).
func (c Calendar) BoundsUTC(r Range) (time.Time, time.Time, error) {
	const op = "calendar.BoundsUTC"

	if err := c.Validate(r); err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%s: %w", op, err)
	}

	start, _, err := c.DayBoundsUTC(r.From)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%s: %w", op, err)
	}
	_, end, err := c.DayBoundsUTC(r.To)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%s: %w", op, err)
	}

	return start, end, nil
}

// Days количество дней в диапазоне; диапазон должен быть валидным.
func (c Calendar) Days(r Range) (int, error) {
	start, end, err := c.BoundsUTC(r)
	if err != nil {
		return 0, err
	}
	return int(end.Sub(start) / Day), nil
}

// Contains ключи в формате YYYY-MM-DD сравниваются лексикографически
func (r Range) Contains(dayKey string) bool {
	return dayKey >= r.From && dayKey <= r.To
}
