package calendar

import (
	"errors"
	"fmt"
	"time"
)

const (
	DayLayout   = "2006-01-02"
	MonthLayout = "2006-01"

	// Day ширина суточного бакета, всегда ровно 24 часа
	Day = 24 * time.Hour
)

var (
	ErrInvalidDateKey = errors.New("invalid date key")
	ErrInvalidRange   = errors.New("invalid date range")
)

// Calendar переводит моменты времени в календарные ключи площадки.
// Смещение фиксированное, переходов на летнее время нет.
type Calendar struct {
	name string
	loc  *time.Location
}

func New(name string, offset time.Duration) Calendar {
	return Calendar{
		name: name,
		loc:  time.FixedZone(name, int(offset/time.Second)),
	}
}

func (c Calendar) Name() string {
	return c.name
}

func (c Calendar) Location() *time.Location {
	return c.loc
}

func (c Calendar) DayKey(t time.Time) string {
	return t.In(c.loc).Format(DayLayout)
}

func (c Calendar) MonthKey(t time.Time) string {
	return t.In(c.loc).Format(MonthLayout)
}

// DayBoundsUTC возвращает полуинтервал [start, end) в UTC для локального дня.
func (c Calendar) DayBoundsUTC(dayKey string) (time.Time, time.Time, error) {
	const op = "calendar.DayBoundsUTC"

	start, err := c.parseDay(dayKey)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%s: %w", op, err)
	}

	return start.UTC(), start.Add(Day).UTC(), nil
}

func (c Calendar) MonthBoundsUTC(monthKey string) (time.Time, time.Time, error) {
	const op = "calendar.MonthBoundsUTC"

	start, err := time.ParseInLocation(MonthLayout, monthKey, c.loc)
	if err != nil || start.Format(MonthLayout) != monthKey {
		return time.Time{}, time.Time{}, fmt.Errorf("%s: %w: %q", op, ErrInvalidDateKey, monthKey)
	}

	return start.UTC(), start.AddDate(0, 1, 0).UTC(), nil
}

// Today ключ текущего локального дня
func (c Calendar) Today(now time.Time) string {
	return c.DayKey(now)
}

// FirstOfMonth ключ первого дня месяца, в который попадает now
func (c Calendar) FirstOfMonth(now time.Time) string {
	return c.MonthKey(now) + "-01"
}

func (c Calendar) parseDay(dayKey string) (time.Time, error) {
	t, err := time.ParseInLocation(DayLayout, dayKey, c.loc)
	// строгая проверка формата: "2024-1-5" и подобное не принимаем
	if err != nil || t.Format(DayLayout) != dayKey {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateKey, dayKey)
	}
	return t, nil
}

// MonthOfDay отрезает месяц от валидного ключа дня.
func MonthOfDay(dayKey string) string {
	if len(dayKey) < len(MonthLayout) {
		return dayKey
	}
	return dayKey[:len(MonthLayout)]
}
