package storage

import (
	"errors"
	"github.com/shopspring/decimal"
	"time"
)

var ErrUnsafeIdentifier = errors.New("unsafe sql identifier")

// Observation одна сырая запись выработки.
// Отсутствующее значение поля хранится как NullDecimal{Valid: false}, в ноль не превращается.
type Observation struct {
	Instant     time.Time                      `json:"instant"`
	Category    string                         `json:"category"`
	Subcategory string                         `json:"subcategory,omitempty"`
	Fields      map[string]decimal.NullDecimal `json:"fields"`
}

// RatioDayRecord входные данные формул эффективности за день (или часть дня).
type RatioDayRecord struct {
	Instant       time.Time                      `json:"instant"`
	NormalWorkers decimal.NullDecimal            `json:"normal_workers"`
	NormalMinutes decimal.NullDecimal            `json:"normal_minutes"`
	OTWorkers     decimal.NullDecimal            `json:"ot_workers"`
	OTMinutes     decimal.NullDecimal            `json:"ot_minutes"`
	Targets       map[string]decimal.NullDecimal `json:"targets"`
}

// ObservationTable описание таблицы вида записей
type ObservationTable struct {
	Name    string
	Columns []string
}

// RatioTable описание таблицы входов для формул
type RatioTable struct {
	Name    string
	Targets []string
}
