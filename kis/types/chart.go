package types

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/openkis/gokis/pkg/repr"
)

// ChartPeriod is the aggregation period of a daily-style chart.
type ChartPeriod string

const (
	PeriodDay   ChartPeriod = "day"
	PeriodWeek  ChartPeriod = "week"
	PeriodMonth ChartPeriod = "month"
	PeriodYear  ChartPeriod = "year"
)

// ChartBar is one OHLCV bar. Time is midnight in the market's zone.
// SplitRatio is 1 on bars without a corporate action.
type ChartBar struct {
	Time       time.Time
	Open       decimal.Decimal
	High       decimal.Decimal
	Low        decimal.Decimal
	Close      decimal.Decimal
	Volume     decimal.Decimal
	Amount     decimal.Decimal
	Change     decimal.Decimal
	Sign       SignType
	ExDate     ExDateType
	SplitRatio decimal.Decimal
}

func (b ChartBar) TypeName() string { return "ChartBar" }

func (b ChartBar) FieldNames() []string {
	return []string{"time", "open", "high", "low", "close", "volume"}
}

func (b ChartBar) Field(name string) (any, bool) {
	switch name {
	case "time":
		return b.Time.Format("2006-01-02"), true
	case "open":
		return b.Open.String(), true
	case "high":
		return b.High.String(), true
	case "low":
		return b.Low.String(), true
	case "close":
		return b.Close.String(), true
	case "volume":
		return b.Volume.String(), true
	}
	return nil, false
}

func (b ChartBar) String() string { return repr.String(b) }

// Chart is an ordered series of bars, oldest first.
type Chart struct {
	Symbol   string
	Market   MarketType
	Timezone *time.Location
	Bars     []ChartBar
}

// Len is the number of bars in the chart.
func (c Chart) Len() int { return len(c.Bars) }

// First returns the oldest bar.
func (c Chart) First() (ChartBar, bool) {
	if len(c.Bars) == 0 {
		return ChartBar{}, false
	}
	return c.Bars[0], true
}

// Last returns the most recent bar.
func (c Chart) Last() (ChartBar, bool) {
	if len(c.Bars) == 0 {
		return ChartBar{}, false
	}
	return c.Bars[len(c.Bars)-1], true
}

func (c Chart) TypeName() string { return "Chart" }

func (c Chart) FieldNames() []string { return []string{"symbol", "market", "bars"} }

func (c Chart) Field(name string) (any, bool) {
	switch name {
	case "symbol":
		return c.Symbol, true
	case "market":
		return string(c.Market), true
	case "bars":
		return c.Bars, true
	}
	return nil, false
}

// FieldLayouts keeps the bar series one-per-line.
func (c Chart) FieldLayouts() map[string]repr.Layout {
	return map[string]repr.Layout{"bars": repr.Multiple}
}

func (c Chart) String() string { return repr.String(c) }

var (
	_ repr.Record        = ChartBar{}
	_ repr.Record        = Chart{}
	_ repr.FieldLayouter = Chart{}
)
