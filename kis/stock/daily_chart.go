package stock

import (
	"context"
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/openkis/gokis/kis/client"
	"github.com/openkis/gokis/kis/types"
	"github.com/openkis/gokis/pkg/logger"
)

// ChartQuery selects a daily-style chart. Market empty means KRX.
// A zero Start walks back as far as the venue has bars.
type ChartQuery struct {
	Symbol   string
	Market   types.MarketType
	Period   types.ChartPeriod
	Start    time.Time
	End      time.Time
	Adjusted bool
}

// DailyChart fetches the chart, walking the cursor back window by window
// until Start is covered. Bars come back oldest-first and trimmed to the
// requested range.
func DailyChart(ctx context.Context, c *client.Client, q ChartQuery) (types.Chart, error) {
	if q.Symbol == "" {
		return types.Chart{}, errors.New("chart: empty symbol")
	}
	if q.Market == "" {
		q.Market = types.MarketKRX
	}
	if q.Period == "" {
		q.Period = types.PeriodDay
	}

	tz := types.MarketTimezone(q.Market)
	if q.End.IsZero() {
		q.End = time.Now().In(tz)
	}

	if q.Market == types.MarketKRX {
		return domesticDailyChart(ctx, c, q, tz)
	}
	return overseasDailyChart(ctx, c, q, tz)
}

// maxChartWindows bounds the walk-back so a misbehaving response cannot
// spin the cursor forever.
const maxChartWindows = 200

var domesticPeriodCodes = map[types.ChartPeriod]string{
	types.PeriodDay:   "D",
	types.PeriodWeek:  "W",
	types.PeriodMonth: "M",
	types.PeriodYear:  "Y",
}

type domesticChartSummary struct {
	Price string `json:"stck_prpr"`
}

type domesticChartRow struct {
	Date       string `json:"stck_bsop_date"`
	Close      string `json:"stck_clpr"`
	Open       string `json:"stck_oprc"`
	High       string `json:"stck_hgpr"`
	Low        string `json:"stck_lwpr"`
	Volume     string `json:"acml_vol"`
	Amount     string `json:"acml_tr_pbmn"`
	Change     string `json:"prdy_vrss"`
	Sign       string `json:"prdy_vrss_sign"`
	ExDateCode string `json:"flng_cls_code"`
	SplitRate  string `json:"prtt_rate"`
}

type domesticChartResponse struct {
	Summary domesticChartSummary `json:"output1"`
	Rows    []domesticChartRow   `json:"output2"`
}

func domesticDailyChart(ctx context.Context, c *client.Client, q ChartQuery, tz *time.Location) (types.Chart, error) {
	adjusted := "1"
	if q.Adjusted {
		adjusted = "0"
	}
	// one window yields at most 100 bars, so a fixed start far enough
	// back keeps every window full
	windowStart := q.Start
	if windowStart.IsZero() {
		windowStart = time.Date(1980, 1, 1, 0, 0, 0, 0, tz)
	}

	var bars []types.ChartBar
	cursor := q.End
	for i := 0; i < maxChartWindows; i++ {
		var out domesticChartResponse
		_, err := c.Fetch(ctx, client.Request{
			Path: client.PathDomesticDailyChart,
			TrID: client.TrDomesticDailyChart,
			Params: map[string]string{
				"FID_COND_MRKT_DIV_CODE": "J",
				"FID_INPUT_ISCD":         q.Symbol,
				"FID_INPUT_DATE_1":       windowStart.Format("20060102"),
				"FID_INPUT_DATE_2":       cursor.Format("20060102"),
				"FID_PERIOD_DIV_CODE":    domesticPeriodCodes[q.Period],
				"FID_ORG_ADJ_PRC":        adjusted,
			},
		}, &out)
		if err != nil {
			return types.Chart{}, errors.Wrapf(err, "chart %s", q.Symbol)
		}
		if i == 0 && (out.Summary.Price == "" || out.Summary.Price == "0") {
			return types.Chart{}, errors.Wrapf(client.ErrNotFound, "chart %s", q.Symbol)
		}

		window, earliest, err := domesticBars(out.Rows, tz)
		if err != nil {
			return types.Chart{}, err
		}
		if len(window) == 0 {
			break
		}
		bars = append(bars, window...)
		if !q.Start.IsZero() && !earliest.After(q.Start) {
			break
		}
		next := earliest.AddDate(0, 0, -1)
		if !next.Before(cursor) {
			break
		}
		cursor = next
	}

	return assembleChart(q, tz, bars), nil
}

// domesticBars converts a window of rows, newest first on the wire,
// skipping the blank padding rows the venue appends.
func domesticBars(rows []domesticChartRow, tz *time.Location) ([]types.ChartBar, time.Time, error) {
	var bars []types.ChartBar
	var earliest time.Time
	for _, row := range rows {
		if row.Date == "" {
			continue
		}
		at, err := time.ParseInLocation("20060102", row.Date, tz)
		if err != nil {
			return nil, time.Time{}, errors.Wrapf(err, "chart bar date %q", row.Date)
		}
		splitRatio := parseDecimal(row.SplitRate)
		if splitRatio.IsZero() {
			splitRatio = decimal.NewFromInt(1)
		}
		bars = append(bars, types.ChartBar{
			Time:       at,
			Open:       parseDecimal(row.Open),
			High:       parseDecimal(row.High),
			Low:        parseDecimal(row.Low),
			Close:      parseDecimal(row.Close),
			Volume:     parseDecimal(row.Volume),
			Amount:     parseDecimal(row.Amount),
			Change:     parseDecimal(row.Change),
			Sign:       types.SignFromCode(row.Sign),
			ExDate:     types.ExDateFromCode(row.ExDateCode),
			SplitRatio: splitRatio,
		})
		if earliest.IsZero() || at.Before(earliest) {
			earliest = at
		}
	}
	return bars, earliest, nil
}

var overseasPeriodCodes = map[types.ChartPeriod]string{
	types.PeriodDay:   "0",
	types.PeriodWeek:  "1",
	types.PeriodMonth: "2",
}

type overseasChartSummary struct {
	RecordCount string `json:"nrec"`
}

type overseasChartRow struct {
	Date   string `json:"xymd"`
	Close  string `json:"clos"`
	Open   string `json:"open"`
	High   string `json:"high"`
	Low    string `json:"low"`
	Volume string `json:"tvol"`
	Amount string `json:"tamt"`
	Change string `json:"diff"`
	Sign   string `json:"sign"`
}

type overseasChartResponse struct {
	Summary overseasChartSummary `json:"output1"`
	Rows    []overseasChartRow   `json:"output2"`
}

func overseasDailyChart(ctx context.Context, c *client.Client, q ChartQuery, tz *time.Location) (types.Chart, error) {
	// the venue has no yearly aggregation overseas, so fetch monthly
	// bars and keep the last bar of each year
	period := q.Period
	yearly := period == types.PeriodYear
	if yearly {
		period = types.PeriodMonth
	}

	adjusted := "0"
	if q.Adjusted {
		adjusted = "1"
	}

	var bars []types.ChartBar
	cursor := q.End
	for i := 0; i < maxChartWindows; i++ {
		var out overseasChartResponse
		_, err := c.Fetch(ctx, client.Request{
			Path: client.PathOverseasDailyChart,
			TrID: client.TrOverseasDailyChart,
			Params: map[string]string{
				"AUTH": "",
				"EXCD": types.MarketShortCode(q.Market),
				"SYMB": q.Symbol,
				"GUBN": overseasPeriodCodes[period],
				"BYMD": cursor.Format("20060102"),
				"MODP": adjusted,
			},
		}, &out)
		if err != nil {
			return types.Chart{}, errors.Wrapf(err, "chart %s:%s", q.Market, q.Symbol)
		}
		if i == 0 && (out.Summary.RecordCount == "" || out.Summary.RecordCount == "0") {
			return types.Chart{}, errors.Wrapf(client.ErrNotFound, "chart %s:%s", q.Market, q.Symbol)
		}

		window, earliest, err := overseasBars(out.Rows, tz)
		if err != nil {
			return types.Chart{}, err
		}
		if len(window) == 0 {
			break
		}
		bars = append(bars, window...)
		if !q.Start.IsZero() && !earliest.After(q.Start) {
			break
		}
		next := earliest.AddDate(0, 0, -1)
		if !next.Before(cursor) {
			break
		}
		cursor = next
	}

	chart := assembleChart(q, tz, bars)
	if yearly {
		chart.Bars = downsampleYearly(chart.Bars)
	}
	return chart, nil
}

func overseasBars(rows []overseasChartRow, tz *time.Location) ([]types.ChartBar, time.Time, error) {
	var bars []types.ChartBar
	var earliest time.Time
	for _, row := range rows {
		if row.Date == "" {
			continue
		}
		at, err := time.ParseInLocation("20060102", row.Date, tz)
		if err != nil {
			return nil, time.Time{}, errors.Wrapf(err, "chart bar date %q", row.Date)
		}
		bars = append(bars, types.ChartBar{
			Time:       at,
			Open:       parseDecimal(row.Open),
			High:       parseDecimal(row.High),
			Low:        parseDecimal(row.Low),
			Close:      parseDecimal(row.Close),
			Volume:     parseDecimal(row.Volume),
			Amount:     parseDecimal(row.Amount),
			Change:     parseDecimal(row.Change),
			Sign:       types.SignFromCode(row.Sign),
			SplitRatio: decimal.NewFromInt(1),
		})
		if earliest.IsZero() || at.Before(earliest) {
			earliest = at
		}
	}
	return bars, earliest, nil
}

// assembleChart orders bars oldest-first, deduplicates window overlap and
// trims to the requested range.
func assembleChart(q ChartQuery, tz *time.Location, bars []types.ChartBar) types.Chart {
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	bars = dedupeBars(bars)
	bars = trimRange(bars, q.Start, q.End)
	logger.Debugf("chart %s: %d bars", q.Symbol, len(bars))
	return types.Chart{
		Symbol:   q.Symbol,
		Market:   q.Market,
		Timezone: tz,
		Bars:     bars,
	}
}

func dedupeBars(bars []types.ChartBar) []types.ChartBar {
	out := bars[:0]
	for _, b := range bars {
		if len(out) > 0 && out[len(out)-1].Time.Equal(b.Time) {
			continue
		}
		out = append(out, b)
	}
	return out
}

// trimRange drops bars outside [start, end]. A zero start keeps the full
// history; the end bound compares by calendar day so an intraday end
// keeps that day's bar.
func trimRange(bars []types.ChartBar, start, end time.Time) []types.ChartBar {
	if len(bars) == 0 {
		return bars
	}
	dayEnd := time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 0, end.Location())
	out := bars[:0]
	for _, b := range bars {
		if !start.IsZero() && b.Time.Before(start) {
			continue
		}
		if b.Time.After(dayEnd) {
			continue
		}
		out = append(out, b)
	}
	return out
}

// downsampleYearly keeps the last bar of each calendar year.
func downsampleYearly(bars []types.ChartBar) []types.ChartBar {
	var out []types.ChartBar
	for i, b := range bars {
		if i+1 == len(bars) || bars[i+1].Time.Year() != b.Time.Year() {
			out = append(out, b)
		}
	}
	return out
}
