package stock

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openkis/gokis/kis/types"
)

func bar(y int, m time.Month, d int) types.ChartBar {
	return types.ChartBar{
		Time:       time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		SplitRatio: decimal.NewFromInt(1),
	}
}

func TestTrimRange(t *testing.T) {
	bars := []types.ChartBar{
		bar(2024, time.January, 2),
		bar(2024, time.February, 1),
		bar(2024, time.March, 4),
	}
	out := trimRange(bars, time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.February, 1, 10, 30, 0, 0, time.UTC))
	require.Len(t, out, 1)
	assert.Equal(t, time.February, out[0].Time.Month())
}

func TestTrimRangeZeroStartKeepsHistory(t *testing.T) {
	bars := []types.ChartBar{bar(1999, time.December, 31), bar(2024, time.March, 4)}
	out := trimRange(bars, time.Time{}, time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC))
	assert.Len(t, out, 2)
}

func TestDedupeBars(t *testing.T) {
	bars := []types.ChartBar{
		bar(2024, time.January, 2),
		bar(2024, time.January, 2),
		bar(2024, time.January, 3),
	}
	assert.Len(t, dedupeBars(bars), 2)
}

func TestDownsampleYearly(t *testing.T) {
	bars := []types.ChartBar{
		bar(2022, time.June, 30),
		bar(2022, time.December, 30),
		bar(2023, time.March, 31),
		bar(2023, time.December, 29),
		bar(2024, time.February, 29),
	}
	out := downsampleYearly(bars)
	require.Len(t, out, 3)
	assert.Equal(t, 2022, out[0].Time.Year())
	assert.Equal(t, time.December, out[0].Time.Month())
	assert.Equal(t, 2023, out[1].Time.Year())
	// the current year keeps its latest bar even mid-year
	assert.Equal(t, 2024, out[2].Time.Year())
}

func TestDomesticBarsSkipPadding(t *testing.T) {
	rows := []domesticChartRow{
		{Date: "20240104", Close: "72000", Sign: "2", SplitRate: "0"},
		{Date: "20240103", Close: "71000", Sign: "5", ExDateCode: "02"},
		{},
	}
	bars, earliest, err := domesticBars(rows, time.UTC)
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, "20240103", earliest.Format("20060102"))
	assert.Equal(t, types.SignRise, bars[0].Sign)
	assert.Equal(t, types.ExDateExDividend, bars[1].ExDate)
	// an absent split rate normalizes to 1
	assert.True(t, bars[0].SplitRatio.Equal(decimal.NewFromInt(1)))
}

func TestDomesticBarsBadDate(t *testing.T) {
	_, _, err := domesticBars([]domesticChartRow{{Date: "2024"}}, time.UTC)
	assert.Error(t, err)
}

func TestPeriodCodes(t *testing.T) {
	assert.Equal(t, "D", domesticPeriodCodes[types.PeriodDay])
	assert.Equal(t, "Y", domesticPeriodCodes[types.PeriodYear])
	assert.Equal(t, "2", overseasPeriodCodes[types.PeriodMonth])
	_, ok := overseasPeriodCodes[types.PeriodYear]
	assert.False(t, ok)
}
