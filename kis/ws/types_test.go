package ws

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openkis/gokis/kis/types"
)

// tickRecord builds one execution record with the given leading fields,
// padded out to a realistic column count.
func tickRecord(fields ...string) string {
	padded := make([]string, 46)
	for i := range padded {
		padded[i] = "0"
	}
	copy(padded, fields)
	return strings.Join(padded, "^")
}

func TestParseDataFrame(t *testing.T) {
	frame, err := parseDataFrame("0|H0STCNT0|001|005930^093012^72000")
	require.NoError(t, err)
	assert.False(t, frame.encrypted)
	assert.Equal(t, "H0STCNT0", frame.trID)
	assert.Equal(t, 1, frame.count)
	assert.Equal(t, "005930^093012^72000", frame.payload)

	frame, err = parseDataFrame("1|H0STCNT0|002|x")
	require.NoError(t, err)
	assert.True(t, frame.encrypted)
	assert.Equal(t, 2, frame.count)
}

func TestParseDataFrameMalformed(t *testing.T) {
	_, err := parseDataFrame("0|H0STCNT0")
	assert.Error(t, err)

	_, err = parseDataFrame("0|H0STCNT0|abc|payload")
	assert.Error(t, err)
}

func TestParseRealtimePrices(t *testing.T) {
	payload := tickRecord("005930", "093012", "72000", "2", "1000", "1.41", "0", "71500", "72100", "71300", "0", "0", "150", "1234567")
	frame, err := parseDataFrame("0|H0STCNT0|001|" + payload)
	require.NoError(t, err)

	now := time.Date(2024, time.May, 10, 9, 30, 30, 0, time.UTC)
	prices, err := parseRealtimePrices(frame, now)
	require.NoError(t, err)
	require.Len(t, prices, 1)

	p := prices[0]
	assert.Equal(t, "005930", p.Symbol)
	assert.Equal(t, "72000", p.Price.String())
	assert.Equal(t, types.SignRise, p.Sign)
	assert.Equal(t, "1000", p.Change.String())
	assert.Equal(t, "71500", p.Open.String())
	assert.Equal(t, "1234567", p.AccVolume.String())

	// the tick carries only a clock time, the date comes from now in KST
	assert.Equal(t, 2024, p.Time.Year())
	assert.Equal(t, 9, p.Time.Hour())
	assert.Equal(t, 30, p.Time.Minute())
	assert.Equal(t, types.TimezoneKST().String(), p.Time.Location().String())
}

func TestParseRealtimePricesMultiRecord(t *testing.T) {
	rec1 := tickRecord("005930", "093012", "72000", "2")
	rec2 := tickRecord("005930", "093013", "72100", "2")
	frame, err := parseDataFrame("0|H0STCNT0|002|" + rec1 + "^" + rec2)
	require.NoError(t, err)

	prices, err := parseRealtimePrices(frame, time.Now())
	require.NoError(t, err)
	require.Len(t, prices, 2)
	assert.Equal(t, "72000", prices[0].Price.String())
	assert.Equal(t, "72100", prices[1].Price.String())
}

func TestParseRealtimePricesUnevenPayload(t *testing.T) {
	frame := dataFrame{trID: "H0STCNT0", count: 2, payload: "a^b^c"}
	_, err := parseRealtimePrices(frame, time.Now())
	assert.Error(t, err)
}

func TestDecodeRealtimePriceBadTime(t *testing.T) {
	rec := strings.Split(tickRecord("005930", "9am"), "^")
	_, err := decodeRealtimePrice(rec, time.Now())
	assert.Error(t, err)
}
