// Package ws is the realtime market-data client. The venue speaks two
// framings on one socket: JSON control messages (subscription acks and
// PINGPONG) and pipe-delimited data frames whose payload is a run of
// caret-separated records.
package ws

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/openkis/gokis/kis/types"
)

// Config tunes the realtime client.
type Config struct {
	HandshakeTimeout time.Duration
	PingInterval     time.Duration

	ReconnectEnabled     bool
	ReconnectDelay       time.Duration
	MaxReconnectDelay    time.Duration
	MaxReconnectAttempts int

	MessageBufferSize int
	ErrorBufferSize   int
}

// DefaultConfig matches the venue's session expectations.
func DefaultConfig() *Config {
	return &Config{
		HandshakeTimeout:     10 * time.Second,
		PingInterval:         30 * time.Second,
		ReconnectEnabled:     true,
		ReconnectDelay:       2 * time.Second,
		MaxReconnectDelay:    30 * time.Second,
		MaxReconnectAttempts: 10,
		MessageBufferSize:    256,
		ErrorBufferSize:      16,
	}
}

// controlMessage is the JSON framing of acks and keepalives.
type controlMessage struct {
	Header struct {
		TrID  string `json:"tr_id"`
		TrKey string `json:"tr_key"`
		Time  string `json:"datetime"`
	} `json:"header"`
	Body struct {
		RtCd  string `json:"rt_cd"`
		MsgCd string `json:"msg_cd"`
		Msg1  string `json:"msg1"`
	} `json:"body"`
}

// subscribeRequest is the JSON frame that opens or closes one stream.
type subscribeRequest struct {
	Header subscribeHeader `json:"header"`
	Body   subscribeBody   `json:"body"`
}

type subscribeHeader struct {
	ApprovalKey string `json:"approval_key"`
	CustType    string `json:"custtype"`
	TrType      string `json:"tr_type"` // 1 subscribe, 2 unsubscribe
	ContentType string `json:"content-type"`
}

type subscribeBody struct {
	Input subscribeInput `json:"input"`
}

type subscribeInput struct {
	TrID  string `json:"tr_id"`
	TrKey string `json:"tr_key"`
}

// RealtimePrice is one execution tick from the domestic price stream.
type RealtimePrice struct {
	Symbol    string
	Time      time.Time
	Price     decimal.Decimal
	Sign      types.SignType
	Change    decimal.Decimal
	Rate      decimal.Decimal
	Open      decimal.Decimal
	High      decimal.Decimal
	Low       decimal.Decimal
	Volume    decimal.Decimal
	AccVolume decimal.Decimal
}

// dataFrame is a parsed pipe-delimited frame: encrypted flag, stream id,
// record count and the raw caret payload.
type dataFrame struct {
	encrypted bool
	trID      string
	count     int
	payload   string
}

// parseDataFrame splits "0|H0STCNT0|001|a^b^..." into its parts.
func parseDataFrame(raw string) (dataFrame, error) {
	parts := strings.SplitN(raw, "|", 4)
	if len(parts) != 4 {
		return dataFrame{}, errors.Errorf("malformed data frame %q", truncateForLog(raw))
	}
	count := 0
	for _, ch := range parts[2] {
		if ch < '0' || ch > '9' {
			return dataFrame{}, errors.Errorf("bad record count %q", parts[2])
		}
		count = count*10 + int(ch-'0')
	}
	if count == 0 {
		count = 1
	}
	return dataFrame{
		encrypted: parts[0] == "1",
		trID:      parts[1],
		count:     count,
		payload:   parts[3],
	}, nil
}

// parseRealtimePrices decodes the records of an execution frame. The
// payload concatenates count fixed-width records with a single caret
// between every field.
func parseRealtimePrices(frame dataFrame, now time.Time) ([]RealtimePrice, error) {
	fields := strings.Split(frame.payload, "^")
	per := len(fields) / frame.count
	if per == 0 || len(fields)%frame.count != 0 {
		return nil, errors.Errorf("frame has %d fields for %d records", len(fields), frame.count)
	}

	prices := make([]RealtimePrice, 0, frame.count)
	for i := 0; i < frame.count; i++ {
		rec := fields[i*per : (i+1)*per]
		price, err := decodeRealtimePrice(rec, now)
		if err != nil {
			return nil, err
		}
		prices = append(prices, price)
	}
	return prices, nil
}

func decodeRealtimePrice(rec []string, now time.Time) (RealtimePrice, error) {
	if len(rec) < 14 {
		return RealtimePrice{}, errors.Errorf("short record: %d fields", len(rec))
	}
	at, err := time.ParseInLocation("150405", rec[1], types.TimezoneKST())
	if err != nil {
		return RealtimePrice{}, errors.Wrapf(err, "tick time %q", rec[1])
	}
	kstNow := now.In(types.TimezoneKST())
	at = time.Date(kstNow.Year(), kstNow.Month(), kstNow.Day(),
		at.Hour(), at.Minute(), at.Second(), 0, types.TimezoneKST())

	return RealtimePrice{
		Symbol:    rec[0],
		Time:      at,
		Price:     fieldDecimal(rec[2]),
		Sign:      types.SignFromCode(rec[3]),
		Change:    fieldDecimal(rec[4]),
		Rate:      fieldDecimal(rec[5]),
		Open:      fieldDecimal(rec[7]),
		High:      fieldDecimal(rec[8]),
		Low:       fieldDecimal(rec[9]),
		Volume:    fieldDecimal(rec[12]),
		AccVolume: fieldDecimal(rec[13]),
	}, nil
}

func fieldDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func truncateForLog(s string) string {
	if len(s) > 120 {
		return s[:120] + "..."
	}
	return s
}
