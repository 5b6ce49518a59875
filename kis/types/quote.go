package types

import (
	"github.com/shopspring/decimal"

	"github.com/openkis/gokis/pkg/repr"
)

// Quote is a point-in-time price snapshot for one symbol.
type Quote struct {
	Symbol string
	Market MarketType
	Name   string
	Price  decimal.Decimal
	Open   decimal.Decimal
	High   decimal.Decimal
	Low    decimal.Decimal
	Change decimal.Decimal
	Sign   SignType
	Volume decimal.Decimal
	Amount decimal.Decimal
	Halted bool
}

// Rate is the change over the previous close, as a ratio.
func (q Quote) Rate() decimal.Decimal {
	prev := q.Price.Sub(q.Change)
	if prev.IsZero() {
		return decimal.Zero
	}
	return q.Change.Div(prev)
}

// Currency is the settlement currency of the quote's market.
func (q Quote) Currency() CurrencyType { return MarketCurrency(q.Market) }

func (q Quote) TypeName() string { return "Quote" }

func (q Quote) FieldNames() []string {
	return []string{"symbol", "market", "price", "change", "sign", "volume"}
}

func (q Quote) Field(name string) (any, bool) {
	switch name {
	case "symbol":
		return q.Symbol, true
	case "market":
		if q.Market == "" {
			return nil, false
		}
		return string(q.Market), true
	case "price":
		return q.Price.String(), true
	case "change":
		return q.Change.String(), true
	case "sign":
		return string(q.Sign), true
	case "volume":
		return q.Volume.String(), true
	}
	return nil, false
}

func (q Quote) String() string { return repr.String(q) }

var _ repr.Record = Quote{}
