package types

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/openkis/gokis/pkg/repr"
)

// OrderType is the side of an order.
type OrderType string

const (
	OrderBuy  OrderType = "buy"
	OrderSell OrderType = "sell"
)

// OrderCondition narrows how an order participates in the session.
type OrderCondition string

const (
	ConditionNone     OrderCondition = ""
	ConditionBefore   OrderCondition = "before"   // pre-market session
	ConditionExtended OrderCondition = "extended" // after-hours session
)

// OrderNumber identifies an order: the branch that accepted it, the order
// number itself, and the acceptance time in KST.
type OrderNumber struct {
	Branch string
	Number string
	Time   time.Time
}

func (n OrderNumber) TypeName() string { return "OrderNumber" }

func (n OrderNumber) FieldNames() []string { return []string{"branch", "number", "time"} }

func (n OrderNumber) Field(name string) (any, bool) {
	switch name {
	case "branch":
		return n.Branch, true
	case "number":
		return n.Number, true
	case "time":
		return n.Time.Format("2006-01-02 15:04:05"), true
	}
	return nil, false
}

// DailyOrder is one row of an account's daily order ledger. Price is nil
// for market orders. Market stays empty until venue resolution pins one.
type DailyOrder struct {
	Account   AccountNumber
	Order     OrderNumber
	Symbol    string
	Name      string
	Country   CountryType
	Market    MarketType
	Type      OrderType
	Condition OrderCondition

	Price           *decimal.Decimal
	Quantity        decimal.Decimal
	ExecutedQty     decimal.Decimal
	ExecutedAverage *decimal.Decimal
	RejectedQty     decimal.Decimal
	Cancelled       bool
}

// PendingQty is the quantity still open on the order.
func (o DailyOrder) PendingQty() decimal.Decimal {
	return o.Quantity.Sub(o.ExecutedQty).Sub(o.RejectedQty)
}

// ExecutedAmount is executed quantity times the average fill price.
func (o DailyOrder) ExecutedAmount() decimal.Decimal {
	if o.ExecutedAverage == nil {
		return decimal.Zero
	}
	return o.ExecutedQty.Mul(*o.ExecutedAverage)
}

// Currency is the settlement currency implied by the order's market.
func (o DailyOrder) Currency() CurrencyType {
	return MarketCurrency(o.Market)
}

func (o DailyOrder) TypeName() string { return "DailyOrder" }

func (o DailyOrder) FieldNames() []string {
	return []string{
		"account", "order", "symbol", "name", "market", "type",
		"price", "qty", "executed_qty", "executed_average", "cancelled",
	}
}

func (o DailyOrder) Field(name string) (any, bool) {
	switch name {
	case "account":
		return o.Account, true
	case "order":
		return o.Order, true
	case "symbol":
		return o.Symbol, true
	case "name":
		return o.Name, true
	case "market":
		if o.Market == "" {
			return nil, false
		}
		return string(o.Market), true
	case "type":
		return string(o.Type), true
	case "price":
		if o.Price == nil {
			return "market", true
		}
		return o.Price.String(), true
	case "qty":
		return o.Quantity.String(), true
	case "executed_qty":
		return o.ExecutedQty.String(), true
	case "executed_average":
		if o.ExecutedAverage == nil {
			return nil, false
		}
		return o.ExecutedAverage.String(), true
	case "cancelled":
		return o.Cancelled, true
	}
	return nil, false
}

func (o DailyOrder) String() string { return repr.String(o) }

// DailyOrders is the ledger of an account over a date range.
type DailyOrders struct {
	Account AccountNumber
	Orders  []DailyOrder
}

// Len is the number of orders in the ledger.
func (d DailyOrders) Len() int { return len(d.Orders) }

// Find returns the first order whose number matches.
func (d DailyOrders) Find(number string) (DailyOrder, bool) {
	for _, o := range d.Orders {
		if o.Order.Number == number {
			return o, true
		}
	}
	return DailyOrder{}, false
}

// FindSymbol returns every order for symbol, keeping ledger order.
func (d DailyOrders) FindSymbol(symbol string) []DailyOrder {
	var out []DailyOrder
	for _, o := range d.Orders {
		if o.Symbol == symbol {
			out = append(out, o)
		}
	}
	return out
}

func (d DailyOrders) TypeName() string { return "DailyOrders" }

func (d DailyOrders) FieldNames() []string { return []string{"account", "orders"} }

func (d DailyOrders) Field(name string) (any, bool) {
	switch name {
	case "account":
		return d.Account, true
	case "orders":
		return d.Orders, true
	}
	return nil, false
}

// FieldLayouts keeps the order list one-per-line however short it is.
func (d DailyOrders) FieldLayouts() map[string]repr.Layout {
	return map[string]repr.Layout{"orders": repr.Multiple}
}

func (d DailyOrders) String() string { return repr.String(d) }

var (
	_ repr.Record        = DailyOrder{}
	_ repr.Record        = DailyOrders{}
	_ repr.FieldLayouter = DailyOrders{}
)
