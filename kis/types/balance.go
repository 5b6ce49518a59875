package types

import (
	"github.com/shopspring/decimal"

	"github.com/openkis/gokis/pkg/repr"
)

// BalanceStock is one holding line of an account balance.
type BalanceStock struct {
	Symbol       string
	Name         string
	Market       MarketType
	Quantity     decimal.Decimal
	AveragePrice decimal.Decimal
	Price        decimal.Decimal
	Amount       decimal.Decimal
	Profit       decimal.Decimal
}

// ProfitRate is the unrealized profit over the purchase amount.
func (s BalanceStock) ProfitRate() decimal.Decimal {
	purchase := s.AveragePrice.Mul(s.Quantity)
	if purchase.IsZero() {
		return decimal.Zero
	}
	return s.Profit.Div(purchase)
}

func (s BalanceStock) TypeName() string { return "BalanceStock" }

func (s BalanceStock) FieldNames() []string {
	return []string{"symbol", "name", "qty", "average_price", "price", "profit"}
}

func (s BalanceStock) Field(name string) (any, bool) {
	switch name {
	case "symbol":
		return s.Symbol, true
	case "name":
		return s.Name, true
	case "qty":
		return s.Quantity.String(), true
	case "average_price":
		return s.AveragePrice.String(), true
	case "price":
		return s.Price.String(), true
	case "profit":
		return s.Profit.String(), true
	}
	return nil, false
}

func (s BalanceStock) String() string { return repr.String(s) }

// Balance is an account's holdings plus per-currency deposits.
type Balance struct {
	Account  AccountNumber
	Stocks   []BalanceStock
	Deposits map[CurrencyType]decimal.Decimal
}

// Deposit returns the cash deposit in currency, zero when absent.
func (b Balance) Deposit(currency CurrencyType) decimal.Decimal {
	return b.Deposits[currency]
}

// Amount sums the evaluated amount of every holding.
func (b Balance) Amount() decimal.Decimal {
	total := decimal.Zero
	for _, s := range b.Stocks {
		total = total.Add(s.Amount)
	}
	return total
}

// Profit sums the unrealized profit of every holding.
func (b Balance) Profit() decimal.Decimal {
	total := decimal.Zero
	for _, s := range b.Stocks {
		total = total.Add(s.Profit)
	}
	return total
}

func (b Balance) TypeName() string { return "Balance" }

func (b Balance) FieldNames() []string { return []string{"account", "stocks"} }

func (b Balance) Field(name string) (any, bool) {
	switch name {
	case "account":
		return b.Account, true
	case "stocks":
		return b.Stocks, true
	}
	return nil, false
}

// FieldLayouts keeps holdings one-per-line.
func (b Balance) FieldLayouts() map[string]repr.Layout {
	return map[string]repr.Layout{"stocks": repr.Multiple}
}

func (b Balance) String() string { return repr.String(b) }

var (
	_ repr.Record        = BalanceStock{}
	_ repr.Record        = Balance{}
	_ repr.FieldLayouter = Balance{}
)
