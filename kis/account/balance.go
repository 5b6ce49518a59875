package account

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/openkis/gokis/kis/client"
	"github.com/openkis/gokis/kis/types"
)

type balanceStockRow struct {
	Symbol       string `json:"pdno"`
	Name         string `json:"prdt_name"`
	Quantity     string `json:"hldg_qty"`
	AveragePrice string `json:"pchs_avg_pric"`
	Price        string `json:"prpr"`
	Amount       string `json:"evlu_amt"`
	Profit       string `json:"evlu_pfls_amt"`
}

type balanceDepositRow struct {
	Deposit string `json:"dnca_tot_amt"`
}

type balanceResponse struct {
	Stocks   []balanceStockRow   `json:"output1"`
	Deposits []balanceDepositRow `json:"output2"`
}

// Balance queries the domestic holdings and cash deposit of account.
func Balance(ctx context.Context, c *client.Client, account types.AccountNumber) (types.Balance, error) {
	if account.IsZero() {
		acct, err := c.Account()
		if err != nil {
			return types.Balance{}, err
		}
		account = acct
	}

	tr := client.TrDomesticBalance
	if c.Virtual() {
		tr = client.TrDomesticBalanceVirtual
	}

	balance := types.Balance{
		Account:  account,
		Deposits: map[types.CurrencyType]decimal.Decimal{},
	}
	page := client.FirstPage(client.MaxPageSize)
	for {
		var out balanceResponse
		res, err := c.Fetch(ctx, client.Request{
			Path: client.PathDomesticBalance,
			TrID: tr,
			Params: map[string]string{
				"CANO":                  account.Number,
				"ACNT_PRDT_CD":          account.Product,
				"AFHR_FLPR_YN":          "N",
				"OFL_YN":                "",
				"INQR_DVSN":             "02",
				"UNPR_DVSN":             "01",
				"FUND_STTL_ICLD_YN":     "N",
				"FNCG_AMT_AUTO_RDPT_YN": "N",
				"PRCS_DVSN":             "00",
			},
			Page: &page,
		}, &out)
		if err != nil {
			return types.Balance{}, errors.Wrap(err, "balance")
		}
		for _, row := range out.Stocks {
			qty := parseDecimal(row.Quantity)
			if qty.IsZero() {
				continue
			}
			balance.Stocks = append(balance.Stocks, types.BalanceStock{
				Symbol:       row.Symbol,
				Name:         row.Name,
				Market:       types.MarketKRX,
				Quantity:     qty,
				AveragePrice: parseDecimal(row.AveragePrice),
				Price:        parseDecimal(row.Price),
				Amount:       parseDecimal(row.Amount),
				Profit:       parseDecimal(row.Profit),
			})
		}
		for _, row := range out.Deposits {
			balance.Deposits[types.CurrencyKRW] = parseDecimal(row.Deposit)
		}
		if res.Last {
			return balance, nil
		}
		page = res.Next
	}
}
