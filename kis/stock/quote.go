// Package stock implements per-symbol market data queries: quotes,
// market resolution and daily-style charts.
package stock

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/openkis/gokis/kis/client"
	"github.com/openkis/gokis/kis/types"
)

type quoteOutput struct {
	Price  string `json:"stck_prpr"`
	Open   string `json:"stck_oprc"`
	High   string `json:"stck_hgpr"`
	Low    string `json:"stck_lwpr"`
	Change string `json:"prdy_vrss"`
	Sign   string `json:"prdy_vrss_sign"`
	Volume string `json:"acml_vol"`
	Amount string `json:"acml_tr_pbmn"`
	Halt   string `json:"trht_yn"`
	Name   string `json:"rprs_mrkt_kor_name"`
}

type quoteResponse struct {
	Output quoteOutput `json:"output"`
}

// Quote fetches the domestic snapshot for symbol. Unknown symbols come
// back as ErrNotFound.
func Quote(ctx context.Context, c *client.Client, symbol string) (types.Quote, error) {
	var out quoteResponse
	_, err := c.Fetch(ctx, client.Request{
		Path: client.PathDomesticPrice,
		TrID: client.TrDomesticPrice,
		Params: map[string]string{
			"FID_COND_MRKT_DIV_CODE": "J",
			"FID_INPUT_ISCD":         symbol,
		},
	}, &out)
	if err != nil {
		return types.Quote{}, errors.Wrapf(err, "quote %s", symbol)
	}
	// the venue answers unknown symbols with an all-zero payload
	if out.Output.Price == "" || out.Output.Price == "0" {
		return types.Quote{}, errors.Wrapf(client.ErrNotFound, "quote %s", symbol)
	}

	return types.Quote{
		Symbol: symbol,
		Market: types.MarketKRX,
		Name:   out.Output.Name,
		Price:  parseDecimal(out.Output.Price),
		Open:   parseDecimal(out.Output.Open),
		High:   parseDecimal(out.Output.High),
		Low:    parseDecimal(out.Output.Low),
		Change: parseDecimal(out.Output.Change),
		Sign:   types.SignFromCode(out.Output.Sign),
		Volume: parseDecimal(out.Output.Volume),
		Amount: parseDecimal(out.Output.Amount),
		Halted: out.Output.Halt == "Y",
	}, nil
}

func parseDecimal(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
