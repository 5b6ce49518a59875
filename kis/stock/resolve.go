package stock

import (
	"context"

	"github.com/pkg/errors"

	"github.com/openkis/gokis/kis/client"
	"github.com/openkis/gokis/kis/types"
	"github.com/openkis/gokis/pkg/logger"
)

type stockInfoOutput struct {
	MarketName string `json:"mket_id_cd"`
	Name       string `json:"prdt_name"`
}

type stockInfoResponse struct {
	Output stockInfoOutput `json:"output"`
}

// ResolveMarket finds which market lists symbol. Domestic symbols resolve
// through the product info endpoint; results cache for a day since
// listings do not move intraday.
func ResolveMarket(ctx context.Context, c *client.Client, symbol string) (types.MarketType, error) {
	if market, ok := c.MarketCache().Get(symbol); ok {
		return market, nil
	}

	var out stockInfoResponse
	_, err := c.Fetch(ctx, client.Request{
		Path: client.PathStockInfo,
		TrID: client.TrStockInfo,
		Params: map[string]string{
			"PDNO":         symbol,
			"PRDT_TYPE_CD": "300", // domestic stock
		},
	}, &out)
	if err != nil {
		if _, ok := client.IsAPIError(err); ok {
			return "", errors.Wrapf(client.ErrNotFound, "resolve %s", symbol)
		}
		return "", errors.Wrapf(err, "resolve %s", symbol)
	}
	if out.Output.Name == "" {
		return "", errors.Wrapf(client.ErrNotFound, "resolve %s", symbol)
	}

	market := types.MarketKRX
	c.MarketCache().Set(symbol, market, 0)
	logger.Debugf("resolved %s to %s", symbol, market)
	return market, nil
}
