// Package account implements account-scoped queries: the daily order
// ledger and balances.
package account

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/openkis/gokis/kis/client"
	"github.com/openkis/gokis/kis/types"
	"github.com/openkis/gokis/pkg/logger"
)

// recentWindowDays is how far back the recent-history endpoint reaches;
// older ranges must go through the archive endpoint.
const recentWindowDays = 90

type dailyOrderRow struct {
	OrderDate    string `json:"ord_dt"`
	OrderTime    string `json:"ord_tmd"`
	Branch       string `json:"ord_gno_brno"`
	Number       string `json:"odno"`
	Symbol       string `json:"pdno"`
	Name         string `json:"prdt_name"`
	SideCode     string `json:"sll_buy_dvsn_cd"`
	Quantity     string `json:"ord_qty"`
	Price        string `json:"ord_unpr"`
	ExecutedQty  string `json:"tot_ccld_qty"`
	Average      string `json:"avg_prvs"`
	RemainingQty string `json:"rmn_qty"`
	RejectedQty  string `json:"rjct_qty"`
	CancelFlag   string `json:"ccld_yn"`
	ExchangeCode string `json:"excg_dvsn_cd"`
}

type dailyOrdersResponse struct {
	Output []dailyOrderRow `json:"output1"`
}

// DailyOrders queries the domestic daily order ledger of account between
// start and end inclusive. When the range straddles the three-month
// archive boundary it is split and both endpoints are queried, recent
// segment first. orderType empty means both sides.
func DailyOrders(ctx context.Context, c *client.Client, account types.AccountNumber,
	start, end time.Time, orderType types.OrderType) (types.DailyOrders, error) {
	if account.IsZero() {
		acct, err := c.Account()
		if err != nil {
			return types.DailyOrders{}, err
		}
		account = acct
	}

	now := time.Now().In(types.TimezoneKST())
	start, end = normalizeRange(start, end, now)

	result := types.DailyOrders{Account: account}
	for _, seg := range splitRange(start, end, now) {
		orders, err := fetchSegment(ctx, c, account, seg, orderType)
		if err != nil {
			return types.DailyOrders{}, err
		}
		result.Orders = append(result.Orders, orders...)
	}
	logger.Debugf("daily orders: %d rows for %s", len(result.Orders), account)
	return result, nil
}

// normalizeRange swaps inverted bounds and clamps the end to today.
func normalizeRange(start, end, now time.Time) (time.Time, time.Time) {
	if end.IsZero() || end.After(now) {
		end = now
	}
	if start.IsZero() {
		start = end.AddDate(0, 0, -30)
	}
	if start.After(end) {
		start, end = end, start
	}
	return start, end
}

// segment is one homogeneous date range: entirely recent or entirely old.
type segment struct {
	start, end time.Time
	recent     bool
}

// splitRange cuts [start, end] at the archive boundary, the first day of
// the month three months before now. Recent segments come first so the
// merged ledger stays newest-first.
func splitRange(start, end, now time.Time) []segment {
	boundary := archiveBoundary(now)
	switch {
	case !start.Before(boundary):
		return []segment{{start: start, end: end, recent: true}}
	case end.Before(boundary):
		return []segment{{start: start, end: end, recent: false}}
	default:
		return []segment{
			{start: boundary, end: end, recent: true},
			{start: start, end: boundary.AddDate(0, 0, -1), recent: false},
		}
	}
}

// archiveBoundary is the first day of the month containing now minus the
// recent window. Counting days, not calendar months, keeps dates in a
// 92-day trailing span out of the recent endpoint.
func archiveBoundary(now time.Time) time.Time {
	t := now.AddDate(0, 0, -recentWindowDays)
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, now.Location())
}

func trID(virtual, recent bool) string {
	switch {
	case virtual && recent:
		return client.TrDomesticDailyOrdersRecentVirtual
	case virtual:
		return client.TrDomesticDailyOrdersOldVirtual
	case recent:
		return client.TrDomesticDailyOrdersRecent
	default:
		return client.TrDomesticDailyOrdersOld
	}
}

func sideParam(orderType types.OrderType) string {
	switch orderType {
	case types.OrderSell:
		return "01"
	case types.OrderBuy:
		return "02"
	default:
		return "00"
	}
}

func fetchSegment(ctx context.Context, c *client.Client, account types.AccountNumber,
	seg segment, orderType types.OrderType) ([]types.DailyOrder, error) {
	var orders []types.DailyOrder
	page := client.FirstPage(client.MaxPageSize)
	for {
		var out dailyOrdersResponse
		res, err := c.Fetch(ctx, client.Request{
			Path: client.PathDomesticDailyOrders,
			TrID: trID(c.Virtual(), seg.recent),
			Params: map[string]string{
				"CANO":            account.Number,
				"ACNT_PRDT_CD":    account.Product,
				"INQR_STRT_DT":    seg.start.Format("20060102"),
				"INQR_END_DT":     seg.end.Format("20060102"),
				"SLL_BUY_DVSN_CD": sideParam(orderType),
				"INQR_DVSN":       "00",
				"PDNO":            "",
				"CCLD_DVSN":       "00",
				"ORD_GNO_BRNO":    "",
				"ODNO":            "",
				"INQR_DVSN_3":     "00",
				"INQR_DVSN_1":     "",
			},
			Page: &page,
		}, &out)
		if err != nil {
			return nil, errors.Wrap(err, "daily orders")
		}
		for _, row := range out.Output {
			order, err := row.toOrder(account)
			if err != nil {
				return nil, err
			}
			orders = append(orders, order)
		}
		if res.Last {
			return orders, nil
		}
		page = res.Next
	}
}

func (r dailyOrderRow) toOrder(account types.AccountNumber) (types.DailyOrder, error) {
	at, err := time.ParseInLocation("20060102150405", r.OrderDate+r.OrderTime, types.TimezoneKST())
	if err != nil {
		return types.DailyOrder{}, errors.Wrapf(err, "order %s timestamp", r.Number)
	}

	order := types.DailyOrder{
		Account: account,
		Order: types.OrderNumber{
			Branch: r.Branch,
			Number: r.Number,
			Time:   at,
		},
		Symbol:      r.Symbol,
		Name:        r.Name,
		Quantity:    parseDecimal(r.Quantity),
		ExecutedQty: parseDecimal(r.ExecutedQty),
		RejectedQty: parseDecimal(r.RejectedQty),
		Cancelled:   r.CancelFlag == "Y",
	}

	if r.SideCode == "01" {
		order.Type = types.OrderSell
	} else {
		order.Type = types.OrderBuy
	}
	// unit price 0 means a market order
	if price := parseDecimal(r.Price); !price.IsZero() {
		order.Price = &price
	}
	if avg := parseDecimal(r.Average); !avg.IsZero() {
		order.ExecutedAverage = &avg
	}
	if venue, ok := types.VenueFromExchangeCode(r.ExchangeCode); ok {
		order.Country = venue.Country
		order.Market = venue.Market
		order.Condition = venue.Condition
	}
	return order, nil
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
