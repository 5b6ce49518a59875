package account

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openkis/gokis/kis/client"
	"github.com/openkis/gokis/kis/types"
	"github.com/openkis/gokis/pkg/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *client.Client {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc(client.PathToken, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "t", "token_type": "Bearer", "expires_in": 86400,
		})
	})
	mux.HandleFunc("/", handler)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c, err := client.New(&config.Config{
		AppKey: "k", AppSecret: "s", Account: "12345678-01",
	}, client.WithHost(srv.URL))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestDailyOrdersPaginates(t *testing.T) {
	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, client.PathDomesticDailyOrders, r.URL.Path)
		assert.Equal(t, "12345678", r.URL.Query().Get("CANO"))
		assert.Equal(t, "02", r.URL.Query().Get("SLL_BUY_DVSN_CD"))

		calls++
		if calls == 1 {
			w.Header().Set("tr_cont", "M")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"rt_cd":          "0",
				"ctx_area_fk100": "fk",
				"ctx_area_nk100": "nk",
				"output1": []map[string]string{{
					"ord_dt": "20240510", "ord_tmd": "093012",
					"odno": "0000000001", "pdno": "005930",
					"sll_buy_dvsn_cd": "02", "ord_qty": "10",
					"ord_unpr": "72000", "excg_dvsn_cd": "01",
				}},
			})
			return
		}
		assert.Equal(t, "nk", r.URL.Query().Get("CTX_AREA_NK100"))
		w.Header().Set("tr_cont", "D")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"rt_cd": "0",
			"output1": []map[string]string{{
				"ord_dt": "20240508", "ord_tmd": "100000",
				"odno": "0000000002", "pdno": "000660",
				"sll_buy_dvsn_cd": "01", "ord_qty": "3",
				"ord_unpr": "0", "excg_dvsn_cd": "01",
				"ccld_yn": "Y",
			}},
		})
	})

	start := time.Now().In(types.TimezoneKST()).AddDate(0, 0, -10)
	orders, err := DailyOrders(context.Background(), c, types.AccountNumber{}, start, time.Time{}, types.OrderBuy)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	require.Equal(t, 2, orders.Len())
	assert.Equal(t, "12345678-01", orders.Account.String())

	first, ok := orders.Find("0000000001")
	require.True(t, ok)
	assert.Equal(t, types.OrderBuy, first.Type)

	second, ok := orders.Find("0000000002")
	require.True(t, ok)
	assert.Equal(t, types.OrderSell, second.Type)
	assert.Nil(t, second.Price)
	assert.True(t, second.Cancelled)
}

func TestBalanceSkipsEmptyLines(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, client.PathDomesticBalance, r.URL.Path)
		w.Header().Set("tr_cont", "D")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"rt_cd": "0",
			"output1": []map[string]string{
				{"pdno": "005930", "hldg_qty": "10", "pchs_avg_pric": "70000",
					"prpr": "72000", "evlu_amt": "720000", "evlu_pfls_amt": "20000"},
				{"pdno": "000660", "hldg_qty": "0"},
			},
			"output2": []map[string]string{{"dnca_tot_amt": "1500000"}},
		})
	})

	balance, err := Balance(context.Background(), c, types.AccountNumber{})
	require.NoError(t, err)
	require.Len(t, balance.Stocks, 1)
	assert.Equal(t, "005930", balance.Stocks[0].Symbol)
	assert.Equal(t, "1500000", balance.Deposit(types.CurrencyKRW).String())
	assert.Equal(t, "20000", balance.Profit().String())
}
