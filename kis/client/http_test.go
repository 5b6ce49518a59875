package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openkis/gokis/pkg/config"
)

func testServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc(PathToken, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "test-token",
			"token_type":   "Bearer",
			"expires_in":   86400,
		})
	})
	mux.HandleFunc("/", handler)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testClient(t *testing.T, host string) *Client {
	t.Helper()
	cfg := &config.Config{
		AppKey:    "app-key",
		AppSecret: "app-secret",
		Account:   "12345678-01",
	}
	c, err := New(cfg, WithHost(host))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestAccessTokenDecodesWithoutContentType(t *testing.T) {
	srv := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected call to %s", r.URL.Path)
	})
	// the token handler in testServer never sets Content-Type, so the
	// response sniffs as text/plain; decoding must not depend on it
	c := testClient(t, srv.URL)

	token, err := c.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "test-token", token)

	// second call reuses the cached token
	token, err = c.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "test-token", token)
}

func TestFetchDecodesPayload(t *testing.T) {
	var gotTrID, gotAuth string
	srv := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotTrID = r.Header.Get("tr_id")
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"rt_cd":  "0",
			"msg_cd": "MCA00000",
			"msg1":   "ok",
			"output": map[string]string{"stck_prpr": "72000"},
		})
	})
	c := testClient(t, srv.URL)

	var out struct {
		Output struct {
			Price string `json:"stck_prpr"`
		} `json:"output"`
	}
	res, err := c.Fetch(context.Background(), Request{
		Path:   PathDomesticPrice,
		TrID:   TrDomesticPrice,
		Params: map[string]string{"FID_INPUT_ISCD": "005930"},
	}, &out)
	require.NoError(t, err)
	assert.True(t, res.Last)
	assert.Equal(t, "72000", out.Output.Price)
	assert.Equal(t, TrDomesticPrice, gotTrID)
	assert.Equal(t, "Bearer test-token", gotAuth)
}

func TestFetchAPIError(t *testing.T) {
	srv := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"rt_cd":  "1",
			"msg_cd": "EGW00201",
			"msg1":   "invalid request",
		})
	})
	c := testClient(t, srv.URL)

	_, err := c.Fetch(context.Background(), Request{Path: PathDomesticPrice, TrID: TrDomesticPrice}, nil)
	require.Error(t, err)
	apiErr, ok := IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, "EGW00201", apiErr.MessageCd)
}

func TestFetchPagination(t *testing.T) {
	calls := 0
	srv := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			assert.Equal(t, "", r.Header.Get("tr_cont"))
			w.Header().Set("tr_cont", "F")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"rt_cd":          "0",
				"ctx_area_fk100": "fk-1",
				"ctx_area_nk100": "nk-1",
			})
			return
		}
		assert.Equal(t, "N", r.Header.Get("tr_cont"))
		assert.Equal(t, "fk-1", r.URL.Query().Get("CTX_AREA_FK100"))
		w.Header().Set("tr_cont", "D")
		_ = json.NewEncoder(w).Encode(map[string]any{"rt_cd": "0"})
	})
	c := testClient(t, srv.URL)

	page := FirstPage(100)
	res, err := c.Fetch(context.Background(), Request{
		Path: PathDomesticDailyOrders,
		TrID: TrDomesticDailyOrdersRecent,
		Page: &page,
	}, nil)
	require.NoError(t, err)
	assert.False(t, res.Last)
	assert.Equal(t, "nk-1", res.Next.Key)

	res, err = c.Fetch(context.Background(), Request{
		Path: PathDomesticDailyOrders,
		TrID: TrDomesticDailyOrdersRecent,
		Page: &res.Next,
	}, nil)
	require.NoError(t, err)
	assert.True(t, res.Last)
	assert.Equal(t, 2, calls)
}

func TestFetchWideCursorRoundTrips(t *testing.T) {
	calls := 0
	srv := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Header().Set("tr_cont", "F")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"rt_cd":          "0",
				"ctx_area_fk200": "wide-fk",
				"ctx_area_nk200": "wide-nk",
			})
			return
		}
		// the 200-byte cursor must come back under the 200-byte names
		assert.Equal(t, "wide-fk", r.URL.Query().Get("CTX_AREA_FK200"))
		assert.Equal(t, "wide-nk", r.URL.Query().Get("CTX_AREA_NK200"))
		assert.Empty(t, r.URL.Query().Get("CTX_AREA_FK100"))
		w.Header().Set("tr_cont", "D")
		_ = json.NewEncoder(w).Encode(map[string]any{"rt_cd": "0"})
	})
	c := testClient(t, srv.URL)

	page := FirstPage(100)
	res, err := c.Fetch(context.Background(), Request{
		Path: PathDomesticBalance,
		TrID: TrDomesticBalance,
		Page: &page,
	}, nil)
	require.NoError(t, err)
	require.False(t, res.Last)
	assert.True(t, res.Next.Wide)

	res, err = c.Fetch(context.Background(), Request{
		Path: PathDomesticBalance,
		TrID: TrDomesticBalance,
		Page: &res.Next,
	}, nil)
	require.NoError(t, err)
	assert.True(t, res.Last)
	assert.Equal(t, 2, calls)
}
