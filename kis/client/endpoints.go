package client

// REST hosts and websocket endpoints per domain.
const (
	RealHost    = "https://openapi.koreainvestment.com:9443"
	VirtualHost = "https://openapivts.koreainvestment.com:29443"

	RealWSHost    = "ws://ops.koreainvestment.com:21000"
	VirtualWSHost = "ws://ops.koreainvestment.com:31000"
)

// OAuth endpoints.
const (
	PathToken    = "/oauth2/tokenP"
	PathRevoke   = "/oauth2/revokeP"
	PathApproval = "/oauth2/Approval"
)

// Domestic stock endpoints.
const (
	PathDomesticDailyOrders = "/uapi/domestic-stock/v1/trading/inquire-daily-ccld"
	PathDomesticBalance     = "/uapi/domestic-stock/v1/trading/inquire-balance"
	PathDomesticPrice       = "/uapi/domestic-stock/v1/quotations/inquire-price"
	PathDomesticDailyChart  = "/uapi/domestic-stock/v1/quotations/inquire-daily-itemchartprice"
	PathStockInfo           = "/uapi/domestic-stock/v1/quotations/search-info"
)

// Overseas stock endpoints.
const (
	PathOverseasDailyChart = "/uapi/overseas-price/v1/quotations/dailyprice"
)

// Transaction IDs. Virtual-domain variants swap the leading T for a V.
const (
	TrDomesticDailyOrdersRecent        = "TTTC8001R"
	TrDomesticDailyOrdersOld           = "CTSC9115R"
	TrDomesticDailyOrdersRecentVirtual = "VTTC8001R"
	TrDomesticDailyOrdersOldVirtual    = "VTSC9115R"

	TrDomesticBalance        = "TTTC8434R"
	TrDomesticBalanceVirtual = "VTTC8434R"

	TrDomesticPrice      = "FHKST01010100"
	TrDomesticDailyChart = "FHKST03010100"
	TrOverseasDailyChart = "HHDFS76240000"
	TrStockInfo          = "CTPF1604R"

	TrRealtimePrice = "H0STCNT0"
)
