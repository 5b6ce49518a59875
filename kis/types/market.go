// Package types holds the broker's domain objects: markets, accounts,
// orders, balances, quotes and chart bars. All monetary fields use
// shopspring decimals; times carry their market's timezone.
package types

import "time"

// MarketType identifies an exchange.
type MarketType string

const (
	MarketKRX      MarketType = "KRX"
	MarketNASDAQ   MarketType = "NASDAQ"
	MarketNYSE     MarketType = "NYSE"
	MarketAMEX     MarketType = "AMEX"
	MarketTokyo    MarketType = "TKSE"
	MarketShanghai MarketType = "SHAA"
	MarketShenzhen MarketType = "SZAA"
	MarketHanoi    MarketType = "HASE"
	MarketHochimin MarketType = "VNSE"
	MarketHongKong MarketType = "HKEX"
)

// CountryType is an ISO-ish country discriminator used by a few endpoints.
type CountryType string

const (
	CountryKR CountryType = "KR"
	CountryUS CountryType = "US"
	CountryJP CountryType = "JP"
	CountryCN CountryType = "CN"
	CountryVN CountryType = "VN"
	CountryHK CountryType = "HK"
)

// CurrencyType is the settlement currency of a market.
type CurrencyType string

const (
	CurrencyKRW CurrencyType = "KRW"
	CurrencyUSD CurrencyType = "USD"
	CurrencyJPY CurrencyType = "JPY"
	CurrencyCNY CurrencyType = "CNY"
	CurrencyVND CurrencyType = "VND"
	CurrencyHKD CurrencyType = "HKD"
)

var marketCurrencies = map[MarketType]CurrencyType{
	MarketKRX:      CurrencyKRW,
	MarketNASDAQ:   CurrencyUSD,
	MarketNYSE:     CurrencyUSD,
	MarketAMEX:     CurrencyUSD,
	MarketTokyo:    CurrencyJPY,
	MarketShanghai: CurrencyCNY,
	MarketShenzhen: CurrencyCNY,
	MarketHanoi:    CurrencyVND,
	MarketHochimin: CurrencyVND,
	MarketHongKong: CurrencyHKD,
}

// MarketCurrency returns the settlement currency for market.
func MarketCurrency(market MarketType) CurrencyType {
	if c, ok := marketCurrencies[market]; ok {
		return c
	}
	return CurrencyKRW
}

var marketTimezoneNames = map[MarketType]string{
	MarketKRX:      "Asia/Seoul",
	MarketNASDAQ:   "America/New_York",
	MarketNYSE:     "America/New_York",
	MarketAMEX:     "America/New_York",
	MarketTokyo:    "Asia/Tokyo",
	MarketShanghai: "Asia/Shanghai",
	MarketShenzhen: "Asia/Shanghai",
	MarketHanoi:    "Asia/Ho_Chi_Minh",
	MarketHochimin: "Asia/Ho_Chi_Minh",
	MarketHongKong: "Asia/Hong_Kong",
}

// MarketTimezone returns the market's local timezone, falling back to KST
// when the zone database is unavailable.
func MarketTimezone(market MarketType) *time.Location {
	name, ok := marketTimezoneNames[market]
	if !ok {
		name = "Asia/Seoul"
	}
	if loc, err := time.LoadLocation(name); err == nil {
		return loc
	}
	return TimezoneKST()
}

var kst = time.FixedZone("KST", 9*60*60)

// TimezoneKST is the broker's home zone; all KST-stamped responses use it.
func TimezoneKST() *time.Location {
	if loc, err := time.LoadLocation("Asia/Seoul"); err == nil {
		return loc
	}
	return kst
}

// marketShortCodes are the overseas exchange codes wire params expect.
var marketShortCodes = map[MarketType]string{
	MarketNASDAQ:   "NAS",
	MarketNYSE:     "NYS",
	MarketAMEX:     "AMS",
	MarketTokyo:    "TSE",
	MarketShanghai: "SHS",
	MarketShenzhen: "SZS",
	MarketHanoi:    "HNX",
	MarketHochimin: "HSX",
	MarketHongKong: "HKS",
}

// MarketShortCode returns the overseas wire code for market, empty for KRX.
func MarketShortCode(market MarketType) string {
	return marketShortCodes[market]
}

// SignType is the previous-close comparison sign attached to quotes and bars.
type SignType string

const (
	SignUpper   SignType = "upper" // limit up
	SignRise    SignType = "rise"
	SignSteady  SignType = "steady"
	SignLower   SignType = "lower" // limit down
	SignDecline SignType = "decline"
)

var signCodes = map[string]SignType{
	"1": SignUpper,
	"2": SignRise,
	"3": SignSteady,
	"4": SignLower,
	"5": SignDecline,
}

// SignFromCode maps a wire sign digit; unknown codes read as steady.
func SignFromCode(code string) SignType {
	if s, ok := signCodes[code]; ok {
		return s
	}
	return SignSteady
}

// ExDateType classifies ex-rights/ex-dividend dates on domestic chart bars.
type ExDateType string

const (
	ExDateNone             ExDateType = "none"
	ExDateExRights         ExDateType = "ex_rights"
	ExDateExDividend       ExDateType = "ex_dividend"
	ExDateExDistribution   ExDateType = "ex_distribution"
	ExDateExRightsDividend ExDateType = "ex_rights_dividend"
	ExDateInterimDividend  ExDateType = "interim_dividend"
	ExDateRightsInterim    ExDateType = "rights_interim_dividend"
	ExDateEtc              ExDateType = "etc"
)

var exDateCodes = map[string]ExDateType{
	"00": ExDateNone,
	"01": ExDateExRights,
	"02": ExDateExDividend,
	"03": ExDateExDistribution,
	"04": ExDateExRightsDividend,
	"05": ExDateInterimDividend,
	"06": ExDateRightsInterim,
	"99": ExDateEtc,
}

// ExDateFromCode maps a wire ex-date code; unknown codes read as none.
func ExDateFromCode(code string) ExDateType {
	if e, ok := exDateCodes[code]; ok {
		return e
	}
	return ExDateNone
}

// ExchangeVenue is what the domestic daily-order endpoint reports per fill:
// country, market when determinable, and an implied order condition.
type ExchangeVenue struct {
	Country   CountryType
	Market    MarketType // empty when the code does not pin one market
	Condition OrderCondition
}

// domesticExchangeCodes maps the exchange division code on domestic daily
// orders. Codes 61 and 81 imply before-/extended-hours conditions.
var domesticExchangeCodes = map[string]ExchangeVenue{
	"01": {Country: CountryKR, Market: MarketKRX},
	"02": {Country: CountryKR, Market: MarketKRX},
	"03": {Country: CountryKR, Market: MarketKRX},
	"04": {Country: CountryKR, Market: MarketKRX},
	"05": {Country: CountryKR, Market: MarketKRX},
	"06": {Country: CountryKR, Market: MarketKRX},
	"07": {Country: CountryKR, Market: MarketKRX},
	"21": {Country: CountryKR, Market: MarketKRX},
	"51": {Country: CountryHK},
	"52": {Country: CountryCN, Market: MarketShanghai},
	"53": {Country: CountryCN, Market: MarketShenzhen},
	"54": {Country: CountryHK},
	"55": {Country: CountryUS},
	"56": {Country: CountryJP, Market: MarketTokyo},
	"57": {Country: CountryCN, Market: MarketShanghai},
	"58": {Country: CountryCN, Market: MarketShenzhen},
	"59": {Country: CountryVN},
	"61": {Country: CountryKR, Market: MarketKRX, Condition: ConditionBefore},
	"64": {Country: CountryKR, Market: MarketKRX},
	"65": {Country: CountryKR, Market: MarketKRX},
	"81": {Country: CountryKR, Market: MarketKRX, Condition: ConditionExtended},
}

// VenueFromExchangeCode resolves a domestic exchange division code.
func VenueFromExchangeCode(code string) (ExchangeVenue, bool) {
	v, ok := domesticExchangeCodes[code]
	return v, ok
}
