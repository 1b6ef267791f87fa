package services

// fallbackRates is the static last-resort rate table, expressed as units per
// 1 USD. It is not refreshed at runtime; values are rough approximations and
// any result derived from them is surfaced with source "fallback" so callers
// can treat it as low-confidence. The cross rate between any two codes is
// computed via the USD base: rate(A,B) = table[B] / table[A].
var fallbackRates = map[string]float64{
	"USD": 1.0,
	"EUR": 0.92,
	"GBP": 0.79,
	"JPY": 150.0,
	"CHF": 0.88,
	"CAD": 1.36,
	"AUD": 1.52,
	"NZD": 1.64,
	"CNY": 7.23,
	"HKD": 7.81,
	"SGD": 1.34,
	"INR": 83.2,
	"KRW": 1330.0,
	"TWD": 31.7,
	"THB": 36.2,
	"MYR": 4.72,
	"IDR": 15600.0,
	"PHP": 56.1,
	"VND": 24500.0,
	"BRL": 5.02,
	"MXN": 17.1,
	"ARS": 870.0,
	"CLP": 950.0,
	"COP": 3900.0,
	"PEN": 3.71,
	"ZAR": 18.8,
	"NGN": 1450.0,
	"EGP": 47.3,
	"TRY": 32.1,
	"ILS": 3.68,
	"AED": 3.67,
	"SAR": 3.75,
	"SEK": 10.5,
	"NOK": 10.6,
	"DKK": 6.87,
	"PLN": 3.98,
	"CZK": 23.2,
	"HUF": 355.0,
	"RON": 4.58,

	// Crypto and metal codes are served exclusively from this table; the
	// converter never calls the crypto or metals clients.
	"BTC": 0.000015,
	"ETH": 0.00031,
	"XRP": 1.82,
	"XAU": 0.00043,
	"XAG": 0.036,
}

// nonFiatCodes are the codes the live fiat-rate source does not carry; pairs
// involving them skip straight to the fallback table.
var nonFiatCodes = map[string]bool{
	"BTC": true,
	"ETH": true,
	"XRP": true,
	"XAU": true,
	"XAG": true,
}

// fallbackRate computes the cross rate between two codes via the USD base.
// Both codes must be present in the table or the fallback is unavailable.
func fallbackRate(from, to string) (float64, bool) {
	fromPerUSD, okFrom := fallbackRates[from]
	toPerUSD, okTo := fallbackRates[to]
	if !okFrom || !okTo || fromPerUSD == 0 {
		return 0, false
	}
	return toPerUSD / fromPerUSD, true
}
