package utils

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// fallbackSymbols covers the codes the ISO currency tables do not know
// (crypto, metals) plus a few common fiat symbols for the degraded path.
var fallbackSymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"INR": "₹",
	"KRW": "₩",
	"BTC": "₿",
	"ETH": "Ξ",
}

// FormatCurrencyAmount renders an amount in a locale-aware currency format.
// When the locale or the currency code is not supported by the formatting
// tables (crypto and metal codes are not ISO currencies), it degrades to a
// plain "symbol + number" rendering with two decimal places.
func FormatCurrencyAmount(amount float64, currencyCode, locale string) string {
	unit, err := currency.ParseISO(currencyCode)
	if err != nil {
		return plainFormat(amount, currencyCode)
	}

	printer := message.NewPrinter(parseLocale(locale))
	return printer.Sprintf("%v", currency.Symbol(unit.Amount(amount)))
}

// parseLocale accepts both a bare BCP 47 tag ("de-DE") and a raw
// Accept-Language header ("de-DE,de;q=0.9,en;q=0.8"), picking the most
// preferred tag from the latter. Unparseable input falls back to English.
func parseLocale(locale string) language.Tag {
	if tag, err := language.Parse(locale); err == nil {
		return tag
	}
	if tags, _, err := language.ParseAcceptLanguage(locale); err == nil && len(tags) > 0 {
		return tags[0]
	}
	return language.English
}

func plainFormat(amount float64, currencyCode string) string {
	symbol, ok := fallbackSymbols[currencyCode]
	if !ok {
		symbol = currencyCode + " "
	}
	return symbol + decimal.NewFromFloat(amount).Round(2).String()
}
