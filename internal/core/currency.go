package core

import "strings"

// Currency is a selectable display currency.
type Currency struct {
	Symbol string
	Code   string
}

// Currencies lists the supported display currencies in menu order.
var Currencies = []Currency{
	{Symbol: "$", Code: "USD"},
	{Symbol: "€", Code: "EUR"},
	{Symbol: "£", Code: "GBP"},
	{Symbol: "Rs", Code: "LKR"},
	{Symbol: "₹", Code: "INR"},
	{Symbol: "¥", Code: "JPY"},
}

// Label renders the currency as shown in pickers, e.g. "€ (EUR)".
func (c Currency) Label() string {
	return c.Symbol + " (" + c.Code + ")"
}

// LookupCurrency finds a currency by symbol, code or picker label.
func LookupCurrency(s string) (Currency, bool) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, ' '); i > 0 {
		s = s[:i]
	}
	for _, c := range Currencies {
		if c.Symbol == s || strings.EqualFold(c.Code, s) {
			return c, true
		}
	}
	return Currency{}, false
}
