// Package core provides money parsing and handling utilities.
//
// This file contains functions for parsing monetary amounts and exchange
// rates typed by the user.
package core

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// ParseAmount converts a decimal string typed by the user into an amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and
// rejects blank, signed, malformed and zero values.
//
// Examples:
//
//	ParseAmount("12.34") -> 12.34, nil
//	ParseAmount("12,34") -> 12.34, nil
//	ParseAmount("-1")    -> 0, ErrInvalidAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	d, ok := parseUnsigned(s)
	if !ok || !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// ParseRate parses an exchange rate. Rates must be strictly positive.
func ParseRate(s string) (decimal.Decimal, error) {
	d, ok := parseUnsigned(s)
	if !ok || !d.IsPositive() {
		return decimal.Zero, ErrInvalidRate
	}
	return d, nil
}

// InvertRate turns a "1 new = x old" rate into the "old -> new" factor.
func InvertRate(rate decimal.Decimal) (decimal.Decimal, error) {
	if !rate.IsPositive() {
		return decimal.Zero, ErrInvalidRate
	}
	return one.DivRound(rate, 16), nil
}

// IsIdentityRate reports whether scaling by rate would change nothing.
func IsIdentityRate(rate decimal.Decimal) bool {
	return rate.Equal(one)
}

func parseUnsigned(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	if strings.Count(s, ".") > 1 {
		return decimal.Zero, false
	}
	for _, r := range s {
		if r != '.' && !unicode.IsDigit(r) {
			return decimal.Zero, false
		}
	}
	if s == "." {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
