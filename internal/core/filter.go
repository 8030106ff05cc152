package core

import (
	"strings"
	"time"
)

// Filter narrows a transaction list for the history view. Zero values
// match everything.
type Filter struct {
	Kind  Kind
	Month time.Month // 0 means all months
	Title string     // case-insensitive exact match
}

// Matches reports whether t passes every set criterion.
func (f Filter) Matches(t Transaction) bool {
	if f.Kind != "" && t.Kind != f.Kind {
		return false
	}
	if f.Month != 0 && !dateInMonth(t.Date, f.Month) {
		return false
	}
	if f.Title != "" && !strings.EqualFold(t.Title, f.Title) {
		return false
	}
	return true
}

// FilterTransactions returns the transactions matching f, preserving order.
func FilterTransactions(txs []Transaction, f Filter) []Transaction {
	out := make([]Transaction, 0, len(txs))
	for _, t := range txs {
		if f.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

// DistinctTitles lists unique titles of the given kind in first-seen order.
func DistinctTitles(txs []Transaction, kind Kind) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, t := range txs {
		if kind != "" && t.Kind != kind {
			continue
		}
		if _, ok := seen[t.Title]; ok {
			continue
		}
		seen[t.Title] = struct{}{}
		out = append(out, t.Title)
	}
	return out
}

// dateInMonth parses DateLayout first. Older rows hold arbitrary date
// strings, so fall back to looking for the short month name.
func dateInMonth(date string, m time.Month) bool {
	if ts, err := time.Parse(DateLayout, strings.TrimSpace(date)); err == nil {
		return ts.Month() == m
	}
	return strings.Contains(date, m.String()[:3])
}
