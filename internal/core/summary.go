package core

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Summary holds the dashboard totals for a list of transactions.
type Summary struct {
	TotalBalance decimal.Decimal
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
}

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Color  string
	Amount decimal.Decimal
}

// Summarize sums income and expense amounts. Balance is always
// income minus expense.
func Summarize(txs []Transaction) Summary {
	income := decimal.Zero
	expense := decimal.Zero
	for _, t := range txs {
		switch t.Kind {
		case Income:
			income = income.Add(t.Amount)
		case Expense:
			expense = expense.Add(t.Amount)
		}
	}
	return Summary{
		TotalBalance: income.Sub(expense),
		TotalIncome:  income,
		TotalExpense: expense,
	}
}

// TotalsByCategory groups transactions of the given kind by category name,
// largest first. Ties are broken by name.
func TotalsByCategory(txs []Transaction, kind Kind) []CategoryAmount {
	idx := map[string]int{}
	var out []CategoryAmount
	for _, t := range txs {
		if t.Kind != kind {
			continue
		}
		name := t.CategoryName
		if name == "" {
			name = UncategorizedName
		}
		i, ok := idx[name]
		if !ok {
			color := t.CategoryColor
			if color == "" {
				color = UncategorizedColor
			}
			idx[name] = len(out)
			out = append(out, CategoryAmount{Name: name, Color: color, Amount: t.Amount})
			continue
		}
		out[i].Amount = out[i].Amount.Add(t.Amount)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].Amount.Cmp(out[j].Amount); c != 0 {
			return c > 0
		}
		return out[i].Name < out[j].Name
	})
	return out
}
