package core

import (
	"testing"
)

func TestParseKind(t *testing.T) {
	cases := []struct {
		in   string
		want Kind
		ok   bool
	}{
		{"Income", Income, true},
		{"expense", Expense, true},
		{" BOTH ", Both, true},
		{"transfer", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseKind(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.want, got, err)
		}
		if !tc.ok && err != ErrInvalidKind {
			t.Fatalf("%q expected ErrInvalidKind, got %v", tc.in, err)
		}
	}
}

func TestCategoryValidate(t *testing.T) {
	good := Category{Name: "Rent", Color: "#123abc", Kind: Expense}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []struct {
		c   Category
		err error
	}{
		{Category{Name: " ", Color: "#123abc", Kind: Expense}, ErrEmptyCategoryName},
		{Category{Name: "Rent", Color: "red", Kind: Expense}, ErrInvalidColor},
		{Category{Name: "Rent", Color: "#12345", Kind: Expense}, ErrInvalidColor},
		{Category{Name: "Rent", Color: "#123abc", Kind: "Transfer"}, ErrInvalidKind},
	}
	for i, tc := range bads {
		if err := tc.c.Validate(); err != tc.err {
			t.Fatalf("case %d expected %v, got %v", i, tc.err, err)
		}
	}
}

func TestTransactionInputParse(t *testing.T) {
	tx, err := TransactionInput{Title: " Salary ", Amount: "1500,50", Kind: Income, Date: "Dec 19, 2025"}.Parse()
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if tx.Title != "Salary" || tx.Amount.String() != "1500.5" || tx.Kind != Income {
		t.Fatalf("unexpected transaction: %+v", tx)
	}

	bads := []struct {
		in  TransactionInput
		err error
	}{
		{TransactionInput{Title: "", Amount: "1", Kind: Income}, ErrEmptyTitle},
		{TransactionInput{Title: "a", Amount: "", Kind: Income}, ErrInvalidAmount},
		{TransactionInput{Title: "a", Amount: "ten", Kind: Income}, ErrInvalidAmount},
		{TransactionInput{Title: "a", Amount: "1", Kind: Both}, ErrInvalidKind},
	}
	for i, tc := range bads {
		if _, err := tc.in.Parse(); err != tc.err {
			t.Fatalf("case %d expected %v, got %v", i, tc.err, err)
		}
	}
}

func TestUserValidate(t *testing.T) {
	if err := (User{Name: "Alice"}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (User{Name: "  "}).Validate(); err != ErrEmptyName {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
	if got := (User{}).CurrencyOrDefault(); got != "$" {
		t.Fatalf("expected $, got %q", got)
	}
}

func TestDefaultCategories(t *testing.T) {
	if len(DefaultCategories) != 13 {
		t.Fatalf("expected 13 default categories, got %d", len(DefaultCategories))
	}
	kinds := map[Kind]int{}
	for _, c := range DefaultCategories {
		if err := c.Validate(); err != nil {
			t.Fatalf("default %q invalid: %v", c.Name, err)
		}
		kinds[c.Kind]++
	}
	if kinds[Income] != 4 || kinds[Expense] != 7 || kinds[Both] != 2 {
		t.Fatalf("unexpected kind spread: %v", kinds)
	}
	if !IsDefaultCategoryName(UncategorizedName) || IsDefaultCategoryName("Rent") {
		t.Fatalf("IsDefaultCategoryName mismatch")
	}
}

func TestLookupCurrency(t *testing.T) {
	for _, in := range []string{"€", "eur", "€ (EUR)"} {
		c, ok := LookupCurrency(in)
		if !ok || c.Code != "EUR" {
			t.Fatalf("%q expected EUR, got %+v ok=%v", in, c, ok)
		}
	}
	if _, ok := LookupCurrency("BTC"); ok {
		t.Fatalf("BTC should not be supported")
	}
	if got := Currencies[3].Label(); got != "Rs (LKR)" {
		t.Fatalf("unexpected label %q", got)
	}
}

func TestTransactionValidate(t *testing.T) {
	if err := (Transaction{Title: "Rent", Kind: Expense}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Transaction{Title: " ", Kind: Expense}).Validate(); err != ErrEmptyTitle {
		t.Fatalf("expected %v, got %v", ErrEmptyTitle, err)
	}
	if err := (Transaction{Title: "Rent", Kind: Kind("Transfer")}).Validate(); err != ErrInvalidKind {
		t.Fatalf("expected %v, got %v", ErrInvalidKind, err)
	}
}

func TestPaletteColor(t *testing.T) {
	n := len(CategoryPalette)
	if got := PaletteColor(0); got != CategoryPalette[0] {
		t.Errorf("PaletteColor(0) = %s", got)
	}
	if got := PaletteColor(n + 2); got != CategoryPalette[2] {
		t.Errorf("PaletteColor(%d) = %s, want %s", n+2, got, CategoryPalette[2])
	}
	for _, c := range CategoryPalette {
		if !ValidColor(c) {
			t.Errorf("palette color %s is not valid", c)
		}
	}
}
