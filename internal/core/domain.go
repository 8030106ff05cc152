package core

import (
	"errors"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	Income  Kind = "Income"
	Expense Kind = "Expense"
	Both    Kind = "Both"
)

const (
	UncategorizedName  = "Uncategorized"
	UncategorizedColor = "#757575"
	DefaultCurrency    = "$"
	DefaultUserName    = "User"

	// DateLayout is how new transactions stamp their date ("Dec 19, 2025").
	DateLayout = "Jan 02, 2006"
)

type (
	Kind string

	Category struct {
		ID        int64
		Name      string
		Color     string // hex RGB, e.g. "#4CAF50"
		Kind      Kind
		IsDefault bool
	}

	Transaction struct {
		ID     int64
		Title  string
		Amount decimal.Decimal
		Kind   Kind
		Date   string // free-form, see DateLayout
		Note   string

		// Joined in at read time.
		CategoryName  string
		CategoryColor string
	}

	User struct {
		ID             int64
		Name           string
		AvatarPath     string
		IsCustomAvatar bool
		Currency       string
	}

	// TransactionInput is the raw form entry before parsing.
	TransactionInput struct {
		Title      string
		Amount     string
		Kind       Kind
		Date       string
		Note       string
		CategoryID *int64
	}
)

var (
	ErrEmptyTitle        = errors.New("title required")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidKind       = errors.New("invalid kind")
	ErrEmptyName         = errors.New("name cannot be empty")
	ErrEmptyCategoryName = errors.New("category name required")
	ErrInvalidColor      = errors.New("invalid color")
	ErrInvalidRate       = errors.New("invalid rate")
	ErrInvalidCurrency   = errors.New("unsupported currency")
)

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// IsValid reports whether k is one of the known kinds.
func (k Kind) IsValid() bool {
	switch k {
	case Income, Expense, Both:
		return true
	default:
		return false
	}
}

// IsTransactionKind reports whether k can be used on a transaction.
func (k Kind) IsTransactionKind() bool {
	return k == Income || k == Expense
}

func (k Kind) String() string {
	return string(k)
}

// ParseKind accepts the kind names case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income":
		return Income, nil
	case "expense":
		return Expense, nil
	case "both":
		return Both, nil
	}
	return "", ErrInvalidKind
}

// ValidColor reports whether s is a #RRGGBB or #AARRGGBB string.
func ValidColor(s string) bool {
	return hexColor.MatchString(s)
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyCategoryName
	}
	if !ValidColor(c.Color) {
		return ErrInvalidColor
	}
	if !c.Kind.IsValid() {
		return ErrInvalidKind
	}
	return nil
}

// Validate checks the fields the entry form requires. Amounts are not
// required to be positive here; that is only enforced when parsing input.
func (t Transaction) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTitle
	}
	if !t.Kind.IsTransactionKind() {
		return ErrInvalidKind
	}
	return nil
}

func (u User) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

// CurrencyOrDefault returns the stored currency symbol or "$".
func (u User) CurrencyOrDefault() string {
	if u.Currency == "" {
		return DefaultCurrency
	}
	return u.Currency
}

// Parse turns form input into a Transaction. Nothing is written when an
// error is returned.
func (in TransactionInput) Parse() (Transaction, error) {
	amount, err := ParseAmount(in.Amount)
	if err != nil {
		return Transaction{}, err
	}
	tx := Transaction{
		Title:  strings.TrimSpace(in.Title),
		Amount: amount,
		Kind:   in.Kind,
		Date:   strings.TrimSpace(in.Date),
		Note:   strings.TrimSpace(in.Note),
	}
	if err := tx.Validate(); err != nil {
		return Transaction{}, err
	}
	return tx, nil
}
