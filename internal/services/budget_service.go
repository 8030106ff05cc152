package services

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"budget/internal/cache"
	"budget/internal/core"
	"budget/internal/log"
)

// Store is the error-returning persistence layer behind BudgetService.
// *storage.SQLiteRepository implements it.
type Store interface {
	AddTransaction(ctx context.Context, tx core.Transaction, categoryID *int64) (int64, error)
	ListTransactions(ctx context.Context) ([]core.Transaction, error)
	DeleteTransaction(ctx context.Context, id int64) error
	ScaleTransactionAmounts(ctx context.Context, rate decimal.Decimal) (int64, error)

	SaveUser(ctx context.Context, u core.User) (int64, error)
	GetUser(ctx context.Context) (*core.User, error)

	AddCategory(ctx context.Context, c core.Category) (int64, error)
	ListCategories(ctx context.Context) ([]core.Category, error)
	ListCategoriesByKind(ctx context.Context, kind core.Kind) ([]core.Category, error)
	UpdateCategoryColor(ctx context.Context, id int64, color string) error
	DeleteCategory(ctx context.Context, id int64) (bool, error)

	Close() error
}

const allCategoriesKey = "*"

// BudgetService is the boundary the presentation layer talks to. Store
// failures never reach the caller of the plain accessors: they are logged
// and turned into empty results, zero ids or no-ops.
type BudgetService struct {
	store      Store
	categories cache.Cache[[]core.Category]
	logger     *log.Logger
	ops        *log.OperationLogger
	now        func() time.Time
}

// NewBudgetService wires a service over store. A nil categories cache gets
// a small default LRU.
func NewBudgetService(store Store, categories cache.Cache[[]core.Category], logger *log.Logger) *BudgetService {
	if logger == nil {
		logger = log.Discard()
	}
	if categories == nil {
		categories = cache.NewLRUCache[[]core.Category](8, 5*time.Minute)
	}
	logger = logger.WithComponent(log.ComponentBudget)
	return &BudgetService{
		store:      store,
		categories: categories,
		logger:     logger,
		ops:        log.NewOperationLogger(logger),
		now:        time.Now,
	}
}

// Transactions

// AddTransaction stores tx and returns its id, or 0 when nothing was written.
func (s *BudgetService) AddTransaction(ctx context.Context, tx core.Transaction, categoryID *int64) int64 {
	id, err := s.store.AddTransaction(ctx, tx, categoryID)
	if err != nil {
		s.ops.LogFailure(ctx, "Failed to add transaction", err, log.OpCreate,
			log.NewFields().WithTransaction(0, tx.Kind.String(), tx.Amount.String()))
		return 0
	}
	return id
}

// Transactions returns every transaction, newest first.
func (s *BudgetService) Transactions(ctx context.Context) []core.Transaction {
	txs, err := s.store.ListTransactions(ctx)
	if err != nil {
		s.ops.LogFailure(ctx, "Failed to load transactions", err, log.OpList, nil)
		return []core.Transaction{}
	}
	if txs == nil {
		return []core.Transaction{}
	}
	return txs
}

func (s *BudgetService) DeleteTransaction(ctx context.Context, id int64) {
	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		s.ops.LogFailure(ctx, "Failed to delete transaction", err, log.OpDelete,
			log.NewFields().With(log.FieldTransactionID, id))
	}
}

// UpdateAllTransactionAmounts multiplies every stored amount by rate.
func (s *BudgetService) UpdateAllTransactionAmounts(ctx context.Context, rate decimal.Decimal) {
	if _, err := s.store.ScaleTransactionAmounts(ctx, rate); err != nil {
		s.ops.LogFailure(ctx, "Failed to scale transaction amounts", err, log.OpUpdate,
			log.NewFields().With(log.FieldRate, rate.String()))
	}
}

// RecordTransaction validates form input and stores it. An empty date is
// stamped with today's date.
func (s *BudgetService) RecordTransaction(ctx context.Context, in core.TransactionInput) (int64, error) {
	tx, err := in.Parse()
	if err != nil {
		s.ops.LogRejected(ctx, "Transaction rejected", err, log.ErrorTypeValidation, log.OpValidate,
			log.NewFields().With(log.FieldKind, in.Kind.String()))
		return 0, err
	}
	if tx.Date == "" {
		tx.Date = s.now().Format(core.DateLayout)
	}

	id, err := s.store.AddTransaction(ctx, tx, in.CategoryID)
	if err != nil {
		s.ops.LogFailure(ctx, "Failed to record transaction", err, log.OpCreate,
			log.NewFields().WithTransaction(0, tx.Kind.String(), tx.Amount.String()))
		return 0, fmt.Errorf("record transaction: %w", err)
	}

	s.ops.LogSuccess(ctx, "Transaction recorded", log.OpCreate,
		log.NewFields().WithTransaction(id, tx.Kind.String(), tx.Amount.String()))
	return id, nil
}

// History returns the transactions matching f, newest first.
func (s *BudgetService) History(ctx context.Context, f core.Filter) []core.Transaction {
	return core.FilterTransactions(s.Transactions(ctx), f)
}

// User

func (s *BudgetService) SaveUser(ctx context.Context, u core.User) {
	if _, err := s.store.SaveUser(ctx, u); err != nil {
		s.ops.LogFailure(ctx, "Failed to save user", err, log.OpUpdate,
			log.NewFields().With(log.FieldUserID, u.ID))
	}
}

// User returns the stored user, or nil when none exists or the read failed.
func (s *BudgetService) User(ctx context.Context) *core.User {
	u, err := s.store.GetUser(ctx)
	if err != nil {
		s.ops.LogFailure(ctx, "Failed to load user", err, log.OpRead, nil)
		return nil
	}
	return u
}

// UpdateProfile sets the user's name and avatar, keeping the currency.
func (s *BudgetService) UpdateProfile(ctx context.Context, name, avatarPath string, custom bool) error {
	name = strings.TrimSpace(name)
	if name == "" {
		s.ops.LogRejected(ctx, "Profile rejected", core.ErrEmptyName, log.ErrorTypeValidation, log.OpValidate, nil)
		return core.ErrEmptyName
	}

	u, err := s.store.GetUser(ctx)
	if err != nil {
		s.ops.LogFailure(ctx, "Failed to load user", err, log.OpRead, nil)
		return fmt.Errorf("load user: %w", err)
	}
	if u == nil {
		u = &core.User{Currency: core.DefaultCurrency}
	}
	u.Name = name
	u.AvatarPath = avatarPath
	u.IsCustomAvatar = custom

	id, err := s.store.SaveUser(ctx, *u)
	if err != nil {
		s.ops.LogFailure(ctx, "Failed to save profile", err, log.OpUpdate,
			log.NewFields().With(log.FieldUserID, u.ID))
		return fmt.Errorf("save user: %w", err)
	}
	s.ops.LogSuccess(ctx, "Profile updated", log.OpUpdate, log.NewFields().With(log.FieldUserID, id))
	return nil
}

// ConvertCurrency switches the display currency. Unless rate is 1 every
// stored amount is multiplied by it first. rate converts old amounts into
// the new currency.
func (s *BudgetService) ConvertCurrency(ctx context.Context, newCurrency string, rate decimal.Decimal) error {
	cur, ok := core.LookupCurrency(newCurrency)
	if !ok {
		s.ops.LogRejected(ctx, "Currency rejected", core.ErrInvalidCurrency, log.ErrorTypeValidation, log.OpValidate,
			log.NewFields().With(log.FieldCurrency, newCurrency))
		return core.ErrInvalidCurrency
	}
	if !rate.IsPositive() {
		s.ops.LogRejected(ctx, "Rate rejected", core.ErrInvalidRate, log.ErrorTypeValidation, log.OpValidate,
			log.NewFields().With(log.FieldRate, rate.String()))
		return core.ErrInvalidRate
	}

	fields := log.NewFields().
		With(log.FieldCurrency, cur.Symbol).
		With(log.FieldRate, rate.String())

	if !core.IsIdentityRate(rate) {
		n, err := s.store.ScaleTransactionAmounts(ctx, rate)
		if err != nil {
			s.ops.LogFailure(ctx, "Failed to convert amounts", err, log.OpConvert, fields)
			return fmt.Errorf("scale amounts: %w", err)
		}
		fields = fields.With(log.FieldCount, n)
	}

	u, err := s.store.GetUser(ctx)
	if err != nil {
		s.ops.LogFailure(ctx, "Failed to load user", err, log.OpRead, fields)
		return fmt.Errorf("load user: %w", err)
	}
	if u == nil {
		u = &core.User{Name: core.DefaultUserName}
	}
	u.Currency = cur.Symbol

	if _, err := s.store.SaveUser(ctx, *u); err != nil {
		s.ops.LogFailure(ctx, "Failed to save currency", err, log.OpUpdate, fields)
		return fmt.Errorf("save user: %w", err)
	}

	s.ops.LogSuccess(ctx, "Currency converted", log.OpConvert, fields)
	return nil
}

// Categories

// AddCategory stores c and returns its id, or 0 when nothing was written.
func (s *BudgetService) AddCategory(ctx context.Context, c core.Category) int64 {
	id, err := s.store.AddCategory(ctx, c)
	if err != nil {
		s.ops.LogFailure(ctx, "Failed to add category", err, log.OpCreate,
			log.NewFields().WithCategory(0, c.Name))
		return 0
	}
	s.categories.Clear()
	return id
}

// CreateCategory validates and stores a user-defined category. An empty
// color takes the next palette color.
func (s *BudgetService) CreateCategory(ctx context.Context, name, color string, kind core.Kind) (int64, error) {
	c := core.Category{
		Name:  strings.TrimSpace(name),
		Color: strings.TrimSpace(color),
		Kind:  kind,
	}
	if c.Color == "" {
		c.Color = core.PaletteColor(len(s.Categories(ctx)) - len(core.DefaultCategories))
	}
	if err := c.Validate(); err != nil {
		s.ops.LogRejected(ctx, "Category rejected", err, log.ErrorTypeValidation, log.OpValidate,
			log.NewFields().WithCategory(0, c.Name))
		return 0, err
	}

	id, err := s.store.AddCategory(ctx, c)
	if err != nil {
		s.ops.LogFailure(ctx, "Failed to create category", err, log.OpCreate,
			log.NewFields().WithCategory(0, c.Name))
		return 0, fmt.Errorf("create category: %w", err)
	}
	s.categories.Clear()

	s.ops.LogSuccess(ctx, "Category created", log.OpCreate, log.NewFields().WithCategory(id, c.Name))
	return id, nil
}

// Categories returns all categories, defaults first.
func (s *BudgetService) Categories(ctx context.Context) []core.Category {
	return s.cachedCategories(ctx, allCategoriesKey, func() ([]core.Category, error) {
		return s.store.ListCategories(ctx)
	})
}

// CategoriesByKind returns categories usable for kind, including "Both".
func (s *BudgetService) CategoriesByKind(ctx context.Context, kind core.Kind) []core.Category {
	return s.cachedCategories(ctx, kind.String(), func() ([]core.Category, error) {
		return s.store.ListCategoriesByKind(ctx, kind)
	})
}

func (s *BudgetService) UpdateCategoryColor(ctx context.Context, id int64, color string) {
	if err := s.store.UpdateCategoryColor(ctx, id, color); err != nil {
		s.ops.LogFailure(ctx, "Failed to update category color", err, log.OpUpdate,
			log.NewFields().WithCategory(id, ""))
		return
	}
	s.categories.Clear()
}

// DeleteCategory reports whether the category was removed. Default and
// unknown categories are never removed.
func (s *BudgetService) DeleteCategory(ctx context.Context, id int64) bool {
	deleted, err := s.store.DeleteCategory(ctx, id)
	if err != nil {
		s.ops.LogFailure(ctx, "Failed to delete category", err, log.OpDelete,
			log.NewFields().WithCategory(id, ""))
		return false
	}
	if !deleted {
		s.logger.InfoContext(ctx, "Category not deleted",
			log.FieldCategoryID, id,
			log.FieldErrorType, log.ErrorTypeBusinessRule)
		return false
	}
	s.categories.Clear()
	return true
}

func (s *BudgetService) cachedCategories(ctx context.Context, key string, load func() ([]core.Category, error)) []core.Category {
	if cats, ok := s.categories.Get(key); ok {
		return slices.Clone(cats)
	}

	cats, err := load()
	if err != nil {
		s.ops.LogFailure(ctx, "Failed to load categories", err, log.OpList,
			log.NewFields().With(log.FieldKind, key))
		return []core.Category{}
	}
	if cats == nil {
		cats = []core.Category{}
	}
	s.categories.Set(key, cats)
	return slices.Clone(cats)
}

// Dashboard

// Dashboard is everything the home screen shows.
type Dashboard struct {
	User              *core.User
	Currency          string
	Transactions      []core.Transaction
	Summary           core.Summary
	IncomeByCategory  []core.CategoryAmount
	ExpenseByCategory []core.CategoryAmount
}

// Dashboard loads the user and transactions concurrently and aggregates
// them. A failed read leaves its part empty.
func (s *BudgetService) Dashboard(ctx context.Context) Dashboard {
	var (
		user *core.User
		txs  []core.Transaction
	)

	// No derived context: one failed read must not cancel the other.
	var g errgroup.Group
	g.Go(func() error {
		u, err := s.store.GetUser(ctx)
		if err != nil {
			return fmt.Errorf("load user: %w", err)
		}
		user = u
		return nil
	})
	g.Go(func() error {
		t, err := s.store.ListTransactions(ctx)
		if err != nil {
			return fmt.Errorf("load transactions: %w", err)
		}
		txs = t
		return nil
	})
	if err := g.Wait(); err != nil {
		s.ops.LogFailure(ctx, "Dashboard partially loaded", err, log.OpRead, nil)
	}
	if txs == nil {
		txs = []core.Transaction{}
	}

	d := Dashboard{
		User:              user,
		Currency:          core.DefaultCurrency,
		Transactions:      txs,
		Summary:           core.Summarize(txs),
		IncomeByCategory:  core.TotalsByCategory(txs, core.Income),
		ExpenseByCategory: core.TotalsByCategory(txs, core.Expense),
	}
	if user != nil {
		d.Currency = user.CurrencyOrDefault()
	}
	return d
}

// Close releases the underlying store.
func (s *BudgetService) Close() error {
	if s.store == nil {
		return nil
	}
	if err := s.store.Close(); err != nil {
		return fmt.Errorf("close budget service: %w", err)
	}
	return nil
}
