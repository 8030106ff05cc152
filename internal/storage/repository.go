package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"budget/internal/core"
	"budget/internal/log"

	_ "modernc.org/sqlite"
)

// ErrUncategorizedMissing is returned when a transaction without a category
// is added to a store that has no "Uncategorized" row.
var ErrUncategorizedMissing = errors.New("uncategorized category missing")

// SQLiteRepository owns the store handle. Every method is an independent
// unit of work; nothing spans calls.
type SQLiteRepository struct {
	db         *sql.DB
	queries    *Queries
	logger     *log.Logger
	migrations MigrationReport
}

func NewSQLiteRepository(ctx context.Context, dbPath string, logger *log.Logger) (*SQLiteRepository, error) {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	logger = logger.WithComponent(log.ComponentStorage)

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One writer at a time; the store has no other locking.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	report, err := RunMigrations(ctx, dbPath, logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	if !report.OK() {
		logger.WarnContext(ctx, "Store opened with skipped migration steps",
			log.FieldDBPath, dbPath,
			log.FieldCount, len(report.Failed))
	}

	logger.InfoContext(ctx, "SQLite store ready",
		log.FieldDBPath, dbPath,
		log.FieldVersion, report.To,
		"fresh", report.Fresh)

	return &SQLiteRepository{
		db:         db,
		queries:    New(db),
		logger:     logger,
		migrations: report,
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Migrations returns the report from opening the store.
func (r *SQLiteRepository) Migrations() MigrationReport {
	return r.migrations
}

func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// AddTransaction stores tx. A nil categoryID means "Uncategorized"; when
// that category cannot be found nothing is written.
func (r *SQLiteRepository) AddTransaction(ctx context.Context, tx core.Transaction, categoryID *int64) (int64, error) {
	var catID sql.NullInt64
	if categoryID != nil {
		catID = sql.NullInt64{Int64: *categoryID, Valid: true}
	} else {
		id, err := r.uncategorizedID(ctx)
		switch {
		case err == nil:
			catID = sql.NullInt64{Int64: id, Valid: true}
		case errors.Is(err, sql.ErrNoRows):
			return 0, ErrUncategorizedMissing
		default:
			return 0, fmt.Errorf("resolve uncategorized: %w", err)
		}
	}

	id, err := r.queries.CreateTransaction(ctx, CreateTransactionParams{
		Title:      tx.Title,
		Amount:     tx.Amount.InexactFloat64(),
		Type:       tx.Kind.String(),
		Date:       tx.Date,
		Note:       tx.Note,
		CategoryID: catID,
	})
	if err != nil {
		return 0, fmt.Errorf("create transaction: %w", err)
	}

	r.logger.DebugContext(ctx, "Transaction saved",
		log.FieldTransactionID, id,
		log.FieldKind, tx.Kind,
		log.FieldAmount, tx.Amount.String())

	return id, nil
}

// ListTransactions returns every transaction, newest first.
func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.queries.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	txs := make([]core.Transaction, len(rows))
	for i, row := range rows {
		txs[i] = core.Transaction{
			ID:            row.ID,
			Title:         row.Title.String,
			Amount:        row.Amount.Decimal,
			Kind:          core.Kind(row.Type.String),
			Date:          row.Date.String,
			Note:          row.Note.String,
			CategoryName:  stringOr(row.CategoryName, core.UncategorizedName),
			CategoryColor: stringOr(row.CategoryColor, core.UncategorizedColor),
		}
	}
	return txs, nil
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id int64) error {
	if _, err := r.queries.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("delete transaction %d: %w", id, err)
	}
	return nil
}

// ScaleTransactionAmounts multiplies every amount by rate in one statement.
func (r *SQLiteRepository) ScaleTransactionAmounts(ctx context.Context, rate decimal.Decimal) (int64, error) {
	n, err := r.queries.ScaleTransactionAmounts(ctx, rate.InexactFloat64())
	if err != nil {
		return 0, fmt.Errorf("scale transaction amounts: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) CountTransactions(ctx context.Context) (int64, error) {
	n, err := r.queries.CountTransactions(ctx)
	if err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return n, nil
}

// SaveUser keeps the user table at one row: update by id, else update the
// first row, else insert. Returns the id of the row written.
func (r *SQLiteRepository) SaveUser(ctx context.Context, u core.User) (int64, error) {
	params := UserParams{
		Name:           u.Name,
		AvatarPath:     u.AvatarPath,
		IsCustomAvatar: u.IsCustomAvatar,
		Currency:       u.CurrencyOrDefault(),
	}

	if u.ID > 0 {
		n, err := r.queries.UpdateUser(ctx, u.ID, params)
		if err != nil {
			return 0, fmt.Errorf("update user %d: %w", u.ID, err)
		}
		if n > 0 {
			return u.ID, nil
		}
	}

	existing, err := r.queries.FirstUserID(ctx)
	switch {
	case err == nil:
		if _, err := r.queries.UpdateUser(ctx, existing, params); err != nil {
			return 0, fmt.Errorf("update user %d: %w", existing, err)
		}
		return existing, nil
	case errors.Is(err, sql.ErrNoRows):
		id, err := r.queries.InsertUser(ctx, params)
		if err != nil {
			return 0, fmt.Errorf("insert user: %w", err)
		}
		return id, nil
	default:
		return 0, fmt.Errorf("find existing user: %w", err)
	}
}

// GetUser returns nil, nil when no user has been saved yet.
func (r *SQLiteRepository) GetUser(ctx context.Context) (*core.User, error) {
	row, err := r.queries.GetUser(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &core.User{
		ID:             row.ID,
		Name:           row.Name.String,
		AvatarPath:     row.AvatarPath.String,
		IsCustomAvatar: row.IsCustomAvatar.Int64 == 1,
		Currency:       stringOr(row.Currency, core.DefaultCurrency),
	}, nil
}

func (r *SQLiteRepository) CountUsers(ctx context.Context) (int64, error) {
	n, err := r.queries.CountUsers(ctx)
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) AddCategory(ctx context.Context, c core.Category) (int64, error) {
	id, err := r.queries.CreateCategory(ctx, CreateCategoryParams{
		Name:      c.Name,
		Color:     c.Color,
		Type:      c.Kind.String(),
		IsDefault: c.IsDefault,
	})
	if err != nil {
		return 0, fmt.Errorf("create category %q: %w", c.Name, err)
	}
	return id, nil
}

// ListCategories returns defaults first, then alphabetical.
func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.queries.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return toCategories(rows), nil
}

// ListCategoriesByKind returns categories of kind plus those usable for both.
func (r *SQLiteRepository) ListCategoriesByKind(ctx context.Context, kind core.Kind) ([]core.Category, error) {
	rows, err := r.queries.ListCategoriesByType(ctx, kind.String())
	if err != nil {
		return nil, fmt.Errorf("list categories by kind %s: %w", kind, err)
	}
	return toCategories(rows), nil
}

func (r *SQLiteRepository) UpdateCategoryColor(ctx context.Context, id int64, color string) error {
	if _, err := r.queries.UpdateCategoryColor(ctx, id, color); err != nil {
		return fmt.Errorf("update category %d color: %w", id, err)
	}
	return nil
}

// DeleteCategory removes a user category after moving its transactions to
// "Uncategorized". Default and unknown categories are left alone and
// reported as false.
func (r *SQLiteRepository) DeleteCategory(ctx context.Context, id int64) (bool, error) {
	isDefault, err := r.queries.GetCategoryIsDefault(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check category %d: %w", id, err)
	}
	if isDefault {
		return false, nil
	}

	uncategorized, err := r.uncategorizedID(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("resolve uncategorized: %w", err)
	}
	reassign := err == nil

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin delete category %d: %w", id, err)
	}
	defer tx.Rollback()
	qtx := r.queries.WithTx(tx)

	if reassign {
		moved, err := qtx.ReassignTransactionsCategory(ctx, uncategorized, id)
		if err != nil {
			return false, fmt.Errorf("reassign transactions of category %d: %w", id, err)
		}
		r.logger.DebugContext(ctx, "Moved transactions to Uncategorized",
			log.FieldCategoryID, id,
			log.FieldCount, moved)
	} else {
		r.logger.WarnContext(ctx, "Uncategorized category missing, transactions keep a dangling category",
			log.FieldCategoryID, id)
	}

	if _, err := qtx.DeleteCategory(ctx, id); err != nil {
		return false, fmt.Errorf("delete category %d: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit delete category %d: %w", id, err)
	}
	return true, nil
}

func (r *SQLiteRepository) uncategorizedID(ctx context.Context) (int64, error) {
	return r.queries.GetCategoryIDByName(ctx, core.UncategorizedName)
}

func toCategories(rows []CategoryRow) []core.Category {
	out := make([]core.Category, len(rows))
	for i, row := range rows {
		out[i] = core.Category{
			ID:        row.ID,
			Name:      row.Name.String,
			Color:     row.Color.String,
			Kind:      core.Kind(row.Type.String),
			IsDefault: row.IsDefault == 1,
		}
	}
	return out
}

func stringOr(s sql.NullString, fallback string) string {
	if !s.Valid {
		return fallback
	}
	return s.String
}
