package storage

import (
	"context"
	"database/sql"
	"strings"

	"github.com/shopspring/decimal"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// Transactions

const createTransaction = `
INSERT INTO transactions (title, amount, type, date, note, category_id)
VALUES (?, ?, ?, ?, ?, ?)
`

type CreateTransactionParams struct {
	Title      string
	Amount     float64
	Type       string
	Date       string
	Note       string
	CategoryID sql.NullInt64
}

func (q *Queries) CreateTransaction(ctx context.Context, arg CreateTransactionParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, createTransaction,
		arg.Title,
		arg.Amount,
		arg.Type,
		arg.Date,
		arg.Note,
		arg.CategoryID,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

const listTransactions = `
SELECT t.id, t.title, t.amount, t.type, t.date, t.note, c.name, c.color
FROM transactions t
LEFT JOIN categories c ON t.category_id = c.id
ORDER BY t.id DESC
`

type ListTransactionsRow struct {
	ID            int64
	Title         sql.NullString
	Amount        decimal.NullDecimal
	Type          sql.NullString
	Date          sql.NullString
	Note          sql.NullString
	CategoryName  sql.NullString
	CategoryColor sql.NullString
}

func (q *Queries) ListTransactions(ctx context.Context) ([]ListTransactionsRow, error) {
	rows, err := q.db.QueryContext(ctx, listTransactions)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListTransactionsRow
	for rows.Next() {
		var i ListTransactionsRow
		if err := rows.Scan(
			&i.ID,
			&i.Title,
			&i.Amount,
			&i.Type,
			&i.Date,
			&i.Note,
			&i.CategoryName,
			&i.CategoryColor,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteTransaction = `DELETE FROM transactions WHERE id = ?`

func (q *Queries) DeleteTransaction(ctx context.Context, id int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteTransaction, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const scaleTransactionAmounts = `UPDATE transactions SET amount = amount * ?`

func (q *Queries) ScaleTransactionAmounts(ctx context.Context, rate float64) (int64, error) {
	res, err := q.db.ExecContext(ctx, scaleTransactionAmounts, rate)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const countTransactions = `SELECT COUNT(*) FROM transactions`

func (q *Queries) CountTransactions(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countTransactions).Scan(&n)
	return n, err
}

const reassignTransactionsCategory = `UPDATE transactions SET category_id = ? WHERE category_id = ?`

func (q *Queries) ReassignTransactionsCategory(ctx context.Context, to, from int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, reassignTransactionsCategory, to, from)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Users

type UserParams struct {
	Name           string
	AvatarPath     string
	IsCustomAvatar bool
	Currency       string
}

const updateUser = `
UPDATE user SET name = ?, avatar_path = ?, is_custom_avatar = ?, currency = ?
WHERE id = ?
`

func (q *Queries) UpdateUser(ctx context.Context, id int64, arg UserParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateUser,
		arg.Name,
		arg.AvatarPath,
		boolToInt(arg.IsCustomAvatar),
		arg.Currency,
		id,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const insertUser = `
INSERT INTO user (name, avatar_path, is_custom_avatar, currency)
VALUES (?, ?, ?, ?)
`

func (q *Queries) InsertUser(ctx context.Context, arg UserParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, insertUser,
		arg.Name,
		arg.AvatarPath,
		boolToInt(arg.IsCustomAvatar),
		arg.Currency,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

const firstUserID = `SELECT id FROM user ORDER BY id LIMIT 1`

func (q *Queries) FirstUserID(ctx context.Context) (int64, error) {
	var id int64
	err := q.db.QueryRowContext(ctx, firstUserID).Scan(&id)
	return id, err
}

// SELECT * so that stores missing the currency column still load.
const getUser = `SELECT * FROM user ORDER BY id LIMIT 1`

type UserRow struct {
	ID             int64
	Name           sql.NullString
	AvatarPath     sql.NullString
	IsCustomAvatar sql.NullInt64
	Currency       sql.NullString
}

// GetUser returns sql.ErrNoRows when the table is empty.
func (q *Queries) GetUser(ctx context.Context) (UserRow, error) {
	var u UserRow
	rows, err := q.db.QueryContext(ctx, getUser)
	if err != nil {
		return u, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return u, err
	}
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return u, err
		}
		return u, sql.ErrNoRows
	}

	dest := make([]any, len(cols))
	for i, c := range cols {
		switch strings.ToLower(c) {
		case "id":
			dest[i] = &u.ID
		case "name":
			dest[i] = &u.Name
		case "avatar_path":
			dest[i] = &u.AvatarPath
		case "is_custom_avatar":
			dest[i] = &u.IsCustomAvatar
		case "currency":
			dest[i] = &u.Currency
		default:
			dest[i] = new(any)
		}
	}
	if err := rows.Scan(dest...); err != nil {
		return u, err
	}
	return u, rows.Err()
}

const countUsers = `SELECT COUNT(*) FROM user`

func (q *Queries) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countUsers).Scan(&n)
	return n, err
}

// Categories

const createCategory = `
INSERT INTO categories (name, color, type, is_default)
VALUES (?, ?, ?, ?)
`

type CreateCategoryParams struct {
	Name      string
	Color     string
	Type      string
	IsDefault bool
}

func (q *Queries) CreateCategory(ctx context.Context, arg CreateCategoryParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, createCategory,
		arg.Name,
		arg.Color,
		arg.Type,
		boolToInt(arg.IsDefault),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

type CategoryRow struct {
	ID        int64
	Name      sql.NullString
	Color     sql.NullString
	Type      sql.NullString
	IsDefault int64
}

const listCategories = `
SELECT id, name, color, type, COALESCE(is_default, 0)
FROM categories
ORDER BY is_default DESC, name ASC
`

func (q *Queries) ListCategories(ctx context.Context) ([]CategoryRow, error) {
	return q.queryCategories(ctx, listCategories)
}

const listCategoriesByType = `
SELECT id, name, color, type, COALESCE(is_default, 0)
FROM categories
WHERE type = ? OR type = 'Both'
ORDER BY is_default DESC, name ASC
`

func (q *Queries) ListCategoriesByType(ctx context.Context, categoryType string) ([]CategoryRow, error) {
	return q.queryCategories(ctx, listCategoriesByType, categoryType)
}

func (q *Queries) queryCategories(ctx context.Context, query string, args ...interface{}) ([]CategoryRow, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CategoryRow
	for rows.Next() {
		var i CategoryRow
		if err := rows.Scan(&i.ID, &i.Name, &i.Color, &i.Type, &i.IsDefault); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getCategoryIDByName = `SELECT id FROM categories WHERE name = ? LIMIT 1`

func (q *Queries) GetCategoryIDByName(ctx context.Context, name string) (int64, error) {
	var id int64
	err := q.db.QueryRowContext(ctx, getCategoryIDByName, name).Scan(&id)
	return id, err
}

const getCategoryIsDefault = `SELECT COALESCE(is_default, 0) FROM categories WHERE id = ?`

func (q *Queries) GetCategoryIsDefault(ctx context.Context, id int64) (bool, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, getCategoryIsDefault, id).Scan(&n)
	return n == 1, err
}

const updateCategoryColor = `UPDATE categories SET color = ? WHERE id = ?`

func (q *Queries) UpdateCategoryColor(ctx context.Context, id int64, color string) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateCategoryColor, color, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const deleteCategory = `DELETE FROM categories WHERE id = ?`

func (q *Queries) DeleteCategory(ctx context.Context, id int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteCategory, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
