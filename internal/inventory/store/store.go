package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/rcastellanos/taller/internal/inventory"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const selectItemColumns = `
	i.id, i.category_id, i.code, i.name, i.description, i.unit_price,
	i.cost_price, i.stock_quantity, i.min_stock_level, i.unit, i.active,
	i.created_at, c.name AS category_name
`

func scanItem(s scanner) (*inventory.Item, error) {
	var item inventory.Item

	var description, categoryName sql.NullString

	if err := s.Scan(
		&item.ID, &item.CategoryID, &item.Code, &item.Name, &description, &item.UnitPrice,
		&item.CostPrice, &item.StockQuantity, &item.MinStockLevel, &item.Unit, &item.Active,
		&item.CreatedAt, &categoryName,
	); err != nil {
		return nil, err
	}

	item.Description = description.String
	item.CategoryName = categoryName.String

	return &item, nil
}

func (s *Store) CreateItem(ctx context.Context, item *inventory.Item) error {
	query := `
		INSERT INTO inventory_items (category_id, code, name, description, unit_price, cost_price, stock_quantity, min_stock_level, unit, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, 0, $7, $8, $9, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		item.CategoryID,
		item.Code,
		item.Name,
		item.Description,
		item.UnitPrice,
		item.CostPrice,
		item.MinStockLevel,
		item.Unit,
		item.Active,
	).Scan(&item.ID, &item.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating inventory item: %w", err)
	}

	return nil
}

func (s *Store) GetItem(ctx context.Context, id uuid.UUID) (*inventory.Item, error) {
	query := `SELECT ` + selectItemColumns + `
		FROM inventory_items i
		LEFT JOIN inventory_categories c ON i.category_id = c.id
		WHERE i.id = $1`

	item, err := scanItem(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, inventory.ErrNotFound
		}

		return nil, fmt.Errorf("getting inventory item: %w", err)
	}

	return item, nil
}

func (s *Store) CodeExists(ctx context.Context, code string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM inventory_items WHERE code = $1)`

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, code).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking item code: %w", err)
	}

	return exists, nil
}

func (s *Store) ListItems(ctx context.Context, filter inventory.ListFilter) ([]*inventory.Item, error) {
	query := `SELECT ` + selectItemColumns + `
		FROM inventory_items i
		LEFT JOIN inventory_categories c ON i.category_id = c.id
		WHERE 1=1`

	var args []any

	argIdx := 1

	if filter.CategoryID != nil {
		query += fmt.Sprintf(" AND i.category_id = $%d", argIdx)

		args = append(args, *filter.CategoryID)
		argIdx++
	}

	if filter.Active != nil {
		query += fmt.Sprintf(" AND i.active = $%d", argIdx)

		args = append(args, *filter.Active)
	}

	if filter.LowStock {
		query += " AND i.stock_quantity <= i.min_stock_level"
	}

	query += " ORDER BY i.name"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing inventory items: %w", err)
	}
	defer rows.Close()

	var items []*inventory.Item

	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning inventory item: %w", err)
		}

		items = append(items, item)
	}

	return items, rows.Err()
}

func (s *Store) UpdateItem(ctx context.Context, item *inventory.Item) error {
	query := `
		UPDATE inventory_items
		SET category_id = $1, name = $2, description = $3, unit_price = $4,
			cost_price = $5, min_stock_level = $6, unit = $7, active = $8
		WHERE id = $9
	`

	_, err := s.db.ExecContext(ctx, query,
		item.CategoryID,
		item.Name,
		item.Description,
		item.UnitPrice,
		item.CostPrice,
		item.MinStockLevel,
		item.Unit,
		item.Active,
		item.ID,
	)
	if err != nil {
		return fmt.Errorf("updating inventory item: %w", err)
	}

	return nil
}

func (s *Store) DeleteItem(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM inventory_items WHERE id = $1`

	_, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting inventory item: %w", err)
	}

	return nil
}

// AdjustStock applies the delta and appends the ledger row atomically, so
// stock_quantity never drifts from the transaction log.
func (s *Store) AdjustStock(ctx context.Context, itemID uuid.UUID, delta int64, txType inventory.TransactionType, notes string, actor uuid.UUID) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning stock adjustment: %w", err)
	}
	defer dbTx.Rollback()

	res, err := dbTx.ExecContext(ctx,
		`UPDATE inventory_items SET stock_quantity = stock_quantity + $1 WHERE id = $2`,
		delta, itemID,
	)
	if err != nil {
		return fmt.Errorf("adjusting stock: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return inventory.ErrNotFound
	}

	_, err = dbTx.ExecContext(ctx,
		`INSERT INTO inventory_transactions (inventory_item_id, transaction_type, quantity, notes, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())`,
		itemID, txType, delta, notes, actor,
	)
	if err != nil {
		return fmt.Errorf("recording stock transaction: %w", err)
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing stock adjustment: %w", err)
	}

	return nil
}

func (s *Store) ListTransactions(ctx context.Context, itemID uuid.UUID) ([]*inventory.Transaction, error) {
	query := `
		SELECT id, inventory_item_id, transaction_type, quantity, reference_type, reference_id, notes, created_by, created_at
		FROM inventory_transactions
		WHERE inventory_item_id = $1
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, itemID)
	if err != nil {
		return nil, fmt.Errorf("listing stock transactions: %w", err)
	}
	defer rows.Close()

	var txs []*inventory.Transaction

	for rows.Next() {
		var t inventory.Transaction

		var typeStr string

		var refType, notes sql.NullString

		if err := rows.Scan(
			&t.ID, &t.ItemID, &typeStr, &t.Quantity, &refType, &t.ReferenceID, &notes, &t.CreatedBy, &t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning stock transaction: %w", err)
		}

		t.Type = inventory.TransactionType(typeStr)
		t.ReferenceType = refType.String
		t.Notes = notes.String

		txs = append(txs, &t)
	}

	return txs, rows.Err()
}

func (s *Store) ListCategories(ctx context.Context) ([]*inventory.Category, error) {
	query := `SELECT id, name, description FROM inventory_categories ORDER BY name`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var categories []*inventory.Category

	for rows.Next() {
		var c inventory.Category

		var description sql.NullString

		if err := rows.Scan(&c.ID, &c.Name, &description); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}

		c.Description = description.String

		categories = append(categories, &c)
	}

	return categories, rows.Err()
}

func (s *Store) CreateLabor(ctx context.Context, l *inventory.Labor) error {
	query := `
		INSERT INTO services (code, name, description, default_price, estimated_hours, active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := s.db.QueryRowContext(ctx, query,
		l.Code,
		l.Name,
		l.Description,
		l.DefaultPrice,
		l.EstimatedHours,
		l.Active,
	).Scan(&l.ID)
	if err != nil {
		return fmt.Errorf("creating labor service: %w", err)
	}

	return nil
}

func (s *Store) ListLabor(ctx context.Context, active *bool) ([]*inventory.Labor, error) {
	query := `SELECT id, code, name, description, default_price, estimated_hours, active FROM services WHERE 1=1`

	var args []any

	if active != nil {
		query += " AND active = $1"

		args = append(args, *active)
	}

	query += " ORDER BY name"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing labor services: %w", err)
	}
	defer rows.Close()

	var labor []*inventory.Labor

	for rows.Next() {
		var l inventory.Labor

		var description sql.NullString

		if err := rows.Scan(&l.ID, &l.Code, &l.Name, &description, &l.DefaultPrice, &l.EstimatedHours, &l.Active); err != nil {
			return nil, fmt.Errorf("scanning labor service: %w", err)
		}

		l.Description = description.String

		labor = append(labor, &l)
	}

	return labor, rows.Err()
}
