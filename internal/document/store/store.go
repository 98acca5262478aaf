package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rcastellanos/taller/internal/document"
)

// Store is the Postgres persistence layer for work orders, budgets and
// invoices. Reads run on the pool; writes go through Begin and the returned
// Tx so that number minting, inserts and stock movements share one database
// transaction.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func nullUUIDPtr(n uuid.NullUUID) *uuid.UUID {
	if !n.Valid {
		return nil
	}

	v := n.UUID

	return &v
}

func nullTimePtr(n sql.NullTime) *time.Time {
	if !n.Valid {
		return nil
	}

	v := n.Time

	return &v
}

func nullInt64Ptr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}

	v := n.Int64

	return &v
}

const selectWorkOrderColumns = `
	id, order_number, vehicle_id, client_id, assigned_mechanic_id,
	problem_description, diagnosis, work_performed, priority, status,
	estimated_completion_date, actual_completion_date, mileage_in, mileage_out,
	subtotal, tax_amount, discount_amount, total_amount, notes,
	created_by, created_at, updated_at
`

func scanWorkOrder(s scanner) (*document.Document, error) {
	var doc document.Document

	var (
		vehicleID                             uuid.UUID
		mechanicID                            uuid.NullUUID
		problem, diagnosis, performed, notes  sql.NullString
		estimatedCompletion, actualCompletion sql.NullTime
		mileageIn, mileageOut                 sql.NullInt64
		updatedAt                             sql.NullTime
	)

	if err := s.Scan(
		&doc.ID, &doc.Number, &vehicleID, &doc.ClientID, &mechanicID,
		&problem, &diagnosis, &performed, &doc.Priority, &doc.Status,
		&estimatedCompletion, &actualCompletion, &mileageIn, &mileageOut,
		&doc.Subtotal, &doc.TaxAmount, &doc.DiscountAmount, &doc.TotalAmount, &notes,
		&doc.CreatedBy, &doc.CreatedAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	doc.Kind = document.KindWorkOrder
	doc.VehicleID = &vehicleID
	doc.AssignedMechanicID = nullUUIDPtr(mechanicID)
	doc.ProblemDescription = problem.String
	doc.Diagnosis = diagnosis.String
	doc.WorkPerformed = performed.String
	doc.EstimatedCompletionDate = nullTimePtr(estimatedCompletion)
	doc.ActualCompletionDate = nullTimePtr(actualCompletion)
	doc.MileageIn = nullInt64Ptr(mileageIn)
	doc.MileageOut = nullInt64Ptr(mileageOut)
	doc.Notes = notes.String
	doc.UpdatedAt = nullTimePtr(updatedAt)

	return &doc, nil
}

const selectBudgetColumns = `
	id, budget_number, client_id, vehicle_id, description, status, valid_until,
	subtotal, tax_amount, total_amount, notes, created_by, created_at, updated_at
`

func scanBudget(s scanner) (*document.Document, error) {
	var doc document.Document

	var (
		vehicleID          uuid.NullUUID
		description, notes sql.NullString
		validUntil         sql.NullTime
		updatedAt          sql.NullTime
	)

	if err := s.Scan(
		&doc.ID, &doc.Number, &doc.ClientID, &vehicleID, &description, &doc.Status, &validUntil,
		&doc.Subtotal, &doc.TaxAmount, &doc.TotalAmount, &notes, &doc.CreatedBy, &doc.CreatedAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	doc.Kind = document.KindBudget
	doc.VehicleID = nullUUIDPtr(vehicleID)
	doc.Description = description.String
	doc.ValidUntil = nullTimePtr(validUntil)
	doc.Notes = notes.String
	doc.UpdatedAt = nullTimePtr(updatedAt)

	return &doc, nil
}

const selectInvoiceColumns = `
	id, invoice_number, work_order_id, client_id, issue_date, due_date, status,
	subtotal, tax_amount, discount_amount, total_amount, paid_amount,
	payment_method, payment_date, notes, created_by, created_at, updated_at
`

func scanInvoice(s scanner) (*document.Document, error) {
	var doc document.Document

	var (
		workOrderID          uuid.NullUUID
		issueDate            time.Time
		dueDate, paymentDate sql.NullTime
		method, notes        sql.NullString
		updatedAt            sql.NullTime
	)

	if err := s.Scan(
		&doc.ID, &doc.Number, &workOrderID, &doc.ClientID, &issueDate, &dueDate, &doc.Status,
		&doc.Subtotal, &doc.TaxAmount, &doc.DiscountAmount, &doc.TotalAmount, &doc.PaidAmount,
		&method, &paymentDate, &notes, &doc.CreatedBy, &doc.CreatedAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	doc.Kind = document.KindInvoice
	doc.WorkOrderID = nullUUIDPtr(workOrderID)
	doc.IssueDate = &issueDate
	doc.DueDate = nullTimePtr(dueDate)
	doc.PaymentMethod = method.String
	doc.PaymentDate = nullTimePtr(paymentDate)
	doc.Notes = notes.String
	doc.UpdatedAt = nullTimePtr(updatedAt)

	return &doc, nil
}

func tableFor(kind document.Kind) string {
	switch kind {
	case document.KindWorkOrder:
		return "work_orders"
	case document.KindBudget:
		return "budgets"
	default:
		return "invoices"
	}
}

func (s *Store) GetDocument(ctx context.Context, kind document.Kind, id uuid.UUID) (*document.Document, error) {
	return getDocument(ctx, s.db, kind, id, false)
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getDocument(ctx context.Context, q querier, kind document.Kind, id uuid.UUID, forUpdate bool) (*document.Document, error) {
	var (
		query string
		scan  func(scanner) (*document.Document, error)
	)

	switch kind {
	case document.KindWorkOrder:
		query = `SELECT ` + selectWorkOrderColumns + ` FROM work_orders WHERE id = $1`
		scan = scanWorkOrder
	case document.KindBudget:
		query = `SELECT ` + selectBudgetColumns + ` FROM budgets WHERE id = $1`
		scan = scanBudget
	default:
		query = `SELECT ` + selectInvoiceColumns + ` FROM invoices WHERE id = $1`
		scan = scanInvoice
	}

	if forUpdate {
		query += ` FOR UPDATE`
	}

	doc, err := scan(q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, document.ErrNotFound
		}

		return nil, &document.StorageError{Op: "get " + string(kind), Err: err}
	}

	return doc, nil
}

const selectLineColumns = `
	id, line_type, inventory_item_id, service_id, description,
	quantity, unit_price, hours, rate, total
`

func scanLine(s scanner) (*document.LineItem, error) {
	var item document.LineItem

	var (
		itemID, serviceID           uuid.NullUUID
		qty, unitPrice, hours, rate sql.NullInt64
	)

	if err := s.Scan(
		&item.ID, &item.Type, &itemID, &serviceID, &item.Description,
		&qty, &unitPrice, &hours, &rate, &item.Total,
	); err != nil {
		return nil, err
	}

	item.InventoryItemID = nullUUIDPtr(itemID)
	item.ServiceID = nullUUIDPtr(serviceID)
	item.Quantity = qty.Int64
	item.UnitPrice = unitPrice.Int64
	item.Hours = hours.Int64
	item.Rate = rate.Int64

	return &item, nil
}

func (s *Store) GetLineItems(ctx context.Context, kind document.Kind, documentID uuid.UUID) ([]*document.LineItem, error) {
	return getLineItems(ctx, s.db, kind, documentID)
}

type rowsQuerier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func getLineItems(ctx context.Context, q rowsQuerier, kind document.Kind, documentID uuid.UUID) ([]*document.LineItem, error) {
	var query string

	switch kind {
	case document.KindWorkOrder:
		query = `SELECT ` + selectLineColumns + ` FROM work_order_items WHERE work_order_id = $1 ORDER BY id`
	case document.KindBudget:
		query = `SELECT id, line_type, NULL::uuid, service_id, description, quantity, unit_price, hours, rate, total
			FROM budget_items WHERE budget_id = $1 ORDER BY id`
	default:
		query = `SELECT id, 'part'::text, NULL::uuid, NULL::uuid, description, quantity, unit_price, NULL::bigint, NULL::bigint, total
			FROM invoice_items WHERE invoice_id = $1 ORDER BY id`
	}

	rows, err := q.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, &document.StorageError{Op: "list line items", Err: err}
	}
	defer rows.Close()

	var items []*document.LineItem

	for rows.Next() {
		item, err := scanLine(rows)
		if err != nil {
			return nil, &document.StorageError{Op: "scan line item", Err: err}
		}

		item.DocumentID = documentID
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, &document.StorageError{Op: "list line items", Err: err}
	}

	return items, nil
}

func (s *Store) GetPayments(ctx context.Context, invoiceID uuid.UUID) ([]*document.Payment, error) {
	query := `
		SELECT id, invoice_id, amount, payment_method, payment_date, reference_number, notes, created_by, created_at
		FROM payments
		WHERE invoice_id = $1
		ORDER BY created_at
	`

	rows, err := s.db.QueryContext(ctx, query, invoiceID)
	if err != nil {
		return nil, &document.StorageError{Op: "list payments", Err: err}
	}
	defer rows.Close()

	var payments []*document.Payment

	for rows.Next() {
		var p document.Payment

		var reference, notes sql.NullString

		if err := rows.Scan(
			&p.ID, &p.InvoiceID, &p.Amount, &p.Method, &p.Date, &reference, &notes, &p.CreatedBy, &p.CreatedAt,
		); err != nil {
			return nil, &document.StorageError{Op: "scan payment", Err: err}
		}

		p.ReferenceNumber = reference.String
		p.Notes = notes.String
		payments = append(payments, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, &document.StorageError{Op: "list payments", Err: err}
	}

	return payments, nil
}

func (s *Store) ListDocuments(ctx context.Context, kind document.Kind, filter document.ListFilter) ([]*document.Document, error) {
	var (
		columns string
		scan    func(scanner) (*document.Document, error)
	)

	switch kind {
	case document.KindWorkOrder:
		columns = selectWorkOrderColumns
		scan = scanWorkOrder
	case document.KindBudget:
		columns = selectBudgetColumns
		scan = scanBudget
	default:
		columns = selectInvoiceColumns
		scan = scanInvoice
	}

	query := `SELECT ` + columns + ` FROM ` + tableFor(kind)

	var (
		conditions []string
		args       []any
	)

	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}

	if filter.ClientID != nil {
		args = append(args, *filter.ClientID)
		conditions = append(conditions, fmt.Sprintf("client_id = $%d", len(args)))
	}

	if filter.MechanicID != nil && kind == document.KindWorkOrder {
		args = append(args, *filter.MechanicID)
		conditions = append(conditions, fmt.Sprintf("assigned_mechanic_id = $%d", len(args)))
	}

	for i, cond := range conditions {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}

	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &document.StorageError{Op: "list " + string(kind), Err: err}
	}
	defer rows.Close()

	var docs []*document.Document

	for rows.Next() {
		doc, err := scan(rows)
		if err != nil {
			return nil, &document.StorageError{Op: "scan " + string(kind), Err: err}
		}

		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, &document.StorageError{Op: "list " + string(kind), Err: err}
	}

	return docs, nil
}

type setClause struct {
	conditions []string
	args       []any
}

func (c *setClause) add(column string, value any) {
	c.args = append(c.args, value)
	c.conditions = append(c.conditions, fmt.Sprintf("%s = $%d", column, len(c.args)))
}

func (s *Store) UpdateWorkOrder(ctx context.Context, id uuid.UUID, params document.UpdateWorkOrderParams) error {
	var set setClause

	if params.Status != nil {
		set.add("status", *params.Status)
	}

	if params.AssignedMechanicID != nil {
		set.add("assigned_mechanic_id", *params.AssignedMechanicID)
	}

	if params.Diagnosis != nil {
		set.add("diagnosis", *params.Diagnosis)
	}

	if params.WorkPerformed != nil {
		set.add("work_performed", *params.WorkPerformed)
	}

	if params.ActualCompletionDate != nil {
		set.add("actual_completion_date", *params.ActualCompletionDate)
	}

	if params.MileageOut != nil {
		set.add("mileage_out", *params.MileageOut)
	}

	if params.Notes != nil {
		set.add("notes", *params.Notes)
	}

	return s.update(ctx, "work_orders", id, set)
}

func (s *Store) UpdateBudget(ctx context.Context, id uuid.UUID, params document.UpdateBudgetParams) error {
	var set setClause

	if params.Status != nil {
		set.add("status", *params.Status)
	}

	if params.Description != nil {
		set.add("description", *params.Description)
	}

	if params.ValidUntil != nil {
		set.add("valid_until", *params.ValidUntil)
	}

	if params.Notes != nil {
		set.add("notes", *params.Notes)
	}

	return s.update(ctx, "budgets", id, set)
}

func (s *Store) UpdateInvoice(ctx context.Context, id uuid.UUID, params document.UpdateInvoiceParams) error {
	var set setClause

	if params.Status != nil {
		set.add("status", *params.Status)
	}

	if params.PaymentMethod != nil {
		set.add("payment_method", *params.PaymentMethod)
	}

	if params.PaymentDate != nil {
		set.add("payment_date", *params.PaymentDate)
	}

	if params.PaidAmount != nil {
		set.add("paid_amount", *params.PaidAmount)
	}

	if params.Notes != nil {
		set.add("notes", *params.Notes)
	}

	return s.update(ctx, "invoices", id, set)
}

func (s *Store) update(ctx context.Context, table string, id uuid.UUID, set setClause) error {
	if len(set.conditions) == 0 {
		return nil
	}

	set.args = append(set.args, id)

	query := fmt.Sprintf("UPDATE %s SET ", table)
	for i, cond := range set.conditions {
		if i > 0 {
			query += ", "
		}
		query += cond
	}
	query += fmt.Sprintf(", updated_at = NOW() WHERE id = $%d", len(set.args))

	result, err := s.db.ExecContext(ctx, query, set.args...)
	if err != nil {
		return &document.StorageError{Op: "update " + table, Err: err}
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return &document.StorageError{Op: "update " + table, Err: err}
	}

	if rows == 0 {
		return document.ErrNotFound
	}

	return nil
}

func (s *Store) DeleteDocument(ctx context.Context, kind document.Kind, id uuid.UUID) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", tableFor(kind))

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return &document.StorageError{Op: "delete " + string(kind), Err: err}
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return &document.StorageError{Op: "delete " + string(kind), Err: err}
	}

	if rows == 0 {
		return document.ErrNotFound
	}

	return nil
}

func (s *Store) Begin(ctx context.Context) (document.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, &document.StorageError{Op: "begin transaction", Err: err}
	}

	return &Tx{tx: tx}, nil
}

// Tx runs one document write on a single database transaction.
type Tx struct {
	tx *sql.Tx
}

// NextSequence bumps the (kind, year) counter and returns the new value.
// The upsert locks the counter row until commit, so concurrent writers
// serialize here and each observes a distinct value.
func (t *Tx) NextSequence(ctx context.Context, kind document.Kind, year int) (int64, error) {
	query := `
		INSERT INTO document_sequences (kind, year, last_value)
		VALUES ($1, $2, 1)
		ON CONFLICT (kind, year)
		DO UPDATE SET last_value = document_sequences.last_value + 1
		RETURNING last_value
	`

	var seq int64
	if err := t.tx.QueryRowContext(ctx, query, kind, year).Scan(&seq); err != nil {
		return 0, &document.StorageError{Op: "next sequence", Err: err}
	}

	return seq, nil
}

func (t *Tx) InsertDocument(ctx context.Context, doc *document.Document) error {
	var err error

	switch doc.Kind {
	case document.KindWorkOrder:
		query := `
			INSERT INTO work_orders (order_number, vehicle_id, client_id, assigned_mechanic_id, problem_description, priority, status, estimated_completion_date, mileage_in, subtotal, tax_amount, discount_amount, total_amount, notes, created_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
			RETURNING id, created_at
		`
		err = t.tx.QueryRowContext(ctx, query,
			doc.Number, doc.VehicleID, doc.ClientID, doc.AssignedMechanicID,
			doc.ProblemDescription, doc.Priority, doc.Status,
			doc.EstimatedCompletionDate, doc.MileageIn,
			doc.Subtotal, doc.TaxAmount, doc.DiscountAmount, doc.TotalAmount,
			doc.Notes, doc.CreatedBy,
		).Scan(&doc.ID, &doc.CreatedAt)
	case document.KindBudget:
		query := `
			INSERT INTO budgets (budget_number, client_id, vehicle_id, description, status, valid_until, subtotal, tax_amount, total_amount, notes, created_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			RETURNING id, created_at
		`
		err = t.tx.QueryRowContext(ctx, query,
			doc.Number, doc.ClientID, doc.VehicleID, doc.Description, doc.Status,
			doc.ValidUntil, doc.Subtotal, doc.TaxAmount, doc.TotalAmount,
			doc.Notes, doc.CreatedBy,
		).Scan(&doc.ID, &doc.CreatedAt)
	default:
		query := `
			INSERT INTO invoices (invoice_number, work_order_id, client_id, issue_date, due_date, status, subtotal, tax_amount, discount_amount, total_amount, notes, created_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			RETURNING id, created_at
		`
		err = t.tx.QueryRowContext(ctx, query,
			doc.Number, doc.WorkOrderID, doc.ClientID, doc.IssueDate, doc.DueDate, doc.Status,
			doc.Subtotal, doc.TaxAmount, doc.DiscountAmount, doc.TotalAmount,
			doc.Notes, doc.CreatedBy,
		).Scan(&doc.ID, &doc.CreatedAt)
	}

	if err != nil {
		return &document.StorageError{Op: "insert " + string(doc.Kind), Err: err}
	}

	return nil
}

func (t *Tx) InsertLineItems(ctx context.Context, kind document.Kind, documentID uuid.UUID, items []*document.LineItem) error {
	for _, item := range items {
		var qty, unitPrice, hours, rate sql.NullInt64

		switch item.Type {
		case document.LineLabor:
			hours = sql.NullInt64{Int64: item.Hours, Valid: true}
			rate = sql.NullInt64{Int64: item.Rate, Valid: true}
		default:
			qty = sql.NullInt64{Int64: item.Quantity, Valid: true}
			unitPrice = sql.NullInt64{Int64: item.UnitPrice, Valid: true}
		}

		var err error

		switch kind {
		case document.KindWorkOrder:
			query := `
				INSERT INTO work_order_items (work_order_id, line_type, inventory_item_id, service_id, description, quantity, unit_price, hours, rate, total)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
				RETURNING id
			`
			err = t.tx.QueryRowContext(ctx, query,
				documentID, item.Type, item.InventoryItemID, item.ServiceID,
				item.Description, qty, unitPrice, hours, rate, item.Total,
			).Scan(&item.ID)
		case document.KindBudget:
			query := `
				INSERT INTO budget_items (budget_id, line_type, service_id, description, quantity, unit_price, hours, rate, total)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
				RETURNING id
			`
			err = t.tx.QueryRowContext(ctx, query,
				documentID, item.Type, item.ServiceID,
				item.Description, qty, unitPrice, hours, rate, item.Total,
			).Scan(&item.ID)
		default:
			query := `
				INSERT INTO invoice_items (invoice_id, description, quantity, unit_price, total)
				VALUES ($1, $2, $3, $4, $5)
				RETURNING id
			`
			err = t.tx.QueryRowContext(ctx, query,
				documentID, item.Description, item.Quantity, item.UnitPrice, item.Total,
			).Scan(&item.ID)
		}

		if err != nil {
			return &document.StorageError{Op: "insert line item", Err: err}
		}

		item.DocumentID = documentID
	}

	return nil
}

// ConsumeStock decrements the item's stock and records the movement in the
// ledger, both on this transaction. The ledger delta is negative.
func (t *Tx) ConsumeStock(ctx context.Context, itemID uuid.UUID, quantity int64, documentID, actor uuid.UUID) error {
	result, err := t.tx.ExecContext(ctx,
		`UPDATE inventory_items SET stock_quantity = stock_quantity - $2 WHERE id = $1`,
		itemID, quantity,
	)
	if err != nil {
		return &document.StorageError{Op: "consume stock", Err: err}
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return &document.StorageError{Op: "consume stock", Err: err}
	}

	if rows == 0 {
		return &document.StorageError{Op: "consume stock", Err: fmt.Errorf("inventory item %s not found", itemID)}
	}

	_, err = t.tx.ExecContext(ctx, `
		INSERT INTO inventory_transactions (inventory_item_id, transaction_type, quantity, reference_type, reference_id, notes, created_by)
		VALUES ($1, 'sale', $2, 'work_order', $3, 'Used in work order', $4)
	`, itemID, -quantity, documentID, actor)
	if err != nil {
		return &document.StorageError{Op: "record stock movement", Err: err}
	}

	return nil
}

func (t *Tx) WorkOrderForUpdate(ctx context.Context, id uuid.UUID) (*document.Document, error) {
	return getDocument(ctx, t.tx, document.KindWorkOrder, id, true)
}

func (t *Tx) WorkOrderLines(ctx context.Context, id uuid.UUID) ([]*document.LineItem, error) {
	return getLineItems(ctx, t.tx, document.KindWorkOrder, id)
}

func (t *Tx) SetWorkOrderStatus(ctx context.Context, id uuid.UUID, status document.Status) error {
	_, err := t.tx.ExecContext(ctx,
		`UPDATE work_orders SET status = $2, updated_at = NOW() WHERE id = $1`,
		id, status,
	)
	if err != nil {
		return &document.StorageError{Op: "set work order status", Err: err}
	}

	return nil
}

func (t *Tx) InvoiceForUpdate(ctx context.Context, id uuid.UUID) (*document.Document, error) {
	return getDocument(ctx, t.tx, document.KindInvoice, id, true)
}

func (t *Tx) InsertPayment(ctx context.Context, p *document.Payment) error {
	query := `
		INSERT INTO payments (invoice_id, amount, payment_method, payment_date, reference_number, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := t.tx.QueryRowContext(ctx, query,
		p.InvoiceID, p.Amount, p.Method, p.Date, p.ReferenceNumber, p.Notes, p.CreatedBy,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return &document.StorageError{Op: "insert payment", Err: err}
	}

	return nil
}

func (t *Tx) SetInvoicePaid(ctx context.Context, id uuid.UUID, paidAmount int64, status document.Status) error {
	query := `
		UPDATE invoices
		SET paid_amount = $2,
		    status = $3,
		    payment_date = CASE WHEN $3 = 'paid' THEN COALESCE(payment_date, NOW()) ELSE payment_date END,
		    updated_at = NOW()
		WHERE id = $1
	`

	_, err := t.tx.ExecContext(ctx, query, id, paidAmount, status)
	if err != nil {
		return &document.StorageError{Op: "set invoice paid", Err: err}
	}

	return nil
}

func (t *Tx) Commit() error {
	return t.tx.Commit()
}

func (t *Tx) Rollback() error {
	return t.tx.Rollback()
}
