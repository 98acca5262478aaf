package document

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=document
type Repository interface {
	GetDocument(ctx context.Context, kind Kind, id uuid.UUID) (*Document, error)
	GetLineItems(ctx context.Context, kind Kind, documentID uuid.UUID) ([]*LineItem, error)
	GetPayments(ctx context.Context, invoiceID uuid.UUID) ([]*Payment, error)
	ListDocuments(ctx context.Context, kind Kind, filter ListFilter) ([]*Document, error)
	UpdateWorkOrder(ctx context.Context, id uuid.UUID, params UpdateWorkOrderParams) error
	UpdateBudget(ctx context.Context, id uuid.UUID, params UpdateBudgetParams) error
	UpdateInvoice(ctx context.Context, id uuid.UUID, params UpdateInvoiceParams) error
	DeleteDocument(ctx context.Context, kind Kind, id uuid.UUID) error

	Begin(ctx context.Context) (Tx, error)
}

// Tx is the unit of work for one document write. Every mutation between
// Begin and Commit runs on the same database transaction; Rollback is safe
// to call after Commit.
type Tx interface {
	// NextSequence atomically increments and returns the (kind, year)
	// counter. The underlying row lock serializes concurrent mints, so two
	// documents can never share a number.
	NextSequence(ctx context.Context, kind Kind, year int) (int64, error)
	InsertDocument(ctx context.Context, doc *Document) error
	InsertLineItems(ctx context.Context, kind Kind, documentID uuid.UUID, items []*LineItem) error
	// ConsumeStock decrements the item's stock and appends a "sale" ledger
	// entry referencing the consuming document.
	ConsumeStock(ctx context.Context, itemID uuid.UUID, quantity int64, documentID, actor uuid.UUID) error

	WorkOrderForUpdate(ctx context.Context, id uuid.UUID) (*Document, error)
	WorkOrderLines(ctx context.Context, id uuid.UUID) ([]*LineItem, error)
	SetWorkOrderStatus(ctx context.Context, id uuid.UUID, status Status) error

	InvoiceForUpdate(ctx context.Context, id uuid.UUID) (*Document, error)
	InsertPayment(ctx context.Context, p *Payment) error
	SetInvoicePaid(ctx context.Context, id uuid.UUID, paidAmount int64, status Status) error

	Commit() error
	Rollback() error
}

type Service struct {
	repo    Repository
	taxRate decimal.Decimal
	now     func() time.Time
}

func NewService(repo Repository, taxRate decimal.Decimal) *Service {
	return &Service{
		repo:    repo,
		taxRate: taxRate,
		now:     time.Now,
	}
}

type PartParams struct {
	InventoryItemID *uuid.UUID
	Description     string
	Quantity        int64
	UnitPrice       int64
}

type LaborParams struct {
	ServiceID   *uuid.UUID
	Description string
	Hours       int64 // hundredths of an hour
	Rate        int64
}

type ListFilter struct {
	Status     *Status
	ClientID   *uuid.UUID
	MechanicID *uuid.UUID
}

// buildLines turns creation params into line items with exact extended
// totals.
func buildLines(parts []PartParams, labor []LaborParams) []*LineItem {
	lines := make([]*LineItem, 0, len(parts)+len(labor))

	for _, p := range parts {
		lines = append(lines, &LineItem{
			Type:            LinePart,
			InventoryItemID: p.InventoryItemID,
			Description:     p.Description,
			Quantity:        p.Quantity,
			UnitPrice:       p.UnitPrice,
			Total:           PartTotal(p.Quantity, p.UnitPrice),
		})
	}

	for _, l := range labor {
		lines = append(lines, &LineItem{
			Type:        LineLabor,
			ServiceID:   l.ServiceID,
			Description: l.Description,
			Hours:       l.Hours,
			Rate:        l.Rate,
			Total:       LaborTotal(l.Hours, l.Rate),
		})
	}

	return lines
}

type CreateWorkOrderParams struct {
	ClientID                uuid.UUID
	VehicleID               uuid.UUID
	AssignedMechanicID      *uuid.UUID
	ProblemDescription      string
	Priority                string
	EstimatedCompletionDate *time.Time
	MileageIn               *int64
	Notes                   string
	Parts                   []PartParams
	Labor                   []LaborParams
}

// CreateWorkOrder mints a number, computes totals and persists the work
// order with its lines in one transaction. Part lines backed by inventory
// decrement stock and leave a sale entry in the ledger; any failure rolls
// the whole write back.
func (s *Service) CreateWorkOrder(ctx context.Context, params CreateWorkOrderParams, actor uuid.UUID) (*Document, error) {
	if params.ClientID == uuid.Nil {
		return nil, &ValidationError{Field: "client_id", Reason: "required"}
	}

	if params.VehicleID == uuid.Nil {
		return nil, &ValidationError{Field: "vehicle_id", Reason: "required"}
	}

	lines := buildLines(params.Parts, params.Labor)
	totals := ComputeTotals(lines, s.taxRate, 0)

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin create work order: %w", err)
	}
	defer tx.Rollback()

	now := s.now()

	seq, err := tx.NextSequence(ctx, KindWorkOrder, now.Year())
	if err != nil {
		return nil, err
	}

	priority := params.Priority
	if priority == "" {
		priority = "normal"
	}

	vehicleID := params.VehicleID

	doc := &Document{
		Kind:                    KindWorkOrder,
		Number:                  FormatNumber(KindWorkOrder, now, seq),
		Status:                  StatusPending,
		ClientID:                params.ClientID,
		VehicleID:               &vehicleID,
		AssignedMechanicID:      params.AssignedMechanicID,
		ProblemDescription:      params.ProblemDescription,
		Priority:                priority,
		EstimatedCompletionDate: params.EstimatedCompletionDate,
		MileageIn:               params.MileageIn,
		Subtotal:                totals.Subtotal,
		TaxAmount:               totals.Tax,
		TotalAmount:             totals.Total,
		Notes:                   params.Notes,
		CreatedBy:               actor,
	}
	if err := tx.InsertDocument(ctx, doc); err != nil {
		return nil, err
	}

	if err := tx.InsertLineItems(ctx, KindWorkOrder, doc.ID, lines); err != nil {
		return nil, err
	}

	for _, line := range lines {
		if line.Type != LinePart || line.InventoryItemID == nil {
			continue
		}

		if err := tx.ConsumeStock(ctx, *line.InventoryItemID, line.Quantity, doc.ID, actor); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create work order: %w", err)
	}

	doc.Items = lines

	return doc, nil
}

type CreateBudgetParams struct {
	ClientID    uuid.UUID
	VehicleID   *uuid.UUID
	Description string
	ValidUntil  *time.Time
	Notes       string
	Parts       []PartParams
	Labor       []LaborParams
}

func (s *Service) CreateBudget(ctx context.Context, params CreateBudgetParams, actor uuid.UUID) (*Document, error) {
	if params.ClientID == uuid.Nil {
		return nil, &ValidationError{Field: "client_id", Reason: "required"}
	}

	lines := buildLines(params.Parts, params.Labor)
	totals := ComputeTotals(lines, s.taxRate, 0)

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin create budget: %w", err)
	}
	defer tx.Rollback()

	now := s.now()

	seq, err := tx.NextSequence(ctx, KindBudget, now.Year())
	if err != nil {
		return nil, err
	}

	doc := &Document{
		Kind:        KindBudget,
		Number:      FormatNumber(KindBudget, now, seq),
		Status:      StatusDraft,
		ClientID:    params.ClientID,
		VehicleID:   params.VehicleID,
		Description: params.Description,
		ValidUntil:  params.ValidUntil,
		Subtotal:    totals.Subtotal,
		TaxAmount:   totals.Tax,
		TotalAmount: totals.Total,
		Notes:       params.Notes,
		CreatedBy:   actor,
	}
	if err := tx.InsertDocument(ctx, doc); err != nil {
		return nil, err
	}

	if err := tx.InsertLineItems(ctx, KindBudget, doc.ID, lines); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create budget: %w", err)
	}

	doc.Items = lines

	return doc, nil
}

type CreateInvoiceParams struct {
	ClientID       uuid.UUID
	IssueDate      *time.Time
	DueDate        *time.Time
	DiscountAmount int64
	Notes          string
	Parts          []PartParams
}

// CreateInvoice persists a manual invoice not backed by a work order.
func (s *Service) CreateInvoice(ctx context.Context, params CreateInvoiceParams, actor uuid.UUID) (*Document, error) {
	if params.ClientID == uuid.Nil {
		return nil, &ValidationError{Field: "client_id", Reason: "required"}
	}

	if len(params.Parts) == 0 {
		return nil, &ValidationError{Field: "items", Reason: "at least one item required"}
	}

	lines := buildLines(params.Parts, nil)
	totals := ComputeTotals(lines, s.taxRate, params.DiscountAmount)

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin create invoice: %w", err)
	}
	defer tx.Rollback()

	now := s.now()

	seq, err := tx.NextSequence(ctx, KindInvoice, now.Year())
	if err != nil {
		return nil, err
	}

	issueDate := now
	if params.IssueDate != nil {
		issueDate = *params.IssueDate
	}

	dueDate := issueDate.AddDate(0, 0, 30)
	if params.DueDate != nil {
		dueDate = *params.DueDate
	}

	doc := &Document{
		Kind:           KindInvoice,
		Number:         FormatNumber(KindInvoice, now, seq),
		Status:         StatusPending,
		ClientID:       params.ClientID,
		IssueDate:      &issueDate,
		DueDate:        &dueDate,
		Subtotal:       totals.Subtotal,
		TaxAmount:      totals.Tax,
		DiscountAmount: params.DiscountAmount,
		TotalAmount:    totals.Total,
		Notes:          params.Notes,
		CreatedBy:      actor,
	}
	if err := tx.InsertDocument(ctx, doc); err != nil {
		return nil, err
	}

	if err := tx.InsertLineItems(ctx, KindInvoice, doc.ID, lines); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create invoice: %w", err)
	}

	doc.Items = lines

	return doc, nil
}

// CreateInvoiceFromWorkOrder converts a work order into an invoice. The work
// order is re-read under a row lock; if it was already invoiced the call
// fails with ErrAlreadyInvoiced. Totals are copied verbatim, labor lines are
// collapsed into single "description (hours hrs)" lines, and the work order
// is marked invoiced, all in one transaction.
func (s *Service) CreateInvoiceFromWorkOrder(ctx context.Context, workOrderID uuid.UUID, actor uuid.UUID) (*Document, error) {
	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin invoice conversion: %w", err)
	}
	defer tx.Rollback()

	wo, err := tx.WorkOrderForUpdate(ctx, workOrderID)
	if err != nil {
		return nil, err
	}

	if wo.Status == StatusInvoiced {
		return nil, ErrAlreadyInvoiced
	}

	now := s.now()

	seq, err := tx.NextSequence(ctx, KindInvoice, now.Year())
	if err != nil {
		return nil, err
	}

	issueDate := now
	dueDate := now.AddDate(0, 0, 30)

	inv := &Document{
		Kind:           KindInvoice,
		Number:         FormatNumber(KindInvoice, now, seq),
		Status:         StatusPending,
		ClientID:       wo.ClientID,
		WorkOrderID:    &workOrderID,
		IssueDate:      &issueDate,
		DueDate:        &dueDate,
		Subtotal:       wo.Subtotal,
		TaxAmount:      wo.TaxAmount,
		DiscountAmount: wo.DiscountAmount,
		TotalAmount:    wo.TotalAmount,
		CreatedBy:      actor,
	}
	if err := tx.InsertDocument(ctx, inv); err != nil {
		return nil, err
	}

	woLines, err := tx.WorkOrderLines(ctx, workOrderID)
	if err != nil {
		return nil, err
	}

	invLines := convertLines(woLines)
	if err := tx.InsertLineItems(ctx, KindInvoice, inv.ID, invLines); err != nil {
		return nil, err
	}

	if err := tx.SetWorkOrderStatus(ctx, workOrderID, StatusInvoiced); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit invoice conversion: %w", err)
	}

	inv.Items = invLines

	return inv, nil
}

// convertLines copies work order lines into flat invoice lines. Part lines
// keep quantity and unit price; labor lines become a single row priced at
// the labor total.
func convertLines(woLines []*LineItem) []*LineItem {
	lines := make([]*LineItem, 0, len(woLines))

	for _, l := range woLines {
		if l.Type == LineLabor {
			lines = append(lines, &LineItem{
				Type:        LinePart,
				Description: fmt.Sprintf("%s (%s hrs)", l.Description, FormatHours(l.Hours)),
				Quantity:    1,
				UnitPrice:   l.Total,
				Total:       l.Total,
			})

			continue
		}

		lines = append(lines, &LineItem{
			Type:        LinePart,
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Total:       l.Total,
		})
	}

	return lines
}

type PaymentParams struct {
	Amount          int64
	Method          string
	Date            time.Time
	ReferenceNumber string
	Notes           string
}

// AddPayment appends a payment and bumps the invoice's running paid amount.
// The status flips to paid exactly when the running sum reaches the total;
// amounts beyond the total are accepted.
func (s *Service) AddPayment(ctx context.Context, invoiceID uuid.UUID, params PaymentParams, actor uuid.UUID) (*Document, error) {
	if params.Amount <= 0 {
		return nil, &ValidationError{Field: "amount", Reason: "must be positive"}
	}

	if params.Method == "" {
		return nil, &ValidationError{Field: "payment_method", Reason: "required"}
	}

	if params.Date.IsZero() {
		return nil, &ValidationError{Field: "payment_date", Reason: "required"}
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin add payment: %w", err)
	}
	defer tx.Rollback()

	inv, err := tx.InvoiceForUpdate(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	p := &Payment{
		InvoiceID:       invoiceID,
		Amount:          params.Amount,
		Method:          params.Method,
		Date:            params.Date,
		ReferenceNumber: params.ReferenceNumber,
		Notes:           params.Notes,
		CreatedBy:       actor,
	}
	if err := tx.InsertPayment(ctx, p); err != nil {
		return nil, err
	}

	paid := inv.PaidAmount + params.Amount

	status := inv.Status
	if paid >= inv.TotalAmount {
		status = StatusPaid
	} else {
		status = StatusPartial
	}

	if err := tx.SetInvoicePaid(ctx, invoiceID, paid, status); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit add payment: %w", err)
	}

	inv.PaidAmount = paid
	inv.Status = status
	inv.Payments = append(inv.Payments, p)

	return inv, nil
}

// Get loads a document with its line items, and for invoices its payments.
func (s *Service) Get(ctx context.Context, kind Kind, id uuid.UUID) (*Document, error) {
	doc, err := s.repo.GetDocument(ctx, kind, id)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.GetLineItems(ctx, kind, id)
	if err != nil {
		return nil, err
	}

	doc.Items = items

	if kind == KindInvoice {
		payments, err := s.repo.GetPayments(ctx, id)
		if err != nil {
			return nil, err
		}

		doc.Payments = payments
	}

	return doc, nil
}

func (s *Service) List(ctx context.Context, kind Kind, filter ListFilter) ([]*Document, error) {
	return s.repo.ListDocuments(ctx, kind, filter)
}

// Post-creation updates are restricted to status and descriptive fields;
// monetary amounts are never recomputed.
type UpdateWorkOrderParams struct {
	Status               *Status
	AssignedMechanicID   *uuid.UUID
	Diagnosis            *string
	WorkPerformed        *string
	ActualCompletionDate *time.Time
	MileageOut           *int64
	Notes                *string
}

func (s *Service) UpdateWorkOrder(ctx context.Context, id uuid.UUID, params UpdateWorkOrderParams) (*Document, error) {
	if _, err := s.repo.GetDocument(ctx, KindWorkOrder, id); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateWorkOrder(ctx, id, params); err != nil {
		return nil, err
	}

	return s.repo.GetDocument(ctx, KindWorkOrder, id)
}

type UpdateBudgetParams struct {
	Status      *Status
	Description *string
	ValidUntil  *time.Time
	Notes       *string
}

func (s *Service) UpdateBudget(ctx context.Context, id uuid.UUID, params UpdateBudgetParams) (*Document, error) {
	if _, err := s.repo.GetDocument(ctx, KindBudget, id); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateBudget(ctx, id, params); err != nil {
		return nil, err
	}

	return s.repo.GetDocument(ctx, KindBudget, id)
}

type UpdateInvoiceParams struct {
	Status        *Status
	PaymentMethod *string
	PaymentDate   *time.Time
	Notes         *string

	// Set by the service when a status update marks the invoice paid.
	PaidAmount *int64
}

func (s *Service) UpdateInvoice(ctx context.Context, id uuid.UUID, params UpdateInvoiceParams) (*Document, error) {
	inv, err := s.repo.GetDocument(ctx, KindInvoice, id)
	if err != nil {
		return nil, err
	}

	// Marking an invoice paid by hand settles the full amount and stamps the
	// payment date, as the payment endpoint would.
	if params.Status != nil && *params.Status == StatusPaid && inv.PaymentDate == nil {
		if params.PaymentDate == nil {
			now := s.now()
			params.PaymentDate = &now
		}

		total := inv.TotalAmount
		params.PaidAmount = &total
	}

	if err := s.repo.UpdateInvoice(ctx, id, params); err != nil {
		return nil, err
	}

	return s.repo.GetDocument(ctx, KindInvoice, id)
}

func (s *Service) Delete(ctx context.Context, kind Kind, id uuid.UUID) error {
	if _, err := s.repo.GetDocument(ctx, kind, id); err != nil {
		return err
	}

	return s.repo.DeleteDocument(ctx, kind, id)
}
