package document

import (
	"time"

	"github.com/google/uuid"
)

// Kind discriminates the three document types sharing the numbering and
// transactional write machinery.
type Kind string

const (
	KindWorkOrder Kind = "work_order"
	KindBudget    Kind = "budget"
	KindInvoice   Kind = "invoice"
)

// Prefix is the human-readable document number prefix for the kind.
func (k Kind) Prefix() string {
	switch k {
	case KindWorkOrder:
		return "WO"
	case KindBudget:
		return "BUD"
	case KindInvoice:
		return "INV"
	}

	return "DOC"
}

// Status is the per-kind lifecycle state.
type Status string

const (
	// Work orders.
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusDelivered  Status = "delivered"
	StatusInvoiced   Status = "invoiced"

	// Budgets.
	StatusDraft    Status = "draft"
	StatusSent     Status = "sent"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusExpired  Status = "expired"

	// Invoices.
	StatusPartial Status = "partial"
	StatusPaid    Status = "paid"

	// Shared.
	StatusCancelled Status = "cancelled"
)

// Document is a work order, budget or invoice. Monetary fields are integer
// cents; total = subtotal + tax - discount, fixed at creation time.
type Document struct {
	ID       uuid.UUID
	Kind     Kind
	Number   string
	Status   Status
	ClientID uuid.UUID

	// Work orders and budgets.
	VehicleID *uuid.UUID

	// Work orders only.
	AssignedMechanicID      *uuid.UUID
	ProblemDescription      string
	Diagnosis               string
	WorkPerformed           string
	Priority                string
	EstimatedCompletionDate *time.Time
	ActualCompletionDate    *time.Time
	MileageIn               *int64
	MileageOut              *int64

	// Budgets only.
	Description string
	ValidUntil  *time.Time

	// Invoices only.
	WorkOrderID   *uuid.UUID
	IssueDate     *time.Time
	DueDate       *time.Time
	PaidAmount    int64
	PaymentMethod string
	PaymentDate   *time.Time

	Subtotal       int64
	TaxAmount      int64
	DiscountAmount int64
	TotalAmount    int64

	Notes     string
	CreatedBy uuid.UUID
	CreatedAt time.Time
	UpdatedAt *time.Time

	// Loaded on single-document reads.
	Items    []*LineItem
	Payments []*Payment
}

// LineType distinguishes part lines (quantity x unit price) from labor lines
// (hours x rate).
type LineType string

const (
	LinePart  LineType = "part"
	LineLabor LineType = "service"
)

// LineItem is one priced row of a document. Hours is in hundredths of an
// hour; money fields are cents. Total carries the line's exact extended
// amount, and the parent subtotal equals the sum of all line totals at
// creation time.
type LineItem struct {
	ID              uuid.UUID
	DocumentID      uuid.UUID
	Type            LineType
	InventoryItemID *uuid.UUID
	ServiceID       *uuid.UUID
	Description     string
	Quantity        int64
	UnitPrice       int64
	Hours           int64
	Rate            int64
	Total           int64
}

// Payment is an append-only partial payment against an invoice.
type Payment struct {
	ID              uuid.UUID
	InvoiceID       uuid.UUID
	Amount          int64
	Method          string
	Date            time.Time
	ReferenceNumber string
	Notes           string
	CreatedBy       uuid.UUID
	CreatedAt       time.Time
}
