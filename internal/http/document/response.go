package document

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rcastellanos/taller/internal/document"
)

type lineItemResponse struct {
	ID              uuid.UUID         `json:"id"`
	Type            document.LineType `json:"type"`
	InventoryItemID *uuid.UUID        `json:"inventory_item_id,omitempty"`
	ServiceID       *uuid.UUID        `json:"service_id,omitempty"`
	Description     string            `json:"description"`
	Quantity        int64             `json:"quantity,omitempty"`
	UnitPrice       int64             `json:"unit_price,omitempty"`
	Hours           *decimal.Decimal  `json:"hours,omitempty"`
	Rate            int64             `json:"rate,omitempty"`
	Total           int64             `json:"total"`
}

type paymentResponse struct {
	ID              uuid.UUID `json:"id"`
	Amount          int64     `json:"amount"`
	Method          string    `json:"payment_method"`
	Date            time.Time `json:"payment_date"`
	ReferenceNumber string    `json:"reference_number,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

type documentResponse struct {
	ID       uuid.UUID       `json:"id"`
	Number   string          `json:"number"`
	Status   document.Status `json:"status"`
	ClientID uuid.UUID       `json:"client_id"`

	VehicleID *uuid.UUID `json:"vehicle_id,omitempty"`

	AssignedMechanicID      *uuid.UUID `json:"assigned_mechanic_id,omitempty"`
	ProblemDescription      string     `json:"problem_description,omitempty"`
	Diagnosis               string     `json:"diagnosis,omitempty"`
	WorkPerformed           string     `json:"work_performed,omitempty"`
	Priority                string     `json:"priority,omitempty"`
	EstimatedCompletionDate *time.Time `json:"estimated_completion_date,omitempty"`
	ActualCompletionDate    *time.Time `json:"actual_completion_date,omitempty"`
	MileageIn               *int64     `json:"mileage_in,omitempty"`
	MileageOut              *int64     `json:"mileage_out,omitempty"`

	Description string     `json:"description,omitempty"`
	ValidUntil  *time.Time `json:"valid_until,omitempty"`

	WorkOrderID   *uuid.UUID `json:"work_order_id,omitempty"`
	IssueDate     *time.Time `json:"issue_date,omitempty"`
	DueDate       *time.Time `json:"due_date,omitempty"`
	PaidAmount    int64      `json:"paid_amount,omitempty"`
	PaymentMethod string     `json:"payment_method,omitempty"`
	PaymentDate   *time.Time `json:"payment_date,omitempty"`

	Subtotal       int64 `json:"subtotal"`
	TaxAmount      int64 `json:"tax_amount"`
	DiscountAmount int64 `json:"discount_amount,omitempty"`
	TotalAmount    int64 `json:"total_amount"`

	Notes     string     `json:"notes,omitempty"`
	CreatedBy uuid.UUID  `json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`

	Items    []lineItemResponse `json:"items,omitempty"`
	Payments []paymentResponse  `json:"payments,omitempty"`
}

func toLineItemResponse(item *document.LineItem) lineItemResponse {
	resp := lineItemResponse{
		ID:              item.ID,
		Type:            item.Type,
		InventoryItemID: item.InventoryItemID,
		ServiceID:       item.ServiceID,
		Description:     item.Description,
		Quantity:        item.Quantity,
		UnitPrice:       item.UnitPrice,
		Rate:            item.Rate,
		Total:           item.Total,
	}

	if item.Type == document.LineLabor {
		hours := decimal.New(item.Hours, -2)
		resp.Hours = &hours
	}

	return resp
}

func toResponse(doc *document.Document) documentResponse {
	resp := documentResponse{
		ID:                      doc.ID,
		Number:                  doc.Number,
		Status:                  doc.Status,
		ClientID:                doc.ClientID,
		VehicleID:               doc.VehicleID,
		AssignedMechanicID:      doc.AssignedMechanicID,
		ProblemDescription:      doc.ProblemDescription,
		Diagnosis:               doc.Diagnosis,
		WorkPerformed:           doc.WorkPerformed,
		Priority:                doc.Priority,
		EstimatedCompletionDate: doc.EstimatedCompletionDate,
		ActualCompletionDate:    doc.ActualCompletionDate,
		MileageIn:               doc.MileageIn,
		MileageOut:              doc.MileageOut,
		Description:             doc.Description,
		ValidUntil:              doc.ValidUntil,
		WorkOrderID:             doc.WorkOrderID,
		IssueDate:               doc.IssueDate,
		DueDate:                 doc.DueDate,
		PaidAmount:              doc.PaidAmount,
		PaymentMethod:           doc.PaymentMethod,
		PaymentDate:             doc.PaymentDate,
		Subtotal:                doc.Subtotal,
		TaxAmount:               doc.TaxAmount,
		DiscountAmount:          doc.DiscountAmount,
		TotalAmount:             doc.TotalAmount,
		Notes:                   doc.Notes,
		CreatedBy:               doc.CreatedBy,
		CreatedAt:               doc.CreatedAt,
		UpdatedAt:               doc.UpdatedAt,
	}

	for _, item := range doc.Items {
		resp.Items = append(resp.Items, toLineItemResponse(item))
	}

	for _, p := range doc.Payments {
		resp.Payments = append(resp.Payments, paymentResponse{
			ID:              p.ID,
			Amount:          p.Amount,
			Method:          p.Method,
			Date:            p.Date,
			ReferenceNumber: p.ReferenceNumber,
			Notes:           p.Notes,
			CreatedAt:       p.CreatedAt,
		})
	}

	return resp
}

func toResponseList(docs []*document.Document) []documentResponse {
	resp := make([]documentResponse, len(docs))
	for i, doc := range docs {
		resp[i] = toResponse(doc)
	}

	return resp
}
