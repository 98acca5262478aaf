package inventory

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("inventory item not found")
	ErrCodeTaken     = errors.New("item code already exists")
	ErrLaborNotFound = errors.New("labor service not found")
)

// Item is a stocked part. All prices are integer cents; stock_quantity is
// mutated only through ledger-recorded adjustments and document consumption.
type Item struct {
	ID            uuid.UUID
	CategoryID    *uuid.UUID
	Code          string
	Name          string
	Description   string
	UnitPrice     int64
	CostPrice     int64
	StockQuantity int64
	MinStockLevel int64
	Unit          string
	Active        bool
	CreatedAt     time.Time

	// Loaded via JOIN.
	CategoryName string
}

type Category struct {
	ID          uuid.UUID
	Name        string
	Description string
}

// Labor is a catalog entry for workshop labor. EstimatedHours is in
// hundredths of an hour.
type Labor struct {
	ID             uuid.UUID
	Code           string
	Name           string
	Description    string
	DefaultPrice   int64
	EstimatedHours *int64
	Active         bool
}

// TransactionType classifies a stock movement.
type TransactionType string

const (
	TransactionAdjustment TransactionType = "adjustment"
	TransactionSale       TransactionType = "sale"
	TransactionPurchase   TransactionType = "purchase"
)

// Transaction is an immutable ledger entry. Quantity is a signed delta;
// corrections are new offsetting entries, never edits.
type Transaction struct {
	ID            uuid.UUID
	ItemID        uuid.UUID
	Type          TransactionType
	Quantity      int64
	ReferenceType string
	ReferenceID   *uuid.UUID
	Notes         string
	CreatedBy     uuid.UUID
	CreatedAt     time.Time
}
