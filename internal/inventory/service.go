package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=inventory
type Repository interface {
	CreateItem(ctx context.Context, item *Item) error
	GetItem(ctx context.Context, id uuid.UUID) (*Item, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	ListItems(ctx context.Context, filter ListFilter) ([]*Item, error)
	UpdateItem(ctx context.Context, item *Item) error
	DeleteItem(ctx context.Context, id uuid.UUID) error

	// AdjustStock applies a signed delta to stock_quantity and appends the
	// matching ledger entry in one database transaction.
	AdjustStock(ctx context.Context, itemID uuid.UUID, delta int64, txType TransactionType, notes string, actor uuid.UUID) error
	ListTransactions(ctx context.Context, itemID uuid.UUID) ([]*Transaction, error)

	ListCategories(ctx context.Context) ([]*Category, error)
	CreateLabor(ctx context.Context, l *Labor) error
	ListLabor(ctx context.Context, active *bool) ([]*Labor, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateItemParams struct {
	CategoryID    *uuid.UUID
	Code          string
	Name          string
	Description   string
	UnitPrice     int64
	CostPrice     int64
	StockQuantity int64
	MinStockLevel int64
	Unit          string
}

type ListFilter struct {
	CategoryID *uuid.UUID
	Active     *bool
	LowStock   bool
}

func (s *Service) CreateItem(ctx context.Context, params CreateItemParams, actor uuid.UUID) (*Item, error) {
	taken, err := s.repo.CodeExists(ctx, params.Code)
	if err != nil {
		return nil, fmt.Errorf("checking code: %w", err)
	}

	if taken {
		return nil, ErrCodeTaken
	}

	unit := params.Unit
	if unit == "" {
		unit = "unit"
	}

	item := &Item{
		CategoryID:    params.CategoryID,
		Code:          params.Code,
		Name:          params.Name,
		Description:   params.Description,
		UnitPrice:     params.UnitPrice,
		CostPrice:     params.CostPrice,
		MinStockLevel: params.MinStockLevel,
		Unit:          unit,
		Active:        true,
	}
	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, err
	}

	// Initial stock enters through the ledger like every other movement.
	if params.StockQuantity > 0 {
		if err := s.repo.AdjustStock(ctx, item.ID, params.StockQuantity, TransactionAdjustment, "Initial stock", actor); err != nil {
			return nil, err
		}

		item.StockQuantity = params.StockQuantity
	}

	return item, nil
}

func (s *Service) GetItem(ctx context.Context, id uuid.UUID) (*Item, error) {
	return s.repo.GetItem(ctx, id)
}

func (s *Service) ListItems(ctx context.Context, filter ListFilter) ([]*Item, error) {
	return s.repo.ListItems(ctx, filter)
}

type UpdateItemParams struct {
	CategoryID    *uuid.UUID
	Name          *string
	Description   *string
	UnitPrice     *int64
	CostPrice     *int64
	StockQuantity *int64
	MinStockLevel *int64
	Unit          *string
	Active        *bool
}

func (s *Service) UpdateItem(ctx context.Context, id uuid.UUID, params UpdateItemParams, actor uuid.UUID) (*Item, error) {
	item, err := s.repo.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.CategoryID != nil {
		item.CategoryID = params.CategoryID
	}

	if params.Name != nil {
		item.Name = *params.Name
	}

	if params.Description != nil {
		item.Description = *params.Description
	}

	if params.UnitPrice != nil {
		item.UnitPrice = *params.UnitPrice
	}

	if params.CostPrice != nil {
		item.CostPrice = *params.CostPrice
	}

	if params.MinStockLevel != nil {
		item.MinStockLevel = *params.MinStockLevel
	}

	if params.Unit != nil {
		item.Unit = *params.Unit
	}

	if params.Active != nil {
		item.Active = *params.Active
	}

	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, err
	}

	// Stock edits go through the ledger as an adjustment of the difference.
	if params.StockQuantity != nil {
		delta := *params.StockQuantity - item.StockQuantity
		if delta != 0 {
			if err := s.repo.AdjustStock(ctx, id, delta, TransactionAdjustment, "Manual adjustment", actor); err != nil {
				return nil, err
			}

			item.StockQuantity = *params.StockQuantity
		}
	}

	return item, nil
}

func (s *Service) DeleteItem(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteItem(ctx, id)
}

func (s *Service) ListTransactions(ctx context.Context, itemID uuid.UUID) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, itemID)
}

func (s *Service) ListCategories(ctx context.Context) ([]*Category, error) {
	return s.repo.ListCategories(ctx)
}

type CreateLaborParams struct {
	Code           string
	Name           string
	Description    string
	DefaultPrice   int64
	EstimatedHours *int64
}

func (s *Service) CreateLabor(ctx context.Context, params CreateLaborParams) (*Labor, error) {
	l := &Labor{
		Code:           params.Code,
		Name:           params.Name,
		Description:    params.Description,
		DefaultPrice:   params.DefaultPrice,
		EstimatedHours: params.EstimatedHours,
		Active:         true,
	}
	if err := s.repo.CreateLabor(ctx, l); err != nil {
		return nil, err
	}

	return l, nil
}

func (s *Service) ListLabor(ctx context.Context, active *bool) ([]*Labor, error) {
	return s.repo.ListLabor(ctx, active)
}
