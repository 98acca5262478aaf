package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/rcastellanos/taller/internal/inventory"
)

func TestService_CreateItem(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := inventory.NewMockRepository(ctrl)
	svc := inventory.NewService(repo)
	actor := uuid.New()

	repo.EXPECT().CodeExists(gomock.Any(), "FLT-001").Return(false, nil)
	repo.EXPECT().
		CreateItem(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, item *inventory.Item) error {
			item.ID = uuid.New()
			item.CreatedAt = time.Now()
			return nil
		})
	repo.EXPECT().
		AdjustStock(gomock.Any(), gomock.Any(), int64(10), inventory.TransactionAdjustment, "Initial stock", actor).
		Return(nil)

	item, err := svc.CreateItem(context.Background(), inventory.CreateItemParams{
		Code:          "FLT-001",
		Name:          "Oil filter",
		UnitPrice:     1250,
		StockQuantity: 10,
		MinStockLevel: 3,
	}, actor)
	require.NoError(t, err)
	assert.Equal(t, int64(10), item.StockQuantity)
	assert.Equal(t, "unit", item.Unit)
	assert.True(t, item.Active)
}

func TestService_CreateItem_DuplicateCode(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := inventory.NewMockRepository(ctrl)
	svc := inventory.NewService(repo)

	repo.EXPECT().CodeExists(gomock.Any(), "FLT-001").Return(true, nil)

	_, err := svc.CreateItem(context.Background(), inventory.CreateItemParams{Code: "FLT-001"}, uuid.New())
	assert.ErrorIs(t, err, inventory.ErrCodeTaken)
}

func TestService_CreateItem_NoInitialStock(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := inventory.NewMockRepository(ctrl)
	svc := inventory.NewService(repo)

	repo.EXPECT().CodeExists(gomock.Any(), "BRK-020").Return(false, nil)
	repo.EXPECT().CreateItem(gomock.Any(), gomock.Any()).Return(nil)
	// No AdjustStock expectation: zero stock mints no ledger entry.

	item, err := svc.CreateItem(context.Background(), inventory.CreateItemParams{
		Code:      "BRK-020",
		Name:      "Brake pads",
		UnitPrice: 4500,
	}, uuid.New())
	require.NoError(t, err)
	assert.Zero(t, item.StockQuantity)
}

func TestService_UpdateItem_StockChangeRecordsAdjustment(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := inventory.NewMockRepository(ctrl)
	svc := inventory.NewService(repo)

	id := uuid.New()
	actor := uuid.New()
	existing := &inventory.Item{
		ID:            id,
		Code:          "FLT-001",
		Name:          "Oil filter",
		UnitPrice:     1250,
		StockQuantity: 10,
		Unit:          "unit",
		Active:        true,
	}

	repo.EXPECT().GetItem(gomock.Any(), id).Return(existing, nil)
	repo.EXPECT().UpdateItem(gomock.Any(), gomock.Any()).Return(nil)
	repo.EXPECT().
		AdjustStock(gomock.Any(), id, int64(-3), inventory.TransactionAdjustment, "Manual adjustment", actor).
		Return(nil)

	newStock := int64(7)

	item, err := svc.UpdateItem(context.Background(), id, inventory.UpdateItemParams{StockQuantity: &newStock}, actor)
	require.NoError(t, err)
	assert.Equal(t, int64(7), item.StockQuantity)
}

func TestService_UpdateItem_UnchangedStockSkipsLedger(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := inventory.NewMockRepository(ctrl)
	svc := inventory.NewService(repo)

	id := uuid.New()
	existing := &inventory.Item{ID: id, StockQuantity: 10, Unit: "unit"}

	repo.EXPECT().GetItem(gomock.Any(), id).Return(existing, nil)
	repo.EXPECT().UpdateItem(gomock.Any(), gomock.Any()).Return(nil)

	sameStock := int64(10)

	_, err := svc.UpdateItem(context.Background(), id, inventory.UpdateItemParams{StockQuantity: &sameStock}, uuid.New())
	require.NoError(t, err)
}
