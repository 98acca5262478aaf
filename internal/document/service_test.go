package document

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var testTaxRate = decimal.RequireFromString("0.12")

func newTestService(t *testing.T) (*Service, *MockRepository) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := NewMockRepository(ctrl)

	svc := NewService(repo, testTaxRate)
	svc.now = func() time.Time {
		return time.Date(2025, time.March, 14, 10, 0, 0, 0, time.UTC)
	}

	return svc, repo
}

func TestCreateWorkOrder(t *testing.T) {
	clientID := uuid.New()
	vehicleID := uuid.New()
	actor := uuid.New()
	itemID := uuid.New()

	params := CreateWorkOrderParams{
		ClientID:           clientID,
		VehicleID:          vehicleID,
		ProblemDescription: "engine noise",
		Parts: []PartParams{
			{InventoryItemID: &itemID, Description: "Oil filter", Quantity: 2, UnitPrice: 1500},
			{Description: "Gasket (client supplied)", Quantity: 1, UnitPrice: 0},
		},
		Labor: []LaborParams{
			{Description: "Oil change", Hours: 150, Rate: 2000},
		},
	}

	t.Run("Success", func(t *testing.T) {
		svc, repo := newTestService(t)
		tx := NewMockTx(gomock.NewController(t))

		docID := uuid.New()

		repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
		tx.EXPECT().NextSequence(gomock.Any(), KindWorkOrder, 2025).Return(int64(7), nil)
		tx.EXPECT().InsertDocument(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, doc *Document) error {
				assert.Equal(t, "WO-202503-0007", doc.Number)
				assert.Equal(t, StatusPending, doc.Status)
				assert.Equal(t, "normal", doc.Priority)
				assert.Equal(t, int64(6000), doc.Subtotal)
				assert.Equal(t, int64(720), doc.TaxAmount)
				assert.Equal(t, int64(6720), doc.TotalAmount)
				assert.Equal(t, actor, doc.CreatedBy)
				doc.ID = docID
				return nil
			})
		tx.EXPECT().InsertLineItems(gomock.Any(), KindWorkOrder, docID, gomock.Len(3)).Return(nil)
		// Only the inventory-backed part line touches stock.
		tx.EXPECT().ConsumeStock(gomock.Any(), itemID, int64(2), docID, actor).Return(nil)
		tx.EXPECT().Commit().Return(nil)
		tx.EXPECT().Rollback().Return(nil)

		doc, err := svc.CreateWorkOrder(context.Background(), params, actor)
		require.NoError(t, err)

		assert.Equal(t, "WO-202503-0007", doc.Number)
		assert.Len(t, doc.Items, 3)
		assert.Equal(t, int64(3000), doc.Items[2].Total)
	})

	t.Run("MissingClient", func(t *testing.T) {
		svc, _ := newTestService(t)

		p := params
		p.ClientID = uuid.Nil

		_, err := svc.CreateWorkOrder(context.Background(), p, actor)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "client_id", verr.Field)
	})

	t.Run("StockFailureRollsBack", func(t *testing.T) {
		svc, repo := newTestService(t)
		tx := NewMockTx(gomock.NewController(t))

		repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
		tx.EXPECT().NextSequence(gomock.Any(), KindWorkOrder, 2025).Return(int64(8), nil)
		tx.EXPECT().InsertDocument(gomock.Any(), gomock.Any()).Return(nil)
		tx.EXPECT().InsertLineItems(gomock.Any(), KindWorkOrder, gomock.Any(), gomock.Any()).Return(nil)
		tx.EXPECT().ConsumeStock(gomock.Any(), itemID, int64(2), gomock.Any(), actor).
			Return(errors.New("stock update failed"))
		tx.EXPECT().Rollback().Return(nil)

		_, err := svc.CreateWorkOrder(context.Background(), params, actor)
		require.Error(t, err)
	})

	t.Run("SequenceFailureRollsBack", func(t *testing.T) {
		svc, repo := newTestService(t)
		tx := NewMockTx(gomock.NewController(t))

		repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
		tx.EXPECT().NextSequence(gomock.Any(), KindWorkOrder, 2025).
			Return(int64(0), errors.New("connection reset"))
		tx.EXPECT().Rollback().Return(nil)

		_, err := svc.CreateWorkOrder(context.Background(), params, actor)
		require.Error(t, err)
	})
}

func TestCreateBudget(t *testing.T) {
	svc, repo := newTestService(t)
	tx := NewMockTx(gomock.NewController(t))

	clientID := uuid.New()
	actor := uuid.New()
	docID := uuid.New()

	repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	tx.EXPECT().NextSequence(gomock.Any(), KindBudget, 2025).Return(int64(1), nil)
	tx.EXPECT().InsertDocument(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, doc *Document) error {
			assert.Equal(t, "BUD-202503-0001", doc.Number)
			assert.Equal(t, StatusDraft, doc.Status)
			doc.ID = docID
			return nil
		})
	tx.EXPECT().InsertLineItems(gomock.Any(), KindBudget, docID, gomock.Len(1)).Return(nil)
	tx.EXPECT().Commit().Return(nil)
	tx.EXPECT().Rollback().Return(nil)

	doc, err := svc.CreateBudget(context.Background(), CreateBudgetParams{
		ClientID:    clientID,
		Description: "Brake overhaul",
		Labor:       []LaborParams{{Description: "Brake pads", Hours: 100, Rate: 2500}},
	}, actor)
	require.NoError(t, err)
	assert.Equal(t, int64(2500), doc.Subtotal)
}

func TestCreateInvoiceFromWorkOrder(t *testing.T) {
	workOrderID := uuid.New()
	clientID := uuid.New()
	actor := uuid.New()

	t.Run("Success", func(t *testing.T) {
		svc, repo := newTestService(t)
		tx := NewMockTx(gomock.NewController(t))

		invoiceID := uuid.New()

		wo := &Document{
			ID:          workOrderID,
			Kind:        KindWorkOrder,
			Status:      StatusCompleted,
			ClientID:    clientID,
			Subtotal:    6000,
			TaxAmount:   720,
			TotalAmount: 6720,
		}
		woLines := []*LineItem{
			{Type: LinePart, Description: "Oil filter", Quantity: 2, UnitPrice: 1500, Total: 3000},
			{Type: LineLabor, Description: "Oil change", Hours: 150, Rate: 2000, Total: 3000},
		}

		repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
		tx.EXPECT().WorkOrderForUpdate(gomock.Any(), workOrderID).Return(wo, nil)
		tx.EXPECT().NextSequence(gomock.Any(), KindInvoice, 2025).Return(int64(12), nil)
		tx.EXPECT().InsertDocument(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, doc *Document) error {
				assert.Equal(t, "INV-202503-0012", doc.Number)
				assert.Equal(t, clientID, doc.ClientID)
				require.NotNil(t, doc.WorkOrderID)
				assert.Equal(t, workOrderID, *doc.WorkOrderID)
				// Totals are copied verbatim, never recomputed.
				assert.Equal(t, int64(6000), doc.Subtotal)
				assert.Equal(t, int64(720), doc.TaxAmount)
				assert.Equal(t, int64(6720), doc.TotalAmount)
				doc.ID = invoiceID
				return nil
			})
		tx.EXPECT().WorkOrderLines(gomock.Any(), workOrderID).Return(woLines, nil)
		tx.EXPECT().InsertLineItems(gomock.Any(), KindInvoice, invoiceID, gomock.Any()).DoAndReturn(
			func(_ context.Context, _ Kind, _ uuid.UUID, items []*LineItem) error {
				require.Len(t, items, 2)
				assert.Equal(t, "Oil filter", items[0].Description)
				assert.Equal(t, "Oil change (1.5 hrs)", items[1].Description)
				assert.Equal(t, int64(1), items[1].Quantity)
				assert.Equal(t, int64(3000), items[1].UnitPrice)
				return nil
			})
		tx.EXPECT().SetWorkOrderStatus(gomock.Any(), workOrderID, StatusInvoiced).Return(nil)
		tx.EXPECT().Commit().Return(nil)
		tx.EXPECT().Rollback().Return(nil)

		inv, err := svc.CreateInvoiceFromWorkOrder(context.Background(), workOrderID, actor)
		require.NoError(t, err)

		require.NotNil(t, inv.DueDate)
		assert.Equal(t, inv.IssueDate.AddDate(0, 0, 30), *inv.DueDate)
	})

	t.Run("AlreadyInvoiced", func(t *testing.T) {
		svc, repo := newTestService(t)
		tx := NewMockTx(gomock.NewController(t))

		repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
		tx.EXPECT().WorkOrderForUpdate(gomock.Any(), workOrderID).
			Return(&Document{ID: workOrderID, Status: StatusInvoiced}, nil)
		tx.EXPECT().Rollback().Return(nil)

		_, err := svc.CreateInvoiceFromWorkOrder(context.Background(), workOrderID, actor)
		assert.ErrorIs(t, err, ErrAlreadyInvoiced)
	})

	t.Run("NotFound", func(t *testing.T) {
		svc, repo := newTestService(t)
		tx := NewMockTx(gomock.NewController(t))

		repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
		tx.EXPECT().WorkOrderForUpdate(gomock.Any(), workOrderID).Return(nil, ErrNotFound)
		tx.EXPECT().Rollback().Return(nil)

		_, err := svc.CreateInvoiceFromWorkOrder(context.Background(), workOrderID, actor)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestAddPayment(t *testing.T) {
	invoiceID := uuid.New()
	actor := uuid.New()
	payDate := time.Date(2025, time.March, 20, 0, 0, 0, 0, time.UTC)

	invoice := func(paid int64) *Document {
		return &Document{
			ID:          invoiceID,
			Kind:        KindInvoice,
			Status:      StatusPending,
			TotalAmount: 10000,
			PaidAmount:  paid,
		}
	}

	tests := []struct {
		name       string
		paidSoFar  int64
		amount     int64
		wantPaid   int64
		wantStatus Status
	}{
		{name: "PartialPayment", paidSoFar: 0, amount: 4000, wantPaid: 4000, wantStatus: StatusPartial},
		{name: "SettlesExactly", paidSoFar: 4000, amount: 6000, wantPaid: 10000, wantStatus: StatusPaid},
		{name: "OverpaymentAccepted", paidSoFar: 4000, amount: 9000, wantPaid: 13000, wantStatus: StatusPaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newTestService(t)
			tx := NewMockTx(gomock.NewController(t))

			repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
			tx.EXPECT().InvoiceForUpdate(gomock.Any(), invoiceID).Return(invoice(tt.paidSoFar), nil)
			tx.EXPECT().InsertPayment(gomock.Any(), gomock.Any()).Return(nil)
			tx.EXPECT().SetInvoicePaid(gomock.Any(), invoiceID, tt.wantPaid, tt.wantStatus).Return(nil)
			tx.EXPECT().Commit().Return(nil)
			tx.EXPECT().Rollback().Return(nil)

			inv, err := svc.AddPayment(context.Background(), invoiceID, PaymentParams{
				Amount: tt.amount,
				Method: "cash",
				Date:   payDate,
			}, actor)
			require.NoError(t, err)

			assert.Equal(t, tt.wantPaid, inv.PaidAmount)
			assert.Equal(t, tt.wantStatus, inv.Status)
			assert.Len(t, inv.Payments, 1)
		})
	}

	t.Run("RejectsNonPositiveAmount", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.AddPayment(context.Background(), invoiceID, PaymentParams{
			Amount: 0,
			Method: "cash",
			Date:   payDate,
		}, actor)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "amount", verr.Field)
	})

	t.Run("InsertFailureRollsBack", func(t *testing.T) {
		svc, repo := newTestService(t)
		tx := NewMockTx(gomock.NewController(t))

		repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
		tx.EXPECT().InvoiceForUpdate(gomock.Any(), invoiceID).Return(invoice(0), nil)
		tx.EXPECT().InsertPayment(gomock.Any(), gomock.Any()).Return(errors.New("insert failed"))
		tx.EXPECT().Rollback().Return(nil)

		_, err := svc.AddPayment(context.Background(), invoiceID, PaymentParams{
			Amount: 4000,
			Method: "cash",
			Date:   payDate,
		}, actor)
		require.Error(t, err)
	})
}

func TestUpdateInvoiceMarkPaid(t *testing.T) {
	svc, repo := newTestService(t)

	invoiceID := uuid.New()
	status := StatusPaid

	repo.EXPECT().GetDocument(gomock.Any(), KindInvoice, invoiceID).
		Return(&Document{ID: invoiceID, TotalAmount: 5000, Status: StatusPending}, nil)
	repo.EXPECT().UpdateInvoice(gomock.Any(), invoiceID, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ uuid.UUID, params UpdateInvoiceParams) error {
			require.NotNil(t, params.PaidAmount)
			assert.Equal(t, int64(5000), *params.PaidAmount)
			require.NotNil(t, params.PaymentDate)
			return nil
		})
	repo.EXPECT().GetDocument(gomock.Any(), KindInvoice, invoiceID).
		Return(&Document{ID: invoiceID, TotalAmount: 5000, PaidAmount: 5000, Status: StatusPaid}, nil)

	inv, err := svc.UpdateInvoice(context.Background(), invoiceID, UpdateInvoiceParams{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, inv.Status)
}

func TestGet(t *testing.T) {
	svc, repo := newTestService(t)

	invoiceID := uuid.New()

	repo.EXPECT().GetDocument(gomock.Any(), KindInvoice, invoiceID).
		Return(&Document{ID: invoiceID, Kind: KindInvoice}, nil)
	repo.EXPECT().GetLineItems(gomock.Any(), KindInvoice, invoiceID).
		Return([]*LineItem{{Description: "Oil filter"}}, nil)
	repo.EXPECT().GetPayments(gomock.Any(), invoiceID).
		Return([]*Payment{{Amount: 4000}}, nil)

	doc, err := svc.Get(context.Background(), KindInvoice, invoiceID)
	require.NoError(t, err)
	assert.Len(t, doc.Items, 1)
	assert.Len(t, doc.Payments, 1)
}

// countingTx hands out sequence values the way the counter row lock does:
// one caller at a time, strictly increasing.
type countingTx struct {
	Tx

	mu   sync.Mutex
	last int64
}

func (tx *countingTx) NextSequence(context.Context, Kind, int) (int64, error) {
	tx.mu.Lock()
	defer tx.mu.Unlock()

	tx.last++

	return tx.last, nil
}

func (tx *countingTx) InsertDocument(_ context.Context, doc *Document) error {
	doc.ID = uuid.New()
	return nil
}

func (tx *countingTx) InsertLineItems(context.Context, Kind, uuid.UUID, []*LineItem) error {
	return nil
}

func (tx *countingTx) Commit() error   { return nil }
func (tx *countingTx) Rollback() error { return nil }

type countingRepo struct {
	Repository

	tx *countingTx
}

func (r *countingRepo) Begin(context.Context) (Tx, error) { return r.tx, nil }

func TestCreateWorkOrderConcurrentNumbering(t *testing.T) {
	created := time.Date(2025, time.March, 14, 10, 0, 0, 0, time.UTC)

	svc := NewService(&countingRepo{tx: &countingTx{}}, testTaxRate)
	svc.now = func() time.Time { return created }

	const workers = 32

	var (
		mu      sync.Mutex
		numbers = make(map[string]bool, workers)
	)

	actor := uuid.New()

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			doc, err := svc.CreateWorkOrder(context.Background(), CreateWorkOrderParams{
				ClientID:  uuid.New(),
				VehicleID: uuid.New(),
			}, actor)
			if !assert.NoError(t, err) {
				return
			}

			mu.Lock()
			assert.False(t, numbers[doc.Number], "number %s minted twice", doc.Number)
			numbers[doc.Number] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	require.Len(t, numbers, workers)

	for seq := int64(1); seq <= workers; seq++ {
		assert.Contains(t, numbers, FormatNumber(KindWorkOrder, created, seq))
	}
}
