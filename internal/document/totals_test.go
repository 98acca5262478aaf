package document

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPartTotal(t *testing.T) {
	assert.Equal(t, int64(3000), PartTotal(2, 1500))
	assert.Equal(t, int64(0), PartTotal(0, 1500))
}

func TestLaborTotal(t *testing.T) {
	tests := []struct {
		name  string
		hours int64
		rate  int64
		want  int64
	}{
		{name: "whole hours", hours: 200, rate: 2000, want: 4000},
		{name: "fractional hours", hours: 150, rate: 2000, want: 3000},
		{name: "rounds half up", hours: 25, rate: 1050, want: 263}, // 0.25 * 10.50 = 2.625
		{name: "zero hours", hours: 0, rate: 2000, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LaborTotal(tt.hours, tt.rate))
		})
	}
}

func TestComputeTotals(t *testing.T) {
	taxRate := decimal.RequireFromString("0.12")

	t.Run("parts and labor with tax", func(t *testing.T) {
		lines := []*LineItem{
			{Type: LinePart, Quantity: 2, UnitPrice: 1500, Total: PartTotal(2, 1500)},
			{Type: LineLabor, Hours: 150, Rate: 2000, Total: LaborTotal(150, 2000)},
		}

		totals := ComputeTotals(lines, taxRate, 0)

		assert.Equal(t, int64(6000), totals.Subtotal)
		assert.Equal(t, int64(720), totals.Tax)
		assert.Equal(t, int64(6720), totals.Total)
	})

	t.Run("discount reduces total not tax", func(t *testing.T) {
		lines := []*LineItem{
			{Type: LinePart, Quantity: 1, UnitPrice: 10000, Total: 10000},
		}

		totals := ComputeTotals(lines, taxRate, 500)

		assert.Equal(t, int64(10000), totals.Subtotal)
		assert.Equal(t, int64(1200), totals.Tax)
		assert.Equal(t, int64(10700), totals.Total)
	})

	t.Run("tax rounds half up on the subtotal", func(t *testing.T) {
		lines := []*LineItem{
			{Type: LinePart, Quantity: 1, UnitPrice: 1021, Total: 1021},
		}

		// 1021 * 0.12 = 122.52 -> 123
		totals := ComputeTotals(lines, taxRate, 0)

		assert.Equal(t, int64(123), totals.Tax)
	})

	t.Run("no lines", func(t *testing.T) {
		totals := ComputeTotals(nil, taxRate, 0)

		assert.Equal(t, int64(0), totals.Subtotal)
		assert.Equal(t, int64(0), totals.Tax)
		assert.Equal(t, int64(0), totals.Total)
	})
}

func TestFormatHours(t *testing.T) {
	assert.Equal(t, "1.5", FormatHours(150))
	assert.Equal(t, "2", FormatHours(200))
	assert.Equal(t, "0.25", FormatHours(25))
}

func TestFormatNumber(t *testing.T) {
	march := time.Date(2025, time.March, 14, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, "WO-202503-0001", FormatNumber(KindWorkOrder, march, 1))
	assert.Equal(t, "BUD-202503-0042", FormatNumber(KindBudget, march, 42))
	assert.Equal(t, "INV-202512-12345", FormatNumber(KindInvoice, time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC), 12345))
}
