package document

import "github.com/shopspring/decimal"

var oneHundred = decimal.NewFromInt(100)

// Totals are the monetary amounts of a document at creation time, in cents.
type Totals struct {
	Subtotal int64
	Tax      int64
	Total    int64
}

// PartTotal is the extended amount of a part line: quantity x unit price.
func PartTotal(quantity, unitPrice int64) int64 {
	return quantity * unitPrice
}

// LaborTotal is the extended amount of a labor line: hours x hourly rate.
// hours is in hundredths of an hour; the product is rounded half-up to a
// cent.
func LaborTotal(hours, rate int64) int64 {
	return decimal.NewFromInt(hours).
		Div(oneHundred).
		Mul(decimal.NewFromInt(rate)).
		Round(0).
		IntPart()
}

// ComputeTotals sums part and labor line totals into a subtotal, applies the
// tax rate and subtracts the discount. All arithmetic is decimal-exact; the
// tax is rounded half-up to a cent once, on the subtotal.
func ComputeTotals(lines []*LineItem, taxRate decimal.Decimal, discount int64) Totals {
	var subtotal int64
	for _, line := range lines {
		subtotal += line.Total
	}

	tax := decimal.NewFromInt(subtotal).Mul(taxRate).Round(0).IntPart()

	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal + tax - discount,
	}
}

// FormatHours renders hundredths of an hour as a decimal string, e.g.
// 150 -> "1.5", 25 -> "0.25", 300 -> "3".
func FormatHours(hours int64) string {
	return decimal.New(hours, -2).String()
}
