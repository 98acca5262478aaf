package document

import (
	"fmt"
	"time"
)

// FormatNumber renders a document number as {PREFIX}-{YYYY}{MM}-{NNNN}.
// The sequence value comes from the per-(kind, year) counter row and is
// minted inside the same transaction as the document insert, so numbers are
// strictly increasing within a (kind, year) scope and never reused.
func FormatNumber(kind Kind, t time.Time, seq int64) string {
	return fmt.Sprintf("%s-%d%02d-%04d", kind.Prefix(), t.Year(), int(t.Month()), seq)
}
