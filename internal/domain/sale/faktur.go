package sale

import (
	"fmt"
	"time"

	"tokopos/internal/core/types"
)

// Faktur numbers are monotone within a calendar day under the
// single-writer store: INV-YYYYMMDD-NNNN with a 4-digit day sequence
// starting at 0001.

// FakturNumber formats the faktur for the seq-th sale of the day.
func FakturNumber(day time.Time, seq int) string {
	return fmt.Sprintf("INV-%s-%04d", day.Format(types.CompactDateLayout), seq)
}

// LegacyFaktur formats the number assigned retroactively to rows that
// predate the no_faktur column.
func LegacyFaktur(id int64) string {
	return fmt.Sprintf("INV-OLD-%05d", id)
}
