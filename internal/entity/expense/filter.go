package expense

import (
	"time"

	"github.com/shopspring/decimal"
)

// PersonalFilter narrows a user's personal expense listing. All set fields
// are AND-combined; a nil field puts no constraint on that dimension.
type PersonalFilter struct {
	Date       *time.Time
	StartDate  *time.Time
	EndDate    *time.Time
	Categories []string
	Type       *TransactionType
	Amount     *decimal.Decimal
	MinAmount  *decimal.Decimal
	MaxAmount  *decimal.Decimal
	Month      *int
	Year       *int
}
