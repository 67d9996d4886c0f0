// Package expense holds the expense record shapes: direct two-party
// expenses, group expenses with their shares, and personal records.
package expense

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	Credit TransactionType = "credit"
	Debit  TransactionType = "debit"
)

// UserExpense is a direct expense FromUser paid on ToUser's behalf.
type UserExpense struct {
	ID          int64
	FromUserID  int64
	ToUserID    int64
	Amount      decimal.Decimal
	Category    string
	Description string
	Date        time.Time
	CreatedAt   time.Time
}

// GroupExpense is the head record; the per-member breakdown lives in its
// GroupExpenseShare rows.
type GroupExpense struct {
	ID          int64
	GroupID     int64
	PayerID     int64
	Amount      decimal.Decimal
	Category    string
	Description string
	Date        time.Time
	CreatedAt   time.Time
}

// GroupExpenseShare is one receiver's portion of a group expense. A group
// expense holds at most one share per receiver.
type GroupExpenseShare struct {
	ID             int64
	GroupExpenseID int64
	ReceiverID     int64
	ShareAmount    decimal.Decimal
}

// PersonalExpense is a private income or spend record. It never touches
// the contact ledger.
type PersonalExpense struct {
	ID          int64
	UserID      int64
	Amount      decimal.Decimal
	Type        TransactionType
	Category    string
	Description string
	Date        time.Time
	CreatedAt   time.Time
}
