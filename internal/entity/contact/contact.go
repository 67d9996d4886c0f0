// Package contact holds the ledger edge between two users. One row exists
// per user pair; the balance is signed from the From side's perspective.
package contact

import (
	"time"

	"github.com/shopspring/decimal"
)

type InvitationStatus string

const (
	StatusPending  InvitationStatus = "pending"
	StatusAccepted InvitationStatus = "accepted"
	StatusRejected InvitationStatus = "rejected"
)

// Contact is a directed edge: a positive balance means ToUser owes FromUser.
type Contact struct {
	ID         int64
	FromUserID int64
	ToUserID   int64
	Balance    decimal.Decimal
	Status     InvitationStatus
	CreatedAt  time.Time
}

// Other returns the counterparty of userID on this edge.
func (c Contact) Other(userID int64) int64 {
	if c.FromUserID == userID {
		return c.ToUserID
	}
	return c.FromUserID
}
