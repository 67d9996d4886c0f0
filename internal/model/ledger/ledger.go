// Package ledger owns the pair-balance arithmetic every expense mutation
// funnels through. A balance lives on a single directed contact edge per
// user pair; a positive value means the edge's ToUser owes its FromUser.
package ledger

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/myexpenses/myexpenses/internal/entity/contact"
	"github.com/myexpenses/myexpenses/internal/model/customerr"
	"github.com/myexpenses/myexpenses/internal/model/storage"
)

// edgeMatch is the outcome of looking up the pair's edge. The three cases
// each carry their own sign rule, spelled out in Adjust.
type edgeMatch int

const (
	edgeAbsent edgeMatch = iota
	edgeForward
	edgeReversed
)

func matchEdge(c contact.Contact, userA int64) edgeMatch {
	if c.FromUserID == userA {
		return edgeForward
	}
	return edgeReversed
}

// Adjust records that userB now owes userA delta more than before.
//
// The edge between the pair may have been created in either direction; it
// is reused, never duplicated:
//   - forward edge (From=userA): balance += delta
//   - reversed edge (From=userB): balance -= delta
//   - no edge: a forward edge is created with balance = delta, already
//     accepted since system-created edges bypass the invitation flow.
//
// A self pair is a no-op, as is a zero delta (which in particular never
// creates an edge). Must run inside the caller's unit of work: a failed
// adjustment has to abort the whole enclosing operation.
func Adjust(ctx context.Context, edges storage.Contacts, userA, userB int64, delta decimal.Decimal) error {
	if userA == userB {
		return nil
	}
	if delta.IsZero() {
		return nil
	}

	edge, err := edges.FindEdge(ctx, userA, userB)
	switch {
	case err == nil:
	case customerr.IsNotFound(err):
		_, err = edges.Create(ctx, contact.Contact{
			FromUserID: userA,
			ToUserID:   userB,
			Balance:    delta,
			Status:     contact.StatusAccepted,
		})
		return errors.Wrap(err, "adjust balance")
	default:
		return errors.Wrap(err, "adjust balance")
	}

	switch matchEdge(edge, userA) {
	case edgeForward:
		err = edges.AddToBalance(ctx, edge.ID, delta)
	case edgeReversed:
		err = edges.AddToBalance(ctx, edge.ID, delta.Neg())
	}
	return errors.Wrap(err, "adjust balance")
}

// NetBalance reads an edge from userID's perspective: positive means the
// counterparty owes userID. The stored value is negated when userID sits on
// the To side of the edge.
func NetBalance(c contact.Contact, userID int64) decimal.Decimal {
	if c.ToUserID == userID {
		return c.Balance.Neg()
	}
	return c.Balance
}
