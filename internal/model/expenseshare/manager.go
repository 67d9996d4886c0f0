// Package expenseshare manages per-member shares of a group expense as
// atomic batches. Callers thread the unit of work in; a failure on any
// share aborts the whole batch through the enclosing transaction.
package expenseshare

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/myexpenses/myexpenses/internal/entity/expense"
	"github.com/myexpenses/myexpenses/internal/model/customerr"
	"github.com/myexpenses/myexpenses/internal/model/ledger"
	"github.com/myexpenses/myexpenses/internal/model/storage"
)

// NewShare is creation-shaped share input, keyed by receiver.
type NewShare struct {
	ReceiverID  int64
	ShareAmount decimal.Decimal
}

// AmountChange is the canonical update input, keyed by share id.
type AmountChange struct {
	ShareID   int64
	NewAmount decimal.Decimal
}

type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

func validateBatch(shares []NewShare) error {
	seen := make(map[int64]bool, len(shares))
	for _, sh := range shares {
		if sh.ReceiverID == 0 {
			return &customerr.ValidationError{Reason: "share receiver is required"}
		}
		if sh.ShareAmount.IsNegative() {
			return &customerr.ValidationError{Reason: "share amount must not be negative"}
		}
		if seen[sh.ReceiverID] {
			return &customerr.ValidationError{Reason: "duplicate share receiver"}
		}
		seen[sh.ReceiverID] = true
	}
	return nil
}

// AddShares persists each share and credits the payer against its receiver.
// A payer receiving their own share keeps the row but moves no balance.
func (m *Manager) AddShares(ctx context.Context, uow storage.UnitOfWork, shares []NewShare, groupExpenseID, payerID int64) error {
	if err := validateBatch(shares); err != nil {
		return err
	}

	for _, sh := range shares {
		_, err := uow.ExpenseShares().Create(ctx, expense.GroupExpenseShare{
			GroupExpenseID: groupExpenseID,
			ReceiverID:     sh.ReceiverID,
			ShareAmount:    sh.ShareAmount,
		})
		if err != nil {
			return errors.Wrap(err, "add shares")
		}
		if err = ledger.Adjust(ctx, uow.Contacts(), payerID, sh.ReceiverID, sh.ShareAmount); err != nil {
			return errors.Wrap(err, "add shares")
		}
	}
	return nil
}

// DeleteShares reverses each share's ledger effect and removes the row.
func (m *Manager) DeleteShares(ctx context.Context, uow storage.UnitOfWork, shareIDs []int64, payerID int64) error {
	for _, id := range shareIDs {
		sh, err := uow.ExpenseShares().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err = ledger.Adjust(ctx, uow.Contacts(), payerID, sh.ReceiverID, sh.ShareAmount.Neg()); err != nil {
			return errors.Wrap(err, "delete shares")
		}
		if err = uow.ExpenseShares().Delete(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// DeleteSharesByReceivers resolves receiver ids to share ids scoped to the
// group expense, then delegates to DeleteShares.
func (m *Manager) DeleteSharesByReceivers(ctx context.Context, uow storage.UnitOfWork, receiverIDs []int64, groupExpenseID, payerID int64) error {
	ids, err := uow.ExpenseShares().IDsByReceivers(ctx, groupExpenseID, receiverIDs)
	if err != nil {
		return err
	}
	return m.DeleteShares(ctx, uow, ids, payerID)
}

// UpdateShares sets each share's new amount and moves the difference on the
// ledger. Items are independent within the caller's batch transaction.
func (m *Manager) UpdateShares(ctx context.Context, uow storage.UnitOfWork, changes []AmountChange, payerID int64) error {
	for _, ch := range changes {
		if ch.NewAmount.IsNegative() {
			return &customerr.ValidationError{Reason: "share amount must not be negative"}
		}

		prev, err := uow.ExpenseShares().GetByID(ctx, ch.ShareID)
		if err != nil {
			return err
		}
		if err = uow.ExpenseShares().SetAmount(ctx, ch.ShareID, ch.NewAmount); err != nil {
			return err
		}
		if err = ledger.Adjust(ctx, uow.Contacts(), payerID, prev.ReceiverID, ch.NewAmount.Sub(prev.ShareAmount)); err != nil {
			return errors.Wrap(err, "update shares")
		}
	}
	return nil
}

// UpdateSharesByReceivers maps creation-shaped input onto the canonical
// id-keyed form via the (groupExpenseID, receiverID) key, then delegates.
func (m *Manager) UpdateSharesByReceivers(ctx context.Context, uow storage.UnitOfWork, shares []NewShare, groupExpenseID, payerID int64) error {
	changes := make([]AmountChange, 0, len(shares))
	for _, sh := range shares {
		prev, err := uow.ExpenseShares().GetByReceiver(ctx, groupExpenseID, sh.ReceiverID)
		if err != nil {
			return err
		}
		changes = append(changes, AmountChange{ShareID: prev.ID, NewAmount: sh.ShareAmount})
	}
	return m.UpdateShares(ctx, uow, changes, payerID)
}
