// Package groupexpense orchestrates a group expense and its share set. An
// edit is reconciled against the persisted shares by a three-way diff on
// receiver; the whole operation, shares and ledger moves included, runs in
// one unit of work.
package groupexpense

import (
	"context"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/myexpenses/myexpenses/internal/entity/expense"
	"github.com/myexpenses/myexpenses/internal/model/customerr"
	"github.com/myexpenses/myexpenses/internal/model/expenseshare"
	"github.com/myexpenses/myexpenses/internal/model/storage"
)

type CreateRequest struct {
	GroupID     int64
	PayerID     int64
	Amount      decimal.Decimal
	Category    string
	Description string
	Date        time.Time
	Shares      []expenseshare.NewShare
}

type UpdateRequest struct {
	ID          int64
	PayerID     int64
	Amount      decimal.Decimal
	Category    string
	Description string
	Date        time.Time
	Shares      []expenseshare.NewShare
}

// Detail is a group expense together with its shares.
type Detail struct {
	Expense expense.GroupExpense
	Shares  []expense.GroupExpenseShare
}

type shareManager interface {
	AddShares(ctx context.Context, uow storage.UnitOfWork, shares []expenseshare.NewShare, groupExpenseID, payerID int64) error
	DeleteShares(ctx context.Context, uow storage.UnitOfWork, shareIDs []int64, payerID int64) error
	DeleteSharesByReceivers(ctx context.Context, uow storage.UnitOfWork, receiverIDs []int64, groupExpenseID, payerID int64) error
	UpdateSharesByReceivers(ctx context.Context, uow storage.UnitOfWork, shares []expenseshare.NewShare, groupExpenseID, payerID int64) error
}

type Service struct {
	storage storage.Storage
	shares  shareManager
}

func NewService(storage storage.Storage, shares shareManager) *Service {
	return &Service{storage: storage, shares: shares}
}

func validateRequest(payerID int64, amount decimal.Decimal, shares []expenseshare.NewShare) error {
	if payerID == 0 {
		return &customerr.ValidationError{Reason: "payer is required"}
	}
	if !amount.IsPositive() {
		return &customerr.ValidationError{Reason: "amount must be positive"}
	}
	seen := make(map[int64]bool, len(shares))
	for _, sh := range shares {
		if seen[sh.ReceiverID] {
			return &customerr.ValidationError{Reason: "duplicate share receiver"}
		}
		seen[sh.ReceiverID] = true
	}
	return nil
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (Detail, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "createGroupExpense")
	defer span.Finish()

	if err := validateRequest(req.PayerID, req.Amount, req.Shares); err != nil {
		return Detail{}, err
	}

	var res Detail
	err := s.storage.WithinTx(ctx, func(ctx context.Context, uow storage.UnitOfWork) error {
		e := expense.GroupExpense{
			GroupID:     req.GroupID,
			PayerID:     req.PayerID,
			Amount:      req.Amount,
			Category:    req.Category,
			Description: req.Description,
			Date:        req.Date,
		}
		id, err := uow.GroupExpenses().Create(ctx, e)
		if err != nil {
			return errors.Wrap(err, "create group expense")
		}
		e.ID = id

		if err = s.shares.AddShares(ctx, uow, req.Shares, id, req.PayerID); err != nil {
			return err
		}

		shares, err := uow.ExpenseShares().ListByGroupExpense(ctx, id)
		if err != nil {
			return err
		}
		res = Detail{Expense: e, Shares: shares}
		return nil
	})
	if err != nil {
		ext.Error.Set(span, true)
		return Detail{}, err
	}
	return res, nil
}

// Update reconciles the requested share set against the persisted one:
// receivers missing from the request are deleted, common receivers get
// their amounts updated, new receivers are added. Deletions go first so a
// receiver never transiently holds two shares. Shares absent from the
// request keep whatever payer attribution they were settled under; a payer
// change only affects shares the diff touches.
func (s *Service) Update(ctx context.Context, req UpdateRequest) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "updateGroupExpense")
	defer span.Finish()

	if err := validateRequest(req.PayerID, req.Amount, req.Shares); err != nil {
		return err
	}

	err := s.storage.WithinTx(ctx, func(ctx context.Context, uow storage.UnitOfWork) error {
		prev, err := uow.GroupExpenses().GetByID(ctx, req.ID)
		if err != nil {
			return err
		}

		persisted, err := uow.ExpenseShares().ListByGroupExpense(ctx, req.ID)
		if err != nil {
			return err
		}

		toBeAdded, toBeUpdated, toBeDeleted := diffShares(req.Shares, persisted)

		if len(toBeDeleted) > 0 {
			if err = s.shares.DeleteSharesByReceivers(ctx, uow, toBeDeleted, req.ID, req.PayerID); err != nil {
				return err
			}
		}
		if len(toBeUpdated) > 0 {
			if err = s.shares.UpdateSharesByReceivers(ctx, uow, toBeUpdated, req.ID, req.PayerID); err != nil {
				return err
			}
		}
		if len(toBeAdded) > 0 {
			if err = s.shares.AddShares(ctx, uow, toBeAdded, req.ID, prev.PayerID); err != nil {
				return err
			}
		}

		return uow.GroupExpenses().UpdateFields(ctx, expense.GroupExpense{
			ID:          req.ID,
			PayerID:     req.PayerID,
			Amount:      req.Amount,
			Category:    req.Category,
			Description: req.Description,
			Date:        req.Date,
		})
	})
	if err != nil {
		ext.Error.Set(span, true)
	}
	return err
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "deleteGroupExpense")
	defer span.Finish()

	err := s.storage.WithinTx(ctx, func(ctx context.Context, uow storage.UnitOfWork) error {
		prev, err := uow.GroupExpenses().GetByID(ctx, id)
		if err != nil {
			return err
		}

		shares, err := uow.ExpenseShares().ListByGroupExpense(ctx, id)
		if err != nil {
			return err
		}
		if len(shares) > 0 {
			ids := make([]int64, 0, len(shares))
			for _, sh := range shares {
				ids = append(ids, sh.ID)
			}
			if err = s.shares.DeleteShares(ctx, uow, ids, prev.PayerID); err != nil {
				return err
			}
		}

		return uow.GroupExpenses().Delete(ctx, id)
	})
	if err != nil {
		ext.Error.Set(span, true)
	}
	return err
}

func (s *Service) Get(ctx context.Context, id int64) (Detail, error) {
	var res Detail
	err := s.storage.WithinTx(ctx, func(ctx context.Context, uow storage.UnitOfWork) error {
		e, err := uow.GroupExpenses().GetByID(ctx, id)
		if err != nil {
			return err
		}
		shares, err := uow.ExpenseShares().ListByGroupExpense(ctx, id)
		if err != nil {
			return err
		}
		res = Detail{Expense: e, Shares: shares}
		return nil
	})
	return res, err
}

func (s *Service) ListByGroup(ctx context.Context, groupID int64) ([]Detail, error) {
	var res []Detail
	err := s.storage.WithinTx(ctx, func(ctx context.Context, uow storage.UnitOfWork) error {
		expenses, err := uow.GroupExpenses().ListByGroup(ctx, groupID)
		if err != nil {
			return err
		}
		res = make([]Detail, 0, len(expenses))
		for _, e := range expenses {
			shares, err := uow.ExpenseShares().ListByGroupExpense(ctx, e.ID)
			if err != nil {
				return err
			}
			res = append(res, Detail{Expense: e, Shares: shares})
		}
		return nil
	})
	return res, err
}

// diffShares splits the requested shares against the persisted ones by
// receiver id into the added, updated and deleted sets.
func diffShares(requested []expenseshare.NewShare, persisted []expense.GroupExpenseShare) (added, updated []expenseshare.NewShare, deletedReceivers []int64) {
	persistedByReceiver := make(map[int64]expense.GroupExpenseShare, len(persisted))
	for _, sh := range persisted {
		persistedByReceiver[sh.ReceiverID] = sh
	}
	requestedReceivers := make(map[int64]bool, len(requested))
	for _, sh := range requested {
		requestedReceivers[sh.ReceiverID] = true
	}

	for _, sh := range requested {
		if _, ok := persistedByReceiver[sh.ReceiverID]; ok {
			updated = append(updated, sh)
		} else {
			added = append(added, sh)
		}
	}
	for _, sh := range persisted {
		if !requestedReceivers[sh.ReceiverID] {
			deletedReceivers = append(deletedReceivers, sh.ReceiverID)
		}
	}
	return added, updated, deletedReceivers
}
