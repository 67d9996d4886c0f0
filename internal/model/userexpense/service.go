// Package userexpense manages direct two-party expenses. Every mutation
// pairs the row write with an equal-and-opposite ledger adjustment inside
// one unit of work.
package userexpense

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/myexpenses/myexpenses/internal/entity/expense"
	"github.com/myexpenses/myexpenses/internal/model/customerr"
	"github.com/myexpenses/myexpenses/internal/model/ledger"
	"github.com/myexpenses/myexpenses/internal/model/storage"
)

type CreateRequest struct {
	FromUserID  int64
	ToUserID    int64
	Amount      decimal.Decimal
	Category    string
	Description string
	Date        time.Time
}

type UpdateRequest struct {
	ID          int64
	FromUserID  int64
	ToUserID    int64
	Amount      decimal.Decimal
	Category    string
	Description string
	Date        time.Time
}

// WithSummary lists both directions of a pair's direct expenses together
// with the net amount fromUser is owed by toUser across them.
type WithSummary struct {
	Expenses    []expense.UserExpense
	TotalAmount decimal.Decimal
}

type Service struct {
	storage storage.Storage
}

func NewService(storage storage.Storage) *Service {
	return &Service{storage: storage}
}

func validate(fromUserID, toUserID int64, amount decimal.Decimal) error {
	if fromUserID == 0 || toUserID == 0 {
		return &customerr.ValidationError{Reason: "both participants are required"}
	}
	if fromUserID == toUserID {
		return &customerr.ValidationError{Reason: "payer and beneficiary must differ"}
	}
	if !amount.IsPositive() {
		return &customerr.ValidationError{Reason: "amount must be positive"}
	}
	return nil
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (expense.UserExpense, error) {
	if err := validate(req.FromUserID, req.ToUserID, req.Amount); err != nil {
		return expense.UserExpense{}, err
	}

	e := expense.UserExpense{
		FromUserID:  req.FromUserID,
		ToUserID:    req.ToUserID,
		Amount:      req.Amount,
		Category:    req.Category,
		Description: req.Description,
		Date:        req.Date,
	}

	err := s.storage.WithinTx(ctx, func(ctx context.Context, uow storage.UnitOfWork) error {
		id, err := uow.UserExpenses().Create(ctx, e)
		if err != nil {
			return errors.Wrap(err, "create user expense")
		}
		e.ID = id
		return ledger.Adjust(ctx, uow.Contacts(), e.FromUserID, e.ToUserID, e.Amount)
	})
	if err != nil {
		return expense.UserExpense{}, err
	}
	return e, nil
}

// Update applies the new field values and corrects the ledger. When the
// participant pair is unchanged a single net adjustment suffices; when it
// changed, the old effect is undone on the old pair and the new effect
// applied on the new pair.
func (s *Service) Update(ctx context.Context, req UpdateRequest) error {
	if err := validate(req.FromUserID, req.ToUserID, req.Amount); err != nil {
		return err
	}

	return s.storage.WithinTx(ctx, func(ctx context.Context, uow storage.UnitOfWork) error {
		prev, err := uow.UserExpenses().GetByID(ctx, req.ID)
		if err != nil {
			return err
		}

		pairChanged := prev.FromUserID != req.FromUserID || prev.ToUserID != req.ToUserID
		if pairChanged {
			if err = ledger.Adjust(ctx, uow.Contacts(), prev.FromUserID, prev.ToUserID, prev.Amount.Neg()); err != nil {
				return err
			}
			if err = ledger.Adjust(ctx, uow.Contacts(), req.FromUserID, req.ToUserID, req.Amount); err != nil {
				return err
			}
		} else {
			if err = ledger.Adjust(ctx, uow.Contacts(), req.FromUserID, req.ToUserID, req.Amount.Sub(prev.Amount)); err != nil {
				return err
			}
		}

		return uow.UserExpenses().UpdateFields(ctx, expense.UserExpense{
			ID:          req.ID,
			FromUserID:  req.FromUserID,
			ToUserID:    req.ToUserID,
			Amount:      req.Amount,
			Category:    req.Category,
			Description: req.Description,
			Date:        req.Date,
		})
	})
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.storage.WithinTx(ctx, func(ctx context.Context, uow storage.UnitOfWork) error {
		prev, err := uow.UserExpenses().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err = ledger.Adjust(ctx, uow.Contacts(), prev.FromUserID, prev.ToUserID, prev.Amount.Neg()); err != nil {
			return err
		}
		return uow.UserExpenses().Delete(ctx, id)
	})
}

func (s *Service) Get(ctx context.Context, id int64) (expense.UserExpense, error) {
	var e expense.UserExpense
	err := s.storage.WithinTx(ctx, func(ctx context.Context, uow storage.UnitOfWork) error {
		var err error
		e, err = uow.UserExpenses().GetByID(ctx, id)
		return err
	})
	return e, err
}

// ListBetween returns every direct expense of the pair, both directions,
// and the net total from fromUserID's point of view.
func (s *Service) ListBetween(ctx context.Context, fromUserID, toUserID int64) (WithSummary, error) {
	var res WithSummary
	err := s.storage.WithinTx(ctx, func(ctx context.Context, uow storage.UnitOfWork) error {
		outgoing, err := uow.UserExpenses().ListBetween(ctx, fromUserID, toUserID)
		if err != nil {
			return err
		}
		incoming, err := uow.UserExpenses().ListBetween(ctx, toUserID, fromUserID)
		if err != nil {
			return err
		}

		total := decimal.Zero
		for _, e := range outgoing {
			total = total.Add(e.Amount)
		}
		for _, e := range incoming {
			total = total.Sub(e.Amount)
		}

		res = WithSummary{
			Expenses:    append(outgoing, incoming...),
			TotalAmount: total,
		}
		return nil
	})
	return res, err
}
