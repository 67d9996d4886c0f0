// Package personal tracks a user's own income and spend records. These
// never touch the contact ledger.
package personal

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/myexpenses/myexpenses/internal/entity/expense"
	"github.com/myexpenses/myexpenses/internal/model/customerr"
	"github.com/myexpenses/myexpenses/internal/model/storage"
)

type CreateRequest struct {
	UserID      int64
	Amount      decimal.Decimal
	Type        expense.TransactionType
	Category    string
	Description string
	Date        time.Time
}

type UpdateRequest struct {
	ID          int64
	Amount      decimal.Decimal
	Type        expense.TransactionType
	Category    string
	Description string
	Date        time.Time
}

type Summary struct {
	TotalSpent   decimal.Decimal
	TotalEarning decimal.Decimal
	TotalSaving  decimal.Decimal
}

type WithSummary struct {
	Expenses []expense.PersonalExpense
	Summary  Summary
}

type Service struct {
	storage storage.Storage
}

func NewService(storage storage.Storage) *Service {
	return &Service{storage: storage}
}

func validate(amount decimal.Decimal, txType expense.TransactionType) error {
	if !amount.IsPositive() {
		return &customerr.ValidationError{Reason: "amount must be positive"}
	}
	if txType != expense.Credit && txType != expense.Debit {
		return &customerr.ValidationError{Reason: "type must be credit or debit"}
	}
	return nil
}

func validateFilter(f expense.PersonalFilter) error {
	if (f.StartDate == nil) != (f.EndDate == nil) {
		return &customerr.ValidationError{Reason: "date range needs both start and end"}
	}
	if (f.MinAmount == nil) != (f.MaxAmount == nil) {
		return &customerr.ValidationError{Reason: "amount range needs both min and max"}
	}
	if (f.Month == nil) != (f.Year == nil) {
		return &customerr.ValidationError{Reason: "month filter needs both month and year"}
	}
	if f.Month != nil && (*f.Month < 1 || *f.Month > 12) {
		return &customerr.ValidationError{Reason: "month must be between 1 and 12"}
	}
	return nil
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (expense.PersonalExpense, error) {
	if err := validate(req.Amount, req.Type); err != nil {
		return expense.PersonalExpense{}, err
	}

	e := expense.PersonalExpense{
		UserID:      req.UserID,
		Amount:      req.Amount,
		Type:        req.Type,
		Category:    req.Category,
		Description: req.Description,
		Date:        req.Date,
	}
	err := s.storage.WithinTx(ctx, func(ctx context.Context, uow storage.UnitOfWork) error {
		id, err := uow.PersonalExpenses().Create(ctx, e)
		e.ID = id
		return err
	})
	if err != nil {
		return expense.PersonalExpense{}, err
	}
	return e, nil
}

func (s *Service) Get(ctx context.Context, id int64) (expense.PersonalExpense, error) {
	var e expense.PersonalExpense
	err := s.storage.WithinTx(ctx, func(ctx context.Context, uow storage.UnitOfWork) error {
		var err error
		e, err = uow.PersonalExpenses().GetByID(ctx, id)
		return err
	})
	return e, err
}

func (s *Service) Update(ctx context.Context, req UpdateRequest) error {
	if err := validate(req.Amount, req.Type); err != nil {
		return err
	}

	return s.storage.WithinTx(ctx, func(ctx context.Context, uow storage.UnitOfWork) error {
		if _, err := uow.PersonalExpenses().GetByID(ctx, req.ID); err != nil {
			return err
		}
		return uow.PersonalExpenses().UpdateFields(ctx, expense.PersonalExpense{
			ID:          req.ID,
			Amount:      req.Amount,
			Type:        req.Type,
			Category:    req.Category,
			Description: req.Description,
			Date:        req.Date,
		})
	})
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.storage.WithinTx(ctx, func(ctx context.Context, uow storage.UnitOfWork) error {
		return uow.PersonalExpenses().Delete(ctx, id)
	})
}

// Find filters a user's records and summarizes them: spent is the debit
// total, earning the credit total, saving their difference.
func (s *Service) Find(ctx context.Context, userID int64, f expense.PersonalFilter) (WithSummary, error) {
	if err := validateFilter(f); err != nil {
		return WithSummary{}, err
	}

	var res WithSummary
	err := s.storage.WithinTx(ctx, func(ctx context.Context, uow storage.UnitOfWork) error {
		expenses, err := uow.PersonalExpenses().Find(ctx, userID, f)
		if err != nil {
			return err
		}
		res = WithSummary{Expenses: expenses, Summary: Summarize(expenses)}
		return nil
	})
	return res, err
}

func (s *Service) Summary(ctx context.Context, userID int64) (Summary, error) {
	res, err := s.Find(ctx, userID, expense.PersonalFilter{})
	return res.Summary, err
}

func Summarize(expenses []expense.PersonalExpense) Summary {
	spent, earning := decimal.Zero, decimal.Zero
	for _, e := range expenses {
		switch e.Type {
		case expense.Debit:
			spent = spent.Add(e.Amount)
		case expense.Credit:
			earning = earning.Add(e.Amount)
		}
	}
	return Summary{
		TotalSpent:   spent,
		TotalEarning: earning,
		TotalSaving:  earning.Sub(spent),
	}
}
