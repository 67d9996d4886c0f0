package storage

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jinzhu/now"
	"github.com/pkg/errors"

	"github.com/myexpenses/myexpenses/internal/entity/expense"
	"github.com/myexpenses/myexpenses/internal/model/customerr"
)

type pgPersonalExpenses struct {
	r sq.BaseRunner
}

var personalColumns = []string{"id", "user_id", "amount", "type", "category", "description", "date", "created_at"}

func scanPersonal(row sq.RowScanner) (expense.PersonalExpense, error) {
	var e expense.PersonalExpense
	err := row.Scan(&e.ID, &e.UserID, &e.Amount, &e.Type, &e.Category, &e.Description, &e.Date, &e.CreatedAt)
	return e, err
}

func (s *pgPersonalExpenses) GetByID(ctx context.Context, id int64) (expense.PersonalExpense, error) {
	query := psql.Select(personalColumns...).
		From("personal_expenses").
		Where(sq.Eq{"id": id}).
		RunWith(s.r)

	e, err := scanPersonal(query.QueryRowContext(ctx))
	if errors.Is(err, sql.ErrNoRows) {
		return expense.PersonalExpense{}, &customerr.NotFoundError{Entity: "personal expense", ID: id}
	}
	if err != nil {
		return expense.PersonalExpense{}, wrapPgErr(err, "get personal expense")
	}
	return e, nil
}

func (s *pgPersonalExpenses) Create(ctx context.Context, e expense.PersonalExpense) (int64, error) {
	query := psql.Insert("personal_expenses").
		Columns("user_id", "amount", "type", "category", "description", "date").
		Values(e.UserID, e.Amount, e.Type, e.Category, e.Description, e.Date).
		Suffix("RETURNING id").
		RunWith(s.r)

	var id int64
	if err := query.QueryRowContext(ctx).Scan(&id); err != nil {
		return 0, wrapPgErr(err, "create personal expense")
	}
	return id, nil
}

func (s *pgPersonalExpenses) UpdateFields(ctx context.Context, e expense.PersonalExpense) error {
	query := psql.Update("personal_expenses").
		Set("amount", e.Amount).
		Set("type", e.Type).
		Set("category", e.Category).
		Set("description", e.Description).
		Set("date", e.Date).
		Where(sq.Eq{"id": e.ID}).
		RunWith(s.r)

	return execAffecting(ctx, query, "update personal expense",
		&customerr.ConflictError{Err: "personal expense vanished during update"})
}

func (s *pgPersonalExpenses) Delete(ctx context.Context, id int64) error {
	query := psql.Delete("personal_expenses").
		Where(sq.Eq{"id": id}).
		RunWith(s.r)

	return execDelete(ctx, query, "delete personal expense",
		&customerr.NotFoundError{Entity: "personal expense", ID: id})
}

func (s *pgPersonalExpenses) Find(ctx context.Context, userID int64, f expense.PersonalFilter) ([]expense.PersonalExpense, error) {
	query := psql.Select(personalColumns...).
		From("personal_expenses").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("date DESC").
		RunWith(s.r)

	query = applyPersonalFilter(query, f)

	rows, err := query.QueryContext(ctx)
	if err != nil {
		return nil, wrapPgErr(err, "find personal expenses")
	}
	defer closeRows(rows)

	res := make([]expense.PersonalExpense, 0)
	for rows.Next() {
		e, err := scanPersonal(rows)
		if err != nil {
			return nil, errors.Wrap(err, "find personal expenses")
		}
		res = append(res, e)
	}
	return res, errors.Wrap(rows.Err(), "find personal expenses")
}

func applyPersonalFilter(query sq.SelectBuilder, f expense.PersonalFilter) sq.SelectBuilder {
	if f.Date != nil {
		day := now.New(*f.Date)
		query = query.Where(sq.GtOrEq{"date": day.BeginningOfDay()}).
			Where(sq.LtOrEq{"date": day.EndOfDay()})
	}
	if f.StartDate != nil && f.EndDate != nil {
		query = query.Where(sq.GtOrEq{"date": now.New(*f.StartDate).BeginningOfDay()}).
			Where(sq.LtOrEq{"date": now.New(*f.EndDate).EndOfDay()})
	}
	if len(f.Categories) > 0 {
		query = query.Where(sq.Eq{"category": f.Categories})
	}
	if f.Type != nil {
		query = query.Where(sq.Eq{"type": *f.Type})
	}
	if f.Amount != nil {
		query = query.Where(sq.Eq{"amount": *f.Amount})
	}
	if f.MinAmount != nil && f.MaxAmount != nil {
		query = query.Where(sq.GtOrEq{"amount": *f.MinAmount}).
			Where(sq.LtOrEq{"amount": *f.MaxAmount})
	}
	if f.Month != nil && f.Year != nil {
		month := now.New(time.Date(*f.Year, time.Month(*f.Month), 1, 0, 0, 0, 0, time.UTC))
		query = query.Where(sq.GtOrEq{"date": month.BeginningOfMonth()}).
			Where(sq.LtOrEq{"date": month.EndOfMonth()})
	}
	return query
}
