package storage

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/myexpenses/myexpenses/internal/entity/expense"
	"github.com/myexpenses/myexpenses/internal/model/customerr"
)

type pgUserExpenses struct {
	r sq.BaseRunner
}

var userExpenseColumns = []string{"id", "from_user_id", "to_user_id", "amount", "category", "description", "date", "created_at"}

func scanUserExpense(row sq.RowScanner) (expense.UserExpense, error) {
	var e expense.UserExpense
	err := row.Scan(&e.ID, &e.FromUserID, &e.ToUserID, &e.Amount, &e.Category, &e.Description, &e.Date, &e.CreatedAt)
	return e, err
}

func (s *pgUserExpenses) GetByID(ctx context.Context, id int64) (expense.UserExpense, error) {
	query := psql.Select(userExpenseColumns...).
		From("user_expenses").
		Where(sq.Eq{"id": id}).
		RunWith(s.r)

	e, err := scanUserExpense(query.QueryRowContext(ctx))
	if errors.Is(err, sql.ErrNoRows) {
		return expense.UserExpense{}, &customerr.NotFoundError{Entity: "user expense", ID: id}
	}
	if err != nil {
		return expense.UserExpense{}, wrapPgErr(err, "get user expense")
	}
	return e, nil
}

func (s *pgUserExpenses) Create(ctx context.Context, e expense.UserExpense) (int64, error) {
	query := psql.Insert("user_expenses").
		Columns("from_user_id", "to_user_id", "amount", "category", "description", "date").
		Values(e.FromUserID, e.ToUserID, e.Amount, e.Category, e.Description, e.Date).
		Suffix("RETURNING id").
		RunWith(s.r)

	var id int64
	if err := query.QueryRowContext(ctx).Scan(&id); err != nil {
		return 0, wrapPgErr(err, "create user expense")
	}
	return id, nil
}

func (s *pgUserExpenses) UpdateFields(ctx context.Context, e expense.UserExpense) error {
	query := psql.Update("user_expenses").
		Set("from_user_id", e.FromUserID).
		Set("to_user_id", e.ToUserID).
		Set("amount", e.Amount).
		Set("category", e.Category).
		Set("description", e.Description).
		Set("date", e.Date).
		Where(sq.Eq{"id": e.ID}).
		RunWith(s.r)

	return execAffecting(ctx, query, "update user expense",
		&customerr.ConflictError{Err: "user expense vanished during update"})
}

func (s *pgUserExpenses) Delete(ctx context.Context, id int64) error {
	query := psql.Delete("user_expenses").
		Where(sq.Eq{"id": id}).
		RunWith(s.r)

	return execDelete(ctx, query, "delete user expense",
		&customerr.NotFoundError{Entity: "user expense", ID: id})
}

func (s *pgUserExpenses) ListBetween(ctx context.Context, fromUserID, toUserID int64) ([]expense.UserExpense, error) {
	query := psql.Select(userExpenseColumns...).
		From("user_expenses").
		Where(sq.Eq{"from_user_id": fromUserID, "to_user_id": toUserID}).
		OrderBy("date DESC").
		RunWith(s.r)

	rows, err := query.QueryContext(ctx)
	if err != nil {
		return nil, wrapPgErr(err, "list user expenses")
	}
	defer closeRows(rows)

	res := make([]expense.UserExpense, 0)
	for rows.Next() {
		e, err := scanUserExpense(rows)
		if err != nil {
			return nil, errors.Wrap(err, "list user expenses")
		}
		res = append(res, e)
	}
	return res, errors.Wrap(rows.Err(), "list user expenses")
}

type pgGroupExpenses struct {
	r sq.BaseRunner
}

var groupExpenseColumns = []string{"id", "group_id", "payer_id", "amount", "category", "description", "date", "created_at"}

func scanGroupExpense(row sq.RowScanner) (expense.GroupExpense, error) {
	var e expense.GroupExpense
	err := row.Scan(&e.ID, &e.GroupID, &e.PayerID, &e.Amount, &e.Category, &e.Description, &e.Date, &e.CreatedAt)
	return e, err
}

func (s *pgGroupExpenses) GetByID(ctx context.Context, id int64) (expense.GroupExpense, error) {
	query := psql.Select(groupExpenseColumns...).
		From("group_expenses").
		Where(sq.Eq{"id": id}).
		RunWith(s.r)

	e, err := scanGroupExpense(query.QueryRowContext(ctx))
	if errors.Is(err, sql.ErrNoRows) {
		return expense.GroupExpense{}, &customerr.NotFoundError{Entity: "group expense", ID: id}
	}
	if err != nil {
		return expense.GroupExpense{}, wrapPgErr(err, "get group expense")
	}
	return e, nil
}

func (s *pgGroupExpenses) Create(ctx context.Context, e expense.GroupExpense) (int64, error) {
	query := psql.Insert("group_expenses").
		Columns("group_id", "payer_id", "amount", "category", "description", "date").
		Values(e.GroupID, e.PayerID, e.Amount, e.Category, e.Description, e.Date).
		Suffix("RETURNING id").
		RunWith(s.r)

	var id int64
	if err := query.QueryRowContext(ctx).Scan(&id); err != nil {
		return 0, wrapPgErr(err, "create group expense")
	}
	return id, nil
}

func (s *pgGroupExpenses) UpdateFields(ctx context.Context, e expense.GroupExpense) error {
	query := psql.Update("group_expenses").
		Set("payer_id", e.PayerID).
		Set("amount", e.Amount).
		Set("category", e.Category).
		Set("description", e.Description).
		Set("date", e.Date).
		Where(sq.Eq{"id": e.ID}).
		RunWith(s.r)

	return execAffecting(ctx, query, "update group expense",
		&customerr.ConflictError{Err: "group expense vanished during update"})
}

func (s *pgGroupExpenses) Delete(ctx context.Context, id int64) error {
	query := psql.Delete("group_expenses").
		Where(sq.Eq{"id": id}).
		RunWith(s.r)

	return execDelete(ctx, query, "delete group expense",
		&customerr.NotFoundError{Entity: "group expense", ID: id})
}

func (s *pgGroupExpenses) ListByGroup(ctx context.Context, groupID int64) ([]expense.GroupExpense, error) {
	query := psql.Select(groupExpenseColumns...).
		From("group_expenses").
		Where(sq.Eq{"group_id": groupID}).
		OrderBy("date DESC").
		RunWith(s.r)

	rows, err := query.QueryContext(ctx)
	if err != nil {
		return nil, wrapPgErr(err, "list group expenses")
	}
	defer closeRows(rows)

	res := make([]expense.GroupExpense, 0)
	for rows.Next() {
		e, err := scanGroupExpense(rows)
		if err != nil {
			return nil, errors.Wrap(err, "list group expenses")
		}
		res = append(res, e)
	}
	return res, errors.Wrap(rows.Err(), "list group expenses")
}

type pgExpenseShares struct {
	r sq.BaseRunner
}

var shareColumns = []string{"id", "group_expense_id", "receiver_id", "share_amount"}

func scanShare(row sq.RowScanner) (expense.GroupExpenseShare, error) {
	var s expense.GroupExpenseShare
	err := row.Scan(&s.ID, &s.GroupExpenseID, &s.ReceiverID, &s.ShareAmount)
	return s, err
}

func (s *pgExpenseShares) GetByID(ctx context.Context, id int64) (expense.GroupExpenseShare, error) {
	query := psql.Select(shareColumns...).
		From("group_expense_shares").
		Where(sq.Eq{"id": id}).
		RunWith(s.r)

	sh, err := scanShare(query.QueryRowContext(ctx))
	if errors.Is(err, sql.ErrNoRows) {
		return expense.GroupExpenseShare{}, &customerr.NotFoundError{Entity: "expense share", ID: id}
	}
	if err != nil {
		return expense.GroupExpenseShare{}, wrapPgErr(err, "get expense share")
	}
	return sh, nil
}

func (s *pgExpenseShares) GetByReceiver(ctx context.Context, groupExpenseID, receiverID int64) (expense.GroupExpenseShare, error) {
	query := psql.Select(shareColumns...).
		From("group_expense_shares").
		Where(sq.Eq{"group_expense_id": groupExpenseID, "receiver_id": receiverID}).
		RunWith(s.r)

	sh, err := scanShare(query.QueryRowContext(ctx))
	if errors.Is(err, sql.ErrNoRows) {
		return expense.GroupExpenseShare{}, &customerr.NotFoundError{Entity: "expense share"}
	}
	if err != nil {
		return expense.GroupExpenseShare{}, wrapPgErr(err, "get expense share")
	}
	return sh, nil
}

func (s *pgExpenseShares) IDsByReceivers(ctx context.Context, groupExpenseID int64, receiverIDs []int64) ([]int64, error) {
	query := psql.Select("id").
		From("group_expense_shares").
		Where(sq.Eq{"group_expense_id": groupExpenseID, "receiver_id": receiverIDs}).
		OrderBy("id").
		RunWith(s.r)

	rows, err := query.QueryContext(ctx)
	if err != nil {
		return nil, wrapPgErr(err, "resolve share ids")
	}
	defer closeRows(rows)

	ids := make([]int64, 0, len(receiverIDs))
	for rows.Next() {
		var id int64
		if err = rows.Scan(&id); err != nil {
			return nil, errors.Wrap(err, "resolve share ids")
		}
		ids = append(ids, id)
	}
	return ids, errors.Wrap(rows.Err(), "resolve share ids")
}

func (s *pgExpenseShares) Create(ctx context.Context, sh expense.GroupExpenseShare) (int64, error) {
	query := psql.Insert("group_expense_shares").
		Columns("group_expense_id", "receiver_id", "share_amount").
		Values(sh.GroupExpenseID, sh.ReceiverID, sh.ShareAmount).
		Suffix("RETURNING id").
		RunWith(s.r)

	var id int64
	if err := query.QueryRowContext(ctx).Scan(&id); err != nil {
		return 0, wrapPgErr(err, "create expense share")
	}
	return id, nil
}

func (s *pgExpenseShares) SetAmount(ctx context.Context, id int64, amount decimal.Decimal) error {
	query := psql.Update("group_expense_shares").
		Set("share_amount", amount).
		Where(sq.Eq{"id": id}).
		RunWith(s.r)

	return execAffecting(ctx, query, "update expense share",
		&customerr.ConflictError{Err: "expense share vanished during update"})
}

func (s *pgExpenseShares) Delete(ctx context.Context, id int64) error {
	query := psql.Delete("group_expense_shares").
		Where(sq.Eq{"id": id}).
		RunWith(s.r)

	return execDelete(ctx, query, "delete expense share",
		&customerr.NotFoundError{Entity: "expense share", ID: id})
}

func (s *pgExpenseShares) ListByGroupExpense(ctx context.Context, groupExpenseID int64) ([]expense.GroupExpenseShare, error) {
	query := psql.Select(shareColumns...).
		From("group_expense_shares").
		Where(sq.Eq{"group_expense_id": groupExpenseID}).
		OrderBy("id").
		RunWith(s.r)

	rows, err := query.QueryContext(ctx)
	if err != nil {
		return nil, wrapPgErr(err, "list expense shares")
	}
	defer closeRows(rows)

	res := make([]expense.GroupExpenseShare, 0)
	for rows.Next() {
		sh, err := scanShare(rows)
		if err != nil {
			return nil, errors.Wrap(err, "list expense shares")
		}
		res = append(res, sh)
	}
	return res, errors.Wrap(rows.Err(), "list expense shares")
}
