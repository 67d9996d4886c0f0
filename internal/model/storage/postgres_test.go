package storage

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myexpenses/myexpenses/internal/entity/contact"
	"github.com/myexpenses/myexpenses/internal/entity/expense"
	"github.com/myexpenses/myexpenses/internal/model/customerr"
)

func contactFixture() contact.Contact {
	return contact.Contact{
		FromUserID: 1,
		ToUserID:   2,
		Balance:    decimal.Zero,
		Status:     contact.StatusAccepted,
	}
}

func newMockStorage(t *testing.T) (*PostgresStorage, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return &PostgresStorage{db: db}, mock
}

func Test_OnWithinTx_ShouldCommitOnSuccess(t *testing.T) {
	s, mock := newMockStorage(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE contacts SET balance = balance \\+ .+").
		WithArgs(decimal.NewFromInt(5), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := s.WithinTx(context.Background(), func(ctx context.Context, uow UnitOfWork) error {
		return uow.Contacts().AddToBalance(ctx, 1, decimal.NewFromInt(5))
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func Test_OnWithinTx_ShouldRollBackOnCallbackError(t *testing.T) {
	s, mock := newMockStorage(t)
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := s.WithinTx(context.Background(), func(ctx context.Context, uow UnitOfWork) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func Test_OnWithinTx_ShouldMapSerializationFailureToConflict(t *testing.T) {
	s, mock := newMockStorage(t)

	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(&pq.Error{Code: "40001", Message: "serialization failure"})

	err := s.WithinTx(context.Background(), func(ctx context.Context, uow UnitOfWork) error {
		return nil
	})
	assert.True(t, customerr.IsConflict(err))
}

func Test_OnAddToBalance_ShouldConflictWhenRowVanished(t *testing.T) {
	s, mock := newMockStorage(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE contacts SET balance = balance \\+ .+").
		WithArgs(decimal.NewFromInt(5), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := s.WithinTx(context.Background(), func(ctx context.Context, uow UnitOfWork) error {
		return uow.Contacts().AddToBalance(ctx, 1, decimal.NewFromInt(5))
	})
	assert.True(t, customerr.IsConflict(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func Test_OnFindEdge_ShouldLockTheRow(t *testing.T) {
	s, mock := newMockStorage(t)

	rows := sqlmock.NewRows(contactColumns).
		AddRow(int64(1), int64(1), int64(2), decimal.NewFromInt(10), "accepted", time.Now())

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .+ FROM contacts WHERE .+ FOR UPDATE").
		WithArgs(int64(1), int64(2), int64(2), int64(1)).
		WillReturnRows(rows)
	mock.ExpectCommit()

	err := s.WithinTx(context.Background(), func(ctx context.Context, uow UnitOfWork) error {
		c, err := uow.Contacts().FindEdge(ctx, 1, 2)
		if err != nil {
			return err
		}
		assert.True(t, c.Balance.Equal(decimal.NewFromInt(10)))
		return nil
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func Test_OnCreateShare_ShouldMapUniqueViolationToValidation(t *testing.T) {
	s, mock := newMockStorage(t)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO group_expense_shares .+ RETURNING id").
		WillReturnError(&pq.Error{
			Code:       "23505",
			Constraint: "group_expense_shares_group_expense_id_receiver_id_key",
			Message:    "duplicate key value",
		})
	mock.ExpectRollback()

	err := s.WithinTx(context.Background(), func(ctx context.Context, uow UnitOfWork) error {
		_, err := uow.ExpenseShares().Create(ctx, expense.GroupExpenseShare{
			GroupExpenseID: 1,
			ReceiverID:     2,
			ShareAmount:    decimal.NewFromInt(10),
		})
		return err
	})
	assert.True(t, customerr.IsValidation(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func Test_OnCreateContact_ShouldMapPairIndexRaceToConflict(t *testing.T) {
	s, mock := newMockStorage(t)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO contacts .+ RETURNING id").
		WillReturnError(&pq.Error{
			Code:       "23505",
			Constraint: "contacts_pair_idx",
			Message:    "duplicate key value",
		})
	mock.ExpectRollback()

	err := s.WithinTx(context.Background(), func(ctx context.Context, uow UnitOfWork) error {
		_, err := uow.Contacts().Create(ctx, contactFixture())
		return err
	})
	assert.True(t, customerr.IsConflict(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
