package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/myexpenses/myexpenses/internal/logger"
	"github.com/myexpenses/myexpenses/internal/model/customerr"
)

const dsnTemplate = "user=%s password=%s host=%s port=%d dbname=%s sslmode=disable"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type config interface {
	Host() string
	Port() int
	Username() string
	Password() string
	Database() string
}

type PostgresStorage struct {
	db *sql.DB
}

func NewPostgresStorage(config config) (*PostgresStorage, error) {
	db, err := sql.Open("postgres", fmt.Sprintf(dsnTemplate,
		config.Username(),
		config.Password(),
		config.Host(),
		config.Port(),
		config.Database()))
	if err != nil {
		return nil, errors.Wrap(err, "cannot connect to database")
	}
	if err = db.Ping(); err != nil {
		return nil, errors.Wrap(err, "cannot connect to database")
	}
	return &PostgresStorage{db}, nil
}

func (s *PostgresStorage) DB() *sql.DB {
	return s.db
}

// WithinTx runs fn inside one database transaction. A non-nil error from fn
// rolls everything back; otherwise the transaction commits. Serialization
// failures surface as ConflictError so callers can retry.
func (s *PostgresStorage) WithinTx(ctx context.Context, fn func(ctx context.Context, uow UnitOfWork) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer func() {
		txErr := tx.Rollback()
		if txErr != nil && !errors.Is(txErr, sql.ErrTxDone) {
			logger.Error("error when transaction rollback", zap.Error(txErr))
		}
	}()

	if err = fn(ctx, &pgUnitOfWork{runner: tx}); err != nil {
		return err
	}
	return wrapPgErr(tx.Commit(), "commit tx")
}

type pgUnitOfWork struct {
	runner sq.BaseRunner
}

func (u *pgUnitOfWork) Contacts() Contacts                 { return &pgContacts{u.runner} }
func (u *pgUnitOfWork) Users() Users                       { return &pgUsers{u.runner} }
func (u *pgUnitOfWork) Groups() Groups                     { return &pgGroups{u.runner} }
func (u *pgUnitOfWork) UserExpenses() UserExpenses         { return &pgUserExpenses{u.runner} }
func (u *pgUnitOfWork) GroupExpenses() GroupExpenses       { return &pgGroupExpenses{u.runner} }
func (u *pgUnitOfWork) ExpenseShares() ExpenseShares       { return &pgExpenseShares{u.runner} }
func (u *pgUnitOfWork) PersonalExpenses() PersonalExpenses { return &pgPersonalExpenses{u.runner} }

// wrapPgErr maps driver-level failures onto the domain error taxonomy:
// serialization/deadlock errors become retryable conflicts, unique-index
// violations become validation failures.
func wrapPgErr(err error, msg string) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "40001", "40P01":
			return &customerr.ConflictError{Err: msg + ": " + pqErr.Message}
		case "23505":
			// a collision on the pair index means two transactions raced to
			// lazily create the same edge; retryable, unlike other unique
			// violations
			if pqErr.Constraint == "contacts_pair_idx" {
				return &customerr.ConflictError{Err: msg + ": " + pqErr.Message}
			}
			return &customerr.ValidationError{Reason: msg + ": " + pqErr.Message}
		}
	}
	return errors.Wrap(err, msg)
}

func closeRows(rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		logger.Error("error closing rows", zap.Error(err))
	}
}

func execAffecting(ctx context.Context, query sq.UpdateBuilder, msg string, onZero error) error {
	res, err := query.ExecContext(ctx)
	if err != nil {
		return wrapPgErr(err, msg)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, msg)
	}
	if n == 0 {
		return onZero
	}
	return nil
}

func execDelete(ctx context.Context, query sq.DeleteBuilder, msg string, onZero error) error {
	res, err := query.ExecContext(ctx)
	if err != nil {
		return wrapPgErr(err, msg)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, msg)
	}
	if n == 0 {
		return onZero
	}
	return nil
}
