package storage

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/myexpenses/myexpenses/internal/entity/contact"
	"github.com/myexpenses/myexpenses/internal/model/customerr"
)

var contactColumns = []string{"id", "from_user_id", "to_user_id", "balance", "status", "created_at"}

type pgContacts struct {
	r sq.BaseRunner
}

func scanContact(row sq.RowScanner) (contact.Contact, error) {
	var c contact.Contact
	err := row.Scan(&c.ID, &c.FromUserID, &c.ToUserID, &c.Balance, &c.Status, &c.CreatedAt)
	return c, err
}

func (s *pgContacts) GetByID(ctx context.Context, id int64) (contact.Contact, error) {
	query := psql.Select(contactColumns...).
		From("contacts").
		Where(sq.Eq{"id": id}).
		RunWith(s.r)

	c, err := scanContact(query.QueryRowContext(ctx))
	if errors.Is(err, sql.ErrNoRows) {
		return contact.Contact{}, &customerr.NotFoundError{Entity: "contact", ID: id}
	}
	if err != nil {
		return contact.Contact{}, wrapPgErr(err, "get contact")
	}
	return c, nil
}

// FindEdge matches the pair in either direction and locks the row for the
// rest of the transaction, so concurrent balance adjustments serialize.
func (s *pgContacts) FindEdge(ctx context.Context, userA, userB int64) (contact.Contact, error) {
	query := psql.Select(contactColumns...).
		From("contacts").
		Where(sq.Or{
			sq.And{sq.Eq{"from_user_id": userA}, sq.Eq{"to_user_id": userB}},
			sq.And{sq.Eq{"from_user_id": userB}, sq.Eq{"to_user_id": userA}},
		}).
		Suffix("FOR UPDATE").
		RunWith(s.r)

	c, err := scanContact(query.QueryRowContext(ctx))
	if errors.Is(err, sql.ErrNoRows) {
		return contact.Contact{}, &customerr.NotFoundError{Entity: "contact"}
	}
	if err != nil {
		return contact.Contact{}, wrapPgErr(err, "find edge")
	}
	return c, nil
}

func (s *pgContacts) Create(ctx context.Context, c contact.Contact) (int64, error) {
	query := psql.Insert("contacts").
		Columns("from_user_id", "to_user_id", "balance", "status").
		Values(c.FromUserID, c.ToUserID, c.Balance, c.Status).
		Suffix("RETURNING id").
		RunWith(s.r)

	var id int64
	if err := query.QueryRowContext(ctx).Scan(&id); err != nil {
		return 0, wrapPgErr(err, "create contact")
	}
	return id, nil
}

func (s *pgContacts) AddToBalance(ctx context.Context, id int64, delta decimal.Decimal) error {
	query := psql.Update("contacts").
		Set("balance", sq.Expr("balance + ?", delta)).
		Where(sq.Eq{"id": id}).
		RunWith(s.r)

	return execAffecting(ctx, query, "adjust balance",
		&customerr.ConflictError{Err: "contact edge vanished during adjustment"})
}

func (s *pgContacts) SetStatus(ctx context.Context, id int64, status contact.InvitationStatus) error {
	query := psql.Update("contacts").
		Set("status", status).
		Where(sq.Eq{"id": id}).
		RunWith(s.r)

	return execAffecting(ctx, query, "set contact status",
		&customerr.NotFoundError{Entity: "contact", ID: id})
}

func (s *pgContacts) Delete(ctx context.Context, id int64) error {
	query := psql.Delete("contacts").
		Where(sq.Eq{"id": id}).
		RunWith(s.r)

	return execDelete(ctx, query, "delete contact",
		&customerr.NotFoundError{Entity: "contact", ID: id})
}

func (s *pgContacts) ListForUser(ctx context.Context, userID int64) ([]contact.Contact, error) {
	query := psql.Select(contactColumns...).
		From("contacts").
		Where(sq.Or{sq.Eq{"from_user_id": userID}, sq.Eq{"to_user_id": userID}}).
		OrderBy("created_at").
		RunWith(s.r)

	return s.list(ctx, query, "list contacts")
}

func (s *pgContacts) ListRequests(ctx context.Context, toUserID int64) ([]contact.Contact, error) {
	query := psql.Select(contactColumns...).
		From("contacts").
		Where(sq.Eq{"to_user_id": toUserID, "status": contact.StatusPending}).
		OrderBy("created_at").
		RunWith(s.r)

	return s.list(ctx, query, "list contact requests")
}

func (s *pgContacts) list(ctx context.Context, query sq.SelectBuilder, msg string) ([]contact.Contact, error) {
	rows, err := query.QueryContext(ctx)
	if err != nil {
		return nil, wrapPgErr(err, msg)
	}
	defer closeRows(rows)

	res := make([]contact.Contact, 0)
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, errors.Wrap(err, msg)
		}
		res = append(res, c)
	}
	return res, errors.Wrap(rows.Err(), msg)
}
