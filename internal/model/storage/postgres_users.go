package storage

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/myexpenses/myexpenses/internal/entity/group"
	"github.com/myexpenses/myexpenses/internal/entity/user"
	"github.com/myexpenses/myexpenses/internal/model/customerr"
)

type pgUsers struct {
	r sq.BaseRunner
}

var userColumns = []string{"id", "name", "email", "phone", "budget", "created_at"}

func scanUser(row sq.RowScanner) (user.User, error) {
	var u user.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.Budget, &u.CreatedAt)
	return u, err
}

func (s *pgUsers) GetByID(ctx context.Context, id int64) (user.User, error) {
	query := psql.Select(userColumns...).
		From("users").
		Where(sq.Eq{"id": id}).
		RunWith(s.r)

	u, err := scanUser(query.QueryRowContext(ctx))
	if errors.Is(err, sql.ErrNoRows) {
		return user.User{}, &customerr.NotFoundError{Entity: "user", ID: id}
	}
	if err != nil {
		return user.User{}, wrapPgErr(err, "get user")
	}
	return u, nil
}

func (s *pgUsers) GetByEmail(ctx context.Context, email string) (user.User, error) {
	query := psql.Select(userColumns...).
		From("users").
		Where(sq.Eq{"email": email}).
		RunWith(s.r)

	u, err := scanUser(query.QueryRowContext(ctx))
	if errors.Is(err, sql.ErrNoRows) {
		return user.User{}, &customerr.NotFoundError{Entity: "user"}
	}
	if err != nil {
		return user.User{}, wrapPgErr(err, "get user by email")
	}
	return u, nil
}

func (s *pgUsers) Create(ctx context.Context, u user.User) (int64, error) {
	query := psql.Insert("users").
		Columns("name", "email", "phone", "budget").
		Values(u.Name, u.Email, u.Phone, u.Budget).
		Suffix("RETURNING id").
		RunWith(s.r)

	var id int64
	if err := query.QueryRowContext(ctx).Scan(&id); err != nil {
		return 0, wrapPgErr(err, "create user")
	}
	return id, nil
}

func (s *pgUsers) ListByIDs(ctx context.Context, ids []int64) ([]user.User, error) {
	query := psql.Select(userColumns...).
		From("users").
		Where(sq.Eq{"id": ids}).
		RunWith(s.r)

	rows, err := query.QueryContext(ctx)
	if err != nil {
		return nil, wrapPgErr(err, "list users")
	}
	defer closeRows(rows)

	res := make([]user.User, 0, len(ids))
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, errors.Wrap(err, "list users")
		}
		res = append(res, u)
	}
	return res, errors.Wrap(rows.Err(), "list users")
}

type pgGroups struct {
	r sq.BaseRunner
}

var groupColumns = []string{"id", "name", "created_by", "created_at"}

func scanGroup(row sq.RowScanner) (group.Group, error) {
	var g group.Group
	err := row.Scan(&g.ID, &g.Name, &g.CreatedBy, &g.CreatedAt)
	return g, err
}

func (s *pgGroups) GetByID(ctx context.Context, id int64) (group.Group, error) {
	query := psql.Select(groupColumns...).
		From("groups").
		Where(sq.Eq{"id": id}).
		RunWith(s.r)

	g, err := scanGroup(query.QueryRowContext(ctx))
	if errors.Is(err, sql.ErrNoRows) {
		return group.Group{}, &customerr.NotFoundError{Entity: "group", ID: id}
	}
	if err != nil {
		return group.Group{}, wrapPgErr(err, "get group")
	}
	return g, nil
}

func (s *pgGroups) Create(ctx context.Context, g group.Group) (int64, error) {
	query := psql.Insert("groups").
		Columns("name", "created_by").
		Values(g.Name, g.CreatedBy).
		Suffix("RETURNING id").
		RunWith(s.r)

	var id int64
	if err := query.QueryRowContext(ctx).Scan(&id); err != nil {
		return 0, wrapPgErr(err, "create group")
	}
	return id, nil
}

func (s *pgGroups) Rename(ctx context.Context, id int64, name string) error {
	query := psql.Update("groups").
		Set("name", name).
		Where(sq.Eq{"id": id}).
		RunWith(s.r)

	return execAffecting(ctx, query, "rename group",
		&customerr.NotFoundError{Entity: "group", ID: id})
}

func (s *pgGroups) Delete(ctx context.Context, id int64) error {
	query := psql.Delete("groups").
		Where(sq.Eq{"id": id}).
		RunWith(s.r)

	return execDelete(ctx, query, "delete group",
		&customerr.NotFoundError{Entity: "group", ID: id})
}

func (s *pgGroups) AddMember(ctx context.Context, groupID, userID int64) (int64, error) {
	query := psql.Insert("group_memberships").
		Columns("group_id", "user_id").
		Values(groupID, userID).
		Suffix("RETURNING id").
		RunWith(s.r)

	var id int64
	if err := query.QueryRowContext(ctx).Scan(&id); err != nil {
		return 0, wrapPgErr(err, "add group member")
	}
	return id, nil
}

func (s *pgGroups) RemoveMember(ctx context.Context, groupID, userID int64) error {
	query := psql.Delete("group_memberships").
		Where(sq.Eq{"group_id": groupID, "user_id": userID}).
		RunWith(s.r)

	return execDelete(ctx, query, "remove group member",
		&customerr.NotFoundError{Entity: "group membership"})
}

func (s *pgGroups) ListForUser(ctx context.Context, userID int64) ([]group.Group, error) {
	query := psql.Select("g.id", "g.name", "g.created_by", "g.created_at").
		From("groups g").
		Join("group_memberships m ON m.group_id = g.id").
		Where(sq.Eq{"m.user_id": userID}).
		OrderBy("g.created_at").
		RunWith(s.r)

	rows, err := query.QueryContext(ctx)
	if err != nil {
		return nil, wrapPgErr(err, "list groups")
	}
	defer closeRows(rows)

	res := make([]group.Group, 0)
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, errors.Wrap(err, "list groups")
		}
		res = append(res, g)
	}
	return res, errors.Wrap(rows.Err(), "list groups")
}

func (s *pgGroups) ListMembers(ctx context.Context, groupID int64) ([]group.Membership, error) {
	query := psql.Select("id", "group_id", "user_id").
		From("group_memberships").
		Where(sq.Eq{"group_id": groupID}).
		OrderBy("id").
		RunWith(s.r)

	rows, err := query.QueryContext(ctx)
	if err != nil {
		return nil, wrapPgErr(err, "list group members")
	}
	defer closeRows(rows)

	res := make([]group.Membership, 0)
	for rows.Next() {
		var m group.Membership
		if err = rows.Scan(&m.ID, &m.GroupID, &m.UserID); err != nil {
			return nil, errors.Wrap(err, "list group members")
		}
		res = append(res, m)
	}
	return res, errors.Wrap(rows.Err(), "list group members")
}
