// Package groups manages groups and their memberships.
package groups

import (
	"context"

	"github.com/myexpenses/myexpenses/internal/entity/group"
	"github.com/myexpenses/myexpenses/internal/entity/user"
	"github.com/myexpenses/myexpenses/internal/model/customerr"
	"github.com/myexpenses/myexpenses/internal/model/storage"
)

// Detail is a group with its resolved member list.
type Detail struct {
	Group   group.Group
	Members []user.User
}

type Service struct {
	storage storage.Storage
}

func NewService(storage storage.Storage) *Service {
	return &Service{storage: storage}
}

// Create makes a group and enrolls the creator as its first member.
func (s *Service) Create(ctx context.Context, name string, createdBy int64) (group.Group, error) {
	if name == "" {
		return group.Group{}, &customerr.ValidationError{Reason: "group name is required"}
	}

	g := group.Group{Name: name, CreatedBy: createdBy}
	err := s.storage.WithinTx(ctx, func(ctx context.Context, uow storage.UnitOfWork) error {
		if _, err := uow.Users().GetByID(ctx, createdBy); err != nil {
			return err
		}
		id, err := uow.Groups().Create(ctx, g)
		if err != nil {
			return err
		}
		g.ID = id
		_, err = uow.Groups().AddMember(ctx, id, createdBy)
		return err
	})
	if err != nil {
		return group.Group{}, err
	}
	return g, nil
}

func (s *Service) Rename(ctx context.Context, id int64, name string) error {
	if name == "" {
		return &customerr.ValidationError{Reason: "group name is required"}
	}
	return s.storage.WithinTx(ctx, func(ctx context.Context, uow storage.UnitOfWork) error {
		return uow.Groups().Rename(ctx, id, name)
	})
}

// Delete removes a group. Groups that still carry expenses cannot be
// deleted; settle and remove the expenses first.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.storage.WithinTx(ctx, func(ctx context.Context, uow storage.UnitOfWork) error {
		expenses, err := uow.GroupExpenses().ListByGroup(ctx, id)
		if err != nil {
			return err
		}
		if len(expenses) > 0 {
			return &customerr.ValidationError{Reason: "group still has expenses"}
		}
		return uow.Groups().Delete(ctx, id)
	})
}

func (s *Service) AddMember(ctx context.Context, groupID, userID int64) error {
	return s.storage.WithinTx(ctx, func(ctx context.Context, uow storage.UnitOfWork) error {
		if _, err := uow.Groups().GetByID(ctx, groupID); err != nil {
			return err
		}
		if _, err := uow.Users().GetByID(ctx, userID); err != nil {
			return err
		}
		_, err := uow.Groups().AddMember(ctx, groupID, userID)
		return err
	})
}

func (s *Service) RemoveMember(ctx context.Context, groupID, userID int64) error {
	return s.storage.WithinTx(ctx, func(ctx context.Context, uow storage.UnitOfWork) error {
		return uow.Groups().RemoveMember(ctx, groupID, userID)
	})
}

func (s *Service) Get(ctx context.Context, id int64) (Detail, error) {
	var res Detail
	err := s.storage.WithinTx(ctx, func(ctx context.Context, uow storage.UnitOfWork) error {
		g, err := uow.Groups().GetByID(ctx, id)
		if err != nil {
			return err
		}
		members, err := uow.Groups().ListMembers(ctx, id)
		if err != nil {
			return err
		}
		ids := make([]int64, 0, len(members))
		for _, m := range members {
			ids = append(ids, m.UserID)
		}
		users, err := uow.Users().ListByIDs(ctx, ids)
		if err != nil {
			return err
		}
		res = Detail{Group: g, Members: users}
		return nil
	})
	return res, err
}

// ListForUser returns the groups the user belongs to.
func (s *Service) ListForUser(ctx context.Context, userID int64) ([]group.Group, error) {
	var res []group.Group
	err := s.storage.WithinTx(ctx, func(ctx context.Context, uow storage.UnitOfWork) error {
		var err error
		res, err = uow.Groups().ListForUser(ctx, userID)
		return err
	})
	return res, err
}
