// Package users holds account registration and lookup.
package users

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/myexpenses/myexpenses/internal/entity/user"
	"github.com/myexpenses/myexpenses/internal/model/customerr"
	"github.com/myexpenses/myexpenses/internal/model/storage"
)

type RegisterRequest struct {
	Name   string
	Email  string
	Phone  string
	Budget decimal.Decimal
}

type Service struct {
	storage storage.Storage
}

func NewService(storage storage.Storage) *Service {
	return &Service{storage: storage}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (user.User, error) {
	if req.Name == "" {
		return user.User{}, &customerr.ValidationError{Reason: "name is required"}
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return user.User{}, &customerr.ValidationError{Reason: "a valid email is required"}
	}
	if req.Budget.IsNegative() {
		return user.User{}, &customerr.ValidationError{Reason: "budget must not be negative"}
	}

	u := user.User{
		Name:   req.Name,
		Email:  email,
		Phone:  req.Phone,
		Budget: req.Budget,
	}
	err := s.storage.WithinTx(ctx, func(ctx context.Context, uow storage.UnitOfWork) error {
		if _, err := uow.Users().GetByEmail(ctx, email); err == nil {
			return &customerr.ValidationError{Reason: "email already registered"}
		} else if !customerr.IsNotFound(err) {
			return err
		}
		id, err := uow.Users().Create(ctx, u)
		u.ID = id
		return err
	})
	if err != nil {
		return user.User{}, err
	}
	return u, nil
}

func (s *Service) Get(ctx context.Context, id int64) (user.User, error) {
	var u user.User
	err := s.storage.WithinTx(ctx, func(ctx context.Context, uow storage.UnitOfWork) error {
		var err error
		u, err = uow.Users().GetByID(ctx, id)
		return err
	})
	return u, err
}

func (s *Service) GetByEmail(ctx context.Context, email string) (user.User, error) {
	var u user.User
	err := s.storage.WithinTx(ctx, func(ctx context.Context, uow storage.UnitOfWork) error {
		var err error
		u, err = uow.Users().GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
		return err
	})
	return u, err
}
