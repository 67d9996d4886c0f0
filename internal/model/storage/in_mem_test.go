package storage

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myexpenses/myexpenses/internal/entity/contact"
	"github.com/myexpenses/myexpenses/internal/entity/user"
	"github.com/myexpenses/myexpenses/internal/model/customerr"
)

func Test_OnWithinTx_ShouldRollBackEveryWriteOnError(t *testing.T) {
	s := NewInMemStorage()
	ctx := context.Background()

	err := s.WithinTx(ctx, func(ctx context.Context, uow UnitOfWork) error {
		_, err := uow.Users().Create(ctx, user.User{Name: "alice"})
		return err
	})
	require.NoError(t, err)

	boom := errors.New("boom")
	err = s.WithinTx(ctx, func(ctx context.Context, uow UnitOfWork) error {
		if _, err := uow.Users().Create(ctx, user.User{Name: "bob"}); err != nil {
			return err
		}
		if _, err := uow.Contacts().Create(ctx, contact.Contact{
			FromUserID: 1, ToUserID: 2, Balance: decimal.NewFromInt(10), Status: contact.StatusAccepted,
		}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	err = s.WithinTx(ctx, func(ctx context.Context, uow UnitOfWork) error {
		if _, err := uow.Users().GetByID(ctx, 1); err != nil {
			return err
		}
		_, err := uow.Contacts().FindEdge(ctx, 1, 2)
		assert.True(t, customerr.IsNotFound(err))
		_, err = uow.Users().GetByID(ctx, 2)
		assert.True(t, customerr.IsNotFound(err))
		return nil
	})
	require.NoError(t, err)
}

func Test_OnWithinTx_ShouldKeepCommittedWrites(t *testing.T) {
	s := NewInMemStorage()
	ctx := context.Background()

	err := s.WithinTx(ctx, func(ctx context.Context, uow UnitOfWork) error {
		_, err := uow.Contacts().Create(ctx, contact.Contact{
			FromUserID: 1, ToUserID: 2, Balance: decimal.NewFromInt(10), Status: contact.StatusAccepted,
		})
		return err
	})
	require.NoError(t, err)

	err = s.WithinTx(ctx, func(ctx context.Context, uow UnitOfWork) error {
		c, err := uow.Contacts().FindEdge(ctx, 2, 1)
		if err != nil {
			return err
		}
		assert.True(t, c.Balance.Equal(decimal.NewFromInt(10)))
		return nil
	})
	require.NoError(t, err)
}
