package contacts

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myexpenses/myexpenses/internal/entity/contact"
	"github.com/myexpenses/myexpenses/internal/entity/user"
	"github.com/myexpenses/myexpenses/internal/model/customerr"
	"github.com/myexpenses/myexpenses/internal/model/ledger"
	"github.com/myexpenses/myexpenses/internal/model/storage"
)

func seedUsers(t *testing.T, s storage.Storage, names ...string) []int64 {
	t.Helper()
	ids := make([]int64, 0, len(names))
	err := s.WithinTx(context.Background(), func(ctx context.Context, uow storage.UnitOfWork) error {
		for _, name := range names {
			id, err := uow.Users().Create(ctx, user.User{Name: name, Email: name + "@example.com"})
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return nil
	})
	require.NoError(t, err)
	return ids
}

func Test_OnAdd_ShouldCreatePendingRequest(t *testing.T) {
	s := storage.NewInMemStorage()
	svc := NewService(s)
	ids := seedUsers(t, s, "alice", "bob")

	c, err := svc.Add(context.Background(), ids[0], ids[1])
	require.NoError(t, err)
	assert.Equal(t, contact.StatusPending, c.Status)
	assert.True(t, c.Balance.IsZero())

	requests, err := svc.Requests(context.Background(), ids[1])
	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, ids[0], requests[0].FromUserID)
	assert.Equal(t, "alice", requests[0].Name)
}

func Test_OnAdd_ShouldRejectDuplicateInEitherDirection(t *testing.T) {
	s := storage.NewInMemStorage()
	svc := NewService(s)
	ids := seedUsers(t, s, "alice", "bob")

	_, err := svc.Add(context.Background(), ids[0], ids[1])
	require.NoError(t, err)

	_, err = svc.Add(context.Background(), ids[0], ids[1])
	assert.True(t, customerr.IsValidation(err))

	_, err = svc.Add(context.Background(), ids[1], ids[0])
	assert.True(t, customerr.IsValidation(err))
}

func Test_OnAdd_ShouldRejectUnknownUsers(t *testing.T) {
	s := storage.NewInMemStorage()
	svc := NewService(s)
	ids := seedUsers(t, s, "alice")

	_, err := svc.Add(context.Background(), ids[0], 999)
	assert.True(t, customerr.IsNotFound(err))
}

func Test_OnAccept_ShouldRequireInvitedSide(t *testing.T) {
	s := storage.NewInMemStorage()
	svc := NewService(s)
	ids := seedUsers(t, s, "alice", "bob")

	c, err := svc.Add(context.Background(), ids[0], ids[1])
	require.NoError(t, err)

	err = svc.Accept(context.Background(), c.ID, ids[0])
	assert.True(t, customerr.IsValidation(err))

	require.NoError(t, svc.Accept(context.Background(), c.ID, ids[1]))

	err = svc.Accept(context.Background(), c.ID, ids[1])
	assert.True(t, customerr.IsValidation(err))
}

func Test_OnRemove_ShouldRequireRequestingSide(t *testing.T) {
	s := storage.NewInMemStorage()
	svc := NewService(s)
	ids := seedUsers(t, s, "alice", "bob")

	c, err := svc.Add(context.Background(), ids[0], ids[1])
	require.NoError(t, err)

	err = svc.Remove(context.Background(), c.ID, ids[1])
	assert.True(t, customerr.IsValidation(err))

	require.NoError(t, svc.Remove(context.Background(), c.ID, ids[0]))

	list, err := svc.List(context.Background(), ids[0])
	require.NoError(t, err)
	assert.Empty(t, list)
}

func Test_OnList_ShouldReadBalanceFromEachSidesPerspective(t *testing.T) {
	s := storage.NewInMemStorage()
	svc := NewService(s)
	ids := seedUsers(t, s, "alice", "bob")

	// alice paid 40 on bob's behalf
	err := s.WithinTx(context.Background(), func(ctx context.Context, uow storage.UnitOfWork) error {
		return ledger.Adjust(ctx, uow.Contacts(), ids[0], ids[1], decimal.NewFromInt(40))
	})
	require.NoError(t, err)

	aliceList, err := svc.List(context.Background(), ids[0])
	require.NoError(t, err)
	require.Len(t, aliceList, 1)
	assert.Equal(t, "bob", aliceList[0].Name)
	assert.True(t, aliceList[0].Balance.Equal(decimal.NewFromInt(40)))

	bobList, err := svc.List(context.Background(), ids[1])
	require.NoError(t, err)
	require.Len(t, bobList, 1)
	assert.Equal(t, "alice", bobList[0].Name)
	assert.True(t, bobList[0].Balance.Equal(decimal.NewFromInt(-40)))
}
