package groups

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myexpenses/myexpenses/internal/entity/expense"
	"github.com/myexpenses/myexpenses/internal/entity/user"
	"github.com/myexpenses/myexpenses/internal/model/customerr"
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

func Test_OnCreate_ShouldEnrollCreatorAsFirstMember(t *testing.T) {
	s := storage.NewInMemStorage()
	svc := NewService(s)
	ids := seedUsers(t, s, "alice")

	g, err := svc.Create(context.Background(), "Trip", ids[0])
	require.NoError(t, err)

	res, err := svc.Get(context.Background(), g.ID)
	require.NoError(t, err)
	require.Len(t, res.Members, 1)
	assert.Equal(t, ids[0], res.Members[0].ID)
}

func Test_OnCreate_ShouldRejectEmptyName(t *testing.T) {
	s := storage.NewInMemStorage()
	svc := NewService(s)
	ids := seedUsers(t, s, "alice")

	_, err := svc.Create(context.Background(), "", ids[0])
	assert.True(t, customerr.IsValidation(err))
}

func Test_OnAddMember_ShouldRejectDuplicates(t *testing.T) {
	s := storage.NewInMemStorage()
	svc := NewService(s)
	ids := seedUsers(t, s, "alice", "bob")

	g, err := svc.Create(context.Background(), "Trip", ids[0])
	require.NoError(t, err)

	require.NoError(t, svc.AddMember(context.Background(), g.ID, ids[1]))

	err = svc.AddMember(context.Background(), g.ID, ids[1])
	assert.True(t, customerr.IsValidation(err))
}

func Test_OnRemoveMember_ShouldDropMembership(t *testing.T) {
	s := storage.NewInMemStorage()
	svc := NewService(s)
	ids := seedUsers(t, s, "alice", "bob")

	g, err := svc.Create(context.Background(), "Trip", ids[0])
	require.NoError(t, err)
	require.NoError(t, svc.AddMember(context.Background(), g.ID, ids[1]))

	require.NoError(t, svc.RemoveMember(context.Background(), g.ID, ids[1]))

	res, err := svc.Get(context.Background(), g.ID)
	require.NoError(t, err)
	assert.Len(t, res.Members, 1)
}

func Test_OnDelete_ShouldRefuseGroupWithExpenses(t *testing.T) {
	s := storage.NewInMemStorage()
	svc := NewService(s)
	ids := seedUsers(t, s, "alice")

	g, err := svc.Create(context.Background(), "Trip", ids[0])
	require.NoError(t, err)

	err = s.WithinTx(context.Background(), func(ctx context.Context, uow storage.UnitOfWork) error {
		_, err := uow.GroupExpenses().Create(ctx, expense.GroupExpense{
			GroupID: g.ID,
			PayerID: ids[0],
			Amount:  decimal.NewFromInt(10),
			Date:    time.Now(),
		})
		return err
	})
	require.NoError(t, err)

	err = svc.Delete(context.Background(), g.ID)
	assert.True(t, customerr.IsValidation(err))
}

func Test_OnListForUser_ShouldReturnOnlyMemberGroups(t *testing.T) {
	s := storage.NewInMemStorage()
	svc := NewService(s)
	ids := seedUsers(t, s, "alice", "bob")

	_, err := svc.Create(context.Background(), "Trip", ids[0])
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), "Flat", ids[1])
	require.NoError(t, err)

	list, err := svc.ListForUser(context.Background(), ids[0])
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Trip", list[0].Name)
}
