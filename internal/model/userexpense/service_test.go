package userexpense

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myexpenses/myexpenses/internal/entity/contact"
	"github.com/myexpenses/myexpenses/internal/model/customerr"
	"github.com/myexpenses/myexpenses/internal/model/storage"
)

func edgeBalance(t *testing.T, s storage.Storage, userA, userB int64) decimal.Decimal {
	t.Helper()
	var c contact.Contact
	err := s.WithinTx(context.Background(), func(ctx context.Context, uow storage.UnitOfWork) error {
		var err error
		c, err = uow.Contacts().FindEdge(ctx, userA, userB)
		return err
	})
	require.NoError(t, err)
	if c.FromUserID != userA {
		return c.Balance.Neg()
	}
	return c.Balance
}

func Test_OnCreate_ShouldMoveAmountOntoLedger(t *testing.T) {
	s := storage.NewInMemStorage()
	svc := NewService(s)

	e, err := svc.Create(context.Background(), CreateRequest{
		FromUserID: 1,
		ToUserID:   2,
		Amount:     decimal.NewFromInt(100),
		Category:   "Dinner",
		Date:       time.Now(),
	})
	require.NoError(t, err)
	assert.NotZero(t, e.ID)

	assert.True(t, edgeBalance(t, s, 1, 2).Equal(decimal.NewFromInt(100)))
}

func Test_OnCreate_ShouldRejectSelfExpense(t *testing.T) {
	svc := NewService(storage.NewInMemStorage())

	_, err := svc.Create(context.Background(), CreateRequest{
		FromUserID: 1,
		ToUserID:   1,
		Amount:     decimal.NewFromInt(100),
	})
	assert.True(t, customerr.IsValidation(err))
}

func Test_OnUpdate_ShouldApplyNetDifferenceForSamePair(t *testing.T) {
	s := storage.NewInMemStorage()
	svc := NewService(s)

	e, err := svc.Create(context.Background(), CreateRequest{
		FromUserID: 1, ToUserID: 2, Amount: decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	err = svc.Update(context.Background(), UpdateRequest{
		ID: e.ID, FromUserID: 1, ToUserID: 2, Amount: decimal.NewFromInt(150),
	})
	require.NoError(t, err)

	assert.True(t, edgeBalance(t, s, 1, 2).Equal(decimal.NewFromInt(150)))
}

func Test_OnUpdate_ShouldMoveEffectWhenPairChanges(t *testing.T) {
	s := storage.NewInMemStorage()
	svc := NewService(s)

	e, err := svc.Create(context.Background(), CreateRequest{
		FromUserID: 1, ToUserID: 2, Amount: decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	err = svc.Update(context.Background(), UpdateRequest{
		ID: e.ID, FromUserID: 1, ToUserID: 3, Amount: decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	assert.True(t, edgeBalance(t, s, 1, 2).IsZero())
	assert.True(t, edgeBalance(t, s, 1, 3).Equal(decimal.NewFromInt(100)))
}

func Test_OnDelete_ShouldRestoreLedgerBalance(t *testing.T) {
	s := storage.NewInMemStorage()
	svc := NewService(s)

	e, err := svc.Create(context.Background(), CreateRequest{
		FromUserID: 1, ToUserID: 2, Amount: decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), e.ID))

	assert.True(t, edgeBalance(t, s, 1, 2).IsZero())

	_, err = svc.Get(context.Background(), e.ID)
	assert.True(t, customerr.IsNotFound(err))
}

func Test_OnListBetween_ShouldNetBothDirections(t *testing.T) {
	s := storage.NewInMemStorage()
	svc := NewService(s)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateRequest{FromUserID: 1, ToUserID: 2, Amount: decimal.NewFromInt(100)})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateRequest{FromUserID: 2, ToUserID: 1, Amount: decimal.NewFromInt(30)})
	require.NoError(t, err)

	res, err := svc.ListBetween(ctx, 1, 2)
	require.NoError(t, err)
	assert.Len(t, res.Expenses, 2)
	assert.True(t, res.TotalAmount.Equal(decimal.NewFromInt(70)))
}
