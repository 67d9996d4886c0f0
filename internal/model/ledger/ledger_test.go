package ledger

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myexpenses/myexpenses/internal/entity/contact"
	"github.com/myexpenses/myexpenses/internal/model/customerr"
	"github.com/myexpenses/myexpenses/internal/model/storage"
)

func adjust(t *testing.T, s storage.Storage, userA, userB int64, delta decimal.Decimal) error {
	t.Helper()
	return s.WithinTx(context.Background(), func(ctx context.Context, uow storage.UnitOfWork) error {
		return Adjust(ctx, uow.Contacts(), userA, userB, delta)
	})
}

func findEdge(t *testing.T, s storage.Storage, userA, userB int64) (contact.Contact, error) {
	t.Helper()
	var c contact.Contact
	err := s.WithinTx(context.Background(), func(ctx context.Context, uow storage.UnitOfWork) error {
		var err error
		c, err = uow.Contacts().FindEdge(ctx, userA, userB)
		return err
	})
	return c, err
}

func Test_OnAdjust_ShouldCreateAcceptedEdgeWhenPairIsUnlinked(t *testing.T) {
	s := storage.NewInMemStorage()

	err := adjust(t, s, 1, 2, decimal.NewFromInt(100))
	require.NoError(t, err)

	c, err := findEdge(t, s, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), c.FromUserID)
	assert.Equal(t, int64(2), c.ToUserID)
	assert.True(t, c.Balance.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, contact.StatusAccepted, c.Status)
}

func Test_OnAdjust_ShouldAddToForwardEdgeBalance(t *testing.T) {
	s := storage.NewInMemStorage()

	require.NoError(t, adjust(t, s, 1, 2, decimal.NewFromInt(100)))
	require.NoError(t, adjust(t, s, 1, 2, decimal.NewFromInt(30)))

	c, err := findEdge(t, s, 1, 2)
	require.NoError(t, err)
	assert.True(t, c.Balance.Equal(decimal.NewFromInt(130)))
}

func Test_OnAdjust_ShouldSubtractFromReversedEdgeBalance(t *testing.T) {
	s := storage.NewInMemStorage()

	require.NoError(t, adjust(t, s, 1, 2, decimal.NewFromInt(100)))
	// same edge seen from the other side
	require.NoError(t, adjust(t, s, 2, 1, decimal.NewFromInt(30)))

	c, err := findEdge(t, s, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), c.FromUserID)
	assert.True(t, c.Balance.Equal(decimal.NewFromInt(70)))
}

func Test_OnAdjust_ShouldCancelOutSymmetricAdjustments(t *testing.T) {
	s := storage.NewInMemStorage()

	require.NoError(t, adjust(t, s, 1, 2, decimal.NewFromInt(100)))
	require.NoError(t, adjust(t, s, 2, 1, decimal.NewFromInt(100)))

	c, err := findEdge(t, s, 1, 2)
	require.NoError(t, err)
	assert.True(t, c.Balance.IsZero())
}

func Test_OnAdjust_ShouldIgnoreSelfPair(t *testing.T) {
	s := storage.NewInMemStorage()

	require.NoError(t, adjust(t, s, 7, 7, decimal.NewFromInt(100)))

	_, err := findEdge(t, s, 7, 7)
	assert.True(t, customerr.IsNotFound(err))
}

func Test_OnAdjust_ShouldNotCreateEdgeForZeroDelta(t *testing.T) {
	s := storage.NewInMemStorage()

	require.NoError(t, adjust(t, s, 1, 2, decimal.Zero))

	_, err := findEdge(t, s, 1, 2)
	assert.True(t, customerr.IsNotFound(err))
}

func Test_OnNetBalance_ShouldNegateForToSideUser(t *testing.T) {
	c := contact.Contact{FromUserID: 1, ToUserID: 2, Balance: decimal.NewFromInt(40)}

	assert.True(t, NetBalance(c, 1).Equal(decimal.NewFromInt(40)))
	assert.True(t, NetBalance(c, 2).Equal(decimal.NewFromInt(-40)))
}
