package personal

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myexpenses/myexpenses/internal/entity/expense"
	"github.com/myexpenses/myexpenses/internal/model/customerr"
	"github.com/myexpenses/myexpenses/internal/model/storage"
)

const userID = int64(1)

func seed(t *testing.T, svc *Service, amount int64, txType expense.TransactionType, category string, date time.Time) expense.PersonalExpense {
	t.Helper()
	e, err := svc.Create(context.Background(), CreateRequest{
		UserID:   userID,
		Amount:   decimal.NewFromInt(amount),
		Type:     txType,
		Category: category,
		Date:     date,
	})
	require.NoError(t, err)
	return e
}

func Test_OnFind_ShouldSummarizeSpentEarningAndSaving(t *testing.T) {
	svc := NewService(storage.NewInMemStorage())
	today := time.Now()

	seed(t, svc, 100, expense.Debit, "Groceries", today)
	seed(t, svc, 300, expense.Credit, "Salary", today)
	seed(t, svc, 50, expense.Debit, "Transport", today)

	res, err := svc.Find(context.Background(), userID, expense.PersonalFilter{})
	require.NoError(t, err)

	assert.Len(t, res.Expenses, 3)
	assert.True(t, res.Summary.TotalSpent.Equal(decimal.NewFromInt(150)))
	assert.True(t, res.Summary.TotalEarning.Equal(decimal.NewFromInt(300)))
	assert.True(t, res.Summary.TotalSaving.Equal(decimal.NewFromInt(150)))
}

func Test_OnFind_ShouldFilterByCategoryAndType(t *testing.T) {
	svc := NewService(storage.NewInMemStorage())
	today := time.Now()

	seed(t, svc, 100, expense.Debit, "Groceries", today)
	seed(t, svc, 50, expense.Debit, "Transport", today)
	seed(t, svc, 300, expense.Credit, "Groceries", today)

	debit := expense.Debit
	res, err := svc.Find(context.Background(), userID, expense.PersonalFilter{
		Categories: []string{"Groceries"},
		Type:       &debit,
	})
	require.NoError(t, err)

	require.Len(t, res.Expenses, 1)
	assert.True(t, res.Expenses[0].Amount.Equal(decimal.NewFromInt(100)))
}

func Test_OnFind_ShouldFilterByMonth(t *testing.T) {
	svc := NewService(storage.NewInMemStorage())

	seed(t, svc, 100, expense.Debit, "Groceries", time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC))
	seed(t, svc, 50, expense.Debit, "Groceries", time.Date(2024, time.April, 2, 12, 0, 0, 0, time.UTC))

	month, year := 3, 2024
	res, err := svc.Find(context.Background(), userID, expense.PersonalFilter{Month: &month, Year: &year})
	require.NoError(t, err)

	require.Len(t, res.Expenses, 1)
	assert.True(t, res.Summary.TotalSpent.Equal(decimal.NewFromInt(100)))
}

func Test_OnFind_ShouldRejectHalfOpenRanges(t *testing.T) {
	svc := NewService(storage.NewInMemStorage())
	start := time.Now()

	_, err := svc.Find(context.Background(), userID, expense.PersonalFilter{StartDate: &start})
	assert.True(t, customerr.IsValidation(err))

	month := 3
	_, err = svc.Find(context.Background(), userID, expense.PersonalFilter{Month: &month})
	assert.True(t, customerr.IsValidation(err))
}

func Test_OnCreate_ShouldRejectUnknownType(t *testing.T) {
	svc := NewService(storage.NewInMemStorage())

	_, err := svc.Create(context.Background(), CreateRequest{
		UserID: userID,
		Amount: decimal.NewFromInt(10),
		Type:   "transfer",
	})
	assert.True(t, customerr.IsValidation(err))
}

func Test_OnUpdate_ShouldReplaceFields(t *testing.T) {
	svc := NewService(storage.NewInMemStorage())
	e := seed(t, svc, 100, expense.Debit, "Groceries", time.Now())

	err := svc.Update(context.Background(), UpdateRequest{
		ID:       e.ID,
		Amount:   decimal.NewFromInt(120),
		Type:     expense.Debit,
		Category: "Food",
		Date:     e.Date,
	})
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), e.ID)
	require.NoError(t, err)
	assert.True(t, got.Amount.Equal(decimal.NewFromInt(120)))
	assert.Equal(t, "Food", got.Category)
}

func Test_OnDelete_ShouldRemoveRecord(t *testing.T) {
	svc := NewService(storage.NewInMemStorage())
	e := seed(t, svc, 100, expense.Debit, "Groceries", time.Now())

	require.NoError(t, svc.Delete(context.Background(), e.ID))

	_, err := svc.Get(context.Background(), e.ID)
	assert.True(t, customerr.IsNotFound(err))
}
