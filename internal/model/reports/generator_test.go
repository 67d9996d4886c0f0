package reports

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myexpenses/myexpenses/internal/entity/expense"
	"github.com/myexpenses/myexpenses/internal/model/storage"
)

func seedPersonal(t *testing.T, s storage.Storage, userID int64, amount int64, txType expense.TransactionType, category string, date time.Time) {
	t.Helper()
	err := s.WithinTx(context.Background(), func(ctx context.Context, uow storage.UnitOfWork) error {
		_, err := uow.PersonalExpenses().Create(ctx, expense.PersonalExpense{
			UserID:   userID,
			Amount:   decimal.NewFromInt(amount),
			Type:     txType,
			Category: category,
			Date:     date,
		})
		return err
	})
	require.NoError(t, err)
}

func Test_OnGenerateReport_ShouldGroupSpendByCategory(t *testing.T) {
	s := storage.NewInMemStorage()
	today := time.Now()

	seedPersonal(t, s, 123, 1000, expense.Debit, "Internet", today)
	seedPersonal(t, s, 123, 1500, expense.Debit, "Shopping", today)
	seedPersonal(t, s, 123, 100, expense.Debit, "Shopping", today)
	seedPersonal(t, s, 123, 5000, expense.Credit, "Salary", today)
	seedPersonal(t, s, 456, 700, expense.Debit, "Other user", today)

	report, err := NewGenerator(s).GenerateReport(context.Background(), 123, "")
	require.NoError(t, err)

	assert.Equal(t, int64(123), report.UserID)
	require.Len(t, report.Records, 2)
	assert.Equal(t, "Shopping", report.Records[0].Category)
	assert.True(t, report.Records[0].Amount.Equal(decimal.NewFromInt(1600)))
	assert.Equal(t, "Internet", report.Records[1].Category)
	assert.True(t, report.Records[1].Amount.Equal(decimal.NewFromInt(1000)))

	assert.True(t, report.TotalSpent.Equal(decimal.NewFromInt(2600)))
	assert.True(t, report.TotalEarning.Equal(decimal.NewFromInt(5000)))
	assert.True(t, report.TotalSaving.Equal(decimal.NewFromInt(2400)))
}

func Test_OnGenerateReport_ShouldDropRecordsOutsidePeriod(t *testing.T) {
	s := storage.NewInMemStorage()

	seedPersonal(t, s, 123, 100, expense.Debit, "Old", time.Now().AddDate(-2, 0, 0))
	seedPersonal(t, s, 123, 200, expense.Debit, "Recent", time.Now())

	report, err := NewGenerator(s).GenerateReport(context.Background(), 123, "year")
	require.NoError(t, err)

	require.Len(t, report.Records, 1)
	assert.Equal(t, "Recent", report.Records[0].Category)
	assert.True(t, report.TotalSpent.Equal(decimal.NewFromInt(200)))
}

func Test_OnGenerateReport_ShouldRejectUnknownPeriod(t *testing.T) {
	_, err := NewGenerator(storage.NewInMemStorage()).GenerateReport(context.Background(), 123, "decade")
	assert.Error(t, err)
}
