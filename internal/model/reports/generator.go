package reports

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jinzhu/now"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/myexpenses/myexpenses/internal/entity/expense"
	"github.com/myexpenses/myexpenses/internal/logger"
	"github.com/myexpenses/myexpenses/internal/model/personal"
	"github.com/myexpenses/myexpenses/internal/model/storage"
)

func periodStart(period string, at time.Time) (time.Time, error) {
	n := now.With(at)
	switch period {
	case "":
		return time.Time{}, nil
	case "week":
		return n.BeginningOfWeek(), nil
	case "month":
		return n.BeginningOfMonth(), nil
	case "year":
		return n.BeginningOfYear(), nil
	}
	return time.Time{}, fmt.Errorf("report period %s is not supported", period)
}

type Generator struct {
	storage storage.Storage
}

func NewGenerator(storage storage.Storage) *Generator {
	return &Generator{storage: storage}
}

// GenerateReport summarizes the user's personal records for the period and
// groups the spend side by category.
func (g *Generator) GenerateReport(ctx context.Context, userID int64, period string) (ReportResult, error) {
	logger.Info("GenerateReport - start", zap.Int64("userID", userID), zap.String("period", period))
	defer logger.Info("GenerateReport - end")

	after, err := periodStart(period, time.Now())
	if err != nil {
		return ReportResult{}, errors.Wrap(err, "generate report")
	}

	var expenses []expense.PersonalExpense
	err = g.storage.WithinTx(ctx, func(ctx context.Context, uow storage.UnitOfWork) error {
		var err error
		expenses, err = uow.PersonalExpenses().Find(ctx, userID, expense.PersonalFilter{})
		return err
	})
	if err != nil {
		return ReportResult{}, errors.Wrap(err, "generate report")
	}
	expenses = filterExpensesAfter(expenses, after)

	summary := personal.Summarize(expenses)
	res := ReportResult{
		UserID:       userID,
		Period:       period,
		Records:      groupByCategory(expenses),
		TotalSpent:   summary.TotalSpent,
		TotalEarning: summary.TotalEarning,
		TotalSaving:  summary.TotalSaving,
	}
	return res, nil
}

func filterExpensesAfter(exps []expense.PersonalExpense, after time.Time) []expense.PersonalExpense {
	res := make([]expense.PersonalExpense, 0, len(exps))
	for _, exp := range exps {
		if after.Before(exp.Date) {
			res = append(res, exp)
		}
	}
	return res
}

func groupByCategory(exps []expense.PersonalExpense) []ReportRecord {
	m := make(map[string]decimal.Decimal)
	for _, exp := range exps {
		if exp.Type != expense.Debit {
			continue
		}
		m[exp.Category] = m[exp.Category].Add(exp.Amount)
	}
	records := make([]ReportRecord, 0, len(m))
	for cat, am := range m {
		records = append(records, ReportRecord{Category: cat, Amount: am})
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Amount.GreaterThan(records[j].Amount)
	})
	return records
}
