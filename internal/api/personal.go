package api

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/myexpenses/myexpenses/internal/entity/expense"
	"github.com/myexpenses/myexpenses/internal/logger"
	"github.com/myexpenses/myexpenses/internal/model/customerr"
	"github.com/myexpenses/myexpenses/internal/model/personal"
)

type personalExpenseRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
}

func (s *Server) handlePersonalExpenses(w http.ResponseWriter, r *http.Request) {
	actor, err := actorID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	switch r.Method {
	case http.MethodPost:
		var req personalExpenseRequest
		if err := decodeBody(r, &req); err != nil {
			respondError(w, err)
			return
		}
		e, err := s.personal.Create(r.Context(), personal.CreateRequest{
			UserID:      actor,
			Amount:      req.Amount,
			Type:        expense.TransactionType(req.Type),
			Category:    req.Category,
			Description: req.Description,
			Date:        req.Date,
		})
		if err != nil {
			respondError(w, err)
			return
		}
		s.invalidateReports(actor)
		respondJSON(w, http.StatusCreated, e)
	case http.MethodGet:
		filter, err := parsePersonalFilter(r.URL.Query())
		if err != nil {
			respondError(w, err)
			return
		}
		res, err := s.personal.Find(r.Context(), actor, filter)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, res)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handlePersonalExpenseByID(w http.ResponseWriter, r *http.Request) {
	actor, err := actorID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	head, _ := shiftPath(strings.TrimPrefix(r.URL.Path, "/expenses/personal"))
	id, err := parseID(head)
	if err != nil {
		respondError(w, err)
		return
	}

	switch r.Method {
	case http.MethodGet:
		e, err := s.personal.Get(r.Context(), id)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, e)
	case http.MethodPut:
		var req personalExpenseRequest
		if err = decodeBody(r, &req); err != nil {
			respondError(w, err)
			return
		}
		err = s.personal.Update(r.Context(), personal.UpdateRequest{
			ID:          id,
			Amount:      req.Amount,
			Type:        expense.TransactionType(req.Type),
			Category:    req.Category,
			Description: req.Description,
			Date:        req.Date,
		})
		if err != nil {
			respondError(w, err)
			return
		}
		s.invalidateReports(actor)
		respondJSON(w, http.StatusNoContent, nil)
	case http.MethodDelete:
		if err := s.personal.Delete(r.Context(), id); err != nil {
			respondError(w, err)
			return
		}
		s.invalidateReports(actor)
		respondJSON(w, http.StatusNoContent, nil)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// Stale reports are tolerable; a failed invalidation must not fail the
// mutation that caused it.
func (s *Server) invalidateReports(userID int64) {
	if err := s.reports.Invalidate(userID); err != nil {
		logger.Error("failed to invalidate report cache", zap.Int64("userID", userID), zap.Error(err))
	}
}

func parsePersonalFilter(q url.Values) (expense.PersonalFilter, error) {
	var f expense.PersonalFilter

	parseDate := func(key string) (*time.Time, error) {
		raw := q.Get(key)
		if raw == "" {
			return nil, nil
		}
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, &customerr.ValidationError{Reason: key + " must be formatted as YYYY-MM-DD"}
		}
		return &t, nil
	}
	parseAmount := func(key string) (*decimal.Decimal, error) {
		raw := q.Get(key)
		if raw == "" {
			return nil, nil
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, &customerr.ValidationError{Reason: key + " must be a number"}
		}
		return &d, nil
	}
	parseInt := func(key string) (*int, error) {
		raw := q.Get(key)
		if raw == "" {
			return nil, nil
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, &customerr.ValidationError{Reason: key + " must be an integer"}
		}
		return &n, nil
	}

	var err error
	if f.Date, err = parseDate("date"); err != nil {
		return f, err
	}
	if f.StartDate, err = parseDate("start"); err != nil {
		return f, err
	}
	if f.EndDate, err = parseDate("end"); err != nil {
		return f, err
	}
	if f.Amount, err = parseAmount("amount"); err != nil {
		return f, err
	}
	if f.MinAmount, err = parseAmount("min"); err != nil {
		return f, err
	}
	if f.MaxAmount, err = parseAmount("max"); err != nil {
		return f, err
	}
	if f.Month, err = parseInt("month"); err != nil {
		return f, err
	}
	if f.Year, err = parseInt("year"); err != nil {
		return f, err
	}
	if cats, ok := q["category"]; ok {
		f.Categories = cats
	}
	if raw := q.Get("type"); raw != "" {
		t := expense.TransactionType(raw)
		f.Type = &t
	}
	return f, nil
}
