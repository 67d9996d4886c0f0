package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/myexpenses/myexpenses/internal/model/customerr"
	"github.com/myexpenses/myexpenses/internal/model/userexpense"
)

type directExpenseRequest struct {
	ToUserID    int64           `json:"toUserId"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
}

func (s *Server) handleDirectExpenses(w http.ResponseWriter, r *http.Request) {
	actor, err := actorID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	switch r.Method {
	case http.MethodPost:
		var req directExpenseRequest
		if err := decodeBody(r, &req); err != nil {
			respondError(w, err)
			return
		}
		e, err := s.direct.Create(r.Context(), userexpense.CreateRequest{
			FromUserID:  actor,
			ToUserID:    req.ToUserID,
			Amount:      req.Amount,
			Category:    req.Category,
			Description: req.Description,
			Date:        req.Date,
		})
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, e)
	case http.MethodGet:
		other, err := strconv.ParseInt(r.URL.Query().Get("withUserId"), 10, 64)
		if err != nil || other <= 0 {
			respondError(w, &customerr.ValidationError{Reason: "withUserId query parameter is required"})
			return
		}
		res, err := s.direct.ListBetween(r.Context(), actor, other)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, res)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleDirectExpenseByID(w http.ResponseWriter, r *http.Request) {
	head, _ := shiftPath(strings.TrimPrefix(r.URL.Path, "/expenses/direct"))
	id, err := parseID(head)
	if err != nil {
		respondError(w, err)
		return
	}

	switch r.Method {
	case http.MethodGet:
		e, err := s.direct.Get(r.Context(), id)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, e)
	case http.MethodPut:
		actor, err := actorID(r)
		if err != nil {
			respondError(w, err)
			return
		}
		var req directExpenseRequest
		if err = decodeBody(r, &req); err != nil {
			respondError(w, err)
			return
		}
		err = s.direct.Update(r.Context(), userexpense.UpdateRequest{
			ID:          id,
			FromUserID:  actor,
			ToUserID:    req.ToUserID,
			Amount:      req.Amount,
			Category:    req.Category,
			Description: req.Description,
			Date:        req.Date,
		})
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusNoContent, nil)
	case http.MethodDelete:
		if err := s.direct.Delete(r.Context(), id); err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusNoContent, nil)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
