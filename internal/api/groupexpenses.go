package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/myexpenses/myexpenses/internal/model/expenseshare"
	"github.com/myexpenses/myexpenses/internal/model/groupexpense"
)

type shareInput struct {
	ReceiverID  int64           `json:"receiverId"`
	ShareAmount decimal.Decimal `json:"shareAmount"`
}

type groupExpenseRequest struct {
	GroupID     int64           `json:"groupId"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
	Shares      []shareInput    `json:"shares"`
}

func toNewShares(inputs []shareInput) []expenseshare.NewShare {
	shares := make([]expenseshare.NewShare, 0, len(inputs))
	for _, in := range inputs {
		shares = append(shares, expenseshare.NewShare{
			ReceiverID:  in.ReceiverID,
			ShareAmount: in.ShareAmount,
		})
	}
	return shares
}

func (s *Server) handleGroupExpenses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	actor, err := actorID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	var req groupExpenseRequest
	if err = decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}
	res, err := s.groupExpenses.Create(r.Context(), groupexpense.CreateRequest{
		GroupID:     req.GroupID,
		PayerID:     actor,
		Amount:      req.Amount,
		Category:    req.Category,
		Description: req.Description,
		Date:        req.Date,
		Shares:      toNewShares(req.Shares),
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, res)
}

func (s *Server) handleGroupExpenseByID(w http.ResponseWriter, r *http.Request) {
	head, _ := shiftPath(strings.TrimPrefix(r.URL.Path, "/expenses/group"))
	id, err := parseID(head)
	if err != nil {
		respondError(w, err)
		return
	}

	switch r.Method {
	case http.MethodGet:
		res, err := s.groupExpenses.Get(r.Context(), id)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, res)
	case http.MethodPut:
		actor, err := actorID(r)
		if err != nil {
			respondError(w, err)
			return
		}
		var req groupExpenseRequest
		if err = decodeBody(r, &req); err != nil {
			respondError(w, err)
			return
		}
		err = s.groupExpenses.Update(r.Context(), groupexpense.UpdateRequest{
			ID:          id,
			PayerID:     actor,
			Amount:      req.Amount,
			Category:    req.Category,
			Description: req.Description,
			Date:        req.Date,
			Shares:      toNewShares(req.Shares),
		})
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusNoContent, nil)
	case http.MethodDelete:
		if err := s.groupExpenses.Delete(r.Context(), id); err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusNoContent, nil)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
