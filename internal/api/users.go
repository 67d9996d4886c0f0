package api

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/myexpenses/myexpenses/internal/model/users"
)

type registerUserRequest struct {
	Name   string          `json:"name"`
	Email  string          `json:"email"`
	Phone  string          `json:"phone"`
	Budget decimal.Decimal `json:"budget"`
}

func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var req registerUserRequest
		if err := decodeBody(r, &req); err != nil {
			respondError(w, err)
			return
		}
		u, err := s.users.Register(r.Context(), users.RegisterRequest{
			Name:   req.Name,
			Email:  req.Email,
			Phone:  req.Phone,
			Budget: req.Budget,
		})
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, u)
	case http.MethodGet:
		if email := r.URL.Query().Get("email"); email != "" {
			u, err := s.users.GetByEmail(r.Context(), email)
			if err != nil {
				respondError(w, err)
				return
			}
			respondJSON(w, http.StatusOK, u)
			return
		}
		http.NotFound(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleUserByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	head, _ := shiftPath(strings.TrimPrefix(r.URL.Path, "/users"))
	id, err := parseID(head)
	if err != nil {
		respondError(w, err)
		return
	}
	u, err := s.users.Get(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, u)
}
