package api

import (
	"net/http"
	"strings"
)

type groupRequest struct {
	Name string `json:"name"`
}

type memberRequest struct {
	UserID int64 `json:"userId"`
}

func (s *Server) handleGroups(w http.ResponseWriter, r *http.Request) {
	actor, err := actorID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	switch r.Method {
	case http.MethodPost:
		var req groupRequest
		if err := decodeBody(r, &req); err != nil {
			respondError(w, err)
			return
		}
		g, err := s.groups.Create(r.Context(), req.Name, actor)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, g)
	case http.MethodGet:
		list, err := s.groups.ListForUser(r.Context(), actor)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, list)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleGroupByID routes /groups/{id}, /groups/{id}/members,
// /groups/{id}/members/{userId} and /groups/{id}/expenses.
func (s *Server) handleGroupByID(w http.ResponseWriter, r *http.Request) {
	head, rest := shiftPath(strings.TrimPrefix(r.URL.Path, "/groups"))
	id, err := parseID(head)
	if err != nil {
		respondError(w, err)
		return
	}

	sub, subRest := shiftPath(rest)
	switch sub {
	case "":
		s.handleGroup(w, r, id)
	case "members":
		s.handleGroupMembers(w, r, id, subRest)
	case "expenses":
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		list, err := s.groupExpenses.ListByGroup(r.Context(), id)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, list)
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) handleGroup(w http.ResponseWriter, r *http.Request, id int64) {
	switch r.Method {
	case http.MethodGet:
		res, err := s.groups.Get(r.Context(), id)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, res)
	case http.MethodPut:
		var req groupRequest
		if err := decodeBody(r, &req); err != nil {
			respondError(w, err)
			return
		}
		if err := s.groups.Rename(r.Context(), id, req.Name); err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusNoContent, nil)
	case http.MethodDelete:
		if err := s.groups.Delete(r.Context(), id); err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusNoContent, nil)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleGroupMembers(w http.ResponseWriter, r *http.Request, groupID int64, rest string) {
	switch r.Method {
	case http.MethodPost:
		var req memberRequest
		if err := decodeBody(r, &req); err != nil {
			respondError(w, err)
			return
		}
		if err := s.groups.AddMember(r.Context(), groupID, req.UserID); err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusNoContent, nil)
	case http.MethodDelete:
		head, _ := shiftPath(rest)
		userID, err := parseID(head)
		if err != nil {
			respondError(w, err)
			return
		}
		if err = s.groups.RemoveMember(r.Context(), groupID, userID); err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusNoContent, nil)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
