package api

import (
	"net/http"
	"strings"
)

type addContactRequest struct {
	ToUserID int64 `json:"toUserId"`
}

func (s *Server) handleContacts(w http.ResponseWriter, r *http.Request) {
	actor, err := actorID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	switch r.Method {
	case http.MethodPost:
		var req addContactRequest
		if err := decodeBody(r, &req); err != nil {
			respondError(w, err)
			return
		}
		c, err := s.contacts.Add(r.Context(), actor, req.ToUserID)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, c)
	case http.MethodGet:
		list, err := s.contacts.List(r.Context(), actor)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, list)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleContactByID routes /contacts/requests, /contacts/{id},
// /contacts/{id}/accept and /contacts/{id}/reject.
func (s *Server) handleContactByID(w http.ResponseWriter, r *http.Request) {
	actor, err := actorID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	head, rest := shiftPath(strings.TrimPrefix(r.URL.Path, "/contacts"))
	if head == "requests" {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		list, err := s.contacts.Requests(r.Context(), actor)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, list)
		return
	}

	id, err := parseID(head)
	if err != nil {
		respondError(w, err)
		return
	}

	action, _ := shiftPath(rest)
	switch {
	case action == "accept" && r.Method == http.MethodPost:
		err = s.contacts.Accept(r.Context(), id, actor)
	case action == "reject" && r.Method == http.MethodPost:
		err = s.contacts.Reject(r.Context(), id, actor)
	case action == "" && r.Method == http.MethodDelete:
		err = s.contacts.Remove(r.Context(), id, actor)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
