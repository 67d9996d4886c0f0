// Package api exposes the expense model over JSON HTTP. The acting user is
// taken from the X-User-ID header on every request that needs one.
package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/myexpenses/myexpenses/internal/model/contacts"
	"github.com/myexpenses/myexpenses/internal/model/groupexpense"
	"github.com/myexpenses/myexpenses/internal/model/groups"
	"github.com/myexpenses/myexpenses/internal/model/personal"
	"github.com/myexpenses/myexpenses/internal/model/reports"
	"github.com/myexpenses/myexpenses/internal/model/userexpense"
	"github.com/myexpenses/myexpenses/internal/model/users"
)

type Server struct {
	users         *users.Service
	contacts      *contacts.Service
	direct        *userexpense.Service
	groups        *groups.Service
	groupExpenses *groupexpense.Service
	personal      *personal.Service
	reports       *reports.Service
}

func NewServer(
	usersSvc *users.Service,
	contactsSvc *contacts.Service,
	directSvc *userexpense.Service,
	groupsSvc *groups.Service,
	groupExpensesSvc *groupexpense.Service,
	personalSvc *personal.Service,
	reportsSvc *reports.Service,
) *Server {
	return &Server{
		users:         usersSvc,
		contacts:      contactsSvc,
		direct:        directSvc,
		groups:        groupsSvc,
		groupExpenses: groupExpensesSvc,
		personal:      personalSvc,
		reports:       reportsSvc,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/users", s.handleUsers)
	mux.HandleFunc("/users/", s.handleUserByID)
	mux.HandleFunc("/contacts", s.handleContacts)
	mux.HandleFunc("/contacts/", s.handleContactByID)
	mux.HandleFunc("/expenses/direct", s.handleDirectExpenses)
	mux.HandleFunc("/expenses/direct/", s.handleDirectExpenseByID)
	mux.HandleFunc("/expenses/group", s.handleGroupExpenses)
	mux.HandleFunc("/expenses/group/", s.handleGroupExpenseByID)
	mux.HandleFunc("/expenses/personal", s.handlePersonalExpenses)
	mux.HandleFunc("/expenses/personal/", s.handlePersonalExpenseByID)
	mux.HandleFunc("/groups", s.handleGroups)
	mux.HandleFunc("/groups/", s.handleGroupByID)
	mux.HandleFunc("/reports", s.handleReports)
	mux.Handle("/metrics", promhttp.Handler())

	return withMetrics(mux)
}
