package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jinzhu/now"
	"github.com/shopspring/decimal"

	"github.com/myexpenses/myexpenses/internal/entity/contact"
	"github.com/myexpenses/myexpenses/internal/entity/expense"
	"github.com/myexpenses/myexpenses/internal/entity/group"
	"github.com/myexpenses/myexpenses/internal/entity/user"
	"github.com/myexpenses/myexpenses/internal/model/customerr"
)

// InMemStorage keeps everything in maps and gives WithinTx real rollback
// semantics by snapshotting state before the callback runs. Used by tests
// and local runs without postgres.
type InMemStorage struct {
	mu    sync.Mutex
	state *memState
}

func NewInMemStorage() *InMemStorage {
	return &InMemStorage{state: newMemState()}
}

func (s *InMemStorage) WithinTx(ctx context.Context, fn func(ctx context.Context, uow UnitOfWork) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.clone()
	if err := fn(ctx, s.state); err != nil {
		s.state = snapshot
		return err
	}
	return nil
}

type memState struct {
	nextID        int64
	contacts      map[int64]contact.Contact
	users         map[int64]user.User
	groups        map[int64]group.Group
	memberships   map[int64]group.Membership
	userExpenses  map[int64]expense.UserExpense
	groupExpenses map[int64]expense.GroupExpense
	shares        map[int64]expense.GroupExpenseShare
	personal      map[int64]expense.PersonalExpense
}

func newMemState() *memState {
	return &memState{
		contacts:      make(map[int64]contact.Contact),
		users:         make(map[int64]user.User),
		groups:        make(map[int64]group.Group),
		memberships:   make(map[int64]group.Membership),
		userExpenses:  make(map[int64]expense.UserExpense),
		groupExpenses: make(map[int64]expense.GroupExpense),
		shares:        make(map[int64]expense.GroupExpenseShare),
		personal:      make(map[int64]expense.PersonalExpense),
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	res := make(map[K]V, len(m))
	for k, v := range m {
		res[k] = v
	}
	return res
}

func (st *memState) clone() *memState {
	return &memState{
		nextID:        st.nextID,
		contacts:      cloneMap(st.contacts),
		users:         cloneMap(st.users),
		groups:        cloneMap(st.groups),
		memberships:   cloneMap(st.memberships),
		userExpenses:  cloneMap(st.userExpenses),
		groupExpenses: cloneMap(st.groupExpenses),
		shares:        cloneMap(st.shares),
		personal:      cloneMap(st.personal),
	}
}

func (st *memState) id() int64 {
	st.nextID++
	return st.nextID
}

func (st *memState) Contacts() Contacts                 { return (*memContacts)(st) }
func (st *memState) Users() Users                       { return (*memUsers)(st) }
func (st *memState) Groups() Groups                     { return (*memGroups)(st) }
func (st *memState) UserExpenses() UserExpenses         { return (*memUserExpenses)(st) }
func (st *memState) GroupExpenses() GroupExpenses       { return (*memGroupExpenses)(st) }
func (st *memState) ExpenseShares() ExpenseShares       { return (*memExpenseShares)(st) }
func (st *memState) PersonalExpenses() PersonalExpenses { return (*memPersonalExpenses)(st) }

type memContacts memState

func (st *memContacts) GetByID(_ context.Context, id int64) (contact.Contact, error) {
	c, ok := st.contacts[id]
	if !ok {
		return contact.Contact{}, &customerr.NotFoundError{Entity: "contact", ID: id}
	}
	return c, nil
}

func (st *memContacts) FindEdge(_ context.Context, userA, userB int64) (contact.Contact, error) {
	for _, c := range st.contacts {
		if (c.FromUserID == userA && c.ToUserID == userB) ||
			(c.FromUserID == userB && c.ToUserID == userA) {
			return c, nil
		}
	}
	return contact.Contact{}, &customerr.NotFoundError{Entity: "contact"}
}

func (st *memContacts) Create(_ context.Context, c contact.Contact) (int64, error) {
	c.ID = (*memState)(st).id()
	c.CreatedAt = time.Now()
	st.contacts[c.ID] = c
	return c.ID, nil
}

func (st *memContacts) AddToBalance(_ context.Context, id int64, delta decimal.Decimal) error {
	c, ok := st.contacts[id]
	if !ok {
		return &customerr.ConflictError{Err: "contact edge vanished during adjustment"}
	}
	c.Balance = c.Balance.Add(delta)
	st.contacts[id] = c
	return nil
}

func (st *memContacts) SetStatus(_ context.Context, id int64, status contact.InvitationStatus) error {
	c, ok := st.contacts[id]
	if !ok {
		return &customerr.NotFoundError{Entity: "contact", ID: id}
	}
	c.Status = status
	st.contacts[id] = c
	return nil
}

func (st *memContacts) Delete(_ context.Context, id int64) error {
	if _, ok := st.contacts[id]; !ok {
		return &customerr.NotFoundError{Entity: "contact", ID: id}
	}
	delete(st.contacts, id)
	return nil
}

func (st *memContacts) ListForUser(_ context.Context, userID int64) ([]contact.Contact, error) {
	res := make([]contact.Contact, 0)
	for _, c := range st.contacts {
		if c.FromUserID == userID || c.ToUserID == userID {
			res = append(res, c)
		}
	}
	sortByID(res, func(c contact.Contact) int64 { return c.ID })
	return res, nil
}

func (st *memContacts) ListRequests(_ context.Context, toUserID int64) ([]contact.Contact, error) {
	res := make([]contact.Contact, 0)
	for _, c := range st.contacts {
		if c.ToUserID == toUserID && c.Status == contact.StatusPending {
			res = append(res, c)
		}
	}
	sortByID(res, func(c contact.Contact) int64 { return c.ID })
	return res, nil
}

type memUsers memState

func (st *memUsers) GetByID(_ context.Context, id int64) (user.User, error) {
	u, ok := st.users[id]
	if !ok {
		return user.User{}, &customerr.NotFoundError{Entity: "user", ID: id}
	}
	return u, nil
}

func (st *memUsers) GetByEmail(_ context.Context, email string) (user.User, error) {
	for _, u := range st.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, &customerr.NotFoundError{Entity: "user"}
}

func (st *memUsers) Create(_ context.Context, u user.User) (int64, error) {
	u.ID = (*memState)(st).id()
	u.CreatedAt = time.Now()
	st.users[u.ID] = u
	return u.ID, nil
}

func (st *memUsers) ListByIDs(_ context.Context, ids []int64) ([]user.User, error) {
	res := make([]user.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := st.users[id]; ok {
			res = append(res, u)
		}
	}
	return res, nil
}

type memGroups memState

func (st *memGroups) GetByID(_ context.Context, id int64) (group.Group, error) {
	g, ok := st.groups[id]
	if !ok {
		return group.Group{}, &customerr.NotFoundError{Entity: "group", ID: id}
	}
	return g, nil
}

func (st *memGroups) Create(_ context.Context, g group.Group) (int64, error) {
	g.ID = (*memState)(st).id()
	g.CreatedAt = time.Now()
	st.groups[g.ID] = g
	return g.ID, nil
}

func (st *memGroups) Rename(_ context.Context, id int64, name string) error {
	g, ok := st.groups[id]
	if !ok {
		return &customerr.NotFoundError{Entity: "group", ID: id}
	}
	g.Name = name
	st.groups[id] = g
	return nil
}

func (st *memGroups) Delete(_ context.Context, id int64) error {
	if _, ok := st.groups[id]; !ok {
		return &customerr.NotFoundError{Entity: "group", ID: id}
	}
	delete(st.groups, id)
	return nil
}

func (st *memGroups) AddMember(_ context.Context, groupID, userID int64) (int64, error) {
	for _, m := range st.memberships {
		if m.GroupID == groupID && m.UserID == userID {
			return 0, &customerr.ValidationError{Reason: "already a member"}
		}
	}
	m := group.Membership{ID: (*memState)(st).id(), GroupID: groupID, UserID: userID}
	st.memberships[m.ID] = m
	return m.ID, nil
}

func (st *memGroups) RemoveMember(_ context.Context, groupID, userID int64) error {
	for id, m := range st.memberships {
		if m.GroupID == groupID && m.UserID == userID {
			delete(st.memberships, id)
			return nil
		}
	}
	return &customerr.NotFoundError{Entity: "group membership"}
}

func (st *memGroups) ListForUser(_ context.Context, userID int64) ([]group.Group, error) {
	res := make([]group.Group, 0)
	for _, m := range st.memberships {
		if m.UserID == userID {
			if g, ok := st.groups[m.GroupID]; ok {
				res = append(res, g)
			}
		}
	}
	sortByID(res, func(g group.Group) int64 { return g.ID })
	return res, nil
}

func (st *memGroups) ListMembers(_ context.Context, groupID int64) ([]group.Membership, error) {
	res := make([]group.Membership, 0)
	for _, m := range st.memberships {
		if m.GroupID == groupID {
			res = append(res, m)
		}
	}
	sortByID(res, func(m group.Membership) int64 { return m.ID })
	return res, nil
}

type memUserExpenses memState

func (st *memUserExpenses) GetByID(_ context.Context, id int64) (expense.UserExpense, error) {
	e, ok := st.userExpenses[id]
	if !ok {
		return expense.UserExpense{}, &customerr.NotFoundError{Entity: "user expense", ID: id}
	}
	return e, nil
}

func (st *memUserExpenses) Create(_ context.Context, e expense.UserExpense) (int64, error) {
	e.ID = (*memState)(st).id()
	e.CreatedAt = time.Now()
	st.userExpenses[e.ID] = e
	return e.ID, nil
}

func (st *memUserExpenses) UpdateFields(_ context.Context, e expense.UserExpense) error {
	prev, ok := st.userExpenses[e.ID]
	if !ok {
		return &customerr.ConflictError{Err: "user expense vanished during update"}
	}
	e.CreatedAt = prev.CreatedAt
	st.userExpenses[e.ID] = e
	return nil
}

func (st *memUserExpenses) Delete(_ context.Context, id int64) error {
	if _, ok := st.userExpenses[id]; !ok {
		return &customerr.NotFoundError{Entity: "user expense", ID: id}
	}
	delete(st.userExpenses, id)
	return nil
}

func (st *memUserExpenses) ListBetween(_ context.Context, fromUserID, toUserID int64) ([]expense.UserExpense, error) {
	res := make([]expense.UserExpense, 0)
	for _, e := range st.userExpenses {
		if e.FromUserID == fromUserID && e.ToUserID == toUserID {
			res = append(res, e)
		}
	}
	sortByID(res, func(e expense.UserExpense) int64 { return e.ID })
	return res, nil
}

type memGroupExpenses memState

func (st *memGroupExpenses) GetByID(_ context.Context, id int64) (expense.GroupExpense, error) {
	e, ok := st.groupExpenses[id]
	if !ok {
		return expense.GroupExpense{}, &customerr.NotFoundError{Entity: "group expense", ID: id}
	}
	return e, nil
}

func (st *memGroupExpenses) Create(_ context.Context, e expense.GroupExpense) (int64, error) {
	e.ID = (*memState)(st).id()
	e.CreatedAt = time.Now()
	st.groupExpenses[e.ID] = e
	return e.ID, nil
}

func (st *memGroupExpenses) UpdateFields(_ context.Context, e expense.GroupExpense) error {
	prev, ok := st.groupExpenses[e.ID]
	if !ok {
		return &customerr.ConflictError{Err: "group expense vanished during update"}
	}
	e.GroupID = prev.GroupID
	e.CreatedAt = prev.CreatedAt
	st.groupExpenses[e.ID] = e
	return nil
}

func (st *memGroupExpenses) Delete(_ context.Context, id int64) error {
	if _, ok := st.groupExpenses[id]; !ok {
		return &customerr.NotFoundError{Entity: "group expense", ID: id}
	}
	delete(st.groupExpenses, id)
	return nil
}

func (st *memGroupExpenses) ListByGroup(_ context.Context, groupID int64) ([]expense.GroupExpense, error) {
	res := make([]expense.GroupExpense, 0)
	for _, e := range st.groupExpenses {
		if e.GroupID == groupID {
			res = append(res, e)
		}
	}
	sortByID(res, func(e expense.GroupExpense) int64 { return e.ID })
	return res, nil
}

type memExpenseShares memState

func (st *memExpenseShares) GetByID(_ context.Context, id int64) (expense.GroupExpenseShare, error) {
	sh, ok := st.shares[id]
	if !ok {
		return expense.GroupExpenseShare{}, &customerr.NotFoundError{Entity: "expense share", ID: id}
	}
	return sh, nil
}

func (st *memExpenseShares) GetByReceiver(_ context.Context, groupExpenseID, receiverID int64) (expense.GroupExpenseShare, error) {
	for _, sh := range st.shares {
		if sh.GroupExpenseID == groupExpenseID && sh.ReceiverID == receiverID {
			return sh, nil
		}
	}
	return expense.GroupExpenseShare{}, &customerr.NotFoundError{Entity: "expense share"}
}

func (st *memExpenseShares) IDsByReceivers(_ context.Context, groupExpenseID int64, receiverIDs []int64) ([]int64, error) {
	wanted := make(map[int64]bool, len(receiverIDs))
	for _, id := range receiverIDs {
		wanted[id] = true
	}
	ids := make([]int64, 0, len(receiverIDs))
	for _, sh := range st.shares {
		if sh.GroupExpenseID == groupExpenseID && wanted[sh.ReceiverID] {
			ids = append(ids, sh.ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (st *memExpenseShares) Create(_ context.Context, sh expense.GroupExpenseShare) (int64, error) {
	for _, existing := range st.shares {
		if existing.GroupExpenseID == sh.GroupExpenseID && existing.ReceiverID == sh.ReceiverID {
			return 0, &customerr.ValidationError{Reason: "duplicate share receiver"}
		}
	}
	sh.ID = (*memState)(st).id()
	st.shares[sh.ID] = sh
	return sh.ID, nil
}

func (st *memExpenseShares) SetAmount(_ context.Context, id int64, amount decimal.Decimal) error {
	sh, ok := st.shares[id]
	if !ok {
		return &customerr.ConflictError{Err: "expense share vanished during update"}
	}
	sh.ShareAmount = amount
	st.shares[id] = sh
	return nil
}

func (st *memExpenseShares) Delete(_ context.Context, id int64) error {
	if _, ok := st.shares[id]; !ok {
		return &customerr.NotFoundError{Entity: "expense share", ID: id}
	}
	delete(st.shares, id)
	return nil
}

func (st *memExpenseShares) ListByGroupExpense(_ context.Context, groupExpenseID int64) ([]expense.GroupExpenseShare, error) {
	res := make([]expense.GroupExpenseShare, 0)
	for _, sh := range st.shares {
		if sh.GroupExpenseID == groupExpenseID {
			res = append(res, sh)
		}
	}
	sortByID(res, func(sh expense.GroupExpenseShare) int64 { return sh.ID })
	return res, nil
}

type memPersonalExpenses memState

func (st *memPersonalExpenses) GetByID(_ context.Context, id int64) (expense.PersonalExpense, error) {
	e, ok := st.personal[id]
	if !ok {
		return expense.PersonalExpense{}, &customerr.NotFoundError{Entity: "personal expense", ID: id}
	}
	return e, nil
}

func (st *memPersonalExpenses) Create(_ context.Context, e expense.PersonalExpense) (int64, error) {
	e.ID = (*memState)(st).id()
	e.CreatedAt = time.Now()
	st.personal[e.ID] = e
	return e.ID, nil
}

func (st *memPersonalExpenses) UpdateFields(_ context.Context, e expense.PersonalExpense) error {
	prev, ok := st.personal[e.ID]
	if !ok {
		return &customerr.ConflictError{Err: "personal expense vanished during update"}
	}
	e.UserID = prev.UserID
	e.CreatedAt = prev.CreatedAt
	st.personal[e.ID] = e
	return nil
}

func (st *memPersonalExpenses) Delete(_ context.Context, id int64) error {
	if _, ok := st.personal[id]; !ok {
		return &customerr.NotFoundError{Entity: "personal expense", ID: id}
	}
	delete(st.personal, id)
	return nil
}

func (st *memPersonalExpenses) Find(_ context.Context, userID int64, f expense.PersonalFilter) ([]expense.PersonalExpense, error) {
	res := make([]expense.PersonalExpense, 0)
	for _, e := range st.personal {
		if e.UserID == userID && matchesPersonalFilter(e, f) {
			res = append(res, e)
		}
	}
	sortByID(res, func(e expense.PersonalExpense) int64 { return e.ID })
	return res, nil
}

func matchesPersonalFilter(e expense.PersonalExpense, f expense.PersonalFilter) bool {
	if f.Date != nil {
		day := now.New(*f.Date)
		if e.Date.Before(day.BeginningOfDay()) || e.Date.After(day.EndOfDay()) {
			return false
		}
	}
	if f.StartDate != nil && f.EndDate != nil {
		if e.Date.Before(now.New(*f.StartDate).BeginningOfDay()) ||
			e.Date.After(now.New(*f.EndDate).EndOfDay()) {
			return false
		}
	}
	if len(f.Categories) > 0 {
		found := false
		for _, c := range f.Categories {
			if e.Category == c {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Type != nil && e.Type != *f.Type {
		return false
	}
	if f.Amount != nil && !e.Amount.Equal(*f.Amount) {
		return false
	}
	if f.MinAmount != nil && f.MaxAmount != nil {
		if e.Amount.LessThan(*f.MinAmount) || e.Amount.GreaterThan(*f.MaxAmount) {
			return false
		}
	}
	if f.Month != nil && f.Year != nil {
		month := now.New(time.Date(*f.Year, time.Month(*f.Month), 1, 0, 0, 0, 0, e.Date.Location()))
		if e.Date.Before(month.BeginningOfMonth()) || e.Date.After(month.EndOfMonth()) {
			return false
		}
	}
	return true
}

func sortByID[T any](items []T, id func(T) int64) {
	sort.Slice(items, func(i, j int) bool { return id(items[i]) < id(items[j]) })
}
