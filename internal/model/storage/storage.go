package storage

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/myexpenses/myexpenses/internal/entity/contact"
	"github.com/myexpenses/myexpenses/internal/entity/expense"
	"github.com/myexpenses/myexpenses/internal/entity/group"
	"github.com/myexpenses/myexpenses/internal/entity/user"
)

// Contacts persists ledger edges. FindEdge matches the pair in either
// direction and, inside a transaction, locks the row so that concurrent
// adjustments to the same edge serialize instead of lost-updating.
type Contacts interface {
	GetByID(ctx context.Context, id int64) (contact.Contact, error)
	FindEdge(ctx context.Context, userA, userB int64) (contact.Contact, error)
	Create(ctx context.Context, c contact.Contact) (int64, error)
	AddToBalance(ctx context.Context, id int64, delta decimal.Decimal) error
	SetStatus(ctx context.Context, id int64, status contact.InvitationStatus) error
	Delete(ctx context.Context, id int64) error
	ListForUser(ctx context.Context, userID int64) ([]contact.Contact, error)
	ListRequests(ctx context.Context, toUserID int64) ([]contact.Contact, error)
}

type UserExpenses interface {
	GetByID(ctx context.Context, id int64) (expense.UserExpense, error)
	Create(ctx context.Context, e expense.UserExpense) (int64, error)
	UpdateFields(ctx context.Context, e expense.UserExpense) error
	Delete(ctx context.Context, id int64) error
	ListBetween(ctx context.Context, fromUserID, toUserID int64) ([]expense.UserExpense, error)
}

type GroupExpenses interface {
	GetByID(ctx context.Context, id int64) (expense.GroupExpense, error)
	Create(ctx context.Context, e expense.GroupExpense) (int64, error)
	UpdateFields(ctx context.Context, e expense.GroupExpense) error
	Delete(ctx context.Context, id int64) error
	ListByGroup(ctx context.Context, groupID int64) ([]expense.GroupExpense, error)
}

type ExpenseShares interface {
	GetByID(ctx context.Context, id int64) (expense.GroupExpenseShare, error)
	GetByReceiver(ctx context.Context, groupExpenseID, receiverID int64) (expense.GroupExpenseShare, error)
	IDsByReceivers(ctx context.Context, groupExpenseID int64, receiverIDs []int64) ([]int64, error)
	Create(ctx context.Context, s expense.GroupExpenseShare) (int64, error)
	SetAmount(ctx context.Context, id int64, amount decimal.Decimal) error
	Delete(ctx context.Context, id int64) error
	ListByGroupExpense(ctx context.Context, groupExpenseID int64) ([]expense.GroupExpenseShare, error)
}

type PersonalExpenses interface {
	GetByID(ctx context.Context, id int64) (expense.PersonalExpense, error)
	Create(ctx context.Context, e expense.PersonalExpense) (int64, error)
	UpdateFields(ctx context.Context, e expense.PersonalExpense) error
	Delete(ctx context.Context, id int64) error
	Find(ctx context.Context, userID int64, f expense.PersonalFilter) ([]expense.PersonalExpense, error)
}

type Users interface {
	GetByID(ctx context.Context, id int64) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	Create(ctx context.Context, u user.User) (int64, error)
	ListByIDs(ctx context.Context, ids []int64) ([]user.User, error)
}

type Groups interface {
	GetByID(ctx context.Context, id int64) (group.Group, error)
	Create(ctx context.Context, g group.Group) (int64, error)
	Rename(ctx context.Context, id int64, name string) error
	Delete(ctx context.Context, id int64) error
	AddMember(ctx context.Context, groupID, userID int64) (int64, error)
	RemoveMember(ctx context.Context, groupID, userID int64) error
	ListForUser(ctx context.Context, userID int64) ([]group.Group, error)
	ListMembers(ctx context.Context, groupID int64) ([]group.Membership, error)
}

// UnitOfWork bundles the per-entity stores bound to one transaction. It is
// passed explicitly through every manager call so that nested persistence
// writes and ledger adjustments commit or roll back together.
type UnitOfWork interface {
	Contacts() Contacts
	Users() Users
	Groups() Groups
	UserExpenses() UserExpenses
	GroupExpenses() GroupExpenses
	ExpenseShares() ExpenseShares
	PersonalExpenses() PersonalExpenses
}

// Storage opens callback-scoped units of work. The callback's error decides
// commit versus rollback; no partial effect survives a failed callback.
type Storage interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, uow UnitOfWork) error) error
}
