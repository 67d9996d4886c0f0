// Package contacts manages the social side of ledger edges: invitations
// layered onto the same contact rows the balance arithmetic lives on.
package contacts

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/myexpenses/myexpenses/internal/entity/contact"
	"github.com/myexpenses/myexpenses/internal/model/customerr"
	"github.com/myexpenses/myexpenses/internal/model/ledger"
	"github.com/myexpenses/myexpenses/internal/model/storage"
)

// MyContact is one entry of a user's contact list with the balance read
// from that user's perspective: positive means the contact owes them.
type MyContact struct {
	ContactID int64
	UserID    int64
	Name      string
	Email     string
	Balance   decimal.Decimal
	Status    contact.InvitationStatus
}

// Request is an incoming pending invitation.
type Request struct {
	ContactID  int64
	FromUserID int64
	Name       string
	Email      string
}

type Service struct {
	storage storage.Storage
}

func NewService(storage storage.Storage) *Service {
	return &Service{storage: storage}
}

// Add sends an invitation from one user to another. The pair must not
// already hold an edge in either direction.
func (s *Service) Add(ctx context.Context, fromUserID, toUserID int64) (contact.Contact, error) {
	if fromUserID == toUserID {
		return contact.Contact{}, &customerr.ValidationError{Reason: "cannot add yourself as a contact"}
	}

	var c contact.Contact
	err := s.storage.WithinTx(ctx, func(ctx context.Context, uow storage.UnitOfWork) error {
		if _, err := uow.Users().GetByID(ctx, fromUserID); err != nil {
			return err
		}
		if _, err := uow.Users().GetByID(ctx, toUserID); err != nil {
			return err
		}

		existing, err := uow.Contacts().FindEdge(ctx, fromUserID, toUserID)
		if err == nil {
			if existing.Status == contact.StatusPending {
				return &customerr.ValidationError{Reason: "request already sent"}
			}
			return &customerr.ValidationError{Reason: "already a contact"}
		}
		if !customerr.IsNotFound(err) {
			return err
		}

		c = contact.Contact{
			FromUserID: fromUserID,
			ToUserID:   toUserID,
			Balance:    decimal.Zero,
			Status:     contact.StatusPending,
		}
		c.ID, err = uow.Contacts().Create(ctx, c)
		return err
	})
	if err != nil {
		return contact.Contact{}, err
	}
	return c, nil
}

// Accept marks a pending invitation accepted. Only the invited side may act.
func (s *Service) Accept(ctx context.Context, contactID, actorID int64) error {
	return s.respond(ctx, contactID, actorID, contact.StatusAccepted)
}

// Reject declines a pending invitation. Only the invited side may act.
func (s *Service) Reject(ctx context.Context, contactID, actorID int64) error {
	return s.respond(ctx, contactID, actorID, contact.StatusRejected)
}

func (s *Service) respond(ctx context.Context, contactID, actorID int64, status contact.InvitationStatus) error {
	return s.storage.WithinTx(ctx, func(ctx context.Context, uow storage.UnitOfWork) error {
		c, err := uow.Contacts().GetByID(ctx, contactID)
		if err != nil {
			return err
		}
		if c.ToUserID != actorID {
			return &customerr.ValidationError{Reason: "only the invited user can respond"}
		}
		if c.Status != contact.StatusPending {
			return &customerr.ValidationError{Reason: "request already answered"}
		}
		return uow.Contacts().SetStatus(ctx, contactID, status)
	})
}

// Remove deletes a contact edge. Only the side that created it may act.
func (s *Service) Remove(ctx context.Context, contactID, actorID int64) error {
	return s.storage.WithinTx(ctx, func(ctx context.Context, uow storage.UnitOfWork) error {
		c, err := uow.Contacts().GetByID(ctx, contactID)
		if err != nil {
			return err
		}
		if c.FromUserID != actorID {
			return &customerr.ValidationError{Reason: "only the requesting user can remove a contact"}
		}
		return uow.Contacts().Delete(ctx, contactID)
	})
}

// List returns the user's contacts with perspective-adjusted balances.
func (s *Service) List(ctx context.Context, userID int64) ([]MyContact, error) {
	var res []MyContact
	err := s.storage.WithinTx(ctx, func(ctx context.Context, uow storage.UnitOfWork) error {
		edges, err := uow.Contacts().ListForUser(ctx, userID)
		if err != nil {
			return err
		}

		ids := make([]int64, 0, len(edges))
		for _, c := range edges {
			ids = append(ids, c.Other(userID))
		}
		users, err := uow.Users().ListByIDs(ctx, ids)
		if err != nil {
			return err
		}
		names := make(map[int64]int, len(users))
		for i, u := range users {
			names[u.ID] = i
		}

		res = make([]MyContact, 0, len(edges))
		for _, c := range edges {
			mc := MyContact{
				ContactID: c.ID,
				UserID:    c.Other(userID),
				Balance:   ledger.NetBalance(c, userID),
				Status:    c.Status,
			}
			if i, ok := names[mc.UserID]; ok {
				mc.Name = users[i].Name
				mc.Email = users[i].Email
			}
			res = append(res, mc)
		}
		return nil
	})
	return res, err
}

// Requests returns the user's incoming pending invitations.
func (s *Service) Requests(ctx context.Context, toUserID int64) ([]Request, error) {
	var res []Request
	err := s.storage.WithinTx(ctx, func(ctx context.Context, uow storage.UnitOfWork) error {
		pending, err := uow.Contacts().ListRequests(ctx, toUserID)
		if err != nil {
			return err
		}

		res = make([]Request, 0, len(pending))
		for _, c := range pending {
			req := Request{ContactID: c.ID, FromUserID: c.FromUserID}
			if u, err := uow.Users().GetByID(ctx, c.FromUserID); err == nil {
				req.Name = u.Name
				req.Email = u.Email
			}
			res = append(res, req)
		}
		return nil
	})
	return res, err
}
