package customers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aurumid/goldpos-backend/pkg/db/models"
	"github.com/aurumid/goldpos-backend/pkg/enums"
	pkgerrors "github.com/aurumid/goldpos-backend/pkg/errors"
	"github.com/aurumid/goldpos-backend/pkg/outbox"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// UpsertInput carries customer details from the counter. A nil ID creates;
// a set ID updates that customer in place.
type UpsertInput struct {
	ID      *uuid.UUID
	Name    string
	Phone   *string
	NIK     *string
	Address *string
	Notes   *string
	Actor   *outbox.ActorRef
}

// Service manages the customer book behind the POS customer picker.
type Service interface {
	Upsert(ctx context.Context, input UpsertInput) (*models.Customer, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	Search(ctx context.Context, query string, limit int) ([]models.Customer, error)
	List(ctx context.Context, limit int) ([]models.Customer, error)
}

type service struct {
	repo   Repository
	tx     txRunner
	events outboxEmitter
}

// NewService builds the customers service.
func NewService(repo Repository, tx txRunner, events outboxEmitter) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("customers repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if events == nil {
		return nil, fmt.Errorf("outbox emitter required")
	}
	return &service{repo: repo, tx: tx, events: events}, nil
}

type customerPayload struct {
	CustomerID uuid.UUID `json:"customerId"`
	Name       string    `json:"name"`
	Phone      *string   `json:"phone,omitempty"`
}

func (s *service) Upsert(ctx context.Context, input UpsertInput) (*models.Customer, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name required")
	}

	var saved *models.Customer
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if input.ID != nil {
			existing, err := repo.GetByID(ctx, *input.ID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
				}
				return err
			}
			existing.Name = name
			existing.Phone = input.Phone
			existing.NIK = input.NIK
			existing.Address = input.Address
			existing.Notes = input.Notes
			if err := repo.Update(ctx, existing); err != nil {
				return err
			}
			saved = existing
		} else {
			customer := &models.Customer{
				Name:    name,
				Phone:   input.Phone,
				NIK:     input.NIK,
				Address: input.Address,
				Notes:   input.Notes,
			}
			created, err := repo.Create(ctx, customer)
			if err != nil {
				return err
			}
			saved = created
		}

		return s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventCustomerUpserted,
			AggregateType: enums.AggregateCustomer,
			AggregateID:   saved.ID,
			Actor:         input.Actor,
			Version:       1,
			Data: customerPayload{
				CustomerID: saved.ID,
				Name:       saved.Name,
				Phone:      saved.Phone,
			},
		})
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert customer")
	}
	return saved, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	customer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}
	return customer, nil
}

func (s *service) Search(ctx context.Context, query string, limit int) ([]models.Customer, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.List(ctx, limit)
	}
	customers, err := s.repo.Search(ctx, query, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search customers")
	}
	return customers, nil
}

func (s *service) List(ctx context.Context, limit int) ([]models.Customer, error) {
	customers, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list customers")
	}
	return customers, nil
}
