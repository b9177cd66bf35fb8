// internal/service/customer_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	appErrors "github.com/unclebandit/acme-customers-backend/internal/errors"
	"github.com/unclebandit/acme-customers-backend/internal/events"
	"github.com/unclebandit/acme-customers-backend/internal/middleware"
	"github.com/unclebandit/acme-customers-backend/internal/model"
	"github.com/unclebandit/acme-customers-backend/internal/repository"
)

// CustomerService is the single business component over the customer store.
// It validates update requests before any store access, turns absent rows
// into ErrCustomerNotFound and publishes change events after each write.
type CustomerService struct {
	CustomerRepo repository.CustomerRepositoryInterface
	Publisher    events.Publisher
	Log          zerolog.Logger
	Now          func() time.Time
}

func (s *CustomerService) ListCustomers(ctx context.Context) ([]model.Customer, error) {
	customers, err := s.CustomerRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return customers, nil
}

// GetCustomer returns the customer or an *ErrCustomerNotFound.
func (s *CustomerService) GetCustomer(ctx context.Context, id int) (*model.Customer, error) {
	c, err := s.CustomerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get customer %d: %w", id, err)
	}
	if c == nil {
		return nil, appErrors.NewCustomerNotFound(id)
	}
	return c, nil
}

// CreateCustomer persists c and writes the assigned id back into it.
func (s *CustomerService) CreateCustomer(ctx context.Context, c *model.Customer) error {
	c.ID = 0
	if err := s.CustomerRepo.Create(ctx, c); err != nil {
		return fmt.Errorf("create customer: %w", err)
	}
	s.publish(ctx, events.CustomerCreated, c.ID)
	return nil
}

// UpdateCustomer replaces the customer identified by id. A payload carrying a
// different id is rejected with ErrIDMismatch and the store is not touched.
func (s *CustomerService) UpdateCustomer(ctx context.Context, id int, c *model.Customer) error {
	if c.ID != id {
		return appErrors.ErrIDMismatch
	}
	if err := s.CustomerRepo.Update(ctx, c); err != nil {
		if appErrors.IsNotFound(err) {
			return err
		}
		return fmt.Errorf("update customer %d: %w", id, err)
	}
	s.publish(ctx, events.CustomerUpdated, id)
	return nil
}

// DeleteCustomer removes the customer. Deleting an absent id succeeds.
func (s *CustomerService) DeleteCustomer(ctx context.Context, id int) error {
	existed, err := s.CustomerRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete customer %d: %w", id, err)
	}
	if !existed {
		s.Log.Debug().Int("customer_id", id).Msg("delete of absent customer")
		return nil
	}
	s.publish(ctx, events.CustomerDeleted, id)
	return nil
}

// publish is best-effort: the write has already committed.
func (s *CustomerService) publish(ctx context.Context, t events.Type, id int) {
	if s.Publisher == nil {
		return
	}
	e := events.CustomerEvent{
		Type:       t,
		CustomerID: id,
		OccurredAt: s.now(),
		RequestID:  middleware.GetRequestID(ctx),
	}
	if err := s.Publisher.Publish(ctx, e); err != nil {
		s.Log.Warn().Err(err).Str("event", string(t)).Int("customer_id", id).Msg("failed to publish customer event")
	}
}

func (s *CustomerService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}
