package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/solvida/charity-api/internal/domain"
	"github.com/solvida/charity-api/internal/repository"
)

var (
	ErrTicketTypeNotFound = repository.ErrTicketTypeNotFound
	ErrRaffleWithTiers    = errors.New("raffle events cannot have ticket types")
)

type (
	TierBelowSoldError     = repository.TierBelowSoldError
	CapacityBelowSoldError = repository.CapacityBelowSoldError
)

type EventRepository interface {
	Create(ctx context.Context, event domain.Event) (domain.Event, error)
	FindByID(ctx context.Context, id uint) (domain.Event, error)
	Update(ctx context.Context, event domain.Event, tiers []domain.TicketType) (domain.Event, error)
	Delete(ctx context.Context, id uint) error
}

// EventService is the admin side of the catalog: create, edit and delete
// events and their ticket tiers.
type EventService struct {
	repo EventRepository
}

func NewEventService(repo EventRepository) *EventService {
	return &EventService{
		repo: repo,
	}
}

// CreateEvent derives capacity and base price from custom tiers when they are
// given (capacity = sum of quantities, base price = cheapest tier). Raffle
// and drawing events get one number per capacity slot instead of tiers; plain
// events without tiers get a default General Admission tier covering the full
// capacity.
func (s *EventService) CreateEvent(ctx context.Context, event domain.Event, tiers []domain.TicketType) (domain.Event, error) {
	if event.Type.IsRaffle() {
		if len(tiers) > 0 {
			return domain.Event{}, ErrRaffleWithTiers
		}

		event.RemainingTickets = event.Capacity
		event.RaffleNumbers = make([]domain.RaffleNumber, 0, event.Capacity)
		for n := 1; n <= event.Capacity; n++ {
			event.RaffleNumbers = append(event.RaffleNumbers, domain.RaffleNumber{Number: n, Available: true})
		}
	} else {
		if len(tiers) == 0 {
			tiers = []domain.TicketType{
				{
					Name:  DefaultTicketTypeName,
					Price: event.BasePrice,
					Color: "#F59E0B",
					Total: event.Capacity,
				},
			}
		} else {
			capacity := 0
			minPrice := tiers[0].Price
			for _, tier := range tiers {
				capacity += tier.Total
				if tier.Price < minPrice {
					minPrice = tier.Price
				}
			}
			event.Capacity = capacity
			event.BasePrice = minPrice
		}

		event.RemainingTickets = event.Capacity
		for i := range tiers {
			tiers[i].Remaining = tiers[i].Total
		}
		event.TicketTypes = tiers
	}

	if event.Status == "" {
		event.Status = "active"
	}

	created, err := s.repo.Create(ctx, event)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

// UpdateEvent edits event fields and reconciles tier changes. The repository
// refuses tier reductions below the sold count and applies nothing in that
// case.
func (s *EventService) UpdateEvent(ctx context.Context, event domain.Event, tiers []domain.TicketType) (domain.Event, error) {
	updated, err := s.repo.Update(ctx, event, tiers)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

func (s *EventService) DeleteEvent(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}
