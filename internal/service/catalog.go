package service

import (
	"context"
	"fmt"

	"github.com/solvida/charity-api/internal/domain"
	"github.com/solvida/charity-api/internal/repository"
)

var (
	ErrEventNotFound = repository.ErrEventNotFound
)

// DefaultTicketTypeName is synthesized for non-raffle events that have no
// explicit ticket types of their own.
const DefaultTicketTypeName = "General Admission"

type CatalogEventRepository interface {
	FindAll(ctx context.Context) ([]domain.Event, error)
	FindByID(ctx context.Context, id uint) (domain.Event, error)
}

type CatalogService struct {
	repo CatalogEventRepository
}

func NewCatalogService(repo CatalogEventRepository) *CatalogService {
	return &CatalogService{
		repo: repo,
	}
}

// ListEvents returns every event ordered by date, shaped for display. The
// full list is always loaded; the catalog has no pagination or search.
func (s *CatalogService) ListEvents(ctx context.Context) ([]domain.Event, error) {
	events, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	for i := range events {
		shapeForDisplay(&events[i])
	}

	return events, nil
}

func (s *CatalogService) GetEvent(ctx context.Context, id uint) (domain.Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	shapeForDisplay(&event)

	return event, nil
}

func shapeForDisplay(event *domain.Event) {
	event.Time = event.Date.Format("15:04")
	event.Sold = event.Capacity - event.RemainingTickets

	if len(event.TicketTypes) == 0 && !event.Type.IsRaffle() {
		event.TicketTypes = []domain.TicketType{
			{
				EventID:   event.ID,
				Name:      DefaultTicketTypeName,
				Price:     event.BasePrice,
				Color:     "#00A859",
				Total:     event.Capacity,
				Remaining: event.RemainingTickets,
			},
		}
	}

	// The displayed price is the cheapest way in.
	event.Price = event.BasePrice
	for _, tier := range event.TicketTypes {
		if event.Price == 0 || (tier.Price > 0 && tier.Price < event.Price) {
			event.Price = tier.Price
		}
	}
}
