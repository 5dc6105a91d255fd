package repository

import (
	"context"
	"fmt"

	"github.com/solvida/charity-api/internal/domain"
	"github.com/solvida/charity-api/internal/repository/dao"
)

var (
	ErrEventNotFound      = dao.ErrEventNotFound
	ErrTicketTypeNotFound = dao.ErrTicketTypeNotFound
)

// TierBelowSoldError and CapacityBelowSoldError surface from updates that
// would cut a tier or the event's capacity below the sold count.
type (
	TierBelowSoldError     = dao.TierBelowSoldError
	CapacityBelowSoldError = dao.CapacityBelowSoldError
)

type EventDAO interface {
	Insert(ctx context.Context, event dao.Event) (dao.Event, error)
	FindAll(ctx context.Context) ([]dao.Event, error)
	FindByID(ctx context.Context, id uint) (dao.Event, error)
	Update(ctx context.Context, event dao.Event, tiers []dao.TicketType) (dao.Event, error)
	Delete(ctx context.Context, id uint) error
}

type EventRepository struct {
	dao EventDAO
}

func NewEventRepository(dao EventDAO) *EventRepository {
	return &EventRepository{
		dao: dao,
	}
}

func (r *EventRepository) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	created, err := r.dao.Insert(ctx, domainToDAO(event))
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return daoToDomain(created), nil
}

func (r *EventRepository) FindAll(ctx context.Context) ([]domain.Event, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	events := make([]domain.Event, 0, len(found))
	for _, event := range found {
		events = append(events, daoToDomain(event))
	}

	return events, nil
}

func (r *EventRepository) FindByID(ctx context.Context, id uint) (domain.Event, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return daoToDomain(found), nil
}

func (r *EventRepository) Update(ctx context.Context, event domain.Event, tiers []domain.TicketType) (domain.Event, error) {
	daoTiers := make([]dao.TicketType, 0, len(tiers))
	for _, tier := range tiers {
		daoTiers = append(daoTiers, dao.TicketType{
			ID:      tier.ID,
			EventID: event.ID,
			Name:    tier.Name,
			Price:   tier.Price,
			Color:   tier.Color,
			Total:   tier.Total,
		})
	}

	updated, err := r.dao.Update(ctx, domainToDAO(event), daoTiers)
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return daoToDomain(updated), nil
}

func (r *EventRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func domainToDAO(e domain.Event) dao.Event {
	event := dao.Event{
		ID:                 e.ID,
		Title:              e.Title,
		Date:               e.Date,
		Location:           e.Location,
		Type:               string(e.Type),
		Status:             e.Status,
		Capacity:           e.Capacity,
		RemainingTickets:   e.RemainingTickets,
		BasePrice:          e.BasePrice,
		FundraisingGoal:    e.FundraisingGoal,
		CurrentFundraising: e.CurrentFundraising,
		Description:        e.Description,
		ImageURL:           e.ImageURL,
	}

	for _, tier := range e.TicketTypes {
		event.TicketTypes = append(event.TicketTypes, dao.TicketType{
			ID:        tier.ID,
			EventID:   e.ID,
			Name:      tier.Name,
			Price:     tier.Price,
			Color:     tier.Color,
			Total:     tier.Total,
			Remaining: tier.Remaining,
		})
	}

	for _, number := range e.RaffleNumbers {
		event.RaffleNumbers = append(event.RaffleNumbers, dao.RaffleNumber{
			EventID:   e.ID,
			Number:    number.Number,
			Available: number.Available,
		})
	}

	return event
}

func daoToDomain(e dao.Event) domain.Event {
	event := domain.Event{
		ID:                 e.ID,
		Title:              e.Title,
		Date:               e.Date,
		Location:           e.Location,
		Type:               domain.EventType(e.Type),
		Status:             e.Status,
		Capacity:           e.Capacity,
		RemainingTickets:   e.RemainingTickets,
		Sold:               e.Capacity - e.RemainingTickets,
		BasePrice:          e.BasePrice,
		FundraisingGoal:    e.FundraisingGoal,
		CurrentFundraising: e.CurrentFundraising,
		Description:        e.Description,
		ImageURL:           e.ImageURL,
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          e.UpdatedAt,
	}

	for _, tier := range e.TicketTypes {
		event.TicketTypes = append(event.TicketTypes, domain.TicketType{
			ID:        tier.ID,
			EventID:   tier.EventID,
			Name:      tier.Name,
			Price:     tier.Price,
			Color:     tier.Color,
			Total:     tier.Total,
			Remaining: tier.Remaining,
		})
	}

	for _, number := range e.RaffleNumbers {
		event.RaffleNumbers = append(event.RaffleNumbers, domain.RaffleNumber{
			EventID:   number.EventID,
			Number:    number.Number,
			Available: number.Available,
		})
	}

	return event
}
