package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solvida/charity-api/internal/domain"
)

func TestCatalogService_GetEvent_ShapesForDisplay(t *testing.T) {
	repo := newFakeEventRepo()
	repo.events[1] = domain.Event{
		ID:               1,
		Title:            "Charity Dinner",
		Date:             time.Date(2026, 9, 12, 20, 30, 0, 0, time.UTC),
		Type:             domain.EventDinner,
		Capacity:         40,
		RemainingTickets: 25,
		BasePrice:        25,
	}
	svc := NewCatalogService(repo)

	event, err := svc.GetEvent(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, "20:30", event.Time)
	assert.Equal(t, 15, event.Sold)
	assert.Equal(t, 25.0, event.Price)

	// An event without explicit tiers shows a synthesized default one.
	require.Len(t, event.TicketTypes, 1)
	assert.Equal(t, DefaultTicketTypeName, event.TicketTypes[0].Name)
	assert.Equal(t, 40, event.TicketTypes[0].Total)
	assert.Equal(t, 25, event.TicketTypes[0].Remaining)
}

func TestCatalogService_GetEvent_CheapestTierWins(t *testing.T) {
	repo := newFakeEventRepo()
	repo.events[1] = domain.Event{
		ID:               1,
		Title:            "Benefit Concert",
		Date:             time.Now(),
		Type:             domain.EventConcert,
		Capacity:         100,
		RemainingTickets: 100,
		BasePrice:        15,
		TicketTypes: []domain.TicketType{
			{Name: "VIP", Price: 50, Total: 20, Remaining: 20},
			{Name: "Standard", Price: 15, Total: 80, Remaining: 80},
		},
	}
	svc := NewCatalogService(repo)

	event, err := svc.GetEvent(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 15.0, event.Price)
	assert.Len(t, event.TicketTypes, 2, "explicit tiers must not be replaced")
}

func TestCatalogService_GetEvent_RaffleHasNoDefaultTier(t *testing.T) {
	repo := newFakeEventRepo()
	repo.events[1] = domain.Event{
		ID:               1,
		Title:            "Summer Raffle",
		Date:             time.Now(),
		Type:             domain.EventRaffle,
		Capacity:         50,
		RemainingTickets: 50,
		BasePrice:        2,
	}
	svc := NewCatalogService(repo)

	event, err := svc.GetEvent(context.Background(), 1)
	require.NoError(t, err)

	assert.Empty(t, event.TicketTypes)
}

func TestCatalogService_GetEvent_NotFound(t *testing.T) {
	svc := NewCatalogService(newFakeEventRepo())

	_, err := svc.GetEvent(context.Background(), 42)
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestCatalogService_ListEvents(t *testing.T) {
	repo := newFakeEventRepo()
	repo.events[1] = domain.Event{ID: 1, Title: "A", Date: time.Now(), Type: domain.EventDinner, Capacity: 10, RemainingTickets: 10}
	repo.events[2] = domain.Event{ID: 2, Title: "B", Date: time.Now(), Type: domain.EventConcert, Capacity: 20, RemainingTickets: 18}
	svc := NewCatalogService(repo)

	events, err := svc.ListEvents(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 2)

	for _, event := range events {
		assert.NotEmpty(t, event.Time)
		assert.NotEmpty(t, event.TicketTypes)
	}
}
