package v1

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solvida/charity-api/internal/domain"
	"github.com/solvida/charity-api/internal/service"
)

type stubCatalogService struct {
	events map[uint]domain.Event
}

func (s *stubCatalogService) ListEvents(_ context.Context) ([]domain.Event, error) {
	events := make([]domain.Event, 0, len(s.events))
	for _, event := range s.events {
		events = append(events, event)
	}

	return events, nil
}

func (s *stubCatalogService) GetEvent(_ context.Context, id uint) (domain.Event, error) {
	event, ok := s.events[id]
	if !ok {
		return domain.Event{}, service.ErrEventNotFound
	}

	return event, nil
}

type stubEventService struct {
	lastEvent domain.Event
	lastTiers []domain.TicketType
	err       error
}

func (s *stubEventService) CreateEvent(_ context.Context, event domain.Event, tiers []domain.TicketType) (domain.Event, error) {
	s.lastEvent = event
	s.lastTiers = tiers
	if s.err != nil {
		return domain.Event{}, s.err
	}

	event.ID = 1

	return event, nil
}

func (s *stubEventService) UpdateEvent(_ context.Context, event domain.Event, tiers []domain.TicketType) (domain.Event, error) {
	s.lastEvent = event
	s.lastTiers = tiers
	if s.err != nil {
		return domain.Event{}, s.err
	}

	return event, nil
}

func (s *stubEventService) DeleteEvent(_ context.Context, _ uint) error {
	return s.err
}

func newEventTestRouter(catalog *stubCatalogService, events *stubEventService, users *stubUserService, claims gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	handler := NewEventHandler(catalog, events, users)
	public := router.Group("/api/v1")
	public.GET("/events", handler.HandleListEvents)
	public.GET("/events/:eventID", handler.HandleGetEvent)

	admin := router.Group("/api/v1")
	if claims != nil {
		admin.Use(claims)
	}
	admin.POST("/events", handler.HandleCreateEvent)
	admin.PUT("/events/:eventID", handler.HandleUpdateEvent)
	admin.DELETE("/events/:eventID", handler.HandleDeleteEvent)

	return router
}

func TestHandleGetEvent(t *testing.T) {
	catalog := &stubCatalogService{events: map[uint]domain.Event{1: {ID: 1, Title: "Charity Dinner"}}}
	router := newEventTestRouter(catalog, &stubEventService{}, &stubUserService{}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/events/1", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Charity Dinner")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/events/99", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/events/abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleCreateEvent_AdminOnly(t *testing.T) {
	body := `{
		"title": "Benefit Concert",
		"date": "2026-10-01T20:00:00Z",
		"location": "City Hall",
		"type": "concert",
		"capacity": 100,
		"base_price": 15
	}`

	t.Run("admin", func(t *testing.T) {
		users := &stubUserService{users: map[uint]domain.User{1: {ID: 1, IsAdmin: true}}}
		events := &stubEventService{}
		router := newEventTestRouter(&stubCatalogService{}, events, users, asUser(1))

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/events", strings.NewReader(body)))

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Equal(t, "Benefit Concert", events.lastEvent.Title)
		assert.Equal(t, domain.EventConcert, events.lastEvent.Type)
		assert.Equal(t, 100, events.lastEvent.Capacity)
	})

	t.Run("non-admin", func(t *testing.T) {
		users := &stubUserService{users: map[uint]domain.User{2: {ID: 2}}}
		router := newEventTestRouter(&stubCatalogService{}, &stubEventService{}, users, asUser(2))

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/events", strings.NewReader(body)))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("anonymous", func(t *testing.T) {
		router := newEventTestRouter(&stubCatalogService{}, &stubEventService{}, &stubUserService{}, nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/events", strings.NewReader(body)))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestHandleCreateEvent_TimeOverridesClock(t *testing.T) {
	users := &stubUserService{users: map[uint]domain.User{1: {ID: 1, IsAdmin: true}}}
	events := &stubEventService{}
	router := newEventTestRouter(&stubCatalogService{}, events, users, asUser(1))

	body := `{
		"title": "Charity Dinner",
		"date": "2026-10-01T00:00:00Z",
		"time": "21:30",
		"location": "City Hall",
		"type": "dinner",
		"capacity": 40
	}`

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/events", strings.NewReader(body)))

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, 21, events.lastEvent.Date.Hour())
	assert.Equal(t, 30, events.lastEvent.Date.Minute())
}

func TestHandleUpdateEvent_TierBelowSold(t *testing.T) {
	users := &stubUserService{users: map[uint]domain.User{1: {ID: 1, IsAdmin: true}}}
	events := &stubEventService{err: &service.TierBelowSoldError{Name: "VIP", Sold: 12}}
	router := newEventTestRouter(&stubCatalogService{}, events, users, asUser(1))

	body := `{
		"title": "Benefit Concert",
		"date": "2026-10-01T20:00:00Z",
		"location": "City Hall",
		"type": "concert",
		"ticket_types": [{"id": 1, "name": "VIP", "price": 50, "quantity": 5}]
	}`

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/api/v1/events/1", strings.NewReader(body)))

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already sold")
}

func TestHandleUpdateEvent_CapacityBelowSold(t *testing.T) {
	users := &stubUserService{users: map[uint]domain.User{1: {ID: 1, IsAdmin: true}}}
	events := &stubEventService{err: &service.CapacityBelowSoldError{Sold: 6}}
	router := newEventTestRouter(&stubCatalogService{}, events, users, asUser(1))

	body := `{
		"title": "Summer Raffle",
		"date": "2026-10-01T20:00:00Z",
		"location": "City Hall",
		"type": "raffle",
		"capacity": 5
	}`

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/api/v1/events/1", strings.NewReader(body)))

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already sold")
}

func TestHandleCreateEvent_BadPayloads(t *testing.T) {
	users := &stubUserService{users: map[uint]domain.User{1: {ID: 1, IsAdmin: true}}}

	tests := []struct {
		name string
		body string
	}{
		{"missing title", `{"date": "2026-10-01T20:00:00Z", "location": "x", "type": "concert"}`},
		{"bad type", `{"title": "x", "date": "2026-10-01T20:00:00Z", "location": "x", "type": "festival"}`},
		{"bad date", `{"title": "x", "date": "01/10/2026", "location": "x", "type": "concert"}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			router := newEventTestRouter(&stubCatalogService{}, &stubEventService{}, users, asUser(1))

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/events", strings.NewReader(tc.body)))

			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
}
