package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/solvida/charity-api/internal/api/handler/v1/request"
	"github.com/solvida/charity-api/internal/api/handler/v1/response"
	"github.com/solvida/charity-api/internal/domain"
	"github.com/solvida/charity-api/internal/service"
)

var errAdminOnly = errors.New("admin privileges required")

type CatalogService interface {
	ListEvents(ctx context.Context) ([]domain.Event, error)
	GetEvent(ctx context.Context, id uint) (domain.Event, error)
}

type EventService interface {
	CreateEvent(ctx context.Context, event domain.Event, tiers []domain.TicketType) (domain.Event, error)
	UpdateEvent(ctx context.Context, event domain.Event, tiers []domain.TicketType) (domain.Event, error)
	DeleteEvent(ctx context.Context, id uint) error
}

type EventHandler struct {
	catalogSvc CatalogService
	eventSvc   EventService
	userSvc    currentUserService
}

func NewEventHandler(catalogSvc CatalogService, eventSvc EventService, userSvc currentUserService) *EventHandler {
	return &EventHandler{
		catalogSvc: catalogSvc,
		eventSvc:   eventSvc,
		userSvc:    userSvc,
	}
}

// HandleListEvents godoc
// @Summary      List all events
// @Tags         events
// @Produce      json
// @Success      200      {object}   []domain.Event
// @Failure      500      {object}   response.Err
// @Router       /events [get]
func (h *EventHandler) HandleListEvents(ctx *gin.Context) {
	events, err := h.catalogSvc.ListEvents(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListEvents -> h.catalogSvc.ListEvents -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, events)
}

// HandleGetEvent godoc
// @Summary      Get an event by ID
// @Tags         events
// @Produce      json
// @Param        eventID   path      int  true  "event ID"
// @Success      200      {object}   domain.Event
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /events/{eventID} [get]
func (h *EventHandler) HandleGetEvent(ctx *gin.Context) {
	eventID, err := parseUintParam(ctx, "eventID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	event, err := h.catalogSvc.GetEvent(ctx.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))

			return
		}

		err = fmt.Errorf("v1.HandleGetEvent -> h.catalogSvc.GetEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, event)
}

// HandleCreateEvent godoc
// @Summary      Create an event
// @Tags         events
// @Produce      json
// @Param        request   body      request.CreateEventRequest true "request body"
// @Success      201      {object}   domain.Event
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /events [post]
// @Security     BearerToken
func (h *EventHandler) HandleCreateEvent(ctx *gin.Context) {
	user, respErr := currentUser(ctx, h.userSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}
	if !user.IsAdmin {
		response.RenderErr(ctx, response.ErrPermissionDenied(errAdminOnly))

		return
	}

	var req request.CreateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	event, err := eventFromRequest(req.Title, req.Date, req.Time, req.Location, req.Type, req.Description, req.ImageURL, req.Capacity, req.BasePrice, req.FundraisingGoal)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	created, err := h.eventSvc.CreateEvent(ctx.Request.Context(), event, tiersFromRequest(req.TicketTypes))
	if err != nil {
		if errors.Is(err, service.ErrRaffleWithTiers) {
			response.RenderErr(ctx, response.ErrBadRequest(err))

			return
		}

		err = fmt.Errorf("v1.HandleCreateEvent -> h.eventSvc.CreateEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// HandleUpdateEvent godoc
// @Summary      Update an event
// @Tags         events
// @Produce      json
// @Param        eventID   path      int  true  "event ID"
// @Param        request   body      request.UpdateEventRequest true "request body"
// @Success      200      {object}   domain.Event
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /events/{eventID} [put]
// @Security     BearerToken
func (h *EventHandler) HandleUpdateEvent(ctx *gin.Context) {
	user, respErr := currentUser(ctx, h.userSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}
	if !user.IsAdmin {
		response.RenderErr(ctx, response.ErrPermissionDenied(errAdminOnly))

		return
	}

	eventID, err := parseUintParam(ctx, "eventID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	var req request.UpdateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	event, err := eventFromRequest(req.Title, req.Date, req.Time, req.Location, req.Type, req.Description, req.ImageURL, req.Capacity, req.BasePrice, req.FundraisingGoal)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}
	event.ID = eventID
	event.Status = req.Status

	updated, err := h.eventSvc.UpdateEvent(ctx.Request.Context(), event, tiersFromRequest(req.TicketTypes))
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))

			return
		}
		if errors.Is(err, service.ErrTicketTypeNotFound) {
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrTicketTypeNotFound))

			return
		}

		var tierErr *service.TierBelowSoldError
		if errors.As(err, &tierErr) {
			response.RenderErr(ctx, response.ErrBadRequest(tierErr))

			return
		}

		var capErr *service.CapacityBelowSoldError
		if errors.As(err, &capErr) {
			response.RenderErr(ctx, response.ErrBadRequest(capErr))

			return
		}

		err = fmt.Errorf("v1.HandleUpdateEvent -> h.eventSvc.UpdateEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// HandleDeleteEvent godoc
// @Summary      Delete an event
// @Tags         events
// @Param        eventID   path      int  true  "event ID"
// @Success      204
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /events/{eventID} [delete]
// @Security     BearerToken
func (h *EventHandler) HandleDeleteEvent(ctx *gin.Context) {
	user, respErr := currentUser(ctx, h.userSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}
	if !user.IsAdmin {
		response.RenderErr(ctx, response.ErrPermissionDenied(errAdminOnly))

		return
	}

	eventID, err := parseUintParam(ctx, "eventID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := h.eventSvc.DeleteEvent(ctx.Request.Context(), eventID); err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))

			return
		}

		err = fmt.Errorf("v1.HandleDeleteEvent -> h.eventSvc.DeleteEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.Status(http.StatusNoContent)
}

// eventFromRequest parses the RFC 3339 date and an optional HH:MM clock that
// overrides the date's own time of day.
func eventFromRequest(title, date, clock, location, eventType, description, imageURL string, capacity int, basePrice, goal float64) (domain.Event, error) {
	when, err := time.Parse(time.RFC3339, date)
	if err != nil {
		return domain.Event{}, fmt.Errorf("invalid date (%v)", date)
	}

	if clock != "" {
		t, err := time.Parse("15:04", clock)
		if err != nil {
			return domain.Event{}, fmt.Errorf("invalid time (%v)", clock)
		}
		when = time.Date(when.Year(), when.Month(), when.Day(), t.Hour(), t.Minute(), 0, 0, when.Location())
	}

	return domain.Event{
		Title:           title,
		Date:            when,
		Location:        location,
		Type:            domain.EventType(eventType),
		Capacity:        capacity,
		BasePrice:       basePrice,
		FundraisingGoal: goal,
		Description:     description,
		ImageURL:        imageURL,
	}, nil
}

func tiersFromRequest(items []request.TicketTierRequest) []domain.TicketType {
	tiers := make([]domain.TicketType, 0, len(items))
	for _, item := range items {
		tier := domain.TicketType{
			Name:  item.Name,
			Price: item.Price,
			Color: item.Color,
			Total: item.Quantity,
		}
		if item.ID != nil {
			tier.ID = *item.ID
		}
		tiers = append(tiers, tier)
	}

	return tiers
}
