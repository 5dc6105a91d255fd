package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/solvida/charity-api/internal/api/handler/v1/request"
	"github.com/solvida/charity-api/internal/api/handler/v1/response"
	"github.com/solvida/charity-api/internal/domain"
	"github.com/solvida/charity-api/internal/service"
)

type DonationService interface {
	Donate(ctx context.Context, userID uint, eventID *uint, amount float64, message string) (domain.Donation, error)
}

type DonationHandler struct {
	svc     DonationService
	userSvc currentUserService
}

func NewDonationHandler(svc DonationService, userSvc currentUserService) *DonationHandler {
	return &DonationHandler{
		svc:     svc,
		userSvc: userSvc,
	}
}

// HandleDonate godoc
// @Summary      Make a donation
// @Description  A donation tied to an event moves that event's fundraising total.
// @Tags         donations
// @Produce      json
// @Param        request   body      request.DonateRequest true "request body"
// @Success      201      {object}   domain.Donation
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /donations [post]
// @Security     BearerToken
func (h *DonationHandler) HandleDonate(ctx *gin.Context) {
	user, respErr := currentUser(ctx, h.userSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	var req request.DonateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	donation, err := h.svc.Donate(ctx.Request.Context(), user.ID, req.EventID, req.Amount, req.Message)
	if err != nil {
		if errors.Is(err, service.ErrInvalidAmount) {
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrInvalidAmount))

			return
		}
		if errors.Is(err, service.ErrEventNotFound) {
			var eventID uint
			if req.EventID != nil {
				eventID = *req.EventID
			}
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))

			return
		}

		err = fmt.Errorf("v1.HandleDonate -> h.svc.Donate -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusCreated, donation)
}
