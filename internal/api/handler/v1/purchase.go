package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/solvida/charity-api/internal/api/handler/v1/request"
	"github.com/solvida/charity-api/internal/api/handler/v1/response"
	"github.com/solvida/charity-api/internal/api/middleware"
	"github.com/solvida/charity-api/internal/domain"
	"github.com/solvida/charity-api/internal/service"
)

type PurchaseService interface {
	Purchase(ctx context.Context, input service.PurchaseInput) (domain.Purchase, error)
	ScanTicket(ctx context.Context, code string) (domain.Ticket, error)
}

type PurchaseHandler struct {
	svc     PurchaseService
	userSvc currentUserService
}

func NewPurchaseHandler(svc PurchaseService, userSvc currentUserService) *PurchaseHandler {
	return &PurchaseHandler{
		svc:     svc,
		userSvc: userSvc,
	}
}

// HandlePurchase godoc
// @Summary      Purchase tickets for an event
// @Description  Guests may buy without a token by supplying buyer contact details.
// @Tags         purchases
// @Produce      json
// @Param        request   body      request.PurchaseRequest true "request body"
// @Success      201      {object}   domain.Purchase
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /purchases [post]
func (h *PurchaseHandler) HandlePurchase(ctx *gin.Context) {
	var req request.PurchaseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	input := service.PurchaseInput{
		EventID:       req.EventID,
		Donation:      req.Donation,
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
		CardHolder:    req.CardHolder,
		CardLast4:     last4(req.CardNumber),
	}

	for _, line := range req.Lines {
		input.Lines = append(input.Lines, service.PurchaseLine{
			TicketTypeID: line.TicketTypeID,
			RaffleNumber: line.RaffleNumber,
			Quantity:     line.Quantity,
			UnitPrice:    line.UnitPrice,
		})
	}

	if claims := middleware.GetClaims(ctx); claims != nil {
		input.UserID = &claims.UserID
	} else if req.Buyer != nil {
		input.Buyer = service.Buyer{
			Email:      req.Buyer.Email,
			FirstName:  req.Buyer.FirstName,
			LastName:   req.Buyer.LastName,
			Phone:      req.Buyer.Phone,
			NationalID: req.Buyer.NationalID,
			Address:    req.Buyer.Address,
		}
	}

	purchase, err := h.svc.Purchase(ctx.Request.Context(), input)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", req.EventID))

			return
		}

		if badPurchaseRequest(err) {
			response.RenderErr(ctx, response.ErrBadRequest(unwrapTail(err)))

			return
		}

		err = fmt.Errorf("v1.HandlePurchase -> h.svc.Purchase -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusCreated, purchase)
}

// HandleScanTicket godoc
// @Summary      Scan a ticket QR code at the door
// @Tags         purchases
// @Produce      json
// @Param        request   body      request.ScanTicketRequest true "request body"
// @Success      200      {object}   response.ScanResponse
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /tickets/scan [post]
// @Security     BearerToken
func (h *PurchaseHandler) HandleScanTicket(ctx *gin.Context) {
	user, respErr := currentUser(ctx, h.userSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}
	if !user.IsAdmin {
		response.RenderErr(ctx, response.ErrPermissionDenied(errAdminOnly))

		return
	}

	var req request.ScanTicketRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	ticket, err := h.svc.ScanTicket(ctx.Request.Context(), req.Code)
	if err != nil {
		// A scan never errors to the scanner for a bad code; it reports the
		// ticket state so the door staff can act on it.
		if errors.Is(err, service.ErrTicketNotFound) {
			ctx.JSON(http.StatusOK, response.ScanResponse{Status: response.ScanStatusInvalid})

			return
		}
		if errors.Is(err, service.ErrTicketAlreadyUsed) {
			ctx.JSON(http.StatusOK, response.ScanResponse{Status: response.ScanStatusAlreadyUsed})

			return
		}

		err = fmt.Errorf("v1.HandleScanTicket -> h.svc.ScanTicket -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.ScanResponse{
		Status: response.ScanStatusValid,
		Ticket: &ticket,
	})
}

// badPurchaseRequest reports whether the checkout failed on something the
// client can fix, as opposed to an infrastructure fault.
func badPurchaseRequest(err error) bool {
	var raffleTaken *service.RaffleNumberTakenError
	var soldOut *service.TicketTypeSoldOutError

	return errors.Is(err, service.ErrEmptyPurchase) ||
		errors.Is(err, service.ErrBuyerRequired) ||
		errors.Is(err, service.ErrWalletRequiresAccount) ||
		errors.Is(err, service.ErrNotEnoughTickets) ||
		errors.Is(err, service.ErrInsufficientWallet) ||
		errors.Is(err, service.ErrUserNotFound) ||
		errors.As(err, &raffleTaken) ||
		errors.As(err, &soldOut)
}

// unwrapTail strips the call-site wrapping so the client sees the cause, not
// the internal call chain.
func unwrapTail(err error) error {
	for {
		unwrapped := errors.Unwrap(err)
		if unwrapped == nil {
			return err
		}
		err = unwrapped
	}
}

func last4(cardNumber string) string {
	if len(cardNumber) <= 4 {
		return cardNumber
	}

	return cardNumber[len(cardNumber)-4:]
}
