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

var errNotAccountOwner = errors.New("not the account owner")

type UserService interface {
	GetUser(ctx context.Context, id uint) (domain.User, error)
	TopUpWallet(ctx context.Context, userID uint, amount float64) (domain.User, error)
	SetMembership(ctx context.Context, userID uint, member bool) (domain.User, error)
}

type AccountService interface {
	GetAccount(ctx context.Context, userID uint) (domain.Account, error)
}

type UserHandler struct {
	svc        UserService
	accountSvc AccountService
}

func NewUserHandler(svc UserService, accountSvc AccountService) *UserHandler {
	return &UserHandler{
		svc:        svc,
		accountSvc: accountSvc,
	}
}

// authorizeOwner allows the account owner or an admin through, everyone else
// gets a 403.
func (h *UserHandler) authorizeOwner(ctx *gin.Context, userID uint) (domain.User, *response.Err) {
	caller, respErr := currentUser(ctx, h.svc)
	if respErr != nil {
		return domain.User{}, respErr
	}

	if caller.ID != userID && !caller.IsAdmin {
		return domain.User{}, response.ErrPermissionDenied(errNotAccountOwner)
	}

	return caller, nil
}

// HandleGetUser godoc
// @Summary      Get a user's profile
// @Tags         users
// @Produce      json
// @Param        userID   path      int  true  "user ID"
// @Success      200      {object}   domain.User
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /users/{userID} [get]
// @Security     BearerToken
func (h *UserHandler) HandleGetUser(ctx *gin.Context) {
	userID, err := parseUintParam(ctx, "userID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if _, respErr := h.authorizeOwner(ctx, userID); respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	user, err := h.svc.GetUser(ctx.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("user", "ID", userID))

			return
		}

		err = fmt.Errorf("v1.HandleGetUser -> h.svc.GetUser -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, user)
}

// HandleGetAccount godoc
// @Summary      Get a user's account page
// @Description  Profile, purchases, tickets and donations in one payload.
// @Tags         users
// @Produce      json
// @Param        userID   path      int  true  "user ID"
// @Success      200      {object}   domain.Account
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /users/{userID}/account [get]
// @Security     BearerToken
func (h *UserHandler) HandleGetAccount(ctx *gin.Context) {
	userID, err := parseUintParam(ctx, "userID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if _, respErr := h.authorizeOwner(ctx, userID); respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	account, err := h.accountSvc.GetAccount(ctx.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("user", "ID", userID))

			return
		}

		err = fmt.Errorf("v1.HandleGetAccount -> h.accountSvc.GetAccount -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, account)
}

// HandleTopUpWallet godoc
// @Summary      Add funds to a user's wallet
// @Tags         users
// @Produce      json
// @Param        userID   path      int  true  "user ID"
// @Param        request   body      request.TopUpWalletRequest true "request body"
// @Success      200      {object}   domain.User
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /users/{userID}/wallet/topup [post]
// @Security     BearerToken
func (h *UserHandler) HandleTopUpWallet(ctx *gin.Context) {
	userID, err := parseUintParam(ctx, "userID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if _, respErr := h.authorizeOwner(ctx, userID); respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	var req request.TopUpWalletRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	user, err := h.svc.TopUpWallet(ctx.Request.Context(), userID, req.Amount)
	if err != nil {
		if errors.Is(err, service.ErrInvalidAmount) {
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrInvalidAmount))

			return
		}
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("user", "ID", userID))

			return
		}

		err = fmt.Errorf("v1.HandleTopUpWallet -> h.svc.TopUpWallet -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, user)
}

// HandleSetMembership godoc
// @Summary      Join or leave the membership program
// @Tags         users
// @Produce      json
// @Param        userID   path      int  true  "user ID"
// @Param        request   body      request.MembershipRequest true "request body"
// @Success      200      {object}   domain.User
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /users/{userID}/membership [post]
// @Security     BearerToken
func (h *UserHandler) HandleSetMembership(ctx *gin.Context) {
	userID, err := parseUintParam(ctx, "userID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if _, respErr := h.authorizeOwner(ctx, userID); respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	var req request.MembershipRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	user, err := h.svc.SetMembership(ctx.Request.Context(), userID, req.Active)
	if err != nil {
		if errors.Is(err, service.ErrAlreadyMember) || errors.Is(err, service.ErrNotMember) {
			response.RenderErr(ctx, response.ErrBadRequest(unwrapTail(err)))

			return
		}
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("user", "ID", userID))

			return
		}

		err = fmt.Errorf("v1.HandleSetMembership -> h.svc.SetMembership -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, user)
}
