package v1

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/solvida/charity-api/internal/api/handler/v1/response"
	"github.com/solvida/charity-api/internal/api/middleware"
	"github.com/solvida/charity-api/internal/domain"
	"github.com/solvida/charity-api/internal/service"
)

var errNotAuthenticated = errors.New("not authenticated")

type currentUserService interface {
	GetUser(ctx context.Context, id uint) (domain.User, error)
}

func parseUintParam(ctx *gin.Context, name string) (uint, error) {
	raw := ctx.Param(name)

	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %v (%v)", name, raw)
	}

	return uint(id), nil
}

// currentUser resolves the authenticated user behind the bearer token. Claims
// only carry the user ID, so role checks need the row.
func currentUser(ctx *gin.Context, svc currentUserService) (domain.User, *response.Err) {
	claims := middleware.GetClaims(ctx)
	if claims == nil {
		return domain.User{}, response.ErrUnauthorized(errNotAuthenticated)
	}

	user, err := svc.GetUser(ctx.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return domain.User{}, response.ErrUnauthorized(errNotAuthenticated)
		}

		return domain.User{}, response.ErrInternalServerError(fmt.Errorf("v1.currentUser -> svc.GetUser -> %w", err))
	}

	return user, nil
}
