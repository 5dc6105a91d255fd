package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/solvida/charity-api/internal/api/handler/v1/response"
	"github.com/solvida/charity-api/internal/pkg/jwthelper"
)

// ClaimsKey is where VerifyJWT stores the parsed claims on the gin context.
const ClaimsKey = "claims"

type Authenticator struct {
	signingKey []byte
}

func NewAuthenticator(signingKey string) *Authenticator {
	return &Authenticator{
		signingKey: []byte(signingKey),
	}
}

// VerifyJWT rejects the request unless a valid bearer token is present.
func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		claims, err := a.parseBearer(ctx)
		if err != nil {
			response.RenderErr(ctx, response.ErrUnauthorized(err))
			ctx.Abort()
			return
		}

		ctx.Set(ClaimsKey, claims)
		ctx.Next()
	}
}

// OptionalJWT parses a bearer token when one is supplied but lets anonymous
// requests through. Guest checkout depends on this.
func (a *Authenticator) OptionalJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if ctx.GetHeader("Authorization") != "" {
			claims, err := a.parseBearer(ctx)
			if err != nil {
				response.RenderErr(ctx, response.ErrUnauthorized(err))
				ctx.Abort()
				return
			}

			ctx.Set(ClaimsKey, claims)
		}

		ctx.Next()
	}
}

func (a *Authenticator) parseBearer(ctx *gin.Context) (*jwthelper.UserClaims, error) {
	header := ctx.GetHeader("Authorization")
	if header == "" {
		return nil, errors.New("missing Authorization header")
	}

	segments := strings.SplitN(header, " ", 2)
	if len(segments) != 2 || segments[0] != "Bearer" {
		return nil, errors.New("malformed Authorization header")
	}

	claims, err := jwthelper.ParseToken(a.signingKey, segments[1])
	if err != nil {
		return nil, err
	}

	if claims.UserAgent != ctx.Request.UserAgent() {
		return nil, errors.New("token was issued to a different client")
	}

	return claims, nil
}

// GetClaims pulls the parsed claims out of the context, or nil for anonymous
// requests that came through OptionalJWT.
func GetClaims(ctx *gin.Context) *jwthelper.UserClaims {
	val, ok := ctx.Get(ClaimsKey)
	if !ok {
		return nil
	}

	claims, ok := val.(*jwthelper.UserClaims)
	if !ok {
		return nil
	}

	return claims
}
