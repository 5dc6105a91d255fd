package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solvida/charity-api/internal/api/handler/v1/response"
	"github.com/solvida/charity-api/internal/config"
	"github.com/solvida/charity-api/internal/domain"
	"github.com/solvida/charity-api/internal/pkg/jwthelper"
	"github.com/solvida/charity-api/internal/service"
)

type stubAuthService struct {
	signupErr error
	loginErr  error
	user      domain.User
}

func (s *stubAuthService) Signup(_ context.Context, user domain.User) (domain.User, error) {
	if s.signupErr != nil {
		return domain.User{}, s.signupErr
	}

	user.ID = 1
	user.Password = ""

	return user, nil
}

func (s *stubAuthService) Login(_ context.Context, _, _ string) (domain.User, error) {
	if s.loginErr != nil {
		return domain.User{}, s.loginErr
	}

	return s.user, nil
}

func newAuthTestRouter(svc *stubAuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	handler := NewAuthHandler(&config.APIConfig{JWTSigningKey: "test-key"}, svc)
	router.POST("/api/v1/auth/signup", handler.HandleSignup)
	router.POST("/api/v1/auth/login", handler.HandleLogin)

	return router
}

func TestHandleSignup(t *testing.T) {
	router := newAuthTestRouter(&stubAuthService{})

	body := `{
		"email": "ana@example.com",
		"password": "sunflower1",
		"confirm_password": "sunflower1",
		"first_name": "Ana"
	}`

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/auth/signup", strings.NewReader(body)))

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "ana@example.com")
	assert.NotContains(t, w.Body.String(), "sunflower1")
}

func TestHandleSignup_BadPayloads(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"weak password", `{"email": "a@b.com", "password": "short", "confirm_password": "short", "first_name": "A"}`},
		{"no digit", `{"email": "a@b.com", "password": "onlyletters", "confirm_password": "onlyletters", "first_name": "A"}`},
		{"mismatch", `{"email": "a@b.com", "password": "sunflower1", "confirm_password": "sunflower2", "first_name": "A"}`},
		{"bad email", `{"email": "not-an-email", "password": "sunflower1", "confirm_password": "sunflower1", "first_name": "A"}`},
		{"missing name", `{"email": "a@b.com", "password": "sunflower1", "confirm_password": "sunflower1"}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			router := newAuthTestRouter(&stubAuthService{})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/auth/signup", strings.NewReader(tc.body)))

			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
}

func TestHandleSignup_DuplicateEmail(t *testing.T) {
	router := newAuthTestRouter(&stubAuthService{signupErr: service.ErrUserEmailExists})

	body := `{"email": "ana@example.com", "password": "sunflower1", "confirm_password": "sunflower1", "first_name": "Ana"}`

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/auth/signup", strings.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "user already exists")
}

func TestHandleLogin(t *testing.T) {
	router := newAuthTestRouter(&stubAuthService{user: domain.User{ID: 7, Email: "ana@example.com"}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email": "ana@example.com", "password": "sunflower1"}`))
	req.Header.Set("User-Agent", "test-agent")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp response.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	assert.Equal(t, uint(7), resp.User.ID)

	claims, err := jwthelper.ParseToken([]byte("test-key"), resp.Token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "test-agent", claims.UserAgent)
}

func TestHandleLogin_WrongCredentials(t *testing.T) {
	router := newAuthTestRouter(&stubAuthService{loginErr: service.ErrWrongPassword})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email": "ana@example.com", "password": "bad"}`)))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
