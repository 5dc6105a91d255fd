package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solvida/charity-api/internal/domain"
	"github.com/solvida/charity-api/internal/repository"
)

type fakeAuthUserRepo struct {
	users  map[string]domain.User
	nextID uint
}

func newFakeAuthUserRepo() *fakeAuthUserRepo {
	return &fakeAuthUserRepo{
		users:  map[string]domain.User{},
		nextID: 1,
	}
}

func (f *fakeAuthUserRepo) Create(_ context.Context, user domain.User) (domain.User, error) {
	if _, ok := f.users[user.Email]; ok {
		return domain.User{}, repository.ErrUserEmailExists
	}

	user.ID = f.nextID
	f.nextID++
	f.users[user.Email] = user

	return user, nil
}

func (f *fakeAuthUserRepo) FindByEmail(_ context.Context, email string) (domain.User, error) {
	user, ok := f.users[email]
	if !ok {
		return domain.User{}, repository.ErrUserNotFound
	}

	return user, nil
}

func TestAuthService_SignupAndLogin(t *testing.T) {
	repo := newFakeAuthUserRepo()
	svc := NewAuthService(repo)

	created, err := svc.Signup(context.Background(), domain.User{
		Email:     "ana@example.com",
		Password:  "sunflower1",
		FirstName: "Ana",
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.NotEqual(t, "sunflower1", repo.users["ana@example.com"].Password, "password must be stored hashed")

	user, err := svc.Login(context.Background(), "ana@example.com", "sunflower1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
}

func TestAuthService_LoginWrongPassword(t *testing.T) {
	repo := newFakeAuthUserRepo()
	svc := NewAuthService(repo)

	_, err := svc.Signup(context.Background(), domain.User{Email: "ana@example.com", Password: "sunflower1"})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "ana@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrWrongPassword)
}

func TestAuthService_LoginUnknownEmail(t *testing.T) {
	svc := NewAuthService(newFakeAuthUserRepo())

	_, err := svc.Login(context.Background(), "nobody@example.com", "whatever1")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthService_GuestAccountCannotLogin(t *testing.T) {
	repo := newFakeAuthUserRepo()
	svc := NewAuthService(repo)

	// Guest rows created during checkout have no password.
	repo.users["guest@example.com"] = domain.User{ID: 7, Email: "guest@example.com"}

	_, err := svc.Login(context.Background(), "guest@example.com", "")
	assert.ErrorIs(t, err, ErrWrongPassword)
}

func TestAuthService_SignupDuplicateEmail(t *testing.T) {
	repo := newFakeAuthUserRepo()
	svc := NewAuthService(repo)

	_, err := svc.Signup(context.Background(), domain.User{Email: "ana@example.com", Password: "sunflower1"})
	require.NoError(t, err)

	_, err = svc.Signup(context.Background(), domain.User{Email: "ana@example.com", Password: "sunflower1"})
	assert.ErrorIs(t, err, ErrUserEmailExists)
}
