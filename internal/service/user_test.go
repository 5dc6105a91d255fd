package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solvida/charity-api/internal/domain"
	"github.com/solvida/charity-api/internal/repository"
)

type fakeUserRepo struct {
	users map[uint]domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint]domain.User{}}
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uint) (domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return domain.User{}, repository.ErrUserNotFound
	}

	return user, nil
}

func (f *fakeUserRepo) AddToWallet(_ context.Context, id uint, amount float64) (domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return domain.User{}, repository.ErrUserNotFound
	}

	user.WalletBalance += amount
	f.users[id] = user

	return user, nil
}

func (f *fakeUserRepo) SetMembership(_ context.Context, id uint, member bool, since *time.Time) (domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return domain.User{}, repository.ErrUserNotFound
	}

	user.IsMember = member
	user.MemberSince = since
	f.users[id] = user

	return user, nil
}

func TestUserService_TopUpWallet(t *testing.T) {
	repo := newFakeUserRepo()
	repo.users[1] = domain.User{ID: 1, WalletBalance: 10}
	svc := NewUserService(repo)

	user, err := svc.TopUpWallet(context.Background(), 1, 25.50)
	require.NoError(t, err)
	assert.Equal(t, 35.50, user.WalletBalance)
}

func TestUserService_TopUpWallet_RejectsNonPositive(t *testing.T) {
	svc := NewUserService(newFakeUserRepo())

	_, err := svc.TopUpWallet(context.Background(), 1, 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.TopUpWallet(context.Background(), 1, -5)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestUserService_SetMembership(t *testing.T) {
	repo := newFakeUserRepo()
	repo.users[1] = domain.User{ID: 1}
	svc := NewUserService(repo)

	user, err := svc.SetMembership(context.Background(), 1, true)
	require.NoError(t, err)
	assert.True(t, user.IsMember)
	require.NotNil(t, user.MemberSince)
	assert.WithinDuration(t, time.Now(), *user.MemberSince, time.Minute)

	// Joining twice is an error.
	_, err = svc.SetMembership(context.Background(), 1, true)
	assert.ErrorIs(t, err, ErrAlreadyMember)

	user, err = svc.SetMembership(context.Background(), 1, false)
	require.NoError(t, err)
	assert.False(t, user.IsMember)
	assert.Nil(t, user.MemberSince)

	_, err = svc.SetMembership(context.Background(), 1, false)
	assert.ErrorIs(t, err, ErrNotMember)
}
