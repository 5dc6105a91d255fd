package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/solvida/charity-api/internal/domain"
	"github.com/solvida/charity-api/internal/repository"
)

var (
	ErrUserNotFound  = repository.ErrUserNotFound
	ErrInvalidAmount = errors.New("amount must be positive")
	ErrAlreadyMember = errors.New("user is already a member")
	ErrNotMember     = errors.New("user is not a member")
)

type UserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
	AddToWallet(ctx context.Context, id uint, amount float64) (domain.User, error)
	SetMembership(ctx context.Context, id uint, member bool, since *time.Time) (domain.User, error)
}

type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{
		repo: repo,
	}
}

func (s *UserService) GetUser(ctx context.Context, id uint) (domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return user, nil
}

func (s *UserService) TopUpWallet(ctx context.Context, userID uint, amount float64) (domain.User, error) {
	if amount <= 0 {
		return domain.User{}, ErrInvalidAmount
	}

	user, err := s.repo.AddToWallet(ctx, userID, amount)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.AddToWallet -> %w", err)
	}

	return user, nil
}

// SetMembership flips the membership flag. Becoming a member stamps
// member_since; leaving clears it. There is no recurring billing behind this.
func (s *UserService) SetMembership(ctx context.Context, userID uint, member bool) (domain.User, error) {
	current, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if member && current.IsMember {
		return domain.User{}, ErrAlreadyMember
	}
	if !member && !current.IsMember {
		return domain.User{}, ErrNotMember
	}

	var since *time.Time
	if member {
		now := time.Now()
		since = &now
	}

	user, err := s.repo.SetMembership(ctx, userID, member, since)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.SetMembership -> %w", err)
	}

	return user, nil
}
