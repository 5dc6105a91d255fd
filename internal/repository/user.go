package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/solvida/charity-api/internal/domain"
	"github.com/solvida/charity-api/internal/repository/dao"
)

var (
	ErrUserEmailExists = dao.ErrUserEmailExists
	ErrUserNotFound    = dao.ErrUserNotFound
)

type UserDAO interface {
	Insert(ctx context.Context, user dao.User) (dao.User, error)
	FindByID(ctx context.Context, id uint) (dao.User, error)
	FindByEmail(ctx context.Context, email string) (dao.User, error)
	AddToWallet(ctx context.Context, id uint, amount float64) (dao.User, error)
	SetMembership(ctx context.Context, id uint, member bool, since *time.Time) (dao.User, error)
}

type UserRepository struct {
	dao UserDAO
}

func NewUserRepository(dao UserDAO) *UserRepository {
	return &UserRepository{
		dao: dao,
	}
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	created, err := r.dao.Insert(ctx, dao.User{
		Email:      user.Email,
		Password:   user.Password,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		Phone:      user.Phone,
		NationalID: user.NationalID,
		Address:    user.Address,
		PostalCode: user.PostalCode,
		IsMember:   user.IsMember,
		IsAdmin:    user.IsAdmin,
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (domain.User, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	found, err := r.dao.FindByEmail(ctx, email)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByEmail -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *UserRepository) AddToWallet(ctx context.Context, id uint, amount float64) (domain.User, error) {
	updated, err := r.dao.AddToWallet(ctx, id, amount)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.AddToWallet -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *UserRepository) SetMembership(ctx context.Context, id uint, member bool, since *time.Time) (domain.User, error) {
	updated, err := r.dao.SetMembership(ctx, id, member, since)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.SetMembership -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *UserRepository) daoToDomain(u dao.User) domain.User {
	return domain.User{
		ID:            u.ID,
		Email:         u.Email,
		Password:      u.Password,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Phone:         u.Phone,
		NationalID:    u.NationalID,
		Address:       u.Address,
		PostalCode:    u.PostalCode,
		IsMember:      u.IsMember,
		MemberSince:   u.MemberSince,
		IsAdmin:       u.IsAdmin,
		WalletBalance: u.WalletBalance,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}
