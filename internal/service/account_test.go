package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solvida/charity-api/internal/domain"
)

type fakeAccountPurchaseRepo struct {
	purchases []domain.Purchase
	tickets   []domain.Ticket
}

func (f *fakeAccountPurchaseRepo) FindByUserID(_ context.Context, _ uint) ([]domain.Purchase, error) {
	return f.purchases, nil
}

func (f *fakeAccountPurchaseRepo) FindTicketsByUserID(_ context.Context, _ uint) ([]domain.Ticket, error) {
	return f.tickets, nil
}

type fakeAccountDonationRepo struct {
	donations []domain.Donation
}

func (f *fakeAccountDonationRepo) FindByUserID(_ context.Context, _ uint) ([]domain.Donation, error) {
	return f.donations, nil
}

func (f *fakeAccountDonationRepo) SumByUserID(_ context.Context, _ uint) (float64, error) {
	var total float64
	for _, donation := range f.donations {
		total += donation.Amount
	}

	return total, nil
}

func TestAccountService_GetAccount(t *testing.T) {
	userRepo := newFakeUserRepo()
	userRepo.users[1] = domain.User{ID: 1, Email: "ana@example.com", WalletBalance: 12}

	purchaseRepo := &fakeAccountPurchaseRepo{
		purchases: []domain.Purchase{{ID: 1, EventTitle: "Benefit Concert", TicketCount: 2, Total: 40}},
		tickets: []domain.Ticket{
			{ID: 1, Code: "TKT-a", EventTitle: "Benefit Concert"},
			{ID: 2, Code: "TKT-b", EventTitle: "Benefit Concert"},
		},
	}
	donationRepo := &fakeAccountDonationRepo{
		donations: []domain.Donation{
			{ID: 1, Amount: 10},
			{ID: 2, Amount: 5.5},
		},
	}

	svc := NewAccountService(userRepo, purchaseRepo, donationRepo)

	account, err := svc.GetAccount(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, "ana@example.com", account.User.Email)
	assert.Len(t, account.Purchases, 1)
	assert.Len(t, account.Tickets, 2)
	assert.Len(t, account.Donations, 2)
	assert.Equal(t, 15.5, account.DonationTotal)
}

func TestAccountService_GetAccount_UnknownUser(t *testing.T) {
	svc := NewAccountService(newFakeUserRepo(), &fakeAccountPurchaseRepo{}, &fakeAccountDonationRepo{})

	_, err := svc.GetAccount(context.Background(), 99)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
