package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solvida/charity-api/internal/domain"
	"github.com/solvida/charity-api/internal/repository"
)

type fakePurchaseRepo struct {
	recorded     []domain.Purchase
	lastPayment  *domain.Payment
	recordErr    error
	usedCodes    map[string]bool
	knownTickets map[string]domain.Ticket
}

func newFakePurchaseRepo() *fakePurchaseRepo {
	return &fakePurchaseRepo{
		usedCodes:    map[string]bool{},
		knownTickets: map[string]domain.Ticket{},
	}
}

func (f *fakePurchaseRepo) Record(_ context.Context, purchase domain.Purchase, payment *domain.Payment) (domain.Purchase, error) {
	if f.recordErr != nil {
		return domain.Purchase{}, f.recordErr
	}

	purchase.ID = uint(len(f.recorded) + 1)
	f.recorded = append(f.recorded, purchase)
	f.lastPayment = payment

	return purchase, nil
}

func (f *fakePurchaseRepo) MarkTicketUsed(_ context.Context, code string) (domain.Ticket, error) {
	ticket, ok := f.knownTickets[code]
	if !ok {
		return domain.Ticket{}, repository.ErrTicketNotFound
	}
	if f.usedCodes[code] {
		return domain.Ticket{}, repository.ErrTicketAlreadyUsed
	}

	f.usedCodes[code] = true
	ticket.Used = true

	return ticket, nil
}

type fakePurchaseUserRepo struct {
	byID      map[uint]domain.User
	byEmail   map[string]domain.User
	nextID    uint
	createErr error
}

func newFakePurchaseUserRepo() *fakePurchaseUserRepo {
	return &fakePurchaseUserRepo{
		byID:    map[uint]domain.User{},
		byEmail: map[string]domain.User{},
		nextID:  1,
	}
}

func (f *fakePurchaseUserRepo) add(user domain.User) domain.User {
	if user.ID == 0 {
		user.ID = f.nextID
		f.nextID++
	}
	f.byID[user.ID] = user
	f.byEmail[user.Email] = user

	return user
}

func (f *fakePurchaseUserRepo) Create(_ context.Context, user domain.User) (domain.User, error) {
	if f.createErr != nil {
		return domain.User{}, f.createErr
	}
	if _, ok := f.byEmail[user.Email]; ok {
		return domain.User{}, repository.ErrUserEmailExists
	}

	return f.add(user), nil
}

func (f *fakePurchaseUserRepo) FindByID(_ context.Context, id uint) (domain.User, error) {
	user, ok := f.byID[id]
	if !ok {
		return domain.User{}, repository.ErrUserNotFound
	}

	return user, nil
}

func (f *fakePurchaseUserRepo) FindByEmail(_ context.Context, email string) (domain.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return domain.User{}, repository.ErrUserNotFound
	}

	return user, nil
}

func purchaseTestFixture() (*PurchaseService, *fakePurchaseRepo, *fakeEventRepo, *fakePurchaseUserRepo) {
	purchaseRepo := newFakePurchaseRepo()
	eventRepo := newFakeEventRepo()
	userRepo := newFakePurchaseUserRepo()

	eventRepo.events[1] = domain.Event{
		ID:               1,
		Title:            "Benefit Concert",
		Type:             domain.EventConcert,
		Capacity:         100,
		RemainingTickets: 100,
		BasePrice:        15,
	}

	return NewPurchaseService(purchaseRepo, eventRepo, userRepo), purchaseRepo, eventRepo, userRepo
}

func TestPurchaseService_Purchase_AuthenticatedBuyer(t *testing.T) {
	svc, purchaseRepo, _, userRepo := purchaseTestFixture()
	user := userRepo.add(domain.User{Email: "ana@example.com"})

	tierID := uint(3)
	purchase, err := svc.Purchase(context.Background(), PurchaseInput{
		EventID:       1,
		UserID:        &user.ID,
		PaymentMethod: domain.PaymentCard,
		CardHolder:    "Ana Torres",
		CardLast4:     "4242",
		Lines: []PurchaseLine{
			{TicketTypeID: &tierID, Quantity: 2, UnitPrice: 20},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, purchase.TicketCount)
	assert.Equal(t, 40.0, purchase.Total)
	require.NotNil(t, purchase.UserID)
	assert.Equal(t, user.ID, *purchase.UserID)
	require.Len(t, purchase.Tickets, 2)
	for _, ticket := range purchase.Tickets {
		assert.True(t, strings.HasPrefix(ticket.Code, "TKT-"))
		assert.Equal(t, 20.0, ticket.Price)
	}
	assert.NotEqual(t, purchase.Tickets[0].Code, purchase.Tickets[1].Code)

	require.NotNil(t, purchaseRepo.lastPayment)
	assert.Equal(t, "4242", purchaseRepo.lastPayment.CardLast4)
}

func TestPurchaseService_Purchase_GuestCreatesUser(t *testing.T) {
	svc, purchaseRepo, _, userRepo := purchaseTestFixture()

	purchase, err := svc.Purchase(context.Background(), PurchaseInput{
		EventID:       1,
		PaymentMethod: domain.PaymentBizum,
		Buyer:         Buyer{Email: "guest@example.com", FirstName: "Gloria"},
		Lines: []PurchaseLine{
			{Quantity: 1, TicketTypeID: ptrUint(1)},
		},
	})
	require.NoError(t, err)

	created, findErr := userRepo.FindByEmail(context.Background(), "guest@example.com")
	require.NoError(t, findErr)
	require.NotNil(t, purchase.UserID)
	assert.Equal(t, created.ID, *purchase.UserID)
	assert.Len(t, purchaseRepo.recorded, 1)
}

func TestPurchaseService_Purchase_GuestReusesExistingUser(t *testing.T) {
	svc, _, _, userRepo := purchaseTestFixture()
	existing := userRepo.add(domain.User{Email: "guest@example.com"})

	purchase, err := svc.Purchase(context.Background(), PurchaseInput{
		EventID:       1,
		PaymentMethod: domain.PaymentPaypal,
		Buyer:         Buyer{Email: "guest@example.com"},
		Lines:         []PurchaseLine{{Quantity: 1, TicketTypeID: ptrUint(1)}},
	})
	require.NoError(t, err)

	require.NotNil(t, purchase.UserID)
	assert.Equal(t, existing.ID, *purchase.UserID)
	assert.Len(t, userRepo.byID, 1, "no duplicate user row")
}

func TestPurchaseService_Purchase_DefaultsToBasePrice(t *testing.T) {
	svc, _, _, userRepo := purchaseTestFixture()
	user := userRepo.add(domain.User{Email: "ana@example.com"})

	purchase, err := svc.Purchase(context.Background(), PurchaseInput{
		EventID:       1,
		UserID:        &user.ID,
		PaymentMethod: domain.PaymentCard,
		Lines:         []PurchaseLine{{Quantity: 3, TicketTypeID: ptrUint(1)}},
	})
	require.NoError(t, err)

	assert.Equal(t, 45.0, purchase.Total, "unpriced lines fall back to the event base price")
	assert.Equal(t, 15.0, purchase.UnitPrice)
}

func TestPurchaseService_Purchase_RaffleNumberIsSingleEntry(t *testing.T) {
	svc, _, eventRepo, userRepo := purchaseTestFixture()
	user := userRepo.add(domain.User{Email: "ana@example.com"})
	eventRepo.events[2] = domain.Event{ID: 2, Title: "Summer Raffle", Type: domain.EventRaffle, Capacity: 50, RemainingTickets: 50, BasePrice: 2}

	seven := 7
	purchase, err := svc.Purchase(context.Background(), PurchaseInput{
		EventID:       2,
		UserID:        &user.ID,
		PaymentMethod: domain.PaymentCard,
		Lines: []PurchaseLine{
			{RaffleNumber: &seven, Quantity: 5}, // quantity is ignored for numbers
		},
	})
	require.NoError(t, err)

	require.Len(t, purchase.Tickets, 1)
	require.NotNil(t, purchase.Tickets[0].RaffleNumber)
	assert.Equal(t, 7, *purchase.Tickets[0].RaffleNumber)
	assert.Equal(t, 2.0, purchase.Total)
}

func TestPurchaseService_Purchase_WalletNeedsAccount(t *testing.T) {
	svc, _, _, userRepo := purchaseTestFixture()

	_, err := svc.Purchase(context.Background(), PurchaseInput{
		EventID:       1,
		PaymentMethod: domain.PaymentWallet,
		Buyer:         Buyer{Email: "guest@example.com"},
		Lines:         []PurchaseLine{{Quantity: 1, TicketTypeID: ptrUint(1)}},
	})

	assert.ErrorIs(t, err, ErrWalletRequiresAccount)

	// The rejection must come before the guest row would be created.
	_, err = userRepo.FindByEmail(context.Background(), "guest@example.com")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestPurchaseService_Purchase_WalletSkipsPaymentRecord(t *testing.T) {
	svc, purchaseRepo, _, userRepo := purchaseTestFixture()
	user := userRepo.add(domain.User{Email: "ana@example.com", WalletBalance: 100})

	_, err := svc.Purchase(context.Background(), PurchaseInput{
		EventID:       1,
		UserID:        &user.ID,
		PaymentMethod: domain.PaymentWallet,
		Lines:         []PurchaseLine{{Quantity: 1, TicketTypeID: ptrUint(1)}},
	})
	require.NoError(t, err)

	assert.Nil(t, purchaseRepo.lastPayment)
}

func TestPurchaseService_Purchase_EmptyCart(t *testing.T) {
	svc, _, _, _ := purchaseTestFixture()

	_, err := svc.Purchase(context.Background(), PurchaseInput{EventID: 1, PaymentMethod: domain.PaymentCard})
	assert.ErrorIs(t, err, ErrEmptyPurchase)
}

func TestPurchaseService_Purchase_GuestWithoutEmail(t *testing.T) {
	svc, _, _, _ := purchaseTestFixture()

	_, err := svc.Purchase(context.Background(), PurchaseInput{
		EventID:       1,
		PaymentMethod: domain.PaymentCard,
		Lines:         []PurchaseLine{{Quantity: 1, TicketTypeID: ptrUint(1)}},
	})

	assert.ErrorIs(t, err, ErrBuyerRequired)
}

func TestPurchaseService_Purchase_UnknownEvent(t *testing.T) {
	svc, _, _, _ := purchaseTestFixture()

	_, err := svc.Purchase(context.Background(), PurchaseInput{
		EventID:       42,
		PaymentMethod: domain.PaymentCard,
		Lines:         []PurchaseLine{{Quantity: 1, TicketTypeID: ptrUint(1)}},
	})

	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestPurchaseService_Purchase_RepoErrorPassesThrough(t *testing.T) {
	svc, purchaseRepo, _, userRepo := purchaseTestFixture()
	user := userRepo.add(domain.User{Email: "ana@example.com"})
	purchaseRepo.recordErr = ErrNotEnoughTickets

	_, err := svc.Purchase(context.Background(), PurchaseInput{
		EventID:       1,
		UserID:        &user.ID,
		PaymentMethod: domain.PaymentCard,
		Lines:         []PurchaseLine{{Quantity: 1, TicketTypeID: ptrUint(1)}},
	})

	assert.ErrorIs(t, err, ErrNotEnoughTickets)
}

func TestPurchaseService_ScanTicket(t *testing.T) {
	svc, purchaseRepo, _, _ := purchaseTestFixture()
	purchaseRepo.knownTickets["TKT-abc"] = domain.Ticket{ID: 1, Code: "TKT-abc"}

	ticket, err := svc.ScanTicket(context.Background(), "TKT-abc")
	require.NoError(t, err)
	assert.True(t, ticket.Used)

	_, err = svc.ScanTicket(context.Background(), "TKT-abc")
	assert.ErrorIs(t, err, ErrTicketAlreadyUsed)

	_, err = svc.ScanTicket(context.Background(), "TKT-nope")
	assert.ErrorIs(t, err, ErrTicketNotFound)
}

func ptrUint(v uint) *uint {
	return &v
}
