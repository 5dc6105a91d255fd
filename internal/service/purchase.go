package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/solvida/charity-api/internal/domain"
	"github.com/solvida/charity-api/internal/repository"
)

var (
	ErrNotEnoughTickets      = repository.ErrNotEnoughTickets
	ErrInsufficientWallet    = repository.ErrInsufficientWallet
	ErrTicketNotFound        = repository.ErrTicketNotFound
	ErrTicketAlreadyUsed     = repository.ErrTicketAlreadyUsed
	ErrEmptyPurchase         = errors.New("purchase contains no tickets")
	ErrWalletRequiresAccount = errors.New("wallet payments require a signed-in user")
	ErrBuyerRequired         = errors.New("buyer email is required for guest checkout")
)

type (
	RaffleNumberTakenError = repository.RaffleNumberTakenError
	TicketTypeSoldOutError = repository.TicketTypeSoldOutError
)

// PurchaseLine is one cart line: either a ticket type with a quantity, or a
// single raffle number.
type PurchaseLine struct {
	TicketTypeID *uint
	RaffleNumber *int
	Quantity     int
	UnitPrice    float64
}

// Buyer carries the contact fields of a guest checkout. A user row is
// resolved or created from the email before the purchase is recorded.
type Buyer struct {
	Email      string
	FirstName  string
	LastName   string
	Phone      string
	NationalID string
	Address    string
}

type PurchaseInput struct {
	EventID       uint
	Lines         []PurchaseLine
	Donation      float64
	PaymentMethod domain.PaymentMethod
	CardHolder    string
	CardLast4     string
	UserID        *uint // authenticated buyer, nil for guests
	Buyer         Buyer
}

type PurchaseUserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
}

type PurchaseRepository interface {
	Record(ctx context.Context, purchase domain.Purchase, payment *domain.Payment) (domain.Purchase, error)
	MarkTicketUsed(ctx context.Context, code string) (domain.Ticket, error)
}

type PurchaseEventRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Event, error)
}

// PurchaseService is the single authoritative checkout path. All inventory
// guards run inside one database transaction in the repository, so under
// contention the first writer wins and everyone else gets a clear rejection.
type PurchaseService struct {
	repo      PurchaseRepository
	eventRepo PurchaseEventRepository
	userRepo  PurchaseUserRepository
}

func NewPurchaseService(repo PurchaseRepository, eventRepo PurchaseEventRepository, userRepo PurchaseUserRepository) *PurchaseService {
	return &PurchaseService{
		repo:      repo,
		eventRepo: eventRepo,
		userRepo:  userRepo,
	}
}

func (s *PurchaseService) Purchase(ctx context.Context, input PurchaseInput) (domain.Purchase, error) {
	if len(input.Lines) == 0 {
		return domain.Purchase{}, ErrEmptyPurchase
	}

	event, err := s.eventRepo.FindByID(ctx, input.EventID)
	if err != nil {
		if errors.Is(err, ErrEventNotFound) {
			return domain.Purchase{}, ErrEventNotFound
		}

		return domain.Purchase{}, fmt.Errorf("s.eventRepo.FindByID -> %w", err)
	}

	// Reject wallet checkouts without a token before resolving the buyer,
	// so a guest attempt never materializes a user row.
	if input.PaymentMethod == domain.PaymentWallet && input.UserID == nil {
		return domain.Purchase{}, ErrWalletRequiresAccount
	}

	userID, err := s.resolveBuyer(ctx, input)
	if err != nil {
		return domain.Purchase{}, err
	}

	purchase := domain.Purchase{
		UserID:        userID,
		EventID:       event.ID,
		UnitPrice:     event.BasePrice,
		PaymentMethod: input.PaymentMethod,
		Donation:      input.Donation,
	}

	for _, line := range input.Lines {
		quantity := line.Quantity
		if line.RaffleNumber != nil {
			// A raffle number is a single entry regardless of quantity.
			quantity = 1
		}

		price := line.UnitPrice
		if price == 0 {
			price = event.BasePrice
		}

		for i := 0; i < quantity; i++ {
			purchase.Tickets = append(purchase.Tickets, domain.Ticket{
				TicketTypeID: line.TicketTypeID,
				RaffleNumber: line.RaffleNumber,
				Price:        price,
				Code:         newTicketCode(),
			})
			purchase.Total += price
		}
	}
	purchase.TicketCount = len(purchase.Tickets)

	var payment *domain.Payment
	if input.PaymentMethod != domain.PaymentWallet {
		payment = &domain.Payment{
			UserID:    userID,
			Method:    input.PaymentMethod,
			Holder:    input.CardHolder,
			CardLast4: input.CardLast4,
		}
	}

	recorded, err := s.repo.Record(ctx, purchase, payment)
	if err != nil {
		return domain.Purchase{}, fmt.Errorf("s.repo.Record -> %w", err)
	}

	return recorded, nil
}

// ScanTicket validates a door scan: the first scan of a code wins, every
// later one reports the ticket as already used.
func (s *PurchaseService) ScanTicket(ctx context.Context, code string) (domain.Ticket, error) {
	ticket, err := s.repo.MarkTicketUsed(ctx, code)
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("s.repo.MarkTicketUsed -> %w", err)
	}

	return ticket, nil
}

// resolveBuyer maps the request to a user row: the token subject when
// authenticated, otherwise find-or-create by the guest's email.
func (s *PurchaseService) resolveBuyer(ctx context.Context, input PurchaseInput) (*uint, error) {
	if input.UserID != nil {
		user, err := s.userRepo.FindByID(ctx, *input.UserID)
		if err != nil {
			if errors.Is(err, ErrUserNotFound) {
				return nil, ErrUserNotFound
			}

			return nil, fmt.Errorf("s.userRepo.FindByID -> %w", err)
		}

		return &user.ID, nil
	}

	if input.Buyer.Email == "" {
		return nil, ErrBuyerRequired
	}

	user, err := s.userRepo.FindByEmail(ctx, input.Buyer.Email)
	if err == nil {
		return &user.ID, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("s.userRepo.FindByEmail -> %w", err)
	}

	created, err := s.userRepo.Create(ctx, domain.User{
		Email:      input.Buyer.Email,
		FirstName:  input.Buyer.FirstName,
		LastName:   input.Buyer.LastName,
		Phone:      input.Buyer.Phone,
		NationalID: input.Buyer.NationalID,
		Address:    input.Buyer.Address,
	})
	if err != nil {
		// Lost a race against another guest checkout with the same email.
		if errors.Is(err, ErrUserEmailExists) {
			existing, findErr := s.userRepo.FindByEmail(ctx, input.Buyer.Email)
			if findErr != nil {
				return nil, fmt.Errorf("s.userRepo.FindByEmail -> %w", findErr)
			}

			return &existing.ID, nil
		}

		return nil, fmt.Errorf("s.userRepo.Create -> %w", err)
	}

	return &created.ID, nil
}

func newTicketCode() string {
	return "TKT-" + uuid.NewString()
}
