package repository

import (
	"context"
	"fmt"

	"github.com/solvida/charity-api/internal/domain"
	"github.com/solvida/charity-api/internal/repository/dao"
)

var (
	ErrNotEnoughTickets   = dao.ErrNotEnoughTickets
	ErrInsufficientWallet = dao.ErrInsufficientWallet
	ErrTicketNotFound     = dao.ErrTicketNotFound
	ErrTicketAlreadyUsed  = dao.ErrTicketAlreadyUsed
)

type (
	RaffleNumberTakenError = dao.RaffleNumberTakenError
	TicketTypeSoldOutError = dao.TicketTypeSoldOutError
)

type PurchaseDAO interface {
	RecordPurchase(ctx context.Context, purchase dao.Purchase, donation float64, payment *dao.Payment) (dao.Purchase, error)
	FindByUserID(ctx context.Context, userID uint) ([]dao.PurchaseRow, error)
	FindTicketsByUserID(ctx context.Context, userID uint) ([]dao.TicketRow, error)
	MarkTicketUsed(ctx context.Context, code string) (dao.TicketRow, error)
}

type PurchaseRepository struct {
	dao PurchaseDAO
}

func NewPurchaseRepository(dao PurchaseDAO) *PurchaseRepository {
	return &PurchaseRepository{
		dao: dao,
	}
}

// Record persists the purchase atomically; see dao.PurchaseDAO.RecordPurchase
// for the guards.
func (r *PurchaseRepository) Record(ctx context.Context, purchase domain.Purchase, payment *domain.Payment) (domain.Purchase, error) {
	daoPurchase := dao.Purchase{
		UserID:        purchase.UserID,
		EventID:       purchase.EventID,
		TicketCount:   purchase.TicketCount,
		UnitPrice:     purchase.UnitPrice,
		Total:         purchase.Total,
		PaymentMethod: string(purchase.PaymentMethod),
	}

	for _, ticket := range purchase.Tickets {
		daoPurchase.Tickets = append(daoPurchase.Tickets, dao.Ticket{
			TicketTypeID: ticket.TicketTypeID,
			RaffleNumber: ticket.RaffleNumber,
			Price:        ticket.Price,
			Code:         ticket.Code,
		})
	}

	var daoPayment *dao.Payment
	if payment != nil {
		daoPayment = &dao.Payment{
			UserID:    payment.UserID,
			Method:    string(payment.Method),
			Holder:    payment.Holder,
			CardLast4: payment.CardLast4,
		}
	}

	recorded, err := r.dao.RecordPurchase(ctx, daoPurchase, purchase.Donation, daoPayment)
	if err != nil {
		return domain.Purchase{}, fmt.Errorf("r.dao.RecordPurchase -> %w", err)
	}

	result := domain.Purchase{
		ID:            recorded.ID,
		UserID:        recorded.UserID,
		EventID:       recorded.EventID,
		TicketCount:   recorded.TicketCount,
		UnitPrice:     recorded.UnitPrice,
		Total:         recorded.Total,
		PaymentMethod: domain.PaymentMethod(recorded.PaymentMethod),
		Donation:      purchase.Donation,
		CreatedAt:     recorded.CreatedAt,
	}
	for _, ticket := range recorded.Tickets {
		result.Tickets = append(result.Tickets, domain.Ticket{
			ID:           ticket.ID,
			PurchaseID:   ticket.PurchaseID,
			EventID:      ticket.EventID,
			UserID:       ticket.UserID,
			TicketTypeID: ticket.TicketTypeID,
			RaffleNumber: ticket.RaffleNumber,
			Price:        ticket.Price,
			Code:         ticket.Code,
			Used:         ticket.Used,
		})
	}

	return result, nil
}

func (r *PurchaseRepository) FindByUserID(ctx context.Context, userID uint) ([]domain.Purchase, error) {
	rows, err := r.dao.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByUserID -> %w", err)
	}

	purchases := make([]domain.Purchase, 0, len(rows))
	for _, row := range rows {
		purchases = append(purchases, domain.Purchase{
			ID:            row.ID,
			UserID:        row.UserID,
			EventID:       row.EventID,
			EventTitle:    row.EventTitle,
			TicketCount:   row.TicketCount,
			UnitPrice:     row.UnitPrice,
			Total:         row.Total,
			PaymentMethod: domain.PaymentMethod(row.PaymentMethod),
			CreatedAt:     row.CreatedAt,
		})
	}

	return purchases, nil
}

func (r *PurchaseRepository) FindTicketsByUserID(ctx context.Context, userID uint) ([]domain.Ticket, error) {
	rows, err := r.dao.FindTicketsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindTicketsByUserID -> %w", err)
	}

	tickets := make([]domain.Ticket, 0, len(rows))
	for _, row := range rows {
		tickets = append(tickets, ticketRowToDomain(row))
	}

	return tickets, nil
}

func (r *PurchaseRepository) MarkTicketUsed(ctx context.Context, code string) (domain.Ticket, error) {
	row, err := r.dao.MarkTicketUsed(ctx, code)
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("r.dao.MarkTicketUsed -> %w", err)
	}

	return ticketRowToDomain(row), nil
}

func ticketRowToDomain(row dao.TicketRow) domain.Ticket {
	ticket := domain.Ticket{
		ID:           row.ID,
		PurchaseID:   row.PurchaseID,
		EventID:      row.EventID,
		EventTitle:   row.EventTitle,
		UserID:       row.UserID,
		TicketTypeID: row.TicketTypeID,
		RaffleNumber: row.RaffleNumber,
		Price:        row.Price,
		Code:         row.Code,
		Used:         row.Used,
	}
	if row.TicketTypeName != nil {
		ticket.TicketTypeName = *row.TicketTypeName
	}

	return ticket
}
