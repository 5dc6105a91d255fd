package domain

import "time"

type User struct {
	ID            uint       `json:"id"`
	Email         string     `json:"email"`
	Password      string     `json:"-"`
	FirstName     string     `json:"first_name"`
	LastName      string     `json:"last_name"`
	Phone         string     `json:"phone"`
	NationalID    string     `json:"national_id"`
	Address       string     `json:"address"`
	PostalCode    string     `json:"postal_code"`
	IsMember      bool       `json:"is_member"`
	MemberSince   *time.Time `json:"member_since,omitempty"`
	IsAdmin       bool       `json:"is_admin"`
	WalletBalance float64    `json:"wallet_balance"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
