package domain

// Account is everything the account page shows for one user.
type Account struct {
	User          User       `json:"user"`
	Purchases     []Purchase `json:"purchases"`
	Tickets       []Ticket   `json:"tickets"`
	Donations     []Donation `json:"donations"`
	DonationTotal float64    `json:"donation_total"`
}
