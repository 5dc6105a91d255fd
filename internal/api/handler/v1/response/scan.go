package response

import "github.com/solvida/charity-api/internal/domain"

const (
	ScanStatusValid       = "valid"
	ScanStatusAlreadyUsed = "already_used"
	ScanStatusInvalid     = "invalid"
)

// ScanResponse is what the door scanner shows after reading a QR code.
type ScanResponse struct {
	Status string         `json:"status"`
	Ticket *domain.Ticket `json:"ticket,omitempty"`
}
