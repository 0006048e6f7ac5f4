package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/rentledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Legacy refund status vocabulary
const (
	RefundStatusProcessed = "processed"
)

// DepositRefund is a legacy security-deposit refund row, the third source
// feeding the unified ledger. Read-only from the ledger's point of view.
type DepositRefund struct {
	shared.BaseEntity
	LandlordID           uuid.UUID
	TenantUnitID         *uuid.UUID
	RefundAmount         decimal.Decimal
	Status               string
	RefundDate           time.Time
	PaymentMethod        string
	TransactionReference string
	ReceiptNumber        string
}

// CompositeID returns the refund's identity in the unified ledger
func (r *DepositRefund) CompositeID() string {
	return CompositeID(SourceKindLegacyRefund, r.ID)
}
