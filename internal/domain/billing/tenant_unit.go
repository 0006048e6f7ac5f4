package billing

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rentledger/backend/internal/domain/shared"
	"github.com/rentledger/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// TenantUnitStatus represents the lifecycle of a lease
type TenantUnitStatus string

const (
	TenantUnitStatusActive TenantUnitStatus = "active"
	TenantUnitStatusEnded  TenantUnitStatus = "ended"
)

// IsValid checks if the status is valid
func (s TenantUnitStatus) IsValid() bool {
	return s == TenantUnitStatusActive || s == TenantUnitStatusEnded
}

// TenantUnit is the lease linking a renter to a unit. It owns the
// advance-rent credit pool: money collected up front that is drawn down
// against rent invoices as they are generated.
type TenantUnit struct {
	shared.LandlordAggregateRoot
	UnitID     uuid.UUID            `json:"unit_id"`
	TenantName string               `json:"tenant_name"`
	RentAmount decimal.Decimal      `json:"rent_amount"`
	Currency   valueobject.Currency `json:"currency"`
	Status     TenantUnitStatus     `json:"status"`

	// Advance-rent credit pool. Used never exceeds Amount.
	AdvanceRentMonths int             `json:"advance_rent_months"`
	AdvanceRentAmount decimal.Decimal `json:"advance_rent_amount"`
	AdvanceRentUsed   decimal.Decimal `json:"advance_rent_used"`
}

// NewTenantUnit creates a new active lease
func NewTenantUnit(landlordID, unitID uuid.UUID, tenantName string, rentAmount decimal.Decimal, currency valueobject.Currency) (*TenantUnit, error) {
	if landlordID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LANDLORD", "Landlord ID cannot be empty")
	}
	if unitID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unit ID cannot be empty")
	}
	if rentAmount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Rent amount must be positive")
	}
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}

	return &TenantUnit{
		LandlordAggregateRoot: shared.NewLandlordAggregateRoot(landlordID),
		UnitID:                unitID,
		TenantName:            tenantName,
		RentAmount:            rentAmount,
		Currency:              currency,
		Status:                TenantUnitStatusActive,
		AdvanceRentAmount:     decimal.Zero,
		AdvanceRentUsed:       decimal.Zero,
	}, nil
}

// AdvanceRemaining returns the unconsumed advance-rent credit
func (t *TenantUnit) AdvanceRemaining() decimal.Decimal {
	remaining := t.AdvanceRentAmount.Sub(t.AdvanceRentUsed)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// HasAdvanceCredit reports whether any advance-rent credit is left to draw
func (t *TenantUnit) HasAdvanceCredit() bool {
	return t.AdvanceRemaining().GreaterThan(decimal.Zero)
}

// CollectAdvance records an up-front advance-rent collection, growing the
// credit pool.
func (t *TenantUnit) CollectAdvance(months int, amount decimal.Decimal) error {
	if t.Status != TenantUnitStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Cannot collect advance rent on an ended lease")
	}
	if months <= 0 {
		return shared.NewDomainError("INVALID_MONTHS", "Advance rent months must be positive")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Advance rent amount must be positive")
	}

	t.AdvanceRentMonths += months
	t.AdvanceRentAmount = t.AdvanceRentAmount.Add(amount)
	t.IncrementVersion()

	t.AddDomainEvent(NewAdvanceRentCollectedEvent(t, months, amount))

	return nil
}

// ConsumeAdvance draws down credit from the pool. The pool can never go
// negative.
func (t *TenantUnit) ConsumeAdvance(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Consumed amount must be positive")
	}
	if amount.GreaterThan(t.AdvanceRemaining()) {
		return shared.NewDomainError("INSUFFICIENT_CREDIT",
			fmt.Sprintf("Cannot consume %s advance rent, only %s remaining", amount, t.AdvanceRemaining()))
	}

	t.AdvanceRentUsed = t.AdvanceRentUsed.Add(amount)
	t.IncrementVersion()

	return nil
}

// End closes the lease
func (t *TenantUnit) End() error {
	if t.Status == TenantUnitStatusEnded {
		return shared.NewDomainError("INVALID_STATE", "Lease is already ended")
	}
	t.Status = TenantUnitStatusEnded
	t.IncrementVersion()
	return nil
}
