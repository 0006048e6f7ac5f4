package ledger

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rentledger/backend/internal/domain/shared"
	"github.com/rentledger/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PaymentMethod represents how a payment was made
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodMobileMoney  PaymentMethod = "mobile_money"
	PaymentMethodCheck        PaymentMethod = "check"
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodOther        PaymentMethod = "other"
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodBankTransfer, PaymentMethodMobileMoney,
		PaymentMethodCheck, PaymentMethodCard, PaymentMethodOther:
		return true
	}
	return false
}

// Metadata is a free-form key/value bag stored as JSONB
type Metadata map[string]string

// Value implements driver.Valuer interface for GORM to store as JSONB
func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (m *Metadata) Scan(value interface{}) error {
	if value == nil {
		*m = Metadata{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan Metadata: unsupported type")
	}

	if len(bytes) == 0 {
		*m = Metadata{}
		return nil
	}

	return json.Unmarshal(bytes, m)
}

// PaymentEntry is the one ledger source under direct write control.
// It is an append-only record of money movement: once captured or voided
// it is immutable except for soft delete.
type PaymentEntry struct {
	shared.LandlordAggregateRoot
	TenantUnitID    *uuid.UUID           `json:"tenant_unit_id"` // nil for entries not tied to a lease
	PaymentType     PaymentType          `json:"payment_type"`
	FlowDirection   FlowDirection        `json:"flow_direction"`
	Amount          decimal.Decimal      `json:"amount"` // always positive
	Currency        valueobject.Currency `json:"currency"`
	Status          EntryStatus          `json:"status"`
	TransactionDate time.Time            `json:"transaction_date"`
	DueDate         *time.Time           `json:"due_date"`
	PaymentMethod   PaymentMethod        `json:"payment_method"`
	ReferenceNumber string               `json:"reference_number"`
	Description     string               `json:"description"`
	LinkedType      LinkTargetType       `json:"source_type"` // invoice/record this payment was made against
	LinkedID        *uuid.UUID           `json:"source_id"`
	Metadata        Metadata             `json:"metadata"`
	CapturedAt      *time.Time           `json:"captured_at"`
	VoidedAt        *time.Time           `json:"voided_at"`
}

// NewPaymentEntryParams carries the creation payload for a payment entry
type NewPaymentEntryParams struct {
	TenantUnitID    *uuid.UUID
	PaymentType     PaymentType
	FlowDirection   FlowDirection
	Amount          decimal.Decimal
	Currency        valueobject.Currency
	Status          EntryStatus
	TransactionDate time.Time
	DueDate         *time.Time
	PaymentMethod   PaymentMethod
	ReferenceNumber string
	Description     string
	LinkedType      LinkTargetType
	LinkedID        *uuid.UUID
	Metadata        Metadata
}

// NewPaymentEntry creates a new payment entry owned by the given actor
func NewPaymentEntry(landlordID, createdBy uuid.UUID, p NewPaymentEntryParams) (*PaymentEntry, error) {
	if landlordID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LANDLORD", "Landlord ID cannot be empty")
	}
	if !p.PaymentType.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_TYPE", "Payment type is not valid")
	}
	if p.FlowDirection == "" {
		p.FlowDirection = p.PaymentType.DefaultDirection()
	}
	if !p.FlowDirection.IsValid() {
		return nil, shared.NewDomainError("INVALID_FLOW_DIRECTION", "Flow direction is not valid")
	}
	if p.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if p.Currency == "" {
		p.Currency = valueobject.DefaultCurrency
	}
	switch p.Status {
	case "":
		p.Status = EntryStatusDraft
	case EntryStatusDraft, EntryStatusPending, EntryStatusScheduled, EntryStatusCompleted:
	default:
		return nil, shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Cannot create payment entry in %s status", p.Status))
	}
	if p.PaymentMethod != "" && !p.PaymentMethod.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method is not valid")
	}
	if (p.LinkedType == "") != (p.LinkedID == nil) {
		return nil, shared.NewDomainError("INVALID_LINK", "Source type and source ID must be set together")
	}
	if p.TransactionDate.IsZero() {
		p.TransactionDate = time.Now()
	}
	if p.Metadata == nil {
		p.Metadata = Metadata{}
	}

	e := &PaymentEntry{
		LandlordAggregateRoot: shared.NewLandlordAggregateRootWithCreator(landlordID, createdBy),
		TenantUnitID:          p.TenantUnitID,
		PaymentType:           p.PaymentType,
		FlowDirection:         p.FlowDirection,
		Amount:                p.Amount,
		Currency:              p.Currency,
		Status:                p.Status,
		TransactionDate:       p.TransactionDate,
		DueDate:               p.DueDate,
		PaymentMethod:         p.PaymentMethod,
		ReferenceNumber:       p.ReferenceNumber,
		Description:           p.Description,
		LinkedType:            p.LinkedType,
		LinkedID:              p.LinkedID,
		Metadata:              p.Metadata,
	}

	// Entries created directly in completed state count as captured immediately
	if e.Status == EntryStatusCompleted {
		now := time.Now()
		e.CapturedAt = &now
	}

	e.AddDomainEvent(NewPaymentEntryCreatedEvent(e))

	return e, nil
}

// Capture marks the entry as completed. Valid only from non-terminal states.
func (e *PaymentEntry) Capture() error {
	if e.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot capture payment entry in %s status", e.Status))
	}

	now := time.Now()
	e.Status = EntryStatusCompleted
	e.CapturedAt = &now
	e.UpdatedAt = now
	e.IncrementVersion()

	e.AddDomainEvent(NewPaymentEntryCapturedEvent(e))

	return nil
}

// Void cancels the entry. Valid only from non-terminal states.
func (e *PaymentEntry) Void(reason string) error {
	if e.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot void payment entry in %s status", e.Status))
	}

	now := time.Now()
	e.Status = EntryStatusCancelled
	e.VoidedAt = &now
	if reason != "" {
		e.Metadata["void_reason"] = reason
	}
	e.UpdatedAt = now
	e.IncrementVersion()

	e.AddDomainEvent(NewPaymentEntryVoidedEvent(e, reason))

	return nil
}

// CompositeID returns the entry's identity in the unified ledger
func (e *PaymentEntry) CompositeID() string {
	return CompositeID(SourceKindNative, e.ID)
}

// IsTerminal returns true once the entry is captured or voided
func (e *PaymentEntry) IsTerminal() bool {
	return e.Status.IsTerminal()
}

// GetAmountMoney returns the amount as Money value object
func (e *PaymentEntry) GetAmountMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(e.Amount, e.Currency)
	return m
}
