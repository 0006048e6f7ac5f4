package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/rentledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event type names for payment entry lifecycle events
const (
	EventTypePaymentEntryCreated  = "payment_entry.created"
	EventTypePaymentEntryCaptured = "payment_entry.captured"
	EventTypePaymentEntryVoided   = "payment_entry.voided"
)

// PaymentEntryCreatedEvent is raised when a new payment entry is created
type PaymentEntryCreatedEvent struct {
	shared.BaseDomainEvent
	EntryID       uuid.UUID       `json:"entry_id"`
	TenantUnitID  *uuid.UUID      `json:"tenant_unit_id"`
	PaymentType   PaymentType     `json:"payment_type"`
	FlowDirection FlowDirection   `json:"flow_direction"`
	Amount        decimal.Decimal `json:"amount"`
	Status        EntryStatus     `json:"status"`
}

// NewPaymentEntryCreatedEvent creates a new PaymentEntryCreatedEvent
func NewPaymentEntryCreatedEvent(e *PaymentEntry) *PaymentEntryCreatedEvent {
	return &PaymentEntryCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentEntryCreated, "PaymentEntry", e.ID, e.LandlordID),
		EntryID:         e.ID,
		TenantUnitID:    e.TenantUnitID,
		PaymentType:     e.PaymentType,
		FlowDirection:   e.FlowDirection,
		Amount:          e.Amount,
		Status:          e.Status,
	}
}

// PaymentEntryCapturedEvent is raised when a payment entry is captured
type PaymentEntryCapturedEvent struct {
	shared.BaseDomainEvent
	EntryID      uuid.UUID       `json:"entry_id"`
	TenantUnitID *uuid.UUID      `json:"tenant_unit_id"`
	PaymentType  PaymentType     `json:"payment_type"`
	Amount       decimal.Decimal `json:"amount"`
	LinkedType   LinkTargetType  `json:"source_type"`
	LinkedID     *uuid.UUID      `json:"source_id"`
	CapturedAt   time.Time       `json:"captured_at"`
}

// NewPaymentEntryCapturedEvent creates a new PaymentEntryCapturedEvent
func NewPaymentEntryCapturedEvent(e *PaymentEntry) *PaymentEntryCapturedEvent {
	var capturedAt time.Time
	if e.CapturedAt != nil {
		capturedAt = *e.CapturedAt
	}
	return &PaymentEntryCapturedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentEntryCaptured, "PaymentEntry", e.ID, e.LandlordID),
		EntryID:         e.ID,
		TenantUnitID:    e.TenantUnitID,
		PaymentType:     e.PaymentType,
		Amount:          e.Amount,
		LinkedType:      e.LinkedType,
		LinkedID:        e.LinkedID,
		CapturedAt:      capturedAt,
	}
}

// PaymentEntryVoidedEvent is raised when a payment entry is voided
type PaymentEntryVoidedEvent struct {
	shared.BaseDomainEvent
	EntryID      uuid.UUID       `json:"entry_id"`
	TenantUnitID *uuid.UUID      `json:"tenant_unit_id"`
	PaymentType  PaymentType     `json:"payment_type"`
	Amount       decimal.Decimal `json:"amount"`
	LinkedType   LinkTargetType  `json:"source_type"`
	LinkedID     *uuid.UUID      `json:"source_id"`
	Reason       string          `json:"reason"`
	VoidedAt     time.Time       `json:"voided_at"`
}

// NewPaymentEntryVoidedEvent creates a new PaymentEntryVoidedEvent
func NewPaymentEntryVoidedEvent(e *PaymentEntry, reason string) *PaymentEntryVoidedEvent {
	var voidedAt time.Time
	if e.VoidedAt != nil {
		voidedAt = *e.VoidedAt
	}
	return &PaymentEntryVoidedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentEntryVoided, "PaymentEntry", e.ID, e.LandlordID),
		EntryID:         e.ID,
		TenantUnitID:    e.TenantUnitID,
		PaymentType:     e.PaymentType,
		Amount:          e.Amount,
		LinkedType:      e.LinkedType,
		LinkedID:        e.LinkedID,
		Reason:          reason,
		VoidedAt:        voidedAt,
	}
}
