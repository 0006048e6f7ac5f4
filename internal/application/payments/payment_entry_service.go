package payments

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rentledger/backend/internal/domain/billing"
	"github.com/rentledger/backend/internal/domain/ledger"
	"github.com/rentledger/backend/internal/domain/shared"
	"github.com/rentledger/backend/internal/domain/shared/valueobject"
	"github.com/rentledger/backend/internal/infrastructure/logger"
	"github.com/rentledger/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PaymentEntryService owns the native payment entry lifecycle: create,
// capture, void. Capture and void feed straight back into invoice
// reconciliation so linked invoices track the payment's real state.
type PaymentEntryService struct {
	entryRepo      ledger.PaymentEntryRepository
	unitRepo       billing.TenantUnitRepository
	reconciliation *ReconciliationService
	eventPublisher shared.EventPublisher
}

// NewPaymentEntryService creates a new PaymentEntryService
func NewPaymentEntryService(
	entryRepo ledger.PaymentEntryRepository,
	unitRepo billing.TenantUnitRepository,
	reconciliation *ReconciliationService,
	eventPublisher shared.EventPublisher,
) *PaymentEntryService {
	return &PaymentEntryService{
		entryRepo:      entryRepo,
		unitRepo:       unitRepo,
		reconciliation: reconciliation,
		eventPublisher: eventPublisher,
	}
}

// CreatePaymentEntryInput carries the creation payload
type CreatePaymentEntryInput struct {
	TenantUnitID    *uuid.UUID
	PaymentType     ledger.PaymentType
	FlowDirection   ledger.FlowDirection
	Amount          decimal.Decimal
	Currency        valueobject.Currency
	Status          ledger.EntryStatus
	TransactionDate time.Time
	DueDate         *time.Time
	PaymentMethod   ledger.PaymentMethod
	ReferenceNumber string
	Description     string
	LinkedType      ledger.LinkTargetType
	LinkedID        *uuid.UUID
	Metadata        map[string]string
}

// Create records a new payment entry for a landlord. A lease reference is
// verified to belong to the same landlord before anything is written.
func (s *PaymentEntryService) Create(ctx context.Context, landlordID, userID uuid.UUID, input CreatePaymentEntryInput) (*ledger.PaymentEntry, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment_entry", "create")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrLandlordID, landlordID.String(),
		telemetry.SpanAttrPaymentType, string(input.PaymentType),
		telemetry.SpanAttrAmount, input.Amount.String(),
	)

	if input.TenantUnitID != nil {
		unit, err := s.unitRepo.FindByID(ctx, *input.TenantUnitID)
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
		if unit.LandlordID != landlordID {
			telemetry.RecordError(span, shared.ErrForbidden)
			return nil, shared.ErrForbidden
		}
	}

	entry, err := ledger.NewPaymentEntry(landlordID, userID, ledger.NewPaymentEntryParams{
		TenantUnitID:    input.TenantUnitID,
		PaymentType:     input.PaymentType,
		FlowDirection:   input.FlowDirection,
		Amount:          input.Amount,
		Currency:        input.Currency,
		Status:          input.Status,
		TransactionDate: input.TransactionDate,
		DueDate:         input.DueDate,
		PaymentMethod:   input.PaymentMethod,
		ReferenceNumber: input.ReferenceNumber,
		Description:     input.Description,
		LinkedType:      input.LinkedType,
		LinkedID:        input.LinkedID,
		Metadata:        input.Metadata,
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.entryRepo.Save(ctx, entry); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.publishEvents(ctx, entry)

	// an entry born completed immediately counts toward its linked invoice
	if entry.Status == ledger.EntryStatusCompleted {
		s.reconciliation.ReconcileLinkedInvoice(ctx, landlordID, entry.LinkedType, entry.LinkedID)
	}

	telemetry.SetAttribute(span, telemetry.SpanAttrEntryID, entry.ID.String())
	return entry, nil
}

// Get returns one payment entry scoped to the landlord
func (s *PaymentEntryService) Get(ctx context.Context, landlordID, entryID uuid.UUID) (*ledger.PaymentEntry, error) {
	return s.entryRepo.FindByIDForLandlord(ctx, entryID, landlordID)
}

// Capture completes a payment entry and re-reconciles its linked invoice
func (s *PaymentEntryService) Capture(ctx context.Context, landlordID, entryID uuid.UUID) (*ledger.PaymentEntry, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment_entry", "capture")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrLandlordID, landlordID.String(),
		telemetry.SpanAttrEntryID, entryID.String(),
	)

	entry, err := s.entryRepo.FindByIDForLandlord(ctx, entryID, landlordID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := entry.Capture(); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.entryRepo.SaveWithLock(ctx, entry); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.publishEvents(ctx, entry)
	s.reconciliation.ReconcileLinkedInvoice(ctx, landlordID, entry.LinkedType, entry.LinkedID)

	return entry, nil
}

// Void cancels a payment entry and re-reconciles its linked invoice, which
// may surface a previously settled charge as outstanding again.
func (s *PaymentEntryService) Void(ctx context.Context, landlordID, entryID uuid.UUID, reason string) (*ledger.PaymentEntry, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment_entry", "void")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrLandlordID, landlordID.String(),
		telemetry.SpanAttrEntryID, entryID.String(),
	)

	entry, err := s.entryRepo.FindByIDForLandlord(ctx, entryID, landlordID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := entry.Void(reason); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.entryRepo.SaveWithLock(ctx, entry); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.publishEvents(ctx, entry)
	s.reconciliation.ReconcileLinkedInvoice(ctx, landlordID, entry.LinkedType, entry.LinkedID)

	return entry, nil
}

func (s *PaymentEntryService) publishEvents(ctx context.Context, entry *ledger.PaymentEntry) {
	if s.eventPublisher == nil {
		return
	}
	events := entry.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		logger.L(ctx).Warn("failed to publish payment entry events", zap.Error(err))
	}
	entry.ClearDomainEvents()
}
