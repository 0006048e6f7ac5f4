package payments

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rentledger/backend/internal/domain/billing"
	"github.com/rentledger/backend/internal/domain/ledger"
	"github.com/rentledger/backend/internal/domain/shared"
	"github.com/rentledger/backend/internal/infrastructure/logger"
	"github.com/rentledger/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// TxManager runs a function inside a database transaction
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// AdvanceRentService manages the advance-rent credit pool: collecting
// credit up front and drawing it down against rent invoices oldest first.
// All writes of one run share a transaction, so the pool and the invoices
// can never disagree.
type AdvanceRentService struct {
	unitRepo       billing.TenantUnitRepository
	rentRepo       billing.RentInvoiceRepository
	entryRepo      ledger.PaymentEntryRepository
	txManager      TxManager
	eventPublisher shared.EventPublisher
}

// NewAdvanceRentService creates a new AdvanceRentService
func NewAdvanceRentService(
	unitRepo billing.TenantUnitRepository,
	rentRepo billing.RentInvoiceRepository,
	entryRepo ledger.PaymentEntryRepository,
	txManager TxManager,
	eventPublisher shared.EventPublisher,
) *AdvanceRentService {
	return &AdvanceRentService{
		unitRepo:       unitRepo,
		rentRepo:       rentRepo,
		entryRepo:      entryRepo,
		txManager:      txManager,
		eventPublisher: eventPublisher,
	}
}

// CollectAdvanceRentInput carries an up-front advance-rent collection
type CollectAdvanceRentInput struct {
	TenantUnitID    uuid.UUID
	Months          int
	Amount          decimal.Decimal
	PaymentMethod   ledger.PaymentMethod
	ReferenceNumber string
	TransactionDate time.Time
}

// AdvanceRentResult summarizes a collection or retroactive application run
type AdvanceRentResult struct {
	TenantUnitID     uuid.UUID                    `json:"tenant_unit_id"`
	PaymentEntryID   *uuid.UUID                   `json:"payment_entry_id,omitempty"`
	AdvanceRemaining decimal.Decimal              `json:"advance_remaining"`
	Processed        int                          `json:"processed"`
	TotalApplied     decimal.Decimal              `json:"total_applied"`
	Applications     []billing.AdvanceApplication `json:"applications"`
}

// CollectAdvanceRent records an advance-rent collection: the credit pool
// grows, a completed payment entry documents the money received, and the
// new credit is immediately drawn down against open invoices oldest first.
func (s *AdvanceRentService) CollectAdvanceRent(ctx context.Context, landlordID, userID uuid.UUID, input CollectAdvanceRentInput) (*AdvanceRentResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "advance_rent", "collect")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrLandlordID, landlordID.String(),
		telemetry.SpanAttrTenantUnitID, input.TenantUnitID.String(),
		telemetry.SpanAttrAmount, input.Amount.String(),
	)

	var result *AdvanceRentResult
	var collectedUnit *billing.TenantUnit

	err := s.txManager.WithinTx(ctx, func(txCtx context.Context) error {
		unit, err := s.unitRepo.FindByIDForLandlord(txCtx, input.TenantUnitID, landlordID)
		if err != nil {
			return err
		}

		if err := unit.CollectAdvance(input.Months, input.Amount); err != nil {
			return err
		}

		entry, err := ledger.NewPaymentEntry(landlordID, userID, ledger.NewPaymentEntryParams{
			TenantUnitID:    &unit.ID,
			PaymentType:     ledger.PaymentTypeRent,
			FlowDirection:   ledger.FlowIncome,
			Amount:          input.Amount,
			Currency:        unit.Currency,
			Status:          ledger.EntryStatusCompleted,
			TransactionDate: input.TransactionDate,
			PaymentMethod:   input.PaymentMethod,
			ReferenceNumber: input.ReferenceNumber,
			Description:     fmt.Sprintf("Advance rent collection for %d month(s)", input.Months),
			Metadata: ledger.Metadata{
				"advance_rent":        "true",
				"advance_rent_months": strconv.Itoa(input.Months),
			},
		})
		if err != nil {
			return err
		}
		if err := s.entryRepo.Save(txCtx, entry); err != nil {
			return fmt.Errorf("failed to save advance rent payment entry: %w", err)
		}

		allocation, err := s.allocate(txCtx, landlordID, unit)
		if err != nil {
			return err
		}

		collectedUnit = unit
		entryID := entry.ID
		result = &AdvanceRentResult{
			TenantUnitID:     unit.ID,
			PaymentEntryID:   &entryID,
			AdvanceRemaining: unit.AdvanceRemaining(),
			Processed:        allocation.Processed,
			TotalApplied:     allocation.TotalApplied,
			Applications:     allocation.Applications,
		}
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.publishEvents(ctx, collectedUnit)
	return result, nil
}

// RetroactivelyApplyAdvanceRent re-runs the oldest-first draw-down for a
// lease. Safe to call any number of times: invoices remember the credit
// they already absorbed, so a repeat run applies nothing new.
func (s *AdvanceRentService) RetroactivelyApplyAdvanceRent(ctx context.Context, landlordID, tenantUnitID uuid.UUID) (*AdvanceRentResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "advance_rent", "retroactive_apply")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrLandlordID, landlordID.String(),
		telemetry.SpanAttrTenantUnitID, tenantUnitID.String(),
	)

	var result *AdvanceRentResult
	var appliedUnit *billing.TenantUnit

	err := s.txManager.WithinTx(ctx, func(txCtx context.Context) error {
		unit, err := s.unitRepo.FindByIDForLandlord(txCtx, tenantUnitID, landlordID)
		if err != nil {
			return err
		}

		allocation, err := s.allocate(txCtx, landlordID, unit)
		if err != nil {
			return err
		}

		appliedUnit = unit
		result = &AdvanceRentResult{
			TenantUnitID:     unit.ID,
			AdvanceRemaining: unit.AdvanceRemaining(),
			Processed:        allocation.Processed,
			TotalApplied:     allocation.TotalApplied,
			Applications:     allocation.Applications,
		}
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.publishEvents(ctx, appliedUnit)
	return result, nil
}

// allocate draws down the unit's credit against its open invoices and
// persists everything the allocation touched
func (s *AdvanceRentService) allocate(ctx context.Context, landlordID uuid.UUID, unit *billing.TenantUnit) (*billing.AdvanceAllocationResult, error) {
	invoices, err := s.rentRepo.FindOpenByTenantUnit(ctx, landlordID, unit.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load open rent invoices: %w", err)
	}

	allocation, err := billing.AllocateAdvanceRent(unit, invoices)
	if err != nil {
		return nil, err
	}

	for _, application := range allocation.Applications {
		for _, inv := range invoices {
			if inv.ID != application.InvoiceID {
				continue
			}
			if err := s.rentRepo.SaveWithLock(ctx, inv); err != nil {
				return nil, fmt.Errorf("failed to save invoice %s: %w", inv.InvoiceNumber, err)
			}
			break
		}
	}

	if err := s.unitRepo.SaveWithLock(ctx, unit); err != nil {
		return nil, fmt.Errorf("failed to save tenant unit: %w", err)
	}

	return allocation, nil
}

func (s *AdvanceRentService) publishEvents(ctx context.Context, unit *billing.TenantUnit) {
	if s.eventPublisher == nil || unit == nil {
		return
	}
	events := unit.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		logger.L(ctx).Warn("failed to publish advance rent events", zap.Error(err))
	}
	unit.ClearDomainEvents()
}
