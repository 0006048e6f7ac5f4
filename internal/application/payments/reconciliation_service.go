package payments

import (
	"context"
	"errors"
	"fmt"
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

// ReconciliationService derives invoice payment status from the unified
// ledger. Matching and settlement are recomputed from source records on
// every run, so the result self-corrects when payments are voided or
// relinked.
type ReconciliationService struct {
	ledgerService   *LedgerService
	recordRepo      ledger.FinancialRecordRepository
	rentRepo        billing.RentInvoiceRepository
	maintenanceRepo billing.MaintenanceInvoiceRepository
	eventPublisher  shared.EventPublisher
}

// NewReconciliationService creates a new ReconciliationService
func NewReconciliationService(
	ledgerService *LedgerService,
	recordRepo ledger.FinancialRecordRepository,
	rentRepo billing.RentInvoiceRepository,
	maintenanceRepo billing.MaintenanceInvoiceRepository,
	eventPublisher shared.EventPublisher,
) *ReconciliationService {
	return &ReconciliationService{
		ledgerService:   ledgerService,
		recordRepo:      recordRepo,
		rentRepo:        rentRepo,
		maintenanceRepo: maintenanceRepo,
		eventPublisher:  eventPublisher,
	}
}

// InvoiceReconciliation is the computed payment state for one invoice
type InvoiceReconciliation struct {
	InvoiceID     uuid.UUID             `json:"invoice_id"`
	Kind          ledger.LinkTargetType `json:"kind"`
	InvoiceNumber string                `json:"invoice_number"`
	DueDate       time.Time             `json:"due_date"`
	AmountDue     decimal.Decimal       `json:"amount_due"`
	MatchedTotal  decimal.Decimal       `json:"matched_total"`
	Remaining     decimal.Decimal       `json:"remaining"`
	Settled       bool                  `json:"settled"`
}

// ReconcileRentInvoice recomputes the payment state of one rent invoice
// and settles it when matched payments cover the amount due.
func (s *ReconciliationService) ReconcileRentInvoice(ctx context.Context, landlordID, invoiceID uuid.UUID) (*InvoiceReconciliation, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "reconciliation", "reconcile_rent_invoice")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrLandlordID, landlordID.String(),
		telemetry.SpanAttrInvoiceID, invoiceID.String(),
	)

	invoice, err := s.rentRepo.FindByIDForLandlord(ctx, invoiceID, landlordID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	target := billing.ChargeTarget{
		ID:            invoice.ID,
		Kind:          ledger.LinkTargetRentInvoice,
		InvoiceNumber: invoice.InvoiceNumber,
		AmountDue:     invoice.AmountDue(),
	}

	outcome, err := s.matchTargets(ctx, landlordID, []billing.ChargeTarget{target})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	reconciled := billing.Reconcile(invoice.AmountDue(), outcome.Total(invoice.ID))

	if reconciled.Settled && invoice.Status.CanAcceptPayment() {
		if err := s.settleRentInvoice(ctx, invoice); err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
	}

	return &InvoiceReconciliation{
		InvoiceID:     invoice.ID,
		Kind:          ledger.LinkTargetRentInvoice,
		InvoiceNumber: invoice.InvoiceNumber,
		DueDate:       invoice.DueDate,
		AmountDue:     invoice.AmountDue(),
		MatchedTotal:  reconciled.MatchedTotal,
		Remaining:     reconciled.Remaining,
		Settled:       reconciled.Settled || invoice.Status == billing.RentInvoiceStatusPaid,
	}, nil
}

// ReconcileMaintenanceInvoice recomputes the payment state of one
// maintenance invoice and settles it when covered.
func (s *ReconciliationService) ReconcileMaintenanceInvoice(ctx context.Context, landlordID, invoiceID uuid.UUID) (*InvoiceReconciliation, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "reconciliation", "reconcile_maintenance_invoice")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrLandlordID, landlordID.String(),
		telemetry.SpanAttrInvoiceID, invoiceID.String(),
	)

	invoice, err := s.maintenanceRepo.FindByIDForLandlord(ctx, invoiceID, landlordID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	target := billing.ChargeTarget{
		ID:            invoice.ID,
		Kind:          ledger.LinkTargetMaintenanceInvoice,
		InvoiceNumber: invoice.InvoiceNumber,
		AmountDue:     invoice.AmountDue(),
	}

	outcome, err := s.matchTargets(ctx, landlordID, []billing.ChargeTarget{target})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	reconciled := billing.Reconcile(invoice.AmountDue(), outcome.Total(invoice.ID))

	if reconciled.Settled && invoice.Status.CanAcceptPayment() {
		if err := s.settleMaintenanceInvoice(ctx, invoice); err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
	}

	return &InvoiceReconciliation{
		InvoiceID:     invoice.ID,
		Kind:          ledger.LinkTargetMaintenanceInvoice,
		InvoiceNumber: invoice.InvoiceNumber,
		DueDate:       invoice.DueDate,
		AmountDue:     invoice.AmountDue(),
		MatchedTotal:  reconciled.MatchedTotal,
		Remaining:     reconciled.Remaining,
		Settled:       reconciled.Settled || invoice.Status == billing.MaintenanceInvoiceStatusPaid,
	}, nil
}

// ReconcileLinkedInvoice re-runs reconciliation for the invoice a payment
// entry points at. Called after capture and void so invoice status follows
// the payment's lifecycle in both directions.
func (s *ReconciliationService) ReconcileLinkedInvoice(ctx context.Context, landlordID uuid.UUID, linkedType ledger.LinkTargetType, linkedID *uuid.UUID) {
	if linkedID == nil {
		return
	}

	var err error
	switch linkedType {
	case ledger.LinkTargetRentInvoice:
		_, err = s.ReconcileRentInvoice(ctx, landlordID, *linkedID)
	case ledger.LinkTargetMaintenanceInvoice:
		_, err = s.ReconcileMaintenanceInvoice(ctx, landlordID, *linkedID)
	default:
		return
	}
	if err != nil {
		logger.L(ctx).Warn("linked invoice reconciliation failed",
			zap.String("linked_type", string(linkedType)),
			zap.String("linked_id", linkedID.String()),
			zap.Error(err))
	}
}

// PendingCharge is one open charge of a lease, presented with its
// remaining balance after matching.
type PendingCharge struct {
	ID                   uuid.UUID             `json:"id"`
	SourceType           ledger.LinkTargetType `json:"source_type"`
	SourceID             uuid.UUID             `json:"source_id"`
	TenantUnitID         uuid.UUID             `json:"tenant_unit_id"`
	Title                string                `json:"title"`
	Description          string                `json:"description"`
	Status               string                `json:"status"`
	DueDate              time.Time             `json:"due_date"`
	IssuedDate           time.Time             `json:"issued_date"`
	Amount               decimal.Decimal       `json:"amount"`
	OriginalAmount       decimal.Decimal       `json:"original_amount"`
	Currency             valueobject.Currency  `json:"currency"`
	Metadata             map[string]string     `json:"metadata"`
	SuggestedPaymentType ledger.PaymentType    `json:"suggested_payment_type"`
	SupportsPartial      bool                  `json:"supports_partial"`
	MatchedTotal         decimal.Decimal       `json:"matched_total"`
	Settled              bool                  `json:"settled"`
}

// ListPendingCharges returns every open invoice for a lease with its
// matched and remaining amounts. Invoices found fully covered settle as a
// side effect.
func (s *ReconciliationService) ListPendingCharges(ctx context.Context, landlordID, tenantUnitID uuid.UUID) ([]PendingCharge, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "reconciliation", "list_pending_charges")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrLandlordID, landlordID.String(),
		telemetry.SpanAttrTenantUnitID, tenantUnitID.String(),
	)

	rentInvoices, err := s.rentRepo.FindOpenByTenantUnit(ctx, landlordID, tenantUnitID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to load open rent invoices: %w", err)
	}
	maintenanceInvoices, err := s.maintenanceRepo.FindOpenByTenantUnit(ctx, landlordID, tenantUnitID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to load open maintenance invoices: %w", err)
	}

	targets := make([]billing.ChargeTarget, 0, len(rentInvoices)+len(maintenanceInvoices))
	for _, inv := range rentInvoices {
		targets = append(targets, billing.ChargeTarget{
			ID:            inv.ID,
			Kind:          ledger.LinkTargetRentInvoice,
			InvoiceNumber: inv.InvoiceNumber,
			AmountDue:     inv.AmountDue(),
		})
	}
	for _, inv := range maintenanceInvoices {
		targets = append(targets, billing.ChargeTarget{
			ID:            inv.ID,
			Kind:          ledger.LinkTargetMaintenanceInvoice,
			InvoiceNumber: inv.InvoiceNumber,
			AmountDue:     inv.AmountDue(),
		})
	}
	if len(targets) == 0 {
		return []PendingCharge{}, nil
	}

	// one matching pass across all open invoices, so every payment entry
	// is claimed by at most one of them
	outcome, err := s.matchTargets(ctx, landlordID, targets)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	currency := s.ledgerService.DisplayCurrency(ctx, landlordID)

	charges := make([]PendingCharge, 0, len(targets))
	for _, inv := range rentInvoices {
		reconciled := billing.Reconcile(inv.AmountDue(), outcome.Total(inv.ID))
		if reconciled.Settled && inv.Status.CanAcceptPayment() {
			if err := s.settleRentInvoice(ctx, inv); err != nil {
				telemetry.RecordError(span, err)
				return nil, err
			}
		}
		metadata := map[string]string{"invoice_number": inv.InvoiceNumber}
		if inv.AdvanceRentApplied.IsPositive() {
			metadata["advance_rent_applied"] = inv.AdvanceRentApplied.String()
		}
		charges = append(charges, PendingCharge{
			ID:                   inv.ID,
			SourceType:           ledger.LinkTargetRentInvoice,
			SourceID:             inv.ID,
			TenantUnitID:         inv.TenantUnitID,
			Title:                fmt.Sprintf("Rent invoice %s", inv.InvoiceNumber),
			Description:          fmt.Sprintf("Rent for the period starting %s", inv.PeriodStart.Format("2006-01-02")),
			Status:               string(inv.Status),
			DueDate:              inv.DueDate,
			IssuedDate:           inv.CreatedAt,
			Amount:               reconciled.Remaining,
			OriginalAmount:       inv.AmountDue(),
			Currency:             currency,
			Metadata:             metadata,
			SuggestedPaymentType: ledger.PaymentTypeRent,
			SupportsPartial:      true,
			MatchedTotal:         reconciled.MatchedTotal,
			Settled:              reconciled.Settled,
		})
	}
	for _, inv := range maintenanceInvoices {
		reconciled := billing.Reconcile(inv.AmountDue(), outcome.Total(inv.ID))
		if reconciled.Settled && inv.Status.CanAcceptPayment() {
			if err := s.settleMaintenanceInvoice(ctx, inv); err != nil {
				telemetry.RecordError(span, err)
				return nil, err
			}
		}
		charges = append(charges, PendingCharge{
			ID:                   inv.ID,
			SourceType:           ledger.LinkTargetMaintenanceInvoice,
			SourceID:             inv.ID,
			TenantUnitID:         inv.TenantUnitID,
			Title:                fmt.Sprintf("Maintenance invoice %s", inv.InvoiceNumber),
			Description:          inv.Description,
			Status:               string(inv.Status),
			DueDate:              inv.DueDate,
			IssuedDate:           inv.CreatedAt,
			Amount:               reconciled.Remaining,
			OriginalAmount:       inv.AmountDue(),
			Currency:             currency,
			Metadata:             map[string]string{"invoice_number": inv.InvoiceNumber},
			SuggestedPaymentType: ledger.PaymentTypeMaintenanceExpense,
			SupportsPartial:      true,
			MatchedTotal:         reconciled.MatchedTotal,
			Settled:              reconciled.Settled,
		})
	}

	return charges, nil
}

// matchTargets runs the three-phase matcher over the landlord's full
// normalized ledger
func (s *ReconciliationService) matchTargets(ctx context.Context, landlordID uuid.UUID, targets []billing.ChargeTarget) (billing.MatchResult, error) {
	entries, err := s.ledgerService.GatherEntries(ctx, landlordID)
	if err != nil {
		return nil, err
	}
	records, err := s.recordRepo.FindByLandlord(ctx, landlordID)
	if err != nil {
		return nil, fmt.Errorf("failed to load financial records: %w", err)
	}

	matcher := billing.NewMatcher(records)
	return matcher.Match(targets, entries), nil
}

// settleRentInvoice persists a computed settlement. A concurrent writer
// winning the version race is not an error: the reconciliation result is
// still returned and the next run sees the fresher row.
func (s *ReconciliationService) settleRentInvoice(ctx context.Context, invoice *billing.RentInvoice) error {
	if err := invoice.Settle(time.Now()); err != nil {
		return err
	}
	if err := s.rentRepo.SaveWithLock(ctx, invoice); err != nil {
		if errors.Is(err, shared.ErrConcurrencyConflict) {
			logger.L(ctx).Warn("invoice settlement lost version race",
				zap.String("invoice_id", invoice.ID.String()))
			return nil
		}
		return err
	}
	s.publishEvents(ctx, invoice.GetDomainEvents())
	invoice.ClearDomainEvents()
	return nil
}

func (s *ReconciliationService) settleMaintenanceInvoice(ctx context.Context, invoice *billing.MaintenanceInvoice) error {
	if err := invoice.Settle(time.Now()); err != nil {
		return err
	}
	if err := s.maintenanceRepo.SaveWithLock(ctx, invoice); err != nil {
		if errors.Is(err, shared.ErrConcurrencyConflict) {
			logger.L(ctx).Warn("invoice settlement lost version race",
				zap.String("invoice_id", invoice.ID.String()))
			return nil
		}
		return err
	}
	s.publishEvents(ctx, invoice.GetDomainEvents())
	invoice.ClearDomainEvents()
	return nil
}

// publishEvents is best effort; handlers log their own failures
func (s *ReconciliationService) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		logger.L(ctx).Warn("failed to publish domain events", zap.Error(err))
	}
}
