package event

import (
	"context"

	"github.com/rentledger/backend/internal/domain/ledger"
	"github.com/rentledger/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// PaymentNotificationHandler reacts to payment entry lifecycle events.
// Notification delivery is best-effort: a failure here never affects the
// payment transaction that raised the event.
type PaymentNotificationHandler struct {
	logger *zap.Logger
}

// NewPaymentNotificationHandler creates a new PaymentNotificationHandler
func NewPaymentNotificationHandler(logger *zap.Logger) *PaymentNotificationHandler {
	return &PaymentNotificationHandler{
		logger: logger.Named("payment_notifications"),
	}
}

// EventTypes returns the event types this handler is interested in
func (h *PaymentNotificationHandler) EventTypes() []string {
	return []string{
		ledger.EventTypePaymentEntryCaptured,
		ledger.EventTypePaymentEntryVoided,
	}
}

// Handle processes a payment entry event
func (h *PaymentNotificationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *ledger.PaymentEntryCapturedEvent:
		h.logger.Info("payment captured",
			zap.String("entry_id", e.EntryID.String()),
			zap.String("landlord_id", e.LandlordID().String()),
			zap.String("payment_type", string(e.PaymentType)),
			zap.String("amount", e.Amount.String()),
		)
	case *ledger.PaymentEntryVoidedEvent:
		h.logger.Info("payment voided",
			zap.String("entry_id", e.EntryID.String()),
			zap.String("landlord_id", e.LandlordID().String()),
			zap.String("reason", e.Reason),
		)
	default:
		h.logger.Debug("ignoring unexpected event", zap.String("event_type", event.EventType()))
	}
	return nil
}

var _ shared.EventHandler = (*PaymentNotificationHandler)(nil)
