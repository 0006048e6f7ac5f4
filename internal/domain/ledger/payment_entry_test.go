package ledger

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rentledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validParams() NewPaymentEntryParams {
	return NewPaymentEntryParams{
		PaymentType: PaymentTypeRent,
		Amount:      decimal.NewFromFloat(1000.00),
	}
}

func TestNewPaymentEntry(t *testing.T) {
	landlordID := uuid.New()
	creatorID := uuid.New()

	e, err := NewPaymentEntry(landlordID, creatorID, validParams())
	require.NoError(t, err)

	assert.Equal(t, landlordID, e.LandlordID)
	assert.Equal(t, EntryStatusDraft, e.Status, "entries start as drafts by default")
	assert.Equal(t, FlowIncome, e.FlowDirection, "direction derived from payment type")
	assert.Equal(t, 1, e.Version)
	assert.Nil(t, e.CapturedAt)
	assert.Len(t, e.GetDomainEvents(), 1)
	assert.Equal(t, EventTypePaymentEntryCreated, e.GetDomainEvents()[0].EventType())
}

func TestNewPaymentEntry_Validation(t *testing.T) {
	landlordID := uuid.New()
	invoiceID := uuid.New()

	tests := []struct {
		name   string
		mutate func(*NewPaymentEntryParams)
	}{
		{"zero amount", func(p *NewPaymentEntryParams) { p.Amount = decimal.Zero }},
		{"negative amount", func(p *NewPaymentEntryParams) { p.Amount = decimal.NewFromFloat(-5) }},
		{"invalid payment type", func(p *NewPaymentEntryParams) { p.PaymentType = "bribery" }},
		{"invalid payment method", func(p *NewPaymentEntryParams) { p.PaymentMethod = "goats" }},
		{"terminal creation status", func(p *NewPaymentEntryParams) { p.Status = EntryStatusCancelled }},
		{"link type without id", func(p *NewPaymentEntryParams) { p.LinkedType = LinkTargetRentInvoice }},
		{"link id without type", func(p *NewPaymentEntryParams) { p.LinkedID = &invoiceID }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := validParams()
			tt.mutate(&params)

			_, err := NewPaymentEntry(landlordID, uuid.New(), params)
			require.Error(t, err)

			var domainErr *shared.DomainError
			assert.True(t, errors.As(err, &domainErr))
		})
	}

	t.Run("empty landlord", func(t *testing.T) {
		_, err := NewPaymentEntry(uuid.Nil, uuid.New(), validParams())
		assert.Error(t, err)
	})
}

func TestNewPaymentEntry_CompletedAtCreation(t *testing.T) {
	params := validParams()
	params.Status = EntryStatusCompleted

	e, err := NewPaymentEntry(uuid.New(), uuid.New(), params)
	require.NoError(t, err)

	assert.Equal(t, EntryStatusCompleted, e.Status)
	assert.NotNil(t, e.CapturedAt, "completed-at-creation counts as captured")
	assert.True(t, e.IsTerminal())
}

func TestPaymentEntry_Capture(t *testing.T) {
	for _, from := range []EntryStatus{EntryStatusDraft, EntryStatusPending, EntryStatusScheduled} {
		params := validParams()
		params.Status = from

		e, err := NewPaymentEntry(uuid.New(), uuid.New(), params)
		require.NoError(t, err)
		e.ClearDomainEvents()

		require.NoError(t, e.Capture())

		assert.Equal(t, EntryStatusCompleted, e.Status)
		assert.NotNil(t, e.CapturedAt)
		assert.Equal(t, 2, e.Version)
		require.Len(t, e.GetDomainEvents(), 1)
		assert.Equal(t, EventTypePaymentEntryCaptured, e.GetDomainEvents()[0].EventType())
	}
}

func TestPaymentEntry_CaptureTerminalFails(t *testing.T) {
	e, err := NewPaymentEntry(uuid.New(), uuid.New(), validParams())
	require.NoError(t, err)
	require.NoError(t, e.Void("dup"))

	err = e.Capture()
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
}

func TestPaymentEntry_Void(t *testing.T) {
	e, err := NewPaymentEntry(uuid.New(), uuid.New(), validParams())
	require.NoError(t, err)
	e.ClearDomainEvents()

	require.NoError(t, e.Void("entered twice"))

	assert.Equal(t, EntryStatusCancelled, e.Status)
	assert.NotNil(t, e.VoidedAt)
	assert.Equal(t, "entered twice", e.Metadata["void_reason"])
	require.Len(t, e.GetDomainEvents(), 1)
	assert.Equal(t, EventTypePaymentEntryVoided, e.GetDomainEvents()[0].EventType())

	// terminal now, cannot void again
	assert.Error(t, e.Void("again"))
}

func TestPaymentEntry_VoidCompletedFails(t *testing.T) {
	params := validParams()
	params.Status = EntryStatusCompleted

	e, err := NewPaymentEntry(uuid.New(), uuid.New(), params)
	require.NoError(t, err)

	err = e.Void("too late")
	require.Error(t, err)
	assert.Equal(t, EntryStatusCompleted, e.Status, "status unchanged after rejected transition")
}

func TestPaymentEntry_CompositeID(t *testing.T) {
	e, err := NewPaymentEntry(uuid.New(), uuid.New(), validParams())
	require.NoError(t, err)
	assert.Equal(t, "native:"+e.ID.String(), e.CompositeID())
}
