package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rentledger/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTenantUnit(t *testing.T) {
	landlordID := uuid.New()
	unitID := uuid.New()

	unit, err := NewTenantUnit(landlordID, unitID, "A. Okafor", decimal.NewFromFloat(1200.00), "")
	require.NoError(t, err)

	assert.Equal(t, landlordID, unit.LandlordID)
	assert.Equal(t, TenantUnitStatusActive, unit.Status)
	assert.Equal(t, valueobject.DefaultCurrency, unit.Currency)
	assert.True(t, unit.AdvanceRemaining().IsZero())
	assert.False(t, unit.HasAdvanceCredit())
}

func TestNewTenantUnit_Validation(t *testing.T) {
	_, err := NewTenantUnit(uuid.Nil, uuid.New(), "x", decimal.NewFromFloat(100), valueobject.USD)
	assert.Error(t, err)

	_, err = NewTenantUnit(uuid.New(), uuid.Nil, "x", decimal.NewFromFloat(100), valueobject.USD)
	assert.Error(t, err)

	_, err = NewTenantUnit(uuid.New(), uuid.New(), "x", decimal.Zero, valueobject.USD)
	assert.Error(t, err)
}

func TestTenantUnit_CollectAndConsumeAdvance(t *testing.T) {
	unit := newLease(t, 1000.00)

	require.NoError(t, unit.CollectAdvance(3, decimal.NewFromFloat(3000.00)))
	assert.Equal(t, 3, unit.AdvanceRentMonths)
	assert.True(t, unit.AdvanceRemaining().Equal(decimal.NewFromFloat(3000.00)))
	assert.True(t, unit.HasAdvanceCredit())

	require.NoError(t, unit.ConsumeAdvance(decimal.NewFromFloat(1000.00)))
	assert.True(t, unit.AdvanceRemaining().Equal(decimal.NewFromFloat(2000.00)))

	// pool can never go negative
	err := unit.ConsumeAdvance(decimal.NewFromFloat(2000.01))
	assert.Error(t, err)
	assert.True(t, unit.AdvanceRemaining().Equal(decimal.NewFromFloat(2000.00)), "failed consume leaves pool untouched")
}

func TestTenantUnit_CollectAdvanceValidation(t *testing.T) {
	unit := newLease(t, 1000.00)

	assert.Error(t, unit.CollectAdvance(0, decimal.NewFromFloat(100)))
	assert.Error(t, unit.CollectAdvance(1, decimal.Zero))

	require.NoError(t, unit.End())
	assert.Error(t, unit.CollectAdvance(1, decimal.NewFromFloat(100)), "ended lease rejects collection")
}

func TestRentInvoice_AmountDue(t *testing.T) {
	unit := newLease(t, 1000.00)
	inv := newInvoice(t, unit, "INV-01", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 1000.00)

	assert.True(t, inv.AmountDue().Equal(decimal.NewFromFloat(1000.00)))

	require.NoError(t, inv.AddLateFee(decimal.NewFromFloat(75.00)))
	assert.True(t, inv.AmountDue().Equal(decimal.NewFromFloat(1075.00)))

	require.NoError(t, inv.ApplyAdvance(decimal.NewFromFloat(1000.00)))
	assert.True(t, inv.AmountDue().Equal(decimal.NewFromFloat(75.00)))
	assert.False(t, inv.IsAdvanceCovered())

	// the late fee is part of the outstanding balance and absorbs credit too
	require.NoError(t, inv.ApplyAdvance(decimal.NewFromFloat(75.00)))
	assert.True(t, inv.AmountDue().IsZero())
	assert.True(t, inv.IsAdvanceCovered())
}

func TestRentInvoice_SettleIsMonotone(t *testing.T) {
	unit := newLease(t, 1000.00)
	inv := newInvoice(t, unit, "INV-01", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 1000.00)

	firstPaid := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
	require.NoError(t, inv.Settle(firstPaid))
	assert.Equal(t, RentInvoiceStatusPaid, inv.Status)
	require.NotNil(t, inv.PaidDate)

	// settling again is a no-op and keeps the original paid date
	require.NoError(t, inv.Settle(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, inv.PaidDate.Equal(firstPaid))

	assert.Error(t, inv.Cancel(), "paid invoices cannot be cancelled")
}

func TestRentInvoice_ApplyAdvanceValidation(t *testing.T) {
	unit := newLease(t, 1000.00)
	inv := newInvoice(t, unit, "INV-01", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 1000.00)

	assert.Error(t, inv.ApplyAdvance(decimal.Zero))
	assert.Error(t, inv.ApplyAdvance(decimal.NewFromFloat(1000.01)), "cannot exceed the outstanding balance")

	require.NoError(t, inv.Settle(time.Now()))
	assert.Error(t, inv.ApplyAdvance(decimal.NewFromFloat(10.00)), "settled invoice rejects advance")
}

func TestMaintenanceInvoice_Lifecycle(t *testing.T) {
	landlordID := uuid.New()
	due := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	inv, err := NewMaintenanceInvoice(landlordID, uuid.New(), "MINV-01", "Boiler repair",
		decimal.NewFromFloat(200.00), decimal.NewFromFloat(120.00), decimal.NewFromFloat(32.00), due)
	require.NoError(t, err)

	assert.Equal(t, MaintenanceInvoiceStatusDraft, inv.Status)
	assert.True(t, inv.GrandTotal().Equal(decimal.NewFromFloat(352.00)))
	assert.False(t, inv.Status.CanAcceptPayment(), "drafts are not billable")
	assert.Error(t, inv.Settle(time.Now()))

	require.NoError(t, inv.Approve())
	require.NoError(t, inv.MarkSent())
	assert.True(t, inv.Status.CanAcceptPayment())

	require.NoError(t, inv.Settle(time.Now()))
	assert.Equal(t, MaintenanceInvoiceStatusPaid, inv.Status)
	assert.True(t, inv.AmountDue().IsZero())

	// no-op on repeated settle
	require.NoError(t, inv.Settle(time.Now()))
}
