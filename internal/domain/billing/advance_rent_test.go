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

func newLease(t *testing.T, rent float64) *TenantUnit {
	t.Helper()
	unit, err := NewTenantUnit(uuid.New(), uuid.New(), "J. Mwangi", decimal.NewFromFloat(rent), valueobject.USD)
	require.NoError(t, err)
	return unit
}

func newInvoice(t *testing.T, unit *TenantUnit, number string, dueDate time.Time, rent float64) *RentInvoice {
	t.Helper()
	inv, err := NewRentInvoice(unit.LandlordID, unit.ID, number, dueDate.AddDate(0, 0, -30), dueDate, decimal.NewFromFloat(rent))
	require.NoError(t, err)
	return inv
}

func TestAllocateAdvanceRent_OldestFirst(t *testing.T) {
	unit := newLease(t, 1000.00)
	require.NoError(t, unit.CollectAdvance(2, decimal.NewFromFloat(2000.00)))

	march := newInvoice(t, unit, "INV-03", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), 1000.00)
	january := newInvoice(t, unit, "INV-01", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 1000.00)
	february := newInvoice(t, unit, "INV-02", time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), 1000.00)

	result, err := AllocateAdvanceRent(unit, []*RentInvoice{march, january, february})
	require.NoError(t, err)

	assert.True(t, result.TotalApplied.Equal(decimal.NewFromFloat(2000.00)))
	require.Len(t, result.Applications, 2)
	assert.Equal(t, "INV-01", result.Applications[0].InvoiceNumber)
	assert.Equal(t, "INV-02", result.Applications[1].InvoiceNumber)

	assert.Equal(t, RentInvoiceStatusPaid, january.Status)
	assert.Equal(t, RentInvoiceStatusPaid, february.Status)
	assert.Equal(t, RentInvoiceStatusGenerated, march.Status, "credit exhausted before March")
	assert.True(t, unit.AdvanceRemaining().IsZero())
}

func TestAllocateAdvanceRent_PartialCoverage(t *testing.T) {
	unit := newLease(t, 1000.00)
	require.NoError(t, unit.CollectAdvance(1, decimal.NewFromFloat(400.00)))

	inv := newInvoice(t, unit, "INV-01", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 1000.00)

	result, err := AllocateAdvanceRent(unit, []*RentInvoice{inv})
	require.NoError(t, err)

	assert.True(t, result.TotalApplied.Equal(decimal.NewFromFloat(400.00)))
	assert.Equal(t, RentInvoiceStatusGenerated, inv.Status, "partially covered invoice stays open")
	assert.True(t, inv.AmountDue().Equal(decimal.NewFromFloat(600.00)))
	assert.False(t, result.Applications[0].FullyCovered)
}

// Running retroactive application twice over the same state must not
// consume extra credit or change any invoice further.
func TestAllocateAdvanceRent_Idempotent(t *testing.T) {
	unit := newLease(t, 1000.00)
	require.NoError(t, unit.CollectAdvance(3, decimal.NewFromFloat(3000.00)))

	invoices := []*RentInvoice{
		newInvoice(t, unit, "INV-01", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 1000.00),
		newInvoice(t, unit, "INV-02", time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), 1000.00),
	}

	first, err := AllocateAdvanceRent(unit, invoices)
	require.NoError(t, err)
	assert.True(t, first.TotalApplied.Equal(decimal.NewFromFloat(2000.00)))
	assert.Equal(t, 2, first.Processed)

	usedAfterFirst := unit.AdvanceRentUsed
	appliedAfterFirst := invoices[0].AdvanceRentApplied

	second, err := AllocateAdvanceRent(unit, invoices)
	require.NoError(t, err)

	assert.True(t, second.TotalApplied.IsZero(), "second run applies nothing")
	assert.Zero(t, second.Processed)
	assert.Empty(t, second.Applications)
	assert.True(t, unit.AdvanceRentUsed.Equal(usedAfterFirst))
	assert.True(t, invoices[0].AdvanceRentApplied.Equal(appliedAfterFirst))
}

func TestAllocateAdvanceRent_SkipsSettledAndForeignInvoices(t *testing.T) {
	unit := newLease(t, 1000.00)
	require.NoError(t, unit.CollectAdvance(2, decimal.NewFromFloat(2000.00)))

	paid := newInvoice(t, unit, "INV-01", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 1000.00)
	require.NoError(t, paid.Settle(time.Now()))

	cancelled := newInvoice(t, unit, "INV-02", time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), 1000.00)
	require.NoError(t, cancelled.Cancel())

	otherLease := newLease(t, 1000.00)
	foreign := newInvoice(t, otherLease, "INV-03", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 1000.00)

	open := newInvoice(t, unit, "INV-04", time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), 1000.00)

	result, err := AllocateAdvanceRent(unit, []*RentInvoice{paid, cancelled, foreign, open})
	require.NoError(t, err)

	assert.True(t, result.TotalApplied.Equal(decimal.NewFromFloat(1000.00)))
	require.Len(t, result.Applications, 1)
	assert.Equal(t, "INV-04", result.Applications[0].InvoiceNumber)
	assert.True(t, foreign.AdvanceRentApplied.IsZero())
}

// Advance credit covers the full outstanding balance, late fees included.
func TestAllocateAdvanceRent_CoversLateFees(t *testing.T) {
	unit := newLease(t, 1000.00)
	require.NoError(t, unit.CollectAdvance(2, decimal.NewFromFloat(2000.00)))

	inv := newInvoice(t, unit, "INV-01", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 1000.00)
	require.NoError(t, inv.AddLateFee(decimal.NewFromFloat(50.00)))

	result, err := AllocateAdvanceRent(unit, []*RentInvoice{inv})
	require.NoError(t, err)

	assert.True(t, result.TotalApplied.Equal(decimal.NewFromFloat(1050.00)))
	assert.Equal(t, RentInvoiceStatusPaid, inv.Status)
	assert.True(t, inv.AmountDue().IsZero())
	assert.True(t, unit.AdvanceRemaining().Equal(decimal.NewFromFloat(950.00)))
}

func TestAllocateAdvanceRent_NoCredit(t *testing.T) {
	unit := newLease(t, 1000.00)
	inv := newInvoice(t, unit, "INV-01", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 1000.00)

	result, err := AllocateAdvanceRent(unit, []*RentInvoice{inv})
	require.NoError(t, err)

	assert.True(t, result.TotalApplied.IsZero())
	assert.Zero(t, result.Processed)
}
