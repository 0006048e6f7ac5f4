package billing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestReconcile_EpsilonTolerance(t *testing.T) {
	due := decimal.NewFromFloat(100.00)

	tests := []struct {
		name        string
		matched     float64
		wantSettled bool
	}{
		{"exact", 100.00, true},
		{"overpaid", 100.50, true},
		{"within epsilon", 99.995, true},
		{"at epsilon boundary", 99.99, true},
		{"outside epsilon", 99.98, false},
		{"half paid", 50.00, false},
		{"nothing", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome := Reconcile(due, decimal.NewFromFloat(tt.matched))
			assert.Equal(t, tt.wantSettled, outcome.Settled)
		})
	}
}

func TestReconcile_Remaining(t *testing.T) {
	due := decimal.NewFromFloat(100.00)

	outcome := Reconcile(due, decimal.NewFromFloat(40.00))
	assert.False(t, outcome.Settled)
	assert.True(t, outcome.Remaining.Equal(decimal.NewFromFloat(60.00)))

	overpaid := Reconcile(due, decimal.NewFromFloat(120.00))
	assert.True(t, overpaid.Settled)
	assert.True(t, overpaid.Remaining.IsZero(), "overpayment never goes negative")
}

func TestReconcile_ZeroDueIsSettled(t *testing.T) {
	outcome := Reconcile(decimal.Zero, decimal.Zero)
	assert.True(t, outcome.Settled, "fully advance-covered invoice has nothing due")
	assert.True(t, outcome.Remaining.IsZero())
}
