package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("creates money with valid amount and currency", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromInt(100), USD)
		require.NoError(t, err)
		assert.True(t, m.Amount().Equal(decimal.NewFromInt(100)))
		assert.Equal(t, USD, m.Currency())
	})

	t.Run("rejects empty currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromInt(100), "")
		assert.Error(t, err)
	})
}

func TestNewMoneyFromString(t *testing.T) {
	m, err := NewMoneyFromString("15000.00", KES)
	require.NoError(t, err)
	assert.Equal(t, "15000.00 KES", m.String())

	_, err = NewMoneyFromString("not-a-number", KES)
	assert.Error(t, err)
}

func TestMoney_Add(t *testing.T) {
	t.Run("adds same currency", func(t *testing.T) {
		a, _ := NewMoneyFromString("10.50", USD)
		b, _ := NewMoneyFromString("4.50", USD)
		sum, err := a.Add(b)
		require.NoError(t, err)
		assert.True(t, sum.Amount().Equal(decimal.NewFromInt(15)))
	})

	t.Run("rejects currency mismatch", func(t *testing.T) {
		a, _ := NewMoneyFromString("10.50", USD)
		b, _ := NewMoneyFromString("4.50", EUR)
		_, err := a.Add(b)
		assert.Error(t, err)
	})
}

func TestMoney_Subtract(t *testing.T) {
	a, _ := NewMoneyFromString("10.00", USD)
	b, _ := NewMoneyFromString("4.25", USD)
	diff, err := a.Subtract(b)
	require.NoError(t, err)
	assert.Equal(t, "5.75 USD", diff.String())
}

func TestMoney_Comparisons(t *testing.T) {
	a, _ := NewMoneyFromString("5.00", USD)
	b, _ := NewMoneyFromString("7.50", USD)

	less, err := a.LessThan(b)
	require.NoError(t, err)
	assert.True(t, less)

	gte, err := b.GreaterThanOrEqual(a)
	require.NoError(t, err)
	assert.True(t, gte)

	other, _ := NewMoneyFromString("5.00", GBP)
	_, err = a.LessThan(other)
	assert.Error(t, err)
}

func TestMoney_Predicates(t *testing.T) {
	assert.True(t, Zero(USD).IsZero())
	assert.True(t, NewMoneyUSD(decimal.NewFromInt(1)).IsPositive())
	assert.True(t, NewMoneyUSD(decimal.NewFromInt(-1)).IsNegative())
}

func TestMoney_JSONRoundTrip(t *testing.T) {
	m, _ := NewMoneyFromString("123.45", EUR)
	data, err := json.Marshal(m)
	require.NoError(t, err)

	var decoded Money
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, m.Equals(decoded))
}

func TestMoney_Scan(t *testing.T) {
	var m Money
	require.NoError(t, m.Scan("99.99"))
	assert.True(t, m.Amount().Equal(decimal.RequireFromString("99.99")))
	assert.Equal(t, DefaultCurrency, m.Currency())

	require.NoError(t, m.Scan(nil))
	assert.True(t, m.IsZero())

	assert.Error(t, m.Scan(42))
}
