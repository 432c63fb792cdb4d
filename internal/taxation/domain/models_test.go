package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFeeID_Deterministic(t *testing.T) {
	first := FeeID(8.25, "Tax Today", false)
	second := FeeID(8.25, "Tax Today", false)
	assert.Equal(t, first, second)
	assert.Len(t, first, 32)

	assert.NotEqual(t, first, FeeID(8.26, "Tax Today", false))
	assert.NotEqual(t, first, FeeID(8.25, "Tax Recurring", false))
	assert.NotEqual(t, first, FeeID(8.25, "Tax Today", true))
}

func TestCalculation_Settled(t *testing.T) {
	calc := NewCalculation()
	assert.False(t, calc.Settled())

	for _, state := range []CalculationState{StateCalculating, StateApplied, StateSkipped, StateFailed} {
		calc.State = state
		assert.True(t, calc.Settled())
	}
}

func TestCalculation_AddTax(t *testing.T) {
	calc := &Calculation{Rate: 0.1}

	assert.InDelta(t, 115.5, calc.AddTax(100, 55), 1e-9)
	assert.InDelta(t, 110, calc.AddTax(100, 0), 1e-9)

	// Zero rate or non-positive price leaves the price untouched.
	assert.Equal(t, 100.0, (&Calculation{}).AddTax(100, 10))
	assert.Equal(t, 0.0, calc.AddTax(0, 10))
	assert.Equal(t, -5.0, calc.AddTax(-5, 0))

	// A negative rate never reduces the price.
	negative := &Calculation{Rate: -0.1}
	assert.Equal(t, 100.0, negative.AddTax(100, 0))
}

func TestErrorCollector(t *testing.T) {
	collector := &ErrorCollector{}
	assert.True(t, collector.Empty())

	collector.Add("register", "something went wrong")
	collector.Add("invalid-address", "not deliverable")

	assert.False(t, collector.Empty())
	assert.Equal(t, []FieldError{
		{Key: "register", Message: "something went wrong"},
		{Key: "invalid-address", Message: "not deliverable"},
	}, collector.Errors())
}
