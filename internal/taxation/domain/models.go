// Package domain holds the per-submission state of the tax pipeline.
package domain

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"

	"github.com/bwmarrin/snowflake"
)

// CheckoutSubmission is one checkout form submission. Everything the
// estimate flow needs is captured here; nothing outlives the request.
type CheckoutSubmission struct {
	LevelID        snowflake.ID
	MemberID       *snowflake.ID
	Email          string
	VATID          string
	Address        map[string]string
	TotalToday     float64
	TotalRecurring float64
	Recurring      bool

	// Final marks the real registration submit. Previews compute totals
	// but never attach fees.
	Final bool
}

// CalculationState tracks one checkout attempt through the orchestrator.
type CalculationState string

const (
	StateIdle        CalculationState = "idle"
	StateCalculating CalculationState = "calculating"
	StateApplied     CalculationState = "applied"
	StateSkipped     CalculationState = "skipped"
	StateFailed      CalculationState = "failed"
)

// Calculation is the orchestrator-owned result of one checkout attempt.
// Created fresh per submission, discarded with the request, never persisted.
type Calculation struct {
	State CalculationState

	Rate              float64
	Total             float64
	TotalRecurring    float64
	TotalTax          float64
	TotalRecurringTax float64

	FeeID          string
	RecurringFeeID string
}

func NewCalculation() *Calculation {
	return &Calculation{State: StateIdle}
}

// Settled reports whether this submission already ran the pipeline; a second
// invocation within the same submission must reuse the cached result.
func (c *Calculation) Settled() bool {
	return c.State != StateIdle
}

// AddTax grosses up a price with the cached rate, fees included in the base.
// Negative tax never reduces the price.
func (c *Calculation) AddTax(price, fee float64) float64 {
	if price <= 0 || c.Rate == 0 {
		return price
	}
	tax := (price + fee) * c.Rate
	if tax < 0 {
		tax = 0
	}
	return price + tax
}

// Fee is a tax line attached to the in-progress order.
type Fee struct {
	ID        string  `json:"id"`
	Label     string  `json:"label"`
	Amount    float64 `json:"amount"`
	Recurring bool    `json:"recurring"`
}

// FeeID derives a fee identity deterministically from its parameters so that
// re-invocation with identical inputs is idempotent at the fee layer.
func FeeID(amount float64, label string, recurring bool) string {
	sum := md5.Sum([]byte(fmt.Sprintf("%.4f|%s|%t", amount, label, recurring)))
	return hex.EncodeToString(sum[:])
}

// FeeSink attaches fees to the in-progress order. A false return means the
// order rejected the fee.
type FeeSink interface {
	AddFee(fee Fee) bool
}

// ErrorCollector gathers user-facing registration errors, keyed the way the
// registration form expects them.
type ErrorCollector struct {
	errs []FieldError
}

type FieldError struct {
	Key     string `json:"key"`
	Message string `json:"message"`
}

func (c *ErrorCollector) Add(key, message string) {
	c.errs = append(c.errs, FieldError{Key: key, Message: message})
}

func (c *ErrorCollector) Empty() bool {
	return len(c.errs) == 0
}

func (c *ErrorCollector) Errors() []FieldError {
	return c.errs
}
