package service

import (
	"context"

	"github.com/smallbiznis/taxgate/internal/avatax"
	"github.com/smallbiznis/taxgate/internal/config"
	taxdomain "github.com/smallbiznis/taxgate/internal/taxation/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Fee labels shown on the registration order.
const (
	FeeLabelToday     = "Tax Today"
	FeeLabelRecurring = "Tax Recurring"
)

// Error collector key shared by every estimate-time failure.
const errorKeyRegister = "register"

type CalculatorParams struct {
	fx.In

	Log       *zap.Logger
	Settings  *config.SettingsHolder
	Builder   *Builder
	NewClient avatax.ClientFactory
	Observers []taxdomain.ResultObserver `group:"taxation.result_observers"`
}

// Calculator drives the estimate flow during checkout: build the request,
// call the service, apply the computed tax as fees on the in-progress order.
type Calculator struct {
	log       *zap.Logger
	settings  *config.SettingsHolder
	builder   *Builder
	newClient avatax.ClientFactory
	observers []taxdomain.ResultObserver
}

func NewCalculator(p CalculatorParams) *Calculator {
	return &Calculator{
		log:       p.Log.Named("taxation.calculator"),
		settings:  p.Settings,
		builder:   p.Builder,
		newClient: p.NewClient,
		observers: p.Observers,
	}
}

// Calculate runs one checkout attempt. The Calculation is scoped to the
// submission: a second call with the same Calculation reuses the cached
// totals and attaches nothing, so fees cannot double up within a request.
func (c *Calculator) Calculate(ctx context.Context, sub *taxdomain.CheckoutSubmission, calc *taxdomain.Calculation, collector *taxdomain.ErrorCollector, fees taxdomain.FeeSink) {
	if calc.Settled() {
		return
	}

	if !sub.Final && c.settings.Current().DisableCalculation {
		calc.State = taxdomain.StateSkipped
		return
	}

	// Without a street line there is nothing to calculate against.
	if avatax.NormalizeAddress(sub.Address).Line1 == "" {
		calc.State = taxdomain.StateSkipped
		return
	}

	calc.State = taxdomain.StateCalculating

	req, err := c.builder.BuildEstimate(ctx, sub)
	if err != nil {
		c.fail(calc, collector, err)
		return
	}

	resp, err := c.newClient().CreateTransaction(ctx, req)
	if err != nil {
		c.fail(calc, collector, err)
		return
	}

	// Estimates always request two lines; anything less means the service
	// had nothing to compute.
	if len(resp.Lines) < 2 {
		calc.State = taxdomain.StateSkipped
		return
	}

	calc.Rate = resp.TaxRate()
	calc.Total = sub.TotalToday
	calc.TotalRecurring = sub.TotalRecurring
	calc.TotalTax = resp.Lines[0].Tax
	calc.TotalRecurringTax = resp.Lines[1].Tax

	for _, observer := range c.observers {
		observer.ObserveResult(ctx, req, resp)
	}

	// Previews stop here so the same totals can be requested again for
	// display without inserting duplicate fees.
	if !sub.Final {
		calc.State = taxdomain.StateApplied
		return
	}

	if calc.TotalTax > 0 {
		fee := taxdomain.Fee{
			Label:  FeeLabelToday,
			Amount: calc.TotalTax,
		}
		fee.ID = taxdomain.FeeID(fee.Amount, fee.Label, fee.Recurring)
		if fees.AddFee(fee) {
			calc.FeeID = fee.ID
		}
	}

	if calc.TotalRecurringTax > 0 && sub.Recurring {
		fee := taxdomain.Fee{
			Label:     FeeLabelRecurring,
			Amount:    calc.TotalRecurringTax,
			Recurring: true,
		}
		fee.ID = taxdomain.FeeID(fee.Amount, fee.Label, fee.Recurring)
		if fees.AddFee(fee) {
			calc.RecurringFeeID = fee.ID
		}
	}

	calc.State = taxdomain.StateApplied
}

func (c *Calculator) fail(calc *taxdomain.Calculation, collector *taxdomain.ErrorCollector, err error) {
	calc.State = taxdomain.StateFailed
	collector.Add(errorKeyRegister, err.Error())
	c.log.Warn("tax calculation failed", zap.Error(err))
}
