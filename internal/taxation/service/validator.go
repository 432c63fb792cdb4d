package service

import (
	"context"

	"github.com/smallbiznis/taxgate/internal/avatax"
	taxdomain "github.com/smallbiznis/taxgate/internal/taxation/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const severityError = "Error"

type ValidatorParams struct {
	fx.In

	Log       *zap.Logger
	NewClient avatax.ClientFactory
}

// AddressValidator runs during the form-validation phase, before payment.
// Only messages with severity Error block the registrant; warnings pass.
type AddressValidator struct {
	log       *zap.Logger
	newClient avatax.ClientFactory
}

func NewAddressValidator(p ValidatorParams) *AddressValidator {
	return &AddressValidator{
		log:       p.Log.Named("taxation.validator"),
		newClient: p.NewClient,
	}
}

// Validate resolves the submitted address and surfaces any error-severity
// messages on the collector, keyed by their summary text.
func (v *AddressValidator) Validate(ctx context.Context, form map[string]string, collector *taxdomain.ErrorCollector) *avatax.AddressResolution {
	resolution, err := v.newClient().ResolveAddress(ctx, avatax.NormalizeAddress(form))
	if err != nil {
		collector.Add("invalid-address", err.Error())
		v.log.Warn("address validation failed", zap.Error(err))
		return nil
	}

	for summary, details := range resolution.ErrorMessages(severityError) {
		collector.Add(summary, details)
	}
	return resolution
}
