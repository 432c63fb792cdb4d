package taxation

import (
	"github.com/smallbiznis/taxgate/internal/avatax"
	"github.com/smallbiznis/taxgate/internal/config"
	"github.com/smallbiznis/taxgate/internal/taxation/service"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewClientFactory builds AvaTax clients from the process credentials. A
// fresh client per call keeps endpoint selection in step with configuration.
func NewClientFactory(cfg config.Config, sink avatax.AuditSink, log *zap.Logger) avatax.ClientFactory {
	return func() *avatax.Client {
		return avatax.NewClient(avatax.Credentials{
			AccountNumber: cfg.AvaTaxAccountNumber,
			LicenseKey:    cfg.AvaTaxLicenseKey,
			Sandbox:       cfg.AvaTaxSandbox,
		},
			avatax.WithAuditSink(sink),
			avatax.WithLogger(log),
		)
	}
}

var Module = fx.Module("taxation",
	fx.Provide(NewClientFactory),
	fx.Provide(service.NewBuilder),
	fx.Provide(service.NewCalculator),
	fx.Provide(service.NewRecorder),
	fx.Provide(service.NewAddressValidator),
)
