package membership

import (
	"github.com/smallbiznis/taxgate/internal/membership/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("membership",
	fx.Provide(repository.NewLevelRepository),
	fx.Provide(repository.NewMemberRepository),
	fx.Provide(repository.NewPaymentRepository),
)
