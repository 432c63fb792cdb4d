package audit

import (
	auditdomain "github.com/smallbiznis/taxgate/internal/audit/domain"
	"github.com/smallbiznis/taxgate/internal/audit/repository"
	"github.com/smallbiznis/taxgate/internal/audit/service"
	"github.com/smallbiznis/taxgate/internal/avatax"
	"go.uber.org/fx"
)

var Module = fx.Module("audit",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
	fx.Provide(func(s *service.Service) avatax.AuditSink { return s }),
	fx.Provide(func(s *service.Service) auditdomain.Service { return s }),
)
