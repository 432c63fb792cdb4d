package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"

	auditdomain "github.com/smallbiznis/taxgate/internal/audit/domain"
	"github.com/smallbiznis/taxgate/internal/avatax"
	"github.com/smallbiznis/taxgate/internal/config"
	membershipdomain "github.com/smallbiznis/taxgate/internal/membership/domain"
	"github.com/smallbiznis/taxgate/internal/taxation/service"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(log))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(log *zap.Logger) *gin.Engine {
	return NewEngine(log)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine     *gin.Engine
	cfg        config.Config
	settings   *config.SettingsHolder
	genID      *snowflake.Node
	calculator *service.Calculator
	recorder   *service.Recorder
	validator  *service.AddressValidator
	newClient  avatax.ClientFactory
	levels     membershipdomain.LevelRepository
	members    membershipdomain.MemberRepository
	payments   membershipdomain.PaymentRepository
	auditSvc   auditdomain.Service
}

type ServerParams struct {
	fx.In

	Gin        *gin.Engine
	Cfg        config.Config
	Settings   *config.SettingsHolder
	GenID      *snowflake.Node
	Calculator *service.Calculator
	Recorder   *service.Recorder
	Validator  *service.AddressValidator
	NewClient  avatax.ClientFactory
	Levels     membershipdomain.LevelRepository
	Members    membershipdomain.MemberRepository
	Payments   membershipdomain.PaymentRepository
	AuditSvc   auditdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:     p.Gin,
		cfg:        p.Cfg,
		settings:   p.Settings,
		genID:      p.GenID,
		calculator: p.Calculator,
		recorder:   p.Recorder,
		validator:  p.Validator,
		newClient:  p.NewClient,
		levels:     p.Levels,
		members:    p.Members,
		payments:   p.Payments,
		auditSvc:   p.AuditSvc,
	}

	svc.registerRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerRoutes() {
	v1 := s.engine.Group("/v1")

	// -------- Checkout --------
	v1.POST("/checkout/calculate", s.CalculateCheckout)
	v1.POST("/checkout/register", s.RegisterCheckout)

	// -------- Payments --------
	v1.POST("/payments", s.CreatePayment)
	v1.POST("/payments/:id/record", s.RecordPaymentTax)
	v1.POST("/payments/:id/void", s.VoidPaymentTax)
	v1.GET("/payments/:id/tax", s.GetPaymentTax)

	// -------- Addresses / connection --------
	v1.POST("/addresses/validate", s.ValidateAddress)
	v1.POST("/connection/test", s.TestConnection)

	// -------- Levels --------
	v1.GET("/levels", s.ListLevels)
	v1.POST("/levels", s.CreateLevel)
	v1.GET("/levels/:id/tax-meta", s.GetLevelTaxMeta)
	v1.PUT("/levels/:id/tax-meta", s.UpdateLevelTaxMeta)

	// -------- Members --------
	v1.POST("/members", s.CreateMember)

	// -------- Settings --------
	v1.GET("/settings/tax", s.GetTaxSettings)
	v1.PUT("/settings/tax", s.UpdateTaxSettings)

	// -------- Logs --------
	v1.GET("/logs", s.ListLogs)
}
