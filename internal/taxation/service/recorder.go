package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/taxgate/internal/avatax"
	membershipdomain "github.com/smallbiznis/taxgate/internal/membership/domain"
	taxdomain "github.com/smallbiznis/taxgate/internal/taxation/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type RecorderParams struct {
	fx.In

	Log       *zap.Logger
	Builder   *Builder
	NewClient avatax.ClientFactory
	Payments  membershipdomain.PaymentRepository
}

// Recorder drives the commit flow after a payment is finalized. It runs at
// most once per payment: the outcome (details or failure reason) is written
// as payment metadata and never mutated afterwards.
type Recorder struct {
	log       *zap.Logger
	builder   *Builder
	newClient avatax.ClientFactory
	payments  membershipdomain.PaymentRepository
}

func NewRecorder(p RecorderParams) *Recorder {
	return &Recorder{
		log:       p.Log.Named("taxation.recorder"),
		builder:   p.Builder,
		newClient: p.NewClient,
		payments:  p.Payments,
	}
}

// Record commits the tax transaction for a finalized payment. Failures are
// terminal for this invocation: they are persisted for operator follow-up
// and never surfaced to the paying member.
func (r *Recorder) Record(ctx context.Context, paymentID snowflake.ID) error {
	payment, err := r.payments.GetByID(ctx, paymentID)
	if err != nil {
		return err
	}

	// The finalize event should fire once per payment; if the host system
	// replays it, the existing outcome wins.
	recorded, err := r.payments.HasMeta(ctx, payment.ID,
		membershipdomain.MetaKeyTaxDetails, membershipdomain.MetaKeyTaxRequest)
	if err != nil {
		return err
	}
	if recorded {
		r.log.Info("tax outcome already recorded", zap.String("payment_id", payment.ID.String()))
		return nil
	}

	details, err := r.commit(ctx, payment)
	if err != nil {
		r.log.Warn("tax commit failed",
			zap.String("payment_id", payment.ID.String()),
			zap.Error(err),
		)
		return r.payments.WriteMeta(ctx, payment.ID, membershipdomain.MetaKeyTaxRequest, err.Error())
	}

	return r.payments.WriteMeta(ctx, payment.ID, membershipdomain.MetaKeyTaxDetails, details)
}

func (r *Recorder) commit(ctx context.Context, payment *membershipdomain.Payment) (*avatax.TaxDetails, error) {
	req, err := r.builder.BuildCommit(ctx, payment)
	if err != nil {
		return nil, err
	}

	resp, err := r.newClient().CreateTransaction(ctx, req)
	if err != nil {
		return nil, err
	}

	// An HTTP success with zero computable lines is not a valid tax
	// outcome for a paid invoice.
	details := resp.Details()
	if details == nil {
		return nil, taxdomain.NewDataError("no tax details were returned for this payment")
	}
	return details, nil
}
