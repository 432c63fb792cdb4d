package domain

import (
	"context"

	"github.com/smallbiznis/taxgate/internal/avatax"
)

// RequestModifier is consulted by the builder after defaults are merged and
// before a request is finalized. Modifiers mutate the request in place.
type RequestModifier interface {
	ModifyRequest(ctx context.Context, req *avatax.TransactionRequest)
}

// ResultObserver runs after a successful calculation, before fees are
// applied. Observers must not mutate the response.
type ResultObserver interface {
	ObserveResult(ctx context.Context, req *avatax.TransactionRequest, resp *avatax.TransactionResponse)
}
