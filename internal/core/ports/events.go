package ports

import (
	"context"

	"spend-ledger/internal/core/domain"
)

// EventSink receives one event per accepted mutating request, after commit.
// Emission is fire-and-forget: sinks must not fail the request.
type EventSink interface {
	Emit(ctx context.Context, ev domain.Event)
}
