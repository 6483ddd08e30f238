package audit

import (
	"context"
	"time"
)

// DefaultCallTimeout bounds a single judgment-model call when no timeout
// is configured.
const DefaultCallTimeout = CallTimeout(45 * time.Second)

// CallTimeout is the per-call deadline for external judgment-model and
// retrieval calls. These calls are the only place a cell evaluation may
// stall, so every one of them runs under a bounded context.
type CallTimeout time.Duration

func (t CallTimeout) apply(ctx context.Context) (context.Context, context.CancelFunc) {
	if t <= 0 {
		t = DefaultCallTimeout
	}
	return context.WithTimeout(ctx, time.Duration(t))
}
