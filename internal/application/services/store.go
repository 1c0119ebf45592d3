package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "user-directory-api/internal/domain/user"
	"user-directory-api/internal/infrastructure/metrics"
)

// storeGuard bounds every record-store call with a deadline and records its latency.
type storeGuard struct {
	timeout time.Duration
	metrics *metrics.Metrics
}

func guarded[T any](
	ctx context.Context,
	g storeGuard,
	op string,
	fn func(ctx context.Context) (T, error),
) (T, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	out, err := fn(ctx)
	g.metrics.ObserveStore(op, start)

	if err != nil && (errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded)) {
		var zero T
		return zero, fmt.Errorf("%s: %w", op, domain.ErrUnavailable)
	}

	return out, err
}
