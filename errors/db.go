package errors

import (
	"context"
	stderrors "errors"

	"github.com/atlaspay/go-dbpool/db/pool"
	"github.com/atlaspay/go-dbpool/db/postgres"
)

// FromDB classifies failures coming out of the pool and executor.
// Pool exhaustion is the one recoverable case; callers pair it with
// retry.OnExhausted or surface it as backpressure.
func FromDB(err error) ErrorResponse {
	switch {
	case stderrors.Is(err, pool.ErrExhausted):
		return ResourceExhausted().WithReason("pool_exhausted")

	case stderrors.Is(err, pool.ErrClosed):
		return FailedPrecondition().WithReason("pool_closed")

	case stderrors.Is(err, pool.ErrNotReady):
		return FailedPrecondition().WithReason("pool_not_ready")

	case postgres.IsUniqueViolation(err):
		out := AlreadyExists().WithReason("unique_violation")
		if _, constraint, ok := postgres.Constraint(err); ok && constraint != "" {
			out = out.WithDetail("constraint", constraint)
		}
		return out

	case stderrors.Is(err, context.DeadlineExceeded):
		return DeadlineExceeded().WithReason("db_timeout")

	case stderrors.Is(err, context.Canceled):
		return Canceled()

	default:
		// statement and mapping errors land here; the original error text
		// stays with the caller, this is only the transport-facing shape
		return Internal().WithReason("db_error")
	}
}
