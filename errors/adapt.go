package errors

import (
	"context"
	"errors"
)

// ToErrorResponse converts any error into ErrorResponse (transport-agnostic).
// Supported inputs:
//   - ErrorResponse / *ErrorResponse (passthrough)
//   - context.Canceled / context.DeadlineExceeded
//   - InvariantError (DomainInvariant / DomainInvariantOf)
//
// Anything else becomes Internal with reason "unexpected_error".
func ToErrorResponse(err error) ErrorResponse {
	if err == nil {
		return Internal().WithReason("unexpected_error")
	}

	if errors.Is(err, context.Canceled) {
		return Canceled()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return DeadlineExceeded()
	}

	if e, ok := err.(ErrorResponse); ok {
		return e
	}
	var ep *ErrorResponse
	if errors.As(err, &ep) && ep != nil {
		return *ep
	}

	var ie InvariantError
	if !errors.As(err, &ie) {
		return Internal().WithReason("unexpected_error")
	}
	if ie.Field == "" {
		return InvalidArgument().WithReason(ie.Reason)
	}
	return ValidationFields(map[string]string{ie.Field: ie.Reason})
}
