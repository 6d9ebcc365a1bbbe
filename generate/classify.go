package generate

import (
	"context"
	"errors"
	"strings"

	"github.com/poiesic/askbase/core"
)

// serverErrorMarkers identify upstream 5xx failures in error text. The
// OpenAI-compatible client surfaces HTTP status in the error message rather
// than a typed field, so classification is textual.
var serverErrorMarkers = []string{
	"status code: 5",
	"internal server error",
	"bad gateway",
	"service unavailable",
	"gateway timeout",
	"overloaded",
}

// classifyError maps a completion failure to an attempt outcome.
func classifyError(err error) core.AttemptOutcome {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return core.OutcomeTimeout
	case isServerError(err):
		return core.OutcomeServerError
	default:
		return core.OutcomeOther
	}
}

func isServerError(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, marker := range serverErrorMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// degradedMessage picks the user-facing copy for a fully failed request
// based on the last attempt's classification.
func degradedMessage(outcome core.AttemptOutcome) string {
	switch outcome {
	case core.OutcomeServerError:
		return serverErrorMessage
	case core.OutcomeTimeout:
		return timeoutMessage
	default:
		return genericFailMessage
	}
}
