// Package push delivers push notifications to device tokens. Sends are side
// effects: callers log failures but never fail their primary operation on one.
package push

import (
	"context"
	"errors"
	"fmt"
)

// ErrTokenInvalid reports that the device token is no longer registered with
// the push service. The maintenance path purges such tokens from the owning
// records, best-effort and out-of-band.
var ErrTokenInvalid = errors.New("push token not registered")

// Gateway sends a push message to a single device token.
type Gateway interface {
	Send(ctx context.Context, token, title, body string) error
}

// transientError marks a failure worth retrying (throttling, 5xx).
type transientError struct {
	status int
}

func (e *transientError) Error() string {
	return fmt.Sprintf("push service returned status %d", e.status)
}

// IsTransient reports whether the error is a retryable push-service failure.
func IsTransient(err error) bool {
	var te *transientError
	return errors.As(err, &te)
}
