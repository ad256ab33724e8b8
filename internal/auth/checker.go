package auth

import (
	"context"
	"errors"
)

// ErrNotAuthenticated is returned when a token is missing, unknown or expired.
var ErrNotAuthenticated = errors.New("not authenticated")

var _ Checker = (*LoginChecker)(nil)
var _ Checker = (*LoginTestChecker)(nil)

// Checker resolves an auth token to the id of the user owning the session.
type Checker interface {
	UserID(ctx context.Context, token string) (int, error)
}
