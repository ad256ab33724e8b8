package auth

import "context"

// LoginTestChecker is an in-memory Checker used in unit tests.
type LoginTestChecker struct {
	LoggedSessions map[string]int
}

func NewLoginTestChecker() *LoginTestChecker {
	return &LoginTestChecker{
		LoggedSessions: map[string]int{},
	}
}

func (ltc *LoginTestChecker) UserID(_ context.Context, token string) (int, error) {
	userID, ok := ltc.LoggedSessions[token]
	if !ok {
		return 0, ErrNotAuthenticated
	}
	return userID, nil
}
