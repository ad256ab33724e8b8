package auth

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// INFO: https://github.com/go-redis/redis/issues/1029
		goleak.IgnoreTopFunction(
			"github.com/go-redis/redis/v8/internal/pool.(*ConnPool).reaper",
		),
	)
}

func TestService_CreateSession(t *testing.T) {
	db, mock := redismock.NewClientMock()
	service := NewService(nil, time.Hour, db)
	service.RandStringFunc = func(_ int) (string, error) {
		return "test-token", nil
	}

	mock.ExpectSet(sessionKeyPrefix+"test-token", "33", time.Hour).SetVal("OK")
	mock.ExpectSAdd(tokensSetKey, "test-token").SetVal(1)

	token, err := service.CreateSession(context.Background(), 33)
	require.NoError(t, err)
	assert.Equal(t, "test-token", token)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Logout(t *testing.T) {
	db, mock := redismock.NewClientMock()
	service := NewService(nil, time.Hour, db)

	mock.ExpectGet(sessionKeyPrefix + "test-token").SetVal("33")
	mock.ExpectDel(sessionKeyPrefix + "test-token").SetVal(1)
	mock.ExpectSRem(tokensSetKey, "test-token").SetVal(1)

	loggedOut, err := service.Logout(context.Background(), "test-token")
	require.NoError(t, err)
	assert.True(t, loggedOut)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Logout_UnknownToken(t *testing.T) {
	db, mock := redismock.NewClientMock()
	service := NewService(nil, time.Hour, db)

	mock.ExpectGet(sessionKeyPrefix + "gone-token").RedisNil()

	loggedOut, err := service.Logout(context.Background(), "gone-token")
	require.NoError(t, err)
	assert.False(t, loggedOut)

	require.NoError(t, mock.ExpectationsWereMet())
}
