package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newTestService() *TokenService {
	return NewTokenService(testSecret, 30*time.Minute, 7*24*time.Hour)
}

func TestIssuePairRoundTrip(t *testing.T) {
	svc := newTestService()

	pair, err := svc.IssuePair("user-1")
	require.NoError(t, err)
	require.NotEmpty(t, pair.Access)
	require.NotEmpty(t, pair.Refresh)

	uid, err := svc.Resolve(pair.Access)
	require.NoError(t, err)
	require.Equal(t, "user-1", uid)
}

func TestResolveRejectsRefreshToken(t *testing.T) {
	svc := newTestService()

	pair, err := svc.IssuePair("user-1")
	require.NoError(t, err)

	_, err = svc.Resolve(pair.Refresh)
	require.Error(t, err)
}

func TestResolveRejectsExpiredToken(t *testing.T) {
	svc := NewTokenService(testSecret, -time.Minute, 7*24*time.Hour)

	pair, err := svc.IssuePair("user-1")
	require.NoError(t, err)

	_, err = svc.Resolve(pair.Access)
	require.Error(t, err)
	require.Contains(t, err.Error(), "expired")
}

func TestResolveRejectsTamperedToken(t *testing.T) {
	svc := newTestService()
	other := NewTokenService("another-secret", 30*time.Minute, time.Hour)

	pair, err := other.IssuePair("user-1")
	require.NoError(t, err)

	_, err = svc.Resolve(pair.Access)
	require.Error(t, err)
}

func TestRefreshMintsIndependentAccessToken(t *testing.T) {
	svc := newTestService()

	pair, err := svc.IssuePair("user-7")
	require.NoError(t, err)

	access, err := svc.Refresh(pair.Refresh)
	require.NoError(t, err)

	uid, err := svc.Resolve(access)
	require.NoError(t, err)
	require.Equal(t, "user-7", uid)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc := newTestService()

	pair, err := svc.IssuePair("user-7")
	require.NoError(t, err)

	_, err = svc.Refresh(pair.Access)
	require.Error(t, err)
}

func TestRefreshRejectsExpiredRefreshToken(t *testing.T) {
	svc := NewTokenService(testSecret, 30*time.Minute, -time.Minute)

	pair, err := svc.IssuePair("user-7")
	require.NoError(t, err)

	_, err = svc.Refresh(pair.Refresh)
	require.Error(t, err)
	require.Contains(t, err.Error(), "expired")
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	require.True(t, CheckPassword(hash, "hunter22"))
	require.False(t, CheckPassword(hash, "hunter23"))
}
