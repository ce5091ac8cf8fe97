package auth

import (
	"context"
	"testing"
	"time"

	"gonext_go/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memorySettings map[string]string

func (m memorySettings) GetSetting(_ context.Context, key string) (string, bool, error) {
	v, ok := m[key]
	return v, ok, nil
}

func (m memorySettings) SetSetting(_ context.Context, key, value string) error {
	m[key] = value
	return nil
}

func (m memorySettings) DeleteSetting(_ context.Context, key string) error {
	delete(m, key)
	return nil
}

func TestTokenRoundTrip(t *testing.T) {
	svc, err := NewTokenService("secret", time.Hour)
	require.NoError(t, err)

	token, expires, err := svc.GenerateToken()
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, time.Minute)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "owner", claims.Subject)
}

func TestTokenFromOtherKeyRejected(t *testing.T) {
	first, err := NewTokenService("", time.Hour)
	require.NoError(t, err)
	second, err := NewTokenService("", time.Hour)
	require.NoError(t, err)

	token, _, err := first.GenerateToken()
	require.NoError(t, err)
	_, err = second.ValidateToken(token)
	assert.Error(t, err)

	_, err = first.ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestExpiredToken(t *testing.T) {
	svc, err := NewTokenService("secret", time.Nanosecond)
	require.NoError(t, err)
	svc.ttl = -time.Minute

	token, _, err := svc.GenerateToken()
	require.NoError(t, err)
	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestPINLifecycle(t *testing.T) {
	ctx := context.Background()
	pins := NewPINService(memorySettings{}, "pin_hash")

	set, err := pins.IsSet(ctx)
	require.NoError(t, err)
	assert.False(t, set)
	assert.NoError(t, pins.Verify(ctx, "anything"))

	assert.ErrorIs(t, pins.SetPIN(ctx, "", "12"), validation.ErrValidation)
	require.NoError(t, pins.SetPIN(ctx, "", "1234"))

	set, err = pins.IsSet(ctx)
	require.NoError(t, err)
	assert.True(t, set)
	assert.NoError(t, pins.Verify(ctx, "1234"))
	assert.ErrorIs(t, pins.Verify(ctx, "0000"), ErrWrongPIN)

	assert.ErrorIs(t, pins.SetPIN(ctx, "0000", "5678"), ErrWrongPIN)
	require.NoError(t, pins.SetPIN(ctx, "1234", ""))
	set, err = pins.IsSet(ctx)
	require.NoError(t, err)
	assert.False(t, set)
}
