package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/outletdesk/internal/config"
	"github.com/mamadbah2/outletdesk/internal/session"
)

func newTestService() (*Service, *session.Registry) {
	reg := session.NewRegistry()
	cfg := config.AuthConfig{Username: "staff", Password: "s3cret", SessionSecret: "key"}
	return NewService(cfg, reg, nil), reg
}

func TestLogin_Success(t *testing.T) {
	svc, reg := newTestService()

	token, err := svc.Login("staff", "s3cret", "Hilal")
	require.NoError(t, err)

	id, err := svc.Resolve(token)
	require.NoError(t, err)

	require.NoError(t, reg.With(id, func(st *session.State) error {
		assert.True(t, st.LoggedIn)
		assert.Equal(t, "Hilal", st.Outlet)
		return nil
	}))
}

func TestLogin_WrongPasswordCreatesNothing(t *testing.T) {
	svc, reg := newTestService()

	_, err := svc.Login("staff", "wrong", "Hilal")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, 0, reg.Len())
}

func TestLogin_UnknownOutlet(t *testing.T) {
	svc, reg := newTestService()

	_, err := svc.Login("staff", "s3cret", "Atlantis")
	require.ErrorIs(t, err, ErrUnknownOutlet)
	assert.Equal(t, 0, reg.Len())
}

func TestResolve_TamperedToken(t *testing.T) {
	svc, _ := newTestService()

	token, err := svc.Login("staff", "s3cret", "Wakra")
	require.NoError(t, err)

	_, err = svc.Resolve(token + "x")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewService(config.AuthConfig{Username: "staff", Password: "s3cret", SessionSecret: "other"}, session.NewRegistry(), nil)
	_, err = other.Resolve(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogout(t *testing.T) {
	svc, reg := newTestService()

	token, err := svc.Login("staff", "s3cret", "Wakra")
	require.NoError(t, err)
	id, err := svc.Resolve(token)
	require.NoError(t, err)

	svc.Logout(id)
	assert.False(t, reg.Exists(id))

	_, err = svc.Resolve(token)
	assert.ErrorIs(t, err, session.ErrUnknownSession)
}
