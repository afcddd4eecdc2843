package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_IssueAndParse(t *testing.T) {
	m, err := NewTokenManager("secret", time.Hour)
	require.NoError(t, err)

	token, err := m.Issue(42, "Staff")
	require.NoError(t, err)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "Staff", claims.Role)

	id, err := claims.AccountID()
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestTokenManager_Rejects(t *testing.T) {
	m, err := NewTokenManager("secret", time.Hour)
	require.NoError(t, err)
	other, err := NewTokenManager("other", time.Hour)
	require.NoError(t, err)
	expired, err := NewTokenManager("secret", -time.Minute)
	require.NoError(t, err)

	foreign, err := other.Issue(1, "Admin")
	require.NoError(t, err)
	_, err = m.Parse(foreign)
	assert.ErrorIs(t, err, ErrInvalidToken)

	old, err := expired.Issue(1, "Admin")
	require.NoError(t, err)
	_, err = m.Parse(old)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = NewTokenManager("", time.Hour)
	assert.ErrorIs(t, err, ErrEmptySecret)
}

func TestClaims_AccountID(t *testing.T) {
	c := &Claims{}
	c.Subject = "abc"
	_, err := c.AccountID()
	assert.ErrorIs(t, err, ErrInvalidToken)
}
