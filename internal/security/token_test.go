package security

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nicholas91X/auto2g-backend/internal/domain"
)

func testIssuer() *TokenIssuer {
	return NewTokenIssuer("test-secret", TokenTTLs{})
}

func testAccount() domain.Account {
	return domain.Account{
		ID:       "acc_123",
		Email:    "seller@example.com",
		Role:     domain.RoleSeller,
		Active:   true,
		Verified: true,
	}
}

func TestSessionTokenRoundTrip(t *testing.T) {
	issuer := testIssuer()

	token, err := issuer.IssueSession(testAccount())
	require.NoError(t, err)

	claims, err := issuer.ParseSession(token)
	require.NoError(t, err)
	assert.Equal(t, "acc_123", claims.AccountID)
	assert.Equal(t, "seller@example.com", claims.Email)
	assert.Equal(t, domain.RoleSeller, claims.Role)
	assert.True(t, claims.Active)
	assert.True(t, claims.Verified)
}

func TestTokenTypeIsolation(t *testing.T) {
	issuer := testIssuer()

	confirmation, err := issuer.IssueConfirmation("acc_123")
	require.NoError(t, err)
	reset, err := issuer.IssuePasswordReset("acc_123")
	require.NoError(t, err)

	// a confirmation token must never redeem as a reset token, or the
	// 2h confirmation window would bypass the 30m reset window
	_, err = issuer.ParsePasswordReset(confirmation)
	assert.ErrorIs(t, err, domain.ErrWrongTokenType)

	_, err = issuer.ParseConfirmation(reset)
	assert.ErrorIs(t, err, domain.ErrWrongTokenType)

	_, err = issuer.ParseSession(confirmation)
	assert.ErrorIs(t, err, domain.ErrWrongTokenType)

	_, err = issuer.ParseOnboarding(reset)
	assert.ErrorIs(t, err, domain.ErrWrongTokenType)
}

func TestTamperedTokenRejected(t *testing.T) {
	issuer := testIssuer()

	token, err := issuer.IssueSession(testAccount())
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + "." + "AAAA" + parts[2][4:]

	_, err = issuer.ParseSession(tampered)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestWrongSecretRejected(t *testing.T) {
	token, err := testIssuer().IssueSession(testAccount())
	require.NoError(t, err)

	other := NewTokenIssuer("different-secret", TokenTTLs{})
	_, err = other.ParseSession(token)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestExpiredTokenRejected(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", TokenTTLs{
		Session: -time.Minute,
	})

	token, err := issuer.IssueSession(testAccount())
	require.NoError(t, err)

	_, err = issuer.ParseSession(token)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestMalformedTokenRejected(t *testing.T) {
	issuer := testIssuer()

	for _, garbage := range []string{"", "abc", "a.b.c"} {
		_, err := issuer.ParseSession(garbage)
		assert.ErrorIs(t, err, domain.ErrInvalidToken)
	}
}

func TestOnboardingTokenRoundTrip(t *testing.T) {
	issuer := testIssuer()

	token, err := issuer.IssueOnboarding("dealer@example.com", "Rossi Auto")
	require.NoError(t, err)

	claims, err := issuer.ParseOnboarding(token)
	require.NoError(t, err)
	assert.Equal(t, "dealer@example.com", claims.Email)
	assert.Equal(t, "Rossi Auto", claims.DealershipName)
}
