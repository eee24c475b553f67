package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssuer_RoundTrip(t *testing.T) {
	iss := NewIssuer("secret", time.Hour)

	raw, exp, err := iss.Issue(42, "admin")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := iss.Verify(raw)
	require.NoError(t, err)
	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.Equal(t, "admin", claims.Username)
	assert.NotEmpty(t, claims.ID)
}

func TestIssuer_UniqueIDs(t *testing.T) {
	iss := NewIssuer("secret", time.Hour)
	a, _, err := iss.Issue(1, "a")
	require.NoError(t, err)
	b, _, err := iss.Issue(1, "a")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestIssuer_Expired(t *testing.T) {
	iss := NewIssuer("secret", time.Hour)
	iss.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	raw, _, err := iss.Issue(1, "admin")
	require.NoError(t, err)

	_, err = NewIssuer("secret", time.Hour).Verify(raw)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestIssuer_WrongSecret(t *testing.T) {
	raw, _, err := NewIssuer("secret", time.Hour).Issue(1, "admin")
	require.NoError(t, err)

	_, err = NewIssuer("other", time.Hour).Verify(raw)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssuer_Garbage(t *testing.T) {
	_, err := NewIssuer("secret", time.Hour).Verify("not.a.token")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssuer_RejectsOtherAlgorithms(t *testing.T) {
	claims := Claims{
		Username: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewIssuer("secret", time.Hour).Verify(raw)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssuer_RejectsNonNumericSubject(t *testing.T) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "admin",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewIssuer("secret", time.Hour).Verify(raw)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssuer_RejectsMissingExpiry(t *testing.T) {
	claims := Claims{
		Username: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  "1",
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewIssuer("secret", time.Hour).Verify(raw)
	require.ErrorIs(t, err, ErrInvalidToken)
	assert.Contains(t, err.Error(), "missing exp")
}
