package auth

import (
	"testing"
	"time"

	"shopcart/config"
	"shopcart/internal/domain/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test_access_secret_key_very_long_for_testing"

func newTestJWTService(t *testing.T, secret string, ttl time.Duration) *jwtService {
	t.Helper()

	cfg := &config.Config{Auth: &config.AuthConfig{TokenTTL: ttl}}
	cfg.SecretKey.Access = secret

	svc, err := NewJWTService(cfg)
	require.NoError(t, err)

	return svc.(*jwtService)
}

func TestJWTService_IssueAndVerify(t *testing.T) {
	svc := newTestJWTService(t, testSecret, time.Hour)
	userID := uuid.New()

	token, err := svc.Issue(userID)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	got, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
	assert.Equal(t, time.Hour, svc.ttl)
}

func TestJWTService_DefaultTTL(t *testing.T) {
	cfg := &config.Config{}
	cfg.SecretKey.Access = testSecret

	svc, err := NewJWTService(cfg)
	require.NoError(t, err)
	assert.Equal(t, 8*time.Hour, svc.(*jwtService).ttl)
}

func TestJWTService_MissingSecret(t *testing.T) {
	_, err := NewJWTService(&config.Config{})
	assert.Error(t, err)
}

func TestJWTService_Expired(t *testing.T) {
	svc := newTestJWTService(t, testSecret, time.Minute)
	issuedAt := time.Now().Add(-2 * time.Minute)
	svc.now = func() time.Time { return issuedAt }

	token, err := svc.Issue(uuid.New())
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, service.ErrTokenExpired)
}

func TestJWTService_ValidJustBeforeExpiry(t *testing.T) {
	svc := newTestJWTService(t, testSecret, time.Minute)
	issuedAt := time.Now().Add(-50 * time.Second)
	svc.now = func() time.Time { return issuedAt }

	token, err := svc.Issue(uuid.New())
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.Verify(token)
	assert.NoError(t, err)
}

func TestJWTService_ForgedSignature(t *testing.T) {
	issuer := newTestJWTService(t, "some_other_secret_that_is_also_long", time.Hour)
	verifier := newTestJWTService(t, testSecret, time.Hour)

	token, err := issuer.Issue(uuid.New())
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, service.ErrInvalidSignature)
}

func TestJWTService_TamperedPayload(t *testing.T) {
	svc := newTestJWTService(t, testSecret, time.Hour)

	token, err := svc.Issue(uuid.New())
	require.NoError(t, err)

	other, err := svc.Issue(uuid.New())
	require.NoError(t, err)

	// Header and payload of one token with the signature of another.
	tampered := token[:lastDot(token)] + other[lastDot(other):]
	_, err = svc.Verify(tampered)
	assert.ErrorIs(t, err, service.ErrInvalidSignature)
}

func TestJWTService_WrongSigningMethod(t *testing.T) {
	svc := newTestJWTService(t, testSecret, time.Hour)

	claims := jwt.RegisteredClaims{
		Subject:   uuid.New().String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, service.ErrInvalidSignature)
}

func TestJWTService_Malformed(t *testing.T) {
	svc := newTestJWTService(t, testSecret, time.Hour)

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		_, err := svc.Verify(token)
		assert.ErrorIs(t, err, service.ErrTokenMalformed, "token %q", token)
	}
}

func TestJWTService_SubjectNotUserID(t *testing.T) {
	svc := newTestJWTService(t, testSecret, time.Hour)

	claims := jwt.RegisteredClaims{
		Subject:   "admin",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, service.ErrTokenMalformed)
}

func TestJWTService_MissingExpiry(t *testing.T) {
	svc := newTestJWTService(t, testSecret, time.Hour)

	claims := jwt.RegisteredClaims{Subject: uuid.New().String()}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.Error(t, err)
}

func lastDot(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '.' {
			return i
		}
	}

	return -1
}
