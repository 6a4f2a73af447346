package token

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/wisdom-pocket/internal/domain"
)

const testSecret = "test_secret_0123456789"

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func newTestService(t *testing.T, clock *fakeClock) *Service {
	t.Helper()

	svc, err := NewService(testSecret, time.Hour, WithClock(clock.Now))
	require.NoError(t, err)

	return svc
}

func TestNewService_Errors(t *testing.T) {
	_, err := NewService("", time.Hour)
	require.Error(t, err)

	_, err = NewService(testSecret, 0)
	require.Error(t, err)
}

func TestService_RoundTrip(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc := newTestService(t, clock)

	for _, identity := range []string{"dev123", "a", "device with spaces", "ümlaut-设备"} {
		t.Run(identity, func(t *testing.T) {
			raw, err := svc.Issue(identity)
			require.NoError(t, err)

			got, err := svc.Verify(raw)
			require.NoError(t, err)
			assert.Equal(t, identity, got)
		})
	}
}

func TestService_Issue_Claims(t *testing.T) {
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(t, &fakeClock{t: issued})

	raw, err := svc.Issue("dev123")
	require.NoError(t, err)

	var claims jwt.RegisteredClaims
	_, _, err = jwt.NewParser().ParseUnverified(raw, &claims)
	require.NoError(t, err)

	assert.Equal(t, "dev123", claims.Subject)
	assert.Equal(t, issued.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, issued.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
}

func TestService_Issue_EmptyIdentity(t *testing.T) {
	svc := newTestService(t, &fakeClock{t: time.Now()})

	_, err := svc.Issue("")
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestService_Verify_Expired(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc := newTestService(t, clock)

	raw, err := svc.Issue("dev123")
	require.NoError(t, err)

	clock.t = clock.t.Add(59 * time.Minute)
	_, err = svc.Verify(raw)
	require.NoError(t, err)

	clock.t = clock.t.Add(2 * time.Minute)
	_, err = svc.Verify(raw)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestService_Verify_Invalid(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	svc := newTestService(t, clock)

	valid, err := svc.Issue("dev123")
	require.NoError(t, err)

	other, err := NewService("another_secret_987654", time.Hour, WithClock(clock.Now))
	require.NoError(t, err)
	foreign, err := other.Issue("dev123")
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "dev123"}).
		SignedString([]byte(testSecret))
	require.NoError(t, err)

	noSub, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(clock.t.Add(time.Hour)),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "dev123",
		ExpiresAt: jwt.NewNumericDate(clock.t.Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	parts := strings.Split(valid, ".")
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"wrong secret", foreign},
		{"tampered payload", tampered},
		{"missing exp", noExp},
		{"missing subject", noSub},
		{"alg none", unsigned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Verify(tt.token)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrUnauthorized)
		})
	}
}
