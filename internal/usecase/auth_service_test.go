package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gfmartins/bolao-brasileirao/internal/platform/logging"
	"github.com/gfmartins/bolao-brasileirao/internal/platform/token"
)

func newAuthFixture(t *testing.T) *AuthService {
	t.Helper()
	tokens := token.NewManager("test-secret", time.Hour)
	return NewAuthService(tokens, AuthConfig{
		AdminUsername: "admin",
		AdminPassword: "s3cret",
	}, logging.NewNop())
}

func TestAuthServiceLoginAndVerify(t *testing.T) {
	svc := newAuthFixture(t)
	ctx := context.Background()

	signed, err := svc.Login(ctx, "admin", "s3cret")
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	subject, err := svc.Verify(ctx, signed)
	require.NoError(t, err)
	assert.Equal(t, "admin", subject)
}

func TestAuthServiceLoginRejected(t *testing.T) {
	svc := newAuthFixture(t)
	ctx := context.Background()

	for _, tc := range []struct{ user, pass string }{
		{"admin", "wrong"},
		{"nobody", "s3cret"},
		{"", ""},
	} {
		_, err := svc.Login(ctx, tc.user, tc.pass)
		assert.ErrorIs(t, err, ErrUnauthorized)
	}
}

func TestAuthServiceVerifyGarbage(t *testing.T) {
	svc := newAuthFixture(t)
	_, err := svc.Verify(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrUnauthorized)
}
