package jwt_test

import (
	"testing"
	"time"
	"tripbook/config"
	"tripbook/infras/jwt"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func sign(t *testing.T, method gojwt.SigningMethod, key any, claims jwt.Claims) string {
	t.Helper()

	token, err := gojwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)

	return token
}

func registered(issuer, subject string, expires time.Time) gojwt.RegisteredClaims {
	return gojwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   subject,
		ExpiresAt: gojwt.NewNumericDate(expires),
		IssuedAt:  gojwt.NewNumericDate(time.Now().Add(-time.Minute)),
	}
}

func TestService_ValidateToken(t *testing.T) {
	cfg := &config.Config{}
	cfg.JWT.AccessSecret = secret
	cfg.JWT.Issuer = "identity"

	svc := jwt.New(cfg)
	later := time.Now().Add(time.Hour)

	tests := []struct {
		name    string
		token   string
		wantID  string
		wantErr error
	}{
		{
			name:   "valid",
			token:  sign(t, gojwt.SigningMethodHS256, []byte(secret), jwt.Claims{UserID: "u-1", RegisteredClaims: registered("identity", "", later)}),
			wantID: "u-1",
		},
		{
			name:   "subject fallback",
			token:  sign(t, gojwt.SigningMethodHS256, []byte(secret), jwt.Claims{RegisteredClaims: registered("identity", "u-2", later)}),
			wantID: "u-2",
		},
		{
			name:    "expired",
			token:   sign(t, gojwt.SigningMethodHS256, []byte(secret), jwt.Claims{UserID: "u-1", RegisteredClaims: registered("identity", "", time.Now().Add(-time.Minute))}),
			wantErr: jwt.ErrExpiredToken,
		},
		{
			name:    "wrong issuer",
			token:   sign(t, gojwt.SigningMethodHS256, []byte(secret), jwt.Claims{UserID: "u-1", RegisteredClaims: registered("elsewhere", "", later)}),
			wantErr: jwt.ErrInvalidClaim,
		},
		{
			name:    "wrong secret",
			token:   sign(t, gojwt.SigningMethodHS256, []byte("other"), jwt.Claims{UserID: "u-1", RegisteredClaims: registered("identity", "", later)}),
			wantErr: jwt.ErrInvalidToken,
		},
		{
			name:    "wrong algorithm",
			token:   sign(t, gojwt.SigningMethodHS512, []byte(secret), jwt.Claims{UserID: "u-1", RegisteredClaims: registered("identity", "", later)}),
			wantErr: jwt.ErrInvalidToken,
		},
		{
			name:    "no user",
			token:   sign(t, gojwt.SigningMethodHS256, []byte(secret), jwt.Claims{RegisteredClaims: registered("identity", "", later)}),
			wantErr: jwt.ErrInvalidClaim,
		},
		{
			name:    "garbage",
			token:   "not-a-token",
			wantErr: jwt.ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := svc.ValidateToken(tt.token)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantID, claims.UserID)
		})
	}
}

func TestExtractTokenFromHeader(t *testing.T) {
	token, err := jwt.ExtractTokenFromHeader("Bearer abc.def")
	require.NoError(t, err)
	assert.Equal(t, "abc.def", token)

	token, err = jwt.ExtractTokenFromHeader("bearer abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	for _, header := range []string{"", "Basic abc", "Bearer ", "Bear"} {
		_, err := jwt.ExtractTokenFromHeader(header)
		assert.Error(t, err, header)
	}
}
