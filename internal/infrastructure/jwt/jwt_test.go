package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate_Success(t *testing.T) {
	s := New("super-secret")

	tok, err := s.GenerateJWT(123, RoleAdmin, time.Hour)
	require.NoError(t, err, "GenerateJWT should not error")
	require.NotEmpty(t, tok, "token must not be empty")

	claims, err := s.ValidateToken(tok)
	require.NoError(t, err, "ValidateToken should not error for fresh token")
	require.NotNil(t, claims)

	assert.Equal(t, int64(123), claims.UserID)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.NotEqual(t, uuid.Nil, claims.TokenID())
	assert.True(t, claims.Expiry().After(time.Now().Add(-1*time.Second)))
}

func TestGenerateJWT_UniqueTokenIDs(t *testing.T) {
	s := New("k")
	seen := make(map[uuid.UUID]struct{})
	for i := 0; i < 50; i++ {
		tok, err := s.GenerateJWT(1, RoleUser, time.Minute)
		require.NoError(t, err)
		c, err := s.ValidateToken(tok)
		require.NoError(t, err)
		_, dup := seen[c.TokenID()]
		require.False(t, dup)
		seen[c.TokenID()] = struct{}{}
	}
}

func TestRoleOf(t *testing.T) {
	assert.Equal(t, RoleAdmin, RoleOf(true))
	assert.Equal(t, RoleUser, RoleOf(false))
}

func TestValidateToken_Table(t *testing.T) {
	type fields struct {
		secret string
	}
	type want struct {
		ok    bool
		err   error
		check func(t *testing.T, c *Claims)
	}

	makeToken := func(secret string, exp time.Duration) string {
		s := New(secret)
		tok, err := s.GenerateJWT(42, RoleUser, exp)
		require.NoError(t, err)
		return tok
	}

	signRaw := func(method jwt.SigningMethod, key any, claims Claims) string {
		tok, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return tok
	}

	future := jwt.NewNumericDate(time.Now().Add(time.Hour))

	tests := []struct {
		name   string
		fields fields
		token  string
		want   want
	}{
		{
			name:   "valid token",
			fields: fields{secret: "k1"},
			token:  makeToken("k1", 5*time.Minute),
			want: want{
				ok: true,
				check: func(t *testing.T, c *Claims) {
					assert.Equal(t, int64(42), c.UserID)
					assert.Equal(t, RoleUser, c.Role)
					assert.True(t, c.Expiry().After(time.Now().Add(-1*time.Second)))
				},
			},
		},
		{
			name:   "invalid secret (signature mismatch)",
			fields: fields{secret: "k2"},
			token:  makeToken("k1", 5*time.Minute),
			want:   want{err: ErrInvalidToken},
		},
		{
			name:   "expired token",
			fields: fields{secret: "k1"},
			token:  makeToken("k1", -1*time.Minute),
			want:   want{err: ErrInvalidToken},
		},
		{
			name:   "malformed token string",
			fields: fields{secret: "k1"},
			token:  "not-a-jwt",
			want:   want{err: ErrInvalidToken},
		},
		{
			name:   "unsigned token",
			fields: fields{secret: "k1"},
			token: signRaw(jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, Claims{
				UserID:           42,
				RegisteredClaims: jwt.RegisteredClaims{ID: uuid.NewString(), ExpiresAt: future},
			}),
			want: want{err: ErrInvalidToken},
		},
		{
			name:   "no expiry",
			fields: fields{secret: "k1"},
			token: signRaw(jwt.SigningMethodHS256, []byte("k1"), Claims{
				UserID:           42,
				RegisteredClaims: jwt.RegisteredClaims{ID: uuid.NewString()},
			}),
			want: want{err: ErrInvalidToken},
		},
		{
			name:   "missing jti",
			fields: fields{secret: "k1"},
			token: signRaw(jwt.SigningMethodHS256, []byte("k1"), Claims{
				UserID:           42,
				RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: future},
			}),
			want: want{err: ErrInvalidClaims},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.fields.secret)

			claims, err := s.ValidateToken(tt.token)
			if tt.want.ok {
				require.NoError(t, err)
				require.NotNil(t, claims)
				if tt.want.check != nil {
					tt.want.check(t, claims)
				}
			} else {
				require.ErrorIs(t, err, tt.want.err)
				assert.Nil(t, claims)
			}
		})
	}
}
