package auth

import (
	stderrors "errors"
	"fmt"
	"time"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/wire"

	"github.com/mohammedsinanpt/Movie-website-and-recommendation-system/internal/biz"
	"github.com/mohammedsinanpt/Movie-website-and-recommendation-system/internal/conf"
)

// ProviderSet is auth providers.
var ProviderSet = wire.NewSet(NewManager, wire.Bind(new(biz.TokenIssuer), new(*Manager)))

const (
	defaultTokenTTL = 24 * time.Hour
	// HS256 keys shorter than the hash output weaken the signature.
	minSecretLength = 32
)

var (
	ErrInvalidToken = errors.Unauthorized("INVALID_TOKEN", "invalid token")
	ErrTokenExpired = errors.Unauthorized("TOKEN_EXPIRED", "token has expired")
)

// Claims is the payload of an access token. The subject is the user id.
type Claims struct {
	Staff bool `json:"staff"`
	jwt.RegisteredClaims
}

// Manager issues and verifies HS256 access tokens.
type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewManager(c *conf.Auth) (*Manager, error) {
	if c == nil || c.JwtSecret == "" {
		return nil, stderrors.New("auth.jwt_secret is required")
	}
	if len(c.JwtSecret) < minSecretLength {
		return nil, fmt.Errorf("auth.jwt_secret must be at least %d bytes", minSecretLength)
	}
	ttl := c.TokenTtl.AsDuration()
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &Manager{
		secret: []byte(c.JwtSecret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

func (m *Manager) Issue(user *biz.User) (string, time.Time, error) {
	now := m.now()
	expiresAt := now.Add(m.ttl)

	claims := Claims{
		Staff: user.IsStaff,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// Parse verifies the token and returns its claims.
func (m *Manager) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if stderrors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
