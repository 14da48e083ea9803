package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/fitgoals/backend/internal/common/crypto"
)

var (
	// ErrExpired and ErrInvalid are distinguishable for logging and tests;
	// both map to the same unauthorized outcome at the HTTP boundary.
	ErrExpired = errors.New("token expired")
	ErrInvalid = errors.New("token is not valid")
)

type Claims struct {
	UserID    string
	ExpiresAt time.Time
}

type Issuer interface {
	Sign(userID string) (string, error)
}

type Verifier interface {
	Verify(tokenString string) (Claims, error)
}

// HS256Codec signs and verifies session tokens with a process-wide secret.
// Tokens are stateless bearer credentials: no revocation list, no refresh.
type HS256Codec struct {
	secret []byte
	ttl    time.Duration
	idGen  crypto.IDGenerator
	now    func() time.Time
}

func NewHS256Codec(secret string, ttl time.Duration, idGen crypto.IDGenerator) *HS256Codec {
	return &HS256Codec{
		secret: []byte(secret),
		ttl:    ttl,
		idGen:  idGen,
		now:    time.Now,
	}
}

// WithNow overrides the codec clock. Test hook.
func (c *HS256Codec) WithNow(now func() time.Time) *HS256Codec {
	c.now = now
	return c
}

func (c *HS256Codec) Sign(userID string) (string, error) {
	jti, err := c.idGen.NewID()
	if err != nil {
		return "", err
	}

	issuedAt := c.now()
	claims := jwt.MapClaims{
		"sub": userID,
		"jti": jti,
		"iat": issuedAt.Unix(),
		"exp": issuedAt.Add(c.ttl).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(c.secret)
}

func (c *HS256Codec) Verify(tokenString string) (Claims, error) {
	parsed, err := jwt.Parse(
		tokenString,
		func(t *jwt.Token) (any, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, ErrInvalid
			}
			return c.secret, nil
		},
		jwt.WithTimeFunc(func() time.Time { return c.now() }),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrExpired
		}
		return Claims{}, ErrInvalid
	}
	if !parsed.Valid {
		return Claims{}, ErrInvalid
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalid
	}

	sub, _ := mapClaims["sub"].(string)
	if sub == "" {
		return Claims{}, ErrInvalid
	}

	claims := Claims{UserID: sub}
	if exp, err := mapClaims.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}

	return claims, nil
}
