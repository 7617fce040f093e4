package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims mirrors the token issued by the accounts service. Older tokens carry
// the user id only in "sub".
type Claims struct {
	UserID    int64  `json:"user_id,omitempty"`
	Username  string `json:"username,omitempty"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	IsDealer  bool   `json:"is_dealer"`
	jwt.RegisteredClaims
}

func (c *Claims) ID() (int64, error) {
	if c.UserID != 0 {
		return c.UserID, nil
	}
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: no user id", ErrInvalidToken)
	}
	return id, nil
}

type Verifier struct {
	secret    []byte
	algorithm string
}

func NewVerifier(secret, algorithm string) *Verifier {
	if algorithm == "" {
		algorithm = jwt.SigningMethodHS256.Alg()
	}
	return &Verifier{secret: []byte(secret), algorithm: algorithm}
}

func (v *Verifier) Verify(tokenStr string) (*Claims, error) {
	if tokenStr == "" {
		return nil, fmt.Errorf("%w: missing token", ErrInvalidToken)
	}
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{v.algorithm}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if _, err := claims.ID(); err != nil {
		return nil, err
	}
	return claims, nil
}

// Issue signs claims with the verifier's key. The accounts service owns real
// issuance; this is used by tests and local tooling.
func (v *Verifier) Issue(claims Claims, ttl time.Duration) (string, error) {
	now := time.Now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	method := jwt.GetSigningMethod(v.algorithm)
	if method == nil {
		return "", fmt.Errorf("unsupported signing method %q", v.algorithm)
	}
	return jwt.NewWithClaims(method, claims).SignedString(v.secret)
}
