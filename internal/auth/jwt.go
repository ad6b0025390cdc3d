package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Manager struct {
	Secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Issuer     string
}

// Claims carry the actor identity the route guards read: the role and
// the portfolio capability.
type Claims struct {
	Username           string `json:"username"`
	Role               string `json:"role"`
	CanAccessPortfolio bool   `json:"can_access_portfolio"`
	jwt.RegisteredClaims
}

func (m *Manager) newToken(username, role string, portfolio bool, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Username:           username,
		Role:               role,
		CanAccessPortfolio: portfolio,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.Secret)
}

func (m *Manager) NewAccessToken(username, role string, portfolio bool) (string, error) {
	return m.newToken(username, role, portfolio, m.AccessTTL)
}

func (m *Manager) NewRefreshToken(username, role string, portfolio bool) (string, error) {
	return m.newToken(username, role, portfolio, m.RefreshTTL)
}

func (m *Manager) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return m.Secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
