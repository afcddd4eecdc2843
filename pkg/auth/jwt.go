// Package auth проверяет и выпускает HS256 access-токены.
// Выпуск используется только в тестах и локальной разработке: в продакшене токены выдаёт внешний сервис.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken возвращается для неподписанного, просроченного или искажённого токена
	ErrInvalidToken = errors.New("auth: invalid token")

	// ErrEmptySecret возвращается, когда секрет не задан
	ErrEmptySecret = errors.New("auth: empty secret")
)

// Claims содержимое access-токена: sub - ID аккаунта, role - роль
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AccountID возвращает ID аккаунта из sub
func (c *Claims) AccountID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: sub must be a positive account id", ErrInvalidToken)
	}
	return id, nil
}

// TokenManager подписывает и проверяет токены общим секретом
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager создает менеджер токенов
func NewTokenManager(secret string, ttl time.Duration) (*TokenManager, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl}, nil
}

// Issue выпускает токен для аккаунта
func (m *TokenManager) Issue(accountID int64, role string) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(accountID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse проверяет подпись и срок действия токена
func (m *TokenManager) Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
