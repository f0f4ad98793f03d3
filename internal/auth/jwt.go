// Package auth выдаёт и проверяет токены оператора, который управляет
// симуляцией через HTTP API (сохранения, подземелья).
package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "arpg-engine"

var (
	ErrInvalidToken     = errors.New("недействительный токен")
	ErrWrongCredentials = errors.New("неверный пароль")
)

// Claims represents JWT claims
type Claims struct {
	Operator string `json:"operator"`
	IsAdmin  bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

// TokenIssuer подписывает и проверяет токены HS256
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer создаёт издателя. secret - base64 не короче 32 байт;
// пустой secret заменяется случайным, токены тогда живут до перезапуска.
func NewTokenIssuer(secret string, ttl time.Duration) (*TokenIssuer, error) {
	if ttl <= 0 {
		ttl = time.Hour
	}
	ti := &TokenIssuer{ttl: ttl, now: time.Now}
	if secret == "" {
		ti.secret = make([]byte, 32)
		if _, err := rand.Read(ti.secret); err != nil {
			return nil, fmt.Errorf("генерация секрета: %w", err)
		}
		return ti, nil
	}
	decoded, err := base64.StdEncoding.DecodeString(secret)
	if err != nil {
		return nil, fmt.Errorf("секрет JWT не в base64: %w", err)
	}
	if len(decoded) < 32 {
		return nil, errors.New("secret key must be at least 32 bytes")
	}
	ti.secret = decoded
	return ti, nil
}

// Issue creates a signed token for the operator
func (ti *TokenIssuer) Issue(operator string, isAdmin bool) (string, error) {
	now := ti.now()
	claims := &Claims{
		Operator: operator,
		IsAdmin:  isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ti.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   operator,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(ti.secret)
}

// Validate checks token validity and returns its claims
func (ti *TokenIssuer) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return ti.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(ti.now))
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}

// Login проверяет пароль оператора по bcrypt-хешу и выдаёт токен
func (ti *TokenIssuer) Login(passwordHash, operator, password string) (string, error) {
	if !CheckPassword(passwordHash, password) {
		return "", ErrWrongCredentials
	}
	return ti.Issue(operator, true)
}

// GenerateSecureSecret generates a new secure secret key
func GenerateSecureSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return base64.StdEncoding.EncodeToString(b)
}
