package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// Claims identifies the console operator a token was issued to.
type Claims struct {
	Operator string `json:"op"`
	jwt.RegisteredClaims
}

// Service issues and verifies operator tokens against the single
// shared admin password. With no password configured every login is
// rejected, which is how auth is disabled in development.
type Service struct {
	secret       []byte
	ttl          time.Duration
	passwordHash string
}

func NewService(secret, adminPassword string, ttl time.Duration) (*Service, error) {
	s := &Service{secret: []byte(secret), ttl: ttl}
	if adminPassword != "" {
		hash, err := HashPassword(adminPassword)
		if err != nil {
			return nil, err
		}
		s.passwordHash = hash
	}
	return s, nil
}

// Enabled reports whether logins can succeed at all. Gates that guard
// routes skip enforcement when the service cannot issue tokens.
func (s *Service) Enabled() bool {
	return s.passwordHash != ""
}

// Login verifies the shared password and returns a signed token naming
// the operator.
func (s *Service) Login(operator, password string) (string, error) {
	if operator == "" || s.passwordHash == "" {
		return "", ErrInvalidCredentials
	}
	if err := CheckPassword(s.passwordHash, password); err != nil {
		return "", ErrInvalidCredentials
	}
	claims := Claims{
		Operator: operator,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   operator,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *Service) Parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func CheckPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
