// Package auth handles login, token issuance, and request
// authentication. Tokens are HS256 JWTs carrying the user ID as subject.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"homeflix/internal/storage"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

type Service struct {
	storage  *storage.SQLiteStorage
	secret   []byte
	tokenTTL time.Duration
}

func NewService(store *storage.SQLiteStorage, secret string, tokenTTL time.Duration) *Service {
	return &Service{
		storage:  store,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
	}
}

type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Login checks the password against the stored bcrypt hash and issues a
// token. Unknown user and wrong password both come back as
// ErrInvalidCredentials so the response doesn't leak which usernames
// exist.
func (s *Service) Login(username, password string) (token string, user *storage.User, err error) {
	u, err := s.storage.GetUserByUsername(username)
	if err != nil {
		return "", nil, fmt.Errorf("lookup user: %w", err)
	}
	if u == nil {
		return "", nil, ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	now := time.Now()
	claims := Claims{
		Username: u.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}

	return token, u, nil
}

// VerifyToken parses and validates a bearer token, returning the claims.
func (s *Service) VerifyToken(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// CreateUser hashes the password and stores a new user.
func (s *Service) CreateUser(username, email, password string) (*storage.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &storage.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.storage.CreateUser(u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}
