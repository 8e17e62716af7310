package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"bookcatalog/internal/platform/crypto"
	"bookcatalog/internal/user"
)

var ErrUnauthorized = errors.New("unauthorized")

type Token struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	Username    string    `json:"username"`
	Role        string    `json:"role"`
}

type Service struct {
	users  user.Directory
	tokens *crypto.TokenIssuer
	logger *slog.Logger
}

func NewService(users user.Directory, tokens *crypto.TokenIssuer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{users: users, tokens: tokens, logger: logger}
}

// Login checks the password against the directory and issues a bearer token
// whose subject is the stored username.
func (s *Service) Login(ctx context.Context, username, password string) (Token, error) {
	u, ok := s.users.Find(username)
	if !ok || !crypto.VerifyPassword(u.PasswordHash, password) {
		s.logger.WarnContext(ctx, "login failed", "username", username)
		return Token{}, ErrUnauthorized
	}

	access, expiresAt, err := s.tokens.Generate(u.Username, u.Role)
	if err != nil {
		return Token{}, err
	}

	s.logger.InfoContext(ctx, "login succeeded", "username", u.Username, "role", u.Role)
	return Token{
		AccessToken: access,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		Username:    u.Username,
		Role:        u.Role,
	}, nil
}
