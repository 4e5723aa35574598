package auth

import (
	"context"
	"errors"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/scythe504/tabu-backend/internal"
)

// Session is what a successful register or login hands back to the client.
type Session struct {
	UserID   string
	Username string
	Token    string
}

type Service struct {
	users  UserRepo
	hasher PasswordHasher
	tokens TokenManager
}

func NewService(users UserRepo, hasher PasswordHasher, tokens TokenManager) *Service {
	return &Service{users: users, hasher: hasher, tokens: tokens}
}

func (s *Service) Register(ctx context.Context, username, password string) (Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return Session{}, ErrMissingCredentials
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return Session{}, err
	}

	id, err := s.users.CreateUser(ctx, username, hash)
	if errors.Is(err, internal.ErrDuplicateUsername) {
		return Session{}, ErrUsernameTaken
	}
	if err != nil {
		return Session{}, err
	}

	log.WithField("user", id).Infof("[Register] account %q created", username)
	return s.session(id, username)
}

// Login checks the password and issues a token. Unknown usernames and wrong
// passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, username, password string) (Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return Session{}, ErrMissingCredentials
	}

	user, err := s.users.GetUserByUsername(ctx, username)
	if errors.Is(err, internal.ErrUserNotFound) {
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, err
	}
	if !s.hasher.Compare(user.PasswordHash, password) {
		return Session{}, ErrInvalidCredentials
	}

	log.WithField("user", user.Id).Infof("[Login] %s logged in", user.Username)
	return s.session(user.Id, user.Username)
}

// Verify returns the account a token was issued for.
func (s *Service) Verify(token string) (userID, username string, err error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return "", "", err
	}
	return claims.UserID, claims.Username, nil
}

func (s *Service) session(userID, username string) (Session, error) {
	token, err := s.tokens.Generate(userID, username)
	if err != nil {
		return Session{}, err
	}
	return Session{UserID: userID, Username: username, Token: token}, nil
}
