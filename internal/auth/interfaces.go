package auth

import (
	"context"

	"github.com/scythe504/tabu-backend/internal"
)

type UserRepo interface {
	CreateUser(ctx context.Context, username, passwordHash string) (string, error)
	GetUserByUsername(ctx context.Context, username string) (internal.User, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

type TokenManager interface {
	Generate(userID, username string) (string, error)
	Verify(token string) (Claims, error)
}
