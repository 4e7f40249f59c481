package auth

import (
	"context"
	"errors"

	"github.com/small-engineer/go-product-serv/internal/domain"
)

var (
	ErrInvalidCred = errors.New("invalid credentials")
	ErrUserExists  = errors.New("user already exists")
)

// UserRepo persists user credentials. FindByUsername returns (nil, nil) when
// the user does not exist. Create returns ErrUserExists if the username is
// already taken; the store's unique constraint is the authoritative check.
type UserRepo interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
}

type Service struct {
	users UserRepo
}

func NewService(u UserRepo) *Service {
	return &Service{
		users: u,
	}
}

// Register creates a new user with a hashed password. The lookup before the
// insert only improves the error message; a concurrent insert of the same
// username is still caught by the store constraint.
func (s *Service) Register(ctx context.Context, username, pass string) (*domain.User, error) {
	ex, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if ex != nil {
		return nil, ErrUserExists
	}

	h, err := HashPassword(pass)
	if err != nil {
		return nil, err
	}

	u := &domain.User{
		Username:     username,
		PasswordHash: string(h),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login verifies the credentials and returns the matching user. Unknown
// usernames and wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, username, pass string) (*domain.User, error) {
	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrInvalidCred
	}
	if err := VerifyPassword(pass, u.PasswordHash); err != nil {
		return nil, ErrInvalidCred
	}
	return u, nil
}
