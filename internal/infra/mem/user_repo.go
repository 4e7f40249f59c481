// Package mem provides map-backed repositories used by tests and for running
// the service without a database.
package mem

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"sync"

	"github.com/small-engineer/go-product-serv/internal/domain"
	"github.com/small-engineer/go-product-serv/internal/usecase/auth"
)

func newID() (string, error) {
	b := make([]byte, 12)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

type UserRepo struct {
	mu sync.Mutex
	m  map[string]*domain.User
}

func NewUserRepo() *UserRepo {
	return &UserRepo{
		m: make(map[string]*domain.User),
	}
}

func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.m[username]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.m[u.Username]; ok {
		return auth.ErrUserExists
	}
	if u.ID == "" {
		id, err := newID()
		if err != nil {
			return err
		}
		u.ID = domain.UserID(id)
	}
	cp := *u
	r.m[u.Username] = &cp
	return nil
}
