package testutil

import (
	"context"
	"sync"

	"github.com/xxxsen/sportmate/internal/model"
	appErr "github.com/xxxsen/sportmate/internal/pkg/errors"
)

type AdminStore struct {
	mu     sync.Mutex
	admins map[string]model.Admin
}

func NewAdminStore() *AdminStore {
	return &AdminStore{admins: make(map[string]model.Admin)}
}

func (s *AdminStore) Create(_ context.Context, admin *model.Admin) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.admins {
		if a.Email == admin.Email {
			return appErr.ErrConflict
		}
	}
	s.admins[admin.ID] = *admin
	return nil
}

func (s *AdminStore) GetByEmail(_ context.Context, email string) (*model.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.admins {
		if a.Email == email {
			return &a, nil
		}
	}
	return nil, appErr.ErrNotFound
}

func (s *AdminStore) GetByID(_ context.Context, id string) (*model.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.admins[id]
	if !ok {
		return nil, appErr.ErrNotFound
	}
	return &a, nil
}
