// Package testutil holds in-memory stores for service and handler tests.
package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/xxxsen/sportmate/internal/model"
	appErr "github.com/xxxsen/sportmate/internal/pkg/errors"
	"github.com/xxxsen/sportmate/internal/proximity"
	"github.com/xxxsen/sportmate/internal/repo"
)

// UserStore mirrors repo.UserRepo over a map.
type UserStore struct {
	mu    sync.Mutex
	users map[string]model.User
}

func NewUserStore(users ...model.User) *UserStore {
	s := &UserStore{users: make(map[string]model.User)}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *UserStore) Create(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return appErr.ErrConflict
		}
	}
	if _, ok := s.users[user.ID]; ok {
		return appErr.ErrConflict
	}
	s.users[user.ID] = *user
	return nil
}

func (s *UserStore) UpdatePendingSignup(_ context.Context, user *model.User) error {
	return s.mutateByEmail(user.Email, func(u *model.User) bool {
		if u.Verified {
			return false
		}
		u.Name = user.Name
		u.PasswordHash = user.PasswordHash
		u.Sport = user.Sport
		u.City = user.City
		u.Area = user.Area
		u.Latitude = user.Latitude
		u.Longitude = user.Longitude
		u.Mtime = user.Mtime
		return true
	})
}

func (s *UserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, appErr.ErrNotFound
}

func (s *UserStore) GetByID(_ context.Context, userID string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, appErr.ErrNotFound
	}
	return &u, nil
}

func (s *UserStore) MarkVerified(_ context.Context, email string, now int64) error {
	return s.mutateByEmail(email, func(u *model.User) bool {
		u.Verified = true
		u.Active = true
		u.LastActive = now
		u.Mtime = now
		return true
	})
}

func (s *UserStore) UpdateProfile(_ context.Context, user *model.User) error {
	return s.mutateByID(user.ID, func(u *model.User) {
		u.Name = user.Name
		u.Sport = user.Sport
		u.City = user.City
		u.Area = user.Area
		u.Latitude = user.Latitude
		u.Longitude = user.Longitude
		u.LastActive = user.LastActive
		u.Mtime = user.Mtime
	})
}

func (s *UserStore) Touch(_ context.Context, userID string, now int64) error {
	return s.mutateByID(userID, func(u *model.User) {
		u.LastActive = now
		u.Active = true
	})
}

func (s *UserStore) SetActive(_ context.Context, userID string, active bool) error {
	return s.mutateByID(userID, func(u *model.User) { u.Active = active })
}

func (s *UserStore) MarkIdle(_ context.Context, before int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, u := range s.users {
		if u.Active && u.LastActive < before {
			u.Active = false
			s.users[id] = u
			n++
		}
	}
	return n, nil
}

func (s *UserStore) ListCandidates(_ context.Context, q repo.CandidateQuery) ([]model.User, error) {
	items := s.filter(func(u *model.User) bool {
		if u.ID == q.ExcludeID {
			return false
		}
		if q.ActiveAfter > 0 && u.LastActive <= q.ActiveAfter {
			return false
		}
		if q.Within != nil {
			p, ok := proximity.PointOf(u.Latitude, u.Longitude)
			if !ok || !q.Within.Contains(p) {
				return false
			}
		}
		return matches(u, q.Sport, q.City, q.Area) && contains(u.Name, q.Name)
	})
	sort.Slice(items, func(i, j int) bool {
		if items[i].LastActive != items[j].LastActive {
			return items[i].LastActive > items[j].LastActive
		}
		return items[i].ID < items[j].ID
	})
	if q.Limit > 0 && uint(len(items)) > q.Limit {
		items = items[:q.Limit]
	}
	return items, nil
}

func (s *UserStore) List(_ context.Context, q repo.UserListQuery) ([]model.User, error) {
	items := s.filter(func(u *model.User) bool { return matches(u, q.Sport, q.City, q.Area) })
	sort.Slice(items, func(i, j int) bool {
		if items[i].Ctime != items[j].Ctime {
			return items[i].Ctime > items[j].Ctime
		}
		return items[i].ID < items[j].ID
	})
	if q.Offset >= uint(len(items)) {
		return []model.User{}, nil
	}
	items = items[q.Offset:]
	if q.Limit > 0 && uint(len(items)) > q.Limit {
		items = items[:q.Limit]
	}
	return items, nil
}

func (s *UserStore) Count(_ context.Context, q repo.UserListQuery) (int, error) {
	return len(s.filter(func(u *model.User) bool { return matches(u, q.Sport, q.City, q.Area) })), nil
}

func (s *UserStore) CountVerified(_ context.Context) (int, error) {
	return len(s.filter(func(*model.User) bool { return true })), nil
}

func (s *UserStore) CountActiveAfter(_ context.Context, ts int64) (int, error) {
	return len(s.filter(func(u *model.User) bool { return u.LastActive > ts })), nil
}

func (s *UserStore) CountCreatedSince(_ context.Context, ts int64) (int, error) {
	return len(s.filter(func(u *model.User) bool { return u.Ctime >= ts })), nil
}

func (s *UserStore) CountBySport(_ context.Context) ([]model.SportCount, error) {
	counts := map[model.Sport]int{}
	for _, u := range s.filter(func(*model.User) bool { return true }) {
		counts[u.Sport]++
	}
	out := make([]model.SportCount, 0, len(counts))
	for sport, n := range counts {
		out = append(out, model.SportCount{Sport: sport, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Sport < out[j].Sport
	})
	return out, nil
}

func (s *UserStore) CountByCity(_ context.Context, limit int) ([]model.CityCount, error) {
	counts := map[string]int{}
	for _, u := range s.filter(func(*model.User) bool { return true }) {
		counts[u.City]++
	}
	out := make([]model.CityCount, 0, len(counts))
	for city, n := range counts {
		out = append(out, model.CityCount{City: city, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].City < out[j].City
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *UserStore) DistinctCities(_ context.Context) ([]string, error) {
	return distinct(s.filter(func(*model.User) bool { return true }), func(u model.User) string { return u.City }), nil
}

func (s *UserStore) DistinctAreas(_ context.Context, city string) ([]string, error) {
	items := s.filter(func(u *model.User) bool { return contains(u.City, city) })
	return distinct(items, func(u model.User) string { return u.Area }), nil
}

func (s *UserStore) Delete(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[userID]; !ok {
		return appErr.ErrNotFound
	}
	delete(s.users, userID)
	return nil
}

// Put inserts or replaces a user as-is.
func (s *UserStore) Put(user model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
}

// filter returns verified users accepted by keep.
func (s *UserStore) filter(keep func(*model.User) bool) []model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.User, 0, len(s.users))
	for _, u := range s.users {
		if u.Verified && keep(&u) {
			out = append(out, u)
		}
	}
	return out
}

func (s *UserStore) mutateByID(userID string, fn func(*model.User)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return appErr.ErrNotFound
	}
	fn(&u)
	s.users[userID] = u
	return nil
}

func (s *UserStore) mutateByEmail(email string, fn func(*model.User) bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, u := range s.users {
		if u.Email != email {
			continue
		}
		if !fn(&u) {
			return appErr.ErrNotFound
		}
		s.users[id] = u
		return nil
	}
	return appErr.ErrNotFound
}

func matches(u *model.User, sport model.Sport, city, area string) bool {
	if sport != "" && u.Sport != sport {
		return false
	}
	return contains(u.City, city) && contains(u.Area, area)
}

func contains(value, needle string) bool {
	needle = strings.TrimSpace(needle)
	return needle == "" || strings.Contains(strings.ToLower(value), strings.ToLower(needle))
}

func distinct(items []model.User, key func(model.User) string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0)
	for _, u := range items {
		v := key(u)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
