package service

import (
	"context"
	"strings"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/sportmate/internal/model"
	appErr "github.com/xxxsen/sportmate/internal/pkg/errors"
	"github.com/xxxsen/sportmate/internal/pkg/jwt"
	"github.com/xxxsen/sportmate/internal/pkg/password"
	"github.com/xxxsen/sportmate/internal/pkg/timeutil"
	"github.com/xxxsen/sportmate/internal/proximity"
	"github.com/xxxsen/sportmate/internal/repo"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	topCityCount    = 10
	// maxPage keeps (page-1)*limit well inside the offset range.
	maxPage = 1000000
)

type AdminService struct {
	admins    AdminStore
	users     UserAdminStore
	jwtSecret []byte
	jwtTTL    time.Duration
	now       func() time.Time
}

func NewAdminService(admins AdminStore, users UserAdminStore, secret []byte, ttl time.Duration) *AdminService {
	return &AdminService{admins: admins, users: users, jwtSecret: secret, jwtTTL: ttl, now: time.Now}
}

type UserListInput struct {
	Sport string
	City  string
	Area  string
	Page  int
	Limit int
}

type AdminUser struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	Sport      model.Sport `json:"sport"`
	City       string      `json:"city"`
	Area       string      `json:"area"`
	IsOnline   bool        `json:"is_online"`
	LastActive int64       `json:"last_active"`
	JoinedAt   int64       `json:"joined_at"`
}

type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Pages int `json:"pages"`
	Limit int `json:"limit"`
}

type UserPage struct {
	Pagination Pagination  `json:"pagination"`
	Users      []AdminUser `json:"users"`
}

func (s *AdminService) Login(ctx context.Context, email, plainPassword string) (*model.Admin, string, error) {
	email = normalizeEmail(email)
	if email == "" || plainPassword == "" {
		return nil, "", appErr.ErrInvalid
	}
	admin, err := s.admins.GetByEmail(ctx, email)
	if err != nil {
		if appErr.IsNotFound(err) {
			return nil, "", appErr.ErrUnauthorized
		}
		return nil, "", err
	}
	if err := password.Compare(admin.PasswordHash, plainPassword); err != nil {
		return nil, "", appErr.ErrUnauthorized
	}
	token, err := jwt.GenerateToken(admin.ID, admin.Email, admin.Role, s.jwtSecret, s.jwtTTL)
	if err != nil {
		return nil, "", err
	}
	return admin, token, nil
}

// Get resolves an admin from a token subject.
func (s *AdminService) Get(ctx context.Context, adminID string) (*model.Admin, error) {
	return s.admins.GetByID(ctx, adminID)
}

func (s *AdminService) Stats(ctx context.Context) (*model.DashboardStats, error) {
	now := s.now()
	stats := &model.DashboardStats{}
	var err error
	if stats.TotalUsers, err = s.users.CountVerified(ctx); err != nil {
		return nil, err
	}
	if stats.ActiveUsers, err = s.users.CountActiveAfter(ctx, proximity.OnlineCutoff(now).Unix()); err != nil {
		return nil, err
	}
	if stats.NewUsersToday, err = s.users.CountCreatedSince(ctx, timeutil.StartOfDay(now).Unix()); err != nil {
		return nil, err
	}
	if stats.NewUsersThisWeek, err = s.users.CountCreatedSince(ctx, now.Add(-7*24*time.Hour).Unix()); err != nil {
		return nil, err
	}
	if stats.UsersBySport, err = s.users.CountBySport(ctx); err != nil {
		return nil, err
	}
	if stats.UsersByCity, err = s.users.CountByCity(ctx, topCityCount); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *AdminService) ListUsers(ctx context.Context, input UserListInput) (*UserPage, error) {
	page := input.Page
	if page <= 0 {
		page = 1
	}
	if page > maxPage {
		return nil, appErr.ErrInvalid
	}
	limit := input.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	sport, err := optionalSport(input.Sport)
	if err != nil {
		return nil, err
	}
	q := repo.UserListQuery{
		Sport:  sport,
		City:   input.City,
		Area:   input.Area,
		Offset: uint((page - 1) * limit),
		Limit:  uint(limit),
	}
	total, err := s.users.Count(ctx, q)
	if err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx, q)
	if err != nil {
		return nil, err
	}
	now := s.now()
	items := make([]AdminUser, 0, len(users))
	for _, u := range users {
		items = append(items, AdminUser{
			ID:         u.ID,
			Name:       u.Name,
			Email:      u.Email,
			Sport:      u.Sport,
			City:       u.City,
			Area:       u.Area,
			IsOnline:   proximity.IsOnlineUnix(u.LastActive, now),
			LastActive: u.LastActive,
			JoinedAt:   u.Ctime,
		})
	}
	return &UserPage{
		Pagination: Pagination{
			Total: total,
			Page:  page,
			Pages: (total + limit - 1) / limit,
			Limit: limit,
		},
		Users: items,
	}, nil
}

func (s *AdminService) Cities(ctx context.Context) ([]string, error) {
	return s.users.DistinctCities(ctx)
}

func (s *AdminService) Areas(ctx context.Context, city string) ([]string, error) {
	return s.users.DistinctAreas(ctx, city)
}

func (s *AdminService) DeleteUser(ctx context.Context, userID string) error {
	if strings.TrimSpace(userID) == "" {
		return appErr.ErrInvalid
	}
	return s.users.Delete(ctx, userID)
}

// EnsureSeedAdmin creates the configured super admin when it does not exist.
// An empty password disables seeding.
func (s *AdminService) EnsureSeedAdmin(ctx context.Context, email, plainPassword, name string) error {
	email = normalizeEmail(email)
	if email == "" || plainPassword == "" {
		logutil.GetLogger(ctx).Warn("admin password not configured, skip seeding admin")
		return nil
	}
	if _, err := s.admins.GetByEmail(ctx, email); err == nil {
		return nil
	} else if !appErr.IsNotFound(err) {
		return err
	}
	hash, err := password.Hash(plainPassword)
	if err != nil {
		return err
	}
	admin := &model.Admin{
		ID:           newID(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         jwt.RoleSuperAdmin,
		Ctime:        s.now().Unix(),
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		if appErr.IsConflict(err) {
			return nil
		}
		return err
	}
	logutil.GetLogger(ctx).Info("seeded admin account", zap.String("email", email))
	return nil
}
