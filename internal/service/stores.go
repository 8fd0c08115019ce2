package service

import (
	"context"

	"github.com/xxxsen/sportmate/internal/model"
	"github.com/xxxsen/sportmate/internal/repo"
)

// UserStore is the profile storage the services need. *repo.UserRepo
// satisfies it.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	UpdatePendingSignup(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, userID string) (*model.User, error)
	MarkVerified(ctx context.Context, email string, now int64) error
	UpdateProfile(ctx context.Context, user *model.User) error
	Touch(ctx context.Context, userID string, now int64) error
	SetActive(ctx context.Context, userID string, active bool) error
	ListCandidates(ctx context.Context, q repo.CandidateQuery) ([]model.User, error)
}

// UserAdminStore adds the listing and aggregate queries of the admin panel.
type UserAdminStore interface {
	List(ctx context.Context, q repo.UserListQuery) ([]model.User, error)
	Count(ctx context.Context, q repo.UserListQuery) (int, error)
	CountVerified(ctx context.Context) (int, error)
	CountActiveAfter(ctx context.Context, ts int64) (int, error)
	CountCreatedSince(ctx context.Context, ts int64) (int, error)
	CountBySport(ctx context.Context) ([]model.SportCount, error)
	CountByCity(ctx context.Context, limit int) ([]model.CityCount, error)
	DistinctCities(ctx context.Context) ([]string, error)
	DistinctAreas(ctx context.Context, city string) ([]string, error)
	Delete(ctx context.Context, userID string) error
}

type AdminStore interface {
	Create(ctx context.Context, admin *model.Admin) error
	GetByEmail(ctx context.Context, email string) (*model.Admin, error)
	GetByID(ctx context.Context, id string) (*model.Admin, error)
}

// CodeIssuer is the part of otp.Manager the auth flow uses.
type CodeIssuer interface {
	Issue(ctx context.Context, email string, purpose model.OTPPurpose) error
	Verify(ctx context.Context, email string, purpose model.OTPPurpose, code string) error
}

var (
	_ UserStore      = (*repo.UserRepo)(nil)
	_ UserAdminStore = (*repo.UserRepo)(nil)
	_ AdminStore     = (*repo.AdminRepo)(nil)
)
