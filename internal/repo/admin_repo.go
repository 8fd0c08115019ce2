package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/xxxsen/sportmate/internal/model"
	"github.com/xxxsen/sportmate/internal/pkg/dbutil"
	appErr "github.com/xxxsen/sportmate/internal/pkg/errors"
)

type AdminRepo struct {
	db *sql.DB
}

func NewAdminRepo(db *sql.DB) *AdminRepo {
	return &AdminRepo{db: db}
}

func (r *AdminRepo) Create(ctx context.Context, admin *model.Admin) error {
	data := map[string]interface{}{
		"id":            admin.ID,
		"email":         admin.Email,
		"name":          admin.Name,
		"password_hash": admin.PasswordHash,
		"role":          admin.Role,
		"ctime":         admin.Ctime,
	}
	sqlStr, args, err := builder.BuildInsert("admins", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		if dbutil.IsConflict(err) {
			return appErr.ErrConflict
		}
		return err
	}
	return nil
}

func (r *AdminRepo) GetByEmail(ctx context.Context, email string) (*model.Admin, error) {
	return r.getOne(ctx, map[string]interface{}{"email": email})
}

func (r *AdminRepo) GetByID(ctx context.Context, id string) (*model.Admin, error) {
	return r.getOne(ctx, map[string]interface{}{"id": id})
}

func (r *AdminRepo) getOne(ctx context.Context, where map[string]interface{}) (*model.Admin, error) {
	sqlStr, args, err := builder.BuildSelect("admins", where, []string{"id", "email", "name", "password_hash", "role", "ctime"})
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	if !rows.Next() {
		return nil, appErr.ErrNotFound
	}
	var admin model.Admin
	if err := rows.Scan(&admin.ID, &admin.Email, &admin.Name, &admin.PasswordHash, &admin.Role, &admin.Ctime); err != nil {
		return nil, err
	}
	return &admin, nil
}
