package repo

import (
	"context"
	"database/sql"
	"strings"

	"github.com/didi/gendry/builder"

	"github.com/xxxsen/sportmate/internal/model"
	"github.com/xxxsen/sportmate/internal/pkg/dbutil"
	appErr "github.com/xxxsen/sportmate/internal/pkg/errors"
	"github.com/xxxsen/sportmate/internal/proximity"
)

var userColumns = []string{
	"id", "name", "email", "password_hash", "sport", "city", "area",
	"latitude", "longitude", "verified", "active", "last_active", "ctime", "mtime",
}

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

// CandidateQuery pre-filters discoverable users in SQL. The ranking itself
// happens in memory, so Limit only bounds the scan. Within keeps located
// users inside the box and is applied before the scan bound.
type CandidateQuery struct {
	ExcludeID   string
	Sport       model.Sport
	City        string
	Area        string
	Name        string
	ActiveAfter int64
	Within      *proximity.Box
	Limit       uint
}

// UserListQuery drives the admin user listing.
type UserListQuery struct {
	Sport  model.Sport
	City   string
	Area   string
	Offset uint
	Limit  uint
}

func (r *UserRepo) Create(ctx context.Context, user *model.User) error {
	data := map[string]interface{}{
		"id":            user.ID,
		"name":          user.Name,
		"email":         user.Email,
		"password_hash": user.PasswordHash,
		"sport":         string(user.Sport),
		"city":          user.City,
		"area":          user.Area,
		"latitude":      user.Latitude,
		"longitude":     user.Longitude,
		"verified":      user.Verified,
		"active":        user.Active,
		"last_active":   user.LastActive,
		"ctime":         user.Ctime,
		"mtime":         user.Mtime,
	}
	sqlStr, args, err := builder.BuildInsert("users", []map[string]interface{}{data})
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

// UpdatePendingSignup overwrites the signup details of a user that has not
// verified yet. It returns ErrNotFound for verified or unknown emails.
func (r *UserRepo) UpdatePendingSignup(ctx context.Context, user *model.User) error {
	where := map[string]interface{}{"email": user.Email, "verified": false}
	update := map[string]interface{}{
		"name":          user.Name,
		"password_hash": user.PasswordHash,
		"sport":         string(user.Sport),
		"city":          user.City,
		"area":          user.Area,
		"latitude":      user.Latitude,
		"longitude":     user.Longitude,
		"mtime":         user.Mtime,
	}
	return r.update(ctx, where, update)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getOne(ctx, map[string]interface{}{"email": email})
}

func (r *UserRepo) GetByID(ctx context.Context, userID string) (*model.User, error) {
	return r.getOne(ctx, map[string]interface{}{"id": userID})
}

func (r *UserRepo) MarkVerified(ctx context.Context, email string, now int64) error {
	where := map[string]interface{}{"email": email}
	update := map[string]interface{}{
		"verified":    true,
		"active":      true,
		"last_active": now,
		"mtime":       now,
	}
	return r.update(ctx, where, update)
}

func (r *UserRepo) UpdateProfile(ctx context.Context, user *model.User) error {
	where := map[string]interface{}{"id": user.ID}
	update := map[string]interface{}{
		"name":        user.Name,
		"sport":       string(user.Sport),
		"city":        user.City,
		"area":        user.Area,
		"latitude":    user.Latitude,
		"longitude":   user.Longitude,
		"last_active": user.LastActive,
		"mtime":       user.Mtime,
	}
	return r.update(ctx, where, update)
}

// Touch records activity for a user.
func (r *UserRepo) Touch(ctx context.Context, userID string, now int64) error {
	where := map[string]interface{}{"id": userID}
	update := map[string]interface{}{"last_active": now, "active": true}
	return r.update(ctx, where, update)
}

func (r *UserRepo) SetActive(ctx context.Context, userID string, active bool) error {
	where := map[string]interface{}{"id": userID}
	update := map[string]interface{}{"active": active}
	return r.update(ctx, where, update)
}

// MarkIdle clears the active flag of users not seen since before.
func (r *UserRepo) MarkIdle(ctx context.Context, before int64) (int64, error) {
	where := map[string]interface{}{"active": true, "last_active <": before}
	update := map[string]interface{}{"active": false}
	sqlStr, args, err := builder.BuildUpdate("users", where, update)
	if err != nil {
		return 0, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	result, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *UserRepo) ListCandidates(ctx context.Context, q CandidateQuery) ([]model.User, error) {
	where := map[string]interface{}{
		"verified": true,
		"_orderby": "last_active desc, id asc",
	}
	if q.ExcludeID != "" {
		where["id !="] = q.ExcludeID
	}
	if q.Sport != "" {
		where["sport"] = string(q.Sport)
	}
	applyContains(where, "city", q.City)
	applyContains(where, "area", q.Area)
	applyContains(where, "name", q.Name)
	if q.ActiveAfter > 0 {
		where["last_active >"] = q.ActiveAfter
	}
	if q.Within != nil {
		applyBox(where, *q.Within)
	}
	if q.Limit > 0 {
		where["_limit"] = []uint{0, q.Limit}
	}
	return r.list(ctx, where)
}

func (r *UserRepo) List(ctx context.Context, q UserListQuery) ([]model.User, error) {
	where := listWhere(q)
	where["_orderby"] = "ctime desc, id asc"
	if q.Limit > 0 {
		where["_limit"] = []uint{q.Offset, q.Limit}
	}
	return r.list(ctx, where)
}

func (r *UserRepo) Count(ctx context.Context, q UserListQuery) (int, error) {
	sqlStr, args, err := builder.BuildSelect("users", listWhere(q), []string{"COUNT(1)"})
	if err != nil {
		return 0, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	var count int
	if err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *UserRepo) Delete(ctx context.Context, userID string) error {
	sqlStr, args, err := builder.BuildDelete("users", map[string]interface{}{"id": userID})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	result, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErr.ErrNotFound
	}
	return nil
}

func (r *UserRepo) DistinctCities(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "SELECT DISTINCT city FROM users WHERE verified = ? ORDER BY city", true)
}

func (r *UserRepo) DistinctAreas(ctx context.Context, city string) ([]string, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return r.distinct(ctx, "SELECT DISTINCT area FROM users WHERE verified = ? ORDER BY area", true)
	}
	return r.distinct(ctx, "SELECT DISTINCT area FROM users WHERE verified = ? AND city ILIKE ? ORDER BY area", true, dbutil.ContainsPattern(city))
}

func (r *UserRepo) distinct(ctx context.Context, query string, args ...interface{}) ([]string, error) {
	query, args = dbutil.Finalize(query, args)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	values := make([]string, 0)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

func (r *UserRepo) update(ctx context.Context, where, update map[string]interface{}) error {
	sqlStr, args, err := builder.BuildUpdate("users", where, update)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	result, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErr.ErrNotFound
	}
	return nil
}

func (r *UserRepo) getOne(ctx context.Context, where map[string]interface{}) (*model.User, error) {
	where["_limit"] = []uint{0, 1}
	users, err := r.list(ctx, where)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, appErr.ErrNotFound
	}
	return &users[0], nil
}

func (r *UserRepo) list(ctx context.Context, where map[string]interface{}) ([]model.User, error) {
	sqlStr, args, err := builder.BuildSelect("users", where, userColumns)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	users := make([]model.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

func scanUser(rows *sql.Rows) (*model.User, error) {
	var (
		user     model.User
		sport    string
		lat, lon sql.NullFloat64
	)
	if err := rows.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &sport, &user.City, &user.Area,
		&lat, &lon, &user.Verified, &user.Active, &user.LastActive, &user.Ctime, &user.Mtime); err != nil {
		return nil, err
	}
	user.Sport = model.Sport(sport)
	if lat.Valid && lon.Valid {
		user.Latitude = &lat.Float64
		user.Longitude = &lon.Float64
	}
	return &user, nil
}

func listWhere(q UserListQuery) map[string]interface{} {
	where := map[string]interface{}{"verified": true}
	if q.Sport != "" {
		where["sport"] = string(q.Sport)
	}
	applyContains(where, "city", q.City)
	applyContains(where, "area", q.Area)
	return where
}

func applyContains(where map[string]interface{}, column, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	where["_custom_"+column] = builder.Custom(column+" ILIKE ?", dbutil.ContainsPattern(value))
}

func applyBox(where map[string]interface{}, box proximity.Box) {
	lon := "longitude BETWEEN ? AND ?"
	if box.WrapsLon {
		lon = "(longitude >= ? OR longitude <= ?)"
	}
	where["_custom_box"] = builder.Custom(
		"(latitude IS NOT NULL AND longitude IS NOT NULL AND latitude BETWEEN ? AND ? AND "+lon+")",
		box.MinLat, box.MaxLat, box.MinLon, box.MaxLon,
	)
}
