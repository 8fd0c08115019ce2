package repo

import (
	"context"

	"github.com/xxxsen/sportmate/internal/model"
	"github.com/xxxsen/sportmate/internal/pkg/dbutil"
)

func (r *UserRepo) CountVerified(ctx context.Context) (int, error) {
	return r.count(ctx, "SELECT COUNT(1) FROM users WHERE verified = ?", true)
}

// CountActiveAfter counts verified users whose last activity is strictly after ts.
func (r *UserRepo) CountActiveAfter(ctx context.Context, ts int64) (int, error) {
	return r.count(ctx, "SELECT COUNT(1) FROM users WHERE verified = ? AND last_active > ?", true, ts)
}

func (r *UserRepo) CountCreatedSince(ctx context.Context, ts int64) (int, error) {
	return r.count(ctx, "SELECT COUNT(1) FROM users WHERE verified = ? AND ctime >= ?", true, ts)
}

func (r *UserRepo) CountBySport(ctx context.Context) ([]model.SportCount, error) {
	query, args := dbutil.Finalize("SELECT sport, COUNT(1) AS cnt FROM users WHERE verified = ? GROUP BY sport ORDER BY cnt DESC, sport ASC", []interface{}{true})
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := make([]model.SportCount, 0)
	for rows.Next() {
		var (
			sport string
			cnt   int
		)
		if err := rows.Scan(&sport, &cnt); err != nil {
			return nil, err
		}
		items = append(items, model.SportCount{Sport: model.Sport(sport), Count: cnt})
	}
	return items, rows.Err()
}

func (r *UserRepo) CountByCity(ctx context.Context, limit int) ([]model.CityCount, error) {
	query, args := dbutil.Finalize("SELECT city, COUNT(1) AS cnt FROM users WHERE verified = ? GROUP BY city ORDER BY cnt DESC, city ASC LIMIT ?", []interface{}{true, limit})
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := make([]model.CityCount, 0)
	for rows.Next() {
		var item model.CityCount
		if err := rows.Scan(&item.City, &item.Count); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *UserRepo) count(ctx context.Context, query string, args ...interface{}) (int, error) {
	query, args = dbutil.Finalize(query, args)
	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
