package repository

import (
	"context"
	"time"

	"github.com/SnoopySong/nexaweb/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgPageViewRepository is the PostgreSQL implementation of PageViewRepository.
type PgPageViewRepository struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// NewPgPageViewRepository creates a PgPageViewRepository backed by the given pool.
func NewPgPageViewRepository(pool *pgxpool.Pool) *PgPageViewRepository {
	return &PgPageViewRepository{pool: pool, now: time.Now}
}

var _ PageViewRepository = (*PgPageViewRepository)(nil)

// RecordPageView appends one page_views row.
func (r *PgPageViewRepository) RecordPageView(ctx context.Context, path string, userAgent, referrer *string) (*model.PageView, error) {
	v := &model.PageView{Path: path, UserAgent: userAgent, Referrer: referrer}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO page_views (path, user_agent, referrer) VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		path, userAgent, referrer,
	).Scan(&v.ID, &v.CreatedAt)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// GetPageViewStats counts views in all windows with one statement and
// groups the month window by path with a second; both go out in a single batch.
func (r *PgPageViewRepository) GetPageViewStats(ctx context.Context, windowDays int) (*model.PageViewStats, error) {
	w := model.WindowsAt(r.now(), windowDays)

	batch := &pgx.Batch{}
	batch.Queue(
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE created_at >= $1),
		        COUNT(*) FILTER (WHERE created_at >= $2),
		        COUNT(*) FILTER (WHERE created_at >= $3)
		 FROM page_views`,
		w.Today, w.Week, w.Month,
	)
	batch.Queue(
		`SELECT path, COUNT(*) AS views
		 FROM page_views
		 WHERE created_at >= $1
		 GROUP BY path
		 ORDER BY views DESC, path ASC`,
		w.Month,
	)

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	stats := &model.PageViewStats{ByPath: []model.PathCount{}}
	if err := br.QueryRow().Scan(&stats.Total, &stats.Today, &stats.ThisWeek, &stats.ThisMonth); err != nil {
		return nil, err
	}

	rows, err := br.Query()
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var pc model.PathCount
		if err := rows.Scan(&pc.Path, &pc.Count); err != nil {
			return nil, err
		}
		stats.ByPath = append(stats.ByPath, pc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return stats, nil
}
