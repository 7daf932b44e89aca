package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bitdoze/bitbuddies/internal/entity"
	"github.com/jmoiron/sqlx"
)

const clickColumns = `id, link_id, referrer, user_agent, clicked_at`

type clickDB struct {
	ID        int64          `db:"id"`
	LinkID    int64          `db:"link_id"`
	Referrer  sql.NullString `db:"referrer"`
	UserAgent sql.NullString `db:"user_agent"`
	ClickedAt time.Time      `db:"clicked_at"`
}

func (c *clickDB) toEntity() entity.ClickEvent {
	return entity.ClickEvent{
		ID:        c.ID,
		LinkID:    c.LinkID,
		Referrer:  c.Referrer.String,
		UserAgent: c.UserAgent.String,
		ClickedAt: c.ClickedAt,
	}
}

type ClickRepository struct {
	db *sqlx.DB
}

func NewClickRepository(db *sqlx.DB) *ClickRepository {
	return &ClickRepository{db: db}
}

// List returns the click events of one link, or of all links when linkID is nil, newest first.
func (r *ClickRepository) List(ctx context.Context, linkID *int64) ([]entity.ClickEvent, error) {
	const op = "adapter.repository.postgres.ClickRepository.List"
	const (
		queryAll    = `SELECT ` + clickColumns + ` FROM link_clicks ORDER BY clicked_at DESC, id DESC`
		queryByLink = `SELECT ` + clickColumns + ` FROM link_clicks WHERE link_id = $1 ORDER BY clicked_at DESC, id DESC`
	)

	var (
		rows []clickDB
		err  error
	)

	if linkID != nil {
		err = r.db.SelectContext(ctx, &rows, queryByLink, *linkID)
	} else {
		err = r.db.SelectContext(ctx, &rows, queryAll)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: failed to select from link_clicks table: %w", op, err)
	}

	clicks := make([]entity.ClickEvent, 0, len(rows))
	for i := range rows {
		clicks = append(clicks, rows[i].toEntity())
	}

	return clicks, nil
}

// CountSince returns the number of click events at or after since.
func (r *ClickRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	const op = "adapter.repository.postgres.ClickRepository.CountSince"
	const query = `SELECT COUNT(*) FROM link_clicks WHERE clicked_at >= $1`

	var count int64

	if err := r.db.GetContext(ctx, &count, query, since); err != nil {
		return 0, fmt.Errorf("%s: failed to count link_clicks rows: %w", op, err)
	}

	return count, nil
}
