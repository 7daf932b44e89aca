package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bitdoze/bitbuddies/internal/entity"
	pg "github.com/bitdoze/bitbuddies/pkg/postgres"
	"github.com/jmoiron/sqlx"
)

const linkColumns = `id, slug, url, name, description, category_id, is_active, click_count, created_by, created_at, updated_at`

type linkDB struct {
	ID          int64          `db:"id"`
	Slug        string         `db:"slug"`
	URL         string         `db:"url"`
	Name        string         `db:"name"`
	Description sql.NullString `db:"description"`
	CategoryID  sql.NullInt64  `db:"category_id"`
	IsActive    bool           `db:"is_active"`
	ClickCount  int64          `db:"click_count"`
	CreatedBy   string         `db:"created_by"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

func (l *linkDB) toEntity() *entity.AffiliateLink {
	return &entity.AffiliateLink{
		ID:          l.ID,
		Slug:        l.Slug,
		URL:         l.URL,
		Name:        l.Name,
		Description: l.Description.String,
		CategoryID:  int64Ptr(l.CategoryID),
		IsActive:    l.IsActive,
		ClickCount:  l.ClickCount,
		CreatedBy:   l.CreatedBy,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

type LinkRepository struct {
	db *sqlx.DB
}

func NewLinkRepository(db *sqlx.DB) *LinkRepository {
	return &LinkRepository{db: db}
}

func (r *LinkRepository) Create(ctx context.Context, link *entity.AffiliateLink) (*entity.AffiliateLink, error) {
	const op = "adapter.repository.postgres.LinkRepository.Create"
	const query = `INSERT INTO affiliate_links(slug, url, name, description, category_id, is_active, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING ` + linkColumns

	var row linkDB

	err := r.db.GetContext(ctx, &row, query,
		link.Slug, link.URL, link.Name, nullString(link.Description),
		nullInt64(link.CategoryID), link.IsActive, link.CreatedBy,
	)
	if err != nil {
		if pg.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrSlugExists)
		}
		if pg.IsForeignKeyViolation(err) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrCategoryNotFound)
		}

		return nil, fmt.Errorf("%s: failed to insert into affiliate_links table: %w", op, err)
	}

	return row.toEntity(), nil
}

func (r *LinkRepository) GetByID(ctx context.Context, id int64) (*entity.AffiliateLink, error) {
	const op = "adapter.repository.postgres.LinkRepository.GetByID"
	const query = `SELECT ` + linkColumns + ` FROM affiliate_links WHERE id = $1`

	var row linkDB

	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrLinkNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get row from affiliate_links table: %w", op, err)
	}

	return row.toEntity(), nil
}

func (r *LinkRepository) GetBySlug(ctx context.Context, slug string) (*entity.AffiliateLink, error) {
	const op = "adapter.repository.postgres.LinkRepository.GetBySlug"
	const query = `SELECT ` + linkColumns + ` FROM affiliate_links WHERE slug = $1`

	var row linkDB

	if err := r.db.GetContext(ctx, &row, query, slug); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrLinkNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get row from affiliate_links table: %w", op, err)
	}

	return row.toEntity(), nil
}

// List returns every link, newest first.
func (r *LinkRepository) List(ctx context.Context) ([]entity.AffiliateLink, error) {
	const op = "adapter.repository.postgres.LinkRepository.List"
	const query = `SELECT ` + linkColumns + ` FROM affiliate_links ORDER BY created_at DESC, id DESC`

	var rows []linkDB

	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("%s: failed to select from affiliate_links table: %w", op, err)
	}

	links := make([]entity.AffiliateLink, 0, len(rows))
	for i := range rows {
		links = append(links, *rows[i].toEntity())
	}

	return links, nil
}

// Update writes the editable fields of link. The click counter is left untouched.
func (r *LinkRepository) Update(ctx context.Context, link *entity.AffiliateLink) (*entity.AffiliateLink, error) {
	const op = "adapter.repository.postgres.LinkRepository.Update"
	const query = `UPDATE affiliate_links
		SET slug = $1, url = $2, name = $3, description = $4, category_id = $5, is_active = $6, updated_at = now()
		WHERE id = $7 RETURNING ` + linkColumns

	var row linkDB

	err := r.db.GetContext(ctx, &row, query,
		link.Slug, link.URL, link.Name, nullString(link.Description),
		nullInt64(link.CategoryID), link.IsActive, link.ID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrLinkNotFound)
		}
		if pg.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrSlugExists)
		}
		if pg.IsForeignKeyViolation(err) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrCategoryNotFound)
		}

		return nil, fmt.Errorf("%s: failed to update affiliate_links table row: %w", op, err)
	}

	return row.toEntity(), nil
}

// Delete removes the click events of the link and then the link itself in one transaction.
func (r *LinkRepository) Delete(ctx context.Context, id int64) error {
	const op = "adapter.repository.postgres.LinkRepository.Delete"
	const (
		deleteClicks = `DELETE FROM link_clicks WHERE link_id = $1`
		deleteLink   = `DELETE FROM affiliate_links WHERE id = $1`
	)

	err := pg.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, deleteClicks, id); err != nil {
			return fmt.Errorf("failed to delete from link_clicks table: %w", err)
		}

		res, err := tx.ExecContext(ctx, deleteLink, id)
		if err != nil {
			return fmt.Errorf("failed to delete from affiliate_links table: %w", err)
		}

		rowsAffected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get number of affected rows: %w", err)
		}

		if rowsAffected != 1 {
			return entity.ErrLinkNotFound
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// RecordClick stores the click event and increments the link counter atomically.
func (r *LinkRepository) RecordClick(ctx context.Context, click *entity.ClickEvent) (*entity.ClickEvent, error) {
	const op = "adapter.repository.postgres.LinkRepository.RecordClick"
	const (
		insertClick = `INSERT INTO link_clicks(link_id, referrer, user_agent, clicked_at)
			VALUES ($1, $2, $3, $4) RETURNING id`
		incrementCount = `UPDATE affiliate_links SET click_count = click_count + 1 WHERE id = $1`
	)

	recorded := *click

	err := pg.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		err := tx.GetContext(ctx, &recorded.ID, insertClick,
			click.LinkID, nullString(click.Referrer), nullString(click.UserAgent), click.ClickedAt,
		)
		if err != nil {
			if pg.IsForeignKeyViolation(err) {
				return entity.ErrLinkNotFound
			}
			return fmt.Errorf("failed to insert into link_clicks table: %w", err)
		}

		res, err := tx.ExecContext(ctx, incrementCount, click.LinkID)
		if err != nil {
			return fmt.Errorf("failed to update affiliate_links click count: %w", err)
		}

		rowsAffected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get number of affected rows: %w", err)
		}

		if rowsAffected != 1 {
			return entity.ErrLinkNotFound
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &recorded, nil
}
