package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/bitdoze/bitbuddies/internal/entity"
	pg "github.com/bitdoze/bitbuddies/pkg/postgres"
	"github.com/jmoiron/sqlx"
)

type categoryDB struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Slug      string    `db:"slug"`
	CreatedAt time.Time `db:"created_at"`
}

func (c *categoryDB) toEntity() *entity.LinkCategory {
	return &entity.LinkCategory{
		ID:        c.ID,
		Name:      c.Name,
		Slug:      c.Slug,
		CreatedAt: c.CreatedAt,
	}
}

type CategoryRepository struct {
	db *sqlx.DB
}

func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(ctx context.Context, name, slug string) (*entity.LinkCategory, error) {
	const op = "adapter.repository.postgres.CategoryRepository.Create"
	const query = `INSERT INTO link_categories(name, slug) VALUES ($1, $2) RETURNING id, name, slug, created_at`

	var row categoryDB

	if err := r.db.GetContext(ctx, &row, query, name, slug); err != nil {
		if pg.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrCategoryExists)
		}

		return nil, fmt.Errorf("%s: failed to insert into link_categories table: %w", op, err)
	}

	return row.toEntity(), nil
}

func (r *CategoryRepository) List(ctx context.Context) ([]entity.LinkCategory, error) {
	const op = "adapter.repository.postgres.CategoryRepository.List"
	const query = `SELECT id, name, slug, created_at FROM link_categories ORDER BY name`

	var rows []categoryDB

	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("%s: failed to select from link_categories table: %w", op, err)
	}

	categories := make([]entity.LinkCategory, 0, len(rows))
	for i := range rows {
		categories = append(categories, *rows[i].toEntity())
	}

	return categories, nil
}

// Delete removes the category. Links referencing it become uncategorized.
func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	const op = "adapter.repository.postgres.CategoryRepository.Delete"
	const query = `DELETE FROM link_categories WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("%s: failed to delete from link_categories table: %w", op, err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: failed to get number of affected rows: %w", op, err)
	}

	if rowsAffected != 1 {
		return fmt.Errorf("%s: %w", op, entity.ErrCategoryNotFound)
	}

	return nil
}
