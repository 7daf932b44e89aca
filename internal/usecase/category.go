package usecase

import (
	"context"
	"fmt"

	"github.com/bitdoze/bitbuddies/internal/entity"
	"github.com/gosimple/slug"
)

// CreateCategory stores a category. An empty slug is derived from the name;
// a name that leaves nothing to derive from is rejected with entity.ErrInvalidSlug.
func (uc *LinkUseCase) CreateCategory(ctx context.Context, name, categorySlug string) (*entity.LinkCategory, error) {
	const op = "usecase.LinkUseCase.CreateCategory"

	if categorySlug == "" {
		categorySlug = slugify(name)
		if categorySlug == "" {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrInvalidSlug)
		}
	}

	category, err := uc.categoryRepo.Create(ctx, name, categorySlug)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create category: %w", op, err)
	}

	return category, nil
}

func (uc *LinkUseCase) ListCategories(ctx context.Context) ([]entity.LinkCategory, error) {
	const op = "usecase.LinkUseCase.ListCategories"

	categories, err := uc.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list categories: %w", op, err)
	}

	return categories, nil
}

func (uc *LinkUseCase) DeleteCategory(ctx context.Context, id int64) error {
	const op = "usecase.LinkUseCase.DeleteCategory"

	if err := uc.categoryRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("%s: failed to delete category: %w", op, err)
	}

	return nil
}

// slugify transliterates s to ASCII and joins its words with dashes.
func slugify(s string) string {
	return slug.Make(s)
}
