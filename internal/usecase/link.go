// Package usecase holds the application logic: affiliate link management and
// click recording, click analytics, YouTube feed sync and retention, and caller
// authorization.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bitdoze/bitbuddies/internal/entity"
	"github.com/bitdoze/bitbuddies/internal/metrics"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const defaultSlugLength = 7

type linkRepository interface {
	Create(ctx context.Context, link *entity.AffiliateLink) (*entity.AffiliateLink, error)
	GetByID(ctx context.Context, id int64) (*entity.AffiliateLink, error)
	GetBySlug(ctx context.Context, slug string) (*entity.AffiliateLink, error)
	List(ctx context.Context) ([]entity.AffiliateLink, error)
	Update(ctx context.Context, link *entity.AffiliateLink) (*entity.AffiliateLink, error)
	Delete(ctx context.Context, id int64) error
	RecordClick(ctx context.Context, click *entity.ClickEvent) (*entity.ClickEvent, error)
}

type categoryRepository interface {
	Create(ctx context.Context, name, slug string) (*entity.LinkCategory, error)
	List(ctx context.Context) ([]entity.LinkCategory, error)
	Delete(ctx context.Context, id int64) error
}

type linkCache interface {
	Get(ctx context.Context, slug string) (*entity.AffiliateLink, bool, error)
	Set(ctx context.Context, link *entity.AffiliateLink) error
	Delete(ctx context.Context, slugs ...string) error
}

type LinkOption func(*LinkUseCase)

// WithLinkCache puts a slug cache in front of the redirect lookups.
func WithLinkCache(cache linkCache) LinkOption {
	return func(uc *LinkUseCase) {
		uc.cache = cache
	}
}

func WithSlugLength(n int) LinkOption {
	return func(uc *LinkUseCase) {
		if n > 0 {
			uc.slugLength = n
		}
	}
}

func WithLinkLogger(logger *slog.Logger) LinkOption {
	return func(uc *LinkUseCase) {
		uc.logger = logger
	}
}

type LinkUseCase struct {
	slugLength   int
	linkRepo     linkRepository
	categoryRepo categoryRepository
	cache        linkCache
	logger       *slog.Logger
	now          func() time.Time
}

func NewLinkUseCase(linkRepo linkRepository, categoryRepo categoryRepository, opts ...LinkOption) *LinkUseCase {
	uc := &LinkUseCase{
		slugLength:   defaultSlugLength,
		linkRepo:     linkRepo,
		categoryRepo: categoryRepo,
		logger:       slog.Default(),
		now:          time.Now,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}

// CreateLink stores a new link. When no slug is given a random one is generated,
// growing in length on every collision.
func (uc *LinkUseCase) CreateLink(ctx context.Context, link *entity.AffiliateLink) (*entity.AffiliateLink, error) {
	const op = "usecase.LinkUseCase.CreateLink"
	const maxRetries = 5

	if link.Slug != "" {
		created, err := uc.linkRepo.Create(ctx, link)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to create link: %w", op, err)
		}

		return created, nil
	}

	length := uc.slugLength

	for i := 0; i < maxRetries; i++ {
		slug, err := gonanoid.New(length)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to generate slug: %w", op, err)
		}

		candidate := *link
		candidate.Slug = slug

		created, err := uc.linkRepo.Create(ctx, &candidate)
		if err != nil {
			if errors.Is(err, entity.ErrSlugExists) {
				length++
				continue
			}

			return nil, fmt.Errorf("%s: failed to create link: %w", op, err)
		}

		return created, nil
	}

	return nil, fmt.Errorf("%s: %w", op, entity.ErrMaxRetriesExceeded)
}

func (uc *LinkUseCase) GetLink(ctx context.Context, id int64) (*entity.AffiliateLink, error) {
	const op = "usecase.LinkUseCase.GetLink"

	link, err := uc.linkRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get link: %w", op, err)
	}

	return link, nil
}

func (uc *LinkUseCase) ListLinks(ctx context.Context) ([]entity.AffiliateLink, error) {
	const op = "usecase.LinkUseCase.ListLinks"

	links, err := uc.linkRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list links: %w", op, err)
	}

	return links, nil
}

func (uc *LinkUseCase) UpdateLink(ctx context.Context, id int64, upd entity.LinkUpdate) (*entity.AffiliateLink, error) {
	const op = "usecase.LinkUseCase.UpdateLink"

	link, err := uc.linkRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get link: %w", op, err)
	}

	oldSlug := link.Slug
	upd.Apply(link)

	updated, err := uc.linkRepo.Update(ctx, link)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to update link: %w", op, err)
	}

	if oldSlug != updated.Slug {
		uc.evict(ctx, oldSlug, updated.Slug)
	} else {
		uc.evict(ctx, oldSlug)
	}

	return updated, nil
}

// DeleteLink removes the link together with its click events.
func (uc *LinkUseCase) DeleteLink(ctx context.Context, id int64) error {
	const op = "usecase.LinkUseCase.DeleteLink"

	link, err := uc.linkRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: failed to get link: %w", op, err)
	}

	if err := uc.linkRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("%s: failed to delete link: %w", op, err)
	}

	uc.evict(ctx, link.Slug)

	return nil
}

// TrackClick resolves slug to its destination and records the visit. Missing and
// inactive links resolve to nothing and record nothing.
func (uc *LinkUseCase) TrackClick(ctx context.Context, slug, referrer, userAgent string) (string, bool, error) {
	const op = "usecase.LinkUseCase.TrackClick"

	link, err := uc.resolve(ctx, slug)
	if err != nil {
		if errors.Is(err, entity.ErrLinkNotFound) {
			metrics.RedirectsUnresolved.Inc()
			return "", false, nil
		}

		return "", false, fmt.Errorf("%s: failed to resolve slug: %w", op, err)
	}

	if !link.IsActive {
		metrics.RedirectsUnresolved.Inc()
		return "", false, nil
	}

	_, err = uc.linkRepo.RecordClick(ctx, &entity.ClickEvent{
		LinkID:    link.ID,
		Referrer:  referrer,
		UserAgent: userAgent,
		ClickedAt: uc.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, entity.ErrLinkNotFound) {
			uc.evict(ctx, slug)
			metrics.RedirectsUnresolved.Inc()
			return "", false, nil
		}

		return "", false, fmt.Errorf("%s: failed to record click: %w", op, err)
	}

	metrics.ClicksRecorded.Inc()

	return link.URL, true, nil
}

func (uc *LinkUseCase) resolve(ctx context.Context, slug string) (*entity.AffiliateLink, error) {
	if uc.cache != nil {
		link, ok, err := uc.cache.Get(ctx, slug)
		switch {
		case err != nil:
			metrics.LinkCacheLookups.WithLabelValues("error").Inc()
			uc.logger.Warn("link cache lookup failed", slog.String("slug", slug), slog.Any("err", err))
		case ok:
			metrics.LinkCacheLookups.WithLabelValues("hit").Inc()
			return link, nil
		default:
			metrics.LinkCacheLookups.WithLabelValues("miss").Inc()
		}
	}

	link, err := uc.linkRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, link); err != nil {
			uc.logger.Warn("failed to cache link", slog.String("slug", slug), slog.Any("err", err))
		}
	}

	return link, nil
}

func (uc *LinkUseCase) evict(ctx context.Context, slugs ...string) {
	if uc.cache == nil {
		return
	}

	if err := uc.cache.Delete(ctx, slugs...); err != nil {
		uc.logger.Warn("failed to evict cached links", slog.Any("slugs", slugs), slog.Any("err", err))
	}
}
