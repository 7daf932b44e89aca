package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bitdoze/bitbuddies/internal/entity"
)

const (
	defaultClickDays = 30
	defaultTopLinks  = 5
)

type clickRepository interface {
	List(ctx context.Context, linkID *int64) ([]entity.ClickEvent, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
}

type linkLister interface {
	List(ctx context.Context) ([]entity.AffiliateLink, error)
}

// AnalyticsUseCase answers the click dashboard queries. Events are loaded from
// storage and filtered and grouped in memory.
type AnalyticsUseCase struct {
	defaultDays int
	topLinks    int
	clickRepo   clickRepository
	linkRepo    linkLister
	now         func() time.Time
}

func NewAnalyticsUseCase(clickRepo clickRepository, linkRepo linkLister, defaultDays, topLinks int) *AnalyticsUseCase {
	if defaultDays <= 0 {
		defaultDays = defaultClickDays
	}
	if topLinks <= 0 {
		topLinks = defaultTopLinks
	}

	return &AnalyticsUseCase{
		defaultDays: defaultDays,
		topLinks:    topLinks,
		clickRepo:   clickRepo,
		linkRepo:    linkRepo,
		now:         time.Now,
	}
}

func inRange(t time.Time, start, end *time.Time) bool {
	if start != nil && t.Before(*start) {
		return false
	}
	if end != nil && t.After(*end) {
		return false
	}
	return true
}

// GetStats returns the matching click events, newest first, each with the
// current name and slug of its link.
func (uc *AnalyticsUseCase) GetStats(ctx context.Context, filter entity.ClickFilter) ([]entity.ClickStat, error) {
	const op = "usecase.AnalyticsUseCase.GetStats"

	events, err := uc.clickRepo.List(ctx, filter.LinkID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list clicks: %w", op, err)
	}

	links, err := uc.linkRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list links: %w", op, err)
	}

	byID := make(map[int64]*entity.AffiliateLink, len(links))
	for i := range links {
		byID[links[i].ID] = &links[i]
	}

	referrer := strings.ToLower(filter.Referrer)
	stats := make([]entity.ClickStat, 0, len(events))

	for _, e := range events {
		if referrer != "" && !strings.Contains(strings.ToLower(e.Referrer), referrer) {
			continue
		}
		if !inRange(e.ClickedAt, filter.Start, filter.End) {
			continue
		}

		stat := entity.ClickStat{ClickEvent: e}
		if link, ok := byID[e.LinkID]; ok {
			stat.LinkName = link.Name
			stat.LinkSlug = link.Slug
		}

		stats = append(stats, stat)
	}

	return stats, nil
}

// GetClicksByDate counts the clicks of the trailing days per UTC calendar day,
// oldest day first. A non-positive days falls back to the configured default.
func (uc *AnalyticsUseCase) GetClicksByDate(ctx context.Context, linkID *int64, days int) ([]entity.DateCount, error) {
	const op = "usecase.AnalyticsUseCase.GetClicksByDate"

	if days <= 0 {
		days = uc.defaultDays
	}

	events, err := uc.clickRepo.List(ctx, linkID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list clicks: %w", op, err)
	}

	cutoff := uc.now().Add(-time.Duration(days) * 24 * time.Hour)
	counts := make(map[string]int64)

	for _, e := range events {
		if e.ClickedAt.Before(cutoff) {
			continue
		}
		counts[e.ClickedAt.UTC().Format(time.DateOnly)]++
	}

	result := make([]entity.DateCount, 0, len(counts))
	for date, count := range counts {
		result = append(result, entity.DateCount{Date: date, Count: count})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Date < result[j].Date
	})

	return result, nil
}

// GetClicksByReferrer counts clicks per referrer, most frequent first. Clicks
// without a referrer are reported as entity.DirectReferrer.
func (uc *AnalyticsUseCase) GetClicksByReferrer(ctx context.Context, linkID *int64, start, end *time.Time) ([]entity.ReferrerCount, error) {
	const op = "usecase.AnalyticsUseCase.GetClicksByReferrer"

	events, err := uc.clickRepo.List(ctx, linkID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list clicks: %w", op, err)
	}

	counts := make(map[string]int64)

	for _, e := range events {
		if !inRange(e.ClickedAt, start, end) {
			continue
		}

		referrer := e.Referrer
		if referrer == "" {
			referrer = entity.DirectReferrer
		}
		counts[referrer]++
	}

	result := make([]entity.ReferrerCount, 0, len(counts))
	for referrer, count := range counts {
		result = append(result, entity.ReferrerCount{Referrer: referrer, Count: count})
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Referrer < result[j].Referrer
	})

	return result, nil
}

// GetSummary builds the dashboard overview. Total clicks is the sum of the
// cached link counters, not a recount of events.
func (uc *AnalyticsUseCase) GetSummary(ctx context.Context) (*entity.ClickSummary, error) {
	const op = "usecase.AnalyticsUseCase.GetSummary"

	links, err := uc.linkRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list links: %w", op, err)
	}

	recent, err := uc.clickRepo.CountSince(ctx, uc.now().Add(-24*time.Hour))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to count recent clicks: %w", op, err)
	}

	summary := &entity.ClickSummary{
		TotalLinks:    int64(len(links)),
		ClicksLast24h: recent,
		TopLinks:      []entity.AffiliateLink{},
	}

	for _, link := range links {
		if link.IsActive {
			summary.ActiveLinks++
		}
		summary.TotalClicks += link.ClickCount

		if link.ClickCount > 0 {
			summary.TopLinks = append(summary.TopLinks, link)
		}
	}

	sort.SliceStable(summary.TopLinks, func(i, j int) bool {
		return summary.TopLinks[i].ClickCount > summary.TopLinks[j].ClickCount
	})

	if len(summary.TopLinks) > uc.topLinks {
		summary.TopLinks = summary.TopLinks[:uc.topLinks]
	}

	return summary, nil
}
