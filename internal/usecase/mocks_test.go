package usecase

import (
	"context"
	"time"

	"github.com/bitdoze/bitbuddies/internal/entity"
	"github.com/stretchr/testify/mock"
)

type MockLinkRepository struct {
	mock.Mock
}

func (r *MockLinkRepository) Create(ctx context.Context, link *entity.AffiliateLink) (*entity.AffiliateLink, error) {
	args := r.Called(ctx, link)
	created, _ := args.Get(0).(*entity.AffiliateLink)
	return created, args.Error(1)
}

func (r *MockLinkRepository) GetByID(ctx context.Context, id int64) (*entity.AffiliateLink, error) {
	args := r.Called(ctx, id)
	link, _ := args.Get(0).(*entity.AffiliateLink)
	return link, args.Error(1)
}

func (r *MockLinkRepository) GetBySlug(ctx context.Context, slug string) (*entity.AffiliateLink, error) {
	args := r.Called(ctx, slug)
	link, _ := args.Get(0).(*entity.AffiliateLink)
	return link, args.Error(1)
}

func (r *MockLinkRepository) List(ctx context.Context) ([]entity.AffiliateLink, error) {
	args := r.Called(ctx)
	links, _ := args.Get(0).([]entity.AffiliateLink)
	return links, args.Error(1)
}

func (r *MockLinkRepository) Update(ctx context.Context, link *entity.AffiliateLink) (*entity.AffiliateLink, error) {
	args := r.Called(ctx, link)
	updated, _ := args.Get(0).(*entity.AffiliateLink)
	return updated, args.Error(1)
}

func (r *MockLinkRepository) Delete(ctx context.Context, id int64) error {
	args := r.Called(ctx, id)
	return args.Error(0)
}

func (r *MockLinkRepository) RecordClick(ctx context.Context, click *entity.ClickEvent) (*entity.ClickEvent, error) {
	args := r.Called(ctx, click)
	recorded, _ := args.Get(0).(*entity.ClickEvent)
	return recorded, args.Error(1)
}

type MockCategoryRepository struct {
	mock.Mock
}

func (r *MockCategoryRepository) Create(ctx context.Context, name, slug string) (*entity.LinkCategory, error) {
	args := r.Called(ctx, name, slug)
	category, _ := args.Get(0).(*entity.LinkCategory)
	return category, args.Error(1)
}

func (r *MockCategoryRepository) List(ctx context.Context) ([]entity.LinkCategory, error) {
	args := r.Called(ctx)
	categories, _ := args.Get(0).([]entity.LinkCategory)
	return categories, args.Error(1)
}

func (r *MockCategoryRepository) Delete(ctx context.Context, id int64) error {
	args := r.Called(ctx, id)
	return args.Error(0)
}

type MockLinkCache struct {
	mock.Mock
}

func (c *MockLinkCache) Get(ctx context.Context, slug string) (*entity.AffiliateLink, bool, error) {
	args := c.Called(ctx, slug)
	link, _ := args.Get(0).(*entity.AffiliateLink)
	return link, args.Bool(1), args.Error(2)
}

func (c *MockLinkCache) Set(ctx context.Context, link *entity.AffiliateLink) error {
	args := c.Called(ctx, link)
	return args.Error(0)
}

func (c *MockLinkCache) Delete(ctx context.Context, slugs ...string) error {
	args := c.Called(ctx, slugs)
	return args.Error(0)
}

type MockClickRepository struct {
	mock.Mock
}

func (r *MockClickRepository) List(ctx context.Context, linkID *int64) ([]entity.ClickEvent, error) {
	args := r.Called(ctx, linkID)
	clicks, _ := args.Get(0).([]entity.ClickEvent)
	return clicks, args.Error(1)
}

func (r *MockClickRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	args := r.Called(ctx, since)
	count, _ := args.Get(0).(int64)
	return count, args.Error(1)
}

type MockFeedFetcher struct {
	mock.Mock
}

func (f *MockFeedFetcher) Fetch(ctx context.Context, url string) (*entity.Feed, error) {
	args := f.Called(ctx, url)
	feed, _ := args.Get(0).(*entity.Feed)
	return feed, args.Error(1)
}

type MockChannelRepository struct {
	mock.Mock
}

func (r *MockChannelRepository) Create(ctx context.Context, ch *entity.YoutubeChannel) (*entity.YoutubeChannel, error) {
	args := r.Called(ctx, ch)
	created, _ := args.Get(0).(*entity.YoutubeChannel)
	return created, args.Error(1)
}

func (r *MockChannelRepository) GetByID(ctx context.Context, id int64) (*entity.YoutubeChannel, error) {
	args := r.Called(ctx, id)
	ch, _ := args.Get(0).(*entity.YoutubeChannel)
	return ch, args.Error(1)
}

func (r *MockChannelRepository) List(ctx context.Context) ([]entity.YoutubeChannel, error) {
	args := r.Called(ctx)
	channels, _ := args.Get(0).([]entity.YoutubeChannel)
	return channels, args.Error(1)
}

func (r *MockChannelRepository) ListActive(ctx context.Context) ([]entity.YoutubeChannel, error) {
	args := r.Called(ctx)
	channels, _ := args.Get(0).([]entity.YoutubeChannel)
	return channels, args.Error(1)
}

func (r *MockChannelRepository) Update(ctx context.Context, ch *entity.YoutubeChannel) (*entity.YoutubeChannel, error) {
	args := r.Called(ctx, ch)
	updated, _ := args.Get(0).(*entity.YoutubeChannel)
	return updated, args.Error(1)
}

func (r *MockChannelRepository) Delete(ctx context.Context, id int64) error {
	args := r.Called(ctx, id)
	return args.Error(0)
}

func (r *MockChannelRepository) MarkSynced(ctx context.Context, id, videoCount int64, at time.Time) error {
	args := r.Called(ctx, id, videoCount, at)
	return args.Error(0)
}

func (r *MockChannelRepository) MarkSyncFailed(ctx context.Context, id int64, syncErr string, at time.Time) error {
	args := r.Called(ctx, id, syncErr, at)
	return args.Error(0)
}

func (r *MockChannelRepository) SetVideoCount(ctx context.Context, id, videoCount int64, at time.Time) error {
	args := r.Called(ctx, id, videoCount, at)
	return args.Error(0)
}

type MockVideoRepository struct {
	mock.Mock
}

func (r *MockVideoRepository) GetByVideoID(ctx context.Context, videoID string) (*entity.YoutubeVideo, error) {
	args := r.Called(ctx, videoID)
	v, _ := args.Get(0).(*entity.YoutubeVideo)
	return v, args.Error(1)
}

func (r *MockVideoRepository) Create(ctx context.Context, v *entity.YoutubeVideo) (*entity.YoutubeVideo, error) {
	args := r.Called(ctx, v)
	created, _ := args.Get(0).(*entity.YoutubeVideo)
	return created, args.Error(1)
}

func (r *MockVideoRepository) UpdateFromFeed(ctx context.Context, v *entity.YoutubeVideo) error {
	args := r.Called(ctx, v)
	return args.Error(0)
}

func (r *MockVideoRepository) CountByChannel(ctx context.Context, channelRef int64) (int64, error) {
	args := r.Called(ctx, channelRef)
	count, _ := args.Get(0).(int64)
	return count, args.Error(1)
}

func (r *MockVideoRepository) ListPublishedBefore(ctx context.Context, cutoff time.Time) ([]entity.YoutubeVideo, error) {
	args := r.Called(ctx, cutoff)
	videos, _ := args.Get(0).([]entity.YoutubeVideo)
	return videos, args.Error(1)
}

func (r *MockVideoRepository) List(ctx context.Context, channelRef *int64, limit int) ([]entity.YoutubeVideo, error) {
	args := r.Called(ctx, channelRef, limit)
	videos, _ := args.Get(0).([]entity.YoutubeVideo)
	return videos, args.Error(1)
}

func (r *MockVideoRepository) Delete(ctx context.Context, id int64) error {
	args := r.Called(ctx, id)
	return args.Error(0)
}

type MockUserRepository struct {
	mock.Mock
}

func (r *MockUserRepository) GetByExternalID(ctx context.Context, externalID string) (*entity.User, error) {
	args := r.Called(ctx, externalID)
	user, _ := args.Get(0).(*entity.User)
	return user, args.Error(1)
}
