package http

import (
	"context"
	"time"

	"github.com/bitdoze/bitbuddies/internal/entity"
	"github.com/stretchr/testify/mock"
)

type MockLinkUseCase struct {
	mock.Mock
}

func (m *MockLinkUseCase) CreateLink(ctx context.Context, link *entity.AffiliateLink) (*entity.AffiliateLink, error) {
	args := m.Called(ctx, link)
	res, _ := args.Get(0).(*entity.AffiliateLink)
	return res, args.Error(1)
}

func (m *MockLinkUseCase) GetLink(ctx context.Context, id int64) (*entity.AffiliateLink, error) {
	args := m.Called(ctx, id)
	res, _ := args.Get(0).(*entity.AffiliateLink)
	return res, args.Error(1)
}

func (m *MockLinkUseCase) ListLinks(ctx context.Context) ([]entity.AffiliateLink, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).([]entity.AffiliateLink)
	return res, args.Error(1)
}

func (m *MockLinkUseCase) UpdateLink(ctx context.Context, id int64, upd entity.LinkUpdate) (*entity.AffiliateLink, error) {
	args := m.Called(ctx, id, upd)
	res, _ := args.Get(0).(*entity.AffiliateLink)
	return res, args.Error(1)
}

func (m *MockLinkUseCase) DeleteLink(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLinkUseCase) TrackClick(ctx context.Context, slug, referrer, userAgent string) (string, bool, error) {
	args := m.Called(ctx, slug, referrer, userAgent)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockLinkUseCase) CreateCategory(ctx context.Context, name, slug string) (*entity.LinkCategory, error) {
	args := m.Called(ctx, name, slug)
	res, _ := args.Get(0).(*entity.LinkCategory)
	return res, args.Error(1)
}

func (m *MockLinkUseCase) ListCategories(ctx context.Context) ([]entity.LinkCategory, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).([]entity.LinkCategory)
	return res, args.Error(1)
}

func (m *MockLinkUseCase) DeleteCategory(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockAnalyticsUseCase struct {
	mock.Mock
}

func (m *MockAnalyticsUseCase) GetStats(ctx context.Context, filter entity.ClickFilter) ([]entity.ClickStat, error) {
	args := m.Called(ctx, filter)
	res, _ := args.Get(0).([]entity.ClickStat)
	return res, args.Error(1)
}

func (m *MockAnalyticsUseCase) GetClicksByDate(ctx context.Context, linkID *int64, days int) ([]entity.DateCount, error) {
	args := m.Called(ctx, linkID, days)
	res, _ := args.Get(0).([]entity.DateCount)
	return res, args.Error(1)
}

func (m *MockAnalyticsUseCase) GetClicksByReferrer(ctx context.Context, linkID *int64, start, end *time.Time) ([]entity.ReferrerCount, error) {
	args := m.Called(ctx, linkID, start, end)
	res, _ := args.Get(0).([]entity.ReferrerCount)
	return res, args.Error(1)
}

func (m *MockAnalyticsUseCase) GetSummary(ctx context.Context) (*entity.ClickSummary, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).(*entity.ClickSummary)
	return res, args.Error(1)
}

type MockYoutubeUseCase struct {
	mock.Mock
}

func (m *MockYoutubeUseCase) SyncChannelByID(ctx context.Context, id int64) (*entity.SyncResult, error) {
	args := m.Called(ctx, id)
	res, _ := args.Get(0).(*entity.SyncResult)
	return res, args.Error(1)
}

func (m *MockYoutubeUseCase) SyncAllChannels(ctx context.Context) ([]entity.SyncResult, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).([]entity.SyncResult)
	return res, args.Error(1)
}

func (m *MockYoutubeUseCase) CleanupOldVideos(ctx context.Context) (*entity.CleanupResult, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).(*entity.CleanupResult)
	return res, args.Error(1)
}

func (m *MockYoutubeUseCase) CreateChannel(ctx context.Context, ch *entity.YoutubeChannel) (*entity.YoutubeChannel, error) {
	args := m.Called(ctx, ch)
	res, _ := args.Get(0).(*entity.YoutubeChannel)
	return res, args.Error(1)
}

func (m *MockYoutubeUseCase) ListChannels(ctx context.Context) ([]entity.YoutubeChannel, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).([]entity.YoutubeChannel)
	return res, args.Error(1)
}

func (m *MockYoutubeUseCase) UpdateChannel(ctx context.Context, id int64, upd entity.ChannelUpdate) (*entity.YoutubeChannel, error) {
	args := m.Called(ctx, id, upd)
	res, _ := args.Get(0).(*entity.YoutubeChannel)
	return res, args.Error(1)
}

func (m *MockYoutubeUseCase) DeleteChannel(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockYoutubeUseCase) ListVideos(ctx context.Context, channelRef *int64, limit int) ([]entity.YoutubeVideo, error) {
	args := m.Called(ctx, channelRef, limit)
	res, _ := args.Get(0).([]entity.YoutubeVideo)
	return res, args.Error(1)
}

type MockAuthUseCase struct {
	mock.Mock
}

func (m *MockAuthUseCase) Authenticate(ctx context.Context, externalID string) (*entity.User, error) {
	args := m.Called(ctx, externalID)
	res, _ := args.Get(0).(*entity.User)
	return res, args.Error(1)
}

func (m *MockAuthUseCase) AuthorizeAdmin(ctx context.Context, externalID string) (*entity.User, error) {
	args := m.Called(ctx, externalID)
	res, _ := args.Get(0).(*entity.User)
	return res, args.Error(1)
}
