package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bitdoze/bitbuddies/internal/entity"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type YoutubeUseCaseTestSuite struct {
	suite.Suite
	errUnknown  error
	now         time.Time
	fetcher     *MockFeedFetcher
	channelRepo *MockChannelRepository
	videoRepo   *MockVideoRepository
	uc          *YoutubeUseCase
}

func (suite *YoutubeUseCaseTestSuite) SetupSuite() {
	suite.errUnknown = errors.New("unknown error")
	suite.now = time.Date(2024, 5, 31, 6, 0, 0, 0, time.UTC)
}

func (suite *YoutubeUseCaseTestSuite) SetupSubTest() {
	suite.fetcher = new(MockFeedFetcher)
	suite.channelRepo = new(MockChannelRepository)
	suite.videoRepo = new(MockVideoRepository)
	suite.uc = NewYoutubeUseCase(suite.fetcher, suite.channelRepo, suite.videoRepo, 14*24*time.Hour, discardLogger)
	suite.uc.now = func() time.Time { return suite.now }
	suite.uc.newRunID = func() string { return "run-1" }
}

func (suite *YoutubeUseCaseTestSuite) TearDownSubTest() {
	suite.fetcher.AssertExpectations(suite.T())
	suite.channelRepo.AssertExpectations(suite.T())
	suite.videoRepo.AssertExpectations(suite.T())
}

func (suite *YoutubeUseCaseTestSuite) channel() *entity.YoutubeChannel {
	return &entity.YoutubeChannel{
		ID:        1,
		ChannelID: "UC123",
		Name:      "Bitdoze",
		FeedURL:   "https://feeds.example.com/UC123",
		IsActive:  true,
	}
}

func (suite *YoutubeUseCaseTestSuite) feed(titleA string) *entity.Feed {
	published := suite.now.Add(-48 * time.Hour)
	return &entity.Feed{
		ChannelID:   "UC123",
		ChannelName: "Bitdoze",
		Entries: []entity.FeedEntry{
			{VideoID: "abc", Title: titleA, ViewCount: 10, PublishedAt: published, UpdatedAt: published},
			{VideoID: "def", Title: "B", ViewCount: 20, PublishedAt: published, UpdatedAt: published},
		},
	}
}

func (suite *YoutubeUseCaseTestSuite) TestSyncChannel() {
	suite.Run("inactive channel is skipped", func() {
		ch := suite.channel()
		ch.IsActive = false

		result, err := suite.uc.SyncChannel(context.Background(), ch)

		suite.NoError(err)
		suite.True(result.Skipped)
		suite.False(result.Success)
		suite.fetcher.AssertNotCalled(suite.T(), "Fetch", mock.Anything, mock.Anything)
	})

	suite.Run("fetch failure marks channel failed", func() {
		fetchErr := fmt.Errorf("feed: %w: 404", entity.ErrFeedStatus)

		suite.fetcher.
			On("Fetch", context.Background(), "https://feeds.example.com/UC123").
			Once().
			Return(nil, fetchErr)
		suite.channelRepo.
			On("MarkSyncFailed", context.Background(), int64(1), mock.MatchedBy(func(msg string) bool {
				return msg != ""
			}), suite.now).
			Once().
			Return(nil)

		result, err := suite.uc.SyncChannel(context.Background(), suite.channel())

		suite.ErrorIs(err, entity.ErrFeedStatus)
		suite.Require().NotNil(result)
		suite.False(result.Success)
		suite.Equal(int64(1), result.ChannelID)
		suite.Equal("Bitdoze", result.ChannelName)
		suite.Equal("run-1", result.RunID)
		suite.Contains(result.Error, entity.ErrFeedStatus.Error())
	})

	suite.Run("first sync creates every entry", func() {
		suite.fetcher.
			On("Fetch", context.Background(), "https://feeds.example.com/UC123").
			Once().
			Return(suite.feed("A"), nil)
		suite.videoRepo.
			On("GetByVideoID", context.Background(), mock.Anything).
			Times(2).
			Return(nil, entity.ErrVideoNotFound)
		suite.videoRepo.
			On("Create", context.Background(), mock.MatchedBy(func(v *entity.YoutubeVideo) bool {
				return v.ChannelRef == 1 &&
					v.ChannelID == "UC123" &&
					v.ChannelName == "Bitdoze" &&
					v.VideoURL == "https://www.youtube.com/watch?v="+v.VideoID &&
					v.CreatedAt.Equal(suite.now) &&
					v.LastSyncedAt.Equal(suite.now)
			})).
			Times(2).
			Return(&entity.YoutubeVideo{}, nil)
		suite.videoRepo.
			On("CountByChannel", context.Background(), int64(1)).
			Once().
			Return(int64(2), nil)
		suite.channelRepo.
			On("MarkSynced", context.Background(), int64(1), int64(2), suite.now).
			Once().
			Return(nil)

		result, err := suite.uc.SyncChannel(context.Background(), suite.channel())

		suite.NoError(err)
		suite.True(result.Success)
		suite.Equal("run-1", result.RunID)
		suite.Equal("Bitdoze", result.ChannelName)
		suite.Equal(2, result.NewVideos)
		suite.Zero(result.UpdatedVideos)
		suite.Equal(int64(2), result.TotalVideos)
	})

	suite.Run("resync reconciles every existing entry", func() {
		stored := map[string]*entity.YoutubeVideo{
			"abc": {ID: 1, VideoID: "abc", Title: "A", ChannelRef: 1},
			"def": {ID: 2, VideoID: "def", Title: "B", ChannelRef: 1},
		}

		suite.fetcher.
			On("Fetch", context.Background(), "https://feeds.example.com/UC123").
			Once().
			Return(suite.feed("A changed"), nil)
		suite.videoRepo.
			On("GetByVideoID", context.Background(), "abc").
			Once().
			Return(stored["abc"], nil)
		suite.videoRepo.
			On("GetByVideoID", context.Background(), "def").
			Once().
			Return(stored["def"], nil)
		suite.videoRepo.
			On("UpdateFromFeed", context.Background(), mock.MatchedBy(func(v *entity.YoutubeVideo) bool {
				return v.ID == 1 && v.Title == "A changed" && v.ViewCount == 10
			})).
			Once().
			Return(nil)
		suite.videoRepo.
			On("UpdateFromFeed", context.Background(), mock.MatchedBy(func(v *entity.YoutubeVideo) bool {
				return v.ID == 2 && v.Title == "B" && v.LastSyncedAt.Equal(suite.now)
			})).
			Once().
			Return(nil)
		suite.videoRepo.
			On("CountByChannel", context.Background(), int64(1)).
			Once().
			Return(int64(2), nil)
		suite.channelRepo.
			On("MarkSynced", context.Background(), int64(1), int64(2), suite.now).
			Once().
			Return(nil)

		result, err := suite.uc.SyncChannel(context.Background(), suite.channel())

		suite.NoError(err)
		suite.Zero(result.NewVideos)
		suite.Equal(2, result.UpdatedVideos)
		suite.Equal(int64(2), result.TotalVideos)
	})

	suite.Run("missing timestamps and channel name fall back", func() {
		suite.fetcher.
			On("Fetch", context.Background(), mock.Anything).
			Once().
			Return(&entity.Feed{Entries: []entity.FeedEntry{{VideoID: "xyz", Title: "X"}}}, nil)
		suite.videoRepo.
			On("GetByVideoID", context.Background(), "xyz").
			Once().
			Return(nil, entity.ErrVideoNotFound)
		suite.videoRepo.
			On("Create", context.Background(), mock.MatchedBy(func(v *entity.YoutubeVideo) bool {
				return v.PublishedAt.Equal(suite.now) && v.FeedUpdatedAt.Equal(suite.now) && v.ChannelName == ""
			})).
			Once().
			Return(&entity.YoutubeVideo{}, nil)
		suite.videoRepo.
			On("CountByChannel", context.Background(), int64(1)).
			Once().
			Return(int64(1), nil)
		suite.channelRepo.
			On("MarkSynced", context.Background(), int64(1), int64(1), suite.now).
			Once().
			Return(nil)

		result, err := suite.uc.SyncChannel(context.Background(), suite.channel())

		suite.NoError(err)
		suite.Equal(1, result.NewVideos)
		suite.Equal("Bitdoze", result.ChannelName)
	})

	suite.Run("storage failure marks channel failed", func() {
		suite.fetcher.
			On("Fetch", context.Background(), mock.Anything).
			Once().
			Return(suite.feed("A"), nil)
		suite.videoRepo.
			On("GetByVideoID", context.Background(), "abc").
			Once().
			Return(nil, suite.errUnknown)
		suite.channelRepo.
			On("MarkSyncFailed", context.Background(), int64(1), mock.Anything, suite.now).
			Once().
			Return(suite.errUnknown)

		result, err := suite.uc.SyncChannel(context.Background(), suite.channel())

		suite.ErrorIs(err, suite.errUnknown)
		suite.Require().NotNil(result)
		suite.False(result.Success)
		suite.Contains(result.Error, suite.errUnknown.Error())
	})
}

func (suite *YoutubeUseCaseTestSuite) TestSyncChannelByID() {
	suite.Run("channel not found", func() {
		suite.channelRepo.
			On("GetByID", context.Background(), int64(1)).
			Once().
			Return(nil, entity.ErrChannelNotFound)

		result, err := suite.uc.SyncChannelByID(context.Background(), 1)

		suite.ErrorIs(err, entity.ErrChannelNotFound)
		suite.Nil(result)
	})
}

func (suite *YoutubeUseCaseTestSuite) TestSyncAllChannels() {
	suite.Run("list error", func() {
		suite.channelRepo.
			On("ListActive", context.Background()).
			Once().
			Return(nil, suite.errUnknown)

		results, err := suite.uc.SyncAllChannels(context.Background())

		suite.ErrorIs(err, suite.errUnknown)
		suite.Nil(results)
	})

	suite.Run("failing channel does not stop the batch", func() {
		broken := entity.YoutubeChannel{ID: 1, Name: "Broken", FeedURL: "https://feeds.example.com/broken", IsActive: true}
		healthy := entity.YoutubeChannel{ID: 2, Name: "Healthy", FeedURL: "https://feeds.example.com/healthy", IsActive: true}

		suite.channelRepo.
			On("ListActive", context.Background()).
			Once().
			Return([]entity.YoutubeChannel{broken, healthy}, nil)
		suite.fetcher.
			On("Fetch", context.Background(), broken.FeedURL).
			Once().
			Return(nil, suite.errUnknown)
		suite.channelRepo.
			On("MarkSyncFailed", context.Background(), int64(1), mock.Anything, suite.now).
			Once().
			Return(nil)
		suite.fetcher.
			On("Fetch", context.Background(), healthy.FeedURL).
			Once().
			Return(&entity.Feed{ChannelName: "Healthy"}, nil)
		suite.videoRepo.
			On("CountByChannel", context.Background(), int64(2)).
			Once().
			Return(int64(7), nil)
		suite.channelRepo.
			On("MarkSynced", context.Background(), int64(2), int64(7), suite.now).
			Once().
			Return(nil)

		results, err := suite.uc.SyncAllChannels(context.Background())

		suite.NoError(err)
		suite.Len(results, 2)

		suite.False(results[0].Success)
		suite.Equal("Broken", results[0].ChannelName)
		suite.Contains(results[0].Error, suite.errUnknown.Error())

		suite.True(results[1].Success)
		suite.Equal("Healthy", results[1].ChannelName)
		suite.Equal(int64(7), results[1].TotalVideos)
	})

	suite.Run("no active channels", func() {
		suite.channelRepo.
			On("ListActive", context.Background()).
			Once().
			Return([]entity.YoutubeChannel{}, nil)

		results, err := suite.uc.SyncAllChannels(context.Background())

		suite.NoError(err)
		suite.NotNil(results)
		suite.Empty(results)
	})
}

func (suite *YoutubeUseCaseTestSuite) TestCleanupOldVideos() {
	cutoff := suite.now.Add(-14 * 24 * time.Hour)

	suite.Run("list error", func() {
		suite.videoRepo.
			On("ListPublishedBefore", context.Background(), cutoff).
			Once().
			Return(nil, suite.errUnknown)

		result, err := suite.uc.CleanupOldVideos(context.Background())

		suite.ErrorIs(err, suite.errUnknown)
		suite.Nil(result)
	})

	suite.Run("nothing to remove", func() {
		suite.videoRepo.
			On("ListPublishedBefore", context.Background(), cutoff).
			Once().
			Return([]entity.YoutubeVideo{}, nil)

		result, err := suite.uc.CleanupOldVideos(context.Background())

		suite.NoError(err)
		suite.Zero(result.Removed)
		suite.Zero(result.Channels)
		suite.Equal(cutoff, result.Cutoff)
	})

	suite.Run("removes old videos and recounts touched channels", func() {
		suite.videoRepo.
			On("ListPublishedBefore", context.Background(), cutoff).
			Once().
			Return([]entity.YoutubeVideo{
				{ID: 1, VideoID: "a", ChannelRef: 1, PublishedAt: suite.now.Add(-15 * 24 * time.Hour)},
				{ID: 2, VideoID: "b", ChannelRef: 2, PublishedAt: suite.now.Add(-20 * 24 * time.Hour)},
				{ID: 3, VideoID: "c", ChannelRef: 1, PublishedAt: suite.now.Add(-30 * 24 * time.Hour)},
			}, nil)
		for _, id := range []int64{1, 2, 3} {
			suite.videoRepo.
				On("Delete", context.Background(), id).
				Once().
				Return(nil)
		}
		suite.videoRepo.
			On("CountByChannel", context.Background(), int64(1)).
			Once().
			Return(int64(9), nil)
		suite.videoRepo.
			On("CountByChannel", context.Background(), int64(2)).
			Once().
			Return(int64(0), nil)
		suite.channelRepo.
			On("SetVideoCount", context.Background(), int64(1), int64(9), suite.now).
			Once().
			Return(nil)
		suite.channelRepo.
			On("SetVideoCount", context.Background(), int64(2), int64(0), suite.now).
			Once().
			Return(nil)

		result, err := suite.uc.CleanupOldVideos(context.Background())

		suite.NoError(err)
		suite.Equal(3, result.Removed)
		suite.Equal(2, result.Channels)
		suite.Equal("run-1", result.RunID)
	})

	suite.Run("already removed video is skipped", func() {
		suite.videoRepo.
			On("ListPublishedBefore", context.Background(), cutoff).
			Once().
			Return([]entity.YoutubeVideo{
				{ID: 1, VideoID: "a", ChannelRef: 1},
				{ID: 2, VideoID: "b", ChannelRef: 2},
				{ID: 3, VideoID: "c", ChannelRef: 1},
			}, nil)
		suite.videoRepo.
			On("Delete", context.Background(), int64(1)).
			Once().
			Return(nil)
		suite.videoRepo.
			On("Delete", context.Background(), int64(2)).
			Once().
			Return(fmt.Errorf("delete: %w", entity.ErrVideoNotFound))
		suite.videoRepo.
			On("Delete", context.Background(), int64(3)).
			Once().
			Return(nil)
		suite.videoRepo.
			On("CountByChannel", context.Background(), int64(1)).
			Once().
			Return(int64(4), nil)
		suite.videoRepo.
			On("CountByChannel", context.Background(), int64(2)).
			Once().
			Return(int64(1), nil)
		suite.channelRepo.
			On("SetVideoCount", context.Background(), int64(1), int64(4), suite.now).
			Once().
			Return(nil)
		suite.channelRepo.
			On("SetVideoCount", context.Background(), int64(2), int64(1), suite.now).
			Once().
			Return(nil)

		result, err := suite.uc.CleanupOldVideos(context.Background())

		suite.NoError(err)
		suite.Equal(2, result.Removed)
		suite.Equal(2, result.Channels)
	})

	suite.Run("delete failure stops the run", func() {
		suite.videoRepo.
			On("ListPublishedBefore", context.Background(), cutoff).
			Once().
			Return([]entity.YoutubeVideo{{ID: 1, VideoID: "a", ChannelRef: 1}, {ID: 2, VideoID: "b", ChannelRef: 1}}, nil)
		suite.videoRepo.
			On("Delete", context.Background(), int64(1)).
			Once().
			Return(suite.errUnknown)

		result, err := suite.uc.CleanupOldVideos(context.Background())

		suite.ErrorIs(err, suite.errUnknown)
		suite.Nil(result)
	})
}

func (suite *YoutubeUseCaseTestSuite) TestChannels() {
	suite.Run("create defaults feed url", func() {
		suite.channelRepo.
			On("Create", context.Background(), mock.MatchedBy(func(ch *entity.YoutubeChannel) bool {
				return ch.FeedURL == "https://www.youtube.com/feeds/videos.xml?channel_id=UC123"
			})).
			Once().
			Return(&entity.YoutubeChannel{ID: 1, ChannelID: "UC123"}, nil)

		ch, err := suite.uc.CreateChannel(context.Background(), &entity.YoutubeChannel{ChannelID: "UC123", Name: "Bitdoze"})

		suite.NoError(err)
		suite.Equal(int64(1), ch.ID)
	})

	suite.Run("create exists", func() {
		suite.channelRepo.
			On("Create", context.Background(), mock.Anything).
			Once().
			Return(nil, entity.ErrChannelExists)

		ch, err := suite.uc.CreateChannel(context.Background(), &entity.YoutubeChannel{ChannelID: "UC123"})

		suite.ErrorIs(err, entity.ErrChannelExists)
		suite.Nil(ch)
	})

	suite.Run("update leaves counters alone", func() {
		name := "Renamed"
		inactive := false

		suite.channelRepo.
			On("GetByID", context.Background(), int64(1)).
			Once().
			Return(&entity.YoutubeChannel{ID: 1, Name: "Bitdoze", IsActive: true, VideoCount: 12}, nil)
		suite.channelRepo.
			On("Update", context.Background(), mock.MatchedBy(func(ch *entity.YoutubeChannel) bool {
				return ch.Name == "Renamed" && !ch.IsActive && ch.VideoCount == 12
			})).
			Once().
			Return(&entity.YoutubeChannel{ID: 1, Name: "Renamed", VideoCount: 12}, nil)

		ch, err := suite.uc.UpdateChannel(context.Background(), 1, entity.ChannelUpdate{Name: &name, IsActive: &inactive})

		suite.NoError(err)
		suite.Equal("Renamed", ch.Name)
	})

	suite.Run("delete not found", func() {
		suite.channelRepo.
			On("Delete", context.Background(), int64(1)).
			Once().
			Return(entity.ErrChannelNotFound)

		suite.ErrorIs(suite.uc.DeleteChannel(context.Background(), 1), entity.ErrChannelNotFound)
	})

	suite.Run("list", func() {
		suite.channelRepo.
			On("List", context.Background()).
			Once().
			Return([]entity.YoutubeChannel{{ID: 1}, {ID: 2}}, nil)

		channels, err := suite.uc.ListChannels(context.Background())

		suite.NoError(err)
		suite.Len(channels, 2)
	})
}

func (suite *YoutubeUseCaseTestSuite) TestListVideos() {
	suite.Run("default limit", func() {
		suite.videoRepo.
			On("List", context.Background(), (*int64)(nil), defaultVideoLimit).
			Once().
			Return([]entity.YoutubeVideo{{ID: 1}}, nil)

		videos, err := suite.uc.ListVideos(context.Background(), nil, 0)

		suite.NoError(err)
		suite.Len(videos, 1)
	})

	suite.Run("limit is capped", func() {
		channelRef := int64(3)

		suite.videoRepo.
			On("List", context.Background(), &channelRef, maxVideoLimit).
			Once().
			Return([]entity.YoutubeVideo{}, nil)

		videos, err := suite.uc.ListVideos(context.Background(), &channelRef, 1000)

		suite.NoError(err)
		suite.Empty(videos)
	})

	suite.Run("unknown error", func() {
		suite.videoRepo.
			On("List", context.Background(), (*int64)(nil), 5).
			Once().
			Return(nil, suite.errUnknown)

		videos, err := suite.uc.ListVideos(context.Background(), nil, 5)

		suite.ErrorIs(err, suite.errUnknown)
		suite.Nil(videos)
	})
}

func TestYoutubeUseCase(t *testing.T) {
	suite.Run(t, new(YoutubeUseCaseTestSuite))
}
