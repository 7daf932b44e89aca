package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bitdoze/bitbuddies/internal/entity"
	"github.com/bitdoze/bitbuddies/internal/metrics"
	"github.com/google/uuid"
)

const (
	defaultRetentionWindow = 14 * 24 * time.Hour
	defaultVideoLimit      = 20
	maxVideoLimit          = 100
)

type feedFetcher interface {
	Fetch(ctx context.Context, url string) (*entity.Feed, error)
}

type channelRepository interface {
	Create(ctx context.Context, ch *entity.YoutubeChannel) (*entity.YoutubeChannel, error)
	GetByID(ctx context.Context, id int64) (*entity.YoutubeChannel, error)
	List(ctx context.Context) ([]entity.YoutubeChannel, error)
	ListActive(ctx context.Context) ([]entity.YoutubeChannel, error)
	Update(ctx context.Context, ch *entity.YoutubeChannel) (*entity.YoutubeChannel, error)
	Delete(ctx context.Context, id int64) error
	MarkSynced(ctx context.Context, id, videoCount int64, at time.Time) error
	MarkSyncFailed(ctx context.Context, id int64, syncErr string, at time.Time) error
	SetVideoCount(ctx context.Context, id, videoCount int64, at time.Time) error
}

type videoRepository interface {
	GetByVideoID(ctx context.Context, videoID string) (*entity.YoutubeVideo, error)
	Create(ctx context.Context, v *entity.YoutubeVideo) (*entity.YoutubeVideo, error)
	UpdateFromFeed(ctx context.Context, v *entity.YoutubeVideo) error
	CountByChannel(ctx context.Context, channelRef int64) (int64, error)
	ListPublishedBefore(ctx context.Context, cutoff time.Time) ([]entity.YoutubeVideo, error)
	List(ctx context.Context, channelRef *int64, limit int) ([]entity.YoutubeVideo, error)
	Delete(ctx context.Context, id int64) error
}

// YoutubeUseCase keeps the cached videos of the tracked channels in line with
// their feeds and removes videos older than the retention window.
type YoutubeUseCase struct {
	retention   time.Duration
	fetcher     feedFetcher
	channelRepo channelRepository
	videoRepo   videoRepository
	logger      *slog.Logger
	now         func() time.Time
	newRunID    func() string
}

func NewYoutubeUseCase(
	fetcher feedFetcher,
	channelRepo channelRepository,
	videoRepo videoRepository,
	retention time.Duration,
	logger *slog.Logger,
) *YoutubeUseCase {
	if retention <= 0 {
		retention = defaultRetentionWindow
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &YoutubeUseCase{
		retention:   retention,
		fetcher:     fetcher,
		channelRepo: channelRepo,
		videoRepo:   videoRepo,
		logger:      logger,
		now:         time.Now,
		newRunID:    uuid.NewString,
	}
}

// SyncChannelByID loads the channel and syncs it.
func (uc *YoutubeUseCase) SyncChannelByID(ctx context.Context, id int64) (*entity.SyncResult, error) {
	const op = "usecase.YoutubeUseCase.SyncChannelByID"

	ch, err := uc.channelRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get channel: %w", op, err)
	}

	return uc.SyncChannel(ctx, ch)
}

// SyncChannel fetches the channel feed and reconciles its entries into storage.
// Inactive channels are skipped. On failure the channel is marked as failed and
// the error is returned together with a failure-shaped result.
func (uc *YoutubeUseCase) SyncChannel(ctx context.Context, ch *entity.YoutubeChannel) (*entity.SyncResult, error) {
	const op = "usecase.YoutubeUseCase.SyncChannel"

	runID := uc.newRunID()
	log := uc.logger.With(
		slog.String("op", op),
		slog.String("run_id", runID),
		slog.String("channel", ch.ChannelID),
	)

	if !ch.IsActive {
		log.Debug("skipping inactive channel")
		metrics.ChannelSyncs.WithLabelValues("skipped").Inc()

		return &entity.SyncResult{
			RunID:       runID,
			Skipped:     true,
			ChannelID:   ch.ID,
			ChannelName: ch.Name,
		}, nil
	}

	timer := metrics.NewTimer()
	defer timer.ObserveDurationVec(metrics.JobDuration, "sync_channel")

	result, err := uc.syncChannel(ctx, ch)
	if err != nil {
		metrics.ChannelSyncs.WithLabelValues(entity.SyncStatusFailed).Inc()
		log.Error("channel sync failed", slog.Any("err", err))

		if markErr := uc.channelRepo.MarkSyncFailed(ctx, ch.ID, err.Error(), uc.now().UTC()); markErr != nil {
			log.Error("failed to record sync failure", slog.Any("err", markErr))
		}

		return &entity.SyncResult{
			RunID:       runID,
			Success:     false,
			ChannelID:   ch.ID,
			ChannelName: ch.Name,
			Error:       err.Error(),
		}, fmt.Errorf("%s: %w", op, err)
	}

	result.RunID = runID
	metrics.ChannelSyncs.WithLabelValues(entity.SyncStatusSuccess).Inc()
	log.Info("channel synced",
		slog.Int("new", result.NewVideos),
		slog.Int("updated", result.UpdatedVideos),
		slog.Int64("total", result.TotalVideos),
	)

	return result, nil
}

func (uc *YoutubeUseCase) syncChannel(ctx context.Context, ch *entity.YoutubeChannel) (*entity.SyncResult, error) {
	feed, err := uc.fetcher.Fetch(ctx, ch.FeedURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}

	syncedAt := uc.now().UTC()
	result := &entity.SyncResult{
		Success:     true,
		ChannelID:   ch.ID,
		ChannelName: feed.ChannelName,
	}
	if result.ChannelName == "" {
		result.ChannelName = ch.Name
	}

	for _, entry := range feed.Entries {
		created, err := uc.reconcile(ctx, ch, feed, entry, syncedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to reconcile video %s: %w", entry.VideoID, err)
		}

		if created {
			result.NewVideos++
		} else {
			result.UpdatedVideos++
		}
	}

	total, err := uc.videoRepo.CountByChannel(ctx, ch.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count videos: %w", err)
	}

	if err := uc.channelRepo.MarkSynced(ctx, ch.ID, total, syncedAt); err != nil {
		return nil, fmt.Errorf("failed to record sync status: %w", err)
	}

	metrics.VideosSynced.WithLabelValues("new").Add(float64(result.NewVideos))
	metrics.VideosSynced.WithLabelValues("updated").Add(float64(result.UpdatedVideos))

	result.TotalVideos = total

	return result, nil
}

// reconcile overwrites the stored video of entry or inserts it. The boolean
// reports whether a new video was created.
func (uc *YoutubeUseCase) reconcile(
	ctx context.Context,
	ch *entity.YoutubeChannel,
	feed *entity.Feed,
	entry entity.FeedEntry,
	syncedAt time.Time,
) (bool, error) {
	existing, err := uc.videoRepo.GetByVideoID(ctx, entry.VideoID)
	if err == nil {
		existing.Title = entry.Title
		existing.Description = entry.Description
		existing.ThumbnailURL = entry.ThumbnailURL
		existing.ViewCount = entry.ViewCount
		existing.FeedUpdatedAt = orTime(entry.UpdatedAt, syncedAt)
		existing.LastSyncedAt = syncedAt

		return false, uc.videoRepo.UpdateFromFeed(ctx, existing)
	}
	if !errors.Is(err, entity.ErrVideoNotFound) {
		return false, err
	}

	_, err = uc.videoRepo.Create(ctx, &entity.YoutubeVideo{
		VideoID:       entry.VideoID,
		ChannelID:     feed.ChannelID,
		ChannelRef:    ch.ID,
		ChannelName:   feed.ChannelName,
		Title:         entry.Title,
		Description:   entry.Description,
		ThumbnailURL:  entry.ThumbnailURL,
		VideoURL:      entity.WatchURL(entry.VideoID),
		ViewCount:     entry.ViewCount,
		PublishedAt:   orTime(entry.PublishedAt, syncedAt),
		FeedUpdatedAt: orTime(entry.UpdatedAt, syncedAt),
		LastSyncedAt:  syncedAt,
		CreatedAt:     syncedAt,
	})

	return true, err
}

func orTime(t, fallback time.Time) time.Time {
	if t.IsZero() {
		return fallback
	}
	return t
}

// SyncAllChannels syncs every active channel in turn. A failing channel is
// reported in its result entry and does not stop the batch.
func (uc *YoutubeUseCase) SyncAllChannels(ctx context.Context) ([]entity.SyncResult, error) {
	const op = "usecase.YoutubeUseCase.SyncAllChannels"

	timer := metrics.NewTimer()
	defer timer.ObserveDurationVec(metrics.JobDuration, "sync_all")

	channels, err := uc.channelRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list active channels: %w", op, err)
	}

	results := make([]entity.SyncResult, 0, len(channels))

	for i := range channels {
		ch := &channels[i]

		// A failed sync still yields its result; the error is already logged.
		result, _ := uc.SyncChannel(ctx, ch)
		results = append(results, *result)
	}

	uc.logger.Info("all channels synced", slog.String("op", op), slog.Int("channels", len(results)))

	return results, nil
}

// CleanupOldVideos deletes the videos published before the retention window and
// recounts the cached video count of every touched channel.
func (uc *YoutubeUseCase) CleanupOldVideos(ctx context.Context) (*entity.CleanupResult, error) {
	const op = "usecase.YoutubeUseCase.CleanupOldVideos"

	timer := metrics.NewTimer()
	defer timer.ObserveDurationVec(metrics.JobDuration, "cleanup")

	now := uc.now().UTC()
	result := &entity.CleanupResult{
		RunID:  uc.newRunID(),
		Cutoff: now.Add(-uc.retention),
	}
	log := uc.logger.With(slog.String("op", op), slog.String("run_id", result.RunID))

	videos, err := uc.videoRepo.ListPublishedBefore(ctx, result.Cutoff)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list old videos: %w", op, err)
	}

	if len(videos) == 0 {
		log.Info("no videos to remove")
		return result, nil
	}

	removed := make(map[int64]int)
	order := make([]int64, 0)

	for _, v := range videos {
		if _, ok := removed[v.ChannelRef]; !ok {
			order = append(order, v.ChannelRef)
			removed[v.ChannelRef] = 0
		}

		if err := uc.videoRepo.Delete(ctx, v.ID); err != nil {
			if errors.Is(err, entity.ErrVideoNotFound) {
				log.Debug("video already removed", slog.String("video_id", v.VideoID))
				continue
			}
			return nil, fmt.Errorf("%s: failed to delete video %s: %w", op, v.VideoID, err)
		}

		removed[v.ChannelRef]++
		result.Removed++
		metrics.VideosRemoved.Inc()
	}

	for _, channelRef := range order {
		count, err := uc.videoRepo.CountByChannel(ctx, channelRef)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to count videos: %w", op, err)
		}

		if err := uc.channelRepo.SetVideoCount(ctx, channelRef, count, now); err != nil {
			return nil, fmt.Errorf("%s: failed to update video count: %w", op, err)
		}

		log.Debug("channel video count repaired",
			slog.Int64("channel_ref", channelRef),
			slog.Int("removed", removed[channelRef]),
			slog.Int64("remaining", count),
		)
	}

	result.Channels = len(order)
	log.Info("old videos removed", slog.Int("removed", result.Removed), slog.Int("channels", result.Channels))

	return result, nil
}

// CreateChannel starts tracking a channel. An empty feed URL defaults to the
// public feed of the channel.
func (uc *YoutubeUseCase) CreateChannel(ctx context.Context, ch *entity.YoutubeChannel) (*entity.YoutubeChannel, error) {
	const op = "usecase.YoutubeUseCase.CreateChannel"

	if ch.FeedURL == "" {
		ch.FeedURL = entity.DefaultFeedURL(ch.ChannelID)
	}

	created, err := uc.channelRepo.Create(ctx, ch)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create channel: %w", op, err)
	}

	return created, nil
}

func (uc *YoutubeUseCase) ListChannels(ctx context.Context) ([]entity.YoutubeChannel, error) {
	const op = "usecase.YoutubeUseCase.ListChannels"

	channels, err := uc.channelRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list channels: %w", op, err)
	}

	return channels, nil
}

func (uc *YoutubeUseCase) UpdateChannel(ctx context.Context, id int64, upd entity.ChannelUpdate) (*entity.YoutubeChannel, error) {
	const op = "usecase.YoutubeUseCase.UpdateChannel"

	ch, err := uc.channelRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get channel: %w", op, err)
	}

	if upd.Name != nil {
		ch.Name = *upd.Name
	}
	if upd.FeedURL != nil {
		ch.FeedURL = *upd.FeedURL
	}
	if upd.IsActive != nil {
		ch.IsActive = *upd.IsActive
	}

	updated, err := uc.channelRepo.Update(ctx, ch)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to update channel: %w", op, err)
	}

	return updated, nil
}

func (uc *YoutubeUseCase) DeleteChannel(ctx context.Context, id int64) error {
	const op = "usecase.YoutubeUseCase.DeleteChannel"

	if err := uc.channelRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("%s: failed to delete channel: %w", op, err)
	}

	return nil
}

// ListVideos returns the newest videos, optionally of one channel. The limit is
// clamped to a sane range.
func (uc *YoutubeUseCase) ListVideos(ctx context.Context, channelRef *int64, limit int) ([]entity.YoutubeVideo, error) {
	const op = "usecase.YoutubeUseCase.ListVideos"

	switch {
	case limit <= 0:
		limit = defaultVideoLimit
	case limit > maxVideoLimit:
		limit = maxVideoLimit
	}

	videos, err := uc.videoRepo.List(ctx, channelRef, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list videos: %w", op, err)
	}

	return videos, nil
}
