package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bitdoze/bitbuddies/internal/entity"
	"github.com/jmoiron/sqlx"
)

const videoColumns = `id, video_id, channel_id, channel_ref, channel_name, title, description, thumbnail_url,
	video_url, view_count, published_at, feed_updated_at, last_synced_at, created_at`

type videoDB struct {
	ID            int64     `db:"id"`
	VideoID       string    `db:"video_id"`
	ChannelID     string    `db:"channel_id"`
	ChannelRef    int64     `db:"channel_ref"`
	ChannelName   string    `db:"channel_name"`
	Title         string    `db:"title"`
	Description   string    `db:"description"`
	ThumbnailURL  string    `db:"thumbnail_url"`
	VideoURL      string    `db:"video_url"`
	ViewCount     int64     `db:"view_count"`
	PublishedAt   time.Time `db:"published_at"`
	FeedUpdatedAt time.Time `db:"feed_updated_at"`
	LastSyncedAt  time.Time `db:"last_synced_at"`
	CreatedAt     time.Time `db:"created_at"`
}

func (v *videoDB) toEntity() *entity.YoutubeVideo {
	return &entity.YoutubeVideo{
		ID:            v.ID,
		VideoID:       v.VideoID,
		ChannelID:     v.ChannelID,
		ChannelRef:    v.ChannelRef,
		ChannelName:   v.ChannelName,
		Title:         v.Title,
		Description:   v.Description,
		ThumbnailURL:  v.ThumbnailURL,
		VideoURL:      v.VideoURL,
		ViewCount:     v.ViewCount,
		PublishedAt:   v.PublishedAt,
		FeedUpdatedAt: v.FeedUpdatedAt,
		LastSyncedAt:  v.LastSyncedAt,
		CreatedAt:     v.CreatedAt,
	}
}

type VideoRepository struct {
	db *sqlx.DB
}

func NewVideoRepository(db *sqlx.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

func (r *VideoRepository) GetByVideoID(ctx context.Context, videoID string) (*entity.YoutubeVideo, error) {
	const op = "adapter.repository.postgres.VideoRepository.GetByVideoID"
	const query = `SELECT ` + videoColumns + ` FROM youtube_videos WHERE video_id = $1`

	var row videoDB

	if err := r.db.GetContext(ctx, &row, query, videoID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrVideoNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get row from youtube_videos table: %w", op, err)
	}

	return row.toEntity(), nil
}

func (r *VideoRepository) Create(ctx context.Context, v *entity.YoutubeVideo) (*entity.YoutubeVideo, error) {
	const op = "adapter.repository.postgres.VideoRepository.Create"
	const query = `INSERT INTO youtube_videos(video_id, channel_id, channel_ref, channel_name, title, description,
			thumbnail_url, video_url, view_count, published_at, feed_updated_at, last_synced_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13) RETURNING ` + videoColumns

	var row videoDB

	err := r.db.GetContext(ctx, &row, query,
		v.VideoID, v.ChannelID, v.ChannelRef, v.ChannelName, v.Title, v.Description,
		v.ThumbnailURL, v.VideoURL, v.ViewCount, v.PublishedAt, v.FeedUpdatedAt, v.LastSyncedAt, v.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to insert into youtube_videos table: %w", op, err)
	}

	return row.toEntity(), nil
}

// UpdateFromFeed overwrites the fields a feed may change on an already stored video.
func (r *VideoRepository) UpdateFromFeed(ctx context.Context, v *entity.YoutubeVideo) error {
	const op = "adapter.repository.postgres.VideoRepository.UpdateFromFeed"
	const query = `UPDATE youtube_videos
		SET title = $1, description = $2, thumbnail_url = $3, view_count = $4, feed_updated_at = $5, last_synced_at = $6
		WHERE id = $7`

	res, err := r.db.ExecContext(ctx, query,
		v.Title, v.Description, v.ThumbnailURL, v.ViewCount, v.FeedUpdatedAt, v.LastSyncedAt, v.ID,
	)
	if err != nil {
		return fmt.Errorf("%s: failed to update youtube_videos table row: %w", op, err)
	}

	return checkAffected(op, res, entity.ErrVideoNotFound)
}

func (r *VideoRepository) CountByChannel(ctx context.Context, channelRef int64) (int64, error) {
	const op = "adapter.repository.postgres.VideoRepository.CountByChannel"
	const query = `SELECT COUNT(*) FROM youtube_videos WHERE channel_ref = $1`

	var count int64

	if err := r.db.GetContext(ctx, &count, query, channelRef); err != nil {
		return 0, fmt.Errorf("%s: failed to count youtube_videos rows: %w", op, err)
	}

	return count, nil
}

// ListPublishedBefore returns the videos published strictly before cutoff.
func (r *VideoRepository) ListPublishedBefore(ctx context.Context, cutoff time.Time) ([]entity.YoutubeVideo, error) {
	const op = "adapter.repository.postgres.VideoRepository.ListPublishedBefore"
	const query = `SELECT ` + videoColumns + ` FROM youtube_videos WHERE published_at < $1 ORDER BY published_at`

	var rows []videoDB

	if err := r.db.SelectContext(ctx, &rows, query, cutoff); err != nil {
		return nil, fmt.Errorf("%s: failed to select from youtube_videos table: %w", op, err)
	}

	return toVideos(rows), nil
}

// List returns the newest published videos, optionally restricted to one channel.
func (r *VideoRepository) List(ctx context.Context, channelRef *int64, limit int) ([]entity.YoutubeVideo, error) {
	const op = "adapter.repository.postgres.VideoRepository.List"
	const (
		queryAll       = `SELECT ` + videoColumns + ` FROM youtube_videos ORDER BY published_at DESC, id DESC LIMIT $1`
		queryByChannel = `SELECT ` + videoColumns + ` FROM youtube_videos WHERE channel_ref = $1
			ORDER BY published_at DESC, id DESC LIMIT $2`
	)

	var (
		rows []videoDB
		err  error
	)

	if channelRef != nil {
		err = r.db.SelectContext(ctx, &rows, queryByChannel, *channelRef, limit)
	} else {
		err = r.db.SelectContext(ctx, &rows, queryAll, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: failed to select from youtube_videos table: %w", op, err)
	}

	return toVideos(rows), nil
}

func (r *VideoRepository) Delete(ctx context.Context, id int64) error {
	const op = "adapter.repository.postgres.VideoRepository.Delete"
	const query = `DELETE FROM youtube_videos WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("%s: failed to delete from youtube_videos table: %w", op, err)
	}

	return checkAffected(op, res, entity.ErrVideoNotFound)
}

func toVideos(rows []videoDB) []entity.YoutubeVideo {
	videos := make([]entity.YoutubeVideo, 0, len(rows))
	for i := range rows {
		videos = append(videos, *rows[i].toEntity())
	}
	return videos
}
