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

const channelColumns = `id, channel_id, name, feed_url, is_active, video_count,
	last_sync_status, last_sync_error, last_synced_at, created_at, updated_at`

type channelDB struct {
	ID             int64          `db:"id"`
	ChannelID      string         `db:"channel_id"`
	Name           string         `db:"name"`
	FeedURL        string         `db:"feed_url"`
	IsActive       bool           `db:"is_active"`
	VideoCount     int64          `db:"video_count"`
	LastSyncStatus sql.NullString `db:"last_sync_status"`
	LastSyncError  sql.NullString `db:"last_sync_error"`
	LastSyncedAt   sql.NullTime   `db:"last_synced_at"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

func (c *channelDB) toEntity() *entity.YoutubeChannel {
	return &entity.YoutubeChannel{
		ID:             c.ID,
		ChannelID:      c.ChannelID,
		Name:           c.Name,
		FeedURL:        c.FeedURL,
		IsActive:       c.IsActive,
		VideoCount:     c.VideoCount,
		LastSyncStatus: c.LastSyncStatus.String,
		LastSyncError:  c.LastSyncError.String,
		LastSyncedAt:   timePtr(c.LastSyncedAt),
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

type ChannelRepository struct {
	db *sqlx.DB
}

func NewChannelRepository(db *sqlx.DB) *ChannelRepository {
	return &ChannelRepository{db: db}
}

func (r *ChannelRepository) Create(ctx context.Context, ch *entity.YoutubeChannel) (*entity.YoutubeChannel, error) {
	const op = "adapter.repository.postgres.ChannelRepository.Create"
	const query = `INSERT INTO youtube_channels(channel_id, name, feed_url, is_active)
		VALUES ($1, $2, $3, $4) RETURNING ` + channelColumns

	var row channelDB

	if err := r.db.GetContext(ctx, &row, query, ch.ChannelID, ch.Name, ch.FeedURL, ch.IsActive); err != nil {
		if pg.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrChannelExists)
		}

		return nil, fmt.Errorf("%s: failed to insert into youtube_channels table: %w", op, err)
	}

	return row.toEntity(), nil
}

func (r *ChannelRepository) GetByID(ctx context.Context, id int64) (*entity.YoutubeChannel, error) {
	const op = "adapter.repository.postgres.ChannelRepository.GetByID"
	const query = `SELECT ` + channelColumns + ` FROM youtube_channels WHERE id = $1`

	var row channelDB

	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrChannelNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get row from youtube_channels table: %w", op, err)
	}

	return row.toEntity(), nil
}

func (r *ChannelRepository) List(ctx context.Context) ([]entity.YoutubeChannel, error) {
	const op = "adapter.repository.postgres.ChannelRepository.List"
	const query = `SELECT ` + channelColumns + ` FROM youtube_channels ORDER BY id`

	return r.selectChannels(ctx, op, query)
}

// ListActive returns the channels the sync job should visit, in a stable order.
func (r *ChannelRepository) ListActive(ctx context.Context) ([]entity.YoutubeChannel, error) {
	const op = "adapter.repository.postgres.ChannelRepository.ListActive"
	const query = `SELECT ` + channelColumns + ` FROM youtube_channels WHERE is_active = TRUE ORDER BY id`

	return r.selectChannels(ctx, op, query)
}

func (r *ChannelRepository) selectChannels(ctx context.Context, op, query string) ([]entity.YoutubeChannel, error) {
	var rows []channelDB

	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("%s: failed to select from youtube_channels table: %w", op, err)
	}

	channels := make([]entity.YoutubeChannel, 0, len(rows))
	for i := range rows {
		channels = append(channels, *rows[i].toEntity())
	}

	return channels, nil
}

// Update writes the admin-editable fields. Video count and sync status are owned by the jobs.
func (r *ChannelRepository) Update(ctx context.Context, ch *entity.YoutubeChannel) (*entity.YoutubeChannel, error) {
	const op = "adapter.repository.postgres.ChannelRepository.Update"
	const query = `UPDATE youtube_channels SET name = $1, feed_url = $2, is_active = $3, updated_at = now()
		WHERE id = $4 RETURNING ` + channelColumns

	var row channelDB

	if err := r.db.GetContext(ctx, &row, query, ch.Name, ch.FeedURL, ch.IsActive, ch.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrChannelNotFound)
		}

		return nil, fmt.Errorf("%s: failed to update youtube_channels table row: %w", op, err)
	}

	return row.toEntity(), nil
}

// Delete removes the channel. Its videos are removed by the foreign key cascade.
func (r *ChannelRepository) Delete(ctx context.Context, id int64) error {
	const op = "adapter.repository.postgres.ChannelRepository.Delete"
	const query = `DELETE FROM youtube_channels WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("%s: failed to delete from youtube_channels table: %w", op, err)
	}

	return checkAffected(op, res, entity.ErrChannelNotFound)
}

// MarkSynced records a successful sync together with the recomputed video count.
func (r *ChannelRepository) MarkSynced(ctx context.Context, id, videoCount int64, at time.Time) error {
	const op = "adapter.repository.postgres.ChannelRepository.MarkSynced"
	const query = `UPDATE youtube_channels
		SET video_count = $1, last_sync_status = $2, last_sync_error = NULL, last_synced_at = $3, updated_at = $3
		WHERE id = $4`

	res, err := r.db.ExecContext(ctx, query, videoCount, entity.SyncStatusSuccess, at, id)
	if err != nil {
		return fmt.Errorf("%s: failed to update youtube_channels table row: %w", op, err)
	}

	return checkAffected(op, res, entity.ErrChannelNotFound)
}

// MarkSyncFailed records a failed sync and its error message.
func (r *ChannelRepository) MarkSyncFailed(ctx context.Context, id int64, syncErr string, at time.Time) error {
	const op = "adapter.repository.postgres.ChannelRepository.MarkSyncFailed"
	const query = `UPDATE youtube_channels
		SET last_sync_status = $1, last_sync_error = $2, last_synced_at = $3, updated_at = $3
		WHERE id = $4`

	res, err := r.db.ExecContext(ctx, query, entity.SyncStatusFailed, syncErr, at, id)
	if err != nil {
		return fmt.Errorf("%s: failed to update youtube_channels table row: %w", op, err)
	}

	return checkAffected(op, res, entity.ErrChannelNotFound)
}

// SetVideoCount overwrites the cached video count.
func (r *ChannelRepository) SetVideoCount(ctx context.Context, id, videoCount int64, at time.Time) error {
	const op = "adapter.repository.postgres.ChannelRepository.SetVideoCount"
	const query = `UPDATE youtube_channels SET video_count = $1, updated_at = $2 WHERE id = $3`

	res, err := r.db.ExecContext(ctx, query, videoCount, at, id)
	if err != nil {
		return fmt.Errorf("%s: failed to update youtube_channels table row: %w", op, err)
	}

	return checkAffected(op, res, entity.ErrChannelNotFound)
}
