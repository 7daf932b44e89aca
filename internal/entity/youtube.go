package entity

import (
	"fmt"
	"time"
)

// Sync statuses stored on a channel after a feed sync.
const (
	SyncStatusSuccess = "success"
	SyncStatusFailed  = "failed"
)

// YoutubeChannel is a tracked feed source.
type YoutubeChannel struct {
	ID             int64
	ChannelID      string // ChannelID is the external YouTube channel id.
	Name           string
	FeedURL        string
	IsActive       bool
	VideoCount     int64  // VideoCount is repaired by the sync and cleanup jobs only.
	LastSyncStatus string // LastSyncStatus is empty until the first sync.
	LastSyncError  string
	LastSyncedAt   *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// DefaultFeedURL returns the public Atom feed of a YouTube channel.
func DefaultFeedURL(channelID string) string {
	return fmt.Sprintf("https://www.youtube.com/feeds/videos.xml?channel_id=%s", channelID)
}

// ChannelUpdate holds the admin-editable fields of a channel.
type ChannelUpdate struct {
	Name     *string
	FeedURL  *string
	IsActive *bool
}

// YoutubeVideo is a cached snapshot of one video seen in a channel feed.
type YoutubeVideo struct {
	ID            int64
	VideoID       string // VideoID is the external YouTube video id.
	ChannelID     string // ChannelID is the external channel id reported by the feed.
	ChannelRef    int64  // ChannelRef references the owning YoutubeChannel.
	ChannelName   string
	Title         string
	Description   string
	ThumbnailURL  string
	VideoURL      string
	ViewCount     int64
	PublishedAt   time.Time
	FeedUpdatedAt time.Time
	LastSyncedAt  time.Time
	CreatedAt     time.Time
}

// WatchURL returns the canonical watch page of a video.
func WatchURL(videoID string) string {
	return fmt.Sprintf("https://www.youtube.com/watch?v=%s", videoID)
}

// Feed is the parsed content of a channel feed.
type Feed struct {
	ChannelID   string
	ChannelName string
	Entries     []FeedEntry
}

// FeedEntry is one video entry of a channel feed.
type FeedEntry struct {
	VideoID      string
	Title        string
	Description  string
	ThumbnailURL string
	ViewCount    int64
	PublishedAt  time.Time
	UpdatedAt    time.Time
}

// SyncResult reports the outcome of syncing one channel.
type SyncResult struct {
	RunID         string
	Success       bool
	Skipped       bool
	ChannelID     int64
	ChannelName   string
	NewVideos     int
	UpdatedVideos int
	TotalVideos   int64
	Error         string
}

// CleanupResult reports the outcome of the retention job.
type CleanupResult struct {
	RunID    string
	Removed  int
	Channels int
	Cutoff   time.Time
}
