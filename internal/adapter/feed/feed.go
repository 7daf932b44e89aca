// Package feed fetches YouTube channel feeds over HTTP and parses them into
// entity.Feed values.
package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/bitdoze/bitbuddies/internal/entity"
	"github.com/mmcdole/gofeed"

	ext "github.com/mmcdole/gofeed/extensions"
)

const maxFeedBytes = 10 << 20

// Fetcher downloads and parses channel feeds.
type Fetcher struct {
	client    *http.Client
	userAgent string
}

// NewFetcher returns a Fetcher issuing requests with the given timeout and user agent.
func NewFetcher(timeout time.Duration, userAgent string) *Fetcher {
	return &Fetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// Fetch downloads the feed at url. A response outside the 2xx range is reported
// as entity.ErrFeedStatus.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*entity.Feed, error) {
	const op = "adapter.feed.Fetcher.Fetch"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build request: %w", op, err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to fetch feed: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%s: %w: %d", op, entity.ErrFeedStatus, resp.StatusCode)
	}

	feed, err := Parse(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return feed, nil
}

// Parse reads a channel feed. The channel id and name come from the first place
// they appear, the feed header or else the first entry, and default to "".
// Entries without a video id or a title are dropped.
func Parse(r io.Reader) (*entity.Feed, error) {
	const op = "adapter.feed.Parse"

	parsed, err := gofeed.NewParser().Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse feed: %w", op, err)
	}

	feed := &entity.Feed{
		ChannelID:   extValue(parsed.Extensions, "yt", "channelId"),
		ChannelName: authorName(parsed.Authors),
		Entries:     make([]entity.FeedEntry, 0, len(parsed.Items)),
	}

	for _, item := range parsed.Items {
		if feed.ChannelID == "" {
			feed.ChannelID = extValue(item.Extensions, "yt", "channelId")
		}
		if feed.ChannelName == "" {
			feed.ChannelName = authorName(item.Authors)
		}

		entry, ok := parseEntry(item)
		if !ok {
			continue
		}
		feed.Entries = append(feed.Entries, entry)
	}

	return feed, nil
}

func parseEntry(item *gofeed.Item) (entity.FeedEntry, bool) {
	videoID := extValue(item.Extensions, "yt", "videoId")
	if videoID == "" || item.Title == "" {
		return entity.FeedEntry{}, false
	}

	entry := entity.FeedEntry{
		VideoID: videoID,
		Title:   item.Title,
	}

	if item.UpdatedParsed != nil {
		entry.UpdatedAt = item.UpdatedParsed.UTC()
	}
	if item.PublishedParsed != nil {
		entry.PublishedAt = item.PublishedParsed.UTC()
	} else {
		entry.PublishedAt = entry.UpdatedAt
	}
	if entry.UpdatedAt.IsZero() {
		entry.UpdatedAt = entry.PublishedAt
	}

	media := item.Extensions["media"]

	if e, ok := findExt(media, "thumbnail"); ok {
		entry.ThumbnailURL = e.Attrs["url"]
	}
	if e, ok := findExt(media, "description"); ok {
		entry.Description = e.Value
	}
	if e, ok := findExt(media, "statistics"); ok {
		entry.ViewCount, _ = strconv.ParseInt(e.Attrs["views"], 10, 64)
	}

	return entry, true
}

func authorName(authors []*gofeed.Person) string {
	for _, a := range authors {
		if a != nil && a.Name != "" {
			return a.Name
		}
	}
	return ""
}

func extValue(exts ext.Extensions, prefix, name string) string {
	if e, ok := findExt(exts[prefix], name); ok {
		return e.Value
	}
	return ""
}

// findExt searches the extension tree depth first and returns the first element
// with the given local name.
func findExt(exts map[string][]ext.Extension, name string) (ext.Extension, bool) {
	if list := exts[name]; len(list) > 0 {
		return list[0], true
	}

	for _, list := range exts {
		for _, e := range list {
			if found, ok := findExt(e.Children, name); ok {
				return found, true
			}
		}
	}

	return ext.Extension{}, false
}
