package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/bitdoze/bitbuddies/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestdata(t testing.TB, name string) *os.File {
	t.Helper()

	f, err := os.Open("testdata/" + name)
	if err != nil {
		t.Fatalf("Failed to open testdata: %v", err)
	}
	t.Cleanup(func() {
		f.Close()
	})

	return f
}

func TestParse(t *testing.T) {
	t.Run("channel feed", func(t *testing.T) {
		feed, err := Parse(openTestdata(t, "channel.xml"))

		require.NoError(t, err)
		assert.Equal(t, "UCabc123", feed.ChannelID)
		assert.Equal(t, "Bit Doze", feed.ChannelName)
		require.Len(t, feed.Entries, 2)

		first := feed.Entries[0]
		assert.Equal(t, "abc", first.VideoID)
		assert.Equal(t, "Self-hosting with Docker", first.Title)
		assert.Equal(t, "Run your own services at home.", first.Description)
		assert.Equal(t, "https://i1.ytimg.com/vi/abc/hqdefault.jpg", first.ThumbnailURL)
		assert.Equal(t, int64(4521), first.ViewCount)
		assert.True(t, first.PublishedAt.Equal(time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC)))
		assert.True(t, first.UpdatedAt.Equal(time.Date(2024, 5, 3, 8, 30, 0, 0, time.UTC)))

		second := feed.Entries[1]
		assert.Equal(t, "def", second.VideoID)
		assert.Equal(t, "Backups & Restores", second.Title)
		assert.Equal(t, int64(87), second.ViewCount)
	})

	t.Run("missing channel fields default to empty", func(t *testing.T) {
		feed, err := Parse(openTestdata(t, "bare.xml"))

		require.NoError(t, err)
		assert.Empty(t, feed.ChannelID)
		assert.Empty(t, feed.ChannelName)
		require.Len(t, feed.Entries, 1)

		entry := feed.Entries[0]
		assert.Equal(t, "xyz", entry.VideoID)
		assert.Empty(t, entry.ThumbnailURL)
		assert.Empty(t, entry.Description)
		assert.Zero(t, entry.ViewCount)
		assert.True(t, entry.UpdatedAt.Equal(entry.PublishedAt))
	})

	t.Run("not a feed", func(t *testing.T) {
		feed, err := Parse(strings.NewReader("definitely not xml"))

		assert.Error(t, err)
		assert.Nil(t, feed)
	})
}

func TestFetcher_Fetch(t *testing.T) {
	data, err := os.ReadFile("testdata/channel.xml")
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		var gotUserAgent string

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUserAgent = r.Header.Get("User-Agent")
			w.Header().Set("Content-Type", "application/atom+xml")
			w.Write(data)
		}))
		t.Cleanup(server.Close)

		f := NewFetcher(time.Second, "test-agent")
		feed, err := f.Fetch(context.Background(), server.URL)

		require.NoError(t, err)
		assert.Equal(t, "test-agent", gotUserAgent)
		assert.Equal(t, "UCabc123", feed.ChannelID)
		assert.Len(t, feed.Entries, 2)
	})

	t.Run("non-success status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		t.Cleanup(server.Close)

		f := NewFetcher(time.Second, "")
		feed, err := f.Fetch(context.Background(), server.URL)

		assert.ErrorIs(t, err, entity.ErrFeedStatus)
		assert.Contains(t, err.Error(), "404")
		assert.Nil(t, feed)
	})

	t.Run("unreachable host", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		url := server.URL
		server.Close()

		f := NewFetcher(time.Second, "")
		feed, err := f.Fetch(context.Background(), url)

		assert.Error(t, err)
		assert.Nil(t, feed)
	})
}
