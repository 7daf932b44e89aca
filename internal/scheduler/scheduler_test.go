package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/bitdoze/bitbuddies/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockJobRunner struct {
	mock.Mock
}

func (m *MockJobRunner) SyncAllChannels(ctx context.Context) ([]entity.SyncResult, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).([]entity.SyncResult)
	return res, args.Error(1)
}

func (m *MockJobRunner) CleanupOldVideos(ctx context.Context) (*entity.CleanupResult, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).(*entity.CleanupResult)
	return res, args.Error(1)
}

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestNew(t *testing.T) {
	t.Run("invalid sync schedule", func(t *testing.T) {
		s, err := New(new(MockJobRunner), "every morning", "0 7 * * *", discardLogger)
		assert.Error(t, err)
		assert.Nil(t, s)
	})

	t.Run("invalid cleanup schedule", func(t *testing.T) {
		s, err := New(new(MockJobRunner), "0 6 * * *", "0 25 * * *", discardLogger)
		assert.Error(t, err)
		assert.Nil(t, s)
	})

	t.Run("daily triggers in utc", func(t *testing.T) {
		s, err := New(new(MockJobRunner), "0 6 * * *", "0 7 * * *", discardLogger)
		require.NoError(t, err)

		from := time.Date(2024, 3, 10, 6, 30, 0, 0, time.UTC)
		assert.Equal(t, time.Date(2024, 3, 11, 6, 0, 0, 0, time.UTC), s.sync.Next(from))
		assert.Equal(t, time.Date(2024, 3, 10, 7, 0, 0, 0, time.UTC), s.cleanup.Next(from))
	})
}

func TestScheduler_Run(t *testing.T) {
	jobs := new(MockJobRunner)
	synced := make(chan struct{}, 1)
	cleaned := make(chan struct{}, 1)

	jobs.On("SyncAllChannels", mock.Anything).
		Return([]entity.SyncResult{{Success: true}, {Success: false, Error: "boom"}}, nil).
		Run(func(mock.Arguments) {
			select {
			case synced <- struct{}{}:
			default:
			}
		})
	jobs.On("CleanupOldVideos", mock.Anything).
		Return(nil, errors.New("db down")).
		Run(func(mock.Arguments) {
			select {
			case cleaned <- struct{}{}:
			default:
			}
		})

	s, err := New(jobs, "@every 1s", "@every 1s", discardLogger)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx)
	}()

	for _, ch := range []chan struct{}{synced, cleaned} {
		select {
		case <-ch:
		case <-time.After(5 * time.Second):
			t.Fatal("job was not triggered")
		}
	}

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}
