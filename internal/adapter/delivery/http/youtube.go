package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/bitdoze/bitbuddies/internal/entity"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type youtubeUseCase interface {
	SyncChannelByID(ctx context.Context, id int64) (*entity.SyncResult, error)
	SyncAllChannels(ctx context.Context) ([]entity.SyncResult, error)
	CleanupOldVideos(ctx context.Context) (*entity.CleanupResult, error)

	CreateChannel(ctx context.Context, ch *entity.YoutubeChannel) (*entity.YoutubeChannel, error)
	ListChannels(ctx context.Context) ([]entity.YoutubeChannel, error)
	UpdateChannel(ctx context.Context, id int64, upd entity.ChannelUpdate) (*entity.YoutubeChannel, error)
	DeleteChannel(ctx context.Context, id int64) error
	ListVideos(ctx context.Context, channelRef *int64, limit int) ([]entity.YoutubeVideo, error)
}

type youtubeHandler struct {
	useCase  youtubeUseCase
	validate *validator.Validate
}

func newYoutubeHandler(useCase youtubeUseCase, validate *validator.Validate) *youtubeHandler {
	return &youtubeHandler{
		useCase:  useCase,
		validate: validate,
	}
}

func (h *youtubeHandler) listVideos(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var limit int
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			renderInvalidQuery(w, r)
			return
		}
		limit = n
	}

	var channelRef *int64
	if v := q.Get("channel_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			renderInvalidQuery(w, r)
			return
		}
		channelRef = &id
	}

	videos, err := h.useCase.ListVideos(r.Context(), channelRef, limit)
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, toVideoResponses(videos))
}

func (h *youtubeHandler) syncAll(w http.ResponseWriter, r *http.Request) {
	results, err := h.useCase.SyncAllChannels(r.Context())
	if err != nil {
		renderError(w, r, err)
		return
	}

	resp := make([]syncResultResponse, 0, len(results))
	for i := range results {
		resp = append(resp, toSyncResultResponse(&results[i]))
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, resp)
}

// syncChannel reports feed failures as 502 with the failed result of the channel.
func (h *youtubeHandler) syncChannel(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	res, err := h.useCase.SyncChannelByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, entity.ErrChannelNotFound) {
			renderError(w, r, err)
			return
		}

		httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))
		render.Status(r, http.StatusBadGateway)

		if res == nil {
			render.JSON(w, r, feedSyncFailedResponse)
			return
		}

		render.JSON(w, r, toSyncResultResponse(res))
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, toSyncResultResponse(res))
}

func (h *youtubeHandler) cleanup(w http.ResponseWriter, r *http.Request) {
	res, err := h.useCase.CleanupOldVideos(r.Context())
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, cleanupResponse{
		RunID:    res.RunID,
		Removed:  res.Removed,
		Channels: res.Channels,
		Cutoff:   res.Cutoff,
	})
}

func (h *youtubeHandler) createChannel(w http.ResponseWriter, r *http.Request) {
	var req channelRequest

	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	ch, err := h.useCase.CreateChannel(r.Context(), req.toEntity())
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, toChannelResponse(ch))
}

func (h *youtubeHandler) listChannels(w http.ResponseWriter, r *http.Request) {
	channels, err := h.useCase.ListChannels(r.Context())
	if err != nil {
		renderError(w, r, err)
		return
	}

	resp := make([]channelResponse, 0, len(channels))
	for i := range channels {
		resp = append(resp, toChannelResponse(&channels[i]))
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, resp)
}

func (h *youtubeHandler) updateChannel(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req updateChannelRequest

	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	ch, err := h.useCase.UpdateChannel(r.Context(), id, entity.ChannelUpdate{
		Name:     req.Name,
		FeedURL:  req.FeedURL,
		IsActive: req.IsActive,
	})
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, toChannelResponse(ch))
}

func (h *youtubeHandler) deleteChannel(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.useCase.DeleteChannel(r.Context(), id); err != nil {
		renderError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
