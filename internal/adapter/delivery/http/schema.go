package http

import (
	"errors"
	"time"

	"github.com/bitdoze/bitbuddies/internal/entity"
	"github.com/go-playground/validator/v10"
)

const statusError = "error"

type createLinkRequest struct {
	Slug        string `json:"slug" validate:"omitempty,slug,max=64"`
	URL         string `json:"url" validate:"required,url"`
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=1000"`
	CategoryID  *int64 `json:"category_id" validate:"omitempty,gt=0"`
	IsActive    *bool  `json:"is_active"`
}

func (req createLinkRequest) toEntity(createdBy string) *entity.AffiliateLink {
	link := &entity.AffiliateLink{
		Slug:        req.Slug,
		URL:         req.URL,
		Name:        req.Name,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		IsActive:    true,
		CreatedBy:   createdBy,
	}
	if req.IsActive != nil {
		link.IsActive = *req.IsActive
	}
	return link
}

type updateLinkRequest struct {
	Slug          *string `json:"slug" validate:"omitempty,slug,max=64"`
	URL           *string `json:"url" validate:"omitempty,url"`
	Name          *string `json:"name" validate:"omitempty,min=1,max=200"`
	Description   *string `json:"description" validate:"omitempty,max=1000"`
	CategoryID    *int64  `json:"category_id" validate:"omitempty,gt=0"`
	ClearCategory bool    `json:"clear_category"`
	IsActive      *bool   `json:"is_active"`
}

func (req updateLinkRequest) toEntity() entity.LinkUpdate {
	return entity.LinkUpdate{
		Slug:          req.Slug,
		URL:           req.URL,
		Name:          req.Name,
		Description:   req.Description,
		CategoryID:    req.CategoryID,
		ClearCategory: req.ClearCategory,
		IsActive:      req.IsActive,
	}
}

type linkResponse struct {
	ID          int64     `json:"id"`
	Slug        string    `json:"slug"`
	URL         string    `json:"url"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CategoryID  *int64    `json:"category_id"`
	IsActive    bool      `json:"is_active"`
	ClickCount  int64     `json:"click_count"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toLinkResponse(link *entity.AffiliateLink) linkResponse {
	return linkResponse{
		ID:          link.ID,
		Slug:        link.Slug,
		URL:         link.URL,
		Name:        link.Name,
		Description: link.Description,
		CategoryID:  link.CategoryID,
		IsActive:    link.IsActive,
		ClickCount:  link.ClickCount,
		CreatedBy:   link.CreatedBy,
		CreatedAt:   link.CreatedAt,
		UpdatedAt:   link.UpdatedAt,
	}
}

func toLinkResponses(links []entity.AffiliateLink) []linkResponse {
	resp := make([]linkResponse, 0, len(links))
	for i := range links {
		resp = append(resp, toLinkResponse(&links[i]))
	}
	return resp
}

type categoryRequest struct {
	Name string `json:"name" validate:"required,max=100"`
	Slug string `json:"slug" validate:"omitempty,slug,max=64"`
}

type categoryResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

func toCategoryResponse(c *entity.LinkCategory) categoryResponse {
	return categoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		Slug:      c.Slug,
		CreatedAt: c.CreatedAt,
	}
}

type channelRequest struct {
	ChannelID string `json:"channel_id" validate:"required,max=64"`
	Name      string `json:"name" validate:"required,max=200"`
	FeedURL   string `json:"feed_url" validate:"omitempty,url"`
	IsActive  *bool  `json:"is_active"`
}

func (req channelRequest) toEntity() *entity.YoutubeChannel {
	ch := &entity.YoutubeChannel{
		ChannelID: req.ChannelID,
		Name:      req.Name,
		FeedURL:   req.FeedURL,
		IsActive:  true,
	}
	if req.IsActive != nil {
		ch.IsActive = *req.IsActive
	}
	return ch
}

type updateChannelRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=200"`
	FeedURL  *string `json:"feed_url" validate:"omitempty,url"`
	IsActive *bool   `json:"is_active"`
}

type channelResponse struct {
	ID             int64      `json:"id"`
	ChannelID      string     `json:"channel_id"`
	Name           string     `json:"name"`
	FeedURL        string     `json:"feed_url"`
	IsActive       bool       `json:"is_active"`
	VideoCount     int64      `json:"video_count"`
	LastSyncStatus string     `json:"last_sync_status,omitempty"`
	LastSyncError  string     `json:"last_sync_error,omitempty"`
	LastSyncedAt   *time.Time `json:"last_synced_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func toChannelResponse(ch *entity.YoutubeChannel) channelResponse {
	return channelResponse{
		ID:             ch.ID,
		ChannelID:      ch.ChannelID,
		Name:           ch.Name,
		FeedURL:        ch.FeedURL,
		IsActive:       ch.IsActive,
		VideoCount:     ch.VideoCount,
		LastSyncStatus: ch.LastSyncStatus,
		LastSyncError:  ch.LastSyncError,
		LastSyncedAt:   ch.LastSyncedAt,
		CreatedAt:      ch.CreatedAt,
		UpdatedAt:      ch.UpdatedAt,
	}
}

type videoResponse struct {
	VideoID      string    `json:"video_id"`
	ChannelID    string    `json:"channel_id"`
	ChannelName  string    `json:"channel_name"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ThumbnailURL string    `json:"thumbnail_url"`
	VideoURL     string    `json:"video_url"`
	ViewCount    int64     `json:"view_count"`
	PublishedAt  time.Time `json:"published_at"`
}

func toVideoResponses(videos []entity.YoutubeVideo) []videoResponse {
	resp := make([]videoResponse, 0, len(videos))
	for _, v := range videos {
		resp = append(resp, videoResponse{
			VideoID:      v.VideoID,
			ChannelID:    v.ChannelID,
			ChannelName:  v.ChannelName,
			Title:        v.Title,
			Description:  v.Description,
			ThumbnailURL: v.ThumbnailURL,
			VideoURL:     v.VideoURL,
			ViewCount:    v.ViewCount,
			PublishedAt:  v.PublishedAt,
		})
	}
	return resp
}

type syncResultResponse struct {
	RunID         string `json:"run_id,omitempty"`
	Success       bool   `json:"success"`
	Skipped       bool   `json:"skipped,omitempty"`
	ChannelID     int64  `json:"channel_id"`
	ChannelName   string `json:"channel_name"`
	NewVideos     int    `json:"new_videos"`
	UpdatedVideos int    `json:"updated_videos"`
	TotalVideos   int64  `json:"total_videos"`
	Error         string `json:"error,omitempty"`
}

func toSyncResultResponse(res *entity.SyncResult) syncResultResponse {
	return syncResultResponse{
		RunID:         res.RunID,
		Success:       res.Success,
		Skipped:       res.Skipped,
		ChannelID:     res.ChannelID,
		ChannelName:   res.ChannelName,
		NewVideos:     res.NewVideos,
		UpdatedVideos: res.UpdatedVideos,
		TotalVideos:   res.TotalVideos,
		Error:         res.Error,
	}
}

type cleanupResponse struct {
	RunID    string    `json:"run_id"`
	Removed  int       `json:"removed"`
	Channels int       `json:"channels"`
	Cutoff   time.Time `json:"cutoff"`
}

type clickStatResponse struct {
	ID        int64     `json:"id"`
	LinkID    int64     `json:"link_id"`
	LinkName  string    `json:"link_name"`
	LinkSlug  string    `json:"link_slug"`
	Referrer  string    `json:"referrer,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
	ClickedAt time.Time `json:"clicked_at"`
}

func toClickStatResponses(stats []entity.ClickStat) []clickStatResponse {
	resp := make([]clickStatResponse, 0, len(stats))
	for _, s := range stats {
		resp = append(resp, clickStatResponse{
			ID:        s.ID,
			LinkID:    s.LinkID,
			LinkName:  s.LinkName,
			LinkSlug:  s.LinkSlug,
			Referrer:  s.Referrer,
			UserAgent: s.UserAgent,
			ClickedAt: s.ClickedAt,
		})
	}
	return resp
}

type dateCountResponse struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type referrerCountResponse struct {
	Referrer string `json:"referrer"`
	Count    int64  `json:"count"`
}

type summaryResponse struct {
	TotalLinks    int64          `json:"total_links"`
	ActiveLinks   int64          `json:"active_links"`
	TotalClicks   int64          `json:"total_clicks"`
	ClicksLast24h int64          `json:"clicks_last_24h"`
	TopLinks      []linkResponse `json:"top_links"`
}

// validationError represents an individual validation error.
type validationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// errorResponse represents a structured error response.
type errorResponse struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Errors  []validationError `json:"errors,omitempty"`
}

func newErrorResponse(message string) errorResponse {
	return errorResponse{
		Status:  statusError,
		Message: message,
	}
}

// Predefined error responses for common scenarios.
var (
	emptyRequestBodyResponse   = newErrorResponse("empty request body")
	invalidRequestBodyResponse = newErrorResponse("invalid request body")
	invalidIDResponse          = newErrorResponse("invalid id")
	invalidQueryResponse       = newErrorResponse("invalid query parameter")
	unauthorizedResponse       = newErrorResponse("unauthorized")
	forbiddenResponse          = newErrorResponse("forbidden")
	linkNotFoundResponse       = newErrorResponse("link not found")
	slugExistsResponse         = newErrorResponse("slug already exists")
	categoryNotFoundResponse   = newErrorResponse("category not found")
	categoryExistsResponse     = newErrorResponse("category already exists")
	channelNotFoundResponse    = newErrorResponse("channel not found")
	channelExistsResponse      = newErrorResponse("channel already tracked")
	feedSyncFailedResponse     = newErrorResponse("feed sync failed")
	serverErrorResponse        = newErrorResponse("server error occurred")

	invalidSlugResponse = errorResponse{
		Status:  statusError,
		Message: "validation error",
		Errors: []validationError{{
			Field:   "slug",
			Message: "cannot be derived from the name, provide one",
		}},
	}
)

// messageForTag returns a user-friendly message based on the validation tag.
func messageForTag(tag string) string {
	switch tag {
	case "required":
		return "this field is required"
	case "url":
		return "invalid url"
	case "slug":
		return "only lowercase letters, digits, dashes and underscores are allowed"
	case "max":
		return "value is too long"
	case "min":
		return "value is too short"
	case "gt":
		return "value must be positive"
	default:
		return "invalid value"
	}
}

// getValidationErrors processes validation errors and returns a list of validationError.
func getValidationErrors(err error) []validationError {
	var validationErrs []validationError

	var errs validator.ValidationErrors
	if errors.As(err, &errs) {
		for _, e := range errs {
			validationErrs = append(validationErrs, validationError{
				Field:   e.Field(),
				Message: messageForTag(e.Tag()),
			})
		}
	}

	return validationErrs
}

// validationErrorResponse constructs an errorResponse for validation errors.
func validationErrorResponse(err error) errorResponse {
	return errorResponse{
		Status:  statusError,
		Message: "validation error",
		Errors:  getValidationErrors(err),
	}
}
