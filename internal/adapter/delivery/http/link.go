package http

import (
	"context"
	"net/http"

	"github.com/bitdoze/bitbuddies/internal/entity"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type linkUseCase interface {
	CreateLink(ctx context.Context, link *entity.AffiliateLink) (*entity.AffiliateLink, error)
	GetLink(ctx context.Context, id int64) (*entity.AffiliateLink, error)
	ListLinks(ctx context.Context) ([]entity.AffiliateLink, error)
	UpdateLink(ctx context.Context, id int64, upd entity.LinkUpdate) (*entity.AffiliateLink, error)
	DeleteLink(ctx context.Context, id int64) error
	TrackClick(ctx context.Context, slug, referrer, userAgent string) (string, bool, error)

	CreateCategory(ctx context.Context, name, slug string) (*entity.LinkCategory, error)
	ListCategories(ctx context.Context) ([]entity.LinkCategory, error)
	DeleteCategory(ctx context.Context, id int64) error
}

type linkHandler struct {
	useCase  linkUseCase
	validate *validator.Validate
}

func newLinkHandler(useCase linkUseCase, validate *validator.Validate) *linkHandler {
	return &linkHandler{
		useCase:  useCase,
		validate: validate,
	}
}

// redirect records the click and sends the visitor to the destination.
func (h *linkHandler) redirect(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	url, ok, err := h.useCase.TrackClick(r.Context(), slug, r.Referer(), r.UserAgent())
	if err != nil {
		renderError(w, r, err)
		return
	}

	if !ok {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, linkNotFoundResponse)
		return
	}

	http.Redirect(w, r, url, http.StatusFound)
}

func (h *linkHandler) createLink(w http.ResponseWriter, r *http.Request) {
	var req createLinkRequest

	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	var createdBy string
	if user := userFromContext(r.Context()); user != nil {
		createdBy = user.ExternalID
	}

	link, err := h.useCase.CreateLink(r.Context(), req.toEntity(createdBy))
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, toLinkResponse(link))
}

func (h *linkHandler) listLinks(w http.ResponseWriter, r *http.Request) {
	links, err := h.useCase.ListLinks(r.Context())
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, toLinkResponses(links))
}

func (h *linkHandler) getLink(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	link, err := h.useCase.GetLink(r.Context(), id)
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, toLinkResponse(link))
}

func (h *linkHandler) updateLink(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req updateLinkRequest

	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	link, err := h.useCase.UpdateLink(r.Context(), id, req.toEntity())
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, toLinkResponse(link))
}

func (h *linkHandler) deleteLink(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.useCase.DeleteLink(r.Context(), id); err != nil {
		renderError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *linkHandler) createCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest

	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	category, err := h.useCase.CreateCategory(r.Context(), req.Name, req.Slug)
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, toCategoryResponse(category))
}

func (h *linkHandler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.useCase.ListCategories(r.Context())
	if err != nil {
		renderError(w, r, err)
		return
	}

	resp := make([]categoryResponse, 0, len(categories))
	for i := range categories {
		resp = append(resp, toCategoryResponse(&categories[i]))
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, resp)
}

func (h *linkHandler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.useCase.DeleteCategory(r.Context(), id); err != nil {
		renderError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
