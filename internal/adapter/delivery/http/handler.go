package http

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/bitdoze/bitbuddies/internal/entity"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:[-_][a-z0-9]+)*$`)

func handlePing(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "pong")
}

// newValidator reports field names by their json tag and knows the "slug" tag.
func newValidator() *validator.Validate {
	validate := validator.New()

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})

	return validate
}

// decodeAndValidate reads a JSON body into req. It writes the error response
// itself and reports whether the handler may continue.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, validate *validator.Validate, req any) bool {
	if err := render.DecodeJSON(r.Body, req); err != nil {
		if errors.Is(err, io.EOF) {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, emptyRequestBodyResponse)
			return false
		}

		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, invalidRequestBodyResponse)
		return false
	}

	if err := validate.Struct(req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, validationErrorResponse(err))
		return false
	}

	return true
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, invalidIDResponse)
		return 0, false
	}

	return id, true
}

// renderError maps domain errors to their status and body. Unknown errors are
// logged on the request entry and reported as server errors.
func renderError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := http.StatusInternalServerError, serverErrorResponse

	switch {
	case errors.Is(err, entity.ErrUnauthorized):
		status, resp = http.StatusUnauthorized, unauthorizedResponse
	case errors.Is(err, entity.ErrForbidden):
		status, resp = http.StatusForbidden, forbiddenResponse
	case errors.Is(err, entity.ErrLinkNotFound):
		status, resp = http.StatusNotFound, linkNotFoundResponse
	case errors.Is(err, entity.ErrInvalidSlug):
		status, resp = http.StatusBadRequest, invalidSlugResponse
	case errors.Is(err, entity.ErrSlugExists):
		status, resp = http.StatusConflict, slugExistsResponse
	case errors.Is(err, entity.ErrCategoryNotFound):
		status, resp = http.StatusNotFound, categoryNotFoundResponse
	case errors.Is(err, entity.ErrCategoryExists):
		status, resp = http.StatusConflict, categoryExistsResponse
	case errors.Is(err, entity.ErrChannelNotFound):
		status, resp = http.StatusNotFound, channelNotFoundResponse
	case errors.Is(err, entity.ErrChannelExists):
		status, resp = http.StatusConflict, channelExistsResponse
	default:
		httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))
	}

	render.Status(r, status)
	render.JSON(w, r, resp)
}
