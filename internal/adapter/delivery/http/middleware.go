package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/bitdoze/bitbuddies/internal/entity"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
)

// UserIDHeader carries the external id of the caller, set by the identity
// provider in front of the service.
const UserIDHeader = "X-User-ID"

type authUseCase interface {
	Authenticate(ctx context.Context, externalID string) (*entity.User, error)
	AuthorizeAdmin(ctx context.Context, externalID string) (*entity.User, error)
}

type userCtxKey struct{}

func withUser(ctx context.Context, user *entity.User) context.Context {
	return context.WithValue(ctx, userCtxKey{}, user)
}

func userFromContext(ctx context.Context) *entity.User {
	user, _ := ctx.Value(userCtxKey{}).(*entity.User)
	return user
}

type authorizeFunc func(ctx context.Context, externalID string) (*entity.User, error)

func authorize(fn authorizeFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := fn(r.Context(), r.Header.Get(UserIDHeader))
			if err != nil {
				renderError(w, r, err)
				return
			}

			httplog.LogEntrySetField(r.Context(), "user_id", slog.StringValue(user.ExternalID))
			next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user)))
		})
	}
}

// requireUser lets through any known user.
func requireUser(auth authUseCase) func(http.Handler) http.Handler {
	return authorize(auth.Authenticate)
}

// requireAdmin lets through admins only. The caller is looked up on every request.
func requireAdmin(auth authUseCase) func(http.Handler) http.Handler {
	return authorize(auth.AuthorizeAdmin)
}

// recoverer turns a panic into a JSON server error and records it on the request log entry.
func recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			httplog.LogEntrySetField(r.Context(), "panic", slog.AnyValue(rec))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, serverErrorResponse)
		}()

		next.ServeHTTP(w, r)
	})
}
