package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/AnshRaj112/campsite/internal/middleware"
	"github.com/AnshRaj112/campsite/internal/models"
	"github.com/AnshRaj112/campsite/internal/services"
	"github.com/AnshRaj112/campsite/internal/views"
	"github.com/AnshRaj112/campsite/pkg/utils"
	"github.com/rs/zerolog"
)

// Handler serves the HTML routes. All collaborators are injected.
type Handler struct {
	auth        *services.AuthService
	campgrounds *services.CampgroundService
	comments    *services.CommentService
	sessions    *middleware.SessionManager
	views       *views.Renderer
	logger      zerolog.Logger
}

type Config struct {
	Auth        *services.AuthService
	Campgrounds *services.CampgroundService
	Comments    *services.CommentService
	Sessions    *middleware.SessionManager
	Views       *views.Renderer
	Logger      zerolog.Logger
}

func New(cfg Config) *Handler {
	return &Handler{
		auth:        cfg.Auth,
		campgrounds: cfg.Campgrounds,
		comments:    cfg.Comments,
		sessions:    cfg.Sessions,
		views:       cfg.Views,
		logger:      cfg.Logger.With().Str("component", "handlers").Logger(),
	}
}

const msgSomethingWrong = "Something went wrong, please try again"

type userContextKey struct{}

func currentUser(r *http.Request) *models.User {
	u, _ := r.Context().Value(userContextKey{}).(*models.User)
	return u
}

// LoadUser resolves the session's user id into the current user. Must run
// after SessionManager.Middleware.
func (h *Handler) LoadUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := middleware.SessionFromContext(r.Context())
		if sess == nil || sess.UserID == "" {
			next.ServeHTTP(w, r)
			return
		}
		user, err := h.auth.CurrentUser(r.Context(), sess.UserID)
		if err != nil {
			h.logger.Error().Err(err).Msg("failed to load current user")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		if user == nil {
			sess.UserID = ""
			next.ServeHTTP(w, r)
			return
		}
		ctx := context.WithValue(r.Context(), userContextKey{}, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireLogin sends anonymous visitors to the login form.
func (h *Handler) RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if currentUser(r) == nil {
			h.redirectWithFlash(w, r, "/login", services.FlashError, "You need to be logged in to do that")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// render writes a page. Pending flashes are consumed and the session saved
// before the body is written.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, name string, page *views.Page) {
	page.CurrentUser = currentUser(r)
	if sess := middleware.SessionFromContext(r.Context()); sess != nil && len(sess.Flashes) > 0 {
		page.Flashes = sess.TakeFlashes()
		if err := h.sessions.Save(w, r, sess); err != nil {
			h.logger.Error().Err(err).Msg("failed to clear flashes")
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.views.Render(w, name, page); err != nil {
		h.logger.Error().Err(err).Str("page", name).Msg("failed to render page")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func (h *Handler) redirectWithFlash(w http.ResponseWriter, r *http.Request, target, kind, message string) {
	if sess := middleware.SessionFromContext(r.Context()); sess != nil {
		sess.AddFlash(kind, message)
		if err := h.sessions.Save(w, r, sess); err != nil {
			h.logger.Error().Err(err).Msg("failed to save flash")
		}
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// fail maps a service error to a flash notice and redirects to target.
// notFound is the notice used for ErrNotFound, which always returns to the
// listing since target may name the missing resource.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, target, notFound string) {
	if errors.Is(err, services.ErrNotFound) {
		target = "/campgrounds"
	}
	h.redirectWithFlash(w, r, target, services.FlashError, h.notice(r, err, notFound))
}

func (h *Handler) notice(r *http.Request, err error, notFound string) string {
	var verr *utils.ValidationError
	var hostErr *services.ImageHostError
	switch {
	case errors.As(err, &verr):
		return verr.Message
	case errors.Is(err, services.ErrNotFound):
		return notFound
	case errors.Is(err, services.ErrForbidden):
		return "You don't have permission to do that"
	case errors.Is(err, services.ErrInvalidAddress):
		return "Invalid address"
	case errors.Is(err, services.ErrInvalidImageType):
		return "Only image files are allowed!"
	case errors.Is(err, services.ErrMissingImage):
		return "Please choose an image to upload"
	case errors.Is(err, services.ErrUserAlreadyExists):
		return "A user with the given username or email is already registered"
	case errors.Is(err, services.ErrInvalidCredentials):
		return "Invalid username or password"
	case errors.Is(err, services.ErrResetTokenInvalid):
		return "Password reset token is invalid or has expired."
	case errors.Is(err, services.ErrPasswordMismatch):
		return "Passwords do not match."
	case errors.As(err, &hostErr):
		return hostErr.Error()
	}
	h.logger.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
	return msgSomethingWrong
}

// back returns the same-site Referer, or fallback.
func back(r *http.Request, fallback string) string {
	ref := r.Referer()
	if ref == "" {
		return fallback
	}
	u, err := url.Parse(ref)
	if err != nil || (u.Host != "" && u.Host != r.Host) || u.Path == "" || u.Path[0] != '/' {
		return fallback
	}
	if u.RawQuery != "" {
		return u.Path + "?" + u.RawQuery
	}
	return u.Path
}
