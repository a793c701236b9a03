package handlers

import (
	"errors"
	"net/http"

	"github.com/AnshRaj112/campsite/internal/middleware"
	"github.com/AnshRaj112/campsite/internal/models"
	"github.com/AnshRaj112/campsite/internal/services"
	"github.com/AnshRaj112/campsite/internal/views"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) Landing(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "landing", &views.Page{Active: "landing"})
}

func (h *Handler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "users/register", &views.Page{Title: "Sign up", Active: "register"})
}

// Register creates the account and logs the new user in.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var form registerForm
	if err := decodeForm(r, &form); err != nil {
		h.fail(w, r, err, "/register", "")
		return
	}

	user, err := h.auth.Register(r.Context(), services.RegisterInput{
		Username:  form.Username,
		Email:     form.Email,
		Password:  form.Password,
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Avatar:    form.Avatar,
		AdminCode: form.AdminCode,
	})
	if err != nil {
		h.fail(w, r, err, "/register", "")
		return
	}

	h.logIn(w, r, user, "Successfully signed up! Nice to meet you "+user.Username)
}

func (h *Handler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "users/login", &views.Page{Title: "Login", Active: "login"})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var form loginForm
	if err := decodeForm(r, &form); err != nil {
		h.fail(w, r, err, "/login", "")
		return
	}

	user, err := h.auth.Login(r.Context(), form.Username, form.Password)
	if err != nil {
		h.fail(w, r, err, "/login", "")
		return
	}

	h.logIn(w, r, user, "Welcome back, "+user.Username)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())
	if sess != nil && sess.UserID != "" {
		sess.UserID = ""
		if err := h.sessions.Renew(w, r, sess); err != nil {
			h.logger.Error().Err(err).Msg("failed to renew session on logout")
		}
	}
	h.redirectWithFlash(w, r, "/campgrounds", services.FlashSuccess, "Logged you out")
}

// logIn binds user to a fresh session id and redirects to the listing.
func (h *Handler) logIn(w http.ResponseWriter, r *http.Request, user *models.User, greeting string) {
	sess := middleware.SessionFromContext(r.Context())
	sess.UserID = user.ID.Hex()
	sess.AddFlash(services.FlashSuccess, greeting)
	if err := h.sessions.Renew(w, r, sess); err != nil {
		h.logger.Error().Err(err).Str("user_id", user.ID.Hex()).Msg("failed to start session")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/campgrounds", http.StatusSeeOther)
}

func (h *Handler) ForgotForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "users/forgot", &views.Page{Title: "Forgot password"})
}

// Forgot answers the same way whether or not the email is registered.
func (h *Handler) Forgot(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.fail(w, r, err, "/forgot", "")
		return
	}
	email := r.PostForm.Get("email")
	if email == "" {
		h.redirectWithFlash(w, r, "/forgot", services.FlashError, "Email is required")
		return
	}
	if err := h.auth.RequestPasswordReset(r.Context(), email); err != nil {
		h.fail(w, r, err, "/forgot", "")
		return
	}
	h.redirectWithFlash(w, r, "/forgot", services.FlashInfo,
		"If an account exists for "+email+", an email has been sent with further instructions.")
}

func (h *Handler) ResetForm(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if _, err := h.auth.CheckResetToken(r.Context(), token); err != nil {
		h.fail(w, r, err, "/forgot", "")
		return
	}
	h.render(w, r, "users/reset", &views.Page{Title: "Reset password", ResetToken: token})
}

func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	var form resetForm
	if err := decodeForm(r, &form); err != nil {
		h.fail(w, r, err, "/reset/"+token, "")
		return
	}

	user, err := h.auth.ResetPassword(r.Context(), token, form.Password, form.Confirm)
	switch {
	case err == nil:
	case errors.Is(err, services.ErrResetTokenInvalid):
		h.fail(w, r, err, "/forgot", "")
		return
	default:
		h.fail(w, r, err, "/reset/"+token, "")
		return
	}

	h.logIn(w, r, user, "Success! Your password has been changed.")
}

// ShowUser renders a public profile with the campgrounds the user created.
func (h *Handler) ShowUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err, back(r, "/campgrounds"), "User not found")
		return
	}
	campgrounds, err := h.campgrounds.ListByAuthor(r.Context(), user.ID)
	if err != nil {
		h.fail(w, r, err, "/campgrounds", "")
		return
	}
	h.render(w, r, "users/show", &views.Page{Title: user.Username, User: user, Campgrounds: campgrounds})
}
