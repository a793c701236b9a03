package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/AnshRaj112/campsite/internal/services"
	"github.com/AnshRaj112/campsite/pkg/utils"
	"github.com/rs/zerolog"
)

const SessionCookieName = "campsite.sid"

type sessionContextKey struct{}

// SessionFromContext returns the session loaded by SessionManager.Middleware.
func SessionFromContext(ctx context.Context) *services.Session {
	sess, _ := ctx.Value(sessionContextKey{}).(*services.Session)
	return sess
}

// SessionManager ties the signed session cookie to server-side session state.
// Sessions are created lazily: a visitor gets a cookie only once something
// is written to their session.
type SessionManager struct {
	store  services.SessionStore
	secret string
	secure bool
	logger zerolog.Logger
}

func NewSessionManager(store services.SessionStore, secret string, secure bool, logger zerolog.Logger) *SessionManager {
	return &SessionManager{
		store:  store,
		secret: secret,
		secure: secure,
		logger: logger.With().Str("component", "sessions").Logger(),
	}
}

// Middleware loads the session named by the cookie, or starts an unsaved one.
func (m *SessionManager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := m.load(r)
		if err != nil {
			m.logger.Error().Err(err).Msg("failed to start session")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		ctx := context.WithValue(r.Context(), sessionContextKey{}, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *SessionManager) load(r *http.Request) (*services.Session, error) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		if id, ok := utils.Unsign(cookie.Value, m.secret); ok {
			sess, err := m.store.Load(r.Context(), id)
			if err == nil {
				return sess, nil
			}
			if !errors.Is(err, services.ErrSessionNotFound) {
				m.logger.Warn().Err(err).Msg("failed to load session, starting a new one")
			}
		}
	}
	return services.NewSession()
}

// Save persists the session and sets the cookie the first time it is saved.
// Must be called before the response is written.
func (m *SessionManager) Save(w http.ResponseWriter, r *http.Request, sess *services.Session) error {
	isNew := sess.IsNew
	if err := m.store.Save(r.Context(), sess); err != nil {
		return err
	}
	if isNew {
		m.setCookie(w, sess.ID)
	}
	return nil
}

// Renew moves the session state to a fresh id. Called on login and logout so
// a pre-authentication session id can never become an authenticated one.
func (m *SessionManager) Renew(w http.ResponseWriter, r *http.Request, sess *services.Session) error {
	oldID, wasSaved := sess.ID, !sess.IsNew

	fresh, err := services.NewSession()
	if err != nil {
		return err
	}
	sess.ID = fresh.ID
	sess.IsNew = true

	if err := m.Save(w, r, sess); err != nil {
		return err
	}
	if wasSaved {
		if err := m.store.Destroy(r.Context(), oldID); err != nil {
			m.logger.Warn().Err(err).Msg("failed to destroy previous session")
		}
	}
	return nil
}

func (m *SessionManager) setCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    utils.Sign(id, m.secret),
		Path:     "/",
		MaxAge:   int(services.SessionDuration.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
