package routes

import (
	"net/http"

	"github.com/AnshRaj112/campsite/internal/handlers"
	"github.com/AnshRaj112/campsite/internal/middleware"
	"github.com/AnshRaj112/campsite/internal/views"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

type Options struct {
	Handler        *handlers.Handler
	Sessions       *middleware.SessionManager
	Metrics        *middleware.Metrics
	LoginLimiter   *middleware.LoginLimiter
	AllowedOrigins []string
	Production     bool
	Logger         zerolog.Logger
}

// NewRouter builds the full route tree with its middleware stack.
func NewRouter(o Options) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(o.Logger))
	r.Use(chimw.Recoverer)
	if o.Metrics != nil {
		r.Use(o.Metrics.Middleware)
	}
	r.Use(middleware.SecurityHeaders)
	if o.Production {
		r.Use(middleware.StrictTransportSecurity)
	}
	r.Use(middleware.CORS(o.AllowedOrigins))
	r.Use(middleware.MethodOverride)
	if o.LoginLimiter != nil {
		r.Use(o.LoginLimiter.Middleware)
	}

	// Health check and assets need no session
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("OK"))
	})
	if o.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", o.Metrics.Handler())
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(views.Static()))))

	r.Group(func(r chi.Router) {
		r.Use(o.Sessions.Middleware)
		r.Use(o.Handler.LoadUser)
		SetupRoutes(r, o.Handler)
	})

	return r
}

func SetupRoutes(r chi.Router, h *handlers.Handler) {
	r.Get("/", h.Landing)

	// Auth routes
	r.Get("/register", h.RegisterForm)
	r.Post("/register", h.Register)
	r.Get("/login", h.LoginForm)
	r.Post("/login", h.Login)
	r.Get("/logout", h.Logout)
	r.Get("/forgot", h.ForgotForm)
	r.Post("/forgot", h.Forgot)
	r.Get("/reset/{token}", h.ResetForm)
	r.Post("/reset/{token}", h.Reset)
	r.Get("/users/{id}", h.ShowUser)

	r.Route("/campgrounds", func(r chi.Router) {
		r.Get("/", h.ListCampgrounds)
		r.Get("/{id}", h.ShowCampground)

		r.Group(func(r chi.Router) {
			r.Use(h.RequireLogin)
			r.Post("/", h.CreateCampground)
			r.Get("/new", h.NewCampground)
			r.Get("/{id}/edit", h.EditCampground)
			r.Put("/{id}", h.UpdateCampground)
			r.Delete("/{id}", h.DeleteCampground)

			// Comment routes, nested under their campground
			r.Get("/{id}/comments/new", h.NewComment)
			r.Post("/{id}/comments", h.CreateComment)
			r.Get("/{id}/comments/{commentID}/edit", h.EditComment)
			r.Put("/{id}/comments/{commentID}", h.UpdateComment)
			r.Delete("/{id}/comments/{commentID}", h.DeleteComment)
		})
	})
}
