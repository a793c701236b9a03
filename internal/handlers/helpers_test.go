package handlers_test

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/AnshRaj112/campsite/internal/handlers"
	"github.com/AnshRaj112/campsite/internal/middleware"
	"github.com/AnshRaj112/campsite/internal/routes"
	"github.com/AnshRaj112/campsite/internal/services"
	"github.com/AnshRaj112/campsite/internal/services/servicestest"
	"github.com/AnshRaj112/campsite/internal/views"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const testAdminCode = "let-me-in"

type app struct {
	srv *httptest.Server

	users       *servicestest.UserStore
	campgrounds *servicestest.CampgroundStore
	comments    *servicestest.CommentStore
	geocoder    *servicestest.Geocoder
	images      *servicestest.ImageHost
	sessions    *servicestest.SessionStore
	notifier    *servicestest.ResetNotifier
}

func newApp(t *testing.T) *app {
	t.Helper()
	a := &app{
		users:       servicestest.NewUserStore(),
		campgrounds: servicestest.NewCampgroundStore(),
		comments:    servicestest.NewCommentStore(),
		geocoder:    servicestest.NewGeocoder(),
		images:      servicestest.NewImageHost(),
		sessions:    servicestest.NewSessionStore(),
		notifier:    &servicestest.ResetNotifier{},
	}
	logger := zerolog.Nop()

	renderer, err := views.NewRenderer()
	require.NoError(t, err)

	sessions := middleware.NewSessionManager(a.sessions, "test-secret", false, logger)
	h := handlers.New(handlers.Config{
		Auth: services.NewAuthService(services.AuthServiceConfig{
			Users:     a.users,
			Notifier:  a.notifier,
			AdminCode: testAdminCode,
			BaseURL:   "http://campsite.test",
			Logger:    logger,
		}),
		Campgrounds: services.NewCampgroundService(services.CampgroundServiceConfig{
			Campgrounds: a.campgrounds,
			Comments:    a.comments,
			Geocoder:    a.geocoder,
			Images:      a.images,
			Logger:      logger,
		}),
		Comments: services.NewCommentService(a.campgrounds, a.comments, logger),
		Sessions: sessions,
		Views:    renderer,
		Logger:   logger,
	})

	a.srv = httptest.NewServer(routes.NewRouter(routes.Options{
		Handler:        h,
		Sessions:       sessions,
		Metrics:        middleware.NewMetrics(),
		AllowedOrigins: []string{"http://campsite.test"},
		Logger:         logger,
	}))
	t.Cleanup(a.srv.Close)
	return a
}

// browser keeps cookies between requests and does not follow redirects.
type browser struct {
	t      *testing.T
	base   string
	client *http.Client
}

func (a *app) browser(t *testing.T) *browser {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &browser{
		t:    t,
		base: a.srv.URL,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

type page struct {
	Status   int
	Location string
	Body     string
}

func (b *browser) do(req *http.Request) page {
	b.t.Helper()
	resp, err := b.client.Do(req)
	require.NoError(b.t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(b.t, err)
	return page{Status: resp.StatusCode, Location: resp.Header.Get("Location"), Body: string(body)}
}

func (b *browser) get(path string) page {
	b.t.Helper()
	req, err := http.NewRequest(http.MethodGet, b.base+path, nil)
	require.NoError(b.t, err)
	return b.do(req)
}

func (b *browser) post(path string, form url.Values) page {
	b.t.Helper()
	req, err := http.NewRequest(http.MethodPost, b.base+path, strings.NewReader(form.Encode()))
	require.NoError(b.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

// upload posts a multipart form. An empty filename sends no file part.
func (b *browser) upload(path string, fields map[string]string, filename string) page {
	b.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(b.t, mw.WriteField(k, v))
	}
	if filename != "" {
		fw, err := mw.CreateFormFile("image", filename)
		require.NoError(b.t, err)
		_, err = fw.Write([]byte("\xff\xd8\xff\xe0"))
		require.NoError(b.t, err)
	}
	require.NoError(b.t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, b.base+path, &buf)
	require.NoError(b.t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return b.do(req)
}

// follow requests the redirect target of p, which renders pending flashes.
func (b *browser) follow(p page) page {
	b.t.Helper()
	require.Equal(b.t, http.StatusSeeOther, p.Status, "expected a redirect, body: %s", p.Body)
	return b.get(p.Location)
}

func (b *browser) register(username string) {
	b.t.Helper()
	p := b.post("/register", url.Values{
		"username": {username},
		"email":    {username + "@example.com"},
		"password": {"password1"},
	})
	require.Equal(b.t, http.StatusSeeOther, p.Status)
	require.Equal(b.t, "/campgrounds", p.Location)
}

func (b *browser) createPineRidge() page {
	b.t.Helper()
	return b.upload("/campgrounds", map[string]string{
		"name":        "Pine Ridge",
		"price":       "25",
		"description": "quiet",
		"location":    "Boulder, CO",
	}, "tent.jpg")
}
