// Package views renders the server-side HTML pages.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/AnshRaj112/campsite/internal/models"
	"github.com/AnshRaj112/campsite/internal/services"
	"github.com/dustin/go-humanize"
)

//go:embed templates
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Static returns the stylesheet and image assets served under /static.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Page is the data every template receives.
type Page struct {
	Title       string
	CurrentUser *models.User
	Flashes     map[string][]string
	Active      string // Highlighted nav entry

	Search      string
	Campgrounds []models.Campground
	Campground  *models.Campground
	Comments    []models.Comment
	Comment     *models.Comment
	User        *models.User // Profile being viewed
	ResetToken  string
}

var funcs = template.FuncMap{
	"ago": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return humanize.Time(t)
	},
	"price": func(p float64) string {
		return fmt.Sprintf("$%.2f", p)
	},
	"canModify": func(user *models.User, author models.Author) bool {
		return services.IsOwnerOrAdmin(user, author.ID)
	},
	"excerpt": func(s string, n int) string {
		r := []rune(s)
		if len(r) <= n {
			return s
		}
		return strings.TrimSpace(string(r[:n])) + "..."
	},
}

// Renderer holds one parsed template set per page, each combined with the
// shared layout.
type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	layout, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	r := &Renderer{pages: make(map[string]*template.Template)}
	err = fs.WalkDir(templateFS, "templates", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || p == "templates/layout.html" || path.Ext(p) != ".html" {
			return nil
		}
		t, err := template.Must(layout.Clone()).ParseFS(templateFS, p)
		if err != nil {
			return fmt.Errorf("parse %s: %w", p, err)
		}
		name := strings.TrimSuffix(strings.TrimPrefix(p, "templates/"), ".html")
		r.pages[name] = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Render executes the named page ("campgrounds/show") into w. The page is
// rendered into a buffer first so a template error never leaves a half
// written response.
func (r *Renderer) Render(w io.Writer, name string, data *Page) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("views: unknown page %q", name)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}
