package views

import (
	"bytes"
	"io/fs"
	"testing"
	"time"

	"github.com/AnshRaj112/campsite/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func samplePage() *Page {
	alice := &models.User{ID: primitive.NewObjectID(), Username: "alice", Avatar: models.DefaultAvatar, CreatedAt: time.Now()}
	bob := &models.User{ID: primitive.NewObjectID(), Username: "bob"}
	cg := &models.Campground{
		ID:          primitive.NewObjectID(),
		CreatedAt:   time.Now().Add(-2 * time.Hour),
		Name:        "Pine Ridge",
		Price:       25,
		Description: "quiet <script>",
		Image:       "https://img.test/pine.jpg",
		Location:    "Boulder, CO, USA",
		Author:      alice.AuthorRef(),
	}
	comment := models.Comment{ID: primitive.NewObjectID(), CampgroundID: cg.ID, Author: bob.AuthorRef(), Text: "Lovely"}
	return &Page{
		CurrentUser: alice,
		Flashes:     map[string][]string{"success": {"Campground Pine Ridge created successfully"}},
		Campgrounds: []models.Campground{*cg},
		Campground:  cg,
		Comments:    []models.Comment{comment},
		Comment:     &comment,
		User:        alice,
		ResetToken:  "token",
	}
}

func TestRenderer_AllPages(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	for _, name := range []string{
		"landing",
		"campgrounds/index", "campgrounds/new", "campgrounds/show", "campgrounds/edit",
		"comments/new", "comments/edit",
		"users/register", "users/login", "users/forgot", "users/reset", "users/show",
	} {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, r.Render(&buf, name, samplePage()))
			assert.Contains(t, buf.String(), "Campground Pine Ridge created successfully")
		})
	}
}

func TestRenderer_Show(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	page := samplePage()
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, "campgrounds/show", page))
	html := buf.String()

	assert.Contains(t, html, "Boulder, CO, USA")
	assert.Contains(t, html, "$25.00/night")
	assert.Contains(t, html, "2 hours ago")
	assert.Contains(t, html, "quiet &lt;script&gt;")
	// alice owns the campground but not bob's comment
	assert.Contains(t, html, "/campgrounds/"+page.Campground.ID.Hex()+"?_method=DELETE")
	assert.NotContains(t, html, "/comments/"+page.Comment.ID.Hex()+"/edit")
}

func TestRenderer_AnonymousShowHidesControls(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	page := samplePage()
	page.CurrentUser = nil
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, "campgrounds/show", page))

	assert.NotContains(t, buf.String(), "_method=DELETE")
	assert.Contains(t, buf.String(), `href="/login"`)
}

func TestRenderer_UnknownPage(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)
	assert.Error(t, r.Render(&bytes.Buffer{}, "nope", &Page{}))
}

func TestStatic(t *testing.T) {
	_, err := fs.Stat(Static(), "images/avatar.svg")
	assert.NoError(t, err)
	_, err = fs.Stat(Static(), "css/app.css")
	assert.NoError(t, err)
}
