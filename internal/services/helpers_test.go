package services_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/AnshRaj112/campsite/internal/models"
	"github.com/AnshRaj112/campsite/internal/services"
	"github.com/AnshRaj112/campsite/internal/services/servicestest"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fixture struct {
	campgrounds *servicestest.CampgroundStore
	comments    *servicestest.CommentStore
	geocoder    *servicestest.Geocoder
	images      *servicestest.ImageHost

	campgroundSvc *services.CampgroundService
	commentSvc    *services.CommentService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		campgrounds: servicestest.NewCampgroundStore(),
		comments:    servicestest.NewCommentStore(),
		geocoder:    servicestest.NewGeocoder(),
		images:      servicestest.NewImageHost(),
	}
	f.campgroundSvc = services.NewCampgroundService(services.CampgroundServiceConfig{
		Campgrounds: f.campgrounds,
		Comments:    f.comments,
		Geocoder:    f.geocoder,
		Images:      f.images,
		Logger:      zerolog.Nop(),
	})
	f.commentSvc = services.NewCommentService(f.campgrounds, f.comments, zerolog.Nop())
	return f
}

func newUser(name string) *models.User {
	return &models.User{
		ID:        primitive.NewObjectID(),
		CreatedAt: time.Now(),
		Username:  name,
		Email:     name + "@example.com",
	}
}

func jpg(name string) *services.ImageUpload {
	return &services.ImageUpload{Filename: name, Body: strings.NewReader("\xff\xd8\xff")}
}

func (f *fixture) create(t *testing.T, author *models.User, name string) *models.Campground {
	t.Helper()
	c, err := f.campgroundSvc.Create(context.Background(), author, services.CampgroundInput{
		Name:        name,
		Price:       25,
		Description: "quiet",
		Location:    "Boulder, CO",
	}, jpg("tent.jpg"))
	require.NoError(t, err)
	return c
}
