package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AnshRaj112/campsite/internal/models"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CampgroundService handles listing, creation and ownership-gated changes of
// campgrounds. Every mutation is geocode, then image host, then store.
type CampgroundService struct {
	campgrounds CampgroundStore
	comments    CommentStore
	geocoder    Geocoder
	images      ImageHost
	now         func() time.Time
	logger      zerolog.Logger
}

type CampgroundServiceConfig struct {
	Campgrounds CampgroundStore
	Comments    CommentStore
	Geocoder    Geocoder
	Images      ImageHost
	Logger      zerolog.Logger
}

func NewCampgroundService(cfg CampgroundServiceConfig) *CampgroundService {
	return &CampgroundService{
		campgrounds: cfg.Campgrounds,
		comments:    cfg.Comments,
		geocoder:    cfg.Geocoder,
		images:      cfg.Images,
		now:         time.Now,
		logger:      cfg.Logger.With().Str("service", "campground").Logger(),
	}
}

// CampgroundInput holds the user-editable fields of a campground.
type CampgroundInput struct {
	Name        string
	Price       float64
	Description string
	Location    string
}

// List returns every campground, or those whose name contains term
// case-insensitively when term is non-empty.
func (s *CampgroundService) List(ctx context.Context, term string) ([]models.Campground, error) {
	if term == "" {
		return s.campgrounds.List(ctx)
	}
	return s.campgrounds.Search(ctx, term)
}

// ListByAuthor returns the campgrounds created by a user.
func (s *CampgroundService) ListByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]models.Campground, error) {
	return s.campgrounds.ListByAuthor(ctx, authorID)
}

// Show loads a campground with its comments in insertion order.
func (s *CampgroundService) Show(ctx context.Context, id string) (*models.Campground, []models.Comment, error) {
	c, err := s.get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	comments, err := s.comments.ListByIDs(ctx, c.Comments)
	if err != nil {
		return nil, nil, err
	}
	return c, comments, nil
}

// GetForEdit loads a campground the actor is allowed to modify.
func (s *CampgroundService) GetForEdit(ctx context.Context, actor *models.User, id string) (*models.Campground, error) {
	c, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !IsOwnerOrAdmin(actor, c.Author.ID) {
		return nil, ErrForbidden
	}
	return c, nil
}

// Create validates the image type, geocodes the location, uploads the image
// and only then persists the campground owned by author.
func (s *CampgroundService) Create(ctx context.Context, author *models.User, in CampgroundInput, img *ImageUpload) (*models.Campground, error) {
	if img == nil {
		return nil, ErrMissingImage
	}
	if err := ValidateImageFilename(img.Filename); err != nil {
		return nil, err
	}

	geo, err := s.geocode(ctx, in.Location)
	if err != nil {
		return nil, err
	}

	hosted, err := s.images.Upload(ctx, img.Body, img.Filename)
	if err != nil {
		s.logger.Error().Err(err).Str("filename", img.Filename).Msg("image upload failed")
		return nil, err
	}

	now := s.now()
	c := &models.Campground{
		ID:          primitive.NewObjectID(),
		CreatedAt:   now,
		UpdatedAt:   now,
		Name:        strings.TrimSpace(in.Name),
		Price:       in.Price,
		Description: in.Description,
		Image:       hosted.URL,
		ImageID:     hosted.Handle,
		Location:    geo.FormattedAddress,
		Lat:         geo.Lat,
		Lng:         geo.Lng,
		Author:      author.AuthorRef(),
		Comments:    []primitive.ObjectID{},
	}

	if err := s.campgrounds.Create(ctx, c); err != nil {
		s.logger.Error().Err(err).Str("image_id", hosted.Handle).Msg("failed to persist campground")
		// Do not leave an orphaned image behind when the record is not stored
		if derr := s.images.Destroy(ctx, hosted.Handle); derr != nil {
			s.logger.Warn().Err(derr).Str("image_id", hosted.Handle).Msg("failed to clean up uploaded image")
		}
		return nil, err
	}

	s.logger.Info().
		Str("campground_id", c.ID.Hex()).
		Str("author", c.Author.Username).
		Msg("campground created")

	return c, nil
}

// Update re-geocodes the location, replaces the image when img is given, and
// overwrites name, price and description.
//
// The old image is destroyed before the new one is uploaded. If the upload
// then fails the update aborts with the record still pointing at the
// destroyed image.
func (s *CampgroundService) Update(ctx context.Context, actor *models.User, id string, in CampgroundInput, img *ImageUpload) (*models.Campground, error) {
	c, err := s.GetForEdit(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if img != nil {
		if err := ValidateImageFilename(img.Filename); err != nil {
			return nil, err
		}
	}

	geo, err := s.geocode(ctx, in.Location)
	if err != nil {
		return nil, err
	}

	if img != nil {
		if err := s.images.Destroy(ctx, c.ImageID); err != nil {
			s.logger.Error().Err(err).Str("campground_id", c.ID.Hex()).Msg("failed to destroy previous image")
			return nil, err
		}
		hosted, err := s.images.Upload(ctx, img.Body, img.Filename)
		if err != nil {
			s.logger.Warn().Err(err).
				Str("campground_id", c.ID.Hex()).
				Str("destroyed_image_id", c.ImageID).
				Msg("replacement upload failed after previous image was destroyed")
			return nil, err
		}
		c.Image = hosted.URL
		c.ImageID = hosted.Handle
	}

	c.Name = strings.TrimSpace(in.Name)
	c.Price = in.Price
	c.Description = in.Description
	c.Location = geo.FormattedAddress
	c.Lat = geo.Lat
	c.Lng = geo.Lng
	c.UpdatedAt = s.now()

	if err := s.campgrounds.Update(ctx, c); err != nil {
		s.logger.Error().Err(err).Str("campground_id", c.ID.Hex()).Msg("failed to update campground")
		return nil, err
	}

	s.logger.Info().Str("campground_id", c.ID.Hex()).Msg("campground updated")
	return c, nil
}

// Delete destroys the hosted image, then the record, then its comments. If
// the image cannot be destroyed the record is kept.
func (s *CampgroundService) Delete(ctx context.Context, actor *models.User, id string) (*models.Campground, error) {
	c, err := s.GetForEdit(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if err := s.images.Destroy(ctx, c.ImageID); err != nil {
		s.logger.Error().Err(err).Str("campground_id", c.ID.Hex()).Msg("failed to destroy image, keeping campground")
		return nil, err
	}

	if err := s.campgrounds.Delete(ctx, c.ID); err != nil {
		s.logger.Warn().Err(err).
			Str("campground_id", c.ID.Hex()).
			Str("destroyed_image_id", c.ImageID).
			Msg("image destroyed but campground record could not be deleted")
		return nil, err
	}

	n, err := s.comments.DeleteByCampground(ctx, c.ID)
	if err != nil {
		s.logger.Warn().Err(err).Str("campground_id", c.ID.Hex()).Msg("failed to delete comments of removed campground")
	}

	s.logger.Info().Str("campground_id", c.ID.Hex()).Int64("comments_deleted", n).Msg("campground deleted")
	return c, nil
}

func (s *CampgroundService) get(ctx context.Context, id string) (*models.Campground, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	return s.campgrounds.Get(ctx, oid)
}

func (s *CampgroundService) geocode(ctx context.Context, location string) (*GeocodeResult, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, ErrInvalidAddress
	}
	geo, err := s.geocoder.Geocode(ctx, location)
	if err != nil {
		if !errors.Is(err, ErrInvalidAddress) {
			s.logger.Warn().Err(err).Msg("geocoding failed")
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	return geo, nil
}
