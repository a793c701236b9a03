package services

import (
	"context"
	"time"

	"github.com/AnshRaj112/campsite/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserStore persists user accounts. Username and email are unique.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// GetByResetToken returns the user holding token if it expires after now.
	GetByResetToken(ctx context.Context, token string, now time.Time) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
}

// CampgroundStore persists campground listings.
type CampgroundStore interface {
	List(ctx context.Context) ([]models.Campground, error)
	// Search matches name case-insensitively against a literal substring.
	Search(ctx context.Context, term string) ([]models.Campground, error)
	ListByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]models.Campground, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.Campground, error)
	Create(ctx context.Context, campground *models.Campground) error
	Update(ctx context.Context, campground *models.Campground) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	AddComment(ctx context.Context, id, commentID primitive.ObjectID) error
	RemoveComment(ctx context.Context, id, commentID primitive.ObjectID) error
}

// CommentStore persists comments.
type CommentStore interface {
	Create(ctx context.Context, comment *models.Comment) error
	Get(ctx context.Context, id primitive.ObjectID) (*models.Comment, error)
	// ListByIDs returns the comments in the order of ids, skipping missing ones.
	ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Comment, error)
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByCampground(ctx context.Context, campgroundID primitive.ObjectID) (int64, error)
}

// ParseID converts a hex route parameter into an ObjectID. Malformed ids are
// reported as ErrNotFound since no document can have them.
func ParseID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, ErrNotFound
	}
	return id, nil
}
