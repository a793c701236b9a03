package services

import (
	"context"
	"errors"
	"time"

	"github.com/AnshRaj112/campsite/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const campgroundsCollection = "campgrounds"

type MongoCampgroundStore struct {
	coll *mongo.Collection
}

func NewMongoCampgroundStore(db *mongo.Database) *MongoCampgroundStore {
	return &MongoCampgroundStore{coll: db.Collection(campgroundsCollection)}
}

func (s *MongoCampgroundStore) List(ctx context.Context) ([]models.Campground, error) {
	return s.find(ctx, bson.M{})
}

func (s *MongoCampgroundStore) Search(ctx context.Context, term string) ([]models.Campground, error) {
	return s.find(ctx, bson.M{
		"name": primitive.Regex{Pattern: SearchPattern(term), Options: "i"},
	})
}

func (s *MongoCampgroundStore) ListByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]models.Campground, error) {
	return s.find(ctx, bson.M{"author.id": authorID})
}

func (s *MongoCampgroundStore) Get(ctx context.Context, id primitive.ObjectID) (*models.Campground, error) {
	var c models.Campground
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *MongoCampgroundStore) Create(ctx context.Context, c *models.Campground) error {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	if c.Comments == nil {
		c.Comments = []primitive.ObjectID{}
	}
	_, err := s.coll.InsertOne(ctx, c)
	return err
}

// Update overwrites the editable fields. The comment list and author are
// left alone so concurrent comment writes are not lost.
func (s *MongoCampgroundStore) Update(ctx context.Context, c *models.Campground) error {
	res, err := s.coll.UpdateByID(ctx, c.ID, bson.M{"$set": bson.M{
		"name":        c.Name,
		"price":       c.Price,
		"description": c.Description,
		"image":       c.Image,
		"image_id":    c.ImageID,
		"location":    c.Location,
		"lat":         c.Lat,
		"lng":         c.Lng,
		"updated_at":  c.UpdatedAt,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoCampgroundStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoCampgroundStore) AddComment(ctx context.Context, id, commentID primitive.ObjectID) error {
	return s.updateComments(ctx, id, bson.M{"$push": bson.M{"comments": commentID}})
}

func (s *MongoCampgroundStore) RemoveComment(ctx context.Context, id, commentID primitive.ObjectID) error {
	return s.updateComments(ctx, id, bson.M{"$pull": bson.M{"comments": commentID}})
}

func (s *MongoCampgroundStore) updateComments(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	update["$set"] = bson.M{"updated_at": time.Now()}
	res, err := s.coll.UpdateByID(ctx, id, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoCampgroundStore) find(ctx context.Context, filter bson.M) ([]models.Campground, error) {
	cursor, err := s.coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	campgrounds := []models.Campground{}
	if err := cursor.All(ctx, &campgrounds); err != nil {
		return nil, err
	}
	return campgrounds, nil
}
