package services

import (
	"context"
	"errors"

	"github.com/AnshRaj112/campsite/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const commentsCollection = "comments"

type MongoCommentStore struct {
	coll *mongo.Collection
}

func NewMongoCommentStore(db *mongo.Database) *MongoCommentStore {
	return &MongoCommentStore{coll: db.Collection(commentsCollection)}
}

func (s *MongoCommentStore) Create(ctx context.Context, c *models.Comment) error {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	_, err := s.coll.InsertOne(ctx, c)
	return err
}

func (s *MongoCommentStore) Get(ctx context.Context, id primitive.ObjectID) (*models.Comment, error) {
	var c models.Comment
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *MongoCommentStore) ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Comment, error) {
	if len(ids) == 0 {
		return []models.Comment{}, nil
	}

	cursor, err := s.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var found []models.Comment
	if err := cursor.All(ctx, &found); err != nil {
		return nil, err
	}

	byID := make(map[primitive.ObjectID]models.Comment, len(found))
	for _, c := range found {
		byID[c.ID] = c
	}
	ordered := make([]models.Comment, 0, len(found))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			ordered = append(ordered, c)
		}
	}
	return ordered, nil
}

func (s *MongoCommentStore) Update(ctx context.Context, c *models.Comment) error {
	res, err := s.coll.UpdateByID(ctx, c.ID, bson.M{"$set": bson.M{
		"text":       c.Text,
		"updated_at": c.UpdatedAt,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoCommentStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoCommentStore) DeleteByCampground(ctx context.Context, campgroundID primitive.ObjectID) (int64, error) {
	res, err := s.coll.DeleteMany(ctx, bson.M{"campground_id": campgroundID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
