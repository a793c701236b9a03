package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Comment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`

	CampgroundID primitive.ObjectID `bson:"campground_id" json:"campground_id"`
	Author       Author             `bson:"author" json:"author"`
	Text         string             `bson:"text" json:"text"`
}
