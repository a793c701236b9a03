package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Author is a snapshot of the creating user taken at creation time.
// It is not refreshed if the user later changes their username.
type Author struct {
	ID       primitive.ObjectID `bson:"id" json:"id"`
	Username string             `bson:"username" json:"username"`
}

type Campground struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`

	Name        string  `bson:"name" json:"name"`
	Price       float64 `bson:"price" json:"price"`
	Description string  `bson:"description" json:"description"`

	// Image is the hosted URL; ImageID is the handle used to delete it.
	Image   string `bson:"image" json:"image"`
	ImageID string `bson:"image_id" json:"-"`

	Location string  `bson:"location" json:"location"`
	Lat      float64 `bson:"lat" json:"lat"`
	Lng      float64 `bson:"lng" json:"lng"`

	Author   Author               `bson:"author" json:"author"`
	Comments []primitive.ObjectID `bson:"comments" json:"comments"`
}
