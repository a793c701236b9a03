package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultAvatar is served when a user registers without an avatar URL.
const DefaultAvatar = "/static/images/avatar.svg"

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`

	Username     string `bson:"username" json:"username"`
	Email        string `bson:"email" json:"email"`
	PasswordHash string `bson:"password_hash" json:"-"` // argon2id, salt embedded

	Avatar    string `bson:"avatar" json:"avatar"`
	FirstName string `bson:"first_name,omitempty" json:"first_name,omitempty"`
	LastName  string `bson:"last_name,omitempty" json:"last_name,omitempty"`

	ResetPasswordToken   string     `bson:"reset_password_token,omitempty" json:"-"`
	ResetPasswordExpires *time.Time `bson:"reset_password_expires,omitempty" json:"-"`

	IsAdmin bool `bson:"is_admin" json:"is_admin"`
}

// AuthorRef returns the snapshot stored on documents this user creates.
func (u *User) AuthorRef() Author {
	return Author{ID: u.ID, Username: u.Username}
}

// DisplayName is the full name when known, otherwise the username.
func (u *User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.Username
	}
}
