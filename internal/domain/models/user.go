// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the base identity record. Every logged-in principal is a User,
// keyed by email. Trainers extend a User with a TrainerProfile row; an
// Organization references its admin User by ID.
type User struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name    string             `bson:"name" json:"name"`
	NameCI  string             `bson:"name_ci" json:"name_ci"` // lowercase, diacritics-stripped
	Email   string             `bson:"email" json:"email"`
	EmailCI string             `bson:"email_ci" json:"email_ci"` // unique index lives on this
	Phone   string             `bson:"phone,omitempty" json:"phone,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
