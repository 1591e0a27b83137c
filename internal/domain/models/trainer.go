// internal/domain/models/trainer.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TrainerProfile holds the trainer-specific attributes for a User.
// There is at most one profile per user; UserID carries a unique index.
type TrainerProfile struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID  primitive.ObjectID `bson:"user_id" json:"user_id"`
	City    string             `bson:"city" json:"city"`
	CityCI  string             `bson:"city_ci" json:"city_ci"`
	Website string             `bson:"website,omitempty" json:"website,omitempty"`
	Bio     string             `bson:"bio,omitempty" json:"bio,omitempty"`
	GitHub  string             `bson:"github,omitempty" json:"github,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Trainer is the merged view of a User and their TrainerProfile.
// Callers always receive this joined form; the split across two
// collections is a storage detail of the trainer store.
type Trainer struct {
	User

	City    string `json:"city"`
	Website string `json:"website,omitempty"`
	Bio     string `json:"bio,omitempty"`
	GitHub  string `json:"github,omitempty"`
}
