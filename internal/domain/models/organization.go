// internal/domain/models/organization.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Organization is created at org-signup and keeps exactly one admin User.
// The admin reference is immutable after creation (no transfer operation).
type Organization struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Name      string             `bson:"name" json:"name"`
	NameCI    string             `bson:"name_ci" json:"name_ci"`
	City      string             `bson:"city" json:"city"`
	CityCI    string             `bson:"city_ci" json:"city_ci"`
	AdminID   primitive.ObjectID `bson:"admin_id" json:"admin_id"`
	AdminRole string             `bson:"admin_role" json:"admin_role"` // the admin's role within the org, free text

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
