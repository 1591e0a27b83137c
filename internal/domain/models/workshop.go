// internal/domain/models/workshop.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Workshop status values. The set is closed; anything else is rejected
// at the store boundary.
const (
	WorkshopPending   = "pending"
	WorkshopConfirmed = "confirmed"
	WorkshopCompleted = "completed"
	WorkshopCancelled = "cancelled"
)

// ValidWorkshopStatus reports whether s is one of the known status values.
func ValidWorkshopStatus(s string) bool {
	switch s {
	case WorkshopPending, WorkshopConfirmed, WorkshopCompleted, WorkshopCancelled:
		return true
	}
	return false
}

// Workshop belongs to exactly one Organization and is mutated only
// through status transitions after creation.
type Workshop struct {
	ID                   primitive.ObjectID `bson:"_id" json:"id"`
	OrgID                primitive.ObjectID `bson:"org_id" json:"org_id"`
	Title                string             `bson:"title" json:"title"`
	TitleCI              string             `bson:"title_ci" json:"title_ci"`
	Description          string             `bson:"description" json:"description"`
	ExpectedParticipants int                `bson:"expected_participants" json:"expected_participants"`
	Date                 time.Time          `bson:"date" json:"date"`
	Status               string             `bson:"status" json:"status"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
