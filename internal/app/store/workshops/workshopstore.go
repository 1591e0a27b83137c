// internal/app/store/workshops/workshopstore.go
package workshopstore

import (
	"context"
	"errors"
	"time"

	"github.com/arundhaj/broadgauge/internal/app/system/normalize"
	"github.com/arundhaj/broadgauge/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrBadStatus is returned for a status outside the known set.
var ErrBadStatus = errors.New(`status must be "pending"|"confirmed"|"completed"|"cancelled"`)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("workshops")}
}

// EnsureIndexes creates the org/date index used by the listing queries.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "org_id", Value: 1}, {Key: "date", Value: -1}},
		Options: options.Index().SetName("idx_workshops_org_date"),
	})
	return err
}

// Create inserts a new workshop. A new workshop always starts pending.
func (s *Store) Create(ctx context.Context, w models.Workshop) (models.Workshop, error) {
	now := time.Now().UTC()
	w.ID = primitive.NewObjectID()
	w.Title = normalize.Name(w.Title)
	w.TitleCI = text.Fold(w.Title)
	w.Status = models.WorkshopPending
	w.CreatedAt = now
	w.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, w); err != nil {
		return models.Workshop{}, err
	}
	return w, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Workshop, error) {
	var w models.Workshop
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&w); err != nil {
		return models.Workshop{}, err
	}
	return w, nil
}

// SetStatus moves a workshop to the given status.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	if !models.ValidWorkshopStatus(status) {
		return ErrBadStatus
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"status":     status,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// ListByOrg returns an organization's workshops, newest date first.
// An empty status returns all of them.
func (s *Store) ListByOrg(ctx context.Context, orgID primitive.ObjectID, status string) ([]models.Workshop, error) {
	filter := bson.M{"org_id": orgID}
	if status != "" {
		if !models.ValidWorkshopStatus(status) {
			return nil, ErrBadStatus
		}
		filter["status"] = status
	}
	return s.find(ctx, filter)
}

// ListByStatus returns all workshops with the given status, newest date
// first.
func (s *Store) ListByStatus(ctx context.Context, status string) ([]models.Workshop, error) {
	if !models.ValidWorkshopStatus(status) {
		return nil, ErrBadStatus
	}
	return s.find(ctx, bson.M{"status": status})
}

// ListByStatuses returns all workshops in any of the given statuses,
// newest date first. Used by the public listing on the home page.
func (s *Store) ListByStatuses(ctx context.Context, statuses ...string) ([]models.Workshop, error) {
	for _, st := range statuses {
		if !models.ValidWorkshopStatus(st) {
			return nil, ErrBadStatus
		}
	}
	return s.find(ctx, bson.M{"status": bson.M{"$in": statuses}})
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.Workshop, error) {
	cur, err := s.c.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var workshops []models.Workshop
	if err := cur.All(ctx, &workshops); err != nil {
		return nil, err
	}
	return workshops, nil
}
