// internal/app/store/organizations/organizationstore.go
package organizationstore

import (
	"context"
	"time"

	"github.com/arundhaj/broadgauge/internal/app/system/normalize"
	"github.com/arundhaj/broadgauge/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c     *mongo.Collection
	users *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:     db.Collection("organizations"),
		users: db.Collection("users"),
	}
}

// Create inserts a new organization. Names are not unique; the same admin
// can create the same organization twice and gets two rows.
func (s *Store) Create(ctx context.Context, org models.Organization) (models.Organization, error) {
	now := time.Now().UTC()
	org.ID = primitive.NewObjectID()
	org.Name = normalize.Name(org.Name)
	org.NameCI = text.Fold(org.Name)
	org.City = normalize.Name(org.City)
	org.CityCI = text.Fold(org.City)
	org.CreatedAt = now
	org.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, org); err != nil {
		return models.Organization{}, err
	}
	return org, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Organization, error) {
	var org models.Organization
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&org); err != nil {
		return models.Organization{}, err
	}
	return org, nil
}

// List returns all organizations sorted by name.
func (s *Store) List(ctx context.Context) ([]models.Organization, error) {
	return s.ListPage(ctx, 0, 0)
}

// ListPage returns organizations sorted by name, skipping the first skip
// rows and returning at most limit. A limit of 0 means no cap.
func (s *Store) ListPage(ctx context.Context, skip, limit int64) ([]models.Organization, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}})
	if skip > 0 {
		findOpts.SetSkip(skip)
	}
	if limit > 0 {
		findOpts.SetLimit(limit)
	}

	cur, err := s.c.Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var orgs []models.Organization
	if err := cur.All(ctx, &orgs); err != nil {
		return nil, err
	}
	return orgs, nil
}

// NamesByIDs returns a map from organization ID to name for the given IDs.
// IDs with no matching organization are simply absent from the map.
func (s *Store) NamesByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(bson.M{"name": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	names := make(map[primitive.ObjectID]string, len(ids))
	for cur.Next(ctx) {
		var org models.Organization
		if cur.Decode(&org) == nil {
			names[org.ID] = org.Name
		}
	}
	return names, cur.Err()
}

// ListByAdminEmail returns the organizations whose admin user has the given
// email.
func (s *Store) ListByAdminEmail(ctx context.Context, email string) ([]models.Organization, error) {
	var u models.User
	err := s.users.FindOne(ctx, bson.M{"email_ci": text.Fold(normalize.Email(email))},
		options.FindOne().SetProjection(bson.M{"_id": 1})).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	cur, err := s.c.Find(ctx, bson.M{"admin_id": u.ID},
		options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var orgs []models.Organization
	if err := cur.All(ctx, &orgs); err != nil {
		return nil, err
	}
	return orgs, nil
}

// IsAdmin reports whether the user with the given email administers the
// organization. The configured site admin email passes for every org.
func (s *Store) IsAdmin(ctx context.Context, org models.Organization, email, siteAdminEmail string) (bool, error) {
	folded := text.Fold(normalize.Email(email))
	if siteAdminEmail != "" && folded == text.Fold(normalize.Email(siteAdminEmail)) {
		return true, nil
	}

	var u models.User
	err := s.users.FindOne(ctx, bson.M{"_id": org.AdminID},
		options.FindOne().SetProjection(bson.M{"email_ci": 1})).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return u.EmailCI == folded, nil
}
