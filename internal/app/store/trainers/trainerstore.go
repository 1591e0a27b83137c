// internal/app/store/trainers/trainerstore.go
package trainerstore

import (
	"context"
	"errors"
	"time"

	userstore "github.com/arundhaj/broadgauge/internal/app/store/users"
	"github.com/arundhaj/broadgauge/internal/app/system/normalize"
	"github.com/arundhaj/broadgauge/internal/app/system/txn"
	"github.com/arundhaj/broadgauge/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrAlreadyTrainer is returned when the user already has a trainer profile.
var ErrAlreadyTrainer = errors.New("user already has a trainer profile")

// Store reads and writes the merged Trainer view. A trainer is a row in
// users plus a row in trainer_profiles; callers never see the split.
type Store struct {
	client   *mongo.Client
	users    *userstore.Store
	usersC   *mongo.Collection
	profiles *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		client:   db.Client(),
		users:    userstore.New(db),
		usersC:   db.Collection("users"),
		profiles: db.Collection("trainer_profiles"),
	}
}

// EnsureIndexes creates the unique user_id index on trainer_profiles so a
// user can hold at most one profile.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.profiles.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("idx_trainer_user_id"),
	})
	return err
}

// Create inserts a new user and their trainer profile. Both writes run in a
// single transaction when the deployment supports one; otherwise they run
// sequentially with a best-effort user delete if the profile insert fails.
func (s *Store) Create(ctx context.Context, u models.User, profile models.TrainerProfile) (models.Trainer, error) {
	var created models.User

	run := func(ctx context.Context) error {
		var err error
		created, err = s.users.Create(ctx, u)
		if err != nil {
			return err
		}
		return s.insertProfile(ctx, created.ID, profile)
	}

	err := txn.WithTransaction(ctx, s.client, func(sc mongo.SessionContext) error {
		return run(sc)
	})
	if txn.IsNotSupported(err) {
		created = models.User{}
		if err = run(ctx); err != nil && created.ID != primitive.NilObjectID {
			// roll back the user row by hand on standalone deployments
			_, _ = s.usersC.DeleteOne(ctx, bson.M{"_id": created.ID})
		}
	}
	if err != nil {
		return models.Trainer{}, err
	}

	return s.GetByUserID(ctx, created.ID)
}

// CreateForUser adds a trainer profile to an existing user.
func (s *Store) CreateForUser(ctx context.Context, userID primitive.ObjectID, profile models.TrainerProfile) (models.Trainer, error) {
	if err := s.insertProfile(ctx, userID, profile); err != nil {
		return models.Trainer{}, err
	}
	return s.GetByUserID(ctx, userID)
}

func (s *Store) insertProfile(ctx context.Context, userID primitive.ObjectID, p models.TrainerProfile) error {
	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.UserID = userID
	p.City = normalize.Name(p.City)
	p.CityCI = text.Fold(p.City)
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := s.profiles.InsertOne(ctx, p)
	if mongo.IsDuplicateKeyError(err) {
		return ErrAlreadyTrainer
	}
	return err
}

// GetByEmail loads the merged trainer view for the given email. Returns
// mongo.ErrNoDocuments when the user does not exist or has no profile.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.Trainer, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return s.join(ctx, *u)
}

// GetByUserID loads the merged trainer view for the given user ID.
func (s *Store) GetByUserID(ctx context.Context, userID primitive.ObjectID) (models.Trainer, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return models.Trainer{}, err
	}
	t, err := s.join(ctx, *u)
	if err != nil {
		return models.Trainer{}, err
	}
	return *t, nil
}

func (s *Store) join(ctx context.Context, u models.User) (*models.Trainer, error) {
	var p models.TrainerProfile
	if err := s.profiles.FindOne(ctx, bson.M{"user_id": u.ID}).Decode(&p); err != nil {
		return nil, err
	}
	return &models.Trainer{
		User:    u,
		City:    p.City,
		Website: p.Website,
		Bio:     p.Bio,
		GitHub:  p.GitHub,
	}, nil
}

// List returns all trainers sorted by name.
func (s *Store) List(ctx context.Context) ([]models.Trainer, error) {
	return s.ListPage(ctx, 0, 0)
}

// ListPage returns trainers sorted by name, skipping the first skip rows
// and returning at most limit. A limit of 0 means no cap.
func (s *Store) ListPage(ctx context.Context, skip, limit int64) ([]models.Trainer, error) {
	cur, err := s.profiles.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var profiles []models.TrainerProfile
	if err := cur.All(ctx, &profiles); err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, nil
	}

	ids := make([]primitive.ObjectID, 0, len(profiles))
	byUser := make(map[primitive.ObjectID]models.TrainerProfile, len(profiles))
	for _, p := range profiles {
		ids = append(ids, p.UserID)
		byUser[p.UserID] = p
	}

	findOpts := options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}})
	if skip > 0 {
		findOpts.SetSkip(skip)
	}
	if limit > 0 {
		findOpts.SetLimit(limit)
	}

	ucur, err := s.usersC.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, findOpts)
	if err != nil {
		return nil, err
	}
	defer ucur.Close(ctx)

	var users []models.User
	if err := ucur.All(ctx, &users); err != nil {
		return nil, err
	}

	trainers := make([]models.Trainer, 0, len(users))
	for _, u := range users {
		p, ok := byUser[u.ID]
		if !ok {
			continue
		}
		trainers = append(trainers, models.Trainer{
			User:    u,
			City:    p.City,
			Website: p.Website,
			Bio:     p.Bio,
			GitHub:  p.GitHub,
		})
	}
	return trainers, nil
}

// Update holds the editable trainer fields. Email is deliberately absent;
// the session is bound to it and it never changes after signup.
type Update struct {
	Name    string
	Phone   string
	City    string
	Website string
	Bio     string
	GitHub  string
}

// Update writes the user fields and the profile fields as one transaction
// so a failure partway cannot leave the two collections disagreeing. On
// deployments without transaction support it falls back to sequential
// writes, profile first.
func (s *Store) Update(ctx context.Context, userID primitive.ObjectID, upd Update) error {
	now := time.Now().UTC()

	name := normalize.Name(upd.Name)
	userSet := bson.M{
		"name":       name,
		"name_ci":    text.Fold(name),
		"phone":      normalize.Phone(upd.Phone),
		"updated_at": now,
	}

	city := normalize.Name(upd.City)
	profileSet := bson.M{
		"city":       city,
		"city_ci":    text.Fold(city),
		"website":    upd.Website,
		"bio":        upd.Bio,
		"github":     upd.GitHub,
		"updated_at": now,
	}

	run := func(ctx context.Context) error {
		res, err := s.profiles.UpdateOne(ctx, bson.M{"user_id": userID}, bson.M{"$set": profileSet})
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return mongo.ErrNoDocuments
		}
		_, err = s.usersC.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": userSet})
		return err
	}

	err := txn.WithTransaction(ctx, s.client, func(sc mongo.SessionContext) error {
		return run(sc)
	})
	if txn.IsNotSupported(err) {
		err = run(ctx)
	}
	return err
}
