package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"math-solver/internal/domain"
)

// MongoUserRepository implementa UserRepository sobre una coleccion de MongoDB.
type MongoUserRepository struct {
	c *mongo.Collection
}

func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{c: db.Collection("users")}
}

// EnsureIndexes crea los indices usados por las busquedas del ciclo de vida.
func (r *MongoUserRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_users_id"),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("idx_users_email"),
		},
		{
			Keys:    bson.D{{Key: "emailVerificationToken", Value: 1}},
			Options: options.Index().SetSparse(true).SetName("idx_users_verification_token"),
		},
		{
			Keys:    bson.D{{Key: "passwordResetToken", Value: 1}},
			Options: options.Index().SetSparse(true).SetName("idx_users_reset_token"),
		},
	}
	_, err := r.c.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *MongoUserRepository) Create(ctx context.Context, user domain.User) error {
	_, err := r.c.InsertOne(ctx, withEmptySlices(user))
	if mongo.IsDuplicateKeyError(err) {
		return ErrUserExists
	}
	return err
}

func (r *MongoUserRepository) Save(ctx context.Context, user domain.User) error {
	_, err := r.c.ReplaceOne(ctx, bson.M{"id": user.ID}, withEmptySlices(user), options.Replace().SetUpsert(true))
	return err
}

func (r *MongoUserRepository) Delete(ctx context.Context, id string) (int64, error) {
	res, err := r.c.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (r *MongoUserRepository) GetByID(ctx context.Context, id string) (domain.User, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

func (r *MongoUserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	if email == "" {
		return domain.User{}, ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoUserRepository) GetByIDOrEmail(ctx context.Context, id, email string) (domain.User, error) {
	or := bson.A{}
	if id != "" {
		or = append(or, bson.M{"id": id})
	}
	if email != "" {
		or = append(or, bson.M{"email": email})
	}
	if len(or) == 0 {
		return domain.User{}, ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"$or": or})
}

func (r *MongoUserRepository) GetByVerificationToken(ctx context.Context, token string, now time.Time) (domain.User, error) {
	if token == "" {
		return domain.User{}, ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{
		"emailVerificationToken":   token,
		"emailVerificationExpires": bson.M{"$gt": now.UTC()},
	})
}

func (r *MongoUserRepository) GetByResetToken(ctx context.Context, token string, now time.Time) (domain.User, error) {
	if token == "" {
		return domain.User{}, ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{
		"passwordResetToken":   token,
		"passwordResetExpires": bson.M{"$gt": now.UTC()},
	})
}

// AppendActivity agrega la entrada y recorta el arreglo en una sola operacion.
func (r *MongoUserRepository) AppendActivity(ctx context.Context, id string, entry domain.ActivityEntry, max int) error {
	update := bson.M{
		"$push": bson.M{
			"activityLog": bson.M{
				"$each":  bson.A{entry},
				"$slice": -max,
			},
		},
		"$set": bson.M{"lastActive": entry.Timestamp},
	}
	res, err := r.c.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("append activity: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *MongoUserRepository) List(ctx context.Context) ([]domain.User, error) {
	cur, err := r.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "registrationDate", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []domain.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (domain.User, error) {
	var u domain.User
	err := r.c.FindOne(ctx, filter).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.User{}, ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, err
	}
	return u, nil
}
