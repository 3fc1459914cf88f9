package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/arzan03/DoctorsPortal/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserRepo struct {
	coll *mongo.Collection
}

func (r *UserRepo) List(ctx context.Context) ([]models.User, error) {
	users, err := findAll[models.User](ctx, r.coll, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// FindByEmail returns nil without error when no user has the email.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user %s: %w", email, err)
	}
	return &u, nil
}

func (r *UserRepo) Insert(ctx context.Context, u *models.User) (primitive.ObjectID, error) {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	if _, err := r.coll.InsertOne(ctx, u); err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert user: %w", wrapWriteErr(err))
	}
	return u.ID, nil
}

// PromoteToAdmin sets the admin role on the user with id. With upsert a
// bare {_id, role} document is created when the id is unknown.
func (r *UserRepo) PromoteToAdmin(ctx context.Context, id primitive.ObjectID, upsert bool) (models.UpdateResult, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"role": models.RoleAdmin}},
		options.Update().SetUpsert(upsert),
	)
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("promote user %s: %w", id.Hex(), wrapWriteErr(err))
	}
	return updateResult(res), nil
}
