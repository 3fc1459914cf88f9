package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/arzan03/DoctorsPortal/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type DoctorRepo struct {
	coll *mongo.Collection
}

func (r *DoctorRepo) List(ctx context.Context) ([]models.Doctor, error) {
	doctors, err := findAll[models.Doctor](ctx, r.coll, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	return doctors, nil
}

func (r *DoctorRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Doctor, error) {
	var d models.Doctor
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find doctor %s: %w", id.Hex(), err)
	}
	return &d, nil
}

func (r *DoctorRepo) Insert(ctx context.Context, d *models.Doctor) (primitive.ObjectID, error) {
	if d.ID.IsZero() {
		d.ID = primitive.NewObjectID()
	}
	if _, err := r.coll.InsertOne(ctx, d); err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert doctor: %w", wrapWriteErr(err))
	}
	return d.ID, nil
}

func (r *DoctorRepo) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, fmt.Errorf("delete doctor %s: %w", id.Hex(), err)
	}
	return res.DeletedCount, nil
}
