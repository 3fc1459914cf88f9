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

type PaymentRepo struct {
	coll *mongo.Collection
}

func (r *PaymentRepo) Insert(ctx context.Context, p *models.Payment) (primitive.ObjectID, error) {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if _, err := r.coll.InsertOne(ctx, p); err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert payment: %w", wrapWriteErr(err))
	}
	return p.ID, nil
}

func (r *PaymentRepo) FindByTransactionID(ctx context.Context, transactionID string) (*models.Payment, error) {
	var p models.Payment
	err := r.coll.FindOne(ctx, bson.M{"transactionId": transactionID}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find payment %s: %w", transactionID, err)
	}
	return &p, nil
}

// ForEach streams every payment to fn in natural order, stopping at the
// first error fn returns.
func (r *PaymentRepo) ForEach(ctx context.Context, fn func(models.Payment) error) error {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("scan payments: %w", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var p models.Payment
		if err := cursor.Decode(&p); err != nil {
			return fmt.Errorf("decode payment: %w", err)
		}
		if err := fn(p); err != nil {
			return err
		}
	}
	return cursor.Err()
}
