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

type BookingRepo struct {
	coll *mongo.Collection
}

func (r *BookingRepo) ListByDate(ctx context.Context, date string) ([]models.Booking, error) {
	bookings, err := findAll[models.Booking](ctx, r.coll, bson.M{"appointmentDate": date})
	if err != nil {
		return nil, fmt.Errorf("list bookings for %s: %w", date, err)
	}
	return bookings, nil
}

func (r *BookingRepo) ListByEmail(ctx context.Context, email string) ([]models.Booking, error) {
	bookings, err := findAll[models.Booking](ctx, r.coll, bson.M{"email": email})
	if err != nil {
		return nil, fmt.Errorf("list bookings of %s: %w", email, err)
	}
	return bookings, nil
}

// FindByID returns nil without error when no booking has the id.
func (r *BookingRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	var b models.Booking
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&b)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find booking %s: %w", id.Hex(), err)
	}
	return &b, nil
}

func (r *BookingRepo) Exists(ctx context.Context, date, email, treatment string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx,
		bson.M{"appointmentDate": date, "email": email, "treatment": treatment},
		options.Count().SetLimit(1),
	)
	if err != nil {
		return false, fmt.Errorf("check booking: %w", err)
	}
	return n > 0, nil
}

func (r *BookingRepo) Insert(ctx context.Context, b *models.Booking) (primitive.ObjectID, error) {
	if b.ID.IsZero() {
		b.ID = primitive.NewObjectID()
	}
	if _, err := r.coll.InsertOne(ctx, b); err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert booking: %w", wrapWriteErr(err))
	}
	return b.ID, nil
}

// MarkPaid flags the booking as paid by transactionID. Re-applying the same
// transaction is harmless and reports a zero modified count.
func (r *BookingRepo) MarkPaid(ctx context.Context, id primitive.ObjectID, transactionID string) (models.UpdateResult, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"paid": true, "transactionId": transactionID}},
	)
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("mark booking %s paid: %w", id.Hex(), err)
	}
	return updateResult(res), nil
}

func updateResult(res *mongo.UpdateResult) models.UpdateResult {
	out := models.UpdateResult{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
	}
	if oid, ok := res.UpsertedID.(primitive.ObjectID); ok {
		out.UpsertedID = oid.Hex()
	}
	return out
}
