package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	AppointmentOptionCollection = "appoinmentOption"
	BookingCollection           = "bookings"
	UserCollection              = "users"
	DoctorCollection            = "doctors"
	PaymentCollection           = "payments"
)

// ErrDuplicate is returned when a write hits one of the unique indexes.
var ErrDuplicate = errors.New("duplicate key")

// ConnectMongoDB opens a client and verifies it with a ping.
func ConnectMongoDB(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

// Store groups the collection repositories of one database.
type Store struct {
	DB       *mongo.Database
	Options  *OptionRepo
	Bookings *BookingRepo
	Users    *UserRepo
	Doctors  *DoctorRepo
	Payments *PaymentRepo
}

func NewStore(db *mongo.Database) *Store {
	return &Store{
		DB:       db,
		Options:  &OptionRepo{coll: db.Collection(AppointmentOptionCollection)},
		Bookings: &BookingRepo{coll: db.Collection(BookingCollection)},
		Users:    &UserRepo{coll: db.Collection(UserCollection)},
		Doctors:  &DoctorRepo{coll: db.Collection(DoctorCollection)},
		Payments: &PaymentRepo{coll: db.Collection(PaymentCollection)},
	}
}

// IndexSpec describes one index created by EnsureIndexes.
type IndexSpec struct {
	Collection string
	Model      mongo.IndexModel
}

// Indexes lists the indexes the portal relies on. The unique ones back the
// booking, user and payment uniqueness rules at the storage level.
func Indexes() []IndexSpec {
	return []IndexSpec{
		{BookingCollection, mongo.IndexModel{
			Keys: bson.D{
				{Key: "email", Value: 1},
				{Key: "treatment", Value: 1},
				{Key: "appointmentDate", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("uniq_booking_per_day"),
		}},
		{BookingCollection, mongo.IndexModel{
			Keys:    bson.D{{Key: "appointmentDate", Value: 1}},
			Options: options.Index().SetName("by_date"),
		}},
		// admin-only documents created by a promote upsert carry no email
		{UserCollection, mongo.IndexModel{
			Keys: bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_email").
				SetPartialFilterExpression(bson.M{"email": bson.M{"$type": "string"}}),
		}},
		{PaymentCollection, mongo.IndexModel{
			Keys:    bson.D{{Key: "transactionId", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_transaction"),
		}},
		{AppointmentOptionCollection, mongo.IndexModel{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_name"),
		}},
	}
}

// EnsureIndexes creates every index from Indexes. It keeps going after a
// failure so one collection holding legacy duplicates does not block the rest.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	var errs []error
	for _, spec := range Indexes() {
		if _, err := db.Collection(spec.Collection).Indexes().CreateOne(ctx, spec.Model); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", spec.Collection, err))
		}
	}
	return errors.Join(errs...)
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter interface{}, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := make([]T, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func wrapWriteErr(err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return err
}
