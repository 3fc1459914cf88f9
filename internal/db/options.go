package db

import (
	"context"
	"fmt"

	"github.com/arzan03/DoctorsPortal/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type OptionRepo struct {
	coll *mongo.Collection
}

func (r *OptionRepo) List(ctx context.Context) ([]models.AppointmentOption, error) {
	opts, err := findAll[models.AppointmentOption](ctx, r.coll, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list appointment options: %w", err)
	}
	return opts, nil
}

func (r *OptionRepo) Specialties(ctx context.Context) ([]models.Specialty, error) {
	find := options.Find().SetProjection(bson.M{"name": 1})
	specs, err := findAll[models.Specialty](ctx, r.coll, bson.M{}, find)
	if err != nil {
		return nil, fmt.Errorf("list specialties: %w", err)
	}
	return specs, nil
}

// Available computes the remaining slots for date inside the database.
func (r *OptionRepo) Available(ctx context.Context, date string) ([]models.AppointmentOption, error) {
	cursor, err := r.coll.Aggregate(ctx, availabilityPipeline(date))
	if err != nil {
		return nil, fmt.Errorf("aggregate availability: %w", err)
	}
	defer cursor.Close(ctx)

	out := make([]models.AppointmentOption, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode availability: %w", err)
	}
	return out, nil
}

// Upsert writes an option keyed by its name.
func (r *OptionRepo) Upsert(ctx context.Context, opt models.AppointmentOption) (models.UpdateResult, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"name": opt.Name},
		bson.M{"$set": bson.M{"price": opt.Price, "slots": opt.Slots}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("upsert option %q: %w", opt.Name, err)
	}
	return updateResult(res), nil
}

// availabilityPipeline joins each option with the bookings of date on
// treatment == name and drops the booked slot labels, keeping catalog order.
func availabilityPipeline(date string) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: BookingCollection},
			{Key: "localField", Value: "name"},
			{Key: "foreignField", Value: "treatment"},
			{Key: "pipeline", Value: bson.A{
				bson.D{{Key: "$match", Value: bson.D{
					{Key: "$expr", Value: bson.D{
						// $literal keeps a date like "$slot" from being read as a field path
						{Key: "$eq", Value: bson.A{"$appointmentDate", bson.D{{Key: "$literal", Value: date}}}},
					}},
				}}},
			}},
			{Key: "as", Value: "booked"},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "name", Value: 1},
			{Key: "price", Value: 1},
			{Key: "slots", Value: 1},
			{Key: "booked", Value: bson.D{{Key: "$map", Value: bson.D{
				{Key: "input", Value: "$booked"},
				{Key: "as", Value: "book"},
				{Key: "in", Value: "$$book.slot"},
			}}}},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "name", Value: 1},
			{Key: "price", Value: 1},
			{Key: "slots", Value: bson.D{{Key: "$filter", Value: bson.D{
				{Key: "input", Value: "$slots"},
				{Key: "as", Value: "slot"},
				{Key: "cond", Value: bson.D{{Key: "$not", Value: bson.A{
					bson.D{{Key: "$in", Value: bson.A{"$$slot", "$booked"}}},
				}}}},
			}}}},
		}}},
	}
}
