package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AppointmentOption is a treatment offered by the clinic together with the
// time labels it can be booked at on any given day.
type AppointmentOption struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name  string             `bson:"name" json:"name" validate:"required"`
	Price float64            `bson:"price" json:"price"`
	Slots []string           `bson:"slots" json:"slots"`
}

// Specialty is the name-only projection of an AppointmentOption.
type Specialty struct {
	ID   primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name string             `bson:"name" json:"name"`
}
