package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Booking struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	AppointmentDate string             `bson:"appointmentDate" json:"appointmentDate" validate:"required"`
	Treatment       string             `bson:"treatment" json:"treatment" validate:"required"`
	PatientName     string             `bson:"patientName" json:"patientName"`
	Slot            string             `bson:"slot" json:"slot" validate:"required"`
	Email           string             `bson:"email" json:"email" validate:"required,email"`
	Phone           string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Price           float64            `bson:"price,omitempty" json:"price,omitempty" validate:"gte=0"`
	Paid            bool               `bson:"paid" json:"paid"`
	TransactionID   string             `bson:"transactionId,omitempty" json:"transactionId,omitempty"`
}
