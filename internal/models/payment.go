package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment is an append-only record of a settled card payment for a booking.
type Payment struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	BookingID     string             `bson:"bookingId" json:"bookingId" validate:"required,mongodb"`
	TransactionID string             `bson:"transactionId" json:"transactionId" validate:"required"`
	Price         float64            `bson:"price" json:"price" validate:"gt=0"`
	Email         string             `bson:"email,omitempty" json:"email,omitempty" validate:"omitempty,email"`
}

// PaymentIntentRequest is the body of POST /create-payment-intent.
type PaymentIntentRequest struct {
	Price float64 `json:"price"`
}
