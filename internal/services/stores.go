package services

import (
	"context"
	"io"

	"github.com/arzan03/DoctorsPortal/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// The store interfaces are satisfied by the repositories in internal/db.
// Lookups return (nil, nil) when nothing matches, and writes that break a
// unique index return an error wrapping db.ErrDuplicate.

type OptionStore interface {
	List(ctx context.Context) ([]models.AppointmentOption, error)
	Available(ctx context.Context, date string) ([]models.AppointmentOption, error)
	Specialties(ctx context.Context) ([]models.Specialty, error)
}

type BookingStore interface {
	ListByDate(ctx context.Context, date string) ([]models.Booking, error)
	ListByEmail(ctx context.Context, email string) ([]models.Booking, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error)
	Exists(ctx context.Context, date, email, treatment string) (bool, error)
	Insert(ctx context.Context, b *models.Booking) (primitive.ObjectID, error)
	MarkPaid(ctx context.Context, id primitive.ObjectID, transactionID string) (models.UpdateResult, error)
}

type UserStore interface {
	List(ctx context.Context) ([]models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Insert(ctx context.Context, u *models.User) (primitive.ObjectID, error)
	PromoteToAdmin(ctx context.Context, id primitive.ObjectID, upsert bool) (models.UpdateResult, error)
}

type DoctorStore interface {
	List(ctx context.Context) ([]models.Doctor, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Doctor, error)
	Insert(ctx context.Context, d *models.Doctor) (primitive.ObjectID, error)
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
}

type PaymentStore interface {
	Insert(ctx context.Context, p *models.Payment) (primitive.ObjectID, error)
	FindByTransactionID(ctx context.Context, transactionID string) (*models.Payment, error)
	ForEach(ctx context.Context, fn func(models.Payment) error) error
}

// BookingNotifier delivers the confirmation for a stored booking. It must
// return immediately; delivery problems stay inside the notifier.
type BookingNotifier interface {
	BookingConfirmed(b models.Booking)
}

// IntentCreator asks the payment provider for a card payment intent and
// returns its client secret.
type IntentCreator interface {
	CreateCardIntent(ctx context.Context, amount int64, currency string) (string, error)
}

// ImageStore keeps doctor photos in object storage.
type ImageStore interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
	Remove(ctx context.Context, key string) error
}
