package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/arzan03/DoctorsPortal/internal/db"
	"github.com/arzan03/DoctorsPortal/internal/models"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingService struct {
	bookings BookingStore
	notifier BookingNotifier
	log      zerolog.Logger
}

func NewBookingService(bookings BookingStore, notifier BookingNotifier, log zerolog.Logger) *BookingService {
	return &BookingService{bookings: bookings, notifier: notifier, log: log}
}

func duplicateBookingMessage(date string) string {
	return fmt.Sprintf("You already have a booking on %s", date)
}

// Create stores b unless the same patient already booked the treatment on
// that date. A refused booking is an unacknowledged result, not an error.
func (s *BookingService) Create(ctx context.Context, b models.Booking) (models.InsertResult, error) {
	if err := validateStruct(b); err != nil {
		return models.InsertResult{}, err
	}

	// payment state is owned by the payment workflow
	b.ID = primitive.NilObjectID
	b.Paid = false
	b.TransactionID = ""

	exists, err := s.bookings.Exists(ctx, b.AppointmentDate, b.Email, b.Treatment)
	if err != nil {
		return models.InsertResult{}, err
	}
	if exists {
		return models.Rejected(duplicateBookingMessage(b.AppointmentDate)), nil
	}

	id, err := s.bookings.Insert(ctx, &b)
	if errors.Is(err, db.ErrDuplicate) {
		// a concurrent request won the race past the existence check
		s.log.Info().Str("email", b.Email).Str("date", b.AppointmentDate).Msg("duplicate booking refused by index")
		return models.Rejected(duplicateBookingMessage(b.AppointmentDate)), nil
	}
	if err != nil {
		return models.InsertResult{}, err
	}

	s.notifier.BookingConfirmed(b)

	return models.InsertResult{Acknowledged: true, InsertedID: id.Hex()}, nil
}

// ListForIdentity returns the bookings of email, which must be the caller's own.
func (s *BookingService) ListForIdentity(ctx context.Context, email, identity string) ([]models.Booking, error) {
	if email != identity {
		return nil, fmt.Errorf("%w: bookings of %q requested by %q", ErrForbidden, email, identity)
	}
	return s.bookings.ListByEmail(ctx, email)
}

// Get returns nil when no booking has the id.
func (s *BookingService) Get(ctx context.Context, id string) (*models.Booking, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return s.bookings.FindByID(ctx, oid)
}
