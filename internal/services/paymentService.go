package services

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/arzan03/DoctorsPortal/internal/db"
	"github.com/arzan03/DoctorsPortal/internal/models"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const paymentCurrency = "usd"

type PaymentService struct {
	intents  IntentCreator
	payments PaymentStore
	bookings BookingStore
	log      zerolog.Logger
}

func NewPaymentService(intents IntentCreator, payments PaymentStore, bookings BookingStore, log zerolog.Logger) *PaymentService {
	return &PaymentService{intents: intents, payments: payments, bookings: bookings, log: log}
}

// ToMinorUnits converts a dollar price to cents. The price must be a finite
// positive number worth at least one cent.
func ToMinorUnits(price float64) (int64, error) {
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return 0, fmt.Errorf("%w: price must be a positive number", ErrInvalidInput)
	}
	amount := math.Round(price * 100)
	// float64(math.MaxInt64) rounds up to 2^63, which no int64 holds
	if amount < 1 || amount >= math.MaxInt64 {
		return 0, fmt.Errorf("%w: price %v is out of range", ErrInvalidInput, price)
	}
	return int64(amount), nil
}

// CreateIntent opens a card payment intent for price and returns the client secret.
func (s *PaymentService) CreateIntent(ctx context.Context, price float64) (string, error) {
	amount, err := ToMinorUnits(price)
	if err != nil {
		return "", err
	}

	secret, err := s.intents.CreateCardIntent(ctx, amount, paymentCurrency)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPaymentProvider, err)
	}
	return secret, nil
}

// Record appends the payment and marks its booking paid. The two writes are
// not atomic; replaying the same transaction id finishes a half-applied
// payment without inserting it twice.
func (s *PaymentService) Record(ctx context.Context, p models.Payment) (models.InsertResult, error) {
	if err := validateStruct(p); err != nil {
		return models.InsertResult{}, err
	}
	p.ID = primitive.NilObjectID

	id, err := s.payments.Insert(ctx, &p)
	if errors.Is(err, db.ErrDuplicate) {
		existing, ferr := s.payments.FindByTransactionID(ctx, p.TransactionID)
		if ferr != nil {
			return models.InsertResult{}, ferr
		}
		if existing == nil {
			return models.InsertResult{}, err
		}
		s.log.Info().Str("transaction_id", p.TransactionID).Msg("payment replayed")
		p, id = *existing, existing.ID
	} else if err != nil {
		return models.InsertResult{}, err
	}

	bookingID, err := parseID(p.BookingID)
	if err != nil {
		return models.InsertResult{}, err
	}
	res, err := s.bookings.MarkPaid(ctx, bookingID, p.TransactionID)
	if err != nil {
		s.log.Error().Err(err).Str("transaction_id", p.TransactionID).Msg("payment stored but booking not updated")
		return models.InsertResult{}, err
	}
	if res.MatchedCount == 0 {
		s.log.Warn().Str("booking_id", p.BookingID).Str("transaction_id", p.TransactionID).Msg("payment references unknown booking")
	}

	return models.InsertResult{Acknowledged: true, InsertedID: id.Hex()}, nil
}

// ReconcileReport summarises a Reconcile run.
type ReconcileReport struct {
	Scanned  int
	Repaired int
	Orphaned int
	Invalid  int
}

// Reconcile marks paid every booking that has a recorded payment but was
// left unpaid.
func (s *PaymentService) Reconcile(ctx context.Context) (ReconcileReport, error) {
	var rep ReconcileReport
	err := s.payments.ForEach(ctx, func(p models.Payment) error {
		rep.Scanned++

		bookingID, err := primitive.ObjectIDFromHex(p.BookingID)
		if err != nil {
			rep.Invalid++
			s.log.Warn().Str("payment_id", p.ID.Hex()).Str("booking_id", p.BookingID).Msg("payment with malformed booking id")
			return nil
		}

		booking, err := s.bookings.FindByID(ctx, bookingID)
		if err != nil {
			return err
		}
		switch {
		case booking == nil:
			rep.Orphaned++
			s.log.Warn().Str("payment_id", p.ID.Hex()).Str("booking_id", p.BookingID).Msg("payment for missing booking")
		case !booking.Paid:
			if _, err := s.bookings.MarkPaid(ctx, bookingID, p.TransactionID); err != nil {
				return err
			}
			rep.Repaired++
			s.log.Info().Str("booking_id", p.BookingID).Str("transaction_id", p.TransactionID).Msg("booking marked paid")
		}
		return nil
	})
	return rep, err
}
