package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/arzan03/DoctorsPortal/internal/db/dbtest"
	"github.com/arzan03/DoctorsPortal/internal/models"
	"github.com/rs/zerolog"
)

func newBookingService() (*BookingService, *dbtest.Memory, *recordingNotifier) {
	mem := dbtest.NewMemory()
	n := &recordingNotifier{}
	return NewBookingService(mem.Bookings, n, zerolog.Nop()), mem, n
}

func sampleBooking() models.Booking {
	return models.Booking{
		AppointmentDate: "2024-03-01",
		Treatment:       "Teeth Cleaning",
		PatientName:     "Pat",
		Slot:            "08.00 AM",
		Email:           "p@x.com",
		Price:           50,
	}
}

func TestCreateBooking_SecondIsRejected(t *testing.T) {
	svc, mem, notifier := newBookingService()
	ctx := context.Background()

	first, err := svc.Create(ctx, sampleBooking())
	if err != nil {
		t.Fatal(err)
	}
	if !first.Acknowledged || first.InsertedID == "" {
		t.Fatalf("expected an acknowledged insert, got %+v", first)
	}

	again := sampleBooking()
	again.Slot = "09.00 AM"
	second, err := svc.Create(ctx, again)
	if err != nil {
		t.Fatal(err)
	}
	if second.Acknowledged {
		t.Error("expected the second booking to be refused")
	}
	if !strings.Contains(second.Message, "2024-03-01") {
		t.Errorf("expected the date in the message, got %q", second.Message)
	}

	if n := len(mem.Bookings.All()); n != 1 {
		t.Errorf("expected 1 stored booking, got %d", n)
	}
	if notifier.count() != 1 {
		t.Errorf("expected exactly one notification, got %d", notifier.count())
	}
}

func TestCreateBooking_OtherTreatmentSameDay(t *testing.T) {
	svc, mem, _ := newBookingService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, sampleBooking()); err != nil {
		t.Fatal(err)
	}
	other := sampleBooking()
	other.Treatment = "Cavity Protection"
	res, err := svc.Create(ctx, other)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Acknowledged {
		t.Errorf("expected a different treatment to be accepted, got %+v", res)
	}
	if n := len(mem.Bookings.All()); n != 2 {
		t.Errorf("expected 2 bookings, got %d", n)
	}
}

func TestCreateBooking_IgnoresClientPaymentState(t *testing.T) {
	svc, mem, _ := newBookingService()

	b := sampleBooking()
	b.Paid = true
	b.TransactionID = "pi_forged"
	if _, err := svc.Create(context.Background(), b); err != nil {
		t.Fatal(err)
	}

	stored := mem.Bookings.All()[0]
	if stored.Paid || stored.TransactionID != "" {
		t.Errorf("expected an unpaid booking, got %+v", stored)
	}
}

func TestCreateBooking_Validation(t *testing.T) {
	svc, _, notifier := newBookingService()

	tests := map[string]func(*models.Booking){
		"missing date":  func(b *models.Booking) { b.AppointmentDate = "" },
		"missing slot":  func(b *models.Booking) { b.Slot = "" },
		"bad email":     func(b *models.Booking) { b.Email = "not-an-email" },
		"missing treat": func(b *models.Booking) { b.Treatment = "" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			b := sampleBooking()
			mutate(&b)
			if _, err := svc.Create(context.Background(), b); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
	if notifier.count() != 0 {
		t.Error("invalid bookings must not notify")
	}
}

// raceStore lets the existence check pass so the unique index decides.
type raceStore struct {
	*dbtest.Bookings
}

func (raceStore) Exists(context.Context, string, string, string) (bool, error) { return false, nil }

func TestCreateBooking_IndexCatchesRace(t *testing.T) {
	mem := dbtest.NewMemory()
	notifier := &recordingNotifier{}
	svc := NewBookingService(raceStore{mem.Bookings}, notifier, zerolog.Nop())
	ctx := context.Background()

	if _, err := svc.Create(ctx, sampleBooking()); err != nil {
		t.Fatal(err)
	}
	res, err := svc.Create(ctx, sampleBooking())
	if err != nil {
		t.Fatalf("expected the duplicate to be reported as a result, got %v", err)
	}
	if res.Acknowledged || !strings.Contains(res.Message, "2024-03-01") {
		t.Errorf("unexpected result %+v", res)
	}
	if notifier.count() != 1 {
		t.Errorf("expected one notification, got %d", notifier.count())
	}
}

func TestListForIdentity(t *testing.T) {
	svc, _, _ := newBookingService()
	ctx := context.Background()
	if _, err := svc.Create(ctx, sampleBooking()); err != nil {
		t.Fatal(err)
	}

	own, err := svc.ListForIdentity(ctx, "p@x.com", "p@x.com")
	if err != nil || len(own) != 1 {
		t.Fatalf("expected own booking, got %v, %v", own, err)
	}

	if _, err := svc.ListForIdentity(ctx, "p@x.com", "other@x.com"); !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}

	none, err := svc.ListForIdentity(ctx, "new@x.com", "new@x.com")
	if err != nil || none == nil || len(none) != 0 {
		t.Errorf("expected an empty non-nil list, got %#v, %v", none, err)
	}
}

func TestGetBooking(t *testing.T) {
	svc, _, _ := newBookingService()
	ctx := context.Background()
	res, _ := svc.Create(ctx, sampleBooking())

	b, err := svc.Get(ctx, res.InsertedID)
	if err != nil || b == nil || b.Email != "p@x.com" {
		t.Errorf("expected stored booking, got %+v, %v", b, err)
	}

	missing, err := svc.Get(ctx, "65f000000000000000000000")
	if err != nil || missing != nil {
		t.Errorf("expected nil for unknown id, got %+v, %v", missing, err)
	}

	if _, err := svc.Get(ctx, "xyz"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for a malformed id, got %v", err)
	}
}
