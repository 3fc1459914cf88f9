package services

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/arzan03/DoctorsPortal/internal/db/dbtest"
	"github.com/arzan03/DoctorsPortal/internal/models"
)

func catalog() []models.AppointmentOption {
	return []models.AppointmentOption{
		{Name: "Teeth Cleaning", Price: 50, Slots: []string{"08.00 AM", "08.30 AM", "09.00 AM"}},
		{Name: "Cavity Protection", Price: 80, Slots: []string{"10.00 AM", "10.30 AM"}},
		{Name: "Teeth Orthodontics", Price: 120, Slots: []string{}},
	}
}

func TestRemainingSlots(t *testing.T) {
	options := catalog()
	booked := []models.Booking{
		{Treatment: "Teeth Cleaning", Slot: "08.30 AM"},
		{Treatment: "Cavity Protection", Slot: "10.00 AM"},
		{Treatment: "Cavity Protection", Slot: "10.30 AM"},
		{Treatment: "Unknown", Slot: "08.00 AM"},
	}

	got := RemainingSlots(options, booked)

	want := map[string][]string{
		"Teeth Cleaning":     {"08.00 AM", "09.00 AM"},
		"Cavity Protection":  {},
		"Teeth Orthodontics": {},
	}
	if len(got) != len(options) {
		t.Fatalf("expected %d options, got %d", len(options), len(got))
	}
	for i, opt := range got {
		if opt.Name != options[i].Name || opt.Price != options[i].Price {
			t.Errorf("option %d changed identity: %+v", i, opt)
		}
		if !reflect.DeepEqual(opt.Slots, want[opt.Name]) {
			t.Errorf("%s: expected %v, got %v", opt.Name, want[opt.Name], opt.Slots)
		}
	}

	if len(options[0].Slots) != 3 {
		t.Error("input options were modified")
	}
}

func TestRemainingSlots_SubsetOfCatalog(t *testing.T) {
	options := catalog()
	booked := []models.Booking{{Treatment: "Teeth Cleaning", Slot: "not-a-slot"}}

	for _, opt := range RemainingSlots(options, booked) {
		var orig models.AppointmentOption
		for _, o := range options {
			if o.Name == opt.Name {
				orig = o
			}
		}
		if !reflect.DeepEqual(opt.Slots, orig.Slots) {
			t.Errorf("%s: unmatched booking changed slots to %v", opt.Name, opt.Slots)
		}
	}
}

func seededAvailability(t *testing.T) (*AvailabilityService, *dbtest.Memory) {
	t.Helper()
	mem := dbtest.NewMemory()
	mem.Options.Add(catalog()...)
	ctx := context.Background()
	for _, b := range []models.Booking{
		{AppointmentDate: "2024-03-01", Treatment: "Teeth Cleaning", Slot: "08.00 AM", Email: "a@x.com"},
		{AppointmentDate: "2024-03-01", Treatment: "Cavity Protection", Slot: "10.30 AM", Email: "a@x.com"},
		{AppointmentDate: "2024-03-02", Treatment: "Teeth Cleaning", Slot: "09.00 AM", Email: "b@x.com"},
	} {
		b := b
		if _, err := mem.Bookings.Insert(ctx, &b); err != nil {
			t.Fatal(err)
		}
	}
	return NewAvailabilityService(mem.Options, mem.Bookings), mem
}

func TestAvailableSlots(t *testing.T) {
	svc, _ := seededAvailability(t)

	got, err := svc.AvailableSlots(context.Background(), "2024-03-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got[0].Slots, []string{"08.30 AM", "09.00 AM"}) {
		t.Errorf("unexpected cleaning slots %v", got[0].Slots)
	}
	if !reflect.DeepEqual(got[1].Slots, []string{"10.00 AM"}) {
		t.Errorf("unexpected cavity slots %v", got[1].Slots)
	}
}

func TestAvailableSlots_RequiresDate(t *testing.T) {
	svc, _ := seededAvailability(t)

	if _, err := svc.AvailableSlots(context.Background(), ""); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.AvailableSlotsAggregated(context.Background(), ""); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAvailableSlots_VariantsAgree(t *testing.T) {
	svc, _ := seededAvailability(t)
	ctx := context.Background()

	for _, date := range []string{"2024-03-01", "2024-03-02", "2024-12-31"} {
		inProcess, err := svc.AvailableSlots(ctx, date)
		if err != nil {
			t.Fatal(err)
		}
		aggregated, err := svc.AvailableSlotsAggregated(ctx, date)
		if err != nil {
			t.Fatal(err)
		}

		if len(inProcess) != len(aggregated) {
			t.Fatalf("%s: %d vs %d options", date, len(inProcess), len(aggregated))
		}
		for i := range inProcess {
			if !reflect.DeepEqual(inProcess[i].Slots, aggregated[i].Slots) {
				t.Errorf("%s %s: in-process %v, aggregated %v", date, inProcess[i].Name, inProcess[i].Slots, aggregated[i].Slots)
			}
			if aggregated[i].Slots == nil {
				t.Errorf("%s %s: aggregated slots must not be nil", date, aggregated[i].Name)
			}
		}
	}
}

func TestSpecialties(t *testing.T) {
	svc, _ := seededAvailability(t)

	specs, err := svc.Specialties(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(specs) != 3 || specs[0].Name != "Teeth Cleaning" {
		t.Errorf("unexpected specialties %+v", specs)
	}
}
