package dbtest

import (
	"context"
	"errors"
	"testing"

	"github.com/arzan03/DoctorsPortal/internal/db"
	"github.com/arzan03/DoctorsPortal/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUsers_UpsertedAdminsHaveNoEmail(t *testing.T) {
	users := NewMemory().Users
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		res, err := users.PromoteToAdmin(ctx, primitive.NewObjectID(), true)
		if err != nil || res.UpsertedCount != 1 {
			t.Fatalf("upsert %d: got %+v, %v", i, res, err)
		}
	}

	if u, _ := users.FindByEmail(ctx, ""); u != nil {
		t.Errorf("documents without an email must not match an email lookup, got %+v", u)
	}
	if _, err := users.Insert(ctx, &models.User{Email: "a@x.com"}); err != nil {
		t.Fatal(err)
	}
	if _, err := users.Insert(ctx, &models.User{Email: "a@x.com"}); !errors.Is(err, db.ErrDuplicate) {
		t.Errorf("expected ErrDuplicate for a repeated email, got %v", err)
	}
}

func TestOptions_AvailableKeepsCatalogOrder(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()
	mem.Options.Add(models.AppointmentOption{Name: "Cleaning", Slots: []string{"09:00", "08:00", "09:00", "10:00"}})
	mem.Bookings.Insert(ctx, &models.Booking{AppointmentDate: "2024-03-01", Treatment: "Cleaning", Slot: "08:00", Email: "a@x.com"})

	opts, err := mem.Options.Available(ctx, "2024-03-01")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"09:00", "09:00", "10:00"}
	got := opts[0].Slots
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}
