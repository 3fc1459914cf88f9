package services

import (
	"context"
	"fmt"

	"github.com/arzan03/DoctorsPortal/internal/models"
	"golang.org/x/sync/errgroup"
)

type AvailabilityService struct {
	options  OptionStore
	bookings BookingStore
}

func NewAvailabilityService(options OptionStore, bookings BookingStore) *AvailabilityService {
	return &AvailabilityService{options: options, bookings: bookings}
}

// AvailableSlots loads the catalog and the bookings of date and filters the
// booked slots out in process.
func (s *AvailabilityService) AvailableSlots(ctx context.Context, date string) ([]models.AppointmentOption, error) {
	if date == "" {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	var (
		options []models.AppointmentOption
		booked  []models.Booking
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		options, err = s.options.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		booked, err = s.bookings.ListByDate(gctx, date)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return RemainingSlots(options, booked), nil
}

// AvailableSlotsAggregated returns the same result as AvailableSlots, computed
// by the database in a single pipeline.
func (s *AvailabilityService) AvailableSlotsAggregated(ctx context.Context, date string) ([]models.AppointmentOption, error) {
	if date == "" {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	options, err := s.options.Available(ctx, date)
	if err != nil {
		return nil, err
	}
	for i := range options {
		if options[i].Slots == nil {
			options[i].Slots = []string{}
		}
	}
	return options, nil
}

func (s *AvailabilityService) Specialties(ctx context.Context) ([]models.Specialty, error) {
	return s.options.Specialties(ctx)
}

// RemainingSlots removes from every option the slots booked for its
// treatment. Remaining slots keep the catalog order. Inputs are not modified.
func RemainingSlots(options []models.AppointmentOption, booked []models.Booking) []models.AppointmentOption {
	taken := make(map[string]map[string]struct{})
	for _, b := range booked {
		slots, ok := taken[b.Treatment]
		if !ok {
			slots = make(map[string]struct{})
			taken[b.Treatment] = slots
		}
		slots[b.Slot] = struct{}{}
	}

	out := make([]models.AppointmentOption, 0, len(options))
	for _, opt := range options {
		remaining := make([]string, 0, len(opt.Slots))
		for _, slot := range opt.Slots {
			if _, isTaken := taken[opt.Name][slot]; !isTaken {
				remaining = append(remaining, slot)
			}
		}
		opt.Slots = remaining
		out = append(out, opt)
	}
	return out
}
