// Package dbtest provides in-memory stand-ins for the Mongo repositories.
// They honour the same unique keys as the indexes in db.Indexes.
package dbtest

import (
	"context"
	"fmt"
	"sync"

	"github.com/arzan03/DoctorsPortal/internal/db"
	"github.com/arzan03/DoctorsPortal/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Memory bundles one fake per collection. Options reads bookings through
// the shared pointer so Available sees what Bookings stored.
type Memory struct {
	Options  *Options
	Bookings *Bookings
	Users    *Users
	Doctors  *Doctors
	Payments *Payments
}

func NewMemory() *Memory {
	bookings := &Bookings{}
	return &Memory{
		Options:  &Options{bookings: bookings},
		Bookings: bookings,
		Users:    &Users{},
		Doctors:  &Doctors{},
		Payments: &Payments{},
	}
}

func dup(what string) error {
	return fmt.Errorf("%w: %s", db.ErrDuplicate, what)
}

type Options struct {
	mu       sync.Mutex
	items    []models.AppointmentOption
	bookings *Bookings
}

// Add appends opt to the catalog, assigning an id when it has none.
func (o *Options) Add(opts ...models.AppointmentOption) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, opt := range opts {
		if opt.ID.IsZero() {
			opt.ID = primitive.NewObjectID()
		}
		opt.Slots = append([]string(nil), opt.Slots...)
		o.items = append(o.items, opt)
	}
}

func (o *Options) List(_ context.Context) ([]models.AppointmentOption, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]models.AppointmentOption, 0, len(o.items))
	for _, opt := range o.items {
		opt.Slots = append([]string(nil), opt.Slots...)
		out = append(out, opt)
	}
	return out, nil
}

func (o *Options) Specialties(_ context.Context) ([]models.Specialty, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]models.Specialty, 0, len(o.items))
	for _, opt := range o.items {
		out = append(out, models.Specialty{ID: opt.ID, Name: opt.Name})
	}
	return out, nil
}

// Available mirrors the $lookup/$filter pipeline: booked labels are removed
// and the remaining slots keep catalog order.
func (o *Options) Available(ctx context.Context, date string) ([]models.AppointmentOption, error) {
	booked, _ := o.bookings.ListByDate(ctx, date)
	opts, _ := o.List(ctx)

	for i, opt := range opts {
		drop := make(map[string]bool)
		for _, b := range booked {
			if b.Treatment == opt.Name {
				drop[b.Slot] = true
			}
		}
		var left []string
		for _, s := range opt.Slots {
			if !drop[s] {
				left = append(left, s)
			}
		}
		opts[i].Slots = left
	}
	return opts, nil
}

type Bookings struct {
	mu    sync.Mutex
	items []models.Booking
}

func (s *Bookings) filter(keep func(models.Booking) bool) []models.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Booking, 0)
	for _, b := range s.items {
		if keep(b) {
			out = append(out, b)
		}
	}
	return out
}

func (s *Bookings) All() []models.Booking {
	return s.filter(func(models.Booking) bool { return true })
}

func (s *Bookings) ListByDate(_ context.Context, date string) ([]models.Booking, error) {
	return s.filter(func(b models.Booking) bool { return b.AppointmentDate == date }), nil
}

func (s *Bookings) ListByEmail(_ context.Context, email string) ([]models.Booking, error) {
	return s.filter(func(b models.Booking) bool { return b.Email == email }), nil
}

func (s *Bookings) FindByID(_ context.Context, id primitive.ObjectID) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.items {
		if b.ID == id {
			return &b, nil
		}
	}
	return nil, nil
}

func (s *Bookings) Exists(_ context.Context, date, email, treatment string) (bool, error) {
	found := s.filter(func(b models.Booking) bool {
		return b.AppointmentDate == date && b.Email == email && b.Treatment == treatment
	})
	return len(found) > 0, nil
}

func (s *Bookings) Insert(_ context.Context, b *models.Booking) (primitive.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, other := range s.items {
		if other.Email == b.Email && other.Treatment == b.Treatment && other.AppointmentDate == b.AppointmentDate {
			return primitive.NilObjectID, dup("uniq_booking_per_day")
		}
	}
	if b.ID.IsZero() {
		b.ID = primitive.NewObjectID()
	}
	s.items = append(s.items, *b)
	return b.ID, nil
}

func (s *Bookings) MarkPaid(_ context.Context, id primitive.ObjectID, transactionID string) (models.UpdateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := models.UpdateResult{Acknowledged: true}
	for i := range s.items {
		if s.items[i].ID != id {
			continue
		}
		res.MatchedCount = 1
		if !s.items[i].Paid || s.items[i].TransactionID != transactionID {
			res.ModifiedCount = 1
		}
		s.items[i].Paid = true
		s.items[i].TransactionID = transactionID
	}
	return res, nil
}

// Users applies uniq_email only to documents that carry an email field.
// Documents created by a promote upsert have none.
type Users struct {
	mu    sync.Mutex
	items []models.User
	bare  map[primitive.ObjectID]bool
}

func (s *Users) List(_ context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append(make([]models.User, 0, len(s.items)), s.items...), nil
}

func (s *Users) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.items {
		if !s.bare[u.ID] && u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (s *Users) Insert(_ context.Context, u *models.User) (primitive.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, other := range s.items {
		if !s.bare[other.ID] && other.Email == u.Email {
			return primitive.NilObjectID, dup("uniq_email")
		}
	}
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	s.items = append(s.items, *u)
	return u.ID, nil
}

func (s *Users) PromoteToAdmin(_ context.Context, id primitive.ObjectID, upsert bool) (models.UpdateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := models.UpdateResult{Acknowledged: true}
	for i := range s.items {
		if s.items[i].ID == id {
			res.MatchedCount = 1
			if s.items[i].Role != models.RoleAdmin {
				res.ModifiedCount = 1
			}
			s.items[i].Role = models.RoleAdmin
			return res, nil
		}
	}
	if upsert {
		if s.bare == nil {
			s.bare = make(map[primitive.ObjectID]bool)
		}
		s.bare[id] = true
		s.items = append(s.items, models.User{ID: id, Role: models.RoleAdmin})
		res.UpsertedCount = 1
		res.UpsertedID = id.Hex()
	}
	return res, nil
}

type Doctors struct {
	mu    sync.Mutex
	items []models.Doctor
}

func (s *Doctors) List(_ context.Context) ([]models.Doctor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append(make([]models.Doctor, 0, len(s.items)), s.items...), nil
}

func (s *Doctors) FindByID(_ context.Context, id primitive.ObjectID) (*models.Doctor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.items {
		if d.ID == id {
			return &d, nil
		}
	}
	return nil, nil
}

func (s *Doctors) Insert(_ context.Context, d *models.Doctor) (primitive.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d.ID.IsZero() {
		d.ID = primitive.NewObjectID()
	}
	s.items = append(s.items, *d)
	return d.ID, nil
}

func (s *Doctors) Delete(_ context.Context, id primitive.ObjectID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, d := range s.items {
		if d.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

type Payments struct {
	mu    sync.Mutex
	items []models.Payment
}

func (s *Payments) All() []models.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Payment(nil), s.items...)
}

func (s *Payments) Insert(_ context.Context, p *models.Payment) (primitive.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, other := range s.items {
		if other.TransactionID == p.TransactionID {
			return primitive.NilObjectID, dup("uniq_transaction")
		}
	}
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	s.items = append(s.items, *p)
	return p.ID, nil
}

func (s *Payments) FindByTransactionID(_ context.Context, transactionID string) (*models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.items {
		if p.TransactionID == transactionID {
			return &p, nil
		}
	}
	return nil, nil
}

func (s *Payments) ForEach(_ context.Context, fn func(models.Payment) error) error {
	for _, p := range s.All() {
		if err := fn(p); err != nil {
			return err
		}
	}
	return nil
}
