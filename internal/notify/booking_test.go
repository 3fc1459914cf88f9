package notify

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/arzan03/DoctorsPortal/internal/models"
	"github.com/rs/zerolog"
)

type sentMail struct {
	to, subject, html string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *fakeMailer) Send(_ context.Context, to, subject, _, html string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{to: to, subject: subject, html: html})
	return m.err
}

func testBooking() models.Booking {
	return models.Booking{
		Email:           "p@x.com",
		Treatment:       "Cleaning",
		AppointmentDate: "2024-03-01",
		Slot:            "10:00 AM",
	}
}

func TestDispatcher_SendsConfirmation(t *testing.T) {
	mailer := &fakeMailer{}
	d := NewDispatcher(mailer, 1, zerolog.Nop())

	d.BookingConfirmed(testBooking())
	d.Close()

	if len(mailer.sent) != 1 {
		t.Fatalf("expected 1 email, got %d", len(mailer.sent))
	}
	got := mailer.sent[0]
	if got.to != "p@x.com" {
		t.Errorf("unexpected recipient %s", got.to)
	}
	if got.subject != "Your appoinment for Cleaning is confirmed" {
		t.Errorf("unexpected subject %q", got.subject)
	}
	if !strings.Contains(got.html, "2024-03-01 at 10:00 AM") {
		t.Errorf("expected date and slot in body, got %q", got.html)
	}
}

func TestDispatcher_FailureStaysLocal(t *testing.T) {
	mailer := &fakeMailer{err: errors.New("mailgun down")}
	d := NewDispatcher(mailer, 1, zerolog.Nop())

	// must neither panic nor block
	d.BookingConfirmed(testBooking())
	d.Close()

	if len(mailer.sent) != 1 {
		t.Fatalf("expected one delivery attempt, got %d", len(mailer.sent))
	}
}

func TestRenderConfirmation_EscapesFields(t *testing.T) {
	b := testBooking()
	b.Treatment = "<script>alert(1)</script>"

	_, _, html, err := renderConfirmation(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(html, "<script>") {
		t.Errorf("expected treatment to be escaped, got %q", html)
	}
}

func TestLogMailer(t *testing.T) {
	if err := (LogMailer{Log: zerolog.Nop()}).Send(context.Background(), "a@x.com", "s", "t", "h"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestDispatcher_DropReasons(t *testing.T) {
	t.Run("closed", func(t *testing.T) {
		var logs bytes.Buffer
		mailer := &fakeMailer{}
		d := NewDispatcher(mailer, 1, zerolog.New(zerolog.SyncWriter(&logs)))
		d.Close()

		d.BookingConfirmed(testBooking())

		if len(mailer.sent) != 0 {
			t.Errorf("expected nothing sent after Close, got %d", len(mailer.sent))
		}
		if !strings.Contains(logs.String(), "dispatcher closed") || strings.Contains(logs.String(), "queue full") {
			t.Errorf("expected a closed-dispatcher warning, got %q", logs.String())
		}
	})

	t.Run("queue full", func(t *testing.T) {
		var logs bytes.Buffer
		release := make(chan struct{})
		mailer := &blockingMailer{release: release, started: make(chan struct{}, 1)}
		d := NewDispatcher(mailer, 1, zerolog.New(zerolog.SyncWriter(&logs)))

		d.BookingConfirmed(testBooking())
		<-mailer.started
		// one worker busy, fill the 16-slot queue and overflow it
		for i := 0; i < 17; i++ {
			d.BookingConfirmed(testBooking())
		}
		close(release)
		d.Close()

		if !strings.Contains(logs.String(), "queue full") || strings.Contains(logs.String(), "dispatcher closed") {
			t.Errorf("expected a queue-full warning, got %q", logs.String())
		}
	})
}

type blockingMailer struct {
	release chan struct{}
	started chan struct{}
}

func (m *blockingMailer) Send(context.Context, string, string, string, string) error {
	select {
	case m.started <- struct{}{}:
	default:
	}
	<-m.release
	return nil
}
