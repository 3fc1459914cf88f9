package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/arzan03/DoctorsPortal/internal/models"
	"github.com/arzan03/DoctorsPortal/internal/utils"
	"github.com/rs/zerolog"
)

const sendTimeout = 30 * time.Second

var confirmationHTML = template.Must(template.New("confirmation").Parse(`
<h3>Your appoinment is confirmed</h3>
<div>
    <p>Your appoinment for treatment: {{.Treatment}}</p>
    <p>Please visit us on {{.AppointmentDate}} at {{.Slot}}</p>
    <p>Thanks from Doctors Portal.</p>
</div>
`))

// Dispatcher sends booking confirmations from a small worker pool so the
// request that created the booking never waits on the mail provider.
type Dispatcher struct {
	mailer Mailer
	pool   *utils.WorkerPool
	log    zerolog.Logger
}

func NewDispatcher(mailer Mailer, workers int, log zerolog.Logger) *Dispatcher {
	d := &Dispatcher{mailer: mailer, log: log}
	d.pool = utils.NewWorkerPool(workers, workers*16, func(r interface{}) {
		log.Error().Str("panic", fmt.Sprintf("%v", r)).Msg("notification worker panicked")
	})
	return d
}

// BookingConfirmed queues the confirmation email for b. When the queue is
// full or the dispatcher is closed the email is dropped and logged.
func (d *Dispatcher) BookingConfirmed(b models.Booking) {
	subject, text, html, err := renderConfirmation(b)
	if err != nil {
		d.log.Error().Err(err).Str("email", b.Email).Msg("render booking confirmation")
		return
	}

	queued := d.pool.TrySubmit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()
		ctx = d.log.WithContext(ctx)

		if err := d.mailer.Send(ctx, b.Email, subject, text, html); err != nil {
			d.log.Error().Err(err).Str("email", b.Email).Str("treatment", b.Treatment).Msg("email send error")
			return
		}
		d.log.Info().Str("email", b.Email).Str("treatment", b.Treatment).Msg("booking confirmation sent")
	})
	switch {
	case queued:
	case d.pool.Closed():
		d.log.Warn().Str("email", b.Email).Msg("dispatcher closed, confirmation dropped")
	default:
		d.log.Warn().Str("email", b.Email).Msg("notification queue full, confirmation dropped")
	}
}

// Close waits for queued confirmations to be handed to the mailer.
func (d *Dispatcher) Close() {
	d.pool.Close()
}

func renderConfirmation(b models.Booking) (subject, text, html string, err error) {
	var buf bytes.Buffer
	if err := confirmationHTML.Execute(&buf, b); err != nil {
		return "", "", "", err
	}
	subject = fmt.Sprintf("Your appoinment for %s is confirmed", b.Treatment)
	text = fmt.Sprintf("Your appoinment for treatment %s is confirmed. Please visit us on %s at %s.",
		b.Treatment, b.AppointmentDate, b.Slot)
	return subject, text, buf.String(), nil
}
