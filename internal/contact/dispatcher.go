package contact

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/starford/folio/internal/models"
)

// Delivery reports where an accepted message ended up.
type Delivery string

const (
	DeliveryEmailed Delivery = "emailed"
	DeliveryQueued  Delivery = "queued"
)

// Dispatcher validates submissions and delivers them by email, falling back to the sink.
type Dispatcher struct {
	mailer Mailer
	sink   *Sink
	logger *slog.Logger
	now    func() time.Time
}

// NewDispatcher creates a dispatcher. A nil mailer queues every message.
func NewDispatcher(mailer Mailer, sink *Sink, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{mailer: mailer, sink: sink, logger: logger, now: time.Now}
}

// Send validates msg, stamps it and delivers it. Invalid input fails with
// apperr.ErrInvalidArgument before anything is written. A mail failure falls back to
// the sink; an error is returned only when the fallback also fails.
func (d *Dispatcher) Send(ctx context.Context, msg models.ContactMessage) (models.ContactMessage, Delivery, error) {
	msg = Normalize(msg)
	if err := Validate(msg); err != nil {
		return msg, "", err
	}
	msg.ID = uuid.NewString()
	msg.SubmittedAt = d.now().UTC()

	var mailErr error
	if d.mailer != nil {
		mailErr = d.mailer.Send(ctx, msg)
		if mailErr == nil {
			d.logger.Info("contact message emailed", slog.String("id", msg.ID))
			return msg, DeliveryEmailed, nil
		}
		d.logger.Warn("contact email failed, queueing locally",
			slog.String("id", msg.ID), slog.String("error", mailErr.Error()))
	}

	if err := d.sink.Append(msg); err != nil {
		d.logger.Error("contact message lost",
			slog.String("id", msg.ID), slog.String("error", err.Error()))
		return msg, "", errors.Join(mailErr, err)
	}
	d.logger.Info("contact message queued", slog.String("id", msg.ID))
	return msg, DeliveryQueued, nil
}
