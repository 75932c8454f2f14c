package notify

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"clinic-booking-server/internal/models"
)

const sendTimeout = 10 * time.Second

// Dispatcher queues emails onto a background worker. Submission is
// best-effort: a full queue or a failed delivery is logged and dropped,
// never surfaced to the caller as an error.
type Dispatcher struct {
	sender EmailSender
	log    *logrus.Logger
	queue  chan EmailMessage
	done   chan struct{}
}

// NewDispatcher creates a dispatcher and starts its worker. A nil sender
// disables delivery; Submit then reports every message as not dispatched.
func NewDispatcher(sender EmailSender, queueSize int, log *logrus.Logger) *Dispatcher {
	d := &Dispatcher{
		sender: sender,
		log:    log,
		queue:  make(chan EmailMessage, queueSize),
		done:   make(chan struct{}),
	}
	go d.run()
	return d
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for msg := range d.queue {
		if d.sender == nil {
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		err := d.sender.Send(ctx, msg)
		cancel()
		if err != nil {
			d.log.WithError(err).WithField("to", msg.To).Error("email delivery failed")
			continue
		}
		d.log.WithField("to", msg.To).Debug("email delivered")
	}
}

// Submit enqueues one message. It returns false when the sender is not
// configured or the queue is full.
func (d *Dispatcher) Submit(msg EmailMessage) bool {
	if d.sender == nil {
		return false
	}
	select {
	case d.queue <- msg:
		return true
	default:
		d.log.WithField("to", msg.To).Warn("notification queue full, message dropped")
		return false
	}
}

// AppointmentConfirmed queues the confirmation emails for both parties and
// reports whether both were accepted for delivery.
func (d *Dispatcher) AppointmentConfirmed(appt *models.Appointment, patient, doctor *models.User) bool {
	patientQueued := d.Submit(appointmentConfirmedForPatient(appt, patient, doctor))
	doctorQueued := d.Submit(appointmentConfirmedForDoctor(appt, patient, doctor))
	return patientQueued && doctorQueued
}

// Close drains the queue and stops the worker. Submit must not be called
// after Close.
func (d *Dispatcher) Close() {
	close(d.queue)
	<-d.done
}
