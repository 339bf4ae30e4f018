package eventbus

import (
	"context"
	"log/slog"

	"car-rental/internal/usecase/readmodel"
)

// CarEvents publishes car lifecycle records keyed by car id. Creates and
// updates share one shape (the current snapshot); deletes are tombstones.
type CarEvents struct {
	pub *Publisher
}

func NewCarEvents(pub *Publisher) *CarEvents {
	return &CarEvents{pub: pub}
}

func (e *CarEvents) CarSaved(ctx context.Context, rm *readmodel.CarRM) {
	slog.Info("publishing car event", "car_id", rm.ID, "status", rm.Status)
	e.pub.Publish(ctx, rm.ID, rm)
}

func (e *CarEvents) CarDeleted(ctx context.Context, id int64) {
	slog.Info("publishing car tombstone", "car_id", id)
	e.pub.PublishTombstone(ctx, id)
}

// BookingEvents publishes booking lifecycle records keyed by booking id, and
// dead-letters failed saga compensations for out-of-band retry.
type BookingEvents struct {
	pub *Publisher
	dlq *Publisher
}

func NewBookingEvents(pub, dlq *Publisher) *BookingEvents {
	return &BookingEvents{pub: pub, dlq: dlq}
}

func (e *BookingEvents) BookingSaved(ctx context.Context, rm *readmodel.BookingRM) {
	slog.Info("publishing booking event", "booking_id", rm.ID, "status", rm.Status)
	e.pub.Publish(ctx, rm.ID, rm)
}

func (e *BookingEvents) BookingDeleted(ctx context.Context, id int64) {
	slog.Info("publishing booking tombstone", "booking_id", id)
	e.pub.PublishTombstone(ctx, id)
}

// CompensationRecord captures a release call that failed after the booking
// write had already failed. The car stays Rented with no booking attached
// until the record is replayed.
type CompensationRecord struct {
	CarID  int64  `json:"car_id"`
	Reason string `json:"reason"`
}

func (e *BookingEvents) CompensationFailed(ctx context.Context, carID int64, cause error) {
	reason := ""
	if cause != nil {
		reason = cause.Error()
	}
	slog.Error("dead-lettering failed compensation", "car_id", carID, "reason", reason)
	e.dlq.Publish(ctx, carID, CompensationRecord{CarID: carID, Reason: reason})
}
