package booking

import (
	"errors"
	"time"
)

var (
	ErrInvalidDateRange = errors.New("start date must not be after end date")
	ErrNotEditable      = errors.New("only bookings with status Created can be updated")
	ErrNotDeletable     = errors.New("only Created or Cancelled bookings can be deleted")
)

// Booking is a user's claim on one car for a date range. The car reference is
// a weak one: the booking never owns car data, only looks it up by id, and
// the reference is immutable after creation.
type Booking struct {
	id        int64
	carID     int64
	userID    int64
	startDate time.Time
	endDate   time.Time
	status    Status
	createdAt time.Time
	updatedAt time.Time
}

func NewBooking(carID, userID int64, startDate, endDate time.Time) (*Booking, error) {
	if startDate.After(endDate) {
		return nil, ErrInvalidDateRange
	}

	return &Booking{
		carID:     carID,
		userID:    userID,
		startDate: startDate,
		endDate:   endDate,
		status:    StatusCreated,
	}, nil
}

func ReconstructBooking(id, carID, userID int64, startDate, endDate time.Time, status Status, createdAt, updatedAt time.Time) *Booking {
	return &Booking{
		id:        id,
		carID:     carID,
		userID:    userID,
		startDate: startDate,
		endDate:   endDate,
		status:    status,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (b *Booking) CanUpdate() bool {
	return b.status == StatusCreated
}

func (b *Booking) CanDelete() bool {
	return b.status == StatusCreated || b.status == StatusCancelled
}

// ApplyUpdate mutates the editable fields. A nil field means "keep". The
// status, when present, must already be a parsed member of the closed enum.
func (b *Booking) ApplyUpdate(startDate, endDate *time.Time, status *Status) error {
	if !b.CanUpdate() {
		return ErrNotEditable
	}

	newStart := b.startDate
	newEnd := b.endDate
	if startDate != nil {
		newStart = *startDate
	}
	if endDate != nil {
		newEnd = *endDate
	}
	if newStart.After(newEnd) {
		return ErrInvalidDateRange
	}

	b.startDate = newStart
	b.endDate = newEnd
	if status != nil {
		if !status.IsValid() {
			return ErrInvalidStatus
		}
		b.status = *status
	}
	return nil
}

func (b *Booking) Complete() {
	b.status = StatusCompleted
}

func (b *Booking) ID() int64            { return b.id }
func (b *Booking) CarID() int64         { return b.carID }
func (b *Booking) UserID() int64        { return b.userID }
func (b *Booking) StartDate() time.Time { return b.startDate }
func (b *Booking) EndDate() time.Time   { return b.endDate }
func (b *Booking) Status() Status       { return b.status }
func (b *Booking) CreatedAt() time.Time { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }
