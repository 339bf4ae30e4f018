package request

import (
	"errors"
	"time"
)

const dateLayout = "2006-01-02"

var ErrInvalidDate = errors.New("date must be formatted as YYYY-MM-DD")

type CreateBookingRequest struct {
	CarID     int64  `json:"car_id" binding:"required"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
}

func (r *CreateBookingRequest) ParseDates() (start, end time.Time, err error) {
	start, err = parseDate(r.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err = parseDate(r.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

type UpdateBookingRequest struct {
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
	Status    *string `json:"status"`
}

func (r *UpdateBookingRequest) ParseDates() (start, end *time.Time, err error) {
	if r.StartDate != nil {
		t, err := parseDate(*r.StartDate)
		if err != nil {
			return nil, nil, err
		}
		start = &t
	}
	if r.EndDate != nil {
		t, err := parseDate(*r.EndDate)
		if err != nil {
			return nil, nil, err
		}
		end = &t
	}
	return start, end, nil
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}
