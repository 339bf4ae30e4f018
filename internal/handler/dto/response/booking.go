package response

import (
	"time"

	"car-rental/internal/usecase/readmodel"
)

const dateLayout = "2006-01-02"

type BookingResponse struct {
	ID        int64        `json:"id"`
	CarID     int64        `json:"car_id"`
	UserID    int64        `json:"user_id"`
	StartDate string       `json:"start_date"`
	EndDate   string       `json:"end_date"`
	Status    string       `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
	Car       *CarResponse `json:"car,omitempty"`
}

func FromBookingRM(rm *readmodel.BookingRM) *BookingResponse {
	resp := &BookingResponse{
		ID:        rm.ID,
		CarID:     rm.CarID,
		UserID:    rm.UserID,
		StartDate: rm.StartDate.Format(dateLayout),
		EndDate:   rm.EndDate.Format(dateLayout),
		Status:    rm.Status,
		CreatedAt: rm.CreatedAt,
		UpdatedAt: rm.UpdatedAt,
	}
	if rm.Car != nil {
		resp.Car = FromCarRM(rm.Car)
	}
	return resp
}

func FromBookingRMs(rms []*readmodel.BookingRM) []*BookingResponse {
	result := make([]*BookingResponse, len(rms))
	for i, rm := range rms {
		result[i] = FromBookingRM(rm)
	}
	return result
}
