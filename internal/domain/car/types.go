package car

import "errors"

var ErrInvalidStatus = errors.New("invalid car status")

type Status string

const (
	StatusAvailable Status = "Available"
	StatusRented    Status = "Rented"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusAvailable, StatusRented:
		return true
	default:
		return false
	}
}

// ParseStatus rejects unrecognized values at the boundary instead of letting
// arbitrary strings flow into the state machine.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}
