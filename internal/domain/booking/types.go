package booking

import "errors"

var ErrInvalidStatus = errors.New("invalid booking status")

type Status string

const (
	StatusCreated   Status = "Created"
	StatusCancelled Status = "Cancelled"
	StatusCompleted Status = "Completed"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusCreated, StatusCancelled, StatusCompleted:
		return true
	default:
		return false
	}
}

func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}
