package readmodel

// UserViewRM is the local projection of a user owned by the user service.
// It is a pure replica: never written by booking business logic, only by the
// user-event replicator, and eventually consistent with the owning service.
type UserViewRM struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
}
