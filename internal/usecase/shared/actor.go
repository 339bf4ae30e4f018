package shared

// Actor is the caller identity threaded explicitly through every operation
// that needs an access decision. Keeping it a plain parameter (instead of an
// ambient security context) makes the checks side-effect free and testable.
type Actor struct {
	UserID int64
	Role   Role
}

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	default:
		return false
	}
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanAccess reports whether the actor may act on an entity owned by ownerID:
// administrators always, everyone else only on their own entities.
func (a Actor) CanAccess(ownerID int64) bool {
	return a.IsAdmin() || a.UserID == ownerID
}
