package model

// Role scopes which vehicles a user may see. Managers see the whole fleet,
// operators and drivers only their assigned vehicles.
type Role string

const (
	RoleManager  Role = "manager"
	RoleOperator Role = "operator"
	RoleDriver   Role = "driver"
)

// User is a dashboard identity.
type User struct {
	ID                 string   `json:"id"`
	Email              string   `json:"email"`
	Name               string   `json:"name"`
	Role               Role     `json:"role"`
	AssignedVehicleIDs []string `json:"assignedVehicleIds"`
}

// CanSee reports whether the user's scope includes the vehicle.
func (u User) CanSee(vehicleID string) bool {
	if u.Role == RoleManager {
		return true
	}
	for _, id := range u.AssignedVehicleIDs {
		if id == vehicleID {
			return true
		}
	}
	return false
}

// Session is the process-wide login state. It is persisted as a single
// key-value snapshot and restored at startup; it is not a security boundary.
type Session struct {
	User          *User  `json:"user"`
	Token         string `json:"token"`
	Authenticated bool   `json:"isAuthenticated"`
}
