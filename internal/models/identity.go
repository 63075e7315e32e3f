package models

// Identity is the verified caller attached to a request. It is never persisted.
type Identity struct {
	UserID string `json:"userId"`
	Email  string `json:"email,omitempty"`
	Roles  []Role `json:"roles"`
}

func (i *Identity) HasRole(role Role) bool {
	for _, r := range i.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasAnyRole reports whether the identity holds at least one of roles.
func (i *Identity) HasAnyRole(roles ...Role) bool {
	for _, role := range roles {
		if i.HasRole(role) {
			return true
		}
	}
	return false
}
