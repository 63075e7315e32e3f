package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Role is an authorization tag carried in access tokens.
type Role string

const (
	RoleUser      Role = "ROLE_USER"
	RoleAdmin     Role = "ROLE_ADMIN"
	RoleModerator Role = "ROLE_MODERATOR"
	RoleManager   Role = "ROLE_MANAGER"
	RoleAgent     Role = "ROLE_AGENT"
)

// IsValid checks if the role is one of the predefined roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleModerator, RoleManager, RoleAgent:
		return true
	default:
		return false
	}
}

// ErrMalformedRoleClaim is returned by RawRoles.Resolve when the claim cannot be read as a role list.
var ErrMalformedRoleClaim = errors.New("malformed role claim")

// RawRolesKind tags which shape the roles claim arrived in.
type RawRolesKind int

const (
	RawRolesAbsent RawRolesKind = iota
	RawRolesList
	RawRolesJSONString
	RawRolesMalformed
)

func (k RawRolesKind) String() string {
	switch k {
	case RawRolesAbsent:
		return "absent"
	case RawRolesList:
		return "list"
	case RawRolesJSONString:
		return "json-string"
	default:
		return "malformed"
	}
}

// RawRoles is the roles claim as found on the wire: a native list, a JSON document
// encoded inside a string, nothing, or something else entirely. Decoding never fails;
// Resolve decides what the claim means.
type RawRoles struct {
	Kind    RawRolesKind
	List    []Role
	Encoded string
}

// RolesFromList builds a list-shaped claim for signing.
func RolesFromList(roles []Role) RawRoles {
	return RawRoles{Kind: RawRolesList, List: roles}
}

func (r *RawRoles) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*r = RawRoles{Kind: RawRolesAbsent}
		return nil
	}

	switch trimmed[0] {
	case '[':
		var list []Role
		if err := json.Unmarshal(trimmed, &list); err != nil {
			*r = RawRoles{Kind: RawRolesMalformed, Encoded: string(trimmed)}
			return nil
		}
		*r = RawRoles{Kind: RawRolesList, List: list}
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			*r = RawRoles{Kind: RawRolesMalformed, Encoded: string(trimmed)}
			return nil
		}
		*r = RawRoles{Kind: RawRolesJSONString, Encoded: s}
	default:
		*r = RawRoles{Kind: RawRolesMalformed, Encoded: string(trimmed)}
	}
	return nil
}

func (r RawRoles) MarshalJSON() ([]byte, error) {
	switch r.Kind {
	case RawRolesList:
		if r.List == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(r.List)
	case RawRolesJSONString:
		return json.Marshal(r.Encoded)
	default:
		return []byte("null"), nil
	}
}

// Resolve returns the canonical role list. Absent claims resolve to an empty list.
// The result is never nil when err is nil.
func (r RawRoles) Resolve() ([]Role, error) {
	switch r.Kind {
	case RawRolesAbsent:
		return []Role{}, nil
	case RawRolesList:
		out := make([]Role, len(r.List))
		copy(out, r.List)
		return out, nil
	case RawRolesJSONString:
		var list []Role
		if err := json.Unmarshal([]byte(r.Encoded), &list); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedRoleClaim, err)
		}
		if list == nil {
			list = []Role{}
		}
		return list, nil
	default:
		return nil, fmt.Errorf("%w: unexpected value %s", ErrMalformedRoleClaim, r.Encoded)
	}
}
