package models

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type claimHolder struct {
	Roles RawRoles `json:"roles"`
}

func decodeRoles(t *testing.T, doc string) RawRoles {
	t.Helper()
	var h claimHolder
	require.NoError(t, json.Unmarshal([]byte(doc), &h))
	return h.Roles
}

func TestRawRoles_Resolve(t *testing.T) {
	cases := []struct {
		name      string
		doc       string
		kind      RawRolesKind
		want      []Role
		malformed bool
	}{
		{"native list", `{"roles":["ROLE_ADMIN","ROLE_USER"]}`, RawRolesList, []Role{RoleAdmin, RoleUser}, false},
		{"empty list", `{"roles":[]}`, RawRolesList, []Role{}, false},
		{"json encoded string", `{"roles":"[\"ROLE_ADMIN\"]"}`, RawRolesJSONString, []Role{RoleAdmin}, false},
		{"encoded null", `{"roles":"null"}`, RawRolesJSONString, []Role{}, false},
		{"missing", `{}`, RawRolesAbsent, []Role{}, false},
		{"explicit null", `{"roles":null}`, RawRolesAbsent, []Role{}, false},
		{"not json string", `{"roles":"not-json"}`, RawRolesJSONString, nil, true},
		{"number", `{"roles":42}`, RawRolesMalformed, nil, true},
		{"object", `{"roles":{"a":1}}`, RawRolesMalformed, nil, true},
		{"list of numbers", `{"roles":[1,2]}`, RawRolesMalformed, nil, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw := decodeRoles(t, tc.doc)
			assert.Equal(t, tc.kind, raw.Kind)

			got, err := raw.Resolve()
			if tc.malformed {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrMalformedRoleClaim))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRawRoles_MarshalRoundTrip(t *testing.T) {
	b, err := json.Marshal(claimHolder{Roles: RolesFromList([]Role{RoleManager})})
	require.NoError(t, err)
	assert.JSONEq(t, `{"roles":["ROLE_MANAGER"]}`, string(b))

	b, err = json.Marshal(claimHolder{Roles: RawRoles{Kind: RawRolesJSONString, Encoded: `["ROLE_AGENT"]`}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"roles":"[\"ROLE_AGENT\"]"}`, string(b))

	b, err = json.Marshal(claimHolder{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"roles":null}`, string(b))
}

func TestRole_IsValid(t *testing.T) {
	assert.True(t, RoleAdmin.IsValid())
	assert.True(t, RoleAgent.IsValid())
	assert.False(t, Role("ROLE_ROOT").IsValid())
}

func TestIdentity_HasAnyRole(t *testing.T) {
	id := &Identity{UserID: "u1", Roles: []Role{RoleUser, RoleModerator}}
	assert.True(t, id.HasRole(RoleModerator))
	assert.False(t, id.HasRole(RoleAdmin))
	assert.True(t, id.HasAnyRole(RoleAdmin, RoleModerator))
	assert.False(t, id.HasAnyRole())
}

func TestToken_IsExpiredAt(t *testing.T) {
	now := time.Now()
	tok := &Token{ExpiresAt: now.Add(time.Minute)}
	assert.False(t, tok.IsExpiredAt(now))
	assert.True(t, tok.IsExpiredAt(now.Add(time.Minute)))
}
