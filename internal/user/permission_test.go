// AngelaMos | 2026
// permission_test.go

package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasPermission_SupAdminBypassesEverything(t *testing.T) {
	sup := &User{ID: "u1", Role: RoleSupAdmin}

	for _, p := range Catalog() {
		assert.True(t, HasPermission(sup, p), "catalog token %s", p)
	}

	assert.True(t, HasPermission(sup, "SHOW_DELETE_BUTTON_EDITOR"))
	assert.True(t, HasPermission(sup, "NOT_IN_ANY_CATALOG"))
	assert.True(t, HasPermission(sup, ""))
}

func TestHasPermission_NoPermissionsDeniesAll(t *testing.T) {
	for _, role := range Roles() {
		if role == RoleSupAdmin {
			continue
		}

		nilPerms := &User{Role: role}
		emptyPerms := &User{Role: role, Permissions: []Permission{}}

		for _, p := range Catalog() {
			assert.False(t, HasPermission(nilPerms, p), "%s/%s", role, p)
			assert.False(t, HasPermission(emptyPerms, p), "%s/%s", role, p)
		}
	}
}

func TestHasPermission_ExactMatch(t *testing.T) {
	u := &User{
		Role:        RoleEditor,
		Permissions: []Permission{PermDeleteEditor, PermAddEditor},
	}

	assert.True(t, HasPermission(u, PermDeleteEditor))
	assert.True(t, HasPermission(u, "SHOW_DELETE_BUTTON_EDITOR"))
	assert.False(t, HasPermission(u, "show_delete_button_editor"))
	assert.False(t, HasPermission(u, PermEditEditor))
}

func TestHasPermission_UnknownTokenFailsClosed(t *testing.T) {
	retired := Permission("SHOW_RETIRED_BUTTON")
	u := &User{Role: RoleAdmin, Permissions: []Permission{PermManageUsers}}

	assert.False(t, retired.Known())
	assert.False(t, HasPermission(u, retired))
}

func TestHasPermission_NilUser(t *testing.T) {
	assert.False(t, HasPermission(nil, PermManageUsers))
}

func TestRole_Valid(t *testing.T) {
	assert.True(t, RoleSupAdmin.Valid())
	assert.True(t, RoleLeads.Valid())
	assert.False(t, Role("superadmin").Valid())
	assert.False(t, Role("").Valid())
}

func TestUser_CloneIsIndependent(t *testing.T) {
	u := &User{ID: "u1", Role: RoleEditor, Permissions: []Permission{PermAddEditor}}
	c := u.Clone()
	c.Permissions[0] = PermDeleteEditor

	assert.Equal(t, PermAddEditor, u.Permissions[0])
	assert.Nil(t, (*User)(nil).Clone())
}
