// AngelaMos | 2026
// permission.go

package user

import (
	"slices"
	"sort"
)

// Permission names one UI capability granted by the backend.
type Permission string

const (
	PermAddProspect    Permission = "SHOW_ADD_PROSPECT_BUTTON"
	PermEditProspect   Permission = "SHOW_EDIT_PROSPECT_BUTTON"
	PermDeleteProspect Permission = "SHOW_DELETE_PROSPECT_BUTTON"

	PermAddRegistration    Permission = "SHOW_ADD_REGISTRATION_BUTTON"
	PermEditRegistration   Permission = "SHOW_EDIT_REGISTRATION_BUTTON"
	PermDeleteRegistration Permission = "SHOW_DELETE_REGISTRATION_BUTTON"

	PermEditExecutive   Permission = "SHOW_EDIT_BUTTON_EXECUTIVE"
	PermDeleteExecutive Permission = "SHOW_DELETE_BUTTON_EXECUTIVE"

	PermAddEditor    Permission = "SHOW_ADD_BUTTON_EDITOR"
	PermEditEditor   Permission = "SHOW_EDIT_BUTTON_EDITOR"
	PermDeleteEditor Permission = "SHOW_DELETE_BUTTON_EDITOR"

	PermAddAuthor  Permission = "SHOW_ADD_BUTTON_AUTHOR"
	PermEditAuthor Permission = "SHOW_EDIT_BUTTON_AUTHOR"

	PermAddLead     Permission = "SHOW_ADD_LEAD_BUTTON"
	PermApproveLead Permission = "SHOW_APPROVE_LEAD_BUTTON"
	PermDeleteLead  Permission = "SHOW_DELETE_LEAD_BUTTON"

	PermGenerateQuotation Permission = "SHOW_GENERATE_QUOTATION_BUTTON"
	PermEditQuotation     Permission = "SHOW_EDIT_QUOTATION_BUTTON"
	PermDeleteQuotation   Permission = "SHOW_DELETE_QUOTATION_BUTTON"

	PermAddBankAccount    Permission = "SHOW_ADD_BANK_ACCOUNT_BUTTON"
	PermEditBankAccount   Permission = "SHOW_EDIT_BANK_ACCOUNT_BUTTON"
	PermDeleteBankAccount Permission = "SHOW_DELETE_BANK_ACCOUNT_BUTTON"

	PermManageUsers Permission = "MANAGE_USERS"
)

var catalog = map[Permission]struct{}{
	PermAddProspect:        {},
	PermEditProspect:       {},
	PermDeleteProspect:     {},
	PermAddRegistration:    {},
	PermEditRegistration:   {},
	PermDeleteRegistration: {},
	PermEditExecutive:      {},
	PermDeleteExecutive:    {},
	PermAddEditor:          {},
	PermEditEditor:         {},
	PermDeleteEditor:       {},
	PermAddAuthor:          {},
	PermEditAuthor:         {},
	PermAddLead:            {},
	PermApproveLead:        {},
	PermDeleteLead:         {},
	PermGenerateQuotation:  {},
	PermEditQuotation:      {},
	PermDeleteQuotation:    {},
	PermAddBankAccount:     {},
	PermEditBankAccount:    {},
	PermDeleteBankAccount:  {},
	PermManageUsers:        {},
}

// Known reports whether p belongs to the catalog. HasPermission does not
// consult it: an unknown token is simply never granted.
func (p Permission) Known() bool {
	_, ok := catalog[p]
	return ok
}

func Catalog() []Permission {
	out := make([]Permission, 0, len(catalog))
	for p := range catalog {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// HasPermission grants every token to supAdmin and otherwise requires an
// exact match in the user's permission set.
func HasPermission(u *User, p Permission) bool {
	if u == nil {
		return false
	}

	if u.IsSupAdmin() {
		return true
	}

	return slices.Contains(u.Permissions, p)
}
