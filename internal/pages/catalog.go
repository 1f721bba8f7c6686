// AngelaMos | 2026
// catalog.go

package pages

import (
	"github.com/carterperez-dev/agency-portal/internal/auth"
	"github.com/carterperez-dev/agency-portal/internal/user"
)

// Resource is one backend collection a portal lists. A mutation whose
// permission is empty is not offered.
type Resource struct {
	Name   string
	Create user.Permission
	Update user.Permission
	Delete user.Permission
}

func (r Resource) backendPath() string {
	return "/" + r.Name
}

// Portal is the page tree of one role, mounted under its dashboard route.
type Portal struct {
	Role      user.Role
	Resources []Resource
}

func (p Portal) Prefix() string {
	return auth.DashboardRoute(p.Role)
}

func (p Portal) Resource(name string) (Resource, bool) {
	for _, res := range p.Resources {
		if res.Name == name {
			return res, true
		}
	}
	return Resource{}, false
}

var (
	usersResource = Resource{
		Name:   "users",
		Create: user.PermManageUsers,
		Update: user.PermManageUsers,
		Delete: user.PermManageUsers,
	}
	bankAccountsResource = Resource{
		Name:   "bank-accounts",
		Create: user.PermAddBankAccount,
		Update: user.PermEditBankAccount,
		Delete: user.PermDeleteBankAccount,
	}
)

func DefaultPortals() []Portal {
	return []Portal{
		{
			Role: user.RoleAdmin,
			Resources: []Resource{
				usersResource,
				{
					Name:   "executives",
					Update: user.PermEditExecutive,
					Delete: user.PermDeleteExecutive,
				},
				{
					Name:   "editors",
					Create: user.PermAddEditor,
					Update: user.PermEditEditor,
					Delete: user.PermDeleteEditor,
				},
				bankAccountsResource,
			},
		},
		{
			Role: user.RoleExecutive,
			Resources: []Resource{
				{
					Name:   "prospects",
					Create: user.PermAddProspect,
					Update: user.PermEditProspect,
					Delete: user.PermDeleteProspect,
				},
				{
					Name:   "registrations",
					Create: user.PermAddRegistration,
					Update: user.PermEditRegistration,
					Delete: user.PermDeleteRegistration,
				},
				{
					Name:   "quotations",
					Create: user.PermGenerateQuotation,
					Update: user.PermEditQuotation,
					Delete: user.PermDeleteQuotation,
				},
			},
		},
		{
			Role: user.RoleEditor,
			Resources: []Resource{
				{
					Name:   "papers",
					Create: user.PermAddEditor,
					Update: user.PermEditEditor,
					Delete: user.PermDeleteEditor,
				},
			},
		},
		{
			Role: user.RoleAuthor,
			Resources: []Resource{
				{
					Name:   "papers",
					Create: user.PermAddAuthor,
					Update: user.PermEditAuthor,
				},
			},
		},
		{
			Role: user.RoleClient,
			Resources: []Resource{
				{Name: "registrations"},
				{Name: "quotations"},
			},
		},
		{
			Role: user.RoleLeads,
			Resources: []Resource{
				{
					Name:   "leads",
					Create: user.PermAddLead,
					Update: user.PermApproveLead,
					Delete: user.PermDeleteLead,
				},
			},
		},
		{
			Role: user.RoleSupAdmin,
			Resources: []Resource{
				usersResource,
				bankAccountsResource,
			},
		},
	}
}
