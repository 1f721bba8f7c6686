// AngelaMos | 2026
// dto.go

package pages

import (
	"encoding/json"

	"github.com/carterperez-dev/agency-portal/internal/user"
)

const (
	defaultPage     = 1
	defaultPageSize = 20
	maxPageSize     = 100
)

type ListParams struct {
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Search   string `json:"search"`
}

func (p *ListParams) Normalize() {
	if p.Page < 1 {
		p.Page = defaultPage
	}
	if p.PageSize < 1 {
		p.PageSize = defaultPageSize
	}
	if p.PageSize > maxPageSize {
		p.PageSize = maxPageSize
	}
}

// Window returns the slice bounds of the current page within total items.
// A page past the end yields an empty window.
func (p *ListParams) Window(total int) (start, end int) {
	if p.PageSize < 1 || p.Page-1 >= (total+p.PageSize-1)/p.PageSize {
		return total, total
	}

	start = (p.Page - 1) * p.PageSize
	end = min(start+p.PageSize, total)
	return start, end
}

// Actions tells the page which mutation controls to show.
type Actions struct {
	Create bool `json:"create"`
	Update bool `json:"update"`
	Delete bool `json:"delete"`
}

type ResourceInfo struct {
	Name    string  `json:"name"`
	Path    string  `json:"path"`
	Actions Actions `json:"actions"`
}

type Dashboard struct {
	User      *user.User      `json:"user"`
	Role      user.Role       `json:"role"`
	Widgets   json.RawMessage `json:"widgets,omitempty"`
	Resources []ResourceInfo  `json:"resources"`
}

type Landing struct {
	User      *user.User `json:"user"`
	Dashboard string     `json:"dashboard"`
}

func toResourceInfo(prefix string, res Resource, u *user.User) ResourceInfo {
	allowed := func(p user.Permission) bool {
		return p != "" && user.HasPermission(u, p)
	}

	return ResourceInfo{
		Name: res.Name,
		Path: prefix + "/" + res.Name,
		Actions: Actions{
			Create: allowed(res.Create),
			Update: allowed(res.Update),
			Delete: allowed(res.Delete),
		},
	}
}
