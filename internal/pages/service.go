// AngelaMos | 2026
// service.go

package pages

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/carterperez-dev/agency-portal/internal/core"
	"github.com/carterperez-dev/agency-portal/internal/user"
)

// Backend is the slice of the API gateway the pages need.
type Backend interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string, out any) error
}

type Service struct {
	backend Backend
}

func NewService(backend Backend) *Service {
	return &Service{backend: backend}
}

// Dashboard loads the account and the role's widgets in parallel. If
// either call fails the other is canceled and nothing is rendered.
func (s *Service) Dashboard(
	ctx context.Context,
	portal Portal,
	cached *user.User,
) (*Dashboard, error) {
	var (
		me      user.User
		widgets json.RawMessage
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.backend.Get(gctx, "/users/me", nil, &me)
	})

	g.Go(func() error {
		return s.backend.Get(gctx, "/dashboard/"+string(portal.Role), nil, &widgets)
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	resources := make([]ResourceInfo, 0, len(portal.Resources))
	for _, res := range portal.Resources {
		resources = append(resources, toResourceInfo(portal.Prefix(), res, cached))
	}

	return &Dashboard{
		User:      &me,
		Role:      portal.Role,
		Widgets:   widgets,
		Resources: resources,
	}, nil
}

// List fetches the whole collection, then filters and pages it.
func (s *Service) List(
	ctx context.Context,
	res Resource,
	params ListParams,
) ([]map[string]any, int, error) {
	params.Normalize()

	var items []map[string]any
	if err := s.backend.Get(ctx, res.backendPath(), nil, &items); err != nil {
		return nil, 0, err
	}

	matched := filter(items, params.Search)
	total := len(matched)

	start, end := params.Window(total)
	return matched[start:end], total, nil
}

func (s *Service) Get(ctx context.Context, res Resource, id string) (json.RawMessage, error) {
	var item json.RawMessage
	if err := s.backend.Get(ctx, itemPath(res, id), nil, &item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *Service) Create(
	ctx context.Context,
	res Resource,
	body json.RawMessage,
) (json.RawMessage, error) {
	var created json.RawMessage
	if err := s.backend.Post(ctx, res.backendPath(), body, &created); err != nil {
		return nil, err
	}

	core.Logger(ctx).Info("resource created", "resource", res.Name)
	return created, nil
}

func (s *Service) Update(
	ctx context.Context,
	res Resource,
	id string,
	body json.RawMessage,
) (json.RawMessage, error) {
	var updated json.RawMessage
	if err := s.backend.Put(ctx, itemPath(res, id), body, &updated); err != nil {
		return nil, err
	}

	core.Logger(ctx).Info("resource updated", "resource", res.Name, "id", id)
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, res Resource, id string) error {
	if err := s.backend.Delete(ctx, itemPath(res, id), nil); err != nil {
		return err
	}

	core.Logger(ctx).Info("resource deleted", "resource", res.Name, "id", id)
	return nil
}

func itemPath(res Resource, id string) string {
	return fmt.Sprintf("%s/%s", res.backendPath(), url.PathEscape(id))
}

// filter keeps items where any top-level string field contains term,
// ignoring case.
func filter(items []map[string]any, term string) []map[string]any {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return items
	}

	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		for _, v := range item {
			s, ok := v.(string)
			if ok && strings.Contains(strings.ToLower(s), term) {
				out = append(out, item)
				break
			}
		}
	}

	return out
}
