package usecase_test

import (
	"context"

	"github.com/jhoicas/gestion-stock/internal/domain"
	"github.com/jhoicas/gestion-stock/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Repositorios falsos en memoria (solo lo que usan los casos de uso)
// ──────────────────────────────────────────────────────────────────────────────

type fakeProducts struct{ m map[string]entity.Product }

func newFakeProducts() *fakeProducts { return &fakeProducts{m: map[string]entity.Product{}} }

func (f *fakeProducts) Create(_ context.Context, p *entity.Product) error { f.m[p.ID] = *p; return nil }
func (f *fakeProducts) GetByID(_ context.Context, id string) (*entity.Product, error) {
	if p, ok := f.m[id]; ok {
		return &p, nil
	}
	return nil, nil
}
func (f *fakeProducts) GetByReference(_ context.Context, ref string) (*entity.Product, error) {
	for _, p := range f.m {
		if p.Reference == ref {
			return &p, nil
		}
	}
	return nil, nil
}
func (f *fakeProducts) Update(_ context.Context, p *entity.Product) error { f.m[p.ID] = *p; return nil }
func (f *fakeProducts) List(context.Context, int, int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range f.m {
		out = append(out, &p)
	}
	return out, nil
}
func (f *fakeProducts) Delete(_ context.Context, id string) error {
	if _, ok := f.m[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.m, id)
	return nil
}

type fakeSites struct{ m map[string]entity.Site }

func (f *fakeSites) Create(_ context.Context, s *entity.Site) error { f.m[s.ID] = *s; return nil }
func (f *fakeSites) GetByID(_ context.Context, id string) (*entity.Site, error) {
	if s, ok := f.m[id]; ok {
		return &s, nil
	}
	return nil, nil
}
func (f *fakeSites) Update(_ context.Context, s *entity.Site) error { f.m[s.ID] = *s; return nil }
func (f *fakeSites) List(context.Context, int, int) ([]*entity.Site, error) { return nil, nil }
func (f *fakeSites) Delete(_ context.Context, id string) error { delete(f.m, id); return nil }

type fakeCategories struct{ m map[string]entity.Category }

func (f *fakeCategories) Create(_ context.Context, c *entity.Category) error { f.m[c.ID] = *c; return nil }
func (f *fakeCategories) GetByID(_ context.Context, id string) (*entity.Category, error) {
	if c, ok := f.m[id]; ok {
		return &c, nil
	}
	return nil, nil
}
func (f *fakeCategories) Update(_ context.Context, c *entity.Category) error { f.m[c.ID] = *c; return nil }
func (f *fakeCategories) List(context.Context, int, int) ([]*entity.Category, error) {
	return nil, nil
}
func (f *fakeCategories) Delete(_ context.Context, id string) error { delete(f.m, id); return nil }

type fakeUsers struct{ m map[string]entity.User }

func (f *fakeUsers) Create(_ context.Context, u *entity.User) error { f.m[u.ID] = *u; return nil }
func (f *fakeUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	if u, ok := f.m[id]; ok {
		return &u, nil
	}
	return nil, nil
}
func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range f.m {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}
func (f *fakeUsers) Update(_ context.Context, u *entity.User) error { f.m[u.ID] = *u; return nil }
func (f *fakeUsers) List(context.Context, int, int) ([]*entity.User, error) { return nil, nil }
func (f *fakeUsers) Delete(_ context.Context, id string) error { delete(f.m, id); return nil }

type fakeRoles struct{ m map[string]entity.Role }

func (f *fakeRoles) Create(_ context.Context, r *entity.Role) error { f.m[r.ID] = *r; return nil }
func (f *fakeRoles) GetByID(_ context.Context, id string) (*entity.Role, error) {
	if r, ok := f.m[id]; ok {
		return &r, nil
	}
	return nil, nil
}
func (f *fakeRoles) GetByName(_ context.Context, name string) (*entity.Role, error) {
	for _, r := range f.m {
		if r.Name == name {
			return &r, nil
		}
	}
	return nil, nil
}
func (f *fakeRoles) Update(_ context.Context, r *entity.Role) error { f.m[r.ID] = *r; return nil }
func (f *fakeRoles) List(context.Context) ([]*entity.Role, error) { return nil, nil }
func (f *fakeRoles) Delete(_ context.Context, id string) error { delete(f.m, id); return nil }
