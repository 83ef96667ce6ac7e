package usecase

import (
	"context"
	"errors"
	"maps"
	"sync"

	"local-market/internal/data/entity"
	"local-market/internal/data/repository"
	"local-market/pkg/database"
	"local-market/pkg/geocode"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// memStore is an in-memory stand-in for the postgres schema.
type memStore struct {
	mu       sync.Mutex
	users    map[uuid.UUID]entity.User
	admins   map[uuid.UUID]entity.Admin
	sellers  map[uuid.UUID]entity.Seller
	clients  map[uuid.UUID]entity.Client
	fairs    map[uuid.UUID]entity.Fair
	shops    map[uuid.UUID]entity.Shop
	products map[uuid.UUID]entity.Product

	// failOn makes the named operation fail, e.g. "user.find".
	failOn map[string]error
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[uuid.UUID]entity.User{},
		admins:   map[uuid.UUID]entity.Admin{},
		sellers:  map[uuid.UUID]entity.Seller{},
		clients:  map[uuid.UUID]entity.Client{},
		fairs:    map[uuid.UUID]entity.Fair{},
		shops:    map[uuid.UUID]entity.Shop{},
		products: map[uuid.UUID]entity.Product{},
		failOn:   map[string]error{},
	}
}

func (s *memStore) clone() *memStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &memStore{
		users:    maps.Clone(s.users),
		admins:   maps.Clone(s.admins),
		sellers:  maps.Clone(s.sellers),
		clients:  maps.Clone(s.clients),
		fairs:    maps.Clone(s.fairs),
		shops:    maps.Clone(s.shops),
		products: maps.Clone(s.products),
		failOn:   s.failOn,
	}
}

func (s *memStore) replace(o *memStore) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users, s.admins, s.sellers, s.clients = o.users, o.admins, o.sellers, o.clients
	s.fairs, s.shops, s.products = o.fairs, o.shops, o.products
}

func (s *memStore) fail(op string) error {
	return s.failOn[op]
}

func uniqueViolation() error {
	return &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}
}

// fakeTx stages every write on a copy of the store and publishes it only
// when fn succeeds.
type fakeTx struct {
	store     *memStore
	stage     *memStore
	commits   int
	rollbacks int
}

func (t *fakeTx) WithinTx(_ context.Context, fn func(q database.Querier) error) error {
	t.stage = t.store.clone()
	defer func() { t.stage = nil }()

	if err := fn(nil); err != nil {
		t.rollbacks++
		return err
	}
	t.store.replace(t.stage)
	t.commits++
	return nil
}

// factory binds fake repositories to the staged copy of the open transaction.
func (t *fakeTx) factory(database.Querier) *repository.Repository {
	return newFakeRepos(t.stage)
}

func newFakeRepos(s *memStore) *repository.Repository {
	return &repository.Repository{
		User:    &fakeUserRepo{s: s},
		Admin:   &fakeAdminRepo{s: s},
		Seller:  &fakeSellerRepo{s: s},
		Client:  &fakeClientRepo{s: s},
		Fair:    &fakeFairRepo{s: s},
		Shop:    &fakeShopRepo{s: s},
		Product: &fakeProductRepo{s: s},
	}
}

type fakeUserRepo struct{ s *memStore }

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	if err := r.s.fail("user.create"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return uniqueViolation()
		}
	}
	r.s.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	if err := r.s.fail("user.find"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindAll(_ context.Context, limit, offset int) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.User
	for _, u := range r.s.users {
		out = append(out, &u)
	}
	return page(out, limit, offset), nil
}

func (r *fakeUserRepo) CountAll(context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.users)), nil
}

func (r *fakeUserRepo) UpdateName(_ context.Context, id uuid.UUID, name string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return repository.ErrNoRows
	}
	u.Name = name
	r.s.users[id] = u
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return repository.ErrNoRows
	}
	delete(r.s.users, id)
	delete(r.s.admins, id)
	delete(r.s.sellers, id)
	delete(r.s.clients, id)
	return nil
}

func (r *fakeUserRepo) UpdateRefreshToken(_ context.Context, id uuid.UUID, hash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return repository.ErrNoRows
	}
	u.RefreshTokenHash = &hash
	r.s.users[id] = u
	return nil
}

func (r *fakeUserRepo) ClearRefreshToken(_ context.Context, id uuid.UUID) error {
	if err := r.s.fail("user.clear"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[id]; ok && u.RefreshTokenHash != nil {
		u.RefreshTokenHash = nil
		r.s.users[id] = u
	}
	return nil
}

type fakeAdminRepo struct{ s *memStore }

func (r *fakeAdminRepo) Create(_ context.Context, a *entity.Admin) error {
	if err := r.s.fail("admin.create"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.admins[a.ID] = *a
	return nil
}

func (r *fakeAdminRepo) FindAll(_ context.Context, limit, offset int) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.User
	for id := range r.s.admins {
		u := r.s.users[id]
		out = append(out, &u)
	}
	return page(out, limit, offset), nil
}

func (r *fakeAdminRepo) CountAll(context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.admins)), nil
}

type fakeSellerRepo struct{ s *memStore }

func (r *fakeSellerRepo) Create(_ context.Context, sl *entity.Seller) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.sellers[sl.ID] = *sl
	return nil
}

func (r *fakeSellerRepo) FindAll(_ context.Context, limit, offset int) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.User
	for id := range r.s.sellers {
		u := r.s.users[id]
		out = append(out, &u)
	}
	return page(out, limit, offset), nil
}

func (r *fakeSellerRepo) CountAll(context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.sellers)), nil
}

type fakeClientRepo struct{ s *memStore }

func (r *fakeClientRepo) Create(_ context.Context, c *entity.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.clients[c.ID] = *c
	return nil
}

func (r *fakeClientRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.clients[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *fakeClientRepo) FindAll(_ context.Context, limit, offset int) ([]*entity.ClientAccount, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.ClientAccount
	for id, c := range r.s.clients {
		out = append(out, &entity.ClientAccount{
			User:      r.s.users[id],
			Cep:       c.Cep,
			Latitude:  c.Latitude,
			Longitude: c.Longitude,
		})
	}
	return page(out, limit, offset), nil
}

func (r *fakeClientRepo) CountAll(context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.clients)), nil
}

type fakeFairRepo struct{ s *memStore }

func (r *fakeFairRepo) Create(_ context.Context, f *entity.Fair) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.fairs[f.ID] = *f
	return nil
}

func (r *fakeFairRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Fair, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	f, ok := r.s.fairs[id]
	if !ok {
		return nil, nil
	}
	return &f, nil
}

func (r *fakeFairRepo) FindAll(_ context.Context, limit, offset int, _ *string) ([]*entity.Fair, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Fair
	for _, f := range r.s.fairs {
		out = append(out, &f)
	}
	return page(out, limit, offset), nil
}

func (r *fakeFairRepo) CountAll(context.Context, *string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.fairs)), nil
}

func (r *fakeFairRepo) Update(_ context.Context, f *entity.Fair) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.fairs[f.ID]; !ok {
		return repository.ErrNoRows
	}
	r.s.fairs[f.ID] = *f
	return nil
}

func (r *fakeFairRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.fairs[id]; !ok {
		return repository.ErrNoRows
	}
	delete(r.s.fairs, id)
	return nil
}

type fakeShopRepo struct{ s *memStore }

func (r *fakeShopRepo) Create(_ context.Context, sh *entity.Shop) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.shops[sh.ID] = *sh
	return nil
}

func (r *fakeShopRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Shop, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sh, ok := r.s.shops[id]
	if !ok {
		return nil, nil
	}
	return &sh, nil
}

func (r *fakeShopRepo) FindAll(_ context.Context, limit, offset int, f repository.ShopFilter) ([]*entity.Shop, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Shop
	for _, sh := range r.s.shops {
		if f.SellerID != nil && sh.SellerID != *f.SellerID {
			continue
		}
		if f.FairID != nil && sh.FairID != *f.FairID {
			continue
		}
		out = append(out, &sh)
	}
	return page(out, limit, offset), nil
}

func (r *fakeShopRepo) CountAll(ctx context.Context, f repository.ShopFilter) (int64, error) {
	shops, _ := r.FindAll(ctx, 1<<30, 0, f)
	return int64(len(shops)), nil
}

func (r *fakeShopRepo) Update(_ context.Context, sh *entity.Shop) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.shops[sh.ID]; !ok {
		return repository.ErrNoRows
	}
	r.s.shops[sh.ID] = *sh
	return nil
}

func (r *fakeShopRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.shops[id]; !ok {
		return repository.ErrNoRows
	}
	delete(r.s.shops, id)
	return nil
}

type fakeProductRepo struct{ s *memStore }

func (r *fakeProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.products[p.ID] = *p
	return nil
}

func (r *fakeProductRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *fakeProductRepo) FindByShop(_ context.Context, shopID uuid.UUID, limit, offset int) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Product
	for _, p := range r.s.products {
		if p.ShopID == shopID {
			out = append(out, &p)
		}
	}
	return page(out, limit, offset), nil
}

func (r *fakeProductRepo) CountByShop(ctx context.Context, shopID uuid.UUID) (int64, error) {
	products, _ := r.FindByShop(ctx, shopID, 1<<30, 0)
	return int64(len(products)), nil
}

func (r *fakeProductRepo) Update(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[p.ID]; !ok {
		return repository.ErrNoRows
	}
	r.s.products[p.ID] = *p
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[id]; !ok {
		return repository.ErrNoRows
	}
	delete(r.s.products, id)
	return nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	end := min(offset+limit, len(items))
	return items[offset:end]
}

// fakeGeocoder records every cep it is asked about.
type fakeGeocoder struct {
	coords geocode.Coordinates
	err    error
	calls  []string
}

func (g *fakeGeocoder) Coordinates(_ context.Context, cep string) (geocode.Coordinates, error) {
	g.calls = append(g.calls, cep)
	if g.err != nil {
		return geocode.Coordinates{}, g.err
	}
	return g.coords, nil
}

var errStorage = errors.New("connection reset by peer")
