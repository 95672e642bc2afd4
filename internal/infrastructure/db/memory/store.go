// Package memory provides in-memory implementations of the repository ports.
//
// It backs the API when STORE_DRIVER=memory and is used by unit tests to avoid
// external dependencies. All repositories of one Store share a single lock.
package memory

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/99minutos/backoffice-api/internal/core/domain"
)

type state struct {
	mu       sync.RWMutex
	users    map[int64]*domain.User
	clients  map[int64]*domain.Client
	projects map[int64]*domain.Project
	vendors  map[int64]*domain.Vendor
	seq      map[string]int64
	now      func() time.Time
}

func (s *state) next(name string) int64 {
	s.seq[name]++
	return s.seq[name]
}

// Option configures a Store.
type Option func(*state)

// WithClock replaces time.Now for update timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *state) { s.now = now }
}

// Store groups the in-memory repositories.
type Store struct {
	s *state
}

func NewStore(opts ...Option) *Store {
	s := &state{
		users:    make(map[int64]*domain.User),
		clients:  make(map[int64]*domain.Client),
		projects: make(map[int64]*domain.Project),
		vendors:  make(map[int64]*domain.Vendor),
		seq:      make(map[string]int64),
		now:      time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return &Store{s: s}
}

func (st *Store) Users() *UserRepository       { return &UserRepository{s: st.s} }
func (st *Store) Clients() *ClientRepository   { return &ClientRepository{s: st.s} }
func (st *Store) Projects() *ProjectRepository { return &ProjectRepository{s: st.s} }
func (st *Store) Vendors() *VendorRepository   { return &VendorRepository{s: st.s} }

// Ping always succeeds; it lets the store stand in for a database in readiness checks.
func (st *Store) Ping(context.Context) error { return nil }

// ── Users ─────────────────────────────────────────────────────────────────────

type UserRepository struct{ s *state }

func copyUser(u *domain.User) *domain.User {
	c := *u
	if u.ClientID != nil {
		id := *u.ClientID
		c.ClientID = &id
	}
	return &c
}

func (r *UserRepository) NextID(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.next("users"), nil
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return domain.ErrDuplicateEmail
		}
	}
	if u.ID == 0 {
		u.ID = r.s.next("users")
	}
	r.s.users[u.ID] = copyUser(u)
	return nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *UserRepository) FindByID(_ context.Context, id int64) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return copyUser(u), nil
}

func (r *UserRepository) List(_ context.Context, includeInactive bool) ([]*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*domain.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		if includeInactive || u.IsActive {
			out = append(out, copyUser(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *UserRepository) Update(_ context.Context, id int64, upd domain.UserUpdate) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if upd.Email != nil {
		for _, other := range r.s.users {
			if other.ID != id && other.Email == *upd.Email {
				return nil, domain.ErrDuplicateEmail
			}
		}
		u.Email = *upd.Email
	}
	if upd.Role != nil {
		u.Role = *upd.Role
	}
	if upd.ClientID != nil {
		cid := *upd.ClientID
		u.ClientID = &cid
	}
	if upd.IsActive != nil {
		u.IsActive = *upd.IsActive
	}
	u.UpdatedAt = r.s.now().UTC()
	return copyUser(u), nil
}

func (r *UserRepository) UpdatePasswordHash(_ context.Context, id int64, hash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = hash
	u.UpdatedAt = r.s.now().UTC()
	return nil
}

func (r *UserRepository) IsActive(_ context.Context, id int64) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return false, domain.ErrUserNotFound
	}
	return u.IsActive, nil
}

// ── Clients ───────────────────────────────────────────────────────────────────

type ClientRepository struct{ s *state }

func (r *ClientRepository) Create(ctx context.Context, c *domain.Client) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c.ID = r.s.next("clients")
	cp := *c
	r.s.clients[c.ID] = &cp
	return nil
}

func (r *ClientRepository) FindByID(_ context.Context, id int64) (*domain.Client, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.clients[id]
	if !ok {
		return nil, domain.ErrClientNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *ClientRepository) List(context.Context) ([]*domain.Client, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*domain.Client, 0, len(r.s.clients))
	for _, c := range r.s.clients {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ── Projects ──────────────────────────────────────────────────────────────────

type ProjectRepository struct{ s *state }

func copyProject(p *domain.Project) *domain.Project {
	c := *p
	c.ServicesNeeded = slices.Clone(p.ServicesNeeded)
	return &c
}

func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p.ID = r.s.next("projects")
	r.s.projects[p.ID] = copyProject(p)
	return nil
}

func (r *ProjectRepository) FindByID(_ context.Context, id int64) (*domain.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.projects[id]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	return copyProject(p), nil
}

func (r *ProjectRepository) List(_ context.Context, f domain.ProjectFilter) ([]*domain.Project, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	matched := make([]*domain.Project, 0)
	for _, p := range r.s.projects {
		if f.ClientID != nil && p.ClientID != *f.ClientID {
			continue
		}
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		if f.Country != "" && !p.MatchesCountry(f.Country) {
			continue
		}
		matched = append(matched, copyProject(p))
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	start, end := f.Page.Window(len(matched))
	return matched[start:end], int64(len(matched)), nil
}

func (r *ProjectRepository) Update(_ context.Context, id int64, upd domain.ProjectUpdate) (*domain.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.projects[id]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	if upd.Country != nil {
		p.Country = *upd.Country
	}
	if upd.ServicesNeeded != nil {
		p.ServicesNeeded = slices.Clone(upd.ServicesNeeded)
	}
	if upd.Budget != nil {
		p.Budget = *upd.Budget
	}
	if upd.Status != nil {
		p.Status = *upd.Status
	}
	p.UpdatedAt = r.s.now().UTC()
	return copyProject(p), nil
}

// ── Vendors ───────────────────────────────────────────────────────────────────

type VendorRepository struct{ s *state }

func copyVendor(v *domain.Vendor) *domain.Vendor {
	c := *v
	c.CountriesSupported = slices.Clone(v.CountriesSupported)
	c.ServicesOffered = slices.Clone(v.ServicesOffered)
	return &c
}

func (r *VendorRepository) Create(ctx context.Context, v *domain.Vendor) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v.ID = r.s.next("vendors")
	r.s.vendors[v.ID] = copyVendor(v)
	return nil
}

func (r *VendorRepository) FindByID(_ context.Context, id int64) (*domain.Vendor, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	v, ok := r.s.vendors[id]
	if !ok {
		return nil, domain.ErrVendorNotFound
	}
	return copyVendor(v), nil
}

// Candidates applies only the scalar predicates, mirroring the Mongo repository.
func (r *VendorRepository) Candidates(_ context.Context, q domain.VendorQuery) ([]*domain.Vendor, error) {
	scalar := domain.VendorQuery{Search: q.Search, MinRating: q.MinRating, MaxSLAHours: q.MaxSLAHours}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*domain.Vendor, 0, len(r.s.vendors))
	for _, v := range r.s.vendors {
		if scalar.Matches(v) {
			out = append(out, copyVendor(v))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *VendorRepository) Update(_ context.Context, id int64, upd domain.VendorUpdate) (*domain.Vendor, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.vendors[id]
	if !ok {
		return nil, domain.ErrVendorNotFound
	}
	if upd.Name != nil {
		v.Name = *upd.Name
	}
	if upd.CountriesSupported != nil {
		v.CountriesSupported = slices.Clone(upd.CountriesSupported)
	}
	if upd.ServicesOffered != nil {
		v.ServicesOffered = slices.Clone(upd.ServicesOffered)
	}
	if upd.Rating != nil {
		v.Rating = *upd.Rating
	}
	if upd.ResponseSLAHours != nil {
		v.ResponseSLAHours = *upd.ResponseSLAHours
	}
	v.UpdatedAt = r.s.now().UTC()
	return copyVendor(v), nil
}

func (r *VendorRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.vendors[id]; !ok {
		return domain.ErrVendorNotFound
	}
	delete(r.s.vendors, id)
	return nil
}
