package store

import (
	"context"
	"sort"
	"sync"
	"time"
)

type MemoryOption func(*Memory)

func WithClock(now func() time.Time) MemoryOption {
	return func(m *Memory) {
		if now != nil {
			m.now = now
		}
	}
}

// Memory keeps everything in process. It backs tests and single-node demos.
type Memory struct {
	mu sync.RWMutex

	users    map[string]User
	nextUser int64

	projects    map[int64]Project
	nextProject int64

	tokens map[string]resetToken

	now func() time.Time
}

func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		users:    make(map[string]User),
		projects: make(map[int64]Project),
		tokens:   make(map[string]resetToken),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Memory) CreateUser(_ context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	email := normalizeEmail(u.Email)
	if _, ok := m.users[email]; ok {
		return ErrConflict
	}
	m.nextUser++
	u.ID = m.nextUser
	u.Email = email
	if u.CreatedAt.IsZero() {
		u.CreatedAt = m.now().UTC()
	}
	m.users[email] = *u
	return nil
}

func (m *Memory) UserByEmail(_ context.Context, email string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[normalizeEmail(email)]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (m *Memory) UpdatePassword(_ context.Context, email, hashed string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := normalizeEmail(email)
	u, ok := m.users[key]
	if !ok {
		return ErrNotFound
	}
	u.HashedPassword = hashed
	m.users[key] = u
	return nil
}

func (m *Memory) ListProjects(_ context.Context, email string) ([]Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	email = normalizeEmail(email)
	out := make([]Project, 0)
	for _, p := range m.projects {
		if p.UserEmail == email {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) GetProject(_ context.Context, id int64) (*Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.projects[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (m *Memory) CreateProject(_ context.Context, p *Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now().UTC()
	m.nextProject++
	p.ID = m.nextProject
	p.UserEmail = normalizeEmail(p.UserEmail)
	if p.Status == "" {
		p.Status = DefaultProjectStatus
	}
	p.CreatedAt, p.UpdatedAt = now, now
	m.projects[p.ID] = *p
	return nil
}

func (m *Memory) UpdateProject(_ context.Context, p *Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.projects[p.ID]
	if !ok {
		return ErrNotFound
	}
	p.UserEmail = current.UserEmail
	p.CreatedAt = current.CreatedAt
	p.UpdatedAt = m.now().UTC()
	m.projects[p.ID] = *p
	return nil
}

func (m *Memory) DeleteProject(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.projects[id]; !ok {
		return ErrNotFound
	}
	delete(m.projects, id)
	return nil
}

func (m *Memory) PutResetToken(_ context.Context, token, email string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tokens[token] = resetToken{
		Token:     token,
		Email:     normalizeEmail(email),
		ExpiresAt: m.now().Add(ttl),
	}
	return nil
}

func (m *Memory) ConsumeResetToken(_ context.Context, token string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rt, ok := m.tokens[token]
	if !ok {
		return "", ErrInvalidToken
	}
	delete(m.tokens, token)
	if !m.now().Before(rt.ExpiresAt) {
		return "", ErrInvalidToken
	}
	return rt.Email, nil
}
