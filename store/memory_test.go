package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryUsers(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := NewMemory()

	u := &User{Email: "Ana@Example.com", FullName: "Ana", HashedPassword: "h", Role: DefaultRole, IsActive: true}
	require.NoError(t, m.CreateUser(ctx, u))
	assert.Equal(t, int64(1), u.ID)
	assert.Equal(t, "ana@example.com", u.Email)
	assert.False(t, u.CreatedAt.IsZero())

	err := m.CreateUser(ctx, &User{Email: "ana@example.com"})
	assert.ErrorIs(t, err, ErrConflict)

	got, err := m.UserByEmail(ctx, " ANA@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.FullName)

	require.NoError(t, m.UpdatePassword(ctx, "ana@example.com", "h2"))
	got, err = m.UserByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, "h2", got.HashedPassword)

	_, err = m.UserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, m.UpdatePassword(ctx, "nobody@example.com", "x"), ErrNotFound)
}

func TestMemoryProjects(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	m := NewMemory(WithClock(func() time.Time { return now }))

	p := &Project{UserEmail: "ana@example.com", Name: "Metformin LCM", MoleculeName: "Metformin"}
	require.NoError(t, m.CreateProject(ctx, p))
	assert.Equal(t, DefaultProjectStatus, p.Status)
	assert.Equal(t, now, p.CreatedAt)

	require.NoError(t, m.CreateProject(ctx, &Project{UserEmail: "bo@example.com", Name: "Other"}))

	list, err := m.ListProjects(ctx, "ana@example.com")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Metformin LCM", list[0].Name)

	now = now.Add(time.Hour)
	update := &Project{ID: p.ID, UserEmail: "evil@example.com", Name: "Renamed", Status: "Archived"}
	require.NoError(t, m.UpdateProject(ctx, update))

	got, err := m.GetProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, "ana@example.com", got.UserEmail)
	assert.Equal(t, now, got.UpdatedAt)
	assert.True(t, got.CreatedAt.Before(got.UpdatedAt))

	require.NoError(t, m.DeleteProject(ctx, p.ID))
	_, err = m.GetProject(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, m.DeleteProject(ctx, p.ID), ErrNotFound)
	assert.ErrorIs(t, m.UpdateProject(ctx, &Project{ID: 99}), ErrNotFound)
}

func TestMemoryResetTokensAreSingleUseAndExpire(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	m := NewMemory(WithClock(func() time.Time { return now }))

	require.NoError(t, m.PutResetToken(ctx, "t1", "Ana@example.com", time.Hour))
	email, err := m.ConsumeResetToken(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", email)

	_, err = m.ConsumeResetToken(ctx, "t1")
	assert.ErrorIs(t, err, ErrInvalidToken)

	require.NoError(t, m.PutResetToken(ctx, "t2", "ana@example.com", time.Hour))
	now = now.Add(time.Hour)
	_, err = m.ConsumeResetToken(ctx, "t2")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestOpen(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s, err := Open(ctx, Config{Driver: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, s.Users)
	assert.Same(t, s.Users, s.ResetTokens)
	require.NoError(t, s.Close())

	s, err = Open(ctx, Config{Driver: "memory", UpstashURL: "https://example.upstash.io", UpstashToken: "tok"})
	require.NoError(t, err)
	assert.IsType(t, &UpstashResetTokens{}, s.ResetTokens)

	_, err = Open(ctx, Config{Driver: "sqlite"})
	assert.Error(t, err)

	_, err = Open(ctx, Config{Driver: "postgres"})
	assert.Error(t, err)
}
