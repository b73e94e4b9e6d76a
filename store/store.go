// Package store persists users, research projects and password reset tokens.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrConflict     = errors.New("record already exists")
	ErrInvalidToken = errors.New("reset token is invalid or expired")
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"

	DefaultRole          = "researcher"
	DefaultProjectStatus = "Active"
)

type User struct {
	bun.BaseModel `bun:"table:users,alias:u" json:"-"`

	ID             int64     `bun:"id,pk,autoincrement" json:"id"`
	Email          string    `bun:"email,unique,notnull" json:"email"`
	FullName       string    `bun:"full_name" json:"full_name"`
	HashedPassword string    `bun:"hashed_password,notnull" json:"-"`
	Role           string    `bun:"role,notnull" json:"role"`
	IsActive       bool      `bun:"is_active,notnull" json:"is_active"`
	CreatedAt      time.Time `bun:"created_at,notnull" json:"created_at"`
}

type Project struct {
	bun.BaseModel `bun:"table:projects,alias:p" json:"-"`

	ID           int64     `bun:"id,pk,autoincrement" json:"id"`
	UserEmail    string    `bun:"user_email,notnull" json:"user_email"`
	Name         string    `bun:"name,notnull" json:"name"`
	MoleculeName string    `bun:"molecule_name" json:"molecule_name"`
	Description  string    `bun:"description" json:"description"`
	Status       string    `bun:"status,notnull" json:"status"`
	CreatedAt    time.Time `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt    time.Time `bun:"updated_at,notnull" json:"updated_at"`
}

type resetToken struct {
	bun.BaseModel `bun:"table:reset_tokens,alias:rt"`

	Token     string    `bun:"token,pk"`
	Email     string    `bun:"email,notnull"`
	ExpiresAt time.Time `bun:"expires_at,notnull"`
}

type Users interface {
	CreateUser(ctx context.Context, u *User) error
	UserByEmail(ctx context.Context, email string) (*User, error)
	UpdatePassword(ctx context.Context, email, hashed string) error
}

type Projects interface {
	ListProjects(ctx context.Context, email string) ([]Project, error)
	GetProject(ctx context.Context, id int64) (*Project, error)
	CreateProject(ctx context.Context, p *Project) error
	UpdateProject(ctx context.Context, p *Project) error
	DeleteProject(ctx context.Context, id int64) error
}

// ResetTokens holds one-time password reset tokens. Consume deletes the token.
type ResetTokens interface {
	PutResetToken(ctx context.Context, token, email string, ttl time.Duration) error
	ConsumeResetToken(ctx context.Context, token string) (string, error)
}

type Config struct {
	Driver       string        `envconfig:"DRIVER" default:"memory"`
	DSN          string        `envconfig:"DSN"`
	UpstashURL   string        `split_words:"true"`
	UpstashToken string        `split_words:"true"`
	Timeout      time.Duration `envconfig:"TIMEOUT" default:"10s"`
}

// Stores bundles the backends selected by Config.
type Stores struct {
	Users       Users
	Projects    Projects
	ResetTokens ResetTokens

	closers []func() error
}

func (s *Stores) Close() error {
	var errs []error
	for _, c := range s.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

// Open builds the stores for cfg. Reset tokens move to Upstash whenever an Upstash URL is configured.
func Open(ctx context.Context, cfg Config) (*Stores, error) {
	out := &Stores{}

	switch driver := strings.ToLower(strings.TrimSpace(cfg.Driver)); driver {
	case "", DriverMemory:
		mem := NewMemory()
		out.Users, out.Projects, out.ResetTokens = mem, mem, mem
	case DriverPostgres:
		pg, err := NewPostgres(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		out.Users, out.Projects, out.ResetTokens = pg, pg, pg
		out.closers = append(out.closers, pg.Close)
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}

	if strings.TrimSpace(cfg.UpstashURL) != "" {
		tokens, err := NewUpstashResetTokens(UpstashRedisConfig{
			URL:     cfg.UpstashURL,
			Token:   cfg.UpstashToken,
			Timeout: cfg.Timeout,
		})
		if err != nil {
			_ = out.Close()
			return nil, err
		}
		out.ResetTokens = tokens
	}

	return out, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
