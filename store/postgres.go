package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

const uniqueViolation = "23505"

// Postgres stores users, projects and reset tokens through bun.
type Postgres struct {
	db  *bun.DB
	now func() time.Time
}

func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("postgres dsn is required")
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	p := &Postgres{db: db, now: time.Now}
	if err := p.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return p, nil
}

func (p *Postgres) migrate(ctx context.Context) error {
	models := []any{(*User)(nil), (*Project)(nil), (*resetToken)(nil)}
	for _, model := range models {
		if _, err := p.db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	_, err := p.db.NewCreateIndex().
		Model((*Project)(nil)).
		Index("projects_user_email_idx").
		IfNotExists().
		Column("user_email").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	return nil
}

func (p *Postgres) Close() error {
	return p.db.Close()
}

func (p *Postgres) CreateUser(ctx context.Context, u *User) error {
	u.Email = normalizeEmail(u.Email)
	if u.CreatedAt.IsZero() {
		u.CreatedAt = p.now().UTC()
	}
	if _, err := p.db.NewInsert().Model(u).Returning("id").Exec(ctx); err != nil {
		return mapError(err)
	}
	return nil
}

func (p *Postgres) UserByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	if err := p.db.NewSelect().Model(&u).Where("email = ?", normalizeEmail(email)).Scan(ctx); err != nil {
		return nil, mapError(err)
	}
	return &u, nil
}

func (p *Postgres) UpdatePassword(ctx context.Context, email, hashed string) error {
	res, err := p.db.NewUpdate().
		Model((*User)(nil)).
		Set("hashed_password = ?", hashed).
		Where("email = ?", normalizeEmail(email)).
		Exec(ctx)
	if err != nil {
		return mapError(err)
	}
	return requireRow(res)
}

func (p *Postgres) ListProjects(ctx context.Context, email string) ([]Project, error) {
	out := make([]Project, 0)
	err := p.db.NewSelect().
		Model(&out).
		Where("user_email = ?", normalizeEmail(email)).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

func (p *Postgres) GetProject(ctx context.Context, id int64) (*Project, error) {
	var proj Project
	if err := p.db.NewSelect().Model(&proj).Where("id = ?", id).Scan(ctx); err != nil {
		return nil, mapError(err)
	}
	return &proj, nil
}

func (p *Postgres) CreateProject(ctx context.Context, proj *Project) error {
	now := p.now().UTC()
	proj.UserEmail = normalizeEmail(proj.UserEmail)
	if proj.Status == "" {
		proj.Status = DefaultProjectStatus
	}
	proj.CreatedAt, proj.UpdatedAt = now, now
	if _, err := p.db.NewInsert().Model(proj).Returning("id").Exec(ctx); err != nil {
		return mapError(err)
	}
	return nil
}

func (p *Postgres) UpdateProject(ctx context.Context, proj *Project) error {
	proj.UpdatedAt = p.now().UTC()
	res, err := p.db.NewUpdate().
		Model(proj).
		Column("name", "molecule_name", "description", "status", "updated_at").
		WherePK().
		Returning("user_email, created_at").
		Exec(ctx)
	if err != nil {
		return mapError(err)
	}
	return requireRow(res)
}

func (p *Postgres) DeleteProject(ctx context.Context, id int64) error {
	res, err := p.db.NewDelete().Model((*Project)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return mapError(err)
	}
	return requireRow(res)
}

func (p *Postgres) PutResetToken(ctx context.Context, token, email string, ttl time.Duration) error {
	rt := &resetToken{
		Token:     token,
		Email:     normalizeEmail(email),
		ExpiresAt: p.now().Add(ttl).UTC(),
	}
	_, err := p.db.NewInsert().
		Model(rt).
		On("CONFLICT (token) DO UPDATE").
		Set("email = EXCLUDED.email").
		Set("expires_at = EXCLUDED.expires_at").
		Exec(ctx)
	return mapError(err)
}

func (p *Postgres) ConsumeResetToken(ctx context.Context, token string) (string, error) {
	var rt resetToken
	err := p.db.NewDelete().
		Model(&rt).
		Where("token = ?", token).
		Returning("*").
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrInvalidToken
		}
		return "", mapError(err)
	}
	if rt.Email == "" || !p.now().Before(rt.ExpiresAt) {
		return "", ErrInvalidToken
	}
	return rt.Email, nil
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) && pgErr.Field('C') == uniqueViolation {
		return fmt.Errorf("%w: %s", ErrConflict, pgErr.Field('M'))
	}
	return err
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
