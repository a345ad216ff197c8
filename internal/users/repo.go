package users

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Julz681/KanMind-Backend/internal/apperr"
	"github.com/Julz681/KanMind-Backend/internal/domain"
)

// ErrDuplicateEmail is returned when signup hits the unique email index.
var ErrDuplicateEmail = errors.New("email already registered")

// Store is the identity store consumed by the auth handlers.
type Store interface {
	Create(ctx context.Context, email, fullname, passwordHash string, isGuest bool) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByID(ctx context.Context, id string) (domain.User, error)
}

type Repository struct {
	Pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{Pool: pool}
}

const userColumns = `id, email, fullname, password_hash, is_guest, created_at`

func (r *Repository) Create(ctx context.Context, email, fullname, passwordHash string, isGuest bool) (domain.User, error) {
	var u domain.User
	err := r.Pool.QueryRow(
		ctx,
		`INSERT INTO users (email, fullname, password_hash, is_guest)
         VALUES ($1, $2, $3, $4)
         RETURNING `+userColumns,
		NormalizeEmail(email), fullname, passwordHash, isGuest,
	).Scan(&u.ID, &u.Email, &u.FullName, &u.PasswordHash, &u.IsGuest, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.User{}, ErrDuplicateEmail
		}
		return domain.User{}, err
	}
	return u, nil
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.scanOne(r.Pool.QueryRow(
		ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`,
		NormalizeEmail(email),
	))
}

func (r *Repository) GetByID(ctx context.Context, id string) (domain.User, error) {
	return r.scanOne(r.Pool.QueryRow(
		ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`,
		id,
	))
}

func (r *Repository) scanOne(row pgx.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Email, &u.FullName, &u.PasswordHash, &u.IsGuest, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, apperr.ErrNotFound
	}
	if err != nil {
		return domain.User{}, err
	}
	return u, nil
}

// NormalizeEmail lowercases and trims an email so the unique index applies
// regardless of how the client spelled it.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
