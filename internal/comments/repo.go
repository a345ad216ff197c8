package comments

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Julz681/KanMind-Backend/internal/apperr"
	"github.com/Julz681/KanMind-Backend/internal/domain"
)

// Store is the comment store consumed by the handler.
type Store interface {
	ListByTicket(ctx context.Context, ticketID string) ([]domain.Comment, error)
	Create(ctx context.Context, ticketID, authorID, content string) (domain.Comment, error)
	Get(ctx context.Context, id string) (domain.Comment, error)
	Delete(ctx context.Context, id string) error
}

type Repository struct {
	Pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{Pool: pool}
}

const commentSelect = `
	SELECT c.id, c.ticket_id, c.content, c.created_at, u.id, u.email, u.fullname
	FROM comments c
	JOIN users u ON u.id = c.author_id`

// ListByTicket returns comments newest first.
func (r *Repository) ListByTicket(ctx context.Context, ticketID string) ([]domain.Comment, error) {
	rows, err := r.Pool.Query(
		ctx,
		commentSelect+` WHERE c.ticket_id = $1 ORDER BY c.created_at DESC, c.id DESC`,
		ticketID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []domain.Comment{}
	for rows.Next() {
		cm, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, cm)
	}
	return comments, rows.Err()
}

func (r *Repository) Create(ctx context.Context, ticketID, authorID, content string) (domain.Comment, error) {
	var id string
	err := r.Pool.QueryRow(
		ctx,
		`INSERT INTO comments (ticket_id, author_id, content)
         VALUES ($1, $2, $3)
         RETURNING id`,
		ticketID, authorID, content,
	).Scan(&id)
	if err != nil {
		return domain.Comment{}, err
	}
	return r.Get(ctx, id)
}

func (r *Repository) Get(ctx context.Context, id string) (domain.Comment, error) {
	return scanComment(r.Pool.QueryRow(ctx, commentSelect+` WHERE c.id = $1`, id))
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	_, err := r.Pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	return err
}

func scanComment(row pgx.Row) (domain.Comment, error) {
	var cm domain.Comment
	err := row.Scan(&cm.ID, &cm.TicketID, &cm.Content, &cm.CreatedAt,
		&cm.Author.ID, &cm.Author.Email, &cm.Author.FullName)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Comment{}, apperr.ErrNotFound
	}
	if err != nil {
		return domain.Comment{}, err
	}
	return cm, nil
}
