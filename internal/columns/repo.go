package columns

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Julz681/KanMind-Backend/internal/apperr"
	"github.com/Julz681/KanMind-Backend/internal/domain"
	"github.com/Julz681/KanMind-Backend/internal/policy"
)

// Store is the column store consumed by the handler.
type Store interface {
	Create(ctx context.Context, boardID, title string, position int) (domain.Column, error)
	Get(ctx context.Context, id string) (domain.Column, error)
	ListByBoard(ctx context.Context, boardID string) ([]domain.Column, error)
	ListForUser(ctx context.Context, userID string) ([]domain.Column, error)
	Update(ctx context.Context, id string, title *string, position *int) (domain.Column, error)
	Delete(ctx context.Context, id string) error
}

// AccessStore resolves board access; satisfied by *boards.Repository.
type AccessStore interface {
	Access(ctx context.Context, boardID, userID string) (policy.Access, error)
}

type Repository struct {
	Pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{Pool: pool}
}

// Create inserts a column keeping positions dense 0..n-1. A negative
// position appends at the end. The shift and insert share one transaction.
func (r *Repository) Create(ctx context.Context, boardID, title string, position int) (domain.Column, error) {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return domain.Column{}, err
	}
	defer tx.Rollback(ctx)

	var count int
	if err := tx.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM columns WHERE board_id = $1`,
		boardID,
	).Scan(&count); err != nil {
		return domain.Column{}, err
	}
	pos := clampInsert(position, count)

	if _, err := tx.Exec(
		ctx,
		`UPDATE columns SET position = position + 1 WHERE board_id = $1 AND position >= $2`,
		boardID, pos,
	); err != nil {
		return domain.Column{}, err
	}

	var col domain.Column
	err = tx.QueryRow(
		ctx,
		`INSERT INTO columns (board_id, title, position)
         VALUES ($1, $2, $3)
         RETURNING id, board_id, title, position`,
		boardID, title, pos,
	).Scan(&col.ID, &col.BoardID, &col.Title, &col.Position)
	if err != nil {
		return domain.Column{}, err
	}

	return col, tx.Commit(ctx)
}

func (r *Repository) Get(ctx context.Context, id string) (domain.Column, error) {
	var col domain.Column
	err := r.Pool.QueryRow(
		ctx,
		`SELECT id, board_id, title, position FROM columns WHERE id = $1`,
		id,
	).Scan(&col.ID, &col.BoardID, &col.Title, &col.Position)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Column{}, apperr.ErrNotFound
	}
	if err != nil {
		return domain.Column{}, err
	}
	return col, nil
}

func (r *Repository) ListByBoard(ctx context.Context, boardID string) ([]domain.Column, error) {
	return r.list(ctx,
		`SELECT id, board_id, title, position
		 FROM columns WHERE board_id = $1 ORDER BY position`,
		boardID,
	)
}

func (r *Repository) ListForUser(ctx context.Context, userID string) ([]domain.Column, error) {
	return r.list(ctx,
		`SELECT c.id, c.board_id, c.title, c.position
		 FROM columns c
		 JOIN board_members m ON m.board_id = c.board_id
		 WHERE m.user_id = $1
		 ORDER BY c.board_id, c.position`,
		userID,
	)
}

func (r *Repository) list(ctx context.Context, query, arg string) ([]domain.Column, error) {
	rows, err := r.Pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns := []domain.Column{}
	for rows.Next() {
		var col domain.Column
		if err := rows.Scan(&col.ID, &col.BoardID, &col.Title, &col.Position); err != nil {
			return nil, err
		}
		columns = append(columns, col)
	}
	return columns, rows.Err()
}

// Update renames and/or moves a column. Moves renumber the affected range
// inside the transaction so positions stay dense under concurrent requests.
func (r *Repository) Update(ctx context.Context, id string, title *string, position *int) (domain.Column, error) {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return domain.Column{}, err
	}
	defer tx.Rollback(ctx)

	var col domain.Column
	err = tx.QueryRow(
		ctx,
		`SELECT id, board_id, title, position FROM columns WHERE id = $1 FOR UPDATE`,
		id,
	).Scan(&col.ID, &col.BoardID, &col.Title, &col.Position)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Column{}, apperr.ErrNotFound
	}
	if err != nil {
		return domain.Column{}, err
	}

	if title != nil {
		if _, err := tx.Exec(ctx, `UPDATE columns SET title = $2 WHERE id = $1`, id, *title); err != nil {
			return domain.Column{}, err
		}
		col.Title = *title
	}

	if position != nil {
		var count int
		if err := tx.QueryRow(
			ctx,
			`SELECT COUNT(*) FROM columns WHERE board_id = $1`,
			col.BoardID,
		).Scan(&count); err != nil {
			return domain.Column{}, err
		}
		newPos := clampMove(*position, count)
		old := col.Position

		switch {
		case newPos > old:
			if _, err := tx.Exec(
				ctx,
				`UPDATE columns SET position = position - 1
				 WHERE board_id = $1 AND position > $2 AND position <= $3`,
				col.BoardID, old, newPos,
			); err != nil {
				return domain.Column{}, err
			}
		case newPos < old:
			if _, err := tx.Exec(
				ctx,
				`UPDATE columns SET position = position + 1
				 WHERE board_id = $1 AND position >= $2 AND position < $3`,
				col.BoardID, newPos, old,
			); err != nil {
				return domain.Column{}, err
			}
		}
		if _, err := tx.Exec(ctx, `UPDATE columns SET position = $2 WHERE id = $1`, id, newPos); err != nil {
			return domain.Column{}, err
		}
		col.Position = newPos
	}

	return col, tx.Commit(ctx)
}

// Delete removes the column and compacts the positions after it.
func (r *Repository) Delete(ctx context.Context, id string) error {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var (
		boardID string
		pos     int
	)
	err = tx.QueryRow(
		ctx,
		`DELETE FROM columns WHERE id = $1 RETURNING board_id, position`,
		id,
	).Scan(&boardID, &pos)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.ErrNotFound
	}
	if err != nil {
		return err
	}

	if _, err := tx.Exec(
		ctx,
		`UPDATE columns SET position = position - 1 WHERE board_id = $1 AND position > $2`,
		boardID, pos,
	); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
