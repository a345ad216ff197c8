package tickets

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Julz681/KanMind-Backend/internal/apperr"
	"github.com/Julz681/KanMind-Backend/internal/domain"
)

type Repository struct {
	Pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{Pool: pool}
}

const ticketSelect = `
	SELECT t.id, t.column_id, c.board_id, t.title, t.description, t.priority,
	       t.due_date, t.assignee_id, t.reviewer_id, t.position, t.created_at, t.updated_at
	FROM tickets t
	JOIN columns c ON c.id = t.column_id`

// Create inserts a ticket keeping positions dense within its column.
func (r *Repository) Create(ctx context.Context, p CreateParams) (domain.Ticket, error) {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return domain.Ticket{}, err
	}
	defer tx.Rollback(ctx)

	var count int
	if err := tx.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM tickets WHERE column_id = $1`,
		p.ColumnID,
	).Scan(&count); err != nil {
		return domain.Ticket{}, err
	}
	pos := clampInsert(p.Position, count)

	if _, err := tx.Exec(
		ctx,
		`UPDATE tickets SET position = position + 1 WHERE column_id = $1 AND position >= $2`,
		p.ColumnID, pos,
	); err != nil {
		return domain.Ticket{}, err
	}

	var due *time.Time
	if p.DueDate != nil {
		due = &p.DueDate.Time
	}

	var id string
	err = tx.QueryRow(
		ctx,
		`INSERT INTO tickets (column_id, title, description, priority, due_date, assignee_id, reviewer_id, position)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
         RETURNING id`,
		p.ColumnID, p.Title, p.Description, p.Priority, due, p.AssigneeID, p.ReviewerID, pos,
	).Scan(&id)
	if err != nil {
		return domain.Ticket{}, err
	}

	t, err := r.getTx(ctx, tx, id)
	if err != nil {
		return domain.Ticket{}, err
	}
	return t, tx.Commit(ctx)
}

func (r *Repository) Get(ctx context.Context, id string) (domain.Ticket, error) {
	return scanTicket(r.Pool.QueryRow(ctx, ticketSelect+` WHERE t.id = $1`, id))
}

func (r *Repository) getTx(ctx context.Context, tx pgx.Tx, id string) (domain.Ticket, error) {
	return scanTicket(tx.QueryRow(ctx, ticketSelect+` WHERE t.id = $1`, id))
}

// ListForUser returns tickets on boards the user belongs to. Filters are
// applied in the query, before ordering.
func (r *Repository) ListForUser(ctx context.Context, userID string, f Filter) ([]domain.Ticket, error) {
	query := ticketSelect + `
	JOIN board_members m ON m.board_id = c.board_id
	WHERE m.user_id = $1`
	args := []interface{}{userID}

	if f.ColumnID != "" {
		args = append(args, f.ColumnID)
		query += fmt.Sprintf(" AND t.column_id = $%d", len(args))
	}
	if f.AssignedToMe {
		query += " AND t.assignee_id = $1"
	}
	if f.Reviewing {
		query += " AND t.reviewer_id = $1"
	}
	query += " ORDER BY c.board_id, c.position, t.position"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := []domain.Ticket{}
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

// Update applies field changes and moves. A move, within a column or across
// columns, renumbers both affected position ranges in one transaction.
func (r *Repository) Update(ctx context.Context, id string, p UpdateParams) (domain.Ticket, error) {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return domain.Ticket{}, err
	}
	defer tx.Rollback(ctx)

	var (
		columnID string
		position int
	)
	err = tx.QueryRow(
		ctx,
		`SELECT column_id, position FROM tickets WHERE id = $1 FOR UPDATE`,
		id,
	).Scan(&columnID, &position)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Ticket{}, apperr.ErrNotFound
	}
	if err != nil {
		return domain.Ticket{}, err
	}

	if p.Title != nil {
		if _, err := tx.Exec(ctx, `UPDATE tickets SET title = $2 WHERE id = $1`, id, *p.Title); err != nil {
			return domain.Ticket{}, err
		}
	}
	if p.Description != nil {
		if _, err := tx.Exec(ctx, `UPDATE tickets SET description = $2 WHERE id = $1`, id, *p.Description); err != nil {
			return domain.Ticket{}, err
		}
	}
	if p.Priority != nil {
		if _, err := tx.Exec(ctx, `UPDATE tickets SET priority = $2 WHERE id = $1`, id, *p.Priority); err != nil {
			return domain.Ticket{}, err
		}
	}
	if p.DueDate != nil || p.ClearDueDate {
		var due *time.Time
		if p.DueDate != nil {
			due = &p.DueDate.Time
		}
		if _, err := tx.Exec(ctx, `UPDATE tickets SET due_date = $2 WHERE id = $1`, id, due); err != nil {
			return domain.Ticket{}, err
		}
	}
	if p.AssigneeID != nil || p.ClearAssignee {
		if _, err := tx.Exec(ctx, `UPDATE tickets SET assignee_id = $2 WHERE id = $1`, id, p.AssigneeID); err != nil {
			return domain.Ticket{}, err
		}
	}
	if p.ReviewerID != nil || p.ClearReviewer {
		if _, err := tx.Exec(ctx, `UPDATE tickets SET reviewer_id = $2 WHERE id = $1`, id, p.ReviewerID); err != nil {
			return domain.Ticket{}, err
		}
	}

	switch {
	case p.ColumnID != nil && *p.ColumnID != columnID:
		if err := r.moveAcross(ctx, tx, id, columnID, position, *p.ColumnID, p.Position); err != nil {
			return domain.Ticket{}, err
		}
	case p.Position != nil:
		if err := r.moveWithin(ctx, tx, id, columnID, position, *p.Position); err != nil {
			return domain.Ticket{}, err
		}
	}

	if _, err := tx.Exec(ctx, `UPDATE tickets SET updated_at = now() WHERE id = $1`, id); err != nil {
		return domain.Ticket{}, err
	}

	t, err := r.getTx(ctx, tx, id)
	if err != nil {
		return domain.Ticket{}, err
	}
	return t, tx.Commit(ctx)
}

func (r *Repository) moveWithin(ctx context.Context, tx pgx.Tx, id, columnID string, old, requested int) error {
	var count int
	if err := tx.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM tickets WHERE column_id = $1`,
		columnID,
	).Scan(&count); err != nil {
		return err
	}
	newPos := clampMove(requested, count)

	switch {
	case newPos > old:
		if _, err := tx.Exec(
			ctx,
			`UPDATE tickets SET position = position - 1
			 WHERE column_id = $1 AND position > $2 AND position <= $3`,
			columnID, old, newPos,
		); err != nil {
			return err
		}
	case newPos < old:
		if _, err := tx.Exec(
			ctx,
			`UPDATE tickets SET position = position + 1
			 WHERE column_id = $1 AND position >= $2 AND position < $3`,
			columnID, newPos, old,
		); err != nil {
			return err
		}
	default:
		return nil
	}

	_, err := tx.Exec(ctx, `UPDATE tickets SET position = $2 WHERE id = $1`, id, newPos)
	return err
}

// moveAcross compacts the source column and opens a slot in the target.
func (r *Repository) moveAcross(ctx context.Context, tx pgx.Tx, id, fromColumn string, old int, toColumn string, requested *int) error {
	if _, err := tx.Exec(
		ctx,
		`UPDATE tickets SET position = position - 1 WHERE column_id = $1 AND position > $2`,
		fromColumn, old,
	); err != nil {
		return err
	}

	var count int
	if err := tx.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM tickets WHERE column_id = $1`,
		toColumn,
	).Scan(&count); err != nil {
		return err
	}
	pos := count // append by default
	if requested != nil {
		pos = clampInsert(*requested, count)
	}

	if _, err := tx.Exec(
		ctx,
		`UPDATE tickets SET position = position + 1 WHERE column_id = $1 AND position >= $2`,
		toColumn, pos,
	); err != nil {
		return err
	}

	_, err := tx.Exec(
		ctx,
		`UPDATE tickets SET column_id = $2, position = $3 WHERE id = $1`,
		id, toColumn, pos,
	)
	return err
}

// Delete removes the ticket and compacts its column.
func (r *Repository) Delete(ctx context.Context, id string) error {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var (
		columnID string
		pos      int
	)
	err = tx.QueryRow(
		ctx,
		`DELETE FROM tickets WHERE id = $1 RETURNING column_id, position`,
		id,
	).Scan(&columnID, &pos)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.ErrNotFound
	}
	if err != nil {
		return err
	}

	if _, err := tx.Exec(
		ctx,
		`UPDATE tickets SET position = position - 1 WHERE column_id = $1 AND position > $2`,
		columnID, pos,
	); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func scanTicket(row pgx.Row) (domain.Ticket, error) {
	var (
		t   domain.Ticket
		due *time.Time
	)
	err := row.Scan(
		&t.ID, &t.ColumnID, &t.BoardID, &t.Title, &t.Description, &t.Priority,
		&due, &t.AssigneeID, &t.ReviewerID, &t.Position, &t.CreatedAt, &t.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Ticket{}, apperr.ErrNotFound
	}
	if err != nil {
		return domain.Ticket{}, err
	}
	if due != nil {
		d := domain.NewDate(*due)
		t.DueDate = &d
	}
	return t, nil
}
