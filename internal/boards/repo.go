package boards

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Julz681/KanMind-Backend/internal/apperr"
	"github.com/Julz681/KanMind-Backend/internal/domain"
	"github.com/Julz681/KanMind-Backend/internal/policy"
)

// ErrUnknownMember is returned by ReplaceMembers when a user id in the new
// member set does not exist.
var ErrUnknownMember = errors.New("unknown member")

// Store is the board graph store consumed by the handler.
type Store interface {
	Create(ctx context.Context, title, ownerID string) (domain.Board, error)
	Get(ctx context.Context, id string) (domain.Board, error)
	ListForUser(ctx context.Context, userID string) ([]domain.Board, error)
	Detail(ctx context.Context, id string) (Detail, error)
	UpdateTitle(ctx context.Context, id, title string) error
	ReplaceMembers(ctx context.Context, boardID, ownerID string, memberIDs []string) error
	Delete(ctx context.Context, id string) error
	Access(ctx context.Context, boardID, userID string) (policy.Access, error)
}

type Repository struct {
	Pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{Pool: pool}
}

// Create inserts the board and the owner's implicit membership in one
// transaction so a board can never exist without its owner as member.
func (r *Repository) Create(ctx context.Context, title, ownerID string) (domain.Board, error) {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return domain.Board{}, err
	}
	defer tx.Rollback(ctx)

	var b domain.Board
	err = tx.QueryRow(
		ctx,
		`INSERT INTO boards (title, owner_id)
         VALUES ($1, $2)
         RETURNING id, title, owner_id, created_at`,
		title, ownerID,
	).Scan(&b.ID, &b.Title, &b.OwnerID, &b.CreatedAt)
	if err != nil {
		return domain.Board{}, err
	}

	if _, err := tx.Exec(
		ctx,
		`INSERT INTO board_members (board_id, user_id) VALUES ($1, $2)`,
		b.ID, ownerID,
	); err != nil {
		return domain.Board{}, err
	}

	return b, tx.Commit(ctx)
}

func (r *Repository) Get(ctx context.Context, id string) (domain.Board, error) {
	var b domain.Board
	err := r.Pool.QueryRow(
		ctx,
		`SELECT id, title, owner_id, created_at FROM boards WHERE id = $1`,
		id,
	).Scan(&b.ID, &b.Title, &b.OwnerID, &b.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Board{}, apperr.ErrNotFound
	}
	if err != nil {
		return domain.Board{}, err
	}
	return b, nil
}

func (r *Repository) ListForUser(ctx context.Context, userID string) ([]domain.Board, error) {
	rows, err := r.Pool.Query(
		ctx,
		`SELECT b.id, b.title, b.owner_id, b.created_at
		 FROM boards b
		 JOIN board_members m ON m.board_id = b.id
		 WHERE m.user_id = $1
		 ORDER BY b.created_at, b.id`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	boards := []domain.Board{}
	for rows.Next() {
		var b domain.Board
		if err := rows.Scan(&b.ID, &b.Title, &b.OwnerID, &b.CreatedAt); err != nil {
			return nil, err
		}
		boards = append(boards, b)
	}
	return boards, rows.Err()
}

// Access resolves the caller's relationship to a board in one query.
func (r *Repository) Access(ctx context.Context, boardID, userID string) (policy.Access, error) {
	var a policy.Access
	err := r.Pool.QueryRow(
		ctx,
		`SELECT b.owner_id = $2,
		        EXISTS (SELECT 1 FROM board_members m WHERE m.board_id = b.id AND m.user_id = $2)
		 FROM boards b WHERE b.id = $1`,
		boardID, userID,
	).Scan(&a.Owner, &a.Member)
	if errors.Is(err, pgx.ErrNoRows) {
		return policy.Access{}, nil
	}
	if err != nil {
		return policy.Access{}, err
	}
	a.Exists = true
	return a, nil
}

func (r *Repository) Detail(ctx context.Context, id string) (Detail, error) {
	b, err := r.Get(ctx, id)
	if err != nil {
		return Detail{}, err
	}

	members, err := r.members(ctx, id)
	if err != nil {
		return Detail{}, err
	}

	columns, err := r.columnTree(ctx, id)
	if err != nil {
		return Detail{}, err
	}

	return Detail{Board: b, Members: members, Columns: columns}, nil
}

func (r *Repository) members(ctx context.Context, boardID string) ([]domain.UserMini, error) {
	rows, err := r.Pool.Query(
		ctx,
		`SELECT u.id, u.email, u.fullname
		 FROM users u
		 JOIN board_members m ON m.user_id = u.id
		 WHERE m.board_id = $1
		 ORDER BY m.added_at, u.id`,
		boardID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := []domain.UserMini{}
	for rows.Next() {
		var u domain.UserMini
		if err := rows.Scan(&u.ID, &u.Email, &u.FullName); err != nil {
			return nil, err
		}
		members = append(members, u)
	}
	return members, rows.Err()
}

func (r *Repository) columnTree(ctx context.Context, boardID string) ([]ColumnTickets, error) {
	rows, err := r.Pool.Query(
		ctx,
		`SELECT id, board_id, title, position
		 FROM columns WHERE board_id = $1 ORDER BY position`,
		boardID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns := []ColumnTickets{}
	index := map[string]int{}
	for rows.Next() {
		var col domain.Column
		if err := rows.Scan(&col.ID, &col.BoardID, &col.Title, &col.Position); err != nil {
			return nil, err
		}
		index[col.ID] = len(columns)
		columns = append(columns, ColumnTickets{Column: col, Tickets: []domain.Ticket{}})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	trows, err := r.Pool.Query(
		ctx,
		`SELECT t.id, t.column_id, c.board_id, t.title, t.description, t.priority,
		        t.due_date, t.assignee_id, t.reviewer_id, t.position, t.created_at, t.updated_at
		 FROM tickets t
		 JOIN columns c ON c.id = t.column_id
		 WHERE c.board_id = $1
		 ORDER BY c.position, t.position`,
		boardID,
	)
	if err != nil {
		return nil, err
	}
	defer trows.Close()

	for trows.Next() {
		t, err := scanTicket(trows)
		if err != nil {
			return nil, err
		}
		if i, ok := index[t.ColumnID]; ok {
			columns[i].Tickets = append(columns[i].Tickets, t)
		}
	}
	return columns, trows.Err()
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
	if err != nil {
		return domain.Ticket{}, err
	}
	if due != nil {
		d := domain.NewDate(*due)
		t.DueDate = &d
	}
	return t, nil
}

func (r *Repository) UpdateTitle(ctx context.Context, id, title string) error {
	_, err := r.Pool.Exec(ctx, `UPDATE boards SET title = $2 WHERE id = $1`, id, title)
	return err
}

// ReplaceMembers swaps the non-owner member set in one transaction. The
// owner's membership row is never touched.
func (r *Repository) ReplaceMembers(ctx context.Context, boardID, ownerID string, memberIDs []string) error {
	ids := dedupe(memberIDs, ownerID)

	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var known int
	if err := tx.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM users WHERE id = ANY($1)`,
		ids,
	).Scan(&known); err != nil {
		return err
	}
	if known != len(ids) {
		return ErrUnknownMember
	}

	if _, err := tx.Exec(
		ctx,
		`DELETE FROM board_members WHERE board_id = $1 AND user_id <> $2`,
		boardID, ownerID,
	); err != nil {
		return err
	}
	for _, uid := range ids {
		if _, err := tx.Exec(
			ctx,
			`INSERT INTO board_members (board_id, user_id)
			 VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			boardID, uid,
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	_, err := r.Pool.Exec(ctx, `DELETE FROM boards WHERE id = $1`, id)
	return err
}

// dedupe removes duplicates and the owner id, which is handled separately.
func dedupe(ids []string, ownerID string) []string {
	seen := map[string]bool{ownerID: true}
	out := []string{}
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
