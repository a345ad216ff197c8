package dashboard

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Julz681/KanMind-Backend/internal/auth"
)

// Summary aggregates the tickets visible to one user.
type Summary struct {
	TicketsTotal int            `json:"tickets_total"`
	BoardsTotal  int            `json:"boards_total"`
	ByPriority   map[string]int `json:"by_priority"`
	ByColumn     map[string]int `json:"by_column"`
}

// Store computes the dashboard aggregates.
type Store interface {
	Summary(ctx context.Context, userID string) (Summary, error)
}

type Repo struct {
	DB *pgxpool.Pool
}

func (r Repo) Summary(ctx context.Context, userID string) (Summary, error) {
	s := Summary{ByPriority: map[string]int{}, ByColumn: map[string]int{}}

	err := r.DB.QueryRow(ctx, `
		SELECT COUNT(*) FROM board_members WHERE user_id = $1
	`, userID).Scan(&s.BoardsTotal)
	if err != nil {
		return Summary{}, err
	}

	rows, err := r.DB.Query(ctx, `
		SELECT t.priority, c.title, COUNT(*)
		FROM tickets t
		JOIN columns c ON c.id = t.column_id
		JOIN board_members m ON m.board_id = c.board_id
		WHERE m.user_id = $1
		GROUP BY t.priority, c.title
	`, userID)
	if err != nil {
		return Summary{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			priority string
			column   string
			count    int
		)
		if err := rows.Scan(&priority, &column, &count); err != nil {
			return Summary{}, err
		}
		s.TicketsTotal += count
		s.ByPriority[priority] += count
		s.ByColumn[column] += count
	}
	return s, rows.Err()
}

type Handler struct {
	Store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{Store: store}
}

// Get returns the aggregates backing the dashboard widgets.
func (h *Handler) Get(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}

	s, err := h.Store.Summary(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(s)
}
