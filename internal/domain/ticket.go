package domain

import "time"

// Priority of a ticket.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Ticket lives in a column. BoardID is resolved through the column and
// denormalized onto the struct by the repositories so permission checks
// never need a second lookup. Position is dense per column (0..n-1).
type Ticket struct {
	ID          string    `db:"id" json:"id"`
	ColumnID    string    `db:"column_id" json:"column"`
	BoardID     string    `db:"board_id" json:"board"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Priority    Priority  `db:"priority" json:"priority"`
	DueDate     *Date     `db:"due_date" json:"due_date"`
	AssigneeID  *string   `db:"assignee_id" json:"assignee"`
	ReviewerID  *string   `db:"reviewer_id" json:"reviewer"`
	Position    int       `db:"position" json:"position"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Comment is attached to a ticket. Author is embedded for display.
type Comment struct {
	ID        string    `db:"id" json:"id"`
	TicketID  string    `db:"ticket_id" json:"ticket"`
	Author    UserMini  `json:"author"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
