package tickets

import (
	"context"

	"github.com/Julz681/KanMind-Backend/internal/domain"
)

type createRequest struct {
	Column      string  `json:"column"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Priority    string  `json:"priority"`
	DueDate     *string `json:"due_date"`
	Assignee    *string `json:"assignee"`
	Reviewer    *string `json:"reviewer"`
	Position    *int    `json:"position"`
}

// updateRequest is a PATCH body; nil means the field was absent. For
// due_date, assignee and reviewer an empty string clears the field.
type updateRequest struct {
	Column      *string `json:"column"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Priority    *string `json:"priority"`
	DueDate     *string `json:"due_date"`
	Assignee    *string `json:"assignee"`
	Reviewer    *string `json:"reviewer"`
	Position    *int    `json:"position"`
}

// CreateParams is the validated input the store persists.
type CreateParams struct {
	ColumnID    string
	Title       string
	Description string
	Priority    domain.Priority
	DueDate     *domain.Date
	AssigneeID  *string
	ReviewerID  *string
	Position    int // -1 appends
}

// UpdateParams carries the validated PATCH changes. Clear* flags distinguish
// "set to nothing" from "leave untouched".
type UpdateParams struct {
	ColumnID      *string
	Title         *string
	Description   *string
	Priority      *domain.Priority
	DueDate       *domain.Date
	ClearDueDate  bool
	AssigneeID    *string
	ClearAssignee bool
	ReviewerID    *string
	ClearReviewer bool
	Position      *int
}

// Filter narrows ticket listings. Membership filtering always applies first.
type Filter struct {
	ColumnID     string
	AssignedToMe bool
	Reviewing    bool
}

// Store is the ticket store consumed by the handler.
type Store interface {
	Create(ctx context.Context, p CreateParams) (domain.Ticket, error)
	Get(ctx context.Context, id string) (domain.Ticket, error)
	ListForUser(ctx context.Context, userID string, f Filter) ([]domain.Ticket, error)
	Update(ctx context.Context, id string, p UpdateParams) (domain.Ticket, error)
	Delete(ctx context.Context, id string) error
}

// ColumnStore resolves a ticket's parent column; satisfied by
// *columns.Repository.
type ColumnStore interface {
	Get(ctx context.Context, id string) (domain.Column, error)
}
