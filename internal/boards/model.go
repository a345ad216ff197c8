package boards

import "github.com/Julz681/KanMind-Backend/internal/domain"

type createRequest struct {
	Title string `json:"title"`
}

// updateRequest is a PATCH body. A nil field was absent from the payload.
// Members, when present, replaces the full member set (the owner is always
// retained).
type updateRequest struct {
	Title   *string   `json:"title"`
	Members *[]string `json:"members"`
}

// Detail is the board payload with members and the column/ticket tree.
type Detail struct {
	domain.Board
	Members []domain.UserMini `json:"members"`
	Columns []ColumnTickets   `json:"columns"`
}

// ColumnTickets is a column with its tickets in position order.
type ColumnTickets struct {
	domain.Column
	Tickets []domain.Ticket `json:"tickets"`
}
