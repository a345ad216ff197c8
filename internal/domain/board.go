package domain

import "time"

type Board struct {
	ID        string    `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	OwnerID   string    `db:"owner_id" json:"owner_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Column belongs to a board. Position is dense per board (0..n-1) and
// defines the left-to-right order.
type Column struct {
	ID       string `db:"id" json:"id"`
	BoardID  string `db:"board_id" json:"board"`
	Title    string `db:"title" json:"title"`
	Position int    `db:"position" json:"position"`
}
