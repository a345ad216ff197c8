package domain

import "time"

// User represents a persisted account record.
type User struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	FullName     string    `db:"fullname" json:"fullname"`
	PasswordHash string    `db:"password_hash" json:"-"`
	IsGuest      bool      `db:"is_guest" json:"is_guest"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// UserMini is the lightweight user view embedded in board and ticket payloads.
type UserMini struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullname"`
}

func (u User) Mini() UserMini {
	return UserMini{ID: u.ID, Email: u.Email, FullName: u.FullName}
}
