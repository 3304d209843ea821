package domain

import "time"

// User is an account identity. Password always holds the bcrypt hash once the
// record has passed through the auth service; plaintext never reaches a store.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"-" validate:"required,min=8"`
}

// Preference holds per-user UI settings. At most one record per user is
// meaningful; stores expose it through an upsert keyed by UserID.
type Preference struct {
	ID            string `json:"id"`
	UserID        string `json:"user_id"`
	Theme         string `json:"theme" validate:"required"`
	Currency      string `json:"currency" validate:"required,len=3"`
	Language      string `json:"language" validate:"required"`
	Notifications bool   `json:"notifications"`
}

// Transaction is a ledger entry owned by a single user.
type Transaction struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name" validate:"required"`
	Amount      float64   `json:"amount" validate:"required"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Category    string    `json:"category"`
	Source      string    `json:"source"`
}
