package models

import "time"

type Income struct {
	ID        int       `json:"id"`
	AccountID int       `json:"-"`
	Source    string    `json:"source"`
	Amount    float64   `json:"amount"`
	Category  string    `json:"category"`
	Date      time.Time `json:"date"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
