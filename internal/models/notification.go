package models

import "time"

// Notification is one delivered "new post" alert, written by the fan-out
// worker. It carries a reference to the post rather than a copy of it; the
// title is denormalized only for display.
type Notification struct {
	ID         int       `gorm:"primaryKey" json:"id"`
	UserID     int       `gorm:"not null;index" json:"user_id"` // recipient
	PostID     int       `gorm:"not null" json:"post_id"`
	PostTitle  string    `json:"post_title"`
	AuthorID   int       `gorm:"not null" json:"author_id"`
	AuthorName string    `json:"author_name"`
	CreatedAt  time.Time `json:"created_at"`
}
