package models

import "time"

// Feedback is an immutable review exchanged between two users over a deed.
type Feedback struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FromUserID uint      `gorm:"not null;index" json:"from_user_id"`
	FromUser   User      `json:"from_user"`
	ToUserID   uint      `gorm:"not null;index" json:"to_user_id"`
	ToUser     User      `json:"to_user"`
	DeedID     uint      `gorm:"not null;index" json:"deed_id"`
	Deed       Deed      `json:"deed"`
	Mood       string    `gorm:"size:50;not null" json:"mood"`
	Review     string    `gorm:"type:text;not null" json:"review"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Feedback) TableName() string {
	return "feedbacks"
}
