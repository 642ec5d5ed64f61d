package models

import "time"

// Kudos entry types, one per balance-mutating operation.
const (
	EntrySignup       = "signup"
	EntryDeedCreate   = "deed_create"
	EntryDeedEdit     = "deed_edit"
	EntryDeedDelete   = "deed_delete"
	EntryDeedComplete = "deed_complete"
	EntryReward       = "reward"
)

// KudosEntry is an advisory history row written after each balance
// mutation. The user's kudos column stays authoritative; entries are never
// summed to reconstruct a balance.
type KudosEntry struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	Amount      int       `gorm:"not null" json:"amount"`
	Flow        string    `gorm:"type:enum('credit','debit');not null" json:"flow"`
	EntryType   string    `gorm:"size:20;not null" json:"entry_type"`
	ReferenceID string    `gorm:"size:40;index" json:"reference_id"`
	Message     *string   `gorm:"size:255" json:"message,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (KudosEntry) TableName() string {
	return "kudos_entries"
}
