package models

import "time"

// Deed difficulty levels. Anything else is rejected by request validation
// and never reaches the kudos arithmetic.
const (
	DifficultyLow    = "LOW"
	DifficultyMedium = "MEDIUM"
	DifficultyHigh   = "HIGH"
)

// ValidDifficulty reports whether d is one of the three difficulty levels.
func ValidDifficulty(d string) bool {
	return d == DifficultyLow || d == DifficultyMedium || d == DifficultyHigh
}

// Deed is a help-request task posted by a requester. Kudos holds the
// per-helper rate computed at creation; the total creation cost is
// HelpersNeeded times that rate. Lifecycle states (Open, Filled,
// AwaitingFeedback) are never stored, only derived from helper count, date
// and the completed flag at query time.
type Deed struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	RequesterID    uint      `gorm:"not null;index" json:"requester_id"`
	Requester      User      `json:"requester"`
	Date           time.Time `gorm:"not null" json:"date"`
	Title          string    `gorm:"size:100;not null" json:"title"`
	Description    string    `gorm:"type:text;not null" json:"description"`
	Location       string    `gorm:"size:255;not null" json:"location"`
	Latitude       float64   `gorm:"not null" json:"latitude"`
	Longitude      float64   `gorm:"not null" json:"longitude"`
	Difficulty     string    `gorm:"type:enum('LOW','MEDIUM','HIGH');not null;default:'MEDIUM'" json:"difficulty"`
	EstimatedHours int       `gorm:"not null" json:"estimated_hours"`
	HelpersNeeded  int       `gorm:"not null" json:"helpers_needed"`
	Kudos          int       `gorm:"not null" json:"kudos"`
	Completed      bool      `gorm:"not null;default:false" json:"completed"`
	Helpers        []User    `gorm:"many2many:deed_helpers" json:"helpers"`
	FeedbackGiven  []User    `gorm:"many2many:deed_feedbacks" json:"feedback_given"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"-"`
}

func (Deed) TableName() string {
	return "deeds"
}

// Filled reports whether the deed has reached its requested helper count.
func (d *Deed) Filled() bool {
	return len(d.Helpers) >= d.HelpersNeeded
}

// HasHelper reports whether the user is among the deed's helpers.
func (d *Deed) HasHelper(userID uint) bool {
	for i := range d.Helpers {
		if d.Helpers[i].ID == userID {
			return true
		}
	}
	return false
}

// ForHome reports whether the deed belongs on the home/map listing:
// still short of helpers and scheduled in the future.
func (d *Deed) ForHome(now time.Time) bool {
	return len(d.Helpers) < d.HelpersNeeded && d.Date.After(now)
}

// ForProfile reports whether the deed belongs on its requester's profile:
// it either attracted at least one helper or its date has not passed.
func (d *Deed) ForProfile(now time.Time) bool {
	return len(d.Helpers) > 0 || d.Date.After(now)
}

// Delinquent reports whether the deed is past its date and never completed.
// A requester with a delinquent deed may not create another one until
// feedback settles it.
func (d *Deed) Delinquent(now time.Time) bool {
	return !d.Completed && now.After(d.Date)
}

// SelfRemovalOpen reports whether a helper may still remove themself:
// strictly more than 24 hours remain before the scheduled date.
func (d *Deed) SelfRemovalOpen(now time.Time) bool {
	return now.Before(d.Date.Add(-24 * time.Hour))
}

// RequesterRemovalOpen reports whether the requester may still drop a
// helper: only before the scheduled date.
func (d *Deed) RequesterRemovalOpen(now time.Time) bool {
	return now.Before(d.Date)
}
