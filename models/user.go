package models

import "time"

// User is a marketplace participant. Kudos is the integer balance spent on
// posting deeds and acquiring rewards; new accounts start with 100.
type User struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Username    string       `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Password    string       `gorm:"size:255;not null" json:"-"`
	PhoneNumber string       `gorm:"size:20;uniqueIndex;not null" json:"phone_number"`
	Email       *string      `gorm:"size:100" json:"email,omitempty"`
	Kudos       int          `gorm:"not null;default:100" json:"kudos"`
	Avatar      *string      `gorm:"size:255" json:"avatar,omitempty"`
	Rewards     []UserReward `json:"rewards,omitempty"`
	CreatedAt   time.Time    `json:"-"`
	UpdatedAt   time.Time    `json:"-"`
}

func (User) TableName() string {
	return "users"
}
