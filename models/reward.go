package models

import "time"

// GrantValidity is how long an acquired reward stays redeemable.
const GrantValidity = 7 * 24 * time.Hour

// Reward is a static catalog entry users spend kudos on. Internal marks
// rewards fulfilled by the platform itself; externally sourced rewards are
// handed over at acquisition time and therefore granted already redeemed.
type Reward struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Source      string    `gorm:"size:100;not null" json:"source"`
	Internal    bool      `gorm:"not null" json:"internal"`
	Description string    `gorm:"type:text;not null" json:"description"`
	KudosValue  int       `gorm:"not null" json:"kudos_value"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

func (Reward) TableName() string {
	return "rewards"
}

// UserReward records one user's acquisition of a catalog reward. Expiry is
// advisory metadata used only for read-side filtering.
type UserReward struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	RewardID   uint      `gorm:"not null" json:"reward_id"`
	Reward     Reward    `json:"reward"`
	Redeemed   bool      `gorm:"not null;default:false" json:"redeemed"`
	RedeemDate time.Time `json:"redeem_date"`
	ExpiryDate time.Time `json:"expiry_date"`
	CreatedAt  time.Time `json:"-"`
}

func (UserReward) TableName() string {
	return "user_rewards"
}
