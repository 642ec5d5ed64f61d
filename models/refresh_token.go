package models

import (
	"crypto/rand"
	"fmt"
	"time"
)

// RefreshTokenIDLength is the width of the refresh-token id column.
// Issued ids are 48 hex characters; the column leaves headroom.
const RefreshTokenIDLength = 64

// RefreshToken is an opaque server-side token exchanged for new access
// tokens. Rotated on every use.
type RefreshToken struct {
	ID        string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	UserID    uint      `gorm:"index" json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	Revoked   bool      `json:"revoked"`
	CreatedAt time.Time `json:"created_at"`
}

// RevokedToken is the DB fallback blacklist for access-token jtis when no
// Redis revocation store is configured.
type RevokedToken struct {
	ID        string    `gorm:"primaryKey;size:64"`
	RevokedAt time.Time `gorm:"not null"`
}

func (RevokedToken) TableName() string {
	return "revoked_tokens"
}

func NewRefreshToken(userID uint, ttlDays int) (*RefreshToken, error) {
	id, err := generateRandomID(32)
	if err != nil {
		return nil, err
	}
	return &RefreshToken{
		ID:        id,
		UserID:    userID,
		ExpiresAt: time.Now().Add(time.Duration(ttlDays) * 24 * time.Hour),
		Revoked:   false,
		CreatedAt: time.Now(),
	}, nil
}

func generateRandomID(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	const hex = "0123456789abcdef"
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		out[i] = hex[int(b[i])%len(hex)]
	}
	return fmt.Sprintf("rt_%s", string(out)), nil
}
