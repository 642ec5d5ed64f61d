package controllers

import (
	"testing"
	"time"

	"github.com/raulcamp/good-deeds/models"
)

func TestNewGrant_ExternalRewardIsPreRedeemed(t *testing.T) {
	now := time.Now()
	external := &models.Reward{ID: 3, Internal: false}

	grant := newGrant(7, external, now)
	if !grant.Redeemed {
		t.Fatal("externally sourced reward must be granted already redeemed")
	}
	if grant.UserID != 7 || grant.RewardID != 3 {
		t.Fatalf("grant mislinked: %+v", grant)
	}
}

func TestNewGrant_InternalRewardStaysOpen(t *testing.T) {
	now := time.Now()
	internal := &models.Reward{ID: 5, Internal: true}

	grant := newGrant(7, internal, now)
	if grant.Redeemed {
		t.Fatal("internal reward must stay unredeemed until the user redeems it")
	}
}

func TestNewGrant_ExpiryWindow(t *testing.T) {
	now := time.Now()
	grant := newGrant(7, &models.Reward{ID: 1}, now)

	if !grant.ExpiryDate.Equal(now.Add(models.GrantValidity)) {
		t.Fatalf("expiry should be grant time plus %s, got %s", models.GrantValidity, grant.ExpiryDate.Sub(now))
	}
	if !grant.RedeemDate.Equal(now) {
		t.Fatalf("redeem date should be the grant time, got %s", grant.RedeemDate)
	}
}
