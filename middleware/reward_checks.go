package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/raulcamp/good-deeds/database"
	"github.com/raulcamp/good-deeds/models"
	"github.com/raulcamp/good-deeds/utils"
)

// AcquireRewardRequest is the decoded body of PATCH /api/user, which
// spends kudos on a catalog reward.
type AcquireRewardRequest struct {
	RewardID uint `json:"rewardID"`
}

// AcquireRewardBody returns the parsed body stashed by ParseAcquireReward.
func AcquireRewardBody(r *http.Request) *AcquireRewardRequest {
	body, _ := r.Context().Value(acquireRewardKey).(*AcquireRewardRequest)
	return body
}

// RewardFromContext returns the reward loaded by RewardExists.
func RewardFromContext(r *http.Request) *models.Reward {
	reward, _ := r.Context().Value(rewardKey).(*models.Reward)
	return reward
}

// ParseAcquireReward decodes the acquisition body for the chain.
func ParseAcquireReward(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body AcquireRewardRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		ctx := context.WithValue(r.Context(), acquireRewardKey, &body)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RewardExists loads the referenced catalog reward and stashes it.
func RewardExists(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := AcquireRewardBody(r)
		var reward models.Reward
		if err := database.DB.First(&reward, body.RewardID).Error; err != nil {
			utils.WriteError(w, http.StatusNotFound, "Reward could not be found!")
			return
		}
		ctx := context.WithValue(r.Context(), rewardKey, &reward)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CanAcquireReward gates acquisition on the caller's kudos balance.
func CanAcquireReward(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reward := RewardFromContext(r)
		uid, _ := utils.GetUserID(r)
		var user models.User
		if err := database.DB.First(&user, uid).Error; err != nil {
			utils.WriteError(w, http.StatusUnauthorized, "You must be logged in first!")
			return
		}
		if user.Kudos < reward.KudosValue {
			utils.WriteError(w, http.StatusUnauthorized, "You don't have enough kudos to acquire this reward!")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RewardsQueryLoggedIn requires a session when the listing asks for a
// specific user's rewards.
func RewardsQueryLoggedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("byUser") != "" {
			if _, ok := utils.GetUserID(r); !ok {
				utils.WriteError(w, http.StatusUnauthorized, "You must be logged in first!")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RewardsFilterScoped rejects the redeemed/expired filters when no user
// scope was given, since they only apply to granted rewards.
func RewardsFilterScoped(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("byUser") == "" && (q.Get("unredeemedOnly") != "" || q.Get("unexpiredOnly") != "") {
			utils.WriteError(w, http.StatusUnauthorized,
				"You must be viewing rewards associated with a user to specify filtering parameters!")
			return
		}
		next.ServeHTTP(w, r)
	})
}
