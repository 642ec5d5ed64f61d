package controllers

import (
	"net/http"
	"time"

	"github.com/raulcamp/good-deeds/database"
	"github.com/raulcamp/good-deeds/middleware"
	"github.com/raulcamp/good-deeds/models"
	"github.com/raulcamp/good-deeds/utils"
)

// ListRewardsHandler returns the reward catalog cheapest-first, or one
// user's granted rewards when byUser= is given. unredeemedOnly and
// unexpiredOnly narrow the user-scoped view.
func ListRewardsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	byUser := q.Get("byUser")

	if byUser == "" {
		var rewards []models.Reward
		if err := database.DB.Order("kudos_value asc").Find(&rewards).Error; err != nil {
			utils.WriteError(w, http.StatusInternalServerError, "Rewards could not be loaded")
			return
		}
		utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
			Success: true,
			Message: "Rewards loaded",
			Data:    map[string]interface{}{"rewards": rewards},
		})
		return
	}

	var user models.User
	if err := database.DB.Where("username = ?", byUser).First(&user).Error; err != nil {
		utils.WriteError(w, http.StatusNotFound, "User could not be found!")
		return
	}

	var granted []models.UserReward
	if err := database.DB.Preload("Reward").Where("user_id = ?", user.ID).
		Order("created_at desc").Find(&granted).Error; err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Rewards could not be loaded")
		return
	}

	now := time.Now()
	filtered := granted[:0]
	for i := range granted {
		if q.Get("unredeemedOnly") == "true" && granted[i].Redeemed {
			continue
		}
		if q.Get("unexpiredOnly") == "true" && now.After(granted[i].ExpiryDate) {
			continue
		}
		filtered = append(filtered, granted[i])
	}
	if filtered == nil {
		filtered = []models.UserReward{}
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Rewards loaded",
		Data:    map[string]interface{}{"rewards": filtered},
	})
}

// newGrant builds the acquisition record. Externally sourced rewards are
// handed over at purchase, so they are granted already redeemed; internal
// ones stay open until the user redeems them.
func newGrant(userID uint, reward *models.Reward, now time.Time) models.UserReward {
	return models.UserReward{
		UserID:     userID,
		RewardID:   reward.ID,
		Redeemed:   !reward.Internal,
		RedeemDate: now,
		ExpiryDate: now.Add(models.GrantValidity),
	}
}

// AcquireRewardHandler spends the caller's kudos on a catalog reward.
func AcquireRewardHandler(w http.ResponseWriter, r *http.Request) {
	uid, _ := utils.GetUserID(r)
	reward := middleware.RewardFromContext(r)

	if err := adjustKudos(uid, -reward.KudosValue, models.EntryReward, reward.Name); err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Reward could not be acquired")
		return
	}

	grant := newGrant(uid, reward, time.Now())
	if err := database.DB.Create(&grant).Error; err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Reward could not be acquired")
		return
	}

	database.DB.Preload("Reward").First(&grant, grant.ID)
	var user models.User
	database.DB.First(&user, uid)
	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Reward acquired",
		Data: map[string]interface{}{
			"userReward": grant,
			"kudos":      user.Kudos,
		},
	})
}
