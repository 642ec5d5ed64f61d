package controllers

import (
	"log"
	"net/http"

	"github.com/raulcamp/good-deeds/database"
	"github.com/raulcamp/good-deeds/middleware"
	"github.com/raulcamp/good-deeds/models"
	"github.com/raulcamp/good-deeds/utils"
)

// CreateFeedbackHandler stores a review from the caller to another user on
// a specific deed, and marks the caller as having given feedback on it.
func CreateFeedbackHandler(w http.ResponseWriter, r *http.Request) {
	uid, _ := utils.GetUserID(r)
	body := middleware.FeedbackBody(r)

	feedback := models.Feedback{
		FromUserID: uid,
		ToUserID:   body.ToUser.ID,
		DeedID:     body.DeedID,
		Mood:       body.Mood,
		Review:     body.Review,
	}
	if err := database.DB.Create(&feedback).Error; err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Feedback could not be created")
		return
	}

	// record the giver on the deed so delinquency checks can settle it
	err := database.DB.Model(&models.Deed{ID: body.DeedID}).
		Association("FeedbackGiven").Append(&models.User{ID: uid})
	if err != nil {
		log.Printf("[feedback] linking giver %d to deed %d: %v", uid, body.DeedID, err)
	}

	database.DB.Preload("FromUser").Preload("ToUser").Preload("Deed").First(&feedback, feedback.ID)
	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Feedback created",
		Data:    map[string]interface{}{"feedback": feedback},
	})
}

// ListFeedbackHandler returns reviews given by (from=) or received by
// (to=) a user. One of the two scopes is required.
func ListFeedbackHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from := q.Get("from")
	to := q.Get("to")

	if from == "" && to == "" {
		utils.WriteError(w, http.StatusForbidden, "You must specify a user to view feedback!")
		return
	}

	query := database.DB.Preload("FromUser").Preload("ToUser").Preload("Deed").
		Order("created_at desc")

	if from != "" {
		var user models.User
		if err := database.DB.Where("username = ?", from).First(&user).Error; err != nil {
			utils.WriteError(w, http.StatusNotFound, "User could not be found!")
			return
		}
		query = query.Where("from_user_id = ?", user.ID)
	}
	if to != "" {
		var user models.User
		if err := database.DB.Where("username = ?", to).First(&user).Error; err != nil {
			utils.WriteError(w, http.StatusNotFound, "User could not be found!")
			return
		}
		query = query.Where("to_user_id = ?", user.ID)
	}

	var feedbacks []models.Feedback
	if err := query.Find(&feedbacks).Error; err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Feedback could not be loaded")
		return
	}
	if feedbacks == nil {
		feedbacks = []models.Feedback{}
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Feedback loaded",
		Data:    map[string]interface{}{"feedback": feedbacks},
	})
}
