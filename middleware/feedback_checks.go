package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/raulcamp/good-deeds/database"
	"github.com/raulcamp/good-deeds/models"
	"github.com/raulcamp/good-deeds/utils"
)

// FeedbackRequest is the decoded body of POST /api/feedback. Username
// names the helper being reviewed; DeedID ties the review to a deed.
type FeedbackRequest struct {
	Username string `json:"username"`
	DeedID   uint   `json:"deed"`
	Mood     string `json:"mood"`
	Review   string `json:"review"`

	// ToUser is resolved by FeedbackTargetExists.
	ToUser *models.User `json:"-"`
}

// FeedbackBody returns the parsed feedback body stashed by ParseFeedback.
func FeedbackBody(r *http.Request) *FeedbackRequest {
	body, _ := r.Context().Value(feedbackKey).(*FeedbackRequest)
	return body
}

// ParseFeedback decodes the feedback body for the chain.
func ParseFeedback(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body FeedbackRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		ctx := context.WithValue(r.Context(), feedbackKey, &body)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ReviewValid rejects empty or whitespace-only review text and moods.
func ReviewValid(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := FeedbackBody(r)
		if strings.TrimSpace(body.Review) == "" {
			utils.WriteError(w, http.StatusBadRequest, "You must specify a valid review!")
			return
		}
		if strings.TrimSpace(body.Mood) == "" {
			utils.WriteError(w, http.StatusBadRequest, "You must specify a valid mood!")
			return
		}
		body.Review = strings.TrimSpace(body.Review)
		body.Mood = strings.TrimSpace(body.Mood)
		next.ServeHTTP(w, r)
	})
}

// FeedbackTargetExists resolves the reviewed user and stashes them on
// the parsed body.
func FeedbackTargetExists(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := FeedbackBody(r)
		var user models.User
		if err := database.DB.Where("username = ?", body.Username).First(&user).Error; err != nil {
			utils.WriteError(w, http.StatusNotFound, "User could not be found!")
			return
		}
		body.ToUser = &user
		next.ServeHTTP(w, r)
	})
}

// FeedbackDeedExists verifies the deed the review is attached to.
func FeedbackDeedExists(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := FeedbackBody(r)
		var deed models.Deed
		if err := database.DB.First(&deed, body.DeedID).Error; err != nil {
			utils.WriteError(w, http.StatusNotFound, "Deed was not found. Please try to delete later!")
			return
		}
		next.ServeHTTP(w, r)
	})
}
