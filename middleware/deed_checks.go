package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/raulcamp/good-deeds/database"
	"github.com/raulcamp/good-deeds/models"
	"github.com/raulcamp/good-deeds/utils"
)

// CreateDeedRequest is the decoded body of POST /api/deeds. Validators
// down the chain normalize fields in place before the handler runs.
type CreateDeedRequest struct {
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	Location       string  `json:"location"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	Date           string  `json:"date"`
	Difficulty     string  `json:"difficulty"`
	EstimatedHours int     `json:"estimatedHours"`
	HelpersNeeded  int     `json:"helpersNeeded"`

	// ParsedDate is set by DateValid.
	ParsedDate time.Time `json:"-"`
}

// UpdateDeedRequest is the decoded body of PATCH /api/deeds/{id}. Every
// field is optional; nil means the caller did not send it.
type UpdateDeedRequest struct {
	Title          *string  `json:"title"`
	Description    *string  `json:"description"`
	Location       *string  `json:"location"`
	Latitude       *float64 `json:"latitude"`
	Longitude      *float64 `json:"longitude"`
	Date           *string  `json:"date"`
	Difficulty     *string  `json:"difficulty"`
	EstimatedHours *int     `json:"estimatedHours"`
	HelpersNeeded  *int     `json:"helpersNeeded"`
	Completed      *bool    `json:"completed"`
	Reviewee       *string  `json:"reviewee"`
	NewHelper      *string  `json:"newHelper"`
	RemoveHelper   *string  `json:"removeHelper"`
	RemoveSelf     bool     `json:"removeSelf"`

	ParsedDate *time.Time `json:"-"`
}

// CreateDeedBody returns the parsed create body stashed by ParseCreateDeed.
func CreateDeedBody(r *http.Request) *CreateDeedRequest {
	body, _ := r.Context().Value(createDeedKey).(*CreateDeedRequest)
	return body
}

// UpdateDeedBody returns the parsed update body stashed by ParseUpdateDeed.
func UpdateDeedBody(r *http.Request) *UpdateDeedRequest {
	body, _ := r.Context().Value(updateDeedKey).(*UpdateDeedRequest)
	return body
}

// DeedFromContext returns the deed loaded by DeedExists.
func DeedFromContext(r *http.Request) *models.Deed {
	deed, _ := r.Context().Value(deedKey).(*models.Deed)
	return deed
}

// ParseCreateDeed decodes the create body once so the validators behind
// it can each inspect and normalize a single field.
func ParseCreateDeed(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body CreateDeedRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		ctx := context.WithValue(r.Context(), createDeedKey, &body)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ParseUpdateDeed decodes the PATCH body. Unknown fields are ignored so
// clients can send the record they fetched straight back.
func ParseUpdateDeed(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body UpdateDeedRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if body.Difficulty != nil {
			up := strings.ToUpper(strings.TrimSpace(*body.Difficulty))
			if !models.ValidDifficulty(up) {
				utils.WriteError(w, http.StatusBadRequest, "You must specify a difficulty (LOW, MEDIUM, HIGH)!")
				return
			}
			body.Difficulty = &up
		}
		if body.EstimatedHours != nil && *body.EstimatedHours <= 0 {
			utils.WriteError(w, http.StatusBadRequest, "You must specify a positive number of estimated hours!")
			return
		}
		if body.HelpersNeeded != nil && *body.HelpersNeeded <= 0 {
			utils.WriteError(w, http.StatusBadRequest, "You must specify a positive number of helpers needed!")
			return
		}
		if body.Date != nil {
			parsed, err := parseDeedDate(*body.Date)
			if err != nil {
				utils.WriteError(w, http.StatusBadRequest, "You must specify a valid date!")
				return
			}
			body.ParsedDate = &parsed
		}
		ctx := context.WithValue(r.Context(), updateDeedKey, &body)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func parseDeedDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02T15:04", raw)
}

// TitleValid rejects empty or whitespace-only titles.
func TitleValid(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := CreateDeedBody(r)
		if strings.TrimSpace(body.Title) == "" {
			utils.WriteError(w, http.StatusBadRequest, "You must specify a valid title!")
			return
		}
		body.Title = strings.TrimSpace(body.Title)
		next.ServeHTTP(w, r)
	})
}

// DescriptionValid rejects empty or whitespace-only descriptions.
func DescriptionValid(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := CreateDeedBody(r)
		if strings.TrimSpace(body.Description) == "" {
			utils.WriteError(w, http.StatusBadRequest, "You must specify a valid description!")
			return
		}
		body.Description = strings.TrimSpace(body.Description)
		next.ServeHTTP(w, r)
	})
}

// LocationValid rejects empty or whitespace-only locations.
func LocationValid(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := CreateDeedBody(r)
		if strings.TrimSpace(body.Location) == "" {
			utils.WriteError(w, http.StatusBadRequest, "You must specify a valid location!")
			return
		}
		body.Location = strings.TrimSpace(body.Location)
		next.ServeHTTP(w, r)
	})
}

// DateValid requires a parseable date strictly in the future.
func DateValid(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := CreateDeedBody(r)
		if strings.TrimSpace(body.Date) == "" {
			utils.WriteError(w, http.StatusBadRequest, "You must specify a date!")
			return
		}
		parsed, err := parseDeedDate(body.Date)
		if err != nil {
			utils.WriteError(w, http.StatusBadRequest, "You must specify a valid date!")
			return
		}
		if !parsed.After(time.Now()) {
			utils.WriteError(w, http.StatusBadRequest, "Date must be in the future!")
			return
		}
		body.ParsedDate = parsed
		next.ServeHTTP(w, r)
	})
}

// DifficultyValid normalizes the difficulty to upper case and checks it
// against the known tiers.
func DifficultyValid(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := CreateDeedBody(r)
		up := strings.ToUpper(strings.TrimSpace(body.Difficulty))
		if !models.ValidDifficulty(up) {
			utils.WriteError(w, http.StatusBadRequest, "You must specify a difficulty (LOW, MEDIUM, HIGH)!")
			return
		}
		body.Difficulty = up
		next.ServeHTTP(w, r)
	})
}

// HoursValid requires a positive estimated duration.
func HoursValid(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if CreateDeedBody(r).EstimatedHours <= 0 {
			utils.WriteError(w, http.StatusBadRequest, "You must specify a positive number of estimated hours!")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// HelpersNeededValid requires a positive helper count.
func HelpersNeededValid(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if CreateDeedBody(r).HelpersNeeded <= 0 {
			utils.WriteError(w, http.StatusBadRequest, "You must specify a positive number of helpers needed!")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CanCreateDeed gates creation on the requester's balance covering the
// full posting cost and on having no delinquent deeds awaiting feedback.
func CanCreateDeed(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := CreateDeedBody(r)
		uid, ok := utils.GetUserID(r)
		if !ok {
			utils.WriteError(w, http.StatusUnauthorized, "You must be logged in first!")
			return
		}

		var user models.User
		if err := database.DB.First(&user, uid).Error; err != nil {
			utils.WriteError(w, http.StatusUnauthorized, "You must be logged in first!")
			return
		}

		cost := utils.DeedCost(body.Difficulty, body.EstimatedHours, body.HelpersNeeded)
		if user.Kudos < cost {
			utils.WriteError(w, http.StatusUnauthorized, "You don't have enough kudos to create this deed!")
			return
		}

		var requested []models.Deed
		if err := database.DB.Preload("Helpers").Preload("FeedbackGiven").
			Where("requester_id = ?", uid).Find(&requested).Error; err != nil {
			utils.WriteError(w, http.StatusInternalServerError, "Deed could not be created at this time. Please try again later")
			return
		}
		now := time.Now()
		for _, d := range requested {
			if d.Delinquent(now) {
				utils.WriteError(w, http.StatusUnauthorized, "You must provide feedback on your other deed(s) before creating this deed!")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// DeedExists loads the deed named by the route id, with its requester
// and helper associations, and stashes it for the rest of the chain.
func DeedExists(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
		if err != nil {
			utils.WriteError(w, http.StatusNotFound, "Deed was not found. Please try to delete later!")
			return
		}
		var deed models.Deed
		if err := database.DB.Preload("Requester").Preload("Helpers").Preload("FeedbackGiven").
			First(&deed, uint(id)).Error; err != nil {
			utils.WriteError(w, http.StatusNotFound, "Deed was not found. Please try to delete later!")
			return
		}
		ctx := context.WithValue(r.Context(), deedKey, &deed)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// IsDeedRequester restricts the route to the deed's original requester.
func IsDeedRequester(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		deed := DeedFromContext(r)
		uid, _ := utils.GetUserID(r)
		if deed.RequesterID != uid {
			utils.WriteError(w, http.StatusForbidden, "You must be the requester of the Deed to make changes")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CanEditDeed checks that the requester can cover any cost increase an
// edit to difficulty, hours or helper count would produce.
func CanEditDeed(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := UpdateDeedBody(r)
		if body.Difficulty == nil && body.EstimatedHours == nil && body.HelpersNeeded == nil {
			next.ServeHTTP(w, r)
			return
		}
		deed := DeedFromContext(r)
		uid, _ := utils.GetUserID(r)

		difficulty := deed.Difficulty
		if body.Difficulty != nil {
			difficulty = *body.Difficulty
		}
		hours := deed.EstimatedHours
		if body.EstimatedHours != nil {
			hours = *body.EstimatedHours
		}
		helpers := deed.HelpersNeeded
		if body.HelpersNeeded != nil {
			helpers = *body.HelpersNeeded
		}

		prevCost := deed.HelpersNeeded * deed.Kudos
		newCost := utils.DeedCost(difficulty, hours, helpers)
		if newCost > prevCost {
			var user models.User
			if err := database.DB.First(&user, uid).Error; err != nil {
				utils.WriteError(w, http.StatusUnauthorized, "You must be logged in first!")
				return
			}
			if user.Kudos < newCost-prevCost {
				utils.WriteError(w, http.StatusUnauthorized, "You don't have enough kudos to edit this deed!")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// CanRemoveSelf blocks a helper from dropping out inside the 24 hour
// window before the deed's scheduled time.
func CanRemoveSelf(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := UpdateDeedBody(r)
		if body.RemoveSelf {
			deed := DeedFromContext(r)
			if !deed.SelfRemovalOpen(time.Now()) {
				utils.WriteError(w, http.StatusUnauthorized,
					"You can not remove yourself from this deed's helpers within 24 hours of the deadline. Please contact the requester.")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// CanRemoveHelpers limits requester-initiated helper removal to before
// the deed's scheduled time.
func CanRemoveHelpers(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := UpdateDeedBody(r)
		if !body.RemoveSelf && body.RemoveHelper != nil {
			deed := DeedFromContext(r)
			uid, _ := utils.GetUserID(r)
			if deed.RequesterID == uid && !deed.RequesterRemovalOpen(time.Now()) {
				utils.WriteError(w, http.StatusUnauthorized,
					"Must be a requester to remove helpers only after the Deed completion date.")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// CanListDeeds verifies that any requester/helper username referenced by
// the deed listing query actually exists.
func CanListDeeds(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		for _, name := range []string{q.Get("requester"), q.Get("helper")} {
			if name == "" {
				continue
			}
			var user models.User
			if err := database.DB.Where("username = ?", name).First(&user).Error; err != nil {
				utils.WriteError(w, http.StatusNotFound, "User was not found. Please try to view a different user!")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
