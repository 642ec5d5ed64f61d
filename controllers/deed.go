package controllers

import (
	"log"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/raulcamp/good-deeds/database"
	"github.com/raulcamp/good-deeds/middleware"
	"github.com/raulcamp/good-deeds/models"
	"github.com/raulcamp/good-deeds/utils"
)

// adjustKudos applies a signed balance change to a user and records a
// ledger entry. The kudos column is the authoritative balance; entries
// are history only.
func adjustKudos(userID uint, delta int, entryType string, message string) error {
	if delta == 0 {
		return nil
	}
	err := database.DB.Model(&models.User{}).Where("id = ?", userID).
		Update("kudos", gorm.Expr("kudos + ?", delta)).Error
	if err != nil {
		return err
	}
	flow := "credit"
	amount := delta
	if delta < 0 {
		flow = "debit"
		amount = -delta
	}
	entry := models.KudosEntry{
		UserID:      userID,
		Amount:      amount,
		Flow:        flow,
		EntryType:   entryType,
		ReferenceID: utils.GenerateEntryID(userID),
	}
	if message != "" {
		entry.Message = &message
	}
	if err := database.DB.Create(&entry).Error; err != nil {
		log.Printf("[kudos] ledger write failed for user %d: %v", userID, err)
	}
	return nil
}

// CreateDeedHandler posts a new deed. The requester is debited the full
// cost up front; coordinates are nudged off any already-taken spot so map
// pins never stack.
func CreateDeedHandler(w http.ResponseWriter, r *http.Request) {
	uid, _ := utils.GetUserID(r)
	body := middleware.CreateDeedBody(r)

	var existing []models.Deed
	if err := database.DB.Select("latitude", "longitude").Find(&existing).Error; err != nil {
		utils.WriteError(w, http.StatusForbidden, "Deed could not be created at this time. Please try again later")
		return
	}
	lat, lng := utils.DeconflictLatLng(existing, body.Latitude, body.Longitude)

	perHelper := utils.PerHelperKudos(body.Difficulty, body.EstimatedHours)
	cost := perHelper * body.HelpersNeeded

	// Debit before create. The chain already verified the balance covers
	// the cost, but the deed insert can still fail afterwards; the debit
	// is not compensated in that case.
	if err := adjustKudos(uid, -cost, models.EntryDeedCreate, "deed posting"); err != nil {
		utils.WriteError(w, http.StatusForbidden, "Deed could not be created at this time. Please try again later")
		return
	}

	deed := models.Deed{
		RequesterID:    uid,
		Date:           body.ParsedDate,
		Title:          body.Title,
		Description:    body.Description,
		Location:       body.Location,
		Latitude:       lat,
		Longitude:      lng,
		Difficulty:     body.Difficulty,
		EstimatedHours: body.EstimatedHours,
		HelpersNeeded:  body.HelpersNeeded,
		Kudos:          perHelper,
	}
	if err := database.DB.Create(&deed).Error; err != nil {
		log.Printf("[deeds] create failed after debit of %d kudos from user %d: %v", cost, uid, err)
		utils.WriteError(w, http.StatusForbidden, "Deed could not be created at this time. Please try again later")
		return
	}

	database.DB.Preload("Requester").Preload("Helpers").First(&deed, deed.ID)
	var requester models.User
	database.DB.First(&requester, uid)
	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Deed created",
		Data: map[string]interface{}{
			"deed":  deed,
			"kudos": requester.Kudos,
		},
	})
}

// ListDeedsHandler serves the home listing by default, or a user-scoped
// view when requester= or helper= is given. forProfile=true narrows a
// scoped view to the deeds worth showing on a profile.
func ListDeedsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	requester := q.Get("requester")
	helper := q.Get("helper")
	forProfile := q.Get("forProfile") == "true"
	now := time.Now()

	var deeds []models.Deed
	query := database.DB.Preload("Requester").Preload("Helpers").Preload("FeedbackGiven").
		Order("date asc")

	switch {
	case requester != "":
		var user models.User
		if err := database.DB.Where("username = ?", requester).First(&user).Error; err != nil {
			utils.WriteError(w, http.StatusNotFound, "User was not found. Please try to view a different user!")
			return
		}
		if err := query.Where("requester_id = ?", user.ID).Find(&deeds).Error; err != nil {
			utils.WriteError(w, http.StatusInternalServerError, "Deeds could not be loaded")
			return
		}
	case helper != "":
		var user models.User
		if err := database.DB.Where("username = ?", helper).First(&user).Error; err != nil {
			utils.WriteError(w, http.StatusNotFound, "User was not found. Please try to view a different user!")
			return
		}
		err := query.Joins("JOIN deed_helpers ON deed_helpers.deed_id = deeds.id").
			Where("deed_helpers.user_id = ?", user.ID).Find(&deeds).Error
		if err != nil {
			utils.WriteError(w, http.StatusInternalServerError, "Deeds could not be loaded")
			return
		}
	default:
		if err := query.Find(&deeds).Error; err != nil {
			utils.WriteError(w, http.StatusInternalServerError, "Deeds could not be loaded")
			return
		}
	}

	// filteredDeeds is the view the client actually renders; deeds is the
	// full scope for map overlays and counts
	filtered := make([]models.Deed, 0, len(deeds))
	for i := range deeds {
		switch {
		case requester == "" && helper == "":
			if deeds[i].ForHome(now) {
				filtered = append(filtered, deeds[i])
			}
		case forProfile:
			if deeds[i].ForProfile(now) {
				filtered = append(filtered, deeds[i])
			}
		default:
			filtered = append(filtered, deeds[i])
		}
	}

	if deeds == nil {
		deeds = []models.Deed{}
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Deeds loaded",
		Data: map[string]interface{}{
			"deeds":         deeds,
			"filteredDeeds": filtered,
		},
	})
}

// settlement is the plan for a feedback/completion patch. Feedback and
// completion compose in one request: the settle flow sends both, and only
// that combination pays helpers. Completion without feedback just sets
// the flag, and completion is one-way in either form.
type settlement struct {
	RecordFeedback bool
	CreditHelpers  bool
	MarkCompleted  bool
}

func settlementFor(deed *models.Deed, body *middleware.UpdateDeedRequest) settlement {
	wantsCompleted := body.Completed != nil && *body.Completed && !deed.Completed
	if body.Reviewee != nil {
		return settlement{
			RecordFeedback: true,
			CreditHelpers:  wantsCompleted,
			MarkCompleted:  wantsCompleted,
		}
	}
	return settlement{MarkCompleted: wantsCompleted}
}

// UpdateDeedHandler multiplexes PATCH /api/deeds/{id}: recording given
// feedback (optionally settling the deed), completing the deed, helper
// joins and removals, and plain field edits.
func UpdateDeedHandler(w http.ResponseWriter, r *http.Request) {
	deed := middleware.DeedFromContext(r)
	body := middleware.UpdateDeedBody(r)
	uid, _ := utils.GetUserID(r)
	costChanged := false

	switch {
	case body.Reviewee != nil:
		plan := settlementFor(deed, body)
		if err := recordFeedbackGiven(deed, *body.Reviewee); err != nil {
			utils.WriteError(w, http.StatusNotFound, "User could not be found!")
			return
		}
		if plan.CreditHelpers {
			if err := completeDeed(deed); err != nil {
				utils.WriteError(w, http.StatusInternalServerError, "Deed could not be updated")
				return
			}
		}
	case body.Completed != nil:
		if settlementFor(deed, body).MarkCompleted {
			if err := database.DB.Model(deed).Update("completed", true).Error; err != nil {
				utils.WriteError(w, http.StatusInternalServerError, "Deed could not be updated")
				return
			}
		}
	case body.NewHelper != nil:
		if err := addHelper(deed, *body.NewHelper); err != nil {
			utils.WriteError(w, http.StatusNotFound, "User could not be found!")
			return
		}
	case body.RemoveSelf:
		if err := removeHelperByID(deed, uid); err != nil {
			utils.WriteError(w, http.StatusInternalServerError, "Deed could not be updated")
			return
		}
	case body.RemoveHelper != nil:
		if err := removeHelperByName(deed, *body.RemoveHelper); err != nil {
			utils.WriteError(w, http.StatusNotFound, "User could not be found!")
			return
		}
	default:
		if err := editDeedFields(deed, body); err != nil {
			utils.WriteError(w, http.StatusInternalServerError, "Deed could not be updated")
			return
		}
		costChanged = body.Difficulty != nil || body.EstimatedHours != nil || body.HelpersNeeded != nil
	}

	var updated models.Deed
	database.DB.Preload("Requester").Preload("Helpers").Preload("FeedbackGiven").First(&updated, deed.ID)

	data := map[string]interface{}{"deed": updated}
	if costChanged {
		var requester models.User
		database.DB.First(&requester, deed.RequesterID)
		data["kudos"] = requester.Kudos
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Deed updated",
		Data:    data,
	})
}

func recordFeedbackGiven(deed *models.Deed, reviewee string) error {
	var user models.User
	if err := database.DB.Where("username = ?", reviewee).First(&user).Error; err != nil {
		return err
	}
	return database.DB.Model(deed).Association("FeedbackGiven").Append(&user)
}

// completeDeed marks the deed done and pays each helper the per-helper
// rate recorded at creation. Only the settle flow (feedback plus a truthy
// completed) reaches this; a bare completed flag never credits.
func completeDeed(deed *models.Deed) error {
	if err := database.DB.Model(deed).Update("completed", true).Error; err != nil {
		return err
	}
	for i := range deed.Helpers {
		if err := adjustKudos(deed.Helpers[i].ID, deed.Kudos, models.EntryDeedComplete, "deed completed"); err != nil {
			log.Printf("[deeds] completion credit failed for helper %d on deed %d: %v", deed.Helpers[i].ID, deed.ID, err)
		}
	}
	return nil
}

func addHelper(deed *models.Deed, username string) error {
	var user models.User
	if err := database.DB.Where("username = ?", username).First(&user).Error; err != nil {
		return err
	}
	return database.DB.Model(deed).Association("Helpers").Append(&user)
}

func removeHelperByID(deed *models.Deed, userID uint) error {
	return database.DB.Model(deed).Association("Helpers").Delete(&models.User{ID: userID})
}

func removeHelperByName(deed *models.Deed, username string) error {
	var user models.User
	if err := database.DB.Where("username = ?", username).First(&user).Error; err != nil {
		return err
	}
	return database.DB.Model(deed).Association("Helpers").Delete(&user)
}

// editDeedFields applies a plain field edit. When difficulty, hours or
// helper count change, the requester's balance is adjusted by the cost
// difference and the stored per-helper rate is recomputed. Coordinates are
// re-deconflicted only when both are supplied.
func editDeedFields(deed *models.Deed, body *middleware.UpdateDeedRequest) error {
	updates := map[string]interface{}{}

	if body.Title != nil {
		updates["title"] = *body.Title
	}
	if body.Description != nil {
		updates["description"] = *body.Description
	}
	if body.Location != nil {
		updates["location"] = *body.Location
	}
	if body.ParsedDate != nil {
		updates["date"] = *body.ParsedDate
	}

	if body.Latitude != nil && body.Longitude != nil {
		var others []models.Deed
		if err := database.DB.Select("latitude", "longitude").
			Where("id <> ?", deed.ID).Find(&others).Error; err != nil {
			return err
		}
		lat, lng := utils.DeconflictLatLng(others, *body.Latitude, *body.Longitude)
		updates["latitude"] = lat
		updates["longitude"] = lng
	}

	if body.Difficulty != nil || body.EstimatedHours != nil || body.HelpersNeeded != nil {
		difficulty := deed.Difficulty
		if body.Difficulty != nil {
			difficulty = *body.Difficulty
			updates["difficulty"] = difficulty
		}
		hours := deed.EstimatedHours
		if body.EstimatedHours != nil {
			hours = *body.EstimatedHours
			updates["estimated_hours"] = hours
		}
		helpers := deed.HelpersNeeded
		if body.HelpersNeeded != nil {
			helpers = *body.HelpersNeeded
			updates["helpers_needed"] = helpers
		}

		prevCost := deed.HelpersNeeded * deed.Kudos
		newRate := utils.PerHelperKudos(difficulty, hours)
		newCost := helpers * newRate
		updates["kudos"] = newRate

		if adj := utils.EditAdjustment(prevCost, newCost); adj != 0 {
			if err := adjustKudos(deed.RequesterID, adj, models.EntryDeedEdit, "deed edit"); err != nil {
				return err
			}
		}
	}

	if len(updates) == 0 {
		return nil
	}
	return database.DB.Model(deed).Updates(updates).Error
}

// DeleteDeedHandler removes a deed and refunds its requester the recorded
// per-helper rate. Helpers who already joined get nothing back.
func DeleteDeedHandler(w http.ResponseWriter, r *http.Request) {
	deed := middleware.DeedFromContext(r)

	if err := adjustKudos(deed.RequesterID, deed.Kudos, models.EntryDeedDelete, "deed deleted"); err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Deed could not be deleted")
		return
	}

	if err := database.DB.Model(deed).Association("Helpers").Clear(); err != nil {
		log.Printf("[deeds] clearing helpers of deed %d: %v", deed.ID, err)
	}
	if err := database.DB.Model(deed).Association("FeedbackGiven").Clear(); err != nil {
		log.Printf("[deeds] clearing feedback links of deed %d: %v", deed.ID, err)
	}
	if err := database.DB.Delete(deed).Error; err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Deed could not be deleted")
		return
	}

	var requester models.User
	database.DB.First(&requester, deed.RequesterID)
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Deed deleted",
		Data: map[string]interface{}{
			"id":    deed.ID,
			"kudos": requester.Kudos,
		},
	})
}
