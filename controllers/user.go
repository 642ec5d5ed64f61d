package controllers

import (
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"

	"github.com/raulcamp/good-deeds/database"
	"github.com/raulcamp/good-deeds/middleware"
	"github.com/raulcamp/good-deeds/models"
	"github.com/raulcamp/good-deeds/utils"
)

// SignupKudos is the balance every new account starts with.
const SignupKudos = 100

// SignUpHandler creates an account and signs it in straight away, so the
// response shape matches POST /api/session.
func SignUpHandler(w http.ResponseWriter, r *http.Request) {
	body := middleware.SignupBody(r)

	hashed, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Could not create account at this time")
		return
	}

	user := models.User{
		Username:    body.Username,
		Password:    string(hashed),
		PhoneNumber: body.PhoneNumber,
		Email:       body.Email,
		Kudos:       SignupKudos,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		log.Printf("[users] signup insert failed for %s: %v", body.Username, err)
		utils.WriteError(w, http.StatusInternalServerError, "Could not create account at this time")
		return
	}

	welcome := "welcome grant"
	entry := models.KudosEntry{
		UserID:      user.ID,
		Amount:      SignupKudos,
		Flow:        "credit",
		EntryType:   models.EntrySignup,
		ReferenceID: utils.GenerateEntryID(user.ID),
		Message:     &welcome,
	}
	if err := database.DB.Create(&entry).Error; err != nil {
		log.Printf("[kudos] signup ledger write failed for user %d: %v", user.ID, err)
	}

	payload, err := issueSession(w, &user)
	if err != nil {
		log.Printf("[session] issuing session for new user %d: %v", user.ID, err)
		utils.WriteError(w, http.StatusInternalServerError, "Could not create account at this time")
		return
	}
	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Account created",
		Data:    payload,
	})
}

// GetUserHandler returns the public view of a user by username.
func GetUserHandler(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]
	var user models.User
	if err := database.DB.Preload("Rewards").Preload("Rewards.Reward").
		Where("username = ?", username).First(&user).Error; err != nil {
		utils.WriteError(w, http.StatusNotFound, "User could not be found!")
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "User loaded",
		Data:    map[string]interface{}{"user": user},
	})
}

// UpdateProfileHandler updates the caller's email and avatar. The avatar
// arrives as multipart form data and is stored on R2; only the public URL
// is persisted.
func UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	uid, _ := utils.GetUserID(r)

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	updates := map[string]interface{}{}
	if email := strings.TrimSpace(r.FormValue("email")); email != "" {
		updates["email"] = email
	}

	file, header, err := r.FormFile("avatar")
	if err == nil {
		defer file.Close()
		ext := filepath.Ext(header.Filename)
		objectName := fmt.Sprintf("avatars/u%d_%d%s", uid, time.Now().Unix(), ext)
		url, upErr := utils.UploadAvatar(objectName, file, header.Size)
		if upErr != nil {
			log.Printf("[users] avatar upload failed for user %d: %v", uid, upErr)
			utils.WriteError(w, http.StatusInternalServerError, "Avatar could not be uploaded")
			return
		}
		updates["avatar"] = url
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&models.User{}).Where("id = ?", uid).Updates(updates).Error; err != nil {
			utils.WriteError(w, http.StatusInternalServerError, "Profile could not be updated")
			return
		}
	}

	var user models.User
	database.DB.First(&user, uid)
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Profile updated",
		Data:    map[string]interface{}{"user": user},
	})
}

// KudosHistoryHandler returns the caller's kudos ledger, newest first,
// paginated by page= and limit=.
func KudosHistoryHandler(w http.ResponseWriter, r *http.Request) {
	uid, _ := utils.GetUserID(r)

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var total int64
	database.DB.Model(&models.KudosEntry{}).Where("user_id = ?", uid).Count(&total)

	var entries []models.KudosEntry
	err := database.DB.Where("user_id = ?", uid).
		Order("created_at desc").
		Offset((page - 1) * limit).Limit(limit).
		Find(&entries).Error
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Kudos history could not be loaded")
		return
	}
	if entries == nil {
		entries = []models.KudosEntry{}
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Kudos history loaded",
		Data: map[string]interface{}{
			"entries": entries,
			"page":    page,
			"limit":   limit,
			"total":   total,
		},
	})
}
