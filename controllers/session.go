package controllers

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/raulcamp/good-deeds/database"
	"github.com/raulcamp/good-deeds/middleware"
	"github.com/raulcamp/good-deeds/models"
	"github.com/raulcamp/good-deeds/utils"
)

type sessionPayload struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token,omitempty"`
}

func secureCookies() bool {
	return os.Getenv("ENV") == "production"
}

func setSessionCookie(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     utils.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   secureCookies(),
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     utils.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secureCookies(),
		SameSite: http.SameSiteLaxMode,
	})
}

// issueSession mints an access token plus a stored refresh token and sets
// the session cookie. Shared by sign in and sign up.
func issueSession(w http.ResponseWriter, user *models.User) (*sessionPayload, error) {
	access, err := utils.GenerateSessionToken(user.ID, user.Username, utils.SessionTokenTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := utils.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}
	setSessionCookie(w, access, time.Now().Add(utils.SessionTokenTTL))
	return &sessionPayload{User: user, AccessToken: access, RefreshToken: refresh}, nil
}

// SignInHandler starts a session for validated credentials. The chain has
// already matched the password and stashed the account.
func SignInHandler(w http.ResponseWriter, r *http.Request) {
	user := middleware.LoginUser(r)
	payload, err := issueSession(w, user)
	if err != nil {
		log.Printf("[session] issuing session for user %d: %v", user.ID, err)
		utils.WriteError(w, http.StatusInternalServerError, "Could not sign in at this time")
		return
	}
	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Signed in",
		Data:    payload,
	})
}

// emptyIdentity is what anonymous callers see from GET /api/session, so
// clients can check session state without error handling.
func emptyIdentity() map[string]interface{} {
	return map[string]interface{}{"id": "", "username": ""}
}

// WhoAmIHandler returns the account behind the current session, or an
// empty identity for anonymous callers. Always 200.
func WhoAmIHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok {
		utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
			Success: true,
			Message: "No active session",
			Data:    map[string]interface{}{"user": emptyIdentity()},
		})
		return
	}
	var user models.User
	if err := database.DB.Preload("Rewards").First(&user, uid).Error; err != nil {
		utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
			Success: true,
			Message: "No active session",
			Data:    map[string]interface{}{"user": emptyIdentity()},
		})
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Session active",
		Data:    map[string]interface{}{"user": user},
	})
}

// RefreshHandler rotates a refresh token: the presented token is revoked
// and a fresh access/refresh pair is issued.
func RefreshHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.RefreshToken == "" {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	rt, err := utils.ValidateRefreshToken(body.RefreshToken)
	if err != nil {
		utils.WriteError(w, http.StatusUnauthorized, "Invalid or expired refresh token")
		return
	}

	var user models.User
	if err := database.DB.First(&user, rt.UserID).Error; err != nil {
		utils.WriteError(w, http.StatusUnauthorized, "Invalid or expired refresh token")
		return
	}

	if err := database.DB.Model(rt).Update("revoked", true).Error; err != nil {
		log.Printf("[session] revoking refresh token for user %d: %v", rt.UserID, err)
	}

	payload, err := issueSession(w, &user)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Could not refresh session")
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Session refreshed",
		Data:    payload,
	})
}

// SignOutHandler ends the session: the access token's jti is blacklisted
// for its remaining lifetime, outstanding refresh tokens are revoked and
// the cookie is cleared.
func SignOutHandler(w http.ResponseWriter, r *http.Request) {
	id, err := utils.IdentityFromRequest(r)
	if err != nil {
		utils.WriteError(w, http.StatusUnauthorized, "You must be logged in first!")
		return
	}

	if id.JTI != "" {
		if err := utils.RevokeJTI(id.JTI, utils.SessionTokenTTL); err != nil {
			log.Printf("[session] revoking jti for user %d: %v", id.UserID, err)
		}
	}
	err = database.DB.Model(&models.RefreshToken{}).
		Where("user_id = ? AND revoked = ?", id.UserID, false).
		Update("revoked", true).Error
	if err != nil {
		log.Printf("[session] revoking refresh tokens for user %d: %v", id.UserID, err)
	}

	clearSessionCookie(w)
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Signed out",
	})
}
