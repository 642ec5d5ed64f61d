package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/raulcamp/good-deeds/database"
	"github.com/raulcamp/good-deeds/models"
	"github.com/raulcamp/good-deeds/utils"
)

// phonePattern accepts common US formats: 1234567890, 123-456-7890,
// (123) 456-7890 and the dot or space separated variants.
var phonePattern = regexp.MustCompile(`^\(?([0-9]{3})\)?[-. ]?([0-9]{3})[-. ]?([0-9]{4})$`)

// SignupRequest is the decoded body of POST /api/user.
type SignupRequest struct {
	Username    string  `json:"username"`
	Password    string  `json:"password"`
	PhoneNumber string  `json:"phoneNumber"`
	Email       *string `json:"email"`
}

// LoginRequest is the decoded body of POST /api/session.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SignupBody returns the parsed signup body stashed by ParseSignup.
func SignupBody(r *http.Request) *SignupRequest {
	body, _ := r.Context().Value(signupKey).(*SignupRequest)
	return body
}

// LoginBody returns the parsed login body stashed by ParseLogin.
func LoginBody(r *http.Request) *LoginRequest {
	body, _ := r.Context().Value(loginKey).(*LoginRequest)
	return body
}

// LoginUser returns the authenticated user loaded by ValidLogin.
func LoginUser(r *http.Request) *models.User {
	user, _ := r.Context().Value(loginUserKey).(*models.User)
	return user
}

// ParseSignup decodes the signup body for the validators behind it.
func ParseSignup(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body SignupRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		ctx := context.WithValue(r.Context(), signupKey, &body)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ParseLogin decodes the login body for the validators behind it.
func ParseLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		ctx := context.WithValue(r.Context(), loginKey, &body)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UsernameValid rejects empty or whitespace-only usernames and trims
// surrounding whitespace.
func UsernameValid(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := SignupBody(r)
		if strings.TrimSpace(body.Username) == "" {
			utils.WriteError(w, http.StatusBadRequest, "You must specify a valid username!")
			return
		}
		body.Username = strings.TrimSpace(body.Username)
		next.ServeHTTP(w, r)
	})
}

// PasswordValid rejects empty or whitespace-only passwords.
func PasswordValid(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.TrimSpace(SignupBody(r).Password) == "" {
			utils.WriteError(w, http.StatusBadRequest, "You must specify a valid password!")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UsernameUnique rejects signups for a username that is already taken.
func UsernameUnique(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := SignupBody(r)
		var existing models.User
		err := database.DB.Where("username = ?", body.Username).First(&existing).Error
		if err == nil {
			utils.WriteError(w, http.StatusForbidden,
				fmt.Sprintf("Sorry, a user with username %s already exists", body.Username))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// PhoneNumberValid checks the phone number shape, strips formatting down
// to digits and rejects numbers already attached to an account.
func PhoneNumberValid(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := SignupBody(r)
		raw := strings.TrimSpace(body.PhoneNumber)
		if !phonePattern.MatchString(raw) {
			utils.WriteError(w, http.StatusBadRequest, "You must include a valid phone number.")
			return
		}
		digits := strings.Map(func(c rune) rune {
			if c >= '0' && c <= '9' {
				return c
			}
			return -1
		}, raw)
		var existing models.User
		if err := database.DB.Where("phone_number = ?", digits).First(&existing).Error; err == nil {
			utils.WriteError(w, http.StatusBadRequest, "A user with that phone number already exists")
			return
		}
		body.PhoneNumber = digits
		next.ServeHTTP(w, r)
	})
}

// LoggedOut rejects sign-in and sign-up attempts from callers that
// already hold a valid session.
func LoggedOut(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := utils.IdentityFromRequest(r); err == nil {
			utils.WriteError(w, http.StatusBadRequest, "You are already logged in!")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ValidLogin matches the credentials against a stored account. The error
// never says which half was wrong. Repeated failures trip a progressive
// account lockout.
func ValidLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := LoginBody(r)
		var user models.User
		err := database.DB.Where("username = ?", strings.TrimSpace(body.Username)).First(&user).Error
		if err != nil {
			utils.WriteError(w, http.StatusBadRequest, "The username or password you entered is incorrect.")
			return
		}
		if locked, _ := IsAccountLocked(user.ID); locked {
			utils.WriteError(w, http.StatusTooManyRequests, "Too many failed sign in attempts. Please try again later.")
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(body.Password)) != nil {
			RecordFailedLogin(user.ID)
			utils.WriteError(w, http.StatusBadRequest, "The username or password you entered is incorrect.")
			return
		}
		ResetFailedLogin(user.ID)
		ctx := context.WithValue(r.Context(), loginUserKey, &user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
