package routes

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/raulcamp/good-deeds/controllers"
	"github.com/raulcamp/good-deeds/middleware"
)

func optionsHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// apiRoutes backs the HTML 404 fallback so a browser landing on an
// unknown path sees what the API actually serves.
var apiRoutes = []string{
	"POST   /api/deeds",
	"GET    /api/deeds",
	"PATCH  /api/deeds/{id}",
	"DELETE /api/deeds/{id}",
	"POST   /api/feedback",
	"GET    /api/feedback",
	"GET    /api/rewards",
	"POST   /api/user",
	"GET    /api/user/{username}",
	"PATCH  /api/user",
	"PUT    /api/user/profile",
	"GET    /api/user/kudos",
	"POST   /api/session",
	"GET    /api/session",
	"DELETE /api/session",
	"POST   /api/session/refresh",
}

func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	fmt.Fprint(w, "<h1>404 Not Found</h1><p>The requested path is not part of the API. Available routes:</p><ul>")
	for _, route := range apiRoutes {
		fmt.Fprintf(w, "<li><code>%s</code></li>", route)
	}
	fmt.Fprint(w, "</ul>")
}

func InitRouter() *mux.Router {
	r := mux.NewRouter()

	// Health check endpoint for Docker health checks (root level)
	r.Handle("/health", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
			"service":   "good-deeds-api",
		})
	})).Methods(http.MethodGet)

	// CORS: origins from CORS_ALLOWED_ORIGINS (comma-separated) or defaults
	originsEnv := os.Getenv("CORS_ALLOWED_ORIGINS")
	origins := []string{
		"http://localhost:3000", "http://localhost:8080",
		"http://127.0.0.1:3000", "http://127.0.0.1:8080",
	}
	if originsEnv != "" {
		parts := strings.Split(originsEnv, ",")
		for _, p := range parts {
			if o := strings.TrimSpace(p); o != "" {
				origins = append(origins, o)
			}
		}
	}
	r.Use(func(next http.Handler) http.Handler {
		return handlers.CORS(
			handlers.AllowedOrigins(origins),
			handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"}),
			handlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Requested-With", "X-Request-ID"}),
			handlers.AllowCredentials(),
		)(next)
	})

	api := r.PathPrefix("/api").Subrouter()

	// Catch-all OPTIONS handler for CORS preflight
	api.PathPrefix("/").HandlerFunc(optionsHandler).Methods(http.MethodOptions)

	// Sign in and sign up share a tighter limit than the rest of the API
	sessionLimiter := middleware.NewIPRateLimiter(30, time.Minute)
	userLimiter := middleware.NewUserRateLimiter(100, 30, 60)

	// Deeds
	api.Handle("/deeds", middleware.Chain(
		http.HandlerFunc(controllers.CreateDeedHandler),
		middleware.RequireLogin,
		userLimiter.Middleware,
		middleware.ParseCreateDeed,
		middleware.TitleValid,
		middleware.DescriptionValid,
		middleware.DateValid,
		middleware.DifficultyValid,
		middleware.HoursValid,
		middleware.HelpersNeededValid,
		middleware.LocationValid,
		middleware.CanCreateDeed,
	)).Methods(http.MethodPost)

	api.Handle("/deeds", middleware.Chain(
		http.HandlerFunc(controllers.ListDeedsHandler),
		middleware.OptionalIdentity,
		middleware.CanListDeeds,
	)).Methods(http.MethodGet)

	api.Handle("/deeds/{id:[0-9]+}", middleware.Chain(
		http.HandlerFunc(controllers.UpdateDeedHandler),
		middleware.RequireLogin,
		userLimiter.Middleware,
		middleware.ParseUpdateDeed,
		middleware.DeedExists,
		middleware.CanEditDeed,
		middleware.CanRemoveSelf,
		middleware.CanRemoveHelpers,
	)).Methods(http.MethodPatch)

	api.Handle("/deeds/{id:[0-9]+}", middleware.Chain(
		http.HandlerFunc(controllers.DeleteDeedHandler),
		middleware.RequireLogin,
		userLimiter.Middleware,
		middleware.DeedExists,
		middleware.IsDeedRequester,
	)).Methods(http.MethodDelete)

	// Feedback
	api.Handle("/feedback", middleware.Chain(
		http.HandlerFunc(controllers.CreateFeedbackHandler),
		middleware.RequireLogin,
		userLimiter.Middleware,
		middleware.ParseFeedback,
		middleware.ReviewValid,
		middleware.FeedbackTargetExists,
		middleware.FeedbackDeedExists,
	)).Methods(http.MethodPost)

	api.Handle("/feedback", http.HandlerFunc(controllers.ListFeedbackHandler)).Methods(http.MethodGet)

	// Rewards
	api.Handle("/rewards", middleware.Chain(
		http.HandlerFunc(controllers.ListRewardsHandler),
		middleware.OptionalIdentity,
		middleware.RewardsQueryLoggedIn,
		middleware.RewardsFilterScoped,
	)).Methods(http.MethodGet)

	// Users
	api.Handle("/user", middleware.Chain(
		http.HandlerFunc(controllers.SignUpHandler),
		sessionLimiter.Middleware,
		middleware.LoggedOut,
		middleware.ParseSignup,
		middleware.UsernameValid,
		middleware.PasswordValid,
		middleware.UsernameUnique,
		middleware.PhoneNumberValid,
	)).Methods(http.MethodPost)

	api.Handle("/user", middleware.Chain(
		http.HandlerFunc(controllers.AcquireRewardHandler),
		middleware.RequireLogin,
		userLimiter.Middleware,
		middleware.ParseAcquireReward,
		middleware.RewardExists,
		middleware.CanAcquireReward,
	)).Methods(http.MethodPatch)

	api.Handle("/user/profile", middleware.Chain(
		http.HandlerFunc(controllers.UpdateProfileHandler),
		middleware.RequireLogin,
		userLimiter.Middleware,
	)).Methods(http.MethodPut)

	api.Handle("/user/kudos", middleware.Chain(
		http.HandlerFunc(controllers.KudosHistoryHandler),
		middleware.RequireLogin,
	)).Methods(http.MethodGet)

	api.Handle("/user/{username}", http.HandlerFunc(controllers.GetUserHandler)).Methods(http.MethodGet)

	// Sessions
	api.Handle("/session", middleware.Chain(
		http.HandlerFunc(controllers.SignInHandler),
		sessionLimiter.Middleware,
		middleware.LoggedOut,
		middleware.ParseLogin,
		middleware.ValidLogin,
	)).Methods(http.MethodPost)

	api.Handle("/session", middleware.Chain(
		http.HandlerFunc(controllers.WhoAmIHandler),
		middleware.OptionalIdentity,
	)).Methods(http.MethodGet)

	api.Handle("/session", http.HandlerFunc(controllers.SignOutHandler)).Methods(http.MethodDelete)

	api.Handle("/session/refresh", middleware.Chain(
		http.HandlerFunc(controllers.RefreshHandler),
		sessionLimiter.Middleware,
	)).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(notFoundHandler)

	return r
}
