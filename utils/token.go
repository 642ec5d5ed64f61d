package utils

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/raulcamp/good-deeds/database"
	"github.com/raulcamp/good-deeds/models"

	"github.com/golang-jwt/jwt/v5"
	redis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// SessionCookieName carries the access token for browser clients; API
// clients may send the same token as a Bearer header instead.
const SessionCookieName = "deeds_session"

// SessionTokenTTL is the access-token lifetime for a signed-in session.
const SessionTokenTTL = 24 * time.Hour

// RedisClient is an optional shared Redis client used for access-token
// revocation. Nil when REDIS_ADDR is not configured; revocation then falls
// back to the revoked_tokens table.
var RedisClient *redis.Client

func init() {
	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return
	}
	opts := &redis.Options{Addr: addr}
	if p := os.Getenv("REDIS_PASS"); p != "" {
		opts.Password = p
	}
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		var dbn int
		_, _ = fmt.Sscanf(dbStr, "%d", &dbn)
		opts.DB = dbn
	}
	rc := redis.NewClient(opts)
	if err := rc.Ping(context.Background()).Err(); err != nil {
		fmt.Printf("warning: redis ping failed: %v\n", err)
		return
	}
	RedisClient = rc
}

type contextKey string

const UserIDKey = contextKey("userID")
const UsernameKey = contextKey("username")
const RequestIDKey = contextKey("requestID")

// GenerateSessionToken issues a signed HS256 access token for the user.
func GenerateSessionToken(userID uint, username string, expiry time.Duration) (string, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return "", errors.New("JWT_SECRET is not set")
	}
	now := time.Now()
	jti, err := generateJTI(32)
	if err != nil {
		return "", err
	}

	claims := jwt.MapClaims{
		"id":       userID,
		"username": username,
		"exp":      now.Add(expiry).Unix(),
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
		"jti":      jti,
		"aud":      os.Getenv("JWT_AUD"),
		"iss":      os.Getenv("JWT_ISS"),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateSessionToken parses and validates an access token: exact HS256,
// registered claims, and the jti revocation store (Redis first, then the
// revoked_tokens table).
func ValidateSessionToken(tokenStr string) (jwt.MapClaims, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}
	token, err := jwt.ParseWithClaims(tokenStr, jwt.MapClaims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method == nil || t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}

	now := time.Now()
	if expRaw, ok := claims["exp"].(float64); ok && now.Unix() > int64(expRaw) {
		return nil, errors.New("token expired")
	}
	if nbfRaw, ok := claims["nbf"].(float64); ok && now.Unix() < int64(nbfRaw) {
		return nil, errors.New("token not yet valid")
	}
	if audEnv := os.Getenv("JWT_AUD"); audEnv != "" {
		if aud, ok := claims["aud"].(string); !ok || aud != audEnv {
			return nil, errors.New("invalid audience")
		}
	}
	if issEnv := os.Getenv("JWT_ISS"); issEnv != "" {
		if iss, ok := claims["iss"].(string); !ok || iss != issEnv {
			return nil, errors.New("invalid issuer")
		}
	}

	if jti, ok := claims["jti"].(string); ok && jti != "" {
		if RedisClient != nil {
			res, err := RedisClient.Get(context.Background(), "jwt:blacklist:"+jti).Result()
			if err == nil && res == "1" {
				return nil, errors.New("token revoked")
			}
			// revocation store outage never fails auth
		} else if database.DB != nil {
			var rec models.RevokedToken
			err := database.DB.Where("id = ?", jti).First(&rec).Error
			if err == nil {
				return nil, errors.New("token revoked")
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				// ignore DB errors, same policy as Redis
			}
		}
	}

	return claims, nil
}

// TokenFromRequest extracts the access token from the Authorization header
// or, failing that, the session cookie. Returns "" when neither is set.
func TokenFromRequest(r *http.Request) string {
	if authz := r.Header.Get("Authorization"); strings.HasPrefix(authz, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))
	}
	if c, err := r.Cookie(SessionCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	return ""
}

// Identity is the authenticated caller derived from a session token. The
// JTI rides along so sign-out can revoke the exact token in hand.
type Identity struct {
	UserID   uint
	Username string
	JTI      string
}

// IdentityFromRequest validates the request's token and returns the caller
// identity, or an error when the request is anonymous or the token is bad.
func IdentityFromRequest(r *http.Request) (Identity, error) {
	tokenStr := TokenFromRequest(r)
	if tokenStr == "" {
		return Identity{}, errors.New("no session token")
	}
	claims, err := ValidateSessionToken(tokenStr)
	if err != nil {
		return Identity{}, err
	}
	var id Identity
	switch v := claims["id"].(type) {
	case float64:
		id.UserID = uint(v)
	case int:
		id.UserID = uint(v)
	}
	if id.UserID == 0 {
		return Identity{}, errors.New("invalid token payload")
	}
	if name, ok := claims["username"].(string); ok {
		id.Username = name
	}
	if jti, ok := claims["jti"].(string); ok {
		id.JTI = jti
	}
	return id, nil
}

// GenerateRefreshToken creates an opaque refresh token, stores it and
// returns the token string.
func GenerateRefreshToken(userID uint) (string, error) {
	jti, err := generateJTI(48)
	if err != nil {
		return "", err
	}
	rt, err := models.NewRefreshToken(userID, 7)
	if err != nil {
		return "", err
	}
	rt.ID = jti
	if database.DB == nil {
		return "", errors.New("database not initialized")
	}
	if err := database.DB.Create(rt).Error; err != nil {
		return "", err
	}
	return jti, nil
}

// ValidateRefreshToken checks a refresh token exists, is unrevoked and
// unexpired.
func ValidateRefreshToken(id string) (*models.RefreshToken, error) {
	if database.DB == nil {
		return nil, errors.New("database not initialized")
	}
	var rt models.RefreshToken
	if err := database.DB.Where("id = ?", id).First(&rt).Error; err != nil {
		return nil, err
	}
	if rt.Revoked {
		return nil, errors.New("refresh token revoked")
	}
	if time.Now().After(rt.ExpiresAt) {
		return nil, errors.New("refresh token expired")
	}
	return &rt, nil
}

// RevokeJTI blacklists an access-token jti until its natural expiry.
func RevokeJTI(jti string, ttl time.Duration) error {
	if jti == "" {
		return errors.New("empty jti")
	}
	if RedisClient != nil {
		return RedisClient.Set(context.Background(), "jwt:blacklist:"+jti, "1", ttl).Err()
	}
	if database.DB != nil {
		rec := models.RevokedToken{ID: jti, RevokedAt: time.Now()}
		return database.DB.Save(&rec).Error
	}
	return errors.New("no revocation store configured")
}

func generateJTI(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	const hex = "0123456789abcdef"
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		out[i] = hex[int(b[i])%len(hex)]
	}
	return string(out), nil
}

// GetUserID returns the authenticated user id placed in the request
// context by the auth middleware.
func GetUserID(r *http.Request) (uint, bool) {
	id, ok := r.Context().Value(UserIDKey).(uint)
	return id, ok
}

// GetUsername returns the authenticated username from the request context.
func GetUsername(r *http.Request) (string, bool) {
	name, ok := r.Context().Value(UsernameKey).(string)
	return name, ok
}
