package middleware

import (
	"net/http"
)

// Middleware wraps a handler with a single check or transformation.
type Middleware func(http.Handler) http.Handler

// Chain applies middlewares left to right, so Chain(h, a, b, c) runs
// a, then b, then c, then h. Route registrations read in request order.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// bodyKey namespaces the parsed request bodies and loaded records that
// the validation chain stashes for later links and the handler.
type bodyKey string

const (
	createDeedKey    bodyKey = "createDeedBody"
	updateDeedKey    bodyKey = "updateDeedBody"
	deedKey          bodyKey = "deed"
	signupKey        bodyKey = "signupBody"
	loginKey         bodyKey = "loginBody"
	loginUserKey     bodyKey = "loginUser"
	feedbackKey      bodyKey = "feedbackBody"
	acquireRewardKey bodyKey = "acquireRewardBody"
	rewardKey        bodyKey = "reward"
)
