// Package contexthelpers stores request scoped values on the context.
package contexthelpers

import (
	"context"
	"net/http"
)

type contextKey string

const (
	officerIDContextKey = contextKey("officerID")
	requestIDContextKey = contextKey("requestID")
)

// AuthenticateContext marks the request as made by the officer with officerID.
func AuthenticateContext(r *http.Request, officerID int64) *http.Request {
	ctx := context.WithValue(r.Context(), officerIDContextKey, officerID)
	return r.WithContext(ctx)
}

// OfficerID returns the authenticated officer and whether the request is authenticated at all.
func OfficerID(ctx context.Context) (int64, bool) {
	officerID, ok := ctx.Value(officerIDContextKey).(int64)
	return officerID, ok
}

func IsAuthenticated(ctx context.Context) bool {
	_, ok := OfficerID(ctx)
	return ok
}

func SetRequestID(r *http.Request, requestID string) *http.Request {
	ctx := context.WithValue(r.Context(), requestIDContextKey, requestID)
	return r.WithContext(ctx)
}

func RequestID(ctx context.Context) string {
	requestID, ok := ctx.Value(requestIDContextKey).(string)
	if !ok {
		return ""
	}
	return requestID
}
