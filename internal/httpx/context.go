package httpx

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const (
	userIDKey    contextKey = "userID"
	roleKey      contextKey = "role"
	requestIDKey contextKey = "requestID"
)

const RoleAdmin = "Admin"

// UserIDFrom retrieves the user ID from the request context.
func UserIDFrom(r *http.Request) string {
	if v, ok := r.Context().Value(userIDKey).(string); ok {
		return v
	}
	return ""
}

// RoleFrom retrieves the user role from the request context.
func RoleFrom(r *http.Request) string {
	if v, ok := r.Context().Value(roleKey).(string); ok {
		return v
	}
	return ""
}

// ContextWithUser returns a new context with the user ID and role.
func ContextWithUser(ctx context.Context, userID, role string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, roleKey, role)
}

func RequestIDFrom(r *http.Request) string {
	if v, ok := r.Context().Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// IsSelfOrAdmin reports whether the caller is the path user (case-insensitive) or an admin.
func IsSelfOrAdmin(r *http.Request, pathUserID string) bool {
	if strings.EqualFold(RoleFrom(r), RoleAdmin) {
		return true
	}
	userID := UserIDFrom(r)
	return userID != "" && strings.EqualFold(userID, pathUserID)
}

const identityHolderKey contextKey = "identityHolder"

// identityHolder carries the authenticated user back up to the access log.
type identityHolder struct {
	userID string
}

func contextWithIdentityHolder(ctx context.Context, h *identityHolder) context.Context {
	return context.WithValue(ctx, identityHolderKey, h)
}

func recordIdentity(ctx context.Context, userID string) {
	if h, ok := ctx.Value(identityHolderKey).(*identityHolder); ok {
		h.userID = userID
	}
}
