package auth

import "context"

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// accountIDKey is the context key for the authenticated account ID.
const accountIDKey contextKey = "account_id"

// ContextWithAccountID adds the authenticated account ID to the context.
func ContextWithAccountID(ctx context.Context, accountID string) context.Context {
	return context.WithValue(ctx, accountIDKey, accountID)
}

// AccountIDFromContext retrieves the authenticated account ID from the
// context. The second return is false if the request is not authenticated.
func AccountIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(accountIDKey).(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}
