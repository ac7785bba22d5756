// internal/handlers/context.go
package handlers

import (
	"context"

	"github.com/basefinder/basefinder-be/internal/pkg/logger"
)

// userFromContext returns the acting user recorded by the auth middleware.
// Actions performed outside an authenticated request are attributed to
// "system" so audit fields are never empty.
func userFromContext(ctx context.Context) string {
	if user, ok := ctx.Value(logger.ContextKeyUserID).(string); ok && user != "" {
		return user
	}
	return "system"
}
