// Package auth resolves the current user. When no session exists the
// anonymous sentinel is used and queries scope by it.
package auth

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
)

// Anonymous is the fallback user id when no session exists.
const Anonymous = "anonymous"

// HeaderUserID carries the caller's user id on API requests.
const HeaderUserID = "X-User-ID"

// Provider exposes the identity of the current user.
type Provider interface {
	CurrentUserID() string
}

// Static is a Provider fixed to one user id. An empty Static is anonymous.
type Static string

// CurrentUserID implements Provider.
func (s Static) CurrentUserID() string {
	return Resolve(string(s))
}

// Resolve returns id trimmed, or Anonymous when it is blank.
func Resolve(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return Anonymous
	}
	return id
}

type ctxKey struct{}

// WithUser stores a user id on ctx.
func WithUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, Resolve(userID))
}

// UserFrom returns the user id stored on ctx, or Anonymous.
func UserFrom(ctx context.Context) string {
	if id, ok := ctx.Value(ctxKey{}).(string); ok {
		return id
	}
	return Anonymous
}

// Middleware resolves the request user from the X-User-ID header, falling
// back to the provider's user. The result is stored on the request context.
func Middleware(fallback Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderUserID)
		if strings.TrimSpace(id) == "" && fallback != nil {
			id = fallback.CurrentUserID()
		}
		id = Resolve(id)
		c.Request = c.Request.WithContext(WithUser(c.Request.Context(), id))
		c.Next()
	}
}

// CurrentUser returns the user id resolved by Middleware.
func CurrentUser(c *gin.Context) string {
	return UserFrom(c.Request.Context())
}
