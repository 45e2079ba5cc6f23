package middleware

import (
	"ctchen222/Todo-List/internal/api/models"
	"ctchen222/Todo-List/internal/api/response"
	"ctchen222/Todo-List/internal/api/service"
	"ctchen222/Todo-List/internal/session"
	"errors"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	currentUserKey = "middleware.currentUser"

	LoginPath        = "/login"
	LoginRequiredMsg = "Please log in to access this page."
)

// RequireUser resolves the session cookie on every request. Unauthenticated
// requests are redirected to the login page before the handler runs.
func RequireUser(users service.UserService, cookies session.CookieOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		user, err := users.CurrentUser(ctx, session.Token(c))
		if err != nil {
			if errors.Is(err, service.ErrUnauthenticated) {
				cookies.AddFlash(c, LoginRequiredMsg)
				response.Redirect(c, LoginPath)
				return
			}
			response.InternalError(c, err)
			return
		}

		trace.SpanFromContext(ctx).SetAttributes(attribute.Int64("user.id", user.ID))
		c.Set(currentUserKey, user)
		c.Next()
	}
}

// CurrentUser returns the user stored by RequireUser.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(currentUserKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}
