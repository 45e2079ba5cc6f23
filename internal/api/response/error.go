package response

import (
	"ctchen222/Todo-List/internal/api/models"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

const errorTemplate = "error.html"

// ErrorPage renders the error template with the given status code.
func ErrorPage(c *gin.Context, code int, message string) {
	c.HTML(code, errorTemplate, models.ErrorView{Code: code, Message: message})
	c.Abort()
}

// NotFound renders a 404 page.
func NotFound(c *gin.Context) {
	ErrorPage(c, http.StatusNotFound, "Not Found")
}

// Forbidden renders a 403 page.
func Forbidden(c *gin.Context) {
	ErrorPage(c, http.StatusForbidden, "Forbidden")
}

// InternalError logs err and renders a generic 500 page.
func InternalError(c *gin.Context, err error) {
	slog.ErrorContext(c.Request.Context(), "request failed", "method", c.Request.Method, "path", c.Request.URL.Path, "error", err)
	ErrorPage(c, http.StatusInternalServerError, "Internal Server Error")
}
