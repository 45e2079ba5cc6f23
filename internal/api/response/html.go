package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Page renders the named template with status 200.
func Page(c *gin.Context, name string, data any) {
	c.HTML(http.StatusOK, name, data)
}

// Redirect sends the browser to path after a form submission.
func Redirect(c *gin.Context, path string) {
	c.Redirect(http.StatusFound, path)
	c.Abort()
}
