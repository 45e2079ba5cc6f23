package session

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// CookieName is the name of the cookie carrying the session token.
const CookieName = "session"

// CookieOptions controls the attributes of the session and flash cookies.
type CookieOptions struct {
	Secure bool
	// MaxAge is the lifetime of the session cookie, normally the session TTL.
	MaxAge time.Duration
}

// SetCookie writes the session token to the response.
func (o CookieOptions) SetCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, int(o.MaxAge.Seconds()), "/", "", o.Secure, true)
}

// ClearCookie expires the session cookie in the browser.
func (o CookieOptions) ClearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", o.Secure, true)
}

// Token returns the session token sent with the request, if any.
func Token(c *gin.Context) string {
	token, err := c.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return token
}
