package session

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	flashCookieName = "flash"
	flashContextKey = "session.flashes"
)

// AddFlash queues a one-time message for the next rendered page.
func (o CookieOptions) AddFlash(c *gin.Context, message string) {
	flashes := pendingFlashes(c)
	flashes = append(flashes, message)
	c.Set(flashContextKey, flashes)

	raw, err := json.Marshal(flashes)
	if err != nil {
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookieName, base64.URLEncoding.EncodeToString(raw), 0, "/", "", o.Secure, true)
}

// Flashes returns the queued messages and clears them.
func (o CookieOptions) Flashes(c *gin.Context) []string {
	flashes := pendingFlashes(c)
	if len(flashes) == 0 {
		return nil
	}
	c.Set(flashContextKey, []string{})
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookieName, "", -1, "/", "", o.Secure, true)
	return flashes
}

func pendingFlashes(c *gin.Context) []string {
	if v, ok := c.Get(flashContextKey); ok {
		return v.([]string)
	}

	raw, err := c.Cookie(flashCookieName)
	if err != nil || raw == "" {
		return nil
	}
	decoded, err := base64.URLEncoding.DecodeString(raw)
	if err != nil {
		return nil
	}
	var flashes []string
	if err := json.Unmarshal(decoded, &flashes); err != nil {
		return nil
	}
	return flashes
}
