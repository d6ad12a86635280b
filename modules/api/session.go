package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	// SessionHeader carries the shopper session id.
	SessionHeader = "X-Session-ID"
	// SessionCookie is the cookie fallback for SessionHeader.
	SessionCookie = "session_id"

	sessionLocal  = "session_id"
	sessionMaxAge = 30 * 24 * time.Hour
)

// sessionMiddleware resolves the session id from the header, then the
// cookie, issuing a new one on first contact or when the presented id is not
// a uuid. The id is echoed back in the response header.
func sessionMiddleware(c *fiber.Ctx) error {
	id := c.Get(SessionHeader)
	if id == "" {
		id = c.Cookies(SessionCookie)
	}
	if !validSessionID(id) {
		id = uuid.New().String()
		c.Cookie(&fiber.Cookie{
			Name:     SessionCookie,
			Value:    id,
			Path:     "/",
			Expires:  time.Now().Add(sessionMaxAge),
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
	}
	c.Set(SessionHeader, id)
	c.Locals(sessionLocal, id)
	return c.Next()
}

// validSessionID accepts canonical uuids only, so stored keys stay bounded
// in length and shape.
func validSessionID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

func sessionOf(c *fiber.Ctx) string {
	id, _ := c.Locals(sessionLocal).(string)
	return id
}
