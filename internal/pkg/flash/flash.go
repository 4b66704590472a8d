// Package flash keeps one-shot user messages in a signed cookie between requests.
package flash

import (
	"encoding/gob"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
)

const (
	cookieName = "bluelog_flash"
	flashKey   = "_flash"
)

const (
	Success = "success"
	Info    = "info"
	Warning = "warning"
	Danger  = "danger"
)

// Message is a categorized flash message.
type Message struct {
	Category string
	Text     string
}

func init() {
	gob.Register(Message{})
}

// Store reads and writes flashes through a cookie store.
type Store struct {
	store *sessions.CookieStore
}

// NewStore signs flash cookies with secret.
func NewStore(secret string, secure bool) *Store {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Store{store: store}
}

// Add queues a message for the next rendered page.
func (s *Store) Add(c *gin.Context, category, text string) {
	sess, _ := s.store.Get(c.Request, cookieName)
	sess.AddFlash(Message{Category: category, Text: text}, flashKey)
	_ = sess.Save(c.Request, c.Writer)
}

// Pop returns and clears all pending messages.
func (s *Store) Pop(c *gin.Context) []Message {
	sess, err := s.store.Get(c.Request, cookieName)
	if err != nil && sess == nil {
		return nil
	}
	raw := sess.Flashes(flashKey)
	if len(raw) == 0 {
		return nil
	}
	_ = sess.Save(c.Request, c.Writer)

	out := make([]Message, 0, len(raw))
	for _, v := range raw {
		if m, ok := v.(Message); ok {
			out = append(out, m)
		}
	}
	return out
}
