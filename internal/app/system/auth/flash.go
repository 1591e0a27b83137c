// internal/app/system/auth/flash.go
package auth

import (
	"net/http"

	"go.uber.org/zap"
)

// FlashMessage is a one-shot message carried across a redirect in the
// session. Category is "error" or "info".
type FlashMessage struct {
	Category string
	Message  string
}

const (
	flashErrorKey = "_flash_error"
	flashInfoKey  = "_flash_info"
)

// Flash queues a message for the next rendered page.
func (sm *SessionManager) Flash(w http.ResponseWriter, r *http.Request, category, msg string) {
	sess, err := sm.GetSession(r)
	if err != nil {
		sm.log.Warn("session decode failed while flashing", zap.Error(err))
	}
	key := flashInfoKey
	if category == "error" {
		key = flashErrorKey
	}
	sess.AddFlash(msg, key)
	if err := sess.Save(r, w); err != nil {
		sm.log.Warn("flash save failed", zap.Error(err))
	}
}

// TakeFlashes drains and returns all queued messages, errors first.
func (sm *SessionManager) TakeFlashes(w http.ResponseWriter, r *http.Request) []FlashMessage {
	sess, err := sm.GetSession(r)
	if err != nil {
		return nil
	}

	var out []FlashMessage
	for _, v := range sess.Flashes(flashErrorKey) {
		if s, ok := v.(string); ok {
			out = append(out, FlashMessage{Category: "error", Message: s})
		}
	}
	for _, v := range sess.Flashes(flashInfoKey) {
		if s, ok := v.(string); ok {
			out = append(out, FlashMessage{Category: "info", Message: s})
		}
	}
	if len(out) > 0 {
		if err := sess.Save(r, w); err != nil {
			sm.log.Warn("flash drain save failed", zap.Error(err))
		}
	}
	return out
}
