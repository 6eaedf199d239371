package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/troopops/task-tracker/internal/models"
)

const sessionCookieName = "session"

// Cookie lifetime in seconds (7 days).
const sessionMaxAge = 60 * 60 * 24 * 7

var errNoSession = errors.New("no session")

// setSessionCookie stores the session payload as base64 JSON. The payload is
// not signed; the deployment trusts its clients, matching the rest of the
// permission model.
func setSessionCookie(w http.ResponseWriter, session models.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    base64.URLEncoding.EncodeToString(payload),
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func sessionFromRequest(r *http.Request) (models.Session, error) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return models.Session{}, errNoSession
	}

	payload, err := base64.URLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return models.Session{}, errNoSession
	}

	var session models.Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return models.Session{}, errNoSession
	}
	if session.ID == "" {
		return models.Session{}, errNoSession
	}
	return session, nil
}
