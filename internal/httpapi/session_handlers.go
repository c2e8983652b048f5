package httpapi

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"nigaran-engine/internal/apperr"
	"nigaran-engine/internal/session"
)

type SessionHandler struct {
	Gate *session.Gate
	// Secure marks the session cookie HTTPS-only.
	Secure bool
	Log    *zap.Logger
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h SessionHandler) cookie(value string, expires time.Time) *http.Cookie {
	c := &http.Cookie{
		Name:     session.CookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.Secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  expires,
	}
	if value == "" {
		c.MaxAge = -1
	}
	return c
}

func (h SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := decode(w, r, &req); err != nil {
		WriteFailure(w, r, h.Log, err)
		return
	}
	s, ok, err := h.Gate.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		WriteFailure(w, r, h.Log, err)
		return
	}
	if !ok {
		WriteFailure(w, r, h.Log, apperr.Unauthorized("Invalid credentials"))
		return
	}
	http.SetCookie(w, h.cookie(s.Token, s.ExpiresAt))
	WriteOK(w, http.StatusOK, map[string]any{"token": s.Token, "expiresAt": s.ExpiresAt})
}

func (h SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Gate.Logout(r.Context(), tokenFrom(r)); err != nil {
		WriteFailure(w, r, h.Log, err)
		return
	}
	http.SetCookie(w, h.cookie("", time.Unix(0, 0)))
	WriteOK(w, http.StatusOK, nil)
}

// Current reports the caller's session; mounted behind RequireSession.
func (h SessionHandler) Current(w http.ResponseWriter, r *http.Request) {
	s, _ := session.FromContext(r.Context())
	WriteOK(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"subject":       s.Subject,
		"expiresAt":     s.ExpiresAt,
	})
}
