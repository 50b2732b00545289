package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/photovault/internal/server/auth"
)

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !auth.CheckPassword(req.Password, s.adminPassword) {
		writeError(w, http.StatusUnauthorized, "invalid password")
		return
	}

	token, err := auth.GenerateSessionToken(s.secret, s.sessionTTL)
	if err != nil {
		s.failWith(r.Context(), w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.sessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, map[string]any{"message": "login successful"})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, map[string]any{"message": "logout successful"})
}

func (s *Server) handleAuthStatus(w http.ResponseWriter, r *http.Request) {
	authenticated := false
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		authenticated = auth.VerifySessionToken(cookie.Value, s.secret) == nil
	}

	writeJSON(w, http.StatusOK, map[string]any{"authenticated": authenticated})
}
