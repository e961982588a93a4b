package middleware

import (
	"context"
	"net/http"
	"time"

	"alumnet/internal/app/service"
	"alumnet/internal/common"
)

type contextKey string

const authCtxKey contextKey = "auth"

// TokenCookieName is the session cookie read and written on every request.
const TokenCookieName = "token"

// Authenticator guards handlers behind the session lifecycle. It is
// constructed with its dependencies rather than closing over package state.
type Authenticator struct {
	sessions     *service.SessionService
	cookieSecure bool
}

func NewAuthenticator(sessions *service.SessionService, cookieSecure bool) *Authenticator {
	return &Authenticator{sessions: sessions, cookieSecure: cookieSecure}
}

// RequireAuth rejects the request with 401 unless the token cookie resolves to
// a live session. When validation rotated the session, the replacement cookie
// is written before the wrapped handler runs.
func (a *Authenticator) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth, err := a.sessions.Validate(r.Context(), tokenFromRequest(r), clientMeta(r))
		if err != nil {
			common.RespondWithServiceError(w, err)
			return
		}

		if auth.Rotated {
			SetSessionCookie(w, auth.Session.Token, auth.Session.ExpiresAt, a.cookieSecure)
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), authCtxKey, auth)))
	})
}

// OptionalAuth resolves identity when a live session is presented but never
// rejects; handlers see an anonymous request when validation fails.
func (a *Authenticator) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth, err := a.sessions.Validate(r.Context(), tokenFromRequest(r), clientMeta(r))
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		if auth.Rotated {
			SetSessionCookie(w, auth.Session.Token, auth.Session.ExpiresAt, a.cookieSecure)
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), authCtxKey, auth)))
	})
}

// AuthFromContext returns the resolved identity, if the request carried one.
func AuthFromContext(ctx context.Context) (*service.Auth, bool) {
	auth, ok := ctx.Value(authCtxKey).(*service.Auth)
	return auth, ok
}

// SetSessionCookie writes the session cookie. It is deliberately not HttpOnly:
// the web client reads the token to mirror auth state.
func SetSessionCookie(w http.ResponseWriter, token string, expires time.Time, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		Secure:   secure,
		HttpOnly: false,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie immediately.
func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   secure,
		HttpOnly: false,
		SameSite: http.SameSiteLaxMode,
	})
}

func tokenFromRequest(r *http.Request) string {
	cookie, err := r.Cookie(TokenCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func clientMeta(r *http.Request) service.ClientMeta {
	return service.ClientMeta{
		IPAddr:    r.RemoteAddr,
		UserAgent: r.UserAgent(),
	}
}
