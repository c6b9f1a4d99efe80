package middlewares

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/oauth"

	"github.com/mbolis/study-abroad/httpx"
	"github.com/mbolis/study-abroad/log"
)

type contextKey struct{ name string }

var userIDKey = &contextKey{"user_id"}

func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserID returns the authenticated user of the request, as set by Authenticated.
func UserID(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(userIDKey).(int)
	return id, ok
}

// Authenticated requires a valid bearer token and puts its user ID in the
// request context.
func Authenticated(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return chi.Chain(oauth.Authorize(secret, nil), user).Handler(next)
	}
}

func user(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, _ := r.Context().Value(oauth.ClaimsContext).(map[string]string)

		userID, err := strconv.Atoi(claims[httpx.ClaimUserID])
		if err != nil {
			httpx.LogStatus(w, http.StatusUnauthorized, log.DebugLevel, "auth.claims.user_id")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

// CookieAuth authenticates page requests through the access_token cookie,
// renewing it with the refresh_token cookie when it has expired. Visitors
// without valid cookies are redirected to the login page.
func CookieAuth(bearerServer *oauth.BearerServer) func(http.Handler) http.Handler {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				h.ServeHTTP(w, r)
				return
			}

			token, err := r.Cookie("access_token")
			if err != nil && !errors.Is(err, http.ErrNoCookie) {
				httpx.LogInternalError(w, "cookie_auth.access_token", err)
				return
			}
			if err == nil {
				r.Header.Set("authorization", "Bearer "+token.Value)
				buf := httpx.NewResponseBuffer()
				h.ServeHTTP(buf, r)
				if buf.Status() != http.StatusUnauthorized {
					buf.Flush(w)
					return
				}
			}

			loginLocation := "/login?goto=" + url.QueryEscape(r.RequestURI)

			refreshToken, err := r.Cookie("refresh_token")
			if err != nil {
				if !errors.Is(err, http.ErrNoCookie) {
					httpx.LogInternalError(w, "cookie_auth.refresh_token", err)
					return
				}
				http.Redirect(w, r, loginLocation, http.StatusTemporaryRedirect)
				return
			}

			resp, err := httpx.Grant(bearerServer, r, url.Values{
				"grant_type":    {"refresh_token"},
				"refresh_token": {refreshToken.Value},
			})
			if err != nil {
				httpx.LogInternalError(w, "cookie_auth.refresh", err)
				return
			}
			if resp.Status() == http.StatusUnauthorized {
				http.SetCookie(w, &http.Cookie{
					Path:     "/",
					Name:     "refresh_token",
					Value:    "",
					MaxAge:   -1,
					SameSite: http.SameSiteLaxMode,
				})
				http.Redirect(w, r, loginLocation, http.StatusTemporaryRedirect)
				return
			}
			if resp.Status() != http.StatusOK {
				httpx.LogStatus(w, resp.Status(), log.DebugLevel, "cookie_auth.refresh.status")
				return
			}

			var grant httpx.TokenResponse
			if err = resp.DecodeJSON(&grant); err != nil {
				httpx.LogInternalError(w, "cookie_auth.refresh.parse", err)
				return
			}
			SetTokenCookies(w, grant)

			r.Header.Set("authorization", "Bearer "+grant.AccessToken)
			h.ServeHTTP(w, r)
		})
	}
}

func SetTokenCookies(w http.ResponseWriter, grant httpx.TokenResponse) {
	http.SetCookie(w, &http.Cookie{
		Path:     "/",
		Name:     "access_token",
		Value:    grant.AccessToken,
		MaxAge:   int(grant.ExpiresIn),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Path:     "/",
		Name:     "refresh_token",
		Value:    grant.RefreshToken,
		MaxAge:   60 * 60 * 24 * 365,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
