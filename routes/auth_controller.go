package routes

import (
	"errors"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/go-chi/render"
	"github.com/mattn/go-sqlite3"

	"github.com/mbolis/study-abroad/app"
	"github.com/mbolis/study-abroad/httpx"
	"github.com/mbolis/study-abroad/log"
	"github.com/mbolis/study-abroad/model"
	"github.com/mbolis/study-abroad/routes/middlewares"
)

const minPasswordLength = 8

var reRefresh = regexp.MustCompile(`(?i)^refresh\s+(.*)`)

func Signup(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := model.User{}
		err := render.DecodeJSON(r.Body, &user)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		user.Username = strings.TrimSpace(user.Username)
		if user.Username == "" {
			httpx.LogStatusMsg(w, http.StatusBadRequest, log.DebugLevel, "signup.validate", "username is required")
			return
		}
		if len(user.Password) < minPasswordLength {
			httpx.LogStatusMsg(w, http.StatusBadRequest, log.DebugLevel, "signup.validate", "password must be at least %d characters", minPasswordLength)
			return
		}

		hash, err := httpx.HashPassword(user.Password)
		if err != nil {
			httpx.LogInternalError(w, "signup.hash_password", err)
			return
		}

		var userID int
		err = app.QueryRowContext(r.Context(), `
			INSERT INTO user (username, password_hash) VALUES (?, ?)
			RETURNING id`,
			user.Username,
			hash,
		).Scan(&userID)
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			httpx.LogStatusMsg(w, http.StatusConflict, log.DebugLevel, "signup.duplicate", "username %q is taken", user.Username)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.insert_user", err)
			return
		}

		log.WithField("user_id", userID).Info("signup")
		render.Status(r, http.StatusCreated)
		render.JSON(w, r, map[string]any{
			"id": userID,
		})
	}
}

// Login exchanges basic auth credentials for a bearer token. The token is
// also set as cookies for the private pages.
func Login(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok {
			httpx.LogStatus(w, http.StatusUnauthorized, log.DebugLevel, "login.basic_auth")
			return
		}

		resp, err := httpx.Grant(app.BearerServer, r, url.Values{
			"grant_type": {"password"},
			"username":   {user},
			"password":   {pass},
		})
		if err != nil {
			httpx.LogInternalError(w, "login.grant", err)
			return
		}
		grantToCookies(w, resp)
		resp.Flush(w)
	}
}

func Refresh(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		match := reRefresh.FindStringSubmatch(r.Header.Get("authorization"))
		if len(match) == 0 {
			httpx.LogStatus(w, http.StatusUnauthorized, log.DebugLevel, "refresh.token")
			return
		}

		resp, err := httpx.Grant(app.BearerServer, r, url.Values{
			"grant_type":    {"refresh_token"},
			"refresh_token": {match[1]},
		})
		if err != nil {
			httpx.LogInternalError(w, "refresh.grant", err)
			return
		}
		grantToCookies(w, resp)
		resp.Flush(w)
	}
}

func grantToCookies(w http.ResponseWriter, resp *httpx.ResponseBuffer) {
	if resp.Status() != http.StatusOK {
		return
	}
	var grant httpx.TokenResponse
	if err := resp.DecodeJSON(&grant); err != nil {
		log.Warnf("login.parse_grant: %s", err)
		return
	}
	middlewares.SetTokenCookies(w, grant)
}
