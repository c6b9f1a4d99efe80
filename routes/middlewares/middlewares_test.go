package middlewares

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/oauth"

	"github.com/mbolis/study-abroad/httpx"
)

func TestUserFromClaims(t *testing.T) {
	var gotID int
	var gotOK bool
	h := user(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, gotOK = UserID(r.Context())
	}))

	tests := []struct {
		name   string
		claims map[string]string
		want   int
		status int
	}{
		{"valid", map[string]string{httpx.ClaimUserID: "42"}, 42, http.StatusOK},
		{"missing", map[string]string{}, 0, http.StatusUnauthorized},
		{"not a number", map[string]string{httpx.ClaimUserID: "alice"}, 0, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotID, gotOK = 0, false

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req = req.WithContext(context.WithValue(req.Context(), oauth.ClaimsContext, tt.claims))
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			if rr.Code != tt.status {
				t.Errorf("status %d, want %d", rr.Code, tt.status)
			}
			if gotID != tt.want || gotOK != (tt.status == http.StatusOK) {
				t.Errorf("UserID = %d, %v", gotID, gotOK)
			}
		})
	}
}

func TestUserIDMissing(t *testing.T) {
	if _, ok := UserID(context.Background()); ok {
		t.Error("UserID reported a user on an empty context")
	}
}

func TestCookieAuthRedirectsToLogin(t *testing.T) {
	bs := oauth.NewBearerServer("secret", 0, nil, nil)
	h := CookieAuth(bs)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	req := httptest.NewRequest(http.MethodGet, "/app/matches.html?page=2", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: "expired"})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusTemporaryRedirect {
		t.Fatalf("status %d, want %d", rr.Code, http.StatusTemporaryRedirect)
	}
	location := rr.Header().Get("Location")
	if !strings.HasPrefix(location, "/login?goto=") || !strings.Contains(location, "matches.html") {
		t.Errorf("Location = %q", location)
	}
}

func TestCookieAuthPassesValidToken(t *testing.T) {
	bs := oauth.NewBearerServer("secret", 0, nil, nil)
	var gotAuth string
	h := CookieAuth(bs)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte("page"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/app/index.html", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: "abc"})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK || rr.Body.String() != "page" {
		t.Errorf("response = %d %q", rr.Code, rr.Body.String())
	}
	if gotAuth != "Bearer abc" {
		t.Errorf("Authorization = %q", gotAuth)
	}
}

func TestSetTokenCookies(t *testing.T) {
	rr := httptest.NewRecorder()
	SetTokenCookies(rr, httpx.TokenResponse{AccessToken: "a", RefreshToken: "r", ExpiresIn: 60})

	cookies := rr.Result().Cookies()
	if len(cookies) != 2 {
		t.Fatalf("got %d cookies, want 2", len(cookies))
	}
	for _, c := range cookies {
		if !c.HttpOnly || c.Path != "/" {
			t.Errorf("cookie %s: HttpOnly %v, Path %q", c.Name, c.HttpOnly, c.Path)
		}
	}
	if cookies[0].Name != "access_token" || cookies[0].Value != "a" || cookies[0].MaxAge != 60 {
		t.Errorf("access cookie = %+v", cookies[0])
	}
}
