package handler

import (
	"net/http"
	"testing"

	"github.com/careerhub/careerhub/internal/auth"
)

func findCookie(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestAuth_Issue(t *testing.T) {
	tests := []struct {
		name         string
		production   bool
		wantSecure   bool
		wantSameSite http.SameSite
	}{
		{"development", false, false, http.SameSiteStrictMode},
		{"production", true, true, http.SameSiteNoneMode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var api *testAPI
			if tt.production {
				api = newTestAPI(t, withProduction())
			} else {
				api = newTestAPI(t)
			}

			rec := api.do(t, http.MethodPost, "/jwt", `{"email":"alice@example.com"}`)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
			}
			if got := rec.Body.String(); got != "{\"success\":true}\n" {
				t.Errorf("body = %q", got)
			}

			cookie := findCookie(rec.Result(), auth.CookieName)
			if cookie == nil {
				t.Fatal("token cookie not set")
			}
			if !cookie.HttpOnly {
				t.Error("cookie must be HttpOnly")
			}
			if cookie.Secure != tt.wantSecure {
				t.Errorf("Secure = %v, want %v", cookie.Secure, tt.wantSecure)
			}
			if cookie.SameSite != tt.wantSameSite {
				t.Errorf("SameSite = %v, want %v", cookie.SameSite, tt.wantSameSite)
			}
			if cookie.MaxAge <= 0 {
				t.Errorf("MaxAge = %d, want positive", cookie.MaxAge)
			}

			claims, err := api.tokens.Verify(cookie.Value)
			if err != nil {
				t.Fatalf("issued token does not verify: %v", err)
			}
			if claims.Email != "alice@example.com" {
				t.Errorf("claims email = %q", claims.Email)
			}

			// The issued cookie opens the owner's applications.
			list := api.do(t, http.MethodGet, "/applications?email=alice@example.com", "", cookie)
			if list.Code != http.StatusOK {
				t.Errorf("applications status = %d, want 200", list.Code)
			}

			if api.recorder.Snapshot().TokensIssued != 1 {
				t.Error("expected issued token to be counted")
			}
		})
	}
}

func TestAuth_IssueInvalid(t *testing.T) {
	api := newTestAPI(t)

	for _, body := range []string{`{}`, `{"email":""}`, `{"email":"not-an-email"}`, `{"email":"Alice <alice@example.com>"}`, `nope`} {
		rec := api.do(t, http.MethodPost, "/jwt", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, rec.Code)
		}
		if findCookie(rec.Result(), auth.CookieName) != nil {
			t.Errorf("body %s: cookie must not be set", body)
		}
	}
}

func TestAuth_Logout(t *testing.T) {
	api := newTestAPI(t, withProduction())

	rec := api.do(t, http.MethodPost, "/logout", "", api.tokenCookie(t, "alice@example.com"))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	cookie := findCookie(rec.Result(), auth.CookieName)
	if cookie == nil {
		t.Fatal("expected clearing cookie")
	}
	if cookie.Value != "" || cookie.MaxAge >= 0 {
		t.Errorf("cookie not cleared: value=%q maxAge=%d", cookie.Value, cookie.MaxAge)
	}
	if !cookie.Secure || cookie.SameSite != http.SameSiteNoneMode {
		t.Error("clearing cookie must match the attributes it was set with")
	}
}
