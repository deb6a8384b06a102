package handler

import (
	"net/http"
	"testing"
)

func findCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestLoginRejectsMissingFields(t *testing.T) {
	gdb := setupHandlerTestDB(t)
	api := newTestAPI(t, gdb, Options{})
	r, _ := newTestEngine(api)

	for _, body := range []interface{}{
		map[string]string{"email": "", "password": "secret"},
		map[string]string{"email": "owner@example.com"},
		"not json",
	} {
		rec := doJSON(r, http.MethodPost, "/api/auth/login", body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for %v, got %d", body, rec.Code)
		}
		if got := decodeBody(t, rec)["error"]; got != "Email and password are required" {
			t.Fatalf("unexpected error message %v", got)
		}
	}
}

func TestLoginFailuresSetNoCookies(t *testing.T) {
	gdb := setupHandlerTestDB(t)
	api := newTestAPI(t, gdb, Options{})
	r, _ := newTestEngine(api)
	createTestAdmin(t, api)

	tests := []struct {
		name     string
		email    string
		password string
		status   int
		message  string
	}{
		{name: "wrong password", email: testAdminEmail, password: "nope-nope", status: http.StatusUnauthorized, message: "Invalid credentials"},
		{name: "unknown email", email: "ghost@example.com", password: testAdminPassword, status: http.StatusUnauthorized, message: "Invalid credentials"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(r, http.MethodPost, "/api/auth/login", map[string]string{"email": tt.email, "password": tt.password})
			if rec.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, rec.Code)
			}
			if got := decodeBody(t, rec)["error"]; got != tt.message {
				t.Fatalf("expected %q, got %v", tt.message, got)
			}
			if len(rec.Result().Cookies()) != 0 {
				t.Fatalf("expected no cookies on failure, got %v", rec.Result().Cookies())
			}
		})
	}
}

func TestLoginDeniesInactiveProfile(t *testing.T) {
	gdb := setupHandlerTestDB(t)
	api := newTestAPI(t, gdb, Options{})
	r, _ := newTestEngine(api)
	createTestAdmin(t, api)

	if err := gdb.Exec("UPDATE admin_profiles SET is_active = ?", false).Error; err != nil {
		t.Fatalf("failed to deactivate profile: %v", err)
	}

	rec := doJSON(r, http.MethodPost, "/api/auth/login", map[string]string{"email": testAdminEmail, "password": testAdminPassword})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if got := decodeBody(t, rec)["error"]; got != "Access denied" {
		t.Fatalf("unexpected error %v", got)
	}
}

func TestLoginSessionLogoutRoundTrip(t *testing.T) {
	gdb := setupHandlerTestDB(t)
	api := newTestAPI(t, gdb, Options{})
	r, _ := newTestEngine(api)
	createTestAdmin(t, api)

	rec := doJSON(r, http.MethodPost, "/api/auth/login", map[string]string{"email": "  OWNER@example.com ", "password": testAdminPassword})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["success"] != true {
		t.Fatalf("expected success, got %v", body)
	}
	user, _ := body["user"].(map[string]interface{})
	if user["email"] != testAdminEmail || user["name"] != "Site Owner" || user["role"] != "admin" {
		t.Fatalf("unexpected user payload %v", user)
	}

	cookies := rec.Result().Cookies()
	access := findCookie(cookies, accessCookieName)
	refresh := findCookie(cookies, refreshCookieName)
	if access == nil || refresh == nil {
		t.Fatalf("expected both auth cookies, got %v", cookies)
	}
	if !access.HttpOnly || !refresh.HttpOnly {
		t.Fatal("expected auth cookies to be HttpOnly")
	}
	if access.SameSite != http.SameSiteLaxMode {
		t.Fatalf("expected SameSite=Lax, got %v", access.SameSite)
	}
	if access.MaxAge != 3600 || refresh.MaxAge != 7*24*3600 {
		t.Fatalf("unexpected max-age access=%d refresh=%d", access.MaxAge, refresh.MaxAge)
	}

	rec = doJSON(r, http.MethodGet, "/api/auth/session", nil, cookies...)
	session := decodeBody(t, rec)
	if session["user"] == nil {
		t.Fatalf("expected session user, got %v", session)
	}

	rec = doJSON(r, http.MethodPost, "/api/auth/logout", nil, cookies...)
	if rec.Code != http.StatusOK || decodeBody(t, rec)["success"] != true {
		t.Fatalf("expected logout success, got %d %s", rec.Code, rec.Body.String())
	}
	cleared := findCookie(rec.Result().Cookies(), accessCookieName)
	if cleared == nil || cleared.MaxAge >= 0 {
		t.Fatalf("expected access cookie to be cleared, got %v", cleared)
	}

	// 旧令牌在会话撤销后不再有效
	rec = doJSON(r, http.MethodGet, "/api/auth/session", nil, cookies...)
	if decodeBody(t, rec)["user"] != nil {
		t.Fatalf("expected no user after logout, got %s", rec.Body.String())
	}
}

func TestSessionRenewsAccessFromRefreshToken(t *testing.T) {
	gdb := setupHandlerTestDB(t)
	api := newTestAPI(t, gdb, Options{})
	r, _ := newTestEngine(api)
	cookies := loginCookies(t, r, api)

	refresh := findCookie(cookies, refreshCookieName)
	rec := doJSON(r, http.MethodGet, "/api/auth/session", nil, refresh)
	if decodeBody(t, rec)["user"] == nil {
		t.Fatalf("expected refresh token to resolve a user, got %s", rec.Body.String())
	}
	if findCookie(rec.Result().Cookies(), accessCookieName) == nil {
		t.Fatal("expected a renewed access cookie")
	}
}

func TestCreateAdminGate(t *testing.T) {
	gdb := setupHandlerTestDB(t)
	api := newTestAPI(t, gdb, Options{BootstrapToken: "let-me-in"})
	r, _ := newTestEngine(api)

	rec := doJSON(r, http.MethodPost, "/api/auth/create-admin", map[string]string{"email": "first@example.com", "password": "long-enough"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing name, got %d", rec.Code)
	}
	if got := decodeBody(t, rec)["error"]; got != "Email, password, and name are required" {
		t.Fatalf("unexpected error %v", got)
	}

	first := map[string]string{"email": "first@example.com", "password": "long-enough", "name": "First"}
	rec = doJSON(r, http.MethodPost, "/api/auth/create-admin", first)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected first admin to be created, got %d %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["success"] != true || body["message"] != "Admin user created successfully" || body["userId"] == nil {
		t.Fatalf("unexpected body %v", body)
	}

	second := map[string]string{"email": "second@example.com", "password": "long-enough", "name": "Second"}
	rec = doJSON(r, http.MethodPost, "/api/auth/create-admin", second)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 once an admin exists, got %d", rec.Code)
	}

	req := doJSONWithHeader(r, "/api/auth/create-admin", second, bootstrapHeader, "wrong")
	if req.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for wrong bootstrap token, got %d", req.Code)
	}
	req = doJSONWithHeader(r, "/api/auth/create-admin", second, bootstrapHeader, "let-me-in")
	if req.Code != http.StatusOK {
		t.Fatalf("expected bootstrap token to allow creation, got %d %s", req.Code, req.Body.String())
	}
	req = doJSONWithHeader(r, "/api/auth/create-admin", second, bootstrapHeader, "let-me-in")
	if req.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate email, got %d", req.Code)
	}

	short := map[string]string{"email": "third@example.com", "password": "short", "name": "Third"}
	req = doJSONWithHeader(r, "/api/auth/create-admin", short, bootstrapHeader, "let-me-in")
	if req.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for short password, got %d", req.Code)
	}
}

func TestCreateAdminAllowedForSignedInAdmin(t *testing.T) {
	gdb := setupHandlerTestDB(t)
	api := newTestAPI(t, gdb, Options{})
	r, _ := newTestEngine(api)
	cookies := loginCookies(t, r, api)

	rec := doJSON(r, http.MethodPost, "/api/auth/create-admin",
		map[string]string{"email": "teammate@example.com", "password": "long-enough", "name": "Teammate"}, cookies...)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestLoginPageOffersSetupOnlyBeforeFirstAdmin(t *testing.T) {
	gdb := setupHandlerTestDB(t)
	api := newTestAPI(t, gdb, Options{})
	r, stub := newTestEngine(api)

	doJSON(r, http.MethodGet, "/superadmin/login", nil)
	_, data := stub.last()
	if data["setupOpen"] != true {
		t.Fatalf("expected setup to be offered, got %v", data["setupOpen"])
	}

	doJSON(r, http.MethodPost, "/api/auth/create-admin",
		map[string]string{"email": "first@example.com", "password": "long-enough", "name": "First"})
	doJSON(r, http.MethodGet, "/superadmin/login", nil)
	_, data = stub.last()
	if data["setupOpen"] != false {
		t.Fatalf("expected setup to be closed, got %v", data["setupOpen"])
	}
}
