package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/folio/internal/db"
	"github.com/folio/internal/notify"
	"github.com/folio/internal/service"
	"github.com/folio/internal/view"
)

type recordingSender struct {
	sent []notify.Message
}

func (s *recordingSender) Send(_ context.Context, msg notify.Message) error {
	s.sent = append(s.sent, msg)
	return nil
}

func TestBuildHomeViewFallbacks(t *testing.T) {
	placeholders := view.MustDefaults().Placeholders

	tests := []struct {
		name    string
		page    service.PageData
		heading string
		sub     string
		title   string
		showCTA bool
		ctaURL  string
	}{
		{
			name:    "placeholders",
			page:    service.PageData{},
			heading: "Your Name",
			sub:     "Your Professional Title",
			title:   "Portfolio",
		},
		{
			name: "personal info",
			page: service.PageData{
				PersonalInfo: db.PersonalInfo{Name: "Ada Lovelace", Title: "Analyst", ResumeURL: "/cv.pdf"},
				SiteSettings: db.SiteSettings{SiteTitle: "Ada"},
			},
			heading: "Ada Lovelace",
			sub:     "Analyst",
			title:   "Ada",
			showCTA: true,
			ctaURL:  "/cv.pdf",
		},
		{
			name: "hero wins",
			page: service.PageData{
				Hero:         db.HeroSection{MainHeading: "Hi, I'm Ada", SubHeading: "Builder", CTAButtonText: "Get CV", CTAButtonURL: "/hero.pdf"},
				PersonalInfo: db.PersonalInfo{Name: "Ada Lovelace"},
			},
			heading: "Hi, I'm Ada",
			sub:     "Builder",
			title:   "Portfolio",
			showCTA: true,
			ctaURL:  "/hero.pdf",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildHomeView(tt.page, placeholders)
			if got.Heading != tt.heading || got.SubHeading != tt.sub || got.Title != tt.title {
				t.Fatalf("unexpected view heading=%q sub=%q title=%q", got.Heading, got.SubHeading, got.Title)
			}
			if got.ShowCTA != tt.showCTA || got.CTAURL != tt.ctaURL {
				t.Fatalf("unexpected cta show=%v url=%q", got.ShowCTA, got.CTAURL)
			}
			if got.ProfileImageURL == "" {
				t.Fatal("expected a profile image fallback")
			}
		})
	}
}

func TestShowHomeRendersDefaultsOnEmptyDatabase(t *testing.T) {
	gdb := setupHandlerTestDB(t)
	api := newTestAPI(t, gdb, Options{})
	r, stub := newTestEngine(api)

	rec := doJSON(r, http.MethodGet, "/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	name, data := stub.last()
	if name != "index.html" {
		t.Fatalf("expected index.html, got %q", name)
	}
	home, ok := data["home"].(homeView)
	if !ok {
		t.Fatalf("expected home view, got %T", data["home"])
	}
	if len(home.Page.Skills) != 6 || len(home.Page.Stats) != 6 {
		t.Fatalf("expected default skills and stats, got %d/%d", len(home.Page.Skills), len(home.Page.Stats))
	}
	if !strings.Contains(string(home.AboutHTML), "passionate professional") {
		t.Fatalf("expected default about content, got %q", home.AboutHTML)
	}
}

func postForm(r http.Handler, path string, values url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestContactFormRerendersOnClientRuleFailure(t *testing.T) {
	gdb := setupHandlerTestDB(t)
	api := newTestAPI(t, gdb, Options{})
	r, stub := newTestEngine(api)

	rec := postForm(r, "/contact", url.Values{
		"name":    {"A"},
		"email":   {"not-an-email"},
		"subject": {"Hi"},
		"message": {"short"},
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}

	_, data := stub.last()
	state, ok := data["contact"].(contactState)
	if !ok {
		t.Fatalf("expected contact state, got %T", data["contact"])
	}
	want := map[string]string{
		"name":    "Name must be at least 2 characters",
		"email":   "Please enter a valid email address",
		"subject": "Subject must be at least 5 characters",
		"message": "Message must be at least 10 characters",
	}
	for field, msg := range want {
		if state.Errors[field] != msg {
			t.Fatalf("expected %s error %q, got %q", field, msg, state.Errors[field])
		}
	}
	if state.Form.Email != "not-an-email" {
		t.Fatalf("expected submitted values to be kept, got %+v", state.Form)
	}

	var count int64
	gdb.Model(&db.ContactMessage{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected no stored messages, got %d", count)
	}
}

func TestContactFormSubmitsAndFlashesResult(t *testing.T) {
	gdb := setupHandlerTestDB(t)
	sender := &recordingSender{}
	api := newTestAPI(t, gdb, Options{Notifier: sender, ContactTo: "owner@example.com"})
	r, stub := newTestEngine(api)

	rec := postForm(r, "/contact", url.Values{
		"name":    {"Grace"},
		"email":   {"grace@example.com"},
		"subject": {"Project inquiry"},
		"message": {"Would love to work together."},
	})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/#contact" {
		t.Fatalf("expected redirect to /#contact, got %q", loc)
	}
	if len(sender.sent) != 1 || len(sender.sent[0].To) != 1 || sender.sent[0].To[0] != "owner@example.com" {
		t.Fatalf("expected one notification, got %+v", sender.sent)
	}

	var stored db.ContactMessage
	if err := gdb.First(&stored).Error; err != nil {
		t.Fatalf("expected stored message: %v", err)
	}
	if stored.Status != db.MessageStatusUnread {
		t.Fatalf("expected unread status, got %q", stored.Status)
	}

	cookies := rec.Result().Cookies()
	rec = doJSON(r, http.MethodGet, "/", nil, cookies...)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	_, data := stub.last()
	state := data["contact"].(contactState)
	if state.Result == nil || !state.Result.Success {
		t.Fatalf("expected flashed success result, got %+v", state.Result)
	}
	if !strings.HasPrefix(state.Result.Message, "Thank you, Grace!") {
		t.Fatalf("unexpected message %q", state.Result.Message)
	}
	if state.Form.Name != "" {
		t.Fatalf("expected form to be cleared on success, got %+v", state.Form)
	}

	// 闪存只显示一次
	rec = doJSON(r, http.MethodGet, "/", nil, rec.Result().Cookies()...)
	_, data = stub.last()
	if data["contact"].(contactState).Result != nil {
		t.Fatal("expected flash to be consumed")
	}
}

func TestContactJSONEndpoint(t *testing.T) {
	gdb := setupHandlerTestDB(t)
	api := newTestAPI(t, gdb, Options{})
	r, _ := newTestEngine(api)

	rec := doJSON(r, http.MethodPost, "/api/contact", map[string]string{"name": "Grace"})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	errs, _ := body["errors"].(map[string]interface{})
	if body["success"] != false || errs["email"] != "Email is required" {
		t.Fatalf("unexpected body %v", body)
	}

	rec = doJSON(r, http.MethodPost, "/api/contact", map[string]string{
		"name":    "Grace",
		"email":   "grace@example.com",
		"subject": "Project inquiry",
		"message": "Would love to work together.",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if decodeBody(t, rec)["success"] != true {
		t.Fatalf("expected success, got %s", rec.Body.String())
	}
}

func TestContactReportsPersistenceFailure(t *testing.T) {
	gdb := setupHandlerTestDB(t)
	api := newTestAPI(t, gdb, Options{})
	r, _ := newTestEngine(api)

	if err := gdb.Migrator().DropTable(&db.ContactMessage{}); err != nil {
		t.Fatalf("failed to drop table: %v", err)
	}

	rec := doJSON(r, http.MethodPost, "/api/contact", map[string]string{
		"name":    "Grace",
		"email":   "grace@example.com",
		"subject": "Project inquiry",
		"message": "Would love to work together.",
	})
	body := decodeBody(t, rec)
	if body["success"] != false || body["message"] != "There was an issue sending your message. Please try again." {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestContactFormFailureKeepsLongMessage(t *testing.T) {
	gdb := setupHandlerTestDB(t)
	api := newTestAPI(t, gdb, Options{})
	r, stub := newTestEngine(api)

	if err := gdb.Migrator().DropTable(&db.ContactMessage{}); err != nil {
		t.Fatalf("failed to drop table: %v", err)
	}

	message := strings.Repeat("I would like to talk. ", 200)
	rec := postForm(r, "/contact", url.Values{
		"name":    {"Grace"},
		"email":   {"grace@example.com"},
		"subject": {"Project inquiry"},
		"message": {message},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected failed submission to render in place, got %d", rec.Code)
	}

	_, data := stub.last()
	state := data["contact"].(contactState)
	if state.Result == nil || state.Result.Success {
		t.Fatalf("expected failure result, got %+v", state.Result)
	}
	if state.Form.Message != message {
		t.Fatalf("expected the message to be kept, got %d chars", len(state.Form.Message))
	}
}
