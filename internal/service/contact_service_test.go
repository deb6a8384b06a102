package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/folio/internal/db"
	"github.com/folio/internal/notify"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type recordingSender struct {
	sent []notify.Message
	err  error
}

func (r *recordingSender) Send(_ context.Context, msg notify.Message) error {
	r.sent = append(r.sent, msg)
	return r.err
}

func TestValidateContactFormReportsAllFields(t *testing.T) {
	errs := ValidateContactForm(ContactForm{Name: "A", Email: "bad", Subject: "Hi", Message: "short"})

	want := map[string]string{
		"name":    "Name must be at least 2 characters",
		"email":   "Please enter a valid email address",
		"subject": "Subject must be at least 5 characters",
		"message": "Message must be at least 10 characters",
	}
	if len(errs) != len(want) {
		t.Fatalf("expected %d errors, got %v", len(want), errs)
	}
	for field, msg := range want {
		if errs[field] != msg {
			t.Fatalf("field %s: expected %q, got %q", field, msg, errs[field])
		}
	}

	empty := ValidateContactForm(ContactForm{Name: "  ", Subject: "", Message: "\n"})
	if empty["name"] != "Name is required" || empty["email"] != "Email is required" ||
		empty["subject"] != "Subject is required" || empty["message"] != "Message is required" {
		t.Fatalf("unexpected required errors: %v", empty)
	}
}

func TestValidateContactFormAcceptsValidInput(t *testing.T) {
	form := ContactForm{
		Name:    "Jane Doe",
		Email:   "jane@x.com",
		Subject: "Project Inquiry",
		Message: "I would like to discuss a project with you.",
	}
	if errs := ValidateContactForm(form); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}

	form.Email = "jane doe@x.com"
	if errs := ValidateContactForm(form); errs["email"] == "" {
		t.Fatal("email with whitespace should be rejected")
	}
	form.Email = "jane@localhost"
	if errs := ValidateContactForm(form); errs["email"] == "" {
		t.Fatal("email without a dot in the domain should be rejected")
	}
}

func TestValidateContactFormUnicodeEdges(t *testing.T) {
	valid := ContactForm{Name: "Ada", Email: "ada@example.com", Subject: "Hello", Message: "Long enough message"}

	nbsp := valid
	nbsp.Email = "jane\u00a0x@example.com"
	if errs := ValidateContactForm(nbsp); errs["email"] == "" {
		t.Fatal("expected non-breaking space in email to be rejected")
	}

	// 表情符号占两个 UTF-16 码元
	short := valid
	short.Name = "\U0001F600"
	if errs := ValidateContactForm(short); errs["name"] != "" {
		t.Fatalf("expected surrogate pair to count as two characters, got %q", errs["name"])
	}
}

func TestContactSubmitPersistsAndNotifies(t *testing.T) {
	gdb := setupContentTestDB(t, true)
	sender := &recordingSender{}
	svc := NewContactService(gdb, sender, "owner@example.com", nil)

	result := svc.Submit(context.Background(), ContactForm{
		Name:    "Jane Doe",
		Email:   "jane@x.com",
		Subject: "Project Inquiry",
		Message: "I would like to discuss a project with you.",
	})
	if !result.Success {
		t.Fatalf("expected success, got %+v", result)
	}
	want := "Thank you, Jane Doe! Your message has been sent successfully. I'll get back to you within 24 hours."
	if result.Message != want {
		t.Fatalf("unexpected message: %q", result.Message)
	}

	var stored []db.ContactMessage
	gdb.Find(&stored)
	if len(stored) != 1 || stored[0].Status != db.MessageStatusUnread || stored[0].Subject != "Project Inquiry" {
		t.Fatalf("unexpected stored messages: %+v", stored)
	}
	if len(sender.sent) != 1 || sender.sent[0].ReplyTo != "jane@x.com" {
		t.Fatalf("expected one notification replying to visitor, got %+v", sender.sent)
	}
}

func TestContactSubmitServerValidation(t *testing.T) {
	svc := NewContactService(setupContentTestDB(t, true), nil, "", nil)
	ctx := context.Background()

	missing := svc.Submit(ctx, ContactForm{Name: "Jane", Email: "jane@x.com", Subject: "Hello there"})
	if missing.Success || missing.Message != "All fields are required." {
		t.Fatalf("unexpected result for missing field: %+v", missing)
	}

	bad := svc.Submit(ctx, ContactForm{Name: "Jane", Email: "jane@", Subject: "Hello there", Message: "long enough message"})
	if bad.Success || bad.Message != "Please provide a valid email address." {
		t.Fatalf("unexpected result for bad email: %+v", bad)
	}
}

func TestContactSubmitNotificationFailureStillSucceeds(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	sender := &recordingSender{err: errors.New("resend down")}
	svc := NewContactService(setupContentTestDB(t, true), sender, "owner@example.com", zap.New(core))

	result := svc.Submit(context.Background(), ContactForm{
		Name: "Jane Doe", Email: "jane@x.com", Subject: "Project Inquiry", Message: "I would like to discuss a project.",
	})
	if !result.Success {
		t.Fatalf("notification failure must not fail submission: %+v", result)
	}
	if logs.FilterMessage("Contact notification failed").Len() != 1 {
		t.Fatalf("expected notification failure to be logged, got %v", logs.All())
	}
}

func TestContactSubmitPersistenceFailure(t *testing.T) {
	svc := NewContactService(setupContentTestDB(t, false), nil, "", nil)

	result := svc.Submit(context.Background(), ContactForm{
		Name: "Jane Doe", Email: "jane@x.com", Subject: "Project Inquiry", Message: "I would like to discuss a project.",
	})
	if result.Success || result.Message != "There was an issue sending your message. Please try again." {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestContactMessagesAdmin(t *testing.T) {
	gdb := setupContentTestDB(t, true)
	svc := NewContactService(gdb, nil, "", nil)
	ctx := context.Background()

	for _, subject := range []string{"first subject", "second subject"} {
		if r := svc.Submit(ctx, ContactForm{Name: "Jo", Email: "jo@x.io", Subject: subject, Message: "hello there friend"}); !r.Success {
			t.Fatalf("submit failed: %+v", r)
		}
	}

	items, err := svc.ListMessages(ctx, "")
	if err != nil {
		t.Fatalf("list messages failed: %v", err)
	}
	if len(items) != 2 || !strings.HasPrefix(items[0].Subject, "second") {
		t.Fatalf("expected newest first, got %+v", items)
	}

	count, err := svc.UnreadCount(ctx)
	if err != nil || count != 2 {
		t.Fatalf("expected 2 unread, got %d, %v", count, err)
	}

	updated, err := svc.SetStatus(ctx, items[0].ID, db.MessageStatusReplied)
	if err != nil || updated.Status != db.MessageStatusReplied {
		t.Fatalf("set status failed: %+v, %v", updated, err)
	}
	if _, err := svc.SetStatus(ctx, items[0].ID, "spam"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.SetStatus(ctx, 999, db.MessageStatusRead); !errors.Is(err, ErrMessageNotFound) {
		t.Fatalf("expected ErrMessageNotFound, got %v", err)
	}

	replied, err := svc.ListMessages(ctx, db.MessageStatusReplied)
	if err != nil || len(replied) != 1 {
		t.Fatalf("expected one replied message, got %+v, %v", replied, err)
	}

	if err := svc.DeleteMessage(ctx, items[1].ID); err != nil {
		t.Fatalf("delete message failed: %v", err)
	}
	if err := svc.DeleteMessage(ctx, items[1].ID); !errors.Is(err, ErrMessageNotFound) {
		t.Fatalf("expected ErrMessageNotFound, got %v", err)
	}
}
