package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf16"

	"github.com/folio/internal/db"
	"github.com/folio/internal/notify"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 空白按 Unicode 计，含不换行空格与 BOM
var emailPattern = regexp.MustCompile(`^[^\s\p{Z}\x{FEFF}@]+@[^\s\p{Z}\x{FEFF}@]+\.[^\s\p{Z}\x{FEFF}@]+$`)

// ErrMessageNotFound 在指定留言不存在时返回
var ErrMessageNotFound = errors.New("contact message not found")

const (
	msgAllFieldsRequired = "All fields are required."
	msgInvalidEmail      = "Please provide a valid email address."
	msgSubmitFailed      = "There was an issue sending your message. Please try again."
)

// ContactForm 是访客提交的联系表单。
type ContactForm struct {
	Name    string `json:"name" form:"name"`
	Email   string `json:"email" form:"email"`
	Subject string `json:"subject" form:"subject"`
	Message string `json:"message" form:"message"`
}

// ContactResult 是提交结果，直接回显给访客。
type ContactResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ValidateContactForm 按表单规则逐字段校验，返回字段名到提示语的映射；
// 全部通过时返回空映射。
func ValidateContactForm(form ContactForm) map[string]string {
	errs := make(map[string]string)

	name := strings.TrimSpace(form.Name)
	switch {
	case name == "":
		errs["name"] = "Name is required"
	case textLength(name) < 2:
		errs["name"] = "Name must be at least 2 characters"
	}

	switch {
	case strings.TrimSpace(form.Email) == "":
		errs["email"] = "Email is required"
	case !emailPattern.MatchString(form.Email):
		errs["email"] = "Please enter a valid email address"
	}

	subject := strings.TrimSpace(form.Subject)
	switch {
	case subject == "":
		errs["subject"] = "Subject is required"
	case textLength(subject) < 5:
		errs["subject"] = "Subject must be at least 5 characters"
	}

	message := strings.TrimSpace(form.Message)
	switch {
	case message == "":
		errs["message"] = "Message is required"
	case textLength(message) < 10:
		errs["message"] = "Message must be at least 10 characters"
	}

	return errs
}

// textLength 按 UTF-16 码元计长度，与浏览器端的计数一致。
func textLength(s string) int {
	return len(utf16.Encode([]rune(s)))
}

// ContactService 负责留言的接收、通知与后台管理。
type ContactService struct {
	db     *gorm.DB
	sender notify.Sender
	to     string
	log    *zap.Logger
	now    func() time.Time
}

// NewContactService 构造 ContactService；to 为空时不发送通知。
func NewContactService(gdb *gorm.DB, sender notify.Sender, to string, log *zap.Logger) *ContactService {
	if sender == nil {
		sender = notify.NewNoopSender(log)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ContactService{db: gdb, sender: sender, to: strings.TrimSpace(to), log: log, now: time.Now}
}

// Submit 服务端复核后落库并通知站长。
// 落库失败视为提交失败；通知失败只记录日志，不影响结果。
func (s *ContactService) Submit(ctx context.Context, form ContactForm) ContactResult {
	if form.Name == "" || form.Email == "" || form.Subject == "" || form.Message == "" {
		return ContactResult{Success: false, Message: msgAllFieldsRequired}
	}
	if !emailPattern.MatchString(form.Email) {
		return ContactResult{Success: false, Message: msgInvalidEmail}
	}

	msg := db.ContactMessage{
		Name:    strings.TrimSpace(form.Name),
		Email:   strings.TrimSpace(form.Email),
		Subject: strings.TrimSpace(form.Subject),
		Message: strings.TrimSpace(form.Message),
		Status:  db.MessageStatusUnread,
	}
	if err := s.db.WithContext(ctx).Create(&msg).Error; err != nil {
		s.log.Error("Failed to store contact message", zap.Error(err), zap.String("email", msg.Email))
		return ContactResult{Success: false, Message: msgSubmitFailed}
	}

	if s.to != "" {
		note := notify.ContactMessage(s.to, notify.ContactSubmission{
			Name:     msg.Name,
			Email:    msg.Email,
			Subject:  msg.Subject,
			Message:  msg.Message,
			Received: s.now(),
		})
		if err := s.sender.Send(ctx, note); err != nil {
			s.log.Warn("Contact notification failed", zap.Error(err), zap.Uint("message_id", msg.ID))
		}
	}

	return ContactResult{
		Success: true,
		Message: fmt.Sprintf("Thank you, %s! Your message has been sent successfully. I'll get back to you within 24 hours.", msg.Name),
	}
}

// ListMessages 按创建时间倒序返回留言，status 非空时按状态过滤。
func (s *ContactService) ListMessages(ctx context.Context, status string) ([]db.ContactMessage, error) {
	query := s.db.WithContext(ctx).Model(&db.ContactMessage{})
	if status = strings.TrimSpace(status); status != "" {
		query = query.Where("status = ?", status)
	}

	var items []db.ContactMessage
	if err := query.Order("created_at DESC").Order("id DESC").Find(&items).Error; err != nil {
		if db.IsMissingTable(err) {
			return []db.ContactMessage{}, nil
		}
		return nil, fmt.Errorf("list contact messages: %w", err)
	}
	if items == nil {
		items = []db.ContactMessage{}
	}
	return items, nil
}

// SetStatus 更新留言处理状态
func (s *ContactService) SetStatus(ctx context.Context, id uint, status string) (*db.ContactMessage, error) {
	status = strings.TrimSpace(status)
	valid := false
	for _, candidate := range db.MessageStatuses {
		if candidate == status {
			valid = true
			break
		}
	}
	if !valid {
		return nil, fmt.Errorf("%w: status must be one of %s", ErrInvalidInput, strings.Join(db.MessageStatuses, ", "))
	}

	result := s.db.WithContext(ctx).Model(&db.ContactMessage{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return nil, fmt.Errorf("update contact message: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrMessageNotFound
	}

	var msg db.ContactMessage
	if err := s.db.WithContext(ctx).First(&msg, id).Error; err != nil {
		return nil, fmt.Errorf("reload contact message: %w", err)
	}
	return &msg, nil
}

// DeleteMessage 删除留言
func (s *ContactService) DeleteMessage(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&db.ContactMessage{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete contact message: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrMessageNotFound
	}
	return nil
}

// UnreadCount 返回未读留言数量，表不存在时为 0。
func (s *ContactService) UnreadCount(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&db.ContactMessage{}).Where("status = ?", db.MessageStatusUnread).Count(&count).Error
	if err != nil {
		if db.IsMissingTable(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("count unread messages: %w", err)
	}
	return count, nil
}
