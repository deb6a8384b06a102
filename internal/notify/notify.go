package notify

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"
)

// Message 是一封站内通知邮件。
type Message struct {
	To      []string
	Subject string
	HTML    string
	ReplyTo string
}

// Sender 发送通知邮件，联系表单提交后由服务层调用。
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// ResendSender 通过 Resend API 投递邮件。
type ResendSender struct {
	client *resend.Client
	from   string
	log    *zap.Logger
}

// NewResendSender 使用 API Key 与默认发件人构造 ResendSender。
func NewResendSender(apiKey, from string, log *zap.Logger) *ResendSender {
	if log == nil {
		log = zap.NewNop()
	}
	return &ResendSender{client: resend.NewClient(apiKey), from: from, log: log}
}

// Send 发送单封邮件。
func (s *ResendSender) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return fmt.Errorf("resend send: no recipients")
	}
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
	}
	if msg.ReplyTo != "" {
		params.ReplyTo = msg.ReplyTo
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		s.log.Error("Resend send failed", zap.Error(err), zap.Strings("to", msg.To), zap.String("subject", msg.Subject))
		return fmt.Errorf("resend send failed: %w", err)
	}
	s.log.Info("Resend sent", zap.String("message_id", sent.Id), zap.String("subject", msg.Subject))
	return nil
}

// NoopSender 在未配置 Resend 时使用，只记录日志。
type NoopSender struct {
	log *zap.Logger
}

// NewNoopSender 构造 NoopSender
func NewNoopSender(log *zap.Logger) *NoopSender {
	if log == nil {
		log = zap.NewNop()
	}
	return &NoopSender{log: log}
}

// Send 不投递，仅记录主题。
func (s *NoopSender) Send(_ context.Context, msg Message) error {
	s.log.Debug("Notification skipped", zap.String("subject", msg.Subject), zap.Strings("to", msg.To))
	return nil
}

// ContactSubmission 是渲染通知邮件所需的留言字段。
type ContactSubmission struct {
	Name     string
	Email    string
	Subject  string
	Message  string
	Received time.Time
}

// ContactMessage 把访客留言渲染成发给站长的通知邮件，回复地址指向访客。
func ContactMessage(to string, sub ContactSubmission) Message {
	var b strings.Builder
	b.WriteString("<h2>New contact message</h2>")
	fmt.Fprintf(&b, "<p><strong>From:</strong> %s &lt;%s&gt;</p>", html.EscapeString(sub.Name), html.EscapeString(sub.Email))
	fmt.Fprintf(&b, "<p><strong>Subject:</strong> %s</p>", html.EscapeString(sub.Subject))
	if !sub.Received.IsZero() {
		fmt.Fprintf(&b, "<p><strong>Received:</strong> %s</p>", sub.Received.UTC().Format(time.RFC1123))
	}
	fmt.Fprintf(&b, "<p>%s</p>", strings.ReplaceAll(html.EscapeString(sub.Message), "\n", "<br>"))

	return Message{
		To:      []string{to},
		Subject: "Portfolio contact: " + sub.Subject,
		HTML:    b.String(),
		ReplyTo: sub.Email,
	}
}
