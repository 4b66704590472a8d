package mail

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"net/smtp"
	"strings"
	"time"

	"github.com/bluelog/core/internal/config"
)

const resendEndpoint = "https://api.resend.com/emails"

// Config holds mail provider settings.
type Config struct {
	Enable        bool
	Host          string
	Port          int
	User          string
	Pass          string
	From          string
	ResendKey     string
	SubjectPrefix string
}

// FromAppConfig maps the application mail settings.
func FromAppConfig(cfg config.MailConfig) Config {
	return Config{
		Enable:        cfg.Enable,
		Host:          cfg.Host,
		Port:          cfg.Port,
		User:          cfg.User,
		Pass:          cfg.Pass,
		From:          cfg.From,
		ResendKey:     cfg.ResendKey,
		SubjectPrefix: cfg.SubjectPrefix,
	}
}

// Message is a single email to send.
type Message struct {
	To      []string
	Subject string
	HTML    string
}

// Sender sends emails via SMTP or Resend.
type Sender struct {
	cfg      Config
	endpoint string
	client   *http.Client
}

func New(cfg Config) *Sender {
	return &Sender{
		cfg:      cfg,
		endpoint: resendEndpoint,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

// Enabled reports whether messages will actually be delivered.
func (s *Sender) Enabled() bool { return s.cfg.Enable }

// Send dispatches an email. Uses Resend if configured, otherwise SMTP.
func (s *Sender) Send(msg Message) error {
	if !s.cfg.Enable {
		return nil
	}
	if len(msg.To) == 0 {
		return fmt.Errorf("mail %q has no recipients", msg.Subject)
	}
	if prefix := strings.TrimSpace(s.cfg.SubjectPrefix); prefix != "" {
		msg.Subject = prefix + " " + msg.Subject
	}
	if s.cfg.ResendKey != "" {
		return s.sendResend(msg)
	}
	return s.sendSMTP(msg)
}

func (s *Sender) from() string {
	if s.cfg.From != "" {
		return s.cfg.From
	}
	return s.cfg.User
}

// sendSMTP sends via net/smtp.
func (s *Sender) sendSMTP(msg Message) error {
	port := s.cfg.Port
	if port == 0 {
		port = 587
	}
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, port)
	from := s.from()

	var body bytes.Buffer
	body.WriteString("MIME-Version: 1.0\r\n")
	body.WriteString(fmt.Sprintf("From: %s\r\n", from))
	body.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(msg.To, ", ")))
	body.WriteString(fmt.Sprintf("Subject: %s\r\n", msg.Subject))
	body.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	body.WriteString("\r\n")
	body.WriteString(msg.HTML)

	var auth smtp.Auth
	if s.cfg.User != "" {
		auth = smtp.PlainAuth("", s.cfg.User, s.cfg.Pass, s.cfg.Host)
	}
	return smtp.SendMail(addr, auth, envelopeAddress(from), msg.To, body.Bytes())
}

// sendResend sends via the Resend HTTP API.
func (s *Sender) sendResend(msg Message) error {
	payload, err := json.Marshal(map[string]interface{}{
		"from":    s.from(),
		"to":      msg.To,
		"subject": msg.Subject,
		"html":    msg.HTML,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.ResendKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		var errResp struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		return fmt.Errorf("resend error %d: %s", resp.StatusCode, errResp.Message)
	}
	return nil
}

// envelopeAddress strips a display name: "Name <a@b>" -> "a@b".
func envelopeAddress(from string) string {
	if i := strings.LastIndex(from, "<"); i >= 0 {
		if j := strings.LastIndex(from, ">"); j > i {
			return from[i+1 : j]
		}
	}
	return from
}

const newCommentTpl = `<!DOCTYPE html>
<html lang="en">
<body style="font-family:sans-serif;background:#f5f5f5;padding:20px">
<div style="max-width:600px;margin:0 auto;background:#fff;border-radius:8px;padding:24px">
  <p>New comment in post <i>{{.PostTitle}}</i>, click the link below to check:</p>
  <p><a href="{{.PostURL}}">{{.PostURL}}</a></p>
  <p><strong>{{.Author}}</strong> wrote:</p>
  <blockquote style="border-left:3px solid #ddd;margin:0;padding:0 12px;color:#555">{{.Body}}</blockquote>
  <p style="color:#999;font-size:12px">Do not reply this email. &copy;{{year}} {{.BlogTitle}}</p>
</div>
</body>
</html>`

const newReplyTpl = `<!DOCTYPE html>
<html lang="en">
<body style="font-family:sans-serif;background:#f5f5f5;padding:20px">
<div style="max-width:600px;margin:0 auto;background:#fff;border-radius:8px;padding:24px">
  <p>New reply for the comment you left in post <i>{{.PostTitle}}</i>, click the link below to check:</p>
  <p><a href="{{.PostURL}}">{{.PostURL}}</a></p>
  <p><strong>{{.Author}}</strong> replied:</p>
  <blockquote style="border-left:3px solid #ddd;margin:0;padding:0 12px;color:#555">{{.Body}}</blockquote>
  {{if .OriginalBody}}
  <p>Your comment:</p>
  <blockquote style="border-left:3px solid #ddd;margin:0;padding:0 12px;color:#999">{{.OriginalBody}}</blockquote>
  {{end}}
  <p style="color:#999;font-size:12px">Do not reply this email. &copy;{{year}} {{.BlogTitle}}</p>
</div>
</body>
</html>`

// CommentData fills the comment notification templates.
type CommentData struct {
	BlogTitle    string
	PostTitle    string
	PostURL      string
	Author       string
	Body         string
	OriginalBody string
}

func renderTemplate(tpl string, data interface{}) (string, error) {
	t, err := template.New("mail").Funcs(template.FuncMap{
		"year": func() int {
			return time.Now().Year()
		},
	}).Parse(tpl)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// SendNewComment tells the blog owner a comment awaits review.
func (s *Sender) SendNewComment(to string, data CommentData) error {
	html, err := renderTemplate(newCommentTpl, data)
	if err != nil {
		return err
	}
	return s.Send(Message{
		To:      []string{to},
		Subject: "New comment",
		HTML:    html,
	})
}

// SendNewReply tells a commenter someone answered them.
func (s *Sender) SendNewReply(to string, data CommentData) error {
	html, err := renderTemplate(newReplyTpl, data)
	if err != nil {
		return err
	}
	return s.Send(Message{
		To:      []string{to},
		Subject: "New reply",
		HTML:    html,
	})
}
