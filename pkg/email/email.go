package email

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"net"
	"net/smtp"
	"strings"
	"time"

	"studio-inquiry-backend/config"
	"studio-inquiry-backend/internal/domain"
)

// SendFunc delivers one message; it must give up once ctx is done
type SendFunc func(ctx context.Context, addr string, a smtp.Auth, from string, to []string, msg []byte) error

// defaultSendTimeout bounds a delivery whose ctx carries no deadline
const defaultSendTimeout = 30 * time.Second

// EmailService notifies the studio of new inquiries via SMTP
type EmailService struct {
	host      string
	port      string
	username  string
	password  string
	fromEmail string
	toEmail   string
	send      SendFunc
}

// InquiryEmailData holds the data for inquiry notification emails
type InquiryEmailData struct {
	InquiryID      string
	SenderName     string
	SenderEmail    string
	ProjectDetails string
	ReceivedAt     string
}

// NewEmailService creates a new email service from SMTP configuration
func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{
		host:      cfg.SMTPHost,
		port:      cfg.SMTPPort,
		username:  cfg.SMTPUsername,
		password:  cfg.SMTPPassword,
		fromEmail: cfg.SMTPFromEmail,
		toEmail:   cfg.ContactEmailTo,
		send:      SendMail,
	}
}

// WithSender replaces the SMTP transport
func (s *EmailService) WithSender(send SendFunc) *EmailService {
	s.send = send
	return s
}

var inquiryEmailTemplate = template.Must(template.New("inquiry").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>New Project Inquiry</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #222; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #0b1a24; color: #06b6d4; padding: 20px; text-align: center; }
        .label { font-weight: bold; color: #555; }
        .details { background: white; padding: 15px; border-left: 4px solid #06b6d4; white-space: pre-wrap; }
        .footer { text-align: center; padding: 20px; color: #888; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header"><h1>New Project Inquiry</h1></div>
        <p><span class="label">From:</span> {{.SenderName}} ({{.SenderEmail}})</p>
        <p><span class="label">Received:</span> {{.ReceivedAt}}</p>
        <p class="label">Project details:</p>
        <div class="details">{{.ProjectDetails}}</div>
        <div class="footer">
            <p>Inquiry {{.InquiryID}} was submitted through the website contact form.</p>
            <p>Reply directly to this email to reach {{.SenderEmail}}.</p>
        </div>
    </div>
</body>
</html>`))

// NotifyInquiry sends a notification for a stored inquiry
func (s *EmailService) NotifyInquiry(ctx context.Context, inquiry *domain.ContactInquiry) error {
	if !s.IsConfigured() {
		return fmt.Errorf("email service is not configured")
	}

	msg, err := s.buildMessage(InquiryEmailData{
		InquiryID:      inquiry.ID.String(),
		SenderName:     inquiry.Name,
		SenderEmail:    inquiry.Email,
		ProjectDetails: inquiry.ProjectDetails,
		ReceivedAt:     inquiry.CreatedAt.Format(time.RFC1123),
	})
	if err != nil {
		return err
	}

	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	if err := s.send(ctx, addr, auth, s.fromEmail, []string{s.toEmail}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *EmailService) buildMessage(data InquiryEmailData) ([]byte, error) {
	var body bytes.Buffer
	if err := inquiryEmailTemplate.Execute(&body, data); err != nil {
		return nil, fmt.Errorf("failed to execute email template: %w", err)
	}

	// Header values are user supplied; strip CR/LF to prevent header injection
	subject := fmt.Sprintf("New inquiry from %s", headerSafe(data.SenderName))

	return []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Reply-To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		s.fromEmail,
		s.toEmail,
		headerSafe(data.SenderEmail),
		subject,
		body.String(),
	)), nil
}

// SendMail is smtp.SendMail with the dial and every exchange bound to ctx.
func SendMail(ctx context.Context, addr string, a smtp.Auth, from string, to []string, msg []byte) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultSendTimeout)
		defer cancel()
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	deadline, _ := ctx.Deadline()
	if err := conn.SetDeadline(deadline); err != nil {
		conn.Close()
		return err
	}
	// Unblock any pending read or write on cancellation
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		conn.Close()
		return err
	}
	c, err := smtp.NewClient(conn, host)
	if err != nil {
		conn.Close()
		return err
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: host, MinVersion: tls.VersionTLS12}); err != nil {
			return err
		}
	}
	if a != nil {
		if ok, _ := c.Extension("AUTH"); ok {
			if err := c.Auth(a); err != nil {
				return err
			}
		}
	}
	if err := c.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := c.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}

func headerSafe(v string) string {
	return strings.NewReplacer("\r", "", "\n", "").Replace(v)
}

// IsConfigured checks if the email service has valid SMTP configuration
func (s *EmailService) IsConfigured() bool {
	return s.host != "" && s.username != "" && s.password != "" && s.toEmail != ""
}
