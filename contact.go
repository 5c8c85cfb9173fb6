package main

import (
	"errors"
	"fmt"
	"net/http"
	"net/smtp"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mbabazielroy/portfolio/internal/config"
	"github.com/mbabazielroy/portfolio/internal/logging"
)

var errSMTPNotConfigured = errors.New("SMTP credentials not configured")

// contactForm is the HTMX contact form payload.
type contactForm struct {
	FullName string `form:"fullName" binding:"required,max=120"`
	Email    string `form:"email" binding:"required,email,max=254"`
	Message  string `form:"message" binding:"required,max=5000"`
}

// mailer delivers contact form submissions.
type mailer interface {
	Send(name, email, message string) error
}

type smtpMailer struct {
	host, port string
	user, pass string
	to         string
}

func newSMTPMailer(cfg *config.Config) *smtpMailer {
	to := cfg.ToEmail
	if to == "" {
		to = Contact.Email
	}
	return &smtpMailer{
		host: cfg.SMTPHost,
		port: cfg.SMTPPort,
		user: cfg.SMTPUser,
		pass: cfg.SMTPPass,
		to:   to,
	}
}

func (m *smtpMailer) Send(name, email, message string) error {
	if m.user == "" || m.pass == "" {
		return errSMTPNotConfigured
	}

	msg := m.compose(name, email, message)

	auth := smtp.PlainAuth("", m.user, m.pass, m.host)
	if err := smtp.SendMail(m.host+":"+m.port, auth, m.user, []string{m.to}, msg); err != nil {
		return fmt.Errorf("failed to send contact email: %w", err)
	}
	return nil
}

// headerSafe folds CR and LF into spaces so user input cannot add headers.
var headerSafe = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

func (m *smtpMailer) compose(name, email, message string) []byte {
	subject := fmt.Sprintf("Portfolio Contact: %s", headerSafe.Replace(name))
	body := fmt.Sprintf(`
New contact form submission from your portfolio:

Name: %s
Email: %s
Message:
%s

---
Sent from your portfolio contact form
`, name, email, message)

	return []byte("To: " + m.to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"From: " + m.user + "\r\n" +
		"Reply-To: " + headerSafe.Replace(email) + "\r\n" +
		"\r\n" +
		body + "\r\n")
}

// handleContact stores the submission first so nothing is lost when mail
// delivery is down, then emails it.
func (a *app) handleContact(c *gin.Context) {
	var form contactForm
	if err := c.ShouldBind(&form); err != nil {
		a.metrics.RecordContact("invalid")
		c.HTML(http.StatusOK, "contact-error.html", gin.H{
			"error": "Please fill in your name, a valid email, and a message.",
		})
		return
	}

	stored := true
	if _, err := a.store.SaveMessage(c.Request.Context(), form.FullName, form.Email, form.Message); err != nil {
		stored = false
		logging.Error().Err(err).Msg("failed to store contact message")
	}

	err := a.mailer.Send(form.FullName, form.Email, form.Message)
	switch {
	case err == nil:
		a.metrics.RecordContact("emailed")
		logging.Info().Str("from", a.store.HashIP(c.ClientIP())).Msg("contact email sent")
	case stored:
		a.metrics.RecordContact("stored")
		if !errors.Is(err, errSMTPNotConfigured) {
			logging.Warn().Err(err).Msg("contact email failed, message kept for the dashboard")
		}
	default:
		a.metrics.RecordContact("failed")
		logging.Error().Err(err).Msg("contact message lost")
		c.HTML(http.StatusOK, "contact-error.html", gin.H{
			"error": "Sorry, there was an error sending your message. Please try again later.",
		})
		return
	}

	c.HTML(http.StatusOK, "contact-success.html", gin.H{
		"success": "Thank you for your message! I'll get back to you soon.",
	})
}
