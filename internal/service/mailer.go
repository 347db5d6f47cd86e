package service

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/campusfound/lostfound-backend/internal/logger"
)

// MailerConfig holds the SMTP settings of the outbound mailer.
type MailerConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	From        string
	FrontendURL string
}

// Mailer sends the transactional emails of the platform. Every send is best
// effort: callers dispatch after their transaction commits, and a failure is
// logged and swallowed, never turned into a request error.
type Mailer struct {
	cfg     MailerConfig
	dialer  *gomail.Dialer
	enabled bool
}

// NewMailer creates the mailer. With no SMTP host configured the mailer runs
// in disabled mode and only logs what it would have sent.
func NewMailer(cfg MailerConfig) *Mailer {
	m := &Mailer{cfg: cfg}
	if cfg.Host != "" {
		m.dialer = gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
		m.enabled = true
	}
	return m
}

// send delivers one message, or logs it in disabled mode.
func (m *Mailer) send(to, subject, htmlBody string) error {
	if !m.enabled {
		if logger.Log != nil {
			logger.Log.WithFields(map[string]interface{}{
				"to":      to,
				"subject": subject,
			}).Info("mailer disabled, skipping email")
		}
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("mailer: send to %s: %w", to, err)
	}

	return nil
}

// SendVerificationEmail delivers the account activation link.
func (m *Mailer) SendVerificationEmail(to, name, token string) error {
	link := fmt.Sprintf("%s/verify-email/%s", m.cfg.FrontendURL, token)
	body := fmt.Sprintf(`
		<h2>Welcome to Campus Lost &amp; Found, %s!</h2>
		<p>Please confirm your email address to activate your account:</p>
		<p><a href="%s">Verify my email</a></p>
		<p>The link expires in 24 hours. If you did not register, you can ignore this email.</p>
	`, name, link)

	return m.send(to, "Verify your email address", body)
}

// SendWelcomeEmail delivers the post-verification greeting.
func (m *Mailer) SendWelcomeEmail(to, name string) error {
	body := fmt.Sprintf(`
		<h2>You're all set, %s!</h2>
		<p>Your account is verified. You can now report lost and found items and submit claims.</p>
	`, name)

	return m.send(to, "Welcome to Campus Lost & Found", body)
}

// SendClaimReceivedEmail tells an item owner that a claim came in.
func (m *Mailer) SendClaimReceivedEmail(to, itemTitle string) error {
	body := fmt.Sprintf(`
		<h2>New claim on your found item</h2>
		<p>Someone submitted an ownership claim for <strong>%s</strong>.
		An administrator will review it shortly.</p>
	`, itemTitle)

	return m.send(to, "New claim on your item", body)
}

// SendClaimApprovedEmail tells a claimant their claim went through.
func (m *Mailer) SendClaimApprovedEmail(to, name, itemTitle string) error {
	body := fmt.Sprintf(`
		<h2>Good news, %s!</h2>
		<p>Your claim for <strong>%s</strong> has been approved.
		Please check the item's contact details to arrange the pickup.</p>
	`, name, itemTitle)

	return m.send(to, "Your claim was approved", body)
}

// SendClaimRejectedEmail tells a claimant their claim was declined.
func (m *Mailer) SendClaimRejectedEmail(to, name, itemTitle string, notes string) error {
	reason := ""
	if notes != "" {
		reason = fmt.Sprintf("<p>Reviewer notes: %s</p>", notes)
	}
	body := fmt.Sprintf(`
		<h2>Claim update</h2>
		<p>Sorry %s, your claim for <strong>%s</strong> was not approved.</p>
		%s
	`, name, itemTitle, reason)

	return m.send(to, "Your claim was not approved", body)
}

// SendPickupDetailsEmail tells a marketplace winner where to collect the item.
func (m *Mailer) SendPickupDetailsEmail(to, name, itemTitle, pickupLocation string) error {
	body := fmt.Sprintf(`
		<h2>You got it, %s!</h2>
		<p>You were first to claim <strong>%s</strong> on the marketplace.</p>
		<p>Pickup location: <strong>%s</strong></p>
	`, name, itemTitle, pickupLocation)

	return m.send(to, "Marketplace item claimed", body)
}
