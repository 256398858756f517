package notify

import (
	"fmt"
	"time"
)

// Notifier is what the handlers talk to. Queue* methods are
// fire-and-forget through the dispatcher; Send* methods are
// synchronous and their error reaches the HTTP response.
type Notifier struct {
	mail     *Mailer
	sms      *SMSClient
	dispatch *Dispatcher
	baseURL  string
	otpTTL   time.Duration
	resetTTL time.Duration
}

func NewNotifier(mail *Mailer, sms *SMSClient, dispatch *Dispatcher, baseURL string, otpTTL, resetTTL time.Duration) *Notifier {
	return &Notifier{
		mail:     mail,
		sms:      sms,
		dispatch: dispatch,
		baseURL:  baseURL,
		otpTTL:   otpTTL,
		resetTTL: resetTTL,
	}
}

func (n *Notifier) QueueEmailOTP(to, name, otp string) {
	body := buildOTPEmailBody(name, otp, int(n.otpTTL.Minutes()))
	n.dispatch.Enqueue("email OTP", func() error {
		return n.mail.Send(to, "Your FoodMandu verification code", body)
	})
}

func (n *Notifier) QueueSMSOTP(to, otp string) {
	body := buildSMSOTPBody(otp)
	n.dispatch.Enqueue("SMS OTP", func() error {
		return n.sms.Send(to, body)
	})
}

func (n *Notifier) QueueVerificationEmail(to, name, token string) {
	link := fmt.Sprintf("%s/api/auth/verify-email/%s", n.baseURL, token)
	body := buildVerificationEmailBody(name, link)
	n.dispatch.Enqueue("verification email", func() error {
		return n.mail.Send(to, "Verify your FoodMandu account", body)
	})
}

func (n *Notifier) QueueResetConfirmation(to, name string) {
	body := buildResetConfirmationBody(name)
	n.dispatch.Enqueue("reset confirmation email", func() error {
		return n.mail.Send(to, "Your FoodMandu password was changed", body)
	})
}

// SendResetEmail is synchronous: a provider outage must surface to the
// forgot-password caller as a server error.
func (n *Notifier) SendResetEmail(to, name, token string) error {
	link := fmt.Sprintf("%s/reset-password/%s", n.baseURL, token)
	body := buildResetEmailBody(name, link, int(n.resetTTL.Minutes()))
	return n.mail.Send(to, "Reset your FoodMandu password", body)
}

// SendWelcomeEmail is synchronous; the email-link verification path
// awaits it before responding.
func (n *Notifier) SendWelcomeEmail(to, name string) error {
	return n.mail.Send(to, "Welcome to FoodMandu!", buildWelcomeBody(name))
}
