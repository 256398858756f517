package notify

import (
	"strings"
	"testing"
	"time"

	"backend/internal/config"
)

func mockSMTPConfig() config.SMTP {
	return config.SMTP{From: "no-reply@test"}
}

func mockSMSConfig() config.SMS {
	return config.SMS{Sender: "Test"}
}

func testNotifier() *Notifier {
	d := NewDispatcher(8)
	d.Start()
	return NewNotifier(NewMailer(mockSMTPConfig()), NewSMSClient(mockSMSConfig()), d,
		"http://localhost:5050", 10*time.Minute, time.Hour)
}

func TestMessageBodiesCarryTheirPayload(t *testing.T) {
	otpBody := buildOTPEmailBody("Asha", "123456", 10)
	if !strings.Contains(otpBody, "123456") {
		t.Fatal("expected OTP in email body")
	}
	if !strings.Contains(otpBody, "10 minutes") {
		t.Fatal("expected expiry in email body")
	}

	linkBody := buildVerificationEmailBody("Asha", "http://x/verify/tok")
	if !strings.Contains(linkBody, "http://x/verify/tok") {
		t.Fatal("expected verification link in email body")
	}

	resetBody := buildResetEmailBody("Asha", "http://x/reset/tok", 60)
	if !strings.Contains(resetBody, "http://x/reset/tok") {
		t.Fatal("expected reset link in email body")
	}

	smsBody := buildSMSOTPBody("654321")
	if !strings.Contains(smsBody, "654321") {
		t.Fatal("expected OTP in SMS body")
	}
}

func TestNotifierSynchronousSendsWithMocks(t *testing.T) {
	n := testNotifier()
	defer n.dispatch.Close()

	if err := n.SendResetEmail("a@x.com", "Asha", "tok"); err != nil {
		t.Fatalf("SendResetEmail returned error: %v", err)
	}
	if err := n.SendWelcomeEmail("a@x.com", "Asha"); err != nil {
		t.Fatalf("SendWelcomeEmail returned error: %v", err)
	}
}

func TestNotifierQueueSendsDoNotBlock(t *testing.T) {
	n := testNotifier()

	n.QueueEmailOTP("a@x.com", "Asha", "123456")
	n.QueueSMSOTP("+9771234567", "123456")
	n.QueueVerificationEmail("a@x.com", "Asha", "tok")
	n.QueueResetConfirmation("a@x.com", "Asha")

	n.dispatch.Close()
}
