package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"backend/internal/config"
)

// SMSClient posts messages to an HTTP SMS gateway. Like the mailer it
// runs as a logging mock when no gateway is configured.
type SMSClient struct {
	cfg    config.SMS
	client *http.Client
	mock   bool
}

func NewSMSClient(cfg config.SMS) *SMSClient {
	s := &SMSClient{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
		mock:   cfg.APIURL == "",
	}
	if s.mock {
		log.Println("[NOTIFY] [WARN] SMS_API_URL not set, SMS sender running in mock mode")
	}
	return s
}

type smsPayload struct {
	To     string `json:"to"`
	From   string `json:"from"`
	Body   string `json:"body"`
	APIKey string `json:"apiKey"`
}

// Send delivers one SMS. The gateway contract is a 2xx on acceptance;
// anything else is an error for the caller to log or propagate.
func (s *SMSClient) Send(to, body string) error {
	if s.mock {
		log.Printf("[NOTIFY] [INFO] mock SMS to=%s body=%q", to, body)
		return nil
	}

	payload, err := json.Marshal(smsPayload{
		To:     to,
		From:   s.cfg.Sender,
		Body:   body,
		APIKey: s.cfg.APIKey,
	})
	if err != nil {
		return err
	}

	resp, err := s.client.Post(s.cfg.APIURL, "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("send sms to %s: %w", to, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("send sms to %s: gateway returned %d", to, resp.StatusCode)
	}

	return nil
}
