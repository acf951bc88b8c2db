package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const twilioBaseURL = "https://api.twilio.com"

// WhatsAppSender sends messages through the Twilio WhatsApp API.
type WhatsAppSender struct {
	accountSID string
	authToken  string
	fromNumber string
	baseURL    string
	client     *http.Client
}

func NewWhatsAppSender(accountSID, authToken, fromNumber string, timeout time.Duration) *WhatsAppSender {
	return &WhatsAppSender{
		accountSID: accountSID,
		authToken:  authToken,
		fromNumber: fromNumber,
		baseURL:    twilioBaseURL,
		client:     &http.Client{Timeout: timeout},
	}
}

type twilioResponse struct {
	Sid     string `json:"sid"`
	Status  string `json:"status"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// Send posts the message to Twilio and returns the message SID.
// The priority hint is not used; WhatsApp has no priority concept.
func (s *WhatsAppSender) Send(ctx context.Context, to, message, priority string) (string, error) {
	if to == "" {
		return "", fmt.Errorf("no recipient phone number")
	}

	form := url.Values{}
	form.Set("From", whatsappNumber(s.fromNumber))
	form.Set("To", whatsappNumber(to))
	form.Set("Body", message)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", s.baseURL, s.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to build twilio request: %w", err)
	}
	req.SetBasicAuth(s.accountSID, s.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send whatsapp message: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read twilio response: %w", err)
	}

	var twResp twilioResponse
	if err := json.Unmarshal(body, &twResp); err != nil {
		return "", fmt.Errorf("failed to parse twilio response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("twilio API error %d: %s", twResp.Code, twResp.Message)
	}
	if twResp.Sid == "" {
		return "", fmt.Errorf("twilio response missing message sid")
	}
	return twResp.Sid, nil
}

// whatsappNumber normalizes a phone number into Twilio's
// whatsapp:+E164 addressing.
func whatsappNumber(n string) string {
	if strings.HasPrefix(n, "whatsapp:") {
		return n
	}
	if !strings.HasPrefix(n, "+") {
		n = "+" + n
	}
	return "whatsapp:" + n
}
