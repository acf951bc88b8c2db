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

	"taskreminder/model"
)

const pushoverBaseURL = "https://api.pushover.net"

// PushoverSender sends push notifications through the Pushover API.
type PushoverSender struct {
	apiToken string
	userKey  string
	baseURL  string
	client   *http.Client
}

func NewPushoverSender(apiToken, userKey string, timeout time.Duration) *PushoverSender {
	return &PushoverSender{
		apiToken: apiToken,
		userKey:  userKey,
		baseURL:  pushoverBaseURL,
		client:   &http.Client{Timeout: timeout},
	}
}

type pushoverResponse struct {
	Status  int      `json:"status"`
	Request string   `json:"request"`
	Errors  []string `json:"errors"`
}

// Send posts the message to Pushover. For this provider the destination
// is a Pushover user key; when empty the configured key is used.
// High-priority tasks map to Pushover priority 1, everything else to 0.
func (s *PushoverSender) Send(ctx context.Context, to, message, priority string) (string, error) {
	user := to
	if user == "" {
		user = s.userKey
	}

	pushPriority := "0"
	if priority == model.PriorityHigh {
		pushPriority = "1"
	}

	form := url.Values{}
	form.Set("token", s.apiToken)
	form.Set("user", user)
	form.Set("message", message)
	form.Set("title", "Task Reminder")
	form.Set("priority", pushPriority)

	endpoint := s.baseURL + "/1/messages.json"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to build pushover request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send pushover message: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read pushover response: %w", err)
	}

	var poResp pushoverResponse
	if err := json.Unmarshal(body, &poResp); err != nil {
		return "", fmt.Errorf("failed to parse pushover response: %w", err)
	}

	if resp.StatusCode != http.StatusOK || poResp.Status != 1 {
		if len(poResp.Errors) > 0 {
			return "", fmt.Errorf("pushover API error: %s", strings.Join(poResp.Errors, "; "))
		}
		return "", fmt.Errorf("pushover API error: status %d", resp.StatusCode)
	}
	return poResp.Request, nil
}
